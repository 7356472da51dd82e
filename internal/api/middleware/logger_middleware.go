package middleware

import (
	"net/http"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/util"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type StatusRecoder struct {
	http.ResponseWriter
	status int
}

func (w *StatusRecoder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Status 沒有呼叫過 WriteHeader 時即為 200
func (w *StatusRecoder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// 記錄request 請求
// 需放在 AuthPayloadMiddleware 之後才取得到使用者, 並包在 RecoverMiddleware 外層才記錄得到 panic 的 500
func LoggerMiddleware(logger *zerolog.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = &log.Logger
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recoder := &StatusRecoder{
				ResponseWriter: w,
			}

			next.ServeHTTP(recoder, r)

			userID := "unknown"
			if user := util.GetUserFromContext(r.Context()); user != nil {
				userID = user.ID
			}

			event := logger.Info()
			if recoder.Status() >= http.StatusInternalServerError {
				event = logger.Error()
			}
			event.
				Str("request_id", util.GetRequestIDFromContext(r.Context())).
				Str("user_id", userID).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Int("status", recoder.Status()).
				Dur("latency", time.Since(start)).
				Msg("request completed")
		})
	}
}
