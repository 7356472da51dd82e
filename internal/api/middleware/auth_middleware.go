package middleware

import (
	"net/http"

	"github.com/RoyceAzure/lab/qkart/internal/service"
	"github.com/RoyceAzure/lab/qkart/internal/util"
	"github.com/RoyceAzure/rj/api"
	er "github.com/RoyceAzure/rj/util/rj_error"
)

// 驗證 ctx 是否有使用者, 沒有時回應 AuthPayloadMiddleware 記錄的失敗原因
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if util.GetUserFromContext(ctx) != nil {
			next.ServeHTTP(w, r)
			return
		}

		err := util.GetAuthErrorFromContext(ctx)
		if anaErr, ok := err.(*er.AnaError); ok {
			api.ErrorJSON(w, int(anaErr.Code), anaErr, er.ErrStrMap[anaErr.Code])
			return
		}
		api.ErrorJSON(w, int(er.UnauthenticatedCode), er.New(er.UnauthenticatedCode, service.ErrPleaseAuthenticate.Error()), er.ErrStrMap[er.UnauthenticatedCode])
	})
}
