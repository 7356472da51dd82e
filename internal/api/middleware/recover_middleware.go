package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/RoyceAzure/lab/qkart/internal/util"
	"github.com/RoyceAzure/rj/api"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/rs/zerolog/log"
)

func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				log.Error().
					Err(err).
					Str("request_id", util.GetRequestIDFromContext(r.Context())).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				api.ErrorJSON(w, int(er.InternalErrorCode), err, er.ErrStrMap[er.InternalErrorCode])
			}
		}()

		next.ServeHTTP(w, r)
	})
}
