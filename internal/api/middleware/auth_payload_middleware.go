package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/RoyceAzure/lab/qkart/internal/infra/auth/token"
	"github.com/RoyceAzure/lab/qkart/internal/service"
	er "github.com/RoyceAzure/rj/util/rj_error"
)

// 解析 bearer token 並查出使用者, 任何錯誤都不會中斷請求
// 驗證成功 context 帶使用者, 失敗則帶失敗原因, 由 AuthMiddleware 決定是否拒絕
func AuthPayloadMiddleware(tokenMaker token.Maker, verifier service.IAuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessToken, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			payload, err := tokenMaker.DecodeToken(accessToken)
			if err != nil {
				next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, constants.AuthorizationErrorKey, err)))
				return
			}

			user, found, err := verifier.Verify(ctx, payload)
			switch {
			case err != nil:
				ctx = context.WithValue(ctx, constants.AuthorizationErrorKey, err)
			case !found:
				ctx = context.WithValue(ctx, constants.AuthorizationErrorKey,
					er.New(er.UnauthenticatedCode, service.ErrPleaseAuthenticate.Error()))
			default:
				ctx = context.WithValue(ctx, constants.AuthorizationUserKey, user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authorizationHeader := r.Header.Get(string(constants.AuthorizationHeaderKey))
	if len(authorizationHeader) == 0 {
		return "", false
	}

	fields := strings.Fields(authorizationHeader)
	if len(fields) < 2 {
		return "", false
	}

	authorizationType := strings.ToLower(fields[0])
	if authorizationType != string(constants.AuthorizationTypeBearer) {
		return "", false
	}
	return fields[1], true
}
