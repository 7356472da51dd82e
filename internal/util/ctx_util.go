package util

import (
	"context"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/RoyceAzure/lab/qkart/internal/model"
)

// GetUserFromContext 取得 AuthPayloadMiddleware 驗證通過的使用者, 沒有則回傳 nil
//
// 範例:
//
//	user := GetUserFromContext(r.Context())
func GetUserFromContext(ctx context.Context) *model.UserModel {
	if v, ok := ctx.Value(constants.AuthorizationUserKey).(*model.UserModel); ok {
		return v
	}
	return nil
}

// GetAuthErrorFromContext 取得 token 驗證失敗的原因
func GetAuthErrorFromContext(ctx context.Context) error {
	if v, ok := ctx.Value(constants.AuthorizationErrorKey).(error); ok {
		return v
	}
	return nil
}

func GetRequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(constants.RequestIDKey).(string); ok {
		return v
	}
	return "unknown"
}
