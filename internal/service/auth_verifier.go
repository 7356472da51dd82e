package service

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/RoyceAzure/lab/qkart/internal/infra/repository"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	er "github.com/RoyceAzure/rj/util/rj_error"
)

var (
	ErrInvalidTokenType = errors.New("Invalid token type")
	ErrTokenExpired     = errors.New("Token expired, please login")
)

type IAuthVerifier interface {
	// Verify 驗證 access token payload 並取得對應的使用者
	//
	// 返回值:
	//   - *model.UserModel, true: 使用者存在
	//   - nil, false, nil: 使用者不存在, 不視為錯誤
	//
	// 錯誤:
	//   - er.UnauthenticatedCode 401: token 類型錯誤或已過期
	//   - er.InternalErrorCode 500: 查詢使用者失敗
	Verify(ctx context.Context, payload *model.TokenPayload) (*model.UserModel, bool, error)
}

type AuthVerifier struct {
	users repository.IUserRepository
	now   func() time.Time
}

func NewAuthVerifier(users repository.IUserRepository) *AuthVerifier {
	if users == nil {
		panic("auth verifier initialization failed: users cannot be nil")
	}
	return &AuthVerifier{
		users: users,
		now:   time.Now,
	}
}

func (v *AuthVerifier) Verify(ctx context.Context, payload *model.TokenPayload) (*model.UserModel, bool, error) {
	if err := checkTokenPayload(payload, constants.AccessToken, v.now()); err != nil {
		return nil, false, err
	}

	user, err := v.users.GetUserByID(ctx, payload.Sub)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, er.New(er.InternalErrorCode, err.Error())
	}
	return user, true, nil
}

// checkTokenPayload 先檢查類型再檢查過期
func checkTokenPayload(payload *model.TokenPayload, want constants.TokenType, now time.Time) error {
	if payload == nil || payload.Type != want {
		return er.New(er.UnauthenticatedCode, ErrInvalidTokenType.Error())
	}
	if now.Unix() > payload.Exp {
		return er.New(er.UnauthenticatedCode, ErrTokenExpired.Error())
	}
	return nil
}

var _ IAuthVerifier = (*AuthVerifier)(nil)
