package service

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/RoyceAzure/lab/qkart/internal/infra/auth/password"
	"github.com/RoyceAzure/lab/qkart/internal/infra/auth/token"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	er "github.com/RoyceAzure/rj/util/rj_error"
)

var (
	ErrIncorrectCredentials = errors.New("Incorrect email or password")
	ErrPleaseAuthenticate   = errors.New("Please authenticate")
)

type IAuthService interface {
	// Register 建立使用者並發出 token
	//
	// 錯誤:
	//   - er.BadRequestCode 400: email 已被使用
	//   - er.InternalErrorCode 500: 內部處理錯誤
	Register(ctx context.Context, arg *model.CreateUserModel) (*model.LoginResponseModel, error)
	// Login 帳號密碼登入
	//
	// 錯誤:
	//   - er.UnauthenticatedCode 401: email 不存在或密碼錯誤
	Login(ctx context.Context, email string, plainPassword string) (*model.LoginResponseModel, error)
	// RefreshTokens 使用 refresh token 換發新的 access/refresh token
	//
	// 錯誤:
	//   - er.UnauthenticatedCode 401: token 無效, 類型錯誤, 已過期, 或使用者不存在
	RefreshTokens(ctx context.Context, refreshToken string) (*model.AuthTokensModel, error)
}

type AuthService struct {
	userService IUserService
	hasher      password.Hasher
	tokenMaker  token.Maker
	accessTTL   time.Duration
	refreshTTL  time.Duration
	now         func() time.Time
}

func NewAuthService(userService IUserService, hasher password.Hasher, tokenMaker token.Maker, accessTTL time.Duration, refreshTTL time.Duration) IAuthService {
	if userService == nil {
		panic("auth service initialization failed: userService cannot be nil")
	}
	if hasher == nil {
		panic("auth service initialization failed: hasher cannot be nil")
	}
	if tokenMaker == nil {
		panic("auth service initialization failed: tokenMaker cannot be nil")
	}

	return &AuthService{
		userService: userService,
		hasher:      hasher,
		tokenMaker:  tokenMaker,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		now:         time.Now,
	}
}

func (a *AuthService) Register(ctx context.Context, arg *model.CreateUserModel) (*model.LoginResponseModel, error) {
	user, err := a.userService.CreateUser(ctx, arg)
	if err != nil {
		return nil, err
	}
	return a.loginResponse(user)
}

func (a *AuthService) Login(ctx context.Context, email string, plainPassword string) (*model.LoginResponseModel, error) {
	user, err := a.userService.GetUserByEmail(ctx, email)
	if err != nil {
		if anaErr, ok := err.(*er.AnaError); ok && anaErr.Code == er.NotFoundCode {
			return nil, er.New(er.UnauthenticatedCode, ErrIncorrectCredentials.Error())
		}
		return nil, err
	}

	if !a.hasher.Compare(user.Password, plainPassword) {
		return nil, er.New(er.UnauthenticatedCode, ErrIncorrectCredentials.Error())
	}
	return a.loginResponse(user)
}

func (a *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*model.AuthTokensModel, error) {
	payload, err := a.tokenMaker.DecodeToken(refreshToken)
	if err != nil {
		return nil, er.New(er.UnauthenticatedCode, ErrPleaseAuthenticate.Error())
	}

	if err := checkTokenPayload(payload, constants.RefreshToken, a.now()); err != nil {
		return nil, err
	}

	user, err := a.userService.GetUserByID(ctx, payload.Sub)
	if err != nil {
		if anaErr, ok := err.(*er.AnaError); ok && anaErr.Code == er.NotFoundCode {
			return nil, er.New(er.UnauthenticatedCode, ErrPleaseAuthenticate.Error())
		}
		return nil, err
	}

	return a.generateAuthTokens(user.ID)
}

func (a *AuthService) loginResponse(user *model.UserModel) (*model.LoginResponseModel, error) {
	tokens, err := a.generateAuthTokens(user.ID)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponseModel{
		User:   *user,
		Tokens: *tokens,
	}, nil
}

func (a *AuthService) generateAuthTokens(userID string) (*model.AuthTokensModel, error) {
	accessToken, accessPayload, err := a.tokenMaker.CreateToken(userID, constants.AccessToken, a.accessTTL)
	if err != nil {
		return nil, er.New(er.InternalErrorCode, err.Error())
	}

	refreshToken, refreshPayload, err := a.tokenMaker.CreateToken(userID, constants.RefreshToken, a.refreshTTL)
	if err != nil {
		return nil, er.New(er.InternalErrorCode, err.Error())
	}

	return &model.AuthTokensModel{
		Access: model.TokenModel{
			Token:   accessToken,
			Expires: accessPayload.ExpiresAt(),
		},
		Refresh: model.TokenModel{
			Token:   refreshToken,
			Expires: refreshPayload.ExpiresAt(),
		},
	}, nil
}
