package service

import (
	"context"
	"errors"
	"strings"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/RoyceAzure/lab/qkart/internal/infra/auth/password"
	"github.com/RoyceAzure/lab/qkart/internal/infra/repository"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/shopspring/decimal"
)

var (
	ErrEmailTaken   = errors.New("Email already taken")
	ErrUserNotFound = errors.New("User not found")
)

type IUserService interface {
	// CreateUser 建立使用者, 密碼以 bcrypt 儲存
	//
	// 錯誤:
	//   - er.BadRequestCode 400: email 已被使用
	//   - er.InternalErrorCode 500: 內部處理錯誤
	CreateUser(ctx context.Context, arg *model.CreateUserModel) (*model.UserModel, error)
	// 錯誤:
	//   - er.NotFoundCode 404: 使用者不存在
	GetUserByID(ctx context.Context, id string) (*model.UserModel, error)
	GetUserByEmail(ctx context.Context, email string) (*model.UserModel, error)
	GetUserAddressByID(ctx context.Context, id string) (*model.UserAddressModel, error)
	// SetAddress 成功後才更新 user.Address
	SetAddress(ctx context.Context, user *model.UserModel, address string) (string, error)
}

type UserService struct {
	users         repository.IUserRepository
	hasher        password.Hasher
	defaultWallet decimal.Decimal
}

func NewUserService(users repository.IUserRepository, hasher password.Hasher, defaultWallet decimal.Decimal) IUserService {
	if users == nil {
		panic("user service initialization failed: users cannot be nil")
	}
	if hasher == nil {
		panic("user service initialization failed: hasher cannot be nil")
	}
	return &UserService{
		users:         users,
		hasher:        hasher,
		defaultWallet: defaultWallet,
	}
}

func (u *UserService) CreateUser(ctx context.Context, arg *model.CreateUserModel) (*model.UserModel, error) {
	email := strings.ToLower(strings.TrimSpace(arg.Email))

	// 檢查email是否已存在
	_, err := u.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, er.New(er.BadRequestCode, ErrEmailTaken.Error())
	}
	if !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, er.New(er.InternalErrorCode, err.Error())
	}

	hashPassword, err := u.hasher.Hash(arg.Password)
	if err != nil {
		return nil, er.New(er.InternalErrorCode, err.Error())
	}

	user, err := u.users.CreateUser(ctx, &model.UserModel{
		Name:        strings.TrimSpace(arg.Name),
		Email:       email,
		Password:    hashPassword,
		Address:     constants.DefaultAddress,
		WalletMoney: u.defaultWallet,
	})
	if err != nil {
		// 兩個請求同時註冊同一個 email
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, er.New(er.BadRequestCode, ErrEmailTaken.Error())
		}
		return nil, er.New(er.InternalErrorCode, err.Error())
	}
	return user, nil
}

func (u *UserService) GetUserByID(ctx context.Context, id string) (*model.UserModel, error) {
	user, err := u.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, translateUserError(err)
	}
	return user, nil
}

func (u *UserService) GetUserByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	user, err := u.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, translateUserError(err)
	}
	return user, nil
}

func (u *UserService) GetUserAddressByID(ctx context.Context, id string) (*model.UserAddressModel, error) {
	user, err := u.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.UserAddressModel{
		Email:   user.Email,
		Address: user.Address,
	}, nil
}

func (u *UserService) SetAddress(ctx context.Context, user *model.UserModel, address string) (string, error) {
	updated := *user
	updated.Address = address

	if err := u.users.SaveUser(ctx, &updated); err != nil {
		return "", translateUserError(err)
	}
	user.Address = address
	return user.Address, nil
}

func translateUserError(err error) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return er.New(er.NotFoundCode, ErrUserNotFound.Error())
	}
	return er.New(er.InternalErrorCode, err.Error())
}
