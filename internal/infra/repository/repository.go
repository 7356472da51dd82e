package repository

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/qkart/internal/model"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
)

type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.UserModel) (*model.UserModel, error)
	GetUserByID(ctx context.Context, id string) (*model.UserModel, error)
	GetUserByEmail(ctx context.Context, email string) (*model.UserModel, error)
	// SaveUser 以整份文件覆寫
	SaveUser(ctx context.Context, user *model.UserModel) error
}

type ICartRepository interface {
	CreateCart(ctx context.Context, cart *model.CartModel) (*model.CartModel, error)
	GetCartByEmail(ctx context.Context, email string) (*model.CartModel, error)
	SaveCart(ctx context.Context, cart *model.CartModel) error
}

type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.ProductModel) (*model.ProductModel, error)
	GetProductByID(ctx context.Context, id string) (*model.ProductModel, error)
	ListProducts(ctx context.Context) ([]model.ProductModel, error)
}

// Queries 交易內可用的操作
type Queries interface {
	IUserRepository
	ICartRepository
	IProductRepository
}

type IStore interface {
	Queries
	// ExecTx fn 回傳錯誤時整個交易回滾
	ExecTx(ctx context.Context, fn func(ctx context.Context, q Queries) error) error
	// Transactional 為 false 時 ExecTx 不會回滾, 呼叫端要自行補償
	Transactional() bool
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
