package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/RoyceAzure/lab/qkart/internal/infra/repository"
	"github.com/RoyceAzure/lab/qkart/internal/infra/repository/memory"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/RoyceAzure/rj/util/random"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func requireAnaError(t require.TestingT, err error, code interface{}, msg string) {
	require.Error(t, err)
	anaErr, ok := err.(*er.AnaError)
	require.True(t, ok, "expected *er.AnaError, got %T", err)
	require.Equal(t, code, anaErr.Code)
	if msg != "" {
		require.Contains(t, anaErr.Error(), msg)
	}
}

func createTestUser(t require.TestingT, store repository.IUserRepository, wallet int64, address string) *model.UserModel {
	user, err := store.CreateUser(context.Background(), &model.UserModel{
		Name:        random.RandomString(8),
		Email:       random.RandomEmail(),
		Password:    "hashed",
		Address:     address,
		WalletMoney: decimal.NewFromInt(wallet),
	})
	require.NoError(t, err)
	return user
}

func createTestProduct(t require.TestingT, store repository.IProductRepository, name string, cost int64) *model.ProductModel {
	product, err := store.CreateProduct(context.Background(), &model.ProductModel{
		Name:     name,
		Category: "Test",
		Cost:     decimal.NewFromInt(cost),
		Rating:   5,
	})
	require.NoError(t, err)
	return product
}

var (
	errCartWrite = errors.New("cart write failed")
	errUserWrite = errors.New("user write failed")
)

// flakyStore 模擬寫入失敗
// useStoreTx=false 時 ExecTx 直接執行 fn, 和沒有交易的 mongod 一樣只能靠補償
type flakyStore struct {
	*memory.Store
	useStoreTx bool

	mu                sync.Mutex
	failCartSave      bool
	failUserSaveFrom  int // 第 n 次 SaveUser 起失敗, 0 表示不失敗
	userSaves         int
	failProductLookup bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{Store: memory.NewStore()}
}

func (f *flakyStore) Transactional() bool {
	return f.useStoreTx
}

func (f *flakyStore) ExecTx(ctx context.Context, fn func(ctx context.Context, q repository.Queries) error) error {
	if f.useStoreTx {
		return f.Store.ExecTx(ctx, func(ctx context.Context, q repository.Queries) error {
			return fn(ctx, flakyQueries{Queries: q, f: f})
		})
	}
	return fn(ctx, flakyQueries{Queries: f.Store, f: f})
}

func (f *flakyStore) SaveCart(ctx context.Context, cart *model.CartModel) error {
	return flakyQueries{Queries: f.Store, f: f}.SaveCart(ctx, cart)
}

func (f *flakyStore) SaveUser(ctx context.Context, user *model.UserModel) error {
	return flakyQueries{Queries: f.Store, f: f}.SaveUser(ctx, user)
}

func (f *flakyStore) GetProductByID(ctx context.Context, id string) (*model.ProductModel, error) {
	return flakyQueries{Queries: f.Store, f: f}.GetProductByID(ctx, id)
}

// flakyQueries 把失敗注入套在 store 或交易的 Queries 上
type flakyQueries struct {
	repository.Queries
	f *flakyStore
}

func (q flakyQueries) SaveCart(ctx context.Context, cart *model.CartModel) error {
	q.f.mu.Lock()
	fail := q.f.failCartSave
	q.f.mu.Unlock()
	if fail {
		return errCartWrite
	}
	return q.Queries.SaveCart(ctx, cart)
}

func (q flakyQueries) SaveUser(ctx context.Context, user *model.UserModel) error {
	q.f.mu.Lock()
	q.f.userSaves++
	fail := q.f.failUserSaveFrom > 0 && q.f.userSaves >= q.f.failUserSaveFrom
	q.f.mu.Unlock()
	if fail {
		return errUserWrite
	}
	return q.Queries.SaveUser(ctx, user)
}

func (q flakyQueries) GetProductByID(ctx context.Context, id string) (*model.ProductModel, error) {
	if q.f.failProductLookup {
		return nil, errors.New("connection reset")
	}
	return q.Queries.GetProductByID(ctx, id)
}

var _ repository.IStore = (*flakyStore)(nil)

func newAddressedUser(t *testing.T, store repository.IUserRepository, wallet int64) *model.UserModel {
	return createTestUser(t, store, wallet, "221B Baker Street")
}

func newDefaultAddressUser(t *testing.T, store repository.IUserRepository, wallet int64) *model.UserModel {
	return createTestUser(t, store, wallet, constants.DefaultAddress)
}
