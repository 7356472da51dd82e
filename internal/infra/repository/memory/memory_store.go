package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/infra/repository"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	"github.com/google/uuid"
)

// Store 把文件保存在記憶體中, 讀寫都做拷貝, 行為和文件資料庫一致
// (呼叫端修改回傳值不會影響已保存的資料)
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	users    map[string]model.UserModel
	carts    map[string]model.CartModel // key: email
	products map[string]model.ProductModel
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]model.UserModel),
		carts:    make(map[string]model.CartModel),
		products: make(map[string]model.ProductModel),
	}
}

func (s *Store) CreateUser(ctx context.Context, user *model.UserModel) (*model.UserModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("email %s: %w", user.Email, repository.ErrDuplicateKey)
		}
	}

	created := *user
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now
	s.users[created.ID] = created

	res := created
	return &res, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.UserModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			res := u
			return &res, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (s *Store) SaveUser(ctx context.Context, user *model.UserModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	saved := *user
	saved.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = saved
	return nil
}

func (s *Store) CreateCart(ctx context.Context, cart *model.CartModel) (*model.CartModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[cart.Email]; ok {
		return nil, fmt.Errorf("cart of %s: %w", cart.Email, repository.ErrDuplicateKey)
	}

	created := cart.Clone()
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now
	s.carts[created.Email] = *created

	return created.Clone(), nil
}

func (s *Store) GetCartByEmail(ctx context.Context, email string) (*model.CartModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[email]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return c.Clone(), nil
}

func (s *Store) SaveCart(ctx context.Context, cart *model.CartModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.carts[cart.Email]; !ok {
		return repository.ErrRecordNotFound
	}
	saved := cart.Clone()
	saved.UpdatedAt = time.Now().UTC()
	s.carts[cart.Email] = *saved
	return nil
}

func (s *Store) CreateProduct(ctx context.Context, product *model.ProductModel) (*model.ProductModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := *product
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	created.ID = strings.ToLower(created.ID)
	if _, ok := s.products[created.ID]; ok {
		return nil, fmt.Errorf("product %s: %w", created.ID, repository.ErrDuplicateKey)
	}
	s.products[created.ID] = created

	res := created
	return &res, nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*model.ProductModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// 和 ObjectID 一樣, 查詢 id 不分大小寫
	p, ok := s.products[strings.ToLower(id)]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]model.ProductModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]model.ProductModel, 0, len(s.products))
	for _, p := range s.products {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

// ExecTx 序列化所有交易, fn 失敗時只還原 fn 寫過的 key
// 交易外同時進行的寫入不受影響
func (s *Store) ExecTx(ctx context.Context, fn func(ctx context.Context, q repository.Queries) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := newTxQueries(s)
	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (s *Store) Transactional() bool {
	return true
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

// txQueries 在第一次寫入某個 key 前記下原值, nil 代表原本不存在
type txQueries struct {
	*Store
	users    map[string]*model.UserModel
	carts    map[string]*model.CartModel
	products map[string]*model.ProductModel
}

func newTxQueries(s *Store) *txQueries {
	return &txQueries{
		Store:    s,
		users:    make(map[string]*model.UserModel),
		carts:    make(map[string]*model.CartModel),
		products: make(map[string]*model.ProductModel),
	}
}

func (tx *txQueries) CreateUser(ctx context.Context, user *model.UserModel) (*model.UserModel, error) {
	created, err := tx.Store.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	if _, ok := tx.users[created.ID]; !ok {
		tx.users[created.ID] = nil
	}
	return created, nil
}

func (tx *txQueries) SaveUser(ctx context.Context, user *model.UserModel) error {
	tx.Store.mu.RLock()
	if _, seen := tx.users[user.ID]; !seen {
		if prev, ok := tx.Store.users[user.ID]; ok {
			tx.users[user.ID] = &prev
		}
	}
	tx.Store.mu.RUnlock()
	return tx.Store.SaveUser(ctx, user)
}

func (tx *txQueries) CreateCart(ctx context.Context, cart *model.CartModel) (*model.CartModel, error) {
	created, err := tx.Store.CreateCart(ctx, cart)
	if err != nil {
		return nil, err
	}
	if _, ok := tx.carts[created.Email]; !ok {
		tx.carts[created.Email] = nil
	}
	return created, nil
}

func (tx *txQueries) SaveCart(ctx context.Context, cart *model.CartModel) error {
	tx.Store.mu.RLock()
	if _, seen := tx.carts[cart.Email]; !seen {
		if prev, ok := tx.Store.carts[cart.Email]; ok {
			tx.carts[cart.Email] = prev.Clone()
		}
	}
	tx.Store.mu.RUnlock()
	return tx.Store.SaveCart(ctx, cart)
}

func (tx *txQueries) CreateProduct(ctx context.Context, product *model.ProductModel) (*model.ProductModel, error) {
	created, err := tx.Store.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	if _, ok := tx.products[created.ID]; !ok {
		tx.products[created.ID] = nil
	}
	return created, nil
}

func (tx *txQueries) rollback() {
	s := tx.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, prev := range tx.users {
		if prev == nil {
			delete(s.users, id)
		} else {
			s.users[id] = *prev
		}
	}
	for email, prev := range tx.carts {
		if prev == nil {
			delete(s.carts, email)
		} else {
			s.carts[email] = *prev
		}
	}
	for id, prev := range tx.products {
		if prev == nil {
			delete(s.products, id)
		} else {
			s.products[id] = *prev
		}
	}
}

var _ repository.IStore = (*Store)(nil)
