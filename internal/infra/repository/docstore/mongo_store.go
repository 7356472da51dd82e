package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/infra/repository"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection    = "users"
	cartsCollection    = "carts"
	productsCollection = "products"
)

// Store MongoDB 實作
// useTransactions=false 時 ExecTx 不開 session (standalone mongod 不支援交易)
type Store struct {
	client          *mongo.Client
	users           *mongo.Collection
	carts           *mongo.Collection
	products        *mongo.Collection
	useTransactions bool
}

func NewStore(ctx context.Context, uri string, dbName string, useTransactions bool) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := NewStoreWithDatabase(client, client.Database(dbName), useTransactions)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func NewStoreWithDatabase(client *mongo.Client, db *mongo.Database, useTransactions bool) *Store {
	return &Store{
		client:          client,
		users:           db.Collection(usersCollection),
		carts:           db.Collection(cartsCollection),
		products:        db.Collection(productsCollection),
		useTransactions: useTransactions,
	}
}

// EnsureIndexes user email 與 cart email 唯一
func (s *Store) EnsureIndexes(ctx context.Context) error {
	uniqueEmail := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.users.Indexes().CreateOne(ctx, uniqueEmail); err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	if _, err := s.carts.Indexes().CreateOne(ctx, uniqueEmail); err != nil {
		return fmt.Errorf("create carts index: %w", err)
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user *model.UserModel) (*model.UserModel, error) {
	doc, err := convertUserModelToDoc(user)
	if err != nil {
		return nil, err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		return nil, translateError(err)
	}
	return convertUserDocToModel(doc)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.UserModel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrRecordNotFound
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*model.UserModel, error) {
	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return convertUserDocToModel(&doc)
}

func (s *Store) SaveUser(ctx context.Context, user *model.UserModel) error {
	doc, err := convertUserModelToDoc(user)
	if err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()

	res, err := s.users.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

func (s *Store) CreateCart(ctx context.Context, cart *model.CartModel) (*model.CartModel, error) {
	doc, err := convertCartModelToDoc(cart)
	if err != nil {
		return nil, err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := s.carts.InsertOne(ctx, doc); err != nil {
		return nil, translateError(err)
	}
	return convertCartDocToModel(doc)
}

func (s *Store) GetCartByEmail(ctx context.Context, email string) (*model.CartModel, error) {
	var doc cartDocument
	if err := s.carts.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return convertCartDocToModel(&doc)
}

func (s *Store) SaveCart(ctx context.Context, cart *model.CartModel) error {
	doc, err := convertCartModelToDoc(cart)
	if err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()

	res, err := s.carts.ReplaceOne(ctx, bson.M{"email": doc.Email}, doc)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

func (s *Store) CreateProduct(ctx context.Context, product *model.ProductModel) (*model.ProductModel, error) {
	doc, err := convertProductModelToDoc(product)
	if err != nil {
		return nil, err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := s.products.InsertOne(ctx, doc); err != nil {
		return nil, translateError(err)
	}
	return convertProductDocToModel(doc)
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*model.ProductModel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrRecordNotFound
	}

	var doc productDocument
	if err := s.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return convertProductDocToModel(&doc)
}

func (s *Store) ListProducts(ctx context.Context) ([]model.ProductModel, error) {
	cursor, err := s.products.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	res := make([]model.ProductModel, 0, len(docs))
	for i := range docs {
		product, err := convertProductDocToModel(&docs[i])
		if err != nil {
			return nil, err
		}
		res = append(res, *product)
	}
	return res, nil
}

// ExecTx 在 replica set 上以 session transaction 執行 fn
func (s *Store) ExecTx(ctx context.Context, fn func(ctx context.Context, q repository.Queries) error) error {
	if !s.useTransactions {
		return fn(ctx, s)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

func (s *Store) Transactional() bool {
	return s.useTransactions
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func translateError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrRecordNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%v: %w", err, repository.ErrDuplicateKey)
	}
	return err
}

var _ repository.IStore = (*Store)(nil)
