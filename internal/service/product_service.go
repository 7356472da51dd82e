package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/RoyceAzure/lab/qkart/internal/infra/repository"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/rs/zerolog/log"
)

var ErrProductNotFound = errors.New("Product not found")

type IProductService interface {
	// 錯誤:
	//   - er.NotFoundCode 404: 商品不存在
	GetProductByID(ctx context.Context, id string) (*model.ProductModel, error)
	ListProducts(ctx context.Context) ([]model.ProductModel, error)
	// ImportProducts 商品目錄為空時由 JSON 檔匯入, 回傳匯入筆數
	ImportProducts(ctx context.Context, path string) (int, error)
}

type ProductService struct {
	store repository.IStore
}

func NewProductService(store repository.IStore) IProductService {
	if store == nil {
		panic("product service initialization failed: store cannot be nil")
	}
	return &ProductService{
		store: store,
	}
}

func (p *ProductService) GetProductByID(ctx context.Context, id string) (*model.ProductModel, error) {
	product, err := p.store.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, er.New(er.NotFoundCode, ErrProductNotFound.Error())
		}
		return nil, er.New(er.InternalErrorCode, err.Error())
	}
	return product, nil
}

func (p *ProductService) ListProducts(ctx context.Context) ([]model.ProductModel, error) {
	products, err := p.store.ListProducts(ctx)
	if err != nil {
		return nil, er.New(er.InternalErrorCode, err.Error())
	}
	return products, nil
}

func (p *ProductService) ImportProducts(ctx context.Context, path string) (int, error) {
	existing, err := p.store.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Info().Int("count", len(existing)).Msg("product catalogue already seeded, skip import")
		return 0, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read product seed file: %w", err)
	}

	var products []model.ProductModel
	if err := json.Unmarshal(raw, &products); err != nil {
		return 0, fmt.Errorf("parse product seed file: %w", err)
	}

	err = p.store.ExecTx(ctx, func(ctx context.Context, q repository.Queries) error {
		for i := range products {
			if _, err := q.CreateProduct(ctx, &products[i]); err != nil {
				return fmt.Errorf("create product %q: %w", products[i].Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().Int("count", len(products)).Str("path", path).Msg("product catalogue imported")
	return len(products), nil
}
