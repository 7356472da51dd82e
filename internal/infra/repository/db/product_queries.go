package db

import (
	"context"

	"github.com/RoyceAzure/lab/qkart/internal/model"
	"github.com/google/uuid"
)

const createProduct = `INSERT INTO products (id, name, category, cost, rating, image) VALUES ($1, $2, $3, $4, $5, $6)`

func (q *Queries) CreateProduct(ctx context.Context, product *model.ProductModel) (*model.ProductModel, error) {
	created := *product
	if created.ID == "" {
		created.ID = uuid.NewString()
	}

	_, err := q.db.ExecContext(ctx, createProduct,
		created.ID,
		created.Name,
		created.Category,
		created.Cost,
		created.Rating,
		created.Image,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &created, nil
}

const getProductByID = `SELECT id, name, category, cost, rating, image FROM products WHERE id = $1`

func (q *Queries) GetProductByID(ctx context.Context, id string) (*model.ProductModel, error) {
	var p model.ProductModel
	err := q.db.QueryRowContext(ctx, getProductByID, id).Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Cost,
		&p.Rating,
		&p.Image,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

const listProducts = `SELECT id, name, category, cost, rating, image FROM products ORDER BY name`

func (q *Queries) ListProducts(ctx context.Context) ([]model.ProductModel, error) {
	rows, err := q.db.QueryContext(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.ProductModel{}
	for rows.Next() {
		var p model.ProductModel
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Category,
			&p.Cost,
			&p.Rating,
			&p.Image,
		); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
