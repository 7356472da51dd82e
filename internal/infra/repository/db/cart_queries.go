package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// cart_items JSONB 欄位的格式
type cartItemRow struct {
	Product  productRow `json:"product"`
	Quantity int        `json:"quantity"`
}

type productRow struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Cost     decimal.Decimal `json:"cost"`
	Rating   int             `json:"rating"`
	Image    string          `json:"image"`
}

func encodeCartItems(items []model.CartItemModel) ([]byte, error) {
	rows := make([]cartItemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, cartItemRow{
			Product: productRow{
				ID:       item.Product.ID,
				Name:     item.Product.Name,
				Category: item.Product.Category,
				Cost:     item.Product.Cost,
				Rating:   item.Product.Rating,
				Image:    item.Product.Image,
			},
			Quantity: item.Quantity,
		})
	}
	return json.Marshal(rows)
}

func decodeCartItems(raw []byte) ([]model.CartItemModel, error) {
	var rows []cartItemRow
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, err
		}
	}
	items := make([]model.CartItemModel, 0, len(rows))
	for _, r := range rows {
		items = append(items, model.CartItemModel{
			Product: model.ProductModel{
				ID:       r.Product.ID,
				Name:     r.Product.Name,
				Category: r.Product.Category,
				Cost:     r.Product.Cost,
				Rating:   r.Product.Rating,
				Image:    r.Product.Image,
			},
			Quantity: r.Quantity,
		})
	}
	return items, nil
}

const createCart = `INSERT INTO carts (id, email, cart_items, payment_option, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`

func (q *Queries) CreateCart(ctx context.Context, cart *model.CartModel) (*model.CartModel, error) {
	created := cart.Clone()
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	items, err := encodeCartItems(created.CartItems)
	if err != nil {
		return nil, err
	}

	_, err = q.db.ExecContext(ctx, createCart,
		created.ID,
		created.Email,
		items,
		created.PaymentOption,
		created.CreatedAt,
		created.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return created, nil
}

const getCartByEmail = `SELECT id, email, cart_items, payment_option, created_at, updated_at FROM carts WHERE email = $1`

func (q *Queries) GetCartByEmail(ctx context.Context, email string) (*model.CartModel, error) {
	var (
		c   model.CartModel
		raw []byte
	)
	err := q.db.QueryRowContext(ctx, getCartByEmail, email).Scan(
		&c.ID,
		&c.Email,
		&raw,
		&c.PaymentOption,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}

	c.CartItems, err = decodeCartItems(raw)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const saveCart = `UPDATE carts SET cart_items = $2, payment_option = $3, updated_at = $4 WHERE email = $1`

func (q *Queries) SaveCart(ctx context.Context, cart *model.CartModel) error {
	items, err := encodeCartItems(cart.CartItems)
	if err != nil {
		return err
	}

	res, err := q.db.ExecContext(ctx, saveCart,
		cart.Email,
		items,
		cart.PaymentOption,
		time.Now().UTC(),
	)
	if err != nil {
		return translateError(err)
	}
	return requireAffected(res)
}
