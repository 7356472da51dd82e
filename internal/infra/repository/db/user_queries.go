package db

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/model"
	"github.com/google/uuid"
)

const createUser = `INSERT INTO users (id, name, email, password, address, wallet_money, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (q *Queries) CreateUser(ctx context.Context, user *model.UserModel) (*model.UserModel, error) {
	created := *user
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	_, err := q.db.ExecContext(ctx, createUser,
		created.ID,
		created.Name,
		created.Email,
		created.Password,
		created.Address,
		created.WalletMoney,
		created.CreatedAt,
		created.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &created, nil
}

const selectUser = `SELECT id, name, email, password, address, wallet_money, created_at, updated_at FROM users`

const getUserByID = selectUser + ` WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id string) (*model.UserModel, error) {
	return q.getUser(ctx, getUserByID, id)
}

const getUserByEmail = selectUser + ` WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	return q.getUser(ctx, getUserByEmail, email)
}

func (q *Queries) getUser(ctx context.Context, query string, arg string) (*model.UserModel, error) {
	var u model.UserModel
	err := q.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Password,
		&u.Address,
		&u.WalletMoney,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

const saveUser = `UPDATE users SET name = $2, email = $3, password = $4, address = $5, wallet_money = $6, updated_at = $7 WHERE id = $1`

func (q *Queries) SaveUser(ctx context.Context, user *model.UserModel) error {
	res, err := q.db.ExecContext(ctx, saveUser,
		user.ID,
		user.Name,
		user.Email,
		user.Password,
		user.Address,
		user.WalletMoney,
		time.Now().UTC(),
	)
	if err != nil {
		return translateError(err)
	}
	return requireAffected(res)
}
