package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/qkart/internal/infra/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// DBTX *sql.DB 與 *sql.Tx 共用的介面
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func translateError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrRecordNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, repository.ErrDuplicateKey)
	}
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrRecordNotFound
	}
	return nil
}

var _ repository.Queries = (*Queries)(nil)
