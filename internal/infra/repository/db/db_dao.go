package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RoyceAzure/lab/qkart/internal/infra/repository"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store 結構用來管理數據庫連接和交易
type Store struct {
	*Queries
	db *sql.DB
}

// Open 使用 pgx 的 database/sql driver 建立連線池
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return conn, nil
}

// NewStore 創建一個新的 Store
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:      db,
		Queries: New(db),
	}
}

// ExecTx 執行一個交易, fn 失敗時回滾
func (s *Store) ExecTx(ctx context.Context, fn func(ctx context.Context, q repository.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}

	if err := fn(ctx, New(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("原始錯誤: %v, 回滾錯誤: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func (s *Store) Transactional() bool {
	return true
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

var _ repository.IStore = (*Store)(nil)
