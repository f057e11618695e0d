package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/dtroode/secrets-server/database"
)

// uniqueViolation is the SQLSTATE of unique constraint violations.
const uniqueViolation = "23505"

// DBTX is the subset of *sql.DB used by repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PingContext(ctx context.Context) error
}

// Connection is a pgx connection pool exposed through database/sql.
type Connection struct {
	*sql.DB
	pool *pgxpool.Pool
}

// NewConnection opens a pool for dsn and applies pending migrations.
func NewConnection(ctx context.Context, dsn string) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Connection{
		DB:   db,
		pool: pool,
	}, nil
}

func (c *Connection) Close() error {
	var err error
	if c.DB != nil {
		err = c.DB.Close()
	}
	if c.pool != nil {
		c.pool.Close()
	}
	return err
}

func (c *Connection) Ping(ctx context.Context) error {
	if c.DB == nil {
		return fmt.Errorf("connection pool is nil")
	}
	return c.DB.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
