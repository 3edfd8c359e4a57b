// Package postgres implements the repository interfaces on PostgreSQL via
// a pgx connection pool. It is selected when DATABASE_URL is set.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakif/cabin-manager/internal/repository"
)

// DB owns the pool and hands out one store per table family.
type DB struct {
	pool *pgxpool.Pool

	users        *UserStore
	reservations *ReservationStore
	shoppingList *ListStore
	todoList     *ListStore
}

var _ repository.Store = (*DB)(nil)

// New connects to databaseURL, verifies the connection and runs
// migrations.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := createConnectionPool(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	db := &DB{
		pool:         pool,
		users:        &UserStore{pool: pool},
		reservations: &ReservationStore{pool: pool},
		shoppingList: &ListStore{pool: pool, table: shoppingListTable},
		todoList:     &ListStore{pool: pool, table: todoListTable},
	}

	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}
	return db, nil
}

// createConnectionPool parses the URL and sizes the pool for a small
// household deployment.
//
// Port 6543 is the conventional PgBouncer transaction pooler port, which
// does not support prepared statements; cache_describe keeps the extended
// protocol without preparing. An explicit default_query_exec_mode in the
// URL wins.
func createConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Close releases every pooled connection.
func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

func (db *DB) Users() repository.UserRepository               { return db.users }
func (db *DB) Reservations() repository.ReservationRepository { return db.reservations }
func (db *DB) ShoppingList() repository.ListItemRepository    { return db.shoppingList }
func (db *DB) TodoList() repository.ListItemRepository        { return db.todoList }

func (db *DB) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'USER'
			              CHECK (role IN ('ADMIN', 'USER', 'DUMMY')),
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id             TEXT PRIMARY KEY,
			title          TEXT NOT NULL DEFAULT '',
			description    TEXT NOT NULL DEFAULT '',
			start_date     TIMESTAMPTZ NOT NULL,
			end_date       TIMESTAMPTZ NOT NULL,
			status         TEXT NOT NULL DEFAULT 'PENDING'
			               CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED')),
			admin_comment  TEXT,
			user_id        TEXT NOT NULL REFERENCES users(id),
			approved_by_id TEXT REFERENCES users(id),
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_start_date ON reservations(start_date)`,
	}
	for _, t := range []listTable{shoppingListTable, todoListTable} {
		statements = append(statements,
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
				id          TEXT PRIMARY KEY,
				%[2]s       TEXT NOT NULL,
				%[3]s       BOOLEAN NOT NULL DEFAULT false,
				added_by_id TEXT NOT NULL REFERENCES users(id),
				created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
			)`, t.name, t.textColumn, t.doneColumn),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%[1]s_created_at ON %[1]s(created_at)`, t.name),
		)
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}

// setBuilder accumulates "col = $n" pairs for a partial UPDATE.
type setBuilder struct {
	clauses []string
	args    []any
}

func (b *setBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, column+" = $"+strconv.Itoa(len(b.args)))
}

// next is the placeholder for the argument after the SET list.
func (b *setBuilder) next() string {
	return "$" + strconv.Itoa(len(b.args)+1)
}
