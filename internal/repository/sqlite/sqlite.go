// Package sqlite implements the repository interfaces on an embedded
// SQLite database (modernc.org/sqlite, pure Go, no cgo).
//
// DATABASE/SQL OVERVIEW:
//   - sql.DB   is a connection pool, not a single connection
//   - sql.Row  holds at most one result row; Scan returns sql.ErrNoRows if empty
//   - sql.Rows is a result iterator; must be closed
//
// Use ":memory:" as the path for a throwaway database in tests.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/cabin-manager/internal/repository"
)

const memoryPath = ":memory:"

// DB owns the connection pool and hands out one store per table family.
type DB struct {
	conn *sql.DB

	users        *UserStore
	reservations *ReservationStore
	shoppingList *ListStore
	todoList     *ListStore
}

var _ repository.Store = (*DB)(nil)

// New opens (or creates) the database at dbPath and runs migrations.
//
// Pragmas go in the DSN so that every pooled connection gets them, not
// just the first one. An in-memory database is private to the connection
// that created it, so the pool is pinned to a single connection there.
func New(dbPath string) (*DB, error) {
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if dbPath == memoryPath {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in progress.
	if dbPath != memoryPath {
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
		}
	}

	db := &DB{
		conn:         conn,
		users:        &UserStore{conn: conn},
		reservations: &ReservationStore{conn: conn},
		shoppingList: &ListStore{conn: conn, table: shoppingListTable},
		todoList:     &ListStore{conn: conn, table: todoListTable},
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Users() repository.UserRepository               { return db.users }
func (db *DB) Reservations() repository.ReservationRepository { return db.reservations }
func (db *DB) ShoppingList() repository.ListItemRepository    { return db.shoppingList }
func (db *DB) TodoList() repository.ListItemRepository        { return db.todoList }

// migrate creates the schema. CREATE ... IF NOT EXISTS makes it safe to run
// on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'USER'
			              CHECK (role IN ('ADMIN', 'USER', 'DUMMY')),
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS reservations (
			id             TEXT PRIMARY KEY,
			title          TEXT NOT NULL DEFAULT '',
			description    TEXT NOT NULL DEFAULT '',
			start_date     DATETIME NOT NULL,
			end_date       DATETIME NOT NULL,
			status         TEXT NOT NULL DEFAULT 'PENDING'
			               CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED')),
			admin_comment  TEXT,
			user_id        TEXT NOT NULL REFERENCES users(id),
			approved_by_id TEXT REFERENCES users(id),
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_reservations_start_date ON reservations(start_date);
	`)
	if err != nil {
		return fmt.Errorf("creating reservations table: %w", err)
	}

	for _, t := range []listTable{shoppingListTable, todoListTable} {
		// Table and column names are package constants, never user input.
		_, err = db.conn.Exec(fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id          TEXT PRIMARY KEY,
				%[2]s       TEXT NOT NULL,
				%[3]s       INTEGER NOT NULL DEFAULT 0,
				added_by_id TEXT NOT NULL REFERENCES users(id),
				created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_%[1]s_created_at ON %[1]s(created_at);
		`, t.name, t.textColumn, t.doneColumn))
		if err != nil {
			return fmt.Errorf("creating %s table: %w", t.name, err)
		}
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// now returns the current time in UTC, so stored timestamps sort as text.
func now() time.Time {
	return time.Now().UTC()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// setBuilder accumulates "col = ?" pairs for a partial UPDATE.
type setBuilder struct {
	clauses []string
	args    []any
}

func (b *setBuilder) add(column string, value any) {
	b.clauses = append(b.clauses, column+" = ?")
	b.args = append(b.args, value)
}
