package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"

	"github.com/sakif/cabin-manager/internal/apperror"
	"github.com/sakif/cabin-manager/internal/model"
	"github.com/sakif/cabin-manager/internal/repository"
)

type listTable struct {
	name       string
	resource   string
	textColumn string
	doneColumn string
}

var (
	shoppingListTable = listTable{name: "shopping_list", resource: "shopping list item", textColumn: "item_name", doneColumn: "is_bought"}
	todoListTable     = listTable{name: "todo_list", resource: "todo item", textColumn: "task", doneColumn: "is_completed"}
)

// ListStore implements repository.ListItemRepository for one list table.
type ListStore struct {
	pool  *pgxpool.Pool
	table listTable
}

var _ repository.ListItemRepository = (*ListStore)(nil)

func (s *ListStore) selectQuery() string {
	return fmt.Sprintf(`
		SELECT t.id, t.%[2]s, t.%[3]s, t.added_by_id, u.username, t.created_at, t.updated_at
		FROM %[1]s t
		LEFT JOIN users u ON u.id = t.added_by_id`,
		s.table.name, s.table.textColumn, s.table.doneColumn)
}

func (s *ListStore) Create(ctx context.Context, item *model.ListItem) error {
	item.ID = xid.New().String()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, %s, added_by_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, s.table.name, s.table.textColumn, s.table.doneColumn)

	err := s.pool.QueryRow(ctx, query, item.ID, item.Text, item.Done, item.AddedByID).
		Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: create %s: %w", s.table.resource, err)
	}
	return nil
}

func (s *ListStore) GetByID(ctx context.Context, id string) (*model.ListItem, error) {
	item, err := scanListItem(s.pool.QueryRow(ctx, s.selectQuery()+` WHERE t.id = $1`, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, apperror.NotFound(s.table.resource, id)
		}
		return nil, fmt.Errorf("postgres: get %s %s: %w", s.table.resource, id, err)
	}
	return item, nil
}

func (s *ListStore) List(ctx context.Context) ([]model.ListItem, error) {
	rows, err := s.pool.Query(ctx, s.selectQuery()+` ORDER BY t.created_at, t.id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list %s: %w", s.table.name, err)
	}
	defer rows.Close()

	items := []model.ListItem{}
	for rows.Next() {
		item, err := scanListItem(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan %s: %w", s.table.resource, err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate %s: %w", s.table.name, err)
	}
	return items, nil
}

func (s *ListStore) Update(ctx context.Context, id string, changes model.ListItemChanges) error {
	var set setBuilder
	if changes.Text != nil {
		set.add(s.table.textColumn, *changes.Text)
	}
	if changes.Done != nil {
		set.add(s.table.doneColumn, *changes.Done)
	}
	set.add("updated_at", now())

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = %s`, s.table.name, strings.Join(set.clauses, ", "), set.next())
	result, err := s.pool.Exec(ctx, query, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("postgres: update %s %s: %w", s.table.resource, id, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound(s.table.resource, id)
	}
	return nil
}

func (s *ListStore) Delete(ctx context.Context, id string) error {
	result, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table.name), id)
	if err != nil {
		return fmt.Errorf("postgres: delete %s %s: %w", s.table.resource, id, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound(s.table.resource, id)
	}
	return nil
}

func scanListItem(row pgx.Row) (*model.ListItem, error) {
	var (
		item     model.ListItem
		username *string
	)
	if err := row.Scan(&item.ID, &item.Text, &item.Done, &item.AddedByID, &username, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if username != nil {
		item.AddedBy = &model.UserRef{Username: *username}
	}
	return &item, nil
}
