package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/cabin-manager/internal/apperror"
	"github.com/sakif/cabin-manager/internal/model"
	"github.com/sakif/cabin-manager/internal/repository"
)

// listTable names the table and columns behind one list kind. The two list
// tables differ only in these names.
type listTable struct {
	name       string
	resource   string
	textColumn string
	doneColumn string
}

var (
	shoppingListTable = listTable{
		name:       "shopping_list",
		resource:   "shopping list item",
		textColumn: "item_name",
		doneColumn: "is_bought",
	}
	todoListTable = listTable{
		name:       "todo_list",
		resource:   "todo item",
		textColumn: "task",
		doneColumn: "is_completed",
	}
)

// ListStore reads and writes one list table.
type ListStore struct {
	conn  *sql.DB
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
	item.CreatedAt = now()
	item.UpdatedAt = item.CreatedAt

	query := fmt.Sprintf(
		`INSERT INTO %s (id, %s, %s, added_by_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		s.table.name, s.table.textColumn, s.table.doneColumn,
	)
	_, err := s.conn.ExecContext(ctx, query,
		item.ID, item.Text, item.Done, item.AddedByID, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting %s: %w", s.table.resource, err)
	}
	return nil
}

func (s *ListStore) GetByID(ctx context.Context, id string) (*model.ListItem, error) {
	item, err := scanListItem(s.conn.QueryRowContext(ctx, s.selectQuery()+` WHERE t.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(s.table.resource, id)
		}
		return nil, fmt.Errorf("sqlite: getting %s %s: %w", s.table.resource, id, err)
	}
	return item, nil
}

// List returns every item in insertion order.
func (s *ListStore) List(ctx context.Context) ([]model.ListItem, error) {
	rows, err := s.conn.QueryContext(ctx, s.selectQuery()+` ORDER BY t.created_at, t.id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing %s: %w", s.table.name, err)
	}
	defer rows.Close()

	items := []model.ListItem{}
	for rows.Next() {
		item, err := scanListItem(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning %s row: %w", s.table.resource, err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating %s rows: %w", s.table.name, err)
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

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ?`, s.table.name, strings.Join(set.clauses, ", "))
	result, err := s.conn.ExecContext(ctx, query, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("sqlite: updating %s %s: %w", s.table.resource, id, err)
	}
	return requireOneRow(result, s.table.resource, id)
}

func (s *ListStore) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.table.name), id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting %s %s: %w", s.table.resource, id, err)
	}
	return requireOneRow(result, s.table.resource, id)
}

func scanListItem(row scanner) (*model.ListItem, error) {
	var (
		item     model.ListItem
		username sql.NullString
	)
	if err := row.Scan(&item.ID, &item.Text, &item.Done, &item.AddedByID, &username, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if username.Valid {
		item.AddedBy = &model.UserRef{Username: username.String}
	}
	return &item, nil
}
