package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"

	"github.com/sakif/cabin-manager/internal/apperror"
	"github.com/sakif/cabin-manager/internal/model"
	"github.com/sakif/cabin-manager/internal/repository"
)

// UserStore implements repository.UserRepository.
type UserStore struct {
	pool *pgxpool.Pool
}

var _ repository.UserRepository = (*UserStore)(nil)

func (s *UserStore) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, user.ID, user.Username, user.PasswordHash, string(user.Role)).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isPgDuplicateError(err) {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("postgres: create user %s: %w", user.Username, err)
	}
	return nil
}

const selectUser = `SELECT id, username, password_hash, role, created_at, updated_at FROM users`

func (s *UserStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("postgres: get user %s: %w", id, err)
	}
	return u, nil
}

func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, selectUser+` WHERE username = $1`, username))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("postgres: get user %s: %w", username, err)
	}
	return u, nil
}

func (s *UserStore) UpdateUserRole(ctx context.Context, id string, role model.Role) error {
	result, err := s.pool.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`,
		string(role), now(), id,
	)
	if err != nil {
		return fmt.Errorf("postgres: update role of user %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	return &u, nil
}
