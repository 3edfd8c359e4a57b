// Package repository defines the storage interfaces the services depend
// on. Implementations live in repository/sqlite and repository/postgres;
// services never import either.
//
// Every method that touches a single row reports a missing row as
// apperror.ErrNotFound.
package repository

import (
	"context"

	"github.com/sakif/cabin-manager/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateUserRole(ctx context.Context, id string, role model.Role) error
}

// ReservationRepository reads reservations joined with the owner's and the
// approver's usernames.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, r *model.Reservation) error
	GetReservation(ctx context.Context, id string) (*model.Reservation, error)
	ListReservations(ctx context.Context) ([]model.Reservation, error)
	// UpdateReservation writes only the non-nil fields of changes, in one
	// statement.
	UpdateReservation(ctx context.Context, id string, changes model.ReservationChanges) error
	DeleteReservation(ctx context.Context, id string) error
}

// ListItemRepository stores one kind of list item (shopping or to-do),
// joined with the adding user's username on reads.
type ListItemRepository interface {
	Create(ctx context.Context, item *model.ListItem) error
	GetByID(ctx context.Context, id string) (*model.ListItem, error)
	List(ctx context.Context) ([]model.ListItem, error)
	Update(ctx context.Context, id string, changes model.ListItemChanges) error
	Delete(ctx context.Context, id string) error
}

// Store is a complete storage backend.
type Store interface {
	Users() UserRepository
	Reservations() ReservationRepository
	ShoppingList() ListItemRepository
	TodoList() ListItemRepository
	Close() error
}
