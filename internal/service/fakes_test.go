package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sakif/cabin-manager/internal/apperror"
	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/model"
)

// =========================================================================
// FAKE REPOSITORIES
// =========================================================================
//
// In-memory stand-ins for the repository interfaces. Each one counts calls
// so tests can assert that a denied request never reached storage.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	users  map[string]*model.User // keyed by ID
	nextID int
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, u *model.User) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return apperror.Conflict("user", u.Username)
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeUserRepo) UpdateUserRole(_ context.Context, id string, role model.Role) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.Role = role
	return nil
}

type fakeReservationRepo struct {
	rows   map[string]*model.Reservation
	nextID int
	calls  int
	err    error
	// last holds the most recent UpdateReservation argument.
	last model.ReservationChanges
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{rows: make(map[string]*model.Reservation)}
}

func (f *fakeReservationRepo) CreateReservation(_ context.Context, r *model.Reservation) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.nextID++
	r.ID = fmt.Sprintf("res-%d", f.nextID)
	stored := *r
	f.rows[r.ID] = &stored
	return nil
}

func (f *fakeReservationRepo) GetReservation(_ context.Context, id string) (*model.Reservation, error) {
	f.calls++
	r, ok := f.rows[id]
	if !ok {
		return nil, apperror.NotFound("reservation", id)
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReservationRepo) ListReservations(context.Context) ([]model.Reservation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := []model.Reservation{}
	for _, r := range f.rows {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReservationRepo) UpdateReservation(_ context.Context, id string, c model.ReservationChanges) error {
	f.calls++
	f.last = c
	if f.err != nil {
		return f.err
	}
	r, ok := f.rows[id]
	if !ok {
		return apperror.NotFound("reservation", id)
	}
	if c.Title != nil {
		r.Title = *c.Title
	}
	if c.Description != nil {
		r.Description = *c.Description
	}
	if c.StartDate != nil {
		r.StartDate = *c.StartDate
	}
	if c.EndDate != nil {
		r.EndDate = *c.EndDate
	}
	if c.Status != nil {
		r.Status = *c.Status
	}
	if c.AdminComment != nil {
		r.AdminComment = c.AdminComment
	}
	if c.ApprovedByID != nil {
		r.ApprovedByID = c.ApprovedByID
	}
	return nil
}

func (f *fakeReservationRepo) DeleteReservation(_ context.Context, id string) error {
	f.calls++
	if _, ok := f.rows[id]; !ok {
		return apperror.NotFound("reservation", id)
	}
	delete(f.rows, id)
	return nil
}

type fakeListRepo struct {
	items  map[string]*model.ListItem
	order  []string
	nextID int
	calls  int
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{items: make(map[string]*model.ListItem)}
}

func (f *fakeListRepo) Create(_ context.Context, it *model.ListItem) error {
	f.calls++
	f.nextID++
	it.ID = fmt.Sprintf("item-%d", f.nextID)
	stored := *it
	f.items[it.ID] = &stored
	f.order = append(f.order, it.ID)
	return nil
}

func (f *fakeListRepo) GetByID(_ context.Context, id string) (*model.ListItem, error) {
	f.calls++
	it, ok := f.items[id]
	if !ok {
		return nil, apperror.NotFound("item", id)
	}
	copied := *it
	return &copied, nil
}

func (f *fakeListRepo) List(context.Context) ([]model.ListItem, error) {
	f.calls++
	out := []model.ListItem{}
	for _, id := range f.order {
		if it, ok := f.items[id]; ok {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeListRepo) Update(_ context.Context, id string, c model.ListItemChanges) error {
	f.calls++
	it, ok := f.items[id]
	if !ok {
		return apperror.NotFound("item", id)
	}
	if c.Text != nil {
		it.Text = *c.Text
	}
	if c.Done != nil {
		it.Done = *c.Done
	}
	return nil
}

func (f *fakeListRepo) Delete(_ context.Context, id string) error {
	f.calls++
	if _, ok := f.items[id]; !ok {
		return apperror.NotFound("item", id)
	}
	delete(f.items, id)
	return nil
}

// =========================================================================
// PRINCIPALS
// =========================================================================

var (
	admin   = &auth.Principal{UserID: "u-admin", Username: "boss", Role: model.RoleAdmin}
	member  = &auth.Principal{UserID: "u-user", Username: "anna", Role: model.RoleUser}
	visitor = &auth.Principal{UserID: "u-dummy", Username: "guest", Role: model.RoleDummy}
	ghost   = &auth.Principal{UserID: "u-ghost", Username: "ghost", Role: model.Role("ROOT")}
)

func ptr[T any](v T) *T { return &v }
