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

// ReservationStore reads and writes the reservations table.
type ReservationStore struct {
	conn *sql.DB
}

var _ repository.ReservationRepository = (*ReservationStore)(nil)

// selectReservation joins the owner and the approver so every read returns
// the nested {"username": ...} objects in one round trip. Both joins are
// LEFT joins: approved_by_id is usually NULL.
const selectReservation = `
	SELECT r.id, r.title, r.description, r.start_date, r.end_date, r.status,
	       r.admin_comment, r.user_id, owner.username,
	       r.approved_by_id, approver.username,
	       r.created_at, r.updated_at
	FROM reservations r
	LEFT JOIN users owner    ON owner.id = r.user_id
	LEFT JOIN users approver ON approver.id = r.approved_by_id`

// CreateReservation inserts r. Status defaults to PENDING when empty.
func (s *ReservationStore) CreateReservation(ctx context.Context, r *model.Reservation) error {
	r.ID = xid.New().String()
	r.CreatedAt = now()
	r.UpdatedAt = r.CreatedAt
	if r.Status == "" {
		r.Status = model.StatusPending
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO reservations
		   (id, title, description, start_date, end_date, status, admin_comment,
		    user_id, approved_by_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.Title,
		r.Description,
		r.StartDate.UTC(),
		r.EndDate.UTC(),
		string(r.Status),
		r.AdminComment,
		r.UserID,
		r.ApprovedByID,
		r.CreatedAt,
		r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting reservation: %w", err)
	}
	return nil
}

func (s *ReservationStore) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	r, err := scanReservation(s.conn.QueryRowContext(ctx, selectReservation+` WHERE r.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("reservation", id)
		}
		return nil, fmt.Errorf("sqlite: getting reservation %s: %w", id, err)
	}
	return r, nil
}

// ListReservations returns every reservation, earliest start first.
func (s *ReservationStore) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	rows, err := s.conn.QueryContext(ctx, selectReservation+` ORDER BY r.start_date, r.id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing reservations: %w", err)
	}
	defer rows.Close()

	reservations := []model.Reservation{}
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning reservation row: %w", err)
		}
		reservations = append(reservations, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reservation rows: %w", err)
	}
	return reservations, nil
}

// UpdateReservation writes the non-nil fields of changes plus updated_at in
// a single UPDATE.
func (s *ReservationStore) UpdateReservation(ctx context.Context, id string, changes model.ReservationChanges) error {
	var set setBuilder
	if changes.Title != nil {
		set.add("title", *changes.Title)
	}
	if changes.Description != nil {
		set.add("description", *changes.Description)
	}
	if changes.StartDate != nil {
		set.add("start_date", changes.StartDate.UTC())
	}
	if changes.EndDate != nil {
		set.add("end_date", changes.EndDate.UTC())
	}
	if changes.Status != nil {
		set.add("status", string(*changes.Status))
	}
	if changes.AdminComment != nil {
		set.add("admin_comment", *changes.AdminComment)
	}
	if changes.ApprovedByID != nil {
		set.add("approved_by_id", *changes.ApprovedByID)
	}
	set.add("updated_at", now())

	query := `UPDATE reservations SET ` + strings.Join(set.clauses, ", ") + ` WHERE id = ?`
	result, err := s.conn.ExecContext(ctx, query, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("sqlite: updating reservation %s: %w", id, err)
	}
	return requireOneRow(result, "reservation", id)
}

func (s *ReservationStore) DeleteReservation(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting reservation %s: %w", id, err)
	}
	return requireOneRow(result, "reservation", id)
}

func scanReservation(row scanner) (*model.Reservation, error) {
	var (
		r                model.Reservation
		status           string
		adminComment     sql.NullString
		ownerName        sql.NullString
		approvedByID     sql.NullString
		approverUsername sql.NullString
	)
	err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&r.StartDate,
		&r.EndDate,
		&status,
		&adminComment,
		&r.UserID,
		&ownerName,
		&approvedByID,
		&approverUsername,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Status = model.ReservationStatus(status)
	if adminComment.Valid {
		r.AdminComment = &adminComment.String
	}
	if ownerName.Valid {
		r.User = &model.UserRef{Username: ownerName.String}
	}
	if approvedByID.Valid {
		r.ApprovedByID = &approvedByID.String
	}
	if approverUsername.Valid {
		r.ApprovedBy = &model.UserRef{Username: approverUsername.String}
	}
	return &r, nil
}
