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

// ReservationStore implements repository.ReservationRepository.
type ReservationStore struct {
	pool *pgxpool.Pool
}

var _ repository.ReservationRepository = (*ReservationStore)(nil)

const selectReservation = `
	SELECT r.id, r.title, r.description, r.start_date, r.end_date, r.status,
	       r.admin_comment, r.user_id, owner.username,
	       r.approved_by_id, approver.username,
	       r.created_at, r.updated_at
	FROM reservations r
	LEFT JOIN users owner    ON owner.id = r.user_id
	LEFT JOIN users approver ON approver.id = r.approved_by_id`

func (s *ReservationStore) CreateReservation(ctx context.Context, r *model.Reservation) error {
	r.ID = xid.New().String()
	if r.Status == "" {
		r.Status = model.StatusPending
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO reservations
		  (id, title, description, start_date, end_date, status, admin_comment, user_id, approved_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`,
		r.ID,
		r.Title,
		r.Description,
		r.StartDate.UTC(),
		r.EndDate.UTC(),
		string(r.Status),
		r.AdminComment,
		r.UserID,
		r.ApprovedByID,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: create reservation: %w", err)
	}
	return nil
}

func (s *ReservationStore) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	r, err := scanReservation(s.pool.QueryRow(ctx, selectReservation+` WHERE r.id = $1`, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, apperror.NotFound("reservation", id)
		}
		return nil, fmt.Errorf("postgres: get reservation %s: %w", id, err)
	}
	return r, nil
}

func (s *ReservationStore) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	rows, err := s.pool.Query(ctx, selectReservation+` ORDER BY r.start_date, r.id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list reservations: %w", err)
	}
	defer rows.Close()

	reservations := []model.Reservation{}
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan reservation: %w", err)
		}
		reservations = append(reservations, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate reservations: %w", err)
	}
	return reservations, nil
}

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

	query := `UPDATE reservations SET ` + strings.Join(set.clauses, ", ") + ` WHERE id = ` + set.next()
	result, err := s.pool.Exec(ctx, query, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("postgres: update reservation %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("reservation", id)
	}
	return nil
}

func (s *ReservationStore) DeleteReservation(ctx context.Context, id string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete reservation %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("reservation", id)
	}
	return nil
}

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var (
		r                model.Reservation
		status           string
		ownerName        *string
		approverUsername *string
	)
	err := row.Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&r.StartDate,
		&r.EndDate,
		&status,
		&r.AdminComment,
		&r.UserID,
		&ownerName,
		&r.ApprovedByID,
		&approverUsername,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Status = model.ReservationStatus(status)
	if ownerName != nil {
		r.User = &model.UserRef{Username: *ownerName}
	}
	if approverUsername != nil {
		r.ApprovedBy = &model.UserRef{Username: *approverUsername}
	}
	return &r, nil
}
