// Package service contains the business rules. Every operation takes the
// caller's principal explicitly and runs it through authz before any
// storage call; handlers never decide permissions themselves.
//
//	Handler (HTTP) → Service (authz, validation) → Repository (SQL)
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/sakif/cabin-manager/internal/apperror"
	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/authz"
	"github.com/sakif/cabin-manager/internal/model"
	"github.com/sakif/cabin-manager/internal/repository"
)

// ReservationInput is the body of a create request.
type ReservationInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// Validate checks the dates. The title is optional.
func (in ReservationInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.StartDate,
			validation.Required.Error("Start date is required"),
			isDate("Start date must be a valid date"),
		),
		validation.Field(&in.EndDate,
			validation.Required.Error("End date is required"),
			isDate("End date must be a valid date"),
		),
	)
}

// ReservationPatch carries the string fields of an update request that
// were present in the body with a string value. Nil means absent.
//
// AdminFieldsSent is set when the body carried a status or adminComment
// of any type that was not null, false, "" or 0. Such a value is never
// applied, but it still counts as an attempt to change the admin fields.
type ReservationPatch struct {
	Title        *string
	Description  *string
	StartDate    *string
	EndDate      *string
	Status       *string
	AdminComment *string

	AdminFieldsSent bool
}

// touchesAdminFields reports whether the caller tried to set status or the
// admin comment. A whitespace-only string is an attempt too.
func (p ReservationPatch) touchesAdminFields() bool {
	return p.AdminFieldsSent || isSet(p.Status) || isSet(p.AdminComment)
}

func isSet(s *string) bool {
	return s != nil && *s != ""
}

type ReservationService struct {
	repo   repository.ReservationRepository
	demo   func() []model.Reservation
	logger *slog.Logger
}

// NewReservationService wires the live repository and the canned
// reservations DUMMY sessions read instead.
func NewReservationService(repo repository.ReservationRepository, demo func() []model.Reservation, logger *slog.Logger) *ReservationService {
	return &ReservationService{repo: repo, demo: demo, logger: logger}
}

// List returns the caller's read projection: the demo reservations for
// DUMMY, every live reservation otherwise.
func (s *ReservationService) List(ctx context.Context, p *auth.Principal) ([]model.Reservation, error) {
	if err := authz.Check(p, authz.Request{Resource: authz.Reservation, Action: authz.Read}); err != nil {
		return nil, err
	}
	if authz.ReadsDemoData(p) {
		return s.demo(), nil
	}

	reservations, err := s.repo.ListReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	return reservations, nil
}

// Create stores a new PENDING reservation owned by the caller.
func (s *ReservationService) Create(ctx context.Context, p *auth.Principal, in ReservationInput) (*model.Reservation, error) {
	if err := authz.Check(p, authz.Request{Resource: authz.Reservation, Action: authz.Create}); err != nil {
		return nil, err
	}
	if err := toAppError(in.Validate()); err != nil {
		return nil, err
	}

	start, _ := parseDate(in.StartDate)
	end, _ := parseDate(in.EndDate)
	err := validation.Validate(end, validation.Min(start).Error("End date must not be before start date"))
	if err := toAppError(err); err != nil {
		return nil, err
	}

	r := &model.Reservation{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		StartDate:   start,
		EndDate:     end,
		Status:      model.StatusPending,
		UserID:      p.UserID,
	}
	if err := s.repo.CreateReservation(ctx, r); err != nil {
		return nil, fmt.Errorf("creating reservation: %w", err)
	}
	r.User = &model.UserRef{Username: p.Username}

	s.logger.Info("reservation created",
		slog.String("id", r.ID),
		slog.String("user", p.Username),
		slog.Time("start", r.StartDate),
		slog.Time("end", r.EndDate),
	)
	return r, nil
}

// Update applies the effective part of patch and returns the joined record.
//
// Permission is decided on the raw patch, before any field is validated,
// so a USER who sends a malformed status still gets 403 rather than 400.
func (s *ReservationService) Update(ctx context.Context, p *auth.Principal, id string, patch ReservationPatch) (*model.Reservation, error) {
	if err := authz.RequireSession(p); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "Reservation ID is required")
	}
	req := authz.Request{Resource: authz.Reservation, Action: authz.Update, AdminFields: patch.touchesAdminFields()}
	if err := authz.Check(p, req); err != nil {
		return nil, err
	}

	changes, err := effectiveReservationChanges(patch)
	if err != nil {
		return nil, err
	}
	// The approver is whoever last wrote the admin comment.
	if changes.AdminComment != nil {
		changes.ApprovedByID = &p.UserID
	}
	if changes.IsEmpty() {
		return nil, apperror.ValidationFailed("", "No changes submitted")
	}

	if err := s.repo.UpdateReservation(ctx, id, changes); err != nil {
		return nil, fmt.Errorf("updating reservation %s: %w", id, err)
	}

	r, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reloading reservation %s: %w", id, err)
	}

	s.logger.Info("reservation updated",
		slog.String("id", id),
		slog.String("user", p.Username),
		slog.String("status", string(r.Status)),
	)
	return r, nil
}

func effectiveReservationChanges(patch ReservationPatch) (model.ReservationChanges, error) {
	changes := model.ReservationChanges{
		Title:        nonBlank(patch.Title),
		Description:  nonBlank(patch.Description),
		AdminComment: nonBlank(patch.AdminComment),
	}

	if v := nonBlank(patch.StartDate); v != nil {
		t, err := parseDate(*v)
		if err != nil {
			return changes, apperror.ValidationFailed("startDate", "Start date must be a valid date")
		}
		changes.StartDate = &t
	}
	if v := nonBlank(patch.EndDate); v != nil {
		t, err := parseDate(*v)
		if err != nil {
			return changes, apperror.ValidationFailed("endDate", "End date must be a valid date")
		}
		changes.EndDate = &t
	}
	if changes.StartDate != nil && changes.EndDate != nil {
		err := validation.Validate(*changes.EndDate, validation.Min(*changes.StartDate).Error("End date must not be before start date"))
		if err := toAppError(err); err != nil {
			return changes, err
		}
	}

	if v := nonBlank(patch.Status); v != nil {
		err := validation.Validate(*v, validation.In(statusValues()...).Error("Invalid status"))
		if err := toAppError(err); err != nil {
			return changes, err
		}
		st := model.ReservationStatus(*v)
		changes.Status = &st
	}

	return changes, nil
}

func statusValues() []any {
	values := make([]any, len(model.Statuses))
	for i, st := range model.Statuses {
		values[i] = string(st)
	}
	return values
}

// Delete removes a reservation. A missing id surfaces as ErrNotFound.
func (s *ReservationService) Delete(ctx context.Context, p *auth.Principal, id string) error {
	if err := authz.Check(p, authz.Request{Resource: authz.Reservation, Action: authz.Delete}); err != nil {
		return err
	}
	if err := s.repo.DeleteReservation(ctx, id); err != nil {
		return fmt.Errorf("deleting reservation %s: %w", id, err)
	}
	s.logger.Info("reservation deleted", slog.String("id", id), slog.String("user", p.Username))
	return nil
}

// Stats summarises the caller's read projection.
func (s *ReservationService) Stats(ctx context.Context, p *auth.Principal) (*model.ReservationStats, error) {
	reservations, err := s.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return computeStats(reservations), nil
}

func computeStats(reservations []model.Reservation) *model.ReservationStats {
	stats := &model.ReservationStats{Total: len(reservations)}
	for _, r := range reservations {
		switch r.Status {
		case model.StatusPending:
			stats.Pending++
		case model.StatusApproved:
			stats.Approved++
		case model.StatusRejected:
			stats.Rejected++
		}
	}
	stats.ApprovalRate = model.Percent(stats.Approved, stats.Total)
	return stats
}
