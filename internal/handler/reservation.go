package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/authz"
	"github.com/sakif/cabin-manager/internal/service"
)

// msgReservationFailed is the generic 500 for every reservation operation.
const msgReservationFailed = "Oh no! Something went wrong!"

// ReservationHandler serves /api/reservation.
type ReservationHandler struct {
	svc    *service.ReservationService
	logger *slog.Logger
}

func NewReservationHandler(svc *service.ReservationService, logger *slog.Logger) *ReservationHandler {
	return &ReservationHandler{svc: svc, logger: logger}
}

// reservationPatchBody is the PATCH body. Only string values are applied.
type reservationPatchBody struct {
	Title        OptionalString `json:"title"`
	Description  OptionalString `json:"description"`
	StartDate    OptionalString `json:"startDate"`
	EndDate      OptionalString `json:"endDate"`
	Status       OptionalString `json:"status"`
	AdminComment OptionalString `json:"adminComment"`
}

func (b reservationPatchBody) patch() service.ReservationPatch {
	return service.ReservationPatch{
		Title:        b.Title.Get(),
		Description:  b.Description.Get(),
		StartDate:    b.StartDate.Get(),
		EndDate:      b.EndDate.Get(),
		Status:       b.Status.Get(),
		AdminComment: b.AdminComment.Get(),

		AdminFieldsSent: b.Status.Truthy || b.AdminComment.Truthy,
	}
}

// HandleList serves GET /api/reservation.
func (h *ReservationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.svc.List(r.Context(), auth.PrincipalFromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err, msgReservationFailed)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

// HandleCreate serves POST /api/reservation.
func (h *ReservationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())

	var in service.ReservationInput
	if err := decodeJSON(w, r, &in); err != nil {
		bodyError(w, r, h.logger, p, authz.Request{Resource: authz.Reservation, Action: authz.Create}, err)
		return
	}

	reservation, err := h.svc.Create(r.Context(), p, in)
	if err != nil {
		writeError(w, r, h.logger, err, msgReservationFailed)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// HandleUpdate serves PATCH /api/reservation/{id}. It is also mounted on
// PATCH /api/reservation, where the missing id is reported by the service.
func (h *ReservationHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var body reservationPatchBody
	if id != "" {
		if err := decodeJSON(w, r, &body); err != nil {
			bodyError(w, r, h.logger, p, authz.Request{Resource: authz.Reservation, Action: authz.Update}, err)
			return
		}
	}

	reservation, err := h.svc.Update(r.Context(), p, id, body.patch())
	if err != nil {
		writeError(w, r, h.logger, err, msgReservationFailed)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// HandleDelete serves DELETE /api/reservation/{id}.
func (h *ReservationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err, msgReservationFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"success": "Item deleted"})
}

// HandleStats serves GET /api/reservation/stats.
func (h *ReservationHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), auth.PrincipalFromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err, msgReservationFailed)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
