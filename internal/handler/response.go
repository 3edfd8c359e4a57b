package handler

// RESPONSE HELPERS:
// Every handler answers through writeJSON, and every failure through
// writeError, so the status mapping and the error body live in one place.
//
// ERROR FORMAT:
//   {"error": "<message>"}
// The message is safe to show to a user. Internal failures never leak
// their cause; the client gets the resource's generic message and the
// cause goes to the log.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/cabin-manager/internal/apperror"
	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/authz"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

const msgInvalidBody = "Invalid request body"

// ErrorResponse is the error body returned by every API endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be set before the body is written.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a service error to a status code and sends it.
//
//	ErrValidation   → 400
//	ErrUnauthorized → 401
//	ErrForbidden    → 403
//	ErrConflict     → 409
//	anything else   → 500 with internalMsg
//
// ErrNotFound deliberately falls into the last bucket: updating or deleting
// a row that does not exist reports the resource's generic failure.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, internalMsg string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := 0
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}
		if status != 0 {
			writeJSON(w, status, ErrorResponse{Error: appErr.Message})
			return
		}
	}

	logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("requestID", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()),
	)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: internalMsg})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.ValidationFailed("", msgInvalidBody)
	}
	return nil
}

// bodyError answers a request whose body could not be decoded. The gate
// still runs first, so an anonymous or DUMMY caller gets the same 401/403
// they would get with a well-formed body.
func bodyError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, p *auth.Principal, req authz.Request, err error) {
	if denied := authz.Check(p, req); denied != nil {
		err = denied
	}
	writeError(w, r, logger, err, msgInvalidBody)
}
