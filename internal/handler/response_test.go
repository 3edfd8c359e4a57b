package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/cabin-manager/internal/apperror"
)

func TestWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", apperror.ValidationFailed("x", "Task is required"), http.StatusBadRequest, "Task is required"},
		{"unauthorized", apperror.Unauthorized("Unauthorized"), http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", apperror.Forbidden("nope"), http.StatusForbidden, "nope"},
		{"conflict", apperror.Conflict("user", "anna"), http.StatusConflict, "user already exists: anna"},
		{"wrapped forbidden", fmt.Errorf("ctx: %w", apperror.Forbidden("nope")), http.StatusForbidden, "nope"},
		{"not found is generic", fmt.Errorf("deleting: %w", apperror.NotFound("item", "x")), http.StatusInternalServerError, "Failed to delete ToDo"},
		{"plain error is generic", errors.New("sql: connection refused"), http.StatusInternalServerError, "Failed to delete ToDo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/api/todo-list/x", nil)

			writeError(rr, req, logger, tt.err, "Failed to delete ToDo")

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body.Error)
		})
	}
}
