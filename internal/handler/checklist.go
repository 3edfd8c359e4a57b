package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/checklist"
	"github.com/sakif/cabin-manager/internal/service"
)

type ChecklistHandler struct {
	svc    *service.ChecklistService
	logger *slog.Logger
}

func NewChecklistHandler(svc *service.ChecklistService, logger *slog.Logger) *ChecklistHandler {
	return &ChecklistHandler{svc: svc, logger: logger}
}

type checklistResponse struct {
	Sections []checklist.Section `json:"sections"`
	Total    int                 `json:"total"`
}

// HandleChecklist serves GET /api/checklist.
func (h *ChecklistHandler) HandleChecklist(w http.ResponseWriter, r *http.Request) {
	sections, err := h.svc.Sections(auth.PrincipalFromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err, "Oh no! Something went wrong!")
		return
	}
	writeJSON(w, http.StatusOK, checklistResponse{Sections: sections, Total: checklist.ItemCount(sections)})
}
