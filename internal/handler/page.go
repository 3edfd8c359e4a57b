// Package handler contains the HTTP handlers: JSON endpoints under /api and
// the server-rendered page shell.
//
// Handlers parse requests, call a service with the session principal and
// write the response. They hold no business rules of their own.
package handler

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/authz"
)

// PageHandler renders the page shell after the page gate.
//
// Templates are parsed once at startup. login.html and dashboard.html both
// define "content", so each is parsed into its own set with base.html.
type PageHandler struct {
	login     *template.Template
	dashboard *template.Template
	github    bool
	logger    *slog.Logger
}

// NewPageHandler parses the templates in fsys. github toggles the
// "Sign in with GitHub" link.
func NewPageHandler(fsys fs.FS, github bool, logger *slog.Logger) (*PageHandler, error) {
	login, err := template.ParseFS(fsys, "base.html", "login.html")
	if err != nil {
		return nil, fmt.Errorf("handler: parsing login templates: %w", err)
	}
	dashboard, err := template.ParseFS(fsys, "base.html", "dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("handler: parsing dashboard templates: %w", err)
	}

	return &PageHandler{
		login:     login,
		dashboard: dashboard,
		github:    github,
		logger:    logger,
	}, nil
}

type pageData struct {
	Title     string
	Principal *auth.Principal
	Section   string
	GitHub    bool
}

// HandlePage serves "/" and everything under /dashboard.
func (h *PageHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())

	if target, redirect := authz.PageRedirect(p, r.URL.Path); redirect {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	tmpl := h.dashboard
	data := pageData{Title: "Cabin", Principal: p, GitHub: h.github}
	if r.URL.Path == authz.PathLogin {
		tmpl = h.login
		data.Title = "Cabin · Sign in"
	} else {
		data.Section = dashboardSection(r.URL.Path)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// dashboardSection is the first path segment after /dashboard, e.g.
// "calendar" for /dashboard/calendar/2025.
func dashboardSection(path string) string {
	rest := strings.TrimPrefix(strings.TrimPrefix(path, authz.PathDashboard), "/")
	section, _, _ := strings.Cut(rest, "/")
	return section
}
