package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/service"
)

const (
	stateCookie = "oauth_state"

	msgLoginFailed = "Oh no! Something went wrong!"
)

// AuthHandler manages sign-in, sign-out and the session probe.
//
//   - HandleLogin          → username + password, sets the token cookie
//   - HandleLogout         → clears the token cookie
//   - HandleSession        → returns the current principal
//   - HandleGitHubLogin    → redirect to GitHub (only when configured)
//   - HandleGitHubCallback → sign in the matching provisioned user
type AuthHandler struct {
	svc           *service.AuthService
	github        *auth.GitHubProvider // nil when GitHub sign-in is off
	secureCookies bool
	logger        *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, github *auth.GitHubProvider, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:           svc,
		github:        github,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// GitHubEnabled reports whether the GitHub routes should be mounted.
func (h *AuthHandler) GitHubEnabled() bool {
	return h.github != nil
}

// setSession stores the JWT in an HttpOnly cookie that expires with the
// token. SameSite=Lax keeps it off cross-site POSTs.
func (h *AuthHandler) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.svc.SessionTTL(),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// HandleLogin serves POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err, msgLoginFailed)
		return
	}

	result, err := h.svc.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err, msgLoginFailed)
		return
	}

	h.setSession(w, result.Token)
	writeJSON(w, http.StatusOK, result.Principal)
}

// HandleLogout serves POST /api/auth/logout. Sessions are stateless, so
// this only deletes the cookie; the token itself stays valid until it
// expires.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleSession serves GET /api/auth/session.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Session(r.Context(), auth.PrincipalFromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err, msgLoginFailed)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleGitHubLogin redirects the browser to GitHub's authorization page.
//
// CSRF PROTECTION VIA STATE:
// A random state goes into a short-lived cookie and into the redirect URL;
// the callback only proceeds when the two match.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow.
//
//  1. Validate the state parameter (CSRF check)
//  2. Exchange the code for a GitHub profile
//  3. Find the provisioned user with the same username
//  4. Set the token cookie and go to the dashboard
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || r.URL.Query().Get("state") != cookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// The state is single-use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	result, err := h.svc.LoginWithGitHub(r.Context(), ghUser)
	if err != nil {
		h.logger.Info("auth callback: sign-in refused", slog.String("login", ghUser.Login), slog.String("error", err.Error()))
		http.Redirect(w, r, "/?auth=unknown", http.StatusSeeOther)
		return
	}

	h.setSession(w, result.Token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
