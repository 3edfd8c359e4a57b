package auth

import (
	"context"
	"net/http"

	"github.com/sakif/cabin-manager/internal/model"
)

// CookieName is the cookie that carries the session JWT.
const CookieName = "token"

// Principal is the identity attached to an authenticated request.
type Principal struct {
	UserID   string     `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// contextKey is unexported so no other package can read or shadow the
// principal stored in a request context.
type contextKey string

const principalKey contextKey = "principal"

// Session is a middleware that resolves the session cookie, if any, into a
// Principal stored in the request context. It never rejects a request:
// deciding what an anonymous caller may do is the authorization gate's job,
// and the page gate needs anonymous requests to reach it too.
func Session(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p, err := extractPrincipal(r, tokens); err == nil {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the session principal, or nil for an
// anonymous request. Handlers call this once and pass the result on
// explicitly; services never read the context themselves.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalKey).(Principal)
	if !ok || p.UserID == "" {
		return nil
	}
	return &p
}

func extractPrincipal(r *http.Request, tokens *TokenService) (Principal, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Principal{}, err
	}
	return tokens.Validate(cookie.Value)
}
