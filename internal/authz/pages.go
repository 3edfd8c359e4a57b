package authz

import (
	"strings"

	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/model"
)

const (
	PathLogin     = "/"
	PathDashboard = "/dashboard"
	PathAdmin     = "/dashboard/admin"
)

// memberPages are the dashboard sections USER and DUMMY may open, besides
// the dashboard root itself.
var memberPages = []string{
	"/dashboard/shopping-list",
	"/dashboard/todo-list",
	"/dashboard/calendar",
}

// PageRedirect decides where a page request for path should go instead.
// It returns ("", false) when the page may be served as requested.
// The router only sends "/" and the /dashboard subtree through it.
func PageRedirect(p *auth.Principal, path string) (string, bool) {
	inDashboard := path == PathDashboard || strings.HasPrefix(path, PathDashboard+"/")

	if p == nil {
		if inDashboard {
			return PathLogin, true
		}
		return "", false
	}

	// An unknown role is sent to the login page and kept there; sending it
	// to /dashboard first would bounce between the two forever.
	if !p.Role.Valid() {
		if path == PathLogin {
			return "", false
		}
		return PathLogin, true
	}

	if path == PathLogin {
		return PathDashboard, true
	}

	switch p.Role {
	case model.RoleAdmin:
		if !inDashboard {
			return PathAdmin, true
		}
		return "", false

	case model.RoleUser, model.RoleDummy:
		if path == PathAdmin || !memberMayOpen(path) {
			return PathDashboard, true
		}
		return "", false
	}
	return PathLogin, true
}

func memberMayOpen(path string) bool {
	if path == PathDashboard {
		return true
	}
	for _, prefix := range memberPages {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
