// Package authz is the authorization gate: a pure decision over who may do
// what. It performs no I/O and has no side effects, so every service calls
// it before touching storage and tests can cover it exhaustively.
//
// Rules, in precedence order:
//  1. no session                                → 401 "Unauthorized"
//  2. DUMMY + create/update/delete              → 403, message per resource/action
//  3. reservation update touching status or
//     adminComment by anyone but ADMIN          → 403 "Only admins can update status and comment"
//  4. otherwise                                 → allow
//
// Roles outside the closed set are denied outright.
package authz

import (
	"github.com/sakif/cabin-manager/internal/apperror"
	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/model"
)

type Resource int

const (
	Reservation Resource = iota
	ShoppingList
	TodoList
)

func (r Resource) String() string {
	switch r {
	case Reservation:
		return "reservation"
	case ShoppingList:
		return "shopping list"
	case TodoList:
		return "todo list"
	default:
		return "unknown resource"
	}
}

type Action int

const (
	Read Action = iota
	Create
	Update
	Delete
)

func (a Action) mutates() bool {
	return a != Read
}

// Request describes one attempted operation. AdminFields is set when a
// reservation update carries status or adminComment.
type Request struct {
	Resource    Resource
	Action      Action
	AdminFields bool
}

const (
	msgUnauthorized = "Unauthorized"
	msgAdminFields  = "Only admins can update status and comment"
	msgUnknownRole  = "Unknown role"
)

// dummyDenials are the messages DUMMY sessions get for each blocked
// mutation. The wording differs per resource because the web client shows
// it verbatim.
var dummyDenials = map[Resource]map[Action]string{
	Reservation: {
		Create: "DUMMY users cannot add items to the reservation list",
		Update: "DUMMY users cannot update items in the calendar",
		Delete: "DUMMY users cannot delete items from the calendar",
	},
	ShoppingList: {
		Create: "DUMMY users cannot add items to the shopping list",
		Update: "DUMMY users cannot update items from the shopping list",
		Delete: "DUMMY users cannot delete items from the shopping list",
	},
	TodoList: {
		Create: "DUMMY users cannot add items to the todo list",
		Update: "Cannot update ToDo`s as a Dummy user",
		Delete: "Cannot delete ToDo`s as a Dummy user",
	},
}

// DummyDenial returns the message a DUMMY session gets for req.
func DummyDenial(res Resource, act Action) string {
	if msg, ok := dummyDenials[res][act]; ok {
		return msg
	}
	return "DUMMY users cannot modify the " + res.String()
}

// RequireSession is rule 1 on its own. Handlers that must validate path
// input between the 401 and 403 checks call it first.
func RequireSession(p *auth.Principal) error {
	if p == nil {
		return apperror.Unauthorized(msgUnauthorized)
	}
	return nil
}

// Check returns nil when p may perform req, otherwise an *apperror.AppError
// wrapping ErrUnauthorized or ErrForbidden.
func Check(p *auth.Principal, req Request) error {
	if err := RequireSession(p); err != nil {
		return err
	}

	switch p.Role {
	case model.RoleDummy:
		if req.Action.mutates() {
			return apperror.Forbidden(DummyDenial(req.Resource, req.Action))
		}
		return nil

	case model.RoleUser:
		if req.Resource == Reservation && req.Action == Update && req.AdminFields {
			return apperror.Forbidden(msgAdminFields)
		}
		return nil

	case model.RoleAdmin:
		return nil

	default:
		return apperror.Forbidden(msgUnknownRole)
	}
}

// ReadsDemoData reports whether p's reads are served from the canned
// dataset instead of live storage.
func ReadsDemoData(p *auth.Principal) bool {
	return p != nil && p.Role == model.RoleDummy
}
