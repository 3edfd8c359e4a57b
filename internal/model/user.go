// Package model defines the data structures used throughout the application.
package model

import (
	"fmt"
	"time"
)

// Role is the closed set of roles a user can hold.
//
// Every switch over Role must handle all three values and treat anything
// else as unknown; see authz.Check.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
	RoleDummy Role = "DUMMY"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleDummy:
		return true
	default:
		return false
	}
}

// ParseRole converts a stored or user-supplied string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("model: unknown role %q", s)
	}
	return r, nil
}

// User is a household member account.
//
// Users are created by the provisioning CLI (cmd/provision); the only
// field that changes afterwards is Role. PasswordHash is a bcrypt hash and
// is never serialised.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRef is the embedded {"username": ...} object that list and
// reservation responses carry for the adding, owning or approving user.
type UserRef struct {
	Username string `json:"username"`
}
