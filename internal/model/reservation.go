package model

import (
	"fmt"
	"time"
)

// ReservationStatus is the approval state of a reservation.
//
//	PENDING --(admin approves)--> APPROVED
//	PENDING --(admin rejects)---> REJECTED
//
// New reservations always start as PENDING.
type ReservationStatus string

const (
	StatusPending  ReservationStatus = "PENDING"
	StatusApproved ReservationStatus = "APPROVED"
	StatusRejected ReservationStatus = "REJECTED"
)

// Statuses lists every valid status, in workflow order.
var Statuses = []ReservationStatus{StatusPending, StatusApproved, StatusRejected}

func ParseStatus(s string) (ReservationStatus, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("model: unknown reservation status %q", s)
}

// Reservation is a request to use the cabin between two instants.
//
// The demo dataset uses the same struct with the ownership and audit
// fields left empty; omitempty/omitzero keep them out of the JSON.
type Reservation struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	StartDate    time.Time         `json:"startDate"`
	EndDate      time.Time         `json:"endDate"`
	Status       ReservationStatus `json:"status"`
	AdminComment *string           `json:"adminComment,omitempty"`
	UserID       string            `json:"userId,omitempty"`
	User         *UserRef          `json:"user,omitempty"`
	ApprovedByID *string           `json:"approvedById,omitempty"`
	ApprovedBy   *UserRef          `json:"approvedBy,omitempty"`
	CreatedAt    time.Time         `json:"createdAt,omitzero"`
	UpdatedAt    time.Time         `json:"updatedAt,omitzero"`
}

// ReservationChanges is an effective patch: every non-nil field is written,
// every nil field is left untouched. AdminComment and ApprovedByID are set
// together by the service.
type ReservationChanges struct {
	Title        *string
	Description  *string
	StartDate    *time.Time
	EndDate      *time.Time
	Status       *ReservationStatus
	AdminComment *string
	ApprovedByID *string
}

// IsEmpty reports whether the patch would change nothing.
func (c ReservationChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil &&
		c.StartDate == nil && c.EndDate == nil &&
		c.Status == nil && c.AdminComment == nil && c.ApprovedByID == nil
}

// ReservationStats summarises a set of reservations for the admin dashboard.
type ReservationStats struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	Approved     int `json:"approved"`
	Rejected     int `json:"rejected"`
	ApprovalRate int `json:"approvalRate"` // percent, rounded
}
