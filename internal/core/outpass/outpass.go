// Package outpass contains the pure business logic for outpass time policy.
// This is part of the Functional Core - no I/O, only pure functions of (now, outpass).
package outpass

import (
	"strings"
	"time"
)

// Status represents the lifecycle state of an outpass.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus normalizes a status string coming from the backend.
// Unknown values are returned as-is so callers surface them as InvalidState.
func ParseStatus(s string) Status {
	normalized := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch normalized {
	case StatusPending, StatusApproved, StatusRejected, StatusActive,
		StatusCompleted, StatusExpired, StatusCancelled:
		return normalized
	}
	return Status(s)
}

// Outpass is the read-only projection of an outpass that the time policy needs.
type Outpass struct {
	ID                  string
	Status              Status
	LeaveStartDate      time.Time
	ExpectedReturnDate  time.Time
	ActualDepartureTime *time.Time
	ActualReturnTime    *time.Time
}

// IsTerminal reports whether the outpass has been returned.
func (p Outpass) IsTerminal() bool {
	return p.ActualReturnTime != nil || p.Status == StatusCompleted
}
