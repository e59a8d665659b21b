package secondary

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrOutpassNotFound is returned when the store has no outpass with the given ID.
	ErrOutpassNotFound = errors.New("outpass not found")
	// ErrTransitionConflict is returned when another officer already moved the outpass.
	ErrTransitionConflict = errors.New("outpass transition conflict")
	// ErrUnauthorized is returned when the store rejects the desk credentials.
	ErrUnauthorized = errors.New("not authorized")
)

// OutpassStore defines the secondary port for the backend that owns outpass records.
// The store stamps departure and return times with its own clock.
type OutpassStore interface {
	// ListApproved retrieves outpasses eligible for departure marking.
	ListApproved(ctx context.Context) ([]*OutpassRecord, error)

	// ListActive retrieves outpasses eligible for return marking.
	ListActive(ctx context.Context) ([]*OutpassRecord, error)

	// GetByID retrieves a fresh snapshot of a single outpass.
	GetByID(ctx context.Context, id string) (*OutpassRecord, error)

	// SubmitDeparture transitions an APPROVED outpass to ACTIVE.
	SubmitDeparture(ctx context.Context, req DepartureSubmission) (*OutpassRecord, error)

	// SubmitReturn transitions an ACTIVE outpass to COMPLETED.
	SubmitReturn(ctx context.Context, req ReturnSubmission) (*OutpassRecord, error)

	// TodayActivity retrieves today's departures, returns and expected returns.
	TodayActivity(ctx context.Context) (*ActivityRecord, error)
}

// OutpassRecord represents an outpass as served by the store.
type OutpassRecord struct {
	ID                  string
	Status              string
	StudentName         string
	RollNumber          string
	RoomNumber          string
	Destination         string
	Purpose             string
	LeaveStartDate      time.Time
	ExpectedReturnDate  time.Time
	ActualDepartureTime *time.Time
	ActualReturnTime    *time.Time
	LateReturnReason    string
}

// DepartureSubmission is the payload for a departure transition.
type DepartureSubmission struct {
	OutpassID string
	Comments  string
}

// ReturnSubmission is the payload for a return transition.
type ReturnSubmission struct {
	OutpassID        string
	Comments         string
	LateReturnReason string // empty for on-time returns
}

// ActivityRecord groups today's outpass movements.
type ActivityRecord struct {
	Departures      []*OutpassRecord
	Returns         []*OutpassRecord
	ExpectedReturns []*OutpassRecord
}
