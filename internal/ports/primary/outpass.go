// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the CLI drives the application.
package primary

import (
	"context"
	"time"

	"github.com/example/outpass/internal/core/outpass"
)

// OutpassService defines the primary port for security desk operations.
type OutpassService interface {
	// DepartureBoard lists approved outpasses with their departure classification.
	DepartureBoard(ctx context.Context) ([]*DepartureEntry, error)

	// ReturnBoard lists active outpasses with their return classification.
	ReturnBoard(ctx context.Context) ([]*ReturnEntry, error)

	// ClassifyOne re-fetches a single outpass and classifies it for its next action.
	ClassifyOne(ctx context.Context, outpassID string) (*OutpassDetail, error)

	// MarkDeparture marks the departure of an approved outpass.
	MarkDeparture(ctx context.Context, req MarkDepartureRequest) (*TransitionResponse, error)

	// MarkReturn marks the return of an active outpass.
	// Late returns require a reason and are rejected locally without one.
	MarkReturn(ctx context.Context, req MarkReturnRequest) (*TransitionResponse, error)

	// TodayActivity summarizes today's departures, returns and expected returns.
	TodayActivity(ctx context.Context) (*Activity, error)
}

// Outpass represents an outpass at the port boundary.
type Outpass struct {
	ID                  string
	Status              outpass.Status
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

// Policy returns the projection the time policy evaluates.
func (o *Outpass) Policy() outpass.Outpass {
	return outpass.Outpass{
		ID:                  o.ID,
		Status:              o.Status,
		LeaveStartDate:      o.LeaveStartDate,
		ExpectedReturnDate:  o.ExpectedReturnDate,
		ActualDepartureTime: o.ActualDepartureTime,
		ActualReturnTime:    o.ActualReturnTime,
	}
}

// DepartureEntry is one row of the departure board.
// Error is set instead of Classification when the record fails integrity checks.
type DepartureEntry struct {
	Outpass        *Outpass
	Classification *outpass.DepartureClassification
	Error          string
}

// ReturnEntry is one row of the return board.
type ReturnEntry struct {
	Outpass        *Outpass
	Classification *outpass.ReturnClassification
	Error          string
}

// OutpassDetail is a single outpass with the classification for its next action.
// At most one of Departure and Return is set; neither for terminal outpasses.
type OutpassDetail struct {
	Outpass   *Outpass
	Departure *outpass.DepartureClassification
	Return    *outpass.ReturnClassification
	Error     string
	CheckedAt time.Time
}

// MarkDepartureRequest contains the parameters for marking a departure.
type MarkDepartureRequest struct {
	OutpassID string
	Comments  string
}

// MarkReturnRequest contains the parameters for marking a return.
type MarkReturnRequest struct {
	OutpassID        string
	Comments         string
	LateReturnReason string
}

// TransitionResponse contains the result of a submitted transition.
type TransitionResponse struct {
	Outpass        *Outpass
	Classification string
	JournalID      string
}

// Activity groups today's outpass movements for the daily view.
type Activity struct {
	Date            time.Time
	Departures      []*Outpass
	Returns         []*Outpass
	ExpectedReturns []*ReturnEntry
}
