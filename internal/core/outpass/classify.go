package outpass

import (
	"fmt"
	"time"
)

// DepartureKind is the display/action classification for a departure.
type DepartureKind string

const (
	KindTooEarly             DepartureKind = "TOO_EARLY"
	KindCountdownToDeparture DepartureKind = "COUNTDOWN_TO_DEPARTURE"
	KindTimeRemaining        DepartureKind = "TIME_REMAINING"
	KindExpired              DepartureKind = "EXPIRED"
)

// ReturnKind is the display/action classification for a return.
type ReturnKind string

const (
	KindOnTimeReturn  ReturnKind = "ON_TIME_RETURN"
	KindOverdueReturn ReturnKind = "OVERDUE_RETURN"
	KindExpiredReturn ReturnKind = "EXPIRED_RETURN"
)

// Reason prompts shown when a late return needs an explanation.
const (
	OverdueReasonPrompt = "Return is past the expected return time. Enter the reason for the late return."
	ExpiredReasonPrompt = "More than 24 hours have passed since departure. Enter the reason for the delayed return."
)

// DepartureClassification drives the departure action for an approved outpass.
// Urgent is a visual emphasis on TIME_REMAINING only, not a separate state.
type DepartureClassification struct {
	OutpassID     string
	Kind          DepartureKind
	Window        WindowState
	ActionEnabled bool
	Urgent        bool
	Label         string
}

// ReturnClassification drives the return action for an active outpass.
type ReturnClassification struct {
	OutpassID      string
	Kind           ReturnKind
	Lateness       LatenessInfo
	Expiry         ExpiryInfo
	ActionEnabled  bool
	ReasonRequired bool
	Label          string
	ReasonPrompt   string
}

// ClassifyForDeparture classifies an APPROVED outpass for the departure action.
func ClassifyForDeparture(now time.Time, p Outpass) (DepartureClassification, error) {
	if p.Status != StatusApproved {
		return DepartureClassification{}, fmt.Errorf("%w: outpass %s is %s, departure requires %s",
			ErrInvalidState, p.ID, p.Status, StatusApproved)
	}
	if err := validateTimestamps(p); err != nil {
		return DepartureClassification{}, err
	}
	if p.ActualDepartureTime != nil {
		return DepartureClassification{}, fmt.Errorf("%w: outpass %s is %s but already has a departure time",
			ErrInvalidTimestamps, p.ID, p.Status)
	}

	window := DepartureWindow(now, p.LeaveStartDate)
	c := DepartureClassification{OutpassID: p.ID, Window: window}

	switch window.Phase {
	case PhaseTooEarly:
		c.Kind = KindTooEarly
		c.Label = "Too Early"
	case PhaseValidCountdown:
		c.Kind = KindCountdownToDeparture
		c.ActionEnabled = true
		c.Label = "Departure in " + FormatRemaining(window.Remaining)
	case PhaseValidGrace:
		c.Kind = KindTimeRemaining
		c.ActionEnabled = true
		c.Urgent = window.Remaining < UrgentThreshold
		c.Label = "Mark departure within " + FormatRemaining(window.Remaining)
	default:
		c.Kind = KindExpired
		c.Label = "Expired"
	}

	return c, nil
}

// ClassifyForReturn classifies an ACTIVE outpass for the return action.
// EXPIRED_RETURN takes precedence over OVERDUE_RETURN when both hold.
func ClassifyForReturn(now time.Time, p Outpass) (ReturnClassification, error) {
	if p.Status != StatusActive {
		return ReturnClassification{}, fmt.Errorf("%w: outpass %s is %s, return requires %s",
			ErrInvalidState, p.ID, p.Status, StatusActive)
	}
	if p.ActualDepartureTime == nil {
		return ReturnClassification{}, fmt.Errorf("%w: outpass %s has no recorded departure",
			ErrInvalidState, p.ID)
	}
	if p.ActualReturnTime != nil {
		return ReturnClassification{}, fmt.Errorf("%w: outpass %s has already returned",
			ErrInvalidState, p.ID)
	}
	if err := validateTimestamps(p); err != nil {
		return ReturnClassification{}, err
	}

	c := ReturnClassification{
		OutpassID:     p.ID,
		ActionEnabled: true,
		Expiry:        DepartureExpiryForReturn(now, p.ActualDepartureTime),
		Lateness:      ReturnLateness(now, p.ExpectedReturnDate),
	}

	switch {
	case c.Expiry.IsExpired:
		c.Kind = KindExpiredReturn
		c.ReasonRequired = true
		c.ReasonPrompt = ExpiredReasonPrompt
		c.Label = fmt.Sprintf("Expired %s", hoursText(c.Expiry.HoursExpired, "past the 24h limit"))
	case c.Lateness.IsOverdue:
		c.Kind = KindOverdueReturn
		c.ReasonRequired = true
		c.ReasonPrompt = OverdueReasonPrompt
		c.Label = fmt.Sprintf("Overdue by %s", hoursText(c.Lateness.HoursLate, ""))
	default:
		c.Kind = KindOnTimeReturn
		c.Label = "On time"
	}

	return c, nil
}

// validateTimestamps checks the ordering invariants every classification relies on.
func validateTimestamps(p Outpass) error {
	if p.LeaveStartDate.IsZero() || p.ExpectedReturnDate.IsZero() {
		return fmt.Errorf("%w: outpass %s is missing leave start or expected return",
			ErrInvalidTimestamps, p.ID)
	}
	if p.ExpectedReturnDate.UnixMilli() <= p.LeaveStartDate.UnixMilli() {
		return fmt.Errorf("%w: outpass %s expected return %s is not after leave start %s",
			ErrInvalidTimestamps, p.ID,
			p.ExpectedReturnDate.Format(time.RFC3339), p.LeaveStartDate.Format(time.RFC3339))
	}
	if p.ActualReturnTime != nil {
		if p.ActualDepartureTime == nil {
			return fmt.Errorf("%w: outpass %s has a return time but no departure time",
				ErrInvalidTimestamps, p.ID)
		}
		if p.ActualReturnTime.UnixMilli() < p.ActualDepartureTime.UnixMilli() {
			return fmt.Errorf("%w: outpass %s returned before it departed",
				ErrInvalidTimestamps, p.ID)
		}
	}
	return nil
}

func hoursText(hours int, suffix string) string {
	var s string
	if hours < 1 {
		s = "under 1h"
	} else {
		s = fmt.Sprintf("%dh", hours)
	}
	if suffix != "" {
		s += " " + suffix
	}
	return s
}
