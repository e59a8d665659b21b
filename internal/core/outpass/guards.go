package outpass

import (
	"fmt"
	"strings"
	"time"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// DepartureTransition is the payload submitted to the store to mark a departure.
type DepartureTransition struct {
	OutpassID string
	Comments  string
}

// ReturnTransition is the payload submitted to the store to mark a return.
// LateReturnReason is empty for on-time returns.
type ReturnTransition struct {
	OutpassID        string
	Comments         string
	LateReturnReason string
}

// CanMarkDeparture evaluates whether the departure action should be offered.
// Rules:
// - Outpass must classify for departure
// - Classification must have the action enabled
func CanMarkDeparture(now time.Time, p Outpass) GuardResult {
	c, err := ClassifyForDeparture(now, p)
	if err != nil {
		return GuardResult{Allowed: false, Reason: err.Error()}
	}
	if !c.ActionEnabled {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot mark departure for outpass %s: %s", p.ID, c.Label),
		}
	}
	return GuardResult{Allowed: true}
}

// CanMarkReturn evaluates whether the return action should be offered.
// Rule: return is always allowed for a well-formed ACTIVE outpass.
func CanMarkReturn(now time.Time, p Outpass) GuardResult {
	if _, err := ClassifyForReturn(now, p); err != nil {
		return GuardResult{Allowed: false, Reason: err.Error()}
	}
	return GuardResult{Allowed: true}
}

// BuildDepartureTransition validates a departure against the window policy
// and returns the payload to submit.
func BuildDepartureTransition(now time.Time, p Outpass, comments string) (DepartureTransition, error) {
	c, err := ClassifyForDeparture(now, p)
	if err != nil {
		return DepartureTransition{}, err
	}
	if !c.ActionEnabled {
		return DepartureTransition{}, fmt.Errorf("%w: outpass %s is %s",
			ErrDepartureNotPermitted, p.ID, strings.ToLower(c.Label))
	}
	return DepartureTransition{
		OutpassID: p.ID,
		Comments:  strings.TrimSpace(comments),
	}, nil
}

// BuildReturnTransition validates a return and returns the payload to submit.
// Overdue and expired returns fail with ErrMissingReason unless a reason is given.
func BuildReturnTransition(now time.Time, p Outpass, comments, reason string) (ReturnTransition, error) {
	c, err := ClassifyForReturn(now, p)
	if err != nil {
		return ReturnTransition{}, err
	}

	t := ReturnTransition{
		OutpassID: p.ID,
		Comments:  strings.TrimSpace(comments),
	}
	if !c.ReasonRequired {
		return t, nil
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ReturnTransition{}, fmt.Errorf("%w: outpass %s is %s. %s",
			ErrMissingReason, p.ID, c.Kind, c.ReasonPrompt)
	}
	t.LateReturnReason = reason
	return t, nil
}
