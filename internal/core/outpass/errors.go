package outpass

import "errors"

var (
	// ErrInvalidState is returned when the outpass status does not allow the requested action.
	ErrInvalidState = errors.New("invalid outpass state")
	// ErrInvalidTimestamps is returned when outpass timestamps violate ordering invariants.
	ErrInvalidTimestamps = errors.New("invalid outpass timestamps")
	// ErrMissingReason is returned when a late return is submitted without a reason.
	ErrMissingReason = errors.New("late return reason is required")
	// ErrDepartureNotPermitted is returned when the departure window is closed.
	ErrDepartureNotPermitted = errors.New("departure not permitted")
)
