package outpass

import (
	"fmt"
	"time"
)

const (
	// DepartureLeadWindow is how long before the leave start a departure may be marked.
	DepartureLeadWindow = 24 * time.Hour
	// DepartureGraceWindow is how long after the leave start a departure may still be marked.
	DepartureGraceWindow = 24 * time.Hour
	// ReturnExpiryWindow is how long after the actual departure a return counts as expired.
	ReturnExpiryWindow = 24 * time.Hour
	// UrgentThreshold marks a grace window that is about to close.
	UrgentThreshold = 2 * time.Hour
)

const (
	msPerHour     = int64(time.Hour / time.Millisecond)
	msPerHalfHour = msPerHour / 2
)

// WindowPhase is the position of "now" relative to the departure window.
type WindowPhase string

const (
	PhaseTooEarly       WindowPhase = "TOO_EARLY"
	PhaseValidCountdown WindowPhase = "VALID_COUNTDOWN"
	PhaseValidGrace     WindowPhase = "VALID_GRACE"
	PhaseExpired        WindowPhase = "EXPIRED"
)

// WindowState is the result of evaluating the departure window.
// Remaining is only meaningful in the two valid phases.
type WindowState struct {
	Phase     WindowPhase
	Remaining time.Duration
}

// IsValid reports whether a departure may be marked in this phase.
func (w WindowState) IsValid() bool {
	return w.Phase == PhaseValidCountdown || w.Phase == PhaseValidGrace
}

// LatenessInfo describes how late a return is against the expected return date.
type LatenessInfo struct {
	IsOverdue bool
	HoursLate int
	Late      time.Duration
}

// ExpiryInfo describes whether a return happens more than ReturnExpiryWindow
// after the actual departure.
type ExpiryInfo struct {
	IsExpired    bool
	HoursExpired int
	Expired      time.Duration
}

// DepartureWindow evaluates where now falls in the window
// [leaveStart-24h, leaveStart+24h]. Both boundaries are inclusive.
func DepartureWindow(now, leaveStart time.Time) WindowState {
	n := now.UnixMilli()
	start := leaveStart.UnixMilli()
	opens := start - DepartureLeadWindow.Milliseconds()
	closes := start + DepartureGraceWindow.Milliseconds()

	switch {
	case n < opens:
		return WindowState{Phase: PhaseTooEarly}
	case n < start:
		return WindowState{Phase: PhaseValidCountdown, Remaining: msDuration(start - n)}
	case n <= closes:
		return WindowState{Phase: PhaseValidGrace, Remaining: msDuration(closes - n)}
	default:
		return WindowState{Phase: PhaseExpired}
	}
}

// ReturnLateness reports whether now is past the expected return date.
// There is no upper bound; a return is always actionable.
func ReturnLateness(now, expectedReturn time.Time) LatenessInfo {
	delta := now.UnixMilli() - expectedReturn.UnixMilli()
	if delta <= 0 {
		return LatenessInfo{}
	}
	return LatenessInfo{
		IsOverdue: true,
		HoursLate: ElapsedHours(msDuration(delta)),
		Late:      msDuration(delta),
	}
}

// DepartureExpiryForReturn reports whether now is more than ReturnExpiryWindow
// after the actual departure. A nil departure is never expired.
func DepartureExpiryForReturn(now time.Time, actualDeparture *time.Time) ExpiryInfo {
	if actualDeparture == nil {
		return ExpiryInfo{}
	}
	deadline := actualDeparture.UnixMilli() + ReturnExpiryWindow.Milliseconds()
	delta := now.UnixMilli() - deadline
	if delta <= 0 {
		return ExpiryInfo{}
	}
	return ExpiryInfo{
		IsExpired:    true,
		HoursExpired: ElapsedHours(msDuration(delta)),
		Expired:      msDuration(delta),
	}
}

// RemainingHours returns whole hours in d, rounded down.
func RemainingHours(d time.Duration) int {
	ms := d.Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int(ms / msPerHour)
}

// ElapsedHours returns hours in d rounded to the nearest integer, half up.
func ElapsedHours(d time.Duration) int {
	ms := d.Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int((ms + msPerHalfHour) / msPerHour)
}

// FormatRemaining renders a remaining duration as "5h 12m" (or "12m" under an hour).
// Both components are rounded down.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := RemainingHours(d)
	minutes := int((d.Milliseconds() % msPerHour) / int64(time.Minute/time.Millisecond))
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func msDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
