// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// the time policy to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/example/outpass/internal/core/outpass"
	"github.com/example/outpass/internal/ports/primary"
)

const timeLayout = "2006-01-02 15:04"

// OutpassAdapter is a thin adapter that translates CLI operations to OutpassService calls.
type OutpassAdapter struct {
	service  primary.OutpassService
	out      io.Writer
	location *time.Location
}

// NewOutpassAdapter creates a new OutpassAdapter. Times render in location.
func NewOutpassAdapter(service primary.OutpassService, out io.Writer, location *time.Location) *OutpassAdapter {
	if location == nil {
		location = time.Local
	}
	return &OutpassAdapter{
		service:  service,
		out:      out,
		location: location,
	}
}

// Departures renders the departure board.
func (a *OutpassAdapter) Departures(ctx context.Context) error {
	entries, err := a.service.DepartureBoard(ctx)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No approved outpasses awaiting departure")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-12s %-20s %-10s %-17s %s\n", "ID", "STUDENT", "ROOM", "LEAVE START", "DEPARTURE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		fmt.Fprintf(a.out, "%-12s %-20s %-10s %-17s %s\n",
			e.Outpass.ID, e.Outpass.StudentName, e.Outpass.RoomNumber,
			a.formatTime(e.Outpass.LeaveStartDate), departureBadge(e))
	}
	fmt.Fprintln(a.out)

	return nil
}

// Returns renders the return board.
func (a *OutpassAdapter) Returns(ctx context.Context) error {
	entries, err := a.service.ReturnBoard(ctx)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No students currently out")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-12s %-20s %-10s %-17s %s\n", "ID", "STUDENT", "ROOM", "EXPECTED BACK", "RETURN")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		fmt.Fprintf(a.out, "%-12s %-20s %-10s %-17s %s\n",
			e.Outpass.ID, e.Outpass.StudentName, e.Outpass.RoomNumber,
			a.formatTime(e.Outpass.ExpectedReturnDate), returnBadge(e))
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays one outpass and the classification for its next action.
func (a *OutpassAdapter) Show(ctx context.Context, outpassID string) error {
	detail, err := a.service.ClassifyOne(ctx, outpassID)
	if err != nil {
		return err
	}

	p := detail.Outpass
	fmt.Fprintf(a.out, "\nOutpass:  %s\n", p.ID)
	fmt.Fprintf(a.out, "Status:   %s\n", p.Status)
	if p.StudentName != "" {
		fmt.Fprintf(a.out, "Student:  %s (%s)\n", p.StudentName, p.RollNumber)
	}
	if p.RoomNumber != "" {
		fmt.Fprintf(a.out, "Room:     %s\n", p.RoomNumber)
	}
	if p.Destination != "" {
		fmt.Fprintf(a.out, "Going to: %s\n", p.Destination)
	}
	if p.Purpose != "" {
		fmt.Fprintf(a.out, "Purpose:  %s\n", p.Purpose)
	}
	fmt.Fprintf(a.out, "Leave:    %s\n", a.formatTime(p.LeaveStartDate))
	fmt.Fprintf(a.out, "Due back: %s\n", a.formatTime(p.ExpectedReturnDate))
	if p.ActualDepartureTime != nil {
		fmt.Fprintf(a.out, "Departed: %s\n", a.formatTime(*p.ActualDepartureTime))
	}
	if p.ActualReturnTime != nil {
		fmt.Fprintf(a.out, "Returned: %s\n", a.formatTime(*p.ActualReturnTime))
	}
	if p.LateReturnReason != "" {
		fmt.Fprintf(a.out, "Reason:   %s\n", p.LateReturnReason)
	}

	switch {
	case detail.Error != "":
		fmt.Fprintf(a.out, "Check:    %s\n", color.New(color.FgRed).Sprint(detail.Error))
	case detail.Departure != nil:
		fmt.Fprintf(a.out, "Check:    %s\n", departureBadge(&primary.DepartureEntry{Outpass: p, Classification: detail.Departure}))
	case detail.Return != nil:
		fmt.Fprintf(a.out, "Check:    %s\n", returnBadge(&primary.ReturnEntry{Outpass: p, Classification: detail.Return}))
		if detail.Return.ReasonRequired {
			fmt.Fprintf(a.out, "          %s\n", detail.Return.ReasonPrompt)
		}
	default:
		fmt.Fprintln(a.out, "Check:    no further action")
	}
	fmt.Fprintf(a.out, "As of:    %s\n", detail.CheckedAt.In(a.location).Format("2006-01-02 15:04:05"))
	fmt.Fprintln(a.out)

	return nil
}

// Depart marks a departure.
func (a *OutpassAdapter) Depart(ctx context.Context, outpassID, comments string) error {
	resp, err := a.service.MarkDeparture(ctx, primary.MarkDepartureRequest{
		OutpassID: outpassID,
		Comments:  comments,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Departure marked for %s", resp.Outpass.ID)
	if resp.Outpass.ActualDepartureTime != nil {
		fmt.Fprintf(a.out, " at %s", a.formatTime(*resp.Outpass.ActualDepartureTime))
	}
	fmt.Fprintln(a.out)
	a.printJournal(resp)
	return nil
}

// Return marks a return. Late returns need a reason.
func (a *OutpassAdapter) Return(ctx context.Context, outpassID, comments, reason string) error {
	resp, err := a.service.MarkReturn(ctx, primary.MarkReturnRequest{
		OutpassID:        outpassID,
		Comments:         comments,
		LateReturnReason: reason,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Return marked for %s", resp.Outpass.ID)
	if resp.Outpass.ActualReturnTime != nil {
		fmt.Fprintf(a.out, " at %s", a.formatTime(*resp.Outpass.ActualReturnTime))
	}
	switch outpass.ReturnKind(resp.Classification) {
	case outpass.KindOverdueReturn:
		fmt.Fprintf(a.out, " %s", color.New(color.FgYellow).Sprint("(late)"))
	case outpass.KindExpiredReturn:
		fmt.Fprintf(a.out, " %s", color.New(color.FgRed).Sprint("(expired)"))
	}
	fmt.Fprintln(a.out)
	a.printJournal(resp)
	return nil
}

// Activity renders today's departures, returns and expected returns.
func (a *OutpassAdapter) Activity(ctx context.Context) error {
	activity, err := a.service.TodayActivity(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nActivity for %s\n", activity.Date.Format("Mon 02 Jan 2006"))

	fmt.Fprintf(a.out, "\nDepartures (%d)\n", len(activity.Departures))
	for _, p := range activity.Departures {
		fmt.Fprintf(a.out, "  %-12s %-20s %s\n", p.ID, p.StudentName, a.formatTimePtr(p.ActualDepartureTime))
	}

	fmt.Fprintf(a.out, "\nReturns (%d)\n", len(activity.Returns))
	for _, p := range activity.Returns {
		fmt.Fprintf(a.out, "  %-12s %-20s %s\n", p.ID, p.StudentName, a.formatTimePtr(p.ActualReturnTime))
	}

	fmt.Fprintf(a.out, "\nExpected back (%d)\n", len(activity.ExpectedReturns))
	for _, e := range activity.ExpectedReturns {
		status := string(e.Outpass.Status)
		if e.Classification != nil || e.Error != "" {
			status = returnBadge(e)
		}
		fmt.Fprintf(a.out, "  %-12s %-20s %-17s %s\n", e.Outpass.ID, e.Outpass.StudentName,
			a.formatTime(e.Outpass.ExpectedReturnDate), status)
	}
	fmt.Fprintln(a.out)

	return nil
}

func (a *OutpassAdapter) printJournal(resp *primary.TransitionResponse) {
	if resp.JournalID != "" {
		fmt.Fprintf(a.out, "  journal: %s\n", resp.JournalID)
	}
}

func (a *OutpassAdapter) formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(a.location).Format(timeLayout)
}

func (a *OutpassAdapter) formatTimePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return a.formatTime(*t)
}

// departureBadge colors a departure label: green enabled, yellow urgent,
// red expired, faint too early.
func departureBadge(e *primary.DepartureEntry) string {
	if e.Classification == nil {
		return color.New(color.FgRed).Sprintf("data error: %s", e.Error)
	}
	c := e.Classification
	switch c.Kind {
	case outpass.KindTimeRemaining:
		if c.Urgent {
			return color.New(color.FgYellow, color.Bold).Sprint(c.Label)
		}
		return color.New(color.FgGreen).Sprint(c.Label)
	case outpass.KindCountdownToDeparture:
		return color.New(color.FgGreen).Sprint(c.Label)
	case outpass.KindExpired:
		return color.New(color.FgRed).Sprint(c.Label)
	default:
		return color.New(color.Faint).Sprint(c.Label)
	}
}

// returnBadge colors a return label: green on time, yellow overdue, red expired.
func returnBadge(e *primary.ReturnEntry) string {
	if e.Classification == nil {
		return color.New(color.FgRed).Sprintf("data error: %s", e.Error)
	}
	c := e.Classification
	switch c.Kind {
	case outpass.KindExpiredReturn:
		return color.New(color.FgRed).Sprint(c.Label)
	case outpass.KindOverdueReturn:
		return color.New(color.FgYellow).Sprint(c.Label)
	default:
		return color.New(color.FgGreen).Sprint(c.Label)
	}
}
