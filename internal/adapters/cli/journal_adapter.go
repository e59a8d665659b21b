package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/outpass/internal/ports/primary"
)

// JournalAdapter renders the local transition journal.
type JournalAdapter struct {
	service primary.JournalService
	out     io.Writer
}

// NewJournalAdapter creates a new JournalAdapter with the given service.
func NewJournalAdapter(service primary.JournalService, out io.Writer) *JournalAdapter {
	return &JournalAdapter{
		service: service,
		out:     out,
	}
}

// List lists journal entries, newest first.
func (a *JournalAdapter) List(ctx context.Context, outpassID string, limit int) error {
	entries, err := a.service.ListEntries(ctx, primary.JournalFilters{
		OutpassID: outpassID,
		Limit:     limit,
	})
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No journal entries found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-21s %-12s %-10s %-16s %-10s %s\n", "ID", "AT", "OUTPASS", "ACTION", "CLASS", "OFFICER", "OUTCOME")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		officer := e.Officer
		if officer == "" {
			officer = "-"
		}
		fmt.Fprintf(a.out, "%-10s %-21s %-12s %-10s %-16s %-10s %s\n",
			e.ID, e.CreatedAt, e.OutpassID, e.Action, e.Classification, officer, outcomeBadge(e))
	}
	fmt.Fprintln(a.out)

	return nil
}

func outcomeBadge(e *primary.JournalEntry) string {
	switch e.Outcome {
	case primary.JournalOutcomeSubmitted:
		return color.New(color.FgGreen).Sprint(e.Outcome)
	case primary.JournalOutcomeRejected:
		return color.New(color.FgYellow).Sprintf("%s: %s", e.Outcome, e.Error)
	default:
		return color.New(color.FgRed).Sprintf("%s: %s", e.Outcome, e.Error)
	}
}
