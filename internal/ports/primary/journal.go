package primary

import "context"

// JournalService defines the primary port for reading the transition journal.
type JournalService interface {
	// ListEntries lists journal entries with optional filters, newest first.
	ListEntries(ctx context.Context, filters JournalFilters) ([]*JournalEntry, error)
}

// JournalEntry represents a journal entry at the port boundary.
type JournalEntry struct {
	ID               string
	OutpassID        string
	Action           string
	Classification   string
	Officer          string
	Comments         string
	LateReturnReason string
	Outcome          string
	Error            string
	CreatedAt        string
}

// JournalFilters contains filter options for listing journal entries.
type JournalFilters struct {
	OutpassID string
	Outcome   string
	Limit     int
}

// Journal action constants.
const (
	JournalActionDeparture = "departure"
	JournalActionReturn    = "return"
)

// Journal outcome constants.
const (
	JournalOutcomeSubmitted = "submitted" // store accepted the transition
	JournalOutcomeRejected  = "rejected"  // refused locally by the time policy
	JournalOutcomeFailed    = "failed"    // store or transport error
)
