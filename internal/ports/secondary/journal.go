package secondary

import "context"

// JournalRepository defines the secondary port for the local transition journal.
type JournalRepository interface {
	// Create persists a new journal entry.
	Create(ctx context.Context, entry *JournalRecord) error

	// GetByID retrieves a journal entry by its ID.
	GetByID(ctx context.Context, id string) (*JournalRecord, error)

	// List retrieves journal entries, newest first.
	List(ctx context.Context, filters JournalFilters) ([]*JournalRecord, error)

	// GetNextID returns the next available journal ID.
	GetNextID(ctx context.Context) (string, error)
}

// JournalRecord represents a submitted transition as stored in the journal.
type JournalRecord struct {
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

// JournalFilters contains filter options for querying the journal.
type JournalFilters struct {
	OutpassID string
	Outcome   string
	Limit     int
}
