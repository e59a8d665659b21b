package app

import (
	"context"
	"fmt"

	"github.com/example/outpass/internal/ports/primary"
	"github.com/example/outpass/internal/ports/secondary"
)

// JournalServiceImpl implements the JournalService interface.
type JournalServiceImpl struct {
	journalRepo secondary.JournalRepository
}

// NewJournalService creates a new JournalService with injected dependencies.
func NewJournalService(journalRepo secondary.JournalRepository) *JournalServiceImpl {
	return &JournalServiceImpl{
		journalRepo: journalRepo,
	}
}

// ListEntries lists journal entries with optional filters, newest first.
func (s *JournalServiceImpl) ListEntries(ctx context.Context, filters primary.JournalFilters) ([]*primary.JournalEntry, error) {
	records, err := s.journalRepo.List(ctx, secondary.JournalFilters{
		OutpassID: filters.OutpassID,
		Outcome:   filters.Outcome,
		Limit:     filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	entries := make([]*primary.JournalEntry, len(records))
	for i, r := range records {
		entries[i] = s.recordToEntry(r)
	}
	return entries, nil
}

// Helper methods

func (s *JournalServiceImpl) recordToEntry(r *secondary.JournalRecord) *primary.JournalEntry {
	return &primary.JournalEntry{
		ID:               r.ID,
		OutpassID:        r.OutpassID,
		Action:           r.Action,
		Classification:   r.Classification,
		Officer:          r.Officer,
		Comments:         r.Comments,
		LateReturnReason: r.LateReturnReason,
		Outcome:          r.Outcome,
		Error:            r.Error,
		CreatedAt:        r.CreatedAt,
	}
}

// Ensure JournalServiceImpl implements the interface
var _ primary.JournalService = (*JournalServiceImpl)(nil)
