package app

import (
	"context"
	"testing"

	"github.com/example/outpass/internal/ports/primary"
	"github.com/example/outpass/internal/ports/secondary"
)

func TestJournalService_ListEntries(t *testing.T) {
	repo := newMockJournalRepository()
	ctx := context.Background()
	for _, r := range []*secondary.JournalRecord{
		{ID: "JRNL-001", OutpassID: "OUT-001", Action: primary.JournalActionDeparture, Outcome: primary.JournalOutcomeSubmitted},
		{ID: "JRNL-002", OutpassID: "OUT-002", Action: primary.JournalActionReturn, Outcome: primary.JournalOutcomeRejected},
		{ID: "JRNL-003", OutpassID: "OUT-001", Action: primary.JournalActionReturn, Outcome: primary.JournalOutcomeSubmitted},
	} {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	service := NewJournalService(repo)

	tests := []struct {
		name    string
		filters primary.JournalFilters
		wantIDs []string
	}{
		{name: "all entries newest first", filters: primary.JournalFilters{}, wantIDs: []string{"JRNL-003", "JRNL-002", "JRNL-001"}},
		{name: "filter by outpass", filters: primary.JournalFilters{OutpassID: "OUT-001"}, wantIDs: []string{"JRNL-003", "JRNL-001"}},
		{name: "filter by outcome", filters: primary.JournalFilters{Outcome: primary.JournalOutcomeRejected}, wantIDs: []string{"JRNL-002"}},
		{name: "limit", filters: primary.JournalFilters{Limit: 1}, wantIDs: []string{"JRNL-003"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := service.ListEntries(ctx, tt.filters)
			if err != nil {
				t.Fatalf("ListEntries() error = %v", err)
			}
			if len(entries) != len(tt.wantIDs) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if entries[i].ID != id {
					t.Errorf("entry %d = %s, want %s", i, entries[i].ID, id)
				}
			}
		})
	}
}
