package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/outpass/internal/core/outpass"
	"github.com/example/outpass/internal/ctxutil"
	"github.com/example/outpass/internal/ports/primary"
	"github.com/example/outpass/internal/ports/secondary"
)

// mockOutpassStore implements secondary.OutpassStore for testing.
type mockOutpassStore struct {
	outpasses map[string]*secondary.OutpassRecord
	approved  []*secondary.OutpassRecord
	active    []*secondary.OutpassRecord
	activity  *secondary.ActivityRecord

	listErr   error
	getErr    error
	submitErr error

	departureCalls []secondary.DepartureSubmission
	returnCalls    []secondary.ReturnSubmission
}

func newMockOutpassStore(records ...*secondary.OutpassRecord) *mockOutpassStore {
	m := &mockOutpassStore{
		outpasses: make(map[string]*secondary.OutpassRecord),
		activity:  &secondary.ActivityRecord{},
	}
	for _, r := range records {
		m.outpasses[r.ID] = r
		switch r.Status {
		case string(outpass.StatusApproved):
			m.approved = append(m.approved, r)
		case string(outpass.StatusActive):
			m.active = append(m.active, r)
		}
	}
	return m
}

func (m *mockOutpassStore) ListApproved(ctx context.Context) ([]*secondary.OutpassRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.approved, nil
}

func (m *mockOutpassStore) ListActive(ctx context.Context) ([]*secondary.OutpassRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.active, nil
}

func (m *mockOutpassStore) GetByID(ctx context.Context, id string) (*secondary.OutpassRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if r, ok := m.outpasses[id]; ok {
		return r, nil
	}
	return nil, secondary.ErrOutpassNotFound
}

func (m *mockOutpassStore) SubmitDeparture(ctx context.Context, req secondary.DepartureSubmission) (*secondary.OutpassRecord, error) {
	m.departureCalls = append(m.departureCalls, req)
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	r := *m.outpasses[req.OutpassID]
	departed := time.Date(2024, 1, 10, 11, 0, 0, 0, time.UTC)
	r.Status = string(outpass.StatusActive)
	r.ActualDepartureTime = &departed
	return &r, nil
}

func (m *mockOutpassStore) SubmitReturn(ctx context.Context, req secondary.ReturnSubmission) (*secondary.OutpassRecord, error) {
	m.returnCalls = append(m.returnCalls, req)
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	r := *m.outpasses[req.OutpassID]
	returned := time.Date(2024, 1, 11, 15, 0, 0, 0, time.UTC)
	r.Status = string(outpass.StatusCompleted)
	r.ActualReturnTime = &returned
	r.LateReturnReason = req.LateReturnReason
	return &r, nil
}

func (m *mockOutpassStore) TodayActivity(ctx context.Context) (*secondary.ActivityRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.activity, nil
}

// mockJournalRepository implements secondary.JournalRepository for testing.
type mockJournalRepository struct {
	entries   []*secondary.JournalRecord
	nextID    int
	createErr error
}

func newMockJournalRepository() *mockJournalRepository {
	return &mockJournalRepository{nextID: 1}
}

func (m *mockJournalRepository) Create(ctx context.Context, entry *secondary.JournalRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockJournalRepository) GetByID(ctx context.Context, id string) (*secondary.JournalRecord, error) {
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockJournalRepository) List(ctx context.Context, filters secondary.JournalFilters) ([]*secondary.JournalRecord, error) {
	var result []*secondary.JournalRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if filters.OutpassID != "" && e.OutpassID != filters.OutpassID {
			continue
		}
		if filters.Outcome != "" && e.Outcome != filters.Outcome {
			continue
		}
		result = append(result, e)
		if filters.Limit > 0 && len(result) == filters.Limit {
			break
		}
	}
	return result, nil
}

func (m *mockJournalRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("JRNL-%03d", id), nil
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func atPtr(s string) *time.Time {
	t := at(s)
	return &t
}

func fixedClock(s string) func() time.Time {
	t := at(s)
	return func() time.Time { return t }
}

func approvedRecord(id, leave string) *secondary.OutpassRecord {
	start := at(leave)
	return &secondary.OutpassRecord{
		ID:                 id,
		Status:             string(outpass.StatusApproved),
		StudentName:        "Student " + id,
		LeaveStartDate:     start,
		ExpectedReturnDate: start.Add(24 * time.Hour),
	}
}

func activeRecord(id, departed, expected string) *secondary.OutpassRecord {
	dep := at(departed)
	return &secondary.OutpassRecord{
		ID:                  id,
		Status:              string(outpass.StatusActive),
		StudentName:         "Student " + id,
		LeaveStartDate:      dep.Add(-time.Hour),
		ExpectedReturnDate:  at(expected),
		ActualDepartureTime: &dep,
	}
}

func newTestOutpassService(store *mockOutpassStore, journal *mockJournalRepository, now string) *OutpassServiceImpl {
	return NewOutpassService(store, journal, fixedClock(now), time.UTC, zap.NewNop())
}

func TestDepartureBoard(t *testing.T) {
	broken := approvedRecord("OUT-004", "2024-01-10T12:00:00Z")
	broken.ExpectedReturnDate = broken.LeaveStartDate

	store := newMockOutpassStore(
		approvedRecord("OUT-003", "2024-01-12T10:00:00Z"),
		approvedRecord("OUT-001", "2024-01-10T10:00:00Z"),
		approvedRecord("OUT-002", "2024-01-08T10:00:00Z"),
		broken,
	)
	service := newTestOutpassService(store, newMockJournalRepository(), "2024-01-10T11:00:00Z")

	entries, err := service.DepartureBoard(context.Background())
	if err != nil {
		t.Fatalf("DepartureBoard() error = %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	wantOrder := []string{"OUT-002", "OUT-001", "OUT-004", "OUT-003"}
	for i, id := range wantOrder {
		if entries[i].Outpass.ID != id {
			t.Errorf("entry %d = %s, want %s", i, entries[i].Outpass.ID, id)
		}
	}

	wantKinds := map[string]outpass.DepartureKind{
		"OUT-002": outpass.KindExpired,
		"OUT-001": outpass.KindTimeRemaining,
		"OUT-003": outpass.KindTooEarly,
	}
	for _, e := range entries {
		want, ok := wantKinds[e.Outpass.ID]
		if !ok {
			continue
		}
		if e.Classification == nil {
			t.Fatalf("%s: missing classification (error %q)", e.Outpass.ID, e.Error)
		}
		if e.Classification.Kind != want {
			t.Errorf("%s: Kind = %s, want %s", e.Outpass.ID, e.Classification.Kind, want)
		}
	}

	if entries[2].Classification != nil || entries[2].Error == "" {
		t.Errorf("broken outpass should carry an error, got %+v", entries[2])
	}
}

func TestDepartureBoard_StoreError(t *testing.T) {
	store := newMockOutpassStore()
	store.listErr = errors.New("connection refused")
	service := newTestOutpassService(store, newMockJournalRepository(), "2024-01-10T11:00:00Z")

	_, err := service.DepartureBoard(context.Background())
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("DepartureBoard() error = %v, want wrapped store error", err)
	}
}

func TestReturnBoard_SortsBySeverity(t *testing.T) {
	store := newMockOutpassStore(
		activeRecord("ON-TIME", "2024-01-11T08:00:00Z", "2024-01-11T20:00:00Z"),
		activeRecord("OVERDUE", "2024-01-11T01:00:00Z", "2024-01-11T10:00:00Z"),
		activeRecord("EXPIRED", "2024-01-10T09:00:00Z", "2024-01-10T18:00:00Z"),
	)
	service := newTestOutpassService(store, newMockJournalRepository(), "2024-01-11T12:00:00Z")

	entries, err := service.ReturnBoard(context.Background())
	if err != nil {
		t.Fatalf("ReturnBoard() error = %v", err)
	}

	want := []struct {
		id   string
		kind outpass.ReturnKind
	}{
		{"EXPIRED", outpass.KindExpiredReturn},
		{"OVERDUE", outpass.KindOverdueReturn},
		{"ON-TIME", outpass.KindOnTimeReturn},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if entries[i].Outpass.ID != w.id {
			t.Errorf("entry %d = %s, want %s", i, entries[i].Outpass.ID, w.id)
		}
		if entries[i].Classification == nil || entries[i].Classification.Kind != w.kind {
			t.Errorf("entry %d classification = %+v, want %s", i, entries[i].Classification, w.kind)
		}
	}
}

func TestClassifyOne(t *testing.T) {
	store := newMockOutpassStore(
		approvedRecord("OUT-001", "2024-01-10T10:00:00Z"),
		activeRecord("OUT-002", "2024-01-10T10:00:00Z", "2024-01-11T10:00:00Z"),
		&secondary.OutpassRecord{ID: "OUT-003", Status: "COMPLETED"},
	)
	service := newTestOutpassService(store, newMockJournalRepository(), "2024-01-10T11:00:00Z")
	ctx := context.Background()

	detail, err := service.ClassifyOne(ctx, "OUT-001")
	if err != nil {
		t.Fatalf("ClassifyOne() error = %v", err)
	}
	if detail.Departure == nil || detail.Departure.Kind != outpass.KindTimeRemaining || detail.Return != nil {
		t.Errorf("OUT-001 detail = %+v, want departure TIME_REMAINING", detail)
	}

	detail, err = service.ClassifyOne(ctx, "OUT-002")
	if err != nil {
		t.Fatalf("ClassifyOne() error = %v", err)
	}
	if detail.Return == nil || detail.Return.Kind != outpass.KindOnTimeReturn || detail.Departure != nil {
		t.Errorf("OUT-002 detail = %+v, want return ON_TIME_RETURN", detail)
	}

	detail, err = service.ClassifyOne(ctx, "OUT-003")
	if err != nil {
		t.Fatalf("ClassifyOne() error = %v", err)
	}
	if detail.Return != nil || detail.Departure != nil {
		t.Errorf("completed outpass should not be classified, got %+v", detail)
	}

	_, err = service.ClassifyOne(ctx, "OUT-999")
	if !errors.Is(err, secondary.ErrOutpassNotFound) {
		t.Errorf("ClassifyOne() error = %v, want %v", err, secondary.ErrOutpassNotFound)
	}
}

func TestMarkDeparture(t *testing.T) {
	store := newMockOutpassStore(approvedRecord("OUT-001", "2024-01-10T10:00:00Z"))
	journal := newMockJournalRepository()
	service := newTestOutpassService(store, journal, "2024-01-10T11:00:00Z")
	ctx := ctxutil.WithOfficer(context.Background(), "Officer Rao")

	resp, err := service.MarkDeparture(ctx, primary.MarkDepartureRequest{OutpassID: "OUT-001", Comments: " gate 2 "})
	if err != nil {
		t.Fatalf("MarkDeparture() error = %v", err)
	}

	if len(store.departureCalls) != 1 {
		t.Fatalf("expected 1 departure submission, got %d", len(store.departureCalls))
	}
	if store.departureCalls[0].Comments != "gate 2" {
		t.Errorf("submitted comments = %q, want %q", store.departureCalls[0].Comments, "gate 2")
	}
	if resp.Outpass.Status != outpass.StatusActive {
		t.Errorf("resp status = %s, want %s", resp.Outpass.Status, outpass.StatusActive)
	}
	if resp.Classification != string(outpass.KindTimeRemaining) {
		t.Errorf("resp classification = %s, want %s", resp.Classification, outpass.KindTimeRemaining)
	}
	if resp.JournalID != "JRNL-001" {
		t.Errorf("resp journal ID = %s, want JRNL-001", resp.JournalID)
	}

	if len(journal.entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(journal.entries))
	}
	entry := journal.entries[0]
	if entry.Outcome != primary.JournalOutcomeSubmitted || entry.Officer != "Officer Rao" || entry.Action != primary.JournalActionDeparture {
		t.Errorf("journal entry = %+v", entry)
	}
}

func TestMarkDeparture_WindowClosed(t *testing.T) {
	store := newMockOutpassStore(approvedRecord("OUT-001", "2024-01-10T10:00:00Z"))
	journal := newMockJournalRepository()
	service := newTestOutpassService(store, journal, "2024-01-12T11:00:00Z")

	_, err := service.MarkDeparture(context.Background(), primary.MarkDepartureRequest{OutpassID: "OUT-001"})
	if !errors.Is(err, outpass.ErrDepartureNotPermitted) {
		t.Fatalf("MarkDeparture() error = %v, want %v", err, outpass.ErrDepartureNotPermitted)
	}
	if len(store.departureCalls) != 0 {
		t.Errorf("expected no submission, got %d", len(store.departureCalls))
	}
	if len(journal.entries) != 1 || journal.entries[0].Outcome != primary.JournalOutcomeRejected {
		t.Errorf("expected one rejected journal entry, got %+v", journal.entries)
	}
	if journal.entries[0].Classification != string(outpass.KindExpired) {
		t.Errorf("journal classification = %s, want %s", journal.entries[0].Classification, outpass.KindExpired)
	}
}

func TestMarkDeparture_AlreadyDepartedByAnotherOfficer(t *testing.T) {
	// The fresh snapshot shows the pass already ACTIVE.
	store := newMockOutpassStore(activeRecord("OUT-001", "2024-01-10T10:30:00Z", "2024-01-11T10:00:00Z"))
	service := newTestOutpassService(store, newMockJournalRepository(), "2024-01-10T11:00:00Z")

	_, err := service.MarkDeparture(context.Background(), primary.MarkDepartureRequest{OutpassID: "OUT-001"})
	if !errors.Is(err, outpass.ErrInvalidState) {
		t.Errorf("MarkDeparture() error = %v, want %v", err, outpass.ErrInvalidState)
	}
	if len(store.departureCalls) != 0 {
		t.Errorf("expected no submission, got %d", len(store.departureCalls))
	}
}

func TestMarkDeparture_StoreConflict(t *testing.T) {
	store := newMockOutpassStore(approvedRecord("OUT-001", "2024-01-10T10:00:00Z"))
	store.submitErr = secondary.ErrTransitionConflict
	journal := newMockJournalRepository()
	service := newTestOutpassService(store, journal, "2024-01-10T11:00:00Z")

	_, err := service.MarkDeparture(context.Background(), primary.MarkDepartureRequest{OutpassID: "OUT-001"})
	if !errors.Is(err, secondary.ErrTransitionConflict) {
		t.Errorf("MarkDeparture() error = %v, want %v", err, secondary.ErrTransitionConflict)
	}
	if len(journal.entries) != 1 || journal.entries[0].Outcome != primary.JournalOutcomeFailed {
		t.Errorf("expected one failed journal entry, got %+v", journal.entries)
	}
}

func TestMarkReturn(t *testing.T) {
	tests := []struct {
		name          string
		now           string
		reason        string
		wantErr       error
		wantSubmitted bool
		wantReason    string
		wantClass     outpass.ReturnKind
		wantOutcome   string
	}{
		{
			name:          "on time return submits without reason",
			now:           "2024-01-10T18:00:00Z",
			reason:        "ignored",
			wantSubmitted: true,
			wantClass:     outpass.KindOnTimeReturn,
			wantOutcome:   primary.JournalOutcomeSubmitted,
		},
		{
			name:        "overdue return without reason fails before submission",
			now:         "2024-01-11T02:00:00Z",
			wantErr:     outpass.ErrMissingReason,
			wantClass:   outpass.KindOverdueReturn,
			wantOutcome: primary.JournalOutcomeRejected,
		},
		{
			name:          "overdue return with reason submits reason",
			now:           "2024-01-11T02:00:00Z",
			reason:        "bus broke down",
			wantSubmitted: true,
			wantReason:    "bus broke down",
			wantClass:     outpass.KindOverdueReturn,
			wantOutcome:   primary.JournalOutcomeSubmitted,
		},
		{
			name:        "expired return without reason fails before submission",
			now:         "2024-01-11T15:00:00Z",
			wantErr:     outpass.ErrMissingReason,
			wantClass:   outpass.KindExpiredReturn,
			wantOutcome: primary.JournalOutcomeRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockOutpassStore(activeRecord("OUT-002", "2024-01-10T10:00:00Z", "2024-01-10T20:00:00Z"))
			journal := newMockJournalRepository()
			service := newTestOutpassService(store, journal, tt.now)

			resp, err := service.MarkReturn(context.Background(), primary.MarkReturnRequest{
				OutpassID:        "OUT-002",
				LateReturnReason: tt.reason,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("MarkReturn() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("MarkReturn() error = %v", err)
			}

			if tt.wantSubmitted != (len(store.returnCalls) == 1) {
				t.Fatalf("submitted = %v, want %v", len(store.returnCalls) == 1, tt.wantSubmitted)
			}
			if tt.wantSubmitted {
				if store.returnCalls[0].LateReturnReason != tt.wantReason {
					t.Errorf("submitted reason = %q, want %q", store.returnCalls[0].LateReturnReason, tt.wantReason)
				}
				if resp.Outpass.Status != outpass.StatusCompleted {
					t.Errorf("resp status = %s, want %s", resp.Outpass.Status, outpass.StatusCompleted)
				}
			}

			if len(journal.entries) != 1 {
				t.Fatalf("expected 1 journal entry, got %d", len(journal.entries))
			}
			if journal.entries[0].Classification != string(tt.wantClass) {
				t.Errorf("journal classification = %s, want %s", journal.entries[0].Classification, tt.wantClass)
			}
			if journal.entries[0].Outcome != tt.wantOutcome {
				t.Errorf("journal outcome = %s, want %s", journal.entries[0].Outcome, tt.wantOutcome)
			}
		})
	}
}

func TestMarkReturn_JournalFailureDoesNotFailTransition(t *testing.T) {
	store := newMockOutpassStore(activeRecord("OUT-002", "2024-01-10T10:00:00Z", "2024-01-10T20:00:00Z"))
	journal := newMockJournalRepository()
	journal.createErr = errors.New("disk full")
	service := newTestOutpassService(store, journal, "2024-01-10T18:00:00Z")

	resp, err := service.MarkReturn(context.Background(), primary.MarkReturnRequest{OutpassID: "OUT-002"})
	if err != nil {
		t.Fatalf("MarkReturn() error = %v", err)
	}
	if resp.JournalID != "" {
		t.Errorf("JournalID = %q, want empty when journal write fails", resp.JournalID)
	}
}

func TestTodayActivity(t *testing.T) {
	returned := activeRecord("OUT-010", "2024-01-11T07:00:00Z", "2024-01-11T11:00:00Z")
	returned.Status = string(outpass.StatusCompleted)
	returned.ActualReturnTime = atPtr("2024-01-11T10:00:00Z")

	store := newMockOutpassStore()
	store.activity = &secondary.ActivityRecord{
		Departures: []*secondary.OutpassRecord{activeRecord("OUT-011", "2024-01-11T08:00:00Z", "2024-01-11T20:00:00Z")},
		Returns:    []*secondary.OutpassRecord{returned},
		ExpectedReturns: []*secondary.OutpassRecord{
			activeRecord("OUT-011", "2024-01-11T08:00:00Z", "2024-01-11T20:00:00Z"),
			activeRecord("OUT-012", "2024-01-11T01:00:00Z", "2024-01-11T09:00:00Z"),
			returned,
		},
	}
	service := newTestOutpassService(store, newMockJournalRepository(), "2024-01-11T12:00:00Z")

	activity, err := service.TodayActivity(context.Background())
	if err != nil {
		t.Fatalf("TodayActivity() error = %v", err)
	}

	if !activity.Date.Equal(at("2024-01-11T00:00:00Z")) {
		t.Errorf("Date = %s, want 2024-01-11", activity.Date)
	}
	if len(activity.Departures) != 1 || len(activity.Returns) != 1 {
		t.Errorf("departures = %d, returns = %d, want 1 and 1", len(activity.Departures), len(activity.Returns))
	}
	if len(activity.ExpectedReturns) != 3 {
		t.Fatalf("expected 3 expected returns, got %d", len(activity.ExpectedReturns))
	}

	first := activity.ExpectedReturns[0]
	if first.Outpass.ID != "OUT-012" || first.Classification == nil || first.Classification.Kind != outpass.KindOverdueReturn {
		t.Errorf("first expected return = %+v, want overdue OUT-012", first)
	}
	last := activity.ExpectedReturns[2]
	if last.Outpass.ID != "OUT-010" || last.Classification != nil {
		t.Errorf("last expected return = %+v, want unclassified completed OUT-010", last)
	}
}
