package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/example/outpass/internal/core/outpass"
	"github.com/example/outpass/internal/ctxutil"
	"github.com/example/outpass/internal/ports/primary"
	"github.com/example/outpass/internal/ports/secondary"
)

// OutpassServiceImpl implements the OutpassService interface.
// The clock is injected so classification is deterministic under test.
type OutpassServiceImpl struct {
	store    secondary.OutpassStore
	journal  secondary.JournalRepository
	clock    func() time.Time
	location *time.Location
	logger   *zap.Logger
}

// NewOutpassService creates a new OutpassService with injected dependencies.
func NewOutpassService(store secondary.OutpassStore, journal secondary.JournalRepository, clock func() time.Time, location *time.Location, logger *zap.Logger) *OutpassServiceImpl {
	if clock == nil {
		clock = time.Now
	}
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutpassServiceImpl{
		store:    store,
		journal:  journal,
		clock:    clock,
		location: location,
		logger:   logger,
	}
}

// DepartureBoard lists approved outpasses with their departure classification.
func (s *OutpassServiceImpl) DepartureBoard(ctx context.Context) ([]*primary.DepartureEntry, error) {
	records, err := s.store.ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approved outpasses: %w", err)
	}

	now := s.clock()
	entries := make([]*primary.DepartureEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, s.departureEntry(now, recordToOutpass(r)))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Outpass.LeaveStartDate.Before(entries[j].Outpass.LeaveStartDate)
	})
	return entries, nil
}

// ReturnBoard lists active outpasses with their return classification.
// Expired returns sort first, then overdue, then on-time; ties by expected return.
func (s *OutpassServiceImpl) ReturnBoard(ctx context.Context) ([]*primary.ReturnEntry, error) {
	records, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active outpasses: %w", err)
	}

	now := s.clock()
	entries := make([]*primary.ReturnEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, s.returnEntry(now, recordToOutpass(r)))
	}

	sortReturnEntries(entries)
	return entries, nil
}

// ClassifyOne re-fetches a single outpass and classifies it for its next action.
func (s *OutpassServiceImpl) ClassifyOne(ctx context.Context, outpassID string) (*primary.OutpassDetail, error) {
	record, err := s.store.GetByID(ctx, outpassID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outpass %s: %w", outpassID, err)
	}

	now := s.clock()
	p := recordToOutpass(record)
	detail := &primary.OutpassDetail{Outpass: p, CheckedAt: now}

	switch p.Status {
	case outpass.StatusApproved:
		entry := s.departureEntry(now, p)
		detail.Departure = entry.Classification
		detail.Error = entry.Error
	case outpass.StatusActive:
		entry := s.returnEntry(now, p)
		detail.Return = entry.Classification
		detail.Error = entry.Error
	}

	return detail, nil
}

// MarkDeparture marks the departure of an approved outpass.
// The outpass is re-fetched so the window is evaluated against a fresh snapshot.
func (s *OutpassServiceImpl) MarkDeparture(ctx context.Context, req primary.MarkDepartureRequest) (*primary.TransitionResponse, error) {
	record, err := s.store.GetByID(ctx, req.OutpassID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outpass %s: %w", req.OutpassID, err)
	}

	now := s.clock()
	p := recordToOutpass(record)
	entry := &secondary.JournalRecord{
		OutpassID: req.OutpassID,
		Action:    primary.JournalActionDeparture,
		Comments:  req.Comments,
	}
	if c, err := outpass.ClassifyForDeparture(now, p.Policy()); err == nil {
		entry.Classification = string(c.Kind)
	}

	transition, err := outpass.BuildDepartureTransition(now, p.Policy(), req.Comments)
	if err != nil {
		s.writeJournal(ctx, entry, primary.JournalOutcomeRejected, err)
		return nil, err
	}

	updated, err := s.store.SubmitDeparture(ctx, secondary.DepartureSubmission{
		OutpassID: transition.OutpassID,
		Comments:  transition.Comments,
	})
	if err != nil {
		s.writeJournal(ctx, entry, primary.JournalOutcomeFailed, err)
		return nil, fmt.Errorf("failed to submit departure for %s: %w", req.OutpassID, err)
	}

	journalID := s.writeJournal(ctx, entry, primary.JournalOutcomeSubmitted, nil)
	s.logger.Info("departure marked",
		zap.String("outpass_id", req.OutpassID),
		zap.String("classification", entry.Classification),
		zap.String("officer", ctxutil.OfficerFromContext(ctx)),
	)

	return &primary.TransitionResponse{
		Outpass:        recordToOutpass(updated),
		Classification: entry.Classification,
		JournalID:      journalID,
	}, nil
}

// MarkReturn marks the return of an active outpass.
// Late returns without a reason fail with outpass.ErrMissingReason before anything is submitted.
func (s *OutpassServiceImpl) MarkReturn(ctx context.Context, req primary.MarkReturnRequest) (*primary.TransitionResponse, error) {
	record, err := s.store.GetByID(ctx, req.OutpassID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outpass %s: %w", req.OutpassID, err)
	}

	now := s.clock()
	p := recordToOutpass(record)
	entry := &secondary.JournalRecord{
		OutpassID:        req.OutpassID,
		Action:           primary.JournalActionReturn,
		Comments:         req.Comments,
		LateReturnReason: req.LateReturnReason,
	}
	if c, err := outpass.ClassifyForReturn(now, p.Policy()); err == nil {
		entry.Classification = string(c.Kind)
	}

	transition, err := outpass.BuildReturnTransition(now, p.Policy(), req.Comments, req.LateReturnReason)
	if err != nil {
		s.writeJournal(ctx, entry, primary.JournalOutcomeRejected, err)
		return nil, err
	}
	entry.LateReturnReason = transition.LateReturnReason

	updated, err := s.store.SubmitReturn(ctx, secondary.ReturnSubmission{
		OutpassID:        transition.OutpassID,
		Comments:         transition.Comments,
		LateReturnReason: transition.LateReturnReason,
	})
	if err != nil {
		s.writeJournal(ctx, entry, primary.JournalOutcomeFailed, err)
		return nil, fmt.Errorf("failed to submit return for %s: %w", req.OutpassID, err)
	}

	journalID := s.writeJournal(ctx, entry, primary.JournalOutcomeSubmitted, nil)
	s.logger.Info("return marked",
		zap.String("outpass_id", req.OutpassID),
		zap.String("classification", entry.Classification),
		zap.Bool("late", transition.LateReturnReason != ""),
		zap.String("officer", ctxutil.OfficerFromContext(ctx)),
	)

	return &primary.TransitionResponse{
		Outpass:        recordToOutpass(updated),
		Classification: entry.Classification,
		JournalID:      journalID,
	}, nil
}

// TodayActivity summarizes today's movements. Expected returns that are
// still active carry their return classification.
func (s *OutpassServiceImpl) TodayActivity(ctx context.Context) (*primary.Activity, error) {
	record, err := s.store.TodayActivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch today's activity: %w", err)
	}

	now := s.clock()
	local := now.In(s.location)
	activity := &primary.Activity{
		Date:       time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location),
		Departures: recordsToOutpasses(record.Departures),
		Returns:    recordsToOutpasses(record.Returns),
	}

	for _, r := range record.ExpectedReturns {
		p := recordToOutpass(r)
		if p.Status != outpass.StatusActive {
			activity.ExpectedReturns = append(activity.ExpectedReturns, &primary.ReturnEntry{Outpass: p})
			continue
		}
		activity.ExpectedReturns = append(activity.ExpectedReturns, s.returnEntry(now, p))
	}
	sortReturnEntries(activity.ExpectedReturns)

	return activity, nil
}

// Helper methods

func (s *OutpassServiceImpl) departureEntry(now time.Time, p *primary.Outpass) *primary.DepartureEntry {
	c, err := outpass.ClassifyForDeparture(now, p.Policy())
	if err != nil {
		s.logger.Warn("outpass failed departure classification",
			zap.String("outpass_id", p.ID), zap.Error(err))
		return &primary.DepartureEntry{Outpass: p, Error: err.Error()}
	}
	return &primary.DepartureEntry{Outpass: p, Classification: &c}
}

func (s *OutpassServiceImpl) returnEntry(now time.Time, p *primary.Outpass) *primary.ReturnEntry {
	c, err := outpass.ClassifyForReturn(now, p.Policy())
	if err != nil {
		s.logger.Warn("outpass failed return classification",
			zap.String("outpass_id", p.ID), zap.Error(err))
		return &primary.ReturnEntry{Outpass: p, Error: err.Error()}
	}
	return &primary.ReturnEntry{Outpass: p, Classification: &c}
}

// writeJournal records a transition attempt and returns the journal ID.
// Journal failures are logged, never returned.
func (s *OutpassServiceImpl) writeJournal(ctx context.Context, entry *secondary.JournalRecord, outcome string, cause error) string {
	if s.journal == nil {
		return ""
	}

	id, err := s.journal.GetNextID(ctx)
	if err != nil {
		s.logger.Warn("failed to allocate journal id", zap.Error(err))
		return ""
	}

	entry.ID = id
	entry.Officer = ctxutil.OfficerFromContext(ctx)
	entry.Outcome = outcome
	if cause != nil {
		entry.Error = cause.Error()
	}

	if err := s.journal.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write journal entry",
			zap.String("outpass_id", entry.OutpassID), zap.Error(err))
		return ""
	}
	return id
}

func returnSeverity(e *primary.ReturnEntry) int {
	if e.Classification == nil {
		return 3
	}
	switch e.Classification.Kind {
	case outpass.KindExpiredReturn:
		return 0
	case outpass.KindOverdueReturn:
		return 1
	default:
		return 2
	}
}

func sortReturnEntries(entries []*primary.ReturnEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		si, sj := returnSeverity(entries[i]), returnSeverity(entries[j])
		if si != sj {
			return si < sj
		}
		return entries[i].Outpass.ExpectedReturnDate.Before(entries[j].Outpass.ExpectedReturnDate)
	})
}

func recordToOutpass(r *secondary.OutpassRecord) *primary.Outpass {
	return &primary.Outpass{
		ID:                  r.ID,
		Status:              outpass.ParseStatus(r.Status),
		StudentName:         r.StudentName,
		RollNumber:          r.RollNumber,
		RoomNumber:          r.RoomNumber,
		Destination:         r.Destination,
		Purpose:             r.Purpose,
		LeaveStartDate:      r.LeaveStartDate,
		ExpectedReturnDate:  r.ExpectedReturnDate,
		ActualDepartureTime: r.ActualDepartureTime,
		ActualReturnTime:    r.ActualReturnTime,
		LateReturnReason:    r.LateReturnReason,
	}
}

func recordsToOutpasses(records []*secondary.OutpassRecord) []*primary.Outpass {
	out := make([]*primary.Outpass, len(records))
	for i, r := range records {
		out[i] = recordToOutpass(r)
	}
	return out
}

// Ensure OutpassServiceImpl implements the interface
var _ primary.OutpassService = (*OutpassServiceImpl)(nil)
