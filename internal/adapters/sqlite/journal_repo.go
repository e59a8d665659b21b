// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/outpass/internal/ports/secondary"
)

const journalColumns = "id, outpass_id, action, classification, officer, comments, late_return_reason, outcome, error, created_at"

// JournalRepository implements secondary.JournalRepository with SQLite.
type JournalRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewJournalRepository creates a new SQLite journal repository.
func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db, now: time.Now}
}

// Create persists a new journal entry. CreatedAt is stamped when empty.
func (r *JournalRepository) Create(ctx context.Context, entry *secondary.JournalRecord) error {
	if entry.CreatedAt == "" {
		entry.CreatedAt = r.now().UTC().Format(time.RFC3339)
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO journal ("+journalColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID, entry.OutpassID, entry.Action,
		nullString(entry.Classification), nullString(entry.Officer), nullString(entry.Comments),
		nullString(entry.LateReturnReason), entry.Outcome, nullString(entry.Error), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create journal entry: %w", err)
	}

	return nil
}

// GetByID retrieves a journal entry by its ID.
func (r *JournalRepository) GetByID(ctx context.Context, id string) (*secondary.JournalRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+journalColumns+" FROM journal WHERE id = ?", id)

	record, err := scanJournal(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("journal entry %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	return record, nil
}

// List retrieves journal entries matching the given filters, newest first.
func (r *JournalRepository) List(ctx context.Context, filters secondary.JournalFilters) ([]*secondary.JournalRecord, error) {
	query := "SELECT " + journalColumns + " FROM journal WHERE 1=1"
	args := []any{}

	if filters.OutpassID != "" {
		query += " AND outpass_id = ?"
		args = append(args, filters.OutpassID)
	}

	if filters.Outcome != "" {
		query += " AND outcome = ?"
		args = append(args, filters.Outcome)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.JournalRecord
	for rows.Next() {
		record, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal entries: %w", err)
	}

	return entries, nil
}

// GetNextID returns the next available journal ID.
func (r *JournalRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM journal",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next journal ID: %w", err)
	}

	return fmt.Sprintf("JRNL-%03d", maxID+1), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJournal(row rowScanner) (*secondary.JournalRecord, error) {
	var (
		classification   sql.NullString
		officer          sql.NullString
		comments         sql.NullString
		lateReturnReason sql.NullString
		errText          sql.NullString
	)

	record := &secondary.JournalRecord{}
	err := row.Scan(&record.ID, &record.OutpassID, &record.Action, &classification, &officer,
		&comments, &lateReturnReason, &record.Outcome, &errText, &record.CreatedAt)
	if err != nil {
		return nil, err
	}

	record.Classification = classification.String
	record.Officer = officer.String
	record.Comments = comments.String
	record.LateReturnReason = lateReturnReason.String
	record.Error = errText.String

	return record, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure JournalRepository implements the interface
var _ secondary.JournalRepository = (*JournalRepository)(nil)
