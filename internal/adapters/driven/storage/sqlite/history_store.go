package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/curatorhq/curator-cli/internal/core/domain"
	"github.com/curatorhq/curator-cli/internal/core/ports/driven"
)

// historyStore implements driven.RunHistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.RunHistoryStore = (*historyStore)(nil)

// Save persists a finished run's summary.
// Creates or updates the run based on ID.
func (s *historyStore) Save(ctx context.Context, record *domain.RunRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}

	terms, err := json.Marshal(stringSlice(record.Terms))
	if err != nil {
		return fmt.Errorf("encoding terms: %w", err)
	}
	types, err := json.Marshal(stringSlice(record.Types))
	if err != nil {
		return fmt.Errorf("encoding types: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, repository, terms, types, status, records, failures, message, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			repository = excluded.repository,
			terms = excluded.terms,
			types = excluded.types,
			status = excluded.status,
			records = excluded.records,
			failures = excluded.failures,
			message = excluded.message,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at
	`, record.ID, record.Repository, string(terms), string(types),
		string(record.Status), record.Records, record.Failures,
		nullString(record.Message),
		record.StartedAt.Format(time.RFC3339),
		formatNullableTime(record.EndedAt))

	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first, up to limit.
func (s *historyStore) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, repository, terms, types, status, records, failures, message, started_at, ended_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []domain.RunRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanRunRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return records, nil
}

// Get retrieves one run by ID.
func (s *historyStore) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, repository, terms, types, status, records, failures, message, started_at, ended_at
		FROM runs WHERE id = ?
	`, id)

	record, err := scanRunRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

// Close closes the underlying store.
func (s *historyStore) Close() error {
	return s.store.Close()
}

// scanRunRecord scans one run row through the given scan function.
func scanRunRecord(scan func(dest ...any) error) (*domain.RunRecord, error) {
	var record domain.RunRecord
	var terms, types, status, startedAt string
	var message, endedAt sql.NullString

	if err := scan(&record.ID, &record.Repository, &terms, &types, &status,
		&record.Records, &record.Failures, &message, &startedAt, &endedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	if err := json.Unmarshal([]byte(terms), &record.Terms); err != nil {
		return nil, fmt.Errorf("decoding terms: %w", err)
	}
	if err := json.Unmarshal([]byte(types), &record.Types); err != nil {
		return nil, fmt.Errorf("decoding types: %w", err)
	}
	record.Status = domain.RunStatus(status)
	if message.Valid {
		record.Message = message.String
	}
	if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
		record.StartedAt = t
	}
	record.EndedAt = parseNullableTime(endedAt)

	return &record, nil
}

// stringSlice normalises a nil slice to an empty one so the stored
// JSON is always an array.
func stringSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// formatNullableTime formats a time to RFC3339 string, or returns nil for zero time.
func formatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

// parseNullableTime parses a nullable RFC3339 string to time.Time.
// Returns zero time if the string is empty or invalid.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
