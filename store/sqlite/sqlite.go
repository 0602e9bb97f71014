/*
Package sqlite provides a SQLite-backed implementation of the storage
the scheduling host owns.

PURPOSE:
  The engine itself persists nothing (callers own storage of calendar
  configuration and of per-event recurrence caches). This package is
  that caller-side storage: calendar documents, event descriptors, the
  per-calendar world clock, and the derived random-occurrence sets.

KEY TABLES:
  calendars:          Calendar documents (JSON in the factory schema)
                      plus the per-session world-clock scalar
  events:             Recurrence descriptors (JSON), keyed by calendar
  random_occurrences: Derived occurrence day sets, keyed by
                      (event id, seed); implements recurrence.Memo

MEMO CONTRACT:
  Memo() adapts the store to recurrence.Memo. The engine's contract is
  read-or-populate-once and tolerates a miss, so the adapter maps any
  database error to a cache miss instead of failing a match call; the
  explicit GetOccurrences/PutOccurrences methods surface errors for
  callers that need them.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, and SQLite is opened with WAL so
  readers do not block each other.

USAGE:
  store, err := sqlite.New("./data/almanac.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - factory/calendar.go: The schema stored in calendars.config_json
  - recurrence/memo.go:  The Memo interface this store implements
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/almanac/calendar-engine/recurrence"
)

// ErrNotFound is returned when a calendar or event does not exist.
var ErrNotFound = errors.New("not found")

// Store persists calendars, events, the world clock, and derived
// random occurrences in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would otherwise see its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Calendar documents plus the per-session world clock
	CREATE TABLE IF NOT EXISTS calendars (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		world_time INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Recurrence descriptors
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		calendar_id TEXT NOT NULL REFERENCES calendars(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		descriptor_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_calendar
		ON events(calendar_id);

	-- Derived random occurrence sets (the recurrence memo)
	CREATE TABLE IF NOT EXISTS random_occurrences (
		event_id TEXT NOT NULL,
		seed INTEGER NOT NULL,
		days_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (event_id, seed)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CALENDARS
// =============================================================================

// CalendarRecord is a stored calendar document.
type CalendarRecord struct {
	ID         string
	Name       string
	ConfigJSON string
	WorldTime  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaveCalendar inserts or replaces a calendar document.
func (s *Store) SaveCalendar(ctx context.Context, rec CalendarRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendars (id, name, config_json, world_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			world_time = excluded.world_time,
			updated_at = excluded.updated_at`,
		rec.ID, rec.Name, rec.ConfigJSON, rec.WorldTime, now, now)
	if err != nil {
		return fmt.Errorf("failed to save calendar: %w", err)
	}
	return nil
}

// GetCalendar returns a calendar document by ID.
func (s *Store) GetCalendar(ctx context.Context, id string) (*CalendarRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, config_json, world_time, created_at, updated_at
		FROM calendars WHERE id = ?`, id)
	return scanCalendar(row)
}

// ListCalendars returns all calendar documents ordered by name.
func (s *Store) ListCalendars(ctx context.Context) ([]CalendarRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, config_json, world_time, created_at, updated_at
		FROM calendars ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	defer rows.Close()

	var records []CalendarRecord
	for rows.Next() {
		rec, err := scanCalendar(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// DeleteCalendar removes a calendar and, via cascade, its events.
func (s *Store) DeleteCalendar(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM calendars WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete calendar: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetWorldTime stores the authoritative world-clock scalar for a
// calendar session.
func (s *Store) SetWorldTime(ctx context.Context, id string, worldTime int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE calendars SET world_time = ?, updated_at = ? WHERE id = ?`,
		worldTime, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to set world time: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalendar(row rowScanner) (*CalendarRecord, error) {
	var rec CalendarRecord
	var created, updated string
	err := row.Scan(&rec.ID, &rec.Name, &rec.ConfigJSON, &rec.WorldTime, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan calendar: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, created)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &rec, nil
}

// =============================================================================
// EVENTS
// =============================================================================

// SaveEvent inserts or replaces an event descriptor.
func (s *Store) SaveEvent(ctx context.Context, calendarID string, ev *recurrence.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	descriptor, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (id, calendar_id, title, descriptor_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			calendar_id = excluded.calendar_id,
			title = excluded.title,
			descriptor_json = excluded.descriptor_json,
			updated_at = excluded.updated_at`,
		ev.ID, calendarID, ev.Title, string(descriptor), now, now)
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

// GetEvent returns one event descriptor by ID.
func (s *Store) GetEvent(ctx context.Context, id string) (*recurrence.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var descriptor string
	err := s.db.QueryRowContext(ctx,
		`SELECT descriptor_json FROM events WHERE id = ?`, id).Scan(&descriptor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	var ev recurrence.Event
	if err := json.Unmarshal([]byte(descriptor), &ev); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	return &ev, nil
}

// ListEvents returns all event descriptors for a calendar.
func (s *Store) ListEvents(ctx context.Context, calendarID string) ([]*recurrence.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT descriptor_json FROM events WHERE calendar_id = ? ORDER BY created_at`, calendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*recurrence.Event
	for rows.Next() {
		var descriptor string
		if err := rows.Scan(&descriptor); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		var ev recurrence.Event
		if err := json.Unmarshal([]byte(descriptor), &ev); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// DeleteEvent removes an event and its cached occurrences.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM random_occurrences WHERE event_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cached occurrences: %w", err)
	}
	return nil
}

// =============================================================================
// RANDOM OCCURRENCE MEMO
// =============================================================================

// GetOccurrences loads a derived occurrence set.
func (s *Store) GetOccurrences(ctx context.Context, eventID string, seed uint64) ([]int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var daysJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT days_json FROM random_occurrences WHERE event_id = ? AND seed = ?`,
		eventID, int64(seed)).Scan(&daysJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load occurrences: %w", err)
	}
	var days []int64
	if err := json.Unmarshal([]byte(daysJSON), &days); err != nil {
		return nil, false, fmt.Errorf("failed to decode occurrences: %w", err)
	}
	return days, true, nil
}

// PutOccurrences stores a derived occurrence set. The first derivation
// wins; replays are ignored, matching the read-or-populate-once
// contract.
func (s *Store) PutOccurrences(ctx context.Context, eventID string, seed uint64, days []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	daysJSON, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("failed to encode occurrences: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO random_occurrences (event_id, seed, days_json, created_at)
		VALUES (?, ?, ?, ?)`,
		eventID, int64(seed), string(daysJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to store occurrences: %w", err)
	}
	return nil
}

// Memo adapts the store to recurrence.Memo. Database errors surface as
// cache misses: the derivation is deterministic, so the matcher simply
// re-derives and the result is unchanged.
func (s *Store) Memo() recurrence.Memo {
	return &storeMemo{store: s}
}

type storeMemo struct {
	store *Store
}

func (m *storeMemo) Get(key recurrence.MemoKey) ([]int64, bool) {
	days, ok, err := m.store.GetOccurrences(context.Background(), key.EventID, key.Seed)
	if err != nil {
		return nil, false
	}
	return days, ok
}

func (m *storeMemo) Put(key recurrence.MemoKey, days []int64) {
	_ = m.store.PutOccurrences(context.Background(), key.EventID, key.Seed, days)
}
