/*
Package sqlite provides a SQLite-backed implementation of allowance.Store.

PURPOSE:
  Persists caregivers, children (with grant configuration), timesheet entries
  (with their classified breakdown) and the month-interval history. Entries
  keep the breakdown computed at creation time; reclassification never
  happens after the fact.

KEY TABLES:
  caregivers:              Caregiver records
  children:                Child records incl. grant configuration
  time_entries:            Entries with the five-bucket breakdown
  month_interval_history:  Time-effective month boundary overrides

DECIMAL STORAGE:
  Hour quantities are stored as TEXT and parsed back with
  decimal.NewFromString, so no precision is lost round-tripping.

CONCURRENCY:
  Opened in WAL mode. WithChildLock uses in-process per-child mutexes, which
  is sufficient for the single-process deployment this system runs as; a
  multi-process deployment would need row-level locks instead.
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/Parthee-Vijaya/BP2/allowance"
)

// Store implements allowance.Store using SQLite.
type Store struct {
	db *sql.DB

	lockMu     sync.Mutex
	childLocks map[string]*sync.Mutex
}

var _ allowance.Store = (*Store)(nil)

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, childLocks: make(map[string]*sync.Mutex)}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS caregivers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS children (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		caregiver_id TEXT NOT NULL REFERENCES caregivers(id),
		grant_type TEXT NOT NULL,
		grant_hours TEXT NOT NULL DEFAULT '0',
		weekday_grants TEXT NOT NULL DEFAULT '{}',
		has_frame_grant INTEGER NOT NULL DEFAULT 0,
		frame_hours TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_children_caregiver ON children(caregiver_id);

	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL REFERENCES children(id),
		caregiver_id TEXT NOT NULL REFERENCES caregivers(id),
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		normal_hours TEXT NOT NULL,
		evening_hours TEXT NOT NULL,
		night_hours TEXT NOT NULL,
		saturday_hours TEXT NOT NULL,
		sunday_holiday_hours TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		note TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- Hot path: grant consumption sums per child within a date range.
	CREATE INDEX IF NOT EXISTS idx_entries_child_date ON time_entries(child_id, date);
	CREATE INDEX IF NOT EXISTS idx_entries_caregiver_date ON time_entries(caregiver_id, date);
	CREATE INDEX IF NOT EXISTS idx_entries_status ON time_entries(status);

	CREATE TABLE IF NOT EXISTS month_interval_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_day INTEGER NOT NULL,
		end_day INTEGER NOT NULL,
		effective_from TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTRIES
// =============================================================================

const entryColumns = `id, child_id, caregiver_id, date, start_time, end_time,
	normal_hours, evening_hours, night_hours, saturday_hours,
	sunday_holiday_hours, total_hours, status, note, created_at`

func (s *Store) CreateEntry(ctx context.Context, e allowance.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO time_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ChildID, e.CaregiverID,
		e.Date.String(), e.Start.String(), e.End.String(),
		e.Breakdown.Normal.String(), e.Breakdown.Evening.String(),
		e.Breakdown.Night.String(), e.Breakdown.Saturday.String(),
		e.Breakdown.SundayHoliday.String(), e.Breakdown.Total.String(),
		string(e.Status), e.Note, e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (s *Store) Entry(ctx context.Context, id string) (allowance.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return allowance.Entry{}, &allowance.NotFoundError{Kind: "entry", ID: id}
	}
	return e, err
}

func (s *Store) Entries(ctx context.Context, f allowance.EntryFilter) ([]allowance.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE 1=1`
	var args []any

	if f.ChildID != "" {
		query += ` AND child_id = ?`
		args = append(args, f.ChildID)
	}
	if f.CaregiverID != "" {
		query += ` AND caregiver_id = ?`
		args = append(args, f.CaregiverID)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if !f.From.IsZero() {
		query += ` AND date >= ?`
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		query += ` AND date <= ?`
		args = append(args, f.To.String())
	}
	query += ` ORDER BY date, created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []allowance.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) UpdateEntryStatus(ctx context.Context, id string, status allowance.EntryStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE time_entries SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update entry status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &allowance.NotFoundError{Kind: "entry", ID: id}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (allowance.Entry, error) {
	var (
		e                          allowance.Entry
		date, start, end           string
		normal, evening, night     string
		saturday, sundayHol, total string
		status, createdAt          string
	)
	err := row.Scan(&e.ID, &e.ChildID, &e.CaregiverID, &date, &start, &end,
		&normal, &evening, &night, &saturday, &sundayHol, &total,
		&status, &e.Note, &createdAt)
	if err != nil {
		return allowance.Entry{}, err
	}

	if e.Date, err = allowance.ParseDate(date); err != nil {
		return allowance.Entry{}, err
	}
	if e.Start, err = allowance.ParseClock(start); err != nil {
		return allowance.Entry{}, err
	}
	if e.End, err = allowance.ParseClock(end); err != nil {
		return allowance.Entry{}, err
	}
	if e.Breakdown, err = parseBreakdown(normal, evening, night, saturday, sundayHol, total); err != nil {
		return allowance.Entry{}, err
	}
	e.Status = allowance.EntryStatus(status)
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

func parseBreakdown(normal, evening, night, saturday, sundayHol, total string) (allowance.TariffBreakdown, error) {
	var (
		b   allowance.TariffBreakdown
		err error
	)
	if b.Normal, err = decimal.NewFromString(normal); err != nil {
		return b, fmt.Errorf("bad normal_hours: %w", err)
	}
	if b.Evening, err = decimal.NewFromString(evening); err != nil {
		return b, fmt.Errorf("bad evening_hours: %w", err)
	}
	if b.Night, err = decimal.NewFromString(night); err != nil {
		return b, fmt.Errorf("bad night_hours: %w", err)
	}
	if b.Saturday, err = decimal.NewFromString(saturday); err != nil {
		return b, fmt.Errorf("bad saturday_hours: %w", err)
	}
	if b.SundayHoliday, err = decimal.NewFromString(sundayHol); err != nil {
		return b, fmt.Errorf("bad sunday_holiday_hours: %w", err)
	}
	if b.Total, err = decimal.NewFromString(total); err != nil {
		return b, fmt.Errorf("bad total_hours: %w", err)
	}
	return b, nil
}

// =============================================================================
// CHILDREN
// =============================================================================

func (s *Store) CreateChild(ctx context.Context, c allowance.Child) error {
	weekdays, err := marshalWeekdays(c.Grant.WeekdayHours)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO children (id, name, caregiver_id, grant_type, grant_hours,
			weekday_grants, has_frame_grant, frame_hours, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.CaregiverID, string(c.Grant.Type),
		c.Grant.Hours.String(), weekdays, boolToInt(c.Grant.HasFrameGrant),
		c.Grant.FrameHours.String(), c.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert child: %w", err)
	}
	return nil
}

func (s *Store) UpdateChild(ctx context.Context, c allowance.Child) error {
	weekdays, err := marshalWeekdays(c.Grant.WeekdayHours)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE children SET name = ?, caregiver_id = ?, grant_type = ?,
			grant_hours = ?, weekday_grants = ?, has_frame_grant = ?, frame_hours = ?
		WHERE id = ?`,
		c.Name, c.CaregiverID, string(c.Grant.Type), c.Grant.Hours.String(),
		weekdays, boolToInt(c.Grant.HasFrameGrant), c.Grant.FrameHours.String(), c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update child: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &allowance.NotFoundError{Kind: "child", ID: c.ID}
	}
	return nil
}

func (s *Store) Child(ctx context.Context, id string) (allowance.Child, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, caregiver_id, grant_type, grant_hours, weekday_grants,
			has_frame_grant, frame_hours, created_at
		FROM children WHERE id = ?`, id)
	c, err := scanChild(row)
	if err == sql.ErrNoRows {
		return allowance.Child{}, &allowance.NotFoundError{Kind: "child", ID: id}
	}
	return c, err
}

func (s *Store) Children(ctx context.Context, caregiverID string) ([]allowance.Child, error) {
	query := `
		SELECT id, name, caregiver_id, grant_type, grant_hours, weekday_grants,
			has_frame_grant, frame_hours, created_at
		FROM children`
	var args []any
	if caregiverID != "" {
		query += ` WHERE caregiver_id = ?`
		args = append(args, caregiverID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	defer rows.Close()

	var children []allowance.Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return children, rows.Err()
}

func scanChild(row rowScanner) (allowance.Child, error) {
	var (
		c                     allowance.Child
		grantType, grantHours string
		weekdays, frameHours  string
		hasFrame              int
		createdAt             string
	)
	err := row.Scan(&c.ID, &c.Name, &c.CaregiverID, &grantType, &grantHours,
		&weekdays, &hasFrame, &frameHours, &createdAt)
	if err != nil {
		return allowance.Child{}, err
	}

	c.Grant.Type = allowance.GrantType(grantType)
	if c.Grant.Hours, err = decimal.NewFromString(grantHours); err != nil {
		return allowance.Child{}, fmt.Errorf("bad grant_hours: %w", err)
	}
	if c.Grant.WeekdayHours, err = unmarshalWeekdays(weekdays); err != nil {
		return allowance.Child{}, err
	}
	c.Grant.HasFrameGrant = hasFrame != 0
	if c.Grant.FrameHours, err = decimal.NewFromString(frameHours); err != nil {
		return allowance.Child{}, fmt.Errorf("bad frame_hours: %w", err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return c, nil
}

func marshalWeekdays(quotas map[allowance.Weekday]decimal.Decimal) (string, error) {
	if quotas == nil {
		return "{}", nil
	}
	data, err := json.Marshal(quotas)
	if err != nil {
		return "", fmt.Errorf("failed to marshal weekday grants: %w", err)
	}
	return string(data), nil
}

func unmarshalWeekdays(data string) (map[allowance.Weekday]decimal.Decimal, error) {
	quotas := make(map[allowance.Weekday]decimal.Decimal)
	if err := json.Unmarshal([]byte(data), &quotas); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weekday grants: %w", err)
	}
	return quotas, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// CAREGIVERS
// =============================================================================

func (s *Store) CreateCaregiver(ctx context.Context, c allowance.Caregiver) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO caregivers (id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert caregiver: %w", err)
	}
	return nil
}

func (s *Store) Caregiver(ctx context.Context, id string) (allowance.Caregiver, error) {
	var (
		c         allowance.Caregiver
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM caregivers WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Email, &createdAt)
	if err == sql.ErrNoRows {
		return allowance.Caregiver{}, &allowance.NotFoundError{Kind: "caregiver", ID: id}
	}
	if err != nil {
		return allowance.Caregiver{}, err
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return c, nil
}

func (s *Store) Caregivers(ctx context.Context) ([]allowance.Caregiver, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, created_at FROM caregivers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list caregivers: %w", err)
	}
	defer rows.Close()

	var caregivers []allowance.Caregiver
	for rows.Next() {
		var (
			c         allowance.Caregiver
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		caregivers = append(caregivers, c)
	}
	return caregivers, rows.Err()
}

// =============================================================================
// SETTINGS
// =============================================================================

func (s *Store) MonthIntervals(ctx context.Context) ([]allowance.MonthInterval, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT start_day, end_day, effective_from
		FROM month_interval_history ORDER BY effective_from DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list month intervals: %w", err)
	}
	defer rows.Close()

	var intervals []allowance.MonthInterval
	for rows.Next() {
		var (
			mi   allowance.MonthInterval
			from string
		)
		if err := rows.Scan(&mi.StartDay, &mi.EndDay, &from); err != nil {
			return nil, err
		}
		if mi.EffectiveFrom, err = allowance.ParseDate(from); err != nil {
			return nil, err
		}
		intervals = append(intervals, mi)
	}
	return intervals, rows.Err()
}

func (s *Store) AddMonthInterval(ctx context.Context, mi allowance.MonthInterval) error {
	if mi.StartDay < 1 || mi.StartDay > 31 || mi.EndDay < 1 || mi.EndDay > 31 {
		return allowance.ErrInvalidMonthInterval
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO month_interval_history (start_day, end_day, effective_from)
		VALUES (?, ?, ?)`,
		mi.StartDay, mi.EndDay, mi.EffectiveFrom.String())
	if err != nil {
		return fmt.Errorf("failed to insert month interval: %w", err)
	}
	return nil
}

// =============================================================================
// PER-CHILD SERIALIZATION
// =============================================================================

// WithChildLock serializes fn against other calls for the same child.
func (s *Store) WithChildLock(ctx context.Context, childID string, fn func(ctx context.Context) error) error {
	s.lockMu.Lock()
	lock, ok := s.childLocks[childID]
	if !ok {
		lock = &sync.Mutex{}
		s.childLocks[childID] = lock
	}
	s.lockMu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}
