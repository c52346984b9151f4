/*
Package sqlite persists the timesheet state in a local SQLite file.

PURPOSE:
  The Go stand-in for the browser's localStorage: one small single-user
  database holding the record set, the pay periods, and a flat key-value
  settings table (leave allotments, active period, display preferences).
  The engine never sees this package - it consumes and returns plain engine
  types, and the pipeline treats it as an opaque "load record set" / "save
  record set" pair with no transactional guarantees beyond a single call.

KEY TABLES:
  day_records:  one row per calendar date; schedule stored as JSON, derived
                hour columns stored as decimal strings
  pay_periods:  user-defined reporting ranges
  settings:     flat key-value store, one key per setting

LEGACY UPGRADE:
  Rows written before the derived columns existed have NULL there. LoadRecords
  detects the absence (not a version number), recomputes through the engine,
  and writes the filled values back - a best-effort one-time pass.

WAL MODE:
  Opened with WAL journaling, same as every other sqlite user in this
  codebase's lineage: better crash recovery, readers never block the writer.
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/timesheet-engine/engine"
)

// Store owns the database handle. A single mutex serializes writers; the app
// is single-user by design, so contention is not a concern.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for tests.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: keeps ":memory:" databases alive across queries and
	// sidesteps SQLITE_BUSY for the single-user workload.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS day_records (
		date TEXT PRIMARY KEY,
		day_type TEXT NOT NULL,
		duration REAL NOT NULL DEFAULT 1,
		double_hours INTEGER NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		schedule TEXT NOT NULL,
		hours_worked TEXT,
		extra_hours TEXT,
		extra_hours_factor TEXT,
		hours_outside TEXT
	);

	CREATE TABLE IF NOT EXISTS pay_periods (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pay_periods_start ON pay_periods(start_date);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DAY RECORDS
// =============================================================================

const recordColumns = `date, day_type, duration, double_hours, notes, schedule,
	hours_worked, extra_hours, extra_hours_factor, hours_outside`

func scanRecord(rows *sql.Rows) (engine.DayRecord, bool, error) {
	var (
		rec          engine.DayRecord
		scheduleJSON string
		doubleHours  int
		worked       sql.NullString
		extra        sql.NullString
		withFactor   sql.NullString
		outside      sql.NullString
	)
	err := rows.Scan(&rec.Date, &rec.Type, &rec.Duration, &doubleHours, &rec.Notes,
		&scheduleJSON, &worked, &extra, &withFactor, &outside)
	if err != nil {
		return rec, false, err
	}
	if err := json.Unmarshal([]byte(scheduleJSON), &rec.Schedule); err != nil {
		return rec, false, fmt.Errorf("corrupt schedule for %s: %w", rec.Date, err)
	}
	rec.DoubleHours = doubleHours != 0

	derived := worked.Valid && extra.Valid && withFactor.Valid && outside.Valid
	if derived {
		if rec.HoursWorked, err = decimal.NewFromString(worked.String); err != nil {
			return rec, false, err
		}
		if rec.ExtraHours, err = decimal.NewFromString(extra.String); err != nil {
			return rec, false, err
		}
		if rec.ExtraHoursWithFactor, err = decimal.NewFromString(withFactor.String); err != nil {
			return rec, false, err
		}
		if rec.HoursOutside, err = decimal.NewFromString(outside.String); err != nil {
			return rec, false, err
		}
	}
	return rec, derived, nil
}

// LoadRecords returns the full record set ordered by date. Legacy rows with
// missing derived columns are recomputed and persisted back before return,
// so callers always observe a consistent cache.
func (s *Store) LoadRecords(ctx context.Context) ([]engine.DayRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM day_records ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		records []engine.DayRecord
		stale   []engine.DayRecord
	)
	for rows.Next() {
		rec, derived, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if !derived {
			rec = engine.Recompute(rec)
			stale = append(stale, rec)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, rec := range stale {
		if err := s.SaveRecord(ctx, rec); err != nil {
			return nil, fmt.Errorf("migrating %s: %w", rec.Date, err)
		}
	}
	return records, nil
}

// SaveRecord upserts one record.
func (s *Store) SaveRecord(ctx context.Context, rec engine.DayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scheduleJSON, err := json.Marshal(rec.Schedule)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO day_records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			day_type = excluded.day_type,
			duration = excluded.duration,
			double_hours = excluded.double_hours,
			notes = excluded.notes,
			schedule = excluded.schedule,
			hours_worked = excluded.hours_worked,
			extra_hours = excluded.extra_hours,
			extra_hours_factor = excluded.extra_hours_factor,
			hours_outside = excluded.hours_outside`,
		rec.Date, rec.Type, rec.EffectiveDuration(), boolToInt(rec.DoubleHours), rec.Notes,
		string(scheduleJSON),
		rec.HoursWorked.String(), rec.ExtraHours.String(),
		rec.ExtraHoursWithFactor.String(), rec.HoursOutside.String())
	return err
}

// DeleteRecord removes the record for a date. Missing dates are not an error
// here; the engine layer reports those before the store is reached.
func (s *Store) DeleteRecord(ctx context.Context, d engine.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM day_records WHERE date = ?`, d)
	return err
}

// ReplaceRecords swaps the entire record set in one transaction. This is the
// "save record set" primitive the merge pipeline calls after reconciling an
// import: either the whole new set lands or nothing changes.
func (s *Store) ReplaceRecords(ctx context.Context, records []engine.DayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM day_records`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO day_records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		scheduleJSON, err := json.Marshal(rec.Schedule)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			rec.Date, rec.Type, rec.EffectiveDuration(), boolToInt(rec.DoubleHours), rec.Notes,
			string(scheduleJSON),
			rec.HoursWorked.String(), rec.ExtraHours.String(),
			rec.ExtraHoursWithFactor.String(), rec.HoursOutside.String())
		if err != nil {
			return fmt.Errorf("inserting %s: %w", rec.Date, err)
		}
	}
	return tx.Commit()
}

// ClearRecords deletes every record. Destructive; callers gate this behind
// an explicit confirmation.
func (s *Store) ClearRecords(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM day_records`)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// PAY PERIODS
// =============================================================================

// ListPeriods returns all pay periods ordered by start date.
func (s *Store) ListPeriods(ctx context.Context) ([]engine.PayPeriod, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, start_date, end_date FROM pay_periods ORDER BY start_date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []engine.PayPeriod
	for rows.Next() {
		var p engine.PayPeriod
		if err := rows.Scan(&p.ID, &p.Label, &p.Start, &p.End); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// SavePeriod upserts a pay period.
func (s *Store) SavePeriod(ctx context.Context, p engine.PayPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pay_periods (id, label, start_date, end_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = excluded.label,
			start_date = excluded.start_date,
			end_date = excluded.end_date`,
		p.ID, p.Label, p.Start, p.End)
	return err
}

// DeletePeriod removes a pay period (its records stay).
func (s *Store) DeletePeriod(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM pay_periods WHERE id = ?`, id)
	return err
}

// GetPeriod returns one pay period, or nil when absent.
func (s *Store) GetPeriod(ctx context.Context, id string) (*engine.PayPeriod, error) {
	var p engine.PayPeriod
	err := s.db.QueryRowContext(ctx,
		`SELECT id, label, start_date, end_date FROM pay_periods WHERE id = ?`, id).
		Scan(&p.ID, &p.Label, &p.Start, &p.End)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// =============================================================================
// SETTINGS - flat key-value store
// =============================================================================

// Setting keys. Each setting is independently keyed, mirroring the flat
// localStorage layout this store replaces.
const (
	keyActivePeriod   = "active_period_id"
	keyAnnualVacation = "annual_vacation_days"
	keySickDays       = "sick_days"
	keyUse12Hour      = "use_12_hour"
	keyDetailedView   = "detailed_view"
	keyHideSalary     = "hide_salary"
	keyTheme          = "theme"
)

// GetSetting returns the raw value for a key, or "" when unset.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting upserts one key.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// ActivePeriodID returns the selected reporting period's ID ("" when unset).
func (s *Store) ActivePeriodID(ctx context.Context) (string, error) {
	return s.GetSetting(ctx, keyActivePeriod)
}

// SetActivePeriodID persists the selected reporting period.
func (s *Store) SetActivePeriodID(ctx context.Context, id string) error {
	return s.SetSetting(ctx, keyActivePeriod, id)
}

// LeaveSettings loads the leave allotments, falling back to defaults for
// unset or unparseable values.
func (s *Store) LeaveSettings(ctx context.Context) (engine.LeaveSettings, error) {
	settings := engine.DefaultLeaveSettings()

	if raw, err := s.GetSetting(ctx, keyAnnualVacation); err != nil {
		return settings, err
	} else if raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			settings.AnnualVacationDays = v
		}
	}
	if raw, err := s.GetSetting(ctx, keySickDays); err != nil {
		return settings, err
	} else if raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			settings.SickDays = v
		}
	}
	return settings, nil
}

// SaveLeaveSettings persists the leave allotments.
func (s *Store) SaveLeaveSettings(ctx context.Context, settings engine.LeaveSettings) error {
	if err := s.SetSetting(ctx, keyAnnualVacation, settings.AnnualVacationDays.String()); err != nil {
		return err
	}
	return s.SetSetting(ctx, keySickDays, settings.SickDays.String())
}

// Preferences are the display flags the frontend persists alongside the data.
type Preferences struct {
	Use12Hour    bool   `json:"use12Hour"`
	DetailedView bool   `json:"detailedView"`
	HideSalary   bool   `json:"hideSalary"`
	Theme        string `json:"theme"`
}

// LoadPreferences reads the display preference flags.
func (s *Store) LoadPreferences(ctx context.Context) (Preferences, error) {
	prefs := Preferences{Theme: "light"}

	for key, target := range map[string]*bool{
		keyUse12Hour:    &prefs.Use12Hour,
		keyDetailedView: &prefs.DetailedView,
		keyHideSalary:   &prefs.HideSalary,
	} {
		raw, err := s.GetSetting(ctx, key)
		if err != nil {
			return prefs, err
		}
		if raw != "" {
			*target, _ = strconv.ParseBool(raw)
		}
	}

	if theme, err := s.GetSetting(ctx, keyTheme); err != nil {
		return prefs, err
	} else if theme != "" {
		prefs.Theme = theme
	}
	return prefs, nil
}

// SavePreferences writes the display preference flags, each under its own key.
func (s *Store) SavePreferences(ctx context.Context, prefs Preferences) error {
	values := map[string]string{
		keyUse12Hour:    strconv.FormatBool(prefs.Use12Hour),
		keyDetailedView: strconv.FormatBool(prefs.DetailedView),
		keyHideSalary:   strconv.FormatBool(prefs.HideSalary),
		keyTheme:        prefs.Theme,
	}
	for key, value := range values {
		if err := s.SetSetting(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}
