package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timesheet-engine/engine"
	"github.com/warp/timesheet-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(date engine.Date) engine.DayRecord {
	return engine.Recompute(engine.DayRecord{
		Date: date,
		Type: engine.TypeRegular,
		Schedule: engine.Schedule{
			Primary: engine.Interval{In: "08:30:00", Out: "18:00:00"},
			Breaks:  []engine.Interval{{In: "13:00:00", Out: "13:30:00"}},
		},
		Notes: "sample",
	})
}

// =============================================================================
// DAY RECORDS
// =============================================================================

func TestStore_SaveLoadRecord(t *testing.T) {
	// GIVEN: A recomputed record saved to a fresh store
	// WHEN: Loading the record set
	// THEN: Every field, including the exact decimal cache, round-trips

	store := newTestStore(t)
	ctx := context.Background()

	original := sampleRecord("2026-03-04")
	require.NoError(t, store.SaveRecord(ctx, original))

	records, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, original.Date, got.Date)
	assert.Equal(t, original.Schedule, got.Schedule)
	assert.Equal(t, original.Notes, got.Notes)
	assert.True(t, original.HoursWorked.Equal(got.HoursWorked))
	assert.True(t, original.ExtraHoursWithFactor.Equal(got.ExtraHoursWithFactor))
}

func TestStore_SaveRecordUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRecord(ctx, sampleRecord("2026-03-04")))

	edited := sampleRecord("2026-03-04")
	edited.Notes = "edited"
	require.NoError(t, store.SaveRecord(ctx, edited))

	records, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "edited", records[0].Notes)
}

func TestStore_LoadRecordsOrderedByDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, d := range []engine.Date{"2026-03-10", "2026-03-02", "2026-03-25"} {
		require.NoError(t, store.SaveRecord(ctx, sampleRecord(d)))
	}

	records, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, engine.Date("2026-03-02"), records[0].Date)
	assert.Equal(t, engine.Date("2026-03-25"), records[2].Date)
}

func TestStore_ReplaceRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRecord(ctx, sampleRecord("2026-03-04")))
	require.NoError(t, store.ReplaceRecords(ctx, []engine.DayRecord{
		sampleRecord("2026-04-01"),
		sampleRecord("2026-04-02"),
	}))

	records, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, engine.Date("2026-04-01"), records[0].Date)
}

func TestStore_DeleteAndClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRecord(ctx, sampleRecord("2026-03-04")))
	require.NoError(t, store.SaveRecord(ctx, sampleRecord("2026-03-05")))

	require.NoError(t, store.DeleteRecord(ctx, "2026-03-04"))
	records, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	require.NoError(t, store.ClearRecords(ctx))
	records, err = store.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// =============================================================================
// PAY PERIODS
// =============================================================================

func TestStore_PeriodLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := engine.PayPeriod{ID: "p1", Label: "March", Start: "2026-03-01", End: "2026-03-31"}
	require.NoError(t, store.SavePeriod(ctx, p))

	got, err := store.GetPeriod(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p, *got)

	missing, err := store.GetPeriod(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Edit through the same upsert.
	p.End = "2026-03-28"
	require.NoError(t, store.SavePeriod(ctx, p))
	got, err = store.GetPeriod(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, engine.Date("2026-03-28"), got.End)

	require.NoError(t, store.DeletePeriod(ctx, "p1"))
	periods, err := store.ListPeriods(ctx)
	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestStore_ActivePeriod(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.ActivePeriodID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, store.SetActivePeriodID(ctx, "p1"))
	id, err = store.ActivePeriodID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p1", id)
}

// =============================================================================
// SETTINGS & PREFERENCES
// =============================================================================

func TestStore_LeaveSettingsDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	settings, err := store.LeaveSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10", settings.AnnualVacationDays.String())
	assert.Equal(t, "7", settings.SickDays.String())
}

func TestStore_LeaveSettingsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := engine.LeaveSettings{
		AnnualVacationDays: engine.DefaultLeaveSettings().AnnualVacationDays.Add(engine.DefaultLeaveSettings().SickDays),
		SickDays:           engine.DefaultLeaveSettings().SickDays,
	}
	require.NoError(t, store.SaveLeaveSettings(ctx, in))

	out, err := store.LeaveSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "17", out.AnnualVacationDays.String())
}

func TestStore_PreferencesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Unset: booleans false, theme defaults to light.
	prefs, err := store.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.False(t, prefs.Use12Hour)
	assert.Equal(t, "light", prefs.Theme)

	in := sqlite.Preferences{Use12Hour: true, DetailedView: true, HideSalary: false, Theme: "dark"}
	require.NoError(t, store.SavePreferences(ctx, in))

	out, err := store.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

// =============================================================================
// LEGACY UPGRADE
// =============================================================================

func TestStore_LoadFillsLegacyDerivedColumns(t *testing.T) {
	// GIVEN: A row written before the derived columns existed (NULLs there)
	// WHEN: Loading the record set twice
	// THEN: The first load computes and persists the cache; the second load
	//       reads it back without another migration pass

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.InsertLegacyRecordForTest(ctx, "2026-03-04",
		`{"primary":{"in":"08:00:00","out":"19:00:00"}}`))

	records, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "11", records[0].HoursWorked.String())
	assert.Equal(t, "2", records[0].ExtraHours.String())

	again, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.True(t, records[0].HoursWorked.Equal(again[0].HoursWorked))
	assert.True(t, records[0].ExtraHoursWithFactor.Equal(again[0].ExtraHoursWithFactor))
}
