package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timesheet-engine/engine"
)

// =============================================================================
// CLOCKS & INTERVALS
// =============================================================================

func TestValidateClock(t *testing.T) {
	assert.NoError(t, engine.ValidateClock("00:00:00"))
	assert.NoError(t, engine.ValidateClock("23:59:59"))

	for _, bad := range []engine.Clock{"24:00:00", "12:60:00", "12:00", "noon", ""} {
		assert.ErrorIs(t, engine.ValidateClock(bad), engine.ErrInvalidClock, "clock %q", bad)
	}
}

func TestValidateInterval(t *testing.T) {
	assert.NoError(t, engine.ValidateInterval(iv("08:00:00", "17:00:00")))

	// Open check-ins are a legal transient state.
	assert.NoError(t, engine.ValidateInterval(iv("08:00:00", "")))

	assert.ErrorIs(t, engine.ValidateInterval(iv("17:00:00", "08:00:00")), engine.ErrReversedInterval)
	assert.ErrorIs(t, engine.ValidateInterval(iv("08:00:00", "08:00:00")), engine.ErrReversedInterval)
}

func TestValidateRecord(t *testing.T) {
	good := engine.DayRecord{Date: "2026-03-04", Type: engine.TypeRegular, Schedule: schedule("08:00:00", "17:00:00")}
	assert.NoError(t, engine.ValidateRecord(good))

	bad := good
	bad.Date = "2026-02-30"
	assert.ErrorIs(t, engine.ValidateRecord(bad), engine.ErrInvalidDate)

	bad = good
	bad.Type = "Weekend"
	assert.ErrorIs(t, engine.ValidateRecord(bad), engine.ErrInvalidDayType)
}

func TestValidateRecord_DurationDomain(t *testing.T) {
	// Zero (unset), half and full days are the whole domain; anything else
	// would classify as neither half- nor full-day leave and silently fall
	// through to the wrong overtime rule.
	rec := engine.DayRecord{Date: "2026-03-04", Type: engine.TypeVacation}

	for _, ok := range []float64{0, 0.5, 1} {
		rec.Duration = ok
		assert.NoError(t, engine.ValidateRecord(rec), "duration %v", ok)
	}
	for _, bad := range []float64{0.7, 0.25, 2, -1} {
		rec.Duration = bad
		assert.ErrorIs(t, engine.ValidateRecord(rec), engine.ErrInvalidDuration, "duration %v", bad)
	}
}

// =============================================================================
// PERIOD VALIDATION
// =============================================================================

func TestValidatePeriod_Bounds(t *testing.T) {
	ok := engine.PayPeriod{ID: "p1", Start: "2026-02-15", End: "2026-03-15"}
	assert.NoError(t, engine.ValidatePeriod(ok, nil))

	reversed := engine.PayPeriod{ID: "p1", Start: "2026-03-15", End: "2026-02-15"}
	assert.ErrorIs(t, engine.ValidatePeriod(reversed, nil), engine.ErrPeriodReversed)

	tooLong := engine.PayPeriod{ID: "p1", Start: "2026-01-01", End: "2026-02-10"}
	assert.ErrorIs(t, engine.ValidatePeriod(tooLong, nil), engine.ErrPeriodLength)
}

func TestValidatePeriod_Overlap(t *testing.T) {
	// GIVEN: An existing Feb 15 - Mar 15 period
	// WHEN: Validating candidates around it
	// THEN: A one-day overlap is rejected, an adjacent period is accepted

	existing := []engine.PayPeriod{{ID: "p1", Label: "Feb-Mar", Start: "2026-02-15", End: "2026-03-15"}}

	overlapping := engine.PayPeriod{ID: "p2", Start: "2026-01-23", End: "2026-02-20"}
	err := engine.ValidatePeriod(overlapping, existing)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrPeriodOverlap)

	var overlapErr *engine.PeriodOverlapError
	require.ErrorAs(t, err, &overlapErr)
	assert.Equal(t, "p1", overlapErr.Existing.ID)

	adjacent := engine.PayPeriod{ID: "p2", Start: "2026-01-23", End: "2026-02-14"}
	assert.NoError(t, engine.ValidatePeriod(adjacent, existing))
}

func TestValidatePeriod_SelfEditAllowed(t *testing.T) {
	// Editing a period's own bounds must not collide with itself.
	existing := []engine.PayPeriod{{ID: "p1", Start: "2026-02-15", End: "2026-03-15"}}
	edited := engine.PayPeriod{ID: "p1", Start: "2026-02-16", End: "2026-03-15"}
	assert.NoError(t, engine.ValidatePeriod(edited, existing))
}

// =============================================================================
// RECORD SET INTEGRITY
// =============================================================================

func TestCheckRecords(t *testing.T) {
	records := []engine.DayRecord{
		{Date: "2026-03-04", Type: engine.TypeRegular},
		{Date: "2026-03-04", Type: engine.TypeRegular}, // duplicate
		{Date: "", Type: engine.TypeRegular},           // missing date
		{Date: "2026-03-06", Type: "Weekend"},          // unknown type
	}

	anomalies := engine.CheckRecords(records)
	require.Len(t, anomalies, 3)

	assert.Empty(t, engine.CheckRecords([]engine.DayRecord{
		{Date: "2026-03-04", Type: engine.TypeRegular},
		{Date: "2026-03-05", Type: engine.TypeVacation},
	}))
}
