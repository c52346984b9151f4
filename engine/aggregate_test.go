package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/timesheet-engine/engine"
)

func leaveDay(d engine.Date, t engine.DayType, duration float64) engine.DayRecord {
	return engine.Recompute(engine.DayRecord{Date: d, Type: t, Duration: duration})
}

// =============================================================================
// PERIOD TOTALS
// =============================================================================

func TestAggregate_RegularOnlyWorkedTotal(t *testing.T) {
	// GIVEN: A regular 9h day plus a worked holiday in the same period
	// WHEN: Aggregating
	// THEN: Worked hours count the regular day only; extra hours count both

	records := []engine.DayRecord{
		regularDay("2026-03-04", "08:00:00", "17:00:00"),
		engine.Recompute(engine.DayRecord{
			Date:     "2026-03-05",
			Type:     engine.TypeHoliday,
			Schedule: schedule("09:00:00", "12:00:00"),
		}),
	}

	totals := engine.Aggregate(records, "2026-03-01", "2026-03-31")
	assert.Equal(t, "9", totals.HoursWorked.String())
	assert.Equal(t, 1, totals.WorkDays)
	assert.Equal(t, "3", totals.ExtraHours.String())
	assert.Equal(t, "6", totals.ExtraHoursWithFactor.String())
}

func TestAggregate_SkipsIncompleteAndEmptyDays(t *testing.T) {
	// GIVEN: An open check-in and an empty vacation day alongside a real day
	// WHEN: Aggregating
	// THEN: Neither drags a negative baseline delta into the totals

	records := []engine.DayRecord{
		regularDay("2026-03-04", "08:00:00", "19:00:00"), // 11h, +2 extra
		engine.Recompute(engine.DayRecord{
			Date:     "2026-03-05",
			Type:     engine.TypeRegular,
			Schedule: schedule("08:00:00", ""), // still checked in
		}),
		leaveDay("2026-03-06", engine.TypeVacation, 1),
	}

	totals := engine.Aggregate(records, "2026-03-01", "2026-03-31")
	assert.Equal(t, "11", totals.HoursWorked.String())
	assert.Equal(t, "2", totals.ExtraHours.String())
	assert.Equal(t, 1, totals.WorkDays)
}

func TestAggregate_RangeBounds(t *testing.T) {
	records := []engine.DayRecord{
		regularDay("2026-02-28", "08:00:00", "17:00:00"),
		regularDay("2026-03-01", "08:00:00", "17:00:00"),
		regularDay("2026-03-31", "08:00:00", "17:00:00"),
		regularDay("2026-04-01", "08:00:00", "17:00:00"),
	}

	// Inclusive on both ends.
	totals := engine.Aggregate(records, "2026-03-01", "2026-03-31")
	assert.Equal(t, 2, totals.WorkDays)
}

// =============================================================================
// LEAVE BALANCES
// =============================================================================

func TestComputeLeave_Balances(t *testing.T) {
	// GIVEN: 2.5 vacation days taken, 1 to be added back, 1 sick day
	// WHEN: Computing balances against the default allotments (10/7)
	// THEN: Vacation balance is 10 - 2.5 + 1, sick balance 7 - 1

	records := []engine.DayRecord{
		leaveDay("2026-03-02", engine.TypeVacation, 1),
		leaveDay("2026-03-03", engine.TypeVacation, 1),
		leaveDay("2026-03-04", engine.TypeVacation, 0.5),
		leaveDay("2026-03-05", engine.TypeToBeAdded, 1),
		leaveDay("2026-03-06", engine.TypeSickLeave, 1),
	}

	report := engine.ComputeLeave(engine.DefaultLeaveSettings(), records, "2026-03-01", "2026-03-31")
	assert.Equal(t, "2.5", report.VacationTaken.String())
	assert.Equal(t, "1", report.VacationToAdd.String())
	assert.Equal(t, "8.5", report.VacationBalance.String())
	assert.Equal(t, "1", report.SickUsed.String())
	assert.Equal(t, "6", report.SickBalance.String())
}

func TestComputeLeave_OutOfRangeIgnored(t *testing.T) {
	records := []engine.DayRecord{
		leaveDay("2026-02-10", engine.TypeVacation, 1),
	}
	report := engine.ComputeLeave(engine.DefaultLeaveSettings(), records, "2026-03-01", "2026-03-31")
	assert.True(t, report.VacationTaken.IsZero())
	assert.Equal(t, "10", report.VacationBalance.String())
}
