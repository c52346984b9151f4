package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/timesheet-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func iv(in, out string) engine.Interval {
	return engine.Interval{In: engine.Clock(in), Out: engine.Clock(out)}
}

func schedule(in, out string, breaks ...engine.Interval) engine.Schedule {
	return engine.Schedule{Primary: iv(in, out), Breaks: breaks}
}

// =============================================================================
// WORKED HOURS
// =============================================================================

func TestHoursWorked_PlainDay(t *testing.T) {
	// GIVEN: A 08:00-17:00 day with no breaks
	// WHEN: Computing worked hours
	// THEN: The full 9h gross span is credited

	worked := engine.HoursWorked(schedule("08:00:00", "17:00:00"))
	assert.Equal(t, "9", worked.String())
}

func TestHoursWorked_AllowedBreakIsFree(t *testing.T) {
	// GIVEN: A 08:30-18:00 day with a 13:00-13:30 lunch break
	// WHEN: Computing worked hours
	// THEN: The break inside the allowed window costs nothing

	worked := engine.HoursWorked(schedule("08:30:00", "18:00:00", iv("13:00:00", "13:30:00")))
	assert.Equal(t, "9.5", worked.String())
}

func TestHoursWorked_OutsideBreakIsDeducted(t *testing.T) {
	// GIVEN: A 08:30-18:00 day with a 12:00-12:45 break outside the window
	// WHEN: Computing worked hours and outside time
	// THEN: The 45 minutes are deducted and reported as spent outside

	s := schedule("08:30:00", "18:00:00", iv("12:00:00", "12:45:00"))
	assert.Equal(t, "8.75", engine.HoursWorked(s).String())
	assert.Equal(t, "0.75", engine.HoursOutsideWindow(s).String())
}

func TestHoursWorked_BreakTouchingWindowEdgeIsAllowed(t *testing.T) {
	// Both endpoints sit exactly on the window bounds; inclusive matching
	// keeps the break free.
	s := schedule("09:00:00", "18:00:00", iv("13:00:00", "13:30:00"))
	assert.Equal(t, "9", engine.HoursWorked(s).String())
	assert.True(t, engine.HoursOutsideWindow(s).IsZero())
}

func TestHoursWorked_BreakEndingPastWindowIsDeducted(t *testing.T) {
	// Ending past the window end makes the whole break a deduction.
	s := schedule("09:00:00", "18:00:00", iv("13:00:00", "13:36:00"))
	assert.Equal(t, "8.4", engine.HoursWorked(s).String())
	assert.Equal(t, "0.6", engine.HoursOutsideWindow(s).String())
}

func TestHoursWorked_OversizeBreakIgnored(t *testing.T) {
	// GIVEN: A break of three hours (over the 2h sanity cap)
	// WHEN: Computing worked hours
	// THEN: The malformed break is ignored rather than deducted

	s := schedule("08:00:00", "17:00:00", iv("10:00:00", "13:00:00"))
	assert.Equal(t, "9", engine.HoursWorked(s).String())
	assert.True(t, engine.HoursOutsideWindow(s).IsZero())
}

func TestHoursWorked_ReversedBreakIgnored(t *testing.T) {
	s := schedule("08:00:00", "17:00:00", iv("12:00:00", "11:00:00"))
	assert.Equal(t, "9", engine.HoursWorked(s).String())
}

func TestHoursWorked_IncompleteSchedule(t *testing.T) {
	// GIVEN: An open check-in with no check-out
	// WHEN: Computing worked hours
	// THEN: Zero; incomplete days are a transient state, not an error

	assert.True(t, engine.HoursWorked(schedule("08:00:00", "")).IsZero())

	// An open break makes the whole day incomplete too.
	assert.True(t, engine.HoursWorked(schedule("08:00:00", "17:00:00", iv("12:00:00", ""))).IsZero())
}

func TestHoursWorked_EmptySchedule(t *testing.T) {
	assert.True(t, engine.HoursWorked(engine.Schedule{}).IsZero())
}

func TestHoursWorked_ReversedPrimarySpan(t *testing.T) {
	// A non-positive gross span yields zero rather than a negative figure.
	assert.True(t, engine.HoursWorked(schedule("17:00:00", "08:00:00")).IsZero())
}

func TestHoursWorked_ClampedAtZero(t *testing.T) {
	// Deductions can never push the net below zero.
	s := schedule("09:00:00", "10:00:00",
		iv("09:00:00", "10:00:00"), iv("09:00:00", "10:00:00"))
	assert.True(t, engine.HoursWorked(s).IsZero())
}
