/*
errors.go - Centralized error types for the timesheet engine

PURPOSE:
  All validation and merge error types in one place. Outer layers (HTTP
  handlers, CLI) map these onto status codes and user-facing messages.

ERROR CATEGORIES:
  1. Validation errors - bad input rejected before any state mutation
  2. Flow errors       - check-in/check-out sequencing problems
  3. Import errors     - per-row failures accumulated during bulk import

USAGE:
  Use errors.Is with the sentinels:

    if errors.Is(err, engine.ErrPeriodOverlap) {
        // prompt the user to adjust the range
    }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidClock is returned for a time that is not HH:MM:SS within 00:00:00-23:59:59.
	ErrInvalidClock = errors.New("invalid time: expected HH:MM:SS")

	// ErrReversedInterval is returned when a complete interval ends at or before it starts.
	ErrReversedInterval = errors.New("check-out must be after check-in")

	// ErrInvalidDate is returned for a date that is not a real YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid date: expected YYYY-MM-DD")

	// ErrInvalidDayType is returned for a day type outside the closed enumeration.
	ErrInvalidDayType = errors.New("unknown day type")

	// ErrInvalidDuration is returned for a day duration other than a half or full day.
	ErrInvalidDuration = errors.New("duration must be 0.5 or 1")

	// ErrPeriodReversed is returned when a period's end is not after its start.
	ErrPeriodReversed = errors.New("period end must be after period start")

	// ErrPeriodLength is returned when a period is shorter than 1 or longer than 35 days.
	ErrPeriodLength = errors.New("period must span between 1 and 35 days")

	// ErrPeriodOverlap is returned when a period shares days with another period.
	ErrPeriodOverlap = errors.New("period overlaps an existing period")

	// ErrAlreadyCheckedIn is returned on check-in while an open check-in exists.
	ErrAlreadyCheckedIn = errors.New("already checked in")

	// ErrNotCheckedIn is returned on check-out with no open check-in.
	ErrNotCheckedIn = errors.New("no open check-in")

	// ErrRecordNotFound is returned when a date has no record.
	ErrRecordNotFound = errors.New("no record for date")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PeriodOverlapError reports which existing period a candidate collides with.
type PeriodOverlapError struct {
	Candidate PayPeriod
	Existing  PayPeriod
}

func (e *PeriodOverlapError) Error() string {
	return fmt.Sprintf("period %s..%s overlaps existing period %q (%s..%s)",
		e.Candidate.Start, e.Candidate.End, e.Existing.Label, e.Existing.Start, e.Existing.End)
}

func (e *PeriodOverlapError) Unwrap() error { return ErrPeriodOverlap }

// Anomaly is a surfaced (non-fatal) record set integrity finding, e.g. a
// duplicate date. The record set stays usable; the caller decides whether to
// warn or repair.
type Anomaly struct {
	Date   Date
	Reason string
}

func (a Anomaly) String() string {
	if a.Date == "" {
		return a.Reason
	}
	return fmt.Sprintf("%s: %s", a.Date, a.Reason)
}
