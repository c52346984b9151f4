/*
validate.go - Structural validators for entries, periods and the record set

PURPOSE:
  Enforces the invariants the rest of the engine assumes: well-formed times,
  ordered intervals, non-overlapping bounded periods, per-day uniqueness.
  Validators reject input BEFORE any state mutates; a failed validation
  leaves the record set exactly as it was.
*/
package engine

import (
	"fmt"
	"regexp"
)

// Canonical time format: HH:MM:SS, hours 00-23, minutes/seconds 00-59.
var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`)

// ValidateClock checks the canonical HH:MM:SS form.
func ValidateClock(c Clock) error {
	if !clockPattern.MatchString(string(c)) {
		return fmt.Errorf("%w: got %q", ErrInvalidClock, c)
	}
	return nil
}

// ValidateInterval checks an interval's times and ordering. Partial
// intervals (open check-ins) are legal; ordering applies only when both
// sides are present. The fixed-width format makes the string comparison a
// correct time comparison.
func ValidateInterval(iv Interval) error {
	if iv.In != "" {
		if err := ValidateClock(iv.In); err != nil {
			return err
		}
	}
	if iv.Out != "" {
		if err := ValidateClock(iv.Out); err != nil {
			return err
		}
	}
	if iv.Complete() && iv.Out <= iv.In {
		return fmt.Errorf("%w: %s -> %s", ErrReversedInterval, iv.In, iv.Out)
	}
	return nil
}

// ValidateSchedule validates every interval in a day's schedule.
func ValidateSchedule(s Schedule) error {
	if s.Empty() {
		return nil
	}
	if err := ValidateInterval(s.Primary); err != nil {
		return err
	}
	for _, b := range s.Breaks {
		if err := ValidateInterval(b); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRecord checks one record's structural fields: a real date, a known
// day type and well-formed intervals.
func ValidateRecord(r DayRecord) error {
	if !r.Date.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidDate, r.Date)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidDayType, r.Type)
	}
	// Zero means "unset", defaulted to a full day by EffectiveDuration. Any
	// other value must hit the half/full-day branches of the overtime rules.
	if d := r.Duration; d != 0 && d != 0.5 && d != 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidDuration, d)
	}
	return ValidateSchedule(r.Schedule)
}

// =============================================================================
// PERIOD VALIDATION
// =============================================================================

// Pay periods are bounded: a period longer than this is almost certainly a
// date typo, and the reporting views assume roughly monthly spans.
const maxPeriodDays = 35

// ValidatePeriod checks a new or edited period against the existing set:
// start strictly before end, span within 1..35 days, and no date overlap
// with any other period. A period never conflicts with itself, so editing a
// period's own bounds is fine.
func ValidatePeriod(p PayPeriod, existing []PayPeriod) error {
	if !p.Start.Valid() || !p.End.Valid() {
		return fmt.Errorf("%w: %q..%q", ErrInvalidDate, p.Start, p.End)
	}
	if p.End <= p.Start {
		return ErrPeriodReversed
	}
	if days := p.Range().Days(); days < 1 || days > maxPeriodDays {
		return fmt.Errorf("%w: got %d days", ErrPeriodLength, days)
	}
	for _, other := range existing {
		if other.ID == p.ID {
			continue
		}
		if p.Overlaps(other) {
			return &PeriodOverlapError{Candidate: p, Existing: other}
		}
	}
	return nil
}

// =============================================================================
// RECORD SET INTEGRITY
// =============================================================================

// CheckRecords scans a loaded record set for integrity anomalies: records
// with missing/invalid dates or types, and duplicate dates. Anomalies are
// surfaced, not fatal - duplicate dates resolve last-write-wins downstream,
// but the user must be able to see that it happened.
func CheckRecords(records []DayRecord) []Anomaly {
	var anomalies []Anomaly
	seen := make(map[Date]bool, len(records))

	for _, rec := range records {
		if !rec.Date.Valid() {
			anomalies = append(anomalies, Anomaly{Date: rec.Date, Reason: "missing or invalid date"})
			continue
		}
		if !rec.Type.Valid() {
			anomalies = append(anomalies, Anomaly{Date: rec.Date, Reason: fmt.Sprintf("unknown day type %q", rec.Type)})
		}
		if seen[rec.Date] {
			anomalies = append(anomalies, Anomaly{Date: rec.Date, Reason: "duplicate date"})
		}
		seen[rec.Date] = true
	}
	return anomalies
}
