/*
Package engine implements the timesheet time-accounting core.

PURPOSE:
  This package contains the pure derivation rules that turn raw
  check-in/check-out data into worked hours, overtime, break-window
  compliance, and period-level aggregates. Nothing in here touches
  persistence, HTTP, or any ambient state: every function receives the
  record set, settings, and period bounds it needs as explicit arguments.

KEY CONCEPTS IN THIS FILE (types.go):
  - Date:      A calendar date as a fixed-width "YYYY-MM-DD" string
  - Clock:     A wall-clock time-of-day as "HH:MM:SS" (no timezone)
  - Interval:  A check-in/check-out pair; an open check-in has no Out
  - Schedule:  One day's time data: the primary work span plus breaks
  - DayType:   Closed enumeration of day classifications
  - DayRecord: One calendar day: raw inputs plus cached derived fields

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for all hour/day arithmetic, no float drift
  2. Derived fields are a cache, never a source of truth; Recompute (see
     overtime.go) is the single function allowed to fill them
  3. The primary-span/breaks split is a tagged structure, not a positional
     convention on a flat list

SEE ALSO:
  - clock.go:     Clock <-> seconds arithmetic
  - intervals.go: Net worked hours and break-window accounting
  - overtime.go:  Day classification and the overtime rule table
  - aggregate.go: Period totals and leave balances
  - merge.go:     Record set merge/replace for bulk import
  - validate.go:  Structural validators
*/
package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE - Calendar date, the unique key of a day record
// =============================================================================

// Date is a calendar date in "YYYY-MM-DD" form. The fixed-width zero-padded
// encoding makes lexicographic order equal chronological order, so Dates
// compare directly with < and >.
type Date string

const dateLayout = "2006-01-02"

// NewDate builds a Date from a time.Time, dropping the time-of-day part.
func NewDate(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// Today returns the current local date.
func Today() Date {
	return NewDate(time.Now())
}

// Time parses the date at midnight UTC. Returns the zero time on malformed input.
func (d Date) Time() time.Time {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Valid reports whether d parses as a real calendar date.
func (d Date) Valid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) Before(other Date) bool { return d < other }
func (d Date) After(other Date) bool  { return d > other }

// AddDays returns the date n days later (n may be negative).
func (d Date) AddDays(n int) Date {
	return NewDate(d.Time().AddDate(0, 0, n))
}

// DateRange is an inclusive [Start, End] span of dates.
type DateRange struct {
	Start Date
	End   Date
}

// Contains reports whether d falls within the range, inclusive.
func (r DateRange) Contains(d Date) bool {
	return d >= r.Start && d <= r.End
}

// Days returns the number of calendar days in the range, inclusive.
func (r DateRange) Days() int {
	if r.End < r.Start {
		return 0
	}
	return int(r.End.Time().Sub(r.Start.Time()).Hours()/24) + 1
}

// =============================================================================
// INTERVAL & SCHEDULE - One day's raw time data
// =============================================================================

// Interval is a single check-in/check-out pair. An empty Clock means the
// side is absent; an interval with In set and Out empty is an open
// (in-progress) check-in.
type Interval struct {
	In  Clock `json:"in"`
	Out Clock `json:"out"`
}

// Complete reports whether both sides of the interval are present.
func (iv Interval) Complete() bool { return iv.In != "" && iv.Out != "" }

// Empty reports whether neither side is present.
func (iv Interval) Empty() bool { return iv.In == "" && iv.Out == "" }

// Seconds returns Out-In in seconds. Only meaningful for complete intervals.
func (iv Interval) Seconds() int {
	return ClockToSeconds(iv.Out) - ClockToSeconds(iv.In)
}

// Schedule is one day's time data: the primary work span plus any number of
// breaks taken inside it. This replaces the historical "first list element is
// work, the rest are breaks" positional convention with an explicit structure.
type Schedule struct {
	Primary Interval   `json:"primary"`
	Breaks  []Interval `json:"breaks,omitempty"`
}

// Empty reports whether the schedule carries no time data at all.
// Non-working day types (vacation, holiday, ...) have empty schedules.
func (s Schedule) Empty() bool {
	return s.Primary.Empty() && len(s.Breaks) == 0
}

// Complete reports whether every interval in the schedule has both sides.
// An open check-in, or a break missing its end, makes the whole day
// incomplete; incomplete days are never partially credited.
func (s Schedule) Complete() bool {
	if !s.Primary.Complete() {
		return false
	}
	for _, b := range s.Breaks {
		if !b.Complete() {
			return false
		}
	}
	return true
}

// Open reports whether the last interval of the schedule is an open check-in.
func (s Schedule) Open() bool {
	if n := len(s.Breaks); n > 0 {
		last := s.Breaks[n-1]
		return last.In != "" && last.Out == ""
	}
	return s.Primary.In != "" && s.Primary.Out == ""
}

// Flatten returns the schedule as an ordered interval list (primary first).
// Used by the tabular codec, which speaks the flat wire shape.
func (s Schedule) Flatten() []Interval {
	if s.Empty() {
		return nil
	}
	out := make([]Interval, 0, 1+len(s.Breaks))
	out = append(out, s.Primary)
	out = append(out, s.Breaks...)
	return out
}

// ScheduleFromIntervals rebuilds a Schedule from a flat ordered list.
func ScheduleFromIntervals(ivs []Interval) Schedule {
	if len(ivs) == 0 {
		return Schedule{}
	}
	s := Schedule{Primary: ivs[0]}
	if len(ivs) > 1 {
		s.Breaks = append(s.Breaks, ivs[1:]...)
	}
	return s
}

// =============================================================================
// DAY TYPE - Closed enumeration of day classifications
// =============================================================================

type DayType string

const (
	TypeRegular   DayType = "Regular"
	TypeVacation  DayType = "Vacation"
	TypeSickLeave DayType = "Sick Leave"
	TypeHoliday   DayType = "Holiday"
	TypeLeave     DayType = "Leave"
	TypeToBeAdded DayType = "To Be Added"
)

// DayTypes lists every valid day type.
var DayTypes = []DayType{
	TypeRegular, TypeVacation, TypeSickLeave, TypeHoliday, TypeLeave, TypeToBeAdded,
}

// ParseDayType resolves a free-form string (e.g. from an import cell) to a
// member of the closed enumeration. Matching is case-insensitive and tolerant
// of missing spaces ("sickleave"). Empty input defaults to Regular.
func ParseDayType(s string) (DayType, bool) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	if norm == "" {
		return TypeRegular, true
	}
	for _, dt := range DayTypes {
		if norm == strings.ReplaceAll(strings.ToLower(string(dt)), " ", "") {
			return dt, true
		}
	}
	return "", false
}

// Valid reports whether t is a member of the closed enumeration.
func (t DayType) Valid() bool {
	for _, dt := range DayTypes {
		if t == dt {
			return true
		}
	}
	return false
}

// =============================================================================
// DAY RECORD - One calendar day: raw inputs + cached derived fields
// =============================================================================

// DayRecord represents exactly one calendar date in the record set.
//
// The derived fields (HoursWorked and friends) are a cache of pure functions
// of the raw fields. They exist so that period aggregation and export never
// re-derive per-day values, but they must be refreshed through Recompute by
// every path that mutates Schedule, Type, Duration or DoubleHours. A stale
// cache is a correctness bug, not an acceptable lag.
type DayRecord struct {
	Date     Date     `json:"date"`
	Type     DayType  `json:"type"`
	Schedule Schedule `json:"schedule"`

	// Duration is 0.5 for a half day or 1 for a full day. Meaningful only
	// for non-Regular types; zero is treated as 1 everywhere.
	Duration float64 `json:"duration,omitempty"`

	// DoubleHours marks a day whose every worked hour counts double,
	// regardless of weekday (e.g. an agreed emergency shift).
	DoubleHours bool   `json:"doubleHours,omitempty"`
	Notes       string `json:"notes,omitempty"`

	// Derived cache. Never hand-edited; see Recompute.
	HoursWorked          decimal.Decimal `json:"hoursWorked"`
	ExtraHours           decimal.Decimal `json:"extraHours"`
	ExtraHoursWithFactor decimal.Decimal `json:"extraHoursWithFactor"`
	HoursOutside         decimal.Decimal `json:"hoursSpentOutside"`
}

// EffectiveDuration returns Duration with the historical "absent means full
// day" default applied.
func (r DayRecord) EffectiveDuration() float64 {
	if r.Duration == 0 {
		return 1
	}
	return r.Duration
}

// SortRecords orders records ascending by date, in place.
func SortRecords(records []DayRecord) {
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })
}

// =============================================================================
// PAY PERIOD & LEAVE SETTINGS
// =============================================================================

// PayPeriod is a user-defined reporting range. Periods should be contiguous
// and non-overlapping; that is enforced by ValidatePeriod, not by the type.
type PayPeriod struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Start Date   `json:"start"`
	End   Date   `json:"end"`
}

// Range returns the period's inclusive date range.
func (p PayPeriod) Range() DateRange { return DateRange{Start: p.Start, End: p.End} }

// Overlaps reports whether two periods share at least one day.
func (p PayPeriod) Overlaps(other PayPeriod) bool {
	return p.Start <= other.End && p.End >= other.Start
}

// LeaveSettings holds the policy constants for leave accounting. These are
// configuration, never derived from records.
type LeaveSettings struct {
	AnnualVacationDays decimal.Decimal `json:"annualVacationDays"`
	SickDays           decimal.Decimal `json:"sickDays"`
}

// DefaultLeaveSettings mirrors the allotments the app has always shipped with.
func DefaultLeaveSettings() LeaveSettings {
	return LeaveSettings{
		AnnualVacationDays: decimal.NewFromInt(10),
		SickDays:           decimal.NewFromInt(7),
	}
}
