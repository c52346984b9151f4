/*
intervals.go - Interval accounting: net worked hours and break-window compliance

PURPOSE:
  Converts one day's Schedule into net worked hours and the portion of break
  time that fell outside the allowed lunch window. Both functions share the
  same window and the same break sanity checks, so a break is either "free"
  for both or "deducted and reported" for both - they can never drift apart.

THE ALLOWED BREAK WINDOW:
  A single fixed lunch window, 13:00:00-13:30:00 inclusive. A break is
  allowed iff BOTH its start and end fall inside the window; allowed breaks
  cost nothing because the daily baseline already assumes them. Everything
  else is deducted from the gross primary span and reported as time spent
  outside.

INCOMPLETE DAYS:
  Any missing check-in or check-out anywhere in the schedule yields zero
  hours. Mid check-in is a normal transient state, so "incomplete" is a
  number (0), never an error.
*/
package engine

import "github.com/shopspring/decimal"

// Allowed break window bounds, in seconds from midnight.
const (
	allowedBreakStart = 13 * 3600       // 13:00:00
	allowedBreakEnd   = 13*3600 + 30*60 // 13:30:00
	maxBreakSeconds   = 2 * 3600        // breaks longer than this are ignored
)

var secondsPerHour = decimal.NewFromInt(3600)

// hoursFromSeconds converts a seconds count to decimal hours without rounding.
func hoursFromSeconds(s int) decimal.Decimal {
	return decimal.NewFromInt(int64(s)).Div(secondsPerHour)
}

// validBreak reports whether a break interval passes the sanity checks:
// positive duration, at most two hours. Anything else is ignored rather than
// deducted, matching the historical behavior for malformed break rows.
func validBreak(b Interval) bool {
	d := b.Seconds()
	return d > 0 && d <= maxBreakSeconds
}

// allowedBreak reports whether a break lies fully inside the allowed window.
func allowedBreak(b Interval) bool {
	start, end := ClockToSeconds(b.In), ClockToSeconds(b.Out)
	return start >= allowedBreakStart && start <= allowedBreakEnd &&
		end >= allowedBreakStart && end <= allowedBreakEnd
}

// HoursWorked computes the net worked hours for one day's schedule.
//
// The primary interval is the gross work span. Breaks fully inside the
// allowed window are free; every other valid break is deducted. The result
// is clamped at zero and returned as exact decimal hours.
//
// Returns zero when the schedule is empty, when any interval is incomplete,
// or when the primary span is non-positive or longer than a day.
func HoursWorked(s Schedule) decimal.Decimal {
	if s.Empty() || !s.Complete() {
		return decimal.Zero
	}

	gross := s.Primary.Seconds()
	if gross <= 0 || gross > secondsPerDay {
		return decimal.Zero
	}

	deducted := 0
	for _, b := range s.Breaks {
		if validBreak(b) && !allowedBreak(b) {
			deducted += b.Seconds()
		}
	}

	net := gross - deducted
	if net < 0 {
		net = 0
	}
	return hoursFromSeconds(net)
}

// HoursOutsideWindow sums the durations of breaks that fall outside the
// allowed window. Purely informational (it feeds reporting and export, not
// the worked-hours deduction), but it applies the exact same validity and
// window rules as HoursWorked.
func HoursOutsideWindow(s Schedule) decimal.Decimal {
	outside := 0
	for _, b := range s.Breaks {
		if b.Complete() && validBreak(b) && !allowedBreak(b) {
			outside += b.Seconds()
		}
	}
	if outside == 0 {
		return decimal.Zero
	}
	return hoursFromSeconds(outside)
}
