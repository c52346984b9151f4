/*
overtime.go - Day classification and the overtime rule table

PURPOSE:
  Given one day's worked hours and its classification, computes extra hours
  and factor-weighted extra hours. The classification flags are derived once
  by Classify; the rule table in ComputeExtra consumes only those flags, so
  no call site ever re-derives "is this a half-day special" ad hoc.

RULE TABLE (first match wins):
  1. Full-day special leave          -> no extra hours at all
  2. Half-day special leave          -> 4.5h baseline, 1.5x on positive extra
  3. Explicit double-hours flag      -> all worked hours extra at 2x
  4. Worked non-Regular special day  -> all worked hours extra at 2x
  5. Default                         -> 9h weekday / 0h weekend baseline,
                                        2x on weekends/special days else 1.5x,
                                        negative extra never scaled

  An earlier rendition applied a uniform 1.5x to all overtime; the weekend/
  holiday 2x table here is the settled rule and supersedes it.
*/
package engine

import "github.com/shopspring/decimal"

var (
	factorHalf   = decimal.RequireFromString("1.5")
	factorDouble = decimal.NewFromInt(2)

	weekdayBaseline = decimal.NewFromInt(9)
	halfDayBaseline = decimal.RequireFromString("4.5")
)

// DayClass is the set of classification flags driving the overtime rules.
type DayClass struct {
	// Weekend: the record's date falls on Saturday or Sunday.
	Weekend bool
	// SpecialDay: the day type is Holiday or Vacation.
	SpecialDay bool
	// DoubleFactor: weekend or special day; such days earn 2x on overtime.
	DoubleFactor bool
	// HalfDaySpecial: a half-day of Vacation, Sick Leave or To Be Added.
	HalfDaySpecial bool
	// FullDaySpecial: a full day of Vacation, Sick Leave or To Be Added.
	FullDaySpecial bool
}

// Classify derives the classification flags for a record. Pure: only the
// record's date weekday, type and duration matter.
func Classify(r DayRecord) DayClass {
	weekend := r.Date.IsWeekend()
	special := r.Type == TypeHoliday || r.Type == TypeVacation

	leaveType := r.Type == TypeVacation || r.Type == TypeSickLeave || r.Type == TypeToBeAdded
	dur := r.EffectiveDuration()

	return DayClass{
		Weekend:        weekend,
		SpecialDay:     special,
		DoubleFactor:   weekend || special,
		HalfDaySpecial: leaveType && dur == 0.5,
		FullDaySpecial: leaveType && dur == 1,
	}
}

// ComputeExtra applies the overtime rule table to a record's worked hours.
// It reads the raw fields only, never the derived cache.
func ComputeExtra(r DayRecord) (extra, withFactor decimal.Decimal) {
	worked := HoursWorked(r.Schedule)
	class := Classify(r)

	switch {
	case class.FullDaySpecial:
		return decimal.Zero, decimal.Zero

	case class.HalfDaySpecial:
		extra = worked.Sub(halfDayBaseline)
		if extra.IsPositive() {
			return extra, extra.Mul(factorHalf)
		}
		return extra, extra

	case r.DoubleHours:
		return worked, worked.Mul(factorDouble)

	case class.DoubleFactor && r.Type != TypeRegular:
		// Working through a vacation or holiday: every hour is extra, doubled.
		return worked, worked.Mul(factorDouble)

	default:
		baseline := weekdayBaseline
		if class.Weekend {
			baseline = decimal.Zero
		}
		extra = worked.Sub(baseline)
		if !extra.IsPositive() {
			return extra, extra
		}
		factor := factorHalf
		if class.DoubleFactor {
			factor = factorDouble
		}
		return extra, extra.Mul(factor)
	}
}

// Recompute refreshes a record's derived cache from its raw fields and
// returns the updated record. This is the single derivation path: check-out,
// manual edit, break addition, bulk import and legacy migration all funnel
// through here, within the same logical operation that changed the inputs.
func Recompute(r DayRecord) DayRecord {
	r.HoursWorked = HoursWorked(r.Schedule)
	r.ExtraHours, r.ExtraHoursWithFactor = ComputeExtra(r)
	r.HoursOutside = HoursOutsideWindow(r.Schedule)
	return r
}
