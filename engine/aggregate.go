/*
aggregate.go - Period-level totals and leave balances

PURPOSE:
  Sums per-day results across a pay period. Worked hours count Regular days
  only; extra hours count every complete record regardless of type, because
  working through a vacation day still earns overtime. Leave balances come
  from record durations measured against the configured annual allotments.

KEY INSIGHT:
  Days with an empty or incomplete schedule are skipped entirely. An open
  check-in mid-afternoon must not drag a -9h "extra" into the period total;
  it simply does not exist for aggregation until the day is complete.
*/
package engine

import "github.com/shopspring/decimal"

// PeriodTotals is the aggregator output for one pay period.
type PeriodTotals struct {
	HoursWorked          decimal.Decimal `json:"totalHoursWorked"`
	ExtraHours           decimal.Decimal `json:"totalExtraHours"`
	ExtraHoursWithFactor decimal.Decimal `json:"totalExtraHoursWithFactor"`
	WorkDays             int             `json:"workDays"`
}

// Aggregate computes totals for records with start <= date <= end.
//
// Derived values are recomputed from raw fields here rather than read from
// the cache: aggregation is the one consumer that must stay correct even if
// a caller forgot a Recompute, and the recomputation is cheap.
func Aggregate(records []DayRecord, start, end Date) PeriodTotals {
	totals := PeriodTotals{
		HoursWorked:          decimal.Zero,
		ExtraHours:           decimal.Zero,
		ExtraHoursWithFactor: decimal.Zero,
	}
	r := DateRange{Start: start, End: end}

	for _, rec := range records {
		if !r.Contains(rec.Date) {
			continue
		}
		if rec.Schedule.Empty() || !rec.Schedule.Complete() {
			continue
		}

		worked := HoursWorked(rec.Schedule)
		extra, withFactor := ComputeExtra(rec)

		// Leave days never count toward the worked-hours total, even when
		// they contribute extra hours (worked vacation, double-hours day).
		if rec.Type == TypeRegular {
			totals.HoursWorked = totals.HoursWorked.Add(worked)
			totals.WorkDays++
		}
		totals.ExtraHours = totals.ExtraHours.Add(extra)
		totals.ExtraHoursWithFactor = totals.ExtraHoursWithFactor.Add(withFactor)
	}
	return totals
}

// =============================================================================
// LEAVE BALANCES
// =============================================================================

// LeaveReport summarizes leave consumption against the configured allotments
// for one pay period.
type LeaveReport struct {
	VacationTaken   decimal.Decimal `json:"vacationTaken"`
	VacationToAdd   decimal.Decimal `json:"vacationToAdd"`
	VacationBalance decimal.Decimal `json:"vacationBalance"`
	SickUsed        decimal.Decimal `json:"sickUsed"`
	SickBalance     decimal.Decimal `json:"sickBalance"`
}

// sumDuration adds up the day durations (default 1) of period records with
// the given type.
func sumDuration(records []DayRecord, r DateRange, t DayType) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		if rec.Type == t && r.Contains(rec.Date) {
			total = total.Add(decimal.NewFromFloat(rec.EffectiveDuration()))
		}
	}
	return total
}

// ComputeLeave derives the leave balances for a period. "To Be Added" days
// flow back into the vacation balance instead of consuming it.
func ComputeLeave(settings LeaveSettings, records []DayRecord, start, end Date) LeaveReport {
	r := DateRange{Start: start, End: end}

	taken := sumDuration(records, r, TypeVacation)
	toAdd := sumDuration(records, r, TypeToBeAdded)
	sick := sumDuration(records, r, TypeSickLeave)

	return LeaveReport{
		VacationTaken:   taken,
		VacationToAdd:   toAdd,
		VacationBalance: settings.AnnualVacationDays.Sub(taken).Add(toAdd),
		SickUsed:        sick,
		SickBalance:     settings.SickDays.Sub(sick),
	}
}
