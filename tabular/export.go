package tabular

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/timesheet-engine/engine"
)

// =============================================================================
// EXPORT - Period data as plain tabular rows
// =============================================================================

// DetailedHeader is the full reporting column set.
var DetailedHeader = []string{
	"Date", "Check In", "Check Out", "Hours Worked", "Extra Hours",
	"Extra Hours x Factor", "Type", "Break Out Times", "Break In Times",
	"Hours Spent Outside",
}

// SimpleHeader is the compact column set.
var SimpleHeader = []string{"Date", "Check In", "Check Out", "Hours Worked", "Type"}

// TemplateHeader is the bulk-preparation sheet, annotated so the expected
// formats survive without a separate instructions tab.
var TemplateHeader = []string{
	"Date (DD/MM/YYYY)",
	"Type (Regular/Vacation/Sick Leave/Holiday/Leave/To Be Added)",
	"Check In (HH:MM:SS)",
	"Check Out (HH:MM:SS)",
	"Break Out Times",
	"Break In Times",
	"Notes",
}

func exportDate(d engine.Date) string {
	return d.Time().Format(importDateLayout)
}

func exportClock(c engine.Clock) string {
	if c == "" {
		return "-"
	}
	return string(c.Normalize())
}

func exportHours(v decimal.Decimal) string {
	return v.StringFixed(2) + "h"
}

// breakLists renders the comma-separated parallel break columns
// (ends first, then starts, matching the header order).
func breakLists(s engine.Schedule) (outTimes, inTimes string) {
	if len(s.Breaks) == 0 {
		return "-", "-"
	}
	ends := make([]string, len(s.Breaks))
	starts := make([]string, len(s.Breaks))
	for i, b := range s.Breaks {
		ends[i] = exportClock(b.Out)
		starts[i] = exportClock(b.In)
	}
	return strings.Join(ends, ", "), strings.Join(starts, ", ")
}

// DetailedRows renders the detailed export for one period's records,
// including the trailing totals row. Only Regular days print hour figures;
// leave days show their type in the hours column, as the reporting sheets
// always have.
func DetailedRows(records []engine.DayRecord, totals engine.PeriodTotals) [][]string {
	rows := [][]string{DetailedHeader}

	for _, rec := range records {
		outTimes, inTimes := breakLists(rec.Schedule)
		hours, extra, withFactor, outside := string(rec.Type), "-", "-", "-"
		if rec.Type == engine.TypeRegular {
			hours = exportHours(rec.HoursWorked)
			extra = exportHours(rec.ExtraHours)
			withFactor = exportHours(rec.ExtraHoursWithFactor)
			outside = exportHours(rec.HoursOutside)
		}
		rows = append(rows, []string{
			exportDate(rec.Date),
			exportClock(rec.Schedule.Primary.In),
			exportClock(rec.Schedule.Primary.Out),
			hours,
			extra,
			withFactor,
			string(rec.Type),
			outTimes,
			inTimes,
			outside,
		})
	}

	rows = append(rows, []string{
		"Total", "", "",
		exportHours(totals.HoursWorked),
		exportHours(totals.ExtraHours),
		exportHours(totals.ExtraHoursWithFactor),
		"", "", "", "",
	})
	return rows
}

// SimpleRows renders the compact export with its totals row.
func SimpleRows(records []engine.DayRecord, totals engine.PeriodTotals) [][]string {
	rows := [][]string{SimpleHeader}

	for _, rec := range records {
		hours := string(rec.Type)
		if rec.Type == engine.TypeRegular {
			hours = exportHours(rec.HoursWorked)
		}
		rows = append(rows, []string{
			exportDate(rec.Date),
			exportClock(rec.Schedule.Primary.In),
			exportClock(rec.Schedule.Primary.Out),
			hours,
			string(rec.Type),
		})
	}

	rows = append(rows, []string{"Total", "", "", exportHours(totals.HoursWorked), ""})
	return rows
}

// TemplateRows builds a bulk-preparation sheet. With a period it prefills
// one row per day (dates only); without one it emits a handful of blank
// rows under the annotated header.
func TemplateRows(period *engine.PayPeriod) [][]string {
	rows := [][]string{TemplateHeader}
	blank := []string{"", "", "", "", "", "", ""}

	if period == nil {
		for i := 0; i < 5; i++ {
			rows = append(rows, append([]string(nil), blank...))
		}
		return rows
	}

	for d := period.Start; d <= period.End; d = d.AddDays(1) {
		row := append([]string(nil), blank...)
		row[0] = exportDate(d)
		rows = append(rows, row)
	}
	return rows
}
