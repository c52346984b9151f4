package tabular_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timesheet-engine/engine"
	"github.com/warp/timesheet-engine/tabular"
)

func day(date engine.Date, t engine.DayType, in, out string, breaks ...engine.Interval) engine.DayRecord {
	return engine.Recompute(engine.DayRecord{
		Date: date,
		Type: t,
		Schedule: engine.Schedule{
			Primary: engine.Interval{In: engine.Clock(in), Out: engine.Clock(out)},
			Breaks:  breaks,
		},
	})
}

// =============================================================================
// DETAILED & SIMPLE SHEETS
// =============================================================================

func TestDetailedRows(t *testing.T) {
	records := []engine.DayRecord{
		day("2026-03-04", engine.TypeRegular, "08:30:00", "18:00:00",
			engine.Interval{In: "13:00:00", Out: "13:30:00"}),
		day("2026-03-05", engine.TypeVacation, "", ""),
	}
	totals := engine.Aggregate(records, "2026-03-01", "2026-03-31")

	rows := tabular.DetailedRows(records, totals)
	require.Len(t, rows, 4) // header + 2 days + totals

	assert.Equal(t, tabular.DetailedHeader, rows[0])

	worked := rows[1]
	assert.Equal(t, "04/03/2026", worked[0])
	assert.Equal(t, "08:30:00", worked[1])
	assert.Equal(t, "9.50h", worked[3])
	assert.Equal(t, "0.50h", worked[4])
	assert.Equal(t, "0.75h", worked[5])
	assert.Equal(t, "13:30:00", worked[7]) // break end under Break Out Times
	assert.Equal(t, "13:00:00", worked[8]) // break start under Break In Times

	// Leave days show their type instead of hour figures.
	vacation := rows[2]
	assert.Equal(t, "Vacation", vacation[3])
	assert.Equal(t, "-", vacation[4])
	assert.Equal(t, "-", vacation[1]) // no check-in

	total := rows[3]
	assert.Equal(t, "Total", total[0])
	assert.Equal(t, "9.50h", total[3])
}

func TestSimpleRows(t *testing.T) {
	records := []engine.DayRecord{day("2026-03-04", engine.TypeRegular, "08:00:00", "17:00:00")}
	totals := engine.Aggregate(records, "2026-03-01", "2026-03-31")

	rows := tabular.SimpleRows(records, totals)
	require.Len(t, rows, 3)
	assert.Equal(t, tabular.SimpleHeader, rows[0])
	assert.Equal(t, []string{"04/03/2026", "08:00:00", "17:00:00", "9.00h", "Regular"}, rows[1])
	assert.Equal(t, "9.00h", rows[2][3])
}

// =============================================================================
// TEMPLATE
// =============================================================================

func TestTemplateRows_Blank(t *testing.T) {
	rows := tabular.TemplateRows(nil)
	require.Len(t, rows, 6) // header + 5 blank rows
	assert.Equal(t, tabular.TemplateHeader, rows[0])
	assert.Equal(t, "", rows[1][0])
}

func TestTemplateRows_PrefilledFromPeriod(t *testing.T) {
	period := &engine.PayPeriod{Start: "2026-03-01", End: "2026-03-03"}
	rows := tabular.TemplateRows(period)
	require.Len(t, rows, 4)
	assert.Equal(t, "01/03/2026", rows[1][0])
	assert.Equal(t, "03/03/2026", rows[3][0])
	assert.Equal(t, "", rows[1][1]) // type left for the user
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestDetailedExportReimports(t *testing.T) {
	// GIVEN: A detailed export of real records
	// WHEN: Feeding the rows straight back through the importer
	// THEN: The raw fields survive the trip

	original := []engine.DayRecord{
		day("2026-03-04", engine.TypeRegular, "08:30:00", "18:00:00",
			engine.Interval{In: "13:00:00", Out: "13:30:00"}),
		day("2026-03-05", engine.TypeSickLeave, "", ""),
	}
	totals := engine.Aggregate(original, "2026-03-01", "2026-03-31")

	reimported, errs := tabular.ParseRows(tabular.DetailedRows(original, totals))
	require.Empty(t, errs)
	require.Len(t, reimported, 2)

	assert.Equal(t, original[0].Date, reimported[0].Date)
	assert.Equal(t, original[0].Schedule, reimported[0].Schedule)
	assert.Equal(t, original[1].Type, reimported[1].Type)
}
