/*
Package tabular is the bulk import/export row codec.

PURPOSE:
  Converts between day records and plain tabular rows ([][]string). The
  byte-level spreadsheet encoding is deliberately out of scope: anything
  that can hand this package a header row plus data rows (a CSV file, an
  HTTP body, a converted worksheet) can import, and exports are plain rows
  the same way.

COLUMN CONTRACT:
  Headers are matched case-insensitively by substring, so "Date
  (DD/MM/YYYY)" and "date" both bind the date column. Recognized columns:
  Date, Type, Check In, Check Out, Break Out Times (break ends), Break In
  Times (break starts), Notes. Break columns hold comma-separated parallel
  lists paired by position. Dates are DD/MM/YYYY; times HH:MM:SS (HH:MM
  accepted).

ERROR POLICY:
  A bad row never aborts the batch: each failure is accumulated as a
  RowError and reported, and the caller decides whether to proceed with the
  valid remainder.
*/
package tabular

import (
	"fmt"
	"strings"
	"time"

	"github.com/warp/timesheet-engine/engine"
)

const importDateLayout = "02/01/2006"

// RowError is one failed import row, identified by its 1-based row number
// (header row included, so the first data row is row 2).
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %s", e.Row, e.Message) }

// columns holds resolved header indices; -1 means the column is absent.
type columns struct {
	date, dayType, checkIn, checkOut, breakOut, breakIn, notes int
}

func resolveColumns(header []string) columns {
	cols := columns{date: -1, dayType: -1, checkIn: -1, checkOut: -1, breakOut: -1, breakIn: -1, notes: -1}
	for i, h := range header {
		switch norm := strings.ToLower(strings.TrimSpace(h)); {
		case strings.Contains(norm, "date"):
			cols.date = pick(cols.date, i)
		case strings.Contains(norm, "type"):
			cols.dayType = pick(cols.dayType, i)
		case strings.Contains(norm, "check in"):
			cols.checkIn = pick(cols.checkIn, i)
		case strings.Contains(norm, "check out"):
			cols.checkOut = pick(cols.checkOut, i)
		case strings.Contains(norm, "break out"):
			cols.breakOut = pick(cols.breakOut, i)
		case strings.Contains(norm, "break in"):
			cols.breakIn = pick(cols.breakIn, i)
		case strings.Contains(norm, "note"):
			cols.notes = pick(cols.notes, i)
		}
	}
	return cols
}

// pick keeps the first matching column when a header repeats.
func pick(current, candidate int) int {
	if current != -1 {
		return current
	}
	return candidate
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseDate converts a DD/MM/YYYY cell to an engine Date.
func parseDate(s string) (engine.Date, error) {
	t, err := time.Parse(importDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("bad date %q: expected DD/MM/YYYY", s)
	}
	return engine.NewDate(t), nil
}

// parseClock converts a time cell to a canonical Clock. "-" and empty cells
// mean absent.
func parseClock(s string) (engine.Clock, error) {
	if s == "" || s == "-" {
		return "", nil
	}
	c := engine.Clock(s).Normalize()
	if err := engine.ValidateClock(c); err != nil {
		return "", fmt.Errorf("bad time %q: expected HH:MM:SS", s)
	}
	return c, nil
}

// parseClockList splits a comma-separated time list, keeping blanks out.
func parseClockList(s string) ([]engine.Clock, error) {
	if s == "" || s == "-" {
		return nil, nil
	}
	var out []engine.Clock
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := parseClock(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// skippable reports whether a row is a non-data row: empty date cell, or the
// totals row some exports append.
func skippable(dateCell string) bool {
	return dateCell == "" || strings.EqualFold(dateCell, "total")
}

// ParseRows converts tabular rows (header first) into day records. Derived
// fields are computed on the way in, so imported records are immediately
// consistent with the engine's derivation rules.
//
// Returns the valid records plus the per-row errors; neither aborts the
// other.
func ParseRows(rows [][]string) ([]engine.DayRecord, []RowError) {
	if len(rows) == 0 {
		return nil, []RowError{{Row: 1, Message: "no rows"}}
	}

	cols := resolveColumns(rows[0])
	if cols.date == -1 || cols.dayType == -1 {
		return nil, []RowError{{Row: 1, Message: "missing required columns: Date and Type"}}
	}

	var (
		records []engine.DayRecord
		errs    []RowError
	)

	for i, row := range rows[1:] {
		rowNum := i + 2
		dateCell := cell(row, cols.date)
		if skippable(dateCell) {
			continue
		}

		rec, err := parseRow(row, cols, dateCell)
		if err != nil {
			errs = append(errs, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		records = append(records, engine.Recompute(rec))
	}
	return records, errs
}

func parseRow(row []string, cols columns, dateCell string) (engine.DayRecord, error) {
	var rec engine.DayRecord

	date, err := parseDate(dateCell)
	if err != nil {
		return rec, err
	}

	dayType, ok := engine.ParseDayType(cell(row, cols.dayType))
	if !ok {
		return rec, fmt.Errorf("unknown day type %q", cell(row, cols.dayType))
	}

	checkIn, err := parseClock(cell(row, cols.checkIn))
	if err != nil {
		return rec, err
	}
	checkOut, err := parseClock(cell(row, cols.checkOut))
	if err != nil {
		return rec, err
	}

	// Break Out Times are break ends, Break In Times are break starts. The
	// two lists pair by position; a missing partner leaves that side open.
	breakEnds, err := parseClockList(cell(row, cols.breakOut))
	if err != nil {
		return rec, err
	}
	breakStarts, err := parseClockList(cell(row, cols.breakIn))
	if err != nil {
		return rec, err
	}

	var breaks []engine.Interval
	for i := range breakEnds {
		b := engine.Interval{Out: breakEnds[i]}
		if i < len(breakStarts) {
			b.In = breakStarts[i]
		}
		breaks = append(breaks, b)
	}

	rec = engine.DayRecord{
		Date:  date,
		Type:  dayType,
		Notes: cell(row, cols.notes),
		Schedule: engine.Schedule{
			Primary: engine.Interval{In: checkIn, Out: checkOut},
			Breaks:  breaks,
		},
	}
	if err := engine.ValidateRecord(rec); err != nil {
		return rec, err
	}
	return rec, nil
}
