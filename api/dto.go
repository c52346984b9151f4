/*
dto.go - JSON shapes for the HTTP API

PURPOSE:
  Request/response structures and their converters to and from engine
  types. Hours cross the wire as floats for the frontend's convenience;
  the exact decimals stay inside the engine and the store.
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/timesheet-engine/engine"
)

// =============================================================================
// RECORDS
// =============================================================================

type IntervalDTO struct {
	In  string `json:"in"`
	Out string `json:"out"`
}

type ScheduleDTO struct {
	Primary IntervalDTO   `json:"primary"`
	Breaks  []IntervalDTO `json:"breaks,omitempty"`
}

type RecordDTO struct {
	Date        string      `json:"date"`
	Type        string      `json:"type"`
	Schedule    ScheduleDTO `json:"schedule"`
	Duration    float64     `json:"duration,omitempty"`
	DoubleHours bool        `json:"doubleHours,omitempty"`
	Notes       string      `json:"notes,omitempty"`

	HoursWorked          float64 `json:"hoursWorked"`
	ExtraHours           float64 `json:"extraHours"`
	ExtraHoursWithFactor float64 `json:"extraHoursWithFactor"`
	HoursSpentOutside    float64 `json:"hoursSpentOutside"`
}

func toIntervalDTO(iv engine.Interval) IntervalDTO {
	return IntervalDTO{In: string(iv.In), Out: string(iv.Out)}
}

func fromIntervalDTO(dto IntervalDTO) engine.Interval {
	return engine.Interval{In: engine.Clock(dto.In), Out: engine.Clock(dto.Out)}
}

func toRecordDTO(rec engine.DayRecord) RecordDTO {
	dto := RecordDTO{
		Date:                 string(rec.Date),
		Type:                 string(rec.Type),
		Duration:             rec.Duration,
		DoubleHours:          rec.DoubleHours,
		Notes:                rec.Notes,
		HoursWorked:          rec.HoursWorked.InexactFloat64(),
		ExtraHours:           rec.ExtraHours.InexactFloat64(),
		ExtraHoursWithFactor: rec.ExtraHoursWithFactor.InexactFloat64(),
		HoursSpentOutside:    rec.HoursOutside.InexactFloat64(),
	}
	dto.Schedule.Primary = toIntervalDTO(rec.Schedule.Primary)
	for _, b := range rec.Schedule.Breaks {
		dto.Schedule.Breaks = append(dto.Schedule.Breaks, toIntervalDTO(b))
	}
	return dto
}

// fromRecordDTO converts the raw fields only. Derived values from the client
// are ignored: the engine recomputes them, which keeps hand-edited caches out
// of the record set.
func fromRecordDTO(dto RecordDTO) (engine.DayRecord, error) {
	dayType, ok := engine.ParseDayType(dto.Type)
	if !ok {
		return engine.DayRecord{}, engine.ErrInvalidDayType
	}
	rec := engine.DayRecord{
		Date:        engine.Date(dto.Date),
		Type:        dayType,
		Duration:    dto.Duration,
		DoubleHours: dto.DoubleHours,
		Notes:       dto.Notes,
		Schedule: engine.Schedule{
			Primary: fromIntervalDTO(dto.Schedule.Primary),
		},
	}
	for _, b := range dto.Schedule.Breaks {
		rec.Schedule.Breaks = append(rec.Schedule.Breaks, fromIntervalDTO(b))
	}
	return rec, nil
}

func toRecordDTOs(records []engine.DayRecord) []RecordDTO {
	dtos := make([]RecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRecordDTO(rec)
	}
	return dtos
}

// =============================================================================
// CHECK-IN / CHECK-OUT / BREAKS
// =============================================================================

type PunchRequest struct {
	// Time overrides "now", mainly for tests and backfilling. HH:MM:SS.
	Time string `json:"time,omitempty"`
	// Date overrides "today". YYYY-MM-DD.
	Date string `json:"date,omitempty"`
}

type PunchResponse struct {
	Record RecordDTO `json:"record"`
	Time   string    `json:"time"`
}

type BreakRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// =============================================================================
// PERIODS & SUMMARIES
// =============================================================================

type PeriodDTO struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Active bool   `json:"active"`
}

func toPeriodDTO(p engine.PayPeriod, activeID string) PeriodDTO {
	return PeriodDTO{
		ID: p.ID, Label: p.Label,
		Start: string(p.Start), End: string(p.End),
		Active: p.ID == activeID,
	}
}

type SummaryDTO struct {
	Period               PeriodDTO `json:"period"`
	TotalHoursWorked     float64   `json:"totalHoursWorked"`
	TotalExtraHours      float64   `json:"totalExtraHours"`
	TotalExtraWithFactor float64   `json:"totalExtraHoursWithFactor"`
	WorkDays             int       `json:"workDays"`
	VacationTaken        float64   `json:"vacationTaken"`
	VacationToAdd        float64   `json:"vacationToAdd"`
	VacationBalance      float64   `json:"vacationBalance"`
	SickUsed             float64   `json:"sickUsed"`
	SickBalance          float64   `json:"sickBalance"`
}

// =============================================================================
// IMPORT
// =============================================================================

type ImportPreviewRequest struct {
	Rows [][]string `json:"rows"`
}

type ImportPreviewResponse struct {
	Records        []RecordDTO `json:"records"`
	Errors         []RowError  `json:"errors"`
	SuggestedStart string      `json:"suggestedStart,omitempty"`
	SuggestedEnd   string      `json:"suggestedEnd,omitempty"`
	Conflicts      int         `json:"conflicts"`
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportCommitRequest struct {
	Rows  [][]string `json:"rows"`
	Start string     `json:"start"`
	End   string     `json:"end"`
	Mode  string     `json:"mode"`
	// Proceed acknowledges row errors; without it a batch containing bad
	// rows is rejected rather than silently trimmed.
	Proceed bool `json:"proceed,omitempty"`
}

type ImportCommitResponse struct {
	Imported int        `json:"imported"`
	Skipped  []RowError `json:"skipped,omitempty"`
	Total    int        `json:"totalRecords"`
}

// =============================================================================
// SETTINGS
// =============================================================================

type SettingsDTO struct {
	AnnualVacationDays float64 `json:"annualVacationDays"`
	SickDays           float64 `json:"sickDays"`
	Use12Hour          bool    `json:"use12Hour"`
	DetailedView       bool    `json:"detailedView"`
	HideSalary         bool    `json:"hideSalary"`
	Theme              string  `json:"theme"`
}

func toLeaveSettings(dto SettingsDTO) engine.LeaveSettings {
	return engine.LeaveSettings{
		AnnualVacationDays: decimal.NewFromFloat(dto.AnnualVacationDays),
		SickDays:           decimal.NewFromFloat(dto.SickDays),
	}
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
