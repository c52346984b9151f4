/*
handlers.go - HTTP handlers for the timesheet API

PURPOSE:
  Exposes the time-accounting engine over a local REST API for the
  single-user frontend. Handlers do HTTP parsing and JSON only; every
  calculation and every record set mutation is delegated to the engine,
  and every mutation persists synchronously before the response is
  written, so a follow-up read can never observe a stale record set.

ERROR HANDLING:
  Errors are JSON {error, details} with:
  - 400: malformed input, validation failures
  - 404: unknown date or period
  - 409: flow conflicts (double check-in, period overlap)
  - 500: storage failures

SECURITY NOTE:
  No authentication; the server binds for one local user. Do not expose it
  beyond the loopback interface.
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/timesheet-engine/engine"
	"github.com/warp/timesheet-engine/store/sqlite"
	"github.com/warp/timesheet-engine/tabular"
)

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	Store *sqlite.Store
}

// NewHandler creates a handler backed by the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// RECORDS
// =============================================================================

// ListRecords returns the record set, optionally filtered to ?from=..&to=..
// (inclusive, YYYY-MM-DD). Integrity anomalies ride along so the frontend
// can surface them without a second call.
// GET /api/records
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.LoadRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	from := engine.Date(r.URL.Query().Get("from"))
	to := engine.Date(r.URL.Query().Get("to"))
	if from != "" && to != "" {
		_, records = engine.Partition(records, engine.DateRange{Start: from, End: to})
	}

	anomalies := engine.CheckRecords(records)
	warnings := make([]string, len(anomalies))
	for i, a := range anomalies {
		warnings[i] = a.String()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records":   toRecordDTOs(records),
		"anomalies": warnings,
	})
}

// PutRecord upserts one day record from a manual edit. Derived fields in the
// payload are ignored and recomputed.
// PUT /api/records/{date}
func (h *Handler) PutRecord(w http.ResponseWriter, r *http.Request) {
	var dto RecordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	dto.Date = chi.URLParam(r, "date")

	rec, err := fromRecordDTO(dto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid record", err)
		return
	}

	records, err := h.Store.LoadRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	updated, err := engine.PutRecord(records, rec)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid record", err)
		return
	}

	saved, _ := engine.FindRecord(updated, rec.Date)
	if err := h.Store.SaveRecord(r.Context(), saved); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save record", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(saved))
}

// DeleteRecord removes one day record.
// DELETE /api/records/{date}
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	date := engine.Date(chi.URLParam(r, "date"))

	records, err := h.Store.LoadRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}
	if _, err := engine.DeleteRecord(records, date); err != nil {
		writeError(w, http.StatusNotFound, "No record for date", err)
		return
	}
	if err := h.Store.DeleteRecord(r.Context(), date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearRecords wipes the whole record set. Requires ?confirm=true: this is
// the irreversible "clear all data" action, never triggered implicitly.
// DELETE /api/records
func (h *Handler) ClearRecords(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "Destructive operation requires confirm=true", nil)
		return
	}
	if err := h.Store.ClearRecords(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear records", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CHECK-IN / CHECK-OUT / BREAKS
// =============================================================================

func punchInputs(req PunchRequest) (engine.Date, engine.Clock) {
	date := engine.Date(req.Date)
	if date == "" {
		date = engine.Today()
	}
	at := engine.Clock(req.Time)
	if at == "" {
		at = engine.NowClock()
	}
	return date, at
}

// CheckIn opens a work or break interval for today (or the given date).
// POST /api/checkin
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, engine.CheckIn)
}

// CheckOut closes the open interval and recomputes the day.
// POST /api/checkout
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.punch(w, r, engine.CheckOut)
}

func (h *Handler) punch(w http.ResponseWriter, r *http.Request,
	op func([]engine.DayRecord, engine.Date, engine.Clock) ([]engine.DayRecord, error)) {

	var req PunchRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}
	date, at := punchInputs(req)

	records, err := h.Store.LoadRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	updated, err := op(records, date, at)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, engine.ErrAlreadyCheckedIn) || errors.Is(err, engine.ErrNotCheckedIn) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error(), nil)
		return
	}

	rec, _ := engine.FindRecord(updated, date)
	if err := h.Store.SaveRecord(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save record", err)
		return
	}
	writeJSON(w, http.StatusOK, PunchResponse{Record: toRecordDTO(rec), Time: string(at)})
}

// AddBreak appends a complete break to an existing day.
// POST /api/records/{date}/breaks
func (h *Handler) AddBreak(w http.ResponseWriter, r *http.Request) {
	date := engine.Date(chi.URLParam(r, "date"))

	var req BreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	records, err := h.Store.LoadRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	updated, err := engine.AddBreak(records, date,
		engine.Interval{In: engine.Clock(req.Start), Out: engine.Clock(req.End)})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, engine.ErrRecordNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, "Failed to add break", err)
		return
	}

	rec, _ := engine.FindRecord(updated, date)
	if err := h.Store.SaveRecord(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save record", err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

// =============================================================================
// PERIODS
// =============================================================================

// ListPeriods returns all pay periods with the active one flagged.
// GET /api/periods
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.Store.ListPeriods(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list periods", err)
		return
	}
	activeID, err := h.Store.ActivePeriodID(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read active period", err)
		return
	}

	dtos := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = toPeriodDTO(p, activeID)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePeriod validates and stores a new pay period.
// POST /api/periods
func (h *Handler) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	h.upsertPeriod(w, r, "")
}

// UpdatePeriod edits an existing period's bounds or label.
// PUT /api/periods/{id}
func (h *Handler) UpdatePeriod(w http.ResponseWriter, r *http.Request) {
	h.upsertPeriod(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) upsertPeriod(w http.ResponseWriter, r *http.Request, id string) {
	var dto PeriodDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	period := engine.PayPeriod{
		ID:    id,
		Label: dto.Label,
		Start: engine.Date(dto.Start),
		End:   engine.Date(dto.End),
	}
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	if period.Label == "" {
		period.Label = fmt.Sprintf("%s - %s", period.Start, period.End)
	}

	existing, err := h.Store.ListPeriods(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list periods", err)
		return
	}
	if err := engine.ValidatePeriod(period, existing); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, engine.ErrPeriodOverlap) {
			status = http.StatusConflict
		}
		writeError(w, status, "Invalid period", err)
		return
	}

	if err := h.Store.SavePeriod(r.Context(), period); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save period", err)
		return
	}

	activeID, _ := h.Store.ActivePeriodID(r.Context())
	writeJSON(w, http.StatusCreated, toPeriodDTO(period, activeID))
}

// DeletePeriod removes a period definition; its records are untouched.
// DELETE /api/periods/{id}
func (h *Handler) DeletePeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	periods, err := h.Store.ListPeriods(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list periods", err)
		return
	}
	if len(periods) <= 1 {
		writeError(w, http.StatusConflict, "Cannot delete the last period", nil)
		return
	}

	if err := h.Store.DeletePeriod(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete period", err)
		return
	}

	// Reassign the active pointer if it referenced the deleted period.
	if activeID, _ := h.Store.ActivePeriodID(r.Context()); activeID == id {
		for _, p := range periods {
			if p.ID != id {
				_ = h.Store.SetActivePeriodID(r.Context(), p.ID)
				break
			}
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActivatePeriod selects the period used by default views and exports.
// POST /api/periods/{id}/activate
func (h *Handler) ActivatePeriod(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	period, err := h.getPeriod(w, r, id)
	if period == nil || err != nil {
		return
	}
	if err := h.Store.SetActivePeriodID(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to activate period", err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(*period, id))
}

// PeriodSummary returns the aggregated totals and leave balances for one period.
// GET /api/periods/{id}/summary
func (h *Handler) PeriodSummary(w http.ResponseWriter, r *http.Request) {
	period, err := h.getPeriod(w, r, chi.URLParam(r, "id"))
	if period == nil || err != nil {
		return
	}

	records, err := h.Store.LoadRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}
	settings, err := h.Store.LeaveSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	totals := engine.Aggregate(records, period.Start, period.End)
	leave := engine.ComputeLeave(settings, records, period.Start, period.End)
	activeID, _ := h.Store.ActivePeriodID(r.Context())

	writeJSON(w, http.StatusOK, SummaryDTO{
		Period:               toPeriodDTO(*period, activeID),
		TotalHoursWorked:     totals.HoursWorked.InexactFloat64(),
		TotalExtraHours:      totals.ExtraHours.InexactFloat64(),
		TotalExtraWithFactor: totals.ExtraHoursWithFactor.InexactFloat64(),
		WorkDays:             totals.WorkDays,
		VacationTaken:        leave.VacationTaken.InexactFloat64(),
		VacationToAdd:        leave.VacationToAdd.InexactFloat64(),
		VacationBalance:      leave.VacationBalance.InexactFloat64(),
		SickUsed:             leave.SickUsed.InexactFloat64(),
		SickBalance:          leave.SickBalance.InexactFloat64(),
	})
}

// ClearPeriodRecords removes every record inside a period's range. Requires
// ?confirm=true. Records outside the range are untouched by construction.
// DELETE /api/periods/{id}/records
func (h *Handler) ClearPeriodRecords(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "Destructive operation requires confirm=true", nil)
		return
	}

	period, err := h.getPeriod(w, r, chi.URLParam(r, "id"))
	if period == nil || err != nil {
		return
	}

	records, err := h.Store.LoadRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	remaining := engine.ClearRange(records, period.Range())
	if err := h.Store.ReplaceRecords(r.Context(), remaining); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear period records", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getPeriod(w http.ResponseWriter, r *http.Request, id string) (*engine.PayPeriod, error) {
	period, err := h.Store.GetPeriod(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get period", err)
		return nil, err
	}
	if period == nil {
		writeError(w, http.StatusNotFound, "Period not found", nil)
		return nil, nil
	}
	return period, nil
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportPreview parses tabular rows and reports what an import would do:
// the parsed records, the per-row errors, the auto-suggested range, and how
// many existing records the range collides with.
// POST /api/import/preview
func (h *Handler) ImportPreview(w http.ResponseWriter, r *http.Request) {
	var req ImportPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	incoming, rowErrs := tabular.ParseRows(req.Rows)

	resp := ImportPreviewResponse{
		Records: toRecordDTOs(incoming),
		Errors:  toRowErrors(rowErrs),
	}

	if rng, ok := engine.RangeOf(incoming); ok {
		resp.SuggestedStart = string(rng.Start)
		resp.SuggestedEnd = string(rng.End)

		records, err := h.Store.LoadRecords(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load records", err)
			return
		}
		resp.Conflicts = engine.Conflicts(records, rng)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ImportCommit reconciles parsed rows into the record set under the given
// range and mode. Batches with row errors are rejected unless the caller
// explicitly set proceed, so bad rows are never dropped silently.
// POST /api/import
func (h *Handler) ImportCommit(w http.ResponseWriter, r *http.Request) {
	var req ImportCommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	mode := engine.Mode(req.Mode)
	if !mode.Valid() {
		writeError(w, http.StatusBadRequest, "Mode must be \"merge\" or \"replace\"", nil)
		return
	}

	incoming, rowErrs := tabular.ParseRows(req.Rows)
	if len(rowErrs) > 0 && !req.Proceed {
		writeJSON(w, http.StatusUnprocessableEntity, ImportPreviewResponse{
			Records: toRecordDTOs(incoming),
			Errors:  toRowErrors(rowErrs),
		})
		return
	}
	if len(incoming) == 0 {
		writeError(w, http.StatusBadRequest, "No valid rows to import", nil)
		return
	}

	rng := engine.DateRange{Start: engine.Date(req.Start), End: engine.Date(req.End)}
	if rng.Start == "" || rng.End == "" {
		rng, _ = engine.RangeOf(incoming)
	}
	if !rng.Start.Valid() || !rng.End.Valid() || rng.End < rng.Start {
		writeError(w, http.StatusBadRequest, "Invalid import range", nil)
		return
	}

	records, err := h.Store.LoadRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	merged := engine.Merge(records, incoming, rng, mode)
	if err := h.Store.ReplaceRecords(r.Context(), merged); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save records", err)
		return
	}

	writeJSON(w, http.StatusOK, ImportCommitResponse{
		Imported: len(incoming),
		Skipped:  toRowErrors(rowErrs),
		Total:    len(merged),
	})
}

func toRowErrors(errs []tabular.RowError) []RowError {
	out := make([]RowError, len(errs))
	for i, e := range errs {
		out[i] = RowError{Row: e.Row, Message: e.Message}
	}
	return out
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportPeriod streams a period's records as CSV, detailed by default or
// simple with ?view=simple.
// GET /api/periods/{id}/export
func (h *Handler) ExportPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.getPeriod(w, r, chi.URLParam(r, "id"))
	if period == nil || err != nil {
		return
	}

	records, err := h.Store.LoadRecords(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	_, inPeriod := engine.Partition(records, period.Range())
	totals := engine.Aggregate(records, period.Start, period.End)

	var rows [][]string
	if r.URL.Query().Get("view") == "simple" {
		rows = tabular.SimpleRows(inPeriod, totals)
	} else {
		rows = tabular.DetailedRows(inPeriod, totals)
	}
	writeCSV(w, fmt.Sprintf("timesheet-%s.csv", period.ID), rows)
}

// ExportTemplate streams a bulk-preparation sheet, blank or prefilled with
// the dates of ?period=<id>.
// GET /api/export/template
func (h *Handler) ExportTemplate(w http.ResponseWriter, r *http.Request) {
	var period *engine.PayPeriod
	if id := r.URL.Query().Get("period"); id != "" {
		var err error
		period, err = h.getPeriod(w, r, id)
		if period == nil || err != nil {
			return
		}
	}
	writeCSV(w, "timesheet-template.csv", tabular.TemplateRows(period))
}

// =============================================================================
// SETTINGS
// =============================================================================

// GetSettings returns the leave allotments and display preferences.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	leave, err := h.Store.LeaveSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	prefs, err := h.Store.LoadPreferences(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load preferences", err)
		return
	}

	writeJSON(w, http.StatusOK, SettingsDTO{
		AnnualVacationDays: leave.AnnualVacationDays.InexactFloat64(),
		SickDays:           leave.SickDays.InexactFloat64(),
		Use12Hour:          prefs.Use12Hour,
		DetailedView:       prefs.DetailedView,
		HideSalary:         prefs.HideSalary,
		Theme:              prefs.Theme,
	})
}

// PutSettings replaces the leave allotments and display preferences.
// PUT /api/settings
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.AnnualVacationDays < 0 || dto.SickDays < 0 {
		writeError(w, http.StatusBadRequest, "Leave allotments must not be negative", nil)
		return
	}

	if err := h.Store.SaveLeaveSettings(r.Context(), toLeaveSettings(dto)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	if err := h.Store.SavePreferences(r.Context(), sqlite.Preferences{
		Use12Hour:    dto.Use12Hour,
		DetailedView: dto.DetailedView,
		HideSalary:   dto.HideSalary,
		Theme:        dto.Theme,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save preferences", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeCSV(w http.ResponseWriter, filename string, rows [][]string) {
	var buf bytes.Buffer
	if err := tabular.WriteCSV(&buf, rows); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode csv", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
