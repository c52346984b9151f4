/*
merge.go - Record set merge for bulk import and period edits

PURPOSE:
  Reconciles an incoming batch of day records against the existing record
  set, scoped to a date range. The one hard safety invariant: records
  outside the range are never read from or written to. That is guaranteed
  structurally - the range partition happens first and the outside half is
  carried through untouched - not by runtime guards.

MODES:
  ModeMerge:   keep existing in-range records, overwrite/insert incoming
               ones by date (last write wins per date).
  ModeReplace: discard every existing in-range record, keep incoming only.

  Either way the result is outside ∪ merged-inside, sorted by date, and the
  operation is a pure function of its inputs.
*/
package engine

// Mode selects the bulk-import reconciliation strategy.
type Mode string

const (
	ModeMerge   Mode = "merge"
	ModeReplace Mode = "replace"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == ModeMerge || m == ModeReplace }

// Partition splits a record set around a date range. The first return value
// holds every record strictly outside [r.Start, r.End]; the second holds the
// records inside. Records are copied by value; neither slice aliases the
// input's backing array.
func Partition(records []DayRecord, r DateRange) (outside, inside []DayRecord) {
	for _, rec := range records {
		if r.Contains(rec.Date) {
			inside = append(inside, rec)
		} else {
			outside = append(outside, rec)
		}
	}
	return outside, inside
}

// Conflicts counts the existing records inside the range. Callers use a
// non-zero count to prompt for a mode before committing; the merge itself is
// always mode-explicit.
func Conflicts(records []DayRecord, r DateRange) int {
	_, inside := Partition(records, r)
	return len(inside)
}

// RangeOf returns the min/max date span of a batch, used to auto-scope an
// import to the incoming data. ok is false for an empty batch.
func RangeOf(records []DayRecord) (r DateRange, ok bool) {
	if len(records) == 0 {
		return DateRange{}, false
	}
	r.Start, r.End = records[0].Date, records[0].Date
	for _, rec := range records[1:] {
		if rec.Date < r.Start {
			r.Start = rec.Date
		}
		if rec.Date > r.End {
			r.End = rec.Date
		}
	}
	return r, true
}

// Merge reconciles incoming records into the record set within the given
// range and returns the new record set, sorted ascending by date. The input
// slices are not modified.
//
// Incoming records dated outside the range are dropped: the range is the
// contract for what the operation may touch, in both directions.
func Merge(records, incoming []DayRecord, r DateRange, mode Mode) []DayRecord {
	outside, inside := Partition(records, r)

	scoped := make([]DayRecord, 0, len(incoming))
	for _, rec := range incoming {
		if r.Contains(rec.Date) {
			scoped = append(scoped, rec)
		}
	}

	var merged []DayRecord
	switch mode {
	case ModeReplace:
		merged = scoped
	default: // ModeMerge
		byDate := make(map[Date]DayRecord, len(inside)+len(scoped))
		order := make([]Date, 0, len(inside)+len(scoped))
		for _, rec := range inside {
			if _, seen := byDate[rec.Date]; !seen {
				order = append(order, rec.Date)
			}
			byDate[rec.Date] = rec
		}
		for _, rec := range scoped {
			if _, seen := byDate[rec.Date]; !seen {
				order = append(order, rec.Date)
			}
			byDate[rec.Date] = rec
		}
		for _, d := range order {
			merged = append(merged, byDate[d])
		}
	}

	result := make([]DayRecord, 0, len(outside)+len(merged))
	result = append(result, outside...)
	result = append(result, merged...)
	SortRecords(result)
	return result
}
