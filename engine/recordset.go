/*
recordset.go - Mutation helpers over the whole record set

PURPOSE:
  The check-in/check-out/break/edit flows, expressed as pure functions from
  (record set, inputs) to a new record set. Handlers and CLI commands own
  the single in-memory record set and pass it through here; every mutation
  path lands in Recompute before the new set is returned, so no caller can
  observe a record whose derived cache lags its raw fields.
*/
package engine

// FindRecord returns the record for a date, if present.
func FindRecord(records []DayRecord, d Date) (DayRecord, bool) {
	for _, rec := range records {
		if rec.Date == d {
			return rec, true
		}
	}
	return DayRecord{}, false
}

// upsert replaces the record for rec.Date, or appends it, keeping date order.
func upsert(records []DayRecord, rec DayRecord) []DayRecord {
	out := make([]DayRecord, 0, len(records)+1)
	replaced := false
	for _, existing := range records {
		if existing.Date == rec.Date {
			out = append(out, rec)
			replaced = true
		} else {
			out = append(out, existing)
		}
	}
	if !replaced {
		out = append(out, rec)
	}
	SortRecords(out)
	return out
}

// CheckIn opens a new interval at the given date and time. On a fresh date
// it creates a Regular record with the primary span open; on an existing
// date the new interval becomes a break (the primary span is already spoken
// for). Fails with ErrAlreadyCheckedIn while an interval is open.
func CheckIn(records []DayRecord, d Date, at Clock) ([]DayRecord, error) {
	at = at.Normalize()
	if err := ValidateClock(at); err != nil {
		return nil, err
	}

	rec, found := FindRecord(records, d)
	if !found {
		rec = DayRecord{
			Date:     d,
			Type:     TypeRegular,
			Schedule: Schedule{Primary: Interval{In: at}},
		}
		return upsert(records, Recompute(rec)), nil
	}

	if rec.Schedule.Open() {
		return nil, ErrAlreadyCheckedIn
	}
	if rec.Schedule.Empty() {
		rec.Schedule.Primary = Interval{In: at}
	} else {
		rec.Schedule.Breaks = append(rec.Schedule.Breaks, Interval{In: at})
	}
	// No recompute payoff until the interval closes, but funnel through
	// Recompute anyway so the cache reflects the now-incomplete schedule.
	return upsert(records, Recompute(rec)), nil
}

// CheckOut closes the open interval on the given date and refreshes the
// derived fields. Fails with ErrNotCheckedIn when nothing is open.
func CheckOut(records []DayRecord, d Date, at Clock) ([]DayRecord, error) {
	at = at.Normalize()
	if err := ValidateClock(at); err != nil {
		return nil, err
	}

	rec, found := FindRecord(records, d)
	if !found || !rec.Schedule.Open() {
		return nil, ErrNotCheckedIn
	}

	if n := len(rec.Schedule.Breaks); n > 0 && !rec.Schedule.Breaks[n-1].Complete() {
		closed := rec.Schedule.Breaks[n-1]
		closed.Out = at
		if err := ValidateInterval(closed); err != nil {
			return nil, err
		}
		rec.Schedule.Breaks[n-1] = closed
	} else {
		closed := rec.Schedule.Primary
		closed.Out = at
		if err := ValidateInterval(closed); err != nil {
			return nil, err
		}
		rec.Schedule.Primary = closed
	}
	return upsert(records, Recompute(rec)), nil
}

// AddBreak appends a complete break interval to an existing day.
func AddBreak(records []DayRecord, d Date, b Interval) ([]DayRecord, error) {
	b.In, b.Out = b.In.Normalize(), b.Out.Normalize()
	if err := ValidateInterval(b); err != nil {
		return nil, err
	}
	if !b.Complete() {
		return nil, ErrReversedInterval
	}

	rec, found := FindRecord(records, d)
	if !found {
		return nil, ErrRecordNotFound
	}
	rec.Schedule.Breaks = append(rec.Schedule.Breaks, b)
	return upsert(records, Recompute(rec)), nil
}

// PutRecord validates and upserts a manually edited record, recomputing its
// derived fields. The input set is untouched on validation failure.
func PutRecord(records []DayRecord, rec DayRecord) ([]DayRecord, error) {
	rec.Schedule.Primary.In = rec.Schedule.Primary.In.Normalize()
	rec.Schedule.Primary.Out = rec.Schedule.Primary.Out.Normalize()
	for i := range rec.Schedule.Breaks {
		rec.Schedule.Breaks[i].In = rec.Schedule.Breaks[i].In.Normalize()
		rec.Schedule.Breaks[i].Out = rec.Schedule.Breaks[i].Out.Normalize()
	}
	if err := ValidateRecord(rec); err != nil {
		return nil, err
	}
	return upsert(records, Recompute(rec)), nil
}

// DeleteRecord removes the record for a date.
func DeleteRecord(records []DayRecord, d Date) ([]DayRecord, error) {
	out := make([]DayRecord, 0, len(records))
	found := false
	for _, rec := range records {
		if rec.Date == d {
			found = true
			continue
		}
		out = append(out, rec)
	}
	if !found {
		return nil, ErrRecordNotFound
	}
	return out, nil
}

// ClearRange removes every record inside the range, keeping the rest intact.
// This is the period-scoped clear behind "delete this period's data".
func ClearRange(records []DayRecord, r DateRange) []DayRecord {
	outside, _ := Partition(records, r)
	return outside
}

// MigrateDerived fills the derived cache on legacy records that predate it.
// Detection is by field absence (the filled flag comes from the store layer),
// not by a schema version number. Already-migrated records pass through
// unchanged so the one-time pass stays idempotent.
func MigrateDerived(records []DayRecord, needsFill func(DayRecord) bool) []DayRecord {
	out := make([]DayRecord, len(records))
	for i, rec := range records {
		if needsFill(rec) {
			rec = Recompute(rec)
		}
		out[i] = rec
	}
	return out
}
