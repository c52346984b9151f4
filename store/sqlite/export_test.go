package sqlite

import (
	"context"

	"github.com/warp/timesheet-engine/engine"
)

// InsertLegacyRecordForTest writes a row the way the pre-derived-columns
// schema did, leaving the derived columns NULL. Test hook only.
func (s *Store) InsertLegacyRecordForTest(ctx context.Context, date engine.Date, scheduleJSON string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO day_records (date, day_type, duration, double_hours, notes, schedule)
		VALUES (?, 'Regular', 1, 0, '', ?)`, date, scheduleJSON)
	return err
}
