package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timesheet-engine/engine"
	"github.com/warp/timesheet-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// FIRST-RUN SEEDING
// =============================================================================

func TestSeedDefaultPeriod_FreshDatabase(t *testing.T) {
	// GIVEN: A database with no periods at all
	// WHEN: Seeding
	// THEN: A starter period exists and is active, so report/export work
	//       without any setup

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, seedDefaultPeriod(ctx, store))

	periods, err := store.ListPeriods(ctx)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, "period-default", periods[0].ID)

	activeID, err := store.ActivePeriodID(ctx)
	require.NoError(t, err)
	assert.Equal(t, periods[0].ID, activeID)

	// Seeding again must not duplicate or overwrite.
	require.NoError(t, seedDefaultPeriod(ctx, store))
	periods, err = store.ListPeriods(ctx)
	require.NoError(t, err)
	assert.Len(t, periods, 1)
}

func TestSeedDefaultPeriod_ExistingPeriodsUntouched(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	own := engine.PayPeriod{ID: "p1", Label: "Mine", Start: "2026-03-01", End: "2026-03-31"}
	require.NoError(t, store.SavePeriod(ctx, own))

	require.NoError(t, seedDefaultPeriod(ctx, store))
	periods, err := store.ListPeriods(ctx)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, "p1", periods[0].ID)
}

func TestDefaultPeriod_SpansCalendarMonth(t *testing.T) {
	p := defaultPeriod("2026-03-17")
	assert.Equal(t, engine.Date("2026-03-01"), p.Start)
	assert.Equal(t, engine.Date("2026-03-31"), p.End)
	assert.Equal(t, "March 2026", p.Label)

	// Month lengths, including February, stay within the period bounds.
	feb := defaultPeriod("2026-02-03")
	assert.Equal(t, engine.Date("2026-02-28"), feb.End)
	assert.NoError(t, engine.ValidatePeriod(feb, nil))
}

// =============================================================================
// RANGE RESOLUTION
// =============================================================================

func TestResolveRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	march := engine.PayPeriod{ID: "p-march", Label: "March", Start: "2026-03-01", End: "2026-03-31"}
	april := engine.PayPeriod{ID: "p-april", Label: "April", Start: "2026-04-01", End: "2026-04-30"}
	require.NoError(t, store.SavePeriod(ctx, march))
	require.NoError(t, store.SavePeriod(ctx, april))
	require.NoError(t, store.SetActivePeriodID(ctx, "p-march"))

	// Explicit flags win over everything.
	rng, _, err := resolveRange(ctx, store, "2026-05-01", "2026-05-10", "p-april")
	require.NoError(t, err)
	assert.Equal(t, engine.DateRange{Start: "2026-05-01", End: "2026-05-10"}, rng)

	// An explicit period id beats the active period.
	rng, label, err := resolveRange(ctx, store, "", "", "p-april")
	require.NoError(t, err)
	assert.Equal(t, april.Range(), rng)
	assert.Equal(t, "April", label)

	// Default: the active period.
	rng, label, err = resolveRange(ctx, store, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, march.Range(), rng)
	assert.Equal(t, "March", label)

	// Unknown period id is an error, not a silent fallback.
	_, _, err = resolveRange(ctx, store, "", "", "p-nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p-nope")

	// Reversed explicit range rejected.
	_, _, err = resolveRange(ctx, store, "2026-05-10", "2026-05-01", "")
	assert.Error(t, err)
}
