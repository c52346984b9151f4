/*
report.go - Period summary on the terminal

PURPOSE:
  Prints the aggregated totals and leave balances for the active pay period
  or for an explicit --from/--to range.
*/
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/timesheet-engine/engine"
	"github.com/warp/timesheet-engine/store/sqlite"
)

var (
	reportFrom   string
	reportTo     string
	reportPeriod string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show totals and leave balances for a period",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "range start (YYYY-MM-DD, default active period)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "range end (YYYY-MM-DD, default active period)")
	reportCmd.Flags().StringVar(&reportPeriod, "period", "", "period id (default active period)")
}

// resolveRange picks an explicit --from/--to range first, then an explicit
// period id, then the active period's bounds.
func resolveRange(ctx context.Context, store *sqlite.Store, from, to, periodID string) (engine.DateRange, string, error) {
	if from != "" && to != "" {
		r := engine.DateRange{Start: engine.Date(from), End: engine.Date(to)}
		if !r.Start.Valid() || !r.End.Valid() || r.End < r.Start {
			return engine.DateRange{}, "", fmt.Errorf("invalid range %s..%s", from, to)
		}
		return r, fmt.Sprintf("%s - %s", from, to), nil
	}

	period, err := lookupPeriod(ctx, store, periodID)
	if err != nil {
		return engine.DateRange{}, "", err
	}
	if period == nil {
		return engine.DateRange{}, "", errors.New("no active period; pass --period or --from/--to")
	}
	return period.Range(), period.Label, nil
}

// lookupPeriod fetches a period by id, or the active one when id is empty.
func lookupPeriod(ctx context.Context, store *sqlite.Store, id string) (*engine.PayPeriod, error) {
	if id == "" {
		return activePeriod(ctx, store)
	}
	period, err := store.GetPeriod(ctx, id)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, fmt.Errorf("no period with id %q", id)
	}
	return period, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	rng, label, err := resolveRange(ctx, store, reportFrom, reportTo, reportPeriod)
	if err != nil {
		return err
	}

	records, err := store.LoadRecords(ctx)
	if err != nil {
		return err
	}
	settings, err := store.LeaveSettings(ctx)
	if err != nil {
		return err
	}

	totals := engine.Aggregate(records, rng.Start, rng.End)
	leave := engine.ComputeLeave(settings, records, rng.Start, rng.End)

	fmt.Printf("Period: %s\n\n", label)
	fmt.Printf("Hours worked:            %sh over %d work days\n", totals.HoursWorked.StringFixed(2), totals.WorkDays)
	fmt.Printf("Extra hours:             %sh\n", totals.ExtraHours.StringFixed(2))
	fmt.Printf("Extra hours with factor: %sh\n\n", totals.ExtraHoursWithFactor.StringFixed(2))
	fmt.Printf("Vacation taken:   %s days", leave.VacationTaken.StringFixed(1))
	if !leave.VacationToAdd.IsZero() {
		fmt.Printf(" (+%s to be added)", leave.VacationToAdd.StringFixed(1))
	}
	fmt.Println()
	fmt.Printf("Vacation balance: %s days\n", leave.VacationBalance.StringFixed(1))
	fmt.Printf("Sick days used:   %s\n", leave.SickUsed.StringFixed(1))
	fmt.Printf("Sick balance:     %s\n", leave.SickBalance.StringFixed(1))
	return nil
}
