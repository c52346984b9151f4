/*
punch.go - Check-in and check-out commands

PURPOSE:
  The day-to-day punches. "timesheet in" opens a work interval (or, if one
  is already complete, a break); "timesheet out" closes whatever is open.
  Both default to today and the current clock and accept overrides for
  backfilling.
*/
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/timesheet-engine/engine"
)

var (
	punchDate string
	punchTime string
)

var inCmd = &cobra.Command{
	Use:   "in",
	Short: "Check in (start work or a break)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPunch(cmd, engine.CheckIn, "Checked in")
	},
}

var outCmd = &cobra.Command{
	Use:   "out",
	Short: "Check out (end work or a break)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPunch(cmd, engine.CheckOut, "Checked out")
	},
}

func init() {
	for _, c := range []*cobra.Command{inCmd, outCmd} {
		c.Flags().StringVar(&punchDate, "date", "", "date to punch on (YYYY-MM-DD, default today)")
		c.Flags().StringVar(&punchTime, "at", "", "clock time (HH:MM:SS, default now)")
	}
}

func runPunch(cmd *cobra.Command,
	op func([]engine.DayRecord, engine.Date, engine.Clock) ([]engine.DayRecord, error), verb string) error {

	ctx := cmd.Context()
	store, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	date := engine.Date(punchDate)
	if date == "" {
		date = engine.Today()
	}
	at := engine.Clock(punchTime)
	if at == "" {
		at = engine.NowClock()
	}

	records, err := store.LoadRecords(ctx)
	if err != nil {
		return err
	}
	updated, err := op(records, date, at)
	if err != nil {
		return err
	}

	rec, _ := engine.FindRecord(updated, date)
	if err := store.SaveRecord(ctx, rec); err != nil {
		return err
	}

	fmt.Printf("%s at %s on %s\n", verb, at, date)
	if rec.Schedule.Complete() && !rec.Schedule.Empty() {
		fmt.Printf("Hours worked: %sh", rec.HoursWorked.StringFixed(2))
		if !rec.ExtraHours.IsZero() {
			fmt.Printf("  extra: %sh (with factor: %sh)",
				rec.ExtraHours.StringFixed(2), rec.ExtraHoursWithFactor.StringFixed(2))
		}
		fmt.Println()
	}
	return nil
}
