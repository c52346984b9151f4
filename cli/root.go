/*
root.go - CLI entry point and shared wiring

PURPOSE:
  Defines the root cobra command and the helpers every subcommand shares:
  opening the store, resolving the database path, and seeding leave
  allotments from the config file on first use.
*/
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/timesheet-engine/config"
	"github.com/warp/timesheet-engine/engine"
	"github.com/warp/timesheet-engine/store/sqlite"
)

var (
	dbFlag     string
	configFlag string
)

var rootCmd = &cobra.Command{
	Use:   "timesheet",
	Short: "Personal timesheet tracker",
	Long: `timesheet tracks daily work schedules, computes worked and extra hours,
and maintains vacation and sick leave balances. All data is stored in a
local sqlite database under ~/.timesheet/.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "sqlite database path (default ~/.timesheet/timesheet.db)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path (default ~/.timesheet/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(inCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(templateCmd)
}

// openStore loads the config, opens the database, and seeds a fresh database
// with the config's leave allotments and a starter pay period.
func openStore(ctx context.Context) (*sqlite.Store, config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, cfg, err
	}

	path := dbFlag
	if path == "" {
		path = cfg.DBPath
	}
	if path == "" {
		path, err = config.DefaultDBPath()
		if err != nil {
			return nil, cfg, err
		}
	}

	store, err := sqlite.New(path)
	if err != nil {
		return nil, cfg, fmt.Errorf("opening database %s: %w", path, err)
	}

	if err := seedLeaveSettings(ctx, store, cfg); err != nil {
		store.Close()
		return nil, cfg, err
	}
	if err := seedDefaultPeriod(ctx, store); err != nil {
		store.Close()
		return nil, cfg, err
	}
	return store, cfg, nil
}

// seedLeaveSettings writes the config allotments on a fresh database only.
// Once set, the settings screen and API own these values.
func seedLeaveSettings(ctx context.Context, store *sqlite.Store, cfg config.Config) error {
	existing, err := store.GetSetting(ctx, "annual_vacation_days")
	if err != nil || existing != "" {
		return err
	}
	return store.SaveLeaveSettings(ctx, engine.LeaveSettings{
		AnnualVacationDays: decimal.NewFromFloat(cfg.Leave.AnnualVacationDays),
		SickDays:           decimal.NewFromFloat(cfg.Leave.SickDays),
	})
}

// seedDefaultPeriod creates a starter pay period and activates it when the
// database has none, so reports and exports work out of the box. Once any
// period exists the user owns the period list.
func seedDefaultPeriod(ctx context.Context, store *sqlite.Store) error {
	periods, err := store.ListPeriods(ctx)
	if err != nil || len(periods) > 0 {
		return err
	}
	p := defaultPeriod(engine.Today())
	if err := store.SavePeriod(ctx, p); err != nil {
		return err
	}
	return store.SetActivePeriodID(ctx, p.ID)
}

// defaultPeriod spans the calendar month containing d.
func defaultPeriod(d engine.Date) engine.PayPeriod {
	t := d.Time()
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return engine.PayPeriod{
		ID:    "period-default",
		Label: first.Format("January 2006"),
		Start: engine.NewDate(first),
		End:   engine.NewDate(last),
	}
}

// activePeriod resolves the active pay period, if any.
func activePeriod(ctx context.Context, store *sqlite.Store) (*engine.PayPeriod, error) {
	id, err := store.ActivePeriodID(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	return store.GetPeriod(ctx, id)
}
