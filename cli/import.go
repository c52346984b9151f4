/*
import.go - Bulk CSV import command

PURPOSE:
  Parses a CSV sheet and reconciles it into the record set. Shows what would
  happen first: the parsed record count, per-row errors, and how many
  existing records the range collides with. Refuses to continue past row
  errors or conflicts unless --yes is given.
*/
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/timesheet-engine/engine"
	"github.com/warp/timesheet-engine/tabular"
)

var (
	importMode  string
	importStart string
	importEnd   string
	importYes   bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import records from a CSV sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&importMode, "mode", "merge", "reconciliation mode: merge or replace")
	importCmd.Flags().StringVar(&importStart, "start", "", "range start (YYYY-MM-DD, default from sheet)")
	importCmd.Flags().StringVar(&importEnd, "end", "", "range end (YYYY-MM-DD, default from sheet)")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "proceed past row errors and conflicts")
}

func runImport(cmd *cobra.Command, args []string) error {
	mode := engine.Mode(importMode)
	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q (want merge or replace)", importMode)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := tabular.ReadCSV(f)
	if err != nil {
		return err
	}

	incoming, rowErrs := tabular.ParseRows(rows)
	if len(rowErrs) > 0 {
		fmt.Fprintf(os.Stderr, "%d row(s) could not be parsed:\n", len(rowErrs))
		for _, e := range rowErrs {
			fmt.Fprintf(os.Stderr, "  row %d: %s\n", e.Row, e.Message)
		}
		if !importYes {
			return fmt.Errorf("refusing to import a sheet with errors; fix them or pass --yes to skip the bad rows")
		}
	}
	if len(incoming) == 0 {
		return fmt.Errorf("no valid rows in %s", args[0])
	}

	rng := engine.DateRange{Start: engine.Date(importStart), End: engine.Date(importEnd)}
	if rng.Start == "" || rng.End == "" {
		rng, _ = engine.RangeOf(incoming)
	}
	if !rng.Start.Valid() || !rng.End.Valid() || rng.End < rng.Start {
		return fmt.Errorf("invalid import range %s..%s", rng.Start, rng.End)
	}

	ctx := cmd.Context()
	store, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.LoadRecords(ctx)
	if err != nil {
		return err
	}

	if conflicts := engine.Conflicts(records, rng); conflicts > 0 && !importYes {
		return fmt.Errorf("%d existing record(s) in %s..%s would be affected; pass --yes to continue",
			conflicts, rng.Start, rng.End)
	}

	merged := engine.Merge(records, incoming, rng, mode)
	if err := store.ReplaceRecords(ctx, merged); err != nil {
		return err
	}

	fmt.Printf("Imported %d record(s) into %s..%s (%s mode), %d total\n",
		len(incoming), rng.Start, rng.End, mode, len(merged))
	return nil
}
