/*
export.go - CSV export commands

PURPOSE:
  "timesheet export" writes the detailed or simple sheet for a range;
  "timesheet template" writes a blank or date-prefilled preparation sheet
  that can later be fed back through "timesheet import".
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
	exportFrom   string
	exportTo     string
	exportView   string
	exportOut    string
	exportPeriod string

	templateOut    string
	templatePeriod string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records as CSV",
	RunE:  runExport,
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write a bulk-preparation CSV template",
	RunE:  runTemplate,
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "range start (YYYY-MM-DD, default active period)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "range end (YYYY-MM-DD, default active period)")
	exportCmd.Flags().StringVar(&exportView, "view", "detailed", "sheet layout: detailed or simple")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "", "period id (default active period)")

	templateCmd.Flags().StringVarP(&templateOut, "out", "o", "", "output file (default stdout)")
	templateCmd.Flags().StringVar(&templatePeriod, "period", "", "period id to prefill dates from (default active period)")
}

func writeRows(path string, rows [][]string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := tabular.WriteCSV(out, rows); err != nil {
		return err
	}
	if path != "" {
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	rng, _, err := resolveRange(ctx, store, exportFrom, exportTo, exportPeriod)
	if err != nil {
		return err
	}

	records, err := store.LoadRecords(ctx)
	if err != nil {
		return err
	}
	_, inRange := engine.Partition(records, rng)
	totals := engine.Aggregate(records, rng.Start, rng.End)

	var rows [][]string
	switch exportView {
	case "simple":
		rows = tabular.SimpleRows(inRange, totals)
	case "detailed":
		rows = tabular.DetailedRows(inRange, totals)
	default:
		return fmt.Errorf("unknown view %q (want detailed or simple)", exportView)
	}
	return writeRows(exportOut, rows)
}

func runTemplate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	period, err := lookupPeriod(ctx, store, templatePeriod)
	if err != nil {
		return err
	}
	return writeRows(templateOut, tabular.TemplateRows(period))
}
