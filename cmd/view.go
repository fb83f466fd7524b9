// =============================================================================
// Sales Master - View Command
// =============================================================================
//
// This file defines the 'view' command, a read-only window on the master
// snapshot.
//
// COMMAND USAGE:
//   salesmaster view [flags]
//
// FLAGS:
//   --branch   : Branch to show, or "All" (default)
//   --date     : Tab date to show, or "All" (default)
//   --imei     : Case-insensitive IMEI substring search
//   --export   : Write the filtered rows to a .csv or .xlsx file
//   --limit    : Maximum table rows to print (0 = all)
//   --snapshot : Read this snapshot instead of the configured one
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-master/internal/presentation"
	"github.com/ginjaninja78/sales-master/internal/snapshot"
	"github.com/ginjaninja78/sales-master/internal/types"
)

// viewOptions holds the flags of the view command.
type viewOptions struct {
	Filter       presentation.Filter
	ExportPath   string
	Limit        int
	SnapshotPath string
}

var viewOpts viewOptions

// viewCmd represents the 'view' command.
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Filter, summarize and export the master snapshot",
	Long: `The view command loads the master snapshot written by 'update' and prints
summary metrics, the available filter values and a table of the matching
records. Use --export to save the filtered rows as CSV or Excel.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		opts := viewOpts
		if opts.SnapshotPath == "" {
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			opts.SnapshotPath = cfg.SnapshotPath
		}
		return runView(cmd.OutOrStdout(), opts)
	},
}

// init registers the view command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(viewCmd)

	flags := viewCmd.Flags()
	flags.StringVar(&viewOpts.Filter.Branch, "branch", presentation.All, "Branch to show")
	flags.StringVar(&viewOpts.Filter.Date, "date", presentation.All, "Date (tab name) to show")
	flags.StringVar(&viewOpts.Filter.IMEI, "imei", "", "Search IMEIs containing this text (case-insensitive)")
	flags.StringVar(&viewOpts.ExportPath, "export", "", "Export filtered rows to a .csv or .xlsx file")
	flags.IntVar(&viewOpts.Limit, "limit", 50, "Maximum rows to print (0 prints all)")
	flags.StringVar(&viewOpts.SnapshotPath, "snapshot", "", "Snapshot file to read (default from config)")
}

// runView renders the filtered snapshot to out.
func runView(out io.Writer, opts viewOptions) error {
	records, err := snapshot.Read(opts.SnapshotPath)
	if err != nil {
		if errors.Is(err, types.ErrMissingSnapshot) {
			return fmt.Errorf("master snapshot not found at %s, run 'salesmaster update' first: %w", opts.SnapshotPath, err)
		}
		return err
	}

	branches := presentation.BranchOptions(records)
	dates := presentation.DateOptions(records, opts.Filter.Branch)
	if b := opts.Filter.Branch; b != "" && !slices.Contains(branches, b) {
		fmt.Fprintf(out, "Note: branch %q is not in the snapshot\n", b)
	}
	if d := opts.Filter.Date; d != "" && !slices.Contains(dates, d) {
		fmt.Fprintf(out, "Note: date %q has no records in the selected branch\n", d)
	}

	filtered := opts.Filter.Apply(records)

	fmt.Fprintln(out, presentation.RenderMetrics(presentation.ComputeMetrics(filtered)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, presentation.RenderOptions(branches, dates))
	fmt.Fprintln(out)
	fmt.Fprintln(out, presentation.RenderTable(filtered, opts.Limit))

	if opts.ExportPath != "" {
		if err := exportRecords(opts.ExportPath, filtered); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %d record(s) to %s\n", len(filtered), opts.ExportPath)
	}

	return nil
}

// exportRecords writes records as a workbook when path ends in .xlsx and as
// a snapshot-format CSV otherwise.
func exportRecords(path string, records types.MasterRecordSet) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return snapshot.ExportXLSX(path, records)
	}
	return snapshot.Write(path, records)
}
