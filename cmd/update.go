// =============================================================================
// Sales Master - Update Command
// =============================================================================
//
// This file defines the 'update' command, which rebuilds the master snapshot
// from every branch in the branch directory.
//
// COMMAND USAGE:
//   salesmaster update [flags]
//
// FLAGS:
//   --dry-run : Run ingestion and report, but leave the snapshot untouched
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Build the sheet reader (Google Sheets only if a branch needs it)
//   3. Run ingestion over all branches
//   4. Archive the previous snapshot
//   5. Write the new snapshot
//   6. Prune old archives
//   7. Write the run summary
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/sales-master/internal/config"
	"github.com/ginjaninja78/sales-master/internal/pipeline"
	"github.com/ginjaninja78/sales-master/internal/sheets"
	"github.com/ginjaninja78/sales-master/internal/snapshot"
	"github.com/ginjaninja78/sales-master/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun runs ingestion without writing the snapshot.
var dryRun bool

// =============================================================================
// UPDATE COMMAND DEFINITION
// =============================================================================

// updateCmd represents the 'update' command.
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Rebuild the master snapshot from all branch sheets",
	Long: `The update command reads every tab of every branch listed in the branch
directory, normalizes the rows, drops repeated IMEIs (the first occurrence
wins) and overwrites the master snapshot.

Branches that cannot be reached, and tabs without a recognizable header, are
logged and skipped; the snapshot is still written from everything else.

Before the snapshot is replaced, the previous one is copied to the archive
directory. A summary of the run is written to the summary directory.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdate(cmd.Context(), cmd.OutOrStdout(), cfgFile)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the update command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Run ingestion and print the summary without writing the snapshot",
	)
}

// =============================================================================
// UPDATE LOGIC
// =============================================================================

// runUpdate executes the update pipeline.
func runUpdate(ctx context.Context, out io.Writer, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	// ==========================================================================
	// STEP 1: LOAD CONFIGURATION
	// ==========================================================================

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("config", configPath),
		zap.Int("branches", len(cfg.Branches)),
		zap.String("snapshot", cfg.SnapshotPath),
	)

	fm := utils.NewFileManager(cfg.SnapshotPath, cfg.ArchiveDir, cfg.SummaryDir)
	fm.UseTimestampSubdirs = cfg.ArchiveSubdirs
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	// ==========================================================================
	// STEP 2: BUILD READER
	// ==========================================================================

	reader, err := buildReader(ctx, cfg)
	if err != nil {
		return err
	}

	// ==========================================================================
	// STEP 3: INGEST
	// ==========================================================================

	result, err := pipeline.New(reader, cfg, logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("update aborted: %w", err)
	}

	summary := buildRunSummary(result, cfg.SnapshotPath, startTime)

	if dryRun {
		logger.Info("dry run, snapshot not written")
		printRunSummary(out, summary, true)
		return nil
	}

	// ==========================================================================
	// STEP 4-6: ARCHIVE, WRITE, PRUNE
	// ==========================================================================

	archivePath, err := fm.ArchiveSnapshot()
	if err != nil {
		logger.Warn("could not archive previous snapshot", zap.Error(err))
	} else if archivePath != "" {
		logger.Debug("archived previous snapshot", zap.String("path", archivePath))
	}
	summary.ArchivePath = archivePath

	if err := snapshot.Write(cfg.SnapshotPath, result.Records); err != nil {
		return err
	}
	logger.Info("snapshot written", zap.String("path", cfg.SnapshotPath), zap.Int("records", len(result.Records)))

	if removed, err := utils.CleanOldArchives(cfg.ArchiveDir, *cfg.ArchiveRetention); err != nil {
		logger.Warn("could not prune archives", zap.Error(err))
	} else if removed > 0 {
		logger.Info("pruned old archives", zap.Int("removed", removed))
	}

	// ==========================================================================
	// STEP 7: SUMMARY
	// ==========================================================================

	summary.EndTime = time.Now()
	summaryPath, err := utils.WriteSummaryLog(summary, cfg.SummaryDir)
	if err != nil {
		logger.Warn("could not write run summary", zap.Error(err))
	} else {
		logger.Debug("run summary written", zap.String("path", summaryPath))
	}

	printRunSummary(out, summary, false)
	return nil
}

// buildReader returns the sheet reader for the configured branches. The
// Google Sheets client is only created, and credentials only read, when at
// least one branch points at a spreadsheet.
func buildReader(ctx context.Context, cfg *config.MainConfig) (sheets.Reader, error) {
	router := sheets.NewRouter()

	refs := make([]string, len(cfg.Branches))
	for i, b := range cfg.Branches {
		refs[i] = b.Source
	}

	if sheets.Uses(sheets.KindSpreadsheet, refs...) {
		google, err := sheets.NewGoogleReader(ctx, cfg.CredentialsFile, *cfg.TabDelay)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Google Sheets: %w", err)
		}
		router.Handle(sheets.KindSpreadsheet, google)
	}

	return router, nil
}

// buildRunSummary converts a pipeline result into the summary file layout.
func buildRunSummary(result *pipeline.Result, snapshotPath string, start time.Time) utils.RunSummary {
	summary := utils.RunSummary{
		RunID:          result.RunID,
		StartTime:      start,
		EndTime:        time.Now(),
		SnapshotPath:   snapshotPath,
		BranchesOK:     result.Stats.BranchesOK,
		BranchesFailed: result.Stats.BranchesFailed,
		TabsProcessed:  result.Stats.TabsProcessed,
		TabsSkipped:    result.Stats.TabsSkipped,
		RecordsBuilt:   result.Stats.RecordsBuilt,
		Duplicates:     result.Stats.Duplicates,
		Records:        result.Stats.Records,
	}

	for _, br := range result.Branches {
		bs := utils.BranchSummary{
			Name:          br.Name,
			TabsProcessed: br.TabsProcessed,
			TabsSkipped:   br.TabsSkipped,
			Records:       br.Records,
		}
		if br.Err != nil {
			bs.Error = br.Err.Error()
		}
		summary.Branches = append(summary.Branches, bs)
	}

	return summary
}

// printRunSummary prints the short console summary.
func printRunSummary(out io.Writer, s utils.RunSummary, dry bool) {
	fmt.Fprintln(out, "================================================================================")
	if dry {
		fmt.Fprintln(out, "UPDATE SUMMARY (dry run, snapshot not written)")
	} else {
		fmt.Fprintln(out, "UPDATE SUMMARY")
	}
	fmt.Fprintln(out, "================================================================================")
	fmt.Fprintf(out, "Branches:        %d ok, %d unavailable\n", s.BranchesOK, s.BranchesFailed)
	fmt.Fprintf(out, "Tabs:            %d processed, %d skipped\n", s.TabsProcessed, s.TabsSkipped)
	fmt.Fprintf(out, "Records:         %d built, %d duplicate(s) dropped\n", s.RecordsBuilt, s.Duplicates)
	fmt.Fprintf(out, "Master records:  %d\n", s.Records)
	if !dry {
		fmt.Fprintf(out, "Snapshot:        %s\n", s.SnapshotPath)
	}
	fmt.Fprintln(out, "================================================================================")
}
