// =============================================================================
// Sales Master - Ingestion Pipeline
// =============================================================================
//
// This module orchestrates one ingestion run, from branch sources to the
// master record set.
//
// PIPELINE:
//   1. For each branch in directory order, list its tabs via the sheet reader
//   2. Normalize every tab into canonical records
//   3. Aggregate all batches (dedup by IMEI, sort by date/branch)
//   4. Report statistics
//
// FAILURE MODEL:
//   Ingestion is best effort. An unreachable branch, a tab that cannot be
//   fetched, or a tab without a recognizable header is logged and skipped;
//   the run still produces a snapshot from everything else. Only context
//   cancellation aborts a run.
//
// CONCURRENCY:
//   Branches may be fetched concurrently (Concurrency > 1). Each branch writes
//   its batch into the slot of its declaration index, and aggregation starts
//   only after every branch has finished, so the dedup arrival order never
//   depends on which fetch completes first.
//
// =============================================================================

package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/sales-master/internal/aggregator"
	"github.com/ginjaninja78/sales-master/internal/config"
	"github.com/ginjaninja78/sales-master/internal/normalize"
	"github.com/ginjaninja78/sales-master/internal/sheets"
	"github.com/ginjaninja78/sales-master/internal/types"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one ingestion run.
type Result struct {
	// RunID identifies the run in logs and summaries.
	RunID string

	// Records is the master record set.
	Records types.MasterRecordSet

	// Branches holds per-branch outcomes in directory order.
	Branches []BranchResult

	// Stats contains run statistics.
	Stats ProcessingStats
}

// BranchResult is the outcome of ingesting one branch.
type BranchResult struct {
	// Name is the branch name.
	Name string

	// TabsProcessed counts tabs that produced a (possibly empty) batch.
	TabsProcessed int

	// TabsSkipped counts tabs rejected as empty or headerless.
	TabsSkipped int

	// Records counts records built before deduplication.
	Records int

	// Err is set when the branch, or some of its tabs, could not be fetched.
	Err error

	// Unavailable is true when nothing at all could be fetched.
	Unavailable bool
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	BranchesOK     int
	BranchesFailed int
	TabsProcessed  int
	TabsSkipped    int

	// RecordsBuilt is the number of records before deduplication.
	RecordsBuilt int

	// Duplicates is the number of records dropped by deduplication.
	Duplicates int

	// Records is the size of the master record set.
	Records int

	ProcessingTime time.Duration
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Pipeline runs ingestion over a fixed branch directory.
type Pipeline struct {
	reader      sheets.Reader
	branches    []config.Branch
	normalizer  *normalize.Normalizer
	aggOptions  aggregator.Options
	concurrency int
	logger      *zap.Logger
}

// New creates a Pipeline from a validated configuration.
//
// PARAMETERS:
//   - reader: The sheet reader used for every branch.
//   - cfg: The application configuration. The branch directory is copied.
//   - logger: The logger; nil disables logging.
func New(reader sheets.Reader, cfg *config.MainConfig, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	branches := make([]config.Branch, len(cfg.Branches))
	copy(branches, cfg.Branches)

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Pipeline{
		reader:      reader,
		branches:    branches,
		normalizer:  cfg.Normalizer(),
		aggOptions:  cfg.AggregatorOptions(),
		concurrency: concurrency,
		logger:      logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes one ingestion run.
//
// RETURNS:
//   - The Result. Per-branch failures are reported inside it, not as an error.
//   - An error only if ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	result := &Result{
		RunID:    uuid.NewString(),
		Branches: make([]BranchResult, len(p.branches)),
	}
	logger := p.logger.With(zap.String("run_id", result.RunID))

	logger.Info("starting ingestion", zap.Int("branches", len(p.branches)), zap.Int("concurrency", p.concurrency))

	// batches[i] holds branch i's records in tab order.
	batches := make([][]types.CanonicalRecord, len(p.branches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, branch := range p.branches {
		g.Go(func() error {
			batches[i], result.Branches[i] = p.ingestBranch(gctx, branch, logger)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, aggStats := aggregator.Aggregate(batches, p.aggOptions)
	result.Records = records

	for _, br := range result.Branches {
		if br.Unavailable {
			result.Stats.BranchesFailed++
		} else {
			result.Stats.BranchesOK++
		}
		result.Stats.TabsProcessed += br.TabsProcessed
		result.Stats.TabsSkipped += br.TabsSkipped
	}
	result.Stats.RecordsBuilt = aggStats.Input
	result.Stats.Duplicates = aggStats.Duplicates
	result.Stats.Records = aggStats.Output
	result.Stats.ProcessingTime = time.Since(startTime)

	if len(records) == 0 {
		logger.Warn("ingestion produced no records", zap.Int("branches_failed", result.Stats.BranchesFailed))
	}

	logger.Info("ingestion complete",
		zap.Int("records", result.Stats.Records),
		zap.Int("duplicates", result.Stats.Duplicates),
		zap.Int("tabs_skipped", result.Stats.TabsSkipped),
		zap.Duration("elapsed", result.Stats.ProcessingTime),
	)

	return result, nil
}

// ingestBranch fetches and normalizes every tab of one branch.
func (p *Pipeline) ingestBranch(ctx context.Context, branch config.Branch, logger *zap.Logger) ([]types.CanonicalRecord, BranchResult) {
	br := BranchResult{Name: branch.Name}
	logger = logger.With(zap.String("branch", branch.Name))

	tabs, err := p.reader.ListTabs(ctx, branch.Source)
	if err != nil {
		if ctx.Err() != nil {
			return nil, br
		}
		br.Err = err
		if tabs == nil {
			br.Unavailable = true
			logger.Warn("branch unavailable, skipping", zap.Error(err))
			return nil, br
		}
		logger.Warn("some tabs could not be fetched", zap.Error(err))
	}

	logger.Debug("fetched tabs", zap.Int("tabs", len(tabs)))

	var batch []types.CanonicalRecord
	for _, tab := range tabs {
		recs, err := p.normalizer.NormalizeTab(tab, branch.Name)
		if err != nil {
			br.TabsSkipped++
			level := zap.WarnLevel
			if errors.Is(err, types.ErrEmptyTab) {
				level = zap.DebugLevel
			}
			logger.Log(level, "skipping tab", zap.String("tab", tab.Title), zap.Error(err))
			continue
		}

		br.TabsProcessed++
		batch = append(batch, recs...)
		logger.Debug("normalized tab", zap.String("tab", tab.Title), zap.Int("records", len(recs)))
	}

	br.Records = len(batch)
	return batch, br
}
