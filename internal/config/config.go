// =============================================================================
// Sales Master - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a single YAML file.
// The configuration is read once at start-up and passed by value/pointer into
// the pipeline; nothing here is global or mutated afterwards.
//
// CONFIGURATION SECTIONS:
//   1. Paths       : snapshot, archive and summary locations
//   2. Logging     : level, format, output
//   3. Sources     : credentials, pacing, concurrency
//   4. Normalizing : header anchor/strategy, extra column aliases
//   5. Dedup       : duplicate policy, blank IMEI handling
//   6. Branches    : the ordered branch directory
//
// EXAMPLE:
//   snapshot_path: ./data/master_db.csv
//   tab_delay: 1s
//   branches:
//     - name: Downtown
//       source: https://docs.google.com/spreadsheets/d/<id>/edit
//     - name: Airport
//       source: ./sheets/airport.xlsx
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/sales-master/internal/aggregator"
	"github.com/ginjaninja78/sales-master/internal/normalize"
	"github.com/ginjaninja78/sales-master/internal/types"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// PATH SETTINGS
	// =========================================================================

	// SnapshotPath is the master snapshot file written by "update" and read
	// by "view".
	// Default: "./data/master_db.csv"
	SnapshotPath string `yaml:"snapshot_path"`

	// ArchiveDir receives a copy of the previous snapshot before each
	// overwrite.
	// Default: "./data/archive"
	ArchiveDir string `yaml:"archive_dir"`

	// ArchiveRetention is how long archived snapshots are kept. Zero keeps
	// them forever.
	// Default: 720h (30 days)
	ArchiveRetention *time.Duration `yaml:"archive_retention"`

	// ArchiveSubdirs files archived snapshots under YYYY/MM/DD directories.
	// Default: false
	ArchiveSubdirs bool `yaml:"archive_subdirs"`

	// SummaryDir receives one plain-text summary per update run.
	// Default: "./logs"
	SummaryDir string `yaml:"summary_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel: "debug", "info", "warn", "error". Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat: "console" or "json". Default: "console"
	LogFormat string `yaml:"log_format"`

	// LogFile: "stdout", "stderr" or a file path. Default: "stderr"
	LogFile string `yaml:"log_file"`

	// =========================================================================
	// SOURCE SETTINGS
	// =========================================================================

	// CredentialsFile is the service-account JSON used for Google Sheets
	// sources. Only read when a branch points at a spreadsheet.
	// Default: "credentials.json"
	CredentialsFile string `yaml:"credentials_file"`

	// TabDelay is the pause between per-tab fetches against the Sheets API.
	// Zero disables pacing.
	// Default: 1s
	TabDelay *time.Duration `yaml:"tab_delay"`

	// Concurrency is the number of branches fetched at once.
	// Default: 1 (sequential)
	Concurrency int `yaml:"concurrency"`

	// =========================================================================
	// NORMALIZATION SETTINGS
	// =========================================================================

	// HeaderAnchor is the substring identifying the header row.
	// Default: "CUSTOMER"
	HeaderAnchor string `yaml:"header_anchor"`

	// HeaderStrategy is "search" (locate the header) or "fixed" (legacy
	// positional layout).
	// Default: "search"
	HeaderStrategy string `yaml:"header_strategy"`

	// ColumnAliases adds header spellings per canonical field, keyed by the
	// snapshot header name (e.g. "IMEI", "Customer Name"). They are tried
	// after the built-in aliases.
	ColumnAliases map[string][]string `yaml:"column_aliases"`

	// =========================================================================
	// DEDUP SETTINGS
	// =========================================================================

	// DedupPolicy is "first_wins" or "last_wins".
	// Default: "first_wins"
	DedupPolicy string `yaml:"dedup_policy"`

	// ExemptEmptyIMEI keeps every blank-IMEI record instead of collapsing
	// them into one.
	// Default: false
	ExemptEmptyIMEI bool `yaml:"exempt_empty_imei"`

	// =========================================================================
	// BRANCH DIRECTORY
	// =========================================================================

	// Branches lists every branch in processing order. The order defines
	// the arrival order used by deduplication.
	Branches []Branch `yaml:"branches"`
}

// Branch is one entry of the branch directory.
type Branch struct {
	// Name is stamped on every record of the branch.
	Name string `yaml:"name"`

	// Source locates the branch's tabs: a spreadsheet URL or ID, a path to
	// an .xlsx workbook, or a directory of CSV files.
	Source string `yaml:"source"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct with defaults applied.
//   - An error if the file cannot be read, parsed, or is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a configuration document.
func Parse(data []byte) (*MainConfig, error) {
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.SnapshotPath == "" {
		config.SnapshotPath = "./data/master_db.csv"
	}
	if config.ArchiveDir == "" {
		config.ArchiveDir = "./data/archive"
	}
	if config.ArchiveRetention == nil {
		d := 30 * 24 * time.Hour
		config.ArchiveRetention = &d
	}
	if config.SummaryDir == "" {
		config.SummaryDir = "./logs"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
	if config.LogFile == "" {
		config.LogFile = "stderr"
	}
	if config.CredentialsFile == "" {
		config.CredentialsFile = "credentials.json"
	}
	if config.TabDelay == nil {
		d := time.Second
		config.TabDelay = &d
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.HeaderAnchor == "" {
		config.HeaderAnchor = normalize.DefaultAnchor
	}
	if config.HeaderStrategy == "" {
		config.HeaderStrategy = string(normalize.StrategySearch)
	}
	if config.DedupPolicy == "" {
		config.DedupPolicy = string(aggregator.FirstWins)
	}

	for i := range config.Branches {
		config.Branches[i].Name = strings.TrimSpace(config.Branches[i].Name)
		config.Branches[i].Source = strings.TrimSpace(config.Branches[i].Source)
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	var errs []error

	if len(config.Branches) == 0 {
		errs = append(errs, errors.New("at least one branch is required"))
	}

	names := make(map[string]bool, len(config.Branches))
	for i, b := range config.Branches {
		if b.Name == "" {
			errs = append(errs, fmt.Errorf("branch %d: name is required", i+1))
		} else if names[b.Name] {
			errs = append(errs, fmt.Errorf("branch %d: duplicate name %q", i+1, b.Name))
		}
		names[b.Name] = true

		if b.Source == "" {
			errs = append(errs, fmt.Errorf("branch %d (%s): source is required", i+1, b.Name))
		}
	}

	switch normalize.Strategy(config.HeaderStrategy) {
	case normalize.StrategySearch, normalize.StrategyFixed:
	default:
		errs = append(errs, fmt.Errorf("header_strategy: unknown value %q", config.HeaderStrategy))
	}

	if _, err := aggregator.ParsePolicy(config.DedupPolicy); err != nil {
		errs = append(errs, fmt.Errorf("dedup_policy: %w", err))
	}

	if *config.ArchiveRetention < 0 {
		errs = append(errs, errors.New("archive_retention must not be negative"))
	}

	if *config.TabDelay < 0 {
		errs = append(errs, errors.New("tab_delay must not be negative"))
	}

	for name := range config.ColumnAliases {
		f, ok := types.ParseField(name)
		if !ok || f == types.FieldDate || f == types.FieldBranch {
			errs = append(errs, fmt.Errorf("column_aliases: %q is not a sheet column field", name))
		}
	}

	return errors.Join(errs...)
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// Aliases returns the built-in alias table extended with the configured
// extra aliases.
func (c *MainConfig) Aliases() normalize.AliasTable {
	extra := make(map[types.Field][]string, len(c.ColumnAliases))
	for name, aliases := range c.ColumnAliases {
		if f, ok := types.ParseField(name); ok {
			extra[f] = aliases
		}
	}
	return normalize.DefaultAliases().Extend(extra)
}

// AggregatorOptions returns the dedup options. The config has already been
// validated, so the policy always parses.
func (c *MainConfig) AggregatorOptions() aggregator.Options {
	policy, _ := aggregator.ParsePolicy(c.DedupPolicy)
	return aggregator.Options{
		Policy:          policy,
		ExemptEmptyIMEI: c.ExemptEmptyIMEI,
	}
}

// Normalizer builds the tab normalizer described by the config.
func (c *MainConfig) Normalizer() *normalize.Normalizer {
	return normalize.New(
		normalize.WithAnchor(c.HeaderAnchor),
		normalize.WithStrategy(normalize.Strategy(c.HeaderStrategy)),
		normalize.WithAliases(c.Aliases()),
	)
}
