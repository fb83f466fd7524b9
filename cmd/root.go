// =============================================================================
// Sales Master - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (salesmaster)
//   ├── updateCmd   (salesmaster update)
//   ├── viewCmd     (salesmaster view)
//   ├── validateCmd (salesmaster validate)
//   └── versionCmd  (salesmaster version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Providing the shared config/logger helpers used by subcommands
//   3. Cancelling the running command on Ctrl+C / SIGTERM
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/sales-master/internal/config"
	"github.com/ginjaninja78/sales-master/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose forces debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "salesmaster",
	Short: "Sales Master - Consolidate branch sales sheets into one master record",
	Long: `Sales Master collects the daily sales tabs kept by every branch, normalizes
their columns, removes duplicate devices by IMEI and writes one master
snapshot that can be filtered, summarized and exported.

Branch sources can be Google Sheets, local Excel workbooks or folders of
CSV exports, listed in the branch directory of config.yaml.

Example Usage:
  salesmaster update                      # Rebuild the master snapshot
  salesmaster view --branch Airport       # Show one branch
  salesmaster view --imei 3569 --export found.xlsx
  salesmaster validate --config ./my.yaml # Check configuration only`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig loads the configuration named by --config.
func loadConfig(path string) (*config.MainConfig, error) {
	cfg, err := config.LoadMainConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}
	return cfg, nil
}

// newLogger builds the logger described by the configuration. --verbose
// overrides the configured level.
func newLogger(cfg *config.MainConfig) (*zap.Logger, error) {
	logCfg := logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogFile,
	}
	if verbose {
		logCfg.Level = "debug"
	}

	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
