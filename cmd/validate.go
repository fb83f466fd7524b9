package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-master/internal/sheets"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration without fetching any sheet",
	Long: `The validate command loads config.yaml, applies defaults, checks every
setting and prints the branch directory with the reader each branch will use.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), cfgFile)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(out io.Writer, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Configuration OK: %s\n", configPath)
	fmt.Fprintf(out, "Snapshot:  %s\n", cfg.SnapshotPath)
	fmt.Fprintf(out, "Strategy:  %s, dedup %s\n", cfg.HeaderStrategy, cfg.DedupPolicy)
	fmt.Fprintf(out, "Branches:  %d\n", len(cfg.Branches))
	for i, b := range cfg.Branches {
		fmt.Fprintf(out, "  %2d. %-20s %-12s %s\n", i+1, b.Name, sheets.Classify(b.Source), b.Source)
	}
	return nil
}
