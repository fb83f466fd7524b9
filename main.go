// =============================================================================
// Sales Master - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Sales Master CLI application. It
// delegates command execution to the cmd package.
//
// USAGE:
//   salesmaster update    - Rebuild the master snapshot from all branches
//   salesmaster view      - Filter, summarize and export the snapshot
//   salesmaster validate  - Validate configuration without fetching sheets
//   salesmaster version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Ingestion core, readers, snapshot, presentation
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/sales-master/cmd"
)

func main() {
	cmd.Execute()
}
