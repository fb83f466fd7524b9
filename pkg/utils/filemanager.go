// =============================================================================
// Sales Master - File Manager Utility
// =============================================================================
//
// This module provides the file housekeeping around the master snapshot:
//   - Directory management
//   - Snapshot archival (copying the previous snapshot aside)
//   - Archive retention
//   - Run summary generation
//
// ARCHIVAL STRATEGY:
//   - Before "update" overwrites the snapshot, the current file is copied to
//     the archive directory as <name>_<timestamp>_<uuid>.csv
//   - The live snapshot is never moved, so "view" keeps working mid-run
//   - Archives older than the retention period are removed after each run
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations around the master snapshot.
type FileManager struct {
	// SnapshotPath is the live master snapshot.
	SnapshotPath string

	// ArchiveDir is the directory for archived snapshots.
	ArchiveDir string

	// SummaryDir is the directory for run summaries.
	SummaryDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: archive/2024/01/15/master_db_20240115_143022_a1b2c3d4.csv
	UseTimestampSubdirs bool
}

// NewFileManager creates a new FileManager for the given locations.
func NewFileManager(snapshotPath, archiveDir, summaryDir string) *FileManager {
	return &FileManager{
		SnapshotPath: snapshotPath,
		ArchiveDir:   archiveDir,
		SummaryDir:   summaryDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the snapshot, archive and summary directories if
// they don't exist.
//
// RETURNS:
//   - An error if any directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(fm.SnapshotPath),
		fm.ArchiveDir,
		fm.SummaryDir,
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// SNAPSHOT ARCHIVAL
// =============================================================================

// ArchiveSnapshot copies the current snapshot to the archive directory.
//
// RETURNS:
//   - The path to the archived copy, or "" if there is no snapshot yet.
//   - An error if archival fails.
func (fm *FileManager) ArchiveSnapshot() (string, error) {
	if !FileExists(fm.SnapshotPath) {
		return "", nil
	}

	archivePath := fm.getArchivePath(time.Now())

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := copyFile(fm.SnapshotPath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy snapshot to archive: %w", err)
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for the snapshot.
func (fm *FileManager) getArchivePath(now time.Time) string {
	fileName := GenerateArchiveName(filepath.Base(fm.SnapshotPath), now)

	if fm.UseTimestampSubdirs {
		subDir := filepath.Join(
			fm.ArchiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
		return filepath.Join(subDir, fileName)
	}

	return filepath.Join(fm.ArchiveDir, fileName)
}

// GenerateArchiveName builds a unique archive file name from the original
// file name.
//
// EXAMPLE:
//
//	original: "master_db.csv"
//	output:   "master_db_20240115_143022_a1b2c3d4.csv"
func GenerateArchiveName(original string, now time.Time) string {
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(original, ext)
	if ext == "" {
		ext = ".csv"
	}

	id := strings.SplitN(uuid.New().String(), "-", 2)[0]

	return fmt.Sprintf("%s_%s_%s%s", base, now.Format("20060102_150405"), id, ext)
}

// CleanOldArchives removes archive files older than the specified duration.
//
// PARAMETERS:
//   - archiveDir: The archive directory to clean.
//   - maxAge: The maximum age of files to keep. Zero or negative keeps
//     everything.
//
// RETURNS:
//   - The number of files removed.
//   - An error if cleaning fails.
func CleanOldArchives(archiveDir string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 || !FileExists(archiveDir) {
		return 0, nil
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(archiveDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}

		return nil
	})

	if err != nil {
		return removed, fmt.Errorf("failed to clean archives: %w", err)
	}

	return removed, nil
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about an update run.
type RunSummary struct {
	RunID        string
	StartTime    time.Time
	EndTime      time.Time
	SnapshotPath string
	ArchivePath  string

	BranchesOK     int
	BranchesFailed int
	TabsProcessed  int
	TabsSkipped    int
	RecordsBuilt   int
	Duplicates     int
	Records        int

	Branches []BranchSummary
}

// BranchSummary contains the outcome of one branch.
type BranchSummary struct {
	Name          string
	TabsProcessed int
	TabsSkipped   int
	Records       int
	Error         string
}

// WriteSummaryLog writes a run summary to a text file.
//
// PARAMETERS:
//   - summary: The run summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	timestamp := summary.StartTime.Format("20060102_150405")
	summaryFileName := fmt.Sprintf("update_summary_%s.txt", timestamp)
	summaryPath := filepath.Join(outputDir, summaryFileName)

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	archive := summary.ArchivePath
	if archive == "" {
		archive = "(no previous snapshot)"
	}

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "Sales Master - Update Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Snapshot:       %s\n"+
		"  Archived To:    %s\n\n"+
		"Statistics:\n"+
		"  Branches OK:        %d\n"+
		"  Branches Failed:    %d\n"+
		"  Tabs Processed:     %d\n"+
		"  Tabs Skipped:       %d\n"+
		"  Records Built:      %d\n"+
		"  Duplicates Dropped: %d\n"+
		"  Master Records:     %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.SnapshotPath,
		archive,
		summary.BranchesOK,
		summary.BranchesFailed,
		summary.TabsProcessed,
		summary.TabsSkipped,
		summary.RecordsBuilt,
		summary.Duplicates,
		summary.Records)

	if len(summary.Branches) > 0 {
		writer.WriteString("Branches:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, b := range summary.Branches {
			fmt.Fprintf(writer, "  Branch:         %s\n", b.Name)
			fmt.Fprintf(writer, "  Tabs:           %d processed, %d skipped\n", b.TabsProcessed, b.TabsSkipped)
			fmt.Fprintf(writer, "  Records:        %d\n", b.Records)
			if b.Error != "" {
				fmt.Fprintf(writer, "  Error:          %s\n", b.Error)
			}
			writer.WriteString("\n")
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
