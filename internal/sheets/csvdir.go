// =============================================================================
// Sales Master - CSV Directory Reader
// =============================================================================
//
// Reads a branch source stored as a folder of CSV exports, one file per date:
//
//   sheets/north/
//   ├── 2024-01-01.csv   -> tab "2024-01-01"
//   ├── 2024-01-02.csv   -> tab "2024-01-02"
//   └── notes.txt        -> ignored
//
// PARSING:
//   - UTF-8 with an optional byte-order mark
//   - comma delimited, lazy quotes, variable number of fields per row
//   - cells are kept raw; trimming is left to the normalizer
//
// =============================================================================

package sheets

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ginjaninja78/sales-master/internal/types"
)

// utf8BOM is stripped from the start of each file.
const utf8BOM = "\uFEFF"

// CSVDirReader lists the CSV files of a directory as tabs.
type CSVDirReader struct {
	// Delimiter separates fields. Default: ','
	Delimiter rune
}

// NewCSVDirReader creates a comma-delimited CSVDirReader.
func NewCSVDirReader() *CSVDirReader {
	return &CSVDirReader{Delimiter: ','}
}

// ListTabs implements Reader. Tabs are ordered by file name.
func (c *CSVDirReader) ListTabs(ctx context.Context, sourceRef string) ([]types.RawTab, error) {
	info, err := os.Stat(sourceRef)
	if err != nil {
		return nil, fmt.Errorf("open directory %s: %w: %w", sourceRef, types.ErrSourceUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", sourceRef, types.ErrSourceUnavailable)
	}

	entries, err := os.ReadDir(sourceRef)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w: %w", sourceRef, types.ErrSourceUnavailable, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	var (
		tabs []types.RawTab
		errs []error
	)
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := c.readFile(filepath.Join(sourceRef, name))
		if err != nil {
			errs = append(errs, fmt.Errorf("file %q: %w: %w", name, types.ErrSourceUnavailable, err))
			continue
		}

		tabs = append(tabs, types.RawTab{
			Title: strings.TrimSuffix(name, filepath.Ext(name)),
			Rows:  rows,
		})
	}

	return tabs, errors.Join(errs...)
}

// readFile parses one CSV file into raw rows.
func (c *CSVDirReader) readFile(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseCSV(file, c.Delimiter)
}

// ParseCSV reads every row of a CSV stream, tolerating ragged rows and stray
// quotes. A leading UTF-8 byte-order mark is dropped.
func ParseCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := bufio.NewReader(r)
	if head, err := reader.Peek(len(utf8BOM)); err == nil && string(head) == utf8BOM {
		_, _ = reader.Discard(len(utf8BOM))
	}

	csvReader := csv.NewReader(reader)
	if delimiter != 0 {
		csvReader.Comma = delimiter
	}
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}
