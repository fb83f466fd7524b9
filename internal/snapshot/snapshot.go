// =============================================================================
// Sales Master - Master Snapshot
// =============================================================================
//
// This module persists the master record set as a flat CSV file and loads it
// back for the presentation layer.
//
// FILE FORMAT:
//   - UTF-8, comma delimited, RFC 4180 quoting
//   - Row 1 is the header: Date, Branch, Customer Name, Contact, Acc Inv No,
//     Item, Description, IMEI, Supplier, Cost, Invoice Value, Sales Person
//   - One row per record, in master order (date, then branch)
//
// WRITE SEMANTICS:
//   The snapshot is written to a temporary file in the same directory and then
//   renamed over the target. Readers never observe a half-written snapshot,
//   and a failed write leaves the previous snapshot untouched.
//
// =============================================================================

package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/sales-master/internal/types"
)

// utf8BOM is tolerated at the start of a snapshot edited by spreadsheet tools.
const utf8BOM = "\uFEFF"

// =============================================================================
// WRITING
// =============================================================================

// Write replaces the snapshot at path with records.
//
// PARAMETERS:
//   - path: The snapshot file path. Parent directories are created.
//   - records: The master record set. An empty set writes the header only.
//
// RETURNS:
//   - An error if the file cannot be written. The previous snapshot, if any,
//     is left in place.
func Write(path string, records types.MasterRecordSet) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := WriteCSV(tmp, records); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set snapshot permissions: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}

// WriteCSV writes the header and every record to w.
func WriteCSV(w io.Writer, records []types.CanonicalRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(types.Header()); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record.Values()); err != nil {
			return fmt.Errorf("failed to write snapshot row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// =============================================================================
// READING
// =============================================================================

// Read loads the snapshot at path.
//
// RETURNS:
//   - The records in file order, with ordinals set to their row position.
//   - types.ErrMissingSnapshot if the file does not exist.
//   - types.ErrInvalidSnapshot if the header or a row does not match the
//     snapshot layout.
func Read(path string) (types.MasterRecordSet, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, types.ErrMissingSnapshot)
		}
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	records, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ReadCSV parses a snapshot stream.
func ReadCSV(r io.Reader) (types.MasterRecordSet, error) {
	reader := csv.NewReader(r)
	header := types.Header()
	reader.FieldsPerRecord = len(header)

	got, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: %w", types.ErrInvalidSnapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w: %w", types.ErrInvalidSnapshot, err)
	}
	if len(got) > 0 {
		got[0] = strings.TrimPrefix(got[0], utf8BOM)
	}
	for i, name := range header {
		if strings.TrimSpace(got[i]) != name {
			return nil, fmt.Errorf("column %d is %q, want %q: %w", i+1, got[i], name, types.ErrInvalidSnapshot)
		}
	}

	records := types.MasterRecordSet{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrInvalidSnapshot, err)
		}

		record := types.RecordFromValues(row)
		record.Ordinal = len(records)
		records = append(records, record)
	}

	return records, nil
}
