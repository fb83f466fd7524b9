// =============================================================================
// Sales Master - Sheet Reader Boundary
// =============================================================================
//
// A sheet reader lists the tabs of one branch source. The pipeline treats it
// as an opaque capability: it never knows whether tabs came from the Sheets
// API, a local workbook, or a folder of CSV exports.
//
// IMPLEMENTATIONS:
//   - GoogleReader   : Google Sheets API v4 (spreadsheet URL or ID)
//   - WorkbookReader : local .xlsx/.xlsm workbook, one tab per worksheet
//   - CSVDirReader   : directory of .csv files, one tab per file
//   - Router         : dispatches a source ref to one of the above
//
// ERROR CONTRACT:
//   - (nil, err)  : the whole source is unavailable; err wraps
//                   types.ErrSourceUnavailable.
//   - (tabs, err) : some tabs failed and were left out; tabs holds the ones
//                   that were fetched.
//   - (tabs, nil) : every tab was fetched.
//
// =============================================================================

package sheets

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/sales-master/internal/types"
)

// Reader lists the tabs of a branch source.
type Reader interface {
	ListTabs(ctx context.Context, sourceRef string) ([]types.RawTab, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(ctx context.Context, sourceRef string) ([]types.RawTab, error)

// ListTabs calls f.
func (f ReaderFunc) ListTabs(ctx context.Context, sourceRef string) ([]types.RawTab, error) {
	return f(ctx, sourceRef)
}

// =============================================================================
// SOURCE CLASSIFICATION
// =============================================================================

// SourceKind identifies which reader handles a source ref.
type SourceKind string

const (
	KindSpreadsheet SourceKind = "spreadsheet"
	KindWorkbook    SourceKind = "workbook"
	KindCSVDir      SourceKind = "csv_dir"
)

// Classify decides which reader handles a source ref.
//
// RULES (first match wins):
//   - http:// or https:// URL       -> spreadsheet
//   - .xlsx or .xlsm extension      -> workbook
//   - anything that looks like a path (contains a separator or starts with
//     ".")                          -> CSV directory
//   - anything else                 -> bare spreadsheet ID
func Classify(sourceRef string) SourceKind {
	ref := strings.TrimSpace(sourceRef)
	lower := strings.ToLower(ref)

	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindSpreadsheet
	case filepath.Ext(lower) == ".xlsx", filepath.Ext(lower) == ".xlsm":
		return KindWorkbook
	case strings.ContainsAny(ref, `/\`), strings.HasPrefix(ref, "."):
		return KindCSVDir
	default:
		return KindSpreadsheet
	}
}

// Uses reports whether any of the source refs is of the given kind.
func Uses(kind SourceKind, sourceRefs ...string) bool {
	for _, ref := range sourceRefs {
		if Classify(ref) == kind {
			return true
		}
	}
	return false
}

// =============================================================================
// ROUTER
// =============================================================================

// Router dispatches each source ref to the reader for its kind.
type Router struct {
	readers map[SourceKind]Reader
}

// NewRouter creates a Router with the local readers registered. Register a
// spreadsheet reader with Handle when any branch uses one.
func NewRouter() *Router {
	return &Router{
		readers: map[SourceKind]Reader{
			KindWorkbook: NewWorkbookReader(),
			KindCSVDir:   NewCSVDirReader(),
		},
	}
}

// Handle registers (or replaces) the reader for a kind.
func (r *Router) Handle(kind SourceKind, reader Reader) *Router {
	r.readers[kind] = reader
	return r
}

// ListTabs implements Reader.
func (r *Router) ListTabs(ctx context.Context, sourceRef string) ([]types.RawTab, error) {
	kind := Classify(sourceRef)
	reader, ok := r.readers[kind]
	if !ok || reader == nil {
		return nil, fmt.Errorf("no %s reader configured for %q: %w", kind, sourceRef, types.ErrSourceUnavailable)
	}
	return reader.ListTabs(ctx, sourceRef)
}
