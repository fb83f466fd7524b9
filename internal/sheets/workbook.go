// =============================================================================
// Sales Master - Workbook Reader
// =============================================================================
//
// Reads a branch source stored as a local Excel workbook. Each worksheet is
// one dated tab, exactly like a tab of the online spreadsheet. Useful for
// branches that send a downloaded copy instead of sharing their sheet.
//
// SHEET SELECTION:
//   Every worksheet is returned, whatever its name. Sheets without a header
//   row are skipped later by the normalizer, which logs them.
//
// =============================================================================

package sheets

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/sales-master/internal/types"
)

// WorkbookReader lists the worksheets of a local .xlsx file.
type WorkbookReader struct{}

// NewWorkbookReader creates a WorkbookReader.
func NewWorkbookReader() *WorkbookReader {
	return &WorkbookReader{}
}

// ListTabs implements Reader.
//
// PARAMETERS:
//   - sourceRef: The path to the workbook.
//
// RETURNS:
//   - One RawTab per worksheet, in workbook order. Cell values are
//     the formatted values Excel would display.
//   - An error wrapping types.ErrSourceUnavailable if the file cannot be
//     opened, or a joined per-sheet error for worksheets that failed to read.
func (w *WorkbookReader) ListTabs(ctx context.Context, sourceRef string) ([]types.RawTab, error) {
	f, err := excelize.OpenFile(sourceRef)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w: %w", sourceRef, types.ErrSourceUnavailable, err)
	}
	defer f.Close()

	var (
		tabs []types.RawTab
		errs []error
	)
	for _, sheetName := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := f.GetRows(sheetName)
		if err != nil {
			errs = append(errs, fmt.Errorf("sheet %q: %w: %w", sheetName, types.ErrSourceUnavailable, err))
			continue
		}

		tabs = append(tabs, types.RawTab{Title: sheetName, Rows: rows})
	}

	return tabs, errors.Join(errs...)
}
