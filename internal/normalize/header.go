// =============================================================================
// Sales Master - Header Locator
// =============================================================================
//
// Branch sheets are maintained by hand, so the header row is not at a fixed
// position: some tabs open with a title block, a blank line, or a totals row.
// The locator scans from the top and takes the first row that mentions the
// anchor word (by default "CUSTOMER") in any cell.
//
// =============================================================================

package normalize

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/sales-master/internal/types"
)

// DefaultAnchor is the header anchor observed across every known sheet variant.
const DefaultAnchor = "CUSTOMER"

// MinTabRows is the minimum number of rows a tab needs before it is searched.
// Anything shorter cannot hold a header plus one data row.
const MinTabRows = 2

// LocateHeader returns the index of the first row with a cell whose trimmed,
// upper-cased text contains anchor.
//
// PARAMETERS:
//   - rows: The raw tab rows.
//   - anchor: The substring to look for. An empty anchor falls back to DefaultAnchor.
//
// RETURNS:
//   - The zero-based header row index.
//   - types.ErrEmptyTab if the tab has fewer than MinTabRows rows.
//   - types.ErrHeaderNotFound if no row mentions the anchor.
func LocateHeader(rows [][]string, anchor string) (int, error) {
	if len(rows) < MinTabRows {
		return -1, fmt.Errorf("%d row(s): %w", len(rows), types.ErrEmptyTab)
	}

	anchor = normalizeHeaderCell(anchor)
	if anchor == "" {
		anchor = DefaultAnchor
	}

	for i, row := range rows {
		for _, cell := range row {
			if strings.Contains(normalizeHeaderCell(cell), anchor) {
				return i, nil
			}
		}
	}

	return -1, fmt.Errorf("no cell contains %q: %w", anchor, types.ErrHeaderNotFound)
}

// normalizeHeaderCell trims and upper-cases a header cell.
func normalizeHeaderCell(cell string) string {
	return strings.ToUpper(strings.TrimSpace(cell))
}
