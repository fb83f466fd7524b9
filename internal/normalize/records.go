package normalize

import (
	"strings"

	"github.com/ginjaninja78/sales-master/internal/types"
)

// BuildRecords turns the data rows of one tab into canonical records.
//
// PARAMETERS:
//   - dataRows: The rows strictly after the header row.
//   - cols: The resolved column positions.
//   - tabTitle: Stamped as the Date of every record.
//   - branch: Stamped as the Branch of every record.
//
// RETURNS:
//   - One record per valid data row, in row order.
//
// A row is kept only if its customer-name cell is non-blank. When the tab has
// no customer-name column the first cell is used instead. No other structural
// check is made: short rows are padded with empty strings. Cell values are
// copied as stored; only the gate check ignores surrounding whitespace.
func BuildRecords(dataRows [][]string, cols ColumnIndex, tabTitle, branch string) []types.CanonicalRecord {
	gate, ok := cols.Lookup(types.FieldCustomerName)
	if !ok {
		gate = 0
	}

	records := make([]types.CanonicalRecord, 0, len(dataRows))
	for _, row := range dataRows {
		if strings.TrimSpace(cellAt(row, gate)) == "" {
			continue
		}

		rec := types.CanonicalRecord{
			Date:   tabTitle,
			Branch: branch,
		}
		for _, f := range sheetFields {
			if pos, ok := cols.Lookup(f); ok {
				rec.Set(f, cellAt(row, pos))
			}
		}
		records = append(records, rec)
	}

	return records
}

// cellAt safely reads a cell, returning "" past the end of the row.
func cellAt(row []string, index int) string {
	if index >= 0 && index < len(row) {
		return row[index]
	}
	return ""
}
