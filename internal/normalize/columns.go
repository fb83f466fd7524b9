// =============================================================================
// Sales Master - Column Mapper
// =============================================================================
//
// No two branch tabs reliably agree on column names or positions. The mapper
// resolves each canonical field against the located header row using a
// priority-ordered alias table. The table is data: supporting a new header
// spelling means adding an alias, not changing code.
//
// ALIAS TABLE (defaults):
//   | Canonical field | Accepted headers (first match wins)     |
//   |-----------------|-----------------------------------------|
//   | Customer Name   | CUSTOMER NAME, CUSTOMER CONTACT         |
//   | Contact         | CONTACT, CUSTOMER CONTACT               |
//   | Acc Inv No      | ACC INV NO                              |
//   | Item            | ITEM                                    |
//   | Description     | ITEM DESCRIPTION                        |
//   | IMEI            | SERIAL NUMBER / IMEI                    |
//   | Supplier        | SUPPLIER NAME                           |
//   | Cost            | COST                                    |
//   | Invoice Value   | INVOICE VALUE                           |
//   | Sales Person    | SALES PERSON                            |
//
// Date and Branch are never read from the sheet; they are stamped by the
// record builder.
//
// =============================================================================

package normalize

import (
	"github.com/ginjaninja78/sales-master/internal/types"
)

// AliasTable maps a canonical field to its accepted header spellings in
// priority order. Spellings are compared after trimming and upper-casing.
type AliasTable map[types.Field][]string

// DefaultAliases returns a fresh copy of the built-in alias table.
func DefaultAliases() AliasTable {
	return AliasTable{
		types.FieldCustomerName: {"CUSTOMER NAME", "CUSTOMER CONTACT"},
		types.FieldContact:      {"CONTACT", "CUSTOMER CONTACT"},
		types.FieldAccInvoiceNo: {"ACC INV NO"},
		types.FieldItem:         {"ITEM"},
		types.FieldDescription:  {"ITEM DESCRIPTION"},
		types.FieldIMEI:         {"SERIAL NUMBER / IMEI"},
		types.FieldSupplier:     {"SUPPLIER NAME"},
		types.FieldCost:         {"COST"},
		types.FieldInvoiceValue: {"INVOICE VALUE"},
		types.FieldSalesPerson:  {"SALES PERSON"},
	}
}

// Extend returns a new table with extra aliases appended after the existing
// ones for each field. The receiver is not modified.
func (t AliasTable) Extend(extra map[types.Field][]string) AliasTable {
	out := make(AliasTable, len(t))
	for f, aliases := range t {
		out[f] = append([]string(nil), aliases...)
	}
	for f, aliases := range extra {
		out[f] = append(out[f], aliases...)
	}
	return out
}

// sheetFields are the fields resolved from sheet columns, in canonical order.
var sheetFields = []types.Field{
	types.FieldCustomerName,
	types.FieldContact,
	types.FieldAccInvoiceNo,
	types.FieldItem,
	types.FieldDescription,
	types.FieldIMEI,
	types.FieldSupplier,
	types.FieldCost,
	types.FieldInvoiceValue,
	types.FieldSalesPerson,
}

// ColumnIndex maps a canonical field to its column position in a tab.
// Fields that are not present in the map are absent from the tab.
type ColumnIndex map[types.Field]int

// Lookup returns the column position of a field and whether it is present.
func (c ColumnIndex) Lookup(f types.Field) (int, bool) {
	i, ok := c[f]
	return i, ok
}

// MapColumns resolves every sheet-sourced canonical field against a header row.
//
// PARAMETERS:
//   - header: The located header row, as raw cells.
//   - aliases: The alias table to resolve against.
//
// RETURNS:
//   - A ColumnIndex. Fields with no matching alias are left out (absent).
//
// MATCHING RULES:
//   - Header cells and aliases are trimmed and upper-cased before comparison.
//   - Aliases are tried in priority order; the first one present wins.
//   - If the same header text appears in several columns, the leftmost is used.
func MapColumns(header []string, aliases AliasTable) ColumnIndex {
	positions := make(map[string]int, len(header))
	for i, cell := range header {
		name := normalizeHeaderCell(cell)
		if name == "" {
			continue
		}
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	index := make(ColumnIndex, len(sheetFields))
	for _, f := range sheetFields {
		for _, alias := range aliases[f] {
			if pos, ok := positions[normalizeHeaderCell(alias)]; ok {
				index[f] = pos
				break
			}
		}
	}

	return index
}
