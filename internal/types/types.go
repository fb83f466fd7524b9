// =============================================================================
// Sales Master - Shared Types
// =============================================================================
//
// This package contains the types shared by every stage of the ingestion
// pipeline and by the presentation layer:
//   - RawTab          : one dated tab as returned by a sheet reader
//   - Field           : the fixed canonical field set
//   - CanonicalRecord : one normalized sales transaction
//   - MasterRecordSet : the deduplicated, sorted output of a run
//
// =============================================================================

package types

// =============================================================================
// RAW INPUT
// =============================================================================

// RawTab is one tab of a branch source. The title doubles as the "date" label
// of every record built from it.
type RawTab struct {
	// Title is the tab name as shown in the source.
	Title string

	// Rows are the raw cell values, top to bottom, left to right.
	// Rows may have different lengths.
	Rows [][]string
}

// =============================================================================
// CANONICAL FIELDS
// =============================================================================

// Field names one canonical output attribute. The string value is the header
// written to the master snapshot.
type Field string

const (
	FieldDate         Field = "Date"
	FieldBranch       Field = "Branch"
	FieldCustomerName Field = "Customer Name"
	FieldContact      Field = "Contact"
	FieldAccInvoiceNo Field = "Acc Inv No"
	FieldItem         Field = "Item"
	FieldDescription  Field = "Description"
	FieldIMEI         Field = "IMEI"
	FieldSupplier     Field = "Supplier"
	FieldCost         Field = "Cost"
	FieldInvoiceValue Field = "Invoice Value"
	FieldSalesPerson  Field = "Sales Person"
)

// fieldOrder is the snapshot column order.
var fieldOrder = []Field{
	FieldDate,
	FieldBranch,
	FieldCustomerName,
	FieldContact,
	FieldAccInvoiceNo,
	FieldItem,
	FieldDescription,
	FieldIMEI,
	FieldSupplier,
	FieldCost,
	FieldInvoiceValue,
	FieldSalesPerson,
}

// Fields returns the canonical fields in snapshot column order.
// The returned slice is a copy and may be modified by the caller.
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// Header returns the snapshot header row.
func Header() []string {
	out := make([]string, len(fieldOrder))
	for i, f := range fieldOrder {
		out[i] = string(f)
	}
	return out
}

// ParseField resolves a snapshot header name to its Field.
func ParseField(name string) (Field, bool) {
	for _, f := range fieldOrder {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// =============================================================================
// CANONICAL RECORD
// =============================================================================

// CanonicalRecord is one normalized sales transaction. Every field is a plain
// string and the zero value is a valid record with every field empty, so
// consumers never need existence checks.
type CanonicalRecord struct {
	// Ordinal is the dense zero-based display position assigned by the
	// aggregator. It carries no meaning beyond ordering.
	Ordinal int

	Date         string
	Branch       string
	CustomerName string
	Contact      string
	AccInvoiceNo string
	Item         string
	Description  string
	IMEI         string
	Supplier     string
	Cost         string
	InvoiceValue string
	SalesPerson  string
}

// Get returns the value of a canonical field. Unknown fields yield "".
func (r *CanonicalRecord) Get(f Field) string {
	if p := r.slot(f); p != nil {
		return *p
	}
	return ""
}

// Set assigns a canonical field. Unknown fields are ignored.
func (r *CanonicalRecord) Set(f Field, value string) {
	if p := r.slot(f); p != nil {
		*p = value
	}
}

func (r *CanonicalRecord) slot(f Field) *string {
	switch f {
	case FieldDate:
		return &r.Date
	case FieldBranch:
		return &r.Branch
	case FieldCustomerName:
		return &r.CustomerName
	case FieldContact:
		return &r.Contact
	case FieldAccInvoiceNo:
		return &r.AccInvoiceNo
	case FieldItem:
		return &r.Item
	case FieldDescription:
		return &r.Description
	case FieldIMEI:
		return &r.IMEI
	case FieldSupplier:
		return &r.Supplier
	case FieldCost:
		return &r.Cost
	case FieldInvoiceValue:
		return &r.InvoiceValue
	case FieldSalesPerson:
		return &r.SalesPerson
	}
	return nil
}

// Values returns the record's fields in snapshot column order.
func (r CanonicalRecord) Values() []string {
	out := make([]string, len(fieldOrder))
	for i, f := range fieldOrder {
		out[i] = r.Get(f)
	}
	return out
}

// RecordFromValues builds a record from a row in snapshot column order.
// Missing trailing values are treated as empty strings; extra values are
// ignored.
func RecordFromValues(values []string) CanonicalRecord {
	var r CanonicalRecord
	for i, f := range fieldOrder {
		if i < len(values) {
			r.Set(f, values[i])
		}
	}
	return r
}

// =============================================================================
// MASTER RECORD SET
// =============================================================================

// MasterRecordSet is the deduplicated output of one ingestion run, sorted by
// (Date, Branch) with dense ordinals.
type MasterRecordSet []CanonicalRecord
