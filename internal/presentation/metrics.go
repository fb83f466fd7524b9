package presentation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-master/internal/types"
)

// Metrics summarizes a set of records.
type Metrics struct {
	// TotalCustomers is the number of distinct non-blank customer names.
	TotalCustomers int

	// TotalSales is the number of records.
	TotalSales int

	// UniqueIMEIs is the number of distinct non-blank IMEIs.
	UniqueIMEIs int

	// InvoiceTotal sums every invoice value that parses as a number.
	InvoiceTotal decimal.Decimal

	// UnparsableInvoices counts non-blank invoice values left out of
	// InvoiceTotal.
	UnparsableInvoices int
}

// ComputeMetrics calculates the summary metrics of records.
func ComputeMetrics(records []types.CanonicalRecord) Metrics {
	m := Metrics{
		TotalSales:   len(records),
		InvoiceTotal: decimal.Zero,
	}

	customers := make(map[string]struct{})
	imeis := make(map[string]struct{})

	for _, r := range records {
		if r.CustomerName != "" {
			customers[r.CustomerName] = struct{}{}
		}
		if r.IMEI != "" {
			imeis[r.IMEI] = struct{}{}
		}

		if strings.TrimSpace(r.InvoiceValue) == "" {
			continue
		}
		amount, ok := ParseAmount(r.InvoiceValue)
		if !ok {
			m.UnparsableInvoices++
			continue
		}
		m.InvoiceTotal = m.InvoiceTotal.Add(amount)
	}

	m.TotalCustomers = len(customers)
	m.UniqueIMEIs = len(imeis)
	return m
}

// ParseAmount parses a hand-typed money value such as "1,250.00" or
// " 300 ". Thousands separators and surrounding spaces are ignored.
func ParseAmount(s string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
