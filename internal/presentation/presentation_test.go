package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/sales-master/internal/types"
)

func sampleSet() types.MasterRecordSet {
	return types.MasterRecordSet{
		{Ordinal: 0, Date: "2024-01-01", Branch: "Airport", CustomerName: "Alice", IMEI: "35abc01", InvoiceValue: "1,200.50"},
		{Ordinal: 1, Date: "2024-01-01", Branch: "Downtown", CustomerName: "Bob", IMEI: "35XYZ02", InvoiceValue: "300"},
		{Ordinal: 2, Date: "2024-01-02", Branch: "Airport", CustomerName: "Alice", IMEI: "", InvoiceValue: "n/a"},
		{Ordinal: 3, Date: "2024-01-02", Branch: "Downtown", CustomerName: "", IMEI: "99abc03", InvoiceValue: ""},
	}
}

func ordinals(records types.MasterRecordSet) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Ordinal
	}
	return out
}

func TestFilterApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{name: "zero value shows everything", filter: Filter{}, want: []int{0, 1, 2, 3}},
		{name: "all passthrough", filter: Filter{Branch: All, Date: All}, want: []int{0, 1, 2, 3}},
		{name: "branch", filter: Filter{Branch: "Airport"}, want: []int{0, 2}},
		{name: "date", filter: Filter{Date: "2024-01-02"}, want: []int{2, 3}},
		{name: "branch and date", filter: Filter{Branch: "Downtown", Date: "2024-01-01"}, want: []int{1}},
		{name: "imei substring ignores case", filter: Filter{IMEI: "ABC"}, want: []int{0, 3}},
		{name: "imei upper in data", filter: Filter{IMEI: "xyz"}, want: []int{1}},
		{name: "no match", filter: Filter{Branch: "Harbour"}, want: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ordinals(tt.filter.Apply(sampleSet())))
		})
	}
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	records := sampleSet()
	_ = Filter{Branch: "Airport"}.Apply(records)
	assert.Equal(t, sampleSet(), records)
}

func TestOptions(t *testing.T) {
	records := sampleSet()
	assert.Equal(t, []string{All, "Airport", "Downtown"}, BranchOptions(records))
	assert.Equal(t, []string{All, "2024-01-01", "2024-01-02"}, DateOptions(records, All))
	assert.Equal(t, []string{All}, BranchOptions(nil))
}

func TestOptionsFollowSnapshotOrderAndBranch(t *testing.T) {
	records := types.MasterRecordSet{
		{Date: "2024-01-03", Branch: "Harbour"},
		{Date: "2024-01-01", Branch: "Airport"},
		{Date: "2024-01-02", Branch: "Harbour"},
	}

	assert.Equal(t, []string{All, "Harbour", "Airport"}, BranchOptions(records))
	assert.Equal(t, []string{All, "2024-01-02", "2024-01-03"}, DateOptions(records, "Harbour"))
	assert.Equal(t, []string{All, "2024-01-01"}, DateOptions(records, "Airport"))
	assert.Equal(t, []string{All}, DateOptions(records, "Nowhere"))
	assert.Equal(t, []string{All, "2024-01-01", "2024-01-02", "2024-01-03"}, DateOptions(records, ""))
}

func TestComputeMetrics(t *testing.T) {
	m := ComputeMetrics(sampleSet())
	assert.Equal(t, 2, m.TotalCustomers)
	assert.Equal(t, 4, m.TotalSales)
	assert.Equal(t, 3, m.UniqueIMEIs)
	assert.Equal(t, "1500.50", m.InvoiceTotal.StringFixed(2))
	assert.Equal(t, 1, m.UnparsableInvoices)
}

func TestComputeMetricsEmpty(t *testing.T) {
	m := ComputeMetrics(nil)
	assert.Zero(t, m.TotalSales)
	assert.True(t, m.InvoiceTotal.IsZero())
}

func TestParseAmount(t *testing.T) {
	d, ok := ParseAmount(" 1,250.00 ")
	require.True(t, ok)
	assert.Equal(t, "1250", d.String())

	_, ok = ParseAmount("KES 100")
	assert.False(t, ok)
	_, ok = ParseAmount("")
	assert.False(t, ok)
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleSet(), 2)
	assert.Contains(t, out, "Customer Name")
	assert.Contains(t, out, "35abc01")
	assert.NotContains(t, out, "99abc03")
	assert.Contains(t, out, "2 more row(s)")

	all := RenderTable(sampleSet(), 0)
	assert.Contains(t, all, "99abc03")
	assert.NotContains(t, all, "more row(s)")
}

func TestRenderMetrics(t *testing.T) {
	out := RenderMetrics(ComputeMetrics(sampleSet()))
	assert.Contains(t, out, "Total Customers")
	assert.Contains(t, out, "1500.50")
	assert.Contains(t, out, "could not be read")
}
