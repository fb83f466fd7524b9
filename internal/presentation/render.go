package presentation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ginjaninja78/sales-master/internal/types"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	valueStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
)

// RenderMetrics formats the metric block shown above the table.
func RenderMetrics(m Metrics) string {
	lines := []string{
		titleStyle.Render("Sales Master"),
		metricLine("Total Customers", strconv.Itoa(m.TotalCustomers)),
		metricLine("Total Sales", strconv.Itoa(m.TotalSales)),
		metricLine("Unique IMEIs", strconv.Itoa(m.UniqueIMEIs)),
		metricLine("Invoice Total", m.InvoiceTotal.StringFixed(2)),
	}
	if m.UnparsableInvoices > 0 {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("(%d invoice value(s) could not be read as numbers)", m.UnparsableInvoices)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderOptions lists the values accepted by the branch and date filters.
func RenderOptions(branches, dates []string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		metricLine("Branches", strings.Join(branches, ", ")),
		metricLine("Dates", strings.Join(dates, ", ")),
	)
}

func metricLine(label, value string) string {
	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// RenderTable renders records as a bordered table. The first column is the
// record's ordinal in the master set. A positive limit caps the number of
// rows shown and adds a trailing note about the rest.
func RenderTable(records []types.CanonicalRecord, limit int) string {
	shown := records
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	rows := make([][]string, len(shown))
	for i, r := range shown {
		rows[i] = append([]string{strconv.Itoa(r.Ordinal)}, r.Values()...)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(append([]string{"#"}, types.Header()...)...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	out := t.Render()
	if hidden := len(records) - len(shown); hidden > 0 {
		out += "\n" + labelStyle.Render(fmt.Sprintf("... %d more row(s), use --limit 0 to show all", hidden))
	}
	return out
}
