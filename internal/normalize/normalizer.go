// =============================================================================
// Sales Master - Tab Normalizer
// =============================================================================
//
// The normalizer combines the header locator, column mapper and record builder
// into a single per-tab transform:
//
//   RawTab --LocateHeader--> header row --MapColumns--> ColumnIndex
//          --BuildRecords--> []CanonicalRecord
//
// STRATEGIES:
//   - "search" (default): locate the header by anchor and map columns by alias.
//   - "fixed"           : legacy positional layout (see FixedLayout). Only for
//                         sources known to follow the old template exactly.
//
// A tab that fails header discovery contributes nothing; partial tabs never
// produce partial records.
//
// =============================================================================

package normalize

import (
	"fmt"

	"github.com/ginjaninja78/sales-master/internal/types"
)

// Strategy selects how a tab's columns are discovered.
type Strategy string

const (
	// StrategySearch locates the header row and maps columns by alias.
	StrategySearch Strategy = "search"

	// StrategyFixed uses the legacy fixed row/column positions.
	StrategyFixed Strategy = "fixed"
)

// =============================================================================
// LEGACY FIXED LAYOUT
// =============================================================================

// FixedLayout describes the legacy positional template. Column indices are
// 0-based (A=0, B=1, ...). Fields left out of Columns are absent.
type FixedLayout struct {
	// DataStartRow is the first data row (0-based). Default: 2 (Row 3).
	DataStartRow int

	// Columns maps each field to its position.
	Columns ColumnIndex
}

// DefaultFixedLayout returns the legacy template: two title/header rows, then
// customer, contact, (skipped), item, description, IMEI.
func DefaultFixedLayout() FixedLayout {
	return FixedLayout{
		DataStartRow: 2, // Row 3
		Columns: ColumnIndex{
			types.FieldCustomerName: 0, // Column A
			types.FieldContact:      1, // Column B
			types.FieldItem:         3, // Column D
			types.FieldDescription:  4, // Column E
			types.FieldIMEI:         5, // Column F
		},
	}
}

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalizer converts raw tabs into canonical records. It is immutable after
// construction and safe for concurrent use.
type Normalizer struct {
	anchor   string
	aliases  AliasTable
	strategy Strategy
	fixed    FixedLayout
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithAnchor sets the header anchor substring.
func WithAnchor(anchor string) Option {
	return func(n *Normalizer) {
		if anchor != "" {
			n.anchor = anchor
		}
	}
}

// WithAliases replaces the alias table.
func WithAliases(aliases AliasTable) Option {
	return func(n *Normalizer) {
		if aliases != nil {
			n.aliases = aliases
		}
	}
}

// WithStrategy selects the column discovery strategy.
func WithStrategy(s Strategy) Option {
	return func(n *Normalizer) {
		if s != "" {
			n.strategy = s
		}
	}
}

// New creates a Normalizer with the default anchor, aliases and search strategy.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		anchor:   DefaultAnchor,
		aliases:  DefaultAliases(),
		strategy: StrategySearch,
		fixed:    DefaultFixedLayout(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NormalizeTab builds the canonical records of one tab.
//
// PARAMETERS:
//   - tab: The raw tab. Its title becomes the record Date.
//   - branch: The branch name stamped on every record.
//
// RETURNS:
//   - The records of the tab (possibly none).
//   - An error wrapping types.ErrEmptyTab or types.ErrHeaderNotFound when the
//     tab must be skipped.
func (n *Normalizer) NormalizeTab(tab types.RawTab, branch string) ([]types.CanonicalRecord, error) {
	switch n.strategy {
	case StrategyFixed:
		return n.normalizeFixed(tab, branch)
	case StrategySearch:
		return n.normalizeSearch(tab, branch)
	default:
		return nil, fmt.Errorf("unknown header strategy %q", n.strategy)
	}
}

func (n *Normalizer) normalizeSearch(tab types.RawTab, branch string) ([]types.CanonicalRecord, error) {
	headerIdx, err := LocateHeader(tab.Rows, n.anchor)
	if err != nil {
		return nil, fmt.Errorf("tab %q: %w", tab.Title, err)
	}

	cols := MapColumns(tab.Rows[headerIdx], n.aliases)
	return BuildRecords(tab.Rows[headerIdx+1:], cols, tab.Title, branch), nil
}

func (n *Normalizer) normalizeFixed(tab types.RawTab, branch string) ([]types.CanonicalRecord, error) {
	if len(tab.Rows) <= n.fixed.DataStartRow {
		return nil, fmt.Errorf("tab %q: %d row(s): %w", tab.Title, len(tab.Rows), types.ErrEmptyTab)
	}
	return BuildRecords(tab.Rows[n.fixed.DataStartRow:], n.fixed.Columns, tab.Title, branch), nil
}
