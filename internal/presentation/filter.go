// =============================================================================
// Sales Master - Presentation Layer
// =============================================================================
//
// The presentation layer is a read-only view over the master snapshot. It
// never mutates records and never talks to branch sources.
//
// FILTERS:
//   - Branch : exact match, or "All"
//   - Date   : exact match, or "All"
//   - IMEI   : case-insensitive substring, or empty
//
// Filtered records keep the ordinal they have in the master set so a row can
// always be traced back to the snapshot.
//
// =============================================================================

package presentation

import (
	"slices"
	"strings"

	"github.com/ginjaninja78/sales-master/internal/types"
)

// All is the option that disables a branch or date filter.
const All = "All"

// Filter selects a subset of the master records.
type Filter struct {
	// Branch is a branch name or All. Empty means All.
	Branch string

	// Date is a tab date or All. Empty means All.
	Date string

	// IMEI is a substring to search for, ignoring case. Empty disables it.
	IMEI string
}

// Match reports whether a record passes every active filter.
func (f Filter) Match(r types.CanonicalRecord) bool {
	if !isAll(f.Branch) && r.Branch != f.Branch {
		return false
	}
	if !isAll(f.Date) && r.Date != f.Date {
		return false
	}
	if needle := strings.TrimSpace(f.IMEI); needle != "" {
		if !strings.Contains(strings.ToLower(r.IMEI), strings.ToLower(needle)) {
			return false
		}
	}
	return true
}

// Apply returns the matching records in master order. The input is not
// modified.
func (f Filter) Apply(records []types.CanonicalRecord) types.MasterRecordSet {
	out := types.MasterRecordSet{}
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func isAll(v string) bool {
	return v == "" || v == All
}

// =============================================================================
// FILTER OPTIONS
// =============================================================================

// BranchOptions returns All followed by every distinct branch, in order of
// first appearance.
func BranchOptions(records []types.CanonicalRecord) []string {
	return append([]string{All}, distinct(records, func(r types.CanonicalRecord) string { return r.Branch })...)
}

// DateOptions returns All followed by every distinct date of the records in
// branch, sorted. An empty branch or All covers every record.
func DateOptions(records []types.CanonicalRecord, branch string) []string {
	scoped := Filter{Branch: branch}.Apply(records)
	dates := distinct(scoped, func(r types.CanonicalRecord) string { return r.Date })
	slices.Sort(dates)
	return append([]string{All}, dates...)
}

func distinct(records []types.CanonicalRecord, key func(types.CanonicalRecord) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, r := range records {
		v := key(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}
