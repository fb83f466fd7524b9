// =============================================================================
// Sales Master - Aggregator
// =============================================================================
//
// The aggregator merges the record batches of every tab of every branch into
// the master record set.
//
// ALGORITHM:
//   1. Concatenate batches in arrival order (branch declaration order, then
//      tab order within the branch).
//   2. Deduplicate by IMEI. The default policy keeps the first occurrence.
//   3. Stable-sort by (Date, Branch) ascending; ties keep post-dedup order.
//   4. Assign dense zero-based ordinals.
//
// KNOWN EDGE CASES:
//   - A device resold at another branch/date keeps only its first entry under
//     FirstWins. LastWins is available for sources where the newest entry is
//     authoritative.
//   - Blank IMEIs dedup against each other unless ExemptEmptyIMEI is set, so
//     by default at most one blank-IMEI record survives.
//
// =============================================================================

package aggregator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ginjaninja78/sales-master/internal/types"
)

// Policy selects which occurrence of a duplicate IMEI survives.
type Policy string

const (
	// FirstWins keeps the earliest occurrence in arrival order.
	FirstWins Policy = "first_wins"

	// LastWins keeps the latest occurrence in arrival order.
	LastWins Policy = "last_wins"
)

// ParsePolicy converts a configuration value to a Policy. An empty value
// yields FirstWins.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", FirstWins:
		return FirstWins, nil
	case LastWins:
		return LastWins, nil
	default:
		return "", fmt.Errorf("unknown dedup policy %q (want %q or %q)", s, FirstWins, LastWins)
	}
}

// Options controls deduplication.
type Options struct {
	// Policy selects the surviving duplicate. Default: FirstWins.
	Policy Policy

	// ExemptEmptyIMEI keeps every record with a blank IMEI instead of
	// collapsing them into one.
	ExemptEmptyIMEI bool
}

// Stats summarizes one aggregation.
type Stats struct {
	// Input is the number of records across all batches.
	Input int

	// Duplicates is the number of records discarded by deduplication.
	Duplicates int

	// Output is the size of the master record set.
	Output int
}

// Aggregate merges batches into a master record set. The input is not
// modified; the same input always yields the same output.
func Aggregate(batches [][]types.CanonicalRecord, opts Options) (types.MasterRecordSet, Stats) {
	var all []types.CanonicalRecord
	for _, batch := range batches {
		all = append(all, batch...)
	}

	deduped := dedupe(all, opts)

	slices.SortStableFunc(deduped, func(a, b types.CanonicalRecord) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Branch, b.Branch)
	})

	for i := range deduped {
		deduped[i].Ordinal = i
	}

	stats := Stats{
		Input:      len(all),
		Duplicates: len(all) - len(deduped),
		Output:     len(deduped),
	}
	return types.MasterRecordSet(deduped), stats
}

// dedupe removes duplicate IMEIs while keeping the survivors in arrival order.
func dedupe(records []types.CanonicalRecord, opts Options) []types.CanonicalRecord {
	// keep[i] is true when records[i] survives.
	keep := make([]bool, len(records))
	seen := make(map[string]int, len(records))

	for i, rec := range records {
		if rec.IMEI == "" && opts.ExemptEmptyIMEI {
			keep[i] = true
			continue
		}

		prev, dup := seen[rec.IMEI]
		switch {
		case !dup:
			seen[rec.IMEI] = i
			keep[i] = true
		case opts.Policy == LastWins:
			keep[prev] = false
			seen[rec.IMEI] = i
			keep[i] = true
		}
	}

	out := make([]types.CanonicalRecord, 0, len(seen))
	for i, rec := range records {
		if keep[i] {
			out = append(out, rec)
		}
	}
	return out
}
