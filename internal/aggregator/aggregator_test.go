package aggregator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/sales-master/internal/types"
)

func rec(date, branch, imei, customer string) types.CanonicalRecord {
	return types.CanonicalRecord{Date: date, Branch: branch, IMEI: imei, CustomerName: customer}
}

func TestAggregateFirstWinsAcrossBranches(t *testing.T) {
	branchA := []types.CanonicalRecord{rec("2024-01-02", "A", "IMEI999", "from A")}
	branchB := []types.CanonicalRecord{rec("2024-01-01", "B", "IMEI999", "from B")}

	set, stats := Aggregate([][]types.CanonicalRecord{branchA, branchB}, Options{})

	require.Len(t, set, 1)
	assert.Equal(t, "from A", set[0].CustomerName)
	assert.Equal(t, "A", set[0].Branch)
	assert.Equal(t, Stats{Input: 2, Duplicates: 1, Output: 1}, stats)
}

func TestAggregateLastWins(t *testing.T) {
	batches := [][]types.CanonicalRecord{
		{rec("d1", "A", "X", "first"), rec("d1", "A", "Y", "y")},
		{rec("d2", "B", "X", "last")},
	}

	set, _ := Aggregate(batches, Options{Policy: LastWins})

	require.Len(t, set, 2)
	assert.Equal(t, "y", set[0].CustomerName)
	assert.Equal(t, "last", set[1].CustomerName)
}

func TestAggregateIMEIMatchesExactly(t *testing.T) {
	batches := [][]types.CanonicalRecord{{
		rec("d", "A", "IMEI1 ", "padded"),
		rec("d", "A", "IMEI1", "plain"),
	}}

	set, stats := Aggregate(batches, Options{})
	assert.Len(t, set, 2)
	assert.Equal(t, 0, stats.Duplicates)
}

func TestAggregateEmptyIMEI(t *testing.T) {
	batches := [][]types.CanonicalRecord{{
		rec("d", "A", "", "one"),
		rec("d", "A", "", "two"),
		rec("d", "A", "I1", "three"),
	}}

	collapsed, _ := Aggregate(batches, Options{})
	require.Len(t, collapsed, 2)
	assert.Equal(t, "one", collapsed[0].CustomerName)

	exempt, stats := Aggregate(batches, Options{ExemptEmptyIMEI: true})
	assert.Len(t, exempt, 3)
	assert.Equal(t, 0, stats.Duplicates)
}

func TestAggregateSortIsStable(t *testing.T) {
	batches := [][]types.CanonicalRecord{
		{rec("2024-01-02", "B", "1", "b1"), rec("2024-01-01", "B", "2", "b2")},
		{rec("2024-01-01", "A", "3", "a1"), rec("2024-01-02", "B", "4", "b3")},
		{rec("2024-01-01", "B", "5", "b4")},
	}

	set, _ := Aggregate(batches, Options{})

	var got []string
	for i, r := range set {
		assert.Equal(t, i, r.Ordinal)
		got = append(got, r.CustomerName)
	}
	assert.Equal(t, []string{"a1", "b2", "b4", "b1", "b3"}, got)
}

func TestAggregateIsIdempotent(t *testing.T) {
	var batches [][]types.CanonicalRecord
	for b := 0; b < 3; b++ {
		var batch []types.CanonicalRecord
		for i := 0; i < 20; i++ {
			batch = append(batch, rec(
				fmt.Sprintf("2024-01-%02d", i%5+1),
				fmt.Sprintf("branch-%d", b),
				fmt.Sprintf("IMEI%d", (b*7+i)%25),
				fmt.Sprintf("c-%d-%d", b, i),
			))
		}
		batches = append(batches, batch)
	}

	first, _ := Aggregate(batches, Options{})
	second, _ := Aggregate(batches, Options{})
	assert.Equal(t, first, second)

	seen := map[string]bool{}
	for _, r := range first {
		assert.False(t, seen[r.IMEI], "duplicate IMEI %s", r.IMEI)
		seen[r.IMEI] = true
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	batch := []types.CanonicalRecord{rec("d2", "A", "1", "x"), rec("d1", "A", "2", "y")}
	_, _ = Aggregate([][]types.CanonicalRecord{batch}, Options{})

	assert.Equal(t, "d2", batch[0].Date)
	assert.Equal(t, 0, batch[1].Ordinal)
}

func TestAggregateEmpty(t *testing.T) {
	set, stats := Aggregate(nil, Options{})
	assert.Empty(t, set)
	assert.Equal(t, Stats{}, stats)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, FirstWins, p)

	p, err = ParsePolicy(" LAST_WINS ")
	require.NoError(t, err)
	assert.Equal(t, LastWins, p)

	_, err = ParsePolicy("random")
	assert.Error(t, err)
}
