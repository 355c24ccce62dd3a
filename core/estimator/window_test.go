package estimator

import (
	"math/rand"
	"testing"

	"github.com/dripsnetwork/sdk-go/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashes(items []types.HistoryItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.HistoryHash)
	}
	return out
}

func TestSelectHistoryItems(t *testing.T) {
	history := []types.HistoryItem{
		item(1000, "0xh1", 0),
		item(2000, "0xh2", 0),
		item(3000, "0xh3", 0),
	}

	tests := []struct {
		name     string
		window   types.TimeWindow
		expected []string
	}{
		{name: "all time", window: types.AllTime(), expected: []string{"0xh1", "0xh2", "0xh3"}},
		{name: "before history", window: window(0, 999), expected: []string{}},
		{name: "ends on first item", window: window(0, 1000), expected: []string{"0xh1"}},
		{name: "inside first item", window: window(1200, 1800), expected: []string{"0xh1"}},
		{name: "starts on item boundary", window: window(2000, 2500), expected: []string{"0xh2"}},
		{name: "spans a boundary", window: window(1500, 2500), expected: []string{"0xh1", "0xh2"}},
		{name: "after last item", window: window(5000, 6000), expected: []string{"0xh3"}},
		{name: "zero-length window", window: window(2500, 2500), expected: []string{"0xh2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hashes(SelectHistoryItems(history, tt.window)))
		})
	}

	t.Run("empty history", func(t *testing.T) {
		assert.Empty(t, SelectHistoryItems(nil, types.AllTime()))
	})
}

// threeWaySelected is the selection as three overlapping conditions, which the single
// interval predicate of SelectHistoryItems replaces.
func threeWaySelected(history []types.HistoryItem, i int, w types.TimeWindow) bool {
	ts := history[i].Timestamp
	var next *types.HistoryItem
	if i+1 < len(history) {
		next = &history[i+1]
	}

	startsWithinWindow := !ts.Before(w.From) && !ts.After(w.To)
	windowIsAfterLastEvent := next == nil && ts.Before(w.From)
	endsWithinWindow := next != nil && ts.Before(w.From) && next.Timestamp.After(w.From)

	return startsWithinWindow || windowIsAfterLastEvent || endsWithinWindow
}

func TestSelectHistoryItems_MatchesThreeWayCheck(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for run := 0; run < 2000; run++ {
		n := rnd.Intn(6)
		history := make([]types.HistoryItem, 0, n)
		ts := int64(rnd.Intn(50))
		for i := 0; i < n; i++ {
			history = append(history, item(ts, string(rune('a'+i)), 0))
			ts += 1 + int64(rnd.Intn(50))
		}

		from := int64(rnd.Intn(300))
		to := from + int64(rnd.Intn(100))
		w := window(from, to)

		var expected []string
		for i := range history {
			if threeWaySelected(history, i, w) {
				expected = append(expected, history[i].HistoryHash)
			}
		}

		got := hashes(SelectHistoryItems(history, w))
		if len(expected) == 0 {
			require.Empty(t, got, "run %d", run)
			continue
		}
		require.Equal(t, expected, got, "run %d, window [%d, %d]", run, from, to)
	}
}

func TestSelectHistoryItems_ZeroLengthItem(t *testing.T) {
	// two items sharing a timestamp: the first is active for no time at all, so it does not
	// intersect any window even though it starts inside one
	history := []types.HistoryItem{
		item(1000, "0xh1", 0),
		item(1000, "0xh2", 0),
		item(2000, "0xh3", 0),
	}

	assert.Equal(t, []string{"0xh2", "0xh3"}, hashes(SelectHistoryItems(history, window(1000, 3000))))
	assert.True(t, threeWaySelected(history, 0, window(1000, 3000)))
}

func TestSelectHistoryItems_ExcludeTo(t *testing.T) {
	history := []types.HistoryItem{
		item(1000, "0xh1", 0),
		item(2000, "0xh2", 0),
	}

	inclusive := SelectHistoryItems(history, window(1000, 2000))
	require.Len(t, inclusive, 2)

	w := window(1000, 2000)
	w.ExcludeTo = true
	exclusive := SelectHistoryItems(history, w)
	require.Len(t, exclusive, 1)
	assert.Equal(t, "0xh1", exclusive[0].HistoryHash)
}
