package estimator

import (
	"github.com/dripsnetwork/sdk-go/core/types"
)

// SelectHistoryItems returns the history items whose effective interval, from their own
// timestamp until the next item's timestamp (open-ended for the last item), intersects the
// window. An item stamped at window.To is left out when window.ExcludeTo is set. The input
// must be ordered by timestamp; the result keeps that order.
func SelectHistoryItems(history []types.HistoryItem, window types.TimeWindow) []types.HistoryItem {
	selected := make([]types.HistoryItem, 0, len(history))

	for i, item := range history {
		if item.Timestamp.After(window.To) || (window.ExcludeTo && item.Timestamp.Equal(window.To)) {
			// every later item starts after the window as well
			break
		}
		isLast := i == len(history)-1
		if isLast || history[i+1].Timestamp.After(window.From) {
			selected = append(selected, item)
		}
	}

	return selected
}
