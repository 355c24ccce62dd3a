package estimator

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/dripsnetwork/sdk-go/core/types"
)

// EstimateAssetConfig estimates every stream of the asset config over the query window.
//
// Streamed amounts add up across all selected history items. A stream's current rate is
// taken from the last selected item it appears in; earlier occurrences contribute nothing.
// The remaining balance is the one computed for the last selected item.
func EstimateAssetConfig(config types.AssetConfig, q Query) types.AssetConfigEstimate {
	selected := SelectHistoryItems(config.History, q.Window)

	var streams []types.StreamEstimate
	index := make(map[string]int)
	remaining := new(apd.BigInt)

	for i, item := range selected {
		var next *types.HistoryItem
		if i+1 < len(selected) {
			next = &selected[i+1]
		}

		itemEstimate := EstimateHistoryItem(config.TokenAddress, item, next, q)
		for _, s := range itemEstimate.Streams {
			pos, seen := index[s.ID]
			if !seen {
				index[s.ID] = len(streams)
				streams = append(streams, s)
				continue
			}
			merged := &streams[pos]
			merged.TotalStreamed = new(apd.BigInt).Add(merged.TotalStreamed, s.TotalStreamed)
			merged.CurrentAmountPerSecond = s.CurrentAmountPerSecond
		}

		remaining = itemEstimate.Totals.RemainingBalance
	}

	totalStreamed := new(apd.BigInt)
	totalAmountPerSecond := new(apd.BigInt)
	for _, s := range streams {
		totalStreamed.Add(totalStreamed, s.TotalStreamed)
		totalAmountPerSecond.Add(totalAmountPerSecond, s.CurrentAmountPerSecond)
	}

	return types.AssetConfigEstimate{
		Streams: streams,
		Totals: types.EstimateTotals{
			TotalStreamed:        totalStreamed,
			TotalAmountPerSecond: totalAmountPerSecond,
			RemainingBalance:     remaining,
		},
	}
}
