package estimator

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/dripsnetwork/sdk-go/core/types"
)

// EstimateHistoryItem runs EstimateReceiver for every receiver of item and sums the results.
// next is the following selected history item, nil if there is none.
func EstimateHistoryItem(tokenAddress string, item types.HistoryItem, next *types.HistoryItem, q Query) types.AssetConfigEstimate {
	streams := make([]types.StreamEstimate, 0, len(item.Receivers))
	totalStreamed := new(apd.BigInt)
	totalAmountPerSecond := new(apd.BigInt)

	for _, receiver := range item.Receivers {
		res := EstimateReceiver(ReceiverInput{
			Receiver: receiver,
			SenderID: receiver.SenderID,
			Item:     item,
			Next:     next,
		}, q)

		totalStreamed.Add(totalStreamed, res.Streamed)
		totalAmountPerSecond.Add(totalAmountPerSecond, res.AmountPerSecond)

		streams = append(streams, types.StreamEstimate{
			ID:                     receiver.ID,
			TotalStreamed:          res.Streamed,
			CurrentAmountPerSecond: res.AmountPerSecond,
			ReceiverID:             receiver.ReceiverID,
			SenderID:               receiver.SenderID,
			TokenAddress:           tokenAddress,
		})
	}

	remaining := new(apd.BigInt)
	if item.Balance != nil {
		remaining.Set(item.Balance)
	}
	remaining.Sub(remaining, totalStreamed)

	return types.AssetConfigEstimate{
		Streams: streams,
		Totals: types.EstimateTotals{
			TotalStreamed:        totalStreamed,
			TotalAmountPerSecond: totalAmountPerSecond,
			RemainingBalance:     remaining,
		},
	}
}
