package types

import "github.com/cockroachdb/apd/v3"

// StreamEstimate is the reconstructed state of a single stream.
//
// All amounts are fixed-point integers scaled by AmtPerSecMultiplier.
type StreamEstimate struct {
	ID                     string
	TotalStreamed          *apd.BigInt
	CurrentAmountPerSecond *apd.BigInt
	ReceiverID             string
	SenderID               string
	TokenAddress           string
}

// EstimateTotals sums the stream estimates of an asset config.
type EstimateTotals struct {
	TotalStreamed        *apd.BigInt
	TotalAmountPerSecond *apd.BigInt
	RemainingBalance     *apd.BigInt
}

// AssetConfigEstimate is the estimate of one asset config over one time window.
type AssetConfigEstimate struct {
	Streams []StreamEstimate
	Totals  EstimateTotals
}

// ReceiverTotals is the sum of every stream flowing to a single receiver.
type ReceiverTotals struct {
	ReceiverID           string
	TotalStreamed        *apd.BigInt
	TotalAmountPerSecond *apd.BigInt
}

// ByReceiver groups the stream estimates by receiver, keeping the order in which receivers
// first appear.
func (e AssetConfigEstimate) ByReceiver() []ReceiverTotals {
	var out []ReceiverTotals
	index := make(map[string]int)

	for _, s := range e.Streams {
		i, ok := index[s.ReceiverID]
		if !ok {
			i = len(out)
			index[s.ReceiverID] = i
			out = append(out, ReceiverTotals{
				ReceiverID:           s.ReceiverID,
				TotalStreamed:        new(apd.BigInt),
				TotalAmountPerSecond: new(apd.BigInt),
			})
		}
		out[i].TotalStreamed.Add(out[i].TotalStreamed, s.TotalStreamed)
		out[i].TotalAmountPerSecond.Add(out[i].TotalAmountPerSecond, s.CurrentAmountPerSecond)
	}

	return out
}

// TokenEstimate holds both scopes estimated for a single token.
type TokenEstimate struct {
	Total        AssetConfigEstimate
	CurrentCycle AssetConfigEstimate
	// Cycle is the cycle CurrentCycle was estimated for
	Cycle CycleInfo
}

// AccountEstimate maps token addresses to their estimates.
type AccountEstimate map[string]TokenEstimate
