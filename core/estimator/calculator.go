package estimator

import (
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/dripsnetwork/sdk-go/core/types"
)

var millisPerSecond = apd.NewBigInt(1000)

// ReceiverInput is a single receiver as configured in one history item.
type ReceiverInput struct {
	Receiver types.Receiver
	SenderID string
	Item     types.HistoryItem
	// Next is the following history item, nil if Item is the latest one
	Next *types.HistoryItem
}

// ReceiverResult is what a receiver's stream amounted to within one history item.
type ReceiverResult struct {
	Streamed        *apd.BigInt
	AmountPerSecond *apd.BigInt
	// StreamingFrom and StreamingUntil delimit the covered interval; both are zero for a
	// paused stream
	StreamingFrom  time.Time
	StreamingUntil time.Time
}

// EstimateReceiver computes how much the receiver's stream transferred during the part of
// in.Item that falls in the query window, and whether it is still live at the next boundary.
func EstimateReceiver(in ReceiverInput, q Query) ReceiverResult {
	cfg := in.Receiver.Config
	if cfg == nil {
		return ReceiverResult{Streamed: new(apd.BigInt), AmountPerSecond: new(apd.BigInt)}
	}

	itemStart := in.Item.Timestamp.UnixMilli()

	configuredStart := itemStart
	if cfg.Start > 0 {
		configuredStart = int64(cfg.Start) * 1000
	}

	streamingFrom := max(itemStart, configuredStart, q.Window.From.UnixMilli())
	if sq, ok := q.squeezedAt(in.SenderID, in.Item.HistoryHash); ok {
		streamingFrom = max(streamingFrom, sq.UnixMilli())
	}

	nextTimestamp := q.Now.UnixMilli()
	if in.Next != nil {
		nextTimestamp = in.Next.Timestamp.UnixMilli()
	}

	streamingUntil := min(nextTimestamp, q.Window.To.UnixMilli())
	if in.Item.RunsOutOfFunds != nil {
		streamingUntil = min(streamingUntil, in.Item.RunsOutOfFunds.UnixMilli())
	}
	if cfg.Duration > 0 {
		streamingUntil = min(streamingUntil, configuredStart+int64(cfg.Duration)*1000)
	}

	validDuration := max(streamingUntil-streamingFrom, 0)

	streamed := new(apd.BigInt).Mul(apd.NewBigInt(validDuration), amountPerSecond(cfg))
	// both operands are non-negative, so truncation is floor
	streamed.Quo(streamed, millisPerSecond)

	rate := new(apd.BigInt)
	if streamingUntil >= nextTimestamp && streamingFrom < nextTimestamp {
		rate.Set(amountPerSecond(cfg))
	}

	return ReceiverResult{
		Streamed:        streamed,
		AmountPerSecond: rate,
		StreamingFrom:   time.UnixMilli(streamingFrom),
		StreamingUntil:  time.UnixMilli(streamingUntil),
	}
}

func amountPerSecond(cfg *types.StreamConfig) *apd.BigInt {
	if cfg.AmountPerSecond == nil {
		return new(apd.BigInt)
	}
	return cfg.AmountPerSecond
}
