package types

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// AmtPerSecMultiplier is the fixed-point scale of every amount the estimator works with.
// Rates arrive from the ledger already multiplied by it; balances are scaled by the reconciler.
const AmtPerSecMultiplier int64 = 1_000_000_000

// StreamConfig is the decoded configuration of a single stream slot.
type StreamConfig struct {
	// StreamID is the sender-chosen slot number, stable across reconfigurations
	StreamID uint32
	// AmountPerSecond is already multiplied by AmtPerSecMultiplier
	AmountPerSecond *apd.BigInt `validate:"required"`
	// Start is a unix timestamp in seconds, 0 means the owning history item's timestamp
	Start uint32
	// Duration in seconds, 0 means the stream runs until funds run out
	Duration uint32
}

// Equal reports whether both configs describe the exact same stream setup.
func (c StreamConfig) Equal(o StreamConfig) bool {
	if c.StreamID != o.StreamID || c.Start != o.Start || c.Duration != o.Duration {
		return false
	}
	if c.AmountPerSecond == nil || o.AmountPerSecond == nil {
		return c.AmountPerSecond == o.AmountPerSecond
	}
	return c.AmountPerSecond.Cmp(o.AmountPerSecond) == 0
}

// Receiver is one outgoing stream of a sender within a history item.
type Receiver struct {
	// ID identifies the stream across history items, see StreamRef.ID
	ID         string
	SenderID   string
	ReceiverID string
	// Config is nil when the stream is paused in the owning item
	Config *StreamConfig
}

// Paused reports whether the stream has no active configuration.
func (r Receiver) Paused() bool {
	return r.Config == nil
}

// StreamRef points at a stream slot without carrying its configuration.
type StreamRef struct {
	SenderID     string `validate:"required"`
	TokenAddress string `validate:"required"`
	ReceiverID   string `validate:"required"`
	StreamID     uint32
}

// ID is the stable stream identity used to merge estimates across history items.
func (s StreamRef) ID() string {
	return fmt.Sprintf("%s-%s-%s-%d", s.SenderID, s.TokenAddress, s.ReceiverID, s.StreamID)
}
