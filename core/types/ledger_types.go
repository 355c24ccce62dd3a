package types

import (
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/golang-sql/civil"
)

// MaxEndNone and MaxEndUnlimited are the MaxEnd values the ledger uses for a balance that never depletes.
const (
	MaxEndNone      uint64 = 0
	MaxEndUnlimited uint64 = 1<<32 - 1
)

// EmptyReceiversHash is the hash the ledger stores for an empty receivers list.
const EmptyReceiversHash = "0x0000000000000000000000000000000000000000000000000000000000000000"

// RawReceiverEntry is a receiver config as reported by a single ledger event.
type RawReceiverEntry struct {
	ReceiverID string `validate:"required"`
	// StreamID is the slot number, reported for paused slots as well
	StreamID uint32
	// Config is nil for a slot reported without an active configuration. Its StreamID is
	// ignored in favor of the entry's.
	Config *StreamConfig
}

// RawHistoryEvent is a ledger event for one (sender, token) pair, as returned by the indexer.
// ReceiverEntries may omit receivers that are unchanged since an earlier event with the same
// ReceiversHash.
type RawHistoryEvent struct {
	SenderID     string `validate:"required"`
	TokenAddress string `validate:"required"`
	// Balance is in raw token units, not yet scaled
	Balance *apd.BigInt `validate:"required"`
	// MaxEnd is in seconds; MaxEndNone and MaxEndUnlimited mean the balance never depletes
	MaxEnd          uint64
	BlockTimestamp  int64  `validate:"min=0"`
	ReceiversHash   string `validate:"required"`
	HistoryHash     string `validate:"required"`
	ReceiverEntries []RawReceiverEntry `validate:"dive"`
}

// CycleInfo describes the accounting cycle the current-cycle estimate is computed for.
type CycleInfo struct {
	CurrentCycleStart    time.Time `validate:"required"`
	CycleDurationSeconds int64 `validate:"gt=0"`
}

// End returns the first instant after the cycle.
func (c CycleInfo) End() time.Time {
	return c.CurrentCycleStart.Add(time.Duration(c.CycleDurationSeconds) * time.Second)
}

// Window returns the estimation window of the cycle.
// The cycle end belongs to the next cycle, so a history item stamped exactly at End is not
// part of the window.
func (c CycleInfo) Window() TimeWindow {
	return TimeWindow{From: c.CurrentCycleStart, To: c.End(), ExcludeTo: true}
}

// StartDate returns the UTC calendar date the cycle starts on.
func (c CycleInfo) StartDate() civil.Date {
	return civil.DateOf(c.CurrentCycleStart.UTC())
}
