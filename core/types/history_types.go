package types

import (
	"math"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Forever is used as the open end of a TimeWindow.
var Forever = time.UnixMilli(math.MaxInt64)

// HistoryItem is one immutable snapshot of an asset config, active from Timestamp until the
// next item's Timestamp (or indefinitely for the latest item).
type HistoryItem struct {
	Timestamp time.Time
	// Balance is scaled by AmtPerSecMultiplier
	Balance *apd.BigInt
	// RunsOutOfFunds is nil when the balance never depletes under this configuration
	RunsOutOfFunds *time.Time
	Receivers      []Receiver
	HistoryHash    string
	ReceiversHash  string
}

// AssetConfig is the change history of one sender's streams for a single token.
type AssetConfig struct {
	TokenAddress string
	// History is ordered by ascending Timestamp
	History []HistoryItem
}

// CurrentReceivers returns the receivers of the most recent history item.
func (a AssetConfig) CurrentReceivers() []Receiver {
	if len(a.History) == 0 {
		return nil
	}
	return a.History[len(a.History)-1].Receivers
}

// Account groups every asset config of a single sender.
type Account struct {
	ID           string
	AssetConfigs []AssetConfig
}

// TimeWindow bounds an estimate, both ends inclusive unless ExcludeTo is set.
type TimeWindow struct {
	From time.Time
	To   time.Time
	// ExcludeTo leaves out history items stamped exactly at To. Streaming is bounded by To
	// either way.
	ExcludeTo bool
}

// AllTime is the window covering the whole history.
func AllTime() TimeWindow {
	return TimeWindow{From: time.UnixMilli(0), To: Forever}
}

// SqueezeEvent records that a receiver already collected the funds streamed under the
// listed history items up to BlockTimestamp.
type SqueezeEvent struct {
	SenderID       string   `validate:"required"`
	HistoryHashes  []string `validate:"required,min=1"`
	BlockTimestamp time.Time `validate:"required"`
}

// Claims reports whether the squeeze covers the given history item.
func (s SqueezeEvent) Claims(historyHash string) bool {
	for _, h := range s.HistoryHashes {
		if h == historyHash {
			return true
		}
	}
	return false
}
