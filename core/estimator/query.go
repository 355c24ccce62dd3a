package estimator

import (
	"time"

	"github.com/dripsnetwork/sdk-go/core/types"
)

// Query carries everything an estimate depends on besides the history itself.
type Query struct {
	Window types.TimeWindow
	// Squeezes lists history items already partially collected by receivers
	Squeezes []types.SqueezeEvent
	// Now stands in for the next history item's timestamp when there is none
	Now time.Time
}

// squeezedAt returns the timestamp of the first squeeze by sender claiming the history item.
func (q Query) squeezedAt(senderID, historyHash string) (time.Time, bool) {
	for _, s := range q.Squeezes {
		if s.SenderID == senderID && s.Claims(historyHash) {
			return s.BlockTimestamp, true
		}
	}
	return time.Time{}, false
}
