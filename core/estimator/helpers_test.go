package estimator

import (
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/dripsnetwork/sdk-go/core/types"
)

const (
	testSender = "alice"
	testToken  = "0xtoken"
)

func at(sec int64) time.Time {
	return time.Unix(sec, 0)
}

func atPtr(sec int64) *time.Time {
	t := at(sec)
	return &t
}

func amt(v int64) *apd.BigInt {
	return apd.NewBigInt(v)
}

func streamID(receiver string, id uint32) string {
	return types.StreamRef{SenderID: testSender, TokenAddress: testToken, ReceiverID: receiver, StreamID: id}.ID()
}

func stream(receiver string, id uint32, aps int64) types.Receiver {
	return types.Receiver{
		ID:         streamID(receiver, id),
		SenderID:   testSender,
		ReceiverID: receiver,
		Config:     &types.StreamConfig{StreamID: id, AmountPerSecond: amt(aps)},
	}
}

func scheduled(receiver string, id uint32, aps int64, start, duration uint32) types.Receiver {
	r := stream(receiver, id, aps)
	r.Config.Start = start
	r.Config.Duration = duration
	return r
}

func paused(receiver string, id uint32) types.Receiver {
	return types.Receiver{ID: streamID(receiver, id), SenderID: testSender, ReceiverID: receiver}
}

func item(ts int64, hash string, balance int64, receivers ...types.Receiver) types.HistoryItem {
	return types.HistoryItem{
		Timestamp:   at(ts),
		Balance:     amt(balance),
		Receivers:   receivers,
		HistoryHash: hash,
	}
}

func window(from, to int64) types.TimeWindow {
	return types.TimeWindow{From: at(from), To: at(to)}
}
