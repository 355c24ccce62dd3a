package reconcile

import (
	"sort"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/dripsnetwork/sdk-go/core/logging"
	"github.com/dripsnetwork/sdk-go/core/types"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var validate = validator.New()

// Input is the raw event sequence of a single (sender, token) pair.
type Input struct {
	SenderID     string `validate:"required"`
	TokenAddress string `validate:"required"`
	Events       []types.RawHistoryEvent
	// KnownStreams are stream slots declared for the sender. A known stream that is missing
	// from a history item is reported there as paused.
	KnownStreams []types.StreamRef `validate:"dive"`
	// Logger defaults to logging.Logger
	Logger *zap.Logger `validate:"-"`
}

// entryKey identifies a receiver entry by value.
type entryKey struct {
	receiverID string
	paused     bool
	streamID   uint32
	amount     string
	start      uint32
	duration   uint32
}

func keyOf(e types.RawReceiverEntry) entryKey {
	k := entryKey{receiverID: e.ReceiverID, streamID: e.StreamID, paused: e.Config == nil}
	if e.Config != nil {
		k.start = e.Config.Start
		k.duration = e.Config.Duration
		if e.Config.AmountPerSecond != nil {
			k.amount = e.Config.AmountPerSecond.String()
		}
	}
	return k
}

// Reconcile turns the partial ledger events of one sender and token into a time-ordered
// asset config whose history items each carry their complete receiver set.
//
// Events sharing a receivers hash describe the same receiver set, so the set is rebuilt as
// the union of every entry reported under that hash anywhere in the sequence. A hash for
// which no entry was ever reported fails with an *types.UnresolvedReceiverHistoryError,
// except for types.EmptyReceiversHash.
func Reconcile(in Input) (types.AssetConfig, error) {
	if err := validate.Struct(in); err != nil {
		return types.AssetConfig{}, errors.Wrap(types.ErrInvalidHistoryEvent, err.Error())
	}

	events := make([]types.RawHistoryEvent, len(in.Events))
	copy(events, in.Events)
	for i, e := range events {
		if err := validate.Struct(e); err != nil {
			return types.AssetConfig{}, errors.Wrapf(types.ErrInvalidHistoryEvent, "event %s: %s", e.HistoryHash, err)
		}
		if e.SenderID != in.SenderID || e.TokenAddress != in.TokenAddress {
			return types.AssetConfig{}, errors.Wrapf(types.ErrInvalidHistoryEvent,
				"event %d belongs to sender %s token %s", i, e.SenderID, e.TokenAddress)
		}
		for _, entry := range e.ReceiverEntries {
			if entry.Config != nil && entry.Config.AmountPerSecond != nil && entry.Config.AmountPerSecond.Sign() < 0 {
				return types.AssetConfig{}, errors.Wrapf(types.ErrInvalidHistoryEvent,
					"event %s: negative amount per second for receiver %s", e.HistoryHash, entry.ReceiverID)
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].BlockTimestamp < events[j].BlockTimestamp
	})

	logger := in.Logger
	if logger == nil {
		logger = logging.Logger
	}

	receiversByHash := resolveReceiverSets(events)

	history := make([]types.HistoryItem, 0, len(events))
	for _, e := range events {
		entries, ok := receiversByHash[e.ReceiversHash]
		if !ok && e.ReceiversHash != types.EmptyReceiversHash {
			logger.Warn("unresolved receivers hash",
				zap.String("sender", in.SenderID),
				zap.String("token", in.TokenAddress),
				zap.String("receivers_hash", e.ReceiversHash))
			return types.AssetConfig{}, &types.UnresolvedReceiverHistoryError{
				SenderID:      in.SenderID,
				TokenAddress:  in.TokenAddress,
				ReceiversHash: e.ReceiversHash,
			}
		}

		history = append(history, types.HistoryItem{
			Timestamp:      time.Unix(e.BlockTimestamp, 0),
			Balance:        scaleBalance(e.Balance),
			RunsOutOfFunds: runsOutOfFunds(e.MaxEnd),
			Receivers:      buildReceivers(in, entries),
			HistoryHash:    e.HistoryHash,
			ReceiversHash:  e.ReceiversHash,
		})
	}

	logger.Debug("reconciled asset config",
		zap.String("sender", in.SenderID),
		zap.String("token", in.TokenAddress),
		zap.Int("events", len(events)),
		zap.Int("receiver_sets", len(receiversByHash)))

	return types.AssetConfig{TokenAddress: in.TokenAddress, History: history}, nil
}

// resolveReceiverSets collects, per receivers hash, every distinct entry reported under it,
// in the order entries are first seen.
func resolveReceiverSets(events []types.RawHistoryEvent) map[string][]types.RawReceiverEntry {
	sets := make(map[string][]types.RawReceiverEntry)
	seen := make(map[string]map[entryKey]struct{})

	for _, e := range events {
		for _, entry := range e.ReceiverEntries {
			keys, ok := seen[e.ReceiversHash]
			if !ok {
				keys = make(map[entryKey]struct{})
				seen[e.ReceiversHash] = keys
			}
			k := keyOf(entry)
			if _, dup := keys[k]; dup {
				continue
			}
			keys[k] = struct{}{}
			sets[e.ReceiversHash] = append(sets[e.ReceiversHash], entry)
		}
	}

	return sets
}

func buildReceivers(in Input, entries []types.RawReceiverEntry) []types.Receiver {
	receivers := make([]types.Receiver, 0, len(entries)+len(in.KnownStreams))
	present := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		ref := types.StreamRef{
			SenderID:     in.SenderID,
			TokenAddress: in.TokenAddress,
			ReceiverID:   entry.ReceiverID,
			StreamID:     entry.StreamID,
		}
		var cfg *types.StreamConfig
		if entry.Config != nil {
			c := *entry.Config
			c.StreamID = entry.StreamID
			cfg = &c
		}
		id := ref.ID()
		present[id] = struct{}{}
		receivers = append(receivers, types.Receiver{
			ID:         id,
			SenderID:   in.SenderID,
			ReceiverID: entry.ReceiverID,
			Config:     cfg,
		})
	}

	for _, known := range in.KnownStreams {
		if known.SenderID != in.SenderID || known.TokenAddress != in.TokenAddress {
			continue
		}
		id := known.ID()
		if _, ok := present[id]; ok {
			continue
		}
		present[id] = struct{}{}
		receivers = append(receivers, types.Receiver{
			ID:         id,
			SenderID:   in.SenderID,
			ReceiverID: known.ReceiverID,
		})
	}

	return receivers
}

func scaleBalance(balance *apd.BigInt) *apd.BigInt {
	return new(apd.BigInt).Mul(balance, apd.NewBigInt(types.AmtPerSecMultiplier))
}

func runsOutOfFunds(maxEnd uint64) *time.Time {
	if maxEnd == types.MaxEndNone || maxEnd == types.MaxEndUnlimited {
		return nil
	}
	t := time.Unix(int64(maxEnd), 0)
	return &t
}
