package source

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"slices"
	"time"

	"github.com/dripsnetwork/sdk-go/core/types"
	"github.com/dripsnetwork/sdk-go/core/util"
	"github.com/pkg/errors"
)

// Snapshot is the JSON document a SnapshotSource is loaded from. Amounts are base-10 integer
// strings, timestamps are unix seconds.
type Snapshot struct {
	Accounts map[string]AccountSnapshot `json:"accounts"`
}

type AccountSnapshot struct {
	Events       []EventSnapshot     `json:"events"`
	KnownStreams []KnownStreamRecord `json:"known_streams"`
	Squeezes     []SqueezeRecord     `json:"squeezes"`
}

type EventSnapshot struct {
	TokenAddress   string           `json:"token_address"`
	Balance        string           `json:"balance"`
	MaxEnd         uint64           `json:"max_end"`
	BlockTimestamp int64            `json:"block_timestamp"`
	ReceiversHash  string           `json:"receivers_hash"`
	HistoryHash    string           `json:"history_hash"`
	Receivers      []ReceiverRecord `json:"receivers"`
}

type ReceiverRecord struct {
	ReceiverID string `json:"receiver_id"`
	StreamID   uint32 `json:"stream_id"`
	// Config is null for a paused slot
	Config *ConfigRecord `json:"config"`
}

type ConfigRecord struct {
	AmountPerSecond string `json:"amount_per_second"`
	Start           uint32 `json:"start"`
	Duration        uint32 `json:"duration"`
}

type KnownStreamRecord struct {
	TokenAddress string `json:"token_address"`
	ReceiverID   string `json:"receiver_id"`
	StreamID     uint32 `json:"stream_id"`
}

type SqueezeRecord struct {
	SenderID       string   `json:"sender_id"`
	HistoryHashes  []string `json:"history_hashes"`
	BlockTimestamp int64    `json:"block_timestamp"`
}

// SnapshotSource serves account history and squeezes from an in-memory snapshot.
type SnapshotSource struct {
	snapshot Snapshot
}

var (
	_ types.HistorySource     = (*SnapshotSource)(nil)
	_ types.KnownStreamSource = (*SnapshotSource)(nil)
	_ types.SqueezeSource     = (*SnapshotSource)(nil)
)

// NewSnapshotSource decodes a JSON snapshot.
func NewSnapshotSource(r io.Reader) (*SnapshotSource, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(err, "failed to decode snapshot")
	}
	return &SnapshotSource{snapshot: s}, nil
}

// LoadSnapshotFile reads a JSON snapshot from disk.
func LoadSnapshotFile(path string) (*SnapshotSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	return NewSnapshotSource(f)
}

func (s *SnapshotSource) account(ctx context.Context, accountID string) (AccountSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return AccountSnapshot{}, errors.WithStack(err)
	}
	acc, ok := s.snapshot.Accounts[accountID]
	if !ok {
		return AccountSnapshot{}, errors.Wrapf(types.ErrAccountNotFound, "account %s", accountID)
	}
	return acc, nil
}

// GetAccountHistory decodes the account's events into raw history events.
func (s *SnapshotSource) GetAccountHistory(ctx context.Context, accountID string) ([]types.RawHistoryEvent, error) {
	acc, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}

	events := make([]types.RawHistoryEvent, 0, len(acc.Events))
	for _, e := range acc.Events {
		balance, err := util.ParseAmount(e.Balance)
		if err != nil {
			return nil, errors.Wrapf(err, "event %s balance", e.HistoryHash)
		}

		entries := make([]types.RawReceiverEntry, 0, len(e.Receivers))
		for _, r := range e.Receivers {
			entry := types.RawReceiverEntry{ReceiverID: r.ReceiverID, StreamID: r.StreamID}
			if r.Config != nil {
				amount, err := util.ParseAmount(r.Config.AmountPerSecond)
				if err != nil {
					return nil, errors.Wrapf(err, "event %s receiver %s amount per second", e.HistoryHash, r.ReceiverID)
				}
				entry.Config = &types.StreamConfig{
					StreamID:        r.StreamID,
					AmountPerSecond: amount,
					Start:           r.Config.Start,
					Duration:        r.Config.Duration,
				}
			}
			entries = append(entries, entry)
		}

		events = append(events, types.RawHistoryEvent{
			SenderID:        accountID,
			TokenAddress:    e.TokenAddress,
			Balance:         balance,
			MaxEnd:          e.MaxEnd,
			BlockTimestamp:  e.BlockTimestamp,
			ReceiversHash:   e.ReceiversHash,
			HistoryHash:     e.HistoryHash,
			ReceiverEntries: entries,
		})
	}

	return events, nil
}

// GetKnownStreams returns the stream slots declared for the account.
func (s *SnapshotSource) GetKnownStreams(ctx context.Context, accountID string) ([]types.StreamRef, error) {
	acc, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}

	refs := make([]types.StreamRef, 0, len(acc.KnownStreams))
	for _, k := range acc.KnownStreams {
		refs = append(refs, types.StreamRef{
			SenderID:     accountID,
			TokenAddress: k.TokenAddress,
			ReceiverID:   k.ReceiverID,
			StreamID:     k.StreamID,
		})
	}
	return refs, nil
}

// GetSqueezeEvents returns the squeezes recorded against the account's streams.
func (s *SnapshotSource) GetSqueezeEvents(ctx context.Context, accountID string) ([]types.SqueezeEvent, error) {
	acc, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}

	squeezes := make([]types.SqueezeEvent, 0, len(acc.Squeezes))
	for _, sq := range acc.Squeezes {
		squeezes = append(squeezes, types.SqueezeEvent{
			SenderID:       sq.SenderID,
			HistoryHashes:  sq.HistoryHashes,
			BlockTimestamp: time.Unix(sq.BlockTimestamp, 0),
		})
	}
	return squeezes, nil
}

// AccountIDs lists the accounts present in the snapshot, sorted.
func (s *SnapshotSource) AccountIDs() []string {
	ids := make([]string, 0, len(s.snapshot.Accounts))
	for id := range s.snapshot.Accounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
