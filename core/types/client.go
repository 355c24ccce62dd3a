package types

import (
	"context"
)

// HistorySource loads the raw ledger events of an account.
type HistorySource interface {
	// GetAccountHistory returns every history event the account emitted, across all tokens, in
	// any order
	GetAccountHistory(ctx context.Context, accountID string) ([]RawHistoryEvent, error)
}

// KnownStreamSource lists stream slots declared for an account outside of the ledger, so that
// streams missing from a history item can be reported as paused.
type KnownStreamSource interface {
	GetKnownStreams(ctx context.Context, accountID string) ([]StreamRef, error)
}

// SqueezeSource loads the squeezes already performed against an account's streams.
type SqueezeSource interface {
	GetSqueezeEvents(ctx context.Context, accountID string) ([]SqueezeEvent, error)
}

// CycleResolver resolves the current accounting cycle.
type CycleResolver interface {
	Resolve(ctx context.Context) (CycleInfo, error)
}

type Client interface {
	// LoadAccount fetches and reconciles the history of every asset config of the account
	LoadAccount(ctx context.Context, accountID string) (Account, error)
	// EstimateAccount estimates the account both for all time and for the current cycle
	EstimateAccount(ctx context.Context, accountID string) (AccountEstimate, error)
	// EstimateAccounts estimates several accounts concurrently
	EstimateAccounts(ctx context.Context, accountIDs []string) (map[string]AccountEstimate, error)
}
