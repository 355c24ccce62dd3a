package types

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnresolvedReceiverHistory is returned when no receiver entries can be found for a
	// receivers hash anywhere in an event sequence.
	ErrUnresolvedReceiverHistory = errors.New("unresolved receiver history")
	// ErrInvalidHistoryEvent is returned for ledger events failing validation.
	ErrInvalidHistoryEvent = errors.New("invalid history event")
	// ErrAccountNotFound is returned by sources that know nothing about an account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidCycle is returned by cycle resolvers configured with a non-positive duration.
	ErrInvalidCycle = errors.New("invalid cycle")
)

// UnresolvedReceiverHistoryError reports the receivers hash that could not be resolved.
type UnresolvedReceiverHistoryError struct {
	SenderID      string
	TokenAddress  string
	ReceiversHash string
}

func (e *UnresolvedReceiverHistoryError) Error() string {
	return fmt.Sprintf("%s: sender %s, token %s, receivers hash %s",
		ErrUnresolvedReceiverHistory, e.SenderID, e.TokenAddress, e.ReceiversHash)
}

func (e *UnresolvedReceiverHistoryError) Is(target error) bool {
	return target == ErrUnresolvedReceiverHistory
}
