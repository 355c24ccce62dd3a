package cycle

import (
	"context"
	"time"

	"github.com/dripsnetwork/sdk-go/core/types"
	"github.com/pkg/errors"
)

// DefaultCycleSecs is the cycle length used when none is configured: one week.
const DefaultCycleSecs int64 = 7 * 24 * 60 * 60

// Resolver resolves fixed-length cycles aligned to the unix epoch.
type Resolver struct {
	CycleSecs int64
	// Clock defaults to time.Now
	Clock func() time.Time
}

var _ types.CycleResolver = (*Resolver)(nil)

// NewResolver returns a resolver for cycles of cycleSecs seconds.
func NewResolver(cycleSecs int64) *Resolver {
	return &Resolver{CycleSecs: cycleSecs, Clock: time.Now}
}

// Resolve returns the cycle the resolver's clock currently falls in.
func (r *Resolver) Resolve(ctx context.Context) (types.CycleInfo, error) {
	if err := ctx.Err(); err != nil {
		return types.CycleInfo{}, errors.WithStack(err)
	}
	now := time.Now
	if r.Clock != nil {
		now = r.Clock
	}
	return CycleAt(now(), r.CycleSecs)
}

// CycleAt returns the cycle containing t.
func CycleAt(t time.Time, cycleSecs int64) (types.CycleInfo, error) {
	if cycleSecs <= 0 {
		return types.CycleInfo{}, errors.Wrapf(types.ErrInvalidCycle, "cycle length %d", cycleSecs)
	}
	sec := t.Unix()
	start := sec - sec%cycleSecs
	if sec < 0 && sec%cycleSecs != 0 {
		start -= cycleSecs
	}
	return types.CycleInfo{
		CurrentCycleStart:    time.Unix(start, 0),
		CycleDurationSeconds: cycleSecs,
	}, nil
}
