package cycle

import (
	"context"
	"testing"
	"time"

	"github.com/dripsnetwork/sdk-go/core/types"
	"github.com/golang-sql/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleAt(t *testing.T) {
	tests := []struct {
		name      string
		at        int64
		cycleSecs int64
		start     int64
	}{
		{name: "start of cycle", at: 600, cycleSecs: 100, start: 600},
		{name: "middle of cycle", at: 650, cycleSecs: 100, start: 600},
		{name: "last second of cycle", at: 699, cycleSecs: 100, start: 600},
		{name: "weekly cycle", at: 1_700_000_000, cycleSecs: DefaultCycleSecs, start: 1_699_488_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := CycleAt(time.Unix(tt.at, 0), tt.cycleSecs)
			require.NoError(t, err)
			assert.Equal(t, tt.start, info.CurrentCycleStart.Unix())
			assert.Equal(t, tt.cycleSecs, info.CycleDurationSeconds)
			assert.Equal(t, tt.start+tt.cycleSecs, info.End().Unix())
		})
	}

	t.Run("non-positive length", func(t *testing.T) {
		_, err := CycleAt(time.Unix(10, 0), 0)
		assert.ErrorIs(t, err, types.ErrInvalidCycle)
	})
}

func TestResolver(t *testing.T) {
	r := NewResolver(100)
	r.Clock = func() time.Time { return time.Unix(1_234, 0) }

	info, err := r.Resolve(context.Background())
	require.NoError(t, err)

	window := info.Window()
	assert.Equal(t, int64(1_200), window.From.Unix())
	assert.Equal(t, int64(1_300), window.To.Unix())
	assert.True(t, window.ExcludeTo)
	assert.Equal(t, civil.Date{Year: 1970, Month: time.January, Day: 1}, info.StartDate())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Resolve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
