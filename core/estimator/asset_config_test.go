package estimator

import (
	"testing"

	"github.com/dripsnetwork/sdk-go/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateHistoryItem(t *testing.T) {
	it := item(1000, "0xh1", 1_000_000_000_000,
		stream("bob", 1, 1_000_000_000),
		stream("carol", 2, 3_000_000_000),
		paused("dave", 3),
	)
	next := item(1100, "0xh2", 0)

	est := EstimateHistoryItem(testToken, it, &next, Query{Window: types.AllTime(), Now: at(5000)})

	require.Len(t, est.Streams, 3)
	assert.Equal(t, "100000000000", est.Streams[0].TotalStreamed.String())
	assert.Equal(t, "300000000000", est.Streams[1].TotalStreamed.String())
	assert.Equal(t, "0", est.Streams[2].TotalStreamed.String())
	assert.Equal(t, "0", est.Streams[2].CurrentAmountPerSecond.String())
	assert.Equal(t, testToken, est.Streams[1].TokenAddress)
	assert.Equal(t, "carol", est.Streams[1].ReceiverID)
	assert.Equal(t, testSender, est.Streams[1].SenderID)

	assert.Equal(t, "400000000000", est.Totals.TotalStreamed.String())
	assert.Equal(t, "4000000000", est.Totals.TotalAmountPerSecond.String())
	assert.Equal(t, "600000000000", est.Totals.RemainingBalance.String())
}

func TestEstimateAssetConfig(t *testing.T) {
	t.Run("paused in the latest item", func(t *testing.T) {
		const rate = 2_000_000_000
		config := types.AssetConfig{
			TokenAddress: testToken,
			History: []types.HistoryItem{
				item(1000, "0xh1", 0, stream("bob", 1, rate)),
				item(1100, "0xh2", 0, paused("bob", 1)),
			},
		}

		est := EstimateAssetConfig(config, Query{Window: window(1000, 1105), Now: at(2000)})

		require.Len(t, est.Streams, 1)
		// rate * (T1 - T0) in milliseconds / 1000
		assert.Equal(t, "200000000000", est.Streams[0].TotalStreamed.String())
		assert.Equal(t, "0", est.Streams[0].CurrentAmountPerSecond.String())
		assert.Equal(t, "0", est.Totals.TotalAmountPerSecond.String())
	})

	t.Run("rate comes from the latest occurrence", func(t *testing.T) {
		config := types.AssetConfig{
			TokenAddress: testToken,
			History: []types.HistoryItem{
				item(1000, "0xh1", 500_000_000_000, stream("bob", 1, 1_000_000_000)),
				item(1100, "0xh2", 900_000_000_000, stream("bob", 1, 3_000_000_000), stream("carol", 2, 1_000_000_000)),
			},
		}

		est := EstimateAssetConfig(config, Query{Window: types.AllTime(), Now: at(1200)})

		require.Len(t, est.Streams, 2)
		assert.Equal(t, streamID("bob", 1), est.Streams[0].ID)
		assert.Equal(t, streamID("carol", 2), est.Streams[1].ID)

		// 100s at 1/s then 100s at 3/s
		assert.Equal(t, "400000000000", est.Streams[0].TotalStreamed.String())
		assert.Equal(t, "3000000000", est.Streams[0].CurrentAmountPerSecond.String())
		assert.Equal(t, "100000000000", est.Streams[1].TotalStreamed.String())

		assert.Equal(t, "500000000000", est.Totals.TotalStreamed.String())
		assert.Equal(t, "4000000000", est.Totals.TotalAmountPerSecond.String())
		// the latest item's balance minus what it streamed itself
		assert.Equal(t, "500000000000", est.Totals.RemainingBalance.String())
	})

	t.Run("stream dropped from the latest item keeps its last rate", func(t *testing.T) {
		config := types.AssetConfig{
			TokenAddress: testToken,
			History: []types.HistoryItem{
				item(1000, "0xh1", 0, stream("bob", 1, 1_000_000_000)),
				item(1100, "0xh2", 0),
			},
		}

		est := EstimateAssetConfig(config, Query{Window: types.AllTime(), Now: at(1200)})

		require.Len(t, est.Streams, 1)
		assert.Equal(t, "100000000000", est.Streams[0].TotalStreamed.String())
		assert.Equal(t, "1000000000", est.Streams[0].CurrentAmountPerSecond.String())
	})

	t.Run("empty history", func(t *testing.T) {
		est := EstimateAssetConfig(types.AssetConfig{TokenAddress: testToken}, Query{Window: types.AllTime(), Now: at(1200)})

		assert.Empty(t, est.Streams)
		assert.Equal(t, "0", est.Totals.TotalStreamed.String())
		assert.Equal(t, "0", est.Totals.TotalAmountPerSecond.String())
		assert.Equal(t, "0", est.Totals.RemainingBalance.String())
	})

	t.Run("window before history", func(t *testing.T) {
		config := types.AssetConfig{
			TokenAddress: testToken,
			History:      []types.HistoryItem{item(1000, "0xh1", 7, stream("bob", 1, 1))},
		}

		est := EstimateAssetConfig(config, Query{Window: window(10, 20), Now: at(1200)})

		assert.Empty(t, est.Streams)
		assert.Equal(t, "0", est.Totals.RemainingBalance.String())
	})

	t.Run("remaining balance is never negative when funded", func(t *testing.T) {
		it := item(1000, "0xh1", 100_000_000_000, stream("bob", 1, 1_000_000_000))
		it.RunsOutOfFunds = atPtr(1100)
		config := types.AssetConfig{TokenAddress: testToken, History: []types.HistoryItem{it}}

		est := EstimateAssetConfig(config, Query{Window: types.AllTime(), Now: at(9000)})

		assert.Equal(t, "100000000000", est.Totals.TotalStreamed.String())
		assert.Equal(t, 0, est.Totals.RemainingBalance.Sign())
		assert.Equal(t, "0", est.Totals.TotalAmountPerSecond.String())
	})
}

func TestAssetConfigEstimate_ByReceiver(t *testing.T) {
	config := types.AssetConfig{
		TokenAddress: testToken,
		History: []types.HistoryItem{
			item(1000, "0xh1", 0,
				stream("bob", 1, 1_000_000_000),
				stream("carol", 2, 2_000_000_000),
				stream("bob", 3, 4_000_000_000),
			),
		},
	}

	est := EstimateAssetConfig(config, Query{Window: types.AllTime(), Now: at(1010)})
	byReceiver := est.ByReceiver()

	require.Len(t, byReceiver, 2)
	assert.Equal(t, "bob", byReceiver[0].ReceiverID)
	assert.Equal(t, "50000000000", byReceiver[0].TotalStreamed.String())
	assert.Equal(t, "5000000000", byReceiver[0].TotalAmountPerSecond.String())
	assert.Equal(t, "carol", byReceiver[1].ReceiverID)
	assert.Equal(t, "20000000000", byReceiver[1].TotalStreamed.String())
}
