package estimator

import (
	"time"

	"github.com/dripsnetwork/sdk-go/core/types"
)

// EstimateAccount estimates every asset config of the account twice: once over its whole
// history and once over the current cycle. Squeezes only apply to the current cycle, as the
// all-time total must include what receivers already collected.
//
// Both scopes scan the full history independently.
func EstimateAccount(account types.Account, cycle types.CycleInfo, squeezes []types.SqueezeEvent, now time.Time) types.AccountEstimate {
	total := Query{Window: types.AllTime(), Now: now}
	current := Query{Window: cycle.Window(), Squeezes: squeezes, Now: now}

	out := make(types.AccountEstimate, len(account.AssetConfigs))
	for _, config := range account.AssetConfigs {
		out[config.TokenAddress] = types.TokenEstimate{
			Total:        EstimateAssetConfig(config, total),
			CurrentCycle: EstimateAssetConfig(config, current),
			Cycle:        cycle,
		}
	}

	return out
}
