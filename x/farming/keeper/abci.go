package keeper

import (
	"strconv"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/farmd/metrics"
	"github.com/openalpha/farmd/x/farming/types"
)

// EndBlocker publishes per-pool staking state. Accrual itself is lazy and
// happens when a position is touched.
func (k *Keeper) EndBlocker(ctx sdk.Context) error {
	start := time.Now()
	height := ctx.BlockHeight()

	params := k.GetParams(ctx)
	pools := k.GetAllPools(ctx)
	collector := metrics.GetCollector()
	active := 0
	for _, pool := range pools {
		collector.RecordPoolState(pool.ID, pool.StakeToken, pool.TotalStaked, pool.RewardWeight)
		if height >= pool.StartBlock && height < pool.EndBlock {
			active++
		}
	}
	collector.RecordPaused(params.Paused)
	collector.BlockHeight.Set(float64(height))

	k.logger.Debug("Farming EndBlocker completed",
		"block", height,
		"pools", len(pools),
		"active_pools", active,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEpoch,
			sdk.NewAttribute(types.AttributeKeyBlockHeight, strconv.FormatInt(height, 10)),
			sdk.NewAttribute("active_pools", strconv.Itoa(active)),
		),
	)
	return nil
}
