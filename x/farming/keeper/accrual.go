package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/farmd/x/farming/types"
)

// rewardPerBlock returns the pool's share of the global emission
func (k *Keeper) rewardPerBlock(ctx sdk.Context, params types.Params, poolID uint64) (math.Int, error) {
	pools := k.GetAllPools(ctx)
	weights := make([]uint64, len(pools))
	idx := -1
	for i, p := range pools {
		weights[i] = p.RewardWeight
		if p.ID == poolID {
			idx = i
		}
	}
	if idx < 0 {
		return math.Int{}, types.ErrPoolNotFound
	}
	shares, err := k.weighting.Shares(params.TokensFarmedPerBlock, weights)
	if err != nil {
		return math.Int{}, err
	}
	if len(shares) != len(weights) {
		return math.Int{}, types.ErrInvalidParams.Wrap("weighting returned wrong share count")
	}
	return shares[idx], nil
}

// updatePool advances the pool accumulator to height. Blocks with nothing
// staked are skipped without emission.
func (k *Keeper) updatePool(ctx sdk.Context, params types.Params, pool *types.Pool, height int64) error {
	if height <= pool.LastRewardBlock {
		return nil
	}
	blocks := types.EligibleBlocks(pool.LastRewardBlock, height, pool.StartBlock, pool.EndBlock)
	if blocks > 0 && pool.TotalStaked.IsPositive() {
		perBlock, err := k.rewardPerBlock(ctx, params, pool.ID)
		if err != nil {
			return err
		}
		reward, err := perBlock.SafeMul(math.NewInt(blocks))
		if err != nil {
			return types.ErrRewardOverflow
		}
		scaled, err := reward.SafeMul(types.AccPrecision)
		if err != nil {
			return types.ErrRewardOverflow
		}
		acc, err := pool.AccRewardPerShare.SafeAdd(scaled.Quo(pool.TotalStaked))
		if err != nil {
			return types.ErrRewardOverflow
		}
		pool.AccRewardPerShare = acc
	}
	pool.LastRewardBlock = height
	return nil
}

// massUpdatePools settles every pool at height. Called before anything that
// changes the emission split so past blocks keep their old price.
func (k *Keeper) massUpdatePools(ctx sdk.Context, params types.Params, height int64) error {
	for _, pool := range k.GetAllPools(ctx) {
		if err := k.updatePool(ctx, params, pool, height); err != nil {
			return err
		}
		k.SetPool(ctx, pool)
	}
	return nil
}

// accumulated returns deposited * acc / precision
func accumulated(pool *types.Pool, pos *types.UserPosition) (math.Int, error) {
	gross, err := pos.DepositedAmount.SafeMul(pool.AccRewardPerShare)
	if err != nil {
		return math.Int{}, types.ErrRewardOverflow
	}
	return gross.Quo(types.AccPrecision), nil
}

// pendingReward returns what the position is owed given an up-to-date pool
func pendingReward(pool *types.Pool, pos *types.UserPosition) (math.Int, error) {
	acc, err := accumulated(pool, pos)
	if err != nil {
		return math.Int{}, err
	}
	pending, err := acc.SafeSub(pos.RewardDebt)
	if err != nil {
		return math.Int{}, types.ErrRewardOverflow
	}
	if pending.IsNegative() {
		pending = math.ZeroInt()
	}
	pending, err = pending.SafeAdd(pos.Unclaimed)
	if err != nil {
		return math.Int{}, types.ErrRewardOverflow
	}
	return pending, nil
}

// resetRewardDebt checkpoints the position against the current accumulator.
// Must follow every principal change.
func resetRewardDebt(pool *types.Pool, pos *types.UserPosition) error {
	debt, err := accumulated(pool, pos)
	if err != nil {
		return err
	}
	pos.RewardDebt = debt
	return nil
}

// availableReward returns the escrow's reward token balance less the
// principal staked in pools that stake the reward token
func (k *Keeper) availableReward(ctx sdk.Context, params types.Params) math.Int {
	available := k.tokenKeeper.BalanceOf(ctx, params.RewardToken, k.escrow)
	for _, pool := range k.GetAllPools(ctx) {
		if pool.StakeToken == params.RewardToken {
			available = available.Sub(pool.TotalStaked)
		}
	}
	if available.IsNegative() {
		return math.ZeroInt()
	}
	return available
}

// settlePosition moves pending reward out of the accumulator. When claims are
// open it is paid to the owner up to the available reserve and added to
// TotalRewarded; whatever is not paid is carried in Unclaimed. Must run
// before the pool's TotalStaked changes. Returns the amount paid.
func (k *Keeper) settlePosition(ctx sdk.Context, params types.Params, pool *types.Pool, pos *types.UserPosition, height, now int64) (math.Int, error) {
	paid := math.ZeroInt()
	pending, err := pendingReward(pool, pos)
	if err != nil {
		return paid, err
	}
	pos.Unclaimed = pending
	if pending.IsPositive() && params.ClaimsOpen(now) {
		paid = math.MinInt(pending, k.availableReward(ctx, params))
		if paid.IsPositive() {
			total, err := pos.TotalRewarded.SafeAdd(paid)
			if err != nil {
				return math.ZeroInt(), types.ErrRewardOverflow
			}
			if err := k.tokenKeeper.Transfer(ctx, params.RewardToken, pos.Owner, paid); err != nil {
				return math.ZeroInt(), types.NewCollaboratorError("transfer", err)
			}
			pos.TotalRewarded = total
			pos.Unclaimed = pending.Sub(paid)
		}
		if pos.Unclaimed.IsPositive() {
			k.logger.Warn("Reward reserve short, carrying remainder",
				"pool_id", pos.PoolID,
				"account", pos.Owner,
				"paid", paid.String(),
				"unpaid", pos.Unclaimed.String(),
			)
		}
	}
	pos.LastAccrualBlock = height
	if err := resetRewardDebt(pool, pos); err != nil {
		return paid, err
	}
	return paid, nil
}

// previewPool returns a copy of the pool advanced to height without writing it
func (k *Keeper) previewPool(ctx sdk.Context, params types.Params, pool *types.Pool, height int64) (*types.Pool, error) {
	preview := *pool
	if err := k.updatePool(ctx, params, &preview, height); err != nil {
		return nil, err
	}
	return &preview, nil
}
