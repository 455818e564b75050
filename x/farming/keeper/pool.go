package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/farmd/x/farming/types"
)

// AddPool appends a pool to the registry and returns its index
func (k *Keeper) AddPool(ctx context.Context, caller string, rewardWeight uint64, stakeToken string, startBlock, endBlock int64, amendable bool) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height, now := sdkCtx.BlockHeight(), sdkCtx.BlockTime().Unix()

	params := k.GetParams(sdkCtx)
	if !params.IsManager(caller) {
		return 0, types.ErrNotManager()
	}
	if err := types.ValidateWindow(startBlock, endBlock); err != nil {
		return 0, err
	}
	if err := sdk.ValidateDenom(stakeToken); err != nil {
		return 0, types.ErrInvalidParams.Wrap(err.Error())
	}

	cacheCtx, write := sdkCtx.CacheContext()

	// The new weight dilutes every existing pool from this block on
	if err := k.massUpdatePools(cacheCtx, params, height); err != nil {
		return 0, err
	}

	id := k.GetPoolLength(cacheCtx)
	pool := types.NewPool(id, rewardWeight, stakeToken, startBlock, endBlock, height, now)
	pool.Amendable = amendable
	k.SetPool(cacheCtx, pool)
	k.setPoolLength(cacheCtx, id+1)

	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolAdded,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(id, 10)),
			sdk.NewAttribute(types.AttributeKeyStakeToken, stakeToken),
			sdk.NewAttribute(types.AttributeKeyRewardWeight, strconv.FormatUint(rewardWeight, 10)),
			sdk.NewAttribute(types.AttributeKeyStartBlock, strconv.FormatInt(startBlock, 10)),
			sdk.NewAttribute(types.AttributeKeyEndBlock, strconv.FormatInt(endBlock, 10)),
		),
	)

	k.logger.Info("Pool added",
		"pool_id", id,
		"stake_token", stakeToken,
		"reward_weight", rewardWeight,
		"start_block", startBlock,
		"end_block", endBlock,
		"amendable", amendable,
	)

	return id, nil
}

// AmendPool changes the weight and window of an amendable pool
func (k *Keeper) AmendPool(ctx context.Context, caller string, poolID, rewardWeight uint64, startBlock, endBlock int64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height := sdkCtx.BlockHeight()

	params := k.GetParams(sdkCtx)
	if !params.IsManager(caller) {
		return types.ErrNotManager()
	}
	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return types.ErrPoolNotFound
	}
	if !pool.Amendable {
		return types.ErrPoolNotAmendable
	}
	if err := types.ValidateWindow(startBlock, endBlock); err != nil {
		return err
	}

	cacheCtx, write := sdkCtx.CacheContext()

	if err := k.massUpdatePools(cacheCtx, params, height); err != nil {
		return err
	}
	pool = k.GetPool(cacheCtx, poolID)
	pool.RewardWeight = rewardWeight
	pool.StartBlock = startBlock
	pool.EndBlock = endBlock
	// Accrued through height at the old terms; the new window counts from here
	pool.LastRewardBlock = max(height, startBlock)
	k.SetPool(cacheCtx, pool)

	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolAmended,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyRewardWeight, strconv.FormatUint(rewardWeight, 10)),
			sdk.NewAttribute(types.AttributeKeyStartBlock, strconv.FormatInt(startBlock, 10)),
			sdk.NewAttribute(types.AttributeKeyEndBlock, strconv.FormatInt(endBlock, 10)),
		),
	)

	k.logger.Info("Pool amended",
		"pool_id", poolID,
		"reward_weight", rewardWeight,
		"start_block", startBlock,
		"end_block", endBlock,
	)
	return nil
}
