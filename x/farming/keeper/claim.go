package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/farmd/x/farming/types"
)

// ClaimReward pays the caller's pending reward in a pool
func (k *Keeper) ClaimReward(ctx context.Context, caller string, poolID uint64) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height, now := sdkCtx.BlockHeight(), sdkCtx.BlockTime().Unix()

	params := k.GetParams(sdkCtx)
	if params.Paused {
		return math.ZeroInt(), types.ErrContractPaused
	}
	if !params.ClaimsOpen(now) {
		return math.ZeroInt(), types.ErrClaimsLocked
	}
	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotFound
	}

	cacheCtx, write := sdkCtx.CacheContext()

	if err := k.updatePool(cacheCtx, params, pool, height); err != nil {
		return math.ZeroInt(), err
	}
	pos := k.getOrCreatePosition(cacheCtx, poolID, caller)
	paid, err := k.settlePosition(cacheCtx, params, pool, pos, height, now)
	if err != nil {
		return math.ZeroInt(), err
	}
	k.SetPool(cacheCtx, pool)
	k.SetPosition(cacheCtx, pos)
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeClaim,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyAccount, caller),
			sdk.NewAttribute(types.AttributeKeyReward, paid.String()),
		),
	)

	k.logger.Info("Reward claimed",
		"pool_id", poolID,
		"account", caller,
		"reward", paid.String(),
	)

	return paid, nil
}

// GetUserInfo returns a snapshot of a position at the current block. It
// never writes state.
func (k *Keeper) GetUserInfo(ctx context.Context, poolID uint64, addr string) (types.UserInfo, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return types.UserInfo{}, types.ErrPoolNotFound
	}

	params := k.GetParams(sdkCtx)
	pos := k.getOrCreatePosition(sdkCtx, poolID, addr)
	preview, err := k.previewPool(sdkCtx, params, pool, sdkCtx.BlockHeight())
	if err != nil {
		return types.UserInfo{}, err
	}
	pending, err := pendingReward(preview, pos)
	if err != nil {
		return types.UserInfo{}, err
	}

	return types.UserInfo{
		Deposited:             pos.DepositedAmount,
		TotalRewarded:         pos.TotalRewarded,
		PendingReward:         pending,
		WithdrawalRequestedAt: pos.WithdrawalRequestedAt,
		IsPrivateInvestor:     k.IsPrivateInvestor(sdkCtx, addr),
	}, nil
}
