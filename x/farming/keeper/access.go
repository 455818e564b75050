package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/farmd/x/farming/types"
)

// Pause stops all economic operations
func (k *Keeper) Pause(ctx context.Context, caller string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(sdkCtx)
	if !params.IsAdmin(caller) {
		return types.ErrNotAdmin()
	}
	if params.Paused {
		return types.ErrAlreadyPaused
	}
	params.Paused = true
	k.SetParams(sdkCtx, params)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(types.EventTypePaused, sdk.NewAttribute(types.AttributeKeyAccount, caller)),
	)
	k.logger.Info("Farm paused", "account", caller)
	return nil
}

// Unpause resumes economic operations
func (k *Keeper) Unpause(ctx context.Context, caller string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(sdkCtx)
	if !params.IsAdmin(caller) {
		return types.ErrNotAdmin()
	}
	if !params.Paused {
		return types.ErrNotPaused
	}
	params.Paused = false
	k.SetParams(sdkCtx, params)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(types.EventTypeUnpaused, sdk.NewAttribute(types.AttributeKeyAccount, caller)),
	)
	k.logger.Info("Farm unpaused", "account", caller)
	return nil
}

// SetTokenPerBlock changes the global emission rate. All pools are settled
// at the old rate first.
func (k *Keeper) SetTokenPerBlock(ctx context.Context, caller string, tokensPerBlock math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(sdkCtx)
	if !params.IsManager(caller) {
		return types.ErrNotManager()
	}
	if tokensPerBlock.IsNil() || tokensPerBlock.IsNegative() {
		return types.ErrInvalidAmount
	}

	cacheCtx, write := sdkCtx.CacheContext()
	if err := k.massUpdatePools(cacheCtx, params, sdkCtx.BlockHeight()); err != nil {
		return err
	}
	params.TokensFarmedPerBlock = tokensPerBlock
	k.SetParams(cacheCtx, params)
	write()

	k.emitParamUpdate(sdkCtx, "tokens_farmed_per_block", tokensPerBlock.String())
	k.logger.Info("Emission rate updated", "tokens_per_block", tokensPerBlock.String())
	return nil
}

// SetNoRewardClaimsUntil moves the claim gate
func (k *Keeper) SetNoRewardClaimsUntil(ctx context.Context, caller string, timestamp int64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(sdkCtx)
	if !params.IsManager(caller) {
		return types.ErrNotManager()
	}
	if timestamp < 0 {
		return types.ErrInvalidParams.Wrap("negative timestamp")
	}
	params.NoRewardClaimsUntil = timestamp
	k.SetParams(sdkCtx, params)

	k.emitParamUpdate(sdkCtx, "no_reward_claims_until", strconv.FormatInt(timestamp, 10))
	k.logger.Info("Claim gate updated", "no_reward_claims_until", timestamp)
	return nil
}

func (k *Keeper) emitParamUpdate(ctx sdk.Context, param, value string) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute(types.AttributeKeyParam, param),
			sdk.NewAttribute(types.AttributeKeyValue, value),
		),
	)
}
