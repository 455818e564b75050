package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/farmd/x/farming/types"
)

// DepositTo pulls amount of the pool's stake token from sender and credits
// it to recipient's position. Pending reward on the recipient's position is
// settled first. Returns the reward paid during settlement.
func (k *Keeper) DepositTo(ctx context.Context, sender string, poolID uint64, amount math.Int, recipient string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height, now := sdkCtx.BlockHeight(), sdkCtx.BlockTime().Unix()

	params := k.GetParams(sdkCtx)
	if params.Paused {
		return math.ZeroInt(), types.ErrContractPaused
	}
	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotFound
	}
	if amount.IsNil() || !amount.IsPositive() {
		return math.ZeroInt(), types.ErrInvalidAmount
	}

	cacheCtx, write := sdkCtx.CacheContext()

	if err := k.updatePool(cacheCtx, params, pool, height); err != nil {
		return math.ZeroInt(), err
	}
	pos := k.getOrCreatePosition(cacheCtx, poolID, recipient)
	paid, err := k.settlePosition(cacheCtx, params, pool, pos, height, now)
	if err != nil {
		return math.ZeroInt(), err
	}

	if pos.DepositedAmount, err = pos.DepositedAmount.SafeAdd(amount); err != nil {
		return math.ZeroInt(), types.ErrRewardOverflow
	}
	if pool.TotalStaked, err = pool.TotalStaked.SafeAdd(amount); err != nil {
		return math.ZeroInt(), types.ErrRewardOverflow
	}
	if err := resetRewardDebt(pool, pos); err != nil {
		return math.ZeroInt(), err
	}

	// Pulled after settlement so the incoming principal is never counted as
	// reward reserve
	if err := k.tokenKeeper.TransferFrom(cacheCtx, pool.StakeToken, sender, amount); err != nil {
		return math.ZeroInt(), types.NewCollaboratorError("transferFrom", err)
	}

	k.SetPool(cacheCtx, pool)
	k.SetPosition(cacheCtx, pos)
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyAccount, sender),
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyReward, paid.String()),
			sdk.NewAttribute(types.AttributeKeyTotalStaked, pool.TotalStaked.String()),
		),
	)

	k.logger.Info("Deposit processed",
		"pool_id", poolID,
		"sender", sender,
		"recipient", recipient,
		"amount", amount.String(),
		"reward_paid", paid.String(),
	)

	return paid, nil
}
