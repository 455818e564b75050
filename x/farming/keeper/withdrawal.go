package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/farmd/x/farming/types"
)

// RequestWithdrawal arms the caller's withdrawal timelock and settles any
// pending reward. A new request replaces any earlier one and restarts the
// clock. Callers with nothing deposited are rejected.
func (k *Keeper) RequestWithdrawal(ctx context.Context, caller string, poolID uint64) (types.WithdrawalStatus, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height, now := sdkCtx.BlockHeight(), sdkCtx.BlockTime().Unix()

	params := k.GetParams(sdkCtx)
	if params.Paused {
		return types.WithdrawalStatus{}, types.ErrContractPaused
	}
	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return types.WithdrawalStatus{}, types.ErrPoolNotFound
	}
	pos := k.GetPosition(sdkCtx, poolID, caller)
	if pos == nil || !pos.DepositedAmount.IsPositive() {
		return types.WithdrawalStatus{}, types.ErrInsufficientPrincipal.Wrap("nothing deposited")
	}
	investor := k.IsPrivateInvestor(sdkCtx, caller)
	if investor && !params.InvestorsUnlocked(now) {
		return types.WithdrawalStatus{}, types.ErrInvestorLockActive
	}

	cacheCtx, write := sdkCtx.CacheContext()

	if err := k.updatePool(cacheCtx, params, pool, height); err != nil {
		return types.WithdrawalStatus{}, err
	}
	paid, err := k.settlePosition(cacheCtx, params, pool, pos, height, now)
	if err != nil {
		return types.WithdrawalStatus{}, err
	}
	pos.WithdrawalRequestedAt = now

	k.SetPool(cacheCtx, pool)
	k.SetPosition(cacheCtx, pos)
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdrawalRequested,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyAccount, caller),
			sdk.NewAttribute(types.AttributeKeyRequestedAt, strconv.FormatInt(now, 10)),
			sdk.NewAttribute(types.AttributeKeyReward, paid.String()),
		),
	)

	k.logger.Info("Withdrawal requested",
		"pool_id", poolID,
		"account", caller,
		"requested_at", now,
		"private_investor", investor,
		"reward_paid", paid.String(),
	)

	return types.NewWithdrawalStatus(now, now, params.WaitDuration(investor), params.WithdrawalWindow), nil
}

// Withdraw returns amount of principal to the caller once the request is
// active. The request stays armed while principal remains and is cleared
// when the position is emptied. Returns the remaining principal and the
// reward paid during settlement.
func (k *Keeper) Withdraw(ctx context.Context, caller string, poolID uint64, amount math.Int) (math.Int, math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	height, now := sdkCtx.BlockHeight(), sdkCtx.BlockTime().Unix()
	zero := math.ZeroInt()

	params := k.GetParams(sdkCtx)
	if params.Paused {
		return zero, zero, types.ErrContractPaused
	}
	pool := k.GetPool(sdkCtx, poolID)
	if pool == nil {
		return zero, zero, types.ErrPoolNotFound
	}
	if amount.IsNil() || !amount.IsPositive() {
		return zero, zero, types.ErrInvalidAmount
	}
	pos := k.getOrCreatePosition(sdkCtx, poolID, caller)
	if amount.GT(pos.DepositedAmount) {
		return zero, zero, types.ErrInsufficientPrincipal
	}

	investor := k.IsPrivateInvestor(sdkCtx, caller)
	switch types.WithdrawalStateAt(pos.WithdrawalRequestedAt, now, params.WaitDuration(investor), params.WithdrawalWindow) {
	case types.WithdrawalNoRequest:
		return zero, zero, types.ErrNoWithdrawalRequest
	case types.WithdrawalRequested:
		return zero, zero, types.ErrTimelockNotElapsed
	case types.WithdrawalExpired:
		return zero, zero, types.ErrRequestExpired
	}

	cacheCtx, write := sdkCtx.CacheContext()

	if err := k.updatePool(cacheCtx, params, pool, height); err != nil {
		return zero, zero, err
	}
	paid, err := k.settlePosition(cacheCtx, params, pool, pos, height, now)
	if err != nil {
		return zero, zero, err
	}

	if pos.DepositedAmount, err = pos.DepositedAmount.SafeSub(amount); err != nil {
		return zero, zero, types.ErrRewardOverflow
	}
	if pool.TotalStaked, err = pool.TotalStaked.SafeSub(amount); err != nil {
		return zero, zero, types.ErrRewardOverflow
	}
	if err := resetRewardDebt(pool, pos); err != nil {
		return zero, zero, err
	}
	if pos.DepositedAmount.IsZero() {
		pos.WithdrawalRequestedAt = 0
	}

	if err := k.tokenKeeper.Transfer(cacheCtx, pool.StakeToken, caller, amount); err != nil {
		return zero, zero, types.NewCollaboratorError("transfer", err)
	}

	k.SetPool(cacheCtx, pool)
	k.SetPosition(cacheCtx, pos)
	write()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyAccount, caller),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyReward, paid.String()),
			sdk.NewAttribute(types.AttributeKeyTotalStaked, pool.TotalStaked.String()),
		),
	)

	k.logger.Info("Withdrawal processed",
		"pool_id", poolID,
		"account", caller,
		"amount", amount.String(),
		"remaining", pos.DepositedAmount.String(),
		"reward_paid", paid.String(),
	)

	return pos.DepositedAmount, paid, nil
}

// GetWithdrawalStatus returns the derived timelock state of a position
func (k *Keeper) GetWithdrawalStatus(ctx context.Context, poolID uint64, addr string) (types.WithdrawalStatus, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if k.GetPool(sdkCtx, poolID) == nil {
		return types.WithdrawalStatus{}, types.ErrPoolNotFound
	}
	params := k.GetParams(sdkCtx)
	pos := k.getOrCreatePosition(sdkCtx, poolID, addr)
	wait := params.WaitDuration(k.IsPrivateInvestor(sdkCtx, addr))
	return types.NewWithdrawalStatus(pos.WithdrawalRequestedAt, sdkCtx.BlockTime().Unix(), wait, params.WithdrawalWindow), nil
}
