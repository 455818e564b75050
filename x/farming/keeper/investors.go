package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/farmd/x/farming/types"
)

// AddInvestorAddress adds addr to the private investor set. Adding a
// member again is a no-op.
func (k *Keeper) AddInvestorAddress(ctx context.Context, caller, addr string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if !k.GetParams(sdkCtx).IsManager(caller) {
		return types.ErrNotManager()
	}
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return types.ErrInvalidAddress.Wrap(err.Error())
	}
	if k.IsPrivateInvestor(sdkCtx, addr) {
		return nil
	}
	k.setInvestor(sdkCtx, addr)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(types.EventTypeInvestorAdded, sdk.NewAttribute(types.AttributeKeyAccount, addr)),
	)
	k.logger.Info("Private investor added", "investor", addr)
	return nil
}

// RemoveInvestorAddress removes addr from the private investor set.
// Removing a non-member is a no-op.
func (k *Keeper) RemoveInvestorAddress(ctx context.Context, caller, addr string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if !k.GetParams(sdkCtx).IsManager(caller) {
		return types.ErrNotManager()
	}
	if !k.IsPrivateInvestor(sdkCtx, addr) {
		return nil
	}
	k.deleteInvestor(sdkCtx, addr)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(types.EventTypeInvestorRemoved, sdk.NewAttribute(types.AttributeKeyAccount, addr)),
	)
	k.logger.Info("Private investor removed", "investor", addr)
	return nil
}
