package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TokenKeeper is the fungible-token collaborator. Transfer pays out of the
// module escrow, TransferFrom pulls into it. Failures carry a
// human-readable reason that is surfaced unchanged.
type TokenKeeper interface {
	Transfer(ctx sdk.Context, denom, to string, amount math.Int) error
	TransferFrom(ctx sdk.Context, denom, from string, amount math.Int) error
	BalanceOf(ctx sdk.Context, denom, addr string) math.Int
}
