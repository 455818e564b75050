package app

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"

	farmingtypes "github.com/openalpha/farmd/x/farming/types"
)

// farmingBankAdapter moves farm tokens through the bank module. The farming
// module account is the escrow for staked principal and the reward reserve.
type farmingBankAdapter struct {
	bank   bankkeeper.Keeper
	module string
}

var _ farmingtypes.TokenKeeper = farmingBankAdapter{}

func newFarmingBankAdapter(bank bankkeeper.Keeper, module string) farmingtypes.TokenKeeper {
	return farmingBankAdapter{bank: bank, module: module}
}

func (a farmingBankAdapter) Transfer(ctx sdk.Context, denom, to string, amount math.Int) error {
	if a.bank == nil {
		return fmt.Errorf("bank keeper not set")
	}
	recipient, err := sdk.AccAddressFromBech32(to)
	if err != nil {
		return err
	}
	coins, err := toCoins(denom, amount)
	if err != nil {
		return err
	}
	return a.bank.SendCoinsFromModuleToAccount(ctx, a.module, recipient, coins)
}

func (a farmingBankAdapter) TransferFrom(ctx sdk.Context, denom, from string, amount math.Int) error {
	if a.bank == nil {
		return fmt.Errorf("bank keeper not set")
	}
	sender, err := sdk.AccAddressFromBech32(from)
	if err != nil {
		return err
	}
	coins, err := toCoins(denom, amount)
	if err != nil {
		return err
	}
	return a.bank.SendCoinsFromAccountToModule(ctx, sender, a.module, coins)
}

func (a farmingBankAdapter) BalanceOf(ctx sdk.Context, denom, addr string) math.Int {
	if a.bank == nil {
		return math.ZeroInt()
	}
	acc, err := sdk.AccAddressFromBech32(addr)
	if err != nil {
		return math.ZeroInt()
	}
	return a.bank.GetBalance(ctx, acc, denom).Amount
}

func toCoins(denom string, amount math.Int) (sdk.Coins, error) {
	if err := sdk.ValidateDenom(denom); err != nil {
		return nil, err
	}
	if amount.IsNil() || amount.IsNegative() {
		return nil, fmt.Errorf("invalid amount: %s", amount)
	}
	return sdk.NewCoins(sdk.NewCoin(denom, amount)), nil
}
