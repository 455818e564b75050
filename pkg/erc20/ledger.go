// Package erc20 implements a fungible token ledger with ERC20 balance and
// allowance semantics on top of a KVStore. It backs the farming module's
// token collaborator outside of x/bank, with all writes going through the
// caller's context so they commit or roll back with the surrounding
// operation.
package erc20

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const codespace = "erc20"

// Revert reasons, returned verbatim
var (
	ErrTransferExceedsBalance   = errors.Register(codespace, 1, "ERC20: transfer amount exceeds balance")
	ErrTransferExceedsAllowance = errors.Register(codespace, 2, "ERC20: transfer amount exceeds allowance")
	ErrZeroAddress              = errors.Register(codespace, 3, "ERC20: transfer to the zero address")
	ErrApproveZeroAddress       = errors.Register(codespace, 4, "ERC20: approve to the zero address")
	ErrNegativeAmount           = errors.Register(codespace, 5, "ERC20: negative amount")
)

var (
	balanceKeyPrefix   = []byte{0x01}
	allowanceKeyPrefix = []byte{0x02}
	supplyKeyPrefix    = []byte{0x03}
)

// Ledger is a multi-denom ERC20 ledger. Escrow is the account the farming
// module holds funds in; it is the spender for TransferFrom.
type Ledger struct {
	storeKey storetypes.StoreKey
	escrow   string
}

// NewLedger creates a ledger over storeKey with the given escrow account
func NewLedger(storeKey storetypes.StoreKey, escrow string) *Ledger {
	return &Ledger{storeKey: storeKey, escrow: escrow}
}

// Escrow returns the escrow account
func (l *Ledger) Escrow() string {
	return l.escrow
}

func lengthPrefixed(s string) []byte {
	return append([]byte{byte(len(s))}, s...)
}

func balanceKey(denom, addr string) []byte {
	key := append([]byte{}, balanceKeyPrefix...)
	key = append(key, lengthPrefixed(denom)...)
	return append(key, addr...)
}

func allowanceKey(denom, owner, spender string) []byte {
	key := append([]byte{}, allowanceKeyPrefix...)
	key = append(key, lengthPrefixed(denom)...)
	key = append(key, lengthPrefixed(owner)...)
	return append(key, spender...)
}

func supplyKey(denom string) []byte {
	return append(append([]byte{}, supplyKeyPrefix...), denom...)
}

func (l *Ledger) get(ctx sdk.Context, key []byte) math.Int {
	bz := ctx.KVStore(l.storeKey).Get(key)
	if bz == nil {
		return math.ZeroInt()
	}
	var v math.Int
	if err := v.Unmarshal(bz); err != nil {
		return math.ZeroInt()
	}
	return v
}

func (l *Ledger) set(ctx sdk.Context, key []byte, v math.Int) {
	store := ctx.KVStore(l.storeKey)
	if v.IsZero() {
		store.Delete(key)
		return
	}
	bz, _ := v.Marshal()
	store.Set(key, bz)
}

// BalanceOf returns addr's balance of denom
func (l *Ledger) BalanceOf(ctx sdk.Context, denom, addr string) math.Int {
	return l.get(ctx, balanceKey(denom, addr))
}

// TotalSupply returns the minted supply of denom
func (l *Ledger) TotalSupply(ctx sdk.Context, denom string) math.Int {
	return l.get(ctx, supplyKey(denom))
}

// Allowance returns how much spender may move out of owner's balance
func (l *Ledger) Allowance(ctx sdk.Context, denom, owner, spender string) math.Int {
	return l.get(ctx, allowanceKey(denom, owner, spender))
}

// Mint creates amount of denom in to's balance
func (l *Ledger) Mint(ctx sdk.Context, denom, to string, amount math.Int) error {
	if to == "" {
		return ErrZeroAddress
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	l.set(ctx, balanceKey(denom, to), l.BalanceOf(ctx, denom, to).Add(amount))
	l.set(ctx, supplyKey(denom), l.TotalSupply(ctx, denom).Add(amount))
	return nil
}

// Approve sets spender's allowance over owner's balance
func (l *Ledger) Approve(ctx sdk.Context, denom, owner, spender string, amount math.Int) error {
	if spender == "" {
		return ErrApproveZeroAddress
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	l.set(ctx, allowanceKey(denom, owner, spender), amount)
	return nil
}

// Send moves amount from one balance to another
func (l *Ledger) Send(ctx sdk.Context, denom, from, to string, amount math.Int) error {
	if to == "" {
		return ErrZeroAddress
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	fromBal := l.BalanceOf(ctx, denom, from)
	if fromBal.LT(amount) {
		return ErrTransferExceedsBalance
	}
	l.set(ctx, balanceKey(denom, from), fromBal.Sub(amount))
	l.set(ctx, balanceKey(denom, to), l.BalanceOf(ctx, denom, to).Add(amount))
	return nil
}

// SendFrom moves amount out of from's balance on behalf of spender. The
// balance is checked before the allowance.
func (l *Ledger) SendFrom(ctx sdk.Context, denom, spender, from, to string, amount math.Int) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if l.BalanceOf(ctx, denom, from).LT(amount) {
		return ErrTransferExceedsBalance
	}
	allowance := l.Allowance(ctx, denom, from, spender)
	if allowance.LT(amount) {
		return ErrTransferExceedsAllowance
	}
	if err := l.Send(ctx, denom, from, to, amount); err != nil {
		return err
	}
	l.set(ctx, allowanceKey(denom, from, spender), allowance.Sub(amount))
	return nil
}

// Transfer pays amount out of the escrow account
func (l *Ledger) Transfer(ctx sdk.Context, denom, to string, amount math.Int) error {
	return l.Send(ctx, denom, l.escrow, to, amount)
}

// TransferFrom pulls amount from an account into escrow using the
// allowance granted to escrow
func (l *Ledger) TransferFrom(ctx sdk.Context, denom, from string, amount math.Int) error {
	return l.SendFrom(ctx, denom, l.escrow, from, l.escrow, amount)
}
