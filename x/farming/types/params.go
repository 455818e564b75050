package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Params is the module-wide configuration record. Manager and admin are
// plain address fields checked by IsManager and IsAdmin.
type Params struct {
	Manager                    string   `json:"manager"`
	Admin                      string   `json:"admin"`
	RewardToken                string   `json:"reward_token"`
	TokensFarmedPerBlock       math.Int `json:"tokens_farmed_per_block"`
	NoRewardClaimsUntil        int64    `json:"no_reward_claims_until"`
	InvestorsUnlockAt          int64    `json:"investors_unlock_at"`
	WithdrawalTimelock         int64    `json:"withdrawal_timelock"`
	InvestorWithdrawalTimelock int64    `json:"investor_withdrawal_timelock"`
	WithdrawalWindow           int64    `json:"withdrawal_window"`
	Paused                     bool     `json:"paused"`
}

// DefaultParams returns params with no roles assigned
func DefaultParams() Params {
	return Params{
		RewardToken:                "ufarm",
		TokensFarmedPerBlock:       math.ZeroInt(),
		WithdrawalTimelock:         DefaultWithdrawalTimelock,
		InvestorWithdrawalTimelock: DefaultInvestorWithdrawalTimelock,
		WithdrawalWindow:           DefaultWithdrawalWindow,
	}
}

// NewParams mirrors the one-shot initialisation of the farm: manager, reward
// token, emission rate, claim gate and investor unlock time. The manager is
// also the admin until configured otherwise.
func NewParams(manager, rewardToken string, tokensPerBlock math.Int, noRewardClaimsUntil, investorsUnlockAt int64) Params {
	p := DefaultParams()
	p.Manager = manager
	p.Admin = manager
	p.RewardToken = rewardToken
	p.TokensFarmedPerBlock = tokensPerBlock
	p.NoRewardClaimsUntil = noRewardClaimsUntil
	p.InvestorsUnlockAt = investorsUnlockAt
	return p
}

// IsManager reports whether addr holds the manager role
func (p Params) IsManager(addr string) bool {
	return p.Manager != "" && p.Manager == addr
}

// IsAdmin reports whether addr holds the admin role
func (p Params) IsAdmin(addr string) bool {
	return p.Admin != "" && p.Admin == addr
}

// ClaimsOpen reports whether reward claims are allowed at now
func (p Params) ClaimsOpen(now int64) bool {
	return now >= p.NoRewardClaimsUntil
}

// InvestorsUnlocked reports whether private investors may request withdrawal
func (p Params) InvestorsUnlocked(now int64) bool {
	return now >= p.InvestorsUnlockAt
}

// WaitDuration returns the timelock that applies to a depositor class
func (p Params) WaitDuration(isInvestor bool) int64 {
	if isInvestor {
		return p.InvestorWithdrawalTimelock
	}
	return p.WithdrawalTimelock
}

// Validate performs stateless validation
func (p Params) Validate() error {
	for _, role := range []struct{ name, addr string }{
		{"manager", p.Manager},
		{"admin", p.Admin},
	} {
		if role.addr == "" {
			continue
		}
		if _, err := sdk.AccAddressFromBech32(role.addr); err != nil {
			return fmt.Errorf("%w: %s address: %v", ErrInvalidParams, role.name, err)
		}
	}
	if err := sdk.ValidateDenom(p.RewardToken); err != nil {
		return fmt.Errorf("%w: reward token: %v", ErrInvalidParams, err)
	}
	if p.TokensFarmedPerBlock.IsNil() || p.TokensFarmedPerBlock.IsNegative() {
		return fmt.Errorf("%w: tokens farmed per block must be non-negative", ErrInvalidParams)
	}
	if p.NoRewardClaimsUntil < 0 || p.InvestorsUnlockAt < 0 {
		return fmt.Errorf("%w: negative timestamp", ErrInvalidParams)
	}
	if p.WithdrawalTimelock < 0 || p.WithdrawalWindow <= 0 {
		return fmt.Errorf("%w: invalid withdrawal timelock or window", ErrInvalidParams)
	}
	if p.InvestorWithdrawalTimelock < p.WithdrawalTimelock {
		return fmt.Errorf("%w: investor timelock shorter than ordinary timelock", ErrInvalidParams)
	}
	return nil
}
