package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "farming"
	StoreKey   = ModuleName
	// ModuleAccountName holds staked principal and the reward reserve
	ModuleAccountName = ModuleName
)

// Reward accumulator precision
var AccPrecision = math.NewInt(1_000_000_000_000) // 1e12

// Timelock defaults, in seconds
const (
	DefaultWithdrawalTimelock         = int64(7 * 24 * 60 * 60)  // 7 days
	DefaultWithdrawalWindow           = int64(2 * 24 * 60 * 60)  // 2 days
	DefaultInvestorWithdrawalTimelock = int64(14 * 24 * 60 * 60) // 14 days
)

// Pool is an independently configured reward-eligibility window over a stake token
type Pool struct {
	ID           uint64 `json:"id"`
	RewardWeight uint64 `json:"reward_weight"`
	StakeToken   string `json:"stake_token"`
	StartBlock   int64  `json:"start_block"`
	EndBlock     int64  `json:"end_block"`
	Amendable    bool   `json:"amendable"`

	TotalStaked       math.Int `json:"total_staked"`
	AccRewardPerShare math.Int `json:"acc_reward_per_share"`
	LastRewardBlock   int64    `json:"last_reward_block"`
	CreatedAt         int64    `json:"created_at"`
}

// NewPool creates a pool with empty accrual bookkeeping. Accrual starts at
// the later of the creation block and the window start.
func NewPool(id, rewardWeight uint64, stakeToken string, startBlock, endBlock, currentBlock, now int64) *Pool {
	lastReward := currentBlock
	if startBlock > lastReward {
		lastReward = startBlock
	}
	return &Pool{
		ID:                id,
		RewardWeight:      rewardWeight,
		StakeToken:        stakeToken,
		StartBlock:        startBlock,
		EndBlock:          endBlock,
		TotalStaked:       math.ZeroInt(),
		AccRewardPerShare: math.ZeroInt(),
		LastRewardBlock:   lastReward,
		CreatedAt:         now,
	}
}

// ValidateWindow checks the reward window is non-empty
func ValidateWindow(startBlock, endBlock int64) error {
	if endBlock <= startBlock {
		return ErrInvalidWindow
	}
	return nil
}

// Validate performs stateless validation of a stored pool
func (p *Pool) Validate() error {
	if p.StakeToken == "" {
		return fmt.Errorf("pool %d: empty stake token", p.ID)
	}
	if err := ValidateWindow(p.StartBlock, p.EndBlock); err != nil {
		return err
	}
	if p.TotalStaked.IsNil() || p.TotalStaked.IsNegative() {
		return fmt.Errorf("pool %d: invalid total staked", p.ID)
	}
	if p.AccRewardPerShare.IsNil() || p.AccRewardPerShare.IsNegative() {
		return fmt.Errorf("pool %d: invalid reward accumulator", p.ID)
	}
	return nil
}

// UserPosition is the per-depositor-per-pool record of principal and reward state
type UserPosition struct {
	PoolID                uint64   `json:"pool_id"`
	Owner                 string   `json:"owner"`
	DepositedAmount       math.Int `json:"deposited_amount"`
	TotalRewarded         math.Int `json:"total_rewarded"`
	RewardDebt            math.Int `json:"reward_debt"`
	Unclaimed             math.Int `json:"unclaimed"`
	LastAccrualBlock      int64    `json:"last_accrual_block"`
	WithdrawalRequestedAt int64    `json:"withdrawal_requested_at"`
}

// NewUserPosition returns a zero-valued position
func NewUserPosition(poolID uint64, owner string) *UserPosition {
	return &UserPosition{
		PoolID:          poolID,
		Owner:           owner,
		DepositedAmount: math.ZeroInt(),
		TotalRewarded:   math.ZeroInt(),
		RewardDebt:      math.ZeroInt(),
		Unclaimed:       math.ZeroInt(),
	}
}

// HasWithdrawalRequest reports whether a request is armed
func (p *UserPosition) HasWithdrawalRequest() bool {
	return p.WithdrawalRequestedAt != 0
}

// UserInfo is the read-only snapshot returned by GetUserInfo
type UserInfo struct {
	Deposited             math.Int `json:"deposited"`
	TotalRewarded         math.Int `json:"total_rewarded"`
	PendingReward         math.Int `json:"pending_reward"`
	WithdrawalRequestedAt int64    `json:"withdrawal_requested_at"`
	IsPrivateInvestor     bool     `json:"is_private_investor"`
}
