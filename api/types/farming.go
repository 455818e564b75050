package types

import (
	"context"

	farmingtypes "github.com/openalpha/farmd/x/farming/types"
)

// FarmingService is what the REST handlers need from a farm backend.
// Transactions go through the module's MsgServer contract so request bodies
// decode straight into farming messages.
type FarmingService interface {
	farmingtypes.MsgServer

	// Queries
	Status(ctx context.Context) ChainStatus
	Params(ctx context.Context) (farmingtypes.Params, error)
	Pools(ctx context.Context, offset, limit uint64) ([]*farmingtypes.Pool, uint64, error)
	Pool(ctx context.Context, poolID uint64) (*farmingtypes.Pool, error)
	UserInfo(ctx context.Context, poolID uint64, addr string) (farmingtypes.UserInfo, error)
	WithdrawalStatus(ctx context.Context, poolID uint64, addr string) (farmingtypes.WithdrawalStatus, error)
	Investors(ctx context.Context) ([]string, error)
	Balance(ctx context.Context, denom, addr string) (*BalanceInfo, error)
}

// SimulatorService drives the local chain clock and token faucet. Only the
// in-memory backend implements it.
type SimulatorService interface {
	FarmingService

	Mine(ctx context.Context, blocks int64) (ChainStatus, error)
	IncreaseTime(ctx context.Context, seconds int64) (ChainStatus, error)
	Faucet(ctx context.Context, req *FaucetRequest) (*BalanceInfo, error)
	Approve(ctx context.Context, req *ApproveRequest) error
}

// ChainStatus is the simulated block clock
type ChainStatus struct {
	Height int64 `json:"height"`
	Time   int64 `json:"time"`
	Paused bool  `json:"paused"`
}

// BalanceInfo is a token balance and the escrow allowance granted by the owner
type BalanceInfo struct {
	Denom     string `json:"denom"`
	Address   string `json:"address"`
	Balance   string `json:"balance"`
	Allowance string `json:"allowance"`
}

// PoolList is a page of pools
type PoolList struct {
	Pools []*farmingtypes.Pool `json:"pools"`
	Total uint64               `json:"total"`
}

// MineRequest advances the chain by a number of blocks
type MineRequest struct {
	Blocks int64 `json:"blocks"`
}

// IncreaseTimeRequest moves the clock forward and produces one block
type IncreaseTimeRequest struct {
	Seconds int64 `json:"seconds"`
}

// FaucetRequest mints tokens to an address
type FaucetRequest struct {
	Denom   string `json:"denom"`
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

// ApproveRequest sets the allowance the farm escrow may pull from owner
type ApproveRequest struct {
	Denom  string `json:"denom"`
	Owner  string `json:"owner"`
	Amount string `json:"amount"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
