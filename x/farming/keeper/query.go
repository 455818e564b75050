package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/farmd/x/farming/types"
)

// QueryServer defines the farming QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Params returns the module params
func (q *QueryServer) Params(ctx context.Context) (types.Params, error) {
	return q.keeper.GetParams(sdk.UnwrapSDKContext(ctx)), nil
}

// PoolLength returns the registry length
func (q *QueryServer) PoolLength(ctx context.Context) (uint64, error) {
	return q.keeper.GetPoolLength(sdk.UnwrapSDKContext(ctx)), nil
}

// Pool returns a pool by index
func (q *QueryServer) Pool(ctx context.Context, poolID uint64) (*types.Pool, error) {
	pool := q.keeper.GetPool(sdk.UnwrapSDKContext(ctx), poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	return pool, nil
}

// Pools returns a page of pools and the total count
func (q *QueryServer) Pools(ctx context.Context, offset, limit uint64) ([]*types.Pool, uint64, error) {
	allPools := q.keeper.GetAllPools(sdk.UnwrapSDKContext(ctx))
	total := uint64(len(allPools))

	if offset >= total {
		return []*types.Pool{}, total, nil
	}
	end := offset + limit
	if end > total || limit == 0 {
		end = total
	}
	return allPools[offset:end], total, nil
}

// UserInfo returns a position snapshot
func (q *QueryServer) UserInfo(ctx context.Context, poolID uint64, addr string) (types.UserInfo, error) {
	return q.keeper.GetUserInfo(ctx, poolID, addr)
}

// WithdrawalStatus returns the derived timelock state of a position
func (q *QueryServer) WithdrawalStatus(ctx context.Context, poolID uint64, addr string) (types.WithdrawalStatus, error) {
	return q.keeper.GetWithdrawalStatus(ctx, poolID, addr)
}

// IsPrivateInvestor reports investor set membership
func (q *QueryServer) IsPrivateInvestor(ctx context.Context, addr string) (bool, error) {
	return q.keeper.IsPrivateInvestor(sdk.UnwrapSDKContext(ctx), addr), nil
}

// Investors returns the private investor set
func (q *QueryServer) Investors(ctx context.Context) ([]string, error) {
	return q.keeper.GetAllInvestors(sdk.UnwrapSDKContext(ctx)), nil
}
