package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/openalpha/farmd/x/farming/types"
)

// InitGenesis loads the farm from genesis. An empty admin defaults to the
// manager.
func (k *Keeper) InitGenesis(ctx sdk.Context, gs types.GenesisState) {
	params := gs.Params
	if params.Admin == "" {
		params.Admin = params.Manager
	}
	k.SetParams(ctx, params)

	for i := range gs.Pools {
		pool := gs.Pools[i]
		k.SetPool(ctx, &pool)
	}
	k.setPoolLength(ctx, uint64(len(gs.Pools)))

	for i := range gs.Positions {
		pos := gs.Positions[i]
		k.SetPosition(ctx, &pos)
	}
	for _, inv := range gs.Investors {
		k.setInvestor(ctx, inv)
	}

	k.logger.Info("Farming genesis initialized",
		"pools", len(gs.Pools),
		"positions", len(gs.Positions),
		"investors", len(gs.Investors),
	)
}

// ExportGenesis dumps the full farm state
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	gs := types.DefaultGenesis()
	gs.Params = k.GetParams(ctx)
	for _, pool := range k.GetAllPools(ctx) {
		gs.Pools = append(gs.Pools, *pool)
	}
	for _, pos := range k.GetAllPositions(ctx) {
		gs.Positions = append(gs.Positions, *pos)
	}
	gs.Investors = append(gs.Investors, k.GetAllInvestors(ctx)...)
	return gs
}
