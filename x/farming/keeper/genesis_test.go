package keeper

import (
	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmd/x/farming/types"
)

func (s *KeeperTestSuite) TestGenesisExportImport() {
	first := s.addPool(1)
	second := s.addPool(3)
	s.deposit(first, s.alice, 1000)
	s.deposit(second, s.bob, 2000)
	s.Require().NoError(s.keeper.AddInvestorAddress(s.ctx, s.manager, s.investor))
	_, err := s.keeper.RequestWithdrawal(s.ctx, s.alice, first)
	s.Require().NoError(err)
	s.mine(8)

	exported := s.keeper.ExportGenesis(s.ctx)
	s.Require().NoError(exported.Validate())
	s.Require().Len(exported.Pools, 2)
	s.Require().Len(exported.Positions, 2)
	s.Require().Equal([]string{s.investor}, exported.Investors)

	// Restart on a fresh store
	key := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	s.Require().NoError(stateStore.LoadLatestVersion())
	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger()).
		WithBlockHeight(s.ctx.BlockHeight()).
		WithBlockTime(s.ctx.BlockTime())

	restored := NewKeeper(codec.NewProtoCodec(codectypes.NewInterfaceRegistry()), key, s.ledger, log.NewNopLogger())
	restored.InitGenesis(ctx, *exported)

	s.Require().Equal(uint64(2), restored.GetPoolLength(ctx))
	s.Require().Equal(s.keeper.GetParams(s.ctx), restored.GetParams(ctx))
	s.Require().True(restored.IsPrivateInvestor(ctx, s.investor))

	for _, tc := range []struct {
		pool uint64
		addr string
	}{
		{first, s.alice},
		{second, s.bob},
	} {
		want := s.userInfo(tc.pool, tc.addr)
		got, err := restored.GetUserInfo(ctx, tc.pool, tc.addr)
		s.Require().NoError(err)
		s.Require().Equal(want.Deposited.String(), got.Deposited.String())
		s.Require().Equal(want.PendingReward.String(), got.PendingReward.String())
		s.Require().Equal(want.WithdrawalRequestedAt, got.WithdrawalRequestedAt)
	}

	// New pools continue the index sequence
	id, err := restored.AddPool(ctx, s.manager, 1, stakeDenom, ctx.BlockHeight(), ctx.BlockHeight()+10, false)
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), id)
}

func (s *KeeperTestSuite) TestInitGenesisDefaultsAdminToManager() {
	gs := types.DefaultGenesis()
	gs.Params.Manager = s.manager
	s.keeper.InitGenesis(s.ctx, *gs)

	params := s.keeper.GetParams(s.ctx)
	s.Require().True(params.IsAdmin(s.manager))
	s.Require().NoError(s.keeper.Pause(s.ctx, s.manager))
}
