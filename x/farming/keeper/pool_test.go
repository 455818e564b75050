package keeper

import (
	"cosmossdk.io/math"

	"github.com/openalpha/farmd/x/farming/types"
)

func (s *KeeperTestSuite) TestAddPoolWindowValidation() {
	cases := []struct {
		name       string
		start, end int64
		valid      bool
	}{
		{"end before start", 100, 50, false},
		{"end equals start", 100, 100, false},
		{"zero end", 0, 0, false},
		{"zero end after start", 10, 0, false},
		{"one block window", 100, 101, true},
		{"wide window", 0, 1_000_000, true},
	}

	for _, tc := range cases {
		before := s.keeper.GetPoolLength(s.ctx)
		id, err := s.keeper.AddPool(s.ctx, s.manager, 10, stakeDenom, tc.start, tc.end, false)
		if tc.valid {
			s.Require().NoError(err, tc.name)
			s.Require().Equal(before, id, tc.name)
			s.Require().Equal(before+1, s.keeper.GetPoolLength(s.ctx), tc.name)
		} else {
			s.Require().ErrorIs(err, types.ErrInvalidWindow, tc.name)
			s.Require().EqualError(err, "Incorrect endblock number", tc.name)
			s.Require().Equal(before, s.keeper.GetPoolLength(s.ctx), tc.name)
		}
	}
}

func (s *KeeperTestSuite) TestAddPoolAssignsSequentialIndices() {
	for i := uint64(0); i < 3; i++ {
		s.Require().Equal(i, s.addPool(1))
	}
	s.Require().Equal(uint64(3), s.keeper.GetPoolLength(s.ctx))
	s.Require().Len(s.keeper.GetAllPools(s.ctx), 3)
	s.Require().True(s.hasEvent(types.EventTypePoolAdded))
}

func (s *KeeperTestSuite) TestManagerOnlyOperations() {
	id := s.addPool(10)
	paramsBefore := s.keeper.GetParams(s.ctx)

	for _, caller := range []string{s.alice, s.admin} {
		_, err := s.keeper.AddPool(s.ctx, caller, 10, stakeDenom, 0, 100, true)
		s.requireNotManager(err)

		s.requireNotManager(s.keeper.AmendPool(s.ctx, caller, id, 5, 0, 100))
		s.requireNotManager(s.keeper.SetTokenPerBlock(s.ctx, caller, math.NewInt(1)))
		s.requireNotManager(s.keeper.SetNoRewardClaimsUntil(s.ctx, caller, 1))
		s.requireNotManager(s.keeper.AddInvestorAddress(s.ctx, caller, s.bob))
		s.requireNotManager(s.keeper.RemoveInvestorAddress(s.ctx, caller, s.bob))
	}

	s.Require().Equal(uint64(1), s.keeper.GetPoolLength(s.ctx))
	s.Require().Equal(paramsBefore, s.keeper.GetParams(s.ctx))
	s.Require().False(s.keeper.IsPrivateInvestor(s.ctx, s.bob))
	s.Require().Equal(uint64(10), s.keeper.GetPool(s.ctx, id).RewardWeight)
}

func (s *KeeperTestSuite) requireNotManager(err error) {
	s.T().Helper()
	s.Require().ErrorIs(err, types.ErrUnauthorized)
	s.Require().Contains(err.Error(), "Caller is not the Manager")
}

func (s *KeeperTestSuite) TestAmendPool() {
	height := s.ctx.BlockHeight()
	fixed, err := s.keeper.AddPool(s.ctx, s.manager, 10, stakeDenom, height, height+100, false)
	s.Require().NoError(err)
	amendable, err := s.keeper.AddPool(s.ctx, s.manager, 10, stakeDenom, height, height+100, true)
	s.Require().NoError(err)

	err = s.keeper.AmendPool(s.ctx, s.manager, fixed, 20, height, height+200)
	s.Require().ErrorIs(err, types.ErrPoolNotAmendable)
	s.Require().Equal(uint64(10), s.keeper.GetPool(s.ctx, fixed).RewardWeight)

	err = s.keeper.AmendPool(s.ctx, s.manager, amendable, 20, height+50, height+50)
	s.Require().ErrorIs(err, types.ErrInvalidWindow)

	err = s.keeper.AmendPool(s.ctx, s.manager, 99, 20, height, height+200)
	s.Require().ErrorIs(err, types.ErrPoolNotFound)

	s.Require().NoError(s.keeper.AmendPool(s.ctx, s.manager, amendable, 30, height, height+200))
	pool := s.keeper.GetPool(s.ctx, amendable)
	s.Require().Equal(uint64(30), pool.RewardWeight)
	s.Require().Equal(height+200, pool.EndBlock)
	s.Require().True(s.hasEvent(types.EventTypePoolAmended))
}

func (s *KeeperTestSuite) TestAmendStartBackAfterPostponing() {
	height := s.ctx.BlockHeight()
	id, err := s.keeper.AddPool(s.ctx, s.manager, 10, stakeDenom, height, height+1000, true)
	s.Require().NoError(err)

	s.Require().NoError(s.keeper.AmendPool(s.ctx, s.manager, id, 10, height+100, height+1000))
	s.Require().Equal(height+100, s.keeper.GetPool(s.ctx, id).LastRewardBlock)

	s.mine(10)
	s.Require().NoError(s.keeper.AmendPool(s.ctx, s.manager, id, 10, height, height+1000))
	s.Require().Equal(s.ctx.BlockHeight(), s.keeper.GetPool(s.ctx, id).LastRewardBlock)

	s.deposit(id, s.alice, 1000)
	s.mine(10)
	s.requireAmount(1000, s.userInfo(id, s.alice).PendingReward)
}

func (s *KeeperTestSuite) TestAmendWeightKeepsPastEmission() {
	first := s.addPool(1)
	second := s.addPool(1)
	s.deposit(first, s.alice, 1000)
	s.deposit(second, s.bob, 1000)
	s.mine(10)

	s.Require().NoError(s.keeper.AmendPool(s.ctx, s.manager, second, 3, 0, 10_000_000))
	s.mine(10)

	// 10 blocks at 50, then 10 blocks at 25
	s.requireAmount(500+250, s.userInfo(first, s.alice).PendingReward)
	s.requireAmount(500+750, s.userInfo(second, s.bob).PendingReward)
}

func (s *KeeperTestSuite) TestPauseGate() {
	id := s.addPool(10)
	s.deposit(id, s.alice, 1000)

	err := s.keeper.Unpause(s.ctx, s.admin)
	s.Require().ErrorIs(err, types.ErrNotPaused)
	s.Require().EqualError(err, "Pausable: not paused")

	for _, caller := range []string{s.alice, s.manager} {
		err = s.keeper.Pause(s.ctx, caller)
		s.Require().ErrorIs(err, types.ErrUnauthorized)
		s.Require().Contains(err.Error(), "Caller is not the Admin")
	}
	s.Require().False(s.keeper.GetParams(s.ctx).Paused)

	s.Require().NoError(s.keeper.Pause(s.ctx, s.admin))
	s.Require().True(s.hasEvent(types.EventTypePaused))
	s.Require().ErrorIs(s.keeper.Pause(s.ctx, s.admin), types.ErrAlreadyPaused)

	_, err = s.keeper.DepositTo(s.ctx, s.alice, id, math.NewInt(1), s.alice)
	s.Require().ErrorIs(err, types.ErrContractPaused)
	_, err = s.keeper.ClaimReward(s.ctx, s.alice, id)
	s.Require().ErrorIs(err, types.ErrContractPaused)
	_, err = s.keeper.RequestWithdrawal(s.ctx, s.alice, id)
	s.Require().ErrorIs(err, types.ErrContractPaused)
	s.Require().ErrorIs(s.withdraw(id, s.alice, 1), types.ErrContractPaused)

	// Configuration stays available while paused
	s.Require().NoError(s.keeper.SetNoRewardClaimsUntil(s.ctx, s.manager, s.now()))

	s.Require().ErrorIs(s.keeper.Unpause(s.ctx, s.alice), types.ErrUnauthorized)
	s.Require().NoError(s.keeper.Unpause(s.ctx, s.admin))
	s.Require().True(s.hasEvent(types.EventTypeUnpaused))

	_, err = s.keeper.RequestWithdrawal(s.ctx, s.alice, id)
	s.Require().NoError(err)
}
