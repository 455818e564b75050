package keeper

import (
	"github.com/openalpha/farmd/x/farming/types"
)

func (s *KeeperTestSuite) TestMsgServerFlow() {
	srv := NewMsgServerImpl(s.keeper)
	q := NewQueryServerImpl(s.keeper)

	height := s.ctx.BlockHeight()
	added, err := srv.AddPool(s.ctx, &types.MsgAddPool{
		Manager:      s.manager,
		RewardWeight: 10,
		StakeToken:   stakeDenom,
		StartBlock:   height,
		EndBlock:     height + 1000,
		Amendable:    true,
	})
	s.Require().NoError(err)
	s.Require().Equal(uint64(0), added.PoolID)

	_, err = srv.SetNoRewardClaimsUntil(s.ctx, &types.MsgSetNoRewardClaimsUntil{Manager: s.manager, Timestamp: s.now()})
	s.Require().NoError(err)

	dep, err := srv.DepositTo(s.ctx, &types.MsgDepositTo{
		Sender:    s.alice,
		PoolID:    added.PoolID,
		Amount:    "10000",
		Recipient: s.alice,
	})
	s.Require().NoError(err)
	s.Require().Equal("10000", dep.Deposited)
	s.Require().Equal("0", dep.RewardPaid)

	s.mine(2)
	claim, err := srv.ClaimReward(s.ctx, &types.MsgClaimReward{Sender: s.alice, PoolID: added.PoolID})
	s.Require().NoError(err)
	s.Require().Equal("200", claim.Reward)

	req, err := srv.RequestWithdrawal(s.ctx, &types.MsgRequestWithdrawal{Sender: s.alice, PoolID: added.PoolID})
	s.Require().NoError(err)
	s.Require().Equal(s.now(), req.RequestedAt)
	s.Require().Equal(s.now()+types.DefaultWithdrawalTimelock, req.ActiveAt)
	s.Require().Equal(req.ActiveAt+types.DefaultWithdrawalWindow, req.ExpiresAt)

	st, err := q.WithdrawalStatus(s.ctx, added.PoolID, s.alice)
	s.Require().NoError(err)
	s.Require().Equal(types.WithdrawalRequested.String(), st.State)

	s.increaseTime(types.DefaultWithdrawalTimelock)
	wd, err := srv.Withdraw(s.ctx, &types.MsgWithdraw{Sender: s.alice, PoolID: added.PoolID, Amount: "2500"})
	s.Require().NoError(err)
	s.Require().Equal("7500", wd.Remaining)
	s.Require().Equal("100", wd.RewardPaid)

	info, err := q.UserInfo(s.ctx, added.PoolID, s.alice)
	s.Require().NoError(err)
	s.requireAmount(7500, info.Deposited)
	s.requireAmount(300, info.TotalRewarded)
}

func (s *KeeperTestSuite) TestMsgServerRejectsMalformedAmounts() {
	srv := NewMsgServerImpl(s.keeper)
	id := s.addPool(10)

	for _, amount := range []string{"", "abc", "-5", "0"} {
		_, err := srv.DepositTo(s.ctx, &types.MsgDepositTo{Sender: s.alice, PoolID: id, Amount: amount, Recipient: s.alice})
		s.Require().ErrorIs(err, types.ErrInvalidAmount, amount)

		_, err = srv.Withdraw(s.ctx, &types.MsgWithdraw{Sender: s.alice, PoolID: id, Amount: amount})
		s.Require().ErrorIs(err, types.ErrInvalidAmount, amount)
	}

	// A zero emission rate is allowed
	_, err := srv.SetTokenPerBlock(s.ctx, &types.MsgSetTokenPerBlock{Manager: s.manager, TokensPerBlock: "0"})
	s.Require().NoError(err)
	s.Require().True(s.keeper.GetParams(s.ctx).TokensFarmedPerBlock.IsZero())
}

func (s *KeeperTestSuite) TestMsgServerAdminFlow() {
	srv := NewMsgServerImpl(s.keeper)
	q := NewQueryServerImpl(s.keeper)

	_, err := srv.AddInvestor(s.ctx, &types.MsgAddInvestor{Manager: s.manager, Investor: s.investor})
	s.Require().NoError(err)
	ok, err := q.IsPrivateInvestor(s.ctx, s.investor)
	s.Require().NoError(err)
	s.Require().True(ok)

	investors, err := q.Investors(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal([]string{s.investor}, investors)

	_, err = srv.RemoveInvestor(s.ctx, &types.MsgRemoveInvestor{Manager: s.manager, Investor: s.investor})
	s.Require().NoError(err)

	_, err = srv.Pause(s.ctx, &types.MsgPause{Admin: s.manager})
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	_, err = srv.Pause(s.ctx, &types.MsgPause{Admin: s.admin})
	s.Require().NoError(err)
	params, err := q.Params(s.ctx)
	s.Require().NoError(err)
	s.Require().True(params.Paused)

	_, err = srv.Unpause(s.ctx, &types.MsgUnpause{Admin: s.admin})
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestQueryPoolsPagination() {
	q := NewQueryServerImpl(s.keeper)
	for i := 0; i < 5; i++ {
		s.addPool(uint64(i + 1))
	}

	length, err := q.PoolLength(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(uint64(5), length)

	pools, total, err := q.Pools(s.ctx, 1, 2)
	s.Require().NoError(err)
	s.Require().Equal(uint64(5), total)
	s.Require().Len(pools, 2)
	s.Require().Equal(uint64(1), pools[0].ID)
	s.Require().Equal(uint64(2), pools[1].ID)

	pools, _, err = q.Pools(s.ctx, 4, 10)
	s.Require().NoError(err)
	s.Require().Len(pools, 1)

	_, err = q.Pool(s.ctx, 9)
	s.Require().ErrorIs(err, types.ErrPoolNotFound)
}
