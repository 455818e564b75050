package keeper

import (
	"errors"
	"math/big"

	"cosmossdk.io/math"

	"github.com/openalpha/farmd/x/farming/types"
)

func (s *KeeperTestSuite) TestDepositSnapshotWithoutBlocks() {
	id := s.addPool(10)
	s.deposit(id, s.alice, 10000)

	info := s.userInfo(id, s.alice)
	s.requireAmount(10000, info.Deposited)
	s.requireAmount(0, info.TotalRewarded)
	s.requireAmount(0, info.PendingReward)
	s.Require().Zero(info.WithdrawalRequestedAt)
	s.Require().False(info.IsPrivateInvestor)

	s.requireAmount(1_000_000-10000, s.ledger.BalanceOf(s.ctx, stakeDenom, s.alice))
	s.requireAmount(10000, s.ledger.BalanceOf(s.ctx, stakeDenom, s.escrow))
	s.Require().True(s.hasEvent(types.EventTypeDeposit))
}

func (s *KeeperTestSuite) TestClaimThenOneBlockPendsFullRate() {
	id := s.addPool(10)
	s.openClaims()

	s.mine(1)
	s.deposit(id, s.alice, 10000)
	s.mine(1)

	paid, err := s.keeper.ClaimReward(s.ctx, s.alice, id)
	s.Require().NoError(err)
	s.requireAmount(100, paid)

	info := s.userInfo(id, s.alice)
	s.requireAmount(0, info.PendingReward)
	s.requireAmount(100, info.TotalRewarded)
	s.requireAmount(100, s.ledger.BalanceOf(s.ctx, rewardDenom, s.alice))

	s.mine(1)
	s.requireAmount(100, s.userInfo(id, s.alice).PendingReward)
}

func (s *KeeperTestSuite) TestUserInfoIsIdempotent() {
	id := s.addPool(10)
	s.deposit(id, s.alice, 10000)
	s.mine(5)

	first := s.userInfo(id, s.alice)
	second := s.userInfo(id, s.alice)
	s.Require().Equal(first.PendingReward.String(), second.PendingReward.String())
	s.requireAmount(500, first.PendingReward)

	// Reading does not move the pool checkpoint
	pool := s.keeper.GetPool(s.ctx, id)
	s.Require().Equal(genesisHeight, pool.LastRewardBlock)
}

func (s *KeeperTestSuite) TestClaimsLockedUntilGate() {
	id := s.addPool(10)
	gate := s.now() + day
	s.Require().NoError(s.keeper.SetNoRewardClaimsUntil(s.ctx, s.manager, gate))

	s.deposit(id, s.alice, 10000)
	s.mine(3)

	_, err := s.keeper.ClaimReward(s.ctx, s.alice, id)
	s.Require().ErrorIs(err, types.ErrClaimsLocked)
	s.Require().EqualError(err, "Claiming reward is not available yet")

	// Topping up before the gate carries the reward instead of paying it
	s.deposit(id, s.alice, 10000)
	info := s.userInfo(id, s.alice)
	s.requireAmount(300, info.PendingReward)
	s.requireAmount(0, info.TotalRewarded)
	s.Require().True(s.ledger.BalanceOf(s.ctx, rewardDenom, s.alice).IsZero())

	s.increaseTime(day)
	s.Require().GreaterOrEqual(s.now(), gate)
	paid, err := s.keeper.ClaimReward(s.ctx, s.alice, id)
	s.Require().NoError(err)
	s.requireAmount(400, paid)

	info = s.userInfo(id, s.alice)
	s.requireAmount(0, info.PendingReward)
	s.requireAmount(400, info.TotalRewarded)
}

func (s *KeeperTestSuite) TestDepositWithoutAllowanceSurfacesReason() {
	id := s.addPool(10)
	s.Require().NoError(s.ledger.Approve(s.ctx, stakeDenom, s.alice, s.escrow, math.ZeroInt()))

	_, err := s.keeper.DepositTo(s.ctx, s.alice, id, math.NewInt(10000), s.alice)
	s.Require().EqualError(err, "ERC20: transfer amount exceeds allowance")
	s.Require().ErrorIs(err, types.ErrCollaboratorFailure)

	var ce *types.CollaboratorError
	s.Require().True(errors.As(err, &ce))
	s.Require().Equal("transferFrom", ce.Op)

	s.requireAmount(0, s.userInfo(id, s.alice).Deposited)
	s.Require().True(s.keeper.GetPool(s.ctx, id).TotalStaked.IsZero())
}

func (s *KeeperTestSuite) TestDepositWithoutBalanceSurfacesReason() {
	id := s.addPool(10)

	_, err := s.keeper.DepositTo(s.ctx, s.alice, id, math.NewInt(2_000_000), s.alice)
	s.Require().EqualError(err, "ERC20: transfer amount exceeds balance")
	s.Require().ErrorIs(err, types.ErrCollaboratorFailure)
	s.requireAmount(0, s.userInfo(id, s.alice).Deposited)
	s.requireAmount(1_000_000, s.ledger.BalanceOf(s.ctx, stakeDenom, s.alice))
}

func (s *KeeperTestSuite) TestDepositToRecipient() {
	id := s.addPool(10)

	_, err := s.keeper.DepositTo(s.ctx, s.alice, id, math.NewInt(700), s.bob)
	s.Require().NoError(err)

	s.requireAmount(0, s.userInfo(id, s.alice).Deposited)
	s.requireAmount(700, s.userInfo(id, s.bob).Deposited)
	s.requireAmount(1_000_000-700, s.ledger.BalanceOf(s.ctx, stakeDenom, s.alice))
}

func (s *KeeperTestSuite) TestDepositRejectsBadInput() {
	id := s.addPool(10)

	_, err := s.keeper.DepositTo(s.ctx, s.alice, id, math.ZeroInt(), s.alice)
	s.Require().ErrorIs(err, types.ErrInvalidAmount)

	_, err = s.keeper.DepositTo(s.ctx, s.alice, 7, math.NewInt(1), s.alice)
	s.Require().ErrorIs(err, types.ErrPoolNotFound)

	_, err = s.keeper.ClaimReward(s.ctx, s.alice, 7)
	s.Require().ErrorIs(err, types.ErrPoolNotFound)

	_, err = s.keeper.GetUserInfo(s.ctx, 7, s.alice)
	s.Require().ErrorIs(err, types.ErrPoolNotFound)
}

func (s *KeeperTestSuite) TestRewardSplitsByStake() {
	id := s.addPool(10)
	s.openClaims()

	s.deposit(id, s.alice, 3000)
	s.deposit(id, s.bob, 1000)
	s.mine(4)

	s.requireAmount(300, s.userInfo(id, s.alice).PendingReward)
	s.requireAmount(100, s.userInfo(id, s.bob).PendingReward)
}

func (s *KeeperTestSuite) TestPoolsAccrueIndependently() {
	first := s.addPool(1)
	second := s.addPool(3)

	s.deposit(first, s.alice, 1000)
	s.deposit(second, s.alice, 1000)
	s.deposit(second, s.bob, 1000)
	s.mine(4)

	// 100 per block split 25/75 between the pools
	s.requireAmount(100, s.userInfo(first, s.alice).PendingReward)
	s.requireAmount(150, s.userInfo(second, s.alice).PendingReward)
	s.requireAmount(150, s.userInfo(second, s.bob).PendingReward)
	s.requireAmount(0, s.userInfo(first, s.bob).PendingReward)
}

func (s *KeeperTestSuite) TestAddingPoolDilutesFromThatBlock() {
	first := s.addPool(1)
	s.deposit(first, s.alice, 1000)
	s.mine(10)

	s.addPool(1)
	s.mine(10)

	// 10 blocks alone at 100, then 10 blocks at half rate
	s.requireAmount(1000+500, s.userInfo(first, s.alice).PendingReward)
}

func (s *KeeperTestSuite) TestSetTokenPerBlockSettlesOldRate() {
	id := s.addPool(10)
	s.deposit(id, s.alice, 1000)
	s.mine(10)

	s.Require().NoError(s.keeper.SetTokenPerBlock(s.ctx, s.manager, math.NewInt(200)))
	s.mine(10)

	s.requireAmount(1000+2000, s.userInfo(id, s.alice).PendingReward)
	s.requireAmount(200, s.keeper.GetParams(s.ctx).TokensFarmedPerBlock)
}

func (s *KeeperTestSuite) TestRewardWindowBounds() {
	height := s.ctx.BlockHeight()
	id, err := s.keeper.AddPool(s.ctx, s.manager, 10, stakeDenom, height+5, height+10, false)
	s.Require().NoError(err)

	s.deposit(id, s.alice, 1000)
	s.mine(5)
	s.requireAmount(0, s.userInfo(id, s.alice).PendingReward)

	s.mine(3)
	s.requireAmount(300, s.userInfo(id, s.alice).PendingReward)

	s.mine(50)
	s.requireAmount(500, s.userInfo(id, s.alice).PendingReward)
}

func (s *KeeperTestSuite) TestTotalRewardedNeverDecreases() {
	id := s.addPool(10)
	s.openClaims()
	s.deposit(id, s.alice, 1000)

	last := math.ZeroInt()
	for i := 0; i < 5; i++ {
		s.mine(int64(i + 1))
		if i%2 == 0 {
			_, err := s.keeper.ClaimReward(s.ctx, s.alice, id)
			s.Require().NoError(err)
		} else {
			// Double the stake so the accumulator divides exactly
			s.deposit(id, s.alice, s.userInfo(id, s.alice).Deposited.Int64())
		}
		current := s.userInfo(id, s.alice).TotalRewarded
		s.Require().True(current.GTE(last))
		last = current
	}
	s.requireAmount(100*(1+2+3+4+5), last)
}

func (s *KeeperTestSuite) TestRewardOverflowFailsClosed() {
	id := s.addPool(10)
	s.openClaims()

	params := s.keeper.GetParams(s.ctx)
	params.TokensFarmedPerBlock = math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 250))
	s.keeper.SetParams(s.ctx, params)

	s.deposit(id, s.alice, 1000)
	s.mine(100)

	before := s.keeper.GetPool(s.ctx, id)
	_, err := s.keeper.ClaimReward(s.ctx, s.alice, id)
	s.Require().ErrorIs(err, types.ErrRewardOverflow)

	after := s.keeper.GetPool(s.ctx, id)
	s.Require().Equal(before.LastRewardBlock, after.LastRewardBlock)
	s.Require().Equal(before.AccRewardPerShare.String(), after.AccRewardPerShare.String())

	_, err = s.keeper.GetUserInfo(s.ctx, id, s.alice)
	s.Require().ErrorIs(err, types.ErrRewardOverflow)
}

func (s *KeeperTestSuite) TestRewardReserveShortfallCarriesRemainder() {
	id := s.addPool(10)
	s.openClaims()
	s.deposit(id, s.alice, 1000)

	reserve := s.ledger.BalanceOf(s.ctx, rewardDenom, s.escrow)
	s.Require().NoError(s.ledger.Send(s.ctx, rewardDenom, s.escrow, s.bob, reserve))
	s.mine(2)

	paid, err := s.keeper.ClaimReward(s.ctx, s.alice, id)
	s.Require().NoError(err)
	s.Require().True(paid.IsZero())

	info := s.userInfo(id, s.alice)
	s.requireAmount(200, info.PendingReward)
	s.requireAmount(0, info.TotalRewarded)

	// A partial refill pays what it can
	s.Require().NoError(s.ledger.Mint(s.ctx, rewardDenom, s.escrow, math.NewInt(150)))
	paid, err = s.keeper.ClaimReward(s.ctx, s.alice, id)
	s.Require().NoError(err)
	s.requireAmount(150, paid)

	info = s.userInfo(id, s.alice)
	s.requireAmount(50, info.PendingReward)
	s.requireAmount(150, info.TotalRewarded)
	s.Require().True(s.ledger.BalanceOf(s.ctx, rewardDenom, s.escrow).IsZero())
}

func (s *KeeperTestSuite) TestRewardsNeverSpendStakedPrincipal() {
	// Stake token doubles as the reward token with a 500 reserve
	params := s.keeper.GetParams(s.ctx)
	params.RewardToken = stakeDenom
	s.keeper.SetParams(s.ctx, params)
	s.Require().NoError(s.ledger.Mint(s.ctx, stakeDenom, s.escrow, math.NewInt(500)))

	id := s.addPool(10)
	s.openClaims()
	s.deposit(id, s.alice, 1000)
	s.deposit(id, s.bob, 1000)
	s.mine(10)

	paid, err := s.keeper.ClaimReward(s.ctx, s.alice, id)
	s.Require().NoError(err)
	s.requireAmount(500, paid)
	s.requireAmount(2000, s.ledger.BalanceOf(s.ctx, stakeDenom, s.escrow))

	// Bob's 500 stays owed; nothing is left to pay it with
	_, err = s.keeper.RequestWithdrawal(s.ctx, s.bob, id)
	s.Require().NoError(err)
	s.requireAmount(500, s.userInfo(id, s.bob).PendingReward)
	s.requireAmount(2000, s.ledger.BalanceOf(s.ctx, stakeDenom, s.escrow))

	s.increaseTime(types.DefaultWithdrawalTimelock)
	remaining, paid, err := s.keeper.Withdraw(s.ctx, s.bob, id, math.NewInt(1000))
	s.Require().NoError(err)
	s.Require().True(remaining.IsZero())
	s.Require().True(paid.IsZero())

	// Principal returned, reward for the extra block carried with the rest
	s.requireAmount(1_000_000, s.ledger.BalanceOf(s.ctx, stakeDenom, s.bob))
	s.requireAmount(550, s.userInfo(id, s.bob).PendingReward)
	s.requireAmount(1000, s.ledger.BalanceOf(s.ctx, stakeDenom, s.escrow))
	s.requireAmount(1000, s.keeper.GetPool(s.ctx, id).TotalStaked)
}
