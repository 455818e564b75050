package keeper

import (
	"cosmossdk.io/math"

	"github.com/openalpha/farmd/x/farming/types"
)

func (s *KeeperTestSuite) withdraw(poolID uint64, addr string, amount int64) error {
	_, _, err := s.keeper.Withdraw(s.ctx, addr, poolID, math.NewInt(amount))
	return err
}

func (s *KeeperTestSuite) TestWithdrawLifecycle() {
	id := s.addPool(10)
	s.deposit(id, s.alice, 10000)

	err := s.withdraw(id, s.alice, 10000)
	s.Require().ErrorIs(err, types.ErrNoWithdrawalRequest)
	s.Require().EqualError(err, "Request withdrawal first")

	status, err := s.keeper.RequestWithdrawal(s.ctx, s.alice, id)
	s.Require().NoError(err)
	s.Require().Equal(types.WithdrawalRequested.String(), status.State)
	s.Require().Equal(s.now()+types.DefaultWithdrawalTimelock, status.ActiveAt)
	s.Require().Equal(s.now(), s.userInfo(id, s.alice).WithdrawalRequestedAt)

	err = s.withdraw(id, s.alice, 10000)
	s.Require().ErrorIs(err, types.ErrTimelockNotElapsed)
	s.Require().EqualError(err, "Withdrawal is not active yet")

	s.increaseTime(types.DefaultWithdrawalTimelock)

	err = s.withdraw(id, s.alice, 10001)
	s.Require().ErrorIs(err, types.ErrInsufficientPrincipal)
	s.Require().EqualError(err, "Withdrawal amount is greater than available")

	s.Require().NoError(s.withdraw(id, s.alice, 10000))
	s.requireAmount(0, s.userInfo(id, s.alice).Deposited)
	s.requireAmount(1_000_000, s.ledger.BalanceOf(s.ctx, stakeDenom, s.alice))
	s.Require().True(s.keeper.GetPool(s.ctx, id).TotalStaked.IsZero())
	s.Require().True(s.hasEvent(types.EventTypeWithdraw))
}

func (s *KeeperTestSuite) TestWithdrawAfterExpiry() {
	id := s.addPool(10)
	s.deposit(id, s.alice, 10000)

	_, err := s.keeper.RequestWithdrawal(s.ctx, s.alice, id)
	s.Require().NoError(err)
	s.increaseTime(types.DefaultWithdrawalTimelock + types.DefaultWithdrawalWindow)

	err = s.withdraw(id, s.alice, 10000)
	s.Require().ErrorIs(err, types.ErrRequestExpired)
	s.Require().EqualError(err, "Withdrawal is expired")
	s.requireAmount(10000, s.userInfo(id, s.alice).Deposited)

	st, err := s.keeper.GetWithdrawalStatus(s.ctx, id, s.alice)
	s.Require().NoError(err)
	s.Require().Equal(types.WithdrawalExpired.String(), st.State)
}

func (s *KeeperTestSuite) TestPrincipalCheckedBeforeRequest() {
	id := s.addPool(10)
	s.deposit(id, s.alice, 100)

	err := s.withdraw(id, s.alice, 101)
	s.Require().ErrorIs(err, types.ErrInsufficientPrincipal)

	err = s.withdraw(id, s.bob, 1)
	s.Require().ErrorIs(err, types.ErrInsufficientPrincipal)
}

func (s *KeeperTestSuite) TestReRequestRestartsClock() {
	id := s.addPool(10)
	s.deposit(id, s.alice, 10000)

	_, err := s.keeper.RequestWithdrawal(s.ctx, s.alice, id)
	s.Require().NoError(err)
	s.increaseTime(types.DefaultWithdrawalTimelock - 10)

	_, err = s.keeper.RequestWithdrawal(s.ctx, s.alice, id)
	s.Require().NoError(err)
	s.increaseTime(20)

	// The first request would now be active, the replacement is not
	s.Require().ErrorIs(s.withdraw(id, s.alice, 1), types.ErrTimelockNotElapsed)
}

func (s *KeeperTestSuite) TestPartialWithdrawKeepsRequestArmed() {
	id := s.addPool(10)
	s.deposit(id, s.alice, 10000)

	_, err := s.keeper.RequestWithdrawal(s.ctx, s.alice, id)
	s.Require().NoError(err)
	requestedAt := s.now()
	s.increaseTime(types.DefaultWithdrawalTimelock)

	remaining, _, err := s.keeper.Withdraw(s.ctx, s.alice, id, math.NewInt(4000))
	s.Require().NoError(err)
	s.requireAmount(6000, remaining)
	s.Require().Equal(requestedAt, s.userInfo(id, s.alice).WithdrawalRequestedAt)

	// Still inside the active window
	s.increaseTime(60)
	s.Require().NoError(s.withdraw(id, s.alice, 1000))
	s.requireAmount(5000, s.userInfo(id, s.alice).Deposited)
}

func (s *KeeperTestSuite) TestWithdrawToZeroClearsRequestAndKeepsRewards() {
	id := s.addPool(10)
	s.deposit(id, s.alice, 10000)
	_, err := s.keeper.RequestWithdrawal(s.ctx, s.alice, id)
	s.Require().NoError(err)
	s.increaseTime(types.DefaultWithdrawalTimelock)

	// One block elapsed since the deposit
	remaining, paid, err := s.keeper.Withdraw(s.ctx, s.alice, id, math.NewInt(10000))
	s.Require().NoError(err)
	s.Require().True(remaining.IsZero())
	s.requireAmount(100, paid)

	info := s.userInfo(id, s.alice)
	s.Require().Zero(info.WithdrawalRequestedAt)
	s.requireAmount(100, info.TotalRewarded)
	s.requireAmount(0, info.PendingReward)
	s.Require().NotNil(s.keeper.GetPosition(s.ctx, id, s.alice))

	s.deposit(id, s.alice, 500)
	s.Require().ErrorIs(s.withdraw(id, s.alice, 500), types.ErrNoWithdrawalRequest)
}

func (s *KeeperTestSuite) TestInvestorRequestGatedUntilUnlock() {
	id := s.addPool(10)
	s.Require().NoError(s.keeper.AddInvestorAddress(s.ctx, s.manager, s.investor))
	s.deposit(id, s.investor, 10000)

	info := s.userInfo(id, s.investor)
	s.Require().True(info.IsPrivateInvestor)

	_, err := s.keeper.RequestWithdrawal(s.ctx, s.investor, id)
	s.Require().ErrorIs(err, types.ErrInvestorLockActive)
	s.Require().EqualError(err, "LP tokens are not yet unlocked for private investors")
	s.Require().Zero(s.userInfo(id, s.investor).WithdrawalRequestedAt)

	// Ordinary depositors are never gated
	_, err = s.keeper.RequestWithdrawal(s.ctx, s.alice, id)
	s.Require().NoError(err)

	s.increaseTime(30 * day)
	_, err = s.keeper.RequestWithdrawal(s.ctx, s.investor, id)
	s.Require().NoError(err)

	// Investors wait longer than ordinary depositors
	s.increaseTime(types.DefaultWithdrawalTimelock)
	s.Require().ErrorIs(s.withdraw(id, s.investor, 10000), types.ErrTimelockNotElapsed)

	s.increaseTime(types.DefaultInvestorWithdrawalTimelock - types.DefaultWithdrawalTimelock)
	s.Require().NoError(s.withdraw(id, s.investor, 10000))
}

func (s *KeeperTestSuite) TestInvestorRegistryMembership() {
	id := s.addPool(10)

	s.Require().NoError(s.keeper.AddInvestorAddress(s.ctx, s.manager, s.investor))
	s.Require().NoError(s.keeper.AddInvestorAddress(s.ctx, s.manager, s.investor))
	s.Require().True(s.userInfo(id, s.investor).IsPrivateInvestor)
	s.Require().Equal([]string{s.investor}, s.keeper.GetAllInvestors(s.ctx))

	s.Require().NoError(s.keeper.RemoveInvestorAddress(s.ctx, s.manager, s.investor))
	s.Require().NoError(s.keeper.RemoveInvestorAddress(s.ctx, s.manager, s.investor))
	s.Require().False(s.userInfo(id, s.investor).IsPrivateInvestor)

	// Once removed the investor may request before the unlock time
	s.deposit(id, s.investor, 100)
	_, err := s.keeper.RequestWithdrawal(s.ctx, s.investor, id)
	s.Require().NoError(err)
}

func (s *KeeperTestSuite) TestRequestWithoutDepositRejected() {
	id := s.addPool(10)

	_, err := s.keeper.RequestWithdrawal(s.ctx, s.alice, id)
	s.Require().ErrorIs(err, types.ErrInsufficientPrincipal)
	s.Require().Nil(s.keeper.GetPosition(s.ctx, id, s.alice))
	s.Require().False(s.hasEvent(types.EventTypeWithdrawalRequested))

	// An emptied position cannot re-arm either
	s.deposit(id, s.alice, 100)
	_, err = s.keeper.RequestWithdrawal(s.ctx, s.alice, id)
	s.Require().NoError(err)
	s.increaseTime(types.DefaultWithdrawalTimelock)
	s.Require().NoError(s.withdraw(id, s.alice, 100))

	_, err = s.keeper.RequestWithdrawal(s.ctx, s.alice, id)
	s.Require().ErrorIs(err, types.ErrInsufficientPrincipal)
	s.Require().Zero(s.userInfo(id, s.alice).WithdrawalRequestedAt)
}

func (s *KeeperTestSuite) TestRequestSettlesReward() {
	id := s.addPool(10)
	s.deposit(id, s.alice, 1000)
	s.mine(3)

	_, err := s.keeper.RequestWithdrawal(s.ctx, s.alice, id)
	s.Require().NoError(err)

	info := s.userInfo(id, s.alice)
	s.requireAmount(300, info.TotalRewarded)
	s.requireAmount(0, info.PendingReward)
	s.requireAmount(300, s.ledger.BalanceOf(s.ctx, rewardDenom, s.alice))
	s.Require().Equal(s.ctx.BlockHeight(), s.keeper.GetPool(s.ctx, id).LastRewardBlock)
}

func (s *KeeperTestSuite) TestRequestUnknownPool() {
	_, err := s.keeper.RequestWithdrawal(s.ctx, s.alice, 3)
	s.Require().ErrorIs(err, types.ErrPoolNotFound)
	s.Require().ErrorIs(s.withdraw(3, s.alice, 1), types.ErrPoolNotFound)
}
