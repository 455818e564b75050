package keeper

import (
	"context"

	"github.com/openalpha/farmd/metrics"
	"github.com/openalpha/farmd/x/farming/types"
)

var _ types.MsgServer = (*MsgServer)(nil)

// MsgServer defines the farming MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// AddPool handles MsgAddPool
func (m *MsgServer) AddPool(ctx context.Context, msg *types.MsgAddPool) (*types.MsgAddPoolResponse, error) {
	id, err := m.keeper.AddPool(ctx, msg.Manager, msg.RewardWeight, msg.StakeToken, msg.StartBlock, msg.EndBlock, msg.Amendable)
	metrics.GetCollector().RecordOperation(types.TypeMsgAddPool, err)
	if err != nil {
		return nil, err
	}
	return &types.MsgAddPoolResponse{PoolID: id}, nil
}

// SetPool handles MsgSetPool
func (m *MsgServer) SetPool(ctx context.Context, msg *types.MsgSetPool) (*types.MsgSetPoolResponse, error) {
	err := m.keeper.AmendPool(ctx, msg.Manager, msg.PoolID, msg.RewardWeight, msg.StartBlock, msg.EndBlock)
	metrics.GetCollector().RecordOperation(types.TypeMsgSetPool, err)
	if err != nil {
		return nil, err
	}
	return &types.MsgSetPoolResponse{}, nil
}

// SetTokenPerBlock handles MsgSetTokenPerBlock
func (m *MsgServer) SetTokenPerBlock(ctx context.Context, msg *types.MsgSetTokenPerBlock) (*types.MsgSetTokenPerBlockResponse, error) {
	rate, err := types.ParseAmount(msg.TokensPerBlock, true)
	if err != nil {
		return nil, err
	}
	err = m.keeper.SetTokenPerBlock(ctx, msg.Manager, rate)
	metrics.GetCollector().RecordOperation(types.TypeMsgSetTokenPerBlock, err)
	if err != nil {
		return nil, err
	}
	return &types.MsgSetTokenPerBlockResponse{}, nil
}

// SetNoRewardClaimsUntil handles MsgSetNoRewardClaimsUntil
func (m *MsgServer) SetNoRewardClaimsUntil(ctx context.Context, msg *types.MsgSetNoRewardClaimsUntil) (*types.MsgSetNoRewardClaimsUntilResponse, error) {
	err := m.keeper.SetNoRewardClaimsUntil(ctx, msg.Manager, msg.Timestamp)
	metrics.GetCollector().RecordOperation(types.TypeMsgSetNoRewardClaimsUntil, err)
	if err != nil {
		return nil, err
	}
	return &types.MsgSetNoRewardClaimsUntilResponse{}, nil
}

// AddInvestor handles MsgAddInvestor
func (m *MsgServer) AddInvestor(ctx context.Context, msg *types.MsgAddInvestor) (*types.MsgAddInvestorResponse, error) {
	err := m.keeper.AddInvestorAddress(ctx, msg.Manager, msg.Investor)
	metrics.GetCollector().RecordOperation(types.TypeMsgAddInvestor, err)
	if err != nil {
		return nil, err
	}
	return &types.MsgAddInvestorResponse{}, nil
}

// RemoveInvestor handles MsgRemoveInvestor
func (m *MsgServer) RemoveInvestor(ctx context.Context, msg *types.MsgRemoveInvestor) (*types.MsgRemoveInvestorResponse, error) {
	err := m.keeper.RemoveInvestorAddress(ctx, msg.Manager, msg.Investor)
	metrics.GetCollector().RecordOperation(types.TypeMsgRemoveInvestor, err)
	if err != nil {
		return nil, err
	}
	return &types.MsgRemoveInvestorResponse{}, nil
}

// Pause handles MsgPause
func (m *MsgServer) Pause(ctx context.Context, msg *types.MsgPause) (*types.MsgPauseResponse, error) {
	err := m.keeper.Pause(ctx, msg.Admin)
	metrics.GetCollector().RecordOperation(types.TypeMsgPause, err)
	if err != nil {
		return nil, err
	}
	metrics.GetCollector().RecordPaused(true)
	return &types.MsgPauseResponse{}, nil
}

// Unpause handles MsgUnpause
func (m *MsgServer) Unpause(ctx context.Context, msg *types.MsgUnpause) (*types.MsgUnpauseResponse, error) {
	err := m.keeper.Unpause(ctx, msg.Admin)
	metrics.GetCollector().RecordOperation(types.TypeMsgUnpause, err)
	if err != nil {
		return nil, err
	}
	metrics.GetCollector().RecordPaused(false)
	return &types.MsgUnpauseResponse{}, nil
}

// DepositTo handles MsgDepositTo
func (m *MsgServer) DepositTo(ctx context.Context, msg *types.MsgDepositTo) (*types.MsgDepositToResponse, error) {
	amount, err := types.ParseAmount(msg.Amount, false)
	if err != nil {
		return nil, err
	}
	paid, err := m.keeper.DepositTo(ctx, msg.Sender, msg.PoolID, amount, msg.Recipient)
	metrics.GetCollector().RecordOperation(types.TypeMsgDepositTo, err)
	if err != nil {
		return nil, err
	}
	metrics.GetCollector().RecordDeposit(msg.PoolID, amount)
	metrics.GetCollector().RecordRewardPaid(msg.PoolID, paid)
	return &types.MsgDepositToResponse{
		Deposited:  amount.String(),
		RewardPaid: paid.String(),
	}, nil
}

// ClaimReward handles MsgClaimReward
func (m *MsgServer) ClaimReward(ctx context.Context, msg *types.MsgClaimReward) (*types.MsgClaimRewardResponse, error) {
	paid, err := m.keeper.ClaimReward(ctx, msg.Sender, msg.PoolID)
	metrics.GetCollector().RecordOperation(types.TypeMsgClaimReward, err)
	if err != nil {
		return nil, err
	}
	metrics.GetCollector().RecordRewardPaid(msg.PoolID, paid)
	return &types.MsgClaimRewardResponse{Reward: paid.String()}, nil
}

// RequestWithdrawal handles MsgRequestWithdrawal
func (m *MsgServer) RequestWithdrawal(ctx context.Context, msg *types.MsgRequestWithdrawal) (*types.MsgRequestWithdrawalResponse, error) {
	status, err := m.keeper.RequestWithdrawal(ctx, msg.Sender, msg.PoolID)
	metrics.GetCollector().RecordOperation(types.TypeMsgRequestWithdrawal, err)
	if err != nil {
		return nil, err
	}
	return &types.MsgRequestWithdrawalResponse{
		RequestedAt: status.RequestedAt,
		ActiveAt:    status.ActiveAt,
		ExpiresAt:   status.ExpiresAt,
	}, nil
}

// Withdraw handles MsgWithdraw
func (m *MsgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	amount, err := types.ParseAmount(msg.Amount, false)
	if err != nil {
		return nil, err
	}
	remaining, paid, err := m.keeper.Withdraw(ctx, msg.Sender, msg.PoolID, amount)
	metrics.GetCollector().RecordOperation(types.TypeMsgWithdraw, err)
	if err != nil {
		return nil, err
	}
	metrics.GetCollector().RecordWithdrawal(msg.PoolID, amount)
	metrics.GetCollector().RecordRewardPaid(msg.PoolID, paid)
	return &types.MsgWithdrawResponse{
		Remaining:  remaining.String(),
		RewardPaid: paid.String(),
	}, nil
}
