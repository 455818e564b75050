package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/openalpha/farmd/api/types"
	"github.com/openalpha/farmd/pkg/erc20"
	"github.com/openalpha/farmd/x/farming/keeper"
	farmingtypes "github.com/openalpha/farmd/x/farming/types"
)

const maxMineBlocks = int64(100_000)

// EventSink receives the events of every delivered message and produced block
type EventSink func(height int64, events sdk.Events)

// SimulatorConfig configures the in-memory farm
type SimulatorConfig struct {
	Manager        string
	Admin          string
	RewardToken    string
	TokensPerBlock string
	// RewardReserve is minted to the farm escrow at genesis
	RewardReserve string

	GenesisHeight int64
	GenesisTime   time.Time
	BlockTime     time.Duration

	ClaimsOpenAfter      time.Duration
	InvestorsUnlockAfter time.Duration

	Logger log.Logger
}

func devAddress(name string) string {
	bz := make([]byte, 20)
	copy(bz, name)
	return sdk.AccAddress(bz).String()
}

// DefaultSimulatorConfig returns a config with deterministic dev roles
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		Manager:              devAddress("farm-manager"),
		Admin:                devAddress("farm-admin"),
		RewardToken:          "ufarm",
		TokensPerBlock:       "100",
		RewardReserve:        "1000000000000",
		GenesisHeight:        1,
		GenesisTime:          time.Now().UTC().Truncate(time.Second),
		BlockTime:            time.Second,
		ClaimsOpenAfter:      0,
		InvestorsUnlockAfter: 30 * 24 * time.Hour,
	}
}

// KeeperService runs the farming keeper over an in-memory store with a
// simulated block clock. Every call is serialised on mu.
type KeeperService struct {
	keeper      *keeper.Keeper
	msgServer   *keeper.MsgServer
	queryServer *keeper.QueryServer
	ledger      *erc20.Ledger
	escrow      string
	blockTime   time.Duration
	logger      log.Logger

	mu       sync.RWMutex
	ctx      sdk.Context
	onEvents EventSink
}

var (
	_ types.FarmingService   = (*KeeperService)(nil)
	_ types.SimulatorService = (*KeeperService)(nil)
)

// NewKeeperService creates a KeeperService with genesis built from cfg
func NewKeeperService(cfg SimulatorConfig) (*KeeperService, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if cfg.BlockTime <= 0 {
		cfg.BlockTime = time.Second
	}
	if cfg.GenesisTime.IsZero() {
		cfg.GenesisTime = time.Now().UTC().Truncate(time.Second)
	}

	rate, err := farmingtypes.ParseAmount(cfg.TokensPerBlock, true)
	if err != nil {
		return nil, fmt.Errorf("tokens per block: %w", err)
	}

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	storeKey := storetypes.NewKVStoreKey(farmingtypes.StoreKey)
	tokenKey := storetypes.NewKVStoreKey("erc20")
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	stateStore.MountStoreWithDB(tokenKey, storetypes.StoreTypeIAVL, nil)
	if err := stateStore.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{
		Time:   cfg.GenesisTime,
		Height: cfg.GenesisHeight,
	}, false, logger)

	escrow := authtypes.NewModuleAddress(farmingtypes.ModuleAccountName).String()
	ledger := erc20.NewLedger(tokenKey, escrow)
	k := keeper.NewKeeper(cdc, storeKey, ledger, logger)

	genesisUnix := cfg.GenesisTime.Unix()
	params := farmingtypes.NewParams(
		cfg.Manager,
		cfg.RewardToken,
		rate,
		genesisUnix+int64(cfg.ClaimsOpenAfter/time.Second),
		genesisUnix+int64(cfg.InvestorsUnlockAfter/time.Second),
	)
	if cfg.Admin != "" {
		params.Admin = cfg.Admin
	}
	gs := farmingtypes.DefaultGenesis()
	gs.Params = params
	if err := gs.Validate(); err != nil {
		return nil, err
	}
	k.InitGenesis(ctx, *gs)

	if cfg.RewardReserve != "" {
		reserve, err := farmingtypes.ParseAmount(cfg.RewardReserve, true)
		if err != nil {
			return nil, fmt.Errorf("reward reserve: %w", err)
		}
		if err := ledger.Mint(ctx, cfg.RewardToken, escrow, reserve); err != nil {
			return nil, err
		}
	}

	logger.Info("farm simulator initialised",
		"height", cfg.GenesisHeight,
		"manager", params.Manager,
		"admin", params.Admin,
		"reward_token", params.RewardToken,
		"tokens_per_block", rate.String(),
	)

	return &KeeperService{
		keeper:      k,
		msgServer:   keeper.NewMsgServerImpl(k),
		queryServer: keeper.NewQueryServerImpl(k),
		ledger:      ledger,
		escrow:      escrow,
		blockTime:   cfg.BlockTime,
		logger:      logger,
		ctx:         ctx,
	}, nil
}

// OnEvents installs the event sink
func (s *KeeperService) OnEvents(sink EventSink) {
	s.mu.Lock()
	s.onEvents = sink
	s.mu.Unlock()
}

// Escrow returns the farm escrow address
func (s *KeeperService) Escrow() string {
	return s.escrow
}

// deliver executes fn against the current block with a fresh event manager
// and forwards the resulting events
func deliver[Req, Resp any](s *KeeperService, reqCtx context.Context, req Req, fn func(context.Context, Req) (Resp, error)) (Resp, error) {
	s.mu.Lock()
	ctx := s.ctx.WithContext(reqCtx).WithEventManager(sdk.NewEventManager())
	resp, err := fn(ctx, req)
	height := ctx.BlockHeight()
	events := ctx.EventManager().Events()
	sink := s.onEvents
	s.mu.Unlock()

	if err != nil {
		var zero Resp
		return zero, err
	}
	if sink != nil && len(events) > 0 {
		sink(height, events)
	}
	return resp, nil
}

func (s *KeeperService) AddPool(ctx context.Context, msg *farmingtypes.MsgAddPool) (*farmingtypes.MsgAddPoolResponse, error) {
	return deliver(s, ctx, msg, s.msgServer.AddPool)
}

func (s *KeeperService) SetPool(ctx context.Context, msg *farmingtypes.MsgSetPool) (*farmingtypes.MsgSetPoolResponse, error) {
	return deliver(s, ctx, msg, s.msgServer.SetPool)
}

func (s *KeeperService) SetTokenPerBlock(ctx context.Context, msg *farmingtypes.MsgSetTokenPerBlock) (*farmingtypes.MsgSetTokenPerBlockResponse, error) {
	return deliver(s, ctx, msg, s.msgServer.SetTokenPerBlock)
}

func (s *KeeperService) SetNoRewardClaimsUntil(ctx context.Context, msg *farmingtypes.MsgSetNoRewardClaimsUntil) (*farmingtypes.MsgSetNoRewardClaimsUntilResponse, error) {
	return deliver(s, ctx, msg, s.msgServer.SetNoRewardClaimsUntil)
}

func (s *KeeperService) AddInvestor(ctx context.Context, msg *farmingtypes.MsgAddInvestor) (*farmingtypes.MsgAddInvestorResponse, error) {
	return deliver(s, ctx, msg, s.msgServer.AddInvestor)
}

func (s *KeeperService) RemoveInvestor(ctx context.Context, msg *farmingtypes.MsgRemoveInvestor) (*farmingtypes.MsgRemoveInvestorResponse, error) {
	return deliver(s, ctx, msg, s.msgServer.RemoveInvestor)
}

func (s *KeeperService) Pause(ctx context.Context, msg *farmingtypes.MsgPause) (*farmingtypes.MsgPauseResponse, error) {
	return deliver(s, ctx, msg, s.msgServer.Pause)
}

func (s *KeeperService) Unpause(ctx context.Context, msg *farmingtypes.MsgUnpause) (*farmingtypes.MsgUnpauseResponse, error) {
	return deliver(s, ctx, msg, s.msgServer.Unpause)
}

func (s *KeeperService) DepositTo(ctx context.Context, msg *farmingtypes.MsgDepositTo) (*farmingtypes.MsgDepositToResponse, error) {
	return deliver(s, ctx, msg, s.msgServer.DepositTo)
}

func (s *KeeperService) ClaimReward(ctx context.Context, msg *farmingtypes.MsgClaimReward) (*farmingtypes.MsgClaimRewardResponse, error) {
	return deliver(s, ctx, msg, s.msgServer.ClaimReward)
}

func (s *KeeperService) RequestWithdrawal(ctx context.Context, msg *farmingtypes.MsgRequestWithdrawal) (*farmingtypes.MsgRequestWithdrawalResponse, error) {
	return deliver(s, ctx, msg, s.msgServer.RequestWithdrawal)
}

func (s *KeeperService) Withdraw(ctx context.Context, msg *farmingtypes.MsgWithdraw) (*farmingtypes.MsgWithdrawResponse, error) {
	return deliver(s, ctx, msg, s.msgServer.Withdraw)
}

// ============================================================================
// Queries
// ============================================================================

func (s *KeeperService) Status(ctx context.Context) types.ChainStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.ChainStatus{
		Height: s.ctx.BlockHeight(),
		Time:   s.ctx.BlockTime().Unix(),
		Paused: s.keeper.GetParams(s.ctx).Paused,
	}
}

func (s *KeeperService) Params(ctx context.Context) (farmingtypes.Params, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryServer.Params(s.ctx)
}

func (s *KeeperService) Pools(ctx context.Context, offset, limit uint64) ([]*farmingtypes.Pool, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryServer.Pools(s.ctx, offset, limit)
}

func (s *KeeperService) Pool(ctx context.Context, poolID uint64) (*farmingtypes.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryServer.Pool(s.ctx, poolID)
}

func (s *KeeperService) UserInfo(ctx context.Context, poolID uint64, addr string) (farmingtypes.UserInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryServer.UserInfo(s.ctx, poolID, addr)
}

func (s *KeeperService) WithdrawalStatus(ctx context.Context, poolID uint64, addr string) (farmingtypes.WithdrawalStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryServer.WithdrawalStatus(s.ctx, poolID, addr)
}

func (s *KeeperService) Investors(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryServer.Investors(s.ctx)
}

func (s *KeeperService) Balance(ctx context.Context, denom, addr string) (*types.BalanceInfo, error) {
	if denom == "" {
		return nil, fmt.Errorf("denom is required")
	}
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance(denom, addr), nil
}

func (s *KeeperService) balance(denom, addr string) *types.BalanceInfo {
	return &types.BalanceInfo{
		Denom:     denom,
		Address:   addr,
		Balance:   s.ledger.BalanceOf(s.ctx, denom, addr).String(),
		Allowance: s.ledger.Allowance(s.ctx, denom, addr, s.escrow).String(),
	}
}

// ============================================================================
// Simulator controls
// ============================================================================

// Mine produces blocks, one block time apart
func (s *KeeperService) Mine(ctx context.Context, blocks int64) (types.ChainStatus, error) {
	if blocks <= 0 || blocks > maxMineBlocks {
		return types.ChainStatus{}, fmt.Errorf("blocks must be between 1 and %d", maxMineBlocks)
	}
	return s.advance(blocks, time.Duration(blocks)*s.blockTime)
}

// IncreaseTime moves the clock forward and produces one block
func (s *KeeperService) IncreaseTime(ctx context.Context, seconds int64) (types.ChainStatus, error) {
	if seconds <= 0 {
		return types.ChainStatus{}, fmt.Errorf("seconds must be positive")
	}
	return s.advance(1, time.Duration(seconds)*time.Second)
}

func (s *KeeperService) advance(blocks int64, elapsed time.Duration) (types.ChainStatus, error) {
	s.mu.Lock()
	s.ctx = s.ctx.
		WithBlockHeight(s.ctx.BlockHeight() + blocks).
		WithBlockTime(s.ctx.BlockTime().Add(elapsed))
	ctx := s.ctx.WithEventManager(sdk.NewEventManager())
	err := s.keeper.EndBlocker(ctx)
	status := types.ChainStatus{
		Height: ctx.BlockHeight(),
		Time:   ctx.BlockTime().Unix(),
		Paused: s.keeper.GetParams(ctx).Paused,
	}
	events := ctx.EventManager().Events()
	sink := s.onEvents
	s.mu.Unlock()

	if err != nil {
		return status, err
	}
	if sink != nil {
		sink(status.Height, events)
	}
	return status, nil
}

// Faucet mints tokens to an address
func (s *KeeperService) Faucet(ctx context.Context, req *types.FaucetRequest) (*types.BalanceInfo, error) {
	amount, err := farmingtypes.ParseAmount(req.Amount, false)
	if err != nil {
		return nil, err
	}
	if req.Denom == "" {
		return nil, fmt.Errorf("denom is required")
	}
	if _, err := sdk.AccAddressFromBech32(req.Address); err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.Mint(s.ctx, req.Denom, req.Address, amount); err != nil {
		return nil, err
	}
	s.logger.Debug("faucet", "denom", req.Denom, "address", req.Address, "amount", amount.String())
	return s.balance(req.Denom, req.Address), nil
}

// Approve sets the allowance the farm escrow may pull from the owner
func (s *KeeperService) Approve(ctx context.Context, req *types.ApproveRequest) error {
	amount, err := farmingtypes.ParseAmount(req.Amount, true)
	if err != nil {
		return err
	}
	if req.Denom == "" {
		return fmt.Errorf("denom is required")
	}
	if _, err := sdk.AccAddressFromBech32(req.Owner); err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Approve(s.ctx, req.Denom, req.Owner, s.escrow, amount)
}

// Run produces a block every interval until ctx is done
func (s *KeeperService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Mine(ctx, 1); err != nil {
				s.logger.Error("block production failed", "error", err)
			}
		}
	}
}

// RewardReserve returns the escrow balance of the reward token
func (s *KeeperService) RewardReserve() math.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.BalanceOf(s.ctx, s.keeper.GetParams(s.ctx).RewardToken, s.escrow)
}
