package farming

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/grpc-ecosystem/grpc-gateway/runtime"
	"github.com/spf13/cobra"

	"github.com/openalpha/farmd/x/farming/client/cli"
	"github.com/openalpha/farmd/x/farming/keeper"
	"github.com/openalpha/farmd/x/farming/types"
)

const (
	ModuleName = types.ModuleName
)

var (
	_ module.AppModuleBasic = AppModuleBasic{}
	_ appmodule.AppModule   = AppModule{}
)

// AppModuleBasic defines the basic application module for farming
type AppModuleBasic struct{}

// Name returns the module's name
func (AppModuleBasic) Name() string {
	return ModuleName
}

// RegisterLegacyAminoCodec registers the module's types on the given LegacyAmino codec
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&types.MsgAddPool{}, "farming/MsgAddPool", nil)
	cdc.RegisterConcrete(&types.MsgSetPool{}, "farming/MsgSetPool", nil)
	cdc.RegisterConcrete(&types.MsgSetTokenPerBlock{}, "farming/MsgSetTokenPerBlock", nil)
	cdc.RegisterConcrete(&types.MsgSetNoRewardClaimsUntil{}, "farming/MsgSetNoRewardClaimsUntil", nil)
	cdc.RegisterConcrete(&types.MsgAddInvestor{}, "farming/MsgAddInvestor", nil)
	cdc.RegisterConcrete(&types.MsgRemoveInvestor{}, "farming/MsgRemoveInvestor", nil)
	cdc.RegisterConcrete(&types.MsgPause{}, "farming/MsgPause", nil)
	cdc.RegisterConcrete(&types.MsgUnpause{}, "farming/MsgUnpause", nil)
	cdc.RegisterConcrete(&types.MsgDepositTo{}, "farming/MsgDepositTo", nil)
	cdc.RegisterConcrete(&types.MsgClaimReward{}, "farming/MsgClaimReward", nil)
	cdc.RegisterConcrete(&types.MsgRequestWithdrawal{}, "farming/MsgRequestWithdrawal", nil)
	cdc.RegisterConcrete(&types.MsgWithdraw{}, "farming/MsgWithdraw", nil)
}

// RegisterInterfaces registers the module's interface types
func (AppModuleBasic) RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	types.RegisterInterfaces(registry)
}

// DefaultGenesis returns default genesis state as raw bytes
func (AppModuleBasic) DefaultGenesis(cdc codec.JSONCodec) json.RawMessage {
	bz, err := json.Marshal(types.DefaultGenesis())
	if err != nil {
		panic(err)
	}
	return bz
}

// ValidateGenesis performs genesis state validation
func (AppModuleBasic) ValidateGenesis(cdc codec.JSONCodec, config client.TxEncodingConfig, bz json.RawMessage) error {
	gs, err := ParseGenesis(bz)
	if err != nil {
		return err
	}
	return gs.Validate()
}

// RegisterGRPCGatewayRoutes registers the gRPC Gateway routes for the module
func (AppModuleBasic) RegisterGRPCGatewayRoutes(clientCtx client.Context, mux *runtime.ServeMux) {
	// TODO: Register gRPC gateway routes once the query service has generated proto bindings
}

// GetQueryCmd returns the farming query commands
func (AppModuleBasic) GetQueryCmd() *cobra.Command {
	return cli.GetQueryCmd()
}

// ParseGenesis decodes raw module genesis, falling back to the default on empty input
func ParseGenesis(bz json.RawMessage) (*types.GenesisState, error) {
	if len(bz) == 0 {
		return types.DefaultGenesis(), nil
	}
	var gs types.GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s genesis state: %w", ModuleName, err)
	}
	return &gs, nil
}

// AppModule implements an application module for the farming module
type AppModule struct {
	AppModuleBasic
	keeper *keeper.Keeper
}

// NewAppModule creates a new AppModule object
func NewAppModule(k *keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: AppModuleBasic{},
		keeper:         k,
	}
}

// Name returns the module's name
func (am AppModule) Name() string {
	return ModuleName
}

// InitGenesis loads the farm from raw genesis
func (am AppModule) InitGenesis(ctx sdk.Context, cdc codec.JSONCodec, bz json.RawMessage) {
	gs, err := ParseGenesis(bz)
	if err != nil {
		panic(err)
	}
	if err := gs.Validate(); err != nil {
		panic(err)
	}
	am.keeper.InitGenesis(ctx, *gs)
}

// ExportGenesis dumps the farm as raw genesis
func (am AppModule) ExportGenesis(ctx sdk.Context, cdc codec.JSONCodec) json.RawMessage {
	bz, err := json.Marshal(am.keeper.ExportGenesis(ctx))
	if err != nil {
		panic(err)
	}
	return bz
}

// IsOnePerModuleType implements the depinject.OnePerModuleType interface
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface
func (am AppModule) IsAppModule() {}

// EndBlocker is called at the end of each block
func (am AppModule) EndBlocker(ctx sdk.Context) error {
	return am.keeper.EndBlocker(ctx)
}
