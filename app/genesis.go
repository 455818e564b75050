package app

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"
	cmtcrypto "github.com/cometbft/cometbft/proto/tendermint/crypto"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	farmingtypes "github.com/openalpha/farmd/x/farming/types"
)

const (
	genesisValidatorPower = 100
	createValidatorURL    = "/cosmos.staking.v1beta1.MsgCreateValidator"
)

// GenesisState is the raw app state keyed by module name
type GenesisState map[string]json.RawMessage

// pubKeyJSON is an amino-JSON encoded consensus key
type pubKeyJSON struct {
	Type string `json:"@type"`
	Key  string `json:"key"`
}

// stakingGenesis is the subset of x/staking genesis needed to seed CometBFT
// with the bonded set. farmd does not run the staking keeper.
type stakingGenesis struct {
	Validators []struct {
		ConsensusPubkey pubKeyJSON `json:"consensus_pubkey"`
		Status          string     `json:"status"`
	} `json:"validators"`
}

type genutilGenesis struct {
	GenTxs []struct {
		Body struct {
			Messages []json.RawMessage `json:"messages"`
		} `json:"body"`
	} `json:"gen_txs"`
}

type createValidatorMsg struct {
	Type   string     `json:"@type"`
	Pubkey pubKeyJSON `json:"pubkey"`
}

// InitChainer loads accounts and balances, creates the farm escrow and
// initialises the farm from genesis
func (app *App) InitChainer(ctx sdk.Context, req *abci.RequestInitChain) (*abci.ResponseInitChain, error) {
	var state GenesisState
	if err := json.Unmarshal(req.AppStateBytes, &state); err != nil {
		return nil, fmt.Errorf("app state: %w", err)
	}

	if raw, ok := state[authtypes.ModuleName]; ok {
		var gs authtypes.GenesisState
		if err := app.appCodec.UnmarshalJSON(raw, &gs); err != nil {
			return nil, fmt.Errorf("auth genesis: %w", err)
		}
		app.AccountKeeper.InitGenesis(ctx, gs)
	}
	if raw, ok := state[banktypes.ModuleName]; ok {
		var gs banktypes.GenesisState
		if err := app.appCodec.UnmarshalJSON(raw, &gs); err != nil {
			return nil, fmt.Errorf("bank genesis: %w", err)
		}
		app.BankKeeper.InitGenesis(ctx, &gs)
	}

	// escrow must exist before the first deposit lands in it
	app.AccountKeeper.GetModuleAccount(ctx, farmingtypes.ModuleAccountName)
	app.farmingModule.InitGenesis(ctx, app.appCodec, state[farmingtypes.ModuleName])

	validators := req.Validators
	if len(validators) == 0 {
		validators = state.validatorUpdates()
	}
	return &abci.ResponseInitChain{Validators: validators}, nil
}

// validatorUpdates returns the bonded validators from staking genesis, or
// the create-validator gentxs when staking genesis lists none
func (gs GenesisState) validatorUpdates() []abci.ValidatorUpdate {
	keys := gs.bondedKeys()
	if len(keys) == 0 {
		keys = gs.gentxKeys()
	}

	updates := make([]abci.ValidatorUpdate, 0, len(keys))
	for _, key := range keys {
		bz, err := base64.StdEncoding.DecodeString(key)
		if err != nil {
			continue
		}
		updates = append(updates, abci.ValidatorUpdate{
			PubKey: cmtcrypto.PublicKey{Sum: &cmtcrypto.PublicKey_Ed25519{Ed25519: bz}},
			Power:  genesisValidatorPower,
		})
	}
	return updates
}

func (gs GenesisState) bondedKeys() []string {
	var staking stakingGenesis
	if raw, ok := gs["staking"]; !ok || json.Unmarshal(raw, &staking) != nil {
		return nil
	}
	var keys []string
	for _, v := range staking.Validators {
		if v.Status == "BOND_STATUS_BONDED" {
			keys = append(keys, v.ConsensusPubkey.Key)
		}
	}
	return keys
}

func (gs GenesisState) gentxKeys() []string {
	var genutil genutilGenesis
	if raw, ok := gs["genutil"]; !ok || json.Unmarshal(raw, &genutil) != nil {
		return nil
	}
	var keys []string
	for _, tx := range genutil.GenTxs {
		for _, raw := range tx.Body.Messages {
			var msg createValidatorMsg
			if json.Unmarshal(raw, &msg) == nil && msg.Type == createValidatorURL {
				keys = append(keys, msg.Pubkey.Key)
			}
		}
	}
	return keys
}

// ExportAppStateAndValidators exports accounts, balances and the farm at the
// latest committed height
func (app *App) ExportAppStateAndValidators() (servertypes.ExportedApp, error) {
	height := app.LastBlockHeight()
	ctx := app.NewContextLegacy(true, cmtproto.Header{Height: height})

	state := GenesisState{
		authtypes.ModuleName:    app.appCodec.MustMarshalJSON(app.AccountKeeper.ExportGenesis(ctx)),
		banktypes.ModuleName:    app.appCodec.MustMarshalJSON(app.BankKeeper.ExportGenesis(ctx)),
		farmingtypes.ModuleName: app.farmingModule.ExportGenesis(ctx, app.appCodec),
	}
	bz, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return servertypes.ExportedApp{}, err
	}

	return servertypes.ExportedApp{
		AppState:        bz,
		Height:          height,
		ConsensusParams: app.GetConsensusParams(ctx),
	}, nil
}
