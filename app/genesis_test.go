package app

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenesisValidatorUpdates(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(make([]byte, 32))

	t.Run("bonded staking validators", func(t *testing.T) {
		gs := GenesisState{
			"staking": json.RawMessage(`{"validators":[
				{"consensus_pubkey":{"@type":"/cosmos.crypto.ed25519.PubKey","key":"` + key + `"},"status":"BOND_STATUS_BONDED"},
				{"consensus_pubkey":{"@type":"/cosmos.crypto.ed25519.PubKey","key":"` + key + `"},"status":"BOND_STATUS_UNBONDED"}
			]}`),
		}
		updates := gs.validatorUpdates()
		require.Len(t, updates, 1)
		require.Equal(t, int64(genesisValidatorPower), updates[0].Power)
	})

	t.Run("falls back to gentxs", func(t *testing.T) {
		gs := GenesisState{
			"staking": json.RawMessage(`{"validators":[]}`),
			"genutil": json.RawMessage(`{"gen_txs":[{"body":{"messages":[
				{"@type":"` + createValidatorURL + `","pubkey":{"@type":"/cosmos.crypto.ed25519.PubKey","key":"` + key + `"}},
				{"@type":"/cosmos.bank.v1beta1.MsgSend"}
			]}}]}`),
		}
		require.Len(t, gs.validatorUpdates(), 1)
	})

	t.Run("bad key skipped", func(t *testing.T) {
		gs := GenesisState{
			"staking": json.RawMessage(`{"validators":[{"consensus_pubkey":{"key":"%%%"},"status":"BOND_STATUS_BONDED"}]}`),
		}
		require.Empty(t, gs.validatorUpdates())
	})

	t.Run("empty", func(t *testing.T) {
		require.Empty(t, GenesisState{}.validatorUpdates())
	})
}
