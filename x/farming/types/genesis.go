package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisState is the persisted farm: params, the pool registry, every
// position and the private investor set.
type GenesisState struct {
	Params    Params         `json:"params"`
	Pools     []Pool         `json:"pools"`
	Positions []UserPosition `json:"positions"`
	Investors []string       `json:"investors"`
}

// DefaultGenesis returns an empty farm with default params
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:    DefaultParams(),
		Pools:     []Pool{},
		Positions: []UserPosition{},
		Investors: []string{},
	}
}

// Validate checks params, that pool IDs are dense from zero, and that every
// position references an existing pool.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	for i := range gs.Pools {
		pool := gs.Pools[i]
		if pool.ID != uint64(i) {
			return fmt.Errorf("%w: pool at index %d has id %d", ErrInvalidGenesis, i, pool.ID)
		}
		if err := pool.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidGenesis, err)
		}
	}
	seen := make(map[string]bool, len(gs.Positions))
	for _, pos := range gs.Positions {
		if pos.PoolID >= uint64(len(gs.Pools)) {
			return fmt.Errorf("%w: position for unknown pool %d", ErrInvalidGenesis, pos.PoolID)
		}
		if _, err := sdk.AccAddressFromBech32(pos.Owner); err != nil {
			return fmt.Errorf("%w: position owner: %v", ErrInvalidGenesis, err)
		}
		key := fmt.Sprintf("%d/%s", pos.PoolID, pos.Owner)
		if seen[key] {
			return fmt.Errorf("%w: duplicate position %s", ErrInvalidGenesis, key)
		}
		seen[key] = true
		for _, v := range []struct {
			name string
			ok   bool
		}{
			{"deposited", !pos.DepositedAmount.IsNil() && !pos.DepositedAmount.IsNegative()},
			{"total_rewarded", !pos.TotalRewarded.IsNil() && !pos.TotalRewarded.IsNegative()},
			{"reward_debt", !pos.RewardDebt.IsNil() && !pos.RewardDebt.IsNegative()},
			{"unclaimed", !pos.Unclaimed.IsNil() && !pos.Unclaimed.IsNegative()},
		} {
			if !v.ok {
				return fmt.Errorf("%w: position %s has invalid %s", ErrInvalidGenesis, key, v.name)
			}
		}
	}
	for _, inv := range gs.Investors {
		if _, err := sdk.AccAddressFromBech32(inv); err != nil {
			return fmt.Errorf("%w: investor: %v", ErrInvalidGenesis, err)
		}
	}
	return nil
}
