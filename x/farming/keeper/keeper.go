package keeper

import (
	"encoding/binary"
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/openalpha/farmd/x/farming/types"
)

// Store key prefixes
var (
	PoolKeyPrefix     = []byte{0x01}
	PositionKeyPrefix = []byte{0x02}
	ParamsKey         = []byte{0x03}
	InvestorKeyPrefix = []byte{0x04}
	PoolCountKey      = []byte{0x05}
)

// Keeper manages the farming module state
type Keeper struct {
	cdc         codec.BinaryCodec
	storeKey    storetypes.StoreKey
	tokenKeeper types.TokenKeeper
	escrow      string
	weighting   types.Weighting
	logger      log.Logger
}

// NewKeeper creates a new farming keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	tokenKeeper types.TokenKeeper,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:         cdc,
		storeKey:    storeKey,
		tokenKeeper: tokenKeeper,
		escrow:      authtypes.NewModuleAddress(types.ModuleAccountName).String(),
		weighting:   types.ProportionalWeighting{},
		logger:      logger.With("module", "x/farming"),
	}
}

// SetWeighting replaces the emission weighting function. Must be called
// before the first block is processed.
func (k *Keeper) SetWeighting(w types.Weighting) {
	k.weighting = w
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

func poolKey(id uint64) []byte {
	return binary.BigEndian.AppendUint64(append([]byte{}, PoolKeyPrefix...), id)
}

func positionPrefix(poolID uint64) []byte {
	return binary.BigEndian.AppendUint64(append([]byte{}, PositionKeyPrefix...), poolID)
}

func positionKey(poolID uint64, owner string) []byte {
	return append(positionPrefix(poolID), []byte(owner)...)
}

func investorKey(addr string) []byte {
	return append(append([]byte{}, InvestorKeyPrefix...), []byte(addr)...)
}

// PoolStoreKey returns the raw store key of a pool for ABCI store queries
func PoolStoreKey(id uint64) []byte { return poolKey(id) }

// PositionStoreKey returns the raw store key of a position
func PositionStoreKey(poolID uint64, owner string) []byte { return positionKey(poolID, owner) }

// InvestorStoreKey returns the raw store key of an investor set entry
func InvestorStoreKey(addr string) []byte { return investorKey(addr) }

// ============ Params ============

// SetParams saves the module params
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) {
	bz, _ := json.Marshal(params)
	k.GetStore(ctx).Set(ParamsKey, bz)
}

// GetParams returns the module params, or defaults if unset
func (k *Keeper) GetParams(ctx sdk.Context) types.Params {
	bz := k.GetStore(ctx).Get(ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.DefaultParams()
	}
	return params
}

// ============ Pool Operations ============

// GetPoolLength returns the number of registered pools
func (k *Keeper) GetPoolLength(ctx sdk.Context) uint64 {
	bz := k.GetStore(ctx).Get(PoolCountKey)
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (k *Keeper) setPoolLength(ctx sdk.Context, n uint64) {
	k.GetStore(ctx).Set(PoolCountKey, binary.BigEndian.AppendUint64(nil, n))
}

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	bz, _ := json.Marshal(pool)
	k.GetStore(ctx).Set(poolKey(pool.ID), bz)
}

// GetPool retrieves a pool from the store
func (k *Keeper) GetPool(ctx sdk.Context, id uint64) *types.Pool {
	bz := k.GetStore(ctx).Get(poolKey(id))
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// GetAllPools returns all pools in index order
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// ============ Position Operations ============

// SetPosition saves a position to the store
func (k *Keeper) SetPosition(ctx sdk.Context, pos *types.UserPosition) {
	bz, _ := json.Marshal(pos)
	k.GetStore(ctx).Set(positionKey(pos.PoolID, pos.Owner), bz)
}

// GetPosition retrieves a position, or nil if the owner never deposited
func (k *Keeper) GetPosition(ctx sdk.Context, poolID uint64, owner string) *types.UserPosition {
	bz := k.GetStore(ctx).Get(positionKey(poolID, owner))
	if bz == nil {
		return nil
	}
	var pos types.UserPosition
	if err := json.Unmarshal(bz, &pos); err != nil {
		return nil
	}
	return &pos
}

// getOrCreatePosition returns the stored position or a zero-valued one
func (k *Keeper) getOrCreatePosition(ctx sdk.Context, poolID uint64, owner string) *types.UserPosition {
	if pos := k.GetPosition(ctx, poolID, owner); pos != nil {
		return pos
	}
	return types.NewUserPosition(poolID, owner)
}

// GetPoolPositions returns all positions in a pool
func (k *Keeper) GetPoolPositions(ctx sdk.Context, poolID uint64) []*types.UserPosition {
	return k.iteratePositions(ctx, positionPrefix(poolID))
}

// GetAllPositions returns every position in every pool
func (k *Keeper) GetAllPositions(ctx sdk.Context) []*types.UserPosition {
	return k.iteratePositions(ctx, PositionKeyPrefix)
}

func (k *Keeper) iteratePositions(ctx sdk.Context, prefix []byte) []*types.UserPosition {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), prefix)
	defer iterator.Close()

	var positions []*types.UserPosition
	for ; iterator.Valid(); iterator.Next() {
		var pos types.UserPosition
		if err := json.Unmarshal(iterator.Value(), &pos); err != nil {
			continue
		}
		positions = append(positions, &pos)
	}
	return positions
}

// ============ Investor Set ============

func (k *Keeper) setInvestor(ctx sdk.Context, addr string) {
	k.GetStore(ctx).Set(investorKey(addr), []byte{0x01})
}

func (k *Keeper) deleteInvestor(ctx sdk.Context, addr string) {
	k.GetStore(ctx).Delete(investorKey(addr))
}

// IsPrivateInvestor reports whether addr is in the private investor set
func (k *Keeper) IsPrivateInvestor(ctx sdk.Context, addr string) bool {
	return k.GetStore(ctx).Has(investorKey(addr))
}

// GetAllInvestors returns the private investor set
func (k *Keeper) GetAllInvestors(ctx sdk.Context) []string {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), InvestorKeyPrefix)
	defer iterator.Close()

	var investors []string
	for ; iterator.Valid(); iterator.Next() {
		investors = append(investors, string(iterator.Key()[len(InvestorKeyPrefix):]))
	}
	return investors
}
