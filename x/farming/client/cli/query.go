package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/farmd/x/farming/keeper"
	"github.com/openalpha/farmd/x/farming/types"
)

// GetQueryCmd returns the cli query commands for the farming module
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the farming module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		CmdQueryParams(),
		CmdQueryPool(),
		CmdQueryPosition(),
		CmdQueryIsInvestor(),
	)

	return cmd
}

// queryRaw reads a single key from the farming store over ABCI
func queryRaw(cmd *cobra.Command, key []byte) ([]byte, error) {
	clientCtx, err := client.GetClientQueryContext(cmd)
	if err != nil {
		return nil, err
	}
	bz, _, err := clientCtx.QueryStore(key, types.StoreKey)
	return bz, err
}

func parsePoolID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pool id: %v", err)
	}
	return id, nil
}

func printJSON(v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

// CmdQueryParams returns the command to query module params
func CmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query farming params",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := queryRaw(cmd, keeper.ParamsKey)
			if err != nil {
				return err
			}
			params := types.DefaultParams()
			if len(bz) > 0 {
				if err := json.Unmarshal(bz, &params); err != nil {
					return err
				}
			}
			return printJSON(params)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPool returns the command to query a pool
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query pool configuration and accrual state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			bz, err := queryRaw(cmd, keeper.PoolStoreKey(poolID))
			if err != nil {
				return err
			}
			if len(bz) == 0 {
				return fmt.Errorf("pool not found: %d", poolID)
			}
			var pool types.Pool
			if err := json.Unmarshal(bz, &pool); err != nil {
				return err
			}
			return printJSON(pool)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPosition returns the command to query a stored position. Pending
// reward is not previewed here; use the REST API for the full user info.
func CmdQueryPosition() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position [pool-id] [address]",
		Short: "Query a depositor's stored position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			if _, err := sdk.AccAddressFromBech32(args[1]); err != nil {
				return fmt.Errorf("invalid address: %v", err)
			}
			bz, err := queryRaw(cmd, keeper.PositionStoreKey(poolID, args[1]))
			if err != nil {
				return err
			}
			pos := types.NewUserPosition(poolID, args[1])
			if len(bz) > 0 {
				if err := json.Unmarshal(bz, pos); err != nil {
					return err
				}
			}
			return printJSON(pos)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryIsInvestor returns the command to check private investor membership
func CmdQueryIsInvestor() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "is-investor [address]",
		Short: "Check whether an address is a private investor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := queryRaw(cmd, keeper.InvestorStoreKey(args[0]))
			if err != nil {
				return err
			}
			return printJSON(map[string]interface{}{
				"address":             args[0],
				"is_private_investor": len(bz) > 0,
			})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}
