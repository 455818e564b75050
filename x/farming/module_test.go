package farming

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestModuleCommands(t *testing.T) {
	basic := AppModuleBasic{}

	// No Msg service is registered on chain, so no tx commands are offered
	_, hasTx := interface{}(basic).(interface{ GetTxCmd() *cobra.Command })
	require.False(t, hasTx)

	var names []string
	for _, c := range basic.GetQueryCmd().Commands() {
		names = append(names, c.Name())
	}
	require.ElementsMatch(t, []string{"params", "pool", "position", "is-investor"}, names)
}
