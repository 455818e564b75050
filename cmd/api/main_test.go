package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUsageWarnsUnauthenticated(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf, newFlagSet())

	out := buf.String()
	require.Contains(t, out, "Requests are not signed")
	require.Contains(t, out, "Do not expose it on a public network")
	require.Contains(t, out, "--manager")
}

func TestLoadConfigFlagsAndEnv(t *testing.T) {
	t.Setenv("FARMD_API_PORT", "9191")

	v, err := loadConfig([]string{"--block-interval", "0s", "--reward-token", "ufarm"})
	require.NoError(t, err)
	require.Equal(t, 9191, v.GetInt("port"))
	require.Equal(t, time.Duration(0), v.GetDuration("block-interval"))
	require.Equal(t, "ufarm", v.GetString("reward-token"))
	require.Equal(t, "0.0.0.0", v.GetString("host"))
}
