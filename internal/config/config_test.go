package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-ethcore/internal/config"
)

func TestDefaultConfigFromEnv(t *testing.T) {
	cfg := config.DefaultConfigFromEnv()
	_, err := json.MarshalIndent(cfg, "", "  ")
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.RPCURL)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("ETHCORE_CHAIN_ID", "137")
	t.Setenv("ETHCORE_RPC_URL", "https://polygon-rpc.example")

	cfg := config.DefaultConfigFromEnv()
	assert.Equal(t, uint64(137), cfg.ChainID)
	assert.Equal(t, "https://polygon-rpc.example", cfg.RPCURL)
}
