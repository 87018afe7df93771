// Package config resolves CLI configuration from the environment.
// Values are read from ETHCORE_-prefixed variables, with a .env.local file
// loaded first when present.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// ModuleName is used in CLI help output.
const ModuleName = "go-ethcore"

// Config carries everything the CLI needs.
type Config struct {
	RPCURL      string `json:"rpc_url"`
	ChainID     uint64 `json:"chain_id"`
	KeystoreDir string `json:"keystore_dir"`
	LogLevel    string `json:"log_level"`
	PrettyLogs  bool   `json:"pretty_logs"`
}

// DefaultConfigFromEnv resolves the configuration. Missing variables fall
// back to local-development defaults.
func DefaultConfigFromEnv() Config {
	_ = gotenv.Load(".env.local")

	v := viper.New()
	v.SetEnvPrefix("ETHCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpc_url", "http://localhost:8545")
	v.SetDefault("chain_id", uint64(1))
	v.SetDefault("keystore_dir", "keystore")
	v.SetDefault("log_level", "info")
	v.SetDefault("pretty_logs", true)

	return Config{
		RPCURL:      v.GetString("rpc_url"),
		ChainID:     v.GetUint64("chain_id"),
		KeystoreDir: v.GetString("keystore_dir"),
		LogLevel:    v.GetString("log_level"),
		PrettyLogs:  v.GetBool("pretty_logs"),
	}
}
