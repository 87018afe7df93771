package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/go-ethcore/cmd/abitool"
	"github/chapool/go-ethcore/cmd/env"
	"github/chapool/go-ethcore/cmd/keys"
	"github/chapool/go-ethcore/cmd/sign"
	"github/chapool/go-ethcore/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ethcore",
	Short: config.ModuleName,
	Long: fmt.Sprintf(`%v

Transaction, ABI and key tooling for Ethereum.
Requires configuration through ENV.`, config.ModuleName),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cfg := config.DefaultConfigFromEnv()
	setupLogging(cfg)

	// attach the subcommands
	rootCmd.AddCommand(
		abitool.New(),
		env.New(),
		keys.New(),
		sign.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.PrettyLogs {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
