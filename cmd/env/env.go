// Package env implements the subcommand that prints the resolved
// configuration, for debugging deployments.
package env

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/go-ethcore/internal/config"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the resolved configuration as JSON",
		Run: func(_ *cobra.Command, _ []string) {
			cfg := config.DefaultConfigFromEnv()
			out, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to marshal config")
			}
			fmt.Println(string(out))
		},
	}
}
