// Package keys implements mnemonic generation and address derivation
// subcommands.
package keys

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/go-ethcore/hdwallet"
	"github/chapool/go-ethcore/internal/config"
	"github/chapool/go-ethcore/internal/util/command"
	"github/chapool/go-ethcore/keystore"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Key and mnemonic management",
	}
	cmd.AddCommand(newGenerate(), newDerive())
	return cmd
}

func newGenerate() *cobra.Command {
	var bits int
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generates a fresh mnemonic and prints its first address",
		Run: func(_ *cobra.Command, _ []string) {
			entropy := make([]byte, bits/8)
			if _, err := rand.Read(entropy); err != nil {
				log.Fatal().Err(err).Msg("Failed to gather entropy")
			}
			mnemonic, err := hdwallet.NewMnemonic(entropy)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to build mnemonic")
			}
			addr, err := addressAt(mnemonic, "", 0)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to derive address")
			}
			fmt.Println(mnemonic)
			fmt.Println(addr)
		},
	}
	cmd.Flags().IntVar(&bits, "bits", 128, "entropy size in bits (128..256, multiple of 32)")
	return cmd
}

func newDerive() *cobra.Command {
	var index uint32
	var save bool
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derives the address at m/44'/60'/0'/0/<index> from a mnemonic",
		RunE: func(_ *cobra.Command, _ []string) error {
			mnemonic, err := command.ReadPassword("Mnemonic: ")
			if err != nil {
				return err
			}
			passphrase, err := command.ReadPassword("Passphrase (empty for none): ")
			if err != nil {
				return err
			}
			addr, err := addressAt(mnemonic, passphrase, index)
			if err != nil {
				return err
			}
			fmt.Println(addr)
			if !save {
				return nil
			}
			return saveKeystore(mnemonic, passphrase, index, addr)
		},
	}
	cmd.Flags().Uint32Var(&index, "index", 0, "BIP-44 address index")
	cmd.Flags().BoolVar(&save, "save", false, "write an encrypted keystore file")
	return cmd
}

func addressAt(mnemonic, passphrase string, index uint32) (string, error) {
	seed, err := hdwallet.NewSeed(mnemonic, passphrase)
	if err != nil {
		return "", err
	}
	master, err := hdwallet.Master(seed)
	if err != nil {
		return "", err
	}
	defer master.Destroy()
	key, err := hdwallet.DeriveEthereumKey(master, index)
	if err != nil {
		return "", err
	}
	defer key.Destroy()
	addr, err := key.Address()
	if err != nil {
		return "", err
	}
	return addr.Checksum(), nil
}

func saveKeystore(mnemonic, passphrase string, index uint32, addr string) error {
	password, err := command.ReadPassword("Keystore password: ")
	if err != nil {
		return err
	}

	seed, err := hdwallet.NewSeed(mnemonic, passphrase)
	if err != nil {
		return err
	}
	master, err := hdwallet.Master(seed)
	if err != nil {
		return err
	}
	defer master.Destroy()
	key, err := hdwallet.DeriveEthereumKey(master, index)
	if err != nil {
		return err
	}
	defer key.Destroy()

	doc, err := keystore.Encrypt(key, password, keystore.StandardScryptParams())
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	cfg := config.DefaultConfigFromEnv()
	if err := os.MkdirAll(cfg.KeystoreDir, 0o700); err != nil {
		return err
	}
	path := filepath.Join(cfg.KeystoreDir, doc.Address+".json")
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return err
	}
	log.Info().Str("path", path).Str("address", addr).Msg("Keystore written")
	return nil
}
