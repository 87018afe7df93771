// Package sign implements the offline transaction-signing subcommand: a
// JSON-described transaction plus a keystore file in, raw hex out.
package sign

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github/chapool/go-ethcore/ethtx"
	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/hexutil"
	"github/chapool/go-ethcore/internal/config"
	"github/chapool/go-ethcore/internal/util/command"
	"github/chapool/go-ethcore/keystore"
)

// txRequest mirrors the JSON-RPC transaction object for offline signing.
// GasPrice selects a legacy envelope; the fee-cap pair selects EIP-1559.
type txRequest struct {
	ChainID              *hexutil.Uint64   `json:"chainId"`
	Nonce                hexutil.Uint64    `json:"nonce"`
	To                   *ethtypes.Address `json:"to"`
	Gas                  hexutil.Uint64    `json:"gas"`
	GasPrice             *hexutil.Big      `json:"gasPrice"`
	MaxPriorityFeePerGas *hexutil.Big      `json:"maxPriorityFeePerGas"`
	MaxFeePerGas         *hexutil.Big      `json:"maxFeePerGas"`
	Value                *hexutil.Big      `json:"value"`
	Data                 hexutil.Bytes     `json:"data"`
}

func New() *cobra.Command {
	var txPath, keystorePath string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Signs a JSON-described transaction with a keystore key",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg := config.DefaultConfigFromEnv()
			raw, err := signOffline(cfg, txPath, keystorePath)
			if err != nil {
				return err
			}
			c.Println(hexutil.Encode(raw))
			return nil
		},
	}
	cmd.Flags().StringVar(&txPath, "tx", "", "path of the transaction JSON file")
	cmd.Flags().StringVar(&keystorePath, "keystore", "", "path of the keystore file")
	_ = cmd.MarkFlagRequired("tx")
	_ = cmd.MarkFlagRequired("keystore")
	return cmd
}

func signOffline(cfg config.Config, txPath, keystorePath string) ([]byte, error) {
	txJSON, err := os.ReadFile(txPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read transaction file")
	}
	var req txRequest
	if err := json.Unmarshal(txJSON, &req); err != nil {
		return nil, errors.Wrap(err, "failed to parse transaction file")
	}

	chainID := cfg.ChainID
	if req.ChainID != nil {
		chainID = uint64(*req.ChainID)
	}
	tx, err := buildTx(&req, chainID)
	if err != nil {
		return nil, err
	}

	docJSON, err := os.ReadFile(keystorePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read keystore file")
	}
	doc, err := keystore.Unmarshal(docJSON)
	if err != nil {
		return nil, err
	}
	password, err := command.ReadPassword("Keystore password: ")
	if err != nil {
		return nil, err
	}
	key, err := keystore.Decrypt(doc, password)
	if err != nil {
		return nil, err
	}
	defer key.Destroy()

	signed, err := ethtx.Sign(tx, key)
	if err != nil {
		return nil, err
	}
	hash, err := signed.Hash()
	if err != nil {
		return nil, err
	}
	log.Info().Str("hash", hash.Hex()).Uint64("chain_id", chainID).Msg("Transaction signed")
	return signed.Raw()
}

func buildTx(req *txRequest, chainID uint64) (*ethtx.Transaction, error) {
	switch {
	case req.GasPrice != nil:
		return ethtx.NewTx(&ethtx.LegacyTx{
			ChainID:  chainID,
			Nonce:    uint64(req.Nonce),
			GasPrice: req.GasPrice.Int(),
			Gas:      uint64(req.Gas),
			To:       req.To,
			Value:    req.Value.Int(),
			Data:     req.Data,
		}), nil
	case req.MaxFeePerGas != nil && req.MaxPriorityFeePerGas != nil:
		return ethtx.NewTx(&ethtx.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     uint64(req.Nonce),
			GasTipCap: req.MaxPriorityFeePerGas.Int(),
			GasFeeCap: req.MaxFeePerGas.Int(),
			Gas:       uint64(req.Gas),
			To:        req.To,
			Value:     req.Value.Int(),
			Data:      req.Data,
		}), nil
	}
	return nil, errors.New("transaction needs either gasPrice or the maxFeePerGas pair")
}
