// Package wallet binds a signing key to a chain, producing signed
// transactions, personal-message signatures, and typed-data signatures.
package wallet

import (
	"context"

	"github.com/pkg/errors"

	"github/chapool/go-ethcore/eip712"
	"github/chapool/go-ethcore/ethtx"
	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/provider"
	"github/chapool/go-ethcore/signer"
)

// Wallet couples a key with the chain it signs for.
type Wallet struct {
	key     *signer.Key
	address ethtypes.Address
	chainID uint64
}

// New derives the wallet address up front so later calls cannot fail on it.
func New(key *signer.Key, chainID uint64) (*Wallet, error) {
	addr, err := key.Address()
	if err != nil {
		return nil, err
	}
	return &Wallet{key: key, address: addr, chainID: chainID}, nil
}

// Address is the wallet's account address.
func (w *Wallet) Address() ethtypes.Address { return w.address }

// ChainID is the chain the wallet signs for.
func (w *Wallet) ChainID() uint64 { return w.chainID }

// Destroy zeroizes the underlying key.
func (w *Wallet) Destroy() { w.key.Destroy() }

// SignTx signs a transaction. The envelope's chain id must match the
// wallet's, except for pre-EIP-155 legacy transactions.
func (w *Wallet) SignTx(tx *ethtx.Transaction) (*ethtx.Transaction, error) {
	if cid := tx.ChainID(); cid != w.chainID && !(cid == 0 && tx.Type() == ethtx.LegacyTxType) {
		return nil, errors.Errorf("transaction targets chain %d, wallet is bound to %d", cid, w.chainID)
	}
	return ethtx.Sign(tx, w.key)
}

// SendTx signs the transaction and submits it, returning the transaction
// hash.
func (w *Wallet) SendTx(ctx context.Context, p *provider.Provider, tx *ethtx.Transaction) (ethtypes.Hash, error) {
	signed, err := w.SignTx(tx)
	if err != nil {
		return ethtypes.Hash{}, err
	}
	raw, err := signed.Raw()
	if err != nil {
		return ethtypes.Hash{}, err
	}
	return p.SendRawTransaction(ctx, raw)
}

// SignMessage signs an EIP-191 personal message.
func (w *Wallet) SignMessage(message []byte) (*signer.Signature, error) {
	return signer.Sign(w.key, signer.TextHash(message))
}

// SignTypedData signs an EIP-712 typed-data digest.
func (w *Wallet) SignTypedData(td *eip712.TypedData) (*signer.Signature, error) {
	digest, err := td.Digest()
	if err != nil {
		return nil, err
	}
	return signer.Sign(w.key, digest)
}
