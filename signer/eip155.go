package signer

import (
	"strconv"

	"github.com/pkg/errors"

	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/keccak"
)

// The three lossless v encodings: canonical recovery id {0,1}, the legacy
// {27,28} form, and the EIP-155 chain-bound form chainID*2 + 35 + id.

// EIP155V encodes a canonical recovery id under EIP-155 for the given chain.
// Chain id zero yields the pre-EIP-155 legacy form.
func EIP155V(recoveryID byte, chainID uint64) uint64 {
	if chainID == 0 {
		return uint64(recoveryID) + 27
	}
	return chainID*2 + 35 + uint64(recoveryID)
}

// RecoveryIDFromV extracts the canonical recovery id from any v form.
func RecoveryIDFromV(v uint64) (byte, error) {
	return normalizeV(v)
}

// ChainIDFromV extracts the chain id from an EIP-155 v, or zero for the
// legacy forms.
func ChainIDFromV(v uint64) (uint64, error) {
	switch {
	case v == 27 || v == 28:
		return 0, nil
	case v >= 35:
		return (v - 35) / 2, nil
	}
	return 0, errors.Wrapf(ErrInvalidSignature, "v %d carries no chain id", v)
}

// WithChainID returns a copy of sig with V re-encoded under EIP-155.
// The signature must carry a canonical recovery id.
func (sig *Signature) WithChainID(chainID uint64) (*Signature, error) {
	if sig.V > 1 {
		return nil, errors.Wrapf(ErrInvalidSignature, "v %d is not a canonical recovery id", sig.V)
	}
	out := &Signature{V: EIP155V(byte(sig.V), chainID)}
	out.R.Set(&sig.R)
	out.S.Set(&sig.S)
	return out, nil
}

// TextHash computes the EIP-191 personal-message digest:
// keccak256("\x19Ethereum Signed Message:\n" || len || message).
func TextHash(message []byte) ethtypes.Hash {
	prefix := []byte("\x19Ethereum Signed Message:\n")
	length := []byte(strconv.Itoa(len(message)))
	return ethtypes.Hash(keccak.Sum(prefix, length, message))
}
