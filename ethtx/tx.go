// Package ethtx implements the four deployed Ethereum transaction envelopes
// (legacy, EIP-2930, EIP-1559, EIP-4844), their canonical sighash pre-images
// and signed encodings, and EIP-155 replay protection.
package ethtx

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/keccak"
	"github/chapool/go-ethcore/signer"
)

// TxType is the envelope discriminator byte.
type TxType byte

const (
	LegacyTxType     TxType = 0x00
	AccessListTxType TxType = 0x01
	DynamicFeeTxType TxType = 0x02
	BlobTxType       TxType = 0x03
)

var (
	// ErrUnsigned is returned when a signed-only operation runs on an
	// unsigned transaction.
	ErrUnsigned = errors.New("transaction not signed")
	// ErrInvalidTx covers malformed envelopes and wire encodings.
	ErrInvalidTx = errors.New("invalid transaction")
)

// TxData is the envelope payload. Each variant validates and encodes its own
// fields; Transaction wraps one and owns the signing lifecycle.
type TxData interface {
	txType() TxType
	copy() TxData

	chainID() uint64
	nonce() uint64
	gas() uint64
	to() *ethtypes.Address
	value() *uint256.Int
	data() []byte
	accessList() AccessList

	// sigHashPreimage is the canonical byte string whose Keccak-256 is
	// signed: the RLP pre-image, type-byte prefixed for typed envelopes.
	sigHashPreimage() []byte
	// rawEncoding is the signed wire form.
	rawEncoding() ([]byte, error)

	rawSignatureValues() (v, r, s *uint256.Int)
	setSignatureValues(v, r, s *uint256.Int)
}

// Transaction wraps one envelope variant. A signed Transaction is immutable:
// WithSignature returns a deep copy and accessors copy signature scalars out.
type Transaction struct {
	inner TxData
}

// NewTx wraps a deep copy of the payload.
func NewTx(inner TxData) *Transaction {
	return &Transaction{inner: inner.copy()}
}

func (tx *Transaction) Type() TxType                 { return tx.inner.txType() }
func (tx *Transaction) ChainID() uint64              { return tx.inner.chainID() }
func (tx *Transaction) Nonce() uint64                { return tx.inner.nonce() }
func (tx *Transaction) Gas() uint64                  { return tx.inner.gas() }
func (tx *Transaction) To() *ethtypes.Address        { return copyAddressPtr(tx.inner.to()) }
func (tx *Transaction) Value() *uint256.Int          { return cloneInt(tx.inner.value()) }
func (tx *Transaction) Data() []byte                 { return append([]byte(nil), tx.inner.data()...) }
func (tx *Transaction) AccessList() AccessList       { return tx.inner.accessList().copy() }

// SigHash is the digest the sender signs.
func (tx *Transaction) SigHash() ethtypes.Hash {
	return ethtypes.Hash(keccak.Sum256(tx.inner.sigHashPreimage()))
}

// IsSigned reports whether signature values are present.
func (tx *Transaction) IsSigned() bool {
	_, r, s := tx.inner.rawSignatureValues()
	return r != nil && s != nil && !r.IsZero() && !s.IsZero()
}

// WithSignature returns a signed copy. The signature must carry the
// canonical recovery id; the envelope applies its own v encoding (EIP-155
// for legacy, the raw parity bit for typed envelopes).
func (tx *Transaction) WithSignature(sig *signer.Signature) (*Transaction, error) {
	if sig.V > 1 {
		return nil, errors.Wrapf(ErrInvalidTx, "v %d is not a canonical recovery id", sig.V)
	}
	if err := sig.ValidateStrict(); err != nil {
		return nil, err
	}
	inner := tx.inner.copy()
	v := uint64(sig.V)
	if inner.txType() == LegacyTxType {
		v = signer.EIP155V(byte(sig.V), inner.chainID())
	}
	inner.setSignatureValues(uint256.NewInt(v), cloneInt(&sig.R), cloneInt(&sig.S))
	return &Transaction{inner: inner}, nil
}

// Signature returns the signature in canonical recovery-id form.
func (tx *Transaction) Signature() (*signer.Signature, error) {
	v, r, s := tx.inner.rawSignatureValues()
	if !tx.IsSigned() {
		return nil, ErrUnsigned
	}
	if !v.IsUint64() {
		return nil, errors.Wrap(ErrInvalidTx, "v exceeds 64 bits")
	}
	recID, err := signer.RecoveryIDFromV(v.Uint64())
	if err != nil {
		return nil, err
	}
	sig := &signer.Signature{V: uint64(recID)}
	sig.R.Set(r)
	sig.S.Set(s)
	return sig, nil
}

// Raw is the signed wire encoding: an RLP list for legacy, type byte plus
// RLP list for typed envelopes.
func (tx *Transaction) Raw() ([]byte, error) {
	if !tx.IsSigned() {
		return nil, ErrUnsigned
	}
	return tx.inner.rawEncoding()
}

// Hash is the transaction hash: Keccak-256 of the signed encoding.
func (tx *Transaction) Hash() (ethtypes.Hash, error) {
	raw, err := tx.Raw()
	if err != nil {
		return ethtypes.Hash{}, err
	}
	return ethtypes.Hash(keccak.Sum256(raw)), nil
}

// Sender recovers the signing address.
func (tx *Transaction) Sender() (ethtypes.Address, error) {
	sig, err := tx.Signature()
	if err != nil {
		return ethtypes.Address{}, err
	}
	return signer.RecoverAddress(tx.SigHash(), sig)
}

// Sign computes the sighash, signs it, and returns the signed copy.
func Sign(tx *Transaction, key *signer.Key) (*Transaction, error) {
	sig, err := signer.Sign(key, tx.SigHash())
	if err != nil {
		return nil, err
	}
	return tx.WithSignature(sig)
}

func cloneInt(v *uint256.Int) *uint256.Int {
	if v == nil {
		return nil
	}
	return new(uint256.Int).Set(v)
}

func copyAddressPtr(a *ethtypes.Address) *ethtypes.Address {
	if a == nil {
		return nil
	}
	cpy := *a
	return &cpy
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}
