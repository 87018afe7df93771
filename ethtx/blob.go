package ethtx

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/keccak"
	"github/chapool/go-ethcore/rlp"
)

// BlobHashVersion is the only recognized versioned-hash prefix byte.
const BlobHashVersion = 0x01

// BlobSize is the fixed byte size of one blob.
const BlobSize = 128 * 1024

// BlobTx is the EIP-4844 envelope. To is mandatory; blobs travel alongside
// the transaction as a sidecar, only their versioned hashes are signed.
type BlobTx struct {
	ChainID          uint64
	Nonce            uint64
	GasTipCap        *uint256.Int
	GasFeeCap        *uint256.Int
	Gas              uint64
	To               ethtypes.Address
	Value            *uint256.Int
	Data             []byte
	Accesses         AccessList
	MaxFeePerBlobGas *uint256.Int
	BlobHashes       []ethtypes.Hash

	V, R, S *uint256.Int
}

func (tx *BlobTx) txType() TxType { return BlobTxType }

func (tx *BlobTx) copy() TxData {
	return &BlobTx{
		ChainID:          tx.ChainID,
		Nonce:            tx.Nonce,
		GasTipCap:        cloneInt(tx.GasTipCap),
		GasFeeCap:        cloneInt(tx.GasFeeCap),
		Gas:              tx.Gas,
		To:               tx.To,
		Value:            cloneInt(tx.Value),
		Data:             append([]byte(nil), tx.Data...),
		Accesses:         tx.Accesses.copy(),
		MaxFeePerBlobGas: cloneInt(tx.MaxFeePerBlobGas),
		BlobHashes:       append([]ethtypes.Hash(nil), tx.BlobHashes...),
		V:                cloneInt(tx.V),
		R:                cloneInt(tx.R),
		S:                cloneInt(tx.S),
	}
}

func (tx *BlobTx) chainID() uint64 { return tx.ChainID }
func (tx *BlobTx) nonce() uint64   { return tx.Nonce }
func (tx *BlobTx) gas() uint64     { return tx.Gas }

func (tx *BlobTx) to() *ethtypes.Address {
	to := tx.To
	return &to
}

func (tx *BlobTx) value() *uint256.Int    { return orZero(tx.Value) }
func (tx *BlobTx) data() []byte           { return tx.Data }
func (tx *BlobTx) accessList() AccessList { return tx.Accesses }

func (tx *BlobTx) rawSignatureValues() (v, r, s *uint256.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *BlobTx) setSignatureValues(v, r, s *uint256.Int) {
	tx.V, tx.R, tx.S = v, r, s
}

func (tx *BlobTx) appendBody(buf []byte) []byte {
	buf = rlp.AppendUint(buf, tx.ChainID)
	buf = rlp.AppendUint(buf, tx.Nonce)
	buf = rlp.AppendUint256(buf, tx.GasTipCap)
	buf = rlp.AppendUint256(buf, tx.GasFeeCap)
	buf = rlp.AppendUint(buf, tx.Gas)
	buf = rlp.AppendString(buf, tx.To[:])
	buf = rlp.AppendUint256(buf, tx.Value)
	buf = rlp.AppendString(buf, tx.Data)
	buf = tx.Accesses.appendRLP(buf)
	buf = rlp.AppendUint256(buf, tx.MaxFeePerBlobGas)
	var hashes []byte
	for _, h := range tx.BlobHashes {
		hashes = rlp.AppendString(hashes, h[:])
	}
	return rlp.AppendList(buf, hashes)
}

func (tx *BlobTx) sigHashPreimage() []byte {
	return typedPreimage(BlobTxType, tx.appendBody(nil))
}

func (tx *BlobTx) rawEncoding() ([]byte, error) {
	for i, h := range tx.BlobHashes {
		if err := ValidateVersionedHash(h); err != nil {
			return nil, errors.Wrapf(err, "blob hash %d", i)
		}
	}
	return typedRaw(BlobTxType, tx.appendBody(nil), tx.V, tx.R, tx.S)
}

// VersionedHash derives the blob identifier from a 48-byte KZG commitment:
// the Keccak-256 digest with its first byte replaced by the version.
func VersionedHash(commitment [48]byte) ethtypes.Hash {
	h := ethtypes.Hash(keccak.Sum256(commitment[:]))
	h[0] = BlobHashVersion
	return h
}

// ValidateVersionedHash accepts exactly the version-0x01 form.
func ValidateVersionedHash(h ethtypes.Hash) error {
	if h[0] != BlobHashVersion {
		return errors.Wrapf(ErrInvalidTx, "versioned hash has version 0x%02x", h[0])
	}
	return nil
}

// Sidecar carries the blob payloads and their KZG material. Blobs are
// opaque 128 KiB arrays here; commitment verification is a consensus
// concern, only the versioned-hash linkage is checked.
type Sidecar struct {
	Blobs       [][]byte
	Commitments [][48]byte
	Proofs      [][48]byte
}

// VersionedHashes derives the hash list the BlobTx must carry.
func (sc *Sidecar) VersionedHashes() []ethtypes.Hash {
	out := make([]ethtypes.Hash, len(sc.Commitments))
	for i, c := range sc.Commitments {
		out[i] = VersionedHash(c)
	}
	return out
}

// Validate checks the sidecar shape: equal counts and full-size blobs.
func (sc *Sidecar) Validate() error {
	if len(sc.Blobs) != len(sc.Commitments) || len(sc.Blobs) != len(sc.Proofs) {
		return errors.Wrap(ErrInvalidTx, "sidecar counts differ")
	}
	for i, b := range sc.Blobs {
		if len(b) != BlobSize {
			return errors.Wrapf(ErrInvalidTx, "blob %d is %d bytes", i, len(b))
		}
	}
	return nil
}
