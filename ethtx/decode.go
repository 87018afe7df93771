package ethtx

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/rlp"
	"github/chapool/go-ethcore/signer"
)

// DecodeRaw parses any of the four wire forms back into a transaction.
// The RLP layer rejects non-canonical input.
func DecodeRaw(raw []byte) (*Transaction, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(ErrInvalidTx, "empty input")
	}
	if raw[0] > 0x7f {
		return decodeLegacy(raw)
	}
	switch TxType(raw[0]) {
	case AccessListTxType, DynamicFeeTxType, BlobTxType:
		return decodeTyped(TxType(raw[0]), raw[1:])
	}
	return nil, errors.Wrapf(ErrInvalidTx, "unknown type byte 0x%02x", raw[0])
}

func decodeLegacy(raw []byte) (*Transaction, error) {
	fields, err := decodeFieldList(raw, 9)
	if err != nil {
		return nil, err
	}
	tx := &LegacyTx{}
	if tx.Nonce, err = fields[0].Uint64(); err != nil {
		return nil, err
	}
	if tx.GasPrice, err = fields[1].Uint256(); err != nil {
		return nil, err
	}
	if tx.Gas, err = fields[2].Uint64(); err != nil {
		return nil, err
	}
	if tx.To, err = decodeTo(fields[3]); err != nil {
		return nil, err
	}
	if tx.Value, err = fields[4].Uint256(); err != nil {
		return nil, err
	}
	dataBytes, err := fields[5].Bytes()
	if err != nil {
		return nil, err
	}
	tx.Data = append([]byte(nil), dataBytes...)
	if tx.V, tx.R, tx.S, err = decodeSignature(fields[6:9]); err != nil {
		return nil, err
	}
	if !tx.V.IsUint64() {
		return nil, errors.Wrap(ErrInvalidTx, "v exceeds 64 bits")
	}
	chainID, err := signer.ChainIDFromV(tx.V.Uint64())
	if err != nil {
		return nil, err
	}
	tx.ChainID = chainID
	return &Transaction{inner: tx}, nil
}

func decodeTyped(txType TxType, payload []byte) (*Transaction, error) {
	var inner TxData
	var err error
	switch txType {
	case AccessListTxType:
		inner, err = decodeAccessListTx(payload)
	case DynamicFeeTxType:
		inner, err = decodeDynamicFeeTx(payload)
	case BlobTxType:
		inner, err = decodeBlobTx(payload)
	}
	if err != nil {
		return nil, err
	}
	return &Transaction{inner: inner}, nil
}

func decodeAccessListTx(payload []byte) (TxData, error) {
	fields, err := decodeFieldList(payload, 11)
	if err != nil {
		return nil, err
	}
	tx := &AccessListTx{}
	if tx.ChainID, err = fields[0].Uint64(); err != nil {
		return nil, err
	}
	if tx.Nonce, err = fields[1].Uint64(); err != nil {
		return nil, err
	}
	if tx.GasPrice, err = fields[2].Uint256(); err != nil {
		return nil, err
	}
	if tx.Gas, err = fields[3].Uint64(); err != nil {
		return nil, err
	}
	if tx.To, err = decodeTo(fields[4]); err != nil {
		return nil, err
	}
	if tx.Value, err = fields[5].Uint256(); err != nil {
		return nil, err
	}
	dataBytes, err := fields[6].Bytes()
	if err != nil {
		return nil, err
	}
	tx.Data = append([]byte(nil), dataBytes...)
	if tx.Accesses, err = accessListFromRLP(fields[7]); err != nil {
		return nil, err
	}
	tx.V, tx.R, tx.S, err = decodeSignature(fields[8:11])
	return tx, err
}

func decodeDynamicFeeTx(payload []byte) (TxData, error) {
	fields, err := decodeFieldList(payload, 12)
	if err != nil {
		return nil, err
	}
	tx := &DynamicFeeTx{}
	if tx.ChainID, err = fields[0].Uint64(); err != nil {
		return nil, err
	}
	if tx.Nonce, err = fields[1].Uint64(); err != nil {
		return nil, err
	}
	if tx.GasTipCap, err = fields[2].Uint256(); err != nil {
		return nil, err
	}
	if tx.GasFeeCap, err = fields[3].Uint256(); err != nil {
		return nil, err
	}
	if tx.Gas, err = fields[4].Uint64(); err != nil {
		return nil, err
	}
	if tx.To, err = decodeTo(fields[5]); err != nil {
		return nil, err
	}
	if tx.Value, err = fields[6].Uint256(); err != nil {
		return nil, err
	}
	dataBytes, err := fields[7].Bytes()
	if err != nil {
		return nil, err
	}
	tx.Data = append([]byte(nil), dataBytes...)
	if tx.Accesses, err = accessListFromRLP(fields[8]); err != nil {
		return nil, err
	}
	tx.V, tx.R, tx.S, err = decodeSignature(fields[9:12])
	return tx, err
}

func decodeBlobTx(payload []byte) (TxData, error) {
	fields, err := decodeFieldList(payload, 14)
	if err != nil {
		return nil, err
	}
	tx := &BlobTx{}
	if tx.ChainID, err = fields[0].Uint64(); err != nil {
		return nil, err
	}
	if tx.Nonce, err = fields[1].Uint64(); err != nil {
		return nil, err
	}
	if tx.GasTipCap, err = fields[2].Uint256(); err != nil {
		return nil, err
	}
	if tx.GasFeeCap, err = fields[3].Uint256(); err != nil {
		return nil, err
	}
	if tx.Gas, err = fields[4].Uint64(); err != nil {
		return nil, err
	}
	toBytes, err := fields[5].Bytes()
	if err != nil {
		return nil, err
	}
	if tx.To, err = ethtypes.AddressFromBytes(toBytes); err != nil {
		return nil, errors.Wrap(ErrInvalidTx, "blob transaction needs a destination")
	}
	if tx.Value, err = fields[6].Uint256(); err != nil {
		return nil, err
	}
	dataBytes, err := fields[7].Bytes()
	if err != nil {
		return nil, err
	}
	tx.Data = append([]byte(nil), dataBytes...)
	if tx.Accesses, err = accessListFromRLP(fields[8]); err != nil {
		return nil, err
	}
	if tx.MaxFeePerBlobGas, err = fields[9].Uint256(); err != nil {
		return nil, err
	}
	hashItems, err := fields[10].List()
	if err != nil {
		return nil, err
	}
	for _, hi := range hashItems {
		hb, err := hi.Bytes()
		if err != nil {
			return nil, err
		}
		h, err := ethtypes.HashFromBytes(hb)
		if err != nil {
			return nil, err
		}
		if err := ValidateVersionedHash(h); err != nil {
			return nil, err
		}
		tx.BlobHashes = append(tx.BlobHashes, h)
	}
	tx.V, tx.R, tx.S, err = decodeSignature(fields[11:14])
	return tx, err
}

func decodeFieldList(raw []byte, want int) ([]rlp.Value, error) {
	top, err := rlp.Decode(raw)
	if err != nil {
		return nil, err
	}
	fields, err := top.List()
	if err != nil {
		return nil, err
	}
	if len(fields) != want {
		return nil, errors.Wrapf(ErrInvalidTx, "%d fields, want %d", len(fields), want)
	}
	return fields, nil
}

func decodeTo(v rlp.Value) (*ethtypes.Address, error) {
	b, err := v.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	addr, err := ethtypes.AddressFromBytes(b)
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func decodeSignature(fields []rlp.Value) (v, r, s *uint256.Int, err error) {
	if v, err = fields[0].Uint256(); err != nil {
		return nil, nil, nil, err
	}
	if r, err = fields[1].Uint256(); err != nil {
		return nil, nil, nil, err
	}
	if s, err = fields[2].Uint256(); err != nil {
		return nil, nil, nil, err
	}
	return v, r, s, nil
}
