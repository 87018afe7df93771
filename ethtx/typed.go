package ethtx

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/rlp"
)

// AccessListTx is the EIP-2930 envelope: legacy pricing plus an explicit
// chain id and access list.
type AccessListTx struct {
	ChainID  uint64
	Nonce    uint64
	GasPrice *uint256.Int
	Gas      uint64
	To       *ethtypes.Address // nil means contract creation
	Value    *uint256.Int
	Data     []byte
	Accesses AccessList

	// YParity, R, S; YParity lives in V for symmetry with the other
	// variants.
	V, R, S *uint256.Int
}

func (tx *AccessListTx) txType() TxType { return AccessListTxType }

func (tx *AccessListTx) copy() TxData {
	return &AccessListTx{
		ChainID:  tx.ChainID,
		Nonce:    tx.Nonce,
		GasPrice: cloneInt(tx.GasPrice),
		Gas:      tx.Gas,
		To:       copyAddressPtr(tx.To),
		Value:    cloneInt(tx.Value),
		Data:     append([]byte(nil), tx.Data...),
		Accesses: tx.Accesses.copy(),
		V:        cloneInt(tx.V),
		R:        cloneInt(tx.R),
		S:        cloneInt(tx.S),
	}
}

func (tx *AccessListTx) chainID() uint64        { return tx.ChainID }
func (tx *AccessListTx) nonce() uint64          { return tx.Nonce }
func (tx *AccessListTx) gas() uint64            { return tx.Gas }
func (tx *AccessListTx) to() *ethtypes.Address  { return tx.To }
func (tx *AccessListTx) value() *uint256.Int    { return orZero(tx.Value) }
func (tx *AccessListTx) data() []byte           { return tx.Data }
func (tx *AccessListTx) accessList() AccessList { return tx.Accesses }

func (tx *AccessListTx) rawSignatureValues() (v, r, s *uint256.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *AccessListTx) setSignatureValues(v, r, s *uint256.Int) {
	tx.V, tx.R, tx.S = v, r, s
}

func (tx *AccessListTx) appendBody(buf []byte) []byte {
	buf = rlp.AppendUint(buf, tx.ChainID)
	buf = rlp.AppendUint(buf, tx.Nonce)
	buf = rlp.AppendUint256(buf, tx.GasPrice)
	buf = rlp.AppendUint(buf, tx.Gas)
	buf = appendTo(buf, tx.To)
	buf = rlp.AppendUint256(buf, tx.Value)
	buf = rlp.AppendString(buf, tx.Data)
	return tx.Accesses.appendRLP(buf)
}

func (tx *AccessListTx) sigHashPreimage() []byte {
	return typedPreimage(AccessListTxType, tx.appendBody(nil))
}

func (tx *AccessListTx) rawEncoding() ([]byte, error) {
	return typedRaw(AccessListTxType, tx.appendBody(nil), tx.V, tx.R, tx.S)
}

// DynamicFeeTx is the EIP-1559 envelope with the base-fee market pricing.
type DynamicFeeTx struct {
	ChainID   uint64
	Nonce     uint64
	GasTipCap *uint256.Int // maxPriorityFeePerGas
	GasFeeCap *uint256.Int // maxFeePerGas
	Gas       uint64
	To        *ethtypes.Address // nil means contract creation
	Value     *uint256.Int
	Data      []byte
	Accesses  AccessList

	V, R, S *uint256.Int
}

func (tx *DynamicFeeTx) txType() TxType { return DynamicFeeTxType }

func (tx *DynamicFeeTx) copy() TxData {
	return &DynamicFeeTx{
		ChainID:   tx.ChainID,
		Nonce:     tx.Nonce,
		GasTipCap: cloneInt(tx.GasTipCap),
		GasFeeCap: cloneInt(tx.GasFeeCap),
		Gas:       tx.Gas,
		To:        copyAddressPtr(tx.To),
		Value:     cloneInt(tx.Value),
		Data:      append([]byte(nil), tx.Data...),
		Accesses:  tx.Accesses.copy(),
		V:         cloneInt(tx.V),
		R:         cloneInt(tx.R),
		S:         cloneInt(tx.S),
	}
}

func (tx *DynamicFeeTx) chainID() uint64        { return tx.ChainID }
func (tx *DynamicFeeTx) nonce() uint64          { return tx.Nonce }
func (tx *DynamicFeeTx) gas() uint64            { return tx.Gas }
func (tx *DynamicFeeTx) to() *ethtypes.Address  { return tx.To }
func (tx *DynamicFeeTx) value() *uint256.Int    { return orZero(tx.Value) }
func (tx *DynamicFeeTx) data() []byte           { return tx.Data }
func (tx *DynamicFeeTx) accessList() AccessList { return tx.Accesses }

func (tx *DynamicFeeTx) rawSignatureValues() (v, r, s *uint256.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *DynamicFeeTx) setSignatureValues(v, r, s *uint256.Int) {
	tx.V, tx.R, tx.S = v, r, s
}

func (tx *DynamicFeeTx) appendBody(buf []byte) []byte {
	buf = rlp.AppendUint(buf, tx.ChainID)
	buf = rlp.AppendUint(buf, tx.Nonce)
	buf = rlp.AppendUint256(buf, tx.GasTipCap)
	buf = rlp.AppendUint256(buf, tx.GasFeeCap)
	buf = rlp.AppendUint(buf, tx.Gas)
	buf = appendTo(buf, tx.To)
	buf = rlp.AppendUint256(buf, tx.Value)
	buf = rlp.AppendString(buf, tx.Data)
	return tx.Accesses.appendRLP(buf)
}

func (tx *DynamicFeeTx) sigHashPreimage() []byte {
	return typedPreimage(DynamicFeeTxType, tx.appendBody(nil))
}

func (tx *DynamicFeeTx) rawEncoding() ([]byte, error) {
	return typedRaw(DynamicFeeTxType, tx.appendBody(nil), tx.V, tx.R, tx.S)
}

func typedPreimage(txType TxType, content []byte) []byte {
	out := []byte{byte(txType)}
	return rlp.AppendList(out, content)
}

func typedRaw(txType TxType, content []byte, v, r, s *uint256.Int) ([]byte, error) {
	if v == nil || r == nil || s == nil {
		return nil, ErrUnsigned
	}
	if !v.IsUint64() || v.Uint64() > 1 {
		return nil, errors.Wrap(ErrInvalidTx, "y parity must be 0 or 1")
	}
	content = rlp.AppendUint256(content, v)
	content = rlp.AppendUint256(content, r)
	content = rlp.AppendUint256(content, s)
	out := []byte{byte(txType)}
	return rlp.AppendList(out, content), nil
}
