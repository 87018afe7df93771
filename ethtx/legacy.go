package ethtx

import (
	"github.com/holiman/uint256"

	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/rlp"
)

// LegacyTx is the original envelope. ChainID selects the EIP-155 sighash;
// zero keeps the pre-EIP-155 six-field pre-image.
type LegacyTx struct {
	ChainID  uint64
	Nonce    uint64
	GasPrice *uint256.Int
	Gas      uint64
	To       *ethtypes.Address // nil means contract creation
	Value    *uint256.Int
	Data     []byte

	V, R, S *uint256.Int
}

func (tx *LegacyTx) txType() TxType { return LegacyTxType }

func (tx *LegacyTx) copy() TxData {
	cpy := &LegacyTx{
		ChainID:  tx.ChainID,
		Nonce:    tx.Nonce,
		GasPrice: cloneInt(tx.GasPrice),
		Gas:      tx.Gas,
		To:       copyAddressPtr(tx.To),
		Value:    cloneInt(tx.Value),
		Data:     append([]byte(nil), tx.Data...),
		V:        cloneInt(tx.V),
		R:        cloneInt(tx.R),
		S:        cloneInt(tx.S),
	}
	return cpy
}

func (tx *LegacyTx) chainID() uint64            { return tx.ChainID }
func (tx *LegacyTx) nonce() uint64              { return tx.Nonce }
func (tx *LegacyTx) gas() uint64                { return tx.Gas }
func (tx *LegacyTx) to() *ethtypes.Address      { return tx.To }
func (tx *LegacyTx) value() *uint256.Int        { return orZero(tx.Value) }
func (tx *LegacyTx) data() []byte               { return tx.Data }
func (tx *LegacyTx) accessList() AccessList     { return nil }

func (tx *LegacyTx) rawSignatureValues() (v, r, s *uint256.Int) {
	return tx.V, tx.R, tx.S
}

func (tx *LegacyTx) setSignatureValues(v, r, s *uint256.Int) {
	tx.V, tx.R, tx.S = v, r, s
}

func (tx *LegacyTx) appendBody(buf []byte) []byte {
	buf = rlp.AppendUint(buf, tx.Nonce)
	buf = rlp.AppendUint256(buf, tx.GasPrice)
	buf = rlp.AppendUint(buf, tx.Gas)
	buf = appendTo(buf, tx.To)
	buf = rlp.AppendUint256(buf, tx.Value)
	return rlp.AppendString(buf, tx.Data)
}

func (tx *LegacyTx) sigHashPreimage() []byte {
	content := tx.appendBody(nil)
	if tx.ChainID != 0 {
		content = rlp.AppendUint(content, tx.ChainID)
		content = rlp.AppendUint(content, 0)
		content = rlp.AppendUint(content, 0)
	}
	return rlp.AppendList(nil, content)
}

func (tx *LegacyTx) rawEncoding() ([]byte, error) {
	content := tx.appendBody(nil)
	content = rlp.AppendUint256(content, tx.V)
	content = rlp.AppendUint256(content, tx.R)
	content = rlp.AppendUint256(content, tx.S)
	return rlp.AppendList(nil, content), nil
}

func appendTo(buf []byte, to *ethtypes.Address) []byte {
	if to == nil {
		return rlp.AppendString(buf, nil)
	}
	return rlp.AppendString(buf, to[:])
}
