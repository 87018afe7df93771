package ethtx_test

import (
	"math/big"
	"testing"

	gethcommon "github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-ethcore/ethtx"
	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/hexutil"
	"github/chapool/go-ethcore/keccak"
	"github/chapool/go-ethcore/signer"
	"github/chapool/go-ethcore/units"
)

type gethcommonHash = gethcommon.Hash

func ptr[T any](v T) *T { return &v }

func gethAddr(a ethtypes.Address) gethcommon.Address {
	return gethcommon.BytesToAddress(a.Bytes())
}

func gethHash(h ethtypes.Hash) gethcommon.Hash {
	return gethcommon.BytesToHash(h.Bytes())
}

func keccakOfCommitment(c [48]byte) [32]byte {
	return keccak.Sum256(c[:])
}

const eip155KeyHex = "0x4646464646464646464646464646464646464646464646464646464646464646"

func testKey(t *testing.T) *signer.Key {
	t.Helper()
	key, err := signer.NewKey(hexutil.MustDecode(eip155KeyHex))
	require.NoError(t, err)
	return key
}

// The worked example from EIP-155 itself.
func TestLegacyEIP155Vector(t *testing.T) {
	to := ethtypes.MustParseAddress("0x3535353535353535353535353535353535353535")
	tx := ethtx.NewTx(&ethtx.LegacyTx{
		ChainID:  1,
		Nonce:    9,
		GasPrice: units.Gwei(20),
		Gas:      21000,
		To:       &to,
		Value:    units.Ether(1),
	})

	assert.Equal(t,
		ethtypes.MustParseHash("0xdaf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53"),
		tx.SigHash())

	signed, err := ethtx.Sign(tx, testKey(t))
	require.NoError(t, err)

	sigV, sigR, sigS := rawSignature(t, signed)
	assert.Equal(t, uint64(37), sigV.Uint64())
	assert.Equal(t,
		"18515461264373351373200002665853028612451056578545711640558177340181847433846",
		sigR.Dec())
	assert.Equal(t,
		"46948507304638947509940763649030358759909902576025900602547168820602576006531",
		sigS.Dec())

	sender, err := signed.Sender()
	require.NoError(t, err)
	wantAddr, err := testKey(t).Address()
	require.NoError(t, err)
	assert.Equal(t, wantAddr, sender)
}

// rawSignature round-trips the wire form to read back v, r, s.
func rawSignature(t *testing.T, tx *ethtx.Transaction) (v, r, s *uint256.Int) {
	t.Helper()
	raw, err := tx.Raw()
	require.NoError(t, err)
	decoded, err := ethtx.DecodeRaw(raw)
	require.NoError(t, err)
	sig, err := decoded.Signature()
	require.NoError(t, err)
	recID := sig.V
	switch tx.Type() {
	case ethtx.LegacyTxType:
		v = uint256.NewInt(signer.EIP155V(byte(recID), tx.ChainID()))
	default:
		v = uint256.NewInt(recID)
	}
	return v, &sig.R, &sig.S
}

func TestDynamicFeeStableHash(t *testing.T) {
	to := ethtypes.MustParseAddress("0x0000000000000000000000000000000000000001")
	build := func() *ethtx.Transaction {
		return ethtx.NewTx(&ethtx.DynamicFeeTx{
			ChainID:   1,
			Nonce:     0,
			GasTipCap: units.Gwei(1),
			GasFeeCap: units.Gwei(20),
			Gas:       21000,
			To:        &to,
			Value:     uint256.NewInt(1),
		})
	}

	first, err := ethtx.Sign(build(), testKey(t))
	require.NoError(t, err)
	second, err := ethtx.Sign(build(), testKey(t))
	require.NoError(t, err)

	rawFirst, err := first.Raw()
	require.NoError(t, err)
	rawSecond, err := second.Raw()
	require.NoError(t, err)
	assert.Equal(t, rawFirst, rawSecond)

	hashFirst, err := first.Hash()
	require.NoError(t, err)

	// Serialize, re-parse, re-hash: same transaction hash.
	decoded, err := ethtx.DecodeRaw(rawFirst)
	require.NoError(t, err)
	hashAgain, err := decoded.Hash()
	require.NoError(t, err)
	assert.Equal(t, hashFirst, hashAgain)

	sender, err := decoded.Sender()
	require.NoError(t, err)
	wantAddr, err := testKey(t).Address()
	require.NoError(t, err)
	assert.Equal(t, wantAddr, sender)
}

func TestMatchesGoEthereumEnvelopes(t *testing.T) {
	gethKey, err := gethcrypto.ToECDSA(hexutil.MustDecode(eip155KeyHex))
	require.NoError(t, err)
	gethSigner := gethtypes.LatestSignerForChainID(big.NewInt(1))

	to := ethtypes.MustParseAddress("0x3535353535353535353535353535353535353535")
	storageKey := ethtypes.MustParseHash("0x0000000000000000000000000000000000000000000000000000000000000007")
	accessList := ethtx.AccessList{{Address: to, StorageKeys: []ethtypes.Hash{storageKey}}}

	cases := map[string]struct {
		ours  ethtx.TxData
		geths gethtypes.TxData
	}{
		"legacy": {
			ours: &ethtx.LegacyTx{
				ChainID: 1, Nonce: 3, GasPrice: units.Gwei(30), Gas: 21000,
				To: &to, Value: uint256.NewInt(12345), Data: []byte{0xca, 0xfe},
			},
			geths: &gethtypes.LegacyTx{
				Nonce: 3, GasPrice: units.Gwei(30).ToBig(), Gas: 21000,
				To: ptr(gethAddr(to)), Value: big.NewInt(12345), Data: []byte{0xca, 0xfe},
			},
		},
		"access list": {
			ours: &ethtx.AccessListTx{
				ChainID: 1, Nonce: 7, GasPrice: units.Gwei(30), Gas: 60000,
				To: &to, Value: uint256.NewInt(1), Accesses: accessList,
			},
			geths: &gethtypes.AccessListTx{
				ChainID: big.NewInt(1), Nonce: 7, GasPrice: units.Gwei(30).ToBig(), Gas: 60000,
				To: ptr(gethAddr(to)), Value: big.NewInt(1),
				AccessList: gethtypes.AccessList{{
					Address:     gethAddr(to),
					StorageKeys: []gethcommonHash{gethHash(storageKey)},
				}},
			},
		},
		"dynamic fee": {
			ours: &ethtx.DynamicFeeTx{
				ChainID: 1, Nonce: 0, GasTipCap: units.Gwei(1), GasFeeCap: units.Gwei(20),
				Gas: 21000, To: &to, Value: uint256.NewInt(1),
			},
			geths: &gethtypes.DynamicFeeTx{
				ChainID: big.NewInt(1), Nonce: 0,
				GasTipCap: units.Gwei(1).ToBig(), GasFeeCap: units.Gwei(20).ToBig(),
				Gas: 21000, To: ptr(gethAddr(to)), Value: big.NewInt(1),
			},
		},
	}

	for name, tc := range cases {
		signed, err := ethtx.Sign(ethtx.NewTx(tc.ours), testKey(t))
		require.NoErrorf(t, err, "%s", name)
		raw, err := signed.Raw()
		require.NoError(t, err)

		gethSigned, err := gethtypes.SignNewTx(gethKey, gethSigner, tc.geths)
		require.NoError(t, err)
		wantRaw, err := gethSigned.MarshalBinary()
		require.NoError(t, err)

		assert.Equalf(t, wantRaw, raw, "%s raw encoding", name)

		hash, err := signed.Hash()
		require.NoError(t, err)
		assert.Equalf(t, gethSigned.Hash().Bytes(), hash.Bytes(), "%s hash", name)
	}
}

func TestBlobTx(t *testing.T) {
	var commitment [48]byte
	commitment[0] = 0xab
	versioned := ethtx.VersionedHash(commitment)
	assert.Equal(t, byte(0x01), versioned[0])

	// All but the first byte come straight from the keccak of the
	// commitment.
	plain := ethtypes.Hash(keccakOfCommitment(commitment))
	assert.Equal(t, plain[1:], versioned.Bytes()[1:])

	require.NoError(t, ethtx.ValidateVersionedHash(versioned))
	bad := versioned
	bad[0] = 0x02
	assert.True(t, errors.Is(ethtx.ValidateVersionedHash(bad), ethtx.ErrInvalidTx))

	to := ethtypes.MustParseAddress("0x3535353535353535353535353535353535353535")
	tx := ethtx.NewTx(&ethtx.BlobTx{
		ChainID:          1,
		Nonce:            2,
		GasTipCap:        units.Gwei(1),
		GasFeeCap:        units.Gwei(20),
		Gas:              21000,
		To:               to,
		Value:            uint256.NewInt(0),
		MaxFeePerBlobGas: units.Gwei(3),
		BlobHashes:       []ethtypes.Hash{versioned},
	})

	signed, err := ethtx.Sign(tx, testKey(t))
	require.NoError(t, err)
	raw, err := signed.Raw()
	require.NoError(t, err)
	assert.Equal(t, byte(0x03), raw[0])

	decoded, err := ethtx.DecodeRaw(raw)
	require.NoError(t, err)
	assert.Equal(t, ethtx.BlobTxType, decoded.Type())
	sender, err := decoded.Sender()
	require.NoError(t, err)
	wantAddr, err := testKey(t).Address()
	require.NoError(t, err)
	assert.Equal(t, wantAddr, sender)
}

func TestSidecar(t *testing.T) {
	var commitment [48]byte
	sc := &ethtx.Sidecar{
		Blobs:       [][]byte{make([]byte, ethtx.BlobSize)},
		Commitments: [][48]byte{commitment},
		Proofs:      [][48]byte{{}},
	}
	require.NoError(t, sc.Validate())
	hashes := sc.VersionedHashes()
	require.Len(t, hashes, 1)
	assert.Equal(t, byte(0x01), hashes[0][0])

	sc.Blobs[0] = sc.Blobs[0][:100]
	assert.Error(t, sc.Validate())
}

func TestPreEIP155Legacy(t *testing.T) {
	to := ethtypes.MustParseAddress("0x3535353535353535353535353535353535353535")
	tx := ethtx.NewTx(&ethtx.LegacyTx{
		ChainID:  0,
		Nonce:    0,
		GasPrice: units.Gwei(1),
		Gas:      21000,
		To:       &to,
		Value:    uint256.NewInt(1),
	})
	signed, err := ethtx.Sign(tx, testKey(t))
	require.NoError(t, err)

	v, _, _ := rawSignature(t, signed)
	assert.Contains(t, []uint64{27, 28}, v.Uint64())

	sender, err := signed.Sender()
	require.NoError(t, err)
	wantAddr, err := testKey(t).Address()
	require.NoError(t, err)
	assert.Equal(t, wantAddr, sender)
}

func TestContractCreation(t *testing.T) {
	tx := ethtx.NewTx(&ethtx.LegacyTx{
		ChainID:  1,
		Nonce:    0,
		GasPrice: units.Gwei(1),
		Gas:      100000,
		To:       nil,
		Value:    uint256.NewInt(0),
		Data:     []byte{0x60, 0x00},
	})
	signed, err := ethtx.Sign(tx, testKey(t))
	require.NoError(t, err)
	raw, err := signed.Raw()
	require.NoError(t, err)

	decoded, err := ethtx.DecodeRaw(raw)
	require.NoError(t, err)
	assert.Nil(t, decoded.To())
}

func TestUnsignedRefusals(t *testing.T) {
	tx := ethtx.NewTx(&ethtx.DynamicFeeTx{ChainID: 1, Gas: 21000})
	_, err := tx.Raw()
	assert.True(t, errors.Is(err, ethtx.ErrUnsigned))
	_, err = tx.Hash()
	assert.True(t, errors.Is(err, ethtx.ErrUnsigned))
	_, err = tx.Sender()
	assert.True(t, errors.Is(err, ethtx.ErrUnsigned))
}

func TestDecodeRawRejects(t *testing.T) {
	_, err := ethtx.DecodeRaw(nil)
	assert.True(t, errors.Is(err, ethtx.ErrInvalidTx))

	_, err = ethtx.DecodeRaw([]byte{0x04, 0x00})
	assert.True(t, errors.Is(err, ethtx.ErrInvalidTx))
}

func TestWithSignatureLeavesOriginalUnsigned(t *testing.T) {
	to := ethtypes.MustParseAddress("0x3535353535353535353535353535353535353535")
	tx := ethtx.NewTx(&ethtx.DynamicFeeTx{
		ChainID: 1, GasTipCap: units.Gwei(1), GasFeeCap: units.Gwei(2),
		Gas: 21000, To: &to, Value: uint256.NewInt(1),
	})
	signed, err := ethtx.Sign(tx, testKey(t))
	require.NoError(t, err)
	assert.True(t, signed.IsSigned())
	assert.False(t, tx.IsSigned())
}
