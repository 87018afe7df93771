package signer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-ethcore/hexutil"
	"github/chapool/go-ethcore/signer"
)

func TestEIP155V(t *testing.T) {
	assert.Equal(t, uint64(37), signer.EIP155V(0, 1))
	assert.Equal(t, uint64(38), signer.EIP155V(1, 1))
	assert.Equal(t, uint64(27), signer.EIP155V(0, 0))
	assert.Equal(t, uint64(28), signer.EIP155V(1, 0))
}

func TestChainIDFromV(t *testing.T) {
	cid, err := signer.ChainIDFromV(147)
	require.NoError(t, err)
	assert.Equal(t, uint64(56), cid)

	cid, err = signer.ChainIDFromV(27)
	require.NoError(t, err)
	assert.Zero(t, cid)

	_, err = signer.ChainIDFromV(5)
	assert.Error(t, err)
}

// recovery id survives the EIP-155 round trip for either parity.
func TestEIP155RoundTrip(t *testing.T) {
	for _, chainID := range []uint64{0, 1, 56, 137, 42161} {
		for recID := byte(0); recID <= 1; recID++ {
			v := signer.EIP155V(recID, chainID)
			got, err := signer.RecoveryIDFromV(v)
			require.NoError(t, err)
			assert.Equal(t, recID, got)
			if chainID != 0 {
				cid, err := signer.ChainIDFromV(v)
				require.NoError(t, err)
				assert.Equal(t, chainID, cid)
			}
		}
	}
}

func TestTextHash(t *testing.T) {
	// accounts.TextHash("Some data") from the EIP-191 ecosystem.
	assert.Equal(t,
		hexutil.MustDecode("0x1da44b586eb0729ff70a73c326926f6ed5a25f5b056e7f47fbc6e58d86871655"),
		signer.TextHash([]byte("Some data")).Bytes())

	// Empty message still carries the prefix and a zero length.
	assert.NotEqual(t, signer.TextHash(nil), signer.TextHash([]byte{0x00}))
}
