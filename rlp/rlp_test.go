package rlp_test

import (
	"bytes"
	"strings"
	"testing"

	gethrlp "github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-ethcore/hexutil"
	"github/chapool/go-ethcore/rlp"
)

// Vectors from the canonical RLP test set.
func TestEncodeVectors(t *testing.T) {
	assert.Equal(t, hexutil.MustDecode("0x83646f67"), rlp.EncodeString([]byte("dog")))
	assert.Equal(t, []byte{0x80}, rlp.EncodeString(nil))
	assert.Equal(t, []byte{0x0f}, rlp.EncodeString([]byte{0x0f}))
	assert.Equal(t, []byte{0x80}, rlp.EncodeUint(0))
	assert.Equal(t, []byte{0x0f}, rlp.EncodeUint(15))
	assert.Equal(t, hexutil.MustDecode("0x820400"), rlp.EncodeUint(1024))
	assert.Equal(t, []byte{0xc0}, rlp.EncodeList())

	catDog := rlp.EncodeList(rlp.EncodeString([]byte("cat")), rlp.EncodeString([]byte("dog")))
	assert.Equal(t, hexutil.MustDecode("0xc88363617483646f67"), catDog)

	lorem := []byte("Lorem ipsum dolor sit amet, consectetur adipisicing elit")
	enc := rlp.EncodeString(lorem)
	assert.Equal(t, hexutil.MustDecode("0xb838"), enc[:2])
	assert.Equal(t, lorem, enc[2:])

	// The set-theoretical representation of three:
	// [ [], [[]], [ [], [[]] ] ]
	three := rlp.EncodeList(
		rlp.EncodeList(),
		rlp.EncodeList(rlp.EncodeList()),
		rlp.EncodeList(rlp.EncodeList(), rlp.EncodeList(rlp.EncodeList())),
	)
	assert.Equal(t, hexutil.MustDecode("0xc7c0c1c0c3c0c1c0"), three)
}

func TestEncodeUint256(t *testing.T) {
	assert.Equal(t, []byte{0x80}, rlp.AppendUint256(nil, nil))
	assert.Equal(t, []byte{0x80}, rlp.AppendUint256(nil, new(uint256.Int)))
	assert.Equal(t, []byte{0x7f}, rlp.AppendUint256(nil, uint256.NewInt(0x7f)))
	assert.Equal(t, hexutil.MustDecode("0x820400"), rlp.AppendUint256(nil, uint256.NewInt(1024)))
}

func TestDecodeRoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		{0x00},
		{0x7f},
		{0x80},
		[]byte("dog"),
		[]byte(strings.Repeat("long", 100)),
	}
	for _, in := range inputs {
		v, err := rlp.Decode(rlp.EncodeString(in))
		require.NoError(t, err)
		b, err := v.Bytes()
		require.NoError(t, err)
		assert.True(t, bytes.Equal(in, b))
	}

	list, err := rlp.Decode(hexutil.MustDecode("0xc88363617483646f67"))
	require.NoError(t, err)
	items, err := list.List()
	require.NoError(t, err)
	require.Len(t, items, 2)
	cat, _ := items[0].Bytes()
	dog, _ := items[1].Bytes()
	assert.Equal(t, []byte("cat"), cat)
	assert.Equal(t, []byte("dog"), dog)
}

func TestDecodeRejectsNonCanonical(t *testing.T) {
	bad := map[string]string{
		"wrapped single byte":     "0x8145",
		"long form short string":  "0xb80161",
		"leading zero length":     "0xb90001" + strings.Repeat("61", 1),
		"truncated string":        "0x83646f",
		"truncated list":          "0xc88363617483646f",
		"trailing bytes":          "0x83646f6767",
		"empty input":             "0x",
		"truncated long length":   "0xb8",
		"nested overrun":          "0xc2820400",
	}
	for name, in := range bad {
		_, err := rlp.Decode(hexutil.MustDecode(in))
		assert.Truef(t, errors.Is(err, rlp.ErrInvalid), "%s (%s): got %v", name, in, err)
	}
}

func TestValueIntegers(t *testing.T) {
	v, err := rlp.Decode(rlp.EncodeUint(1024))
	require.NoError(t, err)
	u, err := v.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1024), u)

	// Leading zero integers are non-canonical.
	v, err = rlp.Decode(hexutil.MustDecode("0x820001"))
	require.NoError(t, err)
	_, err = v.Uint64()
	assert.True(t, errors.Is(err, rlp.ErrInvalid))
	_, err = v.Uint256()
	assert.True(t, errors.Is(err, rlp.ErrInvalid))
}

func TestMatchesGoEthereum(t *testing.T) {
	// Byte strings.
	for _, in := range [][]byte{nil, {0x01}, []byte("dog"), bytes.Repeat([]byte{0xab}, 300)} {
		want, err := gethrlp.EncodeToBytes(in)
		require.NoError(t, err)
		assert.Equal(t, want, rlp.EncodeString(in))
	}

	// Integers.
	for _, in := range []uint64{0, 1, 127, 128, 256, 1 << 40} {
		want, err := gethrlp.EncodeToBytes(in)
		require.NoError(t, err)
		assert.Equal(t, want, rlp.EncodeUint(in))
	}

	// A nested list.
	want, err := gethrlp.EncodeToBytes([][]byte{[]byte("cat"), []byte("dog")})
	require.NoError(t, err)
	got := rlp.EncodeList(rlp.EncodeString([]byte("cat")), rlp.EncodeString([]byte("dog")))
	assert.Equal(t, want, got)
}
