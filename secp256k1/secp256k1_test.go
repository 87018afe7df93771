package secp256k1_test

import (
	"math/big"
	"testing"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-ethcore/secp256k1"
)

func TestGenerator(t *testing.T) {
	g, err := secp256k1.ScalarBaseMult(uint256.NewInt(1))
	require.NoError(t, err)
	assert.True(t, g.IsOnCurve())
	assert.Equal(t,
		"0x79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		g.X.Hex())
	assert.Equal(t,
		"0x483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",
		g.Y.Hex())
}

func TestTwoG(t *testing.T) {
	two, err := secp256k1.ScalarBaseMult(uint256.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t,
		"0xc6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5",
		two.X.Hex())
	assert.Equal(t,
		"0x1ae168fea63dc339a3c58419466ceaeef7f632653266d0e1236431a950cfe52a",
		two.Y.Hex())

	// 2G = G + G = Double(G).
	g, err := secp256k1.ScalarBaseMult(uint256.NewInt(1))
	require.NoError(t, err)
	doubled, err := secp256k1.Double(&g)
	require.NoError(t, err)
	assert.True(t, two.X.Eq(&doubled.X) && two.Y.Eq(&doubled.Y))
}

func TestScalarRange(t *testing.T) {
	_, err := secp256k1.ScalarBaseMult(new(uint256.Int))
	assert.ErrorIs(t, err, secp256k1.ErrInvalidScalar)

	_, err = secp256k1.ScalarBaseMult(secp256k1.N)
	assert.ErrorIs(t, err, secp256k1.ErrInvalidScalar)

	// n-1 is the largest valid scalar; (n-1)G = -G.
	nMinus1 := new(uint256.Int).SubUint64(secp256k1.N, 1)
	p, err := secp256k1.ScalarBaseMult(nMinus1)
	require.NoError(t, err)
	g, _ := secp256k1.ScalarBaseMult(uint256.NewInt(1))
	assert.True(t, p.X.Eq(&g.X))
	assert.False(t, p.Y.Eq(&g.Y))
}

func TestScalarBaseMultMatchesGoEthereum(t *testing.T) {
	curve := gethcrypto.S256()
	for _, k := range []*uint256.Int{
		uint256.NewInt(1),
		uint256.NewInt(2),
		uint256.NewInt(0xdeadbeef),
		uint256.MustFromHex("0x4646464646464646464646464646464646464646464646464646464646464646"),
		new(uint256.Int).SubUint64(secp256k1.N, 1),
	} {
		ours, err := secp256k1.ScalarBaseMult(k)
		require.NoError(t, err)
		kb := k.Bytes32()
		wantX, wantY := curve.ScalarBaseMult(kb[:])
		assert.Zerof(t, ours.X.ToBig().Cmp(wantX), "x for k=%s", k.Hex())
		assert.Zerof(t, ours.Y.ToBig().Cmp(wantY), "y for k=%s", k.Hex())
	}
}

func TestScalarMultDistributes(t *testing.T) {
	// (a+b)G = aG + bG
	a := uint256.NewInt(1234567)
	b := uint256.NewInt(89)
	sum := new(uint256.Int).Add(a, b)

	pa, err := secp256k1.ScalarBaseMult(a)
	require.NoError(t, err)
	pb, err := secp256k1.ScalarBaseMult(b)
	require.NoError(t, err)
	psum, err := secp256k1.ScalarBaseMult(sum)
	require.NoError(t, err)

	added, err := secp256k1.Add(&pa, &pb)
	require.NoError(t, err)
	assert.True(t, psum.X.Eq(&added.X) && psum.Y.Eq(&added.Y))

	// k(aG) = (k*a mod n)G
	k := uint256.NewInt(31337)
	ka := new(uint256.Int).MulMod(k, a, secp256k1.N)
	left, err := secp256k1.ScalarMult(&pa, k)
	require.NoError(t, err)
	right, err := secp256k1.ScalarBaseMult(ka)
	require.NoError(t, err)
	assert.True(t, left.X.Eq(&right.X) && left.Y.Eq(&right.Y))
}

func TestCompressedRoundTrip(t *testing.T) {
	for _, k := range []uint64{1, 2, 3, 0xffffffff} {
		p, err := secp256k1.ScalarBaseMult(uint256.NewInt(k))
		require.NoError(t, err)
		comp := p.Compressed()
		back, err := secp256k1.ParsePublicKey(comp[:])
		require.NoError(t, err)
		assert.True(t, p.X.Eq(&back.X) && p.Y.Eq(&back.Y))

		raw := p.Bytes64()
		back, err = secp256k1.ParsePublicKey(raw[:])
		require.NoError(t, err)
		assert.True(t, p.Y.Eq(&back.Y))
	}
}

func TestParsePublicKeyRejects(t *testing.T) {
	_, err := secp256k1.ParsePublicKey(make([]byte, 64))
	assert.Error(t, err)

	_, err = secp256k1.ParsePublicKey([]byte{0x05})
	assert.Error(t, err)
}

func TestIsOnCurve(t *testing.T) {
	var off secp256k1.PublicKey
	off.X.SetUint64(1)
	off.Y.SetUint64(1)
	assert.False(t, off.IsOnCurve())
}

// Sanity: our field order matches go-ethereum's curve parameters.
func TestCurveParams(t *testing.T) {
	params := gethcrypto.S256().Params()
	assert.Zero(t, secp256k1.P.ToBig().Cmp(params.P))
	assert.Zero(t, secp256k1.N.ToBig().Cmp(params.N))
	assert.Zero(t, secp256k1.HalfN.ToBig().Cmp(new(big.Int).Rsh(params.N, 1)))
}
