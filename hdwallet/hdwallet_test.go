package hdwallet_test

import (
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"

	"github/chapool/go-ethcore/hdwallet"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestMnemonicRoundTrip(t *testing.T) {
	entropy := make([]byte, 16)
	mnemonic, err := hdwallet.NewMnemonic(entropy)
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, mnemonic)

	back, err := hdwallet.MnemonicToEntropy(mnemonic)
	require.NoError(t, err)
	assert.Equal(t, entropy, back)

	// 256-bit entropy round trip.
	entropy = make([]byte, 32)
	for i := range entropy {
		entropy[i] = byte(i*7 + 3)
	}
	mnemonic, err = hdwallet.NewMnemonic(entropy)
	require.NoError(t, err)
	back, err = hdwallet.MnemonicToEntropy(mnemonic)
	require.NoError(t, err)
	assert.Equal(t, entropy, back)
}

func TestValidateMnemonic(t *testing.T) {
	assert.NoError(t, hdwallet.ValidateMnemonic(testMnemonic))

	cases := map[string]string{
		"wrong count":  "abandon abandon abandon",
		"unknown word": "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon zzzzz",
		"bad checksum": "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
	}
	for name, m := range cases {
		err := hdwallet.ValidateMnemonic(m)
		assert.Truef(t, errors.Is(err, hdwallet.ErrInvalidMnemonic), "%s: got %v", name, err)
	}
}

func TestSeedVector(t *testing.T) {
	seed, err := hdwallet.NewSeed(testMnemonic, "")
	require.NoError(t, err)
	require.Len(t, seed, 64)
	assert.Equal(t, "5eb00bbddcf06908", hex.EncodeToString(seed[:8]))
}

func TestSeedMatchesBip39(t *testing.T) {
	for _, passphrase := range []string{"", "TREZOR"} {
		ours, err := hdwallet.NewSeed(testMnemonic, passphrase)
		require.NoError(t, err)
		assert.Equal(t, bip39.NewSeed(testMnemonic, passphrase), ours)
	}
}

func TestEthereumAddressVector(t *testing.T) {
	seed, err := hdwallet.NewSeed(testMnemonic, "")
	require.NoError(t, err)
	master, err := hdwallet.Master(seed)
	require.NoError(t, err)
	defer master.Destroy()

	key, err := hdwallet.DeriveEthereumKey(master, 0)
	require.NoError(t, err)
	defer key.Destroy()

	addr, err := key.Address()
	require.NoError(t, err)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", addr.Checksum())
}

func TestDerivationMatchesBip32(t *testing.T) {
	seed, err := hdwallet.NewSeed(testMnemonic, "")
	require.NoError(t, err)

	ours, err := hdwallet.Master(seed)
	require.NoError(t, err)
	theirs, err := bip32.NewMasterKey(seed)
	require.NoError(t, err)

	path := []uint32{
		hdwallet.Hardened(44),
		hdwallet.Hardened(60),
		hdwallet.Hardened(0),
		0,
		5,
	}
	for _, index := range path {
		ours, err = ours.Child(index)
		require.NoError(t, err)
		theirs, err = theirs.NewChildKey(index)
		require.NoError(t, err)
	}

	key, err := ours.Key()
	require.NoError(t, err)
	secret := key.Bytes()
	assert.Equal(t, theirs.Key, secret[:])
	assert.Equal(t, [32]byte(theirs.ChainCode), ours.ChainCode())
}

func TestPublicDerivationMatchesPrivate(t *testing.T) {
	seed, err := hdwallet.NewSeed(testMnemonic, "")
	require.NoError(t, err)
	master, err := hdwallet.Master(seed)
	require.NoError(t, err)

	// Walk the hardened prefix with the secret, then compare public-only
	// derivation of the final two normal steps.
	account, err := hdwallet.DerivePath(master, "m/44'/60'/0'")
	require.NoError(t, err)

	private, err := hdwallet.DerivePath(account, "m/0/3")
	require.NoError(t, err)
	wantPub, err := private.Public()
	require.NoError(t, err)

	neutered, err := account.Neuter()
	require.NoError(t, err)
	assert.False(t, neutered.HasSecret())

	change, err := neutered.Child(0)
	require.NoError(t, err)
	leaf, err := change.Child(3)
	require.NoError(t, err)
	gotPub, err := leaf.Public()
	require.NoError(t, err)

	assert.True(t, wantPub.X.Eq(&gotPub.X) && wantPub.Y.Eq(&gotPub.Y))

	// Hardened derivation from a neutered node must fail.
	_, err = neutered.Child(hdwallet.Hardened(0))
	assert.True(t, errors.Is(err, hdwallet.ErrInvalidDerivation))
}

func TestParsePath(t *testing.T) {
	indices, err := hdwallet.ParsePath("m/44'/60'/0'/0/7")
	require.NoError(t, err)
	assert.Equal(t, []uint32{
		hdwallet.Hardened(44),
		hdwallet.Hardened(60),
		hdwallet.Hardened(0),
		0,
		7,
	}, indices)

	for _, bad := range []string{"", "44'/60'", "m/x", "m/2147483648"} {
		_, err := hdwallet.ParsePath(bad)
		assert.Truef(t, errors.Is(err, hdwallet.ErrInvalidDerivation), "path %q", bad)
	}
}

func TestMasterRejectsShortSeed(t *testing.T) {
	_, err := hdwallet.Master(make([]byte, 8))
	assert.True(t, errors.Is(err, hdwallet.ErrInvalidDerivation))
}
