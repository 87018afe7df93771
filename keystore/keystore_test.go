package keystore_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github/chapool/go-ethcore/hexutil"
	"github/chapool/go-ethcore/keystore"
	"github/chapool/go-ethcore/signer"
)

func testKey(t *testing.T) *signer.Key {
	t.Helper()
	key, err := signer.NewKey(hexutil.MustDecode(
		"0x4646464646464646464646464646464646464646464646464646464646464646"))
	require.NoError(t, err)
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(t)
	doc, err := keystore.Encrypt(key, "correct horse battery staple", keystore.LightScryptParams())
	require.NoError(t, err)

	assert.Equal(t, 3, doc.Version)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "aes-128-ctr", doc.Crypto.Cipher)
	assert.Equal(t, "scrypt", doc.Crypto.KDF)

	wantAddr, err := key.Address()
	require.NoError(t, err)
	gotAddr, err := keystore.AddressOf(doc)
	require.NoError(t, err)
	assert.Equal(t, wantAddr, gotAddr)

	decrypted, err := keystore.Decrypt(doc, "correct horse battery staple")
	require.NoError(t, err)
	defer decrypted.Destroy()
	assert.Equal(t, key.Bytes(), decrypted.Bytes())
}

func TestWrongPassword(t *testing.T) {
	doc, err := keystore.Encrypt(testKey(t), "right", keystore.LightScryptParams())
	require.NoError(t, err)

	_, err = keystore.Decrypt(doc, "wrong")
	assert.True(t, errors.Is(err, keystore.ErrWrongPassword))
}

func TestJSONRoundTrip(t *testing.T) {
	doc, err := keystore.Encrypt(testKey(t), "pw", keystore.LightScryptParams())
	require.NoError(t, err)

	data, err := keystore.Marshal(doc)
	require.NoError(t, err)
	back, err := keystore.Unmarshal(data)
	require.NoError(t, err)

	decrypted, err := keystore.Decrypt(back, "pw")
	require.NoError(t, err)
	defer decrypted.Destroy()
	assert.Equal(t, testKey(t).Bytes(), decrypted.Bytes())
}

func TestRejectsUnsupportedDocuments(t *testing.T) {
	doc, err := keystore.Encrypt(testKey(t), "pw", keystore.LightScryptParams())
	require.NoError(t, err)

	doc.Version = 2
	_, err = keystore.Decrypt(doc, "pw")
	assert.True(t, errors.Is(err, keystore.ErrInvalidKeystore))

	doc.Version = 3
	doc.Crypto.KDF = "pbkdf2"
	_, err = keystore.Decrypt(doc, "pw")
	assert.True(t, errors.Is(err, keystore.ErrInvalidKeystore))
}

func TestTamperedAddressRejected(t *testing.T) {
	doc, err := keystore.Encrypt(testKey(t), "pw", keystore.LightScryptParams())
	require.NoError(t, err)
	doc.Address = "0000000000000000000000000000000000000001"
	_, err = keystore.Decrypt(doc, "pw")
	assert.True(t, errors.Is(err, keystore.ErrInvalidKeystore))
}
