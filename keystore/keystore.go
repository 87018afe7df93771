// Package keystore stores private keys in the Web3 secret-storage (v3)
// format: scrypt key derivation, AES-128-CTR encryption, and a Keccak-256
// MAC binding the derived key to the ciphertext.
package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"

	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/keccak"
	"github/chapool/go-ethcore/signer"
)

var (
	// ErrInvalidKeystore covers malformed keystore documents.
	ErrInvalidKeystore = errors.New("invalid keystore")
	// ErrWrongPassword is returned on a MAC mismatch.
	ErrWrongPassword = errors.New("wrong password")
)

// EncryptedKey is the Ethereum keystore v3 JSON document.
type EncryptedKey struct {
	Version int    `json:"version"`
	ID      string `json:"id"`
	Address string `json:"address"`
	Crypto  struct {
		Ciphertext   string `json:"ciphertext"`
		CipherParams struct {
			IV string `json:"iv"`
		} `json:"cipherparams"`
		Cipher    string `json:"cipher"`
		KDF       string `json:"kdf"`
		KDFParams struct {
			DKLen int    `json:"dklen"`
			Salt  string `json:"salt"`
			N     int    `json:"n"`
			R     int    `json:"r"`
			P     int    `json:"p"`
		} `json:"kdfparams"`
		MAC string `json:"mac"`
	} `json:"crypto"`
}

// ScryptParams tunes the KDF.
type ScryptParams struct {
	DKLen int
	N     int
	R     int
	P     int
}

// StandardScryptParams is the Ethereum keystore v3 default (N = 2^18).
func StandardScryptParams() ScryptParams {
	return ScryptParams{DKLen: 32, N: 262144, R: 8, P: 1}
}

// LightScryptParams trades brute-force resistance for speed (N = 2^12).
func LightScryptParams() ScryptParams {
	return ScryptParams{DKLen: 32, N: 4096, R: 8, P: 1}
}

// Encrypt seals a signing key under the password.
func Encrypt(key *signer.Key, password string, params ScryptParams) (*EncryptedKey, error) {
	addr, err := key.Address()
	if err != nil {
		return nil, err
	}

	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	secret := key.Bytes()
	ciphertext, err := applyAES128CTR(derivedKey[:16], iv, secret[:])
	zero(secret[:])
	if err != nil {
		return nil, err
	}
	mac := calculateMAC(derivedKey[16:32], ciphertext)
	zero(derivedKey)

	doc := &EncryptedKey{
		Version: 3,
		ID:      uuid.New().String(),
		Address: hex.EncodeToString(addr[:]),
	}
	doc.Crypto.Ciphertext = hex.EncodeToString(ciphertext)
	doc.Crypto.CipherParams.IV = hex.EncodeToString(iv)
	doc.Crypto.Cipher = "aes-128-ctr"
	doc.Crypto.KDF = "scrypt"
	doc.Crypto.KDFParams.DKLen = params.DKLen
	doc.Crypto.KDFParams.Salt = hex.EncodeToString(salt)
	doc.Crypto.KDFParams.N = params.N
	doc.Crypto.KDFParams.R = params.R
	doc.Crypto.KDFParams.P = params.P
	doc.Crypto.MAC = hex.EncodeToString(mac)
	return doc, nil
}

// Decrypt opens a keystore document and returns the signing key. When the
// document records an address, it must match the decrypted key.
func Decrypt(doc *EncryptedKey, password string) (*signer.Key, error) {
	if doc.Version != 3 {
		return nil, errors.Wrapf(ErrInvalidKeystore, "version %d", doc.Version)
	}
	if doc.Crypto.Cipher != "aes-128-ctr" || doc.Crypto.KDF != "scrypt" {
		return nil, errors.Wrapf(ErrInvalidKeystore, "unsupported %s/%s", doc.Crypto.Cipher, doc.Crypto.KDF)
	}

	salt, err := hex.DecodeString(doc.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKeystore, "bad salt")
	}
	iv, err := hex.DecodeString(doc.Crypto.CipherParams.IV)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKeystore, "bad IV")
	}
	ciphertext, err := hex.DecodeString(doc.Crypto.Ciphertext)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKeystore, "bad ciphertext")
	}
	expectedMAC, err := hex.DecodeString(doc.Crypto.MAC)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKeystore, "bad MAC")
	}

	p := doc.Crypto.KDFParams
	derivedKey, err := scrypt.Key([]byte(password), salt, p.N, p.R, p.P, p.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}
	defer zero(derivedKey)

	mac := calculateMAC(derivedKey[16:32], ciphertext)
	if subtle.ConstantTimeCompare(mac, expectedMAC) != 1 {
		return nil, ErrWrongPassword
	}

	plaintext, err := applyAES128CTR(derivedKey[:16], iv, ciphertext)
	if err != nil {
		return nil, err
	}
	key, err := signer.NewKey(plaintext)
	zero(plaintext)
	if err != nil {
		return nil, err
	}

	if doc.Address != "" {
		addr, derr := key.Address()
		if derr != nil || hex.EncodeToString(addr[:]) != doc.Address {
			key.Destroy()
			return nil, errors.Wrap(ErrInvalidKeystore, "address mismatch")
		}
	}
	return key, nil
}

// Marshal renders the document as JSON.
func Marshal(doc *EncryptedKey) ([]byte, error) {
	return json.Marshal(doc)
}

// Unmarshal parses a keystore JSON document.
func Unmarshal(data []byte) (*EncryptedKey, error) {
	doc := &EncryptedKey{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(ErrInvalidKeystore, err.Error())
	}
	return doc, nil
}

// AddressOf reports the address recorded in the document.
func AddressOf(doc *EncryptedKey) (ethtypes.Address, error) {
	return ethtypes.ParseAddress(doc.Address)
}

// applyAES128CTR runs the CTR keystream over data; encryption and
// decryption are the same operation.
func applyAES128CTR(key, iv, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}
	out := make([]byte, len(data))
	cipher.NewCTR(block, iv).XORKeyStream(out, data)
	return out, nil
}

// calculateMAC is Keccak-256(derivedKey[16:32] || ciphertext), per the v3
// format.
func calculateMAC(key, ciphertext []byte) []byte {
	sum := keccak.Sum(key, ciphertext)
	return sum[:]
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
