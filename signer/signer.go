// Package signer implements ECDSA signing over secp256k1 the way Ethereum
// uses it: deterministic nonces per RFC 6979, EIP-2 low-S normalization,
// public-key recovery, and address derivation.
package signer

import (
	"crypto/subtle"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/keccak"
	"github/chapool/go-ethcore/secp256k1"
	"github/chapool/go-ethcore/u256"
)

var (
	// ErrInvalidKey is returned for secrets outside [1, n).
	ErrInvalidKey = errors.New("invalid private key")
	// ErrInvalidSignature is returned for out-of-range signature scalars or
	// failed recovery.
	ErrInvalidSignature = errors.New("invalid signature")
)

// Key holds a secret scalar. Destroy zeroizes it; the key is unusable after.
type Key struct {
	d uint256.Int
}

// NewKey validates and copies a 32-byte secret scalar.
func NewKey(b []byte) (*Key, error) {
	if len(b) != 32 {
		return nil, errors.Wrapf(ErrInvalidKey, "need 32 bytes, got %d", len(b))
	}
	var k Key
	k.d.SetBytes(b)
	if k.d.IsZero() || !k.d.Lt(secp256k1.N) {
		k.d.Clear()
		return nil, errors.Wrap(ErrInvalidKey, "scalar outside [1, n)")
	}
	return &k, nil
}

// NewKeyFromScalar validates and copies a scalar.
func NewKeyFromScalar(d *uint256.Int) (*Key, error) {
	b := d.Bytes32()
	return NewKey(b[:])
}

// Destroy zeroizes the secret scalar.
func (k *Key) Destroy() {
	k.d.Clear()
}

// Bytes returns the 32-byte big-endian secret. The caller owns the copy and
// should zero it when done.
func (k *Key) Bytes() [32]byte {
	return k.d.Bytes32()
}

// PublicKey derives d*G.
func (k *Key) PublicKey() (secp256k1.PublicKey, error) {
	return secp256k1.ScalarBaseMult(&k.d)
}

// Address derives the Ethereum address for the key.
func (k *Key) Address() (ethtypes.Address, error) {
	pub, err := k.PublicKey()
	if err != nil {
		return ethtypes.Address{}, err
	}
	return PubkeyToAddress(&pub), nil
}

// Signature is an ECDSA signature with its recovery id. V holds the
// canonical recovery id {0,1} (bit 1 additionally set in the astronomically
// rare r >= n case); use WithChainID / legacy forms for wire encodings.
type Signature struct {
	R, S uint256.Int
	V    uint64
}

// Sign produces the deterministic low-S signature of a 32-byte digest.
func Sign(key *Key, digest ethtypes.Hash) (*Signature, error) {
	if key.d.IsZero() {
		return nil, errors.Wrap(ErrInvalidKey, "destroyed or zero key")
	}
	secret := key.d.Bytes32()
	defer func() {
		for i := range secret {
			secret[i] = 0
		}
	}()

	var e uint256.Int
	e.SetBytes(digest[:])
	e.Mod(&e, secp256k1.N)

	seq := newNonceSequence(secret, digest)
	for {
		k := seq.next()

		rPoint, err := secp256k1.ScalarBaseMult(k)
		if err != nil {
			return nil, err
		}
		var r uint256.Int
		r.Mod(&rPoint.X, secp256k1.N)
		if r.IsZero() {
			seq.advance()
			continue
		}

		// s = k^-1 (e + r d) mod n
		var s, rd uint256.Int
		rd.MulMod(&r, &key.d, secp256k1.N)
		s.AddMod(&e, &rd, secp256k1.N)
		s.MulMod(&s, u256.Inverse(k, secp256k1.N), secp256k1.N)
		k.Clear()
		if s.IsZero() {
			seq.advance()
			continue
		}

		recID := rPoint.Y[0] & 1
		if !rPoint.X.Lt(secp256k1.N) {
			recID |= 2
		}
		if s.Gt(secp256k1.HalfN) {
			u256.SubMod(&s, secp256k1.N, &s, secp256k1.N)
			recID ^= 1
		}

		sig := &Signature{V: recID}
		sig.R.Set(&r)
		sig.S.Set(&s)
		return sig, nil
	}
}

// RecoverPublicKey recovers the signing key from a digest and signature.
// V may be the canonical id, the legacy 27/28 form, or EIP-155 encoded.
func RecoverPublicKey(digest ethtypes.Hash, sig *Signature) (secp256k1.PublicKey, error) {
	recID, err := normalizeV(sig.V)
	if err != nil {
		return secp256k1.PublicKey{}, err
	}
	var d [32]byte
	copy(d[:], digest[:])
	pub, err := secp256k1.RecoverPublic(d, &sig.R, &sig.S, recID)
	if err != nil {
		return secp256k1.PublicKey{}, errors.Wrap(ErrInvalidSignature, err.Error())
	}
	return pub, nil
}

// RecoverAddress recovers the signer's address from a digest and signature.
func RecoverAddress(digest ethtypes.Hash, sig *Signature) (ethtypes.Address, error) {
	pub, err := RecoverPublicKey(digest, sig)
	if err != nil {
		return ethtypes.Address{}, err
	}
	return PubkeyToAddress(&pub), nil
}

// Verify recovers the signer from digest/sig and compares against want in
// constant time.
func Verify(digest ethtypes.Hash, sig *Signature, want ethtypes.Address) bool {
	got, err := RecoverAddress(digest, sig)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got[:], want[:]) == 1
}

// ValidateStrict checks the scalar ranges and the EIP-2 low-S rule.
func (sig *Signature) ValidateStrict() error {
	if sig.R.IsZero() || !sig.R.Lt(secp256k1.N) || sig.S.IsZero() || !sig.S.Lt(secp256k1.N) {
		return errors.Wrap(ErrInvalidSignature, "scalar outside [1, n)")
	}
	if sig.S.Gt(secp256k1.HalfN) {
		return errors.Wrap(ErrInvalidSignature, "s exceeds n/2")
	}
	return nil
}

// PubkeyToAddress is the low 20 bytes of Keccak-256 over the 64-byte
// uncompressed public key.
func PubkeyToAddress(pub *secp256k1.PublicKey) ethtypes.Address {
	raw := pub.Bytes64()
	digest := keccak.Sum256(raw[:])
	var addr ethtypes.Address
	copy(addr[:], digest[12:])
	return addr
}

func normalizeV(v uint64) (byte, error) {
	switch {
	case v <= 3:
		return byte(v), nil
	case v == 27 || v == 28:
		return byte(v - 27), nil
	case v >= 35:
		return byte((v - 35) % 2), nil
	}
	return 0, errors.Wrapf(ErrInvalidSignature, "recovery value %d", v)
}
