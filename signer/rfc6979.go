package signer

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/holiman/uint256"

	"github/chapool/go-ethcore/secp256k1"
)

// nonceSequence is the RFC 6979 deterministic nonce generator with
// HMAC-SHA256, seeded from the secret scalar and the message digest.
// Candidates outside [1, n) are skipped before they reach the caller.
type nonceSequence struct {
	k [32]byte
	v [32]byte
}

func newNonceSequence(secret [32]byte, digest [32]byte) *nonceSequence {
	var seq nonceSequence
	for i := range seq.v {
		seq.v[i] = 0x01
	}

	// bits2octets: digest reduced mod n, as 32 bytes.
	var e uint256.Int
	e.SetBytes(digest[:])
	e.Mod(&e, secp256k1.N)
	h1 := e.Bytes32()

	seq.k = hmacSHA256(seq.k[:], seq.v[:], []byte{0x00}, secret[:], h1[:])
	seq.v = hmacSHA256(seq.k[:], seq.v[:])
	seq.k = hmacSHA256(seq.k[:], seq.v[:], []byte{0x01}, secret[:], h1[:])
	seq.v = hmacSHA256(seq.k[:], seq.v[:])
	return &seq
}

// next returns the next candidate nonce in [1, n).
func (seq *nonceSequence) next() *uint256.Int {
	for {
		seq.v = hmacSHA256(seq.k[:], seq.v[:])
		k := new(uint256.Int).SetBytes(seq.v[:])
		if !k.IsZero() && k.Lt(secp256k1.N) {
			return k
		}
		seq.advance()
	}
}

// advance steps the sequence after a rejected candidate.
func (seq *nonceSequence) advance() {
	seq.k = hmacSHA256(seq.k[:], seq.v[:], []byte{0x00})
	seq.v = hmacSHA256(seq.k[:], seq.v[:])
}

func hmacSHA256(key []byte, chunks ...[]byte) [32]byte {
	mac := hmac.New(sha256.New, key)
	for _, c := range chunks {
		mac.Write(c)
	}
	var out [32]byte
	mac.Sum(out[:0])
	return out
}
