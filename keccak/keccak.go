// Package keccak exposes the legacy Keccak-256 hash used throughout Ethereum
// (rate 1088, capacity 512, padding byte 0x01 — not final SHA-3), along with
// the selector and event-topic derivations built on it.
package keccak

import (
	"hash"

	"golang.org/x/crypto/sha3"
)

// Size is the digest length in bytes.
const Size = 32

// Hasher is a streaming Keccak-256 state. The zero value is not usable;
// construct with New. Absorb chunks of any length with Write; input buffers
// are never modified. Sum256 does not consume the state, so a Hasher can keep
// absorbing after a digest has been read.
type Hasher struct {
	h hash.Hash
}

// New returns an empty streaming hasher.
func New() *Hasher {
	return &Hasher{h: sha3.NewLegacyKeccak256()}
}

// Write absorbs p. It never fails.
func (h *Hasher) Write(p []byte) (int, error) {
	return h.h.Write(p)
}

// Sum256 returns the digest of everything absorbed so far.
func (h *Hasher) Sum256() [Size]byte {
	var out [Size]byte
	copy(out[:], h.h.Sum(nil))
	return out
}

// Reset returns the hasher to its empty state.
func (h *Hasher) Reset() {
	h.h.Reset()
}

// Sum256 is the one-shot form: the Keccak-256 digest of data.
func Sum256(data []byte) [Size]byte {
	return Sum(data)
}

// Sum hashes the concatenation of chunks.
func Sum(chunks ...[]byte) [Size]byte {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	var out [Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Selector returns the 4-byte function selector for a canonical signature
// such as "transfer(address,uint256)". The caller supplies the canonical
// text: no spaces, no parameter names, widths spelled out.
func Selector(signature string) [4]byte {
	digest := Sum256([]byte(signature))
	var sel [4]byte
	copy(sel[:], digest[:4])
	return sel
}

// Topic returns the 32-byte topic0 for a canonical event signature such as
// "Transfer(address,address,uint256)".
func Topic(signature string) [Size]byte {
	return Sum256([]byte(signature))
}
