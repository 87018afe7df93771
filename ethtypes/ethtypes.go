// Package ethtypes holds the primitive Ethereum value types shared across the
// library: 20-byte addresses, 32-byte hashes, and the passive response types
// decoded from JSON-RPC.
package ethtypes

import (
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/hexutil"
	"github/chapool/go-ethcore/keccak"
)

// ErrInvalidLength is the kind wrapped by fixed-size decodes that received
// the wrong number of bytes.
var ErrInvalidLength = errors.New("invalid length")

const (
	// AddressLength is the byte length of an address.
	AddressLength = 20
	// HashLength is the byte length of a hash.
	HashLength = 32
)

// Address is a 20-byte account or contract address.
type Address [AddressLength]byte

// Hash is a 32-byte value: transaction hashes, block hashes, storage slots,
// namehashes, Keccak digests.
type Hash [HashLength]byte

// ZeroAddress is the all-zero address.
var ZeroAddress Address

// AddressFromBytes converts b, which must be exactly 20 bytes.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, errors.Wrapf(ErrInvalidLength, "address needs %d bytes, got %d", AddressLength, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// ParseAddress parses a 0x-prefixed (or bare) 40-digit hex address. Case is
// ignored; use VerifyChecksum to enforce EIP-55.
func ParseAddress(s string) (Address, error) {
	var a Address
	b, err := hexutil.Decode(s)
	if err != nil {
		return a, err
	}
	return AddressFromBytes(b)
}

// MustParseAddress is ParseAddress for known-good literals.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Hex returns the canonical lowercase 0x-prefixed form.
func (a Address) Hex() string { return hexutil.Encode(a[:]) }

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte { return a[:] }

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool { return a == ZeroAddress }

func (a Address) String() string { return a.Checksum() }

// Checksum returns the EIP-55 mixed-case form: each hex letter is uppercased
// when the matching nibble of Keccak-256(lowercase digits) exceeds 7.
func (a Address) Checksum() string {
	lower := []byte(hexutil.Encode(a[:]))[2:]
	digest := keccak.Sum256(lower)
	for i, c := range lower {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := digest[i/2] >> 4
		if i%2 == 1 {
			nibble = digest[i/2] & 0xf
		}
		if nibble > 7 {
			lower[i] = c - ('a' - 'A')
		}
	}
	return "0x" + string(lower)
}

// ParseChecksumAddress parses s and, when it carries any uppercase hex digit,
// requires the EIP-55 checksum to hold.
func ParseChecksumAddress(s string) (Address, error) {
	a, err := ParseAddress(s)
	if err != nil {
		return a, err
	}
	mixed := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'F' {
			mixed = true
			break
		}
	}
	if mixed && a.Checksum() != normalizePrefix(s) {
		return Address{}, errors.Wrap(hexutil.ErrInvalidHex, "EIP-55 checksum mismatch")
	}
	return a, nil
}

func normalizePrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return "0x" + s[2:]
	}
	return "0x" + s
}

func (a Address) MarshalText() ([]byte, error) { return []byte(a.Hex()), nil }

func (a *Address) UnmarshalText(input []byte) error {
	dec, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = dec
	return nil
}

// HashFromBytes converts b, which must be exactly 32 bytes.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashLength {
		return h, errors.Wrapf(ErrInvalidLength, "hash needs %d bytes, got %d", HashLength, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// ParseHash parses a 0x-prefixed (or bare) 64-digit hex hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	b, err := hexutil.Decode(s)
	if err != nil {
		return h, err
	}
	return HashFromBytes(b)
}

// MustParseHash is ParseHash for known-good literals.
func MustParseHash(s string) Hash {
	h, err := ParseHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

// Hex returns the 0x-prefixed lowercase form.
func (h Hash) Hex() string { return hexutil.Encode(h[:]) }

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

// IsZero reports whether h is all zero.
func (h Hash) IsZero() bool { return h == Hash{} }

func (h Hash) String() string { return h.Hex() }

func (h Hash) MarshalText() ([]byte, error) { return []byte(h.Hex()), nil }

func (h *Hash) UnmarshalText(input []byte) error {
	dec, err := ParseHash(string(input))
	if err != nil {
		return err
	}
	*h = dec
	return nil
}

// BlockTag is a symbolic block reference accepted by JSON-RPC nodes.
type BlockTag string

const (
	Latest    BlockTag = "latest"
	Earliest  BlockTag = "earliest"
	Pending   BlockTag = "pending"
	Safe      BlockTag = "safe"
	Finalized BlockTag = "finalized"
)

// Valid reports whether t is one of the recognized tags.
func (t BlockTag) Valid() bool {
	switch t {
	case Latest, Earliest, Pending, Safe, Finalized:
		return true
	}
	return false
}
