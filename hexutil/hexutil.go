// Package hexutil implements the hex encodings used across the library and
// on the JSON-RPC wire: byte strings as even-length 0x-prefixed hex, and
// quantities as minimal-nibble 0x-prefixed hex ("0x0" for zero).
package hexutil

import (
	"encoding/hex"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// ErrInvalidHex is the kind all hex decoding failures wrap.
var ErrInvalidHex = errors.New("invalid hex")

const hextable = "0123456789abcdef"

// Decode parses a hex string into bytes. The 0x prefix is optional.
func Decode(s string) ([]byte, error) {
	s = trimPrefix(s)
	if len(s)%2 != 0 {
		return nil, errors.Wrap(ErrInvalidHex, "odd length")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidHex, err.Error())
	}
	return b, nil
}

// MustDecode is Decode for known-good literals. It panics on error.
func MustDecode(s string) []byte {
	b, err := Decode(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Encode returns the 0x-prefixed lowercase hex form of b.
func Encode(b []byte) string {
	out := make([]byte, 2+len(b)*2)
	out[0], out[1] = '0', 'x'
	hex.Encode(out[2:], b)
	return string(out)
}

// EncodeUint64 renders v in the JSON-RPC quantity form: minimal nibbles,
// "0x0" for zero.
func EncodeUint64(v uint64) string {
	if v == 0 {
		return "0x0"
	}
	buf := make([]byte, 0, 18)
	buf = append(buf, '0', 'x')
	started := false
	for shift := 60; shift >= 0; shift -= 4 {
		nibble := (v >> uint(shift)) & 0xf
		if nibble != 0 {
			started = true
		}
		if started {
			buf = append(buf, hextable[nibble])
		}
	}
	return string(buf)
}

// DecodeUint64 parses a quantity-form hex string. Leading zero nibbles are
// rejected ("0x0" is the only form with a leading zero digit).
func DecodeUint64(s string) (uint64, error) {
	digits := trimPrefix(s)
	if len(digits) == 0 {
		return 0, errors.Wrap(ErrInvalidHex, "empty quantity")
	}
	if len(digits) > 16 {
		return 0, errors.Wrap(ErrInvalidHex, "quantity exceeds 64 bits")
	}
	if digits[0] == '0' && len(digits) > 1 {
		return 0, errors.Wrap(ErrInvalidHex, "quantity has leading zero")
	}
	var v uint64
	for i := 0; i < len(digits); i++ {
		n, ok := fromHexChar(digits[i])
		if !ok {
			return 0, errors.Wrapf(ErrInvalidHex, "bad character %q", digits[i])
		}
		v = v<<4 | uint64(n)
	}
	return v, nil
}

// EncodeBig renders v in the quantity form.
func EncodeBig(v *uint256.Int) string {
	if v == nil || v.IsZero() {
		return "0x0"
	}
	return v.Hex()
}

// DecodeBig parses a quantity-form hex string into a uint256.
func DecodeBig(s string) (*uint256.Int, error) {
	digits := trimPrefix(s)
	if len(digits) == 0 {
		return nil, errors.Wrap(ErrInvalidHex, "empty quantity")
	}
	if len(digits) > 64 {
		return nil, errors.Wrap(ErrInvalidHex, "quantity exceeds 256 bits")
	}
	if digits[0] == '0' && len(digits) > 1 {
		return nil, errors.Wrap(ErrInvalidHex, "quantity has leading zero")
	}
	v := new(uint256.Int)
	if err := v.SetFromHex("0x" + digits); err != nil {
		return nil, errors.Wrap(ErrInvalidHex, err.Error())
	}
	return v, nil
}

func trimPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func fromHexChar(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
