// Package u256 supplies the 256-bit helpers the rest of the library needs on
// top of holiman/uint256: strict decimal parsing, checked arithmetic, and the
// modular routines used by the secp256k1 field and scalar groups.
package u256

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	// ErrRange is returned when a parsed integer does not fit its declared width.
	ErrRange = errors.New("value out of range")
	// ErrOverflow is returned by checked operations that would wrap.
	ErrOverflow = errors.New("arithmetic overflow")
	// ErrDivisionByZero is returned by checked division with a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
)

// ParseDecimal parses a strict base-10 string: digits only, no sign, and no
// leading zeros except the single digit "0".
func ParseDecimal(s string) (*uint256.Int, error) {
	if len(s) == 0 {
		return nil, errors.Wrap(ErrRange, "empty decimal")
	}
	if s[0] == '0' && len(s) > 1 {
		return nil, errors.Wrap(ErrRange, "leading zero")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, errors.Wrapf(ErrRange, "bad digit %q", s[i])
		}
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.Wrap(ErrRange, err.Error())
	}
	return v, nil
}

// CheckedAdd returns x+y or ErrOverflow.
func CheckedAdd(x, y *uint256.Int) (*uint256.Int, error) {
	z, carry := new(uint256.Int).AddOverflow(x, y)
	if carry {
		return nil, ErrOverflow
	}
	return z, nil
}

// CheckedMul returns x*y or ErrOverflow.
func CheckedMul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// CheckedDiv returns x/y, failing on a zero divisor.
func CheckedDiv(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivisionByZero
	}
	return new(uint256.Int).Div(x, y), nil
}

// ModExp computes base^exp mod m by square-and-multiply. m = 0 yields 0.
func ModExp(base, exp, m *uint256.Int) *uint256.Int {
	z := new(uint256.Int)
	if m.IsZero() {
		return z
	}
	one := uint256.NewInt(1)
	if m.Eq(one) {
		return z
	}
	z.SetOne()
	b := new(uint256.Int).Mod(base, m)
	for i := 255; i >= 0; i-- {
		z.MulMod(z, z, m)
		if exp[i/64]>>(uint(i)%64)&1 == 1 {
			z.MulMod(z, b, m)
		}
	}
	return z
}

// Inverse computes x^-1 mod m for prime m via Fermat's little theorem.
// The result is zero when x is zero mod m.
func Inverse(x, m *uint256.Int) *uint256.Int {
	exp := new(uint256.Int).Sub(m, uint256.NewInt(2))
	return ModExp(x, exp, m)
}

// SubMod computes (x - y) mod m for x, y < m.
func SubMod(z, x, y, m *uint256.Int) *uint256.Int {
	if x.Lt(y) {
		z.Sub(x, y)
		return z.Add(z, m)
	}
	return z.Sub(x, y)
}

// SignBit reports whether the two's-complement interpretation of x is negative.
func SignBit(x *uint256.Int) bool {
	return x[3]>>63 == 1
}

// Neg sets z to the two's-complement negation of x.
func Neg(z, x *uint256.Int) *uint256.Int {
	return z.Neg(x)
}

// SignExtend sets z to x sign-extended from the given bit width to 256 bits.
func SignExtend(z, x *uint256.Int, bits int) *uint256.Int {
	z.Set(x)
	if bits >= 256 {
		return z
	}
	if x[(bits-1)/64]>>(uint(bits-1)%64)&1 == 0 {
		return z
	}
	for i := bits; i < 256; i++ {
		z[i/64] |= 1 << (uint(i) % 64)
	}
	return z
}

// FitsBits reports whether x fits in an unsigned integer of the given width.
func FitsBits(x *uint256.Int, bits int) bool {
	return bits >= 256 || x.BitLen() <= bits
}

// FitsSignedBits reports whether the two's-complement value in x is a valid
// signed integer of the given width, i.e. it round-trips through SignExtend.
func FitsSignedBits(x *uint256.Int, bits int) bool {
	if bits >= 256 {
		return true
	}
	var trunc, ext uint256.Int
	mask := new(uint256.Int).Lsh(uint256.NewInt(1), uint(bits))
	mask.SubUint64(mask, 1)
	trunc.And(x, mask)
	SignExtend(&ext, &trunc, bits)
	return ext.Eq(x)
}

// Le32 returns the little-endian 32-byte form of x, for interoperability with
// octet sequences that consume words least-significant first.
func Le32(x *uint256.Int) [32]byte {
	be := x.Bytes32()
	var le [32]byte
	for i := 0; i < 32; i++ {
		le[i] = be[31-i]
	}
	return le
}
