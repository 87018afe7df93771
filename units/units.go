// Package units converts between wei and human denominations using decimal
// strings, so no precision is lost at any magnitude.
package units

import (
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/u256"
)

// Decimal places of the common denominations.
const (
	WeiDecimals   = 0
	GweiDecimals  = 9
	EtherDecimals = 18
)

// ErrBadAmount covers malformed decimal amounts and overflow.
var ErrBadAmount = errors.New("bad amount")

// ParseUnits parses a decimal amount with up to `decimals` fractional
// digits into its integer wei-style representation.
func ParseUnits(amount string, decimals int) (*uint256.Int, error) {
	if amount == "" {
		return nil, errors.Wrap(ErrBadAmount, "empty amount")
	}
	whole, frac := amount, ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		whole, frac = amount[:i], amount[i+1:]
	}
	if whole == "" && frac == "" {
		return nil, errors.Wrap(ErrBadAmount, "no digits")
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, errors.Wrapf(ErrBadAmount, "more than %d fractional digits", decimals)
	}
	// Right-pad the fraction to the full width and parse the concatenation.
	frac += strings.Repeat("0", decimals-len(frac))
	digits := strings.TrimLeft(whole+frac, "0")
	if digits == "" {
		return new(uint256.Int), nil
	}
	v, err := u256.ParseDecimal(digits)
	if err != nil {
		return nil, errors.Wrap(ErrBadAmount, err.Error())
	}
	return v, nil
}

// FormatUnits renders an integer amount as a decimal string with the
// fraction trimmed of trailing zeros.
func FormatUnits(amount *uint256.Int, decimals int) string {
	s := amount.Dec()
	if decimals == 0 {
		return s
	}
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	whole := s[:len(s)-decimals]
	frac := strings.TrimRight(s[len(s)-decimals:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// ParseEther parses an ether amount into wei.
func ParseEther(amount string) (*uint256.Int, error) {
	return ParseUnits(amount, EtherDecimals)
}

// FormatEther renders wei as ether.
func FormatEther(wei *uint256.Int) string {
	return FormatUnits(wei, EtherDecimals)
}

// ParseGwei parses a gwei amount into wei.
func ParseGwei(amount string) (*uint256.Int, error) {
	return ParseUnits(amount, GweiDecimals)
}

// FormatGwei renders wei as gwei.
func FormatGwei(wei *uint256.Int) string {
	return FormatUnits(wei, GweiDecimals)
}

// Gwei returns n gwei in wei.
func Gwei(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(1_000_000_000))
}

// Ether returns n ether in wei.
func Ether(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.MustFromDecimal("1000000000000000000"))
}
