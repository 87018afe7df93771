package hexutil

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Bytes marshals as an even-length 0x-prefixed hex string.
type Bytes []byte

func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(Encode(b)), nil
}

func (b *Bytes) UnmarshalText(input []byte) error {
	dec, err := Decode(string(input))
	if err != nil {
		return err
	}
	*b = dec
	return nil
}

func (b Bytes) String() string { return Encode(b) }

// Uint64 marshals in the quantity form.
type Uint64 uint64

func (v Uint64) MarshalText() ([]byte, error) {
	return []byte(EncodeUint64(uint64(v))), nil
}

func (v *Uint64) UnmarshalText(input []byte) error {
	dec, err := DecodeUint64(string(input))
	if err != nil {
		return err
	}
	*v = Uint64(dec)
	return nil
}

// Big is a 256-bit quantity in the JSON-RPC hex form.
type Big uint256.Int

func (v Big) MarshalText() ([]byte, error) {
	u := uint256.Int(v)
	return []byte(EncodeBig(&u)), nil
}

func (v *Big) UnmarshalText(input []byte) error {
	dec, err := DecodeBig(string(input))
	if err != nil {
		return err
	}
	*v = Big(*dec)
	return nil
}

// Int returns the wrapped uint256 value.
func (v *Big) Int() *uint256.Int {
	if v == nil {
		return nil
	}
	u := uint256.Int(*v)
	return &u
}

// NewBig wraps v, treating nil as zero.
func NewBig(v *uint256.Int) *Big {
	b := new(Big)
	if v != nil {
		*b = Big(*v)
	}
	return b
}

// ValidateQuantity checks that s is a well-formed quantity string without
// decoding it, for inputs wider than 256 bits.
func ValidateQuantity(s string) error {
	digits := trimPrefix(s)
	if len(digits) == 0 {
		return errors.Wrap(ErrInvalidHex, "empty quantity")
	}
	if digits[0] == '0' && len(digits) > 1 {
		return errors.Wrap(ErrInvalidHex, "quantity has leading zero")
	}
	for i := 0; i < len(digits); i++ {
		if _, ok := fromHexChar(digits[i]); !ok {
			return errors.Wrapf(ErrInvalidHex, "bad character %q", digits[i])
		}
	}
	return nil
}
