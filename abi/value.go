package abi

import (
	"github.com/holiman/uint256"

	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/u256"
)

// Value is one node of an ABI value tree. Each variant carries enough type
// information to render its canonical signature fragment and encode itself.
type Value interface {
	Type() Type
}

// Uint is an unsigned integer of the given width.
type Uint struct {
	Bits int
	X    *uint256.Int
}

// Int is a signed integer of the given width. X holds the 256-bit
// two's-complement pattern, already sign-extended.
type Int struct {
	Bits int
	X    *uint256.Int
}

type Bool bool

type Address ethtypes.Address

// FixedBytes is a bytesN value; the length is the type.
type FixedBytes []byte

type Bytes []byte

type String string

// Array is a fixed-length array. Elem is the declared element type.
type Array struct {
	Elem  Type
	Elems []Value
}

// Slice is a dynamic array. Elem is the declared element type.
type Slice struct {
	Elem  Type
	Elems []Value
}

// Tuple is an ordered field list; its type is derived from the field values.
type Tuple []Value

func (v Uint) Type() Type       { return UintType(v.Bits) }
func (v Int) Type() Type        { return IntType(v.Bits) }
func (v Bool) Type() Type       { return BoolType() }
func (v Address) Type() Type    { return AddressType() }
func (v FixedBytes) Type() Type { return FixedBytesType(len(v)) }
func (v Bytes) Type() Type      { return BytesType() }
func (v String) Type() Type     { return StringType() }
func (v Array) Type() Type      { return ArrayType(v.Elem, len(v.Elems)) }
func (v Slice) Type() Type      { return SliceType(v.Elem) }

func (v Tuple) Type() Type {
	fields := make([]Type, len(v))
	for i, f := range v {
		fields[i] = f.Type()
	}
	return TupleType(fields...)
}

// NewUint builds a Uint from a machine word.
func NewUint(bits int, x uint64) Uint {
	return Uint{Bits: bits, X: uint256.NewInt(x)}
}

// NewUint256 builds a uint256 value.
func NewUint256(x *uint256.Int) Uint {
	return Uint{Bits: 256, X: x}
}

// NewInt builds an Int from a machine word, sign-extending negatives.
func NewInt(bits int, x int64) Int {
	v := new(uint256.Int)
	if x < 0 {
		v.SetUint64(uint64(-x))
		u256.Neg(v, v)
	} else {
		v.SetUint64(uint64(x))
	}
	return Int{Bits: bits, X: v}
}

// Int64 returns the signed value when it fits a machine word.
func (v Int) Int64() (int64, bool) {
	if u256.SignBit(v.X) {
		var mag uint256.Int
		u256.Neg(&mag, v.X)
		if !mag.IsUint64() || mag.Uint64() > 1<<63 {
			return 0, false
		}
		return -int64(mag.Uint64() - 1) - 1, true
	}
	if !v.X.IsUint64() || v.X.Uint64() > 1<<63-1 {
		return 0, false
	}
	return int64(v.X.Uint64()), true
}
