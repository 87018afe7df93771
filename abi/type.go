// Package abi implements the Solidity Contract ABI: canonical type
// signatures, head/tail encoding and strict decoding of all static and
// dynamic types, function selectors, and event topics.
package abi

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalid is the kind wrapped by every ABI failure: bad offsets, nonzero
// padding, type/value mismatches, malformed type strings.
var ErrInvalid = errors.New("invalid abi")

// Kind discriminates the ABI type shapes.
type Kind uint8

const (
	KindUint Kind = iota
	KindInt
	KindBool
	KindAddress
	KindFixedBytes
	KindBytes
	KindString
	KindArray // fixed length
	KindSlice // dynamic length
	KindTuple
)

// Type describes one ABI type. Bits is set for uint/int, Size for bytesN and
// fixed arrays, Elem for arrays and slices, Fields for tuples.
type Type struct {
	Kind   Kind
	Bits   int
	Size   int
	Elem   *Type
	Fields []Type
}

func UintType(bits int) Type        { return Type{Kind: KindUint, Bits: bits} }
func IntType(bits int) Type         { return Type{Kind: KindInt, Bits: bits} }
func BoolType() Type                { return Type{Kind: KindBool} }
func AddressType() Type             { return Type{Kind: KindAddress} }
func FixedBytesType(size int) Type  { return Type{Kind: KindFixedBytes, Size: size} }
func BytesType() Type               { return Type{Kind: KindBytes} }
func StringType() Type              { return Type{Kind: KindString} }
func ArrayType(elem Type, n int) Type { return Type{Kind: KindArray, Size: n, Elem: &elem} }
func SliceType(elem Type) Type      { return Type{Kind: KindSlice, Elem: &elem} }
func TupleType(fields ...Type) Type { return Type{Kind: KindTuple, Fields: fields} }

// String renders the canonical signature fragment: widths spelled out, no
// spaces, tuples parenthesized.
func (t Type) String() string {
	switch t.Kind {
	case KindUint:
		return "uint" + strconv.Itoa(t.Bits)
	case KindInt:
		return "int" + strconv.Itoa(t.Bits)
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindFixedBytes:
		return "bytes" + strconv.Itoa(t.Size)
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindArray:
		return t.Elem.String() + "[" + strconv.Itoa(t.Size) + "]"
	case KindSlice:
		return t.Elem.String() + "[]"
	case KindTuple:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	}
	return "<invalid>"
}

// IsDynamic reports whether the type uses tail encoding.
func (t Type) IsDynamic() bool {
	switch t.Kind {
	case KindBytes, KindString, KindSlice:
		return true
	case KindArray:
		return t.Elem.IsDynamic()
	case KindTuple:
		for _, f := range t.Fields {
			if f.IsDynamic() {
				return true
			}
		}
	}
	return false
}

// headSize is the number of bytes the type occupies in its tuple's head:
// 32 for dynamic types, the full static size otherwise.
func (t Type) headSize() int {
	if t.IsDynamic() {
		return 32
	}
	switch t.Kind {
	case KindArray:
		return t.Size * t.Elem.headSize()
	case KindTuple:
		total := 0
		for _, f := range t.Fields {
			total += f.headSize()
		}
		return total
	}
	return 32
}

func (t Type) validate() error {
	switch t.Kind {
	case KindUint, KindInt:
		if t.Bits < 8 || t.Bits > 256 || t.Bits%8 != 0 {
			return errors.Wrapf(ErrInvalid, "integer width %d", t.Bits)
		}
	case KindFixedBytes:
		if t.Size < 1 || t.Size > 32 {
			return errors.Wrapf(ErrInvalid, "bytes%d", t.Size)
		}
	case KindArray:
		if t.Size < 0 || t.Elem == nil {
			return errors.Wrap(ErrInvalid, "malformed array type")
		}
		return t.Elem.validate()
	case KindSlice:
		if t.Elem == nil {
			return errors.Wrap(ErrInvalid, "malformed slice type")
		}
		return t.Elem.validate()
	case KindTuple:
		for _, f := range t.Fields {
			if err := f.validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Equal reports structural type equality.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind || t.Bits != o.Bits || t.Size != o.Size {
		return false
	}
	if (t.Elem == nil) != (o.Elem == nil) {
		return false
	}
	if t.Elem != nil && !t.Elem.Equal(*o.Elem) {
		return false
	}
	if len(t.Fields) != len(o.Fields) {
		return false
	}
	for i := range t.Fields {
		if !t.Fields[i].Equal(o.Fields[i]) {
			return false
		}
	}
	return true
}
