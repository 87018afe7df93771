package abi

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/u256"
)

// Decode parses data as an argument tuple of the given types. It is strict:
// tail offsets must land exactly where the previous tail ended, lengths must
// stay inside the input, mandatory zero padding must be zero, and no bytes
// may remain unconsumed. Decoded bytes, strings and arrays are fresh
// allocations owned by the caller.
func Decode(types []Type, data []byte) ([]Value, error) {
	for _, t := range types {
		if err := t.validate(); err != nil {
			return nil, err
		}
	}
	values, consumed, err := decodeTuple(types, data)
	if err != nil {
		return nil, err
	}
	if consumed != len(data) {
		return nil, errors.Wrapf(ErrInvalid, "%d trailing bytes", len(data)-consumed)
	}
	return values, nil
}

// DecodeCall splits calldata into its selector and decoded arguments.
func DecodeCall(types []Type, calldata []byte) ([4]byte, []Value, error) {
	var sel [4]byte
	if len(calldata) < 4 {
		return sel, nil, errors.Wrap(ErrInvalid, "calldata shorter than a selector")
	}
	copy(sel[:], calldata[:4])
	values, err := Decode(types, calldata[4:])
	return sel, values, err
}

func decodeTuple(types []Type, data []byte) ([]Value, int, error) {
	headSize := 0
	for _, t := range types {
		headSize += t.headSize()
	}
	if len(data) < headSize {
		return nil, 0, errors.Wrapf(ErrInvalid, "input %d shorter than head %d", len(data), headSize)
	}
	values := make([]Value, 0, len(types))
	pos := 0
	tailPos := headSize
	for _, t := range types {
		if t.IsDynamic() {
			offset, err := readOffset(data[pos : pos+32])
			if err != nil {
				return nil, 0, err
			}
			if offset != tailPos {
				return nil, 0, errors.Wrapf(ErrInvalid, "tail offset %d, expected %d", offset, tailPos)
			}
			if offset > len(data) {
				return nil, 0, errors.Wrap(ErrInvalid, "tail offset outside input")
			}
			val, consumed, err := decodeTail(t, data[offset:])
			if err != nil {
				return nil, 0, err
			}
			values = append(values, val)
			tailPos += consumed
			pos += 32
			continue
		}
		val, consumed, err := decodeStatic(t, data[pos:])
		if err != nil {
			return nil, 0, err
		}
		values = append(values, val)
		pos += consumed
	}
	return values, tailPos, nil
}

func decodeStatic(t Type, data []byte) (Value, int, error) {
	if t.Kind == KindArray || t.Kind == KindTuple {
		var elemTypes []Type
		if t.Kind == KindArray {
			elemTypes = repeatType(*t.Elem, t.Size)
		} else {
			elemTypes = t.Fields
		}
		size := t.headSize()
		if len(data) < size {
			return nil, 0, errors.Wrap(ErrInvalid, "truncated static composite")
		}
		values := make([]Value, 0, len(elemTypes))
		pos := 0
		for _, et := range elemTypes {
			v, consumed, err := decodeStatic(et, data[pos:])
			if err != nil {
				return nil, 0, err
			}
			values = append(values, v)
			pos += consumed
		}
		if t.Kind == KindArray {
			return Array{Elem: *t.Elem, Elems: values}, pos, nil
		}
		return Tuple(values), pos, nil
	}

	if len(data) < 32 {
		return nil, 0, errors.Wrap(ErrInvalid, "truncated word")
	}
	word := data[:32]
	switch t.Kind {
	case KindUint:
		x := new(uint256.Int).SetBytes(word)
		if !u256.FitsBits(x, t.Bits) {
			return nil, 0, errors.Wrapf(ErrInvalid, "nonzero padding above uint%d", t.Bits)
		}
		return Uint{Bits: t.Bits, X: x}, 32, nil

	case KindInt:
		x := new(uint256.Int).SetBytes(word)
		if !u256.FitsSignedBits(x, t.Bits) {
			return nil, 0, errors.Wrapf(ErrInvalid, "bad sign extension for int%d", t.Bits)
		}
		return Int{Bits: t.Bits, X: x}, 32, nil

	case KindBool:
		for _, b := range word[:31] {
			if b != 0 {
				return nil, 0, errors.Wrap(ErrInvalid, "nonzero padding in bool")
			}
		}
		switch word[31] {
		case 0:
			return Bool(false), 32, nil
		case 1:
			return Bool(true), 32, nil
		}
		return nil, 0, errors.Wrapf(ErrInvalid, "bool byte 0x%02x", word[31])

	case KindAddress:
		for _, b := range word[:12] {
			if b != 0 {
				return nil, 0, errors.Wrap(ErrInvalid, "nonzero padding in address")
			}
		}
		var a ethtypes.Address
		copy(a[:], word[12:])
		return Address(a), 32, nil

	case KindFixedBytes:
		for _, b := range word[t.Size:] {
			if b != 0 {
				return nil, 0, errors.Wrapf(ErrInvalid, "nonzero padding after bytes%d", t.Size)
			}
		}
		out := make([]byte, t.Size)
		copy(out, word)
		return FixedBytes(out), 32, nil
	}
	return nil, 0, errors.Wrapf(ErrInvalid, "%s decoded as static", t)
}

func decodeTail(t Type, data []byte) (Value, int, error) {
	switch t.Kind {
	case KindBytes, KindString:
		if len(data) < 32 {
			return nil, 0, errors.Wrap(ErrInvalid, "truncated length")
		}
		length, err := readOffset(data[:32])
		if err != nil {
			return nil, 0, err
		}
		padded := length + (32-length%32)%32
		if len(data) < 32+padded {
			return nil, 0, errors.Wrap(ErrInvalid, "payload exceeds input")
		}
		for _, b := range data[32+length : 32+padded] {
			if b != 0 {
				return nil, 0, errors.Wrap(ErrInvalid, "nonzero padding after payload")
			}
		}
		out := make([]byte, length)
		copy(out, data[32:32+length])
		if t.Kind == KindString {
			return String(out), 32 + padded, nil
		}
		return Bytes(out), 32 + padded, nil

	case KindSlice:
		if len(data) < 32 {
			return nil, 0, errors.Wrap(ErrInvalid, "truncated length")
		}
		length, err := readOffset(data[:32])
		if err != nil {
			return nil, 0, err
		}
		if length > (len(data)-32)/32 {
			return nil, 0, errors.Wrap(ErrInvalid, "element count exceeds input")
		}
		values, consumed, err := decodeTuple(repeatType(*t.Elem, length), data[32:])
		if err != nil {
			return nil, 0, err
		}
		return Slice{Elem: *t.Elem, Elems: values}, 32 + consumed, nil

	case KindArray:
		values, consumed, err := decodeTuple(repeatType(*t.Elem, t.Size), data)
		if err != nil {
			return nil, 0, err
		}
		return Array{Elem: *t.Elem, Elems: values}, consumed, nil

	case KindTuple:
		values, consumed, err := decodeTuple(t.Fields, data)
		if err != nil {
			return nil, 0, err
		}
		return Tuple(values), consumed, nil
	}
	return nil, 0, errors.Wrapf(ErrInvalid, "%s decoded as dynamic", t)
}

func repeatType(t Type, n int) []Type {
	out := make([]Type, n)
	for i := range out {
		out[i] = t
	}
	return out
}

// readOffset parses a 32-byte word as an in-range offset or length.
func readOffset(word []byte) (int, error) {
	for _, b := range word[:24] {
		if b != 0 {
			return 0, errors.Wrap(ErrInvalid, "offset exceeds 64 bits")
		}
	}
	var v uint64
	for _, b := range word[24:] {
		v = v<<8 | uint64(b)
	}
	if v > 1<<31 {
		return 0, errors.Wrap(ErrInvalid, "offset out of range")
	}
	return int(v), nil
}
