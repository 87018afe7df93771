package abi

import (
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/u256"
)

// Encode produces the ABI encoding of the values as an argument tuple.
func Encode(values ...Value) ([]byte, error) {
	for _, v := range values {
		if err := v.Type().validate(); err != nil {
			return nil, err
		}
	}
	return encodeTuple(values)
}

// EncodeWithSelector prepends a 4-byte selector, producing calldata.
func EncodeWithSelector(selector [4]byte, values ...Value) ([]byte, error) {
	enc, err := Encode(values...)
	if err != nil {
		return nil, err
	}
	return append(selector[:], enc...), nil
}

// encodeTuple lays out the head/tail split: static values inline, dynamic
// values as a 32-byte offset into the tail region.
func encodeTuple(values []Value) ([]byte, error) {
	headSize := 0
	for _, v := range values {
		headSize += v.Type().headSize()
	}
	head := make([]byte, 0, headSize)
	var tail []byte
	for _, v := range values {
		if v.Type().IsDynamic() {
			head = appendUint64Word(head, uint64(headSize+len(tail)))
			enc, err := encodeTail(v)
			if err != nil {
				return nil, err
			}
			tail = append(tail, enc...)
			continue
		}
		enc, err := encodeStatic(v)
		if err != nil {
			return nil, err
		}
		head = append(head, enc...)
	}
	return append(head, tail...), nil
}

// encodeStatic produces the full in-place encoding of a static value.
func encodeStatic(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Uint:
		if !u256.FitsBits(val.X, val.Bits) {
			return nil, errors.Wrapf(ErrInvalid, "value exceeds uint%d", val.Bits)
		}
		word := val.X.Bytes32()
		return word[:], nil

	case Int:
		if !u256.FitsSignedBits(val.X, val.Bits) {
			return nil, errors.Wrapf(ErrInvalid, "value exceeds int%d", val.Bits)
		}
		word := val.X.Bytes32()
		return word[:], nil

	case Bool:
		word := make([]byte, 32)
		if val {
			word[31] = 1
		}
		return word, nil

	case Address:
		word := make([]byte, 32)
		copy(word[12:], val[:])
		return word, nil

	case FixedBytes:
		if len(val) < 1 || len(val) > 32 {
			return nil, errors.Wrapf(ErrInvalid, "bytes%d", len(val))
		}
		word := make([]byte, 32)
		copy(word, val)
		return word, nil

	case Array:
		if err := checkElems(val.Elem, val.Elems); err != nil {
			return nil, err
		}
		return encodeTuple(val.Elems)

	case Tuple:
		return encodeTuple(val)
	}
	return nil, errors.Wrapf(ErrInvalid, "%s is not a static type", v.Type())
}

// encodeTail produces the tail encoding of a dynamic value.
func encodeTail(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Bytes:
		return appendPadded(appendUint64Word(nil, uint64(len(val))), val), nil

	case String:
		return appendPadded(appendUint64Word(nil, uint64(len(val))), []byte(val)), nil

	case Slice:
		if err := checkElems(val.Elem, val.Elems); err != nil {
			return nil, err
		}
		enc, err := encodeTuple(val.Elems)
		if err != nil {
			return nil, err
		}
		return append(appendUint64Word(nil, uint64(len(val.Elems))), enc...), nil

	case Array:
		if err := checkElems(val.Elem, val.Elems); err != nil {
			return nil, err
		}
		return encodeTuple(val.Elems)

	case Tuple:
		return encodeTuple(val)
	}
	return nil, errors.Wrapf(ErrInvalid, "%s is not a dynamic type", v.Type())
}

func checkElems(elem Type, elems []Value) error {
	for i, e := range elems {
		if !e.Type().Equal(elem) {
			return errors.Wrapf(ErrInvalid, "element %d is %s, want %s", i, e.Type(), elem)
		}
	}
	return nil
}

func appendUint64Word(buf []byte, v uint64) []byte {
	word := make([]byte, 32)
	for i := 0; i < 8; i++ {
		word[31-i] = byte(v >> (8 * uint(i)))
	}
	return append(buf, word...)
}

// appendPadded appends data zero-padded up to a 32-byte boundary.
func appendPadded(buf, data []byte) []byte {
	buf = append(buf, data...)
	if rem := len(data) % 32; rem != 0 {
		buf = append(buf, make([]byte, 32-rem)...)
	}
	return buf
}
