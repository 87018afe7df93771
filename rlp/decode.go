package rlp

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// ErrInvalid is the kind wrapped by every decode failure: non-canonical
// length prefixes, truncated input, nested overruns, trailing bytes.
var ErrInvalid = errors.New("invalid rlp")

// Kind discriminates the two RLP value shapes.
type Kind int

const (
	KindString Kind = iota
	KindList
)

// Value is one node of a decoded tree. Str borrows from the decode input;
// the caller must not mutate the input while the tree is live.
type Value struct {
	Kind  Kind
	Str   []byte
	Items []Value
}

// Decode parses input as exactly one RLP value. Trailing bytes are an error.
func Decode(input []byte) (Value, error) {
	v, rest, err := decodeItem(input)
	if err != nil {
		return Value{}, err
	}
	if len(rest) != 0 {
		return Value{}, errors.Wrapf(ErrInvalid, "%d trailing bytes", len(rest))
	}
	return v, nil
}

func decodeItem(input []byte) (Value, []byte, error) {
	if len(input) == 0 {
		return Value{}, nil, errors.Wrap(ErrInvalid, "empty input")
	}
	prefix := input[0]
	switch {
	case prefix < 0x80:
		return Value{Kind: KindString, Str: input[:1]}, input[1:], nil

	case prefix <= 0xb7:
		length := int(prefix - 0x80)
		if len(input) < 1+length {
			return Value{}, nil, errors.Wrap(ErrInvalid, "truncated string")
		}
		payload := input[1 : 1+length]
		if length == 1 && payload[0] < 0x80 {
			return Value{}, nil, errors.Wrap(ErrInvalid, "single byte below 0x80 must encode as itself")
		}
		return Value{Kind: KindString, Str: payload}, input[1+length:], nil

	case prefix <= 0xbf:
		payload, rest, err := decodeLongPayload(input, prefix-0xb7)
		if err != nil {
			return Value{}, nil, err
		}
		return Value{Kind: KindString, Str: payload}, rest, nil

	case prefix <= 0xf7:
		length := int(prefix - 0xc0)
		if len(input) < 1+length {
			return Value{}, nil, errors.Wrap(ErrInvalid, "truncated list")
		}
		items, err := decodeListItems(input[1 : 1+length])
		if err != nil {
			return Value{}, nil, err
		}
		return Value{Kind: KindList, Items: items}, input[1+length:], nil

	default:
		payload, rest, err := decodeLongPayload(input, prefix-0xf7)
		if err != nil {
			return Value{}, nil, err
		}
		items, err := decodeListItems(payload)
		if err != nil {
			return Value{}, nil, err
		}
		return Value{Kind: KindList, Items: items}, rest, nil
	}
}

// decodeLongPayload handles the 0xb8..0xbf / 0xf8..0xff forms: lenOfLen
// bytes of big-endian length, then the payload. The length must have no
// leading zero byte and must not fit the short form.
func decodeLongPayload(input []byte, lenOfLen byte) ([]byte, []byte, error) {
	n := int(lenOfLen)
	if n > 8 {
		return nil, nil, errors.Wrap(ErrInvalid, "length of length exceeds 8")
	}
	if len(input) < 1+n {
		return nil, nil, errors.Wrap(ErrInvalid, "truncated length")
	}
	lenBytes := input[1 : 1+n]
	if lenBytes[0] == 0 {
		return nil, nil, errors.Wrap(ErrInvalid, "leading zero in length")
	}
	var length uint64
	for _, b := range lenBytes {
		length = length<<8 | uint64(b)
	}
	if length < 56 {
		return nil, nil, errors.Wrap(ErrInvalid, "long form used for short payload")
	}
	if uint64(len(input)-1-n) < length {
		return nil, nil, errors.Wrap(ErrInvalid, "truncated payload")
	}
	end := 1 + n + int(length)
	return input[1+n : end], input[end:], nil
}

func decodeListItems(payload []byte) ([]Value, error) {
	items := []Value{}
	for len(payload) > 0 {
		item, rest, err := decodeItem(payload)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		payload = rest
	}
	return items, nil
}

// Bytes returns the string payload, or an error for a list.
func (v Value) Bytes() ([]byte, error) {
	if v.Kind != KindString {
		return nil, errors.Wrap(ErrInvalid, "expected string, got list")
	}
	return v.Str, nil
}

// Uint64 interprets a string value as a canonical big-endian integer.
func (v Value) Uint64() (uint64, error) {
	b, err := v.Bytes()
	if err != nil {
		return 0, err
	}
	if len(b) > 8 {
		return 0, errors.Wrap(ErrInvalid, "integer exceeds 64 bits")
	}
	if len(b) > 0 && b[0] == 0 {
		return 0, errors.Wrap(ErrInvalid, "leading zero in integer")
	}
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}
	return u, nil
}

// Uint256 interprets a string value as a canonical big-endian integer.
func (v Value) Uint256() (*uint256.Int, error) {
	b, err := v.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) > 32 {
		return nil, errors.Wrap(ErrInvalid, "integer exceeds 256 bits")
	}
	if len(b) > 0 && b[0] == 0 {
		return nil, errors.Wrap(ErrInvalid, "leading zero in integer")
	}
	return new(uint256.Int).SetBytes(b), nil
}

// List returns the item slice, or an error for a string.
func (v Value) List() ([]Value, error) {
	if v.Kind != KindList {
		return nil, errors.Wrap(ErrInvalid, "expected list, got string")
	}
	return v.Items, nil
}
