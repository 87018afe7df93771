// Package rlp implements Recursive-Length-Prefix, Ethereum's canonical
// serialization for tree-shaped byte data. The encoder only produces
// canonical forms; the decoder rejects everything else.
package rlp

import "github.com/holiman/uint256"

// EmptyString is the encoding of the empty byte string.
const EmptyString = 0x80

// EmptyList is the encoding of the empty list.
const EmptyList = 0xc0

// AppendString appends the encoding of the byte string b to buf.
// A single byte below 0x80 encodes as itself.
func AppendString(buf, b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return append(buf, b[0])
	}
	buf = appendLength(buf, 0x80, uint64(len(b)))
	return append(buf, b...)
}

// AppendUint appends v as its shortest big-endian byte string.
// Zero encodes as the empty string.
func AppendUint(buf []byte, v uint64) []byte {
	if v == 0 {
		return append(buf, EmptyString)
	}
	if v < 0x80 {
		return append(buf, byte(v))
	}
	var tmp [8]byte
	n := 0
	for shift := 56; shift >= 0; shift -= 8 {
		b := byte(v >> uint(shift))
		if n == 0 && b == 0 {
			continue
		}
		tmp[n] = b
		n++
	}
	buf = append(buf, 0x80+byte(n))
	return append(buf, tmp[:n]...)
}

// AppendUint256 appends v as its shortest big-endian byte string.
// A nil or zero value encodes as the empty string.
func AppendUint256(buf []byte, v *uint256.Int) []byte {
	if v == nil || v.IsZero() {
		return append(buf, EmptyString)
	}
	return AppendString(buf, v.Bytes())
}

// AppendList appends a list header for the already-encoded content, then the
// content itself.
func AppendList(buf, content []byte) []byte {
	buf = appendLength(buf, 0xc0, uint64(len(content)))
	return append(buf, content...)
}

// EncodeString returns the encoding of a byte string.
func EncodeString(b []byte) []byte {
	return AppendString(nil, b)
}

// EncodeUint returns the encoding of an unsigned integer.
func EncodeUint(v uint64) []byte {
	return AppendUint(nil, v)
}

// EncodeList wraps already-encoded items into a list.
func EncodeList(items ...[]byte) []byte {
	var content []byte
	for _, it := range items {
		content = append(content, it...)
	}
	return AppendList(nil, content)
}

func appendLength(buf []byte, base byte, length uint64) []byte {
	if length < 56 {
		return append(buf, base+byte(length))
	}
	var tmp [8]byte
	n := 0
	for shift := 56; shift >= 0; shift -= 8 {
		b := byte(length >> uint(shift))
		if n == 0 && b == 0 {
			continue
		}
		tmp[n] = b
		n++
	}
	buf = append(buf, base+55+byte(n))
	return append(buf, tmp[:n]...)
}
