package abi

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseType parses a Solidity type string such as "uint256", "bytes32",
// "(address,uint256[])[3]". The bare aliases "uint" and "int" canonicalize
// to their 256-bit forms.
func ParseType(s string) (Type, error) {
	t, rest, err := parseType(s)
	if err != nil {
		return Type{}, err
	}
	if rest != "" {
		return Type{}, errors.Wrapf(ErrInvalid, "trailing %q in type %q", rest, s)
	}
	return t, nil
}

// ParseSignature splits a canonical signature such as
// "transfer(address,uint256)" into its name and parameter types.
func ParseSignature(s string) (string, []Type, error) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || s[len(s)-1] != ')' {
		return "", nil, errors.Wrapf(ErrInvalid, "malformed signature %q", s)
	}
	name := s[:open]
	inner := s[open+1 : len(s)-1]
	if inner == "" {
		return name, nil, nil
	}
	var types []Type
	for _, part := range splitTopLevel(inner) {
		t, err := ParseType(part)
		if err != nil {
			return "", nil, errors.Wrapf(err, "in signature %q", s)
		}
		types = append(types, t)
	}
	return name, types, nil
}

func parseType(s string) (Type, string, error) {
	var base Type
	var rest string

	if strings.HasPrefix(s, "(") {
		depth := 0
		end := -1
		for i := 0; i < len(s); i++ {
			switch s[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					end = i
				}
			}
			if end >= 0 {
				break
			}
		}
		if end < 0 {
			return Type{}, "", errors.Wrapf(ErrInvalid, "unbalanced tuple in %q", s)
		}
		inner := s[1:end]
		var fields []Type
		if inner != "" {
			for _, part := range splitTopLevel(inner) {
				f, err := ParseType(part)
				if err != nil {
					return Type{}, "", err
				}
				fields = append(fields, f)
			}
		}
		base = TupleType(fields...)
		rest = s[end+1:]
	} else {
		word := s
		if i := strings.IndexByte(s, '['); i >= 0 {
			word = s[:i]
			rest = s[i:]
		}
		var err error
		base, err = parseElementary(word)
		if err != nil {
			return Type{}, "", err
		}
	}

	// Array suffixes bind left to right: uint8[2][] is a dynamic array of
	// two-element arrays.
	for strings.HasPrefix(rest, "[") {
		close := strings.IndexByte(rest, ']')
		if close < 0 {
			return Type{}, "", errors.Wrapf(ErrInvalid, "unbalanced bracket in %q", s)
		}
		dim := rest[1:close]
		if dim == "" {
			base = SliceType(base)
		} else {
			n, err := strconv.Atoi(dim)
			if err != nil || n < 0 {
				return Type{}, "", errors.Wrapf(ErrInvalid, "array size %q", dim)
			}
			base = ArrayType(base, n)
		}
		rest = rest[close+1:]
	}
	return base, rest, nil
}

func parseElementary(word string) (Type, error) {
	switch word {
	case "bool":
		return BoolType(), nil
	case "address":
		return AddressType(), nil
	case "bytes":
		return BytesType(), nil
	case "string":
		return StringType(), nil
	case "uint":
		return UintType(256), nil
	case "int":
		return IntType(256), nil
	}
	if rest, ok := strings.CutPrefix(word, "uint"); ok {
		return sizedIntType(KindUint, rest, word)
	}
	if rest, ok := strings.CutPrefix(word, "int"); ok {
		return sizedIntType(KindInt, rest, word)
	}
	if rest, ok := strings.CutPrefix(word, "bytes"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > 32 {
			return Type{}, errors.Wrapf(ErrInvalid, "type %q", word)
		}
		return FixedBytesType(n), nil
	}
	return Type{}, errors.Wrapf(ErrInvalid, "unknown type %q", word)
}

func sizedIntType(kind Kind, digits, word string) (Type, error) {
	bits, err := strconv.Atoi(digits)
	if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
		return Type{}, errors.Wrapf(ErrInvalid, "type %q", word)
	}
	return Type{Kind: kind, Bits: bits}, nil
}

// splitTopLevel splits on commas that are not nested in parentheses or
// brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
