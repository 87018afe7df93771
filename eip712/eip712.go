// Package eip712 implements typed structured data hashing: the domain
// separator, per-struct hashing, and the final 0x19 0x01 digest.
package eip712

import (
	"sort"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/abi"
	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/hexutil"
	"github/chapool/go-ethcore/keccak"
	"github/chapool/go-ethcore/u256"
)

// ErrInvalidTypedData covers unknown types, missing fields, and values that
// do not fit their declared type.
var ErrInvalidTypedData = errors.New("invalid typed data")

// Field is one member of a struct type definition.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Types maps struct type names to their ordered fields.
type Types map[string][]Field

// Domain is the EIP712Domain struct; nil members are omitted from the
// domain type.
type Domain struct {
	Name              string
	Version           string
	ChainID           *uint256.Int
	VerifyingContract *ethtypes.Address
	Salt              *ethtypes.Hash
}

// TypedData is a complete signing request.
type TypedData struct {
	Types       Types
	PrimaryType string
	Domain      Domain
	Message     map[string]any
}

// Digest computes keccak256(0x19 || 0x01 || domainSeparator || structHash).
func (td *TypedData) Digest() (ethtypes.Hash, error) {
	domainSep, err := td.DomainSeparator()
	if err != nil {
		return ethtypes.Hash{}, err
	}
	structHash, err := td.HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		return ethtypes.Hash{}, err
	}
	return ethtypes.Hash(keccak.Sum([]byte{0x19, 0x01}, domainSep[:], structHash[:])), nil
}

// DomainSeparator hashes the EIP712Domain struct.
func (td *TypedData) DomainSeparator() (ethtypes.Hash, error) {
	fields, message := td.domainFields()
	types := Types{"EIP712Domain": fields}
	for name, f := range td.Types {
		if name != "EIP712Domain" {
			types[name] = f
		}
	}
	scoped := &TypedData{Types: types}
	return scoped.HashStruct("EIP712Domain", message)
}

func (td *TypedData) domainFields() ([]Field, map[string]any) {
	var fields []Field
	message := map[string]any{}
	if td.Domain.Name != "" {
		fields = append(fields, Field{Name: "name", Type: "string"})
		message["name"] = td.Domain.Name
	}
	if td.Domain.Version != "" {
		fields = append(fields, Field{Name: "version", Type: "string"})
		message["version"] = td.Domain.Version
	}
	if td.Domain.ChainID != nil {
		fields = append(fields, Field{Name: "chainId", Type: "uint256"})
		message["chainId"] = td.Domain.ChainID
	}
	if td.Domain.VerifyingContract != nil {
		fields = append(fields, Field{Name: "verifyingContract", Type: "address"})
		message["verifyingContract"] = *td.Domain.VerifyingContract
	}
	if td.Domain.Salt != nil {
		fields = append(fields, Field{Name: "salt", Type: "bytes32"})
		message["salt"] = td.Domain.Salt.Bytes()
	}
	return fields, message
}

// HashStruct computes keccak256(typeHash || encodeData(data)).
func (td *TypedData) HashStruct(name string, data map[string]any) (ethtypes.Hash, error) {
	typeHash, err := td.TypeHash(name)
	if err != nil {
		return ethtypes.Hash{}, err
	}
	encoded, err := td.encodeData(name, data)
	if err != nil {
		return ethtypes.Hash{}, err
	}
	return ethtypes.Hash(keccak.Sum(typeHash[:], encoded)), nil
}

// TypeHash is the Keccak-256 of the canonical encodeType rendering.
func (td *TypedData) TypeHash(name string) (ethtypes.Hash, error) {
	enc, err := td.EncodeType(name)
	if err != nil {
		return ethtypes.Hash{}, err
	}
	return ethtypes.Hash(keccak.Sum256([]byte(enc))), nil
}

// EncodeType renders the type and its transitive dependencies: the primary
// type first, dependencies after it in alphabetical order.
func (td *TypedData) EncodeType(name string) (string, error) {
	if _, ok := td.Types[name]; !ok {
		return "", errors.Wrapf(ErrInvalidTypedData, "unknown type %q", name)
	}
	deps := map[string]bool{}
	td.collectDeps(name, deps)
	delete(deps, name)
	ordered := make([]string, 0, len(deps)+1)
	for dep := range deps {
		ordered = append(ordered, dep)
	}
	sort.Strings(ordered)
	ordered = append([]string{name}, ordered...)

	var b strings.Builder
	for _, tn := range ordered {
		b.WriteString(tn)
		b.WriteByte('(')
		for i, f := range td.Types[tn] {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(f.Type)
			b.WriteByte(' ')
			b.WriteString(f.Name)
		}
		b.WriteByte(')')
	}
	return b.String(), nil
}

func (td *TypedData) collectDeps(name string, seen map[string]bool) {
	if seen[name] {
		return
	}
	fields, ok := td.Types[name]
	if !ok {
		return
	}
	seen[name] = true
	for _, f := range fields {
		td.collectDeps(baseType(f.Type), seen)
	}
}

// baseType strips array suffixes: Person[3] -> Person.
func baseType(t string) string {
	if i := strings.IndexByte(t, '['); i >= 0 {
		return t[:i]
	}
	return t
}

// encodeData concatenates one 32-byte word per field.
func (td *TypedData) encodeData(name string, data map[string]any) ([]byte, error) {
	fields, ok := td.Types[name]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidTypedData, "unknown type %q", name)
	}
	var out []byte
	for _, f := range fields {
		raw, ok := data[f.Name]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidTypedData, "missing field %q of %s", f.Name, name)
		}
		word, err := td.encodeValue(f.Type, raw)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", f.Name)
		}
		out = append(out, word[:]...)
	}
	return out, nil
}

// encodeValue reduces one value to its 32-byte word: struct values by their
// struct hash, bytes and strings by their keccak, arrays by the keccak of
// their concatenated element words, atomic values by their ABI encoding.
func (td *TypedData) encodeValue(typeName string, raw any) ([32]byte, error) {
	var word [32]byte

	if strings.ContainsRune(typeName, '[') {
		elems, ok := toSlice(raw)
		if !ok {
			return word, errors.Wrapf(ErrInvalidTypedData, "%s value is not an array", typeName)
		}
		open := strings.LastIndexByte(typeName, '[')
		elemType := typeName[:open]
		if dim := typeName[open+1 : len(typeName)-1]; dim != "" {
			// Fixed-size dimension; count must match.
			want := 0
			for _, c := range dim {
				want = want*10 + int(c-'0')
			}
			if len(elems) != want {
				return word, errors.Wrapf(ErrInvalidTypedData, "%s wants %d elements, got %d", typeName, want, len(elems))
			}
		}
		var concat []byte
		for _, e := range elems {
			w, err := td.encodeValue(elemType, e)
			if err != nil {
				return word, err
			}
			concat = append(concat, w[:]...)
		}
		return keccak.Sum256(concat), nil
	}

	if _, ok := td.Types[typeName]; ok {
		sub, ok := raw.(map[string]any)
		if !ok {
			return word, errors.Wrapf(ErrInvalidTypedData, "%s value is not a struct", typeName)
		}
		h, err := td.HashStruct(typeName, sub)
		if err != nil {
			return word, err
		}
		copy(word[:], h[:])
		return word, nil
	}

	switch typeName {
	case "string":
		s, ok := raw.(string)
		if !ok {
			return word, errors.Wrap(ErrInvalidTypedData, "string value")
		}
		return keccak.Sum256([]byte(s)), nil
	case "bytes":
		b, err := toBytes(raw)
		if err != nil {
			return word, err
		}
		return keccak.Sum256(b), nil
	}

	val, err := toAbiValue(typeName, raw)
	if err != nil {
		return word, err
	}
	enc, err := abi.Encode(val)
	if err != nil {
		return word, err
	}
	copy(word[:], enc)
	return word, nil
}

func toSlice(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func toBytes(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case []byte:
		return v, nil
	case hexutil.Bytes:
		return v, nil
	case string:
		return hexutil.Decode(v)
	}
	return nil, errors.Wrap(ErrInvalidTypedData, "bytes value")
}

// toAbiValue converts a loosely typed message value into the matching
// static ABI value.
func toAbiValue(typeName string, raw any) (abi.Value, error) {
	t, err := abi.ParseType(typeName)
	if err != nil {
		return nil, err
	}
	switch t.Kind {
	case abi.KindUint, abi.KindInt:
		x, err := toUint256(raw)
		if err != nil {
			return nil, err
		}
		if t.Kind == abi.KindUint {
			return abi.Uint{Bits: t.Bits, X: x}, nil
		}
		return abi.Int{Bits: t.Bits, X: x}, nil
	case abi.KindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, errors.Wrap(ErrInvalidTypedData, "bool value")
		}
		return abi.Bool(b), nil
	case abi.KindAddress:
		switch v := raw.(type) {
		case ethtypes.Address:
			return abi.Address(v), nil
		case string:
			a, err := ethtypes.ParseAddress(v)
			if err != nil {
				return nil, err
			}
			return abi.Address(a), nil
		}
		return nil, errors.Wrap(ErrInvalidTypedData, "address value")
	case abi.KindFixedBytes:
		b, err := toBytes(raw)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, errors.Wrapf(ErrInvalidTypedData, "bytes%d value has %d bytes", t.Size, len(b))
		}
		return abi.FixedBytes(b), nil
	}
	return nil, errors.Wrapf(ErrInvalidTypedData, "type %q is not atomic", typeName)
}

func toUint256(raw any) (*uint256.Int, error) {
	switch v := raw.(type) {
	case *uint256.Int:
		return v, nil
	case uint256.Int:
		return &v, nil
	case uint64:
		return uint256.NewInt(v), nil
	case int:
		if v < 0 {
			x := uint256.NewInt(uint64(-v))
			return u256.Neg(x, x), nil
		}
		return uint256.NewInt(uint64(v)), nil
	case int64:
		if v < 0 {
			x := uint256.NewInt(uint64(-v))
			return u256.Neg(x, x), nil
		}
		return uint256.NewInt(uint64(v)), nil
	case string:
		if strings.HasPrefix(v, "0x") {
			return hexutil.DecodeBig(v)
		}
		return u256.ParseDecimal(v)
	}
	return nil, errors.Wrap(ErrInvalidTypedData, "integer value")
}
