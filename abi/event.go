package abi

import (
	"strings"

	"github.com/pkg/errors"

	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/keccak"
)

// Argument is a named event parameter.
type Argument struct {
	Name    string
	Type    Type
	Indexed bool
}

// Event describes one log-emitting event.
type Event struct {
	Name   string
	Inputs []Argument
}

// Signature renders the canonical event signature.
func (e Event) Signature() string {
	parts := make([]string, len(e.Inputs))
	for i, in := range e.Inputs {
		parts[i] = in.Type.String()
	}
	return e.Name + "(" + strings.Join(parts, ",") + ")"
}

// Topic0 is the Keccak-256 hash of the canonical signature.
func (e Event) Topic0() ethtypes.Hash {
	return ethtypes.Hash(keccak.Topic(e.Signature()))
}

// TopicFor derives the topic slot for an indexed value: static values use
// their padded 32-byte encoding; bytes and strings hash their raw contents;
// arrays and tuples hash the concatenation of their element encodings.
func TopicFor(v Value) (ethtypes.Hash, error) {
	switch val := v.(type) {
	case Bytes:
		return ethtypes.Hash(keccak.Sum256(val)), nil
	case String:
		return ethtypes.Hash(keccak.Sum256([]byte(val))), nil
	case Array, Slice, Tuple:
		enc, err := encodeInPlace(v)
		if err != nil {
			return ethtypes.Hash{}, err
		}
		return ethtypes.Hash(keccak.Sum256(enc)), nil
	default:
		enc, err := encodeStatic(v)
		if err != nil {
			return ethtypes.Hash{}, err
		}
		h, err := ethtypes.HashFromBytes(enc)
		if err != nil {
			return ethtypes.Hash{}, errors.Wrap(ErrInvalid, err.Error())
		}
		return h, nil
	}
}

// encodeInPlace concatenates element encodings with no offsets or length,
// the form event topics hash for composite values.
func encodeInPlace(v Value) ([]byte, error) {
	var elems []Value
	switch val := v.(type) {
	case Array:
		elems = val.Elems
	case Slice:
		elems = val.Elems
	case Tuple:
		elems = val
	default:
		return encodeStatic(v)
	}
	var out []byte
	for _, e := range elems {
		var enc []byte
		var err error
		switch inner := e.(type) {
		case Bytes:
			enc = appendPadded(nil, inner)
		case String:
			enc = appendPadded(nil, []byte(inner))
		case Array, Slice, Tuple:
			enc, err = encodeInPlace(inner)
		default:
			enc, err = encodeStatic(inner)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, enc...)
	}
	return out, nil
}

// DataTypes returns the non-indexed input types, in order.
func (e Event) DataTypes() []Type {
	var types []Type
	for _, in := range e.Inputs {
		if !in.Indexed {
			types = append(types, in.Type)
		}
	}
	return types
}

// DecodeLog decodes a log entry against the event: topic0 is checked, the
// remaining topics fill the indexed inputs (dynamic indexed values stay as
// opaque hashes), and the data section fills the rest.
func (e Event) DecodeLog(log *ethtypes.Log) (map[string]Value, error) {
	if len(log.Topics) == 0 || log.Topics[0] != e.Topic0() {
		return nil, errors.Wrap(ErrInvalid, "topic0 mismatch")
	}
	out := make(map[string]Value, len(e.Inputs))
	topic := 1
	for _, in := range e.Inputs {
		if !in.Indexed {
			continue
		}
		if topic >= len(log.Topics) {
			return nil, errors.Wrapf(ErrInvalid, "missing topic for %s", in.Name)
		}
		hashed := in.Type.IsDynamic() ||
			in.Type.Kind == KindArray || in.Type.Kind == KindTuple
		if hashed {
			out[in.Name] = FixedBytes(log.Topics[topic].Bytes())
		} else {
			v, _, err := decodeStatic(in.Type, log.Topics[topic].Bytes())
			if err != nil {
				return nil, errors.Wrapf(err, "topic for %s", in.Name)
			}
			out[in.Name] = v
		}
		topic++
	}
	dataValues, err := Decode(e.DataTypes(), log.Data)
	if err != nil {
		return nil, err
	}
	i := 0
	for _, in := range e.Inputs {
		if in.Indexed {
			continue
		}
		out[in.Name] = dataValues[i]
		i++
	}
	return out, nil
}
