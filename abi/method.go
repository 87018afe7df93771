package abi

import (
	"strings"

	"github.com/pkg/errors"

	"github/chapool/go-ethcore/keccak"
)

// SignatureOf renders the canonical signature text for a name and type list.
func SignatureOf(name string, types []Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

// MethodID derives the 4-byte selector for a name and type list.
func MethodID(name string, types []Type) [4]byte {
	return keccak.Selector(SignatureOf(name, types))
}

// Method describes one callable function.
type Method struct {
	Name    string
	Inputs  []Type
	Outputs []Type
}

// Signature renders the canonical signature text.
func (m Method) Signature() string {
	return SignatureOf(m.Name, m.Inputs)
}

// ID is the 4-byte selector.
func (m Method) ID() [4]byte {
	return keccak.Selector(m.Signature())
}

// Pack produces calldata: selector followed by the encoded arguments.
// Argument types must match the declared inputs exactly.
func (m Method) Pack(args ...Value) ([]byte, error) {
	if len(args) != len(m.Inputs) {
		return nil, errors.Wrapf(ErrInvalid, "%s takes %d arguments, got %d", m.Name, len(m.Inputs), len(args))
	}
	for i, a := range args {
		if !a.Type().Equal(m.Inputs[i]) {
			return nil, errors.Wrapf(ErrInvalid, "argument %d is %s, want %s", i, a.Type(), m.Inputs[i])
		}
	}
	return EncodeWithSelector(m.ID(), args...)
}

// Unpack decodes return data against the declared outputs.
func (m Method) Unpack(data []byte) ([]Value, error) {
	return Decode(m.Outputs, data)
}
