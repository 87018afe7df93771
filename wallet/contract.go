package wallet

import (
	"context"

	"github.com/pkg/errors"

	"github/chapool/go-ethcore/abi"
	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/provider"
)

// Contract binds an address to a method set so calls can be made by name.
type Contract struct {
	address ethtypes.Address
	methods map[string]abi.Method
}

// NewContract indexes the methods by name.
func NewContract(address ethtypes.Address, methods []abi.Method) *Contract {
	indexed := make(map[string]abi.Method, len(methods))
	for _, m := range methods {
		indexed[m.Name] = m
	}
	return &Contract{address: address, methods: indexed}
}

// Address is the bound contract address.
func (c *Contract) Address() ethtypes.Address { return c.address }

// Calldata packs a call to the named method.
func (c *Contract) Calldata(method string, args ...abi.Value) ([]byte, error) {
	m, ok := c.methods[method]
	if !ok {
		return nil, errors.Errorf("contract has no method %q", method)
	}
	return m.Pack(args...)
}

// Call executes a read-only call through the caller and decodes the return
// values.
func (c *Contract) Call(ctx context.Context, caller provider.Caller, method string, args ...abi.Value) ([]abi.Value, error) {
	m, ok := c.methods[method]
	if !ok {
		return nil, errors.Errorf("contract has no method %q", method)
	}
	calldata, err := m.Pack(args...)
	if err != nil {
		return nil, err
	}
	ret, err := caller.Call(ctx, c.address, calldata)
	if err != nil {
		return nil, err
	}
	return m.Unpack(ret)
}
