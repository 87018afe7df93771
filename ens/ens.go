// Package ens resolves ENS names: the pure namehash algorithm plus forward
// resolution through any Caller.
package ens

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github/chapool/go-ethcore/abi"
	"github/chapool/go-ethcore/ethtypes"
	"github/chapool/go-ethcore/keccak"
	"github/chapool/go-ethcore/provider"
)

// Registry is the ENS registry address deployed on mainnet and most
// testnets.
var Registry = ethtypes.MustParseAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

// ErrUnresolvable is returned when a name has no resolver or no address
// record.
var ErrUnresolvable = errors.New("name does not resolve")

var (
	resolverMethod = abi.Method{
		Name:    "resolver",
		Inputs:  []abi.Type{abi.FixedBytesType(32)},
		Outputs: []abi.Type{abi.AddressType()},
	}
	addrMethod = abi.Method{
		Name:    "addr",
		Inputs:  []abi.Type{abi.FixedBytesType(32)},
		Outputs: []abi.Type{abi.AddressType()},
	}
)

// Namehash computes the recursive label hash of a name. The empty name is
// the zero hash. Labels are lowercased; full UTS-46 normalization is the
// caller's concern.
func Namehash(name string) ethtypes.Hash {
	var node ethtypes.Hash
	if name == "" {
		return node
	}
	labels := strings.Split(strings.ToLower(name), ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := keccak.Sum256([]byte(labels[i]))
		node = ethtypes.Hash(keccak.Sum(node[:], labelHash[:]))
	}
	return node
}

// Resolve looks up the address record for a name through the mainnet
// registry.
func Resolve(ctx context.Context, caller provider.Caller, name string) (ethtypes.Address, error) {
	return ResolveWithRegistry(ctx, caller, Registry, name)
}

// ResolveWithRegistry looks up the resolver for the name's node, then asks
// it for the address record.
func ResolveWithRegistry(ctx context.Context, caller provider.Caller, registry ethtypes.Address, name string) (ethtypes.Address, error) {
	node := Namehash(name)

	resolverAddr, err := callForAddress(ctx, caller, registry, resolverMethod, node)
	if err != nil {
		return ethtypes.Address{}, errors.Wrapf(err, "resolver lookup for %q", name)
	}
	if resolverAddr.IsZero() {
		return ethtypes.Address{}, errors.Wrapf(ErrUnresolvable, "%q has no resolver", name)
	}

	addr, err := callForAddress(ctx, caller, resolverAddr, addrMethod, node)
	if err != nil {
		return ethtypes.Address{}, errors.Wrapf(err, "addr lookup for %q", name)
	}
	if addr.IsZero() {
		return ethtypes.Address{}, errors.Wrapf(ErrUnresolvable, "%q has no address record", name)
	}
	return addr, nil
}

func callForAddress(ctx context.Context, caller provider.Caller, to ethtypes.Address, method abi.Method, node ethtypes.Hash) (ethtypes.Address, error) {
	calldata, err := method.Pack(abi.FixedBytes(node.Bytes()))
	if err != nil {
		return ethtypes.Address{}, err
	}
	ret, err := caller.Call(ctx, to, calldata)
	if err != nil {
		return ethtypes.Address{}, err
	}
	values, err := method.Unpack(ret)
	if err != nil {
		return ethtypes.Address{}, err
	}
	addr, ok := values[0].(abi.Address)
	if !ok {
		return ethtypes.Address{}, errors.Wrap(abi.ErrInvalid, "resolver returned a non-address")
	}
	return ethtypes.Address(addr), nil
}
