package hdwallet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github/chapool/go-ethcore/signer"
)

// EthereumPath renders the BIP-44 Ethereum path m/44'/60'/0'/0/index.
func EthereumPath(index uint32) string {
	return fmt.Sprintf("m/44'/60'/0'/0/%d", index)
}

// ParsePath parses a derivation path like m/44'/60'/0'/0/0 into indices.
// A trailing apostrophe (or 'h'/'H') marks a hardened component.
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, errors.Wrapf(ErrInvalidDerivation, "path %q must start with m/", path)
	}
	indices := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if part == "" {
			return nil, errors.Wrapf(ErrInvalidDerivation, "empty component in %q", path)
		}
		hardened := false
		switch part[len(part)-1] {
		case '\'', 'h', 'H':
			hardened = true
			part = part[:len(part)-1]
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil || v >= uint64(HardenedOffset) {
			return nil, errors.Wrapf(ErrInvalidDerivation, "bad component %q", part)
		}
		idx := uint32(v)
		if hardened {
			idx = Hardened(idx)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

// DerivePath walks the node down the given path.
func DerivePath(node *Node, path string) (*Node, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	current := node
	for depth, idx := range indices {
		next, err := current.Child(idx)
		if current != node {
			current.Destroy()
		}
		if err != nil {
			return nil, errors.Wrapf(err, "at depth %d", depth+1)
		}
		current = next
	}
	if current == node {
		// Empty path: return an independent copy so Destroy stays local.
		copied := *node
		return &copied, nil
	}
	return current, nil
}

// DeriveEthereumKey walks m/44'/60'/0'/0/index and returns the signing key.
func DeriveEthereumKey(master *Node, index uint32) (*signer.Key, error) {
	node, err := DerivePath(master, EthereumPath(index))
	if err != nil {
		return nil, err
	}
	defer node.Destroy()
	return node.Key()
}
