package hdwallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/secp256k1"
	"github/chapool/go-ethcore/signer"
)

// HardenedOffset marks the start of the hardened index range.
const HardenedOffset uint32 = 1 << 31

// Hardened returns the hardened form of a path component.
func Hardened(index uint32) uint32 { return index | HardenedOffset }

// Node is a BIP-32 derivation node: a chain code plus either a secret scalar
// (full node) or just the public key (neutered node). Hardened children need
// the secret; unhardened children derive from either.
type Node struct {
	secret    uint256.Int
	hasSecret bool
	chainCode [32]byte
	pub       *secp256k1.PublicKey
}

// Master builds the root node from a BIP-39 seed:
// HMAC-SHA512(key="Bitcoin seed", seed), left half secret, right half chain
// code.
func Master(seed []byte) (*Node, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, errors.Wrapf(ErrInvalidDerivation, "seed length %d", len(seed))
	}
	sum := hmacSHA512([]byte("Bitcoin seed"), seed)
	n := &Node{hasSecret: true}
	n.secret.SetBytes(sum[:32])
	copy(n.chainCode[:], sum[32:])
	zero(sum[:])
	if n.secret.IsZero() || !n.secret.Lt(secp256k1.N) {
		n.Destroy()
		return nil, errors.Wrap(ErrInvalidDerivation, "master secret outside [1, n)")
	}
	return n, nil
}

// HasSecret reports whether the node can derive hardened children.
func (n *Node) HasSecret() bool { return n.hasSecret }

// ChainCode returns a copy of the node's chain code.
func (n *Node) ChainCode() [32]byte { return n.chainCode }

// Public returns the node's public key.
func (n *Node) Public() (secp256k1.PublicKey, error) {
	if n.pub != nil {
		return *n.pub, nil
	}
	if !n.hasSecret {
		return secp256k1.PublicKey{}, errors.Wrap(ErrInvalidDerivation, "node has neither secret nor public key")
	}
	pub, err := secp256k1.ScalarBaseMult(&n.secret)
	if err != nil {
		return secp256k1.PublicKey{}, err
	}
	n.pub = &pub
	return pub, nil
}

// Neuter returns a public-only copy of the node.
func (n *Node) Neuter() (*Node, error) {
	pub, err := n.Public()
	if err != nil {
		return nil, err
	}
	out := &Node{chainCode: n.chainCode}
	p := pub
	out.pub = &p
	return out, nil
}

// Key converts the node's secret into a signing key.
func (n *Node) Key() (*signer.Key, error) {
	if !n.hasSecret {
		return nil, errors.Wrap(ErrInvalidDerivation, "neutered node has no secret")
	}
	return signer.NewKeyFromScalar(&n.secret)
}

// Destroy zeroizes the secret material.
func (n *Node) Destroy() {
	n.secret.Clear()
	n.hasSecret = false
	zero(n.chainCode[:])
}

// Child derives the child node at index. A hardened index requires the
// secret. When the derived scalar is zero or the HMAC left half reaches the
// group order, the index is rejected and the next one is used, per BIP-32.
func (n *Node) Child(index uint32) (*Node, error) {
	for attempt := 0; attempt < 4; attempt++ {
		child, err := n.childOnce(index)
		if err == nil {
			return child, nil
		}
		if !errors.Is(err, errRetryIndex) {
			return nil, err
		}
		if index == HardenedOffset-1 || index == ^uint32(0) {
			return nil, errors.Wrap(ErrInvalidDerivation, "index range exhausted")
		}
		index++
	}
	return nil, errors.Wrap(ErrInvalidDerivation, "derivation kept failing")
}

var errRetryIndex = errors.New("derivation rejected index")

func (n *Node) childOnce(index uint32) (*Node, error) {
	var data []byte
	if index >= HardenedOffset {
		if !n.hasSecret {
			return nil, errors.Wrap(ErrInvalidDerivation, "hardened derivation needs the secret")
		}
		sec := n.secret.Bytes32()
		data = make([]byte, 0, 37)
		data = append(data, 0x00)
		data = append(data, sec[:]...)
		zero(sec[:])
	} else {
		pub, err := n.Public()
		if err != nil {
			return nil, err
		}
		comp := pub.Compressed()
		data = append(data, comp[:]...)
	}
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)
	data = append(data, idx[:]...)

	sum := hmacSHA512(n.chainCode[:], data)
	zero(data)
	defer zero(sum[:])

	var left uint256.Int
	left.SetBytes(sum[:32])
	if !left.Lt(secp256k1.N) {
		return nil, errRetryIndex
	}

	child := &Node{}
	copy(child.chainCode[:], sum[32:])

	if n.hasSecret {
		child.hasSecret = true
		child.secret.AddMod(&left, &n.secret, secp256k1.N)
		left.Clear()
		if child.secret.IsZero() {
			child.Destroy()
			return nil, errRetryIndex
		}
		return child, nil
	}

	// Public derivation: child = point(left) + parent.
	parent, err := n.Public()
	if err != nil {
		return nil, err
	}
	if left.IsZero() {
		return nil, errRetryIndex
	}
	leftPoint, err := secp256k1.ScalarBaseMult(&left)
	left.Clear()
	if err != nil {
		return nil, errRetryIndex
	}
	childPub, err := secp256k1.Add(&leftPoint, &parent)
	if err != nil {
		return nil, errRetryIndex
	}
	child.pub = &childPub
	return child, nil
}

func hmacSHA512(key, data []byte) [64]byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	var out [64]byte
	mac.Sum(out[:0])
	return out
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
