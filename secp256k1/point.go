package secp256k1

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/u256"
)

// ErrInvalidScalar is returned for scalars outside [1, N).
var ErrInvalidScalar = errors.New("scalar outside [1, n)")

// PublicKey is an affine curve point.
type PublicKey struct {
	X, Y uint256.Int
}

// ScalarBaseMult computes k*G for k in [1, N).
func ScalarBaseMult(k *uint256.Int) (PublicKey, error) {
	return scalarMult(gx, gy, k)
}

// ScalarMult computes k*P for k in [1, N).
func ScalarMult(p *PublicKey, k *uint256.Int) (PublicKey, error) {
	return scalarMult(&p.X, &p.Y, k)
}

func scalarMult(x, y, k *uint256.Int) (PublicKey, error) {
	if k.IsZero() || !k.Lt(N) {
		return PublicKey{}, ErrInvalidScalar
	}
	j := scalarMultJac(x, y, k)
	ax, ay, err := j.toAffine()
	if err != nil {
		return PublicKey{}, err
	}
	return PublicKey{X: ax, Y: ay}, nil
}

// Add computes a + b. Adding a point to its inverse is an error (the point
// at infinity has no affine form).
func Add(a, b *PublicKey) (PublicKey, error) {
	var ja, jb, sum jacPoint
	ja.setAffine(&a.X, &a.Y)
	jb.setAffine(&b.X, &b.Y)
	sum.add(&ja, &jb)
	x, y, err := sum.toAffine()
	if err != nil {
		return PublicKey{}, err
	}
	return PublicKey{X: x, Y: y}, nil
}

// Double computes 2*p.
func Double(p *PublicKey) (PublicKey, error) {
	var j jacPoint
	j.setAffine(&p.X, &p.Y)
	j.double(&j)
	x, y, err := j.toAffine()
	if err != nil {
		return PublicKey{}, err
	}
	return PublicKey{X: x, Y: y}, nil
}

// IsOnCurve reports whether p satisfies y^2 = x^3 + 7 over the field.
func (p *PublicKey) IsOnCurve() bool {
	if !p.X.Lt(P) || !p.Y.Lt(P) {
		return false
	}
	var lhs, rhs uint256.Int
	fmul(&lhs, &p.Y, &p.Y)
	fmul(&rhs, &p.X, &p.X)
	fmul(&rhs, &rhs, &p.X)
	fadd(&rhs, &rhs, curveB)
	return lhs.Eq(&rhs)
}

// Bytes64 returns the raw 64-byte x||y form (no 0x04 prefix).
func (p *PublicKey) Bytes64() [64]byte {
	var out [64]byte
	x := p.X.Bytes32()
	y := p.Y.Bytes32()
	copy(out[:32], x[:])
	copy(out[32:], y[:])
	return out
}

// Compressed returns the 33-byte SEC1 compressed form.
func (p *PublicKey) Compressed() [33]byte {
	var out [33]byte
	out[0] = 0x02
	if p.Y[0]&1 == 1 {
		out[0] = 0x03
	}
	x := p.X.Bytes32()
	copy(out[1:], x[:])
	return out
}

// ParsePublicKey accepts the 64-byte raw, 65-byte 0x04-prefixed, or 33-byte
// compressed encodings.
func ParsePublicKey(b []byte) (PublicKey, error) {
	var p PublicKey
	switch len(b) {
	case 64:
		p.X.SetBytes(b[:32])
		p.Y.SetBytes(b[32:])
	case 65:
		if b[0] != 0x04 {
			return p, errors.Wrap(ErrNotOnCurve, "bad uncompressed prefix")
		}
		p.X.SetBytes(b[1:33])
		p.Y.SetBytes(b[33:])
	case 33:
		if b[0] != 0x02 && b[0] != 0x03 {
			return p, errors.Wrap(ErrNotOnCurve, "bad compressed prefix")
		}
		var x uint256.Int
		x.SetBytes(b[1:])
		return liftX(&x, b[0] == 0x03)
	default:
		return p, errors.Wrapf(ErrNotOnCurve, "bad public key length %d", len(b))
	}
	if !p.IsOnCurve() {
		return PublicKey{}, ErrNotOnCurve
	}
	return p, nil
}

// liftX recovers the affine point with the given x coordinate and y parity.
func liftX(x *uint256.Int, odd bool) (PublicKey, error) {
	if !x.Lt(P) {
		return PublicKey{}, errors.Wrap(ErrNotOnCurve, "x exceeds field")
	}
	var rhs, y, check uint256.Int
	fmul(&rhs, x, x)
	fmul(&rhs, &rhs, x)
	fadd(&rhs, &rhs, curveB)
	y.Set(u256.ModExp(&rhs, sqrtExp, P))
	fmul(&check, &y, &y)
	if !check.Eq(&rhs) {
		return PublicKey{}, errors.Wrap(ErrNotOnCurve, "x has no square root")
	}
	if (y[0]&1 == 1) != odd {
		fsub(&y, P, &y)
	}
	var p PublicKey
	p.X.Set(x)
	p.Y.Set(&y)
	return p, nil
}

// RecoverPublic recovers the signing public key from a digest, the signature
// scalars and the recovery id. Bit 0 of recID carries the parity of R.y; bit
// 1 is set when R.x overflowed the group order.
func RecoverPublic(digest [32]byte, r, s *uint256.Int, recID byte) (PublicKey, error) {
	if recID > 3 {
		return PublicKey{}, errors.Wrapf(ErrInvalidScalar, "recovery id %d", recID)
	}
	if r.IsZero() || !r.Lt(N) || s.IsZero() || !s.Lt(N) {
		return PublicKey{}, ErrInvalidScalar
	}
	rx := new(uint256.Int).Set(r)
	if recID&2 != 0 {
		rx.Add(rx, N)
		if !rx.Lt(P) {
			return PublicKey{}, errors.Wrap(ErrNotOnCurve, "r + n exceeds field")
		}
	}
	rPoint, err := liftX(rx, recID&1 == 1)
	if err != nil {
		return PublicKey{}, err
	}

	// Q = r^-1 * (s*R - e*G)
	var e, rInv, u1, u2 uint256.Int
	e.SetBytes(digest[:])
	e.Mod(&e, N)
	rInv.Set(u256.Inverse(r, N))
	u1.MulMod(&e, &rInv, N)
	u256.SubMod(&u1, N, &u1, N) // -e/r mod n
	u1.Mod(&u1, N)
	u2.MulMod(s, &rInv, N)

	var jg, jr, q jacPoint
	if u1.IsZero() {
		jg.setInfinity()
	} else {
		jg = scalarMultJac(gx, gy, &u1)
	}
	if u2.IsZero() {
		jr.setInfinity()
	} else {
		jr = scalarMultJac(&rPoint.X, &rPoint.Y, &u2)
	}
	q.add(&jg, &jr)
	x, y, err := q.toAffine()
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "recovery produced infinity")
	}
	return PublicKey{X: x, Y: y}, nil
}
