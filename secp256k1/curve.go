// Package secp256k1 implements the curve arithmetic behind Ethereum key
// pairs: Jacobian point operations over the prime field, scalar
// multiplication, and public-key recovery.
//
// Scalar multiplication processes every bit of the scalar with a word-masked
// select and a blinded accumulator, so control flow does not depend on secret
// scalar bits. Recovery and the other public paths share the same routines.
package secp256k1

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github/chapool/go-ethcore/u256"
)

var (
	// P is the field prime 2^256 - 2^32 - 977.
	P = uint256.MustFromHex("0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")
	// N is the group order.
	N = uint256.MustFromHex("0xfffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	// HalfN is N/2, the EIP-2 low-S boundary.
	HalfN = new(uint256.Int).Rsh(N, 1)

	gx = uint256.MustFromHex("0x79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	gy = uint256.MustFromHex("0x483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")

	curveB = uint256.NewInt(7)

	// sqrtExp is (P+1)/4; P = 3 mod 4, so x^sqrtExp is a square root of x.
	sqrtExp = new(uint256.Int).Rsh(new(uint256.Int).AddUint64(P, 1), 2)
)

// ErrNotOnCurve is returned for coordinates that do not satisfy the curve
// equation or for operations that land on the point at infinity.
var ErrNotOnCurve = errors.New("point not on curve")

// jacPoint is a point in Jacobian projective coordinates. z == 0 marks the
// point at infinity.
type jacPoint struct {
	x, y, z uint256.Int
}

func fmul(z, x, y *uint256.Int) *uint256.Int { return z.MulMod(x, y, P) }
func fadd(z, x, y *uint256.Int) *uint256.Int { return z.AddMod(x, y, P) }
func fsub(z, x, y *uint256.Int) *uint256.Int { return u256.SubMod(z, x, y, P) }

func (p *jacPoint) setAffine(x, y *uint256.Int) {
	p.x.Set(x)
	p.y.Set(y)
	p.z.SetOne()
}

func (p *jacPoint) setInfinity() {
	p.x.Clear()
	p.y.SetOne()
	p.z.Clear()
}

func (p *jacPoint) isInfinity() bool { return p.z.IsZero() }

// sel sets p to a when bit == 0 and to b when bit == 1, without branching.
func (p *jacPoint) sel(a, b *jacPoint, bit uint64) {
	mask := -bit
	for i := 0; i < 4; i++ {
		p.x[i] = a.x[i] ^ (mask & (a.x[i] ^ b.x[i]))
		p.y[i] = a.y[i] ^ (mask & (a.y[i] ^ b.y[i]))
		p.z[i] = a.z[i] ^ (mask & (a.z[i] ^ b.z[i]))
	}
}

// double sets p = 2a (dbl-2009-l). Doubling infinity stays at infinity
// because z3 = 2*y1*z1 = 0.
func (p *jacPoint) double(a *jacPoint) {
	var A, B, C, D, E, F, t, x3, y3, z3 uint256.Int
	fmul(&A, &a.x, &a.x)
	fmul(&B, &a.y, &a.y)
	fmul(&C, &B, &B)
	fadd(&D, &a.x, &B)
	fmul(&D, &D, &D)
	fsub(&D, &D, &A)
	fsub(&D, &D, &C)
	fadd(&D, &D, &D)
	fadd(&E, &A, &A)
	fadd(&E, &E, &A)
	fmul(&F, &E, &E)
	fsub(&x3, &F, &D)
	fsub(&x3, &x3, &D)
	fsub(&t, &D, &x3)
	fmul(&y3, &E, &t)
	fadd(&t, &C, &C)
	fadd(&t, &t, &t)
	fadd(&t, &t, &t)
	fsub(&y3, &y3, &t)
	fmul(&z3, &a.y, &a.z)
	fadd(&z3, &z3, &z3)
	p.x.Set(&x3)
	p.y.Set(&y3)
	p.z.Set(&z3)
}

// add sets p = a + b in Jacobian coordinates. The equal-x special cases
// (doubling, inverse pair) are handled explicitly; with a blinded
// accumulator they are unreachable for honest scalars.
func (p *jacPoint) add(a, b *jacPoint) {
	if a.isInfinity() {
		*p = *b
		return
	}
	if b.isInfinity() {
		*p = *a
		return
	}
	var z1z1, z2z2, u1, u2, s1, s2, t uint256.Int
	fmul(&z1z1, &a.z, &a.z)
	fmul(&z2z2, &b.z, &b.z)
	fmul(&u1, &a.x, &z2z2)
	fmul(&u2, &b.x, &z1z1)
	fmul(&t, &b.z, &z2z2)
	fmul(&s1, &a.y, &t)
	fmul(&t, &a.z, &z1z1)
	fmul(&s2, &b.y, &t)

	if u1.Eq(&u2) {
		if s1.Eq(&s2) {
			p.double(a)
			return
		}
		p.setInfinity()
		return
	}

	var h, hh, hhh, r, v, x3, y3, z3 uint256.Int
	fsub(&h, &u2, &u1)
	fmul(&hh, &h, &h)
	fmul(&hhh, &h, &hh)
	fsub(&r, &s2, &s1)
	fmul(&v, &u1, &hh)
	fmul(&x3, &r, &r)
	fsub(&x3, &x3, &hhh)
	fsub(&x3, &x3, &v)
	fsub(&x3, &x3, &v)
	fsub(&t, &v, &x3)
	fmul(&y3, &r, &t)
	fmul(&t, &s1, &hhh)
	fsub(&y3, &y3, &t)
	fmul(&z3, &a.z, &b.z)
	fmul(&z3, &z3, &h)
	p.x.Set(&x3)
	p.y.Set(&y3)
	p.z.Set(&z3)
}

// neg sets p = -a.
func (p *jacPoint) neg(a *jacPoint) {
	p.x.Set(&a.x)
	fsub(&p.y, P, &a.y)
	p.z.Set(&a.z)
}

// scalarMultJac computes k*B for 0 < k < N. The accumulator starts at B and
// the surplus 2^256*B is removed afterwards, so the loop never touches the
// point at infinity and every iteration performs the same operations.
func scalarMultJac(bx, by *uint256.Int, k *uint256.Int) jacPoint {
	var base, acc, sum jacPoint
	base.setAffine(bx, by)
	acc = base
	for i := 255; i >= 0; i-- {
		acc.double(&acc)
		sum.add(&acc, &base)
		bit := k[i/64] >> (uint(i) % 64) & 1
		acc.sel(&acc, &sum, bit)
	}
	// acc = (2^256 + k) * B; strip the blinding term.
	var offset jacPoint
	offset = base
	for i := 0; i < 256; i++ {
		offset.double(&offset)
	}
	offset.neg(&offset)
	var out jacPoint
	out.add(&acc, &offset)
	return out
}

// toAffine converts p to affine coordinates.
func (p *jacPoint) toAffine() (x, y uint256.Int, err error) {
	if p.isInfinity() {
		return x, y, errors.Wrap(ErrNotOnCurve, "point at infinity")
	}
	var zinv, zinv2, zinv3 uint256.Int
	zinv.Set(u256.Inverse(&p.z, P))
	fmul(&zinv2, &zinv, &zinv)
	fmul(&zinv3, &zinv2, &zinv)
	fmul(&x, &p.x, &zinv2)
	fmul(&y, &p.y, &zinv3)
	return x, y, nil
}
