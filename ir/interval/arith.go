// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package interval

import (
	"math/big"
)

// Add returns the range of the sum of two abstract values.
// A component overflowing the width widens to top.
func Add(l, r IntRange) IntRange {
	return fromComputed(l.width,
		new(big.Int).Add(l.umin, r.umin), new(big.Int).Add(l.umax, r.umax),
		new(big.Int).Add(l.smin, r.smin), new(big.Int).Add(l.smax, r.smax))
}

// Sub returns the range of the difference of two abstract values.
func Sub(l, r IntRange) IntRange {
	return fromComputed(l.width,
		new(big.Int).Sub(l.umin, r.umax), new(big.Int).Sub(l.umax, r.umin),
		new(big.Int).Sub(l.smin, r.smax), new(big.Int).Sub(l.smax, r.smin))
}

func corners(f func(x, y *big.Int) *big.Int, xlo, xhi, ylo, yhi *big.Int) (*big.Int, *big.Int) {
	vals := []*big.Int{
		f(xlo, ylo), f(xlo, yhi), f(xhi, ylo), f(xhi, yhi),
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo, hi = minInt(lo, v), maxInt(hi, v)
	}
	return lo, hi
}

// Mul returns the range of the product of two abstract values.
func Mul(l, r IntRange) IntRange {
	mul := func(x, y *big.Int) *big.Int { return new(big.Int).Mul(x, y) }
	slo, shi := corners(mul, l.smin, l.smax, r.smin, r.smax)
	return fromComputed(l.width,
		new(big.Int).Mul(l.umin, r.umin), new(big.Int).Mul(l.umax, r.umax),
		slo, shi)
}

// DivU returns the range of the unsigned quotient. A divisor range
// containing zero yields top, as division by zero is undefined.
func DivU(l, r IntRange) IntRange {
	if r.umin.Sign() == 0 {
		return Top(l.width)
	}
	return FromUnsigned(l.width,
		new(big.Int).Quo(l.umin, r.umax),
		new(big.Int).Quo(l.umax, r.umin))
}

// DivS returns the range of the signed quotient rounding toward zero.
func DivS(l, r IntRange) IntRange {
	if r.smin.Sign() <= 0 && r.smax.Sign() >= 0 {
		return Top(l.width)
	}
	quo := func(x, y *big.Int) *big.Int { return new(big.Int).Quo(x, y) }
	lo, hi := corners(quo, l.smin, l.smax, r.smin, r.smax)
	// The minimal signed value divided by -1 overflows: FromSigned
	// widens to top in that case.
	return FromSigned(l.width, lo, hi)
}

func ceilQuoU(x, y *big.Int) *big.Int {
	if x.Sign() == 0 {
		return new(big.Int)
	}
	q := new(big.Int).Sub(x, one)
	q.Quo(q, y)
	return q.Add(q, one)
}

// CeilDivU returns the range of the unsigned quotient rounding toward
// positive infinity.
func CeilDivU(l, r IntRange) IntRange {
	if r.umin.Sign() == 0 {
		return Top(l.width)
	}
	return FromUnsigned(l.width, ceilQuoU(l.umin, r.umax), ceilQuoU(l.umax, r.umin))
}

func ceilQuoS(x, y *big.Int) *big.Int {
	q, m := new(big.Int).QuoRem(x, y, new(big.Int))
	if m.Sign() != 0 && (x.Sign() > 0) == (y.Sign() > 0) {
		q.Add(q, one)
	}
	return q
}

func floorQuoS(x, y *big.Int) *big.Int {
	q, m := new(big.Int).QuoRem(x, y, new(big.Int))
	if m.Sign() != 0 && (x.Sign() > 0) != (y.Sign() > 0) {
		q.Sub(q, one)
	}
	return q
}

// CeilDivS returns the range of the signed quotient rounding toward
// positive infinity.
func CeilDivS(l, r IntRange) IntRange {
	if r.smin.Sign() <= 0 && r.smax.Sign() >= 0 {
		return Top(l.width)
	}
	lo, hi := corners(ceilQuoS, l.smin, l.smax, r.smin, r.smax)
	return FromSigned(l.width, lo, hi)
}

// FloorDivS returns the range of the signed quotient rounding toward
// negative infinity.
func FloorDivS(l, r IntRange) IntRange {
	if r.smin.Sign() <= 0 && r.smax.Sign() >= 0 {
		return Top(l.width)
	}
	lo, hi := corners(floorQuoS, l.smin, l.smax, r.smin, r.smax)
	return FromSigned(l.width, lo, hi)
}

// RemU returns the range of the unsigned remainder.
func RemU(l, r IntRange) IntRange {
	if r.umin.Sign() == 0 {
		return Top(l.width)
	}
	if l.umax.Cmp(r.umin) < 0 {
		// The dividend is always smaller than the divisor.
		return FromUnsigned(l.width, l.umin, l.umax)
	}
	hi := new(big.Int).Sub(r.umax, one)
	return FromUnsigned(l.width, new(big.Int), minInt(hi, l.umax))
}

// RemS returns the range of the signed remainder, which takes the sign
// of the dividend.
func RemS(l, r IntRange) IntRange {
	if r.smin.Sign() <= 0 && r.smax.Sign() >= 0 {
		return Top(l.width)
	}
	bound := maxInt(new(big.Int).Abs(r.smin), new(big.Int).Abs(r.smax))
	bound = new(big.Int).Sub(bound, one)
	lo, hi := new(big.Int).Neg(bound), bound
	if l.smin.Sign() >= 0 {
		lo = new(big.Int)
	}
	if l.smax.Sign() <= 0 {
		hi = new(big.Int)
	}
	return FromSigned(l.width, lo, hi)
}

// bitMask returns 2^bitlen(x)-1, the tightest all-ones upper bound of x.
func bitMask(x *big.Int) *big.Int {
	mask := new(big.Int).Lsh(one, uint(x.BitLen()))
	return mask.Sub(mask, one)
}

// And returns the range of the bitwise conjunction: the result cannot
// exceed either operand.
func And(l, r IntRange) IntRange {
	return FromUnsigned(l.width, new(big.Int), minInt(l.umax, r.umax))
}

// Or returns the range of the bitwise disjunction: the result is at
// least as large as both operands and sets no bit above either
// operand's highest possible bit.
func Or(l, r IntRange) IntRange {
	hi := new(big.Int).Or(bitMask(l.umax), bitMask(r.umax))
	return FromUnsigned(l.width, maxInt(l.umin, r.umin), hi)
}

// Xor returns the range of the bitwise exclusive disjunction.
func Xor(l, r IntRange) IntRange {
	hi := new(big.Int).Or(bitMask(l.umax), bitMask(r.umax))
	return FromUnsigned(l.width, new(big.Int), hi)
}

// ShL returns the range of a left shift: a multiplication by a power
// of two range, saturating to top on width overflow.
func ShL(l, r IntRange) IntRange {
	if r.umax.Cmp(big.NewInt(int64(l.width))) >= 0 {
		return Top(l.width)
	}
	lo := new(big.Int).Lsh(l.umin, uint(r.umin.Uint64()))
	hi := new(big.Int).Lsh(l.umax, uint(r.umax.Uint64()))
	if hi.Cmp(umaxOf(l.width)) > 0 {
		return Top(l.width)
	}
	return FromUnsigned(l.width, lo, hi)
}

func clampShift(amount *big.Int, width uint) uint {
	if amount.Cmp(big.NewInt(int64(width))) >= 0 {
		return width
	}
	return uint(amount.Uint64())
}

// ShRU returns the range of a logical right shift: a division by a
// power of two on the unsigned interpretation.
func ShRU(l, r IntRange) IntRange {
	lo := new(big.Int).Rsh(l.umin, clampShift(r.umax, l.width))
	hi := new(big.Int).Rsh(l.umax, clampShift(r.umin, l.width))
	return FromUnsigned(l.width, lo, hi)
}

// ShRS returns the range of an arithmetic right shift, preserving the
// sign interpretation.
func ShRS(l, r IntRange) IntRange {
	shLo, shHi := clampShift(r.umin, l.width-1), clampShift(r.umax, l.width-1)
	sh := func(x *big.Int, s uint) *big.Int { return new(big.Int).Rsh(x, s) }
	vals := []*big.Int{
		sh(l.smin, shLo), sh(l.smin, shHi), sh(l.smax, shLo), sh(l.smax, shHi),
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo, hi = minInt(lo, v), maxInt(hi, v)
	}
	return FromSigned(l.width, lo, hi)
}

// MaxU returns the range of the unsigned maximum.
func MaxU(l, r IntRange) IntRange {
	return FromUnsigned(l.width, maxInt(l.umin, r.umin), maxInt(l.umax, r.umax))
}

// MinU returns the range of the unsigned minimum.
func MinU(l, r IntRange) IntRange {
	return FromUnsigned(l.width, minInt(l.umin, r.umin), minInt(l.umax, r.umax))
}

// MaxS returns the range of the signed maximum.
func MaxS(l, r IntRange) IntRange {
	return FromSigned(l.width, maxInt(l.smin, r.smin), maxInt(l.smax, r.smax))
}

// MinS returns the range of the signed minimum.
func MinS(l, r IntRange) IntRange {
	return FromSigned(l.width, minInt(l.smin, r.smin), minInt(l.smax, r.smax))
}

// ExtU returns the range zero-extended to a wider type: the unsigned
// bounds are preserved and the signed bounds become non-negative.
func (r IntRange) ExtU(width uint) IntRange {
	return FromUnsigned(width, r.umin, r.umax)
}

// ExtS returns the range sign-extended to a wider type.
func (r IntRange) ExtS(width uint) IntRange {
	return FromSigned(width, r.smin, r.smax)
}

// Trunc returns the range truncated to a narrower type. A component
// not representable at the new width widens to top.
func (r IntRange) Trunc(width uint) IntRange {
	out := IntRange{width: width}
	if r.umax.Cmp(umaxOf(width)) <= 0 {
		out.umin, out.umax = new(big.Int).Set(r.umin), new(big.Int).Set(r.umax)
	} else {
		out.umin, out.umax = new(big.Int), umaxOf(width)
	}
	if r.smin.Cmp(sminOf(width)) >= 0 && r.smax.Cmp(smaxOf(width)) <= 0 {
		out.smin, out.smax = new(big.Int).Set(r.smin), new(big.Int).Set(r.smax)
	} else {
		out.smin, out.smax = sminOf(width), smaxOf(width)
	}
	return out
}
