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

// Package interval implements the integer range lattice used by range
// inference: every abstract value is a pair of intervals bounding the
// unsigned and the signed two's complement interpretation of a bit
// pattern of a given width.
//
// The lattice meet is componentwise intersection; the top element is
// the full representable range of the width. All bounds are exact
// big integers so any declared bit width is supported.
package interval

import (
	"fmt"
	"math/big"
)

// IntRange bounds both interpretations of a bit pattern: the unsigned
// interpretation lies in [umin, umax] and the signed interpretation in
// [smin, smax].
type IntRange struct {
	width                  uint
	umin, umax, smin, smax *big.Int
}

var one = big.NewInt(1)

func umaxOf(width uint) *big.Int {
	max := new(big.Int).Lsh(one, width)
	return max.Sub(max, one)
}

func smaxOf(width uint) *big.Int {
	max := new(big.Int).Lsh(one, width-1)
	return max.Sub(max, one)
}

func sminOf(width uint) *big.Int {
	min := new(big.Int).Lsh(one, width-1)
	return min.Neg(min)
}

func truncBits(val *big.Int, width uint) *big.Int {
	mask := new(big.Int).Lsh(one, width)
	mask.Sub(mask, one)
	return new(big.Int).And(val, mask)
}

// Top returns the full range of a bit width.
func Top(width uint) IntRange {
	return IntRange{
		width: width,
		umin:  new(big.Int),
		umax:  umaxOf(width),
		smin:  sminOf(width),
		smax:  smaxOf(width),
	}
}

// Constant returns the singleton range of a bit pattern.
func Constant(width uint, bits *big.Int) IntRange {
	u := truncBits(bits, width)
	s := new(big.Int).Set(u)
	if u.Bit(int(width-1)) == 1 {
		s.Sub(s, new(big.Int).Lsh(one, width))
	}
	return IntRange{
		width: width,
		umin:  u,
		umax:  new(big.Int).Set(u),
		smin:  s,
		smax:  new(big.Int).Set(s),
	}
}

// FromUnsigned returns the range bounding the unsigned interpretation
// by [lo, hi]; the signed bounds are derived. Bounds exceeding the
// width widen the corresponding component to top.
func FromUnsigned(width uint, lo, hi *big.Int) IntRange {
	if lo.Sign() < 0 || hi.Cmp(umaxOf(width)) > 0 || lo.Cmp(hi) > 0 {
		return Top(width)
	}
	r := IntRange{
		width: width,
		umin:  new(big.Int).Set(lo),
		umax:  new(big.Int).Set(hi),
	}
	full := new(big.Int).Lsh(one, width)
	switch {
	case hi.Cmp(smaxOf(width)) <= 0:
		// Sign bit clear over the whole range.
		r.smin = new(big.Int).Set(lo)
		r.smax = new(big.Int).Set(hi)
	case lo.Cmp(smaxOf(width)) > 0:
		// Sign bit set over the whole range.
		r.smin = new(big.Int).Sub(lo, full)
		r.smax = new(big.Int).Sub(hi, full)
	default:
		r.smin = sminOf(width)
		r.smax = smaxOf(width)
	}
	return r
}

// FromSigned returns the range bounding the signed interpretation by
// [lo, hi]; the unsigned bounds are derived. Bounds exceeding the
// width widen the corresponding component to top.
func FromSigned(width uint, lo, hi *big.Int) IntRange {
	if lo.Cmp(sminOf(width)) < 0 || hi.Cmp(smaxOf(width)) > 0 || lo.Cmp(hi) > 0 {
		return Top(width)
	}
	r := IntRange{
		width: width,
		smin:  new(big.Int).Set(lo),
		smax:  new(big.Int).Set(hi),
	}
	full := new(big.Int).Lsh(one, width)
	switch {
	case lo.Sign() >= 0:
		r.umin = new(big.Int).Set(lo)
		r.umax = new(big.Int).Set(hi)
	case hi.Sign() < 0:
		r.umin = new(big.Int).Add(lo, full)
		r.umax = new(big.Int).Add(hi, full)
	default:
		r.umin = new(big.Int)
		r.umax = umaxOf(width)
	}
	return r
}

// fromComputed builds a range from independently computed unsigned and
// signed bounds, widening each overflowing component to top.
func fromComputed(width uint, ulo, uhi, slo, shi *big.Int) IntRange {
	r := IntRange{width: width}
	if ulo.Sign() < 0 || uhi.Cmp(umaxOf(width)) > 0 {
		r.umin, r.umax = new(big.Int), umaxOf(width)
	} else {
		r.umin, r.umax = new(big.Int).Set(ulo), new(big.Int).Set(uhi)
	}
	if slo.Cmp(sminOf(width)) < 0 || shi.Cmp(smaxOf(width)) > 0 {
		r.smin, r.smax = sminOf(width), smaxOf(width)
	} else {
		r.smin, r.smax = new(big.Int).Set(slo), new(big.Int).Set(shi)
	}
	return r
}

// Width returns the bit width the range abstracts.
func (r IntRange) Width() uint { return r.width }

// UMin returns the lower unsigned bound.
func (r IntRange) UMin() *big.Int { return new(big.Int).Set(r.umin) }

// UMax returns the upper unsigned bound.
func (r IntRange) UMax() *big.Int { return new(big.Int).Set(r.umax) }

// SMin returns the lower signed bound.
func (r IntRange) SMin() *big.Int { return new(big.Int).Set(r.smin) }

// SMax returns the upper signed bound.
func (r IntRange) SMax() *big.Int { return new(big.Int).Set(r.smax) }

// IsConstant returns the bit pattern of the range if it abstracts a
// single value.
func (r IntRange) IsConstant() (*big.Int, bool) {
	if r.umin.Cmp(r.umax) != 0 {
		return nil, false
	}
	return new(big.Int).Set(r.umin), true
}

// Contains returns true if the bit pattern is abstracted by the range.
func (r IntRange) Contains(bits *big.Int) bool {
	u := truncBits(bits, r.width)
	if u.Cmp(r.umin) < 0 || u.Cmp(r.umax) > 0 {
		return false
	}
	s := new(big.Int).Set(u)
	if u.Bit(int(r.width-1)) == 1 {
		s.Sub(s, new(big.Int).Lsh(one, r.width))
	}
	return s.Cmp(r.smin) >= 0 && s.Cmp(r.smax) <= 0
}

// Equal returns true if two ranges have the same bounds.
func (r IntRange) Equal(o IntRange) bool {
	return r.width == o.width &&
		r.umin.Cmp(o.umin) == 0 && r.umax.Cmp(o.umax) == 0 &&
		r.smin.Cmp(o.smin) == 0 && r.smax.Cmp(o.smax) == 0
}

// String returns a string representation of the range.
func (r IntRange) String() string {
	return fmt.Sprintf("unsigned:[%v, %v] signed:[%v, %v]", r.umin, r.umax, r.smin, r.smax)
}

func minInt(x, y *big.Int) *big.Int {
	if x.Cmp(y) <= 0 {
		return x
	}
	return y
}

func maxInt(x, y *big.Int) *big.Int {
	if x.Cmp(y) >= 0 {
		return x
	}
	return y
}

// Union returns the smallest range containing both operands.
func (r IntRange) Union(o IntRange) IntRange {
	return IntRange{
		width: r.width,
		umin:  new(big.Int).Set(minInt(r.umin, o.umin)),
		umax:  new(big.Int).Set(maxInt(r.umax, o.umax)),
		smin:  new(big.Int).Set(minInt(r.smin, o.smin)),
		smax:  new(big.Int).Set(maxInt(r.smax, o.smax)),
	}
}

// Intersect returns the lattice meet of the two operands: the
// componentwise intersection of their bounds.
func (r IntRange) Intersect(o IntRange) IntRange {
	return IntRange{
		width: r.width,
		umin:  new(big.Int).Set(maxInt(r.umin, o.umin)),
		umax:  new(big.Int).Set(minInt(r.umax, o.umax)),
		smin:  new(big.Int).Set(maxInt(r.smin, o.smin)),
		smax:  new(big.Int).Set(minInt(r.smax, o.smax)),
	}
}
