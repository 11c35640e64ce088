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

package arith

import (
	"math/big"

	"github.com/mlir-go/mlir/ir"
	"github.com/mlir-go/mlir/ir/interval"
)

func bigZero() *big.Int { return new(big.Int) }

func bigOne() *big.Int { return big.NewInt(1) }

// umaxPlusOne returns 2^width, the first unsigned value that does not
// fit the width.
func umaxPlusOne(width uint) *big.Int {
	return new(big.Int).Lsh(bigOne(), width)
}

// InferIntRange computes the ranges of the integer results of an
// operation from the ranges of its operands, one per operand. It
// returns one range per result, or nil if the operation does not
// propagate integer ranges.
func (d *Dialect) InferIntRange(op *ir.Op, operands []interval.IntRange) []interval.IntRange {
	kind := KindOf(op)
	if kind == OpInvalid || opInfos[kind].inferRange == nil {
		return nil
	}
	if len(operands) != len(op.Operands) {
		return nil
	}
	return opInfos[kind].inferRange(d, op, operands)
}

// rangeBinary lifts a lattice transfer function over two operands.
func rangeBinary(f func(l, r interval.IntRange) interval.IntRange) rangeFn {
	return func(d *Dialect, op *ir.Op, operands []interval.IntRange) []interval.IntRange {
		return []interval.IntRange{f(operands[0], operands[1])}
	}
}

func rangeConstant(d *Dialect, op *ir.Op, operands []interval.IntRange) []interval.IntRange {
	value, ok := intConst(op.Attr(AttrValue))
	if !ok {
		return nil
	}
	width, ok := d.intWidth(op.Results[0].Type())
	if !ok {
		return nil
	}
	return []interval.IntRange{interval.Constant(width, value.Unsigned())}
}

func rangeAddUIExtended(d *Dialect, op *ir.Op, operands []interval.IntRange) []interval.IntRange {
	l, r := operands[0], operands[1]
	sum := interval.Add(l, r)
	width := l.Width()
	loSum := l.UMin().Add(l.UMin(), r.UMin())
	hiSum := l.UMax().Add(l.UMax(), r.UMax())
	overflow := interval.Top(1)
	limit := umaxPlusOne(width)
	switch {
	case hiSum.Cmp(limit) < 0:
		overflow = interval.Constant(1, bigZero())
	case loSum.Cmp(limit) >= 0:
		overflow = interval.Constant(1, bigOne())
	}
	return []interval.IntRange{sum, overflow}
}

// rangeMulExtended computes the low and high halves of the double
// width product. The high half is the product shifted right by the
// width, which is monotonic in the product.
func rangeMulExtended(signed bool) rangeFn {
	return func(d *Dialect, op *ir.Op, operands []interval.IntRange) []interval.IntRange {
		l, r := operands[0], operands[1]
		width := l.Width()
		low := interval.Mul(l, r)
		var lo, hi *big.Int
		if signed {
			lo, hi = signedMulBounds(l, r)
		} else {
			lo = new(big.Int).Mul(l.UMin(), r.UMin())
			hi = new(big.Int).Mul(l.UMax(), r.UMax())
		}
		highLo, highHi := lo.Rsh(lo, width), hi.Rsh(hi, width)
		var high interval.IntRange
		if signed {
			high = interval.FromSigned(width, highLo, highHi)
		} else {
			high = interval.FromUnsigned(width, highLo, highHi)
		}
		return []interval.IntRange{low, high}
	}
}

// signedMulBounds returns the extreme products of the signed corners
// of two ranges.
func signedMulBounds(l, r interval.IntRange) (lo, hi *big.Int) {
	products := []*big.Int{
		new(big.Int).Mul(l.SMin(), r.SMin()),
		new(big.Int).Mul(l.SMin(), r.SMax()),
		new(big.Int).Mul(l.SMax(), r.SMin()),
		new(big.Int).Mul(l.SMax(), r.SMax()),
	}
	lo, hi = products[0], products[0]
	for _, p := range products[1:] {
		if p.Cmp(lo) < 0 {
			lo = p
		}
		if p.Cmp(hi) > 0 {
			hi = p
		}
	}
	return lo, hi
}

func rangeCmpI(d *Dialect, op *ir.Op, operands []interval.IntRange) []interval.IntRange {
	predBits, ok := predicateOf(op)
	if !ok {
		return nil
	}
	pred := CmpIPredicate(predBits)
	if !pred.Valid() {
		return nil
	}
	decided, value := decideCmpI(pred, operands[0], operands[1])
	if !decided {
		return []interval.IntRange{interval.Top(1)}
	}
	bit := bigZero()
	if value {
		bit = bigOne()
	}
	return []interval.IntRange{interval.Constant(1, bit)}
}

// decideCmpI evaluates a predicate over two ranges when every pair of
// values they abstract agrees on the outcome.
func decideCmpI(pred CmpIPredicate, l, r interval.IntRange) (decided, value bool) {
	switch pred {
	case CmpIEq, CmpINe:
		lc, lok := l.IsConstant()
		rc, rok := r.IsConstant()
		if lok && rok && lc.Cmp(rc) == 0 {
			return true, pred == CmpIEq
		}
		// Disjoint intervals under either interpretation rule out
		// equality.
		disjoint := l.UMax().Cmp(r.UMin()) < 0 || r.UMax().Cmp(l.UMin()) < 0 ||
			l.SMax().Cmp(r.SMin()) < 0 || r.SMax().Cmp(l.SMin()) < 0
		if disjoint {
			return true, pred == CmpINe
		}
		return false, false
	case CmpISlt:
		return decideOrder(l.SMin(), l.SMax(), r.SMin(), r.SMax(), false)
	case CmpISle:
		return decideOrder(l.SMin(), l.SMax(), r.SMin(), r.SMax(), true)
	case CmpISgt:
		return decideOrder(r.SMin(), r.SMax(), l.SMin(), l.SMax(), false)
	case CmpISge:
		return decideOrder(r.SMin(), r.SMax(), l.SMin(), l.SMax(), true)
	case CmpIUlt:
		return decideOrder(l.UMin(), l.UMax(), r.UMin(), r.UMax(), false)
	case CmpIUle:
		return decideOrder(l.UMin(), l.UMax(), r.UMin(), r.UMax(), true)
	case CmpIUgt:
		return decideOrder(r.UMin(), r.UMax(), l.UMin(), l.UMax(), false)
	case CmpIUge:
		return decideOrder(r.UMin(), r.UMax(), l.UMin(), l.UMax(), true)
	}
	return false, false
}

// decideOrder decides l < r (or l <= r when orEqual) given the bounds
// of both sides under one interpretation.
func decideOrder(lmin, lmax, rmin, rmax *big.Int, orEqual bool) (decided, value bool) {
	cmpHi := lmax.Cmp(rmin)
	if cmpHi < 0 || orEqual && cmpHi == 0 {
		return true, true
	}
	cmpLo := lmin.Cmp(rmax)
	if cmpLo > 0 || !orEqual && cmpLo == 0 {
		return true, false
	}
	return false, false
}

func rangeSelect(d *Dialect, op *ir.Op, operands []interval.IntRange) []interval.IntRange {
	cond, t, f := operands[0], operands[1], operands[2]
	if bit, ok := cond.IsConstant(); ok {
		if bit.Sign() != 0 {
			return []interval.IntRange{t}
		}
		return []interval.IntRange{f}
	}
	return []interval.IntRange{t.Union(f)}
}

// rangeExt builds the transfer function of an integer extension.
func rangeExt(signed bool) rangeFn {
	return func(d *Dialect, op *ir.Op, operands []interval.IntRange) []interval.IntRange {
		width, ok := d.intWidth(op.Results[0].Type())
		if !ok {
			return nil
		}
		if signed {
			return []interval.IntRange{operands[0].ExtS(width)}
		}
		return []interval.IntRange{operands[0].ExtU(width)}
	}
}

func rangeTrunc(d *Dialect, op *ir.Op, operands []interval.IntRange) []interval.IntRange {
	width, ok := d.intWidth(op.Results[0].Type())
	if !ok {
		return nil
	}
	return []interval.IntRange{operands[0].Trunc(width)}
}

// rangeIndexCast builds the transfer function of an index cast, which
// extends or truncates depending on the target index width.
func rangeIndexCast(signed bool) rangeFn {
	return func(d *Dialect, op *ir.Op, operands []interval.IntRange) []interval.IntRange {
		width, ok := d.intWidth(op.Results[0].Type())
		if !ok {
			return nil
		}
		in := operands[0]
		switch {
		case width == in.Width():
			return []interval.IntRange{in}
		case width < in.Width():
			return []interval.IntRange{in.Trunc(width)}
		case signed:
			return []interval.IntRange{in.ExtS(width)}
		default:
			return []interval.IntRange{in.ExtU(width)}
		}
	}
}
