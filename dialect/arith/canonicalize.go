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
)

// Builder is the host interface canonicalization patterns rewrite
// through. The host owns operation storage and use lists; patterns
// only create operations and redirect uses.
type Builder interface {
	// Insert places a newly created operation before the operation
	// being rewritten and returns it.
	Insert(op *ir.Op) *ir.Op

	// Replace redirects all uses of the results of op to the given
	// values, one per result, and erases op. A nil value is allowed
	// for a result without uses.
	Replace(op *ir.Op, with ...*ir.Value)

	// HasNoUses returns true if no operation uses the value.
	HasNoUses(v *ir.Value) bool
}

// Pattern is one canonicalization rewrite of an operation kind.
type Pattern struct {
	// Name identifies the pattern in debug output.
	Name string

	// Rewrite applies the pattern to op, returning true if it changed
	// anything.
	Rewrite func(d *Dialect, b Builder, op *ir.Op) bool
}

// NewOp returns a new operation of a kind of the dialect.
func NewOp(kind OpKind, loc ir.Location, operands []*ir.Value, resultTypes []ir.Type) *ir.Op {
	return ir.NewOp(Mnemonic(kind), loc, operands, resultTypes)
}

// NewConstant returns an arith.constant producing the given attribute.
func NewConstant(loc ir.Location, attr ir.Attribute) *ir.Op {
	op := ir.NewOp(Mnemonic(OpConstant), loc, nil, []ir.Type{attr.Type()})
	op.SetAttr(AttrValue, attr)
	return op
}

// NewCmpI returns an integer comparison operation.
func NewCmpI(loc ir.Location, pred CmpIPredicate, lhs, rhs *ir.Value) *ir.Op {
	op := ir.NewOp(Mnemonic(OpCmpI), loc, []*ir.Value{lhs, rhs},
		[]ir.Type{ir.BoolSameShape(lhs.Type())})
	op.SetAttr(AttrPredicate, predicateAttr(uint64(pred)))
	return op
}

// NewCmpF returns a float comparison operation.
func NewCmpF(loc ir.Location, pred CmpFPredicate, lhs, rhs *ir.Value) *ir.Op {
	op := ir.NewOp(Mnemonic(OpCmpF), loc, []*ir.Value{lhs, rhs},
		[]ir.Type{ir.BoolSameShape(lhs.Type())})
	op.SetAttr(AttrPredicate, predicateAttr(uint64(pred)))
	return op
}

// CanonicalizationPatterns returns the rewrite patterns of a kind.
func (d *Dialect) CanonicalizationPatterns(kind OpKind) []Pattern {
	if kind == OpInvalid || kind >= opMax {
		return nil
	}
	return opInfos[kind].patterns
}

// Canonicalize applies the first matching pattern of the operation,
// returning true if the IR changed.
func (d *Dialect) Canonicalize(b Builder, op *ir.Op) bool {
	for _, pattern := range d.CanonicalizationPatterns(KindOf(op)) {
		if pattern.Rewrite(d, b, op) {
			return true
		}
	}
	return false
}

// constIntOperand returns the integer constant backing a value.
func (d *Dialect) constIntOperand(v *ir.Value) (ir.IntAttr, bool) {
	return intConst(d.ConstantValue(v))
}

// definingKind returns the operation defining a value if it has the
// given kind.
func definingKind(v *ir.Value, kind OpKind) (*ir.Op, bool) {
	def := v.DefiningOp()
	if def == nil || KindOf(def) != kind {
		return nil, false
	}
	return def, true
}

// matchNot matches xori(x, ones) and returns x.
func matchNot(d *Dialect, v *ir.Value) (*ir.Value, bool) {
	def, ok := definingKind(v, OpXOrI)
	if !ok {
		return nil, false
	}
	mask, ok := d.constIntOperand(def.Operands[1])
	if !ok || !mask.IsAllOnes() {
		return nil, false
	}
	return def.Operands[0], true
}

// insertIntConstant materializes an integer constant of the given type.
func insertIntConstant(b Builder, loc ir.Location, typ ir.Type, val *big.Int) *ir.Value {
	attr := splatIfShaped(typ, ir.NewIntAttr(ir.ElemOf(typ), val))
	return b.Insert(NewConstant(loc, attr)).Result(0)
}

// patternCommuteConstLeft moves a constant left operand of a
// commutative operation to the right, the canonical side for constants.
var patternCommuteConstLeft = Pattern{
	Name: "commute-constant-to-right",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		_, lok := d.constIntOperand(op.Operands[0])
		if !lok {
			if _, ok := floatConst(d.ConstantValue(op.Operands[0])); !ok {
				return false
			}
		}
		if d.ConstantValue(op.Operands[1]) != nil {
			return false
		}
		op.Operands[0], op.Operands[1] = op.Operands[1], op.Operands[0]
		return true
	},
}

// patternAddNegConstToSub rewrites addi(x, c) with a negative constant
// into subi(x, -c).
var patternAddNegConstToSub = Pattern{
	Name: "add-negative-constant-to-sub",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		c, ok := d.constIntOperand(op.Operands[1])
		if !ok || c.Signed().Sign() >= 0 {
			return false
		}
		typ := op.Results[0].Type()
		neg := insertIntConstant(b, op.Loc, typ, new(big.Int).Neg(c.Signed()))
		sub := b.Insert(NewOp(OpSubI, op.Loc, []*ir.Value{op.Operands[0], neg}, []ir.Type{typ}))
		b.Replace(op, sub.Result(0))
		return true
	},
}

// patternSubOfAddConst rewrites subi(addi(x, c1), c2) into
// addi(x, c1 - c2).
var patternSubOfAddConst = Pattern{
	Name: "sub-of-add-constant",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		c2, ok := d.constIntOperand(op.Operands[1])
		if !ok {
			return false
		}
		add, ok := definingKind(op.Operands[0], OpAddI)
		if !ok {
			return false
		}
		c1, ok := d.constIntOperand(add.Operands[1])
		if !ok {
			return false
		}
		typ := op.Results[0].Type()
		diff := insertIntConstant(b, op.Loc, typ, new(big.Int).Sub(c1.Unsigned(), c2.Unsigned()))
		sum := b.Insert(NewOp(OpAddI, op.Loc, []*ir.Value{add.Operands[0], diff}, []ir.Type{typ}))
		b.Replace(op, sum.Result(0))
		return true
	},
}

// patternSubConstOfAdd rewrites subi(c1, addi(x, c2)) into
// subi(c1 - c2, x).
var patternSubConstOfAdd = Pattern{
	Name: "sub-constant-of-add",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		c1, ok := d.constIntOperand(op.Operands[0])
		if !ok {
			return false
		}
		add, ok := definingKind(op.Operands[1], OpAddI)
		if !ok {
			return false
		}
		c2, ok := d.constIntOperand(add.Operands[1])
		if !ok {
			return false
		}
		typ := op.Results[0].Type()
		diff := insertIntConstant(b, op.Loc, typ, new(big.Int).Sub(c1.Unsigned(), c2.Unsigned()))
		sub := b.Insert(NewOp(OpSubI, op.Loc, []*ir.Value{diff, add.Operands[0]}, []ir.Type{typ}))
		b.Replace(op, sub.Result(0))
		return true
	},
}

// patternMulPow2ToShift rewrites muli(x, 2^k) into shli(x, k).
var patternMulPow2ToShift = Pattern{
	Name: "mul-power-of-two-to-shift",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		c, ok := d.constIntOperand(op.Operands[1])
		if !ok {
			return false
		}
		val := c.Unsigned()
		// A power of two has a single set bit.
		if val.BitLen() < 2 || val.BitLen() != int(val.TrailingZeroBits())+1 {
			return false
		}
		typ := op.Results[0].Type()
		shift := insertIntConstant(b, op.Loc, typ, big.NewInt(int64(val.TrailingZeroBits())))
		shl := b.Insert(NewOp(OpShLI, op.Loc, []*ir.Value{op.Operands[0], shift}, []ir.Type{typ}))
		b.Replace(op, shl.Result(0))
		return true
	},
}

// patternDeMorgan builds the de Morgan normalization: a conjunction or
// disjunction of two negations becomes the negation of the dual
// operation.
func patternDeMorgan(dual OpKind) Pattern {
	return Pattern{
		Name: "de-morgan",
		Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
			x, ok := matchNot(d, op.Operands[0])
			if !ok {
				return false
			}
			y, ok := matchNot(d, op.Operands[1])
			if !ok {
				return false
			}
			typ := op.Results[0].Type()
			inner := b.Insert(NewOp(dual, op.Loc, []*ir.Value{x, y}, []ir.Type{typ}))
			ones := insertIntConstant(b, op.Loc, typ, big.NewInt(-1))
			not := b.Insert(NewOp(OpXOrI, op.Loc, []*ir.Value{inner.Result(0), ones}, []ir.Type{typ}))
			b.Replace(op, not.Result(0))
			return true
		},
	}
}

// patternDoubleNot erases xori(xori(x, ones), ones).
var patternDoubleNot = Pattern{
	Name: "double-not",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		mask, ok := d.constIntOperand(op.Operands[1])
		if !ok || !mask.IsAllOnes() {
			return false
		}
		x, ok := matchNot(d, op.Operands[0])
		if !ok {
			return false
		}
		b.Replace(op, x)
		return true
	},
}

// patternExtChain collapses a chain of two extensions. Two sign
// extensions or a sign extension of a zero extension keep the kind of
// the inner cast.
func patternExtChain(inner OpKind) Pattern {
	return Pattern{
		Name: "ext-of-ext",
		Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
			def, ok := definingKind(op.Operands[0], inner)
			if !ok {
				return false
			}
			typ := op.Results[0].Type()
			ext := b.Insert(NewOp(inner, op.Loc, []*ir.Value{def.Operands[0]}, []ir.Type{typ}))
			b.Replace(op, ext.Result(0))
			return true
		},
	}
}

// patternTruncOfExt simplifies trunci(ext(x)): the truncation cancels
// against the extension, leaving x, a narrower truncation, or a
// narrower extension of the same kind.
func patternTruncOfExt(ext OpKind) Pattern {
	return Pattern{
		Name: "trunc-of-ext",
		Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
			def, ok := definingKind(op.Operands[0], ext)
			if !ok {
				return false
			}
			src := def.Operands[0]
			outType := op.Results[0].Type()
			outWidth := ir.ElemOf(outType).(ir.IntType).Width
			srcWidth := ir.ElemOf(src.Type()).(ir.IntType).Width
			switch {
			case outWidth == srcWidth:
				b.Replace(op, src)
			case outWidth < srcWidth:
				trunc := b.Insert(NewOp(OpTruncI, op.Loc, []*ir.Value{src}, []ir.Type{outType}))
				b.Replace(op, trunc.Result(0))
			default:
				wider := b.Insert(NewOp(ext, op.Loc, []*ir.Value{src}, []ir.Type{outType}))
				b.Replace(op, wider.Result(0))
			}
			return true
		},
	}
}

// patternTruncChain collapses trunci(trunci(x)).
var patternTruncChain = Pattern{
	Name: "trunc-of-trunc",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		def, ok := definingKind(op.Operands[0], OpTruncI)
		if !ok {
			return false
		}
		typ := op.Results[0].Type()
		trunc := b.Insert(NewOp(OpTruncI, op.Loc, []*ir.Value{def.Operands[0]}, []ir.Type{typ}))
		b.Replace(op, trunc.Result(0))
		return true
	},
}

// patternBitcastChain collapses bitcast(bitcast(x)).
var patternBitcastChain = Pattern{
	Name: "bitcast-of-bitcast",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		def, ok := definingKind(op.Operands[0], OpBitcast)
		if !ok {
			return false
		}
		src := def.Operands[0]
		typ := op.Results[0].Type()
		if ir.Equal(src.Type(), typ) {
			b.Replace(op, src)
			return true
		}
		cast := b.Insert(NewOp(OpBitcast, op.Loc, []*ir.Value{src}, []ir.Type{typ}))
		b.Replace(op, cast.Result(0))
		return true
	},
}

// patternIndexCastChain erases a round trip through the other side of
// an index cast.
func patternIndexCastChain(kind OpKind) Pattern {
	return Pattern{
		Name: "index-cast-round-trip",
		Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
			def, ok := definingKind(op.Operands[0], kind)
			if !ok {
				return false
			}
			src := def.Operands[0]
			if !ir.Equal(src.Type(), op.Results[0].Type()) {
				return false
			}
			b.Replace(op, src)
			return true
		},
	}
}

// patternCmpIConstLeft moves a constant left operand of a comparison
// to the right, mirroring the predicate.
var patternCmpIConstLeft = Pattern{
	Name: "cmpi-constant-to-right",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		if _, ok := d.constIntOperand(op.Operands[0]); !ok {
			return false
		}
		if d.ConstantValue(op.Operands[1]) != nil {
			return false
		}
		predBits, ok := predicateOf(op)
		if !ok {
			return false
		}
		pred := CmpIPredicate(predBits)
		if !pred.Valid() {
			return false
		}
		op.Operands[0], op.Operands[1] = op.Operands[1], op.Operands[0]
		op.SetAttr(AttrPredicate, predicateAttr(uint64(pred.Swapped())))
		return true
	},
}

// patternCmpIStrengthReduce turns a non-strict comparison against a
// constant into the strict comparison against the adjacent constant.
var patternCmpIStrengthReduce = Pattern{
	Name: "cmpi-non-strict-to-strict",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		c, ok := d.constIntOperand(op.Operands[1])
		if !ok {
			return false
		}
		predBits, ok := predicateOf(op)
		if !ok {
			return false
		}
		pred := CmpIPredicate(predBits)
		width := c.Width()
		var strict CmpIPredicate
		adjusted := new(big.Int)
		switch pred {
		case CmpISle:
			if c.Signed().Cmp(smaxOfWidth(width)) == 0 {
				return false
			}
			strict, adjusted = CmpISlt, adjusted.Add(c.Signed(), big.NewInt(1))
		case CmpISge:
			if c.Signed().Cmp(sminOfWidth(width)) == 0 {
				return false
			}
			strict, adjusted = CmpISgt, adjusted.Sub(c.Signed(), big.NewInt(1))
		case CmpIUle:
			if c.IsAllOnes() {
				return false
			}
			strict, adjusted = CmpIUlt, adjusted.Add(c.Unsigned(), big.NewInt(1))
		case CmpIUge:
			if c.IsZero() {
				return false
			}
			strict, adjusted = CmpIUgt, adjusted.Sub(c.Unsigned(), big.NewInt(1))
		default:
			return false
		}
		next := insertIntConstant(b, op.Loc, op.Operands[1].Type(), adjusted)
		cmp := b.Insert(NewCmpI(op.Loc, strict, op.Operands[0], next))
		b.Replace(op, cmp.Result(0))
		return true
	},
}

// patternCmpIOfBool simplifies a comparison of an i1 against a boolean
// constant: equality with true and inequality with false leave the
// operand, the two other cases negate it.
var patternCmpIOfBool = Pattern{
	Name: "cmpi-of-bool",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		if !BoolLike(op.Operands[0].Type()) {
			return false
		}
		c, ok := d.constIntOperand(op.Operands[1])
		if !ok {
			return false
		}
		predBits, ok := predicateOf(op)
		if !ok {
			return false
		}
		var identity bool
		switch CmpIPredicate(predBits) {
		case CmpIEq:
			identity = c.Bool()
		case CmpINe:
			identity = !c.Bool()
		default:
			return false
		}
		if identity {
			b.Replace(op, op.Operands[0])
			return true
		}
		typ := op.Results[0].Type()
		ones := insertIntConstant(b, op.Loc, typ, big.NewInt(1))
		not := b.Insert(NewOp(OpXOrI, op.Loc, []*ir.Value{op.Operands[0], ones}, []ir.Type{typ}))
		b.Replace(op, not.Result(0))
		return true
	},
}

// patternSelectNotCond rewrites select(not(c), t, f) into
// select(c, f, t).
var patternSelectNotCond = Pattern{
	Name: "select-not-condition",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		cond, ok := matchNot(d, op.Operands[0])
		if !ok {
			return false
		}
		sel := b.Insert(NewOp(OpSelect, op.Loc,
			[]*ir.Value{cond, op.Operands[2], op.Operands[1]},
			[]ir.Type{op.Results[0].Type()}))
		b.Replace(op, sel.Result(0))
		return true
	},
}

// patternSelectToLogic lowers a select over boolean constants to the
// equivalent logic operation: select(c, true, f) is ori(c, f),
// select(c, t, false) is andi(c, t), and select(c, false, true)
// negates the condition.
var patternSelectToLogic = Pattern{
	Name: "select-to-logic",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		typ := op.Results[0].Type()
		if !BoolLike(typ) || !ir.Equal(op.Operands[0].Type(), typ) {
			return false
		}
		t, tok := d.constIntOperand(op.Operands[1])
		f, fok := d.constIntOperand(op.Operands[2])
		cond := op.Operands[0]
		switch {
		case tok && fok && !t.Bool() && f.Bool():
			ones := insertIntConstant(b, op.Loc, typ, big.NewInt(1))
			not := b.Insert(NewOp(OpXOrI, op.Loc, []*ir.Value{cond, ones}, []ir.Type{typ}))
			b.Replace(op, not.Result(0))
		case tok && t.Bool():
			or := b.Insert(NewOp(OpOrI, op.Loc, []*ir.Value{cond, op.Operands[2]}, []ir.Type{typ}))
			b.Replace(op, or.Result(0))
		case fok && !f.Bool():
			and := b.Insert(NewOp(OpAndI, op.Loc, []*ir.Value{cond, op.Operands[1]}, []ir.Type{typ}))
			b.Replace(op, and.Result(0))
		default:
			return false
		}
		return true
	},
}

// patternSelectOfCmp simplifies selecting between the operands of the
// equality comparison feeding the condition:
// select(a == b, a, b) is b and select(a != b, a, b) is a.
var patternSelectOfCmp = Pattern{
	Name: "select-of-compared-values",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		cmp, ok := definingKind(op.Operands[0], OpCmpI)
		if !ok {
			return false
		}
		predBits, ok := predicateOf(cmp)
		if !ok {
			return false
		}
		a, bVal := cmp.Operands[0], cmp.Operands[1]
		if op.Operands[1] != a || op.Operands[2] != bVal {
			return false
		}
		switch CmpIPredicate(predBits) {
		case CmpIEq:
			b.Replace(op, bVal)
		case CmpINe:
			b.Replace(op, a)
		default:
			return false
		}
		return true
	},
}

// patternAddExtendedDeadOverflow lowers addui_extended to addi when
// the overflow bit is unused.
var patternAddExtendedDeadOverflow = Pattern{
	Name: "addui-extended-dead-overflow",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		if !b.HasNoUses(op.Results[1]) {
			return false
		}
		typ := op.Results[0].Type()
		add := b.Insert(NewOp(OpAddI, op.Loc, []*ir.Value{op.Operands[0], op.Operands[1]}, []ir.Type{typ}))
		b.Replace(op, add.Result(0), nil)
		return true
	},
}

// patternMulExtendedDeadHigh lowers an extended multiplication to muli
// when the high half is unused.
var patternMulExtendedDeadHigh = Pattern{
	Name: "mul-extended-dead-high",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		if !b.HasNoUses(op.Results[1]) {
			return false
		}
		typ := op.Results[0].Type()
		mul := b.Insert(NewOp(OpMulI, op.Loc, []*ir.Value{op.Operands[0], op.Operands[1]}, []ir.Type{typ}))
		b.Replace(op, mul.Result(0), nil)
		return true
	},
}

// patternNegFChain erases negf(negf(x)).
var patternNegFChain = Pattern{
	Name: "neg-of-neg",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		def, ok := definingKind(op.Operands[0], OpNegF)
		if !ok {
			return false
		}
		b.Replace(op, def.Operands[0])
		return true
	},
}

// patternFloatReassoc reassociates op(op(x, c1), c2) into
// op(x, c1 op c2) when both operations allow reassociation.
func patternFloatReassoc(kind OpKind) Pattern {
	return Pattern{
		Name: "float-reassociate-constants",
		Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
			if !FastMathOf(op).Has(FMReassoc) {
				return false
			}
			inner, ok := definingKind(op.Operands[0], kind)
			if !ok || !FastMathOf(inner).Has(FMReassoc) {
				return false
			}
			c2, ok := floatConst(d.ConstantValue(op.Operands[1]))
			if !ok || c2.IsNaN() {
				return false
			}
			c1, ok := floatConst(d.ConstantValue(inner.Operands[1]))
			if !ok || c1.IsNaN() {
				return false
			}
			typ := op.Results[0].Type()
			combined, nan := safeFloat(func() *big.Float {
				z := new(big.Float).SetPrec(floatPrec(typ))
				if kind == OpAddF {
					return z.Add(c1.Value(), c2.Value())
				}
				return z.Mul(c1.Value(), c2.Value())
			})
			if nan {
				return false
			}
			elem := ir.NewFloatAttr(ir.ElemOf(typ).(ir.FloatType), combined)
			cv := b.Insert(NewConstant(op.Loc, splatIfShaped(typ, elem))).Result(0)
			folded := NewOp(kind, op.Loc, []*ir.Value{inner.Operands[0], cv}, []ir.Type{typ})
			SetFastMath(folded, FastMathOf(op))
			b.Replace(op, b.Insert(folded).Result(0))
			return true
		},
	}
}

// patternDivToReciprocal rewrites divf(x, c) into mulf(x, 1/c) under
// the arcp flag.
var patternDivToReciprocal = Pattern{
	Name: "div-constant-to-reciprocal-mul",
	Rewrite: func(d *Dialect, b Builder, op *ir.Op) bool {
		flags := FastMathOf(op)
		if !flags.Has(FMARcp) {
			return false
		}
		c, ok := floatConst(d.ConstantValue(op.Operands[1]))
		if !ok || c.IsNaN() || c.Value().Sign() == 0 {
			return false
		}
		typ := op.Results[0].Type()
		recip, nan := safeFloat(func() *big.Float {
			return new(big.Float).SetPrec(floatPrec(typ)).Quo(big.NewFloat(1), c.Value())
		})
		if nan {
			return false
		}
		elem := ir.NewFloatAttr(ir.ElemOf(typ).(ir.FloatType), recip)
		cv := b.Insert(NewConstant(op.Loc, splatIfShaped(typ, elem))).Result(0)
		mul := NewOp(OpMulF, op.Loc, []*ir.Value{op.Operands[0], cv}, []ir.Type{typ})
		SetFastMath(mul, flags)
		b.Replace(op, b.Insert(mul).Result(0))
		return true
	},
}
