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

// FoldResult is the outcome of folding one result of an operation:
// either a constant attribute or an existing SSA value.
type FoldResult struct {
	attr  ir.Attribute
	value *ir.Value
}

// FoldAttr returns a fold result holding a constant.
func FoldAttr(attr ir.Attribute) FoldResult { return FoldResult{attr: attr} }

// FoldValue returns a fold result forwarding an existing value.
func FoldValue(v *ir.Value) FoldResult { return FoldResult{value: v} }

// Attr returns the constant of the result, or nil if the result
// forwards a value.
func (r FoldResult) Attr() ir.Attribute { return r.attr }

// Value returns the forwarded value, or nil if the result is a
// constant.
func (r FoldResult) Value() *ir.Value { return r.value }

// IsAttr returns true if the result is a constant.
func (r FoldResult) IsAttr() bool { return r.attr != nil }

// Fold evaluates an operation over the constants backing its operands.
// The operands slice carries one attribute per operand, nil for a
// non-constant operand; a nil slice stands for all-unknown. Fold
// returns one result per operation result, or nil if the operation
// does not fold. Folding never creates new operations and is a total
// function: operations whose result is undefined for the given
// constants, such as a division by zero, do not fold.
func (d *Dialect) Fold(op *ir.Op, operands []ir.Attribute) []FoldResult {
	kind := KindOf(op)
	if kind == OpInvalid || opInfos[kind].fold == nil {
		return nil
	}
	if operands == nil {
		operands = make([]ir.Attribute, len(op.Operands))
	}
	if len(operands) != len(op.Operands) {
		return nil
	}
	return opInfos[kind].fold(d, op, operands)
}

// intConst returns the integer constant held by an attribute,
// unwrapping a splat to its repeated element.
func intConst(attr ir.Attribute) (ir.IntAttr, bool) {
	switch attrT := attr.(type) {
	case ir.IntAttr:
		return attrT, true
	case ir.SplatAttr:
		elem, ok := attrT.Elem().(ir.IntAttr)
		return elem, ok
	}
	return ir.IntAttr{}, false
}

// floatConst returns the float constant held by an attribute,
// unwrapping a splat to its repeated element.
func floatConst(attr ir.Attribute) (ir.FloatAttr, bool) {
	switch attrT := attr.(type) {
	case ir.FloatAttr:
		return attrT, true
	case ir.SplatAttr:
		elem, ok := attrT.Elem().(ir.FloatAttr)
		return elem, ok
	}
	return ir.FloatAttr{}, false
}

// splatIfShaped wraps a scalar constant into a splat when the result
// type is shaped.
func splatIfShaped(typ ir.Type, elem ir.Attribute) ir.Attribute {
	if shaped, ok := typ.(ir.ShapedType); ok {
		return ir.NewSplatAttr(shaped, elem)
	}
	return elem
}

func attrResult(a ir.Attribute) []FoldResult { return []FoldResult{FoldAttr(a)} }

func valueResult(v *ir.Value) []FoldResult { return []FoldResult{FoldValue(v)} }

// intResult folds to an integer constant of the result type, truncated
// to its width.
func intResult(typ ir.Type, val *big.Int) []FoldResult {
	elem := ir.NewIntAttr(ir.ElemOf(typ), val)
	return attrResult(splatIfShaped(typ, elem))
}

// boolResult folds to a boolean constant carried on the result shape.
func boolResult(typ ir.Type, val bool) []FoldResult {
	return attrResult(splatIfShaped(typ, ir.NewBoolAttr(val)))
}

func sminOfWidth(width uint) *big.Int {
	min := new(big.Int).Lsh(big.NewInt(1), width-1)
	return min.Neg(min)
}

func smaxOfWidth(width uint) *big.Int {
	max := new(big.Int).Lsh(big.NewInt(1), width-1)
	return max.Sub(max, big.NewInt(1))
}

func foldConstant(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	value := op.Attr(AttrValue)
	if value == nil {
		return nil
	}
	return attrResult(value)
}

func foldAddI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	if r, ok := intConst(operands[1]); ok && r.IsZero() {
		return valueResult(op.Operands[0])
	}
	if l, ok := intConst(operands[0]); ok && l.IsZero() {
		return valueResult(op.Operands[1])
	}
	l, lok := intConst(operands[0])
	r, rok := intConst(operands[1])
	if !lok || !rok {
		return nil
	}
	return intResult(op.Results[0].Type(), new(big.Int).Add(l.Unsigned(), r.Unsigned()))
}

func foldSubI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	if r, ok := intConst(operands[1]); ok && r.IsZero() {
		return valueResult(op.Operands[0])
	}
	if op.Operands[0] == op.Operands[1] {
		return intResult(op.Results[0].Type(), new(big.Int))
	}
	l, lok := intConst(operands[0])
	r, rok := intConst(operands[1])
	if !lok || !rok {
		return nil
	}
	return intResult(op.Results[0].Type(), new(big.Int).Sub(l.Unsigned(), r.Unsigned()))
}

func foldMulI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	if r, ok := intConst(operands[1]); ok {
		if r.IsZero() {
			return attrResult(operands[1])
		}
		if r.IsOne() {
			return valueResult(op.Operands[0])
		}
	}
	if l, ok := intConst(operands[0]); ok {
		if l.IsZero() {
			return attrResult(operands[0])
		}
		if l.IsOne() {
			return valueResult(op.Operands[1])
		}
	}
	l, lok := intConst(operands[0])
	r, rok := intConst(operands[1])
	if !lok || !rok {
		return nil
	}
	return intResult(op.Results[0].Type(), new(big.Int).Mul(l.Unsigned(), r.Unsigned()))
}

// divOperands unwraps the operands of a division. A known zero divisor
// never folds: the operation is undefined there and must be preserved.
func divOperands(operands []ir.Attribute) (l, r ir.IntAttr, identity, ok bool) {
	r, rok := intConst(operands[1])
	if rok && r.IsZero() {
		return ir.IntAttr{}, ir.IntAttr{}, false, false
	}
	if rok && r.IsOne() {
		return ir.IntAttr{}, ir.IntAttr{}, true, false
	}
	l, lok := intConst(operands[0])
	return l, r, false, lok && rok
}

// signedDivOverflows reports the single overflowing case of signed
// division: the minimal value divided by minus one.
func signedDivOverflows(l, r ir.IntAttr) bool {
	return r.IsAllOnes() && l.Signed().Cmp(sminOfWidth(l.Width())) == 0
}

func foldDivUI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	l, r, identity, ok := divOperands(operands)
	if identity {
		return valueResult(op.Operands[0])
	}
	if !ok {
		return nil
	}
	return intResult(op.Results[0].Type(), new(big.Int).Quo(l.Unsigned(), r.Unsigned()))
}

func foldDivSI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	l, r, identity, ok := divOperands(operands)
	if identity {
		return valueResult(op.Operands[0])
	}
	if !ok || signedDivOverflows(l, r) {
		return nil
	}
	return intResult(op.Results[0].Type(), new(big.Int).Quo(l.Signed(), r.Signed()))
}

// ceilQuoUnsigned returns ceil(x/y) for non-negative x and positive y.
func ceilQuoUnsigned(x, y *big.Int) *big.Int {
	if x.Sign() == 0 {
		return new(big.Int)
	}
	q := new(big.Int).Sub(x, big.NewInt(1))
	q.Quo(q, y)
	return q.Add(q, big.NewInt(1))
}

// ceilQuoSigned returns the signed quotient rounded toward positive
// infinity.
func ceilQuoSigned(x, y *big.Int) *big.Int {
	q, m := new(big.Int).QuoRem(x, y, new(big.Int))
	if m.Sign() != 0 && (x.Sign() > 0) == (y.Sign() > 0) {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// floorQuoSigned returns the signed quotient rounded toward negative
// infinity.
func floorQuoSigned(x, y *big.Int) *big.Int {
	q, m := new(big.Int).QuoRem(x, y, new(big.Int))
	if m.Sign() != 0 && (x.Sign() > 0) != (y.Sign() > 0) {
		q.Sub(q, big.NewInt(1))
	}
	return q
}

func foldCeilDivUI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	l, r, identity, ok := divOperands(operands)
	if identity {
		return valueResult(op.Operands[0])
	}
	if !ok {
		return nil
	}
	return intResult(op.Results[0].Type(), ceilQuoUnsigned(l.Unsigned(), r.Unsigned()))
}

func foldCeilDivSI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	l, r, identity, ok := divOperands(operands)
	if identity {
		return valueResult(op.Operands[0])
	}
	if !ok || signedDivOverflows(l, r) {
		return nil
	}
	quo := ceilQuoSigned(l.Signed(), r.Signed())
	if quo.Cmp(smaxOfWidth(l.Width())) > 0 {
		return nil
	}
	return intResult(op.Results[0].Type(), quo)
}

func foldFloorDivSI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	l, r, identity, ok := divOperands(operands)
	if identity {
		return valueResult(op.Operands[0])
	}
	if !ok || signedDivOverflows(l, r) {
		return nil
	}
	return intResult(op.Results[0].Type(), floorQuoSigned(l.Signed(), r.Signed()))
}

func foldRemUI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	r, rok := intConst(operands[1])
	if rok && r.IsZero() {
		return nil
	}
	if rok && r.IsOne() {
		return intResult(op.Results[0].Type(), new(big.Int))
	}
	l, lok := intConst(operands[0])
	if !lok || !rok {
		return nil
	}
	return intResult(op.Results[0].Type(), new(big.Int).Rem(l.Unsigned(), r.Unsigned()))
}

func foldRemSI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	r, rok := intConst(operands[1])
	if rok && r.IsZero() {
		return nil
	}
	if rok && (r.IsOne() || r.IsAllOnes()) {
		return intResult(op.Results[0].Type(), new(big.Int))
	}
	l, lok := intConst(operands[0])
	if !lok || !rok {
		return nil
	}
	// The remainder takes the sign of the dividend.
	return intResult(op.Results[0].Type(), new(big.Int).Rem(l.Signed(), r.Signed()))
}

func foldAndI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	if op.Operands[0] == op.Operands[1] {
		return valueResult(op.Operands[0])
	}
	if r, ok := intConst(operands[1]); ok {
		if r.IsZero() {
			return attrResult(operands[1])
		}
		if r.IsAllOnes() {
			return valueResult(op.Operands[0])
		}
	}
	if l, ok := intConst(operands[0]); ok {
		if l.IsZero() {
			return attrResult(operands[0])
		}
		if l.IsAllOnes() {
			return valueResult(op.Operands[1])
		}
	}
	l, lok := intConst(operands[0])
	r, rok := intConst(operands[1])
	if !lok || !rok {
		return nil
	}
	return intResult(op.Results[0].Type(), new(big.Int).And(l.Unsigned(), r.Unsigned()))
}

func foldOrI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	if op.Operands[0] == op.Operands[1] {
		return valueResult(op.Operands[0])
	}
	if r, ok := intConst(operands[1]); ok {
		if r.IsZero() {
			return valueResult(op.Operands[0])
		}
		if r.IsAllOnes() {
			return attrResult(operands[1])
		}
	}
	if l, ok := intConst(operands[0]); ok {
		if l.IsZero() {
			return valueResult(op.Operands[1])
		}
		if l.IsAllOnes() {
			return attrResult(operands[0])
		}
	}
	l, lok := intConst(operands[0])
	r, rok := intConst(operands[1])
	if !lok || !rok {
		return nil
	}
	return intResult(op.Results[0].Type(), new(big.Int).Or(l.Unsigned(), r.Unsigned()))
}

func foldXOrI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	if op.Operands[0] == op.Operands[1] {
		return intResult(op.Results[0].Type(), new(big.Int))
	}
	if r, ok := intConst(operands[1]); ok && r.IsZero() {
		return valueResult(op.Operands[0])
	}
	if l, ok := intConst(operands[0]); ok && l.IsZero() {
		return valueResult(op.Operands[1])
	}
	l, lok := intConst(operands[0])
	r, rok := intConst(operands[1])
	if !lok || !rok {
		return nil
	}
	return intResult(op.Results[0].Type(), new(big.Int).Xor(l.Unsigned(), r.Unsigned()))
}

// shiftAmount unwraps a constant shift amount. A known amount reaching
// the bit width never folds: the result is undefined there.
func shiftAmount(r ir.IntAttr, width uint) (uint, bool) {
	amount := r.Unsigned()
	if amount.Cmp(new(big.Int).SetUint64(uint64(width))) >= 0 {
		return 0, false
	}
	return uint(amount.Uint64()), true
}

func foldShLI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	r, rok := intConst(operands[1])
	if rok && r.IsZero() {
		return valueResult(op.Operands[0])
	}
	l, lok := intConst(operands[0])
	if !lok || !rok {
		return nil
	}
	amount, ok := shiftAmount(r, l.Width())
	if !ok {
		return nil
	}
	return intResult(op.Results[0].Type(), new(big.Int).Lsh(l.Unsigned(), amount))
}

func foldShRUI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	r, rok := intConst(operands[1])
	if rok && r.IsZero() {
		return valueResult(op.Operands[0])
	}
	l, lok := intConst(operands[0])
	if !lok || !rok {
		return nil
	}
	amount, ok := shiftAmount(r, l.Width())
	if !ok {
		return nil
	}
	return intResult(op.Results[0].Type(), new(big.Int).Rsh(l.Unsigned(), amount))
}

func foldShRSI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	r, rok := intConst(operands[1])
	if rok && r.IsZero() {
		return valueResult(op.Operands[0])
	}
	l, lok := intConst(operands[0])
	if !lok || !rok {
		return nil
	}
	amount, ok := shiftAmount(r, l.Width())
	if !ok {
		return nil
	}
	// Rsh on a negative value floors, which is the arithmetic shift.
	return intResult(op.Results[0].Type(), new(big.Int).Rsh(l.Signed(), amount))
}

// foldMinMax builds the folder of a minimum or maximum: the operation
// folds on equal operands, on a constant operand saturating the order,
// and on two constants.
func foldMinMax(signed, isMax bool) foldFn {
	return func(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
		if op.Operands[0] == op.Operands[1] {
			return valueResult(op.Operands[0])
		}
		interp := func(a ir.IntAttr) *big.Int {
			if signed {
				return a.Signed()
			}
			return a.Unsigned()
		}
		saturates := func(a ir.IntAttr) bool {
			if signed && isMax {
				return interp(a).Cmp(smaxOfWidth(a.Width())) == 0
			}
			if signed {
				return interp(a).Cmp(sminOfWidth(a.Width())) == 0
			}
			if isMax {
				return a.IsAllOnes()
			}
			return a.IsZero()
		}
		for i, attr := range operands {
			a, ok := intConst(attr)
			if !ok {
				continue
			}
			if saturates(a) {
				return attrResult(attr)
			}
			identity := (signed && isMax && interp(a).Cmp(sminOfWidth(a.Width())) == 0) ||
				(signed && !isMax && interp(a).Cmp(smaxOfWidth(a.Width())) == 0) ||
				(!signed && isMax && a.IsZero()) ||
				(!signed && !isMax && a.IsAllOnes())
			if identity {
				return valueResult(op.Operands[1-i])
			}
		}
		l, lok := intConst(operands[0])
		r, rok := intConst(operands[1])
		if !lok || !rok {
			return nil
		}
		takeLeft := interp(l).Cmp(interp(r)) >= 0
		if !isMax {
			takeLeft = !takeLeft
		}
		if takeLeft {
			return attrResult(operands[0])
		}
		return attrResult(operands[1])
	}
}

func foldAddUIExtended(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	overflowType := op.Results[1].Type()
	if r, ok := intConst(operands[1]); ok && r.IsZero() {
		return []FoldResult{
			FoldValue(op.Operands[0]),
			FoldAttr(splatIfShaped(overflowType, ir.NewBoolAttr(false))),
		}
	}
	l, lok := intConst(operands[0])
	r, rok := intConst(operands[1])
	if !lok || !rok {
		return nil
	}
	sum := new(big.Int).Add(l.Unsigned(), r.Unsigned())
	overflow := sum.BitLen() > int(l.Width())
	sumType := op.Results[0].Type()
	return []FoldResult{
		FoldAttr(splatIfShaped(sumType, ir.NewIntAttr(ir.ElemOf(sumType), sum))),
		FoldAttr(splatIfShaped(overflowType, ir.NewBoolAttr(overflow))),
	}
}

// foldMulExtended builds the folder of the extended multiplications,
// producing the low and high halves of the double width product.
func foldMulExtended(signed bool) foldFn {
	return func(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
		lowType, highType := op.Results[0].Type(), op.Results[1].Type()
		if !signed {
			if r, ok := intConst(operands[1]); ok && r.IsOne() {
				return []FoldResult{
					FoldValue(op.Operands[0]),
					FoldAttr(splatIfShaped(highType, ir.NewIntAttr(ir.ElemOf(highType), new(big.Int)))),
				}
			}
		}
		l, lok := intConst(operands[0])
		r, rok := intConst(operands[1])
		if !lok || !rok {
			return nil
		}
		var full *big.Int
		if signed {
			full = new(big.Int).Mul(l.Signed(), r.Signed())
		} else {
			full = new(big.Int).Mul(l.Unsigned(), r.Unsigned())
		}
		high := new(big.Int).Rsh(full, l.Width())
		return []FoldResult{
			FoldAttr(splatIfShaped(lowType, ir.NewIntAttr(ir.ElemOf(lowType), full))),
			FoldAttr(splatIfShaped(highType, ir.NewIntAttr(ir.ElemOf(highType), high))),
		}
	}
}

func foldCmpI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	predBits, ok := predicateOf(op)
	if !ok {
		return nil
	}
	pred := CmpIPredicate(predBits)
	if !pred.Valid() {
		return nil
	}
	resType := op.Results[0].Type()
	if op.Operands[0] == op.Operands[1] {
		return boolResult(resType, pred.appliesToEqual())
	}
	l, lok := intConst(operands[0])
	r, rok := intConst(operands[1])
	if !lok || !rok {
		return nil
	}
	return boolResult(resType, applyCmpI(pred, l, r))
}

func foldCmpF(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	predBits, ok := predicateOf(op)
	if !ok {
		return nil
	}
	pred := CmpFPredicate(predBits)
	if !pred.Valid() {
		return nil
	}
	resType := op.Results[0].Type()
	switch pred {
	case CmpFAlwaysFalse:
		return boolResult(resType, false)
	case CmpFAlwaysTrue:
		return boolResult(resType, true)
	}
	l, lok := floatConst(operands[0])
	r, rok := floatConst(operands[1])
	// One NaN operand decides any remaining predicate.
	if lok && l.IsNaN() || rok && r.IsNaN() {
		return boolResult(resType, !pred.Ordered())
	}
	if !lok || !rok {
		return nil
	}
	return boolResult(resType, applyCmpF(pred, l, r))
}

func foldSelect(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	trueVal, falseVal := op.Operands[1], op.Operands[2]
	if cond, ok := intConst(operands[0]); ok {
		if cond.Bool() {
			return valueResult(trueVal)
		}
		return valueResult(falseVal)
	}
	if trueVal == falseVal {
		return valueResult(trueVal)
	}
	if ir.AttrEqual(operands[1], operands[2]) && operands[1] != nil {
		return attrResult(operands[1])
	}
	// select(c, true, false) on i1 is the condition itself.
	t, tok := intConst(operands[1])
	f, fok := intConst(operands[2])
	if tok && fok && ir.Equal(op.Results[0].Type(), op.Operands[0].Type()) &&
		t.IsOne() && f.IsZero() {
		return valueResult(op.Operands[0])
	}
	return nil
}
