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

// safeFloat evaluates a big.Float computation, converting the ErrNaN
// panic raised on undefined operands into a NaN flag.
func safeFloat(f func() *big.Float) (val *big.Float, nan bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(big.ErrNaN); ok {
				val, nan = nil, true
				return
			}
			panic(r)
		}
	}()
	return f(), false
}

// floatResult folds to a float constant of the result type.
func floatResult(typ ir.Type, val *big.Float, nan bool) []FoldResult {
	floatType := ir.ElemOf(typ).(ir.FloatType)
	var elem ir.FloatAttr
	if nan {
		elem = ir.NaN(floatType)
	} else {
		elem = ir.NewFloatAttr(floatType, val)
	}
	return attrResult(splatIfShaped(typ, elem))
}

// floatPrec returns the working precision of a float result type.
func floatPrec(typ ir.Type) uint {
	return ir.ElemOf(typ).(ir.FloatType).Sem.Precision()
}

func foldNegF(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	operand, ok := floatConst(operands[0])
	if !ok {
		return nil
	}
	resType := op.Results[0].Type()
	if operand.IsNaN() {
		return floatResult(resType, nil, true)
	}
	return floatResult(resType, new(big.Float).Neg(operand.Value()), false)
}

func foldAddF(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	if r, ok := floatConst(operands[1]); ok && r.IsNegZero() {
		// x + (-0) == x for every x.
		return valueResult(op.Operands[0])
	}
	l, lok := floatConst(operands[0])
	r, rok := floatConst(operands[1])
	if !lok || !rok {
		return nil
	}
	resType := op.Results[0].Type()
	if l.IsNaN() || r.IsNaN() {
		return floatResult(resType, nil, true)
	}
	sum, nan := safeFloat(func() *big.Float {
		return new(big.Float).SetPrec(floatPrec(resType)).Add(l.Value(), r.Value())
	})
	return floatResult(resType, sum, nan)
}

func foldSubF(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	if r, ok := floatConst(operands[1]); ok &&
		!r.IsNaN() && r.Value().Sign() == 0 && !r.IsNegZero() {
		// x - (+0) == x for every x.
		return valueResult(op.Operands[0])
	}
	l, lok := floatConst(operands[0])
	r, rok := floatConst(operands[1])
	if !lok || !rok {
		return nil
	}
	resType := op.Results[0].Type()
	if l.IsNaN() || r.IsNaN() {
		return floatResult(resType, nil, true)
	}
	diff, nan := safeFloat(func() *big.Float {
		return new(big.Float).SetPrec(floatPrec(resType)).Sub(l.Value(), r.Value())
	})
	return floatResult(resType, diff, nan)
}

// isFloatOne returns true if an attribute is the constant 1.0.
func isFloatOne(attr ir.Attribute) bool {
	a, ok := floatConst(attr)
	if !ok || a.IsNaN() {
		return false
	}
	return a.Value().Cmp(big.NewFloat(1)) == 0
}

func foldMulF(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	if isFloatOne(operands[1]) {
		return valueResult(op.Operands[0])
	}
	if isFloatOne(operands[0]) {
		return valueResult(op.Operands[1])
	}
	l, lok := floatConst(operands[0])
	r, rok := floatConst(operands[1])
	if !lok || !rok {
		return nil
	}
	resType := op.Results[0].Type()
	if l.IsNaN() || r.IsNaN() {
		return floatResult(resType, nil, true)
	}
	product, nan := safeFloat(func() *big.Float {
		return new(big.Float).SetPrec(floatPrec(resType)).Mul(l.Value(), r.Value())
	})
	return floatResult(resType, product, nan)
}

func foldDivF(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	if isFloatOne(operands[1]) {
		return valueResult(op.Operands[0])
	}
	l, lok := floatConst(operands[0])
	r, rok := floatConst(operands[1])
	if !lok || !rok {
		return nil
	}
	resType := op.Results[0].Type()
	if l.IsNaN() || r.IsNaN() {
		return floatResult(resType, nil, true)
	}
	quo, nan := safeFloat(func() *big.Float {
		return new(big.Float).SetPrec(floatPrec(resType)).Quo(l.Value(), r.Value())
	})
	return floatResult(resType, quo, nan)
}

func foldRemF(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	l, lok := floatConst(operands[0])
	r, rok := floatConst(operands[1])
	if !lok || !rok {
		return nil
	}
	resType := op.Results[0].Type()
	if l.IsNaN() || r.IsNaN() {
		return floatResult(resType, nil, true)
	}
	x, y := l.Value(), r.Value()
	switch {
	case y.Sign() == 0 || x.IsInf():
		return floatResult(resType, nil, true)
	case y.IsInf() || x.Sign() == 0:
		// The dividend is already the remainder.
		return floatResult(resType, x, false)
	}
	// The remainder takes the sign of the dividend: subtract the
	// quotient truncated toward zero. The quotient is computed with
	// enough precision to hold its full integer part.
	xExp, yExp := x.MantExp(nil), y.MantExp(nil)
	prec := floatPrec(resType) + 64
	if diff := xExp - yExp; diff > 0 {
		prec += uint(diff)
	}
	quo := new(big.Float).SetPrec(prec).Quo(x, y)
	truncated, _ := quo.Int(nil)
	product := new(big.Float).SetPrec(prec).Mul(new(big.Float).SetPrec(prec).SetInt(truncated), y)
	rem := new(big.Float).SetPrec(prec).Sub(x, product)
	if rem.Sign() == 0 && x.Signbit() {
		rem.Neg(rem)
	}
	return floatResult(resType, rem, false)
}

// foldMinMaxF builds the folder of the float minimum or maximum, which
// propagates NaN and orders -0 below +0.
func foldMinMaxF(isMax bool) foldFn {
	return func(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
		if op.Operands[0] == op.Operands[1] {
			return valueResult(op.Operands[0])
		}
		resType := op.Results[0].Type()
		l, lok := floatConst(operands[0])
		r, rok := floatConst(operands[1])
		if lok && l.IsNaN() || rok && r.IsNaN() {
			return floatResult(resType, nil, true)
		}
		// An infinity losing every comparison leaves the other operand.
		identity := func(a ir.FloatAttr) bool {
			return a.Value().IsInf() && a.Value().Signbit() == isMax
		}
		if rok && identity(r) {
			return valueResult(op.Operands[0])
		}
		if lok && identity(l) {
			return valueResult(op.Operands[1])
		}
		if !lok || !rok {
			return nil
		}
		if minMaxFTakesLeft(l, r, isMax) {
			return attrResult(splatIfShaped(resType, l))
		}
		return attrResult(splatIfShaped(resType, r))
	}
}

// minMaxFTakesLeft orders two non-NaN float constants, placing -0
// below +0.
func minMaxFTakesLeft(l, r ir.FloatAttr, isMax bool) bool {
	cmp := l.Value().Cmp(r.Value())
	if cmp == 0 && l.Value().Sign() == 0 {
		// Zeros compare equal: order them by sign.
		if l.IsNegZero() != r.IsNegZero() {
			cmp = 1
			if l.IsNegZero() {
				cmp = -1
			}
		}
	}
	if isMax {
		return cmp >= 0
	}
	return cmp <= 0
}
