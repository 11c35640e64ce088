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

func foldExtUI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	operand, ok := intConst(operands[0])
	if !ok {
		return nil
	}
	return intResult(op.Results[0].Type(), operand.Unsigned())
}

func foldExtSI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	operand, ok := intConst(operands[0])
	if !ok {
		return nil
	}
	return intResult(op.Results[0].Type(), operand.Signed())
}

func foldTruncI(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	operand, ok := intConst(operands[0])
	if !ok {
		return nil
	}
	return intResult(op.Results[0].Type(), operand.Unsigned())
}

// foldFloatCast folds extf and truncf: the value is re-rounded to the
// precision of the result semantics, which is exact for an extension.
func foldFloatCast(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	operand, ok := floatConst(operands[0])
	if !ok {
		return nil
	}
	resType := op.Results[0].Type()
	if operand.IsNaN() {
		return floatResult(resType, nil, true)
	}
	return floatResult(resType, operand.Value(), false)
}

// foldIntToFloat builds the folder of uitofp and sitofp.
func foldIntToFloat(signed bool) foldFn {
	return func(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
		operand, ok := intConst(operands[0])
		if !ok {
			return nil
		}
		val := operand.Unsigned()
		if signed {
			val = operand.Signed()
		}
		resType := op.Results[0].Type()
		rounded := new(big.Float).SetPrec(floatPrec(resType)).SetInt(val)
		return floatResult(resType, rounded, false)
	}
}

// foldFloatToInt builds the folder of fptoui and fptosi: the value is
// truncated toward zero and the operation does not fold when the
// result cannot represent it.
func foldFloatToInt(signed bool) foldFn {
	return func(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
		operand, ok := floatConst(operands[0])
		if !ok || operand.IsNaN() || operand.Value().IsInf() {
			return nil
		}
		truncated, _ := operand.Value().Int(nil)
		resType := op.Results[0].Type()
		width, ok := d.intWidth(resType)
		if !ok {
			return nil
		}
		var lo, hi *big.Int
		if signed {
			lo, hi = sminOfWidth(width), smaxOfWidth(width)
		} else {
			lo = new(big.Int)
			hi = new(big.Int).Lsh(big.NewInt(1), width)
			hi.Sub(hi, big.NewInt(1))
		}
		if truncated.Cmp(lo) < 0 || truncated.Cmp(hi) > 0 {
			return nil
		}
		return intResult(resType, truncated)
	}
}

// foldIndexCast builds the folder of the index casts, reinterpreting
// the value with the given signedness at the width of the result.
func foldIndexCast(signed bool) foldFn {
	return func(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
		operand, ok := intConst(operands[0])
		if !ok {
			return nil
		}
		val := operand.Unsigned()
		if signed {
			val = operand.Signed()
		}
		return intResult(op.Results[0].Type(), val)
	}
}

func foldBitcast(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult {
	if operands[0] == nil {
		return nil
	}
	resType := op.Results[0].Type()
	var bits *big.Int
	if operand, ok := intConst(operands[0]); ok {
		bits = operand.Unsigned()
	} else if operand, ok := floatConst(operands[0]); ok {
		encoded, ok := ir.FloatBits(operand)
		if !ok {
			return nil
		}
		bits = encoded
	} else {
		return nil
	}
	switch elem := ir.ElemOf(resType).(type) {
	case ir.IntType:
		return intResult(resType, bits)
	case ir.FloatType:
		decoded, ok := ir.FloatFromBits(elem, bits)
		if !ok {
			return nil
		}
		return attrResult(splatIfShaped(resType, decoded))
	}
	return nil
}
