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

package arith_test

import (
	"math/big"
	"testing"

	"github.com/mlir-go/mlir/dialect/arith"
	"github.com/mlir-go/mlir/ir"
)

var (
	i8    = ir.IntOf(8)
	i16   = ir.IntOf(16)
	i32   = ir.IntOf(32)
	f32T  = ir.FloatType{Sem: ir.F32}
	f64T  = ir.FloatType{Sem: ir.F64}
	noLoc = ir.Location{}
)

func intOf(typ ir.Type, val int64) ir.IntAttr {
	return ir.NewIntAttrFromInt64(typ, val)
}

func floatOf(typ ir.FloatType, val float64) ir.FloatAttr {
	return ir.NewFloatAttrFromFloat64(typ, val)
}

func negZero(typ ir.FloatType) ir.FloatAttr {
	return ir.NewFloatAttr(typ, new(big.Float).Neg(new(big.Float)))
}

func inf(typ ir.FloatType, negative bool) ir.FloatAttr {
	return ir.NewFloatAttr(typ, new(big.Float).SetInf(negative))
}

// binaryOp builds an operation over two fresh arguments of one type.
func binaryOp(kind arith.OpKind, typ ir.Type) *ir.Op {
	lhs := ir.NewArgument("a", typ)
	rhs := ir.NewArgument("b", typ)
	return arith.NewOp(kind, noLoc, []*ir.Value{lhs, rhs}, []ir.Type{typ})
}

// castOp builds a cast operation from one type to another.
func castOp(kind arith.OpKind, in, out ir.Type) *ir.Op {
	return arith.NewOp(kind, noLoc, []*ir.Value{ir.NewArgument("a", in)}, []ir.Type{out})
}

// foldOne folds an operation expected to produce one constant result.
func foldOne(t *testing.T, d *arith.Dialect, op *ir.Op, operands []ir.Attribute) (ir.Attribute, bool) {
	t.Helper()
	results := d.Fold(op, operands)
	if results == nil {
		return nil, false
	}
	if len(results) != 1 {
		t.Fatalf("%s folds to %d results, want 1", op.Name, len(results))
	}
	return results[0].Attr(), true
}

func TestFoldIntBinary(t *testing.T) {
	d := arith.New()
	tests := []struct {
		name string
		kind arith.OpKind
		typ  ir.Type
		lhs  int64
		rhs  int64
		// want is the signed value of the expected constant;
		// noFold marks an undefined operation that must be kept.
		want   int64
		noFold bool
	}{
		{name: "addi wraps", kind: arith.OpAddI, typ: i8, lhs: 200, rhs: 100, want: 44},
		{name: "subi", kind: arith.OpSubI, typ: i8, lhs: 5, rhs: 10, want: -5},
		{name: "muli wraps", kind: arith.OpMulI, typ: i8, lhs: 20, rhs: 20, want: -112},
		{name: "divui", kind: arith.OpDivUI, typ: i8, lhs: 7, rhs: 2, want: 3},
		{name: "divui treats bits as unsigned", kind: arith.OpDivUI, typ: i8, lhs: -2, rhs: 2, want: 127},
		{name: "divui by zero", kind: arith.OpDivUI, typ: i8, lhs: 7, rhs: 0, noFold: true},
		{name: "divsi truncates", kind: arith.OpDivSI, typ: i8, lhs: -7, rhs: 2, want: -3},
		{name: "divsi by zero", kind: arith.OpDivSI, typ: i8, lhs: -7, rhs: 0, noFold: true},
		{name: "divsi min by minus one", kind: arith.OpDivSI, typ: i8, lhs: -128, rhs: -1, noFold: true},
		{name: "ceildivui", kind: arith.OpCeilDivUI, typ: i8, lhs: 7, rhs: 3, want: 3},
		{name: "ceildivui exact", kind: arith.OpCeilDivUI, typ: i8, lhs: 6, rhs: 3, want: 2},
		{name: "ceildivsi rounds up", kind: arith.OpCeilDivSI, typ: i8, lhs: -7, rhs: 3, want: -2},
		{name: "ceildivsi positive", kind: arith.OpCeilDivSI, typ: i8, lhs: 7, rhs: 2, want: 4},
		{name: "floordivsi rounds down", kind: arith.OpFloorDivSI, typ: i8, lhs: -7, rhs: 3, want: -3},
		{name: "remui", kind: arith.OpRemUI, typ: i8, lhs: 7, rhs: 3, want: 1},
		{name: "remui by zero", kind: arith.OpRemUI, typ: i8, lhs: 7, rhs: 0, noFold: true},
		{name: "remsi takes dividend sign", kind: arith.OpRemSI, typ: i8, lhs: -7, rhs: 3, want: -1},
		{name: "remsi by zero", kind: arith.OpRemSI, typ: i8, lhs: -7, rhs: 0, noFold: true},
		{name: "andi", kind: arith.OpAndI, typ: i8, lhs: 0b1100, rhs: 0b1010, want: 0b1000},
		{name: "ori", kind: arith.OpOrI, typ: i8, lhs: 0b1100, rhs: 0b1010, want: 0b1110},
		{name: "xori", kind: arith.OpXOrI, typ: i8, lhs: 0b1100, rhs: 0b1010, want: 0b0110},
		{name: "shli", kind: arith.OpShLI, typ: i8, lhs: 1, rhs: 3, want: 8},
		{name: "shli by width", kind: arith.OpShLI, typ: i8, lhs: 1, rhs: 8, noFold: true},
		{name: "shrui is logical", kind: arith.OpShRUI, typ: i8, lhs: 160, rhs: 3, want: 20},
		{name: "shrui by width", kind: arith.OpShRUI, typ: i8, lhs: 160, rhs: 8, noFold: true},
		{name: "shrsi is arithmetic", kind: arith.OpShRSI, typ: i8, lhs: 160, rhs: 3, want: -12},
		{name: "maxsi", kind: arith.OpMaxSI, typ: i8, lhs: -3, rhs: 2, want: 2},
		{name: "maxui orders bits", kind: arith.OpMaxUI, typ: i8, lhs: -3, rhs: 2, want: -3},
		{name: "minsi", kind: arith.OpMinSI, typ: i8, lhs: -3, rhs: 2, want: -3},
		{name: "minui orders bits", kind: arith.OpMinUI, typ: i8, lhs: -3, rhs: 2, want: 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			op := binaryOp(test.kind, test.typ)
			operands := []ir.Attribute{intOf(test.typ, test.lhs), intOf(test.typ, test.rhs)}
			attr, ok := foldOne(t, d, op, operands)
			if test.noFold {
				if ok {
					t.Fatalf("%s folds to %s, want no fold", op.Name, attr)
				}
				return
			}
			if !ok {
				t.Fatalf("%s does not fold", op.Name)
			}
			if want := intOf(test.typ, test.want); !ir.AttrEqual(attr, want) {
				t.Errorf("%s = %s, want %s", op.Name, attr, want)
			}
		})
	}
}

func TestFoldIdentity(t *testing.T) {
	d := arith.New()
	tests := []struct {
		name string
		kind arith.OpKind
		lhs  ir.Attribute
		rhs  ir.Attribute
		// want is the operand index the fold must forward.
		want int
	}{
		{name: "addi zero right", kind: arith.OpAddI, rhs: intOf(i8, 0), want: 0},
		{name: "addi zero left", kind: arith.OpAddI, lhs: intOf(i8, 0), want: 1},
		{name: "muli one right", kind: arith.OpMulI, rhs: intOf(i8, 1), want: 0},
		{name: "muli one left", kind: arith.OpMulI, lhs: intOf(i8, 1), want: 1},
		{name: "subi zero", kind: arith.OpSubI, rhs: intOf(i8, 0), want: 0},
		{name: "divui one", kind: arith.OpDivUI, rhs: intOf(i8, 1), want: 0},
		{name: "divsi one", kind: arith.OpDivSI, rhs: intOf(i8, 1), want: 0},
		{name: "andi all ones", kind: arith.OpAndI, rhs: intOf(i8, -1), want: 0},
		{name: "ori zero", kind: arith.OpOrI, rhs: intOf(i8, 0), want: 0},
		{name: "xori zero", kind: arith.OpXOrI, rhs: intOf(i8, 0), want: 0},
		{name: "shli zero", kind: arith.OpShLI, rhs: intOf(i8, 0), want: 0},
		{name: "shrui zero", kind: arith.OpShRUI, rhs: intOf(i8, 0), want: 0},
		{name: "shrsi zero", kind: arith.OpShRSI, rhs: intOf(i8, 0), want: 0},
		{name: "maxsi smallest", kind: arith.OpMaxSI, rhs: intOf(i8, -128), want: 0},
		{name: "minsi largest", kind: arith.OpMinSI, rhs: intOf(i8, 127), want: 0},
		{name: "maxui zero", kind: arith.OpMaxUI, rhs: intOf(i8, 0), want: 0},
		{name: "minui all ones", kind: arith.OpMinUI, rhs: intOf(i8, -1), want: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			op := binaryOp(test.kind, i8)
			results := d.Fold(op, []ir.Attribute{test.lhs, test.rhs})
			if len(results) != 1 {
				t.Fatalf("%s does not fold", op.Name)
			}
			if got := results[0].Value(); got != op.Operands[test.want] {
				t.Errorf("%s forwards %s, want operand %d", op.Name, got, test.want)
			}
		})
	}
}

func TestFoldSaturation(t *testing.T) {
	d := arith.New()
	tests := []struct {
		name string
		kind arith.OpKind
		rhs  ir.IntAttr
	}{
		{name: "muli zero", kind: arith.OpMulI, rhs: intOf(i8, 0)},
		{name: "andi zero", kind: arith.OpAndI, rhs: intOf(i8, 0)},
		{name: "ori all ones", kind: arith.OpOrI, rhs: intOf(i8, -1)},
		{name: "maxui all ones", kind: arith.OpMaxUI, rhs: intOf(i8, -1)},
		{name: "minui zero", kind: arith.OpMinUI, rhs: intOf(i8, 0)},
		{name: "maxsi largest", kind: arith.OpMaxSI, rhs: intOf(i8, 127)},
		{name: "minsi smallest", kind: arith.OpMinSI, rhs: intOf(i8, -128)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			op := binaryOp(test.kind, i8)
			attr, ok := foldOne(t, d, op, []ir.Attribute{nil, test.rhs})
			if !ok {
				t.Fatalf("%s does not fold", op.Name)
			}
			if !ir.AttrEqual(attr, test.rhs) {
				t.Errorf("%s = %s, want %s", op.Name, attr, test.rhs)
			}
		})
	}
}

func TestFoldSameOperand(t *testing.T) {
	d := arith.New()
	x := ir.NewArgument("x", i8)
	sameOperandOp := func(kind arith.OpKind) *ir.Op {
		return arith.NewOp(kind, noLoc, []*ir.Value{x, x}, []ir.Type{i8})
	}

	// subi(x, x) and xori(x, x) are zero.
	for _, kind := range []arith.OpKind{arith.OpSubI, arith.OpXOrI} {
		op := sameOperandOp(kind)
		attr, ok := foldOne(t, d, op, []ir.Attribute{nil, nil})
		if !ok {
			t.Fatalf("%s(x, x) does not fold", op.Name)
		}
		if !ir.AttrEqual(attr, intOf(i8, 0)) {
			t.Errorf("%s(x, x) = %s, want 0", op.Name, attr)
		}
	}
	// andi(x, x), ori(x, x) and the min/max operations leave x.
	for _, kind := range []arith.OpKind{
		arith.OpAndI, arith.OpOrI,
		arith.OpMaxSI, arith.OpMaxUI, arith.OpMinSI, arith.OpMinUI,
	} {
		op := sameOperandOp(kind)
		results := d.Fold(op, nil)
		if len(results) != 1 || results[0].Value() != x {
			t.Errorf("%s(x, x) does not forward x", op.Name)
		}
	}
}

func TestFoldUnknownOperands(t *testing.T) {
	d := arith.New()
	op := binaryOp(arith.OpAddI, i8)
	if results := d.Fold(op, nil); results != nil {
		t.Errorf("addi with unknown operands folds to %v", results)
	}
	if results := d.Fold(op, []ir.Attribute{intOf(i8, 1)}); results != nil {
		t.Errorf("addi with a short operand slice folds to %v", results)
	}
}

func TestFoldIntCast(t *testing.T) {
	d := arith.New()
	i3, i6 := ir.IntOf(3), ir.IntOf(6)
	index := ir.IndexType{}
	tests := []struct {
		name    string
		kind    arith.OpKind
		in, out ir.Type
		operand ir.Attribute
		want    ir.Attribute
	}{
		{
			name: "extui keeps bits", kind: arith.OpExtUI, in: i3, out: i6,
			operand: intOf(i3, 5), want: intOf(i6, 5),
		},
		{
			name: "extsi keeps value", kind: arith.OpExtSI, in: i3, out: i6,
			operand: intOf(i3, 5), want: intOf(i6, -3),
		},
		{
			name: "trunci keeps low bits", kind: arith.OpTruncI, in: i16, out: i8,
			operand: intOf(i16, 260), want: intOf(i8, 4),
		},
		{
			name: "index_cast signed", kind: arith.OpIndexCast, in: i32, out: index,
			operand: intOf(i32, -1), want: intOf(index, -1),
		},
		{
			name: "index_castui zero extends", kind: arith.OpIndexCastUI, in: i32, out: index,
			operand: intOf(i32, -1), want: intOf(index, 4294967295),
		},
		{
			name: "index_cast to narrower int", kind: arith.OpIndexCast, in: index, out: i8,
			operand: intOf(index, 300), want: intOf(i8, 44),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			op := castOp(test.kind, test.in, test.out)
			attr, ok := foldOne(t, d, op, []ir.Attribute{test.operand})
			if !ok {
				t.Fatalf("%s does not fold", op.Name)
			}
			if !ir.AttrEqual(attr, test.want) {
				t.Errorf("%s(%s) = %s, want %s", op.Name, test.operand, attr, test.want)
			}
		})
	}
}

func TestFoldFloatIntCast(t *testing.T) {
	d := arith.New()
	tests := []struct {
		name    string
		kind    arith.OpKind
		in, out ir.Type
		operand ir.Attribute
		want    ir.Attribute
		noFold  bool
	}{
		{
			name: "sitofp", kind: arith.OpSIToFP, in: i8, out: f32T,
			operand: intOf(i8, -1), want: floatOf(f32T, -1),
		},
		{
			name: "uitofp reads bits", kind: arith.OpUIToFP, in: i8, out: f32T,
			operand: intOf(i8, -1), want: floatOf(f32T, 255),
		},
		{
			name: "fptosi truncates toward zero", kind: arith.OpFPToSI, in: f32T, out: i32,
			operand: floatOf(f32T, -2.7), want: intOf(i32, -2),
		},
		{
			name: "fptoui", kind: arith.OpFPToUI, in: f32T, out: i8,
			operand: floatOf(f32T, 200.9), want: intOf(i8, 200),
		},
		{
			name: "fptoui negative", kind: arith.OpFPToUI, in: f32T, out: i8,
			operand: floatOf(f32T, -2.5), noFold: true,
		},
		{
			name: "fptosi overflow", kind: arith.OpFPToSI, in: f32T, out: i32,
			operand: floatOf(f32T, 3e9), noFold: true,
		},
		{
			name: "fptosi nan", kind: arith.OpFPToSI, in: f32T, out: i32,
			operand: ir.NaN(f32T), noFold: true,
		},
		{
			name: "fptosi inf", kind: arith.OpFPToSI, in: f32T, out: i32,
			operand: inf(f32T, false), noFold: true,
		},
		{
			name: "extf", kind: arith.OpExtF, in: f32T, out: f64T,
			operand: floatOf(f32T, 2.5), want: floatOf(f64T, 2.5),
		},
		{
			name: "truncf rounds", kind: arith.OpTruncF, in: f64T, out: f32T,
			operand: floatOf(f64T, 0.1), want: floatOf(f32T, 0.1),
		},
		{
			name: "bitcast float to bits", kind: arith.OpBitcast, in: f32T, out: i32,
			operand: floatOf(f32T, 1), want: intOf(i32, 0x3f800000),
		},
		{
			name: "bitcast bits to float", kind: arith.OpBitcast, in: i32, out: f32T,
			operand: intOf(i32, 0x3f800000), want: floatOf(f32T, 1),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			op := castOp(test.kind, test.in, test.out)
			attr, ok := foldOne(t, d, op, []ir.Attribute{test.operand})
			if test.noFold {
				if ok {
					t.Fatalf("%s folds to %s, want no fold", op.Name, attr)
				}
				return
			}
			if !ok {
				t.Fatalf("%s does not fold", op.Name)
			}
			if !ir.AttrEqual(attr, test.want) {
				t.Errorf("%s(%s) = %s, want %s", op.Name, test.operand, attr, test.want)
			}
		})
	}
}

func TestFoldFloatBinary(t *testing.T) {
	d := arith.New()
	tests := []struct {
		name string
		kind arith.OpKind
		lhs  ir.Attribute
		rhs  ir.Attribute
		want ir.Attribute
	}{
		{
			name: "addf", kind: arith.OpAddF,
			lhs: floatOf(f32T, 1.5), rhs: floatOf(f32T, 2.25), want: floatOf(f32T, 3.75),
		},
		{
			name: "addf nan propagates", kind: arith.OpAddF,
			lhs: ir.NaN(f32T), rhs: floatOf(f32T, 1), want: ir.NaN(f32T),
		},
		{
			name: "subf", kind: arith.OpSubF,
			lhs: floatOf(f32T, 1), rhs: floatOf(f32T, 2.5), want: floatOf(f32T, -1.5),
		},
		{
			name: "mulf", kind: arith.OpMulF,
			lhs: floatOf(f32T, 3), rhs: floatOf(f32T, 0.5), want: floatOf(f32T, 1.5),
		},
		{
			name: "divf", kind: arith.OpDivF,
			lhs: floatOf(f32T, 1), rhs: floatOf(f32T, 4), want: floatOf(f32T, 0.25),
		},
		{
			name: "divf by zero", kind: arith.OpDivF,
			lhs: floatOf(f32T, 2), rhs: floatOf(f32T, 0), want: inf(f32T, false),
		},
		{
			name: "remf", kind: arith.OpRemF,
			lhs: floatOf(f32T, 7.5), rhs: floatOf(f32T, 2), want: floatOf(f32T, 1.5),
		},
		{
			name: "remf takes dividend sign", kind: arith.OpRemF,
			lhs: floatOf(f32T, -7), rhs: floatOf(f32T, 2), want: floatOf(f32T, -1),
		},
		{
			name: "remf by zero", kind: arith.OpRemF,
			lhs: floatOf(f32T, 1), rhs: floatOf(f32T, 0), want: ir.NaN(f32T),
		},
		{
			name: "remf of infinite divisor", kind: arith.OpRemF,
			lhs: floatOf(f32T, 3), rhs: inf(f32T, false), want: floatOf(f32T, 3),
		},
		{
			name: "maxf", kind: arith.OpMaxF,
			lhs: floatOf(f32T, 3), rhs: floatOf(f32T, 5), want: floatOf(f32T, 5),
		},
		{
			name: "maxf nan propagates", kind: arith.OpMaxF,
			lhs: floatOf(f32T, 3), rhs: ir.NaN(f32T), want: ir.NaN(f32T),
		},
		{
			name: "minf orders zero signs", kind: arith.OpMinF,
			lhs: floatOf(f32T, 0), rhs: negZero(f32T), want: negZero(f32T),
		},
		{
			name: "maxf orders zero signs", kind: arith.OpMaxF,
			lhs: negZero(f32T), rhs: floatOf(f32T, 0), want: floatOf(f32T, 0),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			op := binaryOp(test.kind, f32T)
			attr, ok := foldOne(t, d, op, []ir.Attribute{test.lhs, test.rhs})
			if !ok {
				t.Fatalf("%s does not fold", op.Name)
			}
			if !ir.AttrEqual(attr, test.want) {
				t.Errorf("%s(%s, %s) = %s, want %s", op.Name, test.lhs, test.rhs, attr, test.want)
			}
		})
	}
}

func TestFoldFloatIdentity(t *testing.T) {
	d := arith.New()
	tests := []struct {
		name string
		kind arith.OpKind
		rhs  ir.Attribute
	}{
		{name: "addf negative zero", kind: arith.OpAddF, rhs: negZero(f32T)},
		{name: "subf positive zero", kind: arith.OpSubF, rhs: floatOf(f32T, 0)},
		{name: "mulf one", kind: arith.OpMulF, rhs: floatOf(f32T, 1)},
		{name: "divf one", kind: arith.OpDivF, rhs: floatOf(f32T, 1)},
		{name: "maxf negative infinity", kind: arith.OpMaxF, rhs: inf(f32T, true)},
		{name: "minf positive infinity", kind: arith.OpMinF, rhs: inf(f32T, false)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			op := binaryOp(test.kind, f32T)
			results := d.Fold(op, []ir.Attribute{nil, test.rhs})
			if len(results) != 1 || results[0].Value() != op.Operands[0] {
				t.Errorf("%s does not forward its left operand", op.Name)
			}
		})
	}
	// addf(x, +0) must not fold: x may be -0.
	op := binaryOp(arith.OpAddF, f32T)
	if results := d.Fold(op, []ir.Attribute{nil, floatOf(f32T, 0)}); results != nil {
		t.Errorf("addf(x, +0) folds to %v", results)
	}
}

func TestFoldFloatRounding(t *testing.T) {
	// Folding computes at the precision of the result type: adding the
	// f32 roundings of 0.1 and 0.2 gives float32(0.1) + float32(0.2).
	d := arith.New()
	op := binaryOp(arith.OpAddF, f32T)
	attr, ok := foldOne(t, d, op, []ir.Attribute{floatOf(f32T, 0.1), floatOf(f32T, 0.2)})
	if !ok {
		t.Fatal("addf does not fold")
	}
	sum, _ := attr.(ir.FloatAttr).Value().Float32()
	if want := float32(0.1) + float32(0.2); sum != want {
		t.Errorf("addf(0.1, 0.2) = %v, want %v", sum, want)
	}
}

func TestFoldFloatOverflow(t *testing.T) {
	// The f32 sum of two large finite values overflows to infinity.
	d := arith.New()
	big32 := floatOf(f32T, 3e38)
	op := binaryOp(arith.OpAddF, f32T)
	attr, ok := foldOne(t, d, op, []ir.Attribute{big32, big32})
	if !ok {
		t.Fatal("addf does not fold")
	}
	if !ir.AttrEqual(attr, inf(f32T, false)) {
		t.Errorf("addf(3e38, 3e38) = %s, want inf", attr)
	}
}

func TestFoldAddUIExtended(t *testing.T) {
	d := arith.New()
	newOp := func() *ir.Op {
		lhs, rhs := ir.NewArgument("a", i8), ir.NewArgument("b", i8)
		return arith.NewOp(arith.OpAddUIExtended, noLoc,
			[]*ir.Value{lhs, rhs}, []ir.Type{i8, ir.BoolType()})
	}

	op := newOp()
	results := d.Fold(op, []ir.Attribute{intOf(i8, 255), intOf(i8, 1)})
	if len(results) != 2 {
		t.Fatal("addui_extended does not fold")
	}
	if !ir.AttrEqual(results[0].Attr(), intOf(i8, 0)) {
		t.Errorf("sum = %s, want 0", results[0].Attr())
	}
	if !ir.AttrEqual(results[1].Attr(), ir.NewBoolAttr(true)) {
		t.Errorf("overflow = %s, want true", results[1].Attr())
	}

	op = newOp()
	results = d.Fold(op, []ir.Attribute{intOf(i8, 1), intOf(i8, 2)})
	if len(results) != 2 || !ir.AttrEqual(results[0].Attr(), intOf(i8, 3)) ||
		!ir.AttrEqual(results[1].Attr(), ir.NewBoolAttr(false)) {
		t.Errorf("addui_extended(1, 2) = %v, want (3, false)", results)
	}

	// A zero right operand forwards the left operand with no overflow.
	op = newOp()
	results = d.Fold(op, []ir.Attribute{nil, intOf(i8, 0)})
	if len(results) != 2 || results[0].Value() != op.Operands[0] ||
		!ir.AttrEqual(results[1].Attr(), ir.NewBoolAttr(false)) {
		t.Errorf("addui_extended(x, 0) = %v, want (x, false)", results)
	}
}

func TestFoldMulExtended(t *testing.T) {
	d := arith.New()
	newOp := func(kind arith.OpKind) *ir.Op {
		lhs, rhs := ir.NewArgument("a", i8), ir.NewArgument("b", i8)
		return arith.NewOp(kind, noLoc, []*ir.Value{lhs, rhs}, []ir.Type{i8, i8})
	}

	// 200 * 2 = 400: low 144, high 1.
	results := d.Fold(newOp(arith.OpMulUIExtended), []ir.Attribute{intOf(i8, 200), intOf(i8, 2)})
	if len(results) != 2 || !ir.AttrEqual(results[0].Attr(), intOf(i8, 144)) ||
		!ir.AttrEqual(results[1].Attr(), intOf(i8, 1)) {
		t.Errorf("mului_extended(200, 2) = %v, want (144, 1)", results)
	}

	// -3 * 2 = -6: the signed high half is the sign extension -1.
	results = d.Fold(newOp(arith.OpMulSIExtended), []ir.Attribute{intOf(i8, -3), intOf(i8, 2)})
	if len(results) != 2 || !ir.AttrEqual(results[0].Attr(), intOf(i8, -6)) ||
		!ir.AttrEqual(results[1].Attr(), intOf(i8, -1)) {
		t.Errorf("mulsi_extended(-3, 2) = %v, want (-6, -1)", results)
	}

	// A one right operand of the unsigned form forwards the left operand.
	op := newOp(arith.OpMulUIExtended)
	results = d.Fold(op, []ir.Attribute{nil, intOf(i8, 1)})
	if len(results) != 2 || results[0].Value() != op.Operands[0] ||
		!ir.AttrEqual(results[1].Attr(), intOf(i8, 0)) {
		t.Errorf("mului_extended(x, 1) = %v, want (x, 0)", results)
	}
}

func TestFoldCmpI(t *testing.T) {
	d := arith.New()
	tests := []struct {
		name string
		pred arith.CmpIPredicate
		lhs  int64
		rhs  int64
		want bool
	}{
		{name: "slt signed", pred: arith.CmpISlt, lhs: -1, rhs: 0, want: true},
		{name: "ult on the same bits", pred: arith.CmpIUlt, lhs: -1, rhs: 0, want: false},
		{name: "eq", pred: arith.CmpIEq, lhs: 7, rhs: 7, want: true},
		{name: "ne", pred: arith.CmpINe, lhs: 7, rhs: 7, want: false},
		{name: "sge", pred: arith.CmpISge, lhs: -3, rhs: -3, want: true},
		{name: "ugt", pred: arith.CmpIUgt, lhs: -1, rhs: 1, want: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lhs, rhs := ir.NewArgument("a", i8), ir.NewArgument("b", i8)
			op := arith.NewCmpI(noLoc, test.pred, lhs, rhs)
			attr, ok := foldOne(t, d, op, []ir.Attribute{intOf(i8, test.lhs), intOf(i8, test.rhs)})
			if !ok {
				t.Fatal("cmpi does not fold")
			}
			if !ir.AttrEqual(attr, ir.NewBoolAttr(test.want)) {
				t.Errorf("cmpi %s, %d, %d = %s, want %v", test.pred, test.lhs, test.rhs, attr, test.want)
			}
		})
	}

	// Equal operands decide reflexive predicates without constants.
	x := ir.NewArgument("x", i8)
	op := arith.NewCmpI(noLoc, arith.CmpISle, x, x)
	attr, ok := foldOne(t, d, op, nil)
	if !ok || !ir.AttrEqual(attr, ir.NewBoolAttr(true)) {
		t.Errorf("cmpi sle, x, x = %s, want true", attr)
	}
	op = arith.NewCmpI(noLoc, arith.CmpISlt, x, x)
	attr, ok = foldOne(t, d, op, nil)
	if !ok || !ir.AttrEqual(attr, ir.NewBoolAttr(false)) {
		t.Errorf("cmpi slt, x, x = %s, want false", attr)
	}
}

func TestFoldCmpF(t *testing.T) {
	d := arith.New()
	tests := []struct {
		name string
		pred arith.CmpFPredicate
		lhs  ir.Attribute
		rhs  ir.Attribute
		want bool
	}{
		{name: "oeq", pred: arith.CmpFOeq, lhs: floatOf(f32T, 1), rhs: floatOf(f32T, 1), want: true},
		{name: "olt", pred: arith.CmpFOlt, lhs: floatOf(f32T, 1), rhs: floatOf(f32T, 2), want: true},
		{name: "ordered nan is false", pred: arith.CmpFOlt, lhs: ir.NaN(f32T), rhs: floatOf(f32T, 2), want: false},
		{name: "unordered nan is true", pred: arith.CmpFUlt, lhs: ir.NaN(f32T), rhs: floatOf(f32T, 2), want: true},
		{name: "ord", pred: arith.CmpFOrd, lhs: floatOf(f32T, 1), rhs: floatOf(f32T, 2), want: true},
		{name: "uno", pred: arith.CmpFUno, lhs: ir.NaN(f32T), rhs: floatOf(f32T, 2), want: true},
		{name: "zeros compare equal", pred: arith.CmpFOeq, lhs: negZero(f32T), rhs: floatOf(f32T, 0), want: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lhs, rhs := ir.NewArgument("a", f32T), ir.NewArgument("b", f32T)
			op := arith.NewCmpF(noLoc, test.pred, lhs, rhs)
			attr, ok := foldOne(t, d, op, []ir.Attribute{test.lhs, test.rhs})
			if !ok {
				t.Fatal("cmpf does not fold")
			}
			if !ir.AttrEqual(attr, ir.NewBoolAttr(test.want)) {
				t.Errorf("cmpf %s = %s, want %v", test.pred, attr, test.want)
			}
		})
	}

	// The trivial predicates fold with unknown operands; a single known
	// NaN operand decides the others.
	lhs, rhs := ir.NewArgument("a", f32T), ir.NewArgument("b", f32T)
	op := arith.NewCmpF(noLoc, arith.CmpFAlwaysTrue, lhs, rhs)
	if attr, ok := foldOne(t, d, op, nil); !ok || !ir.AttrEqual(attr, ir.NewBoolAttr(true)) {
		t.Errorf("cmpf true = %s, want true", attr)
	}
	op = arith.NewCmpF(noLoc, arith.CmpFOeq, lhs, rhs)
	attr, ok := foldOne(t, d, op, []ir.Attribute{ir.NaN(f32T), nil})
	if !ok || !ir.AttrEqual(attr, ir.NewBoolAttr(false)) {
		t.Errorf("cmpf oeq with a nan operand = %s, want false", attr)
	}
}

func TestFoldSelect(t *testing.T) {
	d := arith.New()
	cond := ir.NewArgument("c", ir.BoolType())
	tVal, fVal := ir.NewArgument("t", i8), ir.NewArgument("f", i8)
	newSelect := func(t, f *ir.Value) *ir.Op {
		return arith.NewOp(arith.OpSelect, noLoc, []*ir.Value{cond, t, f}, []ir.Type{i8})
	}

	op := newSelect(tVal, fVal)
	results := d.Fold(op, []ir.Attribute{ir.NewBoolAttr(true), nil, nil})
	if len(results) != 1 || results[0].Value() != tVal {
		t.Error("select with a true condition does not forward the first value")
	}
	results = d.Fold(op, []ir.Attribute{ir.NewBoolAttr(false), nil, nil})
	if len(results) != 1 || results[0].Value() != fVal {
		t.Error("select with a false condition does not forward the second value")
	}

	// Equal branches fold regardless of the condition.
	op = newSelect(tVal, tVal)
	results = d.Fold(op, nil)
	if len(results) != 1 || results[0].Value() != tVal {
		t.Error("select with equal branches does not forward them")
	}
	op = newSelect(tVal, fVal)
	attr, ok := foldOne(t, d, op, []ir.Attribute{nil, intOf(i8, 7), intOf(i8, 7)})
	if !ok || !ir.AttrEqual(attr, intOf(i8, 7)) {
		t.Errorf("select with equal constants = %s, want 7", attr)
	}

	// select(c, true, false) on i1 is the condition itself.
	boolT, boolF := ir.NewArgument("t", ir.BoolType()), ir.NewArgument("f", ir.BoolType())
	op = arith.NewOp(arith.OpSelect, noLoc, []*ir.Value{cond, boolT, boolF}, []ir.Type{ir.BoolType()})
	results = d.Fold(op, []ir.Attribute{nil, ir.NewBoolAttr(true), ir.NewBoolAttr(false)})
	if len(results) != 1 || results[0].Value() != cond {
		t.Error("select(c, true, false) does not forward the condition")
	}
}

func TestFoldSplat(t *testing.T) {
	d := arith.New()
	vec := ir.VectorType{DimsT: []int64{4}, ElemT: i8}
	splat := func(val int64) ir.Attribute {
		return ir.NewSplatAttr(vec, intOf(i8, val))
	}

	op := binaryOp(arith.OpAddI, vec)
	attr, ok := foldOne(t, d, op, []ir.Attribute{splat(5), splat(7)})
	if !ok {
		t.Fatal("addi over splats does not fold")
	}
	if !ir.AttrEqual(attr, splat(12)) {
		t.Errorf("addi(dense<5>, dense<7>) = %s, want dense<12>", attr)
	}

	// A comparison of splats folds to a boolean splat of the shape.
	lhs, rhs := ir.NewArgument("a", vec), ir.NewArgument("b", vec)
	cmp := arith.NewCmpI(noLoc, arith.CmpISlt, lhs, rhs)
	attr, ok = foldOne(t, d, cmp, []ir.Attribute{splat(-1), splat(0)})
	if !ok {
		t.Fatal("cmpi over splats does not fold")
	}
	boolVec := ir.VectorType{DimsT: []int64{4}, ElemT: ir.BoolType()}
	if want := ir.NewSplatAttr(boolVec, ir.NewBoolAttr(true)); !ir.AttrEqual(attr, want) {
		t.Errorf("cmpi slt over splats = %s, want %s", attr, want)
	}
}

func TestFoldConstant(t *testing.T) {
	d := arith.New()
	op := arith.NewConstant(noLoc, intOf(i32, 42))
	attr, ok := foldOne(t, d, op, nil)
	if !ok || !ir.AttrEqual(attr, intOf(i32, 42)) {
		t.Errorf("constant folds to %s, want 42", attr)
	}
}
