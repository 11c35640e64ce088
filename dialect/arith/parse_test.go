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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mlir-go/mlir/dialect/arith"
	"github.com/mlir-go/mlir/ir"
)

// roundTripScope binds the argument names the assembly snippets below
// refer to.
func roundTripScope() *arith.Scope {
	scope := arith.NewScope()
	vi32 := ir.VectorType{DimsT: []int64{4}, ElemT: ir.IntOf(32)}
	vi1 := ir.VectorType{DimsT: []int64{4}, ElemT: ir.BoolType()}
	for name, typ := range map[string]ir.Type{
		"x":    ir.IntOf(32),
		"y":    ir.IntOf(32),
		"a":    ir.IntOf(8),
		"f":    ir.FloatType{Sem: ir.F32},
		"g":    ir.FloatType{Sem: ir.F32},
		"h":    ir.FloatType{Sem: ir.F64},
		"cond": ir.BoolType(),
		"vx":   vi32,
		"vy":   vi32,
		"vc":   vi1,
	} {
		scope.Define(name, ir.NewArgument(name, typ))
	}
	return scope
}

func TestParsePrintRoundTrip(t *testing.T) {
	tests := []string{
		"%c = arith.constant 42 : i8",
		"%c = arith.constant -7 : i32",
		"%c = arith.constant true",
		"%c = arith.constant 1.5 : f32",
		"%c = arith.constant inf : f64",
		"%c = arith.constant dense<5> : vector<4xi8>",
		"%z = arith.addi %x, %y : i32",
		"%z = arith.subi %x, %y : i32",
		"%z = arith.muli %x, %y : i32",
		"%z = arith.divui %x, %y : i32",
		"%z = arith.divsi %x, %y : i32",
		"%z = arith.ceildivui %x, %y : i32",
		"%z = arith.ceildivsi %x, %y : i32",
		"%z = arith.floordivsi %x, %y : i32",
		"%z = arith.remui %x, %y : i32",
		"%z = arith.remsi %x, %y : i32",
		"%z = arith.andi %x, %y : i32",
		"%z = arith.ori %x, %y : i32",
		"%z = arith.xori %x, %y : i32",
		"%z = arith.shli %x, %y : i32",
		"%z = arith.shrui %x, %y : i32",
		"%z = arith.shrsi %x, %y : i32",
		"%z = arith.maxsi %x, %y : i32",
		"%z = arith.maxui %x, %y : i32",
		"%z = arith.minsi %x, %y : i32",
		"%z = arith.minui %x, %y : i32",
		"%z = arith.addi %vx, %vy : vector<4xi32>",
		"%z = arith.negf %f : f32",
		"%z = arith.addf %f, %g : f32",
		"%z = arith.subf %f, %g : f32",
		"%z = arith.mulf %f, %g : f32",
		"%z = arith.divf %f, %g : f32",
		"%z = arith.remf %f, %g : f32",
		"%z = arith.maxf %f, %g : f32",
		"%z = arith.minf %f, %g : f32",
		"%z = arith.addf %f, %g fastmath<fast> : f32",
		"%z = arith.mulf %f, %g fastmath<nnan,ninf> : f32",
		"%z = arith.extui %a : i8 to i32",
		"%z = arith.extsi %a : i8 to i32",
		"%z = arith.trunci %x : i32 to i8",
		"%z = arith.extf %f : f32 to f64",
		"%z = arith.truncf %h : f64 to f32",
		"%z = arith.uitofp %x : i32 to f32",
		"%z = arith.sitofp %x : i32 to f32",
		"%z = arith.fptoui %f : f32 to i32",
		"%z = arith.fptosi %f : f32 to i32",
		"%z = arith.index_cast %x : i32 to index",
		"%z = arith.index_castui %x : i32 to index",
		"%z = arith.bitcast %x : i32 to f32",
		"%z = arith.cmpi slt, %x, %y : i32",
		"%z = arith.cmpi ult, %x, %y : i32",
		"%z = arith.cmpf oeq, %f, %g : f32",
		"%z = arith.cmpf uno, %f, %g fastmath<nnan> : f32",
		"%sum, %over = arith.addui_extended %x, %y : i32, i1",
		"%lo, %hi = arith.mulsi_extended %x, %y : i32",
		"%lo, %hi = arith.mului_extended %x, %y : i32",
		"%z = arith.select %cond, %x, %y : i32",
		"%z = arith.select %cond, %vx, %vy : vector<4xi32>",
		"%z = arith.select %vc, %vx, %vy : vector<4xi1>, vector<4xi32>",
	}
	d := arith.New()
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			op, err := d.ParseOp(src, roundTripScope())
			if err != nil {
				t.Fatalf("ParseOp(%q): %v", src, err)
			}
			if diff := cmp.Diff(src, arith.PrintOp(op)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseResolvesOperands(t *testing.T) {
	d := arith.New()
	scope := roundTripScope()
	x, _ := scope.Lookup("x")
	op, err := d.ParseOp("%z = arith.addi %x, %x : i32", scope)
	if err != nil {
		t.Fatal(err)
	}
	if op.Operands[0] != x || op.Operands[1] != x {
		t.Error("the operands do not resolve to the value bound in the scope")
	}
	if op.Results[0].Name() != "z" {
		t.Errorf("the result is named %q, want z", op.Results[0].Name())
	}
	// The result is visible to subsequent operations.
	next, err := d.ParseOp("%w = arith.muli %z, %y : i32", scope)
	if err != nil {
		t.Fatal(err)
	}
	if next.Operands[0] != op.Results[0] {
		t.Error("the result of the first operation does not resolve in the second")
	}
}

func TestParseVerifiedChain(t *testing.T) {
	d := arith.New()
	scope := arith.NewScope()
	srcs := []string{
		"%c = arith.constant 10 : i32",
		"%x = arith.constant 32 : i32",
		"%s = arith.addi %x, %c : i32",
		"%p = arith.cmpi sgt, %s, %c : i32",
		"%r = arith.select %p, %s, %c : i32",
	}
	for _, src := range srcs {
		op, err := d.ParseOp(src, scope)
		if err != nil {
			t.Fatalf("ParseOp(%q): %v", src, err)
		}
		if err := d.Verify(op); err != nil {
			t.Errorf("Verify(%q): %v", src, err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unknown operation",
			src:  "%z = arith.frobnicate %x, %y : i32",
			want: "unknown operation",
		},
		{
			name: "unknown value",
			src:  "%z = arith.addi %x, %nope : i32",
			want: "unknown value",
		},
		{
			name: "missing result",
			src:  "arith.addi %x, %y : i32",
			want: "expects 1 results",
		},
		{
			name: "too many results",
			src:  "%a, %b = arith.addi %x, %y : i32",
			want: "expects 1 results",
		},
		{
			name: "trailing characters",
			src:  "%z = arith.addi %x, %y : i32 garbage",
			want: "trailing characters",
		},
		{
			name: "cast operand type mismatch",
			src:  "%z = arith.extsi %x : i16 to i32",
			want: "has type i32, not i16",
		},
		{
			name: "shaped select condition type mismatch",
			src:  "%z = arith.select %cond, %vx, %vy : vector<4xi1>, vector<4xi32>",
			want: "has type i1, not vector<4xi1>",
		},
		{
			name: "identifier starting with the to keyword",
			src:  "%z = arith.extsi %a : i8 total i32",
			want: "the to keyword",
		},
		{
			name: "identifier starting with the fastmath keyword",
			src:  "%z = arith.addf %f, %g fastmathy<fast> : f32",
			want: `expected ":"`,
		},
		{
			name: "bad fastmath flag",
			src:  "%z = arith.addf %f, %g fastmath<warp> : f32",
			want: "unknown fastmath flag",
		},
		{
			name: "bad predicate",
			src:  "%z = arith.cmpi almost, %x, %y : i32",
			want: "predicate",
		},
	}
	d := arith.New()
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := d.ParseOp(test.src, roundTripScope())
			if err == nil {
				t.Fatalf("ParseOp(%q) succeeded", test.src)
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("ParseOp(%q) = %v, want an error mentioning %q", test.src, err, test.want)
			}
		})
	}
}

func TestScopeFreshName(t *testing.T) {
	scope := arith.NewScope()
	scope.Define("x", ir.NewArgument("x", ir.IntOf(32)))

	if got := scope.FreshName("x"); got != "x1" {
		t.Errorf("FreshName(x) = %q, want x1", got)
	}
	// An unbound base comes back unchanged.
	if got := scope.FreshName("y"); got != "y" {
		t.Errorf("FreshName(y) = %q, want y", got)
	}
	// Successive requests never repeat.
	if got := scope.FreshName("y"); got != "y1" {
		t.Errorf("FreshName(y) again = %q, want y1", got)
	}
}
