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

package ir_test

import (
	"testing"

	"github.com/mlir-go/mlir/ir"
)

func TestTypeStringRoundTrip(t *testing.T) {
	tests := []struct {
		typ  ir.Type
		want string
	}{
		{typ: ir.BoolType(), want: "i1"},
		{typ: ir.IntOf(32), want: "i32"},
		{typ: ir.IntOf(7), want: "i7"},
		{typ: ir.IndexType{}, want: "index"},
		{typ: ir.FloatType{Sem: ir.BF16}, want: "bf16"},
		{typ: ir.FloatType{Sem: ir.F16}, want: "f16"},
		{typ: ir.FloatType{Sem: ir.F32}, want: "f32"},
		{typ: ir.FloatType{Sem: ir.F64}, want: "f64"},
		{typ: ir.FloatType{Sem: ir.F80}, want: "f80"},
		{typ: ir.FloatType{Sem: ir.F128}, want: "f128"},
		{
			typ:  ir.VectorType{DimsT: []int64{4}, ElemT: ir.IntOf(32)},
			want: "vector<4xi32>",
		},
		{
			typ:  ir.VectorType{DimsT: []int64{2, 3}, ElemT: ir.FloatType{Sem: ir.F32}},
			want: "vector<2x3xf32>",
		},
		{
			typ:  ir.TensorType{DimsT: []int64{ir.DynamicSize, 3}, ElemT: ir.FloatType{Sem: ir.F64}},
			want: "tensor<?x3xf64>",
		},
		{
			typ:  ir.TensorType{DimsT: nil, ElemT: ir.IntOf(8)},
			want: "tensor<i8>",
		},
		{
			typ:  ir.MemRefType{DimsT: []int64{2, 2}, ElemT: ir.IndexType{}},
			want: "memref<2x2xindex>",
		},
		{
			typ:  ir.VectorType{DimsT: []int64{4}, ElemT: ir.IndexType{}},
			want: "vector<4xindex>",
		},
	}
	for _, test := range tests {
		if got := test.typ.String(); got != test.want {
			t.Errorf("%#v.String() = %q, want %q", test.typ, got, test.want)
			continue
		}
		parsed, err := ir.ParseType(test.want)
		if err != nil {
			t.Errorf("ParseType(%q): %v", test.want, err)
			continue
		}
		if !ir.Equal(parsed, test.typ) {
			t.Errorf("ParseType(%q) = %s, want %s", test.want, parsed, test.typ)
		}
	}
}

func TestParseTypeErrors(t *testing.T) {
	tests := []string{
		"",
		"i0",
		"ix",
		"f12",
		"vector<4xi32",
		"vector<4x>",
		"tensor<4xvector<2xi8>>",
		"i32 extra",
	}
	for _, src := range tests {
		if typ, err := ir.ParseType(src); err == nil {
			t.Errorf("ParseType(%q) = %s, want an error", src, typ)
		}
	}
}

func TestScannerConsumeBoundary(t *testing.T) {
	tests := []struct {
		src  string
		lit  string
		want bool
	}{
		{src: "to i32", lit: "to", want: true},
		{src: "to", lit: "to", want: true},
		{src: "total i32", lit: "to", want: false},
		{src: "to_x", lit: "to", want: false},
		{src: "to2", lit: "to", want: false},
		{src: "fastmath<fast>", lit: "fastmath", want: true},
		{src: "fastmathy<fast>", lit: "fastmath", want: false},
		{src: "dense<5>", lit: "dense", want: true},
		{src: ", next", lit: ",", want: true},
	}
	for _, test := range tests {
		sc := ir.NewScanner(test.src)
		if got := sc.Consume(test.lit); got != test.want {
			t.Errorf("Consume(%q) over %q = %t, want %t", test.lit, test.src, got, test.want)
			continue
		}
		if !test.want && sc.Pos() != 0 {
			t.Errorf("a failed Consume(%q) over %q moved to offset %d", test.lit, test.src, sc.Pos())
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		x, y ir.Type
		want bool
	}{
		{x: ir.IntOf(32), y: ir.IntOf(32), want: true},
		{x: ir.IntOf(32), y: ir.IntOf(16), want: false},
		{x: ir.IntOf(64), y: ir.IndexType{}, want: false},
		{
			x:    ir.VectorType{DimsT: []int64{4}, ElemT: ir.IntOf(8)},
			y:    ir.VectorType{DimsT: []int64{4}, ElemT: ir.IntOf(8)},
			want: true,
		},
		{
			x:    ir.VectorType{DimsT: []int64{4}, ElemT: ir.IntOf(8)},
			y:    ir.TensorType{DimsT: []int64{4}, ElemT: ir.IntOf(8)},
			want: false,
		},
		{
			x:    ir.TensorType{DimsT: []int64{ir.DynamicSize}, ElemT: ir.IntOf(8)},
			y:    ir.TensorType{DimsT: []int64{4}, ElemT: ir.IntOf(8)},
			want: false,
		},
	}
	for _, test := range tests {
		if got := ir.Equal(test.x, test.y); got != test.want {
			t.Errorf("Equal(%s, %s) = %v, want %v", test.x, test.y, got, test.want)
		}
	}
}

func TestBoolSameShape(t *testing.T) {
	tests := []struct {
		typ  ir.Type
		want ir.Type
	}{
		{typ: ir.IntOf(32), want: ir.BoolType()},
		{typ: ir.FloatType{Sem: ir.F32}, want: ir.BoolType()},
		{
			typ:  ir.VectorType{DimsT: []int64{4}, ElemT: ir.IntOf(32)},
			want: ir.VectorType{DimsT: []int64{4}, ElemT: ir.BoolType()},
		},
		{
			typ:  ir.TensorType{DimsT: []int64{ir.DynamicSize}, ElemT: ir.FloatType{Sem: ir.F64}},
			want: ir.TensorType{DimsT: []int64{ir.DynamicSize}, ElemT: ir.BoolType()},
		},
	}
	for _, test := range tests {
		if got := ir.BoolSameShape(test.typ); !ir.Equal(got, test.want) {
			t.Errorf("BoolSameShape(%s) = %s, want %s", test.typ, got, test.want)
		}
	}
}

func TestSameShape(t *testing.T) {
	vec4 := ir.VectorType{DimsT: []int64{4}, ElemT: ir.IntOf(8)}
	vec4f := ir.VectorType{DimsT: []int64{4}, ElemT: ir.FloatType{Sem: ir.F32}}
	tensor4 := ir.TensorType{DimsT: []int64{4}, ElemT: ir.IntOf(8)}
	tests := []struct {
		x, y ir.Type
		want bool
	}{
		{x: ir.IntOf(8), y: ir.FloatType{Sem: ir.F32}, want: true},
		{x: ir.IntOf(8), y: vec4, want: false},
		{x: vec4, y: vec4f, want: true},
		{x: vec4, y: tensor4, want: false},
	}
	for _, test := range tests {
		if got := ir.SameShape(test.x, test.y); got != test.want {
			t.Errorf("SameShape(%s, %s) = %v, want %v", test.x, test.y, got, test.want)
		}
	}
}
