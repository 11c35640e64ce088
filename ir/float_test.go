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
	"math"
	"math/big"
	"testing"

	"github.com/mlir-go/mlir/ir"
)

var (
	f32 = ir.FloatType{Sem: ir.F32}
	f64 = ir.FloatType{Sem: ir.F64}
)

func TestFloatBitsMatchesHardwareF32(t *testing.T) {
	values := []float64{
		0, 1, -1, 0.5, -0.5, 2.5, 1.0 / 3.0, 100, -1e10, 65504,
		math.Inf(1), math.Inf(-1),
		math.Copysign(0, -1),
		// Smallest normal and a subnormal.
		math.Ldexp(1, -126),
		math.Ldexp(1, -130),
		math.Ldexp(1, -149),
	}
	for _, val := range values {
		attr := ir.NewFloatAttrFromFloat64(f32, val)
		bits, ok := ir.FloatBits(attr)
		if !ok {
			t.Errorf("FloatBits(%v : f32) is not supported", val)
			continue
		}
		want := uint64(math.Float32bits(float32(val)))
		if bits.Uint64() != want {
			t.Errorf("FloatBits(%v : f32) = %#x, want %#x", val, bits.Uint64(), want)
		}
	}
}

func TestFloatBitsMatchesHardwareF64(t *testing.T) {
	values := []float64{
		0, 1, -1, 0.1, -2.5, 1e300, -1e-300, math.Pi,
		math.Inf(1), math.Inf(-1),
		math.Ldexp(1, -1022),
		math.Ldexp(1, -1074),
	}
	for _, val := range values {
		attr := ir.NewFloatAttrFromFloat64(f64, val)
		bits, ok := ir.FloatBits(attr)
		if !ok {
			t.Errorf("FloatBits(%v : f64) is not supported", val)
			continue
		}
		if bits.Uint64() != math.Float64bits(val) {
			t.Errorf("FloatBits(%v : f64) = %#x, want %#x",
				val, bits.Uint64(), math.Float64bits(val))
		}
	}
}

func TestFloatBitsNaN(t *testing.T) {
	bits, ok := ir.FloatBits(ir.NaN(f32))
	if !ok {
		t.Fatal("FloatBits(nan : f32) is not supported")
	}
	// Canonical quiet NaN.
	if got := uint32(bits.Uint64()); got != 0x7fc00000 {
		t.Errorf("FloatBits(nan : f32) = %#x, want 0x7fc00000", got)
	}
}

func TestFloatFromBitsRoundTrip(t *testing.T) {
	patterns := []uint64{
		0x00000000, // +0
		0x80000000, // -0
		0x3f800000, // 1
		0xbf800000, // -1
		0x40490fdb, // pi
		0x7f800000, // +inf
		0xff800000, // -inf
		0x00000001, // smallest subnormal
		0x007fffff, // largest subnormal
		0x00800000, // smallest normal
		0x7f7fffff, // largest finite
	}
	for _, pattern := range patterns {
		attr, ok := ir.FloatFromBits(f32, new(big.Int).SetUint64(pattern))
		if !ok {
			t.Errorf("FloatFromBits(f32, %#x) is not supported", pattern)
			continue
		}
		back, ok := ir.FloatBits(attr)
		if !ok {
			t.Errorf("FloatBits of decoded %#x is not supported", pattern)
			continue
		}
		if back.Uint64() != pattern {
			t.Errorf("round trip of %#x = %#x", pattern, back.Uint64())
		}
		want := math.Float32frombits(uint32(pattern))
		got, _ := attr.Value().Float32()
		if got != want {
			t.Errorf("FloatFromBits(f32, %#x) = %v, want %v", pattern, got, want)
		}
	}
}

func TestFloatFromBitsNaN(t *testing.T) {
	attr, ok := ir.FloatFromBits(f32, new(big.Int).SetUint64(0x7fc00001))
	if !ok || !attr.IsNaN() {
		t.Errorf("FloatFromBits(f32, 0x7fc00001) = %s, want nan", attr)
	}
}

func TestFloatBitsUnsupported(t *testing.T) {
	for _, sem := range []ir.FloatSemantics{ir.F80, ir.F128} {
		attr := ir.NewFloatAttrFromFloat64(ir.FloatType{Sem: sem}, 1)
		if _, ok := ir.FloatBits(attr); ok {
			t.Errorf("FloatBits(1 : %s) is unexpectedly supported", sem)
		}
	}
}

func TestFloatBitsBF16(t *testing.T) {
	tests := []struct {
		val  float64
		want uint64
	}{
		{val: 0, want: 0x0000},
		{val: 1, want: 0x3f80},
		{val: -2, want: 0xc000},
		{val: 0.5, want: 0x3f00},
	}
	bf16 := ir.FloatType{Sem: ir.BF16}
	for _, test := range tests {
		bits, ok := ir.FloatBits(ir.NewFloatAttrFromFloat64(bf16, test.val))
		if !ok {
			t.Errorf("FloatBits(%v : bf16) is not supported", test.val)
			continue
		}
		if bits.Uint64() != test.want {
			t.Errorf("FloatBits(%v : bf16) = %#x, want %#x", test.val, bits.Uint64(), test.want)
		}
	}
}
