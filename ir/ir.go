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

// Package ir defines the intermediate representation containers the
// dialects operate on: types, attributes, values, and operations,
// together with their textual form.
//
// Integer types are signless: the sign interpretation belongs to each
// operation, not to the type. Shaped types (vector, tensor, memref)
// wrap an element type and a list of dimensions where a negative
// dimension marks a dynamic size.
package ir

// Kind of a type.
type Kind uint

// Kinds of types supported by the IR.
const (
	Invalid Kind = iota

	// Int is a signless integer of an arbitrary bit width.
	Int
	// Index is a signless integer of platform-defined width.
	Index
	// Float is a floating point type identified by its semantics.
	Float

	Vector
	Tensor
	MemRef

	// Max value for a Kind constant.
	Max
)

// String returns a string representation of a kind.
func (k Kind) String() string {
	switch k {
	case Int:
		return "integer"
	case Index:
		return "index"
	case Float:
		return "float"
	case Vector:
		return "vector"
	case Tensor:
		return "tensor"
	case MemRef:
		return "memref"
	}
	return "invalid"
}

// FloatSemantics identifies a floating point format.
type FloatSemantics uint

// Floating point formats supported by the IR.
const (
	BF16 FloatSemantics = iota
	F16
	F32
	F64
	F80
	F128
)

// Width returns the total bit width of the format.
func (s FloatSemantics) Width() uint {
	switch s {
	case BF16, F16:
		return 16
	case F32:
		return 32
	case F64:
		return 64
	case F80:
		return 80
	case F128:
		return 128
	}
	return 0
}

// Precision returns the number of mantissa bits of the format,
// including the implicit leading bit.
func (s FloatSemantics) Precision() uint {
	switch s {
	case BF16:
		return 8
	case F16:
		return 11
	case F32:
		return 24
	case F64:
		return 53
	case F80:
		return 64
	case F128:
		return 113
	}
	return 0
}

// MaxExp returns the exponent of the overflow threshold of the format:
// every finite value is strictly below 2^MaxExp.
func (s FloatSemantics) MaxExp() int {
	switch s {
	case BF16, F32:
		return 128
	case F16:
		return 16
	case F64:
		return 1024
	case F80, F128:
		return 16384
	}
	return 0
}

// String returns the keyword of the format in the textual IR.
func (s FloatSemantics) String() string {
	switch s {
	case BF16:
		return "bf16"
	case F16:
		return "f16"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case F80:
		return "f80"
	case F128:
		return "f128"
	}
	return "invalid"
}
