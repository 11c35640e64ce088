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

package ir

import (
	"fmt"
	"strings"
)

// DynamicSize marks a dimension whose size is unknown at compile time.
const DynamicSize int64 = -1

type (
	// Type of a value.
	Type interface {
		// Kind of the type.
		Kind() Kind

		// String representation of the type in the textual IR.
		String() string
	}

	// ShapedType is a type wrapping an element type and dimensions.
	ShapedType interface {
		Type

		// Dims returns the dimensions of the type.
		// A DynamicSize entry is a dynamic dimension.
		Dims() []int64

		// Elem returns the element type.
		Elem() Type

		// WithElem returns the same shape over a different element type.
		WithElem(Type) ShapedType
	}

	// IntType is a signless integer type of a fixed bit width.
	IntType struct {
		Width uint
	}

	// IndexType is the platform-width signless integer type.
	IndexType struct{}

	// FloatType is a floating point type.
	FloatType struct {
		Sem FloatSemantics
	}

	// VectorType is a vector of integers, floats or indices.
	VectorType struct {
		DimsT []int64
		ElemT Type
	}

	// TensorType is a tensor of integers, floats or indices.
	// Dimensions may be dynamic.
	TensorType struct {
		DimsT []int64
		ElemT Type
	}

	// MemRefType is a reference to a memory region.
	// Only bitcast and the index casts accept it.
	MemRefType struct {
		DimsT []int64
		ElemT Type
	}
)

// BoolType returns the i1 type.
func BoolType() IntType { return IntType{Width: 1} }

// IntOf returns the signless integer type of the given width.
func IntOf(width uint) IntType { return IntType{Width: width} }

// Kind of the type.
func (IntType) Kind() Kind { return Int }

// String representation of the type.
func (t IntType) String() string { return fmt.Sprintf("i%d", t.Width) }

// Kind of the type.
func (IndexType) Kind() Kind { return Index }

// String representation of the type.
func (IndexType) String() string { return "index" }

// Kind of the type.
func (FloatType) Kind() Kind { return Float }

// String representation of the type.
func (t FloatType) String() string { return t.Sem.String() }

// Kind of the type.
func (VectorType) Kind() Kind { return Vector }

// Dims returns the dimensions of the vector.
func (t VectorType) Dims() []int64 { return t.DimsT }

// Elem returns the element type of the vector.
func (t VectorType) Elem() Type { return t.ElemT }

// WithElem returns a vector of the same shape over a different element type.
func (t VectorType) WithElem(elem Type) ShapedType {
	return VectorType{DimsT: t.DimsT, ElemT: elem}
}

// String representation of the type.
func (t VectorType) String() string {
	return fmt.Sprintf("vector<%s>", dimsString(t.DimsT, t.ElemT))
}

// Kind of the type.
func (TensorType) Kind() Kind { return Tensor }

// Dims returns the dimensions of the tensor.
func (t TensorType) Dims() []int64 { return t.DimsT }

// Elem returns the element type of the tensor.
func (t TensorType) Elem() Type { return t.ElemT }

// WithElem returns a tensor of the same shape over a different element type.
func (t TensorType) WithElem(elem Type) ShapedType {
	return TensorType{DimsT: t.DimsT, ElemT: elem}
}

// String representation of the type.
func (t TensorType) String() string {
	return fmt.Sprintf("tensor<%s>", dimsString(t.DimsT, t.ElemT))
}

// Kind of the type.
func (MemRefType) Kind() Kind { return MemRef }

// Dims returns the dimensions of the memref.
func (t MemRefType) Dims() []int64 { return t.DimsT }

// Elem returns the element type of the memref.
func (t MemRefType) Elem() Type { return t.ElemT }

// WithElem returns a memref of the same shape over a different element type.
func (t MemRefType) WithElem(elem Type) ShapedType {
	return MemRefType{DimsT: t.DimsT, ElemT: elem}
}

// String representation of the type.
func (t MemRefType) String() string {
	return fmt.Sprintf("memref<%s>", dimsString(t.DimsT, t.ElemT))
}

func dimsString(dims []int64, elem Type) string {
	bld := strings.Builder{}
	for _, dim := range dims {
		if dim == DynamicSize {
			bld.WriteString("?")
		} else {
			fmt.Fprintf(&bld, "%d", dim)
		}
		bld.WriteString("x")
	}
	bld.WriteString(elem.String())
	return bld.String()
}

// ElemOf returns the element type of a shaped type,
// or the type itself for a scalar.
func ElemOf(typ Type) Type {
	if shaped, ok := typ.(ShapedType); ok {
		return shaped.Elem()
	}
	return typ
}

// IsShaped returns true if the type carries dimensions.
func IsShaped(typ Type) bool {
	_, ok := typ.(ShapedType)
	return ok
}

// Equal returns true if two types are structurally identical.
func Equal(x, y Type) bool {
	if x == nil || y == nil {
		return x == y
	}
	if x.Kind() != y.Kind() {
		return false
	}
	xShaped, ok := x.(ShapedType)
	if !ok {
		return x == y
	}
	yShaped := y.(ShapedType)
	return SameDims(xShaped.Dims(), yShaped.Dims()) && Equal(xShaped.Elem(), yShaped.Elem())
}

// SameDims returns true if two dimension lists are identical,
// treating dynamic sizes as equal only to dynamic sizes.
func SameDims(x, y []int64) bool {
	if len(x) != len(y) {
		return false
	}
	for i, dim := range x {
		if dim != y[i] {
			return false
		}
	}
	return true
}

// SameShape returns true if two types have the same shape.
// All scalar types have the empty shape.
func SameShape(x, y Type) bool {
	xShaped, xOk := x.(ShapedType)
	yShaped, yOk := y.(ShapedType)
	if xOk != yOk {
		return false
	}
	if !xOk {
		return true
	}
	if xShaped.Kind() != yShaped.Kind() {
		return false
	}
	return SameDims(xShaped.Dims(), yShaped.Dims())
}

// BoolSameShape returns the i1 type carried on the same shape as typ:
// i1 for a scalar, a vector or tensor of i1 for a shaped type.
func BoolSameShape(typ Type) Type {
	if shaped, ok := typ.(ShapedType); ok {
		return shaped.WithElem(BoolType())
	}
	return BoolType()
}

// IntBitWidth returns the bit width of an integer or index type given
// the width of the index type on the target. It returns false if the
// type is neither.
func IntBitWidth(typ Type, indexWidth uint) (uint, bool) {
	switch typT := typ.(type) {
	case IntType:
		return typT.Width, true
	case IndexType:
		return indexWidth, true
	}
	return 0, false
}
