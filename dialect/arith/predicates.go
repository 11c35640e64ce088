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
	"github.com/mlir-go/mlir/ir"
)

// SignlessIntegerLike returns true for a signless integer or index
// type, or a vector or tensor of those.
func SignlessIntegerLike(typ ir.Type) bool {
	if typ.Kind() == ir.MemRef {
		return false
	}
	switch ir.ElemOf(typ).Kind() {
	case ir.Int, ir.Index:
		return true
	}
	return false
}

// SignlessFixedWidthIntegerLike returns true for a signless integer
// type of a fixed bit width, or a vector or tensor of those. It
// excludes index, whose width depends on the target.
func SignlessFixedWidthIntegerLike(typ ir.Type) bool {
	if typ.Kind() == ir.MemRef {
		return false
	}
	return ir.ElemOf(typ).Kind() == ir.Int
}

// FloatLike returns true for a floating point type, or a vector or
// tensor of floating point elements.
func FloatLike(typ ir.Type) bool {
	if typ.Kind() == ir.MemRef {
		return false
	}
	return ir.ElemOf(typ).Kind() == ir.Float
}

// BoolLike returns true for i1, or a vector or tensor of i1.
func BoolLike(typ ir.Type) bool {
	if typ.Kind() == ir.MemRef {
		return false
	}
	return ir.Equal(ir.ElemOf(typ), ir.BoolType())
}

// indexCastElem returns true for an integer or index element, the two
// sides an index cast accepts.
func indexCastElem(typ ir.Type) bool {
	switch ir.ElemOf(typ).Kind() {
	case ir.Int, ir.Index:
		return true
	}
	return false
}
