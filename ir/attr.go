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
	"math"
	"math/big"
)

type (
	// Attribute is a compile time constant attached to an operation.
	Attribute interface {
		// Type of the value held by the attribute.
		Type() Type

		// String representation of the attribute in the textual IR,
		// including its type clause.
		String() string
	}

	// IntAttr holds an integer constant of an integer or index type.
	// The value is stored as its two's complement bit pattern, that is
	// an unsigned integer in [0, 2^width).
	IntAttr struct {
		typ  Type
		bits *big.Int
	}

	// FloatAttr holds a floating point constant.
	FloatAttr struct {
		typ FloatType
		val *big.Float
		nan bool
	}

	// SplatAttr holds a shaped constant whose elements are all equal.
	SplatAttr struct {
		typ  ShapedType
		elem Attribute
	}
)

var one = big.NewInt(1)

// maxUnsigned returns 2^width-1.
func maxUnsigned(width uint) *big.Int {
	max := new(big.Int).Lsh(one, width)
	return max.Sub(max, one)
}

// truncToWidth reduces a value to its bit pattern modulo 2^width.
func truncToWidth(val *big.Int, width uint) *big.Int {
	mask := new(big.Int).Lsh(one, width)
	mask.Sub(mask, one)
	return new(big.Int).And(val, mask)
}

// NewIntAttr returns an integer attribute of the given integer or index
// type. The value is truncated to the bit width of the type, so both
// signed and unsigned spellings of the same bit pattern are accepted.
func NewIntAttr(typ Type, val *big.Int) IntAttr {
	width := intAttrWidth(typ)
	return IntAttr{typ: typ, bits: truncToWidth(val, width)}
}

// NewIntAttrFromInt64 returns an integer attribute from a Go integer.
func NewIntAttrFromInt64(typ Type, val int64) IntAttr {
	return NewIntAttr(typ, big.NewInt(val))
}

// NewBoolAttr returns an i1 attribute.
func NewBoolAttr(val bool) IntAttr {
	bit := int64(0)
	if val {
		bit = 1
	}
	return NewIntAttrFromInt64(BoolType(), bit)
}

// intAttrWidth is the storage width of an integer attribute.
// Index values are stored on 64 bits.
func intAttrWidth(typ Type) uint {
	if typT, ok := typ.(IntType); ok {
		return typT.Width
	}
	return 64
}

// Type of the value held by the attribute.
func (a IntAttr) Type() Type { return a.typ }

// Width returns the storage bit width of the attribute.
func (a IntAttr) Width() uint { return intAttrWidth(a.typ) }

// Unsigned returns the bit pattern interpreted as an unsigned integer.
func (a IntAttr) Unsigned() *big.Int { return new(big.Int).Set(a.bits) }

// Signed returns the bit pattern interpreted as a two's complement
// signed integer.
func (a IntAttr) Signed() *big.Int {
	width := a.Width()
	if a.bits.Bit(int(width-1)) == 0 {
		return new(big.Int).Set(a.bits)
	}
	full := new(big.Int).Lsh(one, width)
	return new(big.Int).Sub(a.bits, full)
}

// IsZero returns true if all bits of the value are zero.
func (a IntAttr) IsZero() bool { return a.bits.Sign() == 0 }

// IsOne returns true if the value is one.
func (a IntAttr) IsOne() bool { return a.bits.Cmp(one) == 0 }

// IsAllOnes returns true if all bits of the value are set.
func (a IntAttr) IsAllOnes() bool {
	return a.bits.Cmp(maxUnsigned(a.Width())) == 0
}

// Bool returns true if the value is a non-zero i1.
func (a IntAttr) Bool() bool { return !a.IsZero() }

// String representation of the attribute. Boolean attributes print as
// the true and false keywords.
func (a IntAttr) String() string {
	if Equal(a.typ, BoolType()) {
		if a.IsZero() {
			return "false"
		}
		return "true"
	}
	return fmt.Sprintf("%s : %s", a.Signed(), a.typ)
}

// NewFloatAttr returns a float attribute. The value is rounded to the
// precision of the semantics; a value beyond the exponent range of the
// semantics overflows to infinity.
func NewFloatAttr(typ FloatType, val *big.Float) FloatAttr {
	rounded := new(big.Float).SetPrec(typ.Sem.Precision()).SetMode(big.ToNearestEven)
	rounded.Set(val)
	if !rounded.IsInf() && rounded.Sign() != 0 && rounded.MantExp(nil) > typ.Sem.MaxExp() {
		rounded.SetInf(rounded.Signbit())
	}
	return FloatAttr{typ: typ, val: rounded}
}

// NewFloatAttrFromFloat64 returns a float attribute from a Go float.
func NewFloatAttrFromFloat64(typ FloatType, val float64) FloatAttr {
	if math.IsNaN(val) {
		return NaN(typ)
	}
	return NewFloatAttr(typ, big.NewFloat(val))
}

// NaN returns the canonical quiet NaN attribute of the given type.
func NaN(typ FloatType) FloatAttr {
	return FloatAttr{typ: typ, val: new(big.Float), nan: true}
}

// Type of the value held by the attribute.
func (a FloatAttr) Type() Type { return a.typ }

// Semantics returns the floating point format of the attribute.
func (a FloatAttr) Semantics() FloatSemantics { return a.typ.Sem }

// IsNaN returns true if the attribute is a NaN.
func (a FloatAttr) IsNaN() bool { return a.nan }

// Value returns the floating point value.
// The value is zero for a NaN attribute.
func (a FloatAttr) Value() *big.Float {
	return new(big.Float).SetPrec(a.typ.Sem.Precision()).Set(a.val)
}

// IsNegZero returns true if the value is a negative zero.
func (a FloatAttr) IsNegZero() bool {
	return !a.nan && a.val.Sign() == 0 && a.val.Signbit()
}

// String representation of the attribute.
func (a FloatAttr) String() string {
	if a.nan {
		return fmt.Sprintf("nan : %s", a.typ)
	}
	if a.val.IsInf() {
		if a.val.Signbit() {
			return fmt.Sprintf("-inf : %s", a.typ)
		}
		return fmt.Sprintf("inf : %s", a.typ)
	}
	txt := a.val.Text('g', -1)
	return fmt.Sprintf("%s : %s", txt, a.typ)
}

// NewSplatAttr returns a shaped constant repeating a single element.
func NewSplatAttr(typ ShapedType, elem Attribute) SplatAttr {
	return SplatAttr{typ: typ, elem: elem}
}

// Type of the value held by the attribute.
func (a SplatAttr) Type() Type { return a.typ }

// Elem returns the repeated element of the splat.
func (a SplatAttr) Elem() Attribute { return a.elem }

// String representation of the attribute.
func (a SplatAttr) String() string {
	elem := a.elem.String()
	if i := lastTypeClause(elem); i >= 0 {
		elem = elem[:i]
	}
	return fmt.Sprintf("dense<%s> : %s", elem, a.typ)
}

// lastTypeClause returns the index of the trailing " : type" clause of
// an attribute string, or -1.
func lastTypeClause(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			for i > 0 && s[i-1] == ' ' {
				i--
			}
			return i
		}
	}
	return -1
}

// AttrEqual returns true if two attributes hold the same value of the
// same type.
func AttrEqual(x, y Attribute) bool {
	if x == nil || y == nil {
		return x == y
	}
	switch xT := x.(type) {
	case IntAttr:
		yT, ok := y.(IntAttr)
		return ok && Equal(xT.typ, yT.typ) && xT.bits.Cmp(yT.bits) == 0
	case FloatAttr:
		yT, ok := y.(FloatAttr)
		if !ok || !Equal(xT.typ, yT.typ) {
			return false
		}
		if xT.nan || yT.nan {
			return xT.nan == yT.nan
		}
		return xT.val.Cmp(yT.val) == 0 && xT.val.Signbit() == yT.val.Signbit()
	case SplatAttr:
		yT, ok := y.(SplatAttr)
		return ok && Equal(xT.typ, yT.typ) && AttrEqual(xT.elem, yT.elem)
	}
	return false
}
