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

	"github.com/mlir-go/mlir/base/ordered"
)

type (
	// Location of an operation in its source.
	Location struct {
		File string
		Line int
		Col  int
	}

	// Value is an SSA value: the result of an operation or an
	// argument of the enclosing region.
	Value struct {
		name  string
		typ   Type
		def   *Op
		index int
	}

	// Op is an operation: an IR node identified by its mnemonic,
	// owning operand values, result values, and named attributes.
	Op struct {
		// Name is the full mnemonic of the operation,
		// e.g. "arith.addi".
		Name string

		// Loc is the source location of the operation.
		Loc Location

		Operands []*Value
		Results  []*Value

		// Attrs maps attribute names to their values in insertion
		// order so that printing is deterministic.
		Attrs *ordered.Map[string, Attribute]
	}
)

// String returns the location as file:line:col, or "-" if unknown.
func (loc Location) String() string {
	if loc.File == "" {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
}

// NewArgument returns a value not defined by any operation.
func NewArgument(name string, typ Type) *Value {
	return &Value{name: name, typ: typ}
}

// Name of the value, without the leading %.
func (v *Value) Name() string { return v.name }

// SetName sets the name of the value.
func (v *Value) SetName(name string) { v.name = name }

// Type of the value.
func (v *Value) Type() Type { return v.typ }

// DefiningOp returns the operation defining the value,
// or nil for a region argument.
func (v *Value) DefiningOp() *Op { return v.def }

// ResultIndex returns the index of the value in the results of its
// defining operation.
func (v *Value) ResultIndex() int { return v.index }

// String returns the value reference in the textual IR.
func (v *Value) String() string { return "%" + v.name }

// NewOp returns a new operation. One result value is created per
// result type; result values are named after the operation once the
// host assigns names.
func NewOp(name string, loc Location, operands []*Value, resultTypes []Type) *Op {
	op := &Op{
		Name:     name,
		Loc:      loc,
		Operands: operands,
		Attrs:    ordered.NewMap[string, Attribute](),
	}
	for i, typ := range resultTypes {
		op.Results = append(op.Results, &Value{typ: typ, def: op, index: i})
	}
	return op
}

// SetAttr sets a named attribute on the operation.
func (op *Op) SetAttr(name string, attr Attribute) *Op {
	op.Attrs.Store(name, attr)
	return op
}

// Attr returns a named attribute of the operation, or nil.
func (op *Op) Attr(name string) Attribute {
	attr, _ := op.Attrs.Load(name)
	return attr
}

// Result returns the i-th result of the operation.
func (op *Op) Result(i int) *Value { return op.Results[i] }

// OperandTypes returns the types of the operands.
func (op *Op) OperandTypes() []Type {
	types := make([]Type, len(op.Operands))
	for i, operand := range op.Operands {
		types[i] = operand.Type()
	}
	return types
}

// ResultTypes returns the types of the results.
func (op *Op) ResultTypes() []Type {
	types := make([]Type, len(op.Results))
	for i, result := range op.Results {
		types[i] = result.Type()
	}
	return types
}
