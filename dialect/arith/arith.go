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

// Package arith implements the arithmetic dialect: primitive scalar,
// vector and tensor arithmetic operations, their verification rules,
// constant folding, canonicalization patterns, and integer range
// inference.
//
// Operation kinds are a flat enum; each kind maps to a table entry
// holding its arity, traits, assembly format class, and the verify,
// fold, canonicalize and infer-range implementations.
package arith

import (
	"math/big"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/mlir-go/mlir/base/ordered"
	"github.com/mlir-go/mlir/diag"
	"github.com/mlir-go/mlir/ir"
	"github.com/mlir-go/mlir/ir/interval"
)

// Name is the namespace of the dialect. Every mnemonic is prefixed
// with it, e.g. "arith.addi".
const Name = "arith"

// OpKind identifies an operation of the dialect.
type OpKind uint

// Operations of the dialect.
const (
	OpInvalid OpKind = iota

	OpConstant

	OpAddI
	OpSubI
	OpMulI
	OpDivUI
	OpDivSI
	OpCeilDivUI
	OpCeilDivSI
	OpFloorDivSI
	OpRemUI
	OpRemSI
	OpAndI
	OpOrI
	OpXOrI
	OpShLI
	OpShRUI
	OpShRSI
	OpMaxSI
	OpMaxUI
	OpMinSI
	OpMinUI

	OpAddUIExtended
	OpMulSIExtended
	OpMulUIExtended

	OpNegF
	OpAddF
	OpSubF
	OpMulF
	OpDivF
	OpRemF
	OpMaxF
	OpMinF

	OpExtUI
	OpExtSI
	OpTruncI
	OpExtF
	OpTruncF
	OpUIToFP
	OpSIToFP
	OpFPToUI
	OpFPToSI
	OpIndexCast
	OpIndexCastUI
	OpBitcast

	OpCmpI
	OpCmpF

	OpSelect

	opMax
)

// Trait is a bitset of properties shared by groups of operations.
type Trait uint

// Traits of operations.
const (
	// TraitPure marks an operation with no side effect: it can be
	// erased when dead and merged with an identical operation.
	TraitPure Trait = 1 << iota
	// TraitCommutative marks an operation invariant under operand
	// swap.
	TraitCommutative
	// TraitIdempotent marks a binary operation for which
	// op(x, x) == x.
	TraitIdempotent
	// TraitConstantLike marks the constant producer.
	TraitConstantLike
	// TraitSameShape requires all operands and results to share a
	// shape.
	TraitSameShape
	// TraitSameType requires all operands and results to share one
	// type.
	TraitSameType
	// TraitSpeculatableIf marks an operation whose speculatability
	// depends on its operands.
	TraitSpeculatableIf
	// TraitFastMath marks an operation carrying the optional
	// fastmath attribute.
	TraitFastMath
)

// formatClass selects the assembly surface of an operation.
type formatClass uint

const (
	formatConstant formatClass = iota
	formatUnary
	formatBinary
	formatTernary
	formatCast
	formatCompare
	formatAddExtended
	formatMulExtended
	formatSelect
)

// Attribute names used by the dialect.
const (
	// AttrValue holds the constant of an arith.constant.
	AttrValue = "value"
	// AttrPredicate holds the comparison predicate of cmpi and cmpf.
	AttrPredicate = "predicate"
	// AttrFastMath holds the fastmath flags of float operations.
	AttrFastMath = "fastmath"
)

type (
	verifyFn func(d *Dialect, op *ir.Op) error
	foldFn   func(d *Dialect, op *ir.Op, operands []ir.Attribute) []FoldResult
	rangeFn  func(d *Dialect, op *ir.Op, operands []interval.IntRange) []interval.IntRange

	// opInfo is the table entry of an operation kind.
	opInfo struct {
		mnemonic   string
		operands   int
		results    int
		traits     Trait
		format     formatClass
		verify     verifyFn
		fold       foldFn
		inferRange rangeFn
		patterns   []Pattern
	}
)

// mnemonics maps a full mnemonic to its kind. It is filled alongside
// opInfos when the package initializes.
var mnemonics = ordered.NewMap[string, OpKind]()

// Mnemonic returns the full mnemonic of a kind, e.g. "arith.addi".
func Mnemonic(kind OpKind) string {
	if kind == OpInvalid || kind >= opMax {
		return "invalid"
	}
	return opInfos[kind].mnemonic
}

// KindOf returns the kind of an operation from its mnemonic,
// or OpInvalid if the operation does not belong to the dialect.
func KindOf(op *ir.Op) OpKind {
	return KindFromMnemonic(op.Name)
}

// KindFromMnemonic returns the kind named by a full mnemonic.
func KindFromMnemonic(mnemonic string) OpKind {
	kind, ok := mnemonics.Load(mnemonic)
	if !ok {
		return OpInvalid
	}
	return kind
}

// Mnemonics returns the full mnemonics of the dialect in lexical
// order.
func Mnemonics() []string {
	set := make(map[string]bool)
	for kind := OpConstant; kind < opMax; kind++ {
		set[opInfos[kind].mnemonic] = true
	}
	names := maps.Keys(set)
	sort.Strings(names)
	return names
}

// Kinds returns an iterator over all operation kinds of the dialect.
func Kinds() func(func(OpKind) bool) {
	return func(yield func(OpKind) bool) {
		for kind := OpConstant; kind < opMax; kind++ {
			if !yield(kind) {
				return
			}
		}
	}
}

// Traits returns the traits of a kind.
func Traits(kind OpKind) Trait { return opInfos[kind].traits }

// IsPure returns true if the operation has no side effect.
func IsPure(kind OpKind) bool { return opInfos[kind].traits&TraitPure != 0 }

// IsCommutative returns true if the operation is invariant under
// operand swap.
func IsCommutative(kind OpKind) bool {
	return opInfos[kind].traits&TraitCommutative != 0
}

// IsIdempotent returns true if op(x, x) == x.
func IsIdempotent(kind OpKind) bool {
	return opInfos[kind].traits&TraitIdempotent != 0
}

// NumOperands returns the operand arity of a kind.
func NumOperands(kind OpKind) int { return opInfos[kind].operands }

// NumResults returns the result arity of a kind.
func NumResults(kind OpKind) int { return opInfos[kind].results }

// Dialect holds the host parameters of the dialect and exposes its
// services: verification, folding, canonicalization, range inference,
// and the textual form.
type Dialect struct {
	indexWidth    uint
	sink          diag.Sink
	constantValue func(*ir.Value) ir.Attribute
}

// Option configures a Dialect.
type Option func(*Dialect)

// WithIndexWidth sets the bit width of the index type on the target.
// Range inference and index cast folding use it. The default is 64.
func WithIndexWidth(width uint) Option {
	return func(d *Dialect) { d.indexWidth = width }
}

// WithSink sets the sink receiving diagnostics.
func WithSink(sink diag.Sink) Option {
	return func(d *Dialect) { d.sink = sink }
}

// WithConstantValue sets the host hook returning the constant
// attribute backing an SSA value, or nil. The default follows the
// value to its defining arith.constant.
func WithConstantValue(fn func(*ir.Value) ir.Attribute) Option {
	return func(d *Dialect) { d.constantValue = fn }
}

// New returns a dialect configured for a host.
func New(options ...Option) *Dialect {
	d := &Dialect{indexWidth: 64, sink: diag.Discard}
	for _, option := range options {
		option(d)
	}
	if d.constantValue == nil {
		d.constantValue = definingConstant
	}
	return d
}

// definingConstant returns the value attribute of the arith.constant
// defining v, or nil.
func definingConstant(v *ir.Value) ir.Attribute {
	def := v.DefiningOp()
	if def == nil || KindOf(def) != OpConstant {
		return nil
	}
	return def.Attr(AttrValue)
}

// ConstantValue returns the constant attribute backing a value, or nil.
func (d *Dialect) ConstantValue(v *ir.Value) ir.Attribute {
	return d.constantValue(v)
}

// IndexWidth returns the bit width of the index type on the target.
func (d *Dialect) IndexWidth() uint { return d.indexWidth }

// intWidth returns the bit width of an integer-like type, counting
// index as the target index width.
func (d *Dialect) intWidth(typ ir.Type) (uint, bool) {
	return ir.IntBitWidth(ir.ElemOf(typ), d.indexWidth)
}

// IsBuildableWith returns true if an attribute can back a constant of
// the given type: the attribute type and the constant type must be
// identical, and the type must be an integer, float or index, or a
// vector or tensor of those.
func IsBuildableWith(attr ir.Attribute, typ ir.Type) bool {
	if attr == nil || !ir.Equal(attr.Type(), typ) {
		return false
	}
	switch elem := ir.ElemOf(typ); elem.Kind() {
	case ir.Int, ir.Index, ir.Float:
	default:
		return false
	}
	switch typ.Kind() {
	case ir.MemRef:
		return false
	}
	return true
}

// Speculatability answers whether an operation can be executed
// unconditionally.
type Speculatability int

// Speculatability values.
const (
	// NotSpeculatable marks an operation that may be undefined for
	// some operand values.
	NotSpeculatable Speculatability = iota
	// Speculatable marks an operation defined for all operand values.
	Speculatable
	// RecursivelySpeculatable marks an operation speculatable if the
	// operations of its regions are.
	RecursivelySpeculatable
)

// Speculatability returns whether an operation is safe to execute
// unconditionally. The operands slice carries the constant attribute
// backing each operand, if known, in operand order; it may be nil.
func (d *Dialect) Speculatability(op *ir.Op, operands []ir.Attribute) Speculatability {
	kind := KindOf(op)
	if kind == OpInvalid {
		return NotSpeculatable
	}
	info := opInfos[kind]
	if info.traits&TraitSpeculatableIf == 0 {
		if info.traits&TraitPure != 0 {
			return Speculatable
		}
		return NotSpeculatable
	}
	var rhs ir.Attribute
	if len(operands) > 1 {
		rhs = operands[1]
	} else if len(op.Operands) > 1 {
		rhs = d.ConstantValue(op.Operands[1])
	}
	divisor, ok := intConst(rhs)
	if !ok || divisor.IsZero() {
		return NotSpeculatable
	}
	if kind == OpDivUI || kind == OpCeilDivUI || kind == OpRemUI {
		return Speculatable
	}
	// Signed division also overflows on min / -1.
	if !divisor.IsAllOnes() {
		return Speculatable
	}
	var lhs ir.Attribute
	if len(operands) > 0 {
		lhs = operands[0]
	} else if len(op.Operands) > 0 {
		lhs = d.ConstantValue(op.Operands[0])
	}
	dividend, ok := intConst(lhs)
	if !ok {
		return NotSpeculatable
	}
	minSigned := new(big.Int).Lsh(big.NewInt(1), dividend.Width()-1)
	minSigned.Neg(minSigned)
	if dividend.Signed().Cmp(minSigned) == 0 {
		return NotSpeculatable
	}
	return Speculatable
}
