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
	"github.com/pkg/errors"

	"github.com/mlir-go/mlir/ir"
)

// CmpIPredicate selects the comparison applied by cmpi.
type CmpIPredicate uint

// Integer comparison predicates. The numeric values are part of the
// stable encoding of the predicate attribute.
const (
	CmpIEq CmpIPredicate = iota
	CmpINe
	CmpISlt
	CmpISle
	CmpISgt
	CmpISge
	CmpIUlt
	CmpIUle
	CmpIUgt
	CmpIUge

	numCmpIPredicates
)

var cmpINames = [numCmpIPredicates]string{
	"eq", "ne", "slt", "sle", "sgt", "sge", "ult", "ule", "ugt", "uge",
}

// String returns the assembly keyword of the predicate.
func (p CmpIPredicate) String() string {
	if p >= numCmpIPredicates {
		return "invalid"
	}
	return cmpINames[p]
}

// Valid returns true if the predicate is a known encoding.
func (p CmpIPredicate) Valid() bool { return p < numCmpIPredicates }

// Signed returns true if the predicate orders operands as two's
// complement signed integers.
func (p CmpIPredicate) Signed() bool {
	switch p {
	case CmpISlt, CmpISle, CmpISgt, CmpISge:
		return true
	}
	return false
}

// Swapped returns the predicate holding after an operand swap.
func (p CmpIPredicate) Swapped() CmpIPredicate {
	switch p {
	case CmpISlt:
		return CmpISgt
	case CmpISle:
		return CmpISge
	case CmpISgt:
		return CmpISlt
	case CmpISge:
		return CmpISle
	case CmpIUlt:
		return CmpIUgt
	case CmpIUle:
		return CmpIUge
	case CmpIUgt:
		return CmpIUlt
	case CmpIUge:
		return CmpIUle
	}
	return p
}

// CmpIPredicateFromString returns the predicate named by an assembly
// keyword.
func CmpIPredicateFromString(kw string) (CmpIPredicate, error) {
	for i, name := range cmpINames {
		if name == kw {
			return CmpIPredicate(i), nil
		}
	}
	return 0, errors.Errorf("unknown integer comparison predicate %q", kw)
}

// applyCmpI evaluates a predicate on two integer constants.
func applyCmpI(p CmpIPredicate, l, r ir.IntAttr) bool {
	var cmp int
	if p.Signed() {
		cmp = l.Signed().Cmp(r.Signed())
	} else {
		cmp = l.Unsigned().Cmp(r.Unsigned())
	}
	switch p {
	case CmpIEq:
		return cmp == 0
	case CmpINe:
		return cmp != 0
	case CmpISlt, CmpIUlt:
		return cmp < 0
	case CmpISle, CmpIUle:
		return cmp <= 0
	case CmpISgt, CmpIUgt:
		return cmp > 0
	case CmpISge, CmpIUge:
		return cmp >= 0
	}
	return false
}

// appliesToEqual returns true if the predicate holds on two equal
// operands.
func (p CmpIPredicate) appliesToEqual() bool {
	switch p {
	case CmpIEq, CmpISle, CmpISge, CmpIUle, CmpIUge:
		return true
	}
	return false
}

// CmpFPredicate selects the comparison applied by cmpf. Ordered
// predicates are false on a NaN operand; unordered predicates are true.
type CmpFPredicate uint

// Float comparison predicates. The numeric values are part of the
// stable encoding of the predicate attribute.
const (
	CmpFAlwaysFalse CmpFPredicate = iota
	CmpFOeq
	CmpFOgt
	CmpFOge
	CmpFOlt
	CmpFOle
	CmpFOne
	CmpFOrd
	CmpFUeq
	CmpFUgt
	CmpFUge
	CmpFUlt
	CmpFUle
	CmpFUne
	CmpFUno
	CmpFAlwaysTrue

	numCmpFPredicates
)

var cmpFNames = [numCmpFPredicates]string{
	"false", "oeq", "ogt", "oge", "olt", "ole", "one", "ord",
	"ueq", "ugt", "uge", "ult", "ule", "une", "uno", "true",
}

// String returns the assembly keyword of the predicate.
func (p CmpFPredicate) String() string {
	if p >= numCmpFPredicates {
		return "invalid"
	}
	return cmpFNames[p]
}

// Valid returns true if the predicate is a known encoding.
func (p CmpFPredicate) Valid() bool { return p < numCmpFPredicates }

// Ordered returns true if the predicate is false whenever an operand
// is NaN.
func (p CmpFPredicate) Ordered() bool {
	return p >= CmpFOeq && p <= CmpFOrd
}

// CmpFPredicateFromString returns the predicate named by an assembly
// keyword.
func CmpFPredicateFromString(kw string) (CmpFPredicate, error) {
	for i, name := range cmpFNames {
		if name == kw {
			return CmpFPredicate(i), nil
		}
	}
	return 0, errors.Errorf("unknown float comparison predicate %q", kw)
}

// applyCmpF evaluates a predicate on two float constants.
func applyCmpF(p CmpFPredicate, l, r ir.FloatAttr) bool {
	switch p {
	case CmpFAlwaysFalse:
		return false
	case CmpFAlwaysTrue:
		return true
	}
	unordered := l.IsNaN() || r.IsNaN()
	if p == CmpFOrd {
		return !unordered
	}
	if p == CmpFUno {
		return unordered
	}
	if unordered {
		return !p.Ordered()
	}
	cmp := l.Value().Cmp(r.Value())
	switch p {
	case CmpFOeq, CmpFUeq:
		return cmp == 0
	case CmpFOgt, CmpFUgt:
		return cmp > 0
	case CmpFOge, CmpFUge:
		return cmp >= 0
	case CmpFOlt, CmpFUlt:
		return cmp < 0
	case CmpFOle, CmpFUle:
		return cmp <= 0
	case CmpFOne, CmpFUne:
		return cmp != 0
	}
	return false
}

// predicateOf reads the predicate attribute of a comparison.
func predicateOf(op *ir.Op) (uint64, bool) {
	attr, ok := op.Attr(AttrPredicate).(ir.IntAttr)
	if !ok {
		return 0, false
	}
	pred := attr.Unsigned()
	if !pred.IsUint64() {
		return 0, false
	}
	return pred.Uint64(), true
}

// predicateAttr encodes a predicate as the i64 attribute carried by
// comparisons.
func predicateAttr(pred uint64) ir.IntAttr {
	return ir.NewIntAttrFromInt64(ir.IntOf(64), int64(pred))
}
