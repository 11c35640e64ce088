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
	"strings"

	"github.com/pkg/errors"

	"github.com/mlir-go/mlir/ir"
)

// FastMathFlags is the set of relaxations a float operation may apply.
type FastMathFlags uint

// Fast math flags.
const (
	// FMReassoc allows reassociation.
	FMReassoc FastMathFlags = 1 << iota
	// FMNNaN assumes no NaN operands or results.
	FMNNaN
	// FMNInf assumes no infinite operands or results.
	FMNInf
	// FMNSz ignores the sign of zero.
	FMNSz
	// FMARcp allows replacing a division with a reciprocal multiply.
	FMARcp
	// FMContract allows fusing operations, such as multiply and add.
	FMContract
	// FMAFn allows approximate implementations of called functions.
	FMAFn

	// FMNone applies IEEE semantics strictly.
	FMNone FastMathFlags = 0
	// FMFast sets all flags.
	FMFast = FMReassoc | FMNNaN | FMNInf | FMNSz | FMARcp | FMContract | FMAFn
)

var fmNames = []struct {
	flag FastMathFlags
	name string
}{
	{FMReassoc, "reassoc"},
	{FMNNaN, "nnan"},
	{FMNInf, "ninf"},
	{FMNSz, "nsz"},
	{FMARcp, "arcp"},
	{FMContract, "contract"},
	{FMAFn, "afn"},
}

// Has returns true if all the given flags are set.
func (f FastMathFlags) Has(flags FastMathFlags) bool { return f&flags == flags }

// String returns the assembly form of the flag set: none, fast, or the
// flag names separated by commas.
func (f FastMathFlags) String() string {
	if f == FMNone {
		return "none"
	}
	if f == FMFast {
		return "fast"
	}
	names := []string{}
	for _, fm := range fmNames {
		if f.Has(fm.flag) {
			names = append(names, fm.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseFastMathFlags reads the comma separated flag list of the
// assembly form.
func ParseFastMathFlags(src string) (FastMathFlags, error) {
	switch src {
	case "none":
		return FMNone, nil
	case "fast":
		return FMFast, nil
	}
	flags := FMNone
	for _, name := range strings.Split(src, ",") {
		found := false
		for _, fm := range fmNames {
			if fm.name == strings.TrimSpace(name) {
				flags |= fm.flag
				found = true
				break
			}
		}
		if !found {
			return FMNone, errors.Errorf("unknown fastmath flag %q", name)
		}
	}
	return flags, nil
}

// FastMathOf returns the fastmath flags of a float operation.
// An absent attribute means strict IEEE semantics.
func FastMathOf(op *ir.Op) FastMathFlags {
	attr, ok := op.Attr(AttrFastMath).(ir.IntAttr)
	if !ok {
		return FMNone
	}
	bits := attr.Unsigned()
	if !bits.IsUint64() {
		return FMNone
	}
	return FastMathFlags(bits.Uint64())
}

// SetFastMath stores the fastmath flags on a float operation.
// FMNone removes the attribute.
func SetFastMath(op *ir.Op, flags FastMathFlags) {
	if flags == FMNone {
		op.Attrs.Delete(AttrFastMath)
		return
	}
	op.SetAttr(AttrFastMath, ir.NewIntAttrFromInt64(ir.IntOf(64), int64(flags)))
}
