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
	"fmt"
	"slices"
	"strings"

	"github.com/mlir-go/mlir/base/stringseq"
	"github.com/mlir-go/mlir/ir"
)

// PrintOp returns the textual form of an operation of the dialect.
// The form round-trips through ParseOp.
func PrintOp(op *ir.Op) string {
	bld := &strings.Builder{}
	stringseq.AppendStringer(bld, slices.Values(op.Results), ", ")
	if len(op.Results) > 0 {
		bld.WriteString(" = ")
	}
	bld.WriteString(op.Name)
	kind := KindOf(op)
	if kind == OpInvalid {
		return bld.String()
	}
	info := opInfos[kind]
	switch info.format {
	case formatConstant:
		fmt.Fprintf(bld, " %s", op.Attr(AttrValue))
	case formatUnary:
		fmt.Fprintf(bld, " %s", op.Operands[0])
		printFastMath(bld, op)
		fmt.Fprintf(bld, " : %s", op.Results[0].Type())
	case formatBinary:
		fmt.Fprintf(bld, " %s, %s", op.Operands[0], op.Operands[1])
		printFastMath(bld, op)
		fmt.Fprintf(bld, " : %s", op.Results[0].Type())
	case formatCast:
		fmt.Fprintf(bld, " %s : %s to %s",
			op.Operands[0], op.Operands[0].Type(), op.Results[0].Type())
	case formatCompare:
		pred, _ := predicateOf(op)
		var keyword string
		if kind == OpCmpI {
			keyword = CmpIPredicate(pred).String()
		} else {
			keyword = CmpFPredicate(pred).String()
		}
		fmt.Fprintf(bld, " %s, %s, %s", keyword, op.Operands[0], op.Operands[1])
		printFastMath(bld, op)
		fmt.Fprintf(bld, " : %s", op.Operands[0].Type())
	case formatAddExtended:
		fmt.Fprintf(bld, " %s, %s : %s, %s",
			op.Operands[0], op.Operands[1],
			op.Results[0].Type(), op.Results[1].Type())
	case formatMulExtended:
		fmt.Fprintf(bld, " %s, %s : %s",
			op.Operands[0], op.Operands[1], op.Results[0].Type())
	case formatSelect:
		fmt.Fprintf(bld, " %s, %s, %s : ",
			op.Operands[0], op.Operands[1], op.Operands[2])
		if ir.IsShaped(op.Operands[0].Type()) {
			fmt.Fprintf(bld, "%s, ", op.Operands[0].Type())
		}
		fmt.Fprintf(bld, "%s", op.Results[0].Type())
	}
	return bld.String()
}

func printFastMath(bld *strings.Builder, op *ir.Op) {
	if flags := FastMathOf(op); flags != FMNone {
		fmt.Fprintf(bld, " fastmath<%s>", flags)
	}
}
