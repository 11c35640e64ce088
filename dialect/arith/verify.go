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
	"github.com/mlir-go/mlir/diag"
	"github.com/mlir-go/mlir/ir"
)

// Verify checks an operation against the structural rules of its kind:
// operand and result arities, type predicates, shape agreement, cast
// width inequalities, and attribute well-formedness. Diagnostics are
// reported to the sink and returned.
func (d *Dialect) Verify(op *ir.Op) error {
	err := d.verify(op)
	if err != nil {
		d.sink.Report(err)
	}
	return err
}

func (d *Dialect) verify(op *ir.Op) error {
	kind := KindOf(op)
	if kind == OpInvalid {
		return diag.Errorf(op.Loc, diag.ParseError, "unknown operation %q", op.Name)
	}
	info := opInfos[kind]
	errs := &diag.Errors{}
	if len(op.Operands) != info.operands {
		errs.Append(diag.Errorf(op.Loc, diag.ArityMismatch,
			"%s expects %d operands, got %d", op.Name, info.operands, len(op.Operands)))
	}
	if len(op.Results) != info.results {
		errs.Append(diag.Errorf(op.Loc, diag.ArityMismatch,
			"%s expects %d results, got %d", op.Name, info.results, len(op.Results)))
	}
	if !errs.Empty() {
		return errs.Err()
	}
	if info.traits&TraitFastMath != 0 {
		errs.Append(verifyFastMathAttr(op))
	}
	if info.verify != nil {
		errs.Append(info.verify(d, op))
	}
	return errs.Err()
}

// sameOperandResultType returns the type shared by all operands and
// results, or an error naming the first disagreement.
func sameOperandResultType(op *ir.Op) (ir.Type, error) {
	typ := op.Operands[0].Type()
	for _, operand := range op.Operands[1:] {
		if !ir.Equal(operand.Type(), typ) {
			return nil, diag.Errorf(op.Loc, diag.TypeMismatch,
				"%s requires all operands and results to have one type, got %s and %s",
				op.Name, typ, operand.Type())
		}
	}
	for _, result := range op.Results {
		if !ir.Equal(result.Type(), typ) {
			return nil, diag.Errorf(op.Loc, diag.TypeMismatch,
				"%s requires all operands and results to have one type, got %s and %s",
				op.Name, typ, result.Type())
		}
	}
	return typ, nil
}

func verifyIntArith(d *Dialect, op *ir.Op) error {
	typ, err := sameOperandResultType(op)
	if err != nil {
		return err
	}
	if !SignlessIntegerLike(typ) {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s requires a signless integer like type, got %s", op.Name, typ)
	}
	return nil
}

func verifyFloatArith(d *Dialect, op *ir.Op) error {
	typ, err := sameOperandResultType(op)
	if err != nil {
		return err
	}
	if !FloatLike(typ) {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s requires a float like type, got %s", op.Name, typ)
	}
	return nil
}

// verifyFastMathAttr checks the optional fastmath attribute: an i64
// integer whose bits name known flags.
func verifyFastMathAttr(op *ir.Op) error {
	attr := op.Attr(AttrFastMath)
	if attr == nil {
		return nil
	}
	intAttr, ok := attr.(ir.IntAttr)
	if !ok || !ir.Equal(intAttr.Type(), ir.IntOf(64)) {
		return diag.Errorf(op.Loc, diag.AttributeMismatch,
			"%s fastmath attribute must be an i64 flag set", op.Name)
	}
	flags := FastMathFlags(intAttr.Unsigned().Uint64())
	if flags&^FMFast != 0 {
		return diag.Errorf(op.Loc, diag.AttributeMismatch,
			"%s fastmath attribute holds unknown flags", op.Name)
	}
	return nil
}

func verifyConstant(d *Dialect, op *ir.Op) error {
	value := op.Attr(AttrValue)
	if value == nil {
		return diag.Errorf(op.Loc, diag.AttributeMismatch,
			"%s requires a value attribute", op.Name)
	}
	typ := op.Results[0].Type()
	if !IsBuildableWith(value, typ) {
		return diag.Errorf(op.Loc, diag.AttributeMismatch,
			"value attribute %s cannot build a constant of type %s", value, typ)
	}
	return nil
}

func verifyAddExtended(d *Dialect, op *ir.Op) error {
	typ := op.Operands[0].Type()
	if !SignlessIntegerLike(typ) {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s requires a signless integer like type, got %s", op.Name, typ)
	}
	if !ir.Equal(op.Operands[1].Type(), typ) || !ir.Equal(op.Results[0].Type(), typ) {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s requires its operands and sum to have one type", op.Name)
	}
	wantOverflow := ir.BoolSameShape(typ)
	if !ir.Equal(op.Results[1].Type(), wantOverflow) {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s overflow result must have type %s, got %s",
			op.Name, wantOverflow, op.Results[1].Type())
	}
	return nil
}

func verifyMulExtended(d *Dialect, op *ir.Op) error {
	typ := op.Operands[0].Type()
	if !SignlessIntegerLike(typ) {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s requires a signless integer like type, got %s", op.Name, typ)
	}
	for _, v := range []*ir.Value{op.Operands[1], op.Results[0], op.Results[1]} {
		if !ir.Equal(v.Type(), typ) {
			return diag.Errorf(op.Loc, diag.TypeMismatch,
				"%s requires its operands and results to have one type, got %s and %s",
				op.Name, typ, v.Type())
		}
	}
	return nil
}

// castTypes returns the input and output type of a cast after checking
// that they agree in shape.
func castTypes(op *ir.Op) (in, out ir.Type, err error) {
	in, out = op.Operands[0].Type(), op.Results[0].Type()
	if !ir.SameShape(in, out) {
		return nil, nil, diag.Errorf(op.Loc, diag.ShapeMismatch,
			"%s requires its input and output to have one shape, got %s and %s",
			op.Name, in, out)
	}
	return in, out, nil
}

// verifyIntCast builds the verifier of an integer extension or
// truncation: both sides are fixed width integer like, and the output
// width is strictly wider (ext) or narrower (trunc) than the input.
func verifyIntCast(ext bool) verifyFn {
	return func(d *Dialect, op *ir.Op) error {
		in, out, err := castTypes(op)
		if err != nil {
			return err
		}
		if !SignlessFixedWidthIntegerLike(in) || !SignlessFixedWidthIntegerLike(out) {
			return diag.Errorf(op.Loc, diag.TypeMismatch,
				"%s requires fixed width integer types, got %s to %s", op.Name, in, out)
		}
		inWidth := ir.ElemOf(in).(ir.IntType).Width
		outWidth := ir.ElemOf(out).(ir.IntType).Width
		if ext && outWidth <= inWidth {
			return diag.Errorf(op.Loc, diag.WidthViolation,
				"%s output width %d must exceed input width %d", op.Name, outWidth, inWidth)
		}
		if !ext && outWidth >= inWidth {
			return diag.Errorf(op.Loc, diag.WidthViolation,
				"%s output width %d must be below input width %d", op.Name, outWidth, inWidth)
		}
		return nil
	}
}

// verifyFloatCast builds the verifier of a float extension or
// truncation, ordered by the storage width of the semantics.
func verifyFloatCast(ext bool) verifyFn {
	return func(d *Dialect, op *ir.Op) error {
		in, out, err := castTypes(op)
		if err != nil {
			return err
		}
		if !FloatLike(in) || !FloatLike(out) {
			return diag.Errorf(op.Loc, diag.TypeMismatch,
				"%s requires float types, got %s to %s", op.Name, in, out)
		}
		inWidth := ir.ElemOf(in).(ir.FloatType).Sem.Width()
		outWidth := ir.ElemOf(out).(ir.FloatType).Sem.Width()
		if ext && outWidth <= inWidth {
			return diag.Errorf(op.Loc, diag.WidthViolation,
				"%s output width %d must exceed input width %d", op.Name, outWidth, inWidth)
		}
		if !ext && outWidth >= inWidth {
			return diag.Errorf(op.Loc, diag.WidthViolation,
				"%s output width %d must be below input width %d", op.Name, outWidth, inWidth)
		}
		return nil
	}
}

// verifyIntToFloat checks uitofp and sitofp.
func verifyIntToFloat(d *Dialect, op *ir.Op) error {
	in, out, err := castTypes(op)
	if err != nil {
		return err
	}
	if !SignlessIntegerLike(in) || !FloatLike(out) {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s casts an integer like type to a float like type, got %s to %s",
			op.Name, in, out)
	}
	return nil
}

// verifyFloatToInt checks fptoui and fptosi.
func verifyFloatToInt(d *Dialect, op *ir.Op) error {
	in, out, err := castTypes(op)
	if err != nil {
		return err
	}
	if !FloatLike(in) || !SignlessIntegerLike(out) {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s casts a float like type to an integer like type, got %s to %s",
			op.Name, in, out)
	}
	return nil
}

// verifyIndexCast checks index_cast and index_castui: both sides are
// integer or index elements and exactly one side is index.
func verifyIndexCast(d *Dialect, op *ir.Op) error {
	in, out, err := castTypes(op)
	if err != nil {
		return err
	}
	if !indexCastElem(in) || !indexCastElem(out) {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s casts between integer and index types, got %s to %s", op.Name, in, out)
	}
	inIndex := ir.ElemOf(in).Kind() == ir.Index
	outIndex := ir.ElemOf(out).Kind() == ir.Index
	if inIndex == outIndex {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s requires exactly one index side, got %s to %s", op.Name, in, out)
	}
	return nil
}

// verifyBitcast checks that the input and output elements are integers
// or floats of one bit width over one shape.
func verifyBitcast(d *Dialect, op *ir.Op) error {
	in, out, err := castTypes(op)
	if err != nil {
		return err
	}
	inWidth, ok := bitcastWidth(in)
	if !ok {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s does not accept type %s", op.Name, in)
	}
	outWidth, ok := bitcastWidth(out)
	if !ok {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s does not accept type %s", op.Name, out)
	}
	if inWidth != outWidth {
		return diag.Errorf(op.Loc, diag.WidthViolation,
			"%s requires equal bit widths, got %s (%d bits) to %s (%d bits)",
			op.Name, in, inWidth, out, outWidth)
	}
	return nil
}

// bitcastWidth returns the storage bit width of a bitcast element.
func bitcastWidth(typ ir.Type) (uint, bool) {
	switch elem := ir.ElemOf(typ).(type) {
	case ir.IntType:
		return elem.Width, true
	case ir.FloatType:
		return elem.Sem.Width(), true
	}
	return 0, false
}

// verifyCmp checks a comparison: operands of one type satisfying the
// given predicate, a boolean result of the operand shape, and a valid
// predicate attribute below limit.
func verifyCmp(typePred func(ir.Type) bool, typeName string, limit uint64) verifyFn {
	return func(d *Dialect, op *ir.Op) error {
		typ := op.Operands[0].Type()
		if !ir.Equal(op.Operands[1].Type(), typ) {
			return diag.Errorf(op.Loc, diag.TypeMismatch,
				"%s requires its operands to have one type, got %s and %s",
				op.Name, typ, op.Operands[1].Type())
		}
		if !typePred(typ) {
			return diag.Errorf(op.Loc, diag.TypeMismatch,
				"%s requires a %s type, got %s", op.Name, typeName, typ)
		}
		wantResult := ir.BoolSameShape(typ)
		if !ir.Equal(op.Results[0].Type(), wantResult) {
			return diag.Errorf(op.Loc, diag.TypeMismatch,
				"%s result must have type %s, got %s",
				op.Name, wantResult, op.Results[0].Type())
		}
		attr, ok := op.Attr(AttrPredicate).(ir.IntAttr)
		if !ok {
			return diag.Errorf(op.Loc, diag.AttributeMismatch,
				"%s requires an integer predicate attribute", op.Name)
		}
		if pred := attr.Unsigned(); !pred.IsUint64() || pred.Uint64() >= limit {
			return diag.Errorf(op.Loc, diag.AttributeMismatch,
				"%s predicate %s is out of range", op.Name, pred)
		}
		return nil
	}
}

// verifySelect checks the condition against the chosen values: the two
// values and the result share one type, and the condition is either a
// scalar i1 or a boolean carrying the result shape.
func verifySelect(d *Dialect, op *ir.Op) error {
	cond := op.Operands[0].Type()
	typ := op.Operands[1].Type()
	if !ir.Equal(op.Operands[2].Type(), typ) || !ir.Equal(op.Results[0].Type(), typ) {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s requires its values and result to have one type", op.Name)
	}
	if !BoolLike(cond) {
		return diag.Errorf(op.Loc, diag.TypeMismatch,
			"%s condition must be boolean, got %s", op.Name, cond)
	}
	if ir.IsShaped(cond) && !ir.Equal(cond, ir.BoolSameShape(typ)) {
		return diag.Errorf(op.Loc, diag.ShapeMismatch,
			"%s shaped condition must have type %s, got %s",
			op.Name, ir.BoolSameShape(typ), cond)
	}
	return nil
}
