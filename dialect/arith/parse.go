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

	"github.com/mlir-go/mlir/base/ordered"
	"github.com/mlir-go/mlir/base/uname"
	"github.com/mlir-go/mlir/diag"
	"github.com/mlir-go/mlir/ir"
)

// Scope resolves value names while parsing a sequence of operations.
type Scope struct {
	values *ordered.Map[string, *ir.Value]
	names  *uname.Unique
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{
		values: ordered.NewMap[string, *ir.Value](),
		names:  uname.New(),
	}
}

// Define binds a name to a value. A later binding of the same name
// shadows the earlier one.
func (s *Scope) Define(name string, v *ir.Value) {
	s.values.Store(name, v)
	s.names.Name(name)
}

// FreshName returns a value name not bound in the scope, derived from
// the given base name. Hosts use it to name results of operations they
// insert themselves.
func (s *Scope) FreshName(base string) string {
	for {
		name := s.names.Name(base)
		if _, taken := s.values.Load(name); !taken {
			return name
		}
	}
}

// Lookup returns the value bound to a name.
func (s *Scope) Lookup(name string) (*ir.Value, bool) {
	return s.values.Load(name)
}

// ParseOp parses one operation from its textual form. Operand
// references are resolved through the scope; result values are
// defined in it. The returned operation is not verified.
func (d *Dialect) ParseOp(src string, scope *Scope) (*ir.Op, error) {
	op, err := d.parseOp(src, scope)
	if err != nil {
		err = diag.Wrap(ir.Location{}, diag.ParseError, err)
		d.sink.Report(err)
		return nil, err
	}
	return op, nil
}

func (d *Dialect) parseOp(src string, scope *Scope) (*ir.Op, error) {
	sc := ir.NewScanner(src)
	names, err := parseResultNames(sc)
	if err != nil {
		return nil, err
	}
	mnemonic, err := sc.Ident()
	if err != nil {
		return nil, err
	}
	kind := KindFromMnemonic(mnemonic)
	if kind == OpInvalid {
		return nil, errors.Errorf("unknown operation %q", mnemonic)
	}
	info := opInfos[kind]
	if len(names) != info.results {
		return nil, errors.Errorf("%s expects %d results, got %d", mnemonic, info.results, len(names))
	}
	var op *ir.Op
	switch info.format {
	case formatConstant:
		op, err = parseConstant(sc)
	case formatUnary:
		op, err = d.parseElementwise(sc, scope, kind, 1)
	case formatBinary:
		op, err = d.parseElementwise(sc, scope, kind, 2)
	case formatCast:
		op, err = d.parseCast(sc, scope, kind)
	case formatCompare:
		op, err = d.parseCompare(sc, scope, kind)
	case formatAddExtended:
		op, err = d.parseAddExtended(sc, scope, kind)
	case formatMulExtended:
		op, err = d.parseMulExtended(sc, scope, kind)
	case formatSelect:
		op, err = d.parseSelect(sc, scope, kind)
	}
	if err != nil {
		return nil, err
	}
	if !sc.EOF() {
		return nil, errors.Errorf("trailing characters after %s", mnemonic)
	}
	for i, name := range names {
		op.Results[i].SetName(name)
		scope.Define(name, op.Results[i])
	}
	return op, nil
}

// parseResultNames reads the %name list left of the equal sign.
func parseResultNames(sc *ir.Scanner) ([]string, error) {
	names := []string{}
	if sc.Peek() != '%' {
		return names, nil
	}
	for {
		name, err := parseValueName(sc)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !sc.Consume(",") {
			break
		}
	}
	return names, sc.Expect('=')
}

func parseValueName(sc *ir.Scanner) (string, error) {
	if err := sc.Expect('%'); err != nil {
		return "", err
	}
	return sc.Ident()
}

// parseOperand reads a %name reference and resolves it.
func parseOperand(sc *ir.Scanner, scope *Scope) (*ir.Value, error) {
	name, err := parseValueName(sc)
	if err != nil {
		return nil, err
	}
	v, ok := scope.Lookup(name)
	if !ok {
		return nil, errors.Errorf("unknown value %%%s", name)
	}
	return v, nil
}

func parseOperands(sc *ir.Scanner, scope *Scope, count int) ([]*ir.Value, error) {
	operands := make([]*ir.Value, count)
	for i := range operands {
		if i > 0 {
			if err := sc.Expect(','); err != nil {
				return nil, err
			}
		}
		operand, err := parseOperand(sc, scope)
		if err != nil {
			return nil, err
		}
		operands[i] = operand
	}
	return operands, nil
}

// parseFastMath reads an optional fastmath<...> clause.
func parseFastMath(sc *ir.Scanner) (FastMathFlags, error) {
	if !sc.Consume("fastmath") {
		return FMNone, nil
	}
	if err := sc.Expect('<'); err != nil {
		return FMNone, err
	}
	spelled := ""
	for {
		flag, err := sc.Ident()
		if err != nil {
			return FMNone, err
		}
		spelled += flag
		if !sc.Consume(",") {
			break
		}
		spelled += ","
	}
	if err := sc.Expect('>'); err != nil {
		return FMNone, err
	}
	return ParseFastMathFlags(spelled)
}

func parseConstant(sc *ir.Scanner) (*ir.Op, error) {
	attr, err := ir.ParseAttrFrom(sc)
	if err != nil {
		return nil, err
	}
	return NewConstant(ir.Location{}, attr), nil
}

// parseElementwise reads the operands and the shared type of an
// elementwise operation: %a[, %b] [fastmath<...>] : type.
func (d *Dialect) parseElementwise(sc *ir.Scanner, scope *Scope, kind OpKind, arity int) (*ir.Op, error) {
	operands, err := parseOperands(sc, scope, arity)
	if err != nil {
		return nil, err
	}
	flags, err := parseFastMath(sc)
	if err != nil {
		return nil, err
	}
	if err := sc.Expect(':'); err != nil {
		return nil, err
	}
	typ, err := ir.ParseTypeFrom(sc)
	if err != nil {
		return nil, err
	}
	op := NewOp(kind, ir.Location{}, operands, []ir.Type{typ})
	SetFastMath(op, flags)
	return op, nil
}

func (d *Dialect) parseCast(sc *ir.Scanner, scope *Scope, kind OpKind) (*ir.Op, error) {
	operand, err := parseOperand(sc, scope)
	if err != nil {
		return nil, err
	}
	if err := sc.Expect(':'); err != nil {
		return nil, err
	}
	inType, err := ir.ParseTypeFrom(sc)
	if err != nil {
		return nil, err
	}
	if !ir.Equal(operand.Type(), inType) {
		return nil, errors.Errorf("operand %s has type %s, not %s", operand, operand.Type(), inType)
	}
	if !sc.Consume("to") {
		return nil, errors.Errorf("expected the to keyword in a cast")
	}
	outType, err := ir.ParseTypeFrom(sc)
	if err != nil {
		return nil, err
	}
	return NewOp(kind, ir.Location{}, []*ir.Value{operand}, []ir.Type{outType}), nil
}

func (d *Dialect) parseCompare(sc *ir.Scanner, scope *Scope, kind OpKind) (*ir.Op, error) {
	keyword, err := sc.Ident()
	if err != nil {
		return nil, err
	}
	var pred uint64
	if kind == OpCmpI {
		p, err := CmpIPredicateFromString(keyword)
		if err != nil {
			return nil, err
		}
		pred = uint64(p)
	} else {
		p, err := CmpFPredicateFromString(keyword)
		if err != nil {
			return nil, err
		}
		pred = uint64(p)
	}
	if err := sc.Expect(','); err != nil {
		return nil, err
	}
	operands, err := parseOperands(sc, scope, 2)
	if err != nil {
		return nil, err
	}
	flags, err := parseFastMath(sc)
	if err != nil {
		return nil, err
	}
	if err := sc.Expect(':'); err != nil {
		return nil, err
	}
	typ, err := ir.ParseTypeFrom(sc)
	if err != nil {
		return nil, err
	}
	op := NewOp(kind, ir.Location{}, operands, []ir.Type{ir.BoolSameShape(typ)})
	op.SetAttr(AttrPredicate, predicateAttr(pred))
	SetFastMath(op, flags)
	return op, nil
}

func (d *Dialect) parseAddExtended(sc *ir.Scanner, scope *Scope, kind OpKind) (*ir.Op, error) {
	operands, err := parseOperands(sc, scope, 2)
	if err != nil {
		return nil, err
	}
	if err := sc.Expect(':'); err != nil {
		return nil, err
	}
	sumType, err := ir.ParseTypeFrom(sc)
	if err != nil {
		return nil, err
	}
	if err := sc.Expect(','); err != nil {
		return nil, err
	}
	overflowType, err := ir.ParseTypeFrom(sc)
	if err != nil {
		return nil, err
	}
	return NewOp(kind, ir.Location{}, operands, []ir.Type{sumType, overflowType}), nil
}

func (d *Dialect) parseMulExtended(sc *ir.Scanner, scope *Scope, kind OpKind) (*ir.Op, error) {
	operands, err := parseOperands(sc, scope, 2)
	if err != nil {
		return nil, err
	}
	if err := sc.Expect(':'); err != nil {
		return nil, err
	}
	typ, err := ir.ParseTypeFrom(sc)
	if err != nil {
		return nil, err
	}
	return NewOp(kind, ir.Location{}, operands, []ir.Type{typ, typ}), nil
}

func (d *Dialect) parseSelect(sc *ir.Scanner, scope *Scope, kind OpKind) (*ir.Op, error) {
	operands, err := parseOperands(sc, scope, 3)
	if err != nil {
		return nil, err
	}
	if err := sc.Expect(':'); err != nil {
		return nil, err
	}
	typ, err := ir.ParseTypeFrom(sc)
	if err != nil {
		return nil, err
	}
	if sc.Consume(",") {
		// The first type was the shaped condition type.
		if !ir.Equal(operands[0].Type(), typ) {
			return nil, errors.Errorf("condition %s has type %s, not %s",
				operands[0], operands[0].Type(), typ)
		}
		typ, err = ir.ParseTypeFrom(sc)
		if err != nil {
			return nil, err
		}
	}
	return NewOp(kind, ir.Location{}, operands, []ir.Type{typ}), nil
}
