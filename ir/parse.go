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
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Scanner reads tokens of the textual IR from a string.
type Scanner struct {
	src string
	pos int
}

// NewScanner returns a scanner over a source string.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Pos returns the current byte offset in the source.
func (sc *Scanner) Pos() int { return sc.pos }

// EOF returns true if only white space is left.
func (sc *Scanner) EOF() bool {
	sc.SkipSpace()
	return sc.pos >= len(sc.src)
}

// SkipSpace advances past white space.
func (sc *Scanner) SkipSpace() {
	for sc.pos < len(sc.src) && (sc.src[sc.pos] == ' ' || sc.src[sc.pos] == '\t') {
		sc.pos++
	}
}

// Peek returns the next character without consuming it,
// or 0 at the end of the source.
func (sc *Scanner) Peek() byte {
	sc.SkipSpace()
	if sc.pos >= len(sc.src) {
		return 0
	}
	return sc.src[sc.pos]
}

// Next consumes and returns the next character.
func (sc *Scanner) Next() byte {
	ch := sc.Peek()
	if ch != 0 {
		sc.pos++
	}
	return ch
}

// Expect consumes the next character and errors if it is not ch.
func (sc *Scanner) Expect(ch byte) error {
	got := sc.Next()
	if got != ch {
		return errors.Errorf("expected %q but got %q", string(ch), string(got))
	}
	return nil
}

// Consume advances past the given literal string if it is next.
// A literal ending in an identifier character only matches on an
// identifier boundary, so that a keyword such as "to" does not eat
// the head of an identifier like "total".
func (sc *Scanner) Consume(lit string) bool {
	sc.SkipSpace()
	if !strings.HasPrefix(sc.src[sc.pos:], lit) {
		return false
	}
	end := sc.pos + len(lit)
	if lit != "" && isIdentChar(lit[len(lit)-1]) && end < len(sc.src) && isIdentChar(sc.src[end]) {
		return false
	}
	sc.pos = end
	return true
}

func isIdentChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' ||
		ch >= '0' && ch <= '9' || ch == '_' || ch == '.'
}

// Ident reads an identifier. Identifiers may contain dots so that a
// full mnemonic such as arith.addi is a single token.
func (sc *Scanner) Ident() (string, error) {
	sc.SkipSpace()
	start := sc.pos
	for sc.pos < len(sc.src) && isIdentChar(sc.src[sc.pos]) {
		sc.pos++
	}
	if sc.pos == start {
		return "", errors.Errorf("expected an identifier at offset %d", start)
	}
	return sc.src[start:sc.pos], nil
}

// Number reads an integer or floating point literal.
// It returns the literal text and whether it is a float.
func (sc *Scanner) Number() (string, bool, error) {
	sc.SkipSpace()
	start := sc.pos
	if sc.pos < len(sc.src) && sc.src[sc.pos] == '-' {
		sc.pos++
	}
	digits := 0
	for sc.pos < len(sc.src) && sc.src[sc.pos] >= '0' && sc.src[sc.pos] <= '9' {
		sc.pos++
		digits++
	}
	if digits == 0 {
		return "", false, errors.Errorf("expected a number at offset %d", start)
	}
	isFloat := false
	if sc.pos < len(sc.src) && sc.src[sc.pos] == '.' {
		isFloat = true
		sc.pos++
		for sc.pos < len(sc.src) && sc.src[sc.pos] >= '0' && sc.src[sc.pos] <= '9' {
			sc.pos++
		}
	}
	if sc.pos < len(sc.src) && (sc.src[sc.pos] == 'e' || sc.src[sc.pos] == 'E') {
		isFloat = true
		sc.pos++
		if sc.pos < len(sc.src) && (sc.src[sc.pos] == '+' || sc.src[sc.pos] == '-') {
			sc.pos++
		}
		for sc.pos < len(sc.src) && sc.src[sc.pos] >= '0' && sc.src[sc.pos] <= '9' {
			sc.pos++
		}
	}
	return sc.src[start:sc.pos], isFloat, nil
}

// semanticsFromKeyword maps a float type keyword to its semantics.
func semanticsFromKeyword(kw string) (FloatSemantics, bool) {
	for _, sem := range []FloatSemantics{BF16, F16, F32, F64, F80, F128} {
		if sem.String() == kw {
			return sem, true
		}
	}
	return 0, false
}

// ParseType parses a type from its textual form.
func ParseType(src string) (Type, error) {
	sc := NewScanner(src)
	typ, err := ParseTypeFrom(sc)
	if err != nil {
		return nil, err
	}
	if !sc.EOF() {
		return nil, errors.Errorf("trailing characters after type %q", src)
	}
	return typ, nil
}

// ParseTypeFrom parses a type starting at the scanner position.
func ParseTypeFrom(sc *Scanner) (Type, error) {
	kw, err := sc.Ident()
	if err != nil {
		return nil, err
	}
	switch {
	case kw == "index":
		return IndexType{}, nil
	case len(kw) > 1 && kw[0] == 'i':
		width, err := strconv.ParseUint(kw[1:], 10, 32)
		if err != nil || width == 0 {
			return nil, errors.Errorf("invalid integer type %q", kw)
		}
		return IntType{Width: uint(width)}, nil
	case kw == "vector" || kw == "tensor" || kw == "memref":
		dims, elem, err := parseShaped(sc)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s type", kw)
		}
		switch kw {
		case "vector":
			return VectorType{DimsT: dims, ElemT: elem}, nil
		case "tensor":
			return TensorType{DimsT: dims, ElemT: elem}, nil
		default:
			return MemRefType{DimsT: dims, ElemT: elem}, nil
		}
	}
	if sem, ok := semanticsFromKeyword(kw); ok {
		return FloatType{Sem: sem}, nil
	}
	return nil, errors.Errorf("unknown type %q", kw)
}

// parseShaped parses the <dims x elem> clause of a shaped type.
// Dimensions are integers or ? for a dynamic size, separated by x.
func parseShaped(sc *Scanner) ([]int64, Type, error) {
	if err := sc.Expect('<'); err != nil {
		return nil, nil, err
	}
	dims := []int64{}
	for {
		if sc.Peek() == '?' {
			sc.Next()
			if err := sc.Expect('x'); err != nil {
				return nil, nil, err
			}
			dims = append(dims, DynamicSize)
			continue
		}
		if ch := sc.Peek(); ch < '0' || ch > '9' {
			break
		}
		lit, isFloat, err := sc.Number()
		if err != nil {
			return nil, nil, err
		}
		if isFloat {
			return nil, nil, errors.Errorf("invalid dimension %q", lit)
		}
		dim, err := strconv.ParseInt(lit, 10, 64)
		if err != nil || dim < 0 {
			return nil, nil, errors.Errorf("invalid dimension %q", lit)
		}
		if err := sc.Expect('x'); err != nil {
			return nil, nil, err
		}
		dims = append(dims, dim)
	}
	elem, err := ParseTypeFrom(sc)
	if err != nil {
		return nil, nil, err
	}
	switch elem.Kind() {
	case Int, Index, Float:
	default:
		return nil, nil, errors.Errorf("invalid element type %s", elem)
	}
	return dims, elem, sc.Expect('>')
}

// ParseAttr parses an attribute from its textual form, including its
// type clause.
func ParseAttr(src string) (Attribute, error) {
	sc := NewScanner(src)
	attr, err := ParseAttrFrom(sc)
	if err != nil {
		return nil, err
	}
	if !sc.EOF() {
		return nil, errors.Errorf("trailing characters after attribute %q", src)
	}
	return attr, nil
}

// ParseAttrFrom parses an attribute starting at the scanner position.
func ParseAttrFrom(sc *Scanner) (Attribute, error) {
	if sc.Consume("true") {
		return NewBoolAttr(true), nil
	}
	if sc.Consume("false") {
		return NewBoolAttr(false), nil
	}
	if sc.Consume("dense") {
		return parseSplat(sc)
	}
	lit, err := parseScalarLiteral(sc)
	if err != nil {
		return nil, err
	}
	if err := sc.Expect(':'); err != nil {
		return nil, err
	}
	typ, err := ParseTypeFrom(sc)
	if err != nil {
		return nil, err
	}
	return litToAttr(lit, typ)
}

type scalarLiteral struct {
	text    string
	isFloat bool
	isNaN   bool
	inf     int
}

func parseScalarLiteral(sc *Scanner) (scalarLiteral, error) {
	if sc.Consume("nan") {
		return scalarLiteral{isNaN: true}, nil
	}
	if sc.Consume("inf") {
		return scalarLiteral{inf: 1}, nil
	}
	if sc.Consume("-inf") {
		return scalarLiteral{inf: -1}, nil
	}
	text, isFloat, err := sc.Number()
	if err != nil {
		return scalarLiteral{}, err
	}
	return scalarLiteral{text: text, isFloat: isFloat}, nil
}

func litToAttr(lit scalarLiteral, typ Type) (Attribute, error) {
	switch typT := typ.(type) {
	case FloatType:
		if lit.isNaN {
			return NaN(typT), nil
		}
		if lit.inf != 0 {
			return NewFloatAttr(typT, new(big.Float).SetInf(lit.inf < 0)), nil
		}
		val, _, err := big.ParseFloat(lit.text, 10, typT.Sem.Precision(), big.ToNearestEven)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid float literal %q", lit.text)
		}
		return NewFloatAttr(typT, val), nil
	case IntType, IndexType:
		if lit.isFloat || lit.isNaN || lit.inf != 0 {
			return nil, errors.Errorf("integer type %s with float literal", typ)
		}
		val, ok := new(big.Int).SetString(lit.text, 10)
		if !ok {
			return nil, errors.Errorf("invalid integer literal %q", lit.text)
		}
		return NewIntAttr(typ, val), nil
	}
	return nil, errors.Errorf("type %s cannot hold a scalar literal", typ)
}

// parseSplat parses the remainder of a dense<elem> : shaped-type splat
// attribute after the dense keyword.
func parseSplat(sc *Scanner) (Attribute, error) {
	if err := sc.Expect('<'); err != nil {
		return nil, err
	}
	var lit scalarLiteral
	var err error
	isBool, boolVal := false, false
	if sc.Consume("true") {
		isBool, boolVal = true, true
	} else if sc.Consume("false") {
		isBool = true
	} else if lit, err = parseScalarLiteral(sc); err != nil {
		return nil, err
	}
	if err := sc.Expect('>'); err != nil {
		return nil, err
	}
	if err := sc.Expect(':'); err != nil {
		return nil, err
	}
	typ, err := ParseTypeFrom(sc)
	if err != nil {
		return nil, err
	}
	shaped, ok := typ.(ShapedType)
	if !ok {
		return nil, errors.Errorf("dense attribute requires a shaped type, got %s", typ)
	}
	if isBool {
		if !Equal(shaped.Elem(), BoolType()) {
			return nil, errors.Errorf("boolean splat for element type %s", shaped.Elem())
		}
		return NewSplatAttr(shaped, NewBoolAttr(boolVal)), nil
	}
	elem, err := litToAttr(lit, shaped.Elem())
	if err != nil {
		return nil, err
	}
	return NewSplatAttr(shaped, elem), nil
}
