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

// Package diag formats and accumulates diagnostics emitted while
// verifying, parsing, or transforming IR.
//
// Every diagnostic carries the location of the operation it refers to
// and a kind classifying the failure. Diagnostics are both reported to
// a Sink and returned to the caller as errors.
package diag

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/mlir-go/mlir/ir"
)

// Kind classifies a diagnostic.
type Kind int

// Kinds of diagnostics.
const (
	// TypeMismatch reports an operand or result violating the type
	// predicate declared by its operation.
	TypeMismatch Kind = iota
	// ShapeMismatch reports elementwise operands disagreeing in shape.
	ShapeMismatch
	// WidthViolation reports a cast violating its strict bit width
	// inequality.
	WidthViolation
	// AttributeMismatch reports a missing or ill-typed attribute.
	AttributeMismatch
	// ArityMismatch reports a wrong operand or result count.
	ArityMismatch
	// ParseError reports a malformed textual form.
	ParseError
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case ShapeMismatch:
		return "shape mismatch"
	case WidthViolation:
		return "width violation"
	case AttributeMismatch:
		return "attribute mismatch"
	case ArityMismatch:
		return "arity mismatch"
	case ParseError:
		return "parse error"
	}
	return "unknown"
}

type (
	// ErrorWithLoc is an error attached to a location in the IR.
	ErrorWithLoc interface {
		error
		Loc() ir.Location
		Kind() Kind
		Unwrap() error
	}

	errorWithLoc struct {
		loc  ir.Location
		kind Kind
		err  error
	}
)

var _ ErrorWithLoc = (*errorWithLoc)(nil)

// Errorf returns a formatted diagnostic attached to a location.
func Errorf(loc ir.Location, kind Kind, format string, a ...any) error {
	return &errorWithLoc{loc: loc, kind: kind, err: errors.Errorf(format, a...)}
}

// Wrap attaches a location and a kind to an existing error.
func Wrap(loc ir.Location, kind Kind, err error) error {
	return &errorWithLoc{loc: loc, kind: kind, err: err}
}

// Error returns a string description of the diagnostic.
func (e *errorWithLoc) Error() string {
	return e.loc.String() + ": " + e.err.Error()
}

// Loc returns the location the diagnostic refers to.
func (e *errorWithLoc) Loc() ir.Location { return e.loc }

// Kind returns the classification of the diagnostic.
func (e *errorWithLoc) Kind() Kind { return e.kind }

// Unwrap returns the underlying error.
func (e *errorWithLoc) Unwrap() error { return e.err }

// KindOf returns the kind of a diagnostic, or false if the error does
// not carry one.
func KindOf(err error) (Kind, bool) {
	var withLoc *errorWithLoc
	if !stderrors.As(err, &withLoc) {
		return 0, false
	}
	return withLoc.kind, true
}

// Sink receives diagnostics as they are produced.
// Implementations must be safe for concurrent use.
type Sink interface {
	Report(err error)
}

type discard struct{}

func (discard) Report(error) {}

// Discard is a sink dropping all diagnostics.
var Discard Sink = discard{}

// Errors accumulates a set of diagnostics.
type Errors struct {
	err error
}

// Append adds an error to the set. Nil errors are ignored.
// It always returns false so that callers can report and abort in one
// statement.
func (errs *Errors) Append(err error) bool {
	errs.err = multierr.Append(errs.err, err)
	return false
}

// Empty returns true if no error has been collected.
func (errs *Errors) Empty() bool { return errs.err == nil }

// Err returns all collected errors as a single error, or nil.
func (errs *Errors) Err() error { return errs.err }

// Errors returns the list of all collected errors.
func (errs *Errors) Errors() []error { return multierr.Errors(errs.err) }
