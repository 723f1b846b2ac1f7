// Package zerr defines the error kinds the zip/broadcast engine can
// surface to its caller, each carrying the span of the modifier
// (each, rows, rows_windows) that raised it.
package zerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies an engine error. The set is closed: the engine never
// invents new kinds at runtime.
type Kind string

const (
	ShapeMismatch    Kind = "ShapeMismatch"
	FillMissing      Kind = "FillMissing"
	ArityError       Kind = "ArityError"
	WindowSize       Kind = "WindowSize"
	UserError        Kind = "UserError"
	InternalInvariant Kind = "InternalInvariant"
)

// Span identifies the originating modifier call for diagnostics. It is
// an opaque index into whatever span table the surrounding interpreter
// keeps; the engine never interprets it beyond carrying it along.
type Span int

// NoSpan marks an error raised outside any modifier call.
const NoSpan Span = -1

// Error is the concrete error type every engine failure path returns.
type Error struct {
	Kind    Kind
	Message string
	Span    Span

	// ShapeA / ShapeB are populated for ShapeMismatch.
	ShapeA []int
	ShapeB []int

	// ElemType is populated for FillMissing.
	ElemType string

	// Inner wraps the causing error for UserError (and, via Wrap, any
	// kind that needs to preserve an underlying cause).
	Inner error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Span != NoSpan {
		fmt.Fprintf(&sb, " (at span %d)", e.Span)
	}
	if e.Inner != nil {
		fmt.Fprintf(&sb, ": %v", e.Inner)
	}
	return sb.String()
}

// Unwrap lets errors.Is/errors.As see through UserError to its cause.
func (e *Error) Unwrap() error { return e.Inner }

// NewShapeMismatch reports two shapes that could not be broadcast
// together, even after fill reconciliation was attempted.
func NewShapeMismatch(span Span, a, b []int) *Error {
	return &Error{
		Kind: ShapeMismatch,
		Message: fmt.Sprintf("shapes %v and %v are not compatible for broadcasting",
			a, b),
		Span:   span,
		ShapeA: append([]int(nil), a...),
		ShapeB: append([]int(nil), b...),
	}
}

// NewFillMissing reports that length reconciliation needed a fill value
// of elemType but the context had none configured.
func NewFillMissing(span Span, elemType string) *Error {
	return &Error{
		Kind:     FillMissing,
		Message:  fmt.Sprintf("no fill configured to reconcile %s arrays of different lengths", elemType),
		Span:     span,
		ElemType: elemType,
	}
}

// NewArityError reports a modifier invoked with a function of an
// incompatible signature (e.g. rows_windows with a non-unary function).
func NewArityError(span Span, message string) *Error {
	return &Error{Kind: ArityError, Message: message, Span: span}
}

// NewWindowSize reports a zero or otherwise invalid window size.
func NewWindowSize(span Span, message string) *Error {
	return &Error{Kind: WindowSize, Message: message, Span: span}
}

// NewUserError wraps an error raised by the called function, propagated
// verbatim (message preserved, cause chain preserved via Unwrap).
func NewUserError(span Span, cause error) *Error {
	return &Error{
		Kind:    UserError,
		Message: cause.Error(),
		Span:    span,
		Inner:   errors.WithStack(cause),
	}
}

// NewInternalInvariant reports a condition the engine's own contracts
// guarantee can't happen (e.g. an unfixable rank-0 proxy). Fatal: there
// is no recovery path for it at the call site.
func NewInternalInvariant(message string) *Error {
	return &Error{Kind: InternalInvariant, Message: message, Span: NoSpan}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
