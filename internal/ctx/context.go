package ctx

import (
	"vectra/internal/instr"
	"vectra/internal/value"
	"vectra/internal/zerr"
)

// Context is the subset of interpreter operations the dispatcher and
// slow-path driver borrow for the duration of a modifier call
// (spec.md §6): a value/function stack, a call mechanism, span
// bookkeeping, and per-kind fill configuration. It satisfies
// shape.FillContext structurally.
type Context interface {
	Push(value.Value)
	Pop() (value.Value, error)
	PopFunction() (*instr.Function, error)

	// Call invokes f with exactly f.Signature().Args values popped from
	// the stack (already pushed by the caller) and returns its outputs.
	Call(f *instr.Function) ([]value.Value, error)

	// CallMaintainSig calls f but tolerates it failing (e.g. on a
	// synthetic proxy cell) when ctx.ProxyCallTolerance() is set,
	// substituting a zero-valued placeholder per output instead of
	// propagating the error (SPEC_FULL.md "Output-signature tolerance").
	CallMaintainSig(f *instr.Function) ([]value.Value, error)

	WithSpan(zerr.Span) Context
	Span() zerr.Span

	// WithoutFill returns a Context with no fill configured, used while
	// recursing into a nested modifier call so an outer fill doesn't
	// leak into an inner one that didn't ask for it.
	WithoutFill() Context

	NumFill() (float64, bool)
	ByteFill() (byte, bool)
	CharFill() (rune, bool)
	ComplexFill() (complex128, bool)
	BoxFill() (value.Boxed, bool)

	ProxyCallTolerance() bool
}

// Closure is the Go-level body a Function's hash is registered against
// in a RefContext: given popped argument values (in push order), return
// its output values (in push order).
type Closure func(args []value.Value) ([]value.Value, error)
