// Package shape implements the broadcasting, row-iteration,
// proxy-cell, and fill-reconciliation algebra spec.md component B
// describes: everything the dispatcher and slow-path driver need to
// know about how two differently-shaped operands line up.
package shape

import "vectra/internal/value"

// FillContext is the subset of the interpreter context the shape
// algebra needs: a scalar fill value per element kind, each reported
// present/absent. package ctx's Context satisfies this structurally.
type FillContext interface {
	NumFill() (float64, bool)
	ByteFill() (byte, bool)
	CharFill() (rune, bool)
	ComplexFill() (complex128, bool)
	BoxFill() (value.Boxed, bool)
}

// fills resolves every configured fill into a value.Fills, defaulting
// unconfigured kinds to the zero value — safe for proxy-cell
// construction, where the content is discarded and only the shape
// matters.
func fills(ctx FillContext) value.Fills {
	var f value.Fills
	if n, ok := ctx.NumFill(); ok {
		f.Num = n
	}
	if b, ok := ctx.ByteFill(); ok {
		f.Byte = b
	}
	if c, ok := ctx.CharFill(); ok {
		f.Char = c
	}
	if z, ok := ctx.ComplexFill(); ok {
		f.Complex = z
	}
	if x, ok := ctx.BoxFill(); ok {
		f.Box = x
	}
	return f
}

// kindFillConfigured reports whether ctx has a fill for v's kind, used
// by FillLengthTo to decide between reconciling and reporting
// FillMissing.
func kindFillConfigured(ctx FillContext, kind value.Kind) bool {
	switch kind {
	case value.KindNum:
		_, ok := ctx.NumFill()
		return ok
	case value.KindByte:
		_, ok := ctx.ByteFill()
		return ok
	case value.KindChar:
		_, ok := ctx.CharFill()
		return ok
	case value.KindComplex:
		_, ok := ctx.ComplexFill()
		return ok
	case value.KindBox:
		_, ok := ctx.BoxFill()
		return ok
	default:
		return false
	}
}
