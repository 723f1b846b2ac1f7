package slowpath

import (
	"vectra/internal/ctx"
	"vectra/internal/instr"
	"vectra/internal/value"
	"vectra/internal/zerr"
)

// isBoxPrimitive reports whether f's body is exactly the Box
// primitive applied to one argument — the shape RowsWindows special-
// cases to skip Rows1 entirely (SPEC_FULL.md "rows_windows' primitive-
// Box bypass").
func isBoxPrimitive(f *instr.Function) bool {
	body := f.Instrs()
	if len(body) != 1 || f.Sig.Args != 1 {
		return false
	}
	p, ok := body[0].(instr.Prim)
	return ok && p.P == instr.BoxPrim
}

// RowsWindows slides a window of n rows across v's leading axis,
// calling f once per window position. The window length is the first
// element of windowSize: a scalar and a non-scalar windowSize take the
// same path, the remaining elements of a non-scalar windowSize are
// ignored, and no multi-axis windows are computed.
func RowsWindows(c ctx.Context, f *instr.Function, windowSize value.Value, v value.Value, span zerr.Span) (value.Value, error) {
	n, err := windowLen(windowSize, span)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, zerr.NewWindowSize(span, "window size must be positive")
	}
	count := v.RowCount() - n + 1
	if count < 0 {
		count = 0
	}

	if isBoxPrimitive(f) {
		boxes := make([]value.Value, count)
		for i := 0; i < count; i++ {
			boxes[i] = value.Box(value.SliceRows(v, i, i+n))
		}
		return value.FromRowValues(boxes)
	}

	results := make([]value.Value, count)
	for i := 0; i < count; i++ {
		window := value.SliceRows(v, i, i+n)
		r, err := call1(c, f, window, span)
		if err != nil {
			return nil, err
		}
		results[i] = r
	}
	return value.FromRowValues(results)
}

// windowLen extracts the leading window-size integer from windowSize,
// which is either a rank-0 scalar or (per the general path) a
// non-scalar array whose first element stands in for the row-window
// length.
func windowLen(windowSize value.Value, span zerr.Span) (int, error) {
	nv, ok := windowSize.(value.NumValue)
	if !ok {
		return 0, zerr.NewWindowSize(span, "window size must be numeric")
	}
	data := nv.Arr.Data()
	if len(data) == 0 {
		return 0, zerr.NewWindowSize(span, "window size array is empty")
	}
	return int(data[0]), nil
}
