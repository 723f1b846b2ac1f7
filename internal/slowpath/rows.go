package slowpath

import (
	"vectra/internal/ctx"
	"vectra/internal/instr"
	"vectra/internal/shape"
	"vectra/internal/value"
	"vectra/internal/zerr"
)

// Rows1Multi generalizes Rows1 to f.Sig.Outputs result streams: applies
// f to every row of v, rejoining each output position's per-row results
// along a new leading axis (spec.md §4.F "collect f.outputs result
// streams"). A rank-0 operand has no rows to speak of — Array[T] treats
// it as a single implicit row, which the loop below handles correctly
// by running once, but the caller meant "apply f to the whole scalar,"
// so every output gets undo_fix'd before returning ("for scalar input,
// treat as a single row and undo_fix the output", spec.md §4.F).
func Rows1Multi(c ctx.Context, f *instr.Function, v value.Value, inv bool, span zerr.Span) ([]value.Value, error) {
	outputs := f.Sig.Outputs
	scalar := v.Rank() == 0
	if v.RowCount() == 0 {
		proxy := shape.ProxyRow(v, c)
		c.Push(value.UnboxedIf(proxy, inv))
		outs, err := c.CallMaintainSig(f)
		if err != nil {
			return nil, zerr.NewUserError(span, err)
		}
		results := make([]value.Value, outputs)
		for i, o := range outs {
			out := value.BoxedIf(o, inv)
			results[i] = value.Empty(out.Kind(), append([]int{0}, out.Shape()...))
		}
		return results, nil
	}
	n := v.RowCount()
	streams := make([][]value.Value, outputs)
	for i := 0; i < n; i++ {
		row := value.UnboxedIf(value.Row(v, i), inv)
		outs, err := call1Outs(c, f, row, span)
		if err != nil {
			return nil, err
		}
		for j, o := range outs {
			streams[j] = append(streams[j], value.BoxedIf(o, inv))
		}
	}
	results := make([]value.Value, outputs)
	for j, stream := range streams {
		joined, err := value.FromRowValues(stream)
		if err != nil {
			return nil, err
		}
		if scalar {
			joined = joined.UndoFix()
		}
		results[j] = joined
	}
	return results, nil
}

// Rows1 applies f to every row of v (shape[1:]-shaped sub-values),
// rejoining the per-row results along a new leading axis. inv selects
// rows' box-inverting mode: each input row is unboxed before the call
// and each output row is boxed after, the discipline zip.rs's
// rows_inv flag implements.
func Rows1(c ctx.Context, f *instr.Function, v value.Value, inv bool, span zerr.Span) (value.Value, error) {
	results, err := Rows1Multi(c, f, v, inv, span)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// Rows2 zips rows of a and b pairwise. When row counts differ, it
// first tries the singleton short-circuit (SPEC_FULL.md "rows2's
// singleton-side short-circuit"): a row-count-1 operand that isn't
// fill-reconcilable is replicated in place, reusing the same row value
// every iteration rather than cloning it or attempting a fill. Only
// when neither side is a usable singleton does it fall back to fill
// reconciliation, and finally to ShapeMismatch.
func Rows2(c ctx.Context, f *instr.Function, a, b value.Value, inv bool, span zerr.Span) (value.Value, error) {
	na, nb := a.RowCount(), b.RowCount()
	if na == 0 || nb == 0 {
		proxyA := value.UnboxedIf(shape.ProxyRow(a, c), inv)
		proxyB := value.UnboxedIf(shape.ProxyRow(b, c), inv)
		c.Push(proxyA)
		c.Push(proxyB)
		outs, err := c.CallMaintainSig(f)
		if err != nil {
			return nil, zerr.NewUserError(span, err)
		}
		out := value.BoxedIf(outs[0], inv)
		return value.Empty(out.Kind(), append([]int{0}, out.Shape()...)), nil
	}

	n := na
	fixedA, fixedB := false, false
	switch {
	case na == nb:
		// already aligned
	case na == 1 && !shape.LengthIsFillable(a, c):
		fixedA = true
		n = nb
	case nb == 1 && !shape.LengthIsFillable(b, c):
		fixedB = true
		n = na
	default:
		var err error
		if na < nb {
			a, err = shape.FillLengthTo(a, nb, c, span)
			n = nb
		} else {
			b, err = shape.FillLengthTo(b, na, c, span)
			n = na
		}
		if err != nil {
			if zerr.Is(err, zerr.FillMissing) {
				return nil, zerr.NewShapeMismatch(span, a.Shape(), b.Shape())
			}
			return nil, err
		}
	}

	var fixedRowA, fixedRowB value.Value
	if fixedA {
		fixedRowA = value.Row(a, 0)
	}
	if fixedB {
		fixedRowB = value.Row(b, 0)
	}

	results := make([]value.Value, n)
	for i := 0; i < n; i++ {
		var ra, rb value.Value
		if fixedA {
			ra = fixedRowA
		} else {
			ra = value.Row(a, i)
		}
		if fixedB {
			rb = fixedRowB
		} else {
			rb = value.Row(b, i)
		}
		ra = value.UnboxedIf(ra, inv)
		rb = value.UnboxedIf(rb, inv)
		r, err := call2(c, f, ra, rb, span)
		if err != nil {
			return nil, err
		}
		results[i] = value.BoxedIf(r, inv)
	}
	return value.FromRowValues(results)
}

// RowsN generalizes Rows2 to arity N via shape.FixedRows.
func RowsN(c ctx.Context, f *instr.Function, args []value.Value, inv bool, span zerr.Span) (value.Value, error) {
	plan, err := shape.FixedRows(args, c, span)
	if err != nil {
		return nil, err
	}
	if plan.IsEmpty {
		pushed := make([]value.Value, len(args))
		for i, a := range args {
			proxy := shape.ProxyRow(a, c)
			pushed[i] = value.UnboxedIf(proxy, inv)
			c.Push(pushed[i])
		}
		outs, err := c.CallMaintainSig(f)
		if err != nil {
			return nil, zerr.NewUserError(span, err)
		}
		out := value.BoxedIf(outs[0], inv)
		return value.Empty(out.Kind(), append([]int{0}, out.Shape()...)).WithMeta(plan.Meta), nil
	}
	results := make([]value.Value, plan.RowCount)
	for i := 0; i < plan.RowCount; i++ {
		cellArgs := make([]value.Value, len(args))
		for j := range args {
			cellArgs[j] = value.UnboxedIf(plan.Row(j, i), inv)
		}
		r, err := calln(c, f, cellArgs, span)
		if err != nil {
			return nil, err
		}
		results[i] = value.BoxedIf(r, inv)
	}
	out, err := value.FromRowValues(results)
	if err != nil {
		return nil, err
	}
	return out.WithMeta(plan.Meta), nil
}
