package shape

import (
	"vectra/internal/value"
	"vectra/internal/zerr"
)

// LengthIsFillable reports whether v could be length-extended, i.e. it
// has rank >= 1 and ctx has a fill configured for its kind. Mirrors
// Value::length_is_fillable in zip.rs, used by rows2's singleton-side
// short-circuit to decide whether a row-count-1 operand should be
// replicated (no fill available/needed) or reconciled via fill.
func LengthIsFillable(v value.Value, ctx FillContext) bool {
	if v.Rank() == 0 {
		return false
	}
	return kindFillConfigured(ctx, v.Kind())
}

// FillLengthTo extends v along axis 0 with its kind's configured fill
// until RowCount() reaches length. A no-op if v is already long enough
// or rank-0. Reports FillMissing if extension is needed but no fill is
// configured for v's kind (spec.md §4.B "Length reconciliation").
func FillLengthTo(v value.Value, length int, ctx FillContext, span zerr.Span) (value.Value, error) {
	if v.Rank() == 0 || v.RowCount() >= length {
		return v, nil
	}
	if !kindFillConfigured(ctx, v.Kind()) {
		return v, zerr.NewFillMissing(span, v.Kind().String())
	}
	f := fills(ctx)
	switch vv := v.(type) {
	case value.NumValue:
		return value.NumValue{Arr: vv.Arr.FillLengthTo(length, f.Num)}, nil
	case value.ByteValue:
		return value.ByteValue{Arr: vv.Arr.FillLengthTo(length, f.Byte)}, nil
	case value.ComplexValue:
		return value.ComplexValue{Arr: vv.Arr.FillLengthTo(length, f.Complex)}, nil
	case value.CharValue:
		return value.CharValue{Arr: vv.Arr.FillLengthTo(length, f.Char)}, nil
	case value.BoxValue:
		return value.BoxValue{Arr: vv.Arr.FillLengthTo(length, f.Box)}, nil
	default:
		return v, zerr.NewInternalInvariant("shape: unreachable kind in FillLengthTo")
	}
}

// ReconcileLeadingAxis resolves a disagreement on a and b's first axis
// before the general N-d broadcast check runs. Per spec.md §4.B, "when
// a leading axis disagrees in length and neither is 1, invoke length
// reconciliation before failing" — this covers the case Broadcast's
// plain axis-compatibility rule would otherwise wave through as
// "empty-propagating" (one side's leading axis is 0, the other isn't,
// and no fill is configured): that must surface as FillMissing, not
// silently produce an empty result. See Scenario D in spec.md §8.
//
// A no-op when both operands are rank 0, their leading axes already
// agree, or either leading axis is 1 (ordinary broadcasting applies).
func ReconcileLeadingAxis(a, b value.Value, ctx FillContext, span zerr.Span) (value.Value, value.Value, error) {
	if a.Rank() == 0 || b.Rank() == 0 {
		return a, b, nil
	}
	la, lb := a.Shape()[0], b.Shape()[0]
	if la == lb || la == 1 || lb == 1 {
		return a, b, nil
	}
	if la < lb {
		filled, err := FillLengthTo(a, lb, ctx, span)
		return filled, b, err
	}
	filled, err := FillLengthTo(b, la, ctx, span)
	return a, filled, err
}
