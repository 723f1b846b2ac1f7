package shape

import (
	"vectra/internal/value"
	"vectra/internal/zerr"
)

type argMode uint8

const (
	modeIterate argMode = iota
	modeFixed
)

// RowPlan is the outcome of reconciling an arity-N argument list to a
// common row count for rowsn: which row count the loop should run,
// whether any argument was empty (forcing the proxy-cell path), and
// how to fetch the i'th row of a given argument without re-deriving
// fill/replication logic on every iteration.
//
// This is the Go analogue of zip.rs's FixedRowsData / fixed_rows: "Arity
// >= 2 with mixed sources: precompute per-argument either an owned row
// iterator or a replicated singleton row" (spec.md §4.F).
type RowPlan struct {
	RowCount  int
	IsEmpty   bool
	AllScalar bool
	Meta      value.PersistentMeta

	reconciled []value.Value
	modes      []argMode
}

// Row returns the rowIdx'th row of argument argIdx under the plan: the
// same fixed value every time for a scalar or singleton-replicated
// argument, or the matching row of a fully reconciled operand.
func (p RowPlan) Row(argIdx, rowIdx int) value.Value {
	if p.modes[argIdx] == modeFixed {
		return p.reconciled[argIdx]
	}
	return value.Row(p.reconciled[argIdx], rowIdx)
}

// FixedRows reconciles args to a common row count: scalars and
// singleton rows are marked fixed (reused every iteration without
// cloning per row), larger operands with a matching or fill-extendable
// row count are marked for per-iteration indexing. Mismatched row
// counts that can't be reconciled because no fill is configured report
// ShapeMismatch (not FillMissing) via span.
func FixedRows(args []value.Value, ctx FillContext, span zerr.Span) (RowPlan, error) {
	target := 0
	isEmpty := false
	allScalar := true
	for _, a := range args {
		if a.Rank() != 0 {
			allScalar = false
		}
		if a.RowCount() == 0 {
			isEmpty = true
		}
		if a.Rank() != 0 && a.RowCount() > target {
			target = a.RowCount()
		}
	}
	if target == 0 {
		target = 1
	}

	metas := make([]value.PersistentMeta, len(args))
	reconciled := make([]value.Value, len(args))
	modes := make([]argMode, len(args))

	for i, a := range args {
		av, m := a.TakeMeta()
		metas[i] = m
		switch {
		case av.Rank() == 0:
			reconciled[i] = av
			modes[i] = modeFixed
		case av.RowCount() == target:
			reconciled[i] = av
			modes[i] = modeIterate
		case av.RowCount() == 1:
			reconciled[i] = value.Row(av, 0)
			modes[i] = modeFixed
		default:
			filled, err := FillLengthTo(av, target, ctx, span)
			if err != nil {
				if zerr.Is(err, zerr.FillMissing) {
					return RowPlan{}, zerr.NewShapeMismatch(span, av.Shape(), []int{target})
				}
				return RowPlan{}, err
			}
			reconciled[i] = filled
			modes[i] = modeIterate
		}
	}

	return RowPlan{
		RowCount:   target,
		IsEmpty:    isEmpty,
		AllScalar:  allScalar,
		Meta:       value.XorAll(metas...),
		reconciled: reconciled,
		modes:      modes,
	}, nil
}
