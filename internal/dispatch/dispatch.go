// Package dispatch implements the entry points spec.md §4.G describes:
// each, rows(inv), and rows_windows, each running the
// Idle → Inspect → {FastPath, SlowPath} state machine — inspect the
// called function's body via the fast-path recognizer, and only fall
// back to the per-cell interpreter callback (internal/slowpath) when
// nothing recognizes. Fill scoping (WithoutFill while recursing) and
// persistent-meta propagation (take on entry, xor-combine, stamp the
// result) happen once here rather than in every slow-path function.
package dispatch

import (
	"vectra/internal/ctx"
	"vectra/internal/fastpath"
	"vectra/internal/instr"
	"vectra/internal/slowpath"
	"vectra/internal/value"
	"vectra/internal/zerr"
)

// Dispatcher owns the per-context fast-path recognizer cache (spec.md
// §9: "per-context, not global"). A Dispatcher is cheap to construct
// and normally lives as long as the Context it serves.
type Dispatcher struct {
	cache *fastpath.Cache
}

// New builds a Dispatcher with a fresh recognizer cache.
func New() *Dispatcher { return &Dispatcher{cache: fastpath.NewCache()} }

// Each applies f to every scalar element of the single operand v,
// preferring a recognized monadic fast path over Each1's per-element
// callback.
func (d *Dispatcher) Each(c ctx.Context, f *instr.Function, v value.Value, span zerr.Span) (value.Value, error) {
	av, m := v.TakeMeta()
	inner := c.WithoutFill()
	// each descends all the way to scalar leaves, so its fast-path
	// depth is the operand's full rank (atDepth's "descend depth
	// row-levels before applying the leaf kernel" matches that exactly:
	// rows uses depth 1, each uses depth = rank).
	result, err := d.dispatchMonadic(inner, f, av, av.Rank(), span, slowpath.Each1)
	if err != nil {
		return nil, err
	}
	return result.WithMeta(m), nil
}

// Each2 zips two operands elementwise. The fast path is only attempted
// when both operands already share a shape: atDepth2's per-row
// recursion assumes matching row counts at every level, which
// broadcasting (different shapes, reconciled by padding/replication)
// would violate, so a shape mismatch always falls back to the slow
// path, which handles broadcasting correctly.
func (d *Dispatcher) Each2(c ctx.Context, f *instr.Function, a, b value.Value, span zerr.Span) (value.Value, error) {
	aa, ma := a.TakeMeta()
	bb, mb := b.TakeMeta()
	inner := c.WithoutFill()
	depth := -1
	if sameShape(aa.Shape(), bb.Shape()) {
		depth = aa.Rank()
	}
	result, err := d.dispatchDyadic(inner, f, aa, bb, depth, span, slowpath.Each2)
	if err != nil {
		return nil, err
	}
	return result.WithMeta(ma.Xor(mb)), nil
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// EachN zips N operands elementwise; only the slow path is attempted,
// matching zip.rs (eachn never consults the fast-path table beyond
// arity 2).
func (d *Dispatcher) EachN(c ctx.Context, f *instr.Function, args []value.Value, span zerr.Span) (value.Value, error) {
	stripped := make([]value.Value, len(args))
	metas := make([]value.PersistentMeta, len(args))
	for i, a := range args {
		stripped[i], metas[i] = a.TakeMeta()
	}
	inner := c.WithoutFill()
	result, err := slowpath.EachN(inner, f, stripped, span)
	if err != nil {
		return nil, err
	}
	return result.WithMeta(value.XorAll(metas...)), nil
}

// Rows applies f to every row of v (depth 1 relative to each).
func (d *Dispatcher) Rows(c ctx.Context, f *instr.Function, v value.Value, inv bool, span zerr.Span) (value.Value, error) {
	av, m := v.TakeMeta()
	inner := c.WithoutFill()
	result, err := d.dispatchMonadic(inner, f, av, 1, span, func(c ctx.Context, f *instr.Function, v value.Value, span zerr.Span) (value.Value, error) {
		return slowpath.Rows1(c, f, v, inv, span)
	})
	if err != nil {
		return nil, err
	}
	// A rank-0 operand has no rows; rows() treats it as a single implicit
	// row and undo_fix's the output afterward (spec.md §4.F). Rows1
	// already does this on the slow path — UndoFix is a safe no-op
	// unless the leading axis is exactly 1, so applying it again here
	// for the fast-path branch can't double-strip a real axis.
	if av.Rank() == 0 {
		result = result.UndoFix()
	}
	return result.WithMeta(m), nil
}

// EachMonadic2 applies a recognized Monadic-2 function (Dup/UnCouple/
// UnJoin) to every scalar element of v, returning both output streams
// (spec.md §4.D "Monadic-2", §4.F "collect f.outputs result streams").
func (d *Dispatcher) EachMonadic2(c ctx.Context, f *instr.Function, v value.Value, span zerr.Span) (value.Value, value.Value, error) {
	av, m := v.TakeMeta()
	inner := c.WithoutFill()
	if entry := d.cache.Monadic2Entry(f, av.Rank()); entry != nil {
		a, b, err := entry.ApplyMonadic2(av)
		if err != nil {
			return nil, nil, zerr.NewUserError(span, err)
		}
		return a.WithMeta(m), b.WithMeta(m), nil
	}
	outs, err := slowpath.Each1Multi(inner, f, av, span)
	if err != nil {
		return nil, nil, err
	}
	if len(outs) != 2 {
		return nil, nil, zerr.NewInternalInvariant("dispatch: EachMonadic2 called on a function that does not have exactly two outputs")
	}
	return outs[0].WithMeta(m), outs[1].WithMeta(m), nil
}

// RowsMonadic2 is EachMonadic2's depth-1 analogue, Rows' counterpart
// for a two-output function.
func (d *Dispatcher) RowsMonadic2(c ctx.Context, f *instr.Function, v value.Value, inv bool, span zerr.Span) (value.Value, value.Value, error) {
	av, m := v.TakeMeta()
	inner := c.WithoutFill()
	scalar := av.Rank() == 0
	if entry := d.cache.Monadic2Entry(f, 1); entry != nil {
		a, b, err := entry.ApplyMonadic2(av)
		if err != nil {
			return nil, nil, zerr.NewUserError(span, err)
		}
		if scalar {
			a, b = a.UndoFix(), b.UndoFix()
		}
		return a.WithMeta(m), b.WithMeta(m), nil
	}
	outs, err := slowpath.Rows1Multi(inner, f, av, inv, span)
	if err != nil {
		return nil, nil, err
	}
	if len(outs) != 2 {
		return nil, nil, zerr.NewInternalInvariant("dispatch: RowsMonadic2 called on a function that does not have exactly two outputs")
	}
	return outs[0].WithMeta(m), outs[1].WithMeta(m), nil
}

// Rows2 zips rows of two operands. As with Each2, the fast path is
// only attempted when both operands already have the same row count;
// mismatched counts (resolved via the singleton short-circuit or fill
// reconciliation) always go through the slow path.
func (d *Dispatcher) Rows2(c ctx.Context, f *instr.Function, a, b value.Value, inv bool, span zerr.Span) (value.Value, error) {
	aa, ma := a.TakeMeta()
	bb, mb := b.TakeMeta()
	inner := c.WithoutFill()
	depth := -1
	if aa.RowCount() == bb.RowCount() {
		depth = 1
	}
	result, err := d.dispatchDyadic(inner, f, aa, bb, depth, span, func(c ctx.Context, f *instr.Function, a, b value.Value, span zerr.Span) (value.Value, error) {
		return slowpath.Rows2(c, f, a, b, inv, span)
	})
	if err != nil {
		return nil, err
	}
	return result.WithMeta(ma.Xor(mb)), nil
}

// RowsN generalizes Rows2 to arity N via shape.FixedRows; only the
// slow path is attempted. Meta combination happens inside
// slowpath.RowsN itself (via shape.FixedRows, which every argument's
// meta already passes through), so the result needs no further
// stamping here.
func (d *Dispatcher) RowsN(c ctx.Context, f *instr.Function, args []value.Value, inv bool, span zerr.Span) (value.Value, error) {
	inner := c.WithoutFill()
	return slowpath.RowsN(inner, f, args, inv, span)
}

// RowsWindows slides an n-row window across v, calling f once per
// window; there is no fast-path table entry for windowing, so this
// always runs the slow-path driver.
func (d *Dispatcher) RowsWindows(c ctx.Context, f *instr.Function, windowSize, v value.Value, span zerr.Span) (value.Value, error) {
	vv, m := v.TakeMeta()
	inner := c.WithoutFill()
	result, err := slowpath.RowsWindows(inner, f, windowSize, vv, span)
	if err != nil {
		return nil, err
	}
	return result.WithMeta(m), nil
}

type monadicSlow func(c ctx.Context, f *instr.Function, v value.Value, span zerr.Span) (value.Value, error)
type dyadicSlow func(c ctx.Context, f *instr.Function, a, b value.Value, span zerr.Span) (value.Value, error)

// dispatchMonadic is the Idle → Inspect → {FastPath, SlowPath} state
// machine for single-operand calls: inspect f's body once (via the
// cache), and either apply the recognized fast kernel directly or fall
// back to slow.
func (d *Dispatcher) dispatchMonadic(c ctx.Context, f *instr.Function, v value.Value, depth int, span zerr.Span, slow monadicSlow) (value.Value, error) {
	// A Monadic-2 entry (Dup/UnCouple/UnJoin) has no single result to
	// return here — Each/Rows only ever ask for one output stream, so a
	// function that recognizes as Monadic-2 falls straight to the
	// (always-correct) slow path; EachMonadic2/RowsMonadic2 below are
	// the two-output entry points that actually apply it.
	if entry := d.cache.MonadicEntry(f, depth); entry != nil && entry.Kind != fastpath.KindMonadic2 {
		result, err := entry.Apply(v)
		if err != nil {
			return nil, zerr.NewUserError(span, err)
		}
		return result, nil
	}
	return slow(c, f, v, span)
}

func (d *Dispatcher) dispatchDyadic(c ctx.Context, f *instr.Function, a, b value.Value, depth int, span zerr.Span, slow dyadicSlow) (value.Value, error) {
	if depth < 0 {
		return slow(c, f, a, b, span)
	}
	if entry := d.cache.DyadicEntry(f, depth); entry != nil {
		result, err := entry.ApplyDyadic(a, b)
		if err != nil {
			return nil, zerr.NewUserError(span, err)
		}
		return result, nil
	}
	return slow(c, f, a, b, span)
}
