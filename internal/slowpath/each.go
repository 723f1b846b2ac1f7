// Package slowpath implements the per-cell interpreter-callback driver
// spec.md §4.F describes: each/rows/rowsn/rows_windows as they run
// when the fast-path recognizer (internal/fastpath) finds nothing to
// exploit. Every exported function here calls back into the
// interpreter context once per cell, which is what makes it "slow"
// relative to the whole-array kernels in internal/kernel.
package slowpath

import (
	"vectra/internal/ctx"
	"vectra/internal/instr"
	"vectra/internal/shape"
	"vectra/internal/value"
	"vectra/internal/zerr"
)

// callOuts invokes f once with args pushed in order and returns every
// one of its f.Sig.Outputs result streams (spec.md §4.F: each/rows are
// generic over "f.outputs", not hard-wired to a single return value).
// call1/call2/calln below are the single-output specializations every
// existing arity-1/2/N driver function actually needs; Each1Multi and
// Rows1Multi (via call1Outs) keep the full slice, for Monadic-2 functions
// (Dup/UnCouple/UnJoin) whose f.Sig.Outputs is 2.
func callOuts(c ctx.Context, f *instr.Function, args []value.Value, span zerr.Span) ([]value.Value, error) {
	for _, a := range args {
		c.Push(a)
	}
	outs, err := c.Call(f)
	if err != nil {
		return nil, zerr.NewUserError(span, err)
	}
	if len(outs) != f.Sig.Outputs {
		return nil, zerr.NewInternalInvariant("slowpath: call returned a different output count than the function's signature")
	}
	return outs, nil
}

func call1Outs(c ctx.Context, f *instr.Function, v value.Value, span zerr.Span) ([]value.Value, error) {
	return callOuts(c, f, []value.Value{v}, span)
}

// call1 invokes f once with v pushed as its sole argument and returns
// its single output, the shared step single-output each1/rows1 build on.
func call1(c ctx.Context, f *instr.Function, v value.Value, span zerr.Span) (value.Value, error) {
	outs, err := call1Outs(c, f, v, span)
	if err != nil {
		return nil, err
	}
	return outs[0], nil
}

func call2(c ctx.Context, f *instr.Function, a, b value.Value, span zerr.Span) (value.Value, error) {
	outs, err := callOuts(c, f, []value.Value{a, b}, span)
	if err != nil {
		return nil, err
	}
	return outs[0], nil
}

func calln(c ctx.Context, f *instr.Function, args []value.Value, span zerr.Span) (value.Value, error) {
	outs, err := callOuts(c, f, args, span)
	if err != nil {
		return nil, err
	}
	return outs[0], nil
}

// Each1Multi generalizes Each1 to f.Sig.Outputs result streams: applies
// f to every scalar element of v, collecting each output position into
// its own v-shaped result array (spec.md §4.F "collect f.outputs
// result streams"). Each1 is this specialized to the common
// single-output case.
func Each1Multi(c ctx.Context, f *instr.Function, v value.Value, span zerr.Span) ([]value.Value, error) {
	outputs := f.Sig.Outputs
	if v.ElementCount() == 0 {
		outs, err := proxyCall1(c, f, v, span)
		if err != nil {
			return nil, err
		}
		results := make([]value.Value, outputs)
		for i, out := range outs {
			results[i] = value.Empty(out.Kind(), v.Shape())
		}
		return results, nil
	}
	streams := make([][]value.Value, outputs)
	for e := range value.Elements(v) {
		outs, err := call1Outs(c, f, e, span)
		if err != nil {
			return nil, err
		}
		for i, o := range outs {
			streams[i] = append(streams[i], o)
		}
	}
	results := make([]value.Value, outputs)
	for i, stream := range streams {
		flat, err := value.FromRowValues(stream)
		if err != nil {
			return nil, err
		}
		results[i] = value.Reshape(flat, v.Shape())
	}
	return results, nil
}

// Each1 applies f to every scalar element of v, reassembling a result
// of v's shape (spec.md §4.F, §4.A "Proxy cells" for the empty case).
func Each1(c ctx.Context, f *instr.Function, v value.Value, span zerr.Span) (value.Value, error) {
	results, err := Each1Multi(c, f, v, span)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

func proxyCall1(c ctx.Context, f *instr.Function, v value.Value, span zerr.Span) ([]value.Value, error) {
	proxy := shape.ProxyScalar(v, c)
	c.Push(proxy)
	outs, err := c.CallMaintainSig(f)
	if err != nil {
		return nil, zerr.NewUserError(span, err)
	}
	return outs, nil
}

// Each2 zips a and b elementwise, broadcasting shapes first (spec.md
// §4.B row alignment).
func Each2(c ctx.Context, f *instr.Function, a, b value.Value, span zerr.Span) (value.Value, error) {
	a, b, err := shape.ReconcileLeadingAxis(a, b, c, span)
	if err != nil {
		return nil, err
	}
	bshape, ok := shape.Broadcast(a.Shape(), b.Shape())
	if !ok {
		return nil, zerr.NewShapeMismatch(span, a.Shape(), b.Shape())
	}
	n := value.Product(bshape)
	if n == 0 {
		proxyA := shape.ProxyScalar(a, c)
		proxyB := shape.ProxyScalar(b, c)
		c.Push(proxyA)
		c.Push(proxyB)
		outs, err := c.CallMaintainSig(f)
		if err != nil {
			return nil, zerr.NewUserError(span, err)
		}
		return value.Empty(outs[0].Kind(), bshape), nil
	}
	ai := shape.Indexer(a.Shape(), bshape)
	bi := shape.Indexer(b.Shape(), bshape)
	aFlat := flatten(a)
	bFlat := flatten(b)
	results := make([]value.Value, n)
	for i := 0; i < n; i++ {
		r, err := call2(c, f, aFlat[ai(i)], bFlat[bi(i)], span)
		if err != nil {
			return nil, err
		}
		results[i] = r
	}
	flat, err := value.FromRowValues(results)
	if err != nil {
		return nil, err
	}
	return value.Reshape(flat, bshape), nil
}

// EachN is each2 generalized to arity N: all operands are broadcast to
// a common shape pairwise-compatible with every other operand.
func EachN(c ctx.Context, f *instr.Function, args []value.Value, span zerr.Span) (value.Value, error) {
	// Reconcile each operand's leading axis against the first operand's
	// before the general N-d broadcast check, the same way Each2 does
	// (spec.md §4.B; see shape.ReconcileLeadingAxis).
	for i := 1; i < len(args); i++ {
		reconciledFirst, reconciledI, err := shape.ReconcileLeadingAxis(args[0], args[i], c, span)
		if err != nil {
			return nil, err
		}
		args[0], args[i] = reconciledFirst, reconciledI
	}
	bshape := args[0].Shape()
	for _, a := range args[1:] {
		var ok bool
		bshape, ok = shape.Broadcast(bshape, a.Shape())
		if !ok {
			return nil, zerr.NewShapeMismatch(span, args[0].Shape(), a.Shape())
		}
	}
	n := value.Product(bshape)
	indexers := make([]func(int) int, len(args))
	flats := make([][]value.Value, len(args))
	for i, a := range args {
		indexers[i] = shape.Indexer(a.Shape(), bshape)
		flats[i] = flatten(a)
	}
	if n == 0 {
		for _, a := range args {
			c.Push(shape.ProxyScalar(a, c))
		}
		outs, err := c.CallMaintainSig(f)
		if err != nil {
			return nil, zerr.NewUserError(span, err)
		}
		return value.Empty(outs[0].Kind(), bshape), nil
	}
	results := make([]value.Value, n)
	for i := 0; i < n; i++ {
		cellArgs := make([]value.Value, len(args))
		for j := range args {
			cellArgs[j] = flats[j][indexers[j](i)]
		}
		r, err := calln(c, f, cellArgs, span)
		if err != nil {
			return nil, err
		}
		results[i] = r
	}
	flat, err := value.FromRowValues(results)
	if err != nil {
		return nil, err
	}
	return value.Reshape(flat, bshape), nil
}

// flatten returns v's scalar elements as a slice, indexable by flat
// row-major position — each2/eachn's broadcast Indexer produces exactly
// such a flat index.
func flatten(v value.Value) []value.Value {
	out := make([]value.Value, 0, v.ElementCount())
	for e := range value.Elements(v) {
		out = append(out, e)
	}
	return out
}
