package fastpath

import (
	"vectra/internal/instr"
	"vectra/internal/value"
)

// EntryKind classifies what a recognized fast path computes.
type EntryKind int

const (
	KindNone EntryKind = iota
	KindMonadic
	KindMonadic2
	KindMonadicReplace
	KindDyadic
)

// Entry is the outcome of recognizing a function's body as a fast
// path: which kernel to call, at what depth, and (for dyadic entries)
// whether the arguments arrived flipped.
type Entry struct {
	Kind     EntryKind
	Monadic  MonadicKernel
	Monadic2 Monadic2Kernel
	Dyadic   DyadicKernel
	Flip     bool
	Depth    int
	Constant value.Value
}

// RecognizeMonadic inspects f's body for one of the monadic fast-path
// shapes spec.md §4.E names: a single matching primitive
// (f_mon_fast_fn), a two-output primitive (f_mon2_fast_fn's Monadic-2
// table: Dup/UnCouple/UnJoin), a Pop;Push constant-replacement pair, a
// nested Rows wrapping a recognizable body one depth deeper, or (rule
// 4) a chain of single- and double-instruction windows composed left
// to right. depth is the nesting depth already accumulated by an outer
// each/rows call.
func RecognizeMonadic(f *instr.Function, depth int) *Entry {
	return recognizeMonadicBody(f.Instrs(), depth, true)
}

// recognizeMonadicBody is RecognizeMonadic's body-level implementation.
// allowChain gates rule 4: sub-window recognition performed while
// chaining passes false so a window can't itself trigger another round
// of chaining ("recognize each window with a non-recursive pass", §4.E
// rule 4) — rule 2's legitimate recursion into a nested Rows body is a
// different mechanism and is unaffected by this flag.
func recognizeMonadicBody(body []instr.Instr, depth int, allowChain bool) *Entry {
	switch len(body) {
	case 1:
		switch in := body[0].(type) {
		case instr.Prim:
			if k, ok := monadicTable[in.P]; ok {
				return &Entry{Kind: KindMonadic, Monadic: k, Depth: depth}
			}
			if k, ok := monadic2Table[in.P]; ok {
				return &Entry{Kind: KindMonadic2, Monadic2: k, Depth: depth}
			}
		case instr.ImplPrim:
			if k, ok := implMonadicTable[in.P]; ok {
				n := in.N
				return &Entry{Kind: KindMonadic, Monadic: func(v value.Value) (value.Value, error) {
					return k(v, n)
				}, Depth: depth}
			}
			if k, ok := implMonadic2Table[in.P]; ok {
				return &Entry{Kind: KindMonadic2, Monadic2: k, Depth: depth}
			}
		}
	case 2:
		if pop, ok := body[0].(instr.Prim); ok && pop.P == instr.Pop {
			if push, ok := body[1].(instr.Push); ok {
				return &Entry{Kind: KindMonadicReplace, Constant: push.Val, Depth: depth}
			}
		}
		if pf, ok := body[0].(instr.PushFunc); ok {
			if rows, ok := body[1].(instr.Prim); ok && rows.P == instr.RowsPrim && pf.Func != nil {
				if inner := recognizeMonadicBody(pf.Func.Instrs(), depth+1, true); inner != nil && inner.Kind == KindMonadic {
					return inner
				}
			}
		}
	}
	if !allowChain {
		return nil
	}
	return chainMonadic(body, depth)
}

// chainMonadic implements §4.E rule 4: scan body left-to-right taking
// windows of length 1 then 2, recognize each window on its own (no
// further chaining), and fold the recognized kernels by functional
// composition (left window applied first) while summing each window's
// own depth contribution onto the outer seeded depth. Only
// single-output (KindMonadic) windows chain — a Monadic-2 or replace
// window in the middle of a body has no well-typed way to feed the
// next window, so such a body is left unrecognized (falls back to the
// slow path, which is always correct). Any window that fails to
// recognize aborts the whole chain.
func chainMonadic(body []instr.Instr, depth int) *Entry {
	if len(body) < 2 {
		return nil
	}
	var kernels []MonadicKernel
	sumDepth := 0
	for i := 0; i < len(body); {
		if e := recognizeMonadicBody(body[i:i+1], 0, false); e != nil && e.Kind == KindMonadic {
			kernels = append(kernels, e.Monadic)
			sumDepth += e.Depth
			i++
			continue
		}
		if i+2 <= len(body) {
			if e := recognizeMonadicBody(body[i:i+2], 0, false); e != nil && e.Kind == KindMonadic {
				kernels = append(kernels, e.Monadic)
				sumDepth += e.Depth
				i += 2
				continue
			}
		}
		return nil
	}
	composed := func(v value.Value) (value.Value, error) {
		var err error
		for _, k := range kernels {
			if v, err = k(v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
	return &Entry{Kind: KindMonadic, Monadic: composed, Depth: depth + sumDepth}
}

// RecognizeDyadic inspects f's body for the dyadic fast-path shapes
// (f_dy_fast_fn): a bare matching primitive, a Flip-prefixed primitive
// (operands arrive swapped), or a nested Rows wrapping a recognizable
// dyadic body one depth deeper (nest_dy_fast). The sign-agreement
// guard zip.rs applies before folding a nested dyadic into one deeper
// kernel — requiring the per-argument depth delta to agree in sign —
// collapses here to requiring both operands step one depth level
// together, since atDepth2 only ever advances both operands in
// lockstep; an asymmetric nesting simply fails recognition and falls
// back to the slow path, which is always correct, just slower.
func RecognizeDyadic(f *instr.Function, depth int) *Entry {
	body := f.Instrs()
	switch len(body) {
	case 1:
		if in, ok := body[0].(instr.Prim); ok {
			if k, ok := dyadicTable[in.P]; ok {
				return &Entry{Kind: KindDyadic, Dyadic: k, Depth: depth}
			}
		}
	case 2:
		if flip, ok := body[0].(instr.Prim); ok && flip.P == instr.Flip {
			if in, ok := body[1].(instr.Prim); ok {
				if k, ok := dyadicTable[in.P]; ok {
					return &Entry{Kind: KindDyadic, Dyadic: k, Flip: true, Depth: depth}
				}
			}
		}
		if pf, ok := body[0].(instr.PushFunc); ok {
			if rows, ok := body[1].(instr.Prim); ok && rows.P == instr.RowsPrim && pf.Func != nil {
				if pf.Func.Sig.Args == 2 {
					if inner := RecognizeDyadic(pf.Func, depth+1); inner != nil {
						return inner
					}
				}
			}
		}
	}
	return nil
}

// Apply runs a recognized monadic entry over v.
func (e *Entry) Apply(v value.Value) (value.Value, error) {
	switch e.Kind {
	case KindMonadic:
		return atDepth(e.Monadic, v, e.Depth)
	case KindMonadicReplace:
		// The replacement always runs once per cell and returns the same
		// constant every time, so rejoining those calls reproduces v's
		// full original shape: the constant supplies the trailing
		// (cell-shaped) axes and gets repeated across whatever leading
		// axes remain (spec.md Scenario E). e.Depth (how many Rows
		// layers the recognizer unwrapped to find this pattern) doesn't
		// change that — it only mattered for locating the pattern.
		prefixLen := len(v.Shape()) - e.Constant.Rank()
		if prefixLen < 0 {
			prefixLen = 0
		}
		return ReplaceWithConstant(v.Shape()[:prefixLen], e.Constant), nil
	default:
		panic("fastpath: Apply called on a non-monadic entry")
	}
}

// ApplyMonadic2 runs a recognized Monadic-2 entry over v, returning
// both of its outputs.
func (e *Entry) ApplyMonadic2(v value.Value) (value.Value, value.Value, error) {
	if e.Kind != KindMonadic2 {
		panic("fastpath: ApplyMonadic2 called on a non-monadic-2 entry")
	}
	return atDepthMulti(e.Monadic2, v, e.Depth)
}

// ApplyDyadic runs a recognized dyadic entry over a, b, honoring Flip.
func (e *Entry) ApplyDyadic(a, b value.Value) (value.Value, error) {
	if e.Kind != KindDyadic {
		panic("fastpath: ApplyDyadic called on a non-dyadic entry")
	}
	if e.Flip {
		a, b = b, a
	}
	return atDepth2(e.Dyadic, a, b, e.Depth)
}
