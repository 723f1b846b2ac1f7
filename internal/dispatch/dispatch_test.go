package dispatch

import (
	"testing"

	"vectra/internal/ctx"
	"vectra/internal/fastpath"
	"vectra/internal/instr"
	"vectra/internal/kernel"
	"vectra/internal/value"
	"vectra/internal/zerr"
)

func negFunc() *instr.Function {
	return instr.NewFunction("neg", instr.Signature{Args: 1, Outputs: 1},
		[]instr.Instr{instr.Prim{P: instr.Neg, Span: zerr.NoSpan}})
}

func addFunc() *instr.Function {
	return instr.NewFunction("add", instr.Signature{Args: 2, Outputs: 1},
		[]instr.Instr{instr.Prim{P: instr.Add, Span: zerr.NoSpan}})
}

// addBody is Add's interpreted body, registered by tests whose inputs
// send addFunc down the slow path (which calls it through the context).
func addBody(args []value.Value) ([]value.Value, error) {
	out, err := kernel.Add(args[0], args[1])
	if err != nil {
		return nil, err
	}
	return []value.Value{out}, nil
}

// boxFunc mirrors how rows_windows recognizes the primitive-Box bypass.
func boxFunc() *instr.Function {
	return instr.NewFunction("box", instr.Signature{Args: 1, Outputs: 1},
		[]instr.Instr{instr.Prim{P: instr.BoxPrim, Span: zerr.NoSpan}})
}

func floatData(v value.Value) []float64 {
	return v.(value.NumValue).Arr.Data()
}

func assertFloats(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("data = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("data = %v, want %v", got, want)
		}
	}
}

// Scenario A: each(Neg, [[1,2],[3,4]]) -> shape [2,2], data [-1,-2,-3,-4].
func TestScenarioA_EachNeg(t *testing.T) {
	c := ctx.NewRefContext(ctx.FillConfig{}, true)
	d := New()
	v := value.NumValue{Arr: value.NewArray([]int{2, 2}, []float64{1, 2, 3, 4})}
	out, err := d.Each(c, negFunc(), v, zerr.NoSpan)
	if err != nil {
		t.Fatalf("Each: %v", err)
	}
	if out.Shape()[0] != 2 || out.Shape()[1] != 2 {
		t.Fatalf("shape = %v, want [2 2]", out.Shape())
	}
	assertFloats(t, floatData(out), []float64{-1, -2, -3, -4})
}

// Scenario B: rows(Add, [1,2,3], [10,20,30]) -> shape [3], data [11,22,33].
func TestScenarioB_RowsAdd(t *testing.T) {
	c := ctx.NewRefContext(ctx.FillConfig{}, true)
	d := New()
	a := value.NumValue{Arr: value.NewArray([]int{3}, []float64{1, 2, 3})}
	b := value.NumValue{Arr: value.NewArray([]int{3}, []float64{10, 20, 30})}
	out, err := d.Rows2(c, addFunc(), a, b, false, zerr.NoSpan)
	if err != nil {
		t.Fatalf("Rows2: %v", err)
	}
	if out.Shape()[0] != 3 {
		t.Fatalf("shape = %v, want [3]", out.Shape())
	}
	assertFloats(t, floatData(out), []float64{11, 22, 33})
}

// Scenario C: rows(Add, [1,2,3], [100]) undo_fixes the singleton side,
// producing shape [3], data [101,102,103].
func TestScenarioC_RowsAddSingletonUndoFix(t *testing.T) {
	c := ctx.NewRefContext(ctx.FillConfig{}, true)
	d := New()
	a := value.NumValue{Arr: value.NewArray([]int{3}, []float64{1, 2, 3})}
	b := value.NumValue{Arr: value.NewArray([]int{1}, []float64{100})}
	// Mismatched row counts take the slow path, which calls Add through
	// the context.
	c.Register(addFunc(), addBody)
	out, err := d.Rows2(c, addFunc(), a, b, false, zerr.NoSpan)
	if err != nil {
		t.Fatalf("Rows2: %v", err)
	}
	if out.Shape()[0] != 3 {
		t.Fatalf("shape = %v, want [3]", out.Shape())
	}
	assertFloats(t, floatData(out), []float64{101, 102, 103})
}

// Scenario D: each(Add, [], [1,2]) with no fill configured -> FillMissing.
func TestScenarioD_EachAddEmptyWithoutFillReportsFillMissing(t *testing.T) {
	c := ctx.NewRefContext(ctx.FillConfig{}, true)
	d := New()
	a := value.NumValue{Arr: value.NewArray[float64]([]int{0}, nil)}
	b := value.NumValue{Arr: value.NewArray([]int{2}, []float64{1, 2})}
	_, err := d.Each2(c, addFunc(), a, b, zerr.NoSpan)
	if !zerr.Is(err, zerr.FillMissing) {
		t.Fatalf("expected FillMissing, got %v", err)
	}
}

// Scenario E: rows(Pop;Push 7, shape [2,3] input) -> array of shape
// [2,3], all sevens (the replace fast path).
func TestScenarioE_RowsReplaceFastPath(t *testing.T) {
	c := ctx.NewRefContext(ctx.FillConfig{}, true)
	d := New()
	f := instr.NewFunction("replace-7", instr.Signature{Args: 1, Outputs: 1}, []instr.Instr{
		instr.Prim{P: instr.Pop, Span: zerr.NoSpan},
		instr.Push{Val: value.NumScalar(7)},
	})
	v := value.NumValue{Arr: value.NewArray([]int{2, 3}, make([]float64, 6))}
	out, err := d.Rows(c, f, v, false, zerr.NoSpan)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if out.Rank() != 2 || out.Shape()[0] != 2 || out.Shape()[1] != 3 {
		t.Fatalf("shape = %v, want [2 3]", out.Shape())
	}
	for _, x := range floatData(out) {
		if x != 7 {
			t.Fatalf("data = %v, want all 7s", floatData(out))
		}
	}
}

// Scenario F: rows_windows(Box, 2, [1,2,3,4]) -> boxed array of 3
// windows: [[1,2],[2,3],[3,4]].
func TestScenarioF_RowsWindowsBox(t *testing.T) {
	c := ctx.NewRefContext(ctx.FillConfig{}, true)
	d := New()
	v := value.NumValue{Arr: value.NewArray([]int{4}, []float64{1, 2, 3, 4})}
	n := value.NumScalar(2)
	out, err := d.RowsWindows(c, boxFunc(), n, v, zerr.NoSpan)
	if err != nil {
		t.Fatalf("RowsWindows: %v", err)
	}
	bv, ok := out.(value.BoxValue)
	if !ok || bv.Arr.RowCount() != 3 {
		t.Fatalf("expected 3 boxed windows, got %v", out)
	}
	want := [][]float64{{1, 2}, {2, 3}, {3, 4}}
	for i, w := range want {
		boxed := bv.Arr.Data()[i].V
		assertFloats(t, floatData(boxed), w)
	}
}

// Invariant 1 (shape law): each(f, x).shape == x.shape ++ r, where r is
// f's result shape on a scalar.
func TestInvariant_ShapeLawForEach(t *testing.T) {
	c := ctx.NewRefContext(ctx.FillConfig{}, true)
	d := New()
	v := value.NumValue{Arr: value.NewArray([]int{2, 3}, make([]float64, 6))}
	out, err := d.Each(c, negFunc(), v, zerr.NoSpan)
	if err != nil {
		t.Fatalf("Each: %v", err)
	}
	// Neg on a scalar yields a scalar (r = []), so shape should equal
	// x.shape unchanged.
	if out.Shape()[0] != 2 || out.Shape()[1] != 3 {
		t.Fatalf("shape = %v, want x.shape ++ [] = [2 3]", out.Shape())
	}
}

// Invariant 2 (fast/slow equivalence): each(p, x) via the fast path
// recognizer equals each(p, x) forced through the slow path, in both
// shape and data.
func TestInvariant_FastSlowEquivalence(t *testing.T) {
	v := value.NumValue{Arr: value.NewArray([]int{2, 2}, []float64{1, -2, 3, -4})}

	cFast := ctx.NewRefContext(ctx.FillConfig{}, true)
	dFast := New()
	fast, err := dFast.Each(cFast, negFunc(), v, zerr.NoSpan)
	if err != nil {
		t.Fatalf("fast path Each: %v", err)
	}

	// Force the slow path by registering Neg's body as an interpreted
	// closure and calling slowpath.Each1 directly through a function the
	// recognizer won't match (body of length 2 with an opaque Other tag).
	cSlow := ctx.NewRefContext(ctx.FillConfig{}, true)
	body := []instr.Instr{instr.Other{}, instr.Prim{P: instr.Neg, Span: zerr.NoSpan}}
	slowFn := instr.NewFunction("neg-slow", instr.Signature{Args: 1, Outputs: 1}, body)
	cSlow.Register(slowFn, func(args []value.Value) ([]value.Value, error) {
		nv := args[0].(value.NumValue)
		data := append([]float64(nil), nv.Arr.Data()...)
		for i := range data {
			data[i] = -data[i]
		}
		return []value.Value{value.NumValue{Arr: value.NewArray(nv.Arr.Shape(), data)}}, nil
	})
	dSlow := New()
	slow, err := dSlow.Each(cSlow, slowFn, v, zerr.NoSpan)
	if err != nil {
		t.Fatalf("slow path Each: %v", err)
	}

	if len(fast.Shape()) != len(slow.Shape()) || fast.Shape()[0] != slow.Shape()[0] || fast.Shape()[1] != slow.Shape()[1] {
		t.Fatalf("fast shape %v != slow shape %v", fast.Shape(), slow.Shape())
	}
	assertFloats(t, floatData(fast), floatData(slow))
}

// Invariant 3 (depth composition): rows(rows(p), x) equals p applied at
// depth 2, which equals the fast path recognized with depth 2 directly
// (rows seeds recognition at depth 1; wrapping p in one more PushFunc,
// Rows layer — "rows of rows" — advances that by one more, to 2,
// matching spec.md §4.E rule 2 and §8 invariant 3).
func TestInvariant_DepthComposition(t *testing.T) {
	v := value.NumValue{Arr: value.NewArray([]int{2, 2, 3}, func() []float64 {
		d := make([]float64, 12)
		for i := range d {
			d[i] = float64(i + 1)
		}
		return d
	}())}

	inner := negFunc()
	wrapper := instr.NewFunction("rows-neg", instr.Signature{Args: 1, Outputs: 1}, []instr.Instr{
		instr.PushFunc{Func: inner},
		instr.Prim{P: instr.RowsPrim, Span: zerr.NoSpan},
	})

	c1 := ctx.NewRefContext(ctx.FillConfig{}, true)
	viaRowsRows, err := New().Rows(c1, wrapper, v, false, zerr.NoSpan)
	if err != nil {
		t.Fatalf("rows(rows(neg)): %v", err)
	}

	entry := fastpath.RecognizeMonadic(negFunc(), 2)
	if entry == nil || entry.Depth != 2 {
		t.Fatalf("expected Neg to recognize directly at depth 2, got %+v", entry)
	}
	viaDirectDepth2, err := entry.Apply(v)
	if err != nil {
		t.Fatalf("direct depth-2 Apply: %v", err)
	}

	assertFloats(t, floatData(viaRowsRows), floatData(viaDirectDepth2))
}

// Invariant 4 (broadcast symmetry): for commutative Add,
// each(Add, a, b) == each(flip Add, b, a).
func TestInvariant_BroadcastSymmetry(t *testing.T) {
	a := value.NumValue{Arr: value.NewArray([]int{3}, []float64{1, 2, 3})}
	b := value.NumScalar(10)

	// Different shapes take the slow path, which calls the function
	// through the context.
	c1 := ctx.NewRefContext(ctx.FillConfig{}, true)
	c1.Register(addFunc(), addBody)
	out1, err := New().Each2(c1, addFunc(), a, b, zerr.NoSpan)
	if err != nil {
		t.Fatalf("Each2(a,b): %v", err)
	}

	flipAdd := instr.NewFunction("flip-add", instr.Signature{Args: 2, Outputs: 1}, []instr.Instr{
		instr.Prim{P: instr.Flip, Span: zerr.NoSpan},
		instr.Prim{P: instr.Add, Span: zerr.NoSpan},
	})
	c2 := ctx.NewRefContext(ctx.FillConfig{}, true)
	c2.Register(flipAdd, func(args []value.Value) ([]value.Value, error) {
		return addBody([]value.Value{args[1], args[0]})
	})
	out2, err := New().Each2(c2, flipAdd, b, a, zerr.NoSpan)
	if err != nil {
		t.Fatalf("Each2(flip, b, a): %v", err)
	}

	assertFloats(t, floatData(out1), floatData(out2))
}

// rows() on a rank-0 (scalar) operand treats it as a single row and
// undo_fixes the output: rows(Neg, 5) -> shape [], data -5, not shape
// [1], data [-5] (spec.md §4.F).
func TestRowsScalarUndoFix(t *testing.T) {
	v := value.NumScalar(5)

	cFast := ctx.NewRefContext(ctx.FillConfig{}, true)
	fast, err := New().Rows(cFast, negFunc(), v, false, zerr.NoSpan)
	if err != nil {
		t.Fatalf("fast path Rows: %v", err)
	}
	if fast.Rank() != 0 {
		t.Fatalf("fast path shape = %v, want rank 0", fast.Shape())
	}
	if floatData(fast)[0] != -5 {
		t.Fatalf("fast path data = %v, want [-5]", floatData(fast))
	}

	cSlow := ctx.NewRefContext(ctx.FillConfig{}, true)
	body := []instr.Instr{instr.Other{}, instr.Prim{P: instr.Neg, Span: zerr.NoSpan}}
	slowFn := instr.NewFunction("neg-slow", instr.Signature{Args: 1, Outputs: 1}, body)
	cSlow.Register(slowFn, func(args []value.Value) ([]value.Value, error) {
		nv := args[0].(value.NumValue)
		data := append([]float64(nil), nv.Arr.Data()...)
		for i := range data {
			data[i] = -data[i]
		}
		return []value.Value{value.NumValue{Arr: value.NewArray(nv.Arr.Shape(), data)}}, nil
	})
	slow, err := New().Rows(cSlow, slowFn, v, false, zerr.NoSpan)
	if err != nil {
		t.Fatalf("slow path Rows: %v", err)
	}
	if slow.Rank() != 0 {
		t.Fatalf("slow path shape = %v, want rank 0", slow.Shape())
	}
	if floatData(slow)[0] != -5 {
		t.Fatalf("slow path data = %v, want [-5]", floatData(slow))
	}
}

func uncoupleFunc() *instr.Function {
	return instr.NewFunction("uncouple", instr.Signature{Args: 1, Outputs: 2},
		[]instr.Instr{instr.ImplPrim{P: instr.UnCouple, Span: zerr.NoSpan}})
}

// RowsMonadic2 applies UnCouple to every row of a rank-3 array,
// splitting each 2-row matrix into its two constituent rows.
func TestRowsMonadic2UnCouple(t *testing.T) {
	c := ctx.NewRefContext(ctx.FillConfig{}, true)
	d := New()
	v := value.NumValue{Arr: value.NewArray([]int{2, 2, 2}, []float64{1, 2, 3, 4, 5, 6, 7, 8})}
	a, b, err := d.RowsMonadic2(c, uncoupleFunc(), v, false, zerr.NoSpan)
	if err != nil {
		t.Fatalf("RowsMonadic2: %v", err)
	}
	assertFloats(t, floatData(a), []float64{1, 2, 5, 6})
	assertFloats(t, floatData(b), []float64{3, 4, 7, 8})
}

// EachMonadic2 falls back to the slow path when the recognizer finds no
// Monadic-2 entry; exercised here via a function whose body (a lone
// Other) the recognizer can't fast-path at all, to confirm Each1Multi's
// two-output slow path works end to end.
func TestEachMonadic2SlowPath(t *testing.T) {
	c := ctx.NewRefContext(ctx.FillConfig{}, true)
	body := []instr.Instr{instr.Other{}}
	f := instr.NewFunction("dup-slow", instr.Signature{Args: 1, Outputs: 2}, body)
	c.Register(f, func(args []value.Value) ([]value.Value, error) {
		return []value.Value{args[0], args[0]}, nil
	})
	v := value.NumValue{Arr: value.NewArray([]int{2}, []float64{3, 4})}
	a, b, err := New().EachMonadic2(c, f, v, zerr.NoSpan)
	if err != nil {
		t.Fatalf("EachMonadic2: %v", err)
	}
	assertFloats(t, floatData(a), []float64{3, 4})
	assertFloats(t, floatData(b), []float64{3, 4})
}

// Invariant 5 (empty shape preservation): if an operand has
// row_count==0, the result also has row_count==0.
func TestInvariant_EmptyShapePreservation(t *testing.T) {
	one := 0.0
	c := ctx.NewRefContext(ctx.FillConfig{Num: &one}, true)
	d := New()
	a := value.NumValue{Arr: value.NewArray[float64]([]int{0, 2}, nil)}
	out, err := d.Each(c, negFunc(), a, zerr.NoSpan)
	if err != nil {
		t.Fatalf("Each: %v", err)
	}
	if out.RowCount() != 0 {
		t.Fatalf("RowCount() = %d, want 0", out.RowCount())
	}
	if out.Shape()[1] != 2 {
		t.Fatalf("trailing shape = %v, want [0 2]", out.Shape())
	}
}
