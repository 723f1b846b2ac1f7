package fastpath

import (
	"testing"

	"vectra/internal/instr"
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

func TestRecognizeMonadicSinglePrimitive(t *testing.T) {
	e := RecognizeMonadic(negFunc(), 0)
	if e == nil || e.Kind != KindMonadic {
		t.Fatalf("expected a recognized monadic fast path, got %v", e)
	}
	out, err := e.Apply(value.NumValue{Arr: value.NewArray([]int{2}, []float64{1, -2})})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got := out.(value.NumValue).Arr.Data()
	if got[0] != -1 || got[1] != 2 {
		t.Fatalf("Apply = %v, want [-1 2]", got)
	}
}

func TestRecognizeMonadicNoMatchIsNil(t *testing.T) {
	f := instr.NewFunction("other", instr.Signature{Args: 1, Outputs: 1}, []instr.Instr{instr.Other{}})
	if e := RecognizeMonadic(f, 0); e != nil {
		t.Fatalf("expected unrecognized body to report nil, got %v", e)
	}
}

// TestRecognizeMonadicNestedRowsIncreasesDepth covers spec.md scenario
// "depth composition": PushFunc(g), Rows recognizes g one depth deeper
// than calling g directly, matching each(rows(p)) == p at depth 2.
func TestRecognizeMonadicNestedRowsIncreasesDepth(t *testing.T) {
	inner := negFunc()
	wrapper := instr.NewFunction("rows-neg", instr.Signature{Args: 1, Outputs: 1}, []instr.Instr{
		instr.PushFunc{Func: inner},
		instr.Prim{P: instr.RowsPrim, Span: zerr.NoSpan},
	})
	e := RecognizeMonadic(wrapper, 0)
	if e == nil || e.Kind != KindMonadic || e.Depth != 1 {
		t.Fatalf("expected depth-1 recognized entry, got %+v", e)
	}
	doubled := RecognizeMonadic(wrapper, 1)
	if doubled == nil || doubled.Depth != 2 {
		t.Fatalf("expected depth-2 entry when nested under an outer depth of 1, got %+v", doubled)
	}
}

func TestRecognizeMonadicPopPushReplace(t *testing.T) {
	f := instr.NewFunction("replace-7", instr.Signature{Args: 1, Outputs: 1}, []instr.Instr{
		instr.Prim{P: instr.Pop, Span: zerr.NoSpan},
		instr.Push{Val: value.NumScalar(7)},
	})
	e := RecognizeMonadic(f, 0)
	if e == nil || e.Kind != KindMonadicReplace {
		t.Fatalf("expected a recognized replace fast path, got %v", e)
	}
	in := value.NumValue{Arr: value.NewArray([]int{2, 3}, make([]float64, 6))}
	out, err := e.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Rank() != 2 || out.ElementCount() != 6 {
		t.Fatalf("replace fast path shape = %v, want [2 3]", out.Shape())
	}
	for _, x := range out.(value.NumValue).Arr.Data() {
		if x != 7 {
			t.Fatalf("replace fast path data = %v, want all 7s", out.(value.NumValue).Arr.Data())
		}
	}
}

func TestRecognizeDyadicSinglePrimitive(t *testing.T) {
	e := RecognizeDyadic(addFunc(), 0)
	if e == nil || e.Kind != KindDyadic {
		t.Fatalf("expected a recognized dyadic fast path, got %v", e)
	}
	a := value.NumValue{Arr: value.NewArray([]int{3}, []float64{1, 2, 3})}
	b := value.NumValue{Arr: value.NewArray([]int{3}, []float64{10, 20, 30})}
	out, err := e.ApplyDyadic(a, b)
	if err != nil {
		t.Fatalf("ApplyDyadic: %v", err)
	}
	got := out.(value.NumValue).Arr.Data()
	want := []float64{11, 22, 33}
	for i, x := range want {
		if got[i] != x {
			t.Fatalf("ApplyDyadic = %v, want %v", got, want)
		}
	}
}

func TestRecognizeDyadicFlipSwapsOperands(t *testing.T) {
	f := instr.NewFunction("flip-sub", instr.Signature{Args: 2, Outputs: 1}, []instr.Instr{
		instr.Prim{P: instr.Flip, Span: zerr.NoSpan},
		instr.Prim{P: instr.Sub, Span: zerr.NoSpan},
	})
	e := RecognizeDyadic(f, 0)
	if e == nil || !e.Flip {
		t.Fatalf("expected a flipped recognized entry, got %+v", e)
	}
	a := value.NumScalar(10)
	b := value.NumScalar(3)
	out, err := e.ApplyDyadic(a, b)
	if err != nil {
		t.Fatalf("ApplyDyadic: %v", err)
	}
	// Flip swaps operands before calling Sub, so this computes b - a.
	if got := out.(value.NumValue).Arr.Data()[0]; got != -7 {
		t.Fatalf("flipped Sub = %v, want -7", got)
	}
}

func uncoupleFunc() *instr.Function {
	return instr.NewFunction("uncouple", instr.Signature{Args: 1, Outputs: 2},
		[]instr.Instr{instr.ImplPrim{P: instr.UnCouple, Span: zerr.NoSpan}})
}

func TestRecognizeMonadic2UnCouple(t *testing.T) {
	e := RecognizeMonadic(uncoupleFunc(), 0)
	if e == nil || e.Kind != KindMonadic2 {
		t.Fatalf("expected a recognized Monadic-2 fast path, got %v", e)
	}
	in := value.NumValue{Arr: value.NewArray([]int{2, 2}, []float64{1, 2, 3, 4})}
	a, b, err := e.ApplyMonadic2(in)
	if err != nil {
		t.Fatalf("ApplyMonadic2: %v", err)
	}
	if a.(value.NumValue).Arr.Data()[0] != 1 || a.(value.NumValue).Arr.Data()[1] != 2 {
		t.Fatalf("first row = %v, want [1 2]", a.(value.NumValue).Arr.Data())
	}
	if b.(value.NumValue).Arr.Data()[0] != 3 || b.(value.NumValue).Arr.Data()[1] != 4 {
		t.Fatalf("second row = %v, want [3 4]", b.(value.NumValue).Arr.Data())
	}
}

func TestRecognizeMonadicChainsTwoPrimitives(t *testing.T) {
	f := instr.NewFunction("neg-abs", instr.Signature{Args: 1, Outputs: 1}, []instr.Instr{
		instr.Prim{P: instr.Neg, Span: zerr.NoSpan},
		instr.Prim{P: instr.Abs, Span: zerr.NoSpan},
	})
	e := RecognizeMonadic(f, 0)
	if e == nil || e.Kind != KindMonadic {
		t.Fatalf("expected a chained monadic fast path, got %v", e)
	}
	out, err := e.Apply(value.NumValue{Arr: value.NewArray([]int{3}, []float64{1, -2, 3})})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got := out.(value.NumValue).Arr.Data()
	want := []float64{1, 2, 3}
	for i, x := range want {
		if got[i] != x {
			t.Fatalf("chained Apply = %v, want %v", got, want)
		}
	}
}

func TestRecognizeMonadicChainFailsWithUnrecognizedWindow(t *testing.T) {
	f := instr.NewFunction("neg-other", instr.Signature{Args: 1, Outputs: 1}, []instr.Instr{
		instr.Prim{P: instr.Neg, Span: zerr.NoSpan},
		instr.Other{},
	})
	if e := RecognizeMonadic(f, 0); e != nil {
		t.Fatalf("expected an unrecognizable chain to report nil, got %v", e)
	}
}

func TestCacheMemoizesRecognition(t *testing.T) {
	c := NewCache()
	f := negFunc()
	first := c.MonadicEntry(f, 0)
	second := c.MonadicEntry(f, 0)
	if first != second {
		t.Fatal("expected the same cached *Entry on repeated lookups with the same hash and depth")
	}
}

func TestCacheDistinguishesDepth(t *testing.T) {
	c := NewCache()
	f := negFunc()
	d0 := c.MonadicEntry(f, 0)
	d1 := c.MonadicEntry(f, 1)
	if d0.Depth == d1.Depth {
		t.Fatal("expected depth-0 and depth-1 lookups to produce distinctly-depthed entries")
	}
}
