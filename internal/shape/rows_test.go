package shape

import (
	"testing"

	"vectra/internal/value"
	"vectra/internal/zerr"
)

func TestFixedRowsScalarIsFixed(t *testing.T) {
	ctx := fakeCtx{num: numPtr(0)}
	scalar := value.NumScalar(9)
	vec := value.NumValue{Arr: value.NewArray([]int{3}, []float64{1, 2, 3})}
	plan, err := FixedRows([]value.Value{scalar, vec}, ctx, zerr.NoSpan)
	if err != nil {
		t.Fatalf("FixedRows: %v", err)
	}
	if plan.RowCount != 3 {
		t.Fatalf("RowCount = %d, want 3", plan.RowCount)
	}
	for i := 0; i < 3; i++ {
		if plan.Row(0, i).(value.NumValue).Arr.Data()[0] != 9 {
			t.Fatalf("scalar argument should repeat at every row, row %d", i)
		}
	}
}

func TestFixedRowsMismatchWithoutFillIsShapeMismatch(t *testing.T) {
	ctx := fakeCtx{}
	a := value.NumValue{Arr: value.NewArray([]int{2}, []float64{1, 2})}
	b := value.NumValue{Arr: value.NewArray([]int{5}, []float64{1, 2, 3, 4, 5})}
	_, err := FixedRows([]value.Value{a, b}, ctx, zerr.NoSpan)
	if !zerr.Is(err, zerr.ShapeMismatch) {
		t.Fatalf("expected ShapeMismatch, got %v", err)
	}
}

func TestFixedRowsFillReconciles(t *testing.T) {
	ctx := fakeCtx{num: numPtr(0)}
	a := value.NumValue{Arr: value.NewArray([]int{2}, []float64{1, 2})}
	b := value.NumValue{Arr: value.NewArray([]int{4}, []float64{1, 2, 3, 4})}
	plan, err := FixedRows([]value.Value{a, b}, ctx, zerr.NoSpan)
	if err != nil {
		t.Fatalf("FixedRows: %v", err)
	}
	if plan.RowCount != 4 {
		t.Fatalf("RowCount = %d, want 4", plan.RowCount)
	}
	if plan.Row(0, 3).(value.NumValue).Arr.Data()[0] != 0 {
		t.Fatal("filled tail row should hold the configured fill value")
	}
}
