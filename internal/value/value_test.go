package value

import "testing"

func TestElementsIterationOrder(t *testing.T) {
	v := NumValue{Arr: NewArray([]int{2, 2}, []float64{1, 2, 3, 4})}
	var got []float64
	for e := range Elements(v) {
		got = append(got, e.(NumValue).Arr.Data()[0])
	}
	want := []float64{1, 2, 3, 4}
	for i, x := range want {
		if got[i] != x {
			t.Fatalf("Elements() = %v, want %v", got, want)
		}
	}
}

func TestRowsIterationAndRow(t *testing.T) {
	v := NumValue{Arr: NewArray([]int{3, 2}, []float64{1, 2, 3, 4, 5, 6})}
	var n int
	for range Rows(v) {
		n++
	}
	if n != 3 {
		t.Fatalf("Rows() yielded %d rows, want 3", n)
	}
	r := Row(v, 1).(NumValue)
	if r.Arr.Data()[0] != 3 || r.Arr.Data()[1] != 4 {
		t.Fatalf("Row(1) = %v, want [3 4]", r.Arr.Data())
	}
}

func TestFromRowValuesRejectsMixedKinds(t *testing.T) {
	rows := []Value{NumScalar(1), CharScalar('a')}
	if _, err := FromRowValues(rows); err == nil {
		t.Fatal("expected an error joining mismatched kinds")
	}
}

func TestBoxUnboxRoundTrip(t *testing.T) {
	inner := NumScalar(42)
	boxed := Box(inner)
	if boxed.Kind() != KindBox {
		t.Fatalf("Box() kind = %v, want KindBox", boxed.Kind())
	}
	got := Unbox(boxed)
	if got.(NumValue).Arr.Data()[0] != 42 {
		t.Fatalf("Unbox() = %v, want 42", got)
	}
}

func TestBoxedIfUnboxedIfDuality(t *testing.T) {
	v := NumScalar(5)
	boxed := BoxedIf(v, true)
	if boxed.Kind() != KindBox {
		t.Fatal("BoxedIf(true) should box")
	}
	if UnboxedIf(boxed, true).Kind() != KindNum {
		t.Fatal("UnboxedIf(true) should undo BoxedIf(true)")
	}
	if BoxedIf(v, false).Kind() != KindNum {
		t.Fatal("BoxedIf(false) should be a no-op")
	}
}

func TestTakeMetaClearsAndReturns(t *testing.T) {
	v := NumValue{Arr: NewArray([]int{1}, []float64{1}).WithMeta(PersistentMeta{Label: "x"})}
	stripped, m := v.TakeMeta()
	if m.Label != "x" {
		t.Fatalf("TakeMeta() meta = %v, want Label x", m)
	}
	if stripped.Meta().Label != "" {
		t.Fatal("TakeMeta() should clear the value's own meta")
	}
}
