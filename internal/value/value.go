package value

import (
	"fmt"
	"iter"
)

// Kind tags which element type a Value holds.
type Kind uint8

const (
	KindNum Kind = iota
	KindByte
	KindComplex
	KindChar
	KindBox
)

func (k Kind) String() string {
	switch k {
	case KindNum:
		return "number"
	case KindByte:
		return "byte"
	case KindComplex:
		return "complex"
	case KindChar:
		return "char"
	case KindBox:
		return "box"
	default:
		return "unknown"
	}
}

// Boxed is the element type backing Value's Box variant: an owned
// Value hidden behind a single cell, the way Array<Boxed> lets boxed
// values nest inside an outer array without the outer array itself
// becoming heterogeneous.
type Boxed struct {
	V Value
}

// Value is the tagged union over element types spec.md §3 describes:
// Num (float64), Byte (uint8), Complex (complex128), Char (rune), and
// Box (owned Value). Per spec.md §9's design note, dispatch is a
// closed type switch over five concrete wrapper types rather than an
// open-ended interface hierarchy — there is no sixth implementation.
type Value interface {
	Kind() Kind
	Shape() []int
	Rank() int
	RowCount() int
	ElementCount() int
	Meta() PersistentMeta
	WithMeta(PersistentMeta) Value
	TakeMeta() (Value, PersistentMeta)
	Fix() Value
	UndoFix() Value
}

type NumValue struct{ Arr Array[float64] }
type ByteValue struct{ Arr Array[byte] }
type ComplexValue struct{ Arr Array[complex128] }
type CharValue struct{ Arr Array[rune] }
type BoxValue struct{ Arr Array[Boxed] }

func (v NumValue) Kind() Kind     { return KindNum }
func (v ByteValue) Kind() Kind    { return KindByte }
func (v ComplexValue) Kind() Kind { return KindComplex }
func (v CharValue) Kind() Kind    { return KindChar }
func (v BoxValue) Kind() Kind     { return KindBox }

func (v NumValue) Shape() []int     { return v.Arr.Shape() }
func (v ByteValue) Shape() []int    { return v.Arr.Shape() }
func (v ComplexValue) Shape() []int { return v.Arr.Shape() }
func (v CharValue) Shape() []int    { return v.Arr.Shape() }
func (v BoxValue) Shape() []int     { return v.Arr.Shape() }

func (v NumValue) Rank() int     { return v.Arr.Rank() }
func (v ByteValue) Rank() int    { return v.Arr.Rank() }
func (v ComplexValue) Rank() int { return v.Arr.Rank() }
func (v CharValue) Rank() int    { return v.Arr.Rank() }
func (v BoxValue) Rank() int     { return v.Arr.Rank() }

func (v NumValue) RowCount() int     { return v.Arr.RowCount() }
func (v ByteValue) RowCount() int    { return v.Arr.RowCount() }
func (v ComplexValue) RowCount() int { return v.Arr.RowCount() }
func (v CharValue) RowCount() int    { return v.Arr.RowCount() }
func (v BoxValue) RowCount() int     { return v.Arr.RowCount() }

func (v NumValue) ElementCount() int     { return v.Arr.ElementCount() }
func (v ByteValue) ElementCount() int    { return v.Arr.ElementCount() }
func (v ComplexValue) ElementCount() int { return v.Arr.ElementCount() }
func (v CharValue) ElementCount() int    { return v.Arr.ElementCount() }
func (v BoxValue) ElementCount() int     { return v.Arr.ElementCount() }

func (v NumValue) Meta() PersistentMeta     { return v.Arr.Meta() }
func (v ByteValue) Meta() PersistentMeta    { return v.Arr.Meta() }
func (v ComplexValue) Meta() PersistentMeta { return v.Arr.Meta() }
func (v CharValue) Meta() PersistentMeta    { return v.Arr.Meta() }
func (v BoxValue) Meta() PersistentMeta     { return v.Arr.Meta() }

func (v NumValue) WithMeta(m PersistentMeta) Value     { v.Arr = v.Arr.WithMeta(m); return v }
func (v ByteValue) WithMeta(m PersistentMeta) Value    { v.Arr = v.Arr.WithMeta(m); return v }
func (v ComplexValue) WithMeta(m PersistentMeta) Value { v.Arr = v.Arr.WithMeta(m); return v }
func (v CharValue) WithMeta(m PersistentMeta) Value    { v.Arr = v.Arr.WithMeta(m); return v }
func (v BoxValue) WithMeta(m PersistentMeta) Value     { v.Arr = v.Arr.WithMeta(m); return v }

func (v NumValue) TakeMeta() (Value, PersistentMeta) {
	arr, m := v.Arr.TakeMeta()
	v.Arr = arr
	return v, m
}
func (v ByteValue) TakeMeta() (Value, PersistentMeta) {
	arr, m := v.Arr.TakeMeta()
	v.Arr = arr
	return v, m
}
func (v ComplexValue) TakeMeta() (Value, PersistentMeta) {
	arr, m := v.Arr.TakeMeta()
	v.Arr = arr
	return v, m
}
func (v CharValue) TakeMeta() (Value, PersistentMeta) {
	arr, m := v.Arr.TakeMeta()
	v.Arr = arr
	return v, m
}
func (v BoxValue) TakeMeta() (Value, PersistentMeta) {
	arr, m := v.Arr.TakeMeta()
	v.Arr = arr
	return v, m
}

func (v NumValue) Fix() Value     { v.Arr = v.Arr.Fix(); return v }
func (v ByteValue) Fix() Value    { v.Arr = v.Arr.Fix(); return v }
func (v ComplexValue) Fix() Value { v.Arr = v.Arr.Fix(); return v }
func (v CharValue) Fix() Value    { v.Arr = v.Arr.Fix(); return v }
func (v BoxValue) Fix() Value     { v.Arr = v.Arr.Fix(); return v }

func (v NumValue) UndoFix() Value     { v.Arr = v.Arr.UndoFix(); return v }
func (v ByteValue) UndoFix() Value    { v.Arr = v.Arr.UndoFix(); return v }
func (v ComplexValue) UndoFix() Value { v.Arr = v.Arr.UndoFix(); return v }
func (v CharValue) UndoFix() Value    { v.Arr = v.Arr.UndoFix(); return v }
func (v BoxValue) UndoFix() Value     { v.Arr = v.Arr.UndoFix(); return v }

// TypeName mirrors Value::type_name in value.rs.
func TypeName(v Value) string { return v.Kind().String() }

// Default is the zero Value: an empty Byte array, matching
// impl Default for Value in value.rs (Array::<u8>::default().into()).
func Default() Value {
	return ByteValue{Arr: NewArray[byte]([]int{0}, nil)}
}

// NumScalar, ByteScalar, CharScalar, ComplexScalar, BoxScalar build
// rank-0 Values, the shape proxy cells and per-element iteration push
// back onto the stack.
func NumScalar(v float64) Value     { return NumValue{Arr: NewScalar(v)} }
func ByteScalar(v byte) Value       { return ByteValue{Arr: NewScalar(v)} }
func CharScalar(v rune) Value       { return CharValue{Arr: NewScalar(v)} }
func ComplexScalar(v complex128) Value { return ComplexValue{Arr: NewScalar(v)} }
func BoxScalar(v Boxed) Value       { return BoxValue{Arr: NewScalar(v)} }

// Elements iterates a Value's scalar leaves in row-major order, each
// re-wrapped as a rank-0 Value of the same kind.
func Elements(v Value) iter.Seq[Value] {
	return func(yield func(Value) bool) {
		switch vv := v.(type) {
		case NumValue:
			for x := range vv.Arr.Elements() {
				if !yield(NumScalar(x)) {
					return
				}
			}
		case ByteValue:
			for x := range vv.Arr.Elements() {
				if !yield(ByteScalar(x)) {
					return
				}
			}
		case ComplexValue:
			for x := range vv.Arr.Elements() {
				if !yield(ComplexScalar(x)) {
					return
				}
			}
		case CharValue:
			for x := range vv.Arr.Elements() {
				if !yield(CharScalar(x)) {
					return
				}
			}
		case BoxValue:
			for x := range vv.Arr.Elements() {
				if !yield(BoxScalar(x)) {
					return
				}
			}
		}
	}
}

// Rows iterates a Value's rows (shape[1:]-shaped sub-values).
func Rows(v Value) iter.Seq[Value] {
	return func(yield func(Value) bool) {
		switch vv := v.(type) {
		case NumValue:
			for r := range vv.Arr.Rows() {
				if !yield(NumValue{Arr: r}) {
					return
				}
			}
		case ByteValue:
			for r := range vv.Arr.Rows() {
				if !yield(ByteValue{Arr: r}) {
					return
				}
			}
		case ComplexValue:
			for r := range vv.Arr.Rows() {
				if !yield(ComplexValue{Arr: r}) {
					return
				}
			}
		case CharValue:
			for r := range vv.Arr.Rows() {
				if !yield(CharValue{Arr: r}) {
					return
				}
			}
		case BoxValue:
			for r := range vv.Arr.Rows() {
				if !yield(BoxValue{Arr: r}) {
					return
				}
			}
		}
	}
}

// Row returns the i'th row without materializing the full iterator.
func Row(v Value, i int) Value {
	switch vv := v.(type) {
	case NumValue:
		return NumValue{Arr: vv.Arr.Row(i)}
	case ByteValue:
		return ByteValue{Arr: vv.Arr.Row(i)}
	case ComplexValue:
		return ComplexValue{Arr: vv.Arr.Row(i)}
	case CharValue:
		return CharValue{Arr: vv.Arr.Row(i)}
	case BoxValue:
		return BoxValue{Arr: vv.Arr.Row(i)}
	default:
		panic("value: unreachable kind")
	}
}

// SliceRows returns rows [from, to) as one Value, used by rows_windows.
func SliceRows(v Value, from, to int) Value {
	switch vv := v.(type) {
	case NumValue:
		return NumValue{Arr: vv.Arr.SliceRows(from, to)}
	case ByteValue:
		return ByteValue{Arr: vv.Arr.SliceRows(from, to)}
	case ComplexValue:
		return ComplexValue{Arr: vv.Arr.SliceRows(from, to)}
	case CharValue:
		return CharValue{Arr: vv.Arr.SliceRows(from, to)}
	case BoxValue:
		return BoxValue{Arr: vv.Arr.SliceRows(from, to)}
	default:
		panic("value: unreachable kind")
	}
}

// PopRow drops the synthetic proxy row, retaining its shape contribution.
func PopRow(v Value) Value {
	switch vv := v.(type) {
	case NumValue:
		return NumValue{Arr: vv.Arr.PopRow()}
	case ByteValue:
		return ByteValue{Arr: vv.Arr.PopRow()}
	case ComplexValue:
		return ComplexValue{Arr: vv.Arr.PopRow()}
	case CharValue:
		return CharValue{Arr: vv.Arr.PopRow()}
	case BoxValue:
		return BoxValue{Arr: vv.Arr.PopRow()}
	default:
		panic("value: unreachable kind")
	}
}

// RepeatShape is the Value-level wrapper for Array.RepeatShape, the
// kernel of the Pop;Push replacement fast path (replace_depth in
// zip.rs): it re-shapes a rank-0 (or any) Value by replicating its data
// across a prefix of axes.
func RepeatShape(v Value, prefix []int) Value {
	switch vv := v.(type) {
	case NumValue:
		return NumValue{Arr: vv.Arr.RepeatShape(prefix)}
	case ByteValue:
		return ByteValue{Arr: vv.Arr.RepeatShape(prefix)}
	case ComplexValue:
		return ComplexValue{Arr: vv.Arr.RepeatShape(prefix)}
	case CharValue:
		return CharValue{Arr: vv.Arr.RepeatShape(prefix)}
	case BoxValue:
		return BoxValue{Arr: vv.Arr.RepeatShape(prefix)}
	default:
		panic("value: unreachable kind")
	}
}

// FromRowValues reassembles a Value from a sequence of row values,
// joining them along a new leading axis — the Go analogue of
// Value::from_row_values. All rows must share the same Kind: rows of
// different kinds, Byte and Num included, are rejected with an error
// (there is no numeric promotion).
func FromRowValues(rows []Value) (Value, error) {
	if len(rows) == 0 {
		return Default(), nil
	}
	kind := rows[0].Kind()
	for _, r := range rows[1:] {
		if r.Kind() != kind {
			return nil, fmt.Errorf("value: cannot join %s row onto %s result", r.Kind(), kind)
		}
	}
	switch kind {
	case KindNum:
		arrs := make([]Array[float64], len(rows))
		for i, r := range rows {
			arrs[i] = r.(NumValue).Arr
		}
		return NumValue{Arr: FromRows(arrs)}, nil
	case KindByte:
		arrs := make([]Array[byte], len(rows))
		for i, r := range rows {
			arrs[i] = r.(ByteValue).Arr
		}
		return ByteValue{Arr: FromRows(arrs)}, nil
	case KindComplex:
		arrs := make([]Array[complex128], len(rows))
		for i, r := range rows {
			arrs[i] = r.(ComplexValue).Arr
		}
		return ComplexValue{Arr: FromRows(arrs)}, nil
	case KindChar:
		arrs := make([]Array[rune], len(rows))
		for i, r := range rows {
			arrs[i] = r.(CharValue).Arr
		}
		return CharValue{Arr: FromRows(arrs)}, nil
	case KindBox:
		arrs := make([]Array[Boxed], len(rows))
		for i, r := range rows {
			arrs[i] = r.(BoxValue).Arr
		}
		return BoxValue{Arr: FromRows(arrs)}, nil
	default:
		panic("value: unreachable kind")
	}
}

// Fills bundles one proxy/fill scalar per element kind, so callers
// needing to build a proxy cell for an arbitrary Value don't need to
// know in advance which kind they'll get.
type Fills struct {
	Num     float64
	Byte    byte
	Char    rune
	Complex complex128
	Box     Boxed
}

// ProxyScalar builds a rank-0 Value of kind holding the matching fill,
// used by each's empty-input path to discover an output shape
// (spec.md §4.A).
func ProxyScalar(kind Kind, f Fills) Value {
	switch kind {
	case KindNum:
		return NumScalar(f.Num)
	case KindByte:
		return ByteScalar(f.Byte)
	case KindChar:
		return CharScalar(f.Char)
	case KindComplex:
		return ComplexScalar(f.Complex)
	case KindBox:
		return BoxScalar(f.Box)
	default:
		panic("value: unreachable kind")
	}
}

// ProxyRow returns a Value of shape v.Shape()[1:] filled with the
// fill scalar appropriate to v's kind, standing in for v's missing row.
func ProxyRow(v Value, f Fills) Value {
	switch vv := v.(type) {
	case NumValue:
		return NumValue{Arr: vv.Arr.ProxyRow(f.Num)}
	case ByteValue:
		return ByteValue{Arr: vv.Arr.ProxyRow(f.Byte)}
	case ComplexValue:
		return ComplexValue{Arr: vv.Arr.ProxyRow(f.Complex)}
	case CharValue:
		return CharValue{Arr: vv.Arr.ProxyRow(f.Char)}
	case BoxValue:
		return BoxValue{Arr: vv.Arr.ProxyRow(f.Box)}
	default:
		panic("value: unreachable kind")
	}
}

// Empty builds a zero-length Value of kind shaped shape (which must
// have product 0), used to produce a same-shaped empty result when
// each/rows is driven by an empty operand.
func Empty(kind Kind, shape []int) Value {
	switch kind {
	case KindNum:
		return NumValue{Arr: NewArray[float64](shape, nil)}
	case KindByte:
		return ByteValue{Arr: NewArray[byte](shape, nil)}
	case KindComplex:
		return ComplexValue{Arr: NewArray[complex128](shape, nil)}
	case KindChar:
		return CharValue{Arr: NewArray[rune](shape, nil)}
	case KindBox:
		return BoxValue{Arr: NewArray[Boxed](shape, nil)}
	default:
		panic("value: unreachable kind")
	}
}

// Reshape reinterprets v's existing flat data under a new shape of the
// same element count, used to fold each's flat per-element results
// back into the original operand's shape.
func Reshape(v Value, shape []int) Value {
	switch vv := v.(type) {
	case NumValue:
		return NumValue{Arr: NewArray(shape, vv.Arr.Data())}
	case ByteValue:
		return ByteValue{Arr: NewArray(shape, vv.Arr.Data())}
	case ComplexValue:
		return ComplexValue{Arr: NewArray(shape, vv.Arr.Data())}
	case CharValue:
		return CharValue{Arr: NewArray(shape, vv.Arr.Data())}
	case BoxValue:
		return BoxValue{Arr: NewArray(shape, vv.Arr.Data())}
	default:
		panic("value: unreachable kind")
	}
}

// Unbox strips one layer of boxing if v is a rank-0 Box, matching the
// "unboxed_if"/"boxed_if" duality rows uses to implement its inv flag.
func Unbox(v Value) Value {
	bv, ok := v.(BoxValue)
	if !ok || bv.Arr.Rank() != 0 {
		return v
	}
	return bv.Arr.Data()[0].V
}

// Box wraps v in a single Boxed cell.
func Box(v Value) Value {
	return BoxValue{Arr: NewScalar(Boxed{V: v})}
}

// BoxedIf boxes v when inv is true, used by rows(inv) to box each
// per-row result when running in inverted ("rows-into-box") mode.
func BoxedIf(v Value, inv bool) Value {
	if !inv {
		return v
	}
	return Box(v)
}

// UnboxedIf strips one layer of boxing when inv is true, the dual of
// BoxedIf applied to inputs before calling the user function.
func UnboxedIf(v Value, inv bool) Value {
	if !inv {
		return v
	}
	return Unbox(v)
}
