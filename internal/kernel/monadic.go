// Package kernel holds the leaf primitive-function bodies the fast
// path's kernel table and the slow path's per-cell calls ultimately
// bottom out in. These are adapted from the teacher's
// internal/dataframe/array.go (NDArray's Add/Sub/Mul/Div/Abs/Sqrt/
// Pow/Sort/Min/Max family), generalized from a single float64 backing
// to vectra's generic Array[T] element kinds. Per spec.md §1/§6, the
// primitive library itself is an external collaborator out of this
// module's design scope — these bodies exist only so the fast-path
// table and slow-path driver have something real to call end to end.
package kernel

import (
	"math"

	"vectra/internal/value"
	"vectra/internal/zerr"
)

// mapNum applies f elementwise to a NumValue, preserving shape.
func mapNum(v value.NumValue, f func(float64) float64) value.NumValue {
	data := append([]float64(nil), v.Arr.Data()...)
	for i, x := range data {
		data[i] = f(x)
	}
	return value.NumValue{Arr: value.NewArray(v.Arr.Shape(), data)}
}

// Neg negates every element.
func Neg(v value.Value) (value.Value, error) {
	switch vv := v.(type) {
	case value.NumValue:
		return mapNum(vv, func(x float64) float64 { return -x }), nil
	case value.ComplexValue:
		data := append([]complex128(nil), vv.Arr.Data()...)
		for i, x := range data {
			data[i] = -x
		}
		return value.ComplexValue{Arr: value.NewArray(vv.Arr.Shape(), data)}, nil
	default:
		return nil, zerr.NewUserError(zerr.NoSpan, kindErr("neg", v))
	}
}

// Not computes the logical complement (1 - x) over Num, matching the
// source language's bitwise/boolean-overloaded primitive.
func Not(v value.Value) (value.Value, error) {
	nv, ok := v.(value.NumValue)
	if !ok {
		return nil, zerr.NewUserError(zerr.NoSpan, kindErr("not", v))
	}
	return mapNum(nv, func(x float64) float64 { return 1 - x }), nil
}

// Abs takes the absolute value elementwise.
func Abs(v value.Value) (value.Value, error) {
	nv, ok := v.(value.NumValue)
	if !ok {
		return nil, zerr.NewUserError(zerr.NoSpan, kindErr("abs", v))
	}
	return mapNum(nv, math.Abs), nil
}

// Sign returns -1, 0, or 1 per element.
func Sign(v value.Value) (value.Value, error) {
	nv, ok := v.(value.NumValue)
	if !ok {
		return nil, zerr.NewUserError(zerr.NoSpan, kindErr("sign", v))
	}
	return mapNum(nv, func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return 0
		}
	}), nil
}

// Sqrt takes the square root elementwise.
func Sqrt(v value.Value) (value.Value, error) {
	nv, ok := v.(value.NumValue)
	if !ok {
		return nil, zerr.NewUserError(zerr.NoSpan, kindErr("sqrt", v))
	}
	return mapNum(nv, math.Sqrt), nil
}

// Floor rounds down elementwise.
func Floor(v value.Value) (value.Value, error) {
	nv, ok := v.(value.NumValue)
	if !ok {
		return nil, zerr.NewUserError(zerr.NoSpan, kindErr("floor", v))
	}
	return mapNum(nv, math.Floor), nil
}

// Ceil rounds up elementwise.
func Ceil(v value.Value) (value.Value, error) {
	nv, ok := v.(value.NumValue)
	if !ok {
		return nil, zerr.NewUserError(zerr.NoSpan, kindErr("ceil", v))
	}
	return mapNum(nv, math.Ceil), nil
}

// Round rounds to nearest elementwise.
func Round(v value.Value) (value.Value, error) {
	nv, ok := v.(value.NumValue)
	if !ok {
		return nil, zerr.NewUserError(zerr.NoSpan, kindErr("round", v))
	}
	return mapNum(nv, math.Round), nil
}

// Deshape flattens v to a single row-major vector.
func Deshape(v value.Value) (value.Value, error) {
	return reshapeFlat(v), nil
}

// reshapeFlat returns v with its shape collapsed to [elementCount],
// reusing the backing data (no element-wise work needed).
func reshapeFlat(v value.Value) value.Value {
	switch vv := v.(type) {
	case value.NumValue:
		return value.NumValue{Arr: value.NewArray([]int{vv.Arr.ElementCount()}, vv.Arr.Data())}
	case value.ByteValue:
		return value.ByteValue{Arr: value.NewArray([]int{vv.Arr.ElementCount()}, vv.Arr.Data())}
	case value.ComplexValue:
		return value.ComplexValue{Arr: value.NewArray([]int{vv.Arr.ElementCount()}, vv.Arr.Data())}
	case value.CharValue:
		return value.CharValue{Arr: value.NewArray([]int{vv.Arr.ElementCount()}, vv.Arr.Data())}
	case value.BoxValue:
		return value.BoxValue{Arr: value.NewArray([]int{vv.Arr.ElementCount()}, vv.Arr.Data())}
	default:
		return v
	}
}

// Transpose rotates axes left by one (axis 0 moves to the end),
// matching the NDArray.Transpose idiom generalized to N dimensions.
func Transpose(v value.Value) (value.Value, error) {
	return TransposeN(v, 1)
}

// TransposeN rotates axes left by n, the ImplPrimitive a compiler-level
// Transpose(n) lowers to (internal/instr.TransposeN).
func TransposeN(v value.Value, n int) (value.Value, error) {
	shape := v.Shape()
	if len(shape) < 2 || n == 0 {
		return v, nil
	}
	n = ((n % len(shape)) + len(shape)) % len(shape)
	newShape := append(append(append([]int(nil), shape[n:]...), shape[:n]...))
	switch vv := v.(type) {
	case value.NumValue:
		return value.NumValue{Arr: value.NewArray(newShape, permute(vv.Arr.Data(), shape, n))}, nil
	case value.ByteValue:
		return value.ByteValue{Arr: value.NewArray(newShape, permute(vv.Arr.Data(), shape, n))}, nil
	case value.ComplexValue:
		return value.ComplexValue{Arr: value.NewArray(newShape, permute(vv.Arr.Data(), shape, n))}, nil
	case value.CharValue:
		return value.CharValue{Arr: value.NewArray(newShape, permute(vv.Arr.Data(), shape, n))}, nil
	case value.BoxValue:
		return value.BoxValue{Arr: value.NewArray(newShape, permute(vv.Arr.Data(), shape, n))}, nil
	default:
		return nil, zerr.NewUserError(zerr.NoSpan, kindErr("transpose", v))
	}
}

// permute reorders flat row-major data from shape to the shape rotated
// left by n axes, by walking the destination in row-major order and
// mapping each index back to its source coordinate.
func permute[T any](data []T, shape []int, n int) []T {
	rank := len(shape)
	srcStrides := make([]int, rank)
	acc := 1
	for i := rank - 1; i >= 0; i-- {
		srcStrides[i] = acc
		acc *= shape[i]
	}
	dstShape := append(append([]int(nil), shape[n:]...), shape[:n]...)
	dstStrides := make([]int, rank)
	acc = 1
	for i := rank - 1; i >= 0; i-- {
		dstStrides[i] = acc
		acc *= dstShape[i]
	}
	out := make([]T, len(data))
	total := len(data)
	dstAxisOf := func(dstAxis int) int { return (dstAxis + n) % rank }
	for flat := 0; flat < total; flat++ {
		rem := flat
		srcIdx := 0
		for dstAxis := 0; dstAxis < rank; dstAxis++ {
			coord := rem / dstStrides[dstAxis]
			rem -= coord * dstStrides[dstAxis]
			srcAxis := dstAxisOf(dstAxis)
			srcIdx += coord * srcStrides[srcAxis]
		}
		out[flat] = data[srcIdx]
	}
	return out
}

// Reverse flips rows along axis 0.
func Reverse(v value.Value) (value.Value, error) {
	n := v.RowCount()
	rows := make([]value.Value, n)
	for i := 0; i < n; i++ {
		rows[i] = value.Row(v, n-1-i)
	}
	return value.FromRowValues(rows)
}

// Classify assigns each distinct row of v an increasing integer id in
// first-seen order, the Num array NDArray's ArgSort-adjacent idiom
// repurposed for row equality rather than ordering.
func Classify(v value.Value) (value.Value, error) {
	n := v.RowCount()
	seen := map[string]float64{}
	ids := make([]float64, n)
	next := float64(0)
	for i := 0; i < n; i++ {
		key := rowKey(value.Row(v, i))
		id, ok := seen[key]
		if !ok {
			id = next
			seen[key] = id
			next++
		}
		ids[i] = id
	}
	return value.NumValue{Arr: value.NewArray([]int{n}, ids)}, nil
}

// Box wraps v in a single opaque cell.
func Box(v value.Value) (value.Value, error) {
	return value.Box(v), nil
}

// SortUp sorts rows of v ascending by their flattened content, the
// ImplPrimitive instr.SortUp lowers to.
func SortUp(v value.Value) (value.Value, error) { return sortRows(v, false) }

// SortDown sorts rows of v descending.
func SortDown(v value.Value) (value.Value, error) { return sortRows(v, true) }

func sortRows(v value.Value, descending bool) (value.Value, error) {
	n := v.RowCount()
	idx := make([]int, n)
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		idx[i] = i
		keys[i] = rowKey(value.Row(v, i))
	}
	for i := 1; i < n; i++ {
		j := i
		for j > 0 {
			less := keys[idx[j-1]] > keys[idx[j]]
			if descending {
				less = keys[idx[j-1]] < keys[idx[j]]
			}
			if !less {
				break
			}
			idx[j-1], idx[j] = idx[j], idx[j-1]
			j--
		}
	}
	rows := make([]value.Value, n)
	for i, k := range idx {
		rows[i] = value.Row(v, k)
	}
	return value.FromRowValues(rows)
}

func kindErr(op string, v value.Value) error {
	return &kindError{op: op, kind: v.Kind().String()}
}

type kindError struct {
	op   string
	kind string
}

func (e *kindError) Error() string {
	return e.op + ": unsupported for " + e.kind + " arrays"
}
