package kernel

import (
	"math/rand"

	"vectra/internal/value"
	"vectra/internal/zerr"
)

// ReplaceRand replaces every element of v with an independent draw from
// [0,1), the ImplPrimitive behind the source language's "gap rand"
// idiom.
func ReplaceRand(v value.Value) (value.Value, error) {
	nv, ok := v.(value.NumValue)
	if !ok {
		return nil, zerr.NewUserError(zerr.NoSpan, kindErr("replace_rand", v))
	}
	return mapNum(nv, func(float64) float64 { return rand.Float64() }), nil
}

// Dup duplicates v, the whole-array fast path behind the source
// language's Dup primitive (push two copies of the top of stack):
// both outputs share the same backing buffer until one is mutated,
// same as any other COW clone.
func Dup(v value.Value) (value.Value, value.Value, error) {
	switch vv := v.(type) {
	case value.NumValue:
		return vv, value.NumValue{Arr: vv.Arr.Clone()}, nil
	case value.ByteValue:
		return vv, value.ByteValue{Arr: vv.Arr.Clone()}, nil
	case value.ComplexValue:
		return vv, value.ComplexValue{Arr: vv.Arr.Clone()}, nil
	case value.CharValue:
		return vv, value.CharValue{Arr: vv.Arr.Clone()}, nil
	case value.BoxValue:
		return vv, value.BoxValue{Arr: vv.Arr.Clone()}, nil
	}
	return v, v, nil
}

// UnCouple splits a rank>=1, row-count-2 array back into its two rows,
// the inverse of the source language's Couple primitive.
func UnCouple(v value.Value) (a, b value.Value, err error) {
	if v.RowCount() != 2 {
		return nil, nil, zerr.NewArityError(zerr.NoSpan, "uncouple requires an array of exactly two rows")
	}
	return value.Row(v, 0), value.Row(v, 1), nil
}

// UnJoin splits v into its first row and the remaining rows, the
// inverse of Join.
func UnJoin(v value.Value) (head, tail value.Value, err error) {
	if v.RowCount() == 0 {
		return nil, nil, zerr.NewArityError(zerr.NoSpan, "unjoin requires a non-empty array")
	}
	return value.Row(v, 0), value.SliceRows(v, 1, v.RowCount()), nil
}
