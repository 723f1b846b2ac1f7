// Package fastpath implements the kernel table and recognizer spec.md
// components D and E describe: a small set of named fast kernels, and
// a recognizer that inspects a Function's instruction body to decide
// whether it matches one of them closely enough to skip the per-cell
// interpreter callback entirely.
package fastpath

import (
	"vectra/internal/instr"
	"vectra/internal/kernel"
	"vectra/internal/value"
)

// MonadicKernel is a depth-0 leaf operation over a whole Value.
type MonadicKernel func(value.Value) (value.Value, error)

// DyadicKernel is a depth-0 leaf operation over two whole Values.
type DyadicKernel func(a, b value.Value) (value.Value, error)

// Monadic2Kernel is a depth-0 leaf operation over a whole Value that
// produces two results (spec.md §4.D "Monadic-2").
type Monadic2Kernel func(value.Value) (value.Value, value.Value, error)

// monadicTable maps a named primitive to the kernel body that computes
// it directly over an entire array, bypassing the per-row interpreter
// callback each/rows would otherwise make.
var monadicTable = map[instr.Primitive]MonadicKernel{
	instr.Neg:       kernel.Neg,
	instr.Not:       kernel.Not,
	instr.Abs:       kernel.Abs,
	instr.Sign:      kernel.Sign,
	instr.Sqrt:      kernel.Sqrt,
	instr.Floor:     kernel.Floor,
	instr.Ceil:      kernel.Ceil,
	instr.Round:     kernel.Round,
	instr.Deshape:   kernel.Deshape,
	instr.Transpose: kernel.Transpose,
	instr.Reverse:   kernel.Reverse,
	instr.Classify:  kernel.Classify,
	instr.BoxPrim:   kernel.Box,
}

// dyadicTable maps a named primitive to its whole-array binary kernel.
var dyadicTable = map[instr.Primitive]DyadicKernel{
	instr.Add:         kernel.Add,
	instr.Sub:         kernel.Sub,
	instr.Mul:         kernel.Mul,
	instr.Div:         kernel.Div,
	instr.Pow:         kernel.Pow,
	instr.Mod:         kernel.Mod,
	instr.Log:         kernel.Log,
	instr.Eq:          kernel.Eq,
	instr.Ne:          kernel.Ne,
	instr.Lt:          kernel.Lt,
	instr.Gt:          kernel.Gt,
	instr.Le:          kernel.Le,
	instr.Ge:          kernel.Ge,
	instr.ComplexPrim: kernel.Complex,
	instr.Max:         kernel.Max,
	instr.Min:         kernel.Min,
	instr.Atan:        kernel.Atan,
	instr.Rotate:      kernel.Rotate,
}

// implMonadicTable maps compiler-internal monadic primitives the same
// way monadicTable does for surface primitives.
var implMonadicTable = map[instr.ImplPrimitive]func(value.Value, int) (value.Value, error){
	instr.TransposeN: kernel.TransposeN,
	instr.ReplaceRand: func(v value.Value, _ int) (value.Value, error) { return kernel.ReplaceRand(v) },
	instr.SortUp:      func(v value.Value, _ int) (value.Value, error) { return kernel.SortUp(v) },
	instr.SortDown:    func(v value.Value, _ int) (value.Value, error) { return kernel.SortDown(v) },
}

// monadic2Table maps Dup to its whole-array two-output kernel
// (spec.md §4.D "Monadic-2").
var monadic2Table = map[instr.Primitive]Monadic2Kernel{
	instr.Dup: kernel.Dup,
}

// implMonadic2Table is monadic2Table's compiler-internal analogue:
// UnCouple and UnJoin are both already shaped as Monadic2Kernel.
var implMonadic2Table = map[instr.ImplPrimitive]Monadic2Kernel{
	instr.UnCouple: kernel.UnCouple,
	instr.UnJoin:   kernel.UnJoin,
}

// atDepth generalizes a depth-0 leaf kernel to apply at an arbitrary
// nesting depth: depth 0 calls k directly; depth > 0 maps k over each
// row and reassembles, recursing one depth level at a time. This is
// the engine's realization of "depth tracking for nested each/rows
// modifier composition" (spec.md §4.D).
func atDepth(k MonadicKernel, v value.Value, depth int) (value.Value, error) {
	// A zero row count at any recursion level means there is nothing to
	// recurse into; value.FromRowValues can't recover the trailing shape
	// from an empty row slice, so apply k to the (empty) sub-array
	// directly instead — every recognized monadic kernel is already
	// well-defined on a zero-element array of its own shape.
	if depth <= 0 || v.RowCount() == 0 {
		return k(v)
	}
	n := v.RowCount()
	rows := make([]value.Value, n)
	for i := 0; i < n; i++ {
		r, err := atDepth(k, value.Row(v, i), depth-1)
		if err != nil {
			return nil, err
		}
		rows[i] = r
	}
	return value.FromRowValues(rows)
}

// atDepth2 is atDepth's dyadic analogue: at depth 0 it calls k(a, b)
// directly; at depth > 0 it zips a and b row-by-row (both must share
// the same row count at this depth) and recurses.
func atDepth2(k DyadicKernel, a, b value.Value, depth int) (value.Value, error) {
	if depth <= 0 || a.RowCount() == 0 {
		return k(a, b)
	}
	n := a.RowCount()
	rows := make([]value.Value, n)
	for i := 0; i < n; i++ {
		r, err := atDepth2(k, value.Row(a, i), value.Row(b, i), depth-1)
		if err != nil {
			return nil, err
		}
		rows[i] = r
	}
	return value.FromRowValues(rows)
}

// atDepthMulti is atDepth's Monadic-2 analogue: it generalizes a
// depth-0, two-output leaf kernel to an arbitrary nesting depth,
// rejoining each of the two output streams independently.
func atDepthMulti(k Monadic2Kernel, v value.Value, depth int) (value.Value, value.Value, error) {
	if depth <= 0 || v.RowCount() == 0 {
		return k(v)
	}
	n := v.RowCount()
	rowsA := make([]value.Value, n)
	rowsB := make([]value.Value, n)
	for i := 0; i < n; i++ {
		a, b, err := atDepthMulti(k, value.Row(v, i), depth-1)
		if err != nil {
			return nil, nil, err
		}
		rowsA[i] = a
		rowsB[i] = b
	}
	outA, err := value.FromRowValues(rowsA)
	if err != nil {
		return nil, nil, err
	}
	outB, err := value.FromRowValues(rowsB)
	if err != nil {
		return nil, nil, err
	}
	return outA, outB, nil
}

// ReplaceWithConstant realizes the Pop;Push fast path (zip.rs's
// replace_depth): every cell an each/rows call would have produced is
// instead the same constant, so the whole result can be built in one
// shot via RepeatShape instead of one call per row.
func ReplaceWithConstant(rowPrefixShape []int, constant value.Value) value.Value {
	return value.RepeatShape(constant, rowPrefixShape)
}
