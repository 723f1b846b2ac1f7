// Package instr defines the small, closed instruction representation
// the fast-path recognizer inspects (spec.md §3 "Instruction", §4.C).
// It is adapted from the teacher's internal/bytecode package
// (OpCode/Chunk/DebugInfo): a general-purpose stack-machine opcode set
// repurposed here into the handful of tagged forms the zip engine's
// recognizer actually pattern-matches on — everything else collapses
// to Other and forces the slow path, which is the point: the real
// instruction stream (and its compiler) is out of this module's scope
// (spec.md §1), only the shapes the recognizer cares about matter.
package instr

import (
	"vectra/internal/value"
	"vectra/internal/zerr"
)

// Primitive identifies a named primitive function. Only the subset the
// fast-path table recognizes (spec.md §4.D) needs real kernels; others
// are valid tags that simply never match a fast path.
type Primitive int

const (
	Neg Primitive = iota
	Not
	Abs
	Sign
	Sqrt
	Floor
	Ceil
	Round
	Deshape
	Transpose
	Reverse
	FixPrim
	Classify
	BoxPrim
	Dup
	Add
	Sub
	Mul
	Div
	Pow
	Mod
	Log
	Eq
	Ne
	Lt
	Gt
	Le
	Ge
	ComplexPrim
	Max
	Min
	Atan
	Rotate
	Flip
	Pop
	RowsPrim
)

// ImplPrimitive identifies a compiler-internal primitive: one the
// source language's compiler emits but that has no surface-syntax
// glyph of its own.
type ImplPrimitive int

const (
	TransposeN ImplPrimitive = iota
	ReplaceRand
	SortUp
	SortDown
	UnCouple
	UnJoin
)

// Instr is the closed set of instruction forms the recognizer reads.
// A fifth, catch-all form (Other) stands for every instruction shape
// the recognizer doesn't special-case; it always forces the slow path.
type Instr interface{ isInstr() }

// Prim is a named primitive instruction.
type Prim struct {
	P    Primitive
	Span zerr.Span
}

// ImplPrim is a compiler-internal primitive instruction. N carries
// TransposeN's transpose count; it's ignored for every other
// ImplPrimitive.
type ImplPrim struct {
	P    ImplPrimitive
	N    int
	Span zerr.Span
}

// PushFunc pushes a function handle onto the function stack — the
// shape the recognizer looks for when unwrapping a nested Rows
// application (PushFunc(g), Prim(Rows)).
type PushFunc struct{ Func *Function }

// Push pushes a constant value, e.g. the replacement literal in a
// Pop;Push fast-path body.
type Push struct{ Val value.Value }

// Other is every instruction shape the recognizer doesn't special-case.
type Other struct{}

func (Prim) isInstr()     {}
func (ImplPrim) isInstr() {}
func (PushFunc) isInstr() {}
func (Push) isInstr()     {}
func (Other) isInstr()    {}
