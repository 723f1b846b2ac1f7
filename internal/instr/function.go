package instr

import (
	"fmt"
	"hash/fnv"
	"strconv"

	"vectra/internal/value"
)

// Signature describes a function's stack effect: how many values it
// pops and how many it pushes. The recognizer and slow-path driver both
// need this to decide call arity without inspecting the body.
type Signature struct {
	Args    int
	Outputs int
}

// Function is a handle to a compiled function body: its signature and
// its instruction slice. The body is immutable once built, so Hash can
// be computed once at construction and cached — the recognizer keys its
// per-function fast-path cache on it (spec.md §4.E, §9 "function
// identity via a stable hash of the instruction slice").
type Function struct {
	Name string
	Sig  Signature
	Body []Instr

	hash uint64
}

// NewFunction builds a Function and eagerly computes its content hash.
func NewFunction(name string, sig Signature, body []Instr) *Function {
	f := &Function{Name: name, Sig: sig, Body: body}
	f.hash = fingerprint(body)
	return f
}

// Signature returns f's arity/output-count pair.
func (f *Function) Signature() Signature { return f.Sig }

// Instrs exposes the body for the recognizer to pattern-match over.
func (f *Function) Instrs() []Instr { return f.Body }

// Hash is a stable fingerprint of f's body, suitable as a cache key.
// The recognizer cache and RefContext's closure registry key on it
// directly and do not re-inspect the body on a hit, so two bodies with
// the same hash share one cached fast-path entry and one registered
// closure.
func (f *Function) Hash() uint64 { return f.hash }

// fingerprint hashes the shape of an instruction slice: each
// instruction contributes its tag and the fields the recognizer reads
// (for Push: the constant's kind and shape, plus its data for every
// kind except Box). Nested function bodies (pushed via PushFunc)
// contribute their own already-computed hash rather than being walked
// recursively, keeping this O(len(body)) regardless of nesting depth.
func fingerprint(body []Instr) uint64 {
	h := fnv.New64a()
	for _, in := range body {
		switch v := in.(type) {
		case Prim:
			h.Write([]byte{0})
			writeInt(h, int(v.P))
		case ImplPrim:
			h.Write([]byte{1})
			writeInt(h, int(v.P))
			writeInt(h, v.N)
		case PushFunc:
			h.Write([]byte{2})
			if v.Func != nil {
				writeInt(h, int(v.Func.Hash()))
			}
		case Push:
			h.Write([]byte{3})
			writeInt(h, int(v.Val.Kind()))
			writeInt(h, v.Val.Rank())
			fmt.Fprint(h, v.Val.Shape())
			switch c := v.Val.(type) {
			case value.NumValue:
				fmt.Fprint(h, c.Arr.Data())
			case value.ByteValue:
				fmt.Fprint(h, c.Arr.Data())
			case value.ComplexValue:
				fmt.Fprint(h, c.Arr.Data())
			case value.CharValue:
				fmt.Fprint(h, c.Arr.Data())
			}
		case Other:
			h.Write([]byte{4})
		}
	}
	return h.Sum64()
}

func writeInt(h interface{ Write([]byte) (int, error) }, n int) {
	h.Write([]byte(strconv.Itoa(n)))
}
