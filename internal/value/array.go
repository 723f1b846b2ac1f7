// Package value implements the tagged Value union and the generic
// Array[T] it is built from: typed N-dimensional arrays with
// copy-on-write data and an explicit shape (spec component A).
package value

import "iter"

// Product returns the product of a shape's axis lengths. The empty
// product is 1, so a rank-0 shape describes exactly one element.
func Product(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Array is a contiguous, row-major, copy-on-write N-dimensional array
// of a single element type T. The first axis (if any) is the row axis.
type Array[T any] struct {
	shape []int
	buf   *buffer[T]
	meta  PersistentMeta
}

// NewArray builds an array of the given shape from data already in
// row-major order. It panics if product(shape) != len(data), which
// would violate the array invariant at construction time — callers are
// expected to have already validated this, same as the teacher's
// NewArrayWithShape guard in internal/dataframe/array.go.
func NewArray[T any](shape []int, data []T) Array[T] {
	a := Array[T]{shape: append([]int(nil), shape...), buf: newBuffer(data)}
	a.mustValidate()
	return a
}

// NewScalar builds a rank-0 array holding exactly one element.
func NewScalar[T any](v T) Array[T] {
	return NewArray[T](nil, []T{v})
}

func (a Array[T]) mustValidate() {
	if Product(a.shape) != len(a.buf.data) {
		panic("array invariant violated: product(shape) != len(data)")
	}
}

// ValidateShape re-checks the shape/data-length invariant, matching the
// explicit validate_shape() calls zip.rs makes after mutating a shape.
func (a Array[T]) ValidateShape() bool {
	return Product(a.shape) == len(a.buf.data)
}

// Shape returns the array's shape. Callers must not mutate the
// returned slice.
func (a Array[T]) Shape() []int { return a.shape }

// Rank is the number of axes.
func (a Array[T]) Rank() int { return len(a.shape) }

// RowCount is shape[0], or 1 for a rank-0 array (a single implicit row).
func (a Array[T]) RowCount() int {
	if len(a.shape) == 0 {
		return 1
	}
	return a.shape[0]
}

// RowShape is shape[1:].
func (a Array[T]) RowShape() []int {
	if len(a.shape) == 0 {
		return nil
	}
	return a.shape[1:]
}

// RowLen is product(shape[1:]).
func (a Array[T]) RowLen() int { return Product(a.RowShape()) }

// ElementCount is product(shape).
func (a Array[T]) ElementCount() int { return len(a.buf.data) }

// Data exposes the backing buffer read-only, in row-major order. The
// returned slice must not be mutated; use Mutate for in-place writes.
func (a Array[T]) Data() []T { return a.buf.data }

// Meta returns the array's persistent metadata.
func (a Array[T]) Meta() PersistentMeta { return a.meta }

// WithMeta returns a copy of the array stamped with the given meta.
func (a Array[T]) WithMeta(m PersistentMeta) Array[T] {
	a.meta = m
	return a
}

// TakeMeta returns the array with its meta cleared, plus the meta it
// had. Dispatch entry points call this on each operand so per-element
// calls never carry meta along — it's recombined once at the end.
func (a Array[T]) TakeMeta() (Array[T], PersistentMeta) {
	m := a.meta
	a.meta = PersistentMeta{}
	return a, m
}

// Clone is a cheap refcount bump; the returned array shares the
// backing buffer until either copy is mutated.
func (a Array[T]) Clone() Array[T] {
	a.buf = a.buf.retain()
	return a
}

// Mutate gives f a uniquely-owned backing slice to write through,
// copy-on-write: if the buffer is shared, it is cloned first.
func (a *Array[T]) Mutate(f func([]T)) {
	a.buf = a.buf.own()
	f(a.buf.data)
}

// Elements iterates scalar leaves in row-major order.
func (a Array[T]) Elements() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range a.buf.data {
			if !yield(v) {
				return
			}
		}
	}
}

// Rows iterates rows (shape[1:]-shaped sub-arrays) in natural order.
// Iteration is undefined for rank-0 arrays; callers must guard with
// Rank() > 0 first, matching spec.md's row-iteration contract.
func (a Array[T]) Rows() iter.Seq[Array[T]] {
	rowLen := a.RowLen()
	rowShape := a.RowShape()
	return func(yield func(Array[T]) bool) {
		for r := 0; r < a.RowCount(); r++ {
			start := r * rowLen
			row := Array[T]{
				shape: rowShape,
				buf:   newBuffer(a.buf.data[start : start+rowLen : start+rowLen]),
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Row returns a single row by index without building the full iterator.
func (a Array[T]) Row(i int) Array[T] {
	rowLen := a.RowLen()
	start := i * rowLen
	return Array[T]{
		shape: a.RowShape(),
		buf:   newBuffer(a.buf.data[start : start+rowLen : start+rowLen]),
	}
}

// SliceRows returns the half-open row range [from, to) as one array,
// used by rows_windows to materialize a window without per-row copies.
func (a Array[T]) SliceRows(from, to int) Array[T] {
	rowLen := a.RowLen()
	shape := append([]int{to - from}, a.RowShape()...)
	return Array[T]{
		shape: shape,
		buf:   newBuffer(a.buf.data[from*rowLen : to*rowLen : to*rowLen]),
	}
}

// Fix prepends a unit axis.
func (a Array[T]) Fix() Array[T] {
	a.shape = append([]int{1}, a.shape...)
	return a
}

// UndoFix removes a prepended unit axis. It is a no-op (matching the
// original's lenient behavior) if the array isn't rank >= 1 with a
// leading axis of length 1.
func (a Array[T]) UndoFix() Array[T] {
	if len(a.shape) > 0 && a.shape[0] == 1 {
		a.shape = a.shape[1:]
	}
	return a
}

// RepeatShape is the kernel behind the Pop;Push replacement fast path:
// given a rank-0 array, return an array of
// shape prefix++shape whose data is the scalar replicated
// product(prefix) times (spec.md §4.A).
func (a Array[T]) RepeatShape(prefix []int) Array[T] {
	count := Product(prefix)
	newShape := append(append([]int(nil), prefix...), a.shape...)
	if count == 0 {
		return Array[T]{shape: newShape, buf: newBuffer[T](nil)}
	}
	if len(a.buf.data) == 0 {
		return Array[T]{shape: newShape, buf: newBuffer[T](nil)}
	}
	out := make([]T, 0, count*len(a.buf.data))
	for i := 0; i < count; i++ {
		out = append(out, a.buf.data...)
	}
	return Array[T]{shape: newShape, buf: newBuffer(out)}
}

// ProxyScalarArray returns a rank-0 array holding fill, the typed
// counterpart of the Value-level ProxyScalar used to discover an empty
// input's output shape without real data (spec.md §4.A).
func ProxyScalarArray[T any](fill T) Array[T] {
	return NewScalar(fill)
}

// ProxyRow returns an array of shape a.RowShape() filled with fill,
// standing in for a's missing row when RowCount() == 0.
func (a Array[T]) ProxyRow(fill T) Array[T] {
	n := a.RowLen()
	data := make([]T, n)
	for i := range data {
		data[i] = fill
	}
	return Array[T]{shape: append([]int(nil), a.RowShape()...), buf: newBuffer(data)}
}

// Join concatenates two arrays along axis 0. Shapes after the first
// axis must match.
func Join[T any](a, b Array[T]) Array[T] {
	if a.ElementCount() == 0 && a.Rank() == 0 {
		return b
	}
	out := make([]T, 0, len(a.buf.data)+len(b.buf.data))
	out = append(out, a.buf.data...)
	out = append(out, b.buf.data...)
	shape := append([]int(nil), a.shape...)
	if len(shape) == 0 {
		shape = []int{2}
	} else {
		shape[0] += b.RowCount()
	}
	return Array[T]{shape: shape, buf: newBuffer(out)}
}

// FromRows reassembles an array from a sequence of row-shaped values,
// the Go analogue of Value::from_row_values for a single element type.
func FromRows[T any](rows []Array[T]) Array[T] {
	if len(rows) == 0 {
		return Array[T]{shape: []int{0}, buf: newBuffer[T](nil)}
	}
	rowShape := rows[0].shape
	data := make([]T, 0, len(rows)*Product(rowShape))
	for _, r := range rows {
		data = append(data, r.buf.data...)
	}
	shape := append([]int{len(rows)}, rowShape...)
	return Array[T]{shape: shape, buf: newBuffer(data)}
}

// FillLengthTo extends the array along axis 0 by repeating fill until
// RowCount() reaches length. A no-op if already long enough or rank-0
// (rank-0 can't be length-extended — callers guard with length
// reconciliation rules, spec.md §4.B).
func (a Array[T]) FillLengthTo(length int, fill T) Array[T] {
	if a.Rank() == 0 || a.RowCount() >= length {
		return a
	}
	rowLen := a.RowLen()
	more := (length - a.RowCount()) * rowLen
	out := make([]T, len(a.buf.data), len(a.buf.data)+more)
	copy(out, a.buf.data)
	for i := 0; i < more; i++ {
		out = append(out, fill)
	}
	a.shape = append([]int(nil), a.shape...)
	a.shape[0] = length
	a.buf = newBuffer(out)
	return a
}

// PopRow drops the synthetic first row a proxy-cell call contributed,
// retaining its shape contribution (decrementing row count by one).
func (a Array[T]) PopRow() Array[T] {
	if len(a.shape) == 0 || a.shape[0] == 0 {
		return a
	}
	rowLen := a.RowLen()
	a.shape = append([]int(nil), a.shape...)
	a.shape[0]--
	a.buf = newBuffer(a.buf.data[rowLen:])
	return a
}
