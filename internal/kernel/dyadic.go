package kernel

import (
	"math"

	"vectra/internal/shape"
	"vectra/internal/value"
	"vectra/internal/zerr"
)

// pervadeNum broadcasts a and b (both Num) elementwise through f. This
// is the Go analogue of the teacher's NDArray binary-op family
// (Add/Subtract/Multiply/Divide in internal/dataframe/array.go),
// generalized from same-shape-only to full broadcasting via
// internal/shape.
func pervadeNum(a, b value.NumValue, f func(x, y float64) float64) (value.Value, error) {
	bshape, ok := shape.Broadcast(a.Arr.Shape(), b.Arr.Shape())
	if !ok {
		return nil, zerr.NewShapeMismatch(zerr.NoSpan, a.Arr.Shape(), b.Arr.Shape())
	}
	n := value.Product(bshape)
	ai := shape.Indexer(a.Arr.Shape(), bshape)
	bi := shape.Indexer(b.Arr.Shape(), bshape)
	ad, bd := a.Arr.Data(), b.Arr.Data()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = f(ad[ai(i)], bd[bi(i)])
	}
	return value.NumValue{Arr: value.NewArray(bshape, out)}, nil
}

// asNum coerces a Num or Byte value to Num, matching the source
// language's implicit byte-to-number widening in pervasive arithmetic.
func asNum(v value.Value) (value.NumValue, bool) {
	switch vv := v.(type) {
	case value.NumValue:
		return vv, true
	case value.ByteValue:
		data := make([]float64, len(vv.Arr.Data()))
		for i, b := range vv.Arr.Data() {
			data[i] = float64(b)
		}
		return value.NumValue{Arr: value.NewArray(vv.Arr.Shape(), data)}, true
	default:
		return value.NumValue{}, false
	}
}

func binNum(op string, a, b value.Value, f func(x, y float64) float64) (value.Value, error) {
	an, ok1 := asNum(a)
	bn, ok2 := asNum(b)
	if !ok1 || !ok2 {
		return nil, zerr.NewUserError(zerr.NoSpan, &kindError{op: op, kind: a.Kind().String() + "/" + b.Kind().String()})
	}
	return pervadeNum(an, bn, f)
}

func Add(a, b value.Value) (value.Value, error) { return binNum("add", a, b, func(x, y float64) float64 { return x + y }) }
func Sub(a, b value.Value) (value.Value, error) { return binNum("sub", a, b, func(x, y float64) float64 { return x - y }) }
func Mul(a, b value.Value) (value.Value, error) { return binNum("mul", a, b, func(x, y float64) float64 { return x * y }) }
func Div(a, b value.Value) (value.Value, error) { return binNum("div", a, b, func(x, y float64) float64 { return x / y }) }
func Pow(a, b value.Value) (value.Value, error) { return binNum("pow", a, b, math.Pow) }
func Mod(a, b value.Value) (value.Value, error) {
	return binNum("mod", a, b, func(x, y float64) float64 { return math.Mod(math.Mod(x, y)+y, y) })
}
func Log(a, b value.Value) (value.Value, error) {
	return binNum("log", a, b, func(base, x float64) float64 { return math.Log(x) / math.Log(base) })
}
func Max(a, b value.Value) (value.Value, error) { return binNum("max", a, b, math.Max) }
func Min(a, b value.Value) (value.Value, error) { return binNum("min", a, b, math.Min) }
func Atan(a, b value.Value) (value.Value, error) {
	return binNum("atan", a, b, func(y, x float64) float64 { return math.Atan2(y, x) })
}

func boolOf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func Eq(a, b value.Value) (value.Value, error) {
	return binNum("eq", a, b, func(x, y float64) float64 { return boolOf(x == y) })
}
func Ne(a, b value.Value) (value.Value, error) {
	return binNum("ne", a, b, func(x, y float64) float64 { return boolOf(x != y) })
}
func Lt(a, b value.Value) (value.Value, error) {
	return binNum("lt", a, b, func(x, y float64) float64 { return boolOf(x < y) })
}
func Gt(a, b value.Value) (value.Value, error) {
	return binNum("gt", a, b, func(x, y float64) float64 { return boolOf(x > y) })
}
func Le(a, b value.Value) (value.Value, error) {
	return binNum("le", a, b, func(x, y float64) float64 { return boolOf(x <= y) })
}
func Ge(a, b value.Value) (value.Value, error) {
	return binNum("ge", a, b, func(x, y float64) float64 { return boolOf(x >= y) })
}

// Complex pairs two Num operands into a Complex value, the dyadic
// primitive spec.md §9 Open Question 2 scopes the Complex element kind
// to.
func Complex(re, im value.Value) (value.Value, error) {
	ren, ok1 := asNum(re)
	imn, ok2 := asNum(im)
	if !ok1 || !ok2 {
		return nil, zerr.NewUserError(zerr.NoSpan, &kindError{op: "complex", kind: re.Kind().String() + "/" + im.Kind().String()})
	}
	bshape, ok := shape.Broadcast(ren.Arr.Shape(), imn.Arr.Shape())
	if !ok {
		return nil, zerr.NewShapeMismatch(zerr.NoSpan, ren.Arr.Shape(), imn.Arr.Shape())
	}
	n := value.Product(bshape)
	ai := shape.Indexer(ren.Arr.Shape(), bshape)
	bi := shape.Indexer(imn.Arr.Shape(), bshape)
	rd, id := ren.Arr.Data(), imn.Arr.Data()
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		out[i] = complex(rd[ai(i)], id[bi(i)])
	}
	return value.ComplexValue{Arr: value.NewArray(bshape, out)}, nil
}

// Rotate shifts the rows of data by shift positions (wrapping), the
// first argument of the dyadic Rotate primitive.
func Rotate(shift, data value.Value) (value.Value, error) {
	sn, ok := asNum(shift)
	if !ok || sn.Arr.Rank() != 0 {
		return nil, zerr.NewUserError(zerr.NoSpan, &kindError{op: "rotate", kind: "non-scalar shift"})
	}
	n := data.RowCount()
	if n == 0 {
		return data, nil
	}
	s := int(sn.Arr.Data()[0])
	s = ((s % n) + n) % n
	rows := make([]value.Value, n)
	for i := 0; i < n; i++ {
		rows[i] = value.Row(data, (i+s)%n)
	}
	return value.FromRowValues(rows)
}
