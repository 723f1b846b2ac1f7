package shape

import "vectra/internal/value"

// ProxyScalar returns a rank-0 Value of v's kind holding fill content,
// used so an empty input can still invoke the user function once to
// discover the output's row shape (spec.md §4.A, GLOSSARY "Proxy cell").
func ProxyScalar(v value.Value, ctx FillContext) value.Value {
	return value.ProxyScalar(v.Kind(), fills(ctx))
}

// ProxyRow returns a Value of shape v.Shape()[1:] filled with fill
// content, the row-shaped analogue of ProxyScalar.
func ProxyRow(v value.Value, ctx FillContext) value.Value {
	return value.ProxyRow(v, fills(ctx))
}
