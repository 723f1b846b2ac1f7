package ctx

import (
	"vectra/internal/instr"
	"vectra/internal/value"
	"vectra/internal/zerr"
)

// frame is the stack state a call borrows exclusively (spec.md §5):
// shared by reference across every WithSpan/WithoutFill view of a
// RefContext, so pushes and pops made through one view are visible to
// every other view of the same call.
type frame struct {
	values    []value.Value
	functions []*instr.Function
	registry  map[uint64]Closure
}

// RefContext is a minimal, concrete Context: a value stack, a function
// stack, and a hash-keyed closure registry standing in for a real
// interpreter's function table. It is sufficient to drive the
// dispatcher end to end in tests and in cmd/vectra's demo driver.
type RefContext struct {
	*frame

	fill     FillConfig
	span     zerr.Span
	proxyTol bool
}

// NewRefContext builds an empty RefContext. proxyCallTolerance sets the
// default for ProxyCallTolerance (SPEC_FULL.md Open Question 1 records
// `true`, matching zip.rs, as the recommended default).
func NewRefContext(fill FillConfig, proxyCallTolerance bool) *RefContext {
	return &RefContext{
		frame:    &frame{registry: make(map[uint64]Closure)},
		fill:     fill,
		span:     zerr.NoSpan,
		proxyTol: proxyCallTolerance,
	}
}

// Register binds f's hash to body, so future Call/CallMaintainSig
// invocations of f (or any Function with the same body shape) dispatch
// to body. Functions are expected to be registered once, at
// construction, by whatever builds the Instr/Function graph (the CLI
// demo driver, or a test).
func (c *RefContext) Register(f *instr.Function, body Closure) {
	c.registry[f.Hash()] = body
}

func (c *RefContext) Push(v value.Value) { c.values = append(c.values, v) }

func (c *RefContext) Pop() (value.Value, error) {
	if len(c.values) == 0 {
		return nil, zerr.NewInternalInvariant("ctx: pop from empty value stack")
	}
	v := c.values[len(c.values)-1]
	c.values = c.values[:len(c.values)-1]
	return v, nil
}

func (c *RefContext) PushFunction(f *instr.Function) { c.functions = append(c.functions, f) }

func (c *RefContext) PopFunction() (*instr.Function, error) {
	if len(c.functions) == 0 {
		return nil, zerr.NewInternalInvariant("ctx: pop from empty function stack")
	}
	f := c.functions[len(c.functions)-1]
	c.functions = c.functions[:len(c.functions)-1]
	return f, nil
}

func (c *RefContext) Call(f *instr.Function) ([]value.Value, error) {
	body, ok := c.registry[f.Hash()]
	if !ok {
		return nil, zerr.NewInternalInvariant("ctx: no body registered for function " + f.Name)
	}
	args := make([]value.Value, f.Sig.Args)
	for i := f.Sig.Args - 1; i >= 0; i-- {
		v, err := c.Pop()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	outs, err := body(args)
	if err != nil {
		return nil, zerr.NewUserError(c.span, err)
	}
	if len(outs) != f.Sig.Outputs {
		return nil, zerr.NewInternalInvariant("ctx: function " + f.Name + " returned wrong output count")
	}
	return outs, nil
}

func (c *RefContext) CallMaintainSig(f *instr.Function) ([]value.Value, error) {
	outs, err := c.Call(f)
	if err == nil {
		return outs, nil
	}
	if !c.proxyTol {
		return nil, err
	}
	placeholders := make([]value.Value, f.Sig.Outputs)
	for i := range placeholders {
		placeholders[i] = value.Default()
	}
	return placeholders, nil
}

func (c *RefContext) WithSpan(s zerr.Span) Context {
	cp := *c
	cp.span = s
	return &cp
}

func (c *RefContext) Span() zerr.Span { return c.span }

func (c *RefContext) WithoutFill() Context {
	cp := *c
	cp.fill = FillConfig{}
	return &cp
}

// Both WithSpan and WithoutFill copy only the RefContext value itself;
// the embedded *frame pointer is shared, so the value/function stacks
// stay a single borrowed call-frame across every derived view.

func (c *RefContext) NumFill() (float64, bool)         { return c.fill.numFill() }
func (c *RefContext) ByteFill() (byte, bool)            { return c.fill.byteFill() }
func (c *RefContext) CharFill() (rune, bool)            { return c.fill.charFill() }
func (c *RefContext) ComplexFill() (complex128, bool)   { return c.fill.complexFill() }
func (c *RefContext) BoxFill() (value.Boxed, bool)      { return c.fill.boxFill() }
func (c *RefContext) ProxyCallTolerance() bool          { return c.proxyTol }
