// cmd/vectra/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"vectra/internal/ctx"
	"vectra/internal/dispatch"
	"vectra/internal/instr"
	"vectra/internal/value"
	"vectra/internal/zerr"
)

const VERSION = "0.1.0"

// commandAliases mirrors the teacher's single-letter alias table,
// scaled down to this module's much smaller demo surface.
var commandAliases = map[string]string{
	"r": "run",
	"l": "list",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		fmt.Println("vectra", VERSION)
	case "run":
		if len(args) < 2 {
			log.Fatal("vectra run: missing demo name (try 'vectra list')")
		}
		if err := runDemo(args[1]); err != nil {
			log.Fatalf("vectra: %v", err)
		}
	case "list":
		listDemos()
	default:
		log.Fatalf("vectra: unknown command %q (try 'vectra help')", cmd)
	}
}

func showUsage() {
	fmt.Println(`vectra - zip/broadcast execution engine demo driver

Usage:
  vectra run <demo>    run a hand-built instruction program
  vectra list          list available demos
  vectra version       print the version
  vectra help          show this message`)
}

// demo builds a small hand-written glyph program and runs it through
// the dispatcher, standing in for the lexer/parser/compiler front end
// this module scopes out.
type demo struct {
	name string
	desc string
	run  func(d *dispatch.Dispatcher, c ctx.Context) (value.Value, error)
}

var demos = []demo{
	{
		name: "neg-each",
		desc: "each Neg over [[1,2],[3,4]]",
		run: func(d *dispatch.Dispatcher, c ctx.Context) (value.Value, error) {
			f := instr.NewFunction("neg", instr.Signature{Args: 1, Outputs: 1},
				[]instr.Instr{instr.Prim{P: instr.Neg, Span: zerr.NoSpan}})
			v := value.NumValue{Arr: value.NewArray([]int{2, 2}, []float64{1, 2, 3, 4})}
			return d.Each(c, f, v, zerr.NoSpan)
		},
	},
	{
		name: "add-rows",
		desc: "rows Add over two length-3 vectors",
		run: func(d *dispatch.Dispatcher, c ctx.Context) (value.Value, error) {
			f := instr.NewFunction("add", instr.Signature{Args: 2, Outputs: 1},
				[]instr.Instr{instr.Prim{P: instr.Add, Span: zerr.NoSpan}})
			a := value.NumValue{Arr: value.NewArray([]int{3}, []float64{1, 2, 3})}
			b := value.NumValue{Arr: value.NewArray([]int{3}, []float64{10, 20, 30})}
			return d.Rows2(c, f, a, b, false, zerr.NoSpan)
		},
	},
	{
		name: "box-windows",
		desc: "rows_windows Box over a length-4 vector, window size 2",
		run: func(d *dispatch.Dispatcher, c ctx.Context) (value.Value, error) {
			f := instr.NewFunction("box", instr.Signature{Args: 1, Outputs: 1},
				[]instr.Instr{instr.Prim{P: instr.BoxPrim, Span: zerr.NoSpan}})
			v := value.NumValue{Arr: value.NewArray([]int{4}, []float64{1, 2, 3, 4})}
			n := value.NumScalar(2)
			return d.RowsWindows(c, f, n, v, zerr.NoSpan)
		},
	},
	{
		name: "uncouple-rows",
		desc: "rows UnCouple over a 2x2x2 array (Monadic-2, two outputs)",
		run: func(d *dispatch.Dispatcher, c ctx.Context) (value.Value, error) {
			f := instr.NewFunction("uncouple", instr.Signature{Args: 1, Outputs: 2},
				[]instr.Instr{instr.ImplPrim{P: instr.UnCouple, Span: zerr.NoSpan}})
			v := value.NumValue{Arr: value.NewArray([]int{2, 2, 2}, []float64{1, 2, 3, 4, 5, 6, 7, 8})}
			a, b, err := d.RowsMonadic2(c, f, v, false, zerr.NoSpan)
			if err != nil {
				return nil, err
			}
			fmt.Printf("uncouple-rows: first=shape=%v second=shape=%v\n", a.Shape(), b.Shape())
			return a, nil
		},
	},
}

func listDemos() {
	for _, d := range demos {
		fmt.Printf("%-12s %s\n", d.name, d.desc)
	}
}

func runDemo(name string) error {
	for _, d := range demos {
		if d.name != name {
			continue
		}
		c := ctx.NewRefContext(ctx.FillConfig{}, true)
		disp := dispatch.New()
		out, err := d.run(disp, c)
		if err != nil {
			return err
		}
		fmt.Printf("%s -> shape=%v kind=%s\n", d.name, out.Shape(), out.Kind())
		return nil
	}
	return fmt.Errorf("no such demo %q", name)
}
