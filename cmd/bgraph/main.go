package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/teleivo/bgraph"
	"github.com/teleivo/bgraph/dot"
	"github.com/teleivo/bgraph/graph"
	"github.com/teleivo/bgraph/internal/grid"
)

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(args []string, r io.Reader, w io.Writer, wErr io.Writer) error {
	flags := flag.NewFlagSet(args[0], flag.ExitOnError)
	flags.SetOutput(wErr)
	paddingOuter := flags.Int("padding-outer", grid.DefaultPadding.Outer, "outer padding, in grid cells, around every region's contents")
	paddingInner := flags.Int("padding-inner", grid.DefaultPadding.Inner, "inner padding, in grid cells, between a region's direct children")

	err := flags.Parse(args[1:])
	if err != nil {
		return err
	}

	var in io.Reader = r
	if name := flags.Arg(0); name != "" {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open %q: %w", name, err)
		}
		defer f.Close()
		in = f
	}

	p, err := dot.New(in)
	if err != nil {
		return fmt.Errorf("failed to initialize dot parser: %w", err)
	}
	ag, err := p.Parse()
	if err != nil {
		return fmt.Errorf("failed to parse dot graph: %w", err)
	}

	g := graph.FromAST(ag)
	padding := grid.Padding{Outer: *paddingOuter, Inner: *paddingInner}
	loc, err := bgraph.Convert(g, padding)
	if err != nil {
		return fmt.Errorf("failed to lay out graph: %w", err)
	}

	enc := json.NewEncoder(w)
	return enc.Encode(loc)
}
