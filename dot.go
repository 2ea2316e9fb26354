// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rendergraph

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDOT writes the graph in Graphviz DOT format. Passes are boxes,
// resources are ellipses, and edges point from a written resource to its
// readers. Compiled graphs label each pass with its execution index.
//
//	g.WriteDOT(f)
//	// dot -Tsvg graph.dot -o graph.svg
func (g *Graph) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)

	step := make(map[*Pass]int, len(g.order))
	if g.IsCompiled() {
		for i, p := range g.order {
			step[p] = i
		}
	}

	fmt.Fprintln(bw, "digraph rendergraph {")
	fmt.Fprintln(bw, "\trankdir=LR;")
	for _, r := range g.resources {
		style := "solid"
		switch {
		case r.external:
			style = "dotted"
		case r.desc.Persistent:
			style = "bold"
		}
		fmt.Fprintf(bw, "\t%q [shape=ellipse, style=%s, label=%q];\n",
			"res:"+r.Name(), style, fmt.Sprintf("%s\n%s", r.Name(), r.desc.Type))
	}
	for _, p := range g.passes {
		label := p.Name()
		if i, ok := step[p]; ok {
			label = fmt.Sprintf("%d: %s", i, p.Name())
		}
		fmt.Fprintf(bw, "\t%q [shape=box, label=%q];\n", "pass:"+p.Name(), label)
	}
	for _, p := range g.passes {
		for _, in := range p.desc.Inputs {
			fmt.Fprintf(bw, "\t%q -> %q;\n", "res:"+in, "pass:"+p.Name())
		}
		for _, out := range p.desc.Outputs {
			fmt.Fprintf(bw, "\t%q -> %q;\n", "pass:"+p.Name(), "res:"+out)
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
