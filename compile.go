// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rendergraph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rendergraph/framebuffer"
)

// Compile validates the graph, orders its passes and materializes
// framebuffers. It does nothing on a graph that is already compiled.
//
// A resource with a nil handle and type ResourceTexture2D is materialized
// with the backend at its declared size, or the graph size for zero
// dimensions. Its attachments are AttachmentFormats when set. Otherwise
// Format expands to two attachments: a color format is paired with a
// Depth24PlusStencil8 depth attachment, and a depth or stencil format is
// paired with an RGBA8Unorm color attachment placed before it.
//
// On error the graph stays uncompiled. Framebuffers materialized before
// the failure are kept and reused by the next Compile.
func (g *Graph) Compile() error {
	switch g.state {
	case StateCompiled:
		return nil
	case StateExecuting:
		return fmt.Errorf("%w: Compile", ErrExecuting)
	}
	g.state = StateCompiling

	if err := g.compile(); err != nil {
		g.invalidate()
		return err
	}

	g.state = StateCompiled
	Logger().Info("rendergraph: compiled successfully",
		"passes", len(g.passes), "resources", len(g.resources), "stats", g.Statistics().String())
	return nil
}

func (g *Graph) compile() error {
	reads, writes, err := g.resolve()
	if err != nil {
		return err
	}
	succ := g.buildEdges(reads, writes)
	if err := g.checkCycles(succ); err != nil {
		return err
	}
	order := g.sort(succ)
	if len(order) != len(g.passes) {
		return fmt.Errorf("%w: scheduled %d of %d passes", ErrIncompleteSchedule, len(order), len(g.passes))
	}
	g.order = order
	g.computeLifetimes(reads, writes)
	return g.materialize()
}

// resolve maps every pass's input and output names to resource IDs,
// indexed by the pass position in g.passes.
func (g *Graph) resolve() (reads, writes [][]ResourceID, err error) {
	reads = make([][]ResourceID, len(g.passes))
	writes = make([][]ResourceID, len(g.passes))
	for i, p := range g.passes {
		if reads[i], err = g.resolveNames(p, p.desc.Inputs); err != nil {
			return nil, nil, err
		}
		if writes[i], err = g.resolveNames(p, p.desc.Outputs); err != nil {
			return nil, nil, err
		}
	}
	return reads, writes, nil
}

func (g *Graph) resolveNames(p *Pass, names []string) ([]ResourceID, error) {
	ids := make([]ResourceID, 0, len(names))
	for _, name := range names {
		id, ok := g.resourceIndex[name]
		if !ok {
			return nil, fmt.Errorf("%w: pass %q references %q", ErrUnknownResource, p.Name(), name)
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// buildEdges returns, for each pass position, the sorted positions of the
// passes that must run after it. A writer of R precedes each reader of R
// that does not also write R. With ordered writers, successive writers of
// R are chained in declaration order as well.
func (g *Graph) buildEdges(reads, writes [][]ResourceID) [][]int {
	writers := make([][]int, len(g.resources))
	for i, ws := range writes {
		for _, id := range ws {
			writers[id] = append(writers[id], i)
		}
	}

	succ := make([][]int, len(g.passes))
	addEdge := func(from, to int) {
		if from != to && !slices.Contains(succ[from], to) {
			succ[from] = append(succ[from], to)
		}
	}
	for reader, rs := range reads {
		for _, id := range rs {
			if slices.Contains(writes[reader], id) {
				continue
			}
			for _, writer := range writers[id] {
				addEdge(writer, reader)
			}
		}
	}
	if g.orderedWriters {
		for _, ws := range writers {
			for k := 1; k < len(ws); k++ {
				addEdge(ws[k-1], ws[k])
			}
		}
	}
	for i := range succ {
		slices.Sort(succ[i])
	}
	return succ
}

const (
	unvisited = iota
	onStack
	done
)

// checkCycles runs a depth-first search and reports the first cycle found
// as the chain of pass names that closes it.
func (g *Graph) checkCycles(succ [][]int) error {
	color := make([]uint8, len(succ))
	var stack []int

	var visit func(n int) []int
	visit = func(n int) []int {
		color[n] = onStack
		stack = append(stack, n)
		for _, m := range succ[n] {
			switch color[m] {
			case onStack:
				start := slices.Index(stack, m)
				return append(slices.Clone(stack[start:]), m)
			case unvisited:
				if cycle := visit(m); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = done
		return nil
	}

	for n := range succ {
		if color[n] != unvisited {
			continue
		}
		if cycle := visit(n); cycle != nil {
			names := make([]string, len(cycle))
			for i, c := range cycle {
				names[i] = g.passes[c].Name()
			}
			return fmt.Errorf("%w: %s", ErrCycle, strings.Join(names, " -> "))
		}
	}
	return nil
}

// sort orders passes with Kahn's algorithm. The ready set is kept sorted by
// declaration position so the earliest declared ready pass runs first.
func (g *Graph) sort(succ [][]int) []*Pass {
	indegree := make([]int, len(succ))
	for _, ms := range succ {
		for _, m := range ms {
			indegree[m]++
		}
	}

	var ready []int
	for n, d := range indegree {
		if d == 0 {
			ready = append(ready, n)
		}
	}

	order := make([]*Pass, 0, len(succ))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, g.passes[n])
		for _, m := range succ[n] {
			indegree[m]--
			if indegree[m] == 0 {
				pos, _ := slices.BinarySearch(ready, m)
				ready = slices.Insert(ready, pos, m)
			}
		}
	}
	return order
}

// computeLifetimes records the first and last execution index at which
// each resource is read or written.
func (g *Graph) computeLifetimes(reads, writes [][]ResourceID) {
	g.lifetimes = make([]Lifetime, len(g.resources))
	g.used = make([]bool, len(g.resources))

	pos := make(map[*Pass]int, len(g.passes))
	for i, p := range g.passes {
		pos[p] = i
	}
	for step, p := range g.order {
		i := pos[p]
		for _, ids := range [][]ResourceID{reads[i], writes[i]} {
			for _, id := range ids {
				lt := &g.lifetimes[id]
				if !g.used[id] {
					*lt = Lifetime{FirstUse: step, LastUse: step}
					g.used[id] = true
					continue
				}
				lt.FirstUse = min(lt.FirstUse, step)
				lt.LastUse = max(lt.LastUse, step)
			}
		}
	}
}

// materialize creates framebuffers for 2D resources without a handle.
func (g *Graph) materialize() error {
	for _, r := range g.resources {
		if r.handle != nil {
			continue
		}
		if r.desc.Type != ResourceTexture2D {
			Logger().Debug("rendergraph: resource left unmaterialized",
				"name", r.Name(), "type", r.desc.Type)
			continue
		}
		if g.backend == nil {
			return fmt.Errorf("%w: cannot materialize %q", ErrNoBackend, r.Name())
		}

		spec := g.framebufferSpec(r)
		fb, err := g.backend.CreateFramebuffer(spec)
		if err != nil {
			return fmt.Errorf("rendergraph: materialize %q: %w", r.Name(), err)
		}
		g.framebuffers[r.Name()] = fb
		r.SetHandle(fb)

		Logger().Debug("rendergraph: framebuffer materialized",
			"name", r.Name(), "backend", g.backend.Name(),
			"width", spec.Width, "height", spec.Height, "attachments", len(spec.Attachments))
	}
	return nil
}

func (g *Graph) framebufferSpec(r *Resource) framebuffer.Spec {
	d := r.desc
	spec := framebuffer.Spec{
		Label:   d.Name,
		Width:   d.Width,
		Height:  d.Height,
		Samples: d.Samples,
	}
	if spec.Width == 0 {
		spec.Width = g.width
	}
	if spec.Height == 0 {
		spec.Height = g.height
	}
	for _, f := range attachmentFormats(d) {
		spec.Attachments = append(spec.Attachments, framebuffer.AttachmentSpec{Format: f})
	}
	return spec
}

// attachmentFormats expands a descriptor into its attachment list.
func attachmentFormats(d ResourceDescriptor) []gputypes.TextureFormat {
	if len(d.AttachmentFormats) > 0 {
		return d.AttachmentFormats
	}
	format := d.Format
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	if format.IsDepthStencil() {
		return []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm, format}
	}
	return []gputypes.TextureFormat{format, gputypes.TextureFormatDepth24PlusStencil8}
}
