// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rendergraph

import "slices"

// PassDescriptor declares a pass and the resources it touches.
type PassDescriptor struct {
	// Name is the unique key of the pass.
	Name string

	// Inputs are the names of resources the pass reads.
	Inputs []string

	// Outputs are the names of resources the pass writes.
	Outputs []string

	// EnableDepthTest and EnableBlending are pipeline hints for the pass
	// body. The scheduler does not read them.
	EnableDepthTest bool
	EnableBlending  bool
}

// ExecuteFunc records the work of a pass. It receives the owning graph so
// it can look up framebuffers by name. A non-nil error aborts the frame.
type ExecuteFunc func(g *Graph, p *Pass) error

// PassID is assigned in declaration order and never reused within a graph.
type PassID uint32

// Pass is a declared pass.
type Pass struct {
	id      PassID
	desc    PassDescriptor
	execute ExecuteFunc
}

func newPass(id PassID, desc PassDescriptor, fn ExecuteFunc) *Pass {
	desc.Inputs = slices.Clone(desc.Inputs)
	desc.Outputs = slices.Clone(desc.Outputs)
	return &Pass{id: id, desc: desc, execute: fn}
}

// ID returns the declaration-order identifier.
func (p *Pass) ID() PassID { return p.id }

// Name returns the pass name.
func (p *Pass) Name() string { return p.desc.Name }

// Descriptor returns a copy of the pass declaration.
func (p *Pass) Descriptor() PassDescriptor {
	d := p.desc
	d.Inputs = slices.Clone(p.desc.Inputs)
	d.Outputs = slices.Clone(p.desc.Outputs)
	return d
}

// Inputs returns the names of resources the pass reads.
func (p *Pass) Inputs() []string { return slices.Clone(p.desc.Inputs) }

// Outputs returns the names of resources the pass writes.
func (p *Pass) Outputs() []string { return slices.Clone(p.desc.Outputs) }

// HasInput reports whether the pass reads the named resource.
func (p *Pass) HasInput(name string) bool {
	return slices.Contains(p.desc.Inputs, name)
}

// HasOutput reports whether the pass writes the named resource.
func (p *Pass) HasOutput(name string) bool {
	return slices.Contains(p.desc.Outputs, name)
}

// Execute runs the pass body against g.
func (p *Pass) Execute(g *Graph) error {
	if p.execute == nil {
		return nil
	}
	return p.execute(g, p)
}
