// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rendergraph

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/gogpu/rendergraph/framebuffer"
)

// State is the compile state of a graph.
type State uint8

const (
	// StateUncompiled is the initial state and the state after any change
	// to the resource or pass set.
	StateUncompiled State = iota

	// StateCompiling is held while Compile runs.
	StateCompiling

	// StateCompiled means the execution order is valid.
	StateCompiled

	// StateExecuting is held while Execute runs pass callbacks.
	StateExecuting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUncompiled:
		return "Uncompiled"
	case StateCompiling:
		return "Compiling"
	case StateCompiled:
		return "Compiled"
	case StateExecuting:
		return "Executing"
	default:
		return "Unknown"
	}
}

// Graph owns the resources and passes of one frame pipeline.
//
// A Graph is not safe for concurrent use. Pass callbacks may read from the
// graph but must not add, remove or resize anything while Execute runs;
// such calls return ErrExecuting.
type Graph struct {
	backend        framebuffer.Backend
	width, height  uint32
	orderedWriters bool

	resources     []*Resource
	resourceIndex map[string]ResourceID
	transients    []ResourceID

	// framebuffers holds only framebuffers the graph created itself.
	framebuffers map[string]framebuffer.Framebuffer

	passes     []*Pass
	passIndex  map[string]*Pass
	nextPassID PassID

	order     []*Pass
	lifetimes []Lifetime
	used      []bool
	state     State
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.backend == nil {
		b, err := framebuffer.Default()
		if err != nil {
			Logger().Warn("rendergraph: no framebuffer backend available", "error", err)
		}
		o.backend = b
	}
	if o.backend != nil {
		propagateLogger(o.backend)
	}
	return &Graph{
		backend:        o.backend,
		width:          o.width,
		height:         o.height,
		orderedWriters: o.orderedWriters,
		resourceIndex:  make(map[string]ResourceID),
		framebuffers:   make(map[string]framebuffer.Framebuffer),
		passIndex:      make(map[string]*Pass),
	}
}

// Backend returns the framebuffer backend.
func (g *Graph) Backend() framebuffer.Backend { return g.backend }

// Size returns the graph size.
func (g *Graph) Size() (width, height uint32) { return g.width, g.height }

// State returns the compile state.
func (g *Graph) State() State { return g.state }

// IsCompiled reports whether the execution order is valid.
func (g *Graph) IsCompiled() bool {
	return g.state == StateCompiled || g.state == StateExecuting
}

func (g *Graph) invalidate() {
	g.state = StateUncompiled
	g.order = nil
}

func (g *Graph) checkMutable(op string) error {
	if g.state == StateExecuting {
		return fmt.Errorf("%w: %s", ErrExecuting, op)
	}
	return nil
}

// RegisterResource declares a resource. Non-persistent resources are
// transient. Registering invalidates the compiled order.
func (g *Graph) RegisterResource(desc ResourceDescriptor) (*Resource, error) {
	if err := g.checkMutable("RegisterResource"); err != nil {
		return nil, err
	}
	if desc.Name == "" {
		return nil, fmt.Errorf("%w: empty resource name", ErrInvalidDescriptor)
	}
	if _, ok := g.resourceIndex[desc.Name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateResource, desc.Name)
	}

	id := ResourceID(len(g.resources))
	r := newResource(id, desc)
	g.resources = append(g.resources, r)
	g.resourceIndex[desc.Name] = id
	if !desc.Persistent {
		g.transients = append(g.transients, id)
	}
	g.invalidate()

	Logger().Debug("rendergraph: resource registered",
		"name", desc.Name, "type", desc.Type, "persistent", desc.Persistent)
	return r, nil
}

// SetExternalResource plugs an externally owned handle, such as a
// swap-chain image, into a registered resource. Unknown names log a
// warning and are ignored, as are calls made while the graph executes.
// The graph never resizes or releases external handles; a framebuffer the
// graph had created for the resource is released.
//
// A nil handle returns the resource to the graph: the compiled order is
// invalidated so the next Compile materializes it again.
func (g *Graph) SetExternalResource(name string, handle any) {
	if g.state == StateExecuting {
		Logger().Warn("rendergraph: SetExternalResource ignored while executing", "name", name)
		return
	}
	r := g.lookup(name)
	if r == nil {
		Logger().Warn("rendergraph: SetExternalResource on unknown resource", "name", name)
		return
	}
	if fb, ok := g.framebuffers[name]; ok {
		fb.Release()
		delete(g.framebuffers, name)
	}
	r.SetHandle(handle)
	r.external = handle != nil
	if handle == nil {
		g.invalidate()
	}
}

func (g *Graph) lookup(name string) *Resource {
	id, ok := g.resourceIndex[name]
	if !ok {
		return nil
	}
	return g.resources[id]
}

// Resource returns the named resource, or nil with a warning.
func (g *Graph) Resource(name string) *Resource {
	r := g.lookup(name)
	if r == nil {
		Logger().Warn("rendergraph: resource not found", "name", name)
	}
	return r
}

// Resources returns all resources in registration order.
func (g *Graph) Resources() []*Resource {
	return slices.Clone(g.resources)
}

// Framebuffer returns the framebuffer the graph materialized for name, or
// nil if there is none.
func (g *Graph) Framebuffer(name string) framebuffer.Framebuffer {
	return g.framebuffers[name]
}

// Framebuffers returns a copy of the name to framebuffer map.
func (g *Graph) Framebuffers() map[string]framebuffer.Framebuffer {
	return maps.Clone(g.framebuffers)
}

// AddPass declares a pass. The returned pass belongs to the graph.
func (g *Graph) AddPass(desc PassDescriptor, fn ExecuteFunc) (*Pass, error) {
	if err := g.checkMutable("AddPass"); err != nil {
		return nil, err
	}
	if desc.Name == "" {
		return nil, fmt.Errorf("%w: empty pass name", ErrInvalidDescriptor)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: pass %q has no execute function", ErrInvalidDescriptor, desc.Name)
	}
	if _, ok := g.passIndex[desc.Name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicatePass, desc.Name)
	}

	p := newPass(g.nextPassID, desc, fn)
	g.nextPassID++
	g.passes = append(g.passes, p)
	g.passIndex[desc.Name] = p
	g.invalidate()
	return p, nil
}

// RemovePass deletes the named pass.
func (g *Graph) RemovePass(name string) error {
	if err := g.checkMutable("RemovePass"); err != nil {
		return err
	}
	p, ok := g.passIndex[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPass, name)
	}
	delete(g.passIndex, name)
	g.passes = slices.DeleteFunc(g.passes, func(q *Pass) bool { return q == p })
	g.invalidate()
	return nil
}

// Pass returns the named pass, or nil.
func (g *Graph) Pass(name string) *Pass { return g.passIndex[name] }

// Passes returns the passes in declaration order.
func (g *Graph) Passes() []*Pass { return slices.Clone(g.passes) }

// ExecutionOrder returns the compiled order, or nil if the graph is not
// compiled.
func (g *Graph) ExecutionOrder() []*Pass {
	if !g.IsCompiled() {
		return nil
	}
	return slices.Clone(g.order)
}

// Lifetime returns the execution-order range during which name is used.
// ok is false when the graph is not compiled or no pass touches name.
func (g *Graph) Lifetime(name string) (lt Lifetime, ok bool) {
	if !g.IsCompiled() {
		return Lifetime{}, false
	}
	id, found := g.resourceIndex[name]
	if !found || !g.used[id] {
		return Lifetime{}, false
	}
	return g.lifetimes[id], true
}

// Clear releases every framebuffer the graph created and removes all
// resources and passes. External handles are left to their owners.
func (g *Graph) Clear() error {
	if err := g.checkMutable("Clear"); err != nil {
		return err
	}
	for _, fb := range g.framebuffers {
		fb.Release()
	}
	clear(g.framebuffers)
	for _, r := range g.resources {
		r.handle = nil
	}
	g.resources = nil
	clear(g.resourceIndex)
	g.transients = nil
	g.passes = nil
	clear(g.passIndex)
	g.lifetimes, g.used = nil, nil
	g.invalidate()
	return nil
}

// Execute runs every pass in execution order, compiling first if needed.
// The first pass error stops the frame and is returned.
func (g *Graph) Execute() error {
	if g.state == StateExecuting {
		return fmt.Errorf("%w: Execute", ErrExecuting)
	}
	if !g.IsCompiled() {
		Logger().Warn("rendergraph: executing uncompiled graph, compiling now")
		if err := g.Compile(); err != nil {
			return err
		}
	}

	g.allocateTransients()
	defer g.deallocateTransients()

	g.state = StateExecuting
	defer func() { g.state = StateCompiled }()

	for _, p := range g.order {
		if err := p.Execute(g); err != nil {
			return fmt.Errorf("rendergraph: pass %q: %w", p.Name(), err)
		}
	}
	return nil
}

// allocateTransients is the per-frame acquisition point for transient
// resources. Transients are currently materialized once by Compile and
// live as long as the graph.
func (g *Graph) allocateTransients() {}

// deallocateTransients is the per-frame release point matching
// allocateTransients.
func (g *Graph) deallocateTransients() {}

// Resize changes the graph size. It resizes every transient framebuffer
// the graph created, including those declared with an explicit size, and
// updates the descriptors of resources that inherit the graph size.
// Explicitly sized descriptors keep their declared size; read the
// framebuffer Spec for the current one.
// The execution order is unchanged. Framebuffer failures are joined into
// the returned error; the graph size is updated regardless.
func (g *Graph) Resize(width, height uint32) error {
	if err := g.checkMutable("Resize"); err != nil {
		return err
	}
	if width == g.width && height == g.height {
		return nil
	}
	g.width, g.height = width, height

	var errs []error
	for _, id := range g.transients {
		r := g.resources[id]
		fb, ok := g.framebuffers[r.Name()]
		if !ok {
			continue
		}
		if err := fb.Resize(width, height); err != nil {
			errs = append(errs, fmt.Errorf("rendergraph: resize %q: %w", r.Name(), err))
			continue
		}
		r.IncrementVersion()
	}
	for _, r := range g.resources {
		if r.inheritW {
			r.desc.Width = width
		}
		if r.inheritH {
			r.desc.Height = height
		}
	}

	Logger().Debug("rendergraph: resized", "width", width, "height", height)
	return errors.Join(errs...)
}

// Statistics summarizes a graph.
type Statistics struct {
	PassCount             int
	ResourceCount         int
	TransientResources    int
	PersistentResources   int
	MaterializedResources int
	ExternalResources     int
}

// String formats the statistics on one line.
func (s Statistics) String() string {
	return fmt.Sprintf("%d passes, %d resources (%d transient, %d persistent, %d materialized, %d external)",
		s.PassCount, s.ResourceCount, s.TransientResources, s.PersistentResources,
		s.MaterializedResources, s.ExternalResources)
}

// Statistics returns pass and resource counts.
func (g *Graph) Statistics() Statistics {
	s := Statistics{
		PassCount:             len(g.passes),
		ResourceCount:         len(g.resources),
		TransientResources:    len(g.transients),
		MaterializedResources: len(g.framebuffers),
	}
	s.PersistentResources = s.ResourceCount - s.TransientResources
	for _, r := range g.resources {
		if r.external {
			s.ExternalResources++
		}
	}
	return s
}
