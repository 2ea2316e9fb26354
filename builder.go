// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rendergraph

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// Builder declares resources and passes on a graph in one chain.
// Errors are collected instead of returned per call; Err reports them and
// Build returns them before compiling.
//
// Example:
//
//	err := rendergraph.NewBuilder(g).
//	    CreateTexture("HDR", gputypes.TextureFormatRGBA16Float, 0, 0, 1).
//	    AddRenderPass("Sky", nil, []string{"HDR"}, drawSky).
//	    Build()
type Builder struct {
	graph *Graph
	errs  []error
}

// NewBuilder returns a builder declaring into g.
func NewBuilder(g *Graph) *Builder {
	return &Builder{graph: g}
}

// Graph returns the graph being built.
func (b *Builder) Graph() *Graph { return b.graph }

func (b *Builder) record(err error) *Builder {
	if err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

func (b *Builder) register(desc ResourceDescriptor) *Builder {
	_, err := b.graph.RegisterResource(desc)
	return b.record(err)
}

// CreateTexture declares a transient 2D texture. Zero width or height
// inherits the graph size.
func (b *Builder) CreateTexture(name string, format gputypes.TextureFormat, width, height, samples uint32) *Builder {
	return b.register(ResourceDescriptor{
		Name:    name,
		Type:    ResourceTexture2D,
		Format:  format,
		Width:   width,
		Height:  height,
		Samples: samples,
	})
}

// CreatePersistentTexture declares a 2D texture that keeps its size and
// framebuffer across resizes.
func (b *Builder) CreatePersistentTexture(name string, format gputypes.TextureFormat, width, height, samples uint32) *Builder {
	return b.register(ResourceDescriptor{
		Name:       name,
		Type:       ResourceTexture2D,
		Format:     format,
		Width:      width,
		Height:     height,
		Samples:    samples,
		Persistent: true,
	})
}

// CreateFramebuffer declares a transient multi-attachment framebuffer.
func (b *Builder) CreateFramebuffer(name string, attachments []gputypes.TextureFormat, width, height, samples uint32) *Builder {
	return b.register(ResourceDescriptor{
		Name:              name,
		Type:              ResourceTexture2D,
		AttachmentFormats: attachments,
		Width:             width,
		Height:            height,
		Samples:           samples,
	})
}

// AddRenderPass declares a pass.
func (b *Builder) AddRenderPass(name string, inputs, outputs []string, fn ExecuteFunc) *Builder {
	_, err := b.graph.AddPass(PassDescriptor{
		Name:    name,
		Inputs:  inputs,
		Outputs: outputs,
	}, fn)
	return b.record(err)
}

// AddPass declares a pass from a full descriptor.
func (b *Builder) AddPass(desc PassDescriptor, fn ExecuteFunc) *Builder {
	_, err := b.graph.AddPass(desc, fn)
	return b.record(err)
}

// Err returns the errors recorded so far, joined.
func (b *Builder) Err() error {
	return errors.Join(b.errs...)
}

// Build compiles the graph, or returns the recorded declaration errors
// without compiling.
func (b *Builder) Build() error {
	if err := b.Err(); err != nil {
		return err
	}
	return b.graph.Compile()
}
