// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package rendergraph schedules render passes from their declared resource
// reads and writes.
//
// # Overview
//
// A [Graph] owns named resources (textures and framebuffers) and named
// passes. Each pass lists the resources it reads (Inputs) and writes
// (Outputs). [Graph.Compile] validates the declarations, rejects cycles,
// orders the passes topologically, computes per-resource lifetimes, and
// materializes framebuffers through a [framebuffer.Backend].
// [Graph.Execute] then runs the passes in that order every frame.
//
// # Quick Start
//
//	g := rendergraph.New(rendergraph.WithSize(1280, 720))
//
//	b := rendergraph.NewBuilder(g).
//	    CreateTexture("GBuffer", gputypes.TextureFormatRGBA16Float, 0, 0, 1).
//	    CreatePersistentTexture("Final", gputypes.TextureFormatRGBA8Unorm, 0, 0, 1).
//	    AddRenderPass("Geometry", nil, []string{"GBuffer"}, drawGeometry).
//	    AddRenderPass("Lighting", []string{"GBuffer"}, []string{"Final"}, shade)
//	if err := b.Build(); err != nil {
//	    log.Fatal(err)
//	}
//
//	for running {
//	    if err := g.Execute(); err != nil {
//	        log.Print(err)
//	    }
//	}
//
// # Ordering
//
// A pass that writes resource R runs before every pass that reads R,
// unless the reader also writes R. Co-writers of one resource are left
// unordered by default so accumulation targets do not produce false
// cycles; [WithOrderedWriters] chains them in declaration order instead.
// Among passes that are ready at the same time, the one declared first runs
// first, so a graph whose declaration order is already valid executes in
// declaration order.
//
// # Sizes
//
// A resource declared with zero width or height inherits the graph size.
// [Graph.Resize] resizes every transient framebuffer the graph created;
// persistent framebuffers and externally supplied handles are untouched.
//
// # Errors
//
// Malformed declarations (duplicate names, unknown resources, cycles) are
// reported as errors wrapping the sentinel values in this package. Lookup
// misses log a warning and return nil.
package rendergraph
