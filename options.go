// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rendergraph

import "github.com/gogpu/rendergraph/framebuffer"

// Default graph size used when WithSize is not given.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Option configures a Graph during creation.
//
// Example:
//
//	// Software framebuffers at the default size
//	g := rendergraph.New()
//
//	// GPU framebuffers sized to the window
//	g := rendergraph.New(
//	    rendergraph.WithBackend(framebuffer.NewHALBackend(device)),
//	    rendergraph.WithSize(w, h),
//	)
type Option func(*options)

type options struct {
	backend        framebuffer.Backend
	width, height  uint32
	orderedWriters bool
}

func defaultOptions() options {
	return options{
		width:  DefaultWidth,
		height: DefaultHeight,
	}
}

// WithBackend sets the backend used to materialize framebuffers. Without
// it the graph uses framebuffer.Default.
func WithBackend(b framebuffer.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithSize sets the initial graph size inherited by resources declared
// with zero dimensions.
func WithSize(width, height uint32) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}

// WithOrderedWriters makes passes that write the same resource run in
// declaration order. By default co-writers are unordered relative to each
// other; enable this when write order to a shared target is visible, for
// example when later passes draw over earlier ones without depth testing.
func WithOrderedWriters(enabled bool) Option {
	return func(o *options) {
		o.orderedWriters = enabled
	}
}
