// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package framebuffer provides the physical render targets a render graph
// materializes for its declared resources.
//
// A [Backend] turns a [Spec] (size, sample count, ordered attachment formats)
// into a [Framebuffer]. Two backends ship with the package:
//
//   - [SoftwareBackend]: CPU memory, one plane per attachment. Used for
//     headless rendering, tests, and entity picking.
//   - [HALBackend]: one GPU texture and view per attachment, created through
//     a github.com/gogpu/wgpu/hal device.
//
// Backends are registered by name in a priority registry so applications can
// pick the best available one:
//
//	b, err := framebuffer.Default()
//	fb, err := b.CreateFramebuffer(framebuffer.Spec{
//	    Width:  1280,
//	    Height: 720,
//	    Attachments: []framebuffer.AttachmentSpec{
//	        {Format: gputypes.TextureFormatRGBA8Unorm},
//	        {Format: gputypes.TextureFormatDepth24PlusStencil8},
//	    },
//	})
package framebuffer
