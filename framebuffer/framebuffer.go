// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framebuffer

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// MaxSize is the largest width or height a framebuffer may have.
const MaxSize = 8192

// Errors returned by Spec validation and backends.
var (
	// ErrInvalidSize is returned when a dimension is zero or exceeds MaxSize.
	ErrInvalidSize = errors.New("framebuffer: invalid size")

	// ErrNoAttachments is returned for a Spec without attachments.
	ErrNoAttachments = errors.New("framebuffer: no attachments")

	// ErrMultipleDepth is returned when a Spec declares more than one
	// depth/stencil attachment.
	ErrMultipleDepth = errors.New("framebuffer: more than one depth attachment")

	// ErrInvalidFormat is returned for an undefined attachment format.
	ErrInvalidFormat = errors.New("framebuffer: invalid attachment format")

	// ErrReleased is returned when a released framebuffer is used.
	ErrReleased = errors.New("framebuffer: released")
)

// AttachmentSpec describes one framebuffer attachment.
type AttachmentSpec struct {
	Format gputypes.TextureFormat
}

// IsDepth reports whether the attachment holds depth and/or stencil data.
func (a AttachmentSpec) IsDepth() bool {
	return a.Format.IsDepthStencil()
}

// Spec describes a framebuffer to create.
type Spec struct {
	// Label is a debug name, usually the render graph resource name.
	Label string

	Width  uint32
	Height uint32

	// Samples is the MSAA sample count. Zero is treated as 1.
	Samples uint32

	// Attachments in binding order. Color attachments are numbered in the
	// order they appear; the depth attachment may appear anywhere.
	Attachments []AttachmentSpec
}

// Validate checks the spec for sizes and attachment layout a backend
// cannot honor.
func (s Spec) Validate() error {
	if err := ValidateSize(s.Width, s.Height); err != nil {
		return err
	}
	if len(s.Attachments) == 0 {
		return ErrNoAttachments
	}
	depth := 0
	for i, a := range s.Attachments {
		if a.Format == gputypes.TextureFormatUndefined {
			return fmt.Errorf("%w: attachment %d", ErrInvalidFormat, i)
		}
		if a.IsDepth() {
			depth++
		}
	}
	if depth > 1 {
		return ErrMultipleDepth
	}
	return nil
}

// SampleCount returns Samples with zero normalized to 1.
func (s Spec) SampleCount() uint32 {
	if s.Samples == 0 {
		return 1
	}
	return s.Samples
}

// ColorFormats returns the formats of the color attachments in order.
func (s Spec) ColorFormats() []gputypes.TextureFormat {
	var out []gputypes.TextureFormat
	for _, a := range s.Attachments {
		if !a.IsDepth() {
			out = append(out, a.Format)
		}
	}
	return out
}

// DepthFormat returns the depth attachment format, or
// TextureFormatUndefined when the spec has none.
func (s Spec) DepthFormat() gputypes.TextureFormat {
	for _, a := range s.Attachments {
		if a.IsDepth() {
			return a.Format
		}
	}
	return gputypes.TextureFormatUndefined
}

// ValidateSize reports ErrInvalidSize for zero dimensions or dimensions
// larger than MaxSize.
func ValidateSize(width, height uint32) error {
	if width == 0 || height == 0 || width > MaxSize || height > MaxSize {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return nil
}

// Attachment is a handle to one attachment of a framebuffer. The concrete
// type depends on the backend: [*SoftwareAttachment] for the software
// backend, [*HALAttachment] for the HAL backend.
type Attachment interface {
	// Format returns the attachment pixel format.
	Format() gputypes.TextureFormat

	// Width returns the attachment width in pixels.
	Width() uint32

	// Height returns the attachment height in pixels.
	Height() uint32
}

// Framebuffer is a set of attachments sharing one size and sample count.
//
// Framebuffer methods are not safe for concurrent use.
type Framebuffer interface {
	// Spec returns the current size and attachment layout, reflecting the
	// last Resize.
	Spec() Spec

	// Resize reallocates all attachments at the new size. Contents are
	// discarded. An invalid size leaves the framebuffer unchanged.
	Resize(width, height uint32) error

	// ColorAttachmentCount returns the number of color attachments.
	ColorAttachmentCount() int

	// ColorAttachment returns the i-th color attachment, or nil if out of range.
	ColorAttachment(i int) Attachment

	// DepthAttachment returns the depth attachment, or nil if there is none.
	DepthAttachment() Attachment

	// Release frees backend memory. The framebuffer must not be used after.
	Release()
}

// Backend creates framebuffers.
type Backend interface {
	// Name returns the registry name of the backend.
	Name() string

	// CreateFramebuffer allocates a framebuffer matching spec.
	CreateFramebuffer(spec Spec) (Framebuffer, error)
}
