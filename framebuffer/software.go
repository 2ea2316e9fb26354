// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framebuffer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// SoftwareBackendName is the registry name of the software backend.
const SoftwareBackendName = "software"

// SoftwareBackend creates framebuffers in CPU memory.
//
// Normalized and float color formats are stored as 8-bit RGBA, integer
// formats as one int32 per pixel, and depth formats as one float32 per
// pixel. Multisampled specs are accepted but stored single-sampled.
type SoftwareBackend struct{}

// NewSoftwareBackend returns a software backend.
func NewSoftwareBackend() *SoftwareBackend {
	return &SoftwareBackend{}
}

// Name returns "software".
func (b *SoftwareBackend) Name() string { return SoftwareBackendName }

// CreateFramebuffer allocates a CPU framebuffer.
func (b *SoftwareBackend) CreateFramebuffer(spec Spec) (Framebuffer, error) {
	return NewSoftwareFramebuffer(spec)
}

// NewSoftwareFramebuffer allocates a CPU framebuffer for spec.
func NewSoftwareFramebuffer(spec Spec) (*SoftwareFramebuffer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	spec.Attachments = append([]AttachmentSpec(nil), spec.Attachments...)
	fb := &SoftwareFramebuffer{spec: spec}
	fb.allocate()
	if spec.SampleCount() > 1 {
		Logger().Debug("framebuffer: software backend stores multisampled framebuffer single-sampled",
			"label", spec.Label, "samples", spec.Samples)
	}
	return fb, nil
}

// SoftwareFramebuffer is a CPU-backed framebuffer.
type SoftwareFramebuffer struct {
	spec     Spec
	colors   []*SoftwareAttachment
	depth    *SoftwareAttachment
	released bool
}

func (f *SoftwareFramebuffer) allocate() {
	f.colors = f.colors[:0]
	f.depth = nil
	w, h := int(f.spec.Width), int(f.spec.Height)
	for _, a := range f.spec.Attachments {
		att := newSoftwareAttachment(a.Format, w, h)
		if a.IsDepth() {
			f.depth = att
			continue
		}
		f.colors = append(f.colors, att)
	}
}

// Spec returns the current size and attachment layout.
func (f *SoftwareFramebuffer) Spec() Spec {
	s := f.spec
	s.Attachments = append([]AttachmentSpec(nil), f.spec.Attachments...)
	return s
}

// Resize reallocates every attachment. Contents are discarded.
func (f *SoftwareFramebuffer) Resize(width, height uint32) error {
	if f.released {
		return ErrReleased
	}
	if err := ValidateSize(width, height); err != nil {
		Logger().Warn("framebuffer: attempted to resize to invalid size",
			"label", f.spec.Label, "width", width, "height", height)
		return err
	}
	if width == f.spec.Width && height == f.spec.Height {
		return nil
	}
	f.spec.Width, f.spec.Height = width, height
	f.allocate()
	return nil
}

// ColorAttachmentCount returns the number of color attachments.
func (f *SoftwareFramebuffer) ColorAttachmentCount() int { return len(f.colors) }

// ColorAttachment returns the i-th color attachment.
func (f *SoftwareFramebuffer) ColorAttachment(i int) Attachment {
	if a := f.color(i); a != nil {
		return a
	}
	return nil
}

// DepthAttachment returns the depth attachment.
func (f *SoftwareFramebuffer) DepthAttachment() Attachment {
	if f.depth == nil {
		return nil
	}
	return f.depth
}

// Release drops the pixel memory.
func (f *SoftwareFramebuffer) Release() {
	f.colors = nil
	f.depth = nil
	f.released = true
}

// Released reports whether Release has been called.
func (f *SoftwareFramebuffer) Released() bool { return f.released }

func (f *SoftwareFramebuffer) color(i int) *SoftwareAttachment {
	if i < 0 || i >= len(f.colors) {
		return nil
	}
	return f.colors[i]
}

// Image returns the RGBA image of color attachment i, or nil when the
// attachment does not exist or stores integers.
func (f *SoftwareFramebuffer) Image(i int) *image.RGBA {
	if a := f.color(i); a != nil {
		return a.img
	}
	return nil
}

// ClearColor fills color attachment i with c.
func (f *SoftwareFramebuffer) ClearColor(i int, c color.Color) error {
	a := f.color(i)
	if a == nil {
		return fmt.Errorf("framebuffer: color attachment %d out of range", i)
	}
	if a.img == nil {
		return fmt.Errorf("framebuffer: color attachment %d has integer format %s", i, a.format)
	}
	draw.Draw(a.img, a.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return nil
}

// ClearInt fills integer attachment i with v.
func (f *SoftwareFramebuffer) ClearInt(i int, v int32) error {
	a := f.color(i)
	if a == nil {
		return fmt.Errorf("framebuffer: color attachment %d out of range", i)
	}
	if a.ints == nil {
		return fmt.Errorf("framebuffer: color attachment %d has non-integer format %s", i, a.format)
	}
	for j := range a.ints {
		a.ints[j] = v
	}
	return nil
}

// ClearDepth fills the depth attachment with v.
func (f *SoftwareFramebuffer) ClearDepth(v float32) error {
	if f.depth == nil {
		return fmt.Errorf("framebuffer: %q has no depth attachment", f.spec.Label)
	}
	for j := range f.depth.depth {
		f.depth.depth[j] = v
	}
	return nil
}

// ReadPixel returns the integer value at (x, y) of integer attachment i.
func (f *SoftwareFramebuffer) ReadPixel(i, x, y int) (int32, error) {
	a := f.color(i)
	if a == nil || a.ints == nil {
		return 0, fmt.Errorf("framebuffer: color attachment %d is not an integer attachment", i)
	}
	if x < 0 || y < 0 || x >= a.w || y >= a.h {
		return 0, fmt.Errorf("framebuffer: pixel (%d, %d) outside %dx%d", x, y, a.w, a.h)
	}
	return a.ints[y*a.w+x], nil
}

// WritePixel stores v at (x, y) of integer attachment i.
func (f *SoftwareFramebuffer) WritePixel(i, x, y int, v int32) error {
	a := f.color(i)
	if a == nil || a.ints == nil {
		return fmt.Errorf("framebuffer: color attachment %d is not an integer attachment", i)
	}
	if x < 0 || y < 0 || x >= a.w || y >= a.h {
		return fmt.Errorf("framebuffer: pixel (%d, %d) outside %dx%d", x, y, a.w, a.h)
	}
	a.ints[y*a.w+x] = v
	return nil
}

// BlitTo copies color attachment src into color attachment dstIndex of dst.
// When sizes differ the image is scaled bilinearly.
func (f *SoftwareFramebuffer) BlitTo(dst *SoftwareFramebuffer, src, dstIndex int) error {
	s, d := f.Image(src), dst.Image(dstIndex)
	if s == nil || d == nil {
		return fmt.Errorf("framebuffer: blit %q[%d] -> %q[%d]: not an RGBA attachment",
			f.spec.Label, src, dst.spec.Label, dstIndex)
	}
	if s.Bounds().Eq(d.Bounds()) {
		copy(d.Pix, s.Pix)
		return nil
	}
	draw.ApproxBiLinear.Scale(d, d.Bounds(), s, s.Bounds(), draw.Src, nil)
	return nil
}

// SoftwareAttachment is one CPU attachment plane.
type SoftwareAttachment struct {
	format gputypes.TextureFormat
	w, h   int
	img    *image.RGBA
	ints   []int32
	depth  []float32
}

func newSoftwareAttachment(format gputypes.TextureFormat, w, h int) *SoftwareAttachment {
	a := &SoftwareAttachment{format: format, w: w, h: h}
	switch {
	case format.IsDepthStencil():
		a.depth = make([]float32, w*h)
	case IsIntegerFormat(format):
		a.ints = make([]int32, w*h)
	default:
		a.img = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return a
}

// Format returns the attachment format.
func (a *SoftwareAttachment) Format() gputypes.TextureFormat { return a.format }

// Width returns the attachment width.
func (a *SoftwareAttachment) Width() uint32 { return uint32(a.w) }

// Height returns the attachment height.
func (a *SoftwareAttachment) Height() uint32 { return uint32(a.h) }

// Image returns the RGBA plane, or nil for integer and depth attachments.
func (a *SoftwareAttachment) Image() *image.RGBA { return a.img }

// Ints returns the integer plane, or nil for other attachments.
func (a *SoftwareAttachment) Ints() []int32 { return a.ints }

// Depth returns the depth plane, or nil for color attachments.
func (a *SoftwareAttachment) Depth() []float32 { return a.depth }

// IsIntegerFormat reports whether f stores unnormalized integers.
func IsIntegerFormat(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatR8Uint, gputypes.TextureFormatR8Sint,
		gputypes.TextureFormatR16Uint, gputypes.TextureFormatR16Sint,
		gputypes.TextureFormatRG8Uint, gputypes.TextureFormatRG8Sint,
		gputypes.TextureFormatR32Uint, gputypes.TextureFormatR32Sint,
		gputypes.TextureFormatRG16Uint, gputypes.TextureFormatRG16Sint,
		gputypes.TextureFormatRGBA8Uint, gputypes.TextureFormatRGBA8Sint,
		gputypes.TextureFormatRGB10A2Uint,
		gputypes.TextureFormatRG32Uint, gputypes.TextureFormatRG32Sint,
		gputypes.TextureFormatRGBA16Uint, gputypes.TextureFormatRGBA16Sint,
		gputypes.TextureFormatRGBA32Uint, gputypes.TextureFormatRGBA32Sint:
		return true
	}
	return false
}

var (
	_ Backend     = (*SoftwareBackend)(nil)
	_ Framebuffer = (*SoftwareFramebuffer)(nil)
	_ Attachment  = (*SoftwareAttachment)(nil)
)
