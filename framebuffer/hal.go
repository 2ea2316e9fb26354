// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framebuffer

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// HALBackendName is the registry name of the HAL backend.
const HALBackendName = "hal"

// ErrNoHALDevice is returned when a device provider does not expose a
// hal.Device.
var ErrNoHALDevice = errors.New("framebuffer: provider device is not a hal.Device")

// TextureDevice is the subset of hal.Device used to allocate attachments.
// Any hal.Device satisfies it.
type TextureDevice interface {
	CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error)
	DestroyTexture(texture hal.Texture)
	CreateTextureView(texture hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error)
	DestroyTextureView(view hal.TextureView)
}

// HALBackend creates framebuffers as GPU textures through a HAL device.
// Every attachment gets its own texture and a full 2D view.
type HALBackend struct {
	device TextureDevice
	usage  gputypes.TextureUsage
}

// NewHALBackend returns a backend allocating on device.
func NewHALBackend(device TextureDevice) *HALBackend {
	return &HALBackend{
		device: device,
		usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageCopySrc,
	}
}

// NewHALBackendFromProvider returns a backend for the HAL device of a host
// application's DeviceProvider. Providers exposing HalDevice() any are
// asked for their HAL device; otherwise Device() must be a hal.Device.
func NewHALBackendFromProvider(provider gpucontext.DeviceProvider) (*HALBackend, error) {
	if provider == nil {
		return nil, ErrNoHALDevice
	}
	var raw any = provider.Device()
	if hp, ok := provider.(interface{ HalDevice() any }); ok {
		raw = hp.HalDevice()
	}
	dev, ok := raw.(hal.Device)
	if !ok || dev == nil {
		return nil, fmt.Errorf("%w: got %T", ErrNoHALDevice, raw)
	}
	Logger().Info("framebuffer: using HAL device from provider",
		"adapter", provider.AdapterInfo().Name, "surface_format", provider.SurfaceFormat())
	return NewHALBackend(dev), nil
}

// Name returns "hal".
func (b *HALBackend) Name() string { return HALBackendName }

// CreateFramebuffer allocates one texture and view per attachment.
func (b *HALBackend) CreateFramebuffer(spec Spec) (Framebuffer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	spec.Attachments = append([]AttachmentSpec(nil), spec.Attachments...)
	fb := &HALFramebuffer{backend: b, spec: spec}
	var err error
	if fb.colors, fb.depth, err = fb.allocate(spec); err != nil {
		return nil, err
	}
	return fb, nil
}

// HALFramebuffer is a framebuffer backed by HAL textures.
type HALFramebuffer struct {
	backend  *HALBackend
	spec     Spec
	colors   []*HALAttachment
	depth    *HALAttachment
	released bool
}

// allocate creates the attachments of spec without touching the current
// ones. On failure everything it created is destroyed again.
func (f *HALFramebuffer) allocate(spec Spec) (colors []*HALAttachment, depth *HALAttachment, err error) {
	for i, a := range spec.Attachments {
		att, err := f.backend.createAttachment(spec, i, a.Format)
		if err != nil {
			for _, c := range colors {
				f.backend.destroyAttachment(c)
			}
			if depth != nil {
				f.backend.destroyAttachment(depth)
			}
			return nil, nil, err
		}
		if a.IsDepth() {
			depth = att
			continue
		}
		colors = append(colors, att)
	}
	return colors, depth, nil
}

func (f *HALFramebuffer) destroy() {
	for _, c := range f.colors {
		f.backend.destroyAttachment(c)
	}
	if f.depth != nil {
		f.backend.destroyAttachment(f.depth)
	}
	f.colors, f.depth = nil, nil
}

// Spec returns the current size and attachment layout.
func (f *HALFramebuffer) Spec() Spec {
	s := f.spec
	s.Attachments = append([]AttachmentSpec(nil), f.spec.Attachments...)
	return s
}

// Resize creates every texture at the new size, then destroys the old
// ones. A failed resize leaves the old textures in place.
func (f *HALFramebuffer) Resize(width, height uint32) error {
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
	next := f.Spec()
	next.Width, next.Height = width, height
	colors, depth, err := f.allocate(next)
	if err != nil {
		return fmt.Errorf("framebuffer: resize %q: %w", f.spec.Label, err)
	}
	f.destroy()
	f.spec, f.colors, f.depth = next, colors, depth
	return nil
}

// ColorAttachmentCount returns the number of color attachments.
func (f *HALFramebuffer) ColorAttachmentCount() int { return len(f.colors) }

// ColorAttachment returns the i-th color attachment.
func (f *HALFramebuffer) ColorAttachment(i int) Attachment {
	if i < 0 || i >= len(f.colors) {
		return nil
	}
	return f.colors[i]
}

// DepthAttachment returns the depth attachment.
func (f *HALFramebuffer) DepthAttachment() Attachment {
	if f.depth == nil {
		return nil
	}
	return f.depth
}

// Release destroys all textures and views. Calling Release twice is safe.
func (f *HALFramebuffer) Release() {
	if f.released {
		return
	}
	f.destroy()
	f.released = true
}

func (b *HALBackend) createAttachment(spec Spec, index int, format gputypes.TextureFormat) (*HALAttachment, error) {
	label := fmt.Sprintf("%s[%d]", spec.Label, index)
	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              spec.Width,
			Height:             spec.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   spec.SampleCount(),
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         b.usage,
	})
	if err != nil {
		return nil, fmt.Errorf("framebuffer: create texture %s: %w", label, err)
	}
	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           label,
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return nil, fmt.Errorf("framebuffer: create view %s: %w", label, err)
	}
	return &HALAttachment{format: format, w: spec.Width, h: spec.Height, texture: tex, view: view}, nil
}

func (b *HALBackend) destroyAttachment(a *HALAttachment) {
	b.device.DestroyTextureView(a.view)
	b.device.DestroyTexture(a.texture)
}

// HALAttachment is one GPU attachment.
type HALAttachment struct {
	format  gputypes.TextureFormat
	w, h    uint32
	texture hal.Texture
	view    hal.TextureView
}

// Format returns the attachment format.
func (a *HALAttachment) Format() gputypes.TextureFormat { return a.format }

// Width returns the attachment width.
func (a *HALAttachment) Width() uint32 { return a.w }

// Height returns the attachment height.
func (a *HALAttachment) Height() uint32 { return a.h }

// Texture returns the underlying HAL texture.
func (a *HALAttachment) Texture() hal.Texture { return a.texture }

// View returns the texture view used for binding.
func (a *HALAttachment) View() hal.TextureView { return a.view }

var (
	_ Backend       = (*HALBackend)(nil)
	_ Framebuffer   = (*HALFramebuffer)(nil)
	_ Attachment    = (*HALAttachment)(nil)
	_ TextureDevice = hal.Device(nil)
)
