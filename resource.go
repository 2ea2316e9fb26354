// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rendergraph

import (
	"slices"

	"github.com/gogpu/gputypes"
)

// ResourceType identifies the kind of GPU resource a descriptor declares.
type ResourceType uint8

const (
	// ResourceTexture2D is a 2D texture or multi-attachment framebuffer.
	// It is the only type the graph materializes itself.
	ResourceTexture2D ResourceType = iota

	// ResourceTextureCube is a cube map. It must be supplied externally.
	ResourceTextureCube

	// ResourceBuffer is a GPU buffer. It must be supplied externally.
	ResourceBuffer
)

// String returns the type name.
func (t ResourceType) String() string {
	switch t {
	case ResourceTexture2D:
		return "Texture2D"
	case ResourceTextureCube:
		return "TextureCube"
	case ResourceBuffer:
		return "Buffer"
	default:
		return "Unknown"
	}
}

// ResourceDescriptor declares a resource.
type ResourceDescriptor struct {
	// Name is the unique key passes use to reference the resource.
	Name string

	Type ResourceType

	// Format is the single attachment format used when AttachmentFormats
	// is empty. See Graph.Compile for the attachment set it expands to.
	// TextureFormatUndefined means RGBA8Unorm.
	Format gputypes.TextureFormat

	// AttachmentFormats lists the attachments of a multi-attachment
	// framebuffer in binding order. It takes precedence over Format.
	AttachmentFormats []gputypes.TextureFormat

	// Width and Height in pixels. Zero inherits the graph size.
	Width  uint32
	Height uint32

	// Samples is the MSAA sample count. Zero means 1.
	Samples uint32

	// Persistent resources keep their framebuffer across resizes.
	Persistent bool
}

// ResourceID is the dense index of a resource within its graph.
type ResourceID int32

// Resource is a registered resource and its backend handle.
type Resource struct {
	id       ResourceID
	desc     ResourceDescriptor
	handle   any
	version  uint32
	inheritW bool
	inheritH bool
	external bool
}

func newResource(id ResourceID, desc ResourceDescriptor) *Resource {
	desc.AttachmentFormats = slices.Clone(desc.AttachmentFormats)
	if desc.Samples == 0 {
		desc.Samples = 1
	}
	return &Resource{
		id:       id,
		desc:     desc,
		inheritW: desc.Width == 0,
		inheritH: desc.Height == 0,
	}
}

// ID returns the resource index.
func (r *Resource) ID() ResourceID { return r.id }

// Name returns the resource name.
func (r *Resource) Name() string { return r.desc.Name }

// Descriptor returns a copy of the current descriptor. After a resize,
// inherited dimensions hold the graph size. Graph.Resize also resizes
// transients declared with an explicit size without rewriting their
// descriptor, so the framebuffer's Spec is authoritative for the current
// size of a materialized resource.
func (r *Resource) Descriptor() ResourceDescriptor {
	d := r.desc
	d.AttachmentFormats = slices.Clone(r.desc.AttachmentFormats)
	return d
}

// Handle returns the backend object: a framebuffer.Framebuffer for
// resources the graph materialized, or whatever was passed to
// SetExternalResource. Nil until one of the two happens.
func (r *Resource) Handle() any { return r.handle }

// SetHandle stores h. Replacing a non-nil handle increments the version.
func (r *Resource) SetHandle(h any) {
	if r.handle != nil {
		r.version++
	}
	r.handle = h
}

// Version counts handle replacements and resizes.
func (r *Resource) Version() uint32 { return r.version }

// IncrementVersion marks the resource contents as changed.
func (r *Resource) IncrementVersion() { r.version++ }

// InheritsSize reports whether the resource was declared with a zero
// dimension and follows the graph size.
func (r *Resource) InheritsSize() bool { return r.inheritW || r.inheritH }

// IsPersistent reports whether the resource survives resizes.
func (r *Resource) IsPersistent() bool { return r.desc.Persistent }

// IsExternal reports whether the handle was supplied by SetExternalResource.
func (r *Resource) IsExternal() bool { return r.external }

// Lifetime is the range of execution-order indices during which a resource
// is used.
type Lifetime struct {
	FirstUse int
	LastUse  int
}
