// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framebuffer

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
)

func newEntityFramebuffer(t *testing.T, w, h uint32) *SoftwareFramebuffer {
	t.Helper()
	fb, err := NewSoftwareFramebuffer(Spec{
		Label:  "scene",
		Width:  w,
		Height: h,
		Attachments: []AttachmentSpec{
			{Format: gputypes.TextureFormatRGBA8Unorm},
			{Format: gputypes.TextureFormatR32Sint},
			{Format: gputypes.TextureFormatDepth24PlusStencil8},
		},
	})
	if err != nil {
		t.Fatalf("NewSoftwareFramebuffer() error = %v", err)
	}
	return fb
}

func TestSoftwareFramebufferLayout(t *testing.T) {
	fb := newEntityFramebuffer(t, 64, 32)

	if got := fb.ColorAttachmentCount(); got != 2 {
		t.Fatalf("ColorAttachmentCount() = %d, want 2", got)
	}
	c0 := fb.ColorAttachment(0).(*SoftwareAttachment)
	if c0.Image() == nil {
		t.Error("RGBA8 attachment should have an image plane")
	}
	if c0.Width() != 64 || c0.Height() != 32 {
		t.Errorf("attachment size = %dx%d, want 64x32", c0.Width(), c0.Height())
	}
	c1 := fb.ColorAttachment(1).(*SoftwareAttachment)
	if c1.Ints() == nil || c1.Image() != nil {
		t.Error("R32Sint attachment should have only an integer plane")
	}
	d := fb.DepthAttachment().(*SoftwareAttachment)
	if len(d.Depth()) != 64*32 {
		t.Errorf("len(Depth()) = %d, want %d", len(d.Depth()), 64*32)
	}
	if fb.ColorAttachment(2) != nil {
		t.Error("ColorAttachment(2) should be nil")
	}
	if fb.ColorAttachment(-1) != nil {
		t.Error("ColorAttachment(-1) should be nil")
	}
}

func TestSoftwareFramebufferNoDepth(t *testing.T) {
	fb, err := NewSoftwareFramebuffer(Spec{Width: 4, Height: 4, Attachments: []AttachmentSpec{
		{Format: gputypes.TextureFormatRGBA8Unorm},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if fb.DepthAttachment() != nil {
		t.Error("DepthAttachment() should be nil")
	}
	if err := fb.ClearDepth(1); err == nil {
		t.Error("ClearDepth() without depth attachment should fail")
	}
}

func TestSoftwareFramebufferClear(t *testing.T) {
	fb := newEntityFramebuffer(t, 8, 8)
	blue := color.RGBA{173, 216, 230, 255}

	if err := fb.ClearColor(0, blue); err != nil {
		t.Fatalf("ClearColor() error = %v", err)
	}
	if got := fb.Image(0).RGBAAt(7, 7); got != blue {
		t.Errorf("pixel = %v, want %v", got, blue)
	}
	if err := fb.ClearInt(1, -1); err != nil {
		t.Fatalf("ClearInt() error = %v", err)
	}
	v, err := fb.ReadPixel(1, 3, 4)
	if err != nil {
		t.Fatalf("ReadPixel() error = %v", err)
	}
	if v != -1 {
		t.Errorf("ReadPixel() = %d, want -1", v)
	}
	if err := fb.ClearDepth(1); err != nil {
		t.Fatalf("ClearDepth() error = %v", err)
	}

	if err := fb.ClearColor(1, blue); err == nil {
		t.Error("ClearColor() on integer attachment should fail")
	}
	if err := fb.ClearInt(0, 0); err == nil {
		t.Error("ClearInt() on RGBA attachment should fail")
	}
	if _, err := fb.ReadPixel(1, 8, 0); err == nil {
		t.Error("ReadPixel() out of bounds should fail")
	}
}

func TestSoftwareFramebufferWritePixel(t *testing.T) {
	fb := newEntityFramebuffer(t, 4, 4)
	if err := fb.WritePixel(1, 2, 3, 42); err != nil {
		t.Fatal(err)
	}
	if v, _ := fb.ReadPixel(1, 2, 3); v != 42 {
		t.Errorf("ReadPixel() = %d, want 42", v)
	}
}

func TestSoftwareFramebufferResize(t *testing.T) {
	fb := newEntityFramebuffer(t, 100, 50)

	if err := fb.Resize(200, 100); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	s := fb.Spec()
	if s.Width != 200 || s.Height != 100 {
		t.Errorf("Spec() size = %dx%d, want 200x100", s.Width, s.Height)
	}
	if b := fb.Image(0).Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("image bounds = %v, want 200x100", b)
	}

	tests := []struct {
		name string
		w, h uint32
	}{
		{"zero", 0, 100},
		{"too large", 200, MaxSize + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := fb.Resize(tt.w, tt.h); !errors.Is(err, ErrInvalidSize) {
				t.Errorf("Resize(%d, %d) = %v, want ErrInvalidSize", tt.w, tt.h, err)
			}
			if s := fb.Spec(); s.Width != 200 || s.Height != 100 {
				t.Errorf("failed Resize changed size to %dx%d", s.Width, s.Height)
			}
		})
	}
}

func TestSoftwareFramebufferResizeSameSizeKeepsContents(t *testing.T) {
	fb := newEntityFramebuffer(t, 4, 4)
	_ = fb.ClearInt(1, 7)
	if err := fb.Resize(4, 4); err != nil {
		t.Fatal(err)
	}
	if v, _ := fb.ReadPixel(1, 0, 0); v != 7 {
		t.Errorf("same-size Resize discarded contents: got %d, want 7", v)
	}
}

func TestSoftwareFramebufferRelease(t *testing.T) {
	fb := newEntityFramebuffer(t, 4, 4)
	fb.Release()
	if !fb.Released() {
		t.Error("Released() = false after Release")
	}
	if fb.ColorAttachmentCount() != 0 {
		t.Error("released framebuffer should have no attachments")
	}
	if err := fb.Resize(8, 8); !errors.Is(err, ErrReleased) {
		t.Errorf("Resize() after Release = %v, want ErrReleased", err)
	}
}

func TestSoftwareFramebufferBlit(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	src := newEntityFramebuffer(t, 16, 16)
	_ = src.ClearColor(0, red)

	t.Run("same size", func(t *testing.T) {
		dst := newEntityFramebuffer(t, 16, 16)
		if err := src.BlitTo(dst, 0, 0); err != nil {
			t.Fatal(err)
		}
		if got := dst.Image(0).RGBAAt(15, 15); got != red {
			t.Errorf("pixel = %v, want %v", got, red)
		}
	})

	t.Run("scaled", func(t *testing.T) {
		dst := newEntityFramebuffer(t, 32, 8)
		if err := src.BlitTo(dst, 0, 0); err != nil {
			t.Fatal(err)
		}
		if got := dst.Image(0).RGBAAt(16, 4); got.R < 250 || got.G != 0 || got.B != 0 {
			t.Errorf("pixel = %v, want approximately %v", got, red)
		}
	})

	t.Run("integer attachment", func(t *testing.T) {
		dst := newEntityFramebuffer(t, 16, 16)
		if err := src.BlitTo(dst, 1, 0); err == nil {
			t.Error("BlitTo() from integer attachment should fail")
		}
	})
}

func TestSoftwareBackendCreate(t *testing.T) {
	b := NewSoftwareBackend()
	if b.Name() != SoftwareBackendName {
		t.Errorf("Name() = %q, want %q", b.Name(), SoftwareBackendName)
	}
	if _, err := b.CreateFramebuffer(Spec{Width: 0, Height: 1, Attachments: colorDepth()}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("CreateFramebuffer(0x1) = %v, want ErrInvalidSize", err)
	}
	fb, err := b.CreateFramebuffer(Spec{Width: 4, Height: 4, Samples: 4, Attachments: colorDepth()})
	if err != nil {
		t.Fatal(err)
	}
	if fb.Spec().Samples != 4 {
		t.Errorf("Spec().Samples = %d, want 4", fb.Spec().Samples)
	}
}

func TestSoftwareSpecIsCopied(t *testing.T) {
	atts := colorDepth()
	fb, err := NewSoftwareFramebuffer(Spec{Width: 4, Height: 4, Attachments: atts})
	if err != nil {
		t.Fatal(err)
	}
	atts[0].Format = gputypes.TextureFormatR32Sint
	if got := fb.Spec().Attachments[0].Format; got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("caller mutation leaked into framebuffer: %v", got)
	}
}

func TestIsIntegerFormat(t *testing.T) {
	tests := []struct {
		format gputypes.TextureFormat
		want   bool
	}{
		{gputypes.TextureFormatR32Sint, true},
		{gputypes.TextureFormatRGBA8Uint, true},
		{gputypes.TextureFormatRGBA8Unorm, false},
		{gputypes.TextureFormatRGBA16Float, false},
		{gputypes.TextureFormatDepth32Float, false},
	}
	for _, tt := range tests {
		if got := IsIntegerFormat(tt.format); got != tt.want {
			t.Errorf("IsIntegerFormat(%v) = %v, want %v", tt.format, got, tt.want)
		}
	}
}
