// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/rendergraph/framebuffer"
	"github.com/gogpu/rendergraph/scenerenderer"
)

type sprite struct {
	id        int32
	transform mgl32.Mat4
	color     color.RGBA
}

type circle struct {
	id        int32
	center    mgl32.Vec3
	radius    float32
	thickness float32 // 1 is a filled disc
	color     color.RGBA
}

// demoScene draws flat-colored sprites and circles into software
// framebuffers. Other backends get no CPU drawing.
type demoScene struct {
	sprites []sprite
	circles []circle
}

func newDemoScene() *demoScene {
	return &demoScene{
		sprites: []sprite{
			{1, mgl32.Translate3D(-1.5, 0, 0).Mul4(mgl32.Scale3D(1.5, 1.5, 1)), color.RGBA{220, 60, 60, 255}},
			{2, mgl32.Translate3D(0.5, 0.5, -1).Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(30))), color.RGBA{60, 160, 60, 255}},
			{3, mgl32.Translate3D(1.8, -0.8, 0).Mul4(mgl32.Scale3D(0.8, 2, 1)), color.RGBA{60, 60, 200, 255}},
		},
		circles: []circle{
			{4, mgl32.Vec3{0, -1.2, 0.5}, 0.6, 1, color.RGBA{240, 200, 40, 255}},
			{5, mgl32.Vec3{-0.2, 1.4, 0}, 0.4, 0.25, color.RGBA{120, 40, 160, 255}},
		},
	}
}

// project maps a world point to pixel coordinates with y pointing down.
func project(f *scenerenderer.Frame, p mgl32.Vec3, w, h int) (x, y float32) {
	win := mgl32.Project(p, mgl32.Ident4(), f.View.ViewProjection, 0, 0, w, h)
	return win.X(), float32(h) - win.Y()
}

func software(fb framebuffer.Framebuffer) (*framebuffer.SoftwareFramebuffer, int, int, bool) {
	sw, ok := fb.(*framebuffer.SoftwareFramebuffer)
	if !ok {
		return nil, 0, 0, false
	}
	s := sw.Spec()
	return sw, int(s.Width), int(s.Height), true
}

func (s *demoScene) DrawGeometry(framebuffer.Framebuffer, *scenerenderer.Frame) error { return nil }

func (s *demoScene) DrawLighting(_, _ framebuffer.Framebuffer, _ *scenerenderer.Frame) error {
	return nil
}

func (s *demoScene) DrawSprites(fb framebuffer.Framebuffer, f *scenerenderer.Frame) error {
	sw, w, h, ok := software(fb)
	if !ok {
		return nil
	}
	img := sw.Image(scenerenderer.SceneColorAttachment)
	for _, sp := range s.sprites {
		minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
		maxX, maxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
		for _, c := range []mgl32.Vec3{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0.5, 0.5, 0}, {-0.5, 0.5, 0}} {
			x, y := project(f, mgl32.TransformCoordinate(c, sp.transform), w, h)
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
		for y := clampPixel(minY, h); y < clampPixel(maxY, h); y++ {
			for x := clampPixel(minX, w); x < clampPixel(maxX, w); x++ {
				img.SetRGBA(x, y, sp.color)
				_ = sw.WritePixel(scenerenderer.EntityIDAttachment, x, y, sp.id)
			}
		}
	}
	return nil
}

func (s *demoScene) DrawCircles(fb framebuffer.Framebuffer, f *scenerenderer.Frame) error {
	sw, w, h, ok := software(fb)
	if !ok {
		return nil
	}
	img := sw.Image(scenerenderer.SceneColorAttachment)
	for _, c := range s.circles {
		cx, cy := project(f, c.center, w, h)
		ex, _ := project(f, c.center.Add(mgl32.Vec3{c.radius, 0, 0}), w, h)
		r := mgl32.Abs(ex - cx)
		inner := r * (1 - c.thickness)
		for y := clampPixel(cy-r, h); y < clampPixel(cy+r, h); y++ {
			for x := clampPixel(cx-r, w); x < clampPixel(cx+r, w); x++ {
				d := mgl32.Vec2{float32(x) + 0.5 - cx, float32(y) + 0.5 - cy}.Len()
				if d > r || d < inner {
					continue
				}
				img.SetRGBA(x, y, c.color)
				_ = sw.WritePixel(scenerenderer.EntityIDAttachment, x, y, c.id)
			}
		}
	}
	return nil
}

// DrawOverlay draws a grid of world-unit lines on the z=0 plane.
func (s *demoScene) DrawOverlay(fb framebuffer.Framebuffer, f *scenerenderer.Frame) error {
	sw, w, h, ok := software(fb)
	if !ok {
		return nil
	}
	img := sw.Image(scenerenderer.SceneColorAttachment)
	grid := color.RGBA{0, 230, 0, 255}
	for i := float32(-3); i <= 3; i++ {
		x, _ := project(f, mgl32.Vec3{i, 0, 0}, w, h)
		_, y := project(f, mgl32.Vec3{0, i, 0}, w, h)
		if px := int(x); px >= 0 && px < w {
			for py := 0; py < h; py += 2 {
				img.SetRGBA(px, py, grid)
			}
		}
		if py := int(y); py >= 0 && py < h {
			for px := 0; px < w; px += 2 {
				img.SetRGBA(px, py, grid)
			}
		}
	}
	return nil
}

func clampPixel(v float32, limit int) int {
	return int(mgl32.Clamp(v, 0, float32(limit)))
}

var _ scenerenderer.Drawer = (*demoScene)(nil)
