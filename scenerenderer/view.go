// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scenerenderer

import "github.com/go-gl/mathgl/mgl32"

// View is the camera data shared by all passes of a frame.
type View struct {
	ViewProjection mgl32.Mat4
	Position       mgl32.Vec3
}

// NewView builds a perspective view looking from eye at target with +Y up.
// fovY is in degrees.
func NewView(eye, target mgl32.Vec3, fovY, aspect, near, far float32) View {
	proj := mgl32.Perspective(mgl32.DegToRad(fovY), aspect, near, far)
	view := mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
	return View{
		ViewProjection: proj.Mul4(view),
		Position:       eye,
	}
}

// Camera is a scene camera: a projection and the world transform of the
// entity carrying it.
type Camera struct {
	Projection mgl32.Mat4
	Transform  mgl32.Mat4
}

// View returns the view for rendering through the camera.
func (c Camera) View() View {
	return View{
		ViewProjection: c.Projection.Mul4(c.Transform.Inv()),
		Position:       c.Transform.Col(3).Vec3(),
	}
}
