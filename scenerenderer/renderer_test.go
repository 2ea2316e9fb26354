// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scenerenderer

import (
	"errors"
	"image/color"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/framebuffer"
)

type recordingDrawer struct {
	calls  []string
	frames []Frame
	fail   string
}

func (d *recordingDrawer) record(name string, f *Frame) error {
	d.calls = append(d.calls, name)
	d.frames = append(d.frames, *f)
	if d.fail == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (d *recordingDrawer) DrawGeometry(_ framebuffer.Framebuffer, f *Frame) error {
	return d.record("geometry", f)
}

func (d *recordingDrawer) DrawLighting(_, _ framebuffer.Framebuffer, f *Frame) error {
	return d.record("lighting", f)
}

func (d *recordingDrawer) DrawSprites(fb framebuffer.Framebuffer, f *Frame) error {
	// Paint entity 7 at the origin so picking has something to find.
	if sw, ok := fb.(*framebuffer.SoftwareFramebuffer); ok {
		_ = sw.WritePixel(EntityIDAttachment, 0, 0, 7)
	}
	return d.record("sprites", f)
}

func (d *recordingDrawer) DrawCircles(_ framebuffer.Framebuffer, f *Frame) error {
	return d.record("circles", f)
}

func (d *recordingDrawer) DrawOverlay(_ framebuffer.Framebuffer, f *Frame) error {
	return d.record("overlay", f)
}

func newTestRenderer(t *testing.T, d Drawer) *Renderer {
	t.Helper()
	r, err := New(d,
		rendergraph.WithBackend(framebuffer.NewSoftwareBackend()),
		rendergraph.WithSize(64, 48),
	)
	require.NoError(t, err)
	return r
}

func passNames(g *rendergraph.Graph) []string {
	var names []string
	for _, p := range g.ExecutionOrder() {
		names = append(names, p.Name())
	}
	return names
}

func TestNewBuildsPipeline(t *testing.T) {
	r := newTestRenderer(t, &recordingDrawer{})
	g := r.Graph()

	if !g.IsCompiled() {
		t.Fatal("New() should return a compiled graph")
	}
	want := []string{ClearPass, GeometryPass, PBRPass, SpritePass, CirclePass, OverlayPass, ResolvePass}
	if got := passNames(g); !slices.Equal(got, want) {
		t.Errorf("ExecutionOrder() = %v, want %v", got, want)
	}

	scene := g.Framebuffer(SceneFramebuffer)
	if n := scene.ColorAttachmentCount(); n != 2 {
		t.Errorf("scene ColorAttachmentCount() = %d, want 2", n)
	}
	if scene.DepthAttachment() == nil {
		t.Error("scene framebuffer should have a depth attachment")
	}
	if n := g.Framebuffer(GeometryBuffer).ColorAttachmentCount(); n != 5 {
		t.Errorf("gbuffer ColorAttachmentCount() = %d, want 5", n)
	}
	if !g.Resource(FinalOutput).IsPersistent() {
		t.Error("final output should be persistent")
	}

	if w, h := r.Size(); w != 64 || h != 48 {
		t.Errorf("Size() = %dx%d, want 64x48", w, h)
	}
}

func TestNewNilDrawer(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) should fail")
	}
}

func TestRenderEditor(t *testing.T) {
	d := &recordingDrawer{}
	r := newTestRenderer(t, d)
	v := NewView(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, 45, 4.0/3.0, 0.1, 100)

	require.NoError(t, r.RenderEditor(v))
	want := []string{"geometry", "lighting", "sprites", "circles", "overlay"}
	if !slices.Equal(d.calls, want) {
		t.Errorf("drawer calls = %v, want %v", d.calls, want)
	}
	for _, f := range d.frames {
		if !f.Overlay || f.View != v || f.Index != 0 {
			t.Errorf("frame = {Overlay: %v, Index: %d}, want editor frame 0 with the given view", f.Overlay, f.Index)
		}
	}

	scene := r.Output().(*framebuffer.SoftwareFramebuffer)
	if got := scene.Image(SceneColorAttachment).RGBAAt(10, 10); got != ClearColor {
		t.Errorf("scene pixel = %v, want clear color %v", got, ClearColor)
	}

	// Resolve copies the scene color.
	final := r.Graph().Framebuffer(FinalOutput).(*framebuffer.SoftwareFramebuffer)
	if got := final.Image(0).RGBAAt(10, 10); got != ClearColor {
		t.Errorf("final pixel = %v, want %v", got, ClearColor)
	}
}

func TestRenderRuntime(t *testing.T) {
	d := &recordingDrawer{}
	r := newTestRenderer(t, d)

	require.NoError(t, r.RenderRuntime(nil))
	if len(d.calls) != 0 {
		t.Errorf("no primary camera should draw nothing, got %v", d.calls)
	}

	cam := &Camera{
		Projection: mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100),
		Transform:  mgl32.Translate3D(1, 2, 3),
	}
	require.NoError(t, r.RenderRuntime(cam))
	if slices.Contains(d.calls, "overlay") {
		t.Error("runtime frames should skip the overlay")
	}
	if d.frames[0].Overlay {
		t.Error("Frame.Overlay = true in runtime mode")
	}
	if got := d.frames[0].View.Position; got != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("View.Position = %v, want [1 2 3]", got)
	}

	require.NoError(t, r.RenderRuntime(cam))
	if got := d.frames[len(d.frames)-1].Index; got != 1 {
		t.Errorf("Frame.Index = %d, want 1", got)
	}
}

func TestEntityAt(t *testing.T) {
	r := newTestRenderer(t, &recordingDrawer{})
	require.NoError(t, r.RenderEditor(View{ViewProjection: mgl32.Ident4()}))

	tests := []struct {
		x, y int
		want int32
	}{
		{0, 0, 7},
		{5, 5, NoEntity},
	}
	for _, tt := range tests {
		id, err := r.EntityAt(tt.x, tt.y)
		if err != nil || id != tt.want {
			t.Errorf("EntityAt(%d, %d) = %d, %v, want %d", tt.x, tt.y, id, err, tt.want)
		}
	}

	if _, err := r.EntityAt(64, 0); err == nil {
		t.Error("EntityAt outside the framebuffer should fail")
	}
}

func TestDrawerErrorAbortsFrame(t *testing.T) {
	d := &recordingDrawer{fail: "lighting"}
	r := newTestRenderer(t, d)

	err := r.RenderEditor(View{})
	if err == nil || !strings.Contains(err.Error(), PBRPass) {
		t.Fatalf("RenderEditor() = %v, want error naming %s", err, PBRPass)
	}
	if want := []string{"geometry", "lighting"}; !slices.Equal(d.calls, want) {
		t.Errorf("drawer calls = %v, want %v", d.calls, want)
	}
}

func TestResize(t *testing.T) {
	r := newTestRenderer(t, &recordingDrawer{})
	g := r.Graph()
	final := g.Framebuffer(FinalOutput)

	require.NoError(t, r.Resize(0, 100))
	require.NoError(t, r.Resize(64, 48))
	if w := g.Framebuffer(SceneFramebuffer).Spec().Width; w != 64 {
		t.Errorf("scene width = %d, want 64", w)
	}

	require.NoError(t, r.Resize(128, 96))
	for _, name := range []string{SceneFramebuffer, GeometryBuffer, FinalOutput} {
		spec := g.Framebuffer(name).Spec()
		if spec.Width != 128 || spec.Height != 96 {
			t.Errorf("%s size = %dx%d, want 128x96", name, spec.Width, spec.Height)
		}
	}
	if g.Framebuffer(FinalOutput) != final {
		t.Error("Resize should keep the final output framebuffer")
	}
	if v := g.Resource(FinalOutput).Version(); v != 1 {
		t.Errorf("final output Version() = %d, want 1", v)
	}
	if !g.IsCompiled() {
		t.Error("Resize should leave the graph compiled")
	}

	if err := r.Resize(framebuffer.MaxSize+1, 96); err == nil {
		t.Error("Resize beyond MaxSize should fail")
	}
}

type gpuResolver struct {
	recordingDrawer
	resolved int
}

func (d *gpuResolver) Resolve(_, _ framebuffer.Framebuffer) error {
	d.resolved++
	return nil
}

func TestResolverOverride(t *testing.T) {
	d := &gpuResolver{}
	r := newTestRenderer(t, d)
	require.NoError(t, r.RenderEditor(View{}))
	if d.resolved != 1 {
		t.Errorf("Resolve called %d times, want 1", d.resolved)
	}

	// The custom resolver replaces the blit.
	final := r.Graph().Framebuffer(FinalOutput).(*framebuffer.SoftwareFramebuffer)
	if got := final.Image(0).RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("final pixel = %v, want zero", got)
	}
}

func TestCameraView(t *testing.T) {
	cam := Camera{Projection: mgl32.Ident4(), Transform: mgl32.Translate3D(0, 0, 5)}
	v := cam.View()
	if v.Position != (mgl32.Vec3{0, 0, 5}) {
		t.Errorf("Position = %v, want [0 0 5]", v.Position)
	}

	// The camera origin maps to the view origin.
	p := v.ViewProjection.Mul4x1(mgl32.Vec4{0, 0, 5, 1})
	if z := p.Z(); math.Abs(float64(z)) > 1e-6 {
		t.Errorf("projected Z = %v, want 0", z)
	}
}
