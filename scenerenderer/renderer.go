// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scenerenderer

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/framebuffer"
)

// Resource names.
const (
	SceneFramebuffer = "SceneFramebuffer"
	GeometryBuffer   = "GeometryBuffer"
	FinalOutput      = "FinalOutput"
)

// Pass names.
const (
	ClearPass    = "ClearPass"
	GeometryPass = "GeometryPass"
	PBRPass      = "PBRPass"
	SpritePass   = "SpritePass"
	CirclePass   = "CirclePass"
	OverlayPass  = "OverlayPass"
	ResolvePass  = "ResolvePass"
)

// Attachment indices of the scene framebuffer.
const (
	SceneColorAttachment = 0
	EntityIDAttachment   = 1
)

// NoEntity is the entity ID of pixels no entity was drawn to.
const NoEntity int32 = -1

// ClearColor is the background of the scene framebuffer.
var ClearColor = color.RGBA{R: 173, G: 216, B: 230, A: 255}

// Frame is the per-frame state handed to the Drawer.
type Frame struct {
	View View

	// Overlay is set for editor frames.
	Overlay bool

	// Index counts rendered frames, starting at 0.
	Index uint64
}

// Drawer draws scene content into graph framebuffers. Each method is
// called from the pass of the same name with the framebuffer(s) that pass
// declares.
type Drawer interface {
	DrawGeometry(gbuffer framebuffer.Framebuffer, f *Frame) error
	DrawLighting(scene, gbuffer framebuffer.Framebuffer, f *Frame) error
	DrawSprites(scene framebuffer.Framebuffer, f *Frame) error
	DrawCircles(scene framebuffer.Framebuffer, f *Frame) error
	DrawOverlay(scene framebuffer.Framebuffer, f *Frame) error
}

// Resolver copies the scene color into the final output. Drawers for
// backends other than the software one implement it to resolve on the
// GPU; otherwise the renderer blits software framebuffers itself.
type Resolver interface {
	Resolve(scene, final framebuffer.Framebuffer) error
}

// clearer is implemented by framebuffers with CPU clears.
type clearer interface {
	ClearColor(i int, c color.Color) error
	ClearInt(i int, v int32) error
	ClearDepth(v float32) error
}

// Renderer renders scenes with a render graph.
type Renderer struct {
	graph  *rendergraph.Graph
	drawer Drawer
	frame  Frame
	width  uint32
	height uint32
}

// New builds the scene graph. opts are passed to rendergraph.New after the
// renderer's own defaults, so WithSize and WithBackend may be overridden.
func New(drawer Drawer, opts ...rendergraph.Option) (*Renderer, error) {
	if drawer == nil {
		return nil, errors.New("scenerenderer: nil drawer")
	}
	opts = append([]rendergraph.Option{
		rendergraph.WithSize(rendergraph.DefaultWidth, rendergraph.DefaultHeight),
		rendergraph.WithOrderedWriters(true),
	}, opts...)

	r := &Renderer{
		graph:  rendergraph.New(opts...),
		drawer: drawer,
	}
	r.width, r.height = r.graph.Size()
	if err := r.setup(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) setup() error {
	w, h := r.width, r.height
	return rendergraph.NewBuilder(r.graph).
		CreateFramebuffer(SceneFramebuffer, []gputypes.TextureFormat{
			gputypes.TextureFormatRGBA8Unorm,          // color
			gputypes.TextureFormatR32Sint,             // entity ID
			gputypes.TextureFormatDepth24PlusStencil8, // depth
		}, w, h, 1).
		CreateFramebuffer(GeometryBuffer, []gputypes.TextureFormat{
			gputypes.TextureFormatRGBA16Float,         // position
			gputypes.TextureFormatRGBA16Float,         // normal
			gputypes.TextureFormatRGBA8Unorm,          // albedo
			gputypes.TextureFormatRGBA8Unorm,          // metallic, roughness, AO
			gputypes.TextureFormatR32Sint,             // entity ID
			gputypes.TextureFormatDepth24PlusStencil8, // depth
		}, w, h, 1).
		CreatePersistentTexture(FinalOutput, gputypes.TextureFormatRGBA8Unorm, w, h, 1).
		AddRenderPass(ClearPass, nil, []string{SceneFramebuffer}, r.clearScene).
		AddRenderPass(GeometryPass, nil, []string{GeometryBuffer}, r.geometry).
		AddPass(rendergraph.PassDescriptor{
			Name:    PBRPass,
			Inputs:  []string{GeometryBuffer, SceneFramebuffer},
			Outputs: []string{SceneFramebuffer},
		}, r.lighting).
		AddPass(rendergraph.PassDescriptor{
			Name:           SpritePass,
			Outputs:        []string{SceneFramebuffer},
			EnableBlending: true,
		}, r.sceneDraw(r.drawer.DrawSprites)).
		AddPass(rendergraph.PassDescriptor{
			Name:           CirclePass,
			Outputs:        []string{SceneFramebuffer},
			EnableBlending: true,
		}, r.sceneDraw(r.drawer.DrawCircles)).
		AddRenderPass(OverlayPass, nil, []string{SceneFramebuffer}, r.overlay).
		AddRenderPass(ResolvePass, []string{SceneFramebuffer}, []string{FinalOutput}, r.resolve).
		Build()
}

// Graph returns the underlying render graph.
func (r *Renderer) Graph() *rendergraph.Graph { return r.graph }

// Size returns the viewport size.
func (r *Renderer) Size() (width, height uint32) { return r.width, r.height }

// RenderRuntime renders a frame through the scene's primary camera. A nil
// camera renders nothing.
func (r *Renderer) RenderRuntime(cam *Camera) error {
	if cam == nil {
		rendergraph.Logger().Debug("scenerenderer: no primary camera, frame skipped")
		return nil
	}
	return r.render(cam.View(), false)
}

// RenderEditor renders a frame from an editor view, including overlays.
func (r *Renderer) RenderEditor(v View) error {
	return r.render(v, true)
}

func (r *Renderer) render(v View, overlay bool) error {
	r.frame.View = v
	r.frame.Overlay = overlay
	err := r.graph.Execute()
	r.frame.Index++
	return err
}

// Resize changes the viewport size. Zero and unchanged sizes are ignored.
// The final output is resized along with the transient framebuffers.
func (r *Renderer) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	if width == r.width && height == r.height {
		return nil
	}
	r.width, r.height = width, height
	err := r.graph.Resize(width, height)
	if fb := r.graph.Framebuffer(FinalOutput); fb != nil {
		if ferr := fb.Resize(width, height); ferr != nil {
			return errors.Join(err, fmt.Errorf("scenerenderer: resize final output: %w", ferr))
		}
		r.graph.Resource(FinalOutput).IncrementVersion()
	}
	return err
}

// Output returns the framebuffer holding the rendered scene, falling back
// to the final output.
func (r *Renderer) Output() framebuffer.Framebuffer {
	if fb := r.graph.Framebuffer(SceneFramebuffer); fb != nil {
		return fb
	}
	return r.graph.Framebuffer(FinalOutput)
}

// EntityAt returns the entity ID drawn at pixel (x, y) of the last frame,
// or NoEntity. Picking needs a CPU-readable scene framebuffer.
func (r *Renderer) EntityAt(x, y int) (int32, error) {
	fb, ok := r.graph.Framebuffer(SceneFramebuffer).(*framebuffer.SoftwareFramebuffer)
	if !ok {
		return NoEntity, fmt.Errorf("scenerenderer: scene framebuffer is not CPU readable")
	}
	return fb.ReadPixel(EntityIDAttachment, x, y)
}

func (r *Renderer) clearScene(g *rendergraph.Graph, _ *rendergraph.Pass) error {
	c, ok := g.Framebuffer(SceneFramebuffer).(clearer)
	if !ok {
		return nil
	}
	if err := c.ClearInt(EntityIDAttachment, NoEntity); err != nil {
		return err
	}
	if err := c.ClearColor(SceneColorAttachment, ClearColor); err != nil {
		return err
	}
	return c.ClearDepth(1)
}

func (r *Renderer) geometry(g *rendergraph.Graph, _ *rendergraph.Pass) error {
	fb := g.Framebuffer(GeometryBuffer)
	if fb == nil {
		return nil
	}
	if c, ok := fb.(clearer); ok {
		for i := range fb.ColorAttachmentCount() {
			if framebuffer.IsIntegerFormat(fb.ColorAttachment(i).Format()) {
				if err := c.ClearInt(i, 0); err != nil {
					return err
				}
				continue
			}
			if err := c.ClearColor(i, color.Transparent); err != nil {
				return err
			}
		}
		if err := c.ClearDepth(1); err != nil {
			return err
		}
	}
	return r.drawer.DrawGeometry(fb, &r.frame)
}

func (r *Renderer) lighting(g *rendergraph.Graph, _ *rendergraph.Pass) error {
	scene, gbuffer := g.Framebuffer(SceneFramebuffer), g.Framebuffer(GeometryBuffer)
	if scene == nil || gbuffer == nil {
		return nil
	}
	return r.drawer.DrawLighting(scene, gbuffer, &r.frame)
}

func (r *Renderer) sceneDraw(draw func(framebuffer.Framebuffer, *Frame) error) rendergraph.ExecuteFunc {
	return func(g *rendergraph.Graph, _ *rendergraph.Pass) error {
		fb := g.Framebuffer(SceneFramebuffer)
		if fb == nil {
			return nil
		}
		return draw(fb, &r.frame)
	}
}

func (r *Renderer) overlay(g *rendergraph.Graph, p *rendergraph.Pass) error {
	if !r.frame.Overlay {
		return nil
	}
	return r.sceneDraw(r.drawer.DrawOverlay)(g, p)
}

func (r *Renderer) resolve(g *rendergraph.Graph, _ *rendergraph.Pass) error {
	scene, final := g.Framebuffer(SceneFramebuffer), g.Framebuffer(FinalOutput)
	if scene == nil || final == nil {
		return nil
	}
	if res, ok := r.drawer.(Resolver); ok {
		return res.Resolve(scene, final)
	}
	src, ok1 := scene.(*framebuffer.SoftwareFramebuffer)
	dst, ok2 := final.(*framebuffer.SoftwareFramebuffer)
	if !ok1 || !ok2 {
		return nil
	}
	return src.BlitTo(dst, SceneColorAttachment, 0)
}
