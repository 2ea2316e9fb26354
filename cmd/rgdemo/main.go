// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command rgdemo renders the scene pipeline headlessly and writes the
// render graph as Graphviz DOT and the final image as PNG.
//
// Configuration comes from RG_* environment variables, optionally
// seeded from a .env file:
//
//	RG_WIDTH=1280 RG_HEIGHT=720 RG_FRAMES=3 rgdemo -env demo.env
//	dot -Tsvg rendergraph.dot -o rendergraph.svg
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/rendergraph"
	"github.com/gogpu/rendergraph/framebuffer"
	"github.com/gogpu/rendergraph/scenerenderer"
)

func main() {
	envFile := flag.String("env", "", "optional .env file with RG_* variables")
	flag.Parse()

	if err := run(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, "rgdemo:", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	rendergraph.SetLogger(logger)

	// The noop HAL device stands in for a real GPU so the HAL path can be
	// exercised headlessly.
	framebuffer.Register(framebuffer.HALBackendName, func() framebuffer.Backend {
		return framebuffer.NewHALBackend(&noop.Device{})
	})
	backend, err := framebuffer.Lookup(cfg.Backend)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, framebuffer.Available())
	}

	r, err := scenerenderer.New(newDemoScene(),
		rendergraph.WithBackend(backend),
		rendergraph.WithSize(cfg.Width, cfg.Height),
	)
	if err != nil {
		return err
	}

	aspect := float32(cfg.Width) / float32(cfg.Height)
	for i := range cfg.Frames {
		// Orbit the editor camera a little each frame.
		angle := mgl32.DegToRad(float32(i) * 10)
		eye := mgl32.Vec3{5 * sinf(angle), 1, 5 * cosf(angle)}
		view := scenerenderer.NewView(eye, mgl32.Vec3{}, 45, aspect, 0.1, 100)
		if err := r.RenderEditor(view); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	logger.Info("rgdemo: rendered", "frames", cfg.Frames, "backend", backend.Name(),
		"stats", r.Graph().Statistics().String())

	if id, err := r.EntityAt(int(cfg.Width/2), int(cfg.Height/2)); err == nil {
		logger.Info("rgdemo: picked entity at center", "entity", id)
	}

	if cfg.DOT != "" {
		if err := writeDOT(r.Graph(), cfg.DOT); err != nil {
			return err
		}
		logger.Info("rgdemo: wrote graph", "path", cfg.DOT)
	}
	if cfg.PNG != "" {
		ok, err := writePNG(r.Graph(), cfg.PNG)
		if err != nil {
			return err
		}
		if ok {
			logger.Info("rgdemo: wrote image", "path", cfg.PNG)
		} else {
			logger.Warn("rgdemo: final output is not CPU readable, image skipped", "backend", backend.Name())
		}
	}
	return nil
}

func writeDOT(g *rendergraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.WriteDOT(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writePNG(g *rendergraph.Graph, path string) (bool, error) {
	fb, ok := g.Framebuffer(scenerenderer.FinalOutput).(*framebuffer.SoftwareFramebuffer)
	if !ok {
		return false, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return false, err
	}
	if err := png.Encode(f, fb.Image(0)); err != nil {
		f.Close()
		return false, err
	}
	return true, f.Close()
}

func sinf(a float32) float32 { return float32(math.Sin(float64(a))) }
func cosf(a float32) float32 { return float32(math.Cos(float64(a))) }
