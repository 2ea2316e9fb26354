// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"

	"github.com/gogpu/rendergraph/framebuffer"
)

// config is read from RG_* environment variables.
type config struct {
	Width    uint32     // RG_WIDTH
	Height   uint32     // RG_HEIGHT
	Frames   int        // RG_FRAMES
	Backend  string     // RG_BACKEND: software or hal
	DOT      string     // RG_DOT: Graphviz output path, empty to skip
	PNG      string     // RG_PNG: final image path, empty to skip
	LogLevel slog.Level // RG_LOG_LEVEL: debug, info, warn, error
}

// loadConfig reads the configuration. Variables from envFile fill in
// values the environment does not already set.
func loadConfig(envFile string) (config, error) {
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil {
			return config{}, fmt.Errorf("read %s: %w", envFile, err)
		}
		for k, v := range vars {
			if _, err := envy.MustGet(k); err != nil {
				envy.Set(k, v)
			}
		}
	}

	cfg := config{
		Backend: envy.Get("RG_BACKEND", framebuffer.SoftwareBackendName),
		DOT:     envy.Get("RG_DOT", "rendergraph.dot"),
		PNG:     envy.Get("RG_PNG", "rendergraph.png"),
	}

	var err error
	if cfg.Width, err = envUint32("RG_WIDTH", 1280); err != nil {
		return config{}, err
	}
	if cfg.Height, err = envUint32("RG_HEIGHT", 720); err != nil {
		return config{}, err
	}
	if cfg.Frames, err = strconv.Atoi(envy.Get("RG_FRAMES", "3")); err != nil || cfg.Frames < 1 {
		return config{}, fmt.Errorf("RG_FRAMES: want a positive integer, got %q", envy.Get("RG_FRAMES", ""))
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(envy.Get("RG_LOG_LEVEL", "info"))); err != nil {
		return config{}, fmt.Errorf("RG_LOG_LEVEL: %w", err)
	}
	if err := framebuffer.ValidateSize(cfg.Width, cfg.Height); err != nil {
		return config{}, fmt.Errorf("RG_WIDTH/RG_HEIGHT: %w", err)
	}
	return cfg, nil
}

func envUint32(key string, def uint32) (uint32, error) {
	s := envy.Get(key, strconv.FormatUint(uint64(def), 10))
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return uint32(v), nil
}
