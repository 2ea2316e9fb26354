// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scenerenderer renders a scene through a fixed render graph:
//
//	ClearPass     -> SceneFramebuffer
//	GeometryPass  -> GeometryBuffer
//	PBRPass       GeometryBuffer, SceneFramebuffer -> SceneFramebuffer
//	SpritePass    -> SceneFramebuffer
//	CirclePass    -> SceneFramebuffer
//	OverlayPass   -> SceneFramebuffer (editor only)
//	ResolvePass   SceneFramebuffer -> FinalOutput
//
// The renderer owns clearing and resolving. Everything scene-specific is
// drawn by a [Drawer] supplied by the application, which receives the
// per-frame [Frame] explicitly instead of reading global state.
package scenerenderer
