// Package renderer turns a scene into material-batched draw calls each frame.
// It is backend independent; the OpenGL implementation of Device lives in
// the gpu package.
package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/scene"
	"github.com/Faultbox/objview/internal/logger"
)

// Device is the GPU backend.
type Device interface {
	// Upload replaces the vertex buffer.
	Upload(vertices []Vertex) error
	// Clear clears color and depth.
	Clear()
	SetTransform(t Transform)
	ApplyMaterial(m MaterialState)
	// Draw draws count vertices starting at first as triangles.
	Draw(first, count int32)
	Release()
}

// FrameStats describes the work done by one RenderFrame.
type FrameStats struct {
	MaterialChanges int
	DrawCalls       int
	Triangles       int
}

// Renderer draws one scene.
type Renderer struct {
	dev   Device
	scene *scene.Scene
	proj  Projection
	list  DrawList
}

// New flattens sc and uploads it to dev. Must be called after the device's
// context is current.
func New(dev Device, sc *scene.Scene, proj Projection) (*Renderer, error) {
	r := &Renderer{
		dev:   dev,
		scene: sc,
		proj:  proj,
		list:  BuildDrawList(sc),
	}

	if err := dev.Upload(r.list.Vertices); err != nil {
		return nil, fmt.Errorf("uploading %d vertices: %w", len(r.list.Vertices), err)
	}

	if r.list.Dropped > 0 {
		logger.Warn("triangles with invalid vertex indices were dropped",
			zap.Int("dropped", r.list.Dropped))
	}
	logger.Debug("draw list built",
		zap.Int("triangles", r.list.Triangles()),
		zap.Int("runs", len(r.list.Runs)))

	return r, nil
}

// DrawList returns the flattened scene.
func (r *Renderer) DrawList() DrawList {
	return r.list
}

// RenderFrame draws the scene from vs. Each run applies its material once.
func (r *Renderer) RenderFrame(vs *camera.ViewState, aspect float32) FrameStats {
	var stats FrameStats

	r.dev.Clear()
	r.dev.SetTransform(ViewProjection(vs, r.scene.Center, r.scene.Scale, aspect, r.proj))

	for _, run := range r.list.Runs {
		r.dev.ApplyMaterial(MaterialStateFor(r.scene, run.Material))
		stats.MaterialChanges++

		r.dev.Draw(run.First, run.Count)
		stats.DrawCalls++
		stats.Triangles += int(run.Count / 3)
	}

	return stats
}

// Close releases the device.
func (r *Renderer) Close() {
	r.dev.Release()
}
