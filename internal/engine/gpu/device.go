// Package gpu implements the renderer's Device and the texture Uploader on
// OpenGL 4.1 core.
package gpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/lighting"
	"github.com/Faultbox/objview/internal/engine/renderer"
	"github.com/Faultbox/objview/internal/engine/shader"
	"github.com/Faultbox/objview/internal/engine/shader/shaders"
	"github.com/Faultbox/objview/internal/engine/texture"
	"github.com/Faultbox/objview/internal/logger"
)

// Config holds device settings.
type Config struct {
	Background [3]float32
	Light      lighting.Directional
	MSAA       bool
}

// Device draws interleaved triangle lists with the mesh shader.
type Device struct {
	program *shader.Program
	vao     uint32
	vbo     uint32

	blending bool
	texture  texture.Handle
}

var _ renderer.Device = (*Device)(nil)

var meshUniforms = []string{
	"uMVP", "uEye",
	"uAmbient", "uDiffuse", "uSpecular", "uShininess", "uOpacity",
	"uUseTexture", "uTexture",
	"uLightDir", "uLightAmbient", "uLightDiffuse", "uLightSpecular",
}

// New initializes OpenGL and creates the device.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	if cfg.MSAA {
		gl.Enable(gl.MULTISAMPLE)
	}
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)

	program, err := shader.NewProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader, meshUniforms...)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}

	d := &Device{program: program}
	d.createBuffers()

	program.Use()
	program.SetInt("uTexture", 0)
	program.SetVec3("uLightDir", cfg.Light.Normalized())
	program.SetFloat("uLightAmbient", cfg.Light.Ambient)
	program.SetFloat("uLightDiffuse", cfg.Light.Diffuse)
	program.SetFloat("uLightSpecular", cfg.Light.Specular)

	logger.Debug("device created",
		zap.Uint32("program", program.ID),
		zap.Uint32("vao", d.vao),
		zap.Uint32("vbo", d.vbo),
	)
	return d, nil
}

// createBuffers sets up the VAO for renderer.Vertex:
// position (location 0), normal (1), texcoord (2).
func (d *Device) createBuffers() {
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, renderer.VertexSize, nil)
	gl.EnableVertexAttribArray(0)

	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, renderer.VertexSize, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, renderer.VertexSize, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Upload replaces the vertex buffer contents.
func (d *Device) Upload(vertices []renderer.Vertex) error {
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	defer gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if len(vertices) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return nil
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*renderer.VertexSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("glBufferData: error 0x%x", code)
	}
	return nil
}

// Clear clears color and depth.
func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetTransform uploads the camera matrices.
func (d *Device) SetTransform(t renderer.Transform) {
	d.program.Use()
	mvp := [16]float32(t.MVP)
	d.program.SetMat4("uMVP", &mvp)
	d.program.SetVec3("uEye", t.Eye.Array())
}

// ApplyMaterial sets colors, toggles blending and binds or unbinds the texture.
func (d *Device) ApplyMaterial(m renderer.MaterialState) {
	p := d.program
	p.SetVec3("uAmbient", m.Ambient)
	p.SetVec3("uDiffuse", m.Diffuse)
	p.SetVec3("uSpecular", m.Specular)
	p.SetFloat("uShininess", m.Shininess)
	p.SetFloat("uOpacity", m.Opacity)

	if m.Blend != d.blending {
		if m.Blend {
			gl.Enable(gl.BLEND)
		} else {
			gl.Disable(gl.BLEND)
		}
		d.blending = m.Blend
	}

	if m.Texture != d.texture {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, uint32(m.Texture))
		d.texture = m.Texture
	}
	p.SetBool("uUseTexture", m.Texture != 0)
}

// Draw draws count vertices starting at first.
func (d *Device) Draw(first, count int32) {
	if count <= 0 {
		return
	}
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLES, first, count)
	gl.BindVertexArray(0)
}

// Resize updates the viewport to the framebuffer size.
func (d *Device) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("viewport resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ReadPixels reads the back buffer as RGBA rows, bottom row first.
func (d *Device) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// Release frees GPU resources.
func (d *Device) Release() {
	logger.Info("releasing device")
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
	if d.vbo != 0 {
		gl.DeleteBuffers(1, &d.vbo)
		d.vbo = 0
	}
	if d.program != nil {
		d.program.Delete()
	}
}
