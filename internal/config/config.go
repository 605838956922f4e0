// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all viewer settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Lighting   LightingConfig   `yaml:"lighting"`
	Textures   TexturesConfig   `yaml:"textures"`
	Data       DataConfig       `yaml:"data"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	MSAA       int  `yaml:"msaa"` // multisample count, 0 disables
}

// ViewerConfig holds camera and interaction settings.
type ViewerConfig struct {
	FOV             float32    `yaml:"fov"` // vertical, degrees
	Near            float32    `yaml:"near"`
	Far             float32    `yaml:"far"`
	CameraDistance  float32    `yaml:"camera_distance"` // at zoom 1
	DragSensitivity float32    `yaml:"drag_sensitivity"` // degrees per pixel
	ZoomBase        float32    `yaml:"zoom_base"`
	MinZoom         float32    `yaml:"min_zoom"`
	MaxZoom         float32    `yaml:"max_zoom"`
	Background      [3]float32 `yaml:"background,flow"`
}

// LightingConfig holds the fixed directional light.
type LightingConfig struct {
	Direction [3]float32 `yaml:"direction,flow"` // towards the light, model space
	Ambient   float32    `yaml:"ambient"`
	Diffuse   float32    `yaml:"diffuse"`
	Specular  float32    `yaml:"specular"`
}

// TexturesConfig holds diffuse texture loading settings.
type TexturesConfig struct {
	Enabled bool `yaml:"enabled"`
	FlipV   bool `yaml:"flip_v"` // flip rows so V=0 is the bottom of the image
}

// DataConfig holds model file settings.
type DataConfig struct {
	TextEncoding string `yaml:"text_encoding"` // "" or utf-8 for no conversion
}

// ScreenshotConfig holds screenshot capture settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or webp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      800,
			Height:     800,
			Fullscreen: false,
			VSync:      true,
			MSAA:       4,
		},
		Viewer: ViewerConfig{
			FOV:             45,
			Near:            0.1,
			Far:             100,
			CameraDistance:  5,
			DragSensitivity: 0.5,
			ZoomBase:        1.1,
			MinZoom:         0.0625,
			MaxZoom:         40,
			Background:      [3]float32{0.1, 0.1, 0.1},
		},
		Lighting: LightingConfig{
			Direction: [3]float32{1, 1, 1},
			Ambient:   0.3,
			Diffuse:   0.7,
			Specular:  1,
		},
		Textures: TexturesConfig{
			Enabled: true,
			FlipV:   true,
		},
		Data: DataConfig{
			TextEncoding: "",
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings that would make the viewer misbehave.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: window size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	v := c.Viewer
	if v.FOV <= 0 || v.FOV >= 180 {
		errs = append(errs, fmt.Errorf("viewer: fov %v out of range (0, 180)", v.FOV))
	}
	if v.Near <= 0 || v.Far <= v.Near {
		errs = append(errs, fmt.Errorf("viewer: clip planes near=%v far=%v", v.Near, v.Far))
	}
	if v.CameraDistance <= 0 {
		errs = append(errs, fmt.Errorf("viewer: camera_distance %v must be positive", v.CameraDistance))
	}
	if v.ZoomBase <= 0 {
		errs = append(errs, fmt.Errorf("viewer: zoom_base %v must be positive", v.ZoomBase))
	}
	// 0 disables a zoom bound
	if v.MinZoom < 0 || v.MaxZoom < 0 || (v.MinZoom > 0 && v.MaxZoom > 0 && v.MaxZoom < v.MinZoom) {
		errs = append(errs, fmt.Errorf("viewer: zoom range [%v, %v]", v.MinZoom, v.MaxZoom))
	}
	switch strings.ToLower(c.Screenshot.Format) {
	case "png", "webp":
	default:
		errs = append(errs, fmt.Errorf("screenshot: unknown format %q", c.Screenshot.Format))
	}
	return errors.Join(errs...)
}
