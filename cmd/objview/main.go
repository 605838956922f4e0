// Package main is the entry point for the OBJ viewer.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/scene"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/internal/viewer"
	"github.com/Faultbox/objview/pkg/formats"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== OBJ Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			logger.Error("failed to save config", zap.Error(err))
		} else {
			logger.Info("config saved", zap.String("path", path))
		}
	}

	path, err := selectModel(config.Args(), openFileDialog)
	if errors.Is(err, dialog.ErrCancelled) {
		fmt.Println("No file selected. Exiting.")
		return
	}
	if err != nil {
		logger.Error("failed to select model", zap.Error(err))
		os.Exit(1)
	}

	sc, err := scene.Load(path, scene.LoadOptions{Encoding: cfg.Data.TextEncoding})
	if err != nil {
		logger.Error("failed to load model", zap.String("path", path), zap.Error(err))
		os.Exit(1)
	}

	v, err := viewer.New(cfg, sc)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}

	if err := v.Run(); err != nil {
		v.Close()
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	v.Close()

	logger.Info("viewer closed normally")
}

// selectModel returns the first positional argument when it names an
// existing OBJ file, otherwise whatever pick returns.
func selectModel(args []string, pick func() (string, error)) (string, error) {
	if len(args) > 0 {
		if formats.IsOBJPath(args[0]) {
			return args[0], nil
		}
		logger.Warn("argument is not an OBJ file, opening file dialog", zap.String("arg", args[0]))
	}

	path, err := pick()
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", dialog.ErrCancelled
	}
	return path, nil
}

// openFileDialog shows a native file dialog to select an OBJ file.
func openFileDialog() (string, error) {
	return dialog.File().
		Filter("Wavefront OBJ", "obj").
		Filter("All Files", "*").
		Title("Open OBJ Model").
		Load()
}
