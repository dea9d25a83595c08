// Package main is the entry point for FieldPlot.
package main

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/fieldplot/internal/app"
	"github.com/Faultbox/fieldplot/internal/config"
	"github.com/Faultbox/fieldplot/internal/drawing"
	"github.com/Faultbox/fieldplot/internal/engine/scene"
	"github.com/Faultbox/fieldplot/internal/logger"
	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/internal/plot"
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

	logger.Info("=== FieldPlot ===")
	for _, notice := range multierr.Errors(cfg.Normalize()) {
		logger.Warn("config adjusted", zap.Error(notice))
	}
	logger.Sugar.Debugf("Config: %+v", cfg)

	if path := config.PlotPath(); path != "" {
		if err := runPlot(cfg, path); err != nil {
			logger.Error("plot failed", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
		return
	}

	a, err := app.New(cfg, config.ConfigPath())
	if err != nil {
		logger.Error("failed to create app", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("app error", zap.Error(err))
		return
	}

	logger.Info("app closed normally")
}

// runPlot builds a plot file over the configured terrain without a window.
func runPlot(cfg *config.Config, path string) error {
	f, err := plot.Load(path)
	if err != nil {
		return err
	}

	s, err := scene.New(cfg)
	if err != nil {
		return err
	}

	var uploaded int
	upload := drawing.UploaderFunc(func(m *mesh.Mesh) (drawing.MeshHandle, error) {
		uploaded++
		return drawing.MeshHandle(uploaded), nil
	})
	coord := s.NewCoordinator(upload, drawing.OptionsFromConfig(cfg.Drawing), nil)

	reports, err := plot.Build(coord, f)
	vertices, triangles := 0, 0
	for _, r := range reports {
		vertices += r.Vertices
		triangles += r.Triangles
	}
	logger.Info("plot built",
		zap.String("path", path),
		zap.Int("shapes", len(reports)),
		zap.Int("fields", uploaded),
		zap.Int("colliders", s.Fields.Len()),
		zap.Int("vertices", vertices),
		zap.Int("triangles", triangles),
	)
	return err
}
