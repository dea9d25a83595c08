package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/multierr"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Drawing.GroundLayer != "ground" {
		t.Errorf("expected ground layer 'ground', got %q", cfg.Drawing.GroundLayer)
	}
	if cfg.Drawing.CircleSegments < MinCircleSegments {
		t.Errorf("default circle segments %d below minimum", cfg.Drawing.CircleSegments)
	}
	if cfg.Drawing.InnermostLoopScale >= cfg.Drawing.InnerLoopScale {
		t.Error("default innermost scale must be below inner scale")
	}
	if !cfg.Drawing.SlopeValidation {
		t.Error("expected slope validation enabled by default")
	}
	if cfg.Drawing.InvalidFeedbackDelay.Std() != 1500*time.Millisecond {
		t.Errorf("expected feedback delay 1.5s, got %v", cfg.Drawing.InvalidFeedbackDelay.Std())
	}
	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Normalize(); err != nil {
		t.Errorf("defaults should need no adjustment, got %v", err)
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "fieldplot.yaml")

	yamlContent := `
drawing:
  ground_layer: terrain
  ground_offset: 0.2
  max_slope_angle_deg: 45
  slope_validation: false
  circle_segments: 48
  curve_segments_per_span: 6
  inner_loop_scale: 0.5
  innermost_loop_scale: 0.0
  invert_normals: true
  make_collider_convex: true
  invalid_feedback_delay: 2s

terrain:
  hill_height: 0

logging:
  level: "debug"
  log_file: "fieldplot.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	d := cfg.Drawing
	if d.GroundLayer != "terrain" {
		t.Errorf("expected ground layer terrain, got %s", d.GroundLayer)
	}
	if d.GroundOffset != 0.2 {
		t.Errorf("expected ground offset 0.2, got %f", d.GroundOffset)
	}
	if d.MaxSlopeAngleDeg != 45 {
		t.Errorf("expected max slope 45, got %f", d.MaxSlopeAngleDeg)
	}
	if d.SlopeValidation {
		t.Error("expected slope validation disabled")
	}
	if d.CircleSegments != 48 {
		t.Errorf("expected 48 circle segments, got %d", d.CircleSegments)
	}
	if d.InnerLoopScale != 0.5 || d.InnermostLoopScale != 0 {
		t.Errorf("expected scales 0.5/0, got %f/%f", d.InnerLoopScale, d.InnermostLoopScale)
	}
	if !d.InvertNormals || !d.MakeColliderConvex {
		t.Error("expected invert_normals and make_collider_convex")
	}
	if d.InvalidFeedbackDelay.Std() != 2*time.Second {
		t.Errorf("expected 2s feedback delay, got %v", d.InvalidFeedbackDelay.Std())
	}
	if cfg.Terrain.HillHeight != 0 {
		t.Errorf("expected flat terrain, got hill height %f", cfg.Terrain.HillHeight)
	}
	// Unset sections keep their defaults.
	if cfg.Terrain.CellSize != Default().Terrain.CellSize {
		t.Errorf("expected default cell size, got %f", cfg.Terrain.CellSize)
	}
	if cfg.Logging.LogFile != "fieldplot.log" {
		t.Errorf("expected log file fieldplot.log, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "fieldplot.toml")

	tomlContent := `
[drawing]
circle_segments = 12
inner_loop_scale = 0.6
invalid_feedback_delay = "750ms"

[graphics]
width = 1920
height = 1080
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Drawing.CircleSegments != 12 {
		t.Errorf("expected 12 circle segments, got %d", cfg.Drawing.CircleSegments)
	}
	if cfg.Drawing.InnerLoopScale != 0.6 {
		t.Errorf("expected inner scale 0.6, got %f", cfg.Drawing.InnerLoopScale)
	}
	if cfg.Drawing.InvalidFeedbackDelay.Std() != 750*time.Millisecond {
		t.Errorf("expected 750ms, got %v", cfg.Drawing.InvalidFeedbackDelay.Std())
	}
	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
drawing:
  circle_segments: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/fieldplot.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		verify  func(*testing.T, *Config)
		notices int
	}{
		{
			name: "innermost above inner is clamped below it",
			mutate: func(c *Config) {
				c.Drawing.InnerLoopScale = 0.5
				c.Drawing.InnermostLoopScale = 0.7
			},
			verify: func(t *testing.T, c *Config) {
				want := float32(0.5 - ScaleEpsilon)
				if c.Drawing.InnermostLoopScale != want {
					t.Errorf("expected innermost %f, got %f", want, c.Drawing.InnermostLoopScale)
				}
			},
			notices: 1,
		},
		{
			name: "innermost equal to tiny inner never goes negative",
			mutate: func(c *Config) {
				c.Drawing.InnerLoopScale = 0.005
				c.Drawing.InnermostLoopScale = 0.005
			},
			verify: func(t *testing.T, c *Config) {
				if c.Drawing.InnermostLoopScale != 0 {
					t.Errorf("expected innermost 0, got %f", c.Drawing.InnermostLoopScale)
				}
			},
			notices: 1,
		},
		{
			name: "circle segments raised to minimum",
			mutate: func(c *Config) {
				c.Drawing.CircleSegments = 3
			},
			verify: func(t *testing.T, c *Config) {
				if c.Drawing.CircleSegments != MinCircleSegments {
					t.Errorf("expected %d segments, got %d", MinCircleSegments, c.Drawing.CircleSegments)
				}
			},
			notices: 1,
		},
		{
			name: "inner scale above one and negative innermost",
			mutate: func(c *Config) {
				c.Drawing.InnerLoopScale = 1.5
				c.Drawing.InnermostLoopScale = -1
			},
			verify: func(t *testing.T, c *Config) {
				if c.Drawing.InnerLoopScale != 1 {
					t.Errorf("expected inner 1, got %f", c.Drawing.InnerLoopScale)
				}
				if c.Drawing.InnermostLoopScale != 0 {
					t.Errorf("expected innermost 0, got %f", c.Drawing.InnermostLoopScale)
				}
			},
			notices: 2,
		},
		{
			name: "unknown screenshot format falls back to png",
			mutate: func(c *Config) {
				c.Graphics.ScreenshotFormat = "gif"
			},
			verify: func(t *testing.T, c *Config) {
				if c.Graphics.ScreenshotFormat != "png" {
					t.Errorf("expected png, got %q", c.Graphics.ScreenshotFormat)
				}
			},
			notices: 1,
		},
		{
			name: "slope angle clamped",
			mutate: func(c *Config) {
				c.Drawing.MaxSlopeAngleDeg = 120
			},
			verify: func(t *testing.T, c *Config) {
				if c.Drawing.MaxSlopeAngleDeg != 90 {
					t.Errorf("expected 90, got %f", c.Drawing.MaxSlopeAngleDeg)
				}
			},
			notices: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Normalize()
			if got := len(multierr.Errors(err)); got != tt.notices {
				t.Errorf("expected %d notices, got %d: %v", tt.notices, got, err)
			}
			tt.verify(t, cfg)

			if err := cfg.Normalize(); err != nil {
				t.Errorf("second Normalize should be a no-op, got %v", err)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := Default()
			cfg.Drawing.CircleSegments = 20
			cfg.Drawing.InvalidFeedbackDelay = Duration(3 * time.Second)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo failed: %v", err)
			}

			loaded := Default()
			if err := loadFromFile(loaded, path); err != nil {
				t.Fatalf("reload failed: %v", err)
			}
			if loaded.Drawing.CircleSegments != 20 {
				t.Errorf("expected 20 segments, got %d", loaded.Drawing.CircleSegments)
			}
			if loaded.Drawing.InvalidFeedbackDelay.Std() != 3*time.Second {
				t.Errorf("expected 3s, got %v", loaded.Drawing.InvalidFeedbackDelay.Std())
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "fieldplot.toml"), []byte("[graphics]\nwidth = 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./fieldplot.toml" {
		t.Errorf("expected ./fieldplot.toml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "invert normals flag",
			setup: func() { *flagInvertNormals = true },
			verify: func(cfg *Config) {
				if !cfg.Drawing.InvertNormals {
					t.Error("expected invert_normals with flag")
				}
			},
			teardown: func() { *flagInvertNormals = false },
		},
		{
			name:  "no slope flag",
			setup: func() { *flagNoSlope = true },
			verify: func(cfg *Config) {
				if cfg.Drawing.SlopeValidation {
					t.Error("expected slope validation disabled with flag")
				}
			},
			teardown: func() { *flagNoSlope = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "fieldplot.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldplot.yaml")
	if err := os.WriteFile(path, []byte("drawing:\n  circle_segments: 16\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("drawing:\n  circle_segments: 24\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-w.Updates():
			if cfg.Drawing.CircleSegments == 24 {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for config reload")
		}
	}
}
