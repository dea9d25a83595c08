// Package config handles fieldplot configuration loading and management.
package config

import "time"

// Config holds all application settings.
type Config struct {
	Drawing  DrawingConfig  `yaml:"drawing" toml:"drawing"`
	Terrain  TerrainConfig  `yaml:"terrain" toml:"terrain"`
	Graphics GraphicsConfig `yaml:"graphics" toml:"graphics"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// DrawingConfig holds the shape drawing and mesh generation settings.
type DrawingConfig struct {
	GroundLayer          string   `yaml:"ground_layer" toml:"ground_layer"`                 // Layer ground rays are filtered to
	GroundOffset         float32  `yaml:"ground_offset" toml:"ground_offset"`               // Lift above the hit surface
	MaxSlopeAngleDeg     float32  `yaml:"max_slope_angle_deg" toml:"max_slope_angle_deg"`   // Steepest placement allowed
	SlopeValidation      bool     `yaml:"slope_validation" toml:"slope_validation"`         // Reject box/circle placements on steep ground
	CircleSegments       int      `yaml:"circle_segments" toml:"circle_segments"`           // Rim vertices of a circle (>= 8)
	CurveSegmentsPerSpan int      `yaml:"curve_segments_per_span" toml:"curve_segments_per_span"`
	InnerLoopScale       float32  `yaml:"inner_loop_scale" toml:"inner_loop_scale"`         // (0,1]
	InnermostLoopScale   float32  `yaml:"innermost_loop_scale" toml:"innermost_loop_scale"` // [0,inner)
	InvertNormals        bool     `yaml:"invert_normals" toml:"invert_normals"`
	MakeColliderConvex   bool     `yaml:"make_collider_convex" toml:"make_collider_convex"`
	CastHeight           float32  `yaml:"cast_height" toml:"cast_height"`             // World height ground rays start from
	MaxCastDistance      float32  `yaml:"max_cast_distance" toml:"max_cast_distance"` // Ray length
	InvalidFeedbackDelay Duration `yaml:"invalid_feedback_delay" toml:"invalid_feedback_delay"`
}

// TerrainConfig describes the generated terrain fields are drawn on.
type TerrainConfig struct {
	SizeX         float32 `yaml:"size_x" toml:"size_x"`
	SizeZ         float32 `yaml:"size_z" toml:"size_z"`
	CellSize      float32 `yaml:"cell_size" toml:"cell_size"`
	HillHeight    float32 `yaml:"hill_height" toml:"hill_height"` // 0 gives flat ground
	HillFrequency float32 `yaml:"hill_frequency" toml:"hill_frequency"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width            int     `yaml:"width" toml:"width"`
	Height           int     `yaml:"height" toml:"height"`
	Fullscreen       bool    `yaml:"fullscreen" toml:"fullscreen"`
	VSync            bool    `yaml:"vsync" toml:"vsync"`
	FOV              float32 `yaml:"fov" toml:"fov"`                             // Vertical field of view in degrees
	ScreenshotFormat string  `yaml:"screenshot_format" toml:"screenshot_format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Drawing: DrawingConfig{
			GroundLayer:          "ground",
			GroundOffset:         0.05,
			MaxSlopeAngleDeg:     30,
			SlopeValidation:      true,
			CircleSegments:       32,
			CurveSegmentsPerSpan: 10,
			InnerLoopScale:       0.8,
			InnermostLoopScale:   0.5,
			InvertNormals:        false,
			MakeColliderConvex:   false,
			CastHeight:           500,
			MaxCastDistance:      1000,
			InvalidFeedbackDelay: Duration(1500 * time.Millisecond),
		},
		Terrain: TerrainConfig{
			SizeX:         256,
			SizeZ:         256,
			CellSize:      2,
			HillHeight:    6,
			HillFrequency: 0.025,
		},
		Graphics: GraphicsConfig{
			Width:            1280,
			Height:           720,
			Fullscreen:       false,
			VSync:            true,
			FOV:              60,
			ScreenshotFormat: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Duration is a time.Duration that reads and writes as a string like "1.5s".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
