package config

import (
	"encoding/json"
	"os"
)

// Config holds runtime configuration for the pose pipeline and viewer.
// Fields may be loaded from a JSON file, then overridden by POSE_* environment
// variables and finally by command-line flags.
type Config struct {
	Debug bool `json:"debug" env:"POSE_DEBUG"`

	// Pipeline parameters
	TargetFPS     float64 `json:"target_fps" env:"POSE_TARGET_FPS"`
	Alpha         float64 `json:"alpha" env:"POSE_ALPHA"`
	MinVisibility float64 `json:"min_visibility" env:"POSE_MIN_VISIBILITY"`
	Mirror        bool    `json:"mirror" env:"POSE_MIRROR"`
	HostTickMs    int     `json:"host_tick_ms" env:"POSE_HOST_TICK_MS"`

	// Overlay canvas
	CanvasWidth  int `json:"canvas_width" env:"POSE_CANVAS_WIDTH"`
	CanvasHeight int `json:"canvas_height" env:"POSE_CANVAS_HEIGHT"`

	// Inputs and outputs
	ClipPath     string `json:"clip_path" env:"POSE_CLIP"`
	DBPath       string `json:"db_path" env:"POSE_DB"`
	PlotPath     string `json:"plot_path" env:"POSE_PLOT"`
	FramesDir    string `json:"frames_dir" env:"POSE_FRAMES_DIR"`
	PlotLandmark int    `json:"plot_landmark" env:"POSE_PLOT_LANDMARK"`

	// Screen capture of the region the video plays in
	CaptureEnabled bool `json:"capture_enabled" env:"POSE_CAPTURE"`
	SelectionX     int  `json:"selection_x"`
	SelectionY     int  `json:"selection_y"`
	SelectionW     int  `json:"selection_w"`
	SelectionH     int  `json:"selection_h"`
}

const (
	defaultTargetFPS     = 10.0
	defaultAlpha         = 0.5
	defaultMinVisibility = 0.5
	defaultHostTickMs    = 16
	defaultCanvasWidth   = 640
	defaultCanvasHeight  = 480
)

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:          false,
		TargetFPS:      defaultTargetFPS,
		Alpha:          defaultAlpha,
		MinVisibility:  defaultMinVisibility,
		Mirror:         false,
		HostTickMs:     defaultHostTickMs,
		CanvasWidth:    defaultCanvasWidth,
		CanvasHeight:   defaultCanvasHeight,
		DBPath:         "pose_sessions.db",
		PlotLandmark:   0,
		CaptureEnabled: false,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if !(c.TargetFPS > 0) || c.TargetFPS > 240 {
		c.TargetFPS = defaultTargetFPS
	}
	if !(c.Alpha > 0 && c.Alpha <= 1) {
		c.Alpha = defaultAlpha
	}
	if !(c.MinVisibility >= 0 && c.MinVisibility <= 1) {
		c.MinVisibility = defaultMinVisibility
	}
	if c.HostTickMs <= 0 {
		c.HostTickMs = defaultHostTickMs
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		c.CanvasWidth, c.CanvasHeight = defaultCanvasWidth, defaultCanvasHeight
	}
	if c.PlotLandmark < 0 {
		c.PlotLandmark = 0
	}
	if c.SelectionW < 0 || c.SelectionH < 0 {
		c.SelectionW, c.SelectionH = 0, 0
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
// Environment overrides are applied after the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		f, err := os.Open(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, err
		}
		if err == nil {
			defer f.Close()
			if err := json.NewDecoder(f).Decode(cfg); err != nil {
				return DefaultConfig(), err
			}
		}
	}
	if err := ApplyEnv(cfg); err != nil {
		return cfg, err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if path == "" {
		return nil
	}
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
