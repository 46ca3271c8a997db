package config

import (
	"flag"
	"io"
)

// CLI holds the command-line options. Pipeline flags override the config
// only when given explicitly.
type CLI struct {
	ConfigPath string
	Headless   bool

	clip, db, plot, frames string
	fps, alpha             float64
	debug                  bool
	set                    map[string]bool
}

// ParseCLI parses args (without the program name). Usage and errors go to
// out.
func ParseCLI(args []string, out io.Writer) (CLI, error) {
	var c CLI
	fs := flag.NewFlagSet("pose-smoother", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&c.ConfigPath, "config", "pose_config.json", "config file (JSON)")
	fs.BoolVar(&c.Headless, "headless", false, "run without a window and exit when the clip ends")
	fs.StringVar(&c.clip, "clip", "", "landmark clip (JSON Lines); empty uses the embedded sample")
	fs.StringVar(&c.db, "db", "", "session database path; empty disables recording")
	fs.StringVar(&c.plot, "plot", "", "write a raw vs smoothed trajectory plot to this path")
	fs.StringVar(&c.frames, "frames", "", "write overlay frames as PNG into this directory (headless)")
	fs.Float64Var(&c.fps, "fps", 0, "target processing rate")
	fs.Float64Var(&c.alpha, "alpha", 0, "smoothing factor in (0,1]")
	fs.BoolVar(&c.debug, "debug", false, "debug logging and memory/goroutine loggers")
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	c.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { c.set[f.Name] = true })
	return c, nil
}

// Apply overrides cfg with the explicitly given flags and re-validates.
func (c CLI) Apply(cfg *Config) {
	if c.set["clip"] {
		cfg.ClipPath = c.clip
	}
	if c.set["db"] {
		cfg.DBPath = c.db
	}
	if c.set["plot"] {
		cfg.PlotPath = c.plot
	}
	if c.set["frames"] {
		cfg.FramesDir = c.frames
	}
	if c.set["fps"] {
		cfg.TargetFPS = c.fps
	}
	if c.set["alpha"] {
		cfg.Alpha = c.alpha
	}
	if c.set["debug"] {
		cfg.Debug = c.debug
	}
	_ = cfg.Validate()
}
