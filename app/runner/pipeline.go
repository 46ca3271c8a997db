// Package runner assembles the pose pipeline from a config and drives it
// without a window.
package runner

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/soocke/pose-smoother-go/assets"
	"github.com/soocke/pose-smoother-go/config"
	"github.com/soocke/pose-smoother-go/domain/pose"
	"github.com/soocke/pose-smoother-go/domain/stream"
	"github.com/soocke/pose-smoother-go/report"
	"github.com/soocke/pose-smoother-go/source"
	"github.com/soocke/pose-smoother-go/storage"
	"github.com/soocke/pose-smoother-go/ui/images"
)

// Pipeline holds everything a run shares between processor rebuilds: the
// clip, the stream, the overlay geometry and the recording renderers.
type Pipeline struct {
	Config    *config.Config
	Logger    *slog.Logger
	Clip      *source.Clip
	Stream    *stream.Machine
	Overlay   *images.Overlay
	Collector *report.Collector
	DB        *storage.DB       // nil when no db_path is configured
	Recorder  *storage.Recorder // nil when DB is nil
}

// Build loads the configured clip (or the embedded sample) and opens the
// session database.
func Build(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	clip, err := loadClip(cfg.ClipPath)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		Config:    cfg,
		Logger:    logger,
		Clip:      clip,
		Stream:    stream.NewMachine(logger, clip.Duration()),
		Overlay:   images.NewOverlay(cfg.CanvasWidth, cfg.CanvasHeight, cfg.MinVisibility),
		Collector: report.NewCollector(cfg.PlotLandmark),
	}
	if cfg.DBPath != "" {
		db, err := storage.Open(cfg.DBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("open db %s: %w", cfg.DBPath, err)
		}
		p.DB = db
		p.Recorder = storage.NewRecorder(db)
	}
	p.Stream.AddListener(p.onStream)
	if logger != nil {
		logger.Info("clip loaded", "clip", clip.Name, "frames", len(clip.Frames), "duration", clip.Duration().String())
	}
	return p, nil
}

func loadClip(path string) (*source.Clip, error) {
	if path == "" {
		return assets.SampleClip()
	}
	return source.OpenClip(path)
}

// NewProcessor builds a processor for cfg whose renderers are front followed
// by the recorder and collector. The detector honours cfg.Mirror and the
// overlay picks up cfg.MinVisibility. Sequence numbers restart with every
// processor, so a session already open on the recorder is finished and a new
// one begun under cfg.
func (p *Pipeline) NewProcessor(cfg config.Config, front pose.Renderers, now float64) (*pose.Processor, error) {
	renderers := append(pose.Renderers{}, front...)
	if p.Recorder != nil {
		renderers = append(renderers, p.Recorder)
	}
	renderers = append(renderers, p.Collector)
	proc, err := pose.NewProcessor(
		pose.ProcessorConfig{TargetFPS: cfg.TargetFPS, Alpha: cfg.Alpha},
		source.NewClipDetector(p.Clip, cfg.Mirror),
		renderers,
		p.Logger,
		now,
	)
	if err != nil {
		return nil, err
	}
	p.Overlay.MinVisibility = cfg.MinVisibility
	if p.Recorder != nil && p.Recorder.SessionID() != "" {
		p.Collector.Break()
		p.beginSession(cfg)
	}
	return proc, nil
}

func (p *Pipeline) beginSession(cfg config.Config) {
	id, err := p.Recorder.Begin(storage.SessionInfo{Clip: p.Clip.Name, TargetFPS: cfg.TargetFPS, Alpha: cfg.Alpha})
	if err != nil {
		p.logError("session begin", err)
	} else if p.Logger != nil {
		p.Logger.Info("session started", "session", id)
	}
}

// onStream opens a recording session per run and closes it when the run
// stops or ends.
func (p *Pipeline) onStream(prev, next stream.State) {
	if stream.IsRestart(prev, next) {
		p.Collector.Break()
		if p.Recorder != nil {
			p.beginSession(*p.Config)
		}
		return
	}
	if next == stream.StateEnded || (next == stream.StateIdle && prev != stream.StateIdle) {
		if p.Recorder != nil {
			if err := p.Recorder.Finish(); err != nil {
				p.logError("session finish", err)
			}
		}
	}
}

func (p *Pipeline) logError(msg string, err error) {
	if p.Logger != nil {
		p.Logger.Error(msg, "error", err)
	}
}

// Close finishes the open session and closes the database.
func (p *Pipeline) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	return errors.Join(p.Recorder.Finish(), p.DB.Close())
}
