package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/soocke/pose-smoother-go/domain/pose"
	"github.com/soocke/pose-smoother-go/domain/stream"
	"github.com/soocke/pose-smoother-go/report"
	"github.com/soocke/pose-smoother-go/ui/images"
)

// headlessRun drives one playback of the clip without a window.
type headlessRun struct {
	p      *Pipeline
	proc   *pose.Processor
	frames *images.PNGRenderer
	errors int
}

func newHeadlessRun(p *Pipeline, now float64) (*headlessRun, error) {
	h := &headlessRun{p: p}
	var front pose.Renderers
	if dir := p.Config.FramesDir; dir != "" {
		r, err := images.NewPNGRenderer(dir, p.Overlay)
		if err != nil {
			return nil, err
		}
		h.frames = r
		front = append(front, r)
	}
	proc, err := p.NewProcessor(*p.Config, front, now)
	if err != nil {
		return nil, err
	}
	h.proc = proc
	return h, nil
}

// step advances the stream to now (host ms) and processes one tick. It
// reports false once the stream has left the playing state.
func (h *headlessRun) step(now float64) bool {
	media := h.p.Stream.Tick(now / 1000)
	if h.p.Stream.Current() != stream.StatePlaying {
		return false
	}
	if _, _, err := h.proc.Process(pose.FrameInput{Timestamp: now, MediaTime: media}); err != nil {
		h.errors++
		if h.p.Logger != nil && h.errors <= 10 {
			h.p.Logger.Warn("pose pipeline", "error", err, "count", h.errors)
		}
	}
	return true
}

// finish stops an unfinished stream, logs the run and writes the plot.
func (h *headlessRun) finish() (report.Summary, error) {
	if h.p.Stream.Current() != stream.StateEnded {
		h.p.Stream.Stop()
	}
	summary := h.p.Collector.Summary()
	if l := h.p.Logger; l != nil {
		st := h.proc.Stats()
		l.Info("run finished",
			"ticks", st.Ticks,
			"admitted", st.Admitted,
			"soft_resets", st.SoftResets,
			"errors", h.errors,
			"media", h.p.Stream.MediaTime().String(),
		)
		if h.frames != nil {
			l.Info("frames written", "dir", h.frames.Dir, "count", h.frames.Written())
		}
		l.Info("jitter summary", summary.LogAttrs()...)
	}
	if path := h.p.Config.PlotPath; path != "" {
		if err := report.Plot(h.p.Collector.Samples(), h.p.Collector.Landmark(), path); err != nil {
			return summary, fmt.Errorf("plot: %w", err)
		}
		if h.p.Logger != nil {
			h.p.Logger.Info("plot written", "path", path)
		}
	}
	return summary, nil
}

// RunHeadless plays the clip once on a host_tick_ms ticker until it ends or
// ctx is cancelled, then writes the configured outputs. Cancellation is a
// normal way to stop and is not reported as an error.
func RunHeadless(ctx context.Context, p *Pipeline) (report.Summary, error) {
	clock := pose.MonotonicClock()
	h, err := newHeadlessRun(p, clock())
	if err != nil {
		return report.Summary{}, err
	}
	tick := time.Duration(p.Config.HostTickMs) * time.Millisecond
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	p.Stream.Play(clock() / 1000)
	if p.Logger != nil {
		p.Logger.Info("headless run started", "tick", tick.String(), "target_fps", p.Config.TargetFPS, "alpha", p.Config.Alpha)
	}
loop:
	for {
		select {
		case <-ctx.Done():
			if p.Logger != nil {
				p.Logger.Info("headless run interrupted")
			}
			break loop
		case <-ticker.C:
			if !h.step(clock()) {
				break loop
			}
		}
	}
	return h.finish()
}
