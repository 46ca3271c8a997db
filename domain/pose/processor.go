package pose

import (
	"fmt"
	"log/slog"
	"time"
)

const statsLogInterval = 5 * time.Second

// ProcessorConfig holds the construction parameters of a Processor.
type ProcessorConfig struct {
	TargetFPS float64
	Alpha     float64
}

// Stats summarises processor activity since the last Reset.
type Stats struct {
	Ticks        uint64
	Admitted     uint64
	Rejected     uint64
	Empty        uint64
	DetectErrors uint64
	RenderErrors uint64
	SoftResets   uint64
	Resets       uint64
	Sequence     uint64
	Jitter       JitterStats
}

// AdmissionRate is the fraction of ticks admitted by the gate.
func (s Stats) AdmissionRate() float64 {
	if s.Ticks == 0 {
		return 0
	}
	return float64(s.Admitted) / float64(s.Ticks)
}

// Processor runs the per-frame pipeline: gate, detect, smooth, render.
// One processor serves one stream. Not safe for concurrent use; the host
// loop must call Process and Reset from a single goroutine.
type Processor struct {
	gate     *FrameGate
	smoother *LandmarkSmoother
	jitter   *JitterMonitor
	detector Detector
	renderer Renderer
	logger   *slog.Logger

	stats        Stats
	lastStatsLog float64
}

// NewProcessor builds a processor whose gate period starts at now (ms).
// renderer may be nil.
func NewProcessor(cfg ProcessorConfig, detector Detector, renderer Renderer, logger *slog.Logger, now float64) (*Processor, error) {
	if detector == nil {
		return nil, fmt.Errorf("processor: nil detector: %w", ErrInvalidInput)
	}
	gate, err := NewFrameGate(cfg.TargetFPS, now)
	if err != nil {
		return nil, err
	}
	smoother, err := NewLandmarkSmoother(cfg.Alpha)
	if err != nil {
		return nil, err
	}
	return &Processor{
		gate:         gate,
		smoother:     smoother,
		jitter:       NewJitterMonitor(),
		detector:     detector,
		renderer:     renderer,
		logger:       logger,
		lastStatsLog: now,
	}, nil
}

// Process handles one host tick. admitted reports the gate decision; res is
// only meaningful when admitted is true. Detector and renderer failures are
// returned after being counted; the processor stays usable.
func (p *Processor) Process(in FrameInput) (res Result, admitted bool, err error) {
	p.stats.Ticks++
	p.maybeLogStats(in.Timestamp)
	if !p.gate.ShouldAdmit(in.Timestamp) {
		p.stats.Rejected++
		return Result{}, false, nil
	}
	p.stats.Admitted++
	p.stats.Sequence++
	res = Result{Sequence: p.stats.Sequence, Input: in}

	raw, err := p.detector.Detect(in)
	if err != nil {
		p.stats.DetectErrors++
		return res, true, fmt.Errorf("detect: %w", err)
	}
	if len(raw) == 0 {
		// No pose this frame: the overlay is cleared, smoothing state kept.
		p.stats.Empty++
	} else {
		before := p.smoother.SoftResets()
		smoothed, err := p.smoother.Smooth(raw)
		if err != nil {
			return res, true, err
		}
		res.Raw = raw.Clone()
		res.Smoothed = smoothed
		if p.smoother.SoftResets() != before {
			res.SoftReset = true
			p.stats.SoftResets++
			if p.logger != nil {
				p.logger.Debug("pose.soft_reset", "sequence", res.Sequence, "landmarks", len(raw))
			}
		}
		p.jitter.Observe(res.Raw, res.Smoothed)
	}

	if p.renderer != nil {
		if err := p.renderer.Render(res); err != nil {
			p.stats.RenderErrors++
			return res, true, fmt.Errorf("render: %w", err)
		}
	}
	return res, true, nil
}

// Reset clears gate, smoother and statistics for a new stream starting at
// now (ms).
func (p *Processor) Reset(now float64) {
	resets := p.stats.Resets + 1
	p.gate.Reset(now)
	p.smoother.Reset()
	p.jitter.Reset()
	p.stats = Stats{Resets: resets}
	p.lastStatsLog = now
	if p.logger != nil {
		p.logger.Debug("pose.reset", "resets", resets)
	}
}

// Stats returns a snapshot of the counters.
func (p *Processor) Stats() Stats {
	st := p.stats
	st.Jitter = p.jitter.Stats()
	return st
}

// Gate exposes the frame gate for inspection.
func (p *Processor) Gate() *FrameGate { return p.gate }

// Smoother exposes the landmark smoother for inspection.
func (p *Processor) Smoother() *LandmarkSmoother { return p.smoother }

func (p *Processor) maybeLogStats(now float64) {
	if p.logger == nil || now-p.lastStatsLog < float64(statsLogInterval/time.Millisecond) {
		return
	}
	p.lastStatsLog = now
	st := p.Stats()
	p.logger.Debug("pose.stats",
		"ticks", st.Ticks,
		"admitted", st.Admitted,
		"admission_rate", st.AdmissionRate(),
		"soft_resets", st.SoftResets,
		"raw_jitter", st.Jitter.RawMean,
		"smooth_jitter", st.Jitter.SmoothMean,
	)
}
