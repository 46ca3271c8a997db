package capture

import (
	"image"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

const (
	captureStatsLogInterval = 5 * time.Second
	// DefaultInterval paces grabs; background frames only need to keep up
	// with the overlay, not with the host tick.
	DefaultInterval = 100 * time.Millisecond
	errorBackoff    = 250 * time.Millisecond
)

// CaptureService acquires image frames (selection or full screen) and exposes the
// latest capture alongside instrumentation data. Use NewCaptureService to
// construct an instance.
//
// A snapshot returned by LatestFrame stays valid until two newer frames have
// been published; after that its buffer is reused.
type CaptureService interface {
	Start()
	Stop()
	LatestFrame() FrameSnapshot
	Running() bool
	SetSelectionProvider(func() *image.Rectangle)
	Stats() CaptureStats
}

type captureService struct {
	running  atomic.Bool
	latest   atomic.Pointer[FrameSnapshot]
	retired  *image.RGBA // previous frame, recycled on the next publish
	selMu    sync.RWMutex
	selFn    func() *image.Rectangle // user selection rectangle (optional)
	grabber  Grabber
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	stop chan struct{}
	done chan struct{}

	captures     atomic.Uint64
	skipped      atomic.Uint64
	errors       atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
}

// NewCaptureService constructs a capture service grabbing with g every
// interval. A nil grabber uses the screen; a non-positive interval uses
// DefaultInterval.
func NewCaptureService(logger *slog.Logger, g Grabber, interval time.Duration, selectionFn func() *image.Rectangle) CaptureService {
	return newCaptureService(logger, g, interval, selectionFn)
}

func newCaptureService(logger *slog.Logger, g Grabber, interval time.Duration, selectionFn func() *image.Rectangle) *captureService {
	if g == nil {
		g = ScreenGrabber{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &captureService{selFn: selectionFn, grabber: g, interval: interval, logger: logger, now: time.Now}
}

func (s *captureService) SetSelectionProvider(fn func() *image.Rectangle) {
	s.selMu.Lock()
	s.selFn = fn
	s.selMu.Unlock()
}

func (s *captureService) selection() *image.Rectangle {
	s.selMu.RLock()
	fn := s.selFn
	s.selMu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn()
}

func (s *captureService) LatestFrame() FrameSnapshot {
	snap := s.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

func (s *captureService) Running() bool { return s.running.Load() }

func (s *captureService) Stats() CaptureStats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	snapshot := s.LatestFrame()
	age := time.Duration(0)
	if !snapshot.CapturedAt.IsZero() {
		age = s.now().Sub(snapshot.CapturedAt)
	}
	return CaptureStats{
		Captures:         captures,
		Skipped:          s.skipped.Load(),
		Errors:           s.errors.Load(),
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      snapshot.CapturedAt,
		LatestFrameAge:   age,
		Sequence:         snapshot.Sequence,
	}
}

func (s *captureService) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
}

// Stop halts the loop and waits for the in-flight grab to finish. The last
// published frame stays available.
func (s *captureService) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	close(s.stop)
	<-s.done
}

func (s *captureService) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			s.running.Store(false)
			if s.logger != nil {
				s.logger.Error("capture loop panic", "error", r, "stack", string(debug.Stack()))
			}
		}
	}()
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()
	for {
		wait := s.interval
		if !s.captureOnce() {
			wait = errorBackoff
		}
		select {
		case <-stop:
			return
		case <-logTicker.C:
			s.logStats()
		case <-time.After(wait):
		}
	}
}

// captureOnce grabs the selection, or the full screen when no usable
// selection is set, and publishes it. It reports whether a frame was
// published.
func (s *captureService) captureOnce() bool {
	start := s.now()
	var img *image.RGBA

	if r := s.selection(); r != nil && !r.Empty() {
		if out, err := s.grabber.GrabRect(*r); err == nil {
			img = out
		} else {
			s.errors.Add(1)
			if s.logger != nil {
				s.logger.Error("capture selection", "error", err)
			}
		}
	}

	if img == nil {
		if full, err := s.grabber.Grab(); err != nil {
			s.errors.Add(1)
			if s.logger != nil {
				s.logger.Error("capture full", "error", err)
			}
		} else {
			img = full
		}
	}

	if img == nil || img.Bounds().Empty() {
		s.skipped.Add(1)
		return false
	}

	frame := copyFrame(img)
	elapsed := s.now().Sub(start)
	s.captureNanos.Add(uint64(elapsed.Nanoseconds()))
	s.captures.Add(1)
	s.publish(frame)
	return true
}

func (s *captureService) publish(frame *image.RGBA) {
	seq := s.sequence.Add(1)
	prev := s.latest.Swap(&FrameSnapshot{Image: frame, CapturedAt: s.now(), Sequence: seq})
	// publish runs on the loop goroutine only, so retired needs no lock.
	RecycleFrame(s.retired)
	s.retired = nil
	if prev != nil {
		s.retired = prev.Image
	}
}

func (s *captureService) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"avg_capture", stats.AvgCapture,
		"age", stats.LatestFrameAge,
	)
}
