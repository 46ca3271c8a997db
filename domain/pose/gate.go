package pose

import (
	"fmt"
	"math"
	"time"
)

// periodTolerance absorbs rounding when 1000/fps is not exact in float64, so
// ticks spaced exactly one period apart are always admitted.
const periodTolerance = 1e-9

// FrameGate throttles a stream of frame-ready ticks down to a target rate.
// Not safe for concurrent use; call ShouldAdmit from a single goroutine.
type FrameGate struct {
	targetFPS    float64
	framePeriod  float64 // ms
	lastAdmitted float64 // ms
}

// NewFrameGate returns a gate targeting targetFPS whose first period starts
// at now (milliseconds).
func NewFrameGate(targetFPS, now float64) (*FrameGate, error) {
	if targetFPS <= 0 || math.IsNaN(targetFPS) || math.IsInf(targetFPS, 0) {
		return nil, fmt.Errorf("frame gate: target fps %v: %w", targetFPS, ErrInvalidInput)
	}
	return &FrameGate{
		targetFPS:    targetFPS,
		framePeriod:  1000 / targetFPS,
		lastAdmitted: now,
	}, nil
}

// ShouldAdmit reports whether the frame at now should be processed. On
// admission the overshoot past the period boundary is carried forward so the
// long-run admission rate converges to the target even when the host tick is
// not a multiple of the period.
func (g *FrameGate) ShouldAdmit(now float64) bool {
	elapsed := now - g.lastAdmitted
	if elapsed < g.framePeriod*(1-periodTolerance) {
		return false
	}
	periods := math.Floor(elapsed/g.framePeriod + periodTolerance)
	overshoot := max(elapsed-periods*g.framePeriod, 0)
	g.lastAdmitted = now - overshoot
	return true
}

// Reset starts a new period at now.
func (g *FrameGate) Reset(now float64) { g.lastAdmitted = now }

// FramePeriod returns the admission period in milliseconds.
func (g *FrameGate) FramePeriod() float64 { return g.framePeriod }

// TargetFPS returns the configured rate.
func (g *FrameGate) TargetFPS() float64 { return g.targetFPS }

// LastAdmitted returns the period boundary of the last admission, in ms.
func (g *FrameGate) LastAdmitted() float64 { return g.lastAdmitted }

// Clock returns the current time in milliseconds.
type Clock func() float64

// MonotonicClock returns a Clock measuring milliseconds since the call,
// backed by the runtime's monotonic reading.
func MonotonicClock() Clock {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start)) / float64(time.Millisecond)
	}
}
