// Package report collects landmark trajectories from processed frames and
// summarises how much jitter the smoother removed.
package report

import (
	"sync"
	"time"

	"github.com/soocke/pose-smoother-go/domain/pose"
)

// Sample is the tracked landmark in one admitted frame.
type Sample struct {
	Sequence  uint64
	MediaTime time.Duration
	Raw       pose.Landmark
	Smoothed  pose.Landmark
}

// Step is the mean displacement of the whole set between two consecutive
// admitted frames.
type Step struct {
	Raw      float64
	Smoothed float64
}

// Collector implements pose.Renderer. It records the trajectory of one
// landmark index and the per-frame displacement of every set. Safe for
// concurrent use.
type Collector struct {
	landmark int

	mu                  sync.Mutex
	samples             []Sample
	steps               []Step
	prevRaw, prevSmooth pose.LandmarkSet
}

// NewCollector tracks landmark index landmark; a negative index is treated
// as 0.
func NewCollector(landmark int) *Collector {
	if landmark < 0 {
		landmark = 0
	}
	return &Collector{landmark: landmark}
}

func (c *Collector) Render(res pose.Result) error {
	if !res.Found() || len(res.Raw) != len(res.Smoothed) {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.landmark < len(res.Smoothed) {
		c.samples = append(c.samples, Sample{
			Sequence:  res.Sequence,
			MediaTime: res.Input.MediaTime,
			Raw:       res.Raw[c.landmark],
			Smoothed:  res.Smoothed[c.landmark],
		})
	}
	if !res.SoftReset && len(c.prevRaw) == len(res.Raw) {
		c.steps = append(c.steps, Step{
			Raw:      pose.MeanDisplacement(c.prevRaw, res.Raw),
			Smoothed: pose.MeanDisplacement(c.prevSmooth, res.Smoothed),
		})
	}
	c.prevRaw = res.Raw.Clone()
	c.prevSmooth = res.Smoothed.Clone()
	return nil
}

// Break stops displacement pairing across a stream restart. Collected data
// is kept.
func (c *Collector) Break() {
	c.mu.Lock()
	c.prevRaw, c.prevSmooth = nil, nil
	c.mu.Unlock()
}

// Landmark returns the tracked index.
func (c *Collector) Landmark() int { return c.landmark }

// Samples returns a copy of the trajectory.
func (c *Collector) Samples() []Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Sample(nil), c.samples...)
}

// Steps returns a copy of the displacement series.
func (c *Collector) Steps() []Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Step(nil), c.steps...)
}

// Summary summarises everything collected so far.
func (c *Collector) Summary() Summary {
	return Summarize(c.Steps())
}

var _ pose.Renderer = (*Collector)(nil)
