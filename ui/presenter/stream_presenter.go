package presenter

import (
	"sync"
	"time"

	"github.com/soocke/pose-smoother-go/domain/pose"
	"github.com/soocke/pose-smoother-go/domain/stream"
)

// StreamControls is the part of the stream machine driven by the buttons.
type StreamControls interface {
	Current() stream.State
	Play(now float64)
	Pause(now float64)
	Stop()
}

// StateView sets the state label and play button caption in the view.
type StateView interface {
	SetStateLabel(string)
	SetPlayLabel(string)
}

// StreamPresenter reflects stream transitions in the view and handles the
// play/pause and restart buttons.
type StreamPresenter struct {
	eng   StreamControls
	view  StateView
	clock pose.Clock

	// OnShow, if set, runs after the view reflected a new state.
	OnShow func(stream.State)

	mu      sync.Mutex
	latest  stream.State // last reflected state
	pending []stream.State
	shown   bool
}

// NewStreamPresenter uses clock (ms) for button timestamps; nil selects the
// monotonic clock.
func NewStreamPresenter(eng StreamControls, view StateView, clock pose.Clock) *StreamPresenter {
	if clock == nil {
		clock = pose.MonotonicClock()
	}
	return &StreamPresenter{eng: eng, view: view, clock: clock}
}

// OnState queues a transitioned state from the stream listener.
//
// The latest queued state will be reflected on the next Tick.
func (p *StreamPresenter) OnState(prev, next stream.State) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, next)
	p.mu.Unlock()
}

// Tick processes queued states and updates the view with the most recent
// state. The first tick shows the current state.
func (p *StreamPresenter) Tick(now time.Time) {
	if p == nil || p.eng == nil || p.view == nil {
		return
	}
	// Read before taking p.mu: listeners take p.mu under the machine's lock.
	cur := p.eng.Current()
	p.mu.Lock()
	last := cur
	if n := len(p.pending); n > 0 {
		last = p.pending[n-1]
		p.pending = p.pending[:0]
	} else if p.shown {
		p.mu.Unlock()
		return
	}
	changed := !p.shown || last != p.latest
	p.latest, p.shown = last, true
	p.mu.Unlock()
	if !changed {
		return
	}

	p.view.SetStateLabel("State: " + last.String())
	if last == stream.StatePlaying {
		p.view.SetPlayLabel("Pause")
	} else {
		p.view.SetPlayLabel("Play")
	}
	if p.OnShow != nil {
		p.OnShow(last)
	}
}

// seconds converts the presenter clock to the stream machine's unit.
func (p *StreamPresenter) seconds() float64 {
	return p.clock() / 1000
}

// TogglePlay pauses a playing stream and plays otherwise.
func (p *StreamPresenter) TogglePlay() {
	if p == nil || p.eng == nil {
		return
	}
	if p.eng.Current() == stream.StatePlaying {
		p.eng.Pause(p.seconds())
		return
	}
	p.eng.Play(p.seconds())
}

// Restart plays the stream from the beginning.
func (p *StreamPresenter) Restart() {
	if p == nil || p.eng == nil {
		return
	}
	p.eng.Stop()
	p.eng.Play(p.seconds())
}
