package stream

import (
	"log/slog"
	"math"
	"sync"
	"time"
)

// Machine coordinates playback transitions and the media clock. It is
// concurrency-safe; listeners run synchronously while the lock is held, so
// they must not call back into the machine.
type Machine struct {
	mu        sync.Mutex
	state     State
	logger    *slog.Logger
	listeners []Listener

	duration  time.Duration // zero means unbounded
	mediaTime time.Duration
	lastTick  float64 // host clock at the last media clock advance
	restarts  int
}

// NewMachine returns a machine in StateIdle for a stream of the given
// duration. A zero duration never ends on its own.
func NewMachine(logger *slog.Logger, duration time.Duration) *Machine {
	if duration < 0 {
		duration = 0
	}
	return &Machine{state: StateIdle, logger: logger, duration: duration}
}

// AddListener registers a listener for state transitions.
func (m *Machine) AddListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// MediaTime returns the position within the stream.
func (m *Machine) MediaTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mediaTime
}

// Duration returns the stream length, zero if unbounded.
func (m *Machine) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

// SetDuration replaces the stream length, e.g. after a new clip is loaded.
func (m *Machine) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	m.duration = d
}

// Restarts counts transitions that started the stream from the beginning.
func (m *Machine) Restarts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restarts
}

func (m *Machine) transition(next State) {
	prev := m.state
	if prev == next {
		return
	}
	if IsRestart(prev, next) {
		m.mediaTime = 0
		m.restarts++
	}
	m.state = next
	if m.logger != nil {
		m.logger.Debug("stream state transition", "from", prev.String(), "to", next.String(), "media_ms", m.mediaTime.Milliseconds())
	}
	for _, l := range m.listeners {
		l(prev, next)
	}
}

// advance moves the media clock to host time now. Host time running
// backwards is ignored.
func (m *Machine) advance(now float64) {
	dt := now - m.lastTick
	m.lastTick = now
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return
	}
	m.mediaTime += time.Duration(dt * float64(time.Second))
}

// Play starts or resumes playback at host time now (seconds). Playing from
// idle or ended restarts the stream at media time zero.
func (m *Machine) Play(now float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StatePlaying {
		return
	}
	m.lastTick = now
	m.transition(StatePlaying)
}

// Pause freezes the media clock at host time now.
func (m *Machine) Pause(now float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StatePlaying {
		return
	}
	m.advance(now)
	m.transition(StatePaused)
}

// End marks the stream finished.
func (m *Machine) End() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StatePlaying || m.state == StatePaused {
		m.transition(StateEnded)
	}
}

// Stop returns to idle and rewinds the media clock.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mediaTime = 0
	m.transition(StateIdle)
}

// Tick should be called from the host loop. While playing it advances the
// media clock and ends the stream once the duration is passed. It returns
// the current media time.
func (m *Machine) Tick(now float64) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StatePlaying {
		return m.mediaTime
	}
	m.advance(now)
	if m.duration > 0 && m.mediaTime > m.duration {
		m.mediaTime = m.duration
		m.transition(StateEnded)
	}
	return m.mediaTime
}

var _ Contract = (*Machine)(nil)
