// Package stream tracks the playback lifecycle of a landmark stream and owns
// its media clock.
package stream

import "time"

// State enumerates the playback states of a stream.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Listener is called on each successful state transition, on the goroutine
// that raised the event.
type Listener func(prev, next State)

// IsRestart reports whether a transition starts the stream from the
// beginning, which is when per-stream smoothing state must be dropped.
func IsRestart(prev, next State) bool {
	return next == StatePlaying && (prev == StateIdle || prev == StateEnded)
}

// Interface slices for consumers (presenters).
type StateSource interface {
	Current() State
	MediaTime() time.Duration
}
type Controls interface {
	Play(now float64)
	Pause(now float64)
	Stop()
}
type Clock interface {
	Tick(now float64) time.Duration
	End()
}

// Contract aggregate for DI.
type Contract interface {
	StateSource
	Controls
	Clock
	AddListener(Listener)
}
