package model

import (
	"time"

	"github.com/soocke/pose-smoother-go/domain/pose"
)

// SessionModel tracks playing time across play/pause cycles and the latest
// processor stats. It is decoupled from the UI; presenters should poll
// Values() and update views. The zero value is ready to use.
type SessionModel struct {
	playing     bool
	runStart    time.Time
	lastRun     time.Duration
	accumulated time.Duration
	stats       pose.Stats
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model using the current playing state and timestamp.
// Call periodically (for example, from a presenter tick).
func (m *SessionModel) OnTick(playing bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case playing && !m.playing:
		m.playing = true
		m.runStart = now
		m.lastRun = 0
	case playing:
		m.lastRun = now.Sub(m.runStart)
	case m.playing:
		m.lastRun = now.Sub(m.runStart)
		m.accumulated += m.lastRun
		m.playing = false
	}
}

// Values returns the current run duration and the total playing time.
// The total includes the ongoing run.
func (m *SessionModel) Values() (run, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	total = m.accumulated
	if m.playing {
		total += m.lastRun
	}
	return m.lastRun, total
}

// SetStats stores the latest processor stats.
func (m *SessionModel) SetStats(st pose.Stats) {
	if m != nil {
		m.stats = st
	}
}

// Stats returns the stored processor stats.
func (m *SessionModel) Stats() pose.Stats {
	if m == nil {
		return pose.Stats{}
	}
	return m.stats
}
