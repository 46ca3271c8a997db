package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It ticks the sub-presenters, runs the pose pipeline once and invokes a
// scheduler callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Session  *SessionPresenter
	Stream   *StreamPresenter
	Pose     *PosePresenter
	Schedule func()
}

func NewLoop(sess *SessionPresenter, stream *StreamPresenter, pose *PosePresenter, schedule func()) *Loop {
	return &Loop{Session: sess, Stream: stream, Pose: pose, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	// The pose presenter advances the media clock, so it runs before the
	// label presenters to let them reflect an end of stream in this tick.
	if l.Pose != nil {
		l.Pose.ProcessFrame()
	}
	if l.Stream != nil {
		l.Stream.Tick(now)
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
