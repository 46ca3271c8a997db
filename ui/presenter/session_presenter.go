package presenter

import (
	"time"

	"github.com/soocke/pose-smoother-go/domain/pose"
	"github.com/soocke/pose-smoother-go/domain/stream"
	"github.com/soocke/pose-smoother-go/ui/model"
)

// PlayingSource reports the stream state.
type PlayingSource interface{ Current() stream.State }

// SessionView displays formatted durations and processor stats.
type SessionView interface {
	SetSession(run, total time.Duration)
	SetStats(st pose.Stats)
}

// SessionPresenter formats playing time and pipeline stats from the model to the view.
type SessionPresenter struct {
	sess   *model.SessionModel
	stream PlayingSource
	view   SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, stream PlayingSource, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, stream: stream, view: view}
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.stream == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.stream.Current() == stream.StatePlaying, now)
	r, t := p.sess.Values()
	p.view.SetSession(r, t)
	p.view.SetStats(p.sess.Stats())
}
