package presenter

import (
	"testing"
	"time"

	"github.com/soocke/pose-smoother-go/domain/pose"
	"github.com/soocke/pose-smoother-go/domain/stream"
	"github.com/soocke/pose-smoother-go/ui/model"
)

type mockStateView struct {
	states, plays []string
}

func (v *mockStateView) SetStateLabel(s string) { v.states = append(v.states, s) }
func (v *mockStateView) SetPlayLabel(s string)  { v.plays = append(v.plays, s) }

func TestStreamPresenter_ReflectsLatestState(t *testing.T) {
	clock := &fakeClock{}
	m := stream.NewMachine(discardLogger, time.Second)
	view := &mockStateView{}
	p := NewStreamPresenter(m, view, clock.now)
	m.AddListener(p.OnState)
	var shown []stream.State
	p.OnShow = func(s stream.State) { shown = append(shown, s) }

	p.Tick(time.Now())
	if len(view.states) != 1 || view.states[0] != "State: idle" || view.plays[0] != "Play" {
		t.Fatalf("first tick should show the current state, got %v %v", view.states, view.plays)
	}
	p.Tick(time.Now())
	if len(view.states) != 1 {
		t.Fatalf("unchanged state should not update the view")
	}

	p.TogglePlay()
	p.TogglePlay()
	p.TogglePlay()
	p.Tick(time.Now())
	if got := view.states[len(view.states)-1]; got != "State: playing" {
		t.Fatalf("expected only the latest state, got %v", view.states)
	}
	if len(view.states) != 2 || view.plays[1] != "Pause" {
		t.Fatalf("expected one coalesced update, got %v %v", view.states, view.plays)
	}
	if len(shown) != 2 || shown[1] != stream.StatePlaying {
		t.Fatalf("OnShow should follow the view, got %v", shown)
	}
}

func TestStreamPresenter_Restart(t *testing.T) {
	clock := &fakeClock{}
	m := stream.NewMachine(discardLogger, time.Second)
	p := NewStreamPresenter(m, &mockStateView{}, clock.now)

	p.TogglePlay()
	clock.ms = 400
	m.Tick(clock.ms / 1000)
	if m.MediaTime() != 400*time.Millisecond {
		t.Fatalf("expected 400ms media time, got %v", m.MediaTime())
	}
	p.Restart()
	if m.Current() != stream.StatePlaying || m.MediaTime() != 0 || m.Restarts() != 2 {
		t.Fatalf("restart should replay from zero: state=%v media=%v restarts=%d", m.Current(), m.MediaTime(), m.Restarts())
	}
}

type mockSessionView struct {
	run, total time.Duration
	stats      pose.Stats
}

func (v *mockSessionView) SetSession(r, t time.Duration) { v.run, v.total = r, t }
func (v *mockSessionView) SetStats(st pose.Stats)        { v.stats = st }

func TestSessionPresenter_TracksPlayingTime(t *testing.T) {
	m := stream.NewMachine(discardLogger, 0)
	sess := model.NewSessionModel()
	sess.SetStats(pose.Stats{Admitted: 3})
	view := &mockSessionView{}
	p := NewSessionPresenter(sess, m, view)

	base := time.Unix(100, 0)
	m.Play(0)
	p.Tick(base)
	p.Tick(base.Add(2 * time.Second))
	m.Pause(2)
	p.Tick(base.Add(3 * time.Second))
	if view.run != 3*time.Second || view.total != 3*time.Second {
		t.Fatalf("unexpected durations run=%v total=%v", view.run, view.total)
	}
	if view.stats.Admitted != 3 {
		t.Fatalf("stats not forwarded")
	}
}

func TestLoop_TickOrder(t *testing.T) {
	var scheduled int
	l := NewLoop(nil, nil, nil, func() { scheduled++ })
	l.Tick()
	var nilLoop *Loop
	nilLoop.Tick()
	if scheduled != 1 {
		t.Fatalf("expected schedule once, got %d", scheduled)
	}
}

func TestLoop_EndOfStreamVisibleSameTick(t *testing.T) {
	clock := &fakeClock{}
	m := stream.NewMachine(discardLogger, 100*time.Millisecond)
	view := &mockStateView{}
	sp := NewStreamPresenter(m, view, clock.now)
	m.AddListener(sp.OnState)
	pp := NewPosePresenter(clock.now, m, nil, nil, nil, nil, nil, nil, nil)
	proc, err := pose.NewProcessor(pose.ProcessorConfig{TargetFPS: 10, Alpha: 1}, pose.DetectorFunc(walkingDetector), nil, nil, 0)
	if err != nil {
		t.Fatalf("processor: %v", err)
	}
	pp.SetProcessor(proc)
	l := NewLoop(nil, sp, pp, nil)

	m.Play(0)
	clock.ms = 250
	l.Tick()
	if got := view.states[len(view.states)-1]; got != "State: ended" {
		t.Fatalf("expected ended in the same tick, got %v", view.states)
	}
}
