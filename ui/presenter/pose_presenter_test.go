package presenter

import (
	"errors"
	"image"
	"log/slog"
	"testing"
	"time"

	"github.com/soocke/pose-smoother-go/domain/capture"
	"github.com/soocke/pose-smoother-go/domain/pose"
	"github.com/soocke/pose-smoother-go/domain/stream"
	"github.com/soocke/pose-smoother-go/ui/images"
	"github.com/soocke/pose-smoother-go/ui/model"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// fakeClock is a manually advanced millisecond clock.
type fakeClock struct{ ms float64 }

func (c *fakeClock) now() float64 { return c.ms }

type mockPoseView struct {
	overlays, details int
	lastDetail        image.Image
}

func (v *mockPoseView) UpdateOverlay(img image.Image) { v.overlays++ }
func (v *mockPoseView) UpdateDetail(img image.Image)  { v.details++; v.lastDetail = img }

type mockFrames struct {
	running bool
	snap    capture.FrameSnapshot
}

func (f *mockFrames) Running() bool                      { return f.running }
func (f *mockFrames) LatestFrame() capture.FrameSnapshot { return f.snap }

// walkingDetector returns a single landmark moving right with media time.
func walkingDetector(in pose.FrameInput) (pose.LandmarkSet, error) {
	x := 0.1 + in.MediaTime.Seconds()/10
	return pose.LandmarkSet{{X: x, Y: 0.5, Visibility: 1}}, nil
}

type fixture struct {
	clock   *fakeClock
	machine *stream.Machine
	view    *mockPoseView
	model   *model.OverlayModel
	sess    *model.SessionModel
	pres    *PosePresenter
	proc    *pose.Processor
}

func newFixture(t *testing.T, detector pose.Detector) *fixture {
	t.Helper()
	f := &fixture{
		clock:   &fakeClock{},
		machine: stream.NewMachine(discardLogger, 10*time.Second),
		view:    &mockPoseView{},
		model:   model.NewOverlayModel(),
		sess:    model.NewSessionModel(),
	}
	f.pres = NewPosePresenter(f.clock.now, f.machine, nil, nil, images.NewOverlay(100, 100, 0.5), f.model, f.sess, f.view, discardLogger)
	proc, err := pose.NewProcessor(pose.ProcessorConfig{TargetFPS: 10, Alpha: 0.5}, detector, f.pres, discardLogger, f.clock.now())
	if err != nil {
		t.Fatalf("processor: %v", err)
	}
	f.proc = proc
	f.pres.SetProcessor(proc)
	f.machine.AddListener(f.pres.OnStream)
	return f
}

// run advances the clock in 25 ms host ticks for the given duration.
func (f *fixture) run(d time.Duration) {
	steps := int(d / (25 * time.Millisecond))
	for i := 0; i < steps; i++ {
		f.clock.ms += 25
		f.pres.ProcessFrame()
	}
}

func TestPosePresenter_IdleDoesNothing(t *testing.T) {
	f := newFixture(t, pose.DetectorFunc(walkingDetector))
	f.run(time.Second)
	if st := f.proc.Stats(); st.Ticks != 0 || f.view.overlays != 0 {
		t.Fatalf("idle stream should not process: ticks=%d overlays=%d", st.Ticks, f.view.overlays)
	}
}

func TestPosePresenter_GatesToTargetRate(t *testing.T) {
	f := newFixture(t, pose.DetectorFunc(walkingDetector))
	f.machine.Play(f.clock.now() / 1000)
	f.run(time.Second)

	st := f.proc.Stats()
	if st.Ticks != 40 {
		t.Fatalf("expected 40 ticks, got %d", st.Ticks)
	}
	if st.Admitted != 10 {
		t.Fatalf("expected 10 admitted frames at 10 fps, got %d", st.Admitted)
	}
	if f.view.overlays != 10 || f.view.details != 10 {
		t.Fatalf("expected a render per admitted frame, got overlays=%d details=%d", f.view.overlays, f.view.details)
	}
	if f.view.lastDetail == nil {
		t.Fatalf("visible pose should produce a detail crop")
	}
	if f.sess.Stats().Admitted != 10 {
		t.Fatalf("session stats not updated")
	}
	res, ok := f.model.Result()
	if !ok || !res.Found() {
		t.Fatalf("model should hold the last admitted result")
	}
	// The smoothed point lags the raw one while moving right.
	if res.Smoothed[0].X >= res.Raw[0].X {
		t.Fatalf("expected smoothed lag, raw=%v smoothed=%v", res.Raw[0].X, res.Smoothed[0].X)
	}
}

func TestPosePresenter_RestartResetsProcessor(t *testing.T) {
	f := newFixture(t, pose.DetectorFunc(walkingDetector))
	restarts := 0
	f.pres.OnRestart = append(f.pres.OnRestart, func() { restarts++ })

	f.machine.Play(f.clock.now() / 1000)
	f.run(500 * time.Millisecond)
	if f.proc.Stats().Admitted == 0 {
		t.Fatalf("expected admitted frames before restart")
	}

	f.machine.Stop()
	f.machine.Play(f.clock.now() / 1000)
	st := f.proc.Stats()
	if st.Ticks != 0 || st.Admitted != 0 || st.Resets != 2 {
		t.Fatalf("restart should reset the processor, got %+v", st)
	}
	if restarts != 2 {
		t.Fatalf("expected restart hooks on both plays, got %d", restarts)
	}
	if f.proc.Smoother().Previous() != nil {
		t.Fatalf("smoother state should be dropped on restart")
	}
	if _, ok := f.model.Result(); ok {
		t.Fatalf("overlay model should be cleared on restart")
	}

	// The first admitted frame after restart is emitted unchanged.
	f.run(100 * time.Millisecond)
	res, ok := f.model.Result()
	if !ok || res.Smoothed[0] != res.Raw[0] {
		t.Fatalf("first frame after restart should equal raw, got %+v", res)
	}
}

func TestPosePresenter_PauseResumeKeepsSmoothing(t *testing.T) {
	f := newFixture(t, pose.DetectorFunc(walkingDetector))
	f.machine.Play(f.clock.now() / 1000)
	f.run(300 * time.Millisecond)
	f.machine.Pause(f.clock.now() / 1000)
	before := f.proc.Stats()
	f.run(300 * time.Millisecond)
	if f.proc.Stats().Ticks != before.Ticks {
		t.Fatalf("paused stream should not tick the processor")
	}
	f.machine.Play(f.clock.now() / 1000)
	if f.proc.Stats().Resets != before.Resets || f.proc.Smoother().Previous() == nil {
		t.Fatalf("resume must not reset smoothing state")
	}
}

func TestPosePresenter_EmptyDetectionClearsDetail(t *testing.T) {
	f := newFixture(t, pose.DetectorFunc(func(pose.FrameInput) (pose.LandmarkSet, error) { return nil, nil }))
	f.machine.Play(f.clock.now() / 1000)
	f.run(200 * time.Millisecond)
	if f.view.overlays == 0 {
		t.Fatalf("empty frames should still redraw the overlay")
	}
	if f.view.lastDetail != nil {
		t.Fatalf("no pose means no detail crop")
	}
	if f.proc.Stats().Empty == 0 {
		t.Fatalf("expected empty frames to be counted")
	}
}

func TestPosePresenter_DetectorErrorsAreThrottled(t *testing.T) {
	f := newFixture(t, pose.DetectorFunc(func(pose.FrameInput) (pose.LandmarkSet, error) { return nil, errors.New("boom") }))
	f.machine.Play(f.clock.now() / 1000)
	f.run(time.Second)
	if f.proc.Stats().DetectErrors != 10 {
		t.Fatalf("expected 10 detect errors, got %d", f.proc.Stats().DetectErrors)
	}
	if f.pres.suppressed == 0 {
		t.Fatalf("expected repeated errors to be throttled")
	}
}

func TestPosePresenter_Background(t *testing.T) {
	f := newFixture(t, pose.DetectorFunc(walkingDetector))
	frame := image.NewRGBA(image.Rect(0, 0, 8, 8))
	frames := &mockFrames{running: true, snap: capture.FrameSnapshot{Image: frame, Sequence: 1}}
	on := false
	f.pres.Frames = frames
	f.pres.CaptureOn = func() bool { return on }
	if f.pres.background() != nil {
		t.Fatalf("capture disabled should yield no background")
	}
	on = true
	if f.pres.background() != image.Image(frame) {
		t.Fatalf("expected latest captured frame as background")
	}
	frames.running = false
	if f.pres.background() != nil {
		t.Fatalf("stopped capture should yield no background")
	}
}

func TestPosePresenter_NilSafe(t *testing.T) {
	var p *PosePresenter
	p.ProcessFrame()
	p.OnStream(stream.StateIdle, stream.StatePlaying)
	if err := p.Render(pose.Result{}); err != nil {
		t.Fatalf("nil presenter render: %v", err)
	}
}
