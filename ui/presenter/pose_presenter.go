package presenter

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/pose-smoother-go/domain/capture"
	"github.com/soocke/pose-smoother-go/domain/pose"
	"github.com/soocke/pose-smoother-go/domain/stream"
	"github.com/soocke/pose-smoother-go/ui/images"
	"github.com/soocke/pose-smoother-go/ui/model"
)

const (
	detailSize  = 200
	detailPad   = 12
	errorLogGap = time.Second
)

// PoseProcessor is the per-stream pipeline the presenter drives.
type PoseProcessor interface {
	Process(in pose.FrameInput) (pose.Result, bool, error)
	Reset(now float64)
	Stats() pose.Stats
}

// MediaClock advances the stream and reports its state.
type MediaClock interface {
	Tick(now float64) time.Duration
	Current() stream.State
}

// FrameSource supplies the most recent background frame.
type FrameSource interface {
	Running() bool
	LatestFrame() capture.FrameSnapshot
}

// PoseView describes the UI surface updated by the presenter.
type PoseView interface {
	UpdateOverlay(img image.Image)
	UpdateDetail(img image.Image)
}

// PosePresenter runs the pose pipeline once per host tick and renders
// admitted frames into the view. It implements pose.Renderer so it can be
// part of the processor's renderer fan-out. All methods must be called from
// the UI goroutine.
type PosePresenter struct {
	Clock     pose.Clock
	Stream    MediaClock
	Frames    FrameSource
	CaptureOn func() bool
	Overlay   *images.Overlay
	Model     *model.OverlayModel
	Session   *model.SessionModel
	View      PoseView
	// OnRestart hooks run after the processor was reset for a restart.
	OnRestart []func()
	logger    *slog.Logger

	proc       PoseProcessor
	lastErrLog float64
	suppressed int
}

// NewPosePresenter constructs a pose presenter. The processor is attached
// with SetProcessor.
func NewPosePresenter(clock pose.Clock, st MediaClock, frames FrameSource, captureOn func() bool, overlay *images.Overlay, m *model.OverlayModel, sess *model.SessionModel, view PoseView, logger *slog.Logger) *PosePresenter {
	if clock == nil {
		clock = pose.MonotonicClock()
	}
	return &PosePresenter{
		Clock:      clock,
		Stream:     st,
		Frames:     frames,
		CaptureOn:  captureOn,
		Overlay:    overlay,
		Model:      m,
		Session:    sess,
		View:       view,
		logger:     logger,
		lastErrLog: -errorLogGap.Seconds() * 1000,
	}
}

// SetProcessor replaces the pipeline, e.g. after the config changed.
func (p *PosePresenter) SetProcessor(proc PoseProcessor) {
	if p == nil {
		return
	}
	p.proc = proc
	if p.Model != nil {
		p.Model.Clear()
	}
}

func (p *PosePresenter) Processor() PoseProcessor { return p.proc }

// ProcessFrame is the per-tick callback: advance the media clock and, while
// playing, hand the tick to the processor.
func (p *PosePresenter) ProcessFrame() {
	if p == nil || p.proc == nil || p.Stream == nil {
		return
	}
	now := p.Clock()
	media := p.Stream.Tick(now / 1000)
	if p.Stream.Current() != stream.StatePlaying {
		return
	}
	in := pose.FrameInput{Timestamp: now, MediaTime: media, Image: p.background()}
	_, admitted, err := p.proc.Process(in)
	if err != nil {
		p.logError(now, err)
	}
	if admitted && p.Session != nil {
		p.Session.SetStats(p.proc.Stats())
	}
}

func (p *PosePresenter) background() image.Image {
	if p.Frames == nil || p.CaptureOn == nil || !p.CaptureOn() || !p.Frames.Running() {
		return nil
	}
	if snap := p.Frames.LatestFrame(); snap.Image != nil {
		return snap.Image
	}
	return nil
}

// logError throttles pipeline errors to one line per errorLogGap.
func (p *PosePresenter) logError(now float64, err error) {
	if p.logger == nil {
		return
	}
	if now-p.lastErrLog < errorLogGap.Seconds()*1000 {
		p.suppressed++
		return
	}
	p.logger.Error("pose pipeline", "error", err, "suppressed", p.suppressed)
	p.lastErrLog, p.suppressed = now, 0
}

// Render draws an admitted result: the overlay canvas and a square detail
// crop around the pose.
func (p *PosePresenter) Render(res pose.Result) error {
	if p == nil || p.Overlay == nil || p.View == nil {
		return nil
	}
	bounds, _ := p.Overlay.PoseBounds(res.Smoothed, detailPad)
	var set pose.LandmarkSet
	if p.Model != nil {
		p.Model.SetResult(res, bounds)
		set = p.Model.Landmarks()
	} else {
		set = res.Smoothed
	}
	canvas := p.Overlay.Render(res.Input.Image, set)
	p.View.UpdateOverlay(canvas)
	if bounds.Empty() {
		p.View.UpdateDetail(nil)
		return nil
	}
	roi, _, err := images.ExtractROI(canvas, bounds)
	if err != nil {
		return err
	}
	p.View.UpdateDetail(images.ScaleToFit(roi, detailSize, detailSize))
	return nil
}

// OnStream is registered as a stream listener. A restart drops all
// smoothing state so the first frame of the new run is emitted unchanged.
func (p *PosePresenter) OnStream(prev, next stream.State) {
	if p == nil || !stream.IsRestart(prev, next) {
		return
	}
	if p.proc != nil {
		p.proc.Reset(p.Clock())
	}
	if p.Model != nil {
		p.Model.Clear()
	}
	if p.logger != nil {
		p.logger.Info("stream restarted", "from", prev.String())
	}
	for _, fn := range p.OnRestart {
		fn()
	}
}

var _ pose.Renderer = (*PosePresenter)(nil)
