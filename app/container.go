package app

import (
	"log/slog"

	"github.com/soocke/pose-smoother-go/app/runner"
	"github.com/soocke/pose-smoother-go/config"
	"github.com/soocke/pose-smoother-go/domain/capture"
	"github.com/soocke/pose-smoother-go/domain/pose"
	"github.com/soocke/pose-smoother-go/domain/stream"
	"github.com/soocke/pose-smoother-go/ui/model"
	"github.com/soocke/pose-smoother-go/ui/presenter"
	"github.com/soocke/pose-smoother-go/ui/theme"
	"github.com/soocke/pose-smoother-go/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	CfgPath    string
	Logger     *slog.Logger
	Clock      pose.Clock
	Pipeline   *runner.Pipeline
	Capture    *model.CaptureModel
	Session    *model.SessionModel
	Overlay    *model.OverlayModel
	CaptureSvc capture.CaptureService
	Selection  view.SelectionOverlay
	RootView   *view.RootView
	UI         view.UI

	// Presenters
	StreamPresenter  *presenter.StreamPresenter
	SessionPresenter *presenter.SessionPresenter
	CapturePresenter *presenter.CapturePresenter
	PosePresenter    *presenter.PosePresenter
	Loop             *presenter.Loop
}

// BuildContainer constructs all components. The window itself is built by
// the app once Tk is running; presenters only hold the root view.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) (*AppContainer, error) {
	p, err := runner.Build(cfg, logger)
	if err != nil {
		return nil, err
	}
	c := &AppContainer{Config: cfg, CfgPath: cfgPath, Logger: logger, Clock: pose.MonotonicClock(), Pipeline: p}
	c.Capture = &model.CaptureModel{}
	c.Session = model.NewSessionModel()
	c.Overlay = model.NewOverlayModel()
	c.Selection = view.NewSelectionOverlay(cfg, cfgPath, logger)
	c.CaptureSvc = capture.NewCaptureService(logger, nil, capture.DefaultInterval, c.Selection.ActiveRect)
	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	c.UI = c.RootView

	pal := theme.CurrentPalette()
	p.Overlay.Background, p.Overlay.PointColor, p.Overlay.BoneColor = pal.Canvas, pal.Landmark, pal.Bone

	c.PosePresenter = presenter.NewPosePresenter(c.Clock, p.Stream, c.CaptureSvc, c.Capture.Enabled, p.Overlay, c.Overlay, c.Session, c.UI, logger)
	proc, err := p.NewProcessor(*cfg, pose.Renderers{c.PosePresenter}, c.Clock())
	if err != nil {
		p.Close()
		return nil, err
	}
	c.PosePresenter.SetProcessor(proc)

	c.StreamPresenter = presenter.NewStreamPresenter(p.Stream, c.UI, c.Clock)
	c.StreamPresenter.OnShow = func(s stream.State) { c.UI.SetConfigEditable(s != stream.StatePlaying) }
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, p.Stream, c.UI)
	c.CapturePresenter = presenter.NewCapturePresenter(c.Capture, c.CaptureSvc, c.UI)
	c.CapturePresenter.OnChange = func(enabled bool) {
		cfg.CaptureEnabled = enabled
		if err := cfg.Save(cfgPath); err != nil {
			logger.Error("config save failed", "error", err)
		}
	}

	p.Stream.AddListener(c.PosePresenter.OnStream)
	p.Stream.AddListener(c.StreamPresenter.OnState)
	return c, nil
}

// ApplyConfig rebuilds the processor for a changed config. The stored
// config is updated by the caller once this returns nil.
func (c *AppContainer) ApplyConfig(cfg config.Config) error {
	proc, err := c.Pipeline.NewProcessor(cfg, pose.Renderers{c.PosePresenter}, c.Clock())
	if err != nil {
		return err
	}
	c.PosePresenter.SetProcessor(proc)
	c.Logger.Info("pipeline rebuilt", "target_fps", cfg.TargetFPS, "alpha", cfg.Alpha, "min_visibility", cfg.MinVisibility, "mirror", cfg.Mirror)
	return nil
}

// ToggleRaw switches the overlay between raw and smoothed landmarks.
func (c *AppContainer) ToggleRaw() {
	show := !c.Overlay.ShowRaw()
	c.Overlay.SetShowRaw(show)
	c.UI.SetRawLabel(show)
}

// Close stops background work and closes the session store.
func (c *AppContainer) Close() error {
	c.CaptureSvc.Stop()
	return c.Pipeline.Close()
}
