package app

import (
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/pose-smoother-go/config"
	"github.com/soocke/pose-smoother-go/report"
	"github.com/soocke/pose-smoother-go/ui/presenter"
	"github.com/soocke/pose-smoother-go/ui/theme"
	"github.com/soocke/pose-smoother-go/ui/view"
)

type app struct {
	container *AppContainer
	logger    *slog.Logger
	tick      time.Duration
	afterID   string
	closed    bool
}

// NewApp builds the container and sizes the main window.
func NewApp(title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) (*app, error) {
	c, err := BuildContainer(cfg, cfgPath, logger)
	if err != nil {
		return nil, err
	}
	a := &app{container: c, logger: logger, tick: time.Duration(cfg.HostTickMs) * time.Millisecond}
	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a, nil
}

// Start builds the widgets, starts the update loop and blocks until the
// window is closed.
func (a *app) Start() {
	c := a.container
	theme.InitStyles()
	c.RootView.Build(view.Actions{
		TogglePlay:    c.StreamPresenter.TogglePlay,
		Restart:       c.StreamPresenter.Restart,
		ToggleCapture: c.CapturePresenter.Toggle,
		ToggleRaw:     c.ToggleRaw,
		Selection:     c.Selection.OpenOrFocus,
		Exit:          a.exitHandler,
		ApplyConfig:   c.ApplyConfig,
	})
	if c.Config.CaptureEnabled {
		c.CapturePresenter.Enable()
	}
	c.Loop = presenter.NewLoop(c.SessionPresenter, c.StreamPresenter, c.PosePresenter, a.scheduleUpdate)
	a.scheduleUpdate()
	App.Wait()
	a.shutdown()
}

// scheduleUpdate uses TclAfter to stay on Tk's event loop thread.
func (a *app) scheduleUpdate() {
	if a.closed {
		return
	}
	a.afterID = TclAfter(a.tick, a.container.Loop.Tick)
}

func (a *app) exitHandler() {
	a.closed = true
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	Destroy(App)
}

func (a *app) shutdown() {
	if err := a.container.Close(); err != nil {
		a.logger.Error("shutdown", "error", err)
	}
	st := a.container.PosePresenter.Processor().Stats()
	a.logger.Info("viewer closed", "admitted", st.Admitted, "ticks", st.Ticks)
	col := a.container.Pipeline.Collector
	a.logger.Info("jitter summary", col.Summary().LogAttrs()...)
	if path := a.container.Config.PlotPath; path != "" && len(col.Samples()) > 0 {
		if err := report.Plot(col.Samples(), col.Landmark(), path); err != nil {
			a.logger.Error("plot", "error", err)
		}
	}
}
