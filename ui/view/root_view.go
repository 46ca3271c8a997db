package view

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/pose-smoother-go/config"
	"github.com/soocke/pose-smoother-go/domain/pose"
	"github.com/soocke/pose-smoother-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	Preview     OverlayPreview

	// Widgets
	StateLabel *TLabelWidget
	playBtn    *TButtonWidget
	captureBtn *TButtonWidget
	rawBtn     *TButtonWidget
	previewRow int
}

// UI abstracts the view operations presenters need from the window.
type UI interface {
	SetStateLabel(text string)
	SetPlayLabel(text string)
	SetSession(run, total time.Duration)
	SetStats(st pose.Stats)
	UpdateOverlay(img image.Image)
	UpdateDetail(img image.Image)
	PreviewReset()
	SetCaptureLabel(enabled bool)
	SetRawLabel(showRaw bool)
	SetConfigEditable(enabled bool)
}

// Actions are the handlers bound to the window's controls. Nil handlers
// leave their control inert.
type Actions struct {
	TogglePlay    func()
	Restart       func()
	ToggleCapture func()
	ToggleRaw     func()
	Selection     func()
	Exit          func()
	ApplyConfig   ApplyFunc
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

func orNop(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return fn
}

// Build constructs the layout.
func (rv *RootView) Build(a Actions) {
	if rv == nil {
		return
	}
	// Row 0: session stats, state label, buttons frame
	statsFrame := Frame()
	Grid(statsFrame, Row(0), Column(0), Columnspan(2), Sticky("nw"), Padx("0.3m"), Pady("0.3m"))
	rv.Session = NewSessionStats(statsFrame, 0, 0)
	rv.StateLabel = TLabel(Txt("State: idle"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, Row(0), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(4), Rowspan(2), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	button := func(row int, label, style string, cmd func()) *TButtonWidget {
		b := TButton(Txt(label), Style(style), Command(orNop(cmd)))
		Grid(b, In(btnFrame), Row(row), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		return b
	}
	rv.playBtn = button(0, "Play", theme.StylePrimaryButton, a.TogglePlay)
	button(1, "Restart", theme.StylePrimaryButton, a.Restart)
	rv.captureBtn = button(2, captureText(rv.cfg != nil && rv.cfg.CaptureEnabled), theme.StylePrimaryButton, a.ToggleCapture)
	rv.rawBtn = button(3, rawText(false), theme.StylePrimaryButton, a.ToggleRaw)
	button(4, "Video Region", theme.StylePrimaryButton, a.Selection)
	button(5, "Exit", theme.StyleDangerButton, a.Exit)

	// Config panel rows
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, a.ApplyConfig)
	rv.previewRow = rv.ConfigPanel.Build(1)

	w, h := 640, 480
	if rv.cfg != nil {
		w, h = rv.cfg.CanvasWidth, rv.cfg.CanvasHeight
	}
	rv.Preview = NewOverlayPreview(rv.previewRow, w, h)
}

func captureText(enabled bool) string {
	if enabled {
		return "Capture: on"
	}
	return "Capture: off"
}

func rawText(showRaw bool) string {
	if showRaw {
		return "Showing: raw"
	}
	return "Showing: smoothed"
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

func (rv *RootView) SetPlayLabel(text string) {
	if rv != nil && rv.playBtn != nil {
		rv.playBtn.Configure(Txt(text))
	}
}

func (rv *RootView) SetCaptureLabel(enabled bool) {
	if rv != nil && rv.captureBtn != nil {
		rv.captureBtn.Configure(Txt(captureText(enabled)))
	}
}

func (rv *RootView) SetRawLabel(showRaw bool) {
	if rv != nil && rv.rawBtn != nil {
		rv.rawBtn.Configure(Txt(rawText(showRaw)))
	}
}

// SetConfigEditable toggles config panel editability.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
}

func (rv *RootView) UpdateOverlay(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.UpdateOverlay(img)
	}
}

func (rv *RootView) UpdateDetail(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.UpdateDetail(img)
	}
}

// PreviewReset clears both previews.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.Preview != nil {
		rv.Preview.Reset()
	}
}

// SetSession updates the run and total playing durations.
func (rv *RootView) SetSession(run, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(run)
	rv.Session.SetTotal(total)
}

func (rv *RootView) SetStats(st pose.Stats) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetStats(st)
	}
}

var _ UI = (*RootView)(nil)
