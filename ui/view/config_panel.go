package view

import (
	"log/slog"
	"strings"

	"github.com/soocke/pose-smoother-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the pipeline settings form.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

// ApplyFunc receives the validated candidate config. Returning an error
// rejects it; the stored config is then left untouched.
type ApplyFunc func(cfg config.Config) error

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	onApply  ApplyFunc
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by config field name
}

var fieldLabels = map[string]string{
	"target_fps":     "Target FPS",
	"alpha":          "Smoothing Alpha (0-1]",
	"min_visibility": "Min Visibility [0-1]",
	"mirror":         "Mirror (true/false)",
}

// NewConfigPanel creates the view bound to cfg. onApply may be nil.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApply ApplyFunc) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, onApply: onApply, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	row = startRow
	for _, name := range config.EditableFields {
		lbl := Label(Txt(fieldLabels[name]), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(16))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		v.widgets[name] = w
		row++
	}
	v.refresh()
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

// refresh writes the current config values into the widgets.
func (v *configPanel) refresh() {
	if v.cfg == nil {
		return
	}
	for name, w := range v.widgets {
		val, err := v.cfg.Field(name)
		if err != nil {
			continue
		}
		w.Delete("1.0", END)
		w.Insert("1.0", val)
	}
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	for _, name := range config.EditableFields {
		if err := cfg.SetField(name, v.text(v.widgets[name])); err != nil && v.logger != nil {
			v.logger.Warn("config field ignored", "error", err)
		}
	}
	_ = cfg.Validate()
	if v.onApply != nil {
		if err := v.onApply(cfg); err != nil {
			if v.logger != nil {
				v.logger.Error("config apply failed", "error", err)
			}
			v.refresh()
			return
		}
	}
	*v.cfg = cfg
	v.refresh()
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else if v.logger != nil && v.cfgPath != "" {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
}
