package theme

// Palette and ttk styles for the viewer window, plus the colours the overlay
// canvas draws with so both follow the light/dark switch.

import (
	"image/color"

	tk "modernc.org/tk9.0"
)

// Palette holds the resolved colours of one mode.
type Palette struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Accent    string
	Text      string
	TextMuted string

	// Overlay canvas
	Canvas   color.RGBA
	Landmark color.RGBA
	Bone     color.RGBA
}

var (
	light = Palette{
		AppBg:     "#f7f9fb",
		Surface:   "#ffffff",
		Border:    "#d0d7de",
		Primary:   "#2563eb",
		Danger:    "#dc2626",
		Accent:    "#10b981",
		Text:      "#1e293b",
		TextMuted: "#64748b",
		Canvas:    color.RGBA{R: 24, G: 24, B: 24, A: 255},
		Landmark:  color.RGBA{R: 255, A: 255},
		Bone:      color.RGBA{R: 230, G: 230, B: 230, A: 255},
	}
	dark = Palette{
		AppBg:     "#0f172a",
		Surface:   "#1e293b",
		Border:    "#334155",
		Primary:   "#3b82f6",
		Danger:    "#ef4444",
		Accent:    "#10b981",
		Text:      "#f1f5f9",
		TextMuted: "#94a3b8",
		Canvas:    color.RGBA{R: 15, G: 23, B: 42, A: 255},
		Landmark:  color.RGBA{R: 239, G: 68, B: 68, A: 255},
		Bone:      color.RGBA{R: 148, G: 163, B: 184, A: 255},
	}
)

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStateLabel    = "state.TLabel"
)

var darkMode bool

// CurrentPalette returns colors for the current dark/light mode.
func CurrentPalette() Palette {
	if darkMode {
		return dark
	}
	return light
}

// InitStyles (re)applies styles for the current mode.
func InitStyles() { applyStyles(CurrentPalette()) }

// SetDark switches mode and reapplies styles. Returns new mode value.
func SetDark(d bool) bool {
	darkMode = d
	InitStyles()
	return darkMode
}

func IsDark() bool { return darkMode }

func applyStyles(p Palette) {
	_ = tk.ActivateTheme("azure light") // baseline metrics
	tk.App.Configure(tk.Background(p.AppBg))

	tk.StyleConfigure(StylePrimaryButton,
		tk.Background(p.Primary),
		tk.Foreground("white"),
		tk.Padding("4p 3p"),
		tk.Borderwidth(1),
		tk.Relief("ridge"),
	)
	tk.StyleConfigure(StyleDangerButton,
		tk.Background(p.Danger),
		tk.Foreground("white"),
		tk.Padding("4p 3p"),
		tk.Borderwidth(1),
		tk.Relief("ridge"),
	)
	tk.StyleConfigure(StyleStateLabel,
		tk.Foreground(p.Surface),
		tk.Background(p.Accent),
		tk.Padding("4p 2p"),
		tk.Borderwidth(1),
		tk.Relief("groove"),
	)
}
