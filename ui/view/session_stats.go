package view

import (
	"fmt"
	"time"

	"github.com/soocke/pose-smoother-go/domain/pose"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows playing time and pipeline counters.
type SessionStats interface {
	SetSession(d time.Duration)
	SetTotal(d time.Duration)
	SetStats(st pose.Stats)
}

type sessionStats struct {
	sessionLbl *LabelWidget
	totalLbl   *LabelWidget
	statsLbl   *LabelWidget
	lastStats  string
}

// NewSessionStats creates the session and total labels at (row, startCol)
// and (row, startCol+1), and the stats line below them.
// If parent is nil, labels are positioned relative to the App root.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{
		sessionLbl: Label(Width(14), Anchor("w")),
		totalLbl:   Label(Width(14), Anchor("w")),
		statsLbl:   Label(Width(44), Anchor("w")),
	}
	grid := func(w *LabelWidget, r, c, span int) {
		if parent != nil {
			Grid(w, In(parent), Row(r), Column(c), Columnspan(span), Sticky("w"), Padx("0.2m"))
			return
		}
		Grid(w, Row(r), Column(c), Columnspan(span), Sticky("w"), Padx("0.2m"))
	}
	grid(s.sessionLbl, row, startCol, 1)
	grid(s.totalLbl, row, startCol+1, 1)
	grid(s.statsLbl, row+1, startCol, 2)
	s.sessionLbl.Configure(Txt("Run: 00:00"))
	s.totalLbl.Configure(Txt("Total: 00:00"))
	s.statsLbl.Configure(Txt(formatStats(pose.Stats{})))
	return s
}

func (s *sessionStats) SetSession(d time.Duration) {
	if s == nil || s.sessionLbl == nil {
		return
	}
	s.sessionLbl.Configure(Txt("Run: " + formatClock(d)))
}

func (s *sessionStats) SetTotal(d time.Duration) {
	if s == nil || s.totalLbl == nil {
		return
	}
	s.totalLbl.Configure(Txt("Total: " + formatClock(d)))
}

// SetStats skips the Tk round trip when the text did not change.
func (s *sessionStats) SetStats(st pose.Stats) {
	if s == nil || s.statsLbl == nil {
		return
	}
	txt := formatStats(st)
	if txt == s.lastStats {
		return
	}
	s.lastStats = txt
	s.statsLbl.Configure(Txt(txt))
}

func formatClock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func formatStats(st pose.Stats) string {
	return fmt.Sprintf("Frames %d/%d (%.0f%%)  jitter raw %.4f smooth %.4f",
		st.Admitted, st.Ticks, 100*st.AdmissionRate(), st.Jitter.RawMean, st.Jitter.SmoothMean)
}
