package model

import (
	"image"

	"github.com/soocke/pose-smoother-go/domain/pose"
)

// OverlayModel holds what the overlay preview shows: the last admitted
// result and the pose region derived from it. The zero value is usable.
// No synchronization needed: updates occur on the UI thread tick.
type OverlayModel struct {
	last    pose.Result
	has     bool
	bounds  image.Rectangle
	showRaw bool
}

func NewOverlayModel() *OverlayModel { return &OverlayModel{} }

// SetResult stores an admitted result. A result without a pose clears the
// pose region but is still the latest result.
func (m *OverlayModel) SetResult(res pose.Result, bounds image.Rectangle) {
	if m == nil {
		return
	}
	m.last, m.has = res, true
	if !res.Found() || bounds.Empty() {
		bounds = image.Rectangle{}
	}
	m.bounds = bounds
}

// Result returns the latest result and whether one was stored.
func (m *OverlayModel) Result() (pose.Result, bool) {
	if m == nil {
		return pose.Result{}, false
	}
	return m.last, m.has
}

// Landmarks returns the set to draw: smoothed, or raw when ShowRaw is set.
func (m *OverlayModel) Landmarks() pose.LandmarkSet {
	if m == nil || !m.has {
		return nil
	}
	if m.showRaw {
		return m.last.Raw
	}
	return m.last.Smoothed
}

// Bounds is the pose region on the canvas, empty when there is none.
func (m *OverlayModel) Bounds() image.Rectangle {
	if m == nil {
		return image.Rectangle{}
	}
	return m.bounds
}

func (m *OverlayModel) SetShowRaw(b bool) {
	if m != nil {
		m.showRaw = b
	}
}

func (m *OverlayModel) ShowRaw() bool { return m != nil && m.showRaw }

// Clear forgets the latest result, e.g. on stream restart.
func (m *OverlayModel) Clear() {
	if m == nil {
		return
	}
	*m = OverlayModel{showRaw: m.showRaw}
}
