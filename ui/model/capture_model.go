package model

import (
	"sync/atomic"
)

// CaptureModel tracks whether screen frames are captured behind the
// overlay. The zero value is disabled and usable. Concurrency-safe because
// UI callbacks and presenter ticks may race.
type CaptureModel struct{ enabled atomic.Bool }

// Enabled reports whether background capture is on.
func (m *CaptureModel) Enabled() bool {
	if m == nil {
		return false
	}
	return m.enabled.Load()
}

// SetEnabled stores the flag and reports whether it changed.
func (m *CaptureModel) SetEnabled(b bool) bool {
	if m == nil {
		return false
	}
	return m.enabled.Swap(b) != b
}

// Toggle flips the flag and returns the new value.
func (m *CaptureModel) Toggle() bool {
	if m == nil {
		return false
	}
	for {
		cur := m.enabled.Load()
		if m.enabled.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}
