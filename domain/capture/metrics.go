package capture

import (
	"image"
	"time"
)

// FrameSnapshot carries the latest captured frame and metadata. Image bounds
// always start at the origin; the frame must be treated as read-only.
type FrameSnapshot struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}

// CaptureStats summarises capture loop behaviour for instrumentation.
type CaptureStats struct {
	Captures         uint64
	Skipped          uint64
	Errors           uint64
	AvgCapture       time.Duration
	AvgCaptureMicros float64
	LastCapture      time.Time
	LatestFrameAge   time.Duration
	Sequence         uint64
}
