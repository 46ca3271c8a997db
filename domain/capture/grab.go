package capture

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

// ScreenGrabber captures the primary display.
type ScreenGrabber struct{}

// Grab returns a screen capture of the current active monitor.
func (ScreenGrabber) Grab() (*image.RGBA, error) {
	return screenshot.CaptureScreen()
}

// GrabRect captures r clipped to the screen bounds.
func (ScreenGrabber) GrabRect(r image.Rectangle) (*image.RGBA, error) {
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return nil, err
	}
	clipped := r.Intersect(screen)
	if clipped.Empty() {
		return nil, fmt.Errorf("selection %v outside screen %v", r, screen)
	}
	return screenshot.CaptureRect(clipped)
}

var _ Grabber = ScreenGrabber{}
