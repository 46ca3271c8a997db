package capture

import "image"

// FrameSource provides read-only access to captured frames.
// LatestFrame returns the freshest snapshot while Running reports activity.
type FrameSource interface {
	LatestFrame() FrameSnapshot
	Running() bool
}

// Grabber captures pixels from a display. Implementations may return images
// whose bounds do not start at the origin.
type Grabber interface {
	Grab() (*image.RGBA, error)
	GrabRect(image.Rectangle) (*image.RGBA, error)
}

// ServiceContract exposes basic lifecycle control for capture services.
type ServiceContract interface {
	Start()
	Stop()
	Running() bool
}

// ServiceWithSelection extends ServiceContract with a setter for a selection provider.
type ServiceWithSelection interface {
	ServiceContract
	SetSelectionProvider(func() *image.Rectangle)
}
