// Package pose holds the frame-rate-gated smoothing pipeline: a frame gate
// that paces an unbounded tick stream to a target rate, and an exponential
// moving average over landmark positions across admitted frames.
package pose

import (
	"errors"
	"image"
	"time"
)

// ErrInvalidInput reports a precondition violation: a non-positive frame
// rate, an alpha outside (0, 1], or an empty landmark set.
var ErrInvalidInput = errors.New("pose: invalid input")

// Landmark is a single detected keypoint. X, Y and Z are in whatever space
// the detector reports (normalized or pixels). Visibility is a confidence
// scalar and is never blended.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// LandmarkSet is an ordered set of landmarks. Index i in one frame names the
// same anatomical point as index i in the previous frame; detectors are
// expected to honour that, it is not verified here.
type LandmarkSet []Landmark

// Clone returns a copy that shares no memory with s.
func (s LandmarkSet) Clone() LandmarkSet {
	if s == nil {
		return nil
	}
	out := make(LandmarkSet, len(s))
	copy(out, s)
	return out
}

// MediaPipe BlazePose landmark indices (33 points).
const (
	Nose            = 0
	LeftEyeInner    = 1
	LeftEye         = 2
	LeftEyeOuter    = 3
	RightEyeInner   = 4
	RightEye        = 5
	RightEyeOuter   = 6
	LeftEar         = 7
	RightEar        = 8
	MouthLeft       = 9
	MouthRight      = 10
	LeftShoulder    = 11
	RightShoulder   = 12
	LeftElbow       = 13
	RightElbow      = 14
	LeftWrist       = 15
	RightWrist      = 16
	LeftPinky       = 17
	RightPinky      = 18
	LeftIndex       = 19
	RightIndex      = 20
	LeftThumb       = 21
	RightThumb      = 22
	LeftHip         = 23
	RightHip        = 24
	LeftKnee        = 25
	RightKnee       = 26
	LeftAnkle       = 27
	RightAnkle      = 28
	LeftHeel        = 29
	RightHeel       = 30
	LeftFootIndex   = 31
	RightFootIndex  = 32
	NumBlazePose    = 33
	NumCOCOKeypoint = 17
)

// FrameInput is what the host loop hands the processor on every tick.
type FrameInput struct {
	// Timestamp is the wall-clock time in milliseconds used by the gate.
	Timestamp float64
	// MediaTime is the position in the stream, used by clip-backed detectors.
	MediaTime time.Duration
	// Image is the frame the detector ran on, if any. May be nil.
	Image image.Image
}

// Detector produces raw landmarks for a frame. An empty set means no pose
// was found in that frame.
type Detector interface {
	Detect(in FrameInput) (LandmarkSet, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(in FrameInput) (LandmarkSet, error)

func (f DetectorFunc) Detect(in FrameInput) (LandmarkSet, error) { return f(in) }

// Result is handed to renderers for every admitted frame.
type Result struct {
	Sequence uint64
	Input    FrameInput
	Raw      LandmarkSet
	Smoothed LandmarkSet
	// SoftReset is set when the smoother dropped its state because the
	// landmark count changed.
	SoftReset bool
}

// Found reports whether the frame carried a pose.
func (r Result) Found() bool { return len(r.Smoothed) > 0 }

// Renderer consumes processed frames.
type Renderer interface {
	Render(res Result) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(res Result) error

func (f RendererFunc) Render(res Result) error { return f(res) }

// Renderers fans a result out to every renderer, joining their errors.
type Renderers []Renderer

func (rs Renderers) Render(res Result) error {
	var errs []error
	for _, r := range rs {
		if r == nil {
			continue
		}
		if err := r.Render(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
