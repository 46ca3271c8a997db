package pose

import "fmt"

// LandmarkSmoother low-pass filters landmark positions with an exponential
// moving average, independently per axis and per landmark index.
// Not safe for concurrent use.
type LandmarkSmoother struct {
	alpha      float64
	previous   LandmarkSet
	softResets uint64
}

// NewLandmarkSmoother returns a smoother with the given weight on the newest
// sample. alpha must be in (0, 1]; 1 disables smoothing.
func NewLandmarkSmoother(alpha float64) (*LandmarkSmoother, error) {
	if !(alpha > 0 && alpha <= 1) {
		return nil, fmt.Errorf("landmark smoother: alpha %v: %w", alpha, ErrInvalidInput)
	}
	return &LandmarkSmoother{alpha: alpha}, nil
}

// Smooth blends current into the running state and returns the new state.
// The first set, and any set whose length differs from the previous one,
// passes through unchanged and becomes the new baseline. Visibility always
// comes from current.
func (s *LandmarkSmoother) Smooth(current LandmarkSet) (LandmarkSet, error) {
	if len(current) == 0 {
		return nil, fmt.Errorf("landmark smoother: empty landmark set: %w", ErrInvalidInput)
	}
	if s.previous == nil || len(s.previous) != len(current) {
		if s.previous != nil {
			s.softResets++
		}
		s.previous = current.Clone()
		return current.Clone(), nil
	}
	a, b := s.alpha, 1-s.alpha
	result := make(LandmarkSet, len(current))
	for i, cur := range current {
		prev := s.previous[i]
		result[i] = Landmark{
			X:          a*cur.X + b*prev.X,
			Y:          a*cur.Y + b*prev.Y,
			Z:          a*cur.Z + b*prev.Z,
			Visibility: cur.Visibility,
		}
	}
	s.previous = result
	return result.Clone(), nil
}

// Reset drops the running state; the next set passes through.
func (s *LandmarkSmoother) Reset() { s.previous = nil }

// Alpha returns the smoothing factor.
func (s *LandmarkSmoother) Alpha() float64 { return s.alpha }

// Previous returns a copy of the running state, or nil before the first set.
func (s *LandmarkSmoother) Previous() LandmarkSet { return s.previous.Clone() }

// SoftResets counts how often a landmark count change forced a new baseline.
func (s *LandmarkSmoother) SoftResets() uint64 { return s.softResets }
