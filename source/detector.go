package source

import "github.com/soocke/pose-smoother-go/domain/pose"

// ClipDetector replays a clip as if an estimator ran on each frame. It looks
// frames up by FrameInput.MediaTime; the image, if any, is ignored.
type ClipDetector struct {
	clip *Clip
	// Mirror flips x around the centre of a normalized frame (x -> 1-x).
	Mirror bool
}

func NewClipDetector(clip *Clip, mirror bool) *ClipDetector {
	return &ClipDetector{clip: clip, Mirror: mirror}
}

// Detect returns a copy of the landmarks current at in.MediaTime, or an
// empty set before the clip's first frame.
func (d *ClipDetector) Detect(in pose.FrameInput) (pose.LandmarkSet, error) {
	if d == nil || d.clip == nil {
		return nil, ErrEmptyClip
	}
	f, ok := d.clip.At(in.MediaTime)
	if !ok {
		return nil, nil
	}
	set := f.Landmarks.Clone()
	if d.Mirror {
		for i := range set {
			set[i].X = 1 - set[i].X
		}
	}
	return set, nil
}

// Clip returns the backing clip.
func (d *ClipDetector) Clip() *Clip { return d.clip }

var _ pose.Detector = (*ClipDetector)(nil)
