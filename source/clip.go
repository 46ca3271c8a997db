// Package source reads recorded pose-estimator output and serves it to the
// pipeline as a pose.Detector.
package source

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/soocke/pose-smoother-go/domain/pose"
)

// ErrEmptyClip is returned when a clip holds no frames.
var ErrEmptyClip = errors.New("source: clip has no frames")

// maxLineBytes bounds a single JSON line; 33 landmarks fit in a few KiB.
const maxLineBytes = 1 << 20

// ClipFrame is one line of a clip file: the media time of a video frame and
// the landmarks the estimator reported for it.
type ClipFrame struct {
	TimeMs    float64          `json:"t"`
	Landmarks pose.LandmarkSet `json:"landmarks"`
}

// MediaTime returns the frame's position in the video.
func (f ClipFrame) MediaTime() time.Duration {
	return time.Duration(f.TimeMs * float64(time.Millisecond))
}

// Clip is an in-memory landmark track ordered by media time.
type Clip struct {
	Name   string
	Frames []ClipFrame
}

// LoadClip decodes a JSON Lines clip. Blank lines and lines starting with '#'
// are skipped. Frames are sorted by time.
func LoadClip(r io.Reader) (*Clip, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	clip := &Clip{}
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var f ClipFrame
		if err := json.Unmarshal([]byte(text), &f); err != nil {
			return nil, fmt.Errorf("clip line %d: %w", line, err)
		}
		if f.TimeMs < 0 {
			return nil, fmt.Errorf("clip line %d: negative time %v", line, f.TimeMs)
		}
		clip.Frames = append(clip.Frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read clip: %w", err)
	}
	if len(clip.Frames) == 0 {
		return nil, ErrEmptyClip
	}
	sort.SliceStable(clip.Frames, func(i, j int) bool { return clip.Frames[i].TimeMs < clip.Frames[j].TimeMs })
	return clip, nil
}

// OpenClip loads a clip from a file.
func OpenClip(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	clip, err := LoadClip(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	clip.Name = path
	return clip, nil
}

// Duration is the media time of the last frame.
func (c *Clip) Duration() time.Duration {
	if c == nil || len(c.Frames) == 0 {
		return 0
	}
	return c.Frames[len(c.Frames)-1].MediaTime()
}

// At returns the latest frame at or before t, and false before the first
// frame.
func (c *Clip) At(t time.Duration) (ClipFrame, bool) {
	if c == nil {
		return ClipFrame{}, false
	}
	ms := float64(t) / float64(time.Millisecond)
	i := sort.Search(len(c.Frames), func(i int) bool { return c.Frames[i].TimeMs > ms })
	if i == 0 {
		return ClipFrame{}, false
	}
	return c.Frames[i-1], true
}

// WriteClip encodes frames as JSON Lines.
func WriteClip(w io.Writer, frames []ClipFrame) error {
	enc := json.NewEncoder(w)
	for _, f := range frames {
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	return nil
}
