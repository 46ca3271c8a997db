package capture

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGrabber struct {
	mu       sync.Mutex
	full     *image.RGBA
	fullErr  error
	rectErr  error
	rects    []image.Rectangle
	fullHits int
}

func (f *fakeGrabber) Grab() (*image.RGBA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fullHits++
	if f.fullErr != nil {
		return nil, f.fullErr
	}
	return f.full, nil
}

func (f *fakeGrabber) GrabRect(r image.Rectangle) (*image.RGBA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rects = append(f.rects, r)
	if f.rectErr != nil {
		return nil, f.rectErr
	}
	img := image.NewRGBA(r)
	img.Set(r.Min.X, r.Min.Y, color.RGBA{R: 9, A: 255})
	return img, nil
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestCaptureOnce_FullScreen(t *testing.T) {
	g := &fakeGrabber{full: solid(4, 3, color.RGBA{G: 200, A: 255})}
	s := newCaptureService(nil, g, time.Millisecond, nil)

	require.True(t, s.captureOnce())
	snap := s.LatestFrame()
	require.NotNil(t, snap.Image)
	assert.Equal(t, uint64(1), snap.Sequence)
	assert.Equal(t, image.Rect(0, 0, 4, 3), snap.Image.Bounds())
	assert.Equal(t, color.RGBA{G: 200, A: 255}, snap.Image.RGBAAt(3, 2))
	assert.NotSame(t, g.full, snap.Image, "frames are copied out of the grabber's buffer")

	st := s.Stats()
	assert.Equal(t, uint64(1), st.Captures)
	assert.Equal(t, uint64(1), st.Sequence)
}

func TestCaptureOnce_SelectionIsRebasedToOrigin(t *testing.T) {
	g := &fakeGrabber{}
	sel := image.Rect(100, 50, 110, 55)
	s := newCaptureService(nil, g, time.Millisecond, func() *image.Rectangle { return &sel })

	require.True(t, s.captureOnce())
	snap := s.LatestFrame()
	assert.Equal(t, image.Rect(0, 0, 10, 5), snap.Image.Bounds())
	assert.Equal(t, color.RGBA{R: 9, A: 255}, snap.Image.RGBAAt(0, 0))
	assert.Equal(t, []image.Rectangle{sel}, g.rects)
	assert.Zero(t, g.fullHits)
}

func TestCaptureOnce_SelectionErrorFallsBackToFullScreen(t *testing.T) {
	g := &fakeGrabber{full: solid(2, 2, color.RGBA{B: 1, A: 255}), rectErr: errors.New("boom")}
	sel := image.Rect(0, 0, 5, 5)
	s := newCaptureService(nil, g, time.Millisecond, nil)
	s.SetSelectionProvider(func() *image.Rectangle { return &sel })

	require.True(t, s.captureOnce())
	assert.Equal(t, 1, g.fullHits)
	assert.Equal(t, uint64(1), s.Stats().Errors)
}

func TestCaptureOnce_FailureIsSkipped(t *testing.T) {
	g := &fakeGrabber{fullErr: errors.New("no display")}
	s := newCaptureService(nil, g, time.Millisecond, nil)

	assert.False(t, s.captureOnce())
	assert.Nil(t, s.LatestFrame().Image)
	st := s.Stats()
	assert.Equal(t, uint64(1), st.Skipped)
	assert.Equal(t, uint64(1), st.Errors)
	assert.Zero(t, st.Captures)
}

func TestCaptureService_StartStop(t *testing.T) {
	g := &fakeGrabber{full: solid(2, 2, color.RGBA{A: 255})}
	s := NewCaptureService(nil, g, time.Millisecond, nil)
	s.Start()
	s.Start()
	require.True(t, s.Running())
	require.Eventually(t, func() bool { return s.LatestFrame().Sequence >= 3 }, time.Second, time.Millisecond)
	s.Stop()
	s.Stop()
	assert.False(t, s.Running())

	seq := s.LatestFrame().Sequence
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, seq, s.LatestFrame().Sequence, "no frames after Stop")
}

func TestCopyFrame_SubImage(t *testing.T) {
	src := solid(6, 6, color.RGBA{R: 1, A: 255})
	src.SetRGBA(3, 4, color.RGBA{R: 2, G: 2, B: 2, A: 255})
	sub := src.SubImage(image.Rect(2, 2, 5, 6)).(*image.RGBA)

	dst := copyFrame(sub)
	assert.Equal(t, image.Rect(0, 0, 3, 4), dst.Bounds())
	assert.Equal(t, color.RGBA{R: 2, G: 2, B: 2, A: 255}, dst.RGBAAt(1, 2))
	assert.Equal(t, color.RGBA{R: 1, A: 255}, dst.RGBAAt(0, 0))
}

func TestAcquireFrame_Empty(t *testing.T) {
	assert.True(t, acquireFrame(0, 5).Bounds().Empty())
	RecycleFrame(nil)
}
