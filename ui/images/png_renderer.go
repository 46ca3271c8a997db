package images

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/soocke/pose-smoother-go/domain/pose"
)

// PNGRenderer writes every admitted frame as frame_NNNNNN.png into Dir.
// Frames without a pose are written as the bare background.
type PNGRenderer struct {
	Dir     string
	Overlay *Overlay
	written int
}

// NewPNGRenderer creates dir if needed.
func NewPNGRenderer(dir string, o *Overlay) (*PNGRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("frames dir: %w", err)
	}
	return &PNGRenderer{Dir: dir, Overlay: o}, nil
}

func (r *PNGRenderer) Render(res pose.Result) error {
	img := r.Overlay.Render(res.Input.Image, res.Smoothed)
	path := filepath.Join(r.Dir, fmt.Sprintf("frame_%06d.png", res.Sequence))
	if err := writePNG(path, img); err != nil {
		return err
	}
	r.written++
	return nil
}

// Written counts files written so far.
func (r *PNGRenderer) Written() int { return r.written }

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

var _ pose.Renderer = (*PNGRenderer)(nil)
