package images

import (
	"errors"
	"image"
	"image/draw"

	"github.com/soocke/pose-smoother-go/domain/pose"
)

// PoseBounds returns the square canvas region around the visible landmarks
// of set, grown by pad pixels and clamped to the canvas. ok is false when no
// landmark is visible.
func (o *Overlay) PoseBounds(set pose.LandmarkSet, pad int) (image.Rectangle, bool) {
	var r image.Rectangle
	found := false
	for _, l := range set {
		if l.Visibility < o.MinVisibility {
			continue
		}
		p := o.Point(l)
		pr := image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}
		if !found {
			r, found = pr, true
		} else {
			r = r.Union(pr)
		}
	}
	if !found {
		return image.Rectangle{}, false
	}
	side := max(r.Dx(), r.Dy()) + 2*pad
	c := image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
	sq := image.Rect(c.X-side/2, c.Y-side/2, c.X-side/2+side, c.Y-side/2+side)
	sq = sq.Intersect(image.Rect(0, 0, o.Width, o.Height))
	if sq.Empty() {
		return image.Rectangle{}, false
	}
	return sq, true
}

// ExtractROI crops rect out of frame, clamped to the frame bounds and at
// least 1x1. The result is always *image.RGBA.
func ExtractROI(frame *image.RGBA, rect image.Rectangle) (*image.RGBA, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	b := frame.Bounds()
	if b.Empty() {
		return nil, image.Rectangle{}, errors.New("empty frame")
	}
	roi := rect.Intersect(b)
	if roi.Empty() {
		x := min(max(rect.Min.X, b.Min.X), b.Max.X-1)
		y := min(max(rect.Min.Y, b.Min.Y), b.Max.Y-1)
		roi = image.Rect(x, y, x+1, y+1)
	}
	sub := frame.SubImage(roi)
	if rgba, ok := sub.(*image.RGBA); ok {
		return rgba, roi, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, roi.Dx(), roi.Dy()))
	draw.Draw(out, out.Bounds(), sub, roi.Min, draw.Src)
	return out, roi, nil
}
