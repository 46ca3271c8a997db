package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// FitRect returns the largest rectangle with the aspect ratio of w x h that
// fits within maxW x maxH, centred in it.
func FitRect(w, h, maxW, maxH int) image.Rectangle {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return image.Rectangle{}
	}
	ratio := float64(maxW) / float64(w)
	if r := float64(maxH) / float64(h); r < ratio {
		ratio = r
	}
	newW := max(1, int(float64(w)*ratio+0.5))
	newH := max(1, int(float64(h)*ratio+0.5))
	newW, newH = min(newW, maxW), min(newH, maxH)
	x0 := (maxW - newW) / 2
	y0 := (maxH - newH) / 2
	return image.Rect(x0, y0, x0+newW, y0+newH)
}

// ScaleToFit performs a nearest-neighbour scale so that the returned image fits within
// maxW x maxH preserving aspect ratio. If the source already fits, the original is returned.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return src
	}
	fit := FitRect(b.Dx(), b.Dy(), max(maxW, 1), max(maxH, 1))
	dst := image.NewRGBA(image.Rect(0, 0, fit.Dx(), fit.Dy()))
	scaleInto(dst, dst.Bounds(), src)
	return dst
}

// scaleInto draws src nearest-neighbour scaled onto the rectangle r of dst.
func scaleInto(dst *image.RGBA, r image.Rectangle, src image.Image) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || r.Empty() {
		return
	}
	rgba, fast := src.(*image.RGBA)
	for y := 0; y < r.Dy(); y++ {
		sy := b.Min.Y + y*h/r.Dy()
		for x := 0; x < r.Dx(); x++ {
			sx := b.Min.X + x*w/r.Dx()
			if fast {
				dst.SetRGBA(r.Min.X+x, r.Min.Y+y, rgba.RGBAAt(sx, sy))
				continue
			}
			cr, cg, cb, ca := src.At(sx, sy).RGBA()
			dst.SetRGBA(r.Min.X+x, r.Min.Y+y, color.RGBA{uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8), uint8(ca >> 8)})
		}
	}
}
