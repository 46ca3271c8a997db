package capture

import (
	"image"
	"sync"
)

// Reusable RGBA buffers. The screenshot library allocates a fresh image per
// grab; the service copies it into a pooled, origin-anchored buffer so that
// frames replaced while the service runs can be handed back here on Stop.

var framePool sync.Pool // stores *image.RGBA

// acquireFrame returns a reusable RGBA image of the given size anchored at
// the origin. Pix length is exactly w*h*4 and Stride is w*4.
func acquireFrame(w, h int) *image.RGBA {
	rect := image.Rect(0, 0, w, h)
	if w <= 0 || h <= 0 {
		return &image.RGBA{Rect: image.Rectangle{}}
	}
	needed := w * h * 4
	var img *image.RGBA
	if v := framePool.Get(); v != nil {
		img = v.(*image.RGBA)
	}
	if img == nil || cap(img.Pix) < needed {
		img = &image.RGBA{Pix: make([]byte, needed), Stride: w * 4, Rect: rect}
	} else {
		img.Stride = w * 4
		img.Rect = rect
		img.Pix = img.Pix[:needed]
	}
	return img
}

// copyFrame copies src into a pooled buffer anchored at the origin.
func copyFrame(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := acquireFrame(b.Dx(), b.Dy())
	rowBytes := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		so := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowBytes], src.Pix[so:so+rowBytes])
	}
	return dst
}

// RecycleFrame returns the frame to the pool for potential reuse. The frame
// must no longer be accessed by the caller after invoking RecycleFrame.
func RecycleFrame(img *image.RGBA) {
	if img == nil || img.Pix == nil {
		return
	}
	framePool.Put(img)
}
