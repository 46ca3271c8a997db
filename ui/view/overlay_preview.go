package view

import (
	"image"

	"github.com/soocke/pose-smoother-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// OverlayPreview shows the landmark canvas and a zoomed crop around the pose.
type OverlayPreview interface {
	UpdateOverlay(img image.Image)
	UpdateDetail(img image.Image)
	Reset()
}

type overlayPreview struct {
	overlayLabel     *LabelWidget
	detailLabel      *LabelWidget
	maxW, maxH       int
	prevOverlayPhoto *Img
	prevDetailPhoto  *Img
	placeholder      []byte
}

const (
	placeholderW = 200
	placeholderH = 120
)

// NewOverlayPreview creates the preview labels in row. The overlay spans
// columns 0-3, the detail crop sits in column 4. Overlays larger than
// maxW x maxH are scaled down for display.
func NewOverlayPreview(row, maxW, maxH int) OverlayPreview {
	if maxW < 50 {
		maxW = 50
	}
	if maxH < 50 {
		maxH = 50
	}
	pngBytes := placeholderPNG()
	ovPhoto := NewPhoto(Data(pngBytes))
	detPhoto := NewPhoto(Data(pngBytes))
	overlay := Label(Image(ovPhoto), Borderwidth(1), Relief("sunken"))
	detail := Label(Image(detPhoto), Borderwidth(1), Relief("sunken"))
	Grid(overlay, Row(row), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	Grid(detail, Row(row), Column(4), Sticky("n"), Padx("0.4m"), Pady("0.4m"))
	return &overlayPreview{
		overlayLabel:     overlay,
		detailLabel:      detail,
		maxW:             maxW,
		maxH:             maxH,
		prevOverlayPhoto: ovPhoto,
		prevDetailPhoto:  detPhoto,
		placeholder:      pngBytes,
	}
}

func placeholderPNG() []byte {
	return images.EncodePNG(image.NewRGBA(image.Rect(0, 0, placeholderW, placeholderH)))
}

// swap replaces the label's photo, deleting the previous one so Tk does not
// keep obsolete pixel buffers alive.
func swap(lbl *LabelWidget, prev **Img, pngBytes []byte) {
	if lbl == nil || len(pngBytes) == 0 {
		return
	}
	if *prev != nil {
		(*prev).Delete()
	}
	*prev = NewPhoto(Data(pngBytes))
	lbl.Configure(Image(*prev))
}

func (v *overlayPreview) UpdateOverlay(img image.Image) {
	if img == nil {
		return
	}
	swap(v.overlayLabel, &v.prevOverlayPhoto, images.EncodePNG(images.ScaleToFit(img, v.maxW, v.maxH)))
}

// UpdateDetail shows img, or the placeholder when img is nil (no pose).
func (v *overlayPreview) UpdateDetail(img image.Image) {
	if img == nil {
		swap(v.detailLabel, &v.prevDetailPhoto, v.placeholder)
		return
	}
	swap(v.detailLabel, &v.prevDetailPhoto, images.EncodePNG(img))
}

func (v *overlayPreview) Reset() {
	swap(v.overlayLabel, &v.prevOverlayPhoto, v.placeholder)
	swap(v.detailLabel, &v.prevDetailPhoto, v.placeholder)
}
