package images

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/soocke/pose-smoother-go/domain/pose"
)

const DefaultRadius = 5

var (
	DefaultPointColor = color.RGBA{R: 255, A: 255}
	DefaultBoneColor  = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	DefaultBackground = color.RGBA{R: 24, G: 24, B: 24, A: 255}
)

// Bone connects two landmark indices.
type Bone [2]int

// BlazePoseBones are the MediaPipe 33-point pose connections.
var BlazePoseBones = []Bone{
	{pose.Nose, pose.LeftEyeInner}, {pose.LeftEyeInner, pose.LeftEye}, {pose.LeftEye, pose.LeftEyeOuter}, {pose.LeftEyeOuter, pose.LeftEar},
	{pose.Nose, pose.RightEyeInner}, {pose.RightEyeInner, pose.RightEye}, {pose.RightEye, pose.RightEyeOuter}, {pose.RightEyeOuter, pose.RightEar},
	{pose.MouthLeft, pose.MouthRight},
	{pose.LeftShoulder, pose.RightShoulder},
	{pose.LeftShoulder, pose.LeftElbow}, {pose.LeftElbow, pose.LeftWrist},
	{pose.LeftWrist, pose.LeftPinky}, {pose.LeftWrist, pose.LeftIndex}, {pose.LeftWrist, pose.LeftThumb}, {pose.LeftPinky, pose.LeftIndex},
	{pose.RightShoulder, pose.RightElbow}, {pose.RightElbow, pose.RightWrist},
	{pose.RightWrist, pose.RightPinky}, {pose.RightWrist, pose.RightIndex}, {pose.RightWrist, pose.RightThumb}, {pose.RightPinky, pose.RightIndex},
	{pose.LeftShoulder, pose.LeftHip}, {pose.RightShoulder, pose.RightHip}, {pose.LeftHip, pose.RightHip},
	{pose.LeftHip, pose.LeftKnee}, {pose.LeftKnee, pose.LeftAnkle}, {pose.LeftAnkle, pose.LeftHeel}, {pose.LeftHeel, pose.LeftFootIndex}, {pose.LeftAnkle, pose.LeftFootIndex},
	{pose.RightHip, pose.RightKnee}, {pose.RightKnee, pose.RightAnkle}, {pose.RightAnkle, pose.RightHeel}, {pose.RightHeel, pose.RightFootIndex}, {pose.RightAnkle, pose.RightFootIndex},
}

// COCOBones are the 17-keypoint PoseNet/COCO connections (nose, eyes, ears,
// shoulders, elbows, wrists, hips, knees, ankles).
var COCOBones = []Bone{
	{0, 1}, {0, 2}, {1, 3}, {2, 4},
	{5, 6}, {5, 7}, {7, 9}, {6, 8}, {8, 10},
	{5, 11}, {6, 12}, {11, 12},
	{11, 13}, {13, 15}, {12, 14}, {14, 16},
}

// BonesFor picks the skeleton matching the landmark count, nil if unknown.
func BonesFor(n int) []Bone {
	switch n {
	case pose.NumBlazePose:
		return BlazePoseBones
	case pose.NumCOCOKeypoint:
		return COCOBones
	}
	return nil
}

// Overlay draws landmark sets onto a fixed-size canvas.
type Overlay struct {
	Width, Height int
	// Landmarks with lower visibility are not drawn.
	MinVisibility float64
	// Pixel disables the normalized [0,1] to canvas mapping; coordinates
	// are then taken as canvas pixels.
	Pixel      bool
	Radius     int
	PointColor color.Color
	BoneColor  color.Color
	Background color.Color
}

// NewOverlay returns an overlay with the default look.
func NewOverlay(w, h int, minVisibility float64) *Overlay {
	return &Overlay{
		Width:         w,
		Height:        h,
		MinVisibility: minVisibility,
		Radius:        DefaultRadius,
		PointColor:    DefaultPointColor,
		BoneColor:     DefaultBoneColor,
		Background:    DefaultBackground,
	}
}

// Point maps a landmark onto the canvas.
func (o *Overlay) Point(l pose.Landmark) image.Point {
	if o.Pixel {
		return image.Pt(int(l.X+0.5), int(l.Y+0.5))
	}
	return image.Pt(int(l.X*float64(o.Width)+0.5), int(l.Y*float64(o.Height)+0.5))
}

// Render draws bg scaled to fit and letterboxed, then the skeleton and
// points of set. bg and set may be nil.
func (o *Overlay) Render(bg image.Image, set pose.LandmarkSet) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(o.Background), image.Point{}, draw.Src)
	if bg != nil {
		b := bg.Bounds()
		scaleInto(canvas, FitRect(b.Dx(), b.Dy(), o.Width, o.Height), bg)
	}
	o.Draw(canvas, set)
	return canvas
}

// Draw paints set onto dst.
func (o *Overlay) Draw(dst *image.RGBA, set pose.LandmarkSet) {
	visible := func(i int) bool { return i < len(set) && set[i].Visibility >= o.MinVisibility }
	for _, b := range BonesFor(len(set)) {
		if visible(b[0]) && visible(b[1]) {
			drawLine(dst, o.Point(set[b[0]]), o.Point(set[b[1]]), o.BoneColor)
		}
	}
	for i := range set {
		if visible(i) {
			fillCircle(dst, o.Point(set[i]), o.Radius, o.PointColor)
		}
	}
}

func fillCircle(dst *image.RGBA, c image.Point, r int, col color.Color) {
	clip := dst.Bounds()
	rr := r * r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > rr {
				continue
			}
			p := image.Pt(c.X+dx, c.Y+dy)
			if p.In(clip) {
				dst.Set(p.X, p.Y, col)
			}
		}
	}
}

// drawLine uses Bresenham's algorithm, clipped to dst.
func drawLine(dst *image.RGBA, a, b image.Point, col color.Color) {
	clip := dst.Bounds()
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	for {
		if a.In(clip) {
			dst.Set(a.X, a.Y, col)
		}
		if a == b {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			a.X += sx
		}
		if e2 <= dx {
			e += dx
			a.Y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
