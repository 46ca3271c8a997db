package report

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	rawColor    = color.RGBA{R: 200, G: 60, B: 60, A: 255}
	smoothColor = color.RGBA{R: 40, G: 90, B: 200, A: 255}
)

// Plot draws the raw and smoothed x and y trajectories of the tracked
// landmark against media time and saves the figure to path. The format
// follows the file extension (png, svg, pdf).
func Plot(samples []Sample, landmark int, path string) error {
	if len(samples) == 0 {
		return errors.New("report: no samples to plot")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Landmark %d - raw vs smoothed", landmark)
	p.X.Label.Text = "Media time (s)"
	p.Y.Label.Text = "Position"

	series := []struct {
		label  string
		color  color.Color
		dashed bool
		pick   func(Sample) float64
	}{
		{"raw x", rawColor, false, func(s Sample) float64 { return s.Raw.X }},
		{"smoothed x", smoothColor, false, func(s Sample) float64 { return s.Smoothed.X }},
		{"raw y", rawColor, true, func(s Sample) float64 { return s.Raw.Y }},
		{"smoothed y", smoothColor, true, func(s Sample) float64 { return s.Smoothed.Y }},
	}
	for _, sr := range series {
		pts := make(plotter.XYs, len(samples))
		for i, s := range samples {
			pts[i] = plotter.XY{X: s.MediaTime.Seconds(), Y: sr.pick(s)}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = sr.color
		line.Width = vg.Points(1)
		if sr.dashed {
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(line)
		p.Legend.Add(sr.label, line)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
