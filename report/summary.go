package report

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary compares raw and smoothed frame-to-frame displacement.
type Summary struct {
	Steps       int
	RawMean     float64
	RawStd      float64
	RawP95      float64
	SmoothMean  float64
	SmoothStd   float64
	SmoothP95   float64
	Attenuation float64 // 1 - SmoothMean/RawMean, 0 when RawMean is 0
}

// Summarize computes mean, sample standard deviation and 95th percentile
// of both displacement series.
func Summarize(steps []Step) Summary {
	s := Summary{Steps: len(steps)}
	if len(steps) == 0 {
		return s
	}
	raw := make([]float64, len(steps))
	smooth := make([]float64, len(steps))
	for i, st := range steps {
		raw[i] = st.Raw
		smooth[i] = st.Smoothed
	}
	s.RawMean, s.RawStd = meanStd(raw)
	s.SmoothMean, s.SmoothStd = meanStd(smooth)
	sort.Float64s(raw)
	sort.Float64s(smooth)
	s.RawP95 = stat.Quantile(0.95, stat.Empirical, raw, nil)
	s.SmoothP95 = stat.Quantile(0.95, stat.Empirical, smooth, nil)
	if s.RawMean > 0 {
		s.Attenuation = 1 - s.SmoothMean/s.RawMean
	}
	return s
}

// stat.MeanStdDev yields NaN for a single sample.
func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 1 {
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}

// LogAttrs flattens the summary into slog key/value pairs.
func (s Summary) LogAttrs() []any {
	return []any{
		"steps", s.Steps,
		"raw_mean", s.RawMean,
		"raw_std", s.RawStd,
		"raw_p95", s.RawP95,
		"smooth_mean", s.SmoothMean,
		"smooth_std", s.SmoothStd,
		"smooth_p95", s.SmoothP95,
		"attenuation", s.Attenuation,
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("steps=%d raw=%.4f±%.4f smooth=%.4f±%.4f attenuation=%.0f%%",
		s.Steps, s.RawMean, s.RawStd, s.SmoothMean, s.SmoothStd, s.Attenuation*100)
}
