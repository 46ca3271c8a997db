package pose

import "math"

const jitterWindowSize = 20

// JitterStats summarises recent frame-to-frame landmark displacement.
type JitterStats struct {
	Samples     int
	RawMean     float64
	RawStd      float64
	SmoothMean  float64
	SmoothStd   float64
	LastRaw     float64
	LastSmooth  float64
	Attenuation float64 // 1 - SmoothMean/RawMean, 0 when undefined
}

// JitterMonitor keeps a rolling window of mean per-landmark displacement
// between consecutive admitted frames, for both raw and smoothed sets.
// Not safe for concurrent use.
type JitterMonitor struct {
	prevRaw, prevSmooth LandmarkSet
	raw, smooth         []float64
	idx, count          int
	lastRaw, lastSmooth float64
}

func NewJitterMonitor() *JitterMonitor {
	return &JitterMonitor{
		raw:    make([]float64, jitterWindowSize),
		smooth: make([]float64, jitterWindowSize),
	}
}

// Observe records one admitted frame. A length change restarts the pairing
// without clearing the window.
func (m *JitterMonitor) Observe(raw, smoothed LandmarkSet) {
	if len(raw) == 0 || len(raw) != len(smoothed) {
		return
	}
	if len(m.prevRaw) == len(raw) {
		m.lastRaw = MeanDisplacement(m.prevRaw, raw)
		m.lastSmooth = MeanDisplacement(m.prevSmooth, smoothed)
		m.raw[m.idx] = m.lastRaw
		m.smooth[m.idx] = m.lastSmooth
		m.idx = (m.idx + 1) % jitterWindowSize
		if m.count < jitterWindowSize {
			m.count++
		}
	}
	m.prevRaw = raw.Clone()
	m.prevSmooth = smoothed.Clone()
}

// Reset clears pairing state and the window.
func (m *JitterMonitor) Reset() {
	m.prevRaw, m.prevSmooth = nil, nil
	m.idx, m.count = 0, 0
	m.lastRaw, m.lastSmooth = 0, 0
	for i := range m.raw {
		m.raw[i] = 0
		m.smooth[i] = 0
	}
}

// Stats returns the window summary.
func (m *JitterMonitor) Stats() JitterStats {
	st := JitterStats{Samples: m.count, LastRaw: m.lastRaw, LastSmooth: m.lastSmooth}
	st.RawMean, st.RawStd = windowMeanStd(m.raw[:m.count])
	st.SmoothMean, st.SmoothStd = windowMeanStd(m.smooth[:m.count])
	if st.RawMean > 0 {
		st.Attenuation = 1 - st.SmoothMean/st.RawMean
	}
	return st
}

// MeanDisplacement is the mean Euclidean distance between matching indices
// of a and b. Sets of different length yield 0.
func MeanDisplacement(a, b LandmarkSet) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		dx := b[i].X - a[i].X
		dy := b[i].Y - a[i].Y
		dz := b[i].Z - a[i].Z
		sum += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return sum / float64(len(a))
}

// windowMeanStd uses Welford's update; std is the sample deviation.
func windowMeanStd(xs []float64) (mean, std float64) {
	var m2 float64
	for i, x := range xs {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	if len(xs) > 1 {
		std = math.Sqrt(m2 / float64(len(xs)-1))
	}
	return mean, std
}
