package pose

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrameGate_RejectsInvalidRate(t *testing.T) {
	for _, fps := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err := NewFrameGate(fps, 0)
		assert.ErrorIs(t, err, ErrInvalidInput, "fps=%v", fps)
	}
}

func TestFrameGate_AdmitsEveryExactPeriod(t *testing.T) {
	for _, fps := range []float64{3, 7, 8, 10, 24, 25, 30, 50, 60} {
		g, err := NewFrameGate(fps, 0)
		require.NoError(t, err)
		period := g.FramePeriod()
		for k := 1; k <= 1000; k++ {
			now := float64(k) * period
			require.True(t, g.ShouldAdmit(now), "fps=%v k=%d now=%v", fps, k, now)
		}
	}
}

func TestFrameGate_RejectsWithinPeriod(t *testing.T) {
	g, err := NewFrameGate(10, 0)
	require.NoError(t, err)

	require.True(t, g.ShouldAdmit(100))
	assert.False(t, g.ShouldAdmit(150))
	assert.False(t, g.ShouldAdmit(199.9))
	assert.Equal(t, 100.0, g.LastAdmitted(), "rejection must not move the gate")
	assert.True(t, g.ShouldAdmit(200))
}

func TestFrameGate_FirstPeriodStartsAtConstruction(t *testing.T) {
	g, err := NewFrameGate(10, 1000)
	require.NoError(t, err)
	assert.False(t, g.ShouldAdmit(1050))
	assert.True(t, g.ShouldAdmit(1100))
}

func TestFrameGate_CarriesOvershoot(t *testing.T) {
	g, err := NewFrameGate(10, 0)
	require.NoError(t, err)

	require.True(t, g.ShouldAdmit(130))
	assert.InDelta(t, 100.0, g.LastAdmitted(), 1e-9)
	// 199 is only 99ms past the corrected boundary.
	assert.False(t, g.ShouldAdmit(199))
	assert.True(t, g.ShouldAdmit(200))

	// A stall spanning several periods snaps to the latest boundary.
	require.True(t, g.ShouldAdmit(450))
	assert.InDelta(t, 400.0, g.LastAdmitted(), 1e-9)
}

func TestFrameGate_Reset(t *testing.T) {
	g, err := NewFrameGate(10, 0)
	require.NoError(t, err)
	require.True(t, g.ShouldAdmit(100))
	g.Reset(5000)
	assert.False(t, g.ShouldAdmit(5050))
	assert.True(t, g.ShouldAdmit(5100))
}

func TestFrameGate_LongRunRateConverges(t *testing.T) {
	cases := []struct {
		fps  float64
		tick float64
	}{
		{fps: 10, tick: 16},
		{fps: 24, tick: 1000.0 / 60},
		{fps: 30, tick: 7},
		{fps: 12, tick: 50},
	}
	for _, c := range cases {
		g, err := NewFrameGate(c.fps, 0)
		require.NoError(t, err)
		const n = 20000
		admitted := 0
		for i := 1; i <= n; i++ {
			if g.ShouldAdmit(float64(i) * c.tick) {
				admitted++
			}
		}
		want := c.tick / g.FramePeriod()
		got := float64(admitted) / n
		assert.InDelta(t, want, got, 0.002, "fps=%v tick=%v", c.fps, c.tick)
	}
}

func TestFrameGate_NaiveResetWouldDrift(t *testing.T) {
	// Reference for the overshoot correction: a gate that sets
	// lastAdmitted=now admits noticeably fewer frames at a 16ms tick.
	const period, tick, n = 100.0, 16.0, 20000
	last := 0.0
	naive := 0
	for i := 1; i <= n; i++ {
		now := float64(i) * tick
		if now-last >= period {
			last = now
			naive++
		}
	}
	g, err := NewFrameGate(10, 0)
	require.NoError(t, err)
	corrected := 0
	for i := 1; i <= n; i++ {
		if g.ShouldAdmit(float64(i) * tick) {
			corrected++
		}
	}
	assert.Less(t, naive, corrected)
	assert.InDelta(t, n*tick/period, corrected, 1)
}
