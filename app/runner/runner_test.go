package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pose-smoother-go/config"
	"github.com/soocke/pose-smoother-go/domain/pose"
	"github.com/soocke/pose-smoother-go/domain/stream"
	"github.com/soocke/pose-smoother-go/storage"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DBPath = filepath.Join(dir, "sessions.db")
	cfg.PlotPath = filepath.Join(dir, "plot.png")
	cfg.FramesDir = filepath.Join(dir, "frames")
	return cfg
}

func TestBuild_UsesSampleClip(t *testing.T) {
	p, err := Build(testConfig(t), discardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	assert.Equal(t, "sample", p.Clip.Name)
	assert.Equal(t, p.Clip.Duration(), p.Stream.Duration())
	assert.NotNil(t, p.Recorder)
}

func TestBuild_MissingClip(t *testing.T) {
	cfg := testConfig(t)
	cfg.ClipPath = filepath.Join(t.TempDir(), "missing.jsonl")
	_, err := Build(cfg, discardLogger)
	assert.Error(t, err)
}

func TestBuild_NoDB(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBPath = ""
	p, err := Build(cfg, discardLogger)
	require.NoError(t, err)
	assert.Nil(t, p.Recorder)
	assert.NoError(t, p.Close())
}

// The sample clip lasts ~2967 ms. With 16 ms host ticks the last processed
// tick is 2960 ms, and a 10 fps gate admits the ticks at or after each
// multiple of 100 ms up to 2900 ms.
func TestHeadlessRun_PlaysClipOnce(t *testing.T) {
	cfg := testConfig(t)
	p, err := Build(cfg, discardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	h, err := newHeadlessRun(p, 0)
	require.NoError(t, err)
	p.Stream.Play(0)
	now := 0.0
	for {
		now += 16
		if !h.step(now) {
			break
		}
	}
	assert.Equal(t, stream.StateEnded, p.Stream.Current())

	st := h.proc.Stats()
	assert.EqualValues(t, 185, st.Ticks)
	assert.EqualValues(t, 29, st.Admitted)
	assert.Zero(t, st.DetectErrors)
	assert.Zero(t, st.RenderErrors)

	summary, err := h.finish()
	require.NoError(t, err)
	assert.Equal(t, 28, summary.Steps)
	assert.Greater(t, summary.RawMean, 0.0)
	assert.Less(t, summary.SmoothMean, summary.RawMean)

	_, err = os.Stat(cfg.PlotPath)
	assert.NoError(t, err, "plot should be written")
	files, err := filepath.Glob(filepath.Join(cfg.FramesDir, "frame_*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 29)

	sessions, err := p.DB.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].EndedAt.Valid)
	assert.EqualValues(t, 29, sessions[0].Frames)
	assert.Equal(t, "sample", sessions[0].Clip)
}

func TestPipeline_SessionPerRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.PlotPath, cfg.FramesDir = "", ""
	p, err := Build(cfg, discardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	p.Stream.Play(0)
	first := p.Recorder.SessionID()
	require.NotEmpty(t, first)
	p.Stream.Pause(1)
	assert.Equal(t, first, p.Recorder.SessionID(), "pause keeps the session open")
	p.Stream.Stop()
	assert.Empty(t, p.Recorder.SessionID())
	p.Stream.Play(2)
	assert.NotEqual(t, first, p.Recorder.SessionID())

	sessions, err := p.DB.Sessions()
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func playFor(t *testing.T, p *Pipeline, proc *pose.Processor, from, to float64) {
	t.Helper()
	for now := from; now <= to; now += 16 {
		media := p.Stream.Tick(now / 1000)
		_, _, err := proc.Process(pose.FrameInput{Timestamp: now, MediaTime: media})
		require.NoError(t, err, "now=%v", now)
	}
}

func findSession(t *testing.T, sessions []storage.Session, id string) storage.Session {
	t.Helper()
	for _, s := range sessions {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("session %s not stored", id)
	return storage.Session{}
}

func TestPipeline_RebuildWhilePausedStartsNewSession(t *testing.T) {
	cfg := testConfig(t)
	cfg.PlotPath, cfg.FramesDir = "", ""
	p, err := Build(cfg, discardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	proc, err := p.NewProcessor(*cfg, nil, 0)
	require.NoError(t, err)
	p.Stream.Play(0)
	first := p.Recorder.SessionID()
	playFor(t, p, proc, 16, 496)
	p.Stream.Pause(0.5)

	changed := *cfg
	changed.Alpha = 0.3
	rebuilt, err := p.NewProcessor(changed, nil, 600)
	require.NoError(t, err)
	second := p.Recorder.SessionID()
	require.NotEmpty(t, second)
	assert.NotEqual(t, first, second)

	p.Stream.Play(0.6)
	playFor(t, p, rebuilt, 616, 1000)
	assert.Zero(t, rebuilt.Stats().RenderErrors)
	require.NoError(t, p.Recorder.Finish())

	sessions, err := p.DB.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	old := findSession(t, sessions, first)
	assert.True(t, old.EndedAt.Valid)
	assert.EqualValues(t, proc.Stats().Admitted, old.Frames)
	assert.Equal(t, cfg.Alpha, old.Alpha)
	cur := findSession(t, sessions, second)
	assert.EqualValues(t, rebuilt.Stats().Admitted, cur.Frames)
	assert.Equal(t, 0.3, cur.Alpha)

	frames, err := p.DB.Frames(second)
	require.NoError(t, err)
	require.NotEmpty(t, frames)
	assert.EqualValues(t, 1, frames[0].Seq)
}

func TestRunHeadless_Cancelled(t *testing.T) {
	cfg := testConfig(t)
	cfg.PlotPath, cfg.FramesDir = "", ""
	p, err := Build(cfg, discardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = RunHeadless(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, stream.StateIdle, p.Stream.Current())
	assert.Empty(t, p.Recorder.SessionID())
}
