package storage

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/pose-smoother-go/domain/pose"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "sessions.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_MigratesToLatest(t *testing.T) {
	db := openTestDB(t)
	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	for _, table := range []string{"sessions", "frames", "landmarks"} {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n))
		assert.Equal(t, 1, n, table)
	}

	// Running again is a no-op.
	require.NoError(t, db.MigrateUp())
}

func TestMigrateDown(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.MigrateDown())
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='sessions'`).Scan(&n))
	assert.Zero(t, n)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	db, err := Open(path, nil)
	require.NoError(t, err)
	_, err = NewRecorder(db).Begin(SessionInfo{Clip: "a", TargetFPS: 10, Alpha: 0.5})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path, nil)
	require.NoError(t, err)
	defer db.Close()
	sessions, err := db.Sessions()
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestMigrateLogger_UsesInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	migrateLogger{logger: logger}.Printf("%d/u init\n", 1)
	assert.Contains(t, buf.String(), `msg="1/u init"`)
	assert.Contains(t, buf.String(), "component=migrate")

	assert.NotPanics(t, func() { migrateLogger{}.Printf("ignored") })

	db, err := Open(filepath.Join(t.TempDir(), "sessions.db"), logger)
	require.NoError(t, err)
	defer db.Close()
	assert.Same(t, logger, db.logger)
}

func result(seq uint64, raw, smoothed pose.LandmarkSet) pose.Result {
	return pose.Result{
		Sequence: seq,
		Input:    pose.FrameInput{Timestamp: float64(seq) * 100, MediaTime: time.Duration(seq) * 100 * time.Millisecond},
		Raw:      raw,
		Smoothed: smoothed,
	}
}

func TestRecorder_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	rec := NewRecorder(db)

	require.ErrorIs(t, rec.Render(result(1, pose.LandmarkSet{{X: 1}}, pose.LandmarkSet{{X: 1}})), ErrNoSession)

	id, err := rec.Begin(SessionInfo{Clip: "sample", TargetFPS: 10, Alpha: 0.5})
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.SessionID())

	raw1 := pose.LandmarkSet{{X: 0.1, Y: 0.2, Z: 0.3, Visibility: 0.9}, {X: 0.4, Y: 0.5, Z: 0.6, Visibility: 0.8}}
	sm1 := raw1.Clone()
	raw2 := pose.LandmarkSet{{X: 0.3, Y: 0.2, Z: 0.1, Visibility: 0.7}, {X: 0.6, Y: 0.5, Z: 0.4, Visibility: 0.6}}
	sm2 := pose.LandmarkSet{{X: 0.2, Y: 0.2, Z: 0.2, Visibility: 0.7}, {X: 0.5, Y: 0.5, Z: 0.5, Visibility: 0.6}}
	require.NoError(t, rec.Render(result(1, raw1, sm1)))
	second := result(2, raw2, sm2)
	second.SoftReset = true
	require.NoError(t, rec.Render(second))
	// Frames without a pose are skipped.
	require.NoError(t, rec.Render(result(3, nil, nil)))

	frames, err := db.Frames(id)
	require.NoError(t, err)
	want := []FrameRow{
		{Seq: 1, Timestamp: 100, MediaMs: 100, Raw: raw1, Smoothed: sm1},
		{Seq: 2, Timestamp: 200, MediaMs: 200, SoftReset: true, Raw: raw2, Smoothed: sm2},
	}
	if diff := cmp.Diff(want, frames); diff != "" {
		t.Fatalf("frames mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, rec.Finish())
	assert.Empty(t, rec.SessionID())
	sessions, err := db.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, id, sessions[0].ID)
	assert.Equal(t, "sample", sessions[0].Clip)
	assert.Equal(t, int64(2), sessions[0].Frames)
	assert.True(t, sessions[0].EndedAt.Valid)
}

func TestRecorder_BeginFinishesPrevious(t *testing.T) {
	db := openTestDB(t)
	rec := NewRecorder(db)
	first, err := rec.Begin(SessionInfo{TargetFPS: 10, Alpha: 0.5})
	require.NoError(t, err)
	second, err := rec.Begin(SessionInfo{TargetFPS: 10, Alpha: 0.5})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	sessions, err := db.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	ended := map[string]bool{}
	for _, s := range sessions {
		ended[s.ID] = s.EndedAt.Valid
	}
	assert.True(t, ended[first])
	assert.False(t, ended[second])
}

func TestRecorder_LengthMismatch(t *testing.T) {
	rec := NewRecorder(openTestDB(t))
	_, err := rec.Begin(SessionInfo{TargetFPS: 10, Alpha: 0.5})
	require.NoError(t, err)
	err = rec.Render(result(1, pose.LandmarkSet{{X: 1}}, pose.LandmarkSet{{X: 1}, {X: 2}}))
	assert.ErrorContains(t, err, "raw vs")
}
