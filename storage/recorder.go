package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/pose-smoother-go/domain/pose"
)

// SessionInfo describes the run a session records.
type SessionInfo struct {
	Clip      string
	TargetFPS float64
	Alpha     float64
}

// Session is a stored session row.
type Session struct {
	ID        string
	Clip      string
	TargetFPS float64
	Alpha     float64
	StartedAt time.Time
	EndedAt   sql.NullTime
	Frames    int64
}

// FrameRow is one stored admitted frame with its landmarks.
type FrameRow struct {
	Seq       uint64
	Timestamp float64
	MediaMs   float64
	SoftReset bool
	Raw       pose.LandmarkSet
	Smoothed  pose.LandmarkSet
}

// Recorder persists admitted frames under a session. It implements
// pose.Renderer; frames without a pose are counted by the processor but not
// stored.
type Recorder struct {
	db  *DB
	now func() time.Time

	mu      sync.Mutex
	session string
	frames  int64
}

func NewRecorder(db *DB) *Recorder {
	return &Recorder{db: db, now: time.Now}
}

// Begin starts a new session and returns its id. An open session is
// finished first.
func (r *Recorder) Begin(info SessionInfo) (string, error) {
	if err := r.Finish(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err := r.db.Exec(
		`INSERT INTO sessions (session_id, clip, target_fps, alpha, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, info.Clip, info.TargetFPS, info.Alpha, r.now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	r.mu.Lock()
	r.session, r.frames = id, 0
	r.mu.Unlock()
	return id, nil
}

// SessionID returns the open session, or "" when none is open.
func (r *Recorder) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Finish closes the open session, if any.
func (r *Recorder) Finish() error {
	r.mu.Lock()
	id, frames := r.session, r.frames
	r.session = ""
	r.mu.Unlock()
	if id == "" {
		return nil
	}
	_, err := r.db.Exec(`UPDATE sessions SET ended_at = ?, frames = ? WHERE session_id = ?`, r.now().UTC(), frames, id)
	if err != nil {
		return fmt.Errorf("finish session %s: %w", id, err)
	}
	return nil
}

// Render stores one frame and its raw and smoothed landmarks in a single
// transaction.
func (r *Recorder) Render(res pose.Result) error {
	if !res.Found() {
		return nil
	}
	r.mu.Lock()
	id := r.session
	r.mu.Unlock()
	if id == "" {
		return ErrNoSession
	}
	if len(res.Raw) != len(res.Smoothed) {
		return fmt.Errorf("frame %d: %d raw vs %d smoothed landmarks", res.Sequence, len(res.Raw), len(res.Smoothed))
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO frames (session_id, seq, timestamp, media_ms, landmarks, soft_reset) VALUES (?, ?, ?, ?, ?, ?)`,
		id, res.Sequence, res.Input.Timestamp, float64(res.Input.MediaTime)/float64(time.Millisecond), len(res.Smoothed), res.SoftReset,
	)
	if err != nil {
		return fmt.Errorf("insert frame %d: %w", res.Sequence, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO landmarks
		(session_id, seq, idx, raw_x, raw_y, raw_z, smooth_x, smooth_y, smooth_z, visibility)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, s := range res.Smoothed {
		raw := res.Raw[i]
		if _, err := stmt.Exec(id, res.Sequence, i, raw.X, raw.Y, raw.Z, s.X, s.Y, s.Z, s.Visibility); err != nil {
			return fmt.Errorf("insert landmark %d/%d: %w", res.Sequence, i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.mu.Lock()
	if r.session == id {
		r.frames++
	}
	r.mu.Unlock()
	return nil
}

var _ pose.Renderer = (*Recorder)(nil)

// Sessions lists stored sessions, newest first.
func (db *DB) Sessions() ([]Session, error) {
	rows, err := db.Query(`SELECT session_id, clip, target_fps, alpha, started_at, ended_at, frames
		FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Clip, &s.TargetFPS, &s.Alpha, &s.StartedAt, &s.EndedAt, &s.Frames); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Frames loads a session's frames in sequence order.
func (db *DB) Frames(sessionID string) ([]FrameRow, error) {
	rows, err := db.Query(`SELECT f.seq, f.timestamp, f.media_ms, f.soft_reset,
			l.raw_x, l.raw_y, l.raw_z, l.smooth_x, l.smooth_y, l.smooth_z, l.visibility
		FROM frames f JOIN landmarks l ON l.session_id = f.session_id AND l.seq = f.seq
		WHERE f.session_id = ?
		ORDER BY f.seq, l.idx`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FrameRow
	for rows.Next() {
		var (
			seq       uint64
			ts, media float64
			softReset bool
			raw, sm   pose.Landmark
		)
		if err := rows.Scan(&seq, &ts, &media, &softReset, &raw.X, &raw.Y, &raw.Z, &sm.X, &sm.Y, &sm.Z, &sm.Visibility); err != nil {
			return nil, err
		}
		raw.Visibility = sm.Visibility
		if len(out) == 0 || out[len(out)-1].Seq != seq {
			out = append(out, FrameRow{Seq: seq, Timestamp: ts, MediaMs: media, SoftReset: softReset})
		}
		last := &out[len(out)-1]
		last.Raw = append(last.Raw, raw)
		last.Smoothed = append(last.Smoothed, sm)
	}
	return out, rows.Err()
}
