// Package localstore keeps preferences and set history in a single SQLite
// file so the CLI can run the engine without a server.
package localstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/liftadapt/internal/apperr"
	"github.com/claude/liftadapt/internal/models"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_preferences (
	user_id              INTEGER PRIMARY KEY,
	aesthetic_focus      TEXT NOT NULL,
	last_readiness_score REAL NOT NULL,
	updated_at           INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS workout_sets (
	user_id            INTEGER NOT NULL,
	session_name       TEXT NOT NULL,
	session_date       INTEGER NOT NULL,
	session_duration   TEXT NOT NULL,
	exercise_number    INTEGER NOT NULL,
	exercise_name      TEXT NOT NULL,
	equipment          TEXT NOT NULL,
	target_reps        INTEGER NOT NULL,
	is_warmup          INTEGER NOT NULL,
	set_number         INTEGER NOT NULL,
	weight_kg          REAL NOT NULL,
	is_bodyweight_plus INTEGER NOT NULL,
	reps               INTEGER NOT NULL,
	rir                REAL NOT NULL,
	PRIMARY KEY (user_id, session_date, exercise_number, is_warmup, set_number)
);
CREATE TABLE IF NOT EXISTS imported_files (
	path        TEXT PRIMARY KEY,
	hash        TEXT NOT NULL,
	imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// Store is a SQLite-backed preference store and set history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetPreferences returns the stored preferences for a user, or an error
// matching apperr.ErrNotFound.
func (s *Store) GetPreferences(ctx context.Context, userID int) (models.Preferences, error) {
	var focus string
	var score float64
	var updated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT aesthetic_focus, last_readiness_score, updated_at FROM user_preferences WHERE user_id = ?`,
		userID,
	).Scan(&focus, &score, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Preferences{}, apperr.NotFound("localstore.GetPreferences", "no preferences for user %d", userID)
	}
	if err != nil {
		return models.Preferences{}, fmt.Errorf("loading preferences: %w", err)
	}
	return models.Preferences{
		AestheticFocus:     models.AestheticFocus(focus),
		LastReadinessScore: score,
		UpdatedAt:          time.Unix(updated, 0).UTC(),
	}, nil
}

// SavePreferences replaces a user's preferences.
func (s *Store) SavePreferences(ctx context.Context, userID int, p models.Preferences) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO user_preferences (user_id, aesthetic_focus, last_readiness_score, updated_at)
		 VALUES (?, ?, ?, ?)`,
		userID, string(p.AestheticFocus), p.LastReadinessScore, p.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}

// SaveReadiness records a readiness score, keeping any stored focus.
func (s *Store) SaveReadiness(ctx context.Context, userID int, score float64) error {
	if !models.ValidReadiness(score) {
		return apperr.Validation("localstore.SaveReadiness", "readiness %v outside 1-10", score)
	}
	p, err := s.GetPreferences(ctx, userID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if !p.AestheticFocus.Valid() {
		p.AestheticFocus = models.DefaultFocus
	}
	p.LastReadinessScore = score
	p.UpdatedAt = s.now()
	return s.SavePreferences(ctx, userID, p)
}

// InsertSessions stores the sets of each session. Sets already present are
// skipped. Returns the number of sets inserted.
func (s *Store) InsertSessions(ctx context.Context, userID int, sessions []models.Session) (int64, error) {
	rows := models.RowsFromSessions(userID, sessions)
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO workout_sets (user_id, session_name,
		session_date, session_duration, exercise_number, exercise_name, equipment, target_reps,
		is_warmup, set_number, weight_kg, is_bodyweight_plus, reps, rir)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, r := range rows {
		res, err := stmt.ExecContext(ctx, r.UserID, r.SessionName, r.SessionDate.Unix(), r.SessionDuration,
			r.ExerciseNumber, r.ExerciseName, r.Equipment, r.TargetReps,
			r.IsWarmup, r.SetNumber, r.WeightKg, r.IsBodyweightPlus, r.Reps, r.RIR)
		if err != nil {
			return 0, fmt.Errorf("inserting set: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting inserted sets: %w", err)
		}
		inserted += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing sets: %w", err)
	}
	return inserted, nil
}

// History returns the sessions logged in [since, until), oldest first.
func (s *Store) History(ctx context.Context, userID int, since, until time.Time) ([]models.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, session_name, session_date, session_duration, exercise_number, exercise_name,
		 equipment, target_reps, is_warmup, set_number, weight_kg, is_bodyweight_plus, reps, rir
		 FROM workout_sets
		 WHERE user_id = ? AND session_date >= ? AND session_date < ?
		 ORDER BY session_date ASC, exercise_number ASC, is_warmup DESC, set_number ASC`,
		userID, since.Unix(), until.Unix())
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSetRow
	for rows.Next() {
		var r models.WorkoutSetRow
		var date int64
		if err := rows.Scan(&r.UserID, &r.SessionName, &date, &r.SessionDuration,
			&r.ExerciseNumber, &r.ExerciseName, &r.Equipment, &r.TargetReps,
			&r.IsWarmup, &r.SetNumber, &r.WeightKg, &r.IsBodyweightPlus, &r.Reps, &r.RIR); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		r.SessionDate = time.Unix(date, 0).UTC()
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return models.SessionsFromRows(result), nil
}

// IsImported reports whether path was already imported with the same content hash.
func (s *Store) IsImported(ctx context.Context, path, hash string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM imported_files WHERE path = ? AND hash = ?`, path, hash,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking imported files: %w", err)
	}
	return count > 0, nil
}

// MarkImported records that path was imported with hash.
func (s *Store) MarkImported(ctx context.Context, path, hash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO imported_files (path, hash) VALUES (?, ?)`, path, hash)
	if err != nil {
		return fmt.Errorf("marking %s imported: %w", path, err)
	}
	return nil
}

// Ledger is an imported-files record under its own namespace, so files
// uploaded to a server are tracked apart from local imports.
type Ledger struct {
	store *Store
	scope string
}

// Ledger returns the imported-files record for scope.
func (s *Store) Ledger(scope string) *Ledger {
	return &Ledger{store: s, scope: scope}
}

// IsImported reports whether path was recorded under the ledger's scope with hash.
func (l *Ledger) IsImported(ctx context.Context, path, hash string) (bool, error) {
	return l.store.IsImported(ctx, l.key(path), hash)
}

// MarkImported records path with hash under the ledger's scope.
func (l *Ledger) MarkImported(ctx context.Context, path, hash string) error {
	return l.store.MarkImported(ctx, l.key(path), hash)
}

func (l *Ledger) key(path string) string {
	return l.scope + "|" + path
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
