package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/liftadapt/internal/models"
	"github.com/google/uuid"
)

// Adaptation log operations.
const (
	OpAdapt      = "adapt"
	OpSubstitute = "substitute"
)

// AdaptationLog is an audit entry for a workout returned by the engine.
type AdaptationLog struct {
	ID             uuid.UUID             `json:"id"`
	UserID         int                   `json:"user_id"`
	CreatedAt      time.Time             `json:"created_at"`
	WorkoutID      uuid.UUID             `json:"workout_id"`
	Operation      string                `json:"operation"`
	AestheticFocus models.AestheticFocus `json:"aesthetic_focus"`
	ReadinessLevel float64               `json:"readiness_level"`
	VolumeReduced  bool                  `json:"volume_reduced"`
	ExerciseCount  int                   `json:"exercise_count"`
	Workout        json.RawMessage       `json:"workout"`
}

// NewAdaptationLog summarises w for the log.
func NewAdaptationLog(userID int, op string, w models.Workout) (AdaptationLog, error) {
	raw, err := json.Marshal(w)
	if err != nil {
		return AdaptationLog{}, fmt.Errorf("encoding workout: %w", err)
	}
	l := AdaptationLog{
		ID:            uuid.New(),
		UserID:        userID,
		WorkoutID:     w.ID,
		Operation:     op,
		ExerciseCount: len(w.Exercises),
		Workout:       raw,
	}
	if a := w.Adaptations; a != nil {
		l.AestheticFocus = a.AestheticFocus
		l.ReadinessLevel = a.ReadinessLevel
		l.VolumeReduced = a.VolumeReduced
	}
	return l, nil
}

// InsertAdaptationLog stores an entry.
func (db *DB) InsertAdaptationLog(ctx context.Context, l AdaptationLog) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO adaptation_logs (id, user_id, workout_id, operation, aesthetic_focus,
		 readiness_level, volume_reduced, exercise_count, workout)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		l.ID, l.UserID, l.WorkoutID, l.Operation, string(l.AestheticFocus),
		l.ReadinessLevel, l.VolumeReduced, l.ExerciseCount, l.Workout,
	)
	if err != nil {
		return fmt.Errorf("inserting adaptation log: %w", err)
	}
	return nil
}

// QueryAdaptationLogs returns the most recent entries for a user.
func (db *DB) QueryAdaptationLogs(ctx context.Context, userID, limit int) ([]AdaptationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, created_at, workout_id, operation, aesthetic_focus,
		 readiness_level, volume_reduced, exercise_count, workout
		 FROM adaptation_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying adaptation logs: %w", err)
	}
	defer rows.Close()

	var result []AdaptationLog
	for rows.Next() {
		var l AdaptationLog
		var focus string
		if err := rows.Scan(&l.ID, &l.UserID, &l.CreatedAt, &l.WorkoutID, &l.Operation, &focus,
			&l.ReadinessLevel, &l.VolumeReduced, &l.ExerciseCount, &l.Workout); err != nil {
			return nil, fmt.Errorf("scanning adaptation log: %w", err)
		}
		l.AestheticFocus = models.AestheticFocus(focus)
		result = append(result, l)
	}
	return result, rows.Err()
}
