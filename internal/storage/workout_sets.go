package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftadapt/internal/models"
)

const (
	setColumns = 14
	// maxSetsPerInsert keeps a batch under PostgreSQL's 65535 bind parameters.
	maxSetsPerInsert = 4000
)

// InsertWorkoutSets batch-inserts logged sets. Rows already stored are
// skipped. Returns count inserted.
func (db *DB) InsertWorkoutSets(ctx context.Context, rows []models.WorkoutSetRow) (int64, error) {
	var total int64
	for start := 0; start < len(rows); start += maxSetsPerInsert {
		end := min(start+maxSetsPerInsert, len(rows))
		query, args := buildSetInsert(rows[start:end])
		tag, err := db.Pool.Exec(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("inserting workout sets: %w", err)
		}
		total += tag.RowsAffected()
	}
	return total, nil
}

// InsertSessions flattens sessions into set rows for userID and stores them.
func (db *DB) InsertSessions(ctx context.Context, userID int, sessions []models.Session) (int64, error) {
	return db.InsertWorkoutSets(ctx, models.RowsFromSessions(userID, sessions))
}

func buildSetInsert(rows []models.WorkoutSetRow) (string, []any) {
	var b strings.Builder
	b.WriteString(`INSERT INTO workout_sets (user_id, session_name, session_date, session_duration,
		exercise_number, exercise_name, equipment, target_reps, is_warmup, set_number,
		weight_kg, is_bodyweight_plus, reps, rir) VALUES `)
	args := make([]any, 0, len(rows)*setColumns)

	for i, r := range rows {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		for c := range setColumns {
			if c > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "$%d", i*setColumns+c+1)
		}
		b.WriteByte(')')
		args = append(args, r.UserID, r.SessionName, r.SessionDate, r.SessionDuration,
			r.ExerciseNumber, r.ExerciseName, r.Equipment, r.TargetReps,
			r.IsWarmup, r.SetNumber, r.WeightKg, r.IsBodyweightPlus, r.Reps, r.RIR)
	}
	b.WriteString(" ON CONFLICT DO NOTHING")
	return b.String(), args
}

// QueryWorkoutSets retrieves workout sets in a date range.
func (db *DB) QueryWorkoutSets(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutSetRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT user_id, session_name, session_date, session_duration,
		 exercise_number, exercise_name, equipment, target_reps,
		 is_warmup, set_number, weight_kg, is_bodyweight_plus, reps, rir
		 FROM workout_sets
		 WHERE session_date >= $1 AND session_date < $2 AND user_id = $3
		 ORDER BY session_date ASC, exercise_number ASC, is_warmup DESC, set_number ASC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workout sets: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSetRow
	for rows.Next() {
		var r models.WorkoutSetRow
		if err := rows.Scan(&r.UserID, &r.SessionName, &r.SessionDate, &r.SessionDuration,
			&r.ExerciseNumber, &r.ExerciseName, &r.Equipment, &r.TargetReps,
			&r.IsWarmup, &r.SetNumber, &r.WeightKg, &r.IsBodyweightPlus, &r.Reps, &r.RIR); err != nil {
			return nil, fmt.Errorf("scanning workout set: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// History returns the sessions a user logged in [since, until), oldest first.
func (db *DB) History(ctx context.Context, userID int, since, until time.Time) ([]models.Session, error) {
	rows, err := db.QueryWorkoutSets(ctx, since, until, userID)
	if err != nil {
		return nil, err
	}
	return models.SessionsFromRows(rows), nil
}
