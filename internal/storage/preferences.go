package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/liftadapt/internal/apperr"
	"github.com/claude/liftadapt/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetPreferences returns the stored preferences for a user, or an error
// matching apperr.ErrNotFound when none are stored.
func (db *DB) GetPreferences(ctx context.Context, userID int) (models.Preferences, error) {
	var p models.Preferences
	var focus string
	err := db.Pool.QueryRow(ctx,
		`SELECT aesthetic_focus, last_readiness_score, updated_at
		 FROM user_preferences WHERE user_id = $1`, userID,
	).Scan(&focus, &p.LastReadinessScore, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Preferences{}, apperr.NotFound("storage.GetPreferences", "no preferences for user %d", userID)
	}
	if err != nil {
		return models.Preferences{}, fmt.Errorf("loading preferences for user %d: %w", userID, err)
	}
	p.AestheticFocus = models.AestheticFocus(focus)
	return p, nil
}

// SavePreferences upserts a user's preferences.
func (db *DB) SavePreferences(ctx context.Context, userID int, p models.Preferences) error {
	if !p.AestheticFocus.Valid() {
		p.AestheticFocus = models.DefaultFocus
	}
	if !models.ValidReadiness(p.LastReadinessScore) {
		p.LastReadinessScore = models.DefaultReadiness
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_preferences (user_id, aesthetic_focus, last_readiness_score, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE SET
			aesthetic_focus = EXCLUDED.aesthetic_focus,
			last_readiness_score = EXCLUDED.last_readiness_score,
			updated_at = EXCLUDED.updated_at`,
		userID, string(p.AestheticFocus), p.LastReadinessScore, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving preferences for user %d: %w", userID, err)
	}
	return nil
}

// SaveReadiness records a readiness score without touching the focus.
func (db *DB) SaveReadiness(ctx context.Context, userID int, score float64) error {
	if !models.ValidReadiness(score) {
		return apperr.Validation("storage.SaveReadiness", "readiness %v outside 1-10", score)
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_preferences (user_id, last_readiness_score)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET
			last_readiness_score = EXCLUDED.last_readiness_score,
			updated_at = NOW()`,
		userID, score)
	if err != nil {
		return fmt.Errorf("saving readiness for user %d: %w", userID, err)
	}
	return nil
}
