// Package ingest defines what history importers share: the destination for
// parsed sessions and the summary returned to callers.
package ingest

import (
	"context"

	"github.com/claude/liftadapt/internal/models"
)

// SessionWriter stores parsed sessions for a user. Sets that are already
// stored are skipped; the return value counts the sets actually written.
type SessionWriter interface {
	InsertSessions(ctx context.Context, userID int, sessions []models.Session) (int64, error)
}

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int    `json:"sessions_received"`
	SetsReceived     int    `json:"sets_received"`
	SetsInserted     int64  `json:"sets_inserted"`
	SetsSkipped      int64  `json:"sets_skipped"`
	Message          string `json:"message,omitempty"`
}
