package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/liftadapt/internal/ingest"
)

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	w   ingest.SessionWriter
	log *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider writing to w.
func NewProvider(w ingest.SessionWriter, log *slog.Logger) *Provider {
	return &Provider{w: w, log: log}
}

// Ingest parses a CSV export and stores its sets for userID.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{SessionsReceived: len(sessions)}
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			result.SetsReceived += len(ex.Sets)
		}
	}
	if result.SetsReceived == 0 {
		result.Message = "no sets found in export"
		return result, nil
	}

	inserted, err := p.w.InsertSessions(ctx, userID, sessions)
	if err != nil {
		return nil, fmt.Errorf("inserting sets: %w", err)
	}
	result.SetsInserted = inserted
	result.SetsSkipped = int64(result.SetsReceived) - inserted

	p.log.Info("alpha import complete",
		"user_id", userID,
		"sessions", result.SessionsReceived,
		"sets_received", result.SetsReceived,
		"sets_inserted", result.SetsInserted,
	)
	return result, nil
}
