package mcp

import (
	"context"
	"time"

	"github.com/claude/liftadapt/internal/localstore"
	"github.com/claude/liftadapt/internal/models"
	"github.com/claude/liftadapt/internal/storage"
)

// DataSource abstracts where training history comes from. *storage.DB,
// *localstore.Store and HTTPClient (remote via REST API) satisfy it.
type DataSource interface {
	History(ctx context.Context, userID int, since, until time.Time) ([]models.Session, error)
}

// Compile-time checks.
var (
	_ DataSource = (*storage.DB)(nil)
	_ DataSource = (*localstore.Store)(nil)
)
