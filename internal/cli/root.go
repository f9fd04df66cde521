// Package cli implements the liftadapt-cli commands. Every command runs the
// engine in-process against a local SQLite database and prints JSON.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/claude/liftadapt/internal/adapter"
	"github.com/claude/liftadapt/internal/event"
	"github.com/claude/liftadapt/internal/localstore"
	"github.com/claude/liftadapt/internal/models"
)

// Context is shared by every command.
type Context struct {
	Store   *localstore.Store
	Bus     *event.Bus
	Engines *adapter.Registry
	UserID  int
	Version string
	Log     *slog.Logger
	Out     io.Writer
	In      io.Reader
}

// NewContext wires a store, bus and engine registry for userID.
func NewContext(store *localstore.Store, userID int, version string, log *slog.Logger) *Context {
	bus := event.NewBus(log)
	return &Context{
		Store: store,
		Bus:   bus,
		Engines: adapter.NewRegistry(adapter.Deps{
			Store:            store,
			Bus:              bus,
			Logger:           log,
			DefaultFocus:     models.DefaultFocus,
			DefaultReadiness: models.DefaultReadiness,
		}),
		UserID:  userID,
		Version: version,
		Log:     log,
		Out:     os.Stdout,
		In:      os.Stdin,
	}
}

// Close releases the engines.
func (c *Context) Close() {
	c.Engines.Close()
}

func (c *Context) engine(ctx context.Context) *adapter.Service {
	return c.Engines.For(ctx, c.UserID)
}

func (c *Context) printJSON(v any) error {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readWorkout loads a workout from path, or from stdin when path is "-".
func (c *Context) readWorkout(path string) (models.Workout, error) {
	var r io.Reader = c.In
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return models.Workout{}, err
		}
		defer f.Close()
		r = f
	}

	var w models.Workout
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return models.Workout{}, fmt.Errorf("decoding workout: %w", err)
	}
	return w, nil
}

// parseCandidate reads "name[:muscle group[:equipment]]".
func parseCandidate(s string) models.Candidate {
	parts := strings.SplitN(s, ":", 3)
	c := models.Candidate{Name: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		c.MuscleGroup = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		c.Equipment = strings.TrimSpace(parts[2])
	}
	return c
}
