// Package upload sends a directory of Alpha Progression CSV exports to a
// LiftAdapt server, skipping files that were already sent.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/liftadapt/internal/ingest"
	"github.com/claude/liftadapt/internal/ingest/alpha"
	"github.com/claude/liftadapt/internal/localstore"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int   `json:"files_total"`
	FilesUploaded int   `json:"files_uploaded"`
	FilesSkipped  int   `json:"files_skipped"`
	FilesErrored  int   `json:"files_errored"`
	SetsReceived  int   `json:"sets_received"`
	SetsInserted  int64 `json:"sets_inserted"`
}

// Sender delivers one export. *Client satisfies it.
type Sender interface {
	SendAlphaCSV(ctx context.Context, data []byte) (*ingest.Result, error)
}

// State remembers which files have been sent. *localstore.Ledger satisfies it.
type State interface {
	IsImported(ctx context.Context, path, hash string) (bool, error)
	MarkImported(ctx context.Context, path, hash string) error
}

var _ State = (*localstore.Ledger)(nil)

// Uploader walks a directory of CSV exports and sends the new ones.
type Uploader struct {
	sender Sender
	state  State
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader.
func New(sender Sender, state State, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		sender: sender,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run executes the upload pipeline. Per-file failures are counted and
// logged; only walking the directory can fail the run.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	files, err := csvFiles(u.dir)
	if err != nil {
		return &u.stats, fmt.Errorf("listing %s: %w", u.dir, err)
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		u.stats.FilesTotal++
		u.processFile(ctx, f)
	}
	return &u.stats, nil
}

func (u *Uploader) processFile(ctx context.Context, path string) {
	relPath, _ := filepath.Rel(u.dir, path)
	log := u.log.With("file", relPath)

	hash, err := localstore.HashFile(path)
	if err != nil {
		log.Warn("hash failed", "error", err)
		u.stats.FilesErrored++
		return
	}

	sent, err := u.state.IsImported(ctx, relPath, hash)
	if err != nil {
		log.Warn("state check failed", "error", err)
		u.stats.FilesErrored++
		return
	}
	if sent {
		u.stats.FilesSkipped++
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("read failed", "error", err)
		u.stats.FilesErrored++
		return
	}

	if u.dryRun {
		sessions, err := alpha.Parse(bytes.NewReader(data))
		if err != nil {
			log.Warn("parse failed", "error", err)
			u.stats.FilesErrored++
			return
		}
		for _, s := range sessions {
			for _, ex := range s.Exercises {
				u.stats.SetsReceived += len(ex.Sets)
			}
		}
		log.Info("dry run: would upload", "sessions", len(sessions))
		return
	}

	result, err := u.sender.SendAlphaCSV(ctx, data)
	if err != nil {
		log.Warn("upload failed", "error", err)
		u.stats.FilesErrored++
		return
	}
	u.stats.FilesUploaded++
	u.stats.SetsReceived += result.SetsReceived
	u.stats.SetsInserted += result.SetsInserted

	if err := u.state.MarkImported(ctx, relPath, hash); err != nil {
		log.Warn("recording upload failed", "error", err)
	}
	log.Info("uploaded", "sets_received", result.SetsReceived, "sets_inserted", result.SetsInserted)
}

// csvFiles returns every .csv file under dir, sorted by path.
func csvFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
