package server

import (
	"context"
	"net/http"
	"time"

	"github.com/claude/liftadapt/internal/ingest"
	"github.com/claude/liftadapt/internal/storage"
)

const sourceAlpha = "alpha"

func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	logID := s.startImport(uid, sourceAlpha)
	result, err := s.alpha.Ingest(r.Context(), r.Body, uid)
	s.finishImport(logID, uid, sourceAlpha, result, err, int(time.Since(start).Milliseconds()))
	if err != nil {
		s.log.Error("alpha import error", "user_id", uid, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	logs, err := s.db.QueryImportLogs(r.Context(), uid, queryLimit(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// startImport records a running import and returns its log ID, or 0 when
// the entry could not be written.
func (s *Server) startImport(uid int, source string) int64 {
	ctx, cancel := contextWithTimeout()
	defer cancel()

	id, err := s.db.InsertImportLog(ctx, storage.ImportLog{UserID: uid, Source: source, Status: storage.ImportRunning})
	if err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
		return 0
	}
	return id
}

// finishImport records an import operation's result to the import_logs table.
func (s *Server) finishImport(id int64, uid int, source string, result *ingest.Result, importErr error, durationMs int) {
	entry := storage.ImportLog{
		UserID:     uid,
		Source:     source,
		Status:     storage.ImportSuccess,
		DurationMs: &durationMs,
	}
	if result != nil {
		entry.SessionsReceived = result.SessionsReceived
		entry.SetsReceived = result.SetsReceived
		entry.SetsInserted = result.SetsInserted
	}
	if importErr != nil {
		entry.Status = storage.ImportError
		msg := importErr.Error()
		entry.ErrorMessage = &msg
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	var err error
	if id == 0 {
		_, err = s.db.InsertImportLog(ctx, entry)
	} else {
		err = s.db.UpdateImportLog(ctx, id, entry)
	}
	if err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
	}
}

// contextWithTimeout returns a background context with a 5-second timeout for import logging.
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
}
