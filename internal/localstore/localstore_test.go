package localstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/liftadapt/internal/apperr"
	"github.com/claude/liftadapt/internal/models"
	"github.com/google/go-cmp/cmp"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "liftadapt.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestPreferencesRoundTrip stores and reloads preferences.
func TestPreferencesRoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	if _, err := s.GetPreferences(ctx, 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("GetPreferences on empty store: err = %v, want not found", err)
	}

	want := models.Preferences{
		AestheticFocus:     models.FocusVTaper,
		LastReadinessScore: 6.5,
		UpdatedAt:          time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := s.SavePreferences(ctx, 1, want); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	got, err := s.GetPreferences(ctx, 1)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}
}

// TestSaveReadinessKeepsFocus only changes the score.
func TestSaveReadinessKeepsFocus(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	if err := s.SaveReadiness(ctx, 2, 4); err != nil {
		t.Fatalf("SaveReadiness on empty store: %v", err)
	}
	p, _ := s.GetPreferences(ctx, 2)
	if p.AestheticFocus != models.DefaultFocus || p.LastReadinessScore != 4 {
		t.Errorf("preferences = %+v", p)
	}

	if err := s.SavePreferences(ctx, 2, models.Preferences{AestheticFocus: models.FocusGlutes, LastReadinessScore: 4}); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	if err := s.SaveReadiness(ctx, 2, 9); err != nil {
		t.Fatalf("SaveReadiness: %v", err)
	}
	p, _ = s.GetPreferences(ctx, 2)
	if p.AestheticFocus != models.FocusGlutes || p.LastReadinessScore != 9 {
		t.Errorf("preferences = %+v", p)
	}

	if err := s.SaveReadiness(ctx, 2, 0); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("SaveReadiness(0) err = %v, want validation", err)
	}
}

// TestSessionsRoundTrip inserts, dedupes and windows set history.
func TestSessionsRoundTrip(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	sessions := []models.Session{
		{
			Name: "Push",
			Date: day,
			Exercises: []models.LoggedExercise{{
				Number: 1,
				Name:   "Bench Press",
				Sets: []models.SetLog{
					{Number: 1, WeightKg: 60, Reps: 8, IsWarmup: true},
					{Number: 1, WeightKg: 80, Reps: 5, RPE: 8},
					{Number: 2, WeightKg: 80, Reps: 5, RPE: 9},
				},
			}},
		},
		{
			Name:      "Pull",
			Date:      day.AddDate(0, 0, -40),
			Exercises: []models.LoggedExercise{{Number: 1, Name: "Barbell Row", Sets: []models.SetLog{{Number: 1, WeightKg: 70, Reps: 8}}}},
		},
	}

	n, err := s.InsertSessions(ctx, 1, sessions)
	if err != nil {
		t.Fatalf("InsertSessions: %v", err)
	}
	if n != 4 {
		t.Errorf("inserted = %d, want 4", n)
	}
	n, err = s.InsertSessions(ctx, 1, sessions)
	if err != nil {
		t.Fatalf("InsertSessions again: %v", err)
	}
	if n != 0 {
		t.Errorf("re-insert inserted = %d, want 0", n)
	}

	got, err := s.History(ctx, 1, day.AddDate(0, 0, -30), day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if diff := cmp.Diff(sessions[:1], got); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	other, err := s.History(ctx, 2, day.AddDate(0, 0, -60), day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("History for other user: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("other user sees %d sessions", len(other))
	}
}

// TestImportedFiles tracks file hashes.
func TestImportedFiles(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte("a,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	hash, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64", len(hash))
	}

	if ok, _ := s.IsImported(ctx, path, hash); ok {
		t.Error("IsImported = true before marking")
	}
	if err := s.MarkImported(ctx, path, hash); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}
	if ok, _ := s.IsImported(ctx, path, hash); !ok {
		t.Error("IsImported = false after marking")
	}
	if ok, _ := s.IsImported(ctx, path, "different"); ok {
		t.Error("IsImported = true for a changed file")
	}
}

// TestLedgerScopes keeps uploads apart from local imports and from each other.
func TestLedgerScopes(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	up := s.Ledger("upload http://liftadapt")
	if err := up.MarkImported(ctx, "export.csv", "abc"); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}
	if ok, _ := up.IsImported(ctx, "export.csv", "abc"); !ok {
		t.Error("ledger IsImported = false after marking")
	}
	if ok, _ := s.IsImported(ctx, "export.csv", "abc"); ok {
		t.Error("local import sees an uploaded file")
	}
	if ok, _ := s.Ledger("upload http://other").IsImported(ctx, "export.csv", "abc"); ok {
		t.Error("second server sees the first server's upload")
	}
}
