package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftadapt/internal/localstore"
	"github.com/claude/liftadapt/internal/models"
	"github.com/claude/liftadapt/internal/selection"
)

const exportCSV = `"Push · Day 1 · Week 1 · Push-Pull-Legs";"2026-02-17 5:04 h";"1:00 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 40 kg · 10 reps"
#;KG;REPS;RIR
1;100;6;1
2;100;6;0
`

const squatWorkout = `{"exercises":[{"name":"Back Squat","sets":4,"reps":5}]}`

func setupTestContext(t *testing.T) (*Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "liftadapt.db")
	ctx := openTestContext(t, dbPath)
	return ctx, dbPath
}

func openTestContext(t *testing.T, dbPath string) *Context {
	t.Helper()
	store, err := localstore.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	ctx := NewContext(store, 1, "test", slog.New(slog.DiscardHandler))
	ctx.Out = &bytes.Buffer{}
	t.Cleanup(func() {
		ctx.Close()
		store.Close()
	})
	return ctx
}

func output[T any](t *testing.T, ctx *Context) T {
	t.Helper()
	buf := ctx.Out.(*bytes.Buffer)
	var v T
	if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
		t.Fatalf("decode output %q: %v", buf.String(), err)
	}
	buf.Reset()
	return v
}

func TestImportCmd(t *testing.T) {
	ctx, _ := setupTestContext(t)
	file := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(file, []byte(exportCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := &ImportCmd{Files: []string{file}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	first := output[[]importedFile](t, ctx)
	if len(first) != 1 || first[0].Result == nil || first[0].Result.SetsInserted != 3 {
		t.Fatalf("first import = %+v, want 3 sets inserted", first)
	}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if second := output[[]importedFile](t, ctx); !second[0].Skipped {
		t.Errorf("second import = %+v, want skipped", second[0])
	}

	cmd.Force = true
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("forced import failed: %v", err)
	}
	if forced := output[[]importedFile](t, ctx); forced[0].Result.SetsSkipped != 3 {
		t.Errorf("forced import = %+v, want all 3 sets skipped as duplicates", forced[0].Result)
	}

	sessions, err := ctx.Store.History(context.Background(), 1, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Errorf("stored sessions = %d, want 1", len(sessions))
	}
}

func TestAdaptCmdFromStdin(t *testing.T) {
	ctx, _ := setupTestContext(t)
	if err := (&FocusCmd{Focus: "glutes"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	output[models.SplitInfo](t, ctx)

	ctx.In = strings.NewReader(squatWorkout)
	if err := (&AdaptCmd{Workout: "-", Readiness: 4}).Run(ctx); err != nil {
		t.Fatalf("adapt failed: %v", err)
	}
	w := output[models.Workout](t, ctx)
	if w.Adaptations == nil || w.Adaptations.AestheticFocus != models.FocusGlutes || !w.Adaptations.VolumeReduced {
		t.Errorf("adaptations = %+v, want glutes with reduced volume", w.Adaptations)
	}
	if w.Exercises[0].Sets != 4 {
		t.Errorf("squat sets = %d, want 4", w.Exercises[0].Sets)
	}
}

func TestAdaptCmdFromFile(t *testing.T) {
	ctx, _ := setupTestContext(t)
	file := filepath.Join(t.TempDir(), "workout.json")
	if err := os.WriteFile(file, []byte(squatWorkout), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := (&AdaptCmd{Workout: file}).Run(ctx); err != nil {
		t.Fatalf("adapt failed: %v", err)
	}
	w := output[models.Workout](t, ctx)
	if w.Adaptations.ReadinessLevel != models.DefaultReadiness || w.Adaptations.VolumeReduced {
		t.Errorf("adaptations = %+v, want default readiness without reduction", w.Adaptations)
	}

	ctx.In = strings.NewReader("{broken")
	if err := (&AdaptCmd{Workout: "-"}).Run(ctx); err == nil {
		t.Error("expected error for malformed workout")
	}
}

func TestSubstituteCmd(t *testing.T) {
	tests := []struct {
		name     string
		cmd      SubstituteCmd
		wantName string
		wantSets int
	}{
		{"known alternative", SubstituteCmd{Exercise: "Back Squat", With: "box squat", VolumeFactor: 1}, "Box Squat", 3},
		{"custom replacement", SubstituteCmd{Exercise: "Back Squat", With: "Sled Push", VolumeFactor: 0.5}, "Sled Push", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestContext(t)
			ctx.In = strings.NewReader(squatWorkout)
			tt.cmd.Workout = "-"
			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatal(err)
			}
			w := output[models.Workout](t, ctx)
			if w.Exercises[0].Name != tt.wantName || w.Exercises[0].Sets != tt.wantSets {
				t.Errorf("exercise = %+v, want %s x%d", w.Exercises[0], tt.wantName, tt.wantSets)
			}
		})
	}
}

func TestReadinessCmdPersists(t *testing.T) {
	ctx, dbPath := setupTestContext(t)
	if err := (&SplitCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if info := output[models.SplitInfo](t, ctx); info.ReadinessLevel != models.DefaultReadiness {
		t.Fatalf("initial readiness = %v, want default", info.ReadinessLevel)
	}

	if err := (&ReadinessCmd{Score: 4}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if info := output[models.SplitInfo](t, ctx); info.ReadinessLevel != 4 || !info.AccessoriesReduced {
		t.Errorf("after readiness = %+v, want 4 with accessories reduced", info)
	}

	if err := (&ReadinessCmd{Score: 12}).Run(ctx); err == nil {
		t.Error("expected error for readiness 12")
	}

	ctx.Close()
	ctx.Store.Close()
	reopened := openTestContext(t, dbPath)
	if err := (&SplitCmd{}).Run(reopened); err != nil {
		t.Fatal(err)
	}
	if info := output[models.SplitInfo](t, reopened); info.ReadinessLevel != 4 {
		t.Errorf("reopened readiness = %v, want 4", info.ReadinessLevel)
	}
}

func TestFocusCmdRejectsUnknown(t *testing.T) {
	ctx, _ := setupTestContext(t)
	if err := (&FocusCmd{Focus: "bulk"}).Run(ctx); err == nil {
		t.Error("expected error for unknown focus")
	}
}

func TestSuggestAndAlternatesCmds(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&AlternatesCmd{Exercise: "bench press"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if alts := output[[]models.Alternative](t, ctx); len(alts) != 4 {
		t.Errorf("alternates = %d, want 4", len(alts))
	}

	if err := (&SuggestCmd{Exercise: "bench press", Equipment: []string{"bodyweight"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	res := output[struct {
		Alternatives []models.Alternative `json:"alternatives"`
	}](t, ctx)
	if len(res.Alternatives) != 1 || res.Alternatives[0].Name != "Push-ups" {
		t.Errorf("suggestions = %+v, want only Push-ups", res.Alternatives)
	}
}

func TestSelectCmd(t *testing.T) {
	ctx, _ := setupTestContext(t)
	now := time.Now()
	var sessions []models.Session
	for i := range 8 {
		sessions = append(sessions, models.Session{
			Name: "Push",
			Date: now.AddDate(0, 0, -20+2*i).Truncate(time.Second),
			Exercises: []models.LoggedExercise{{
				Name: "Bench Press",
				Sets: []models.SetLog{{WeightKg: 90, Reps: 5, RPE: 8}},
			}},
		})
	}
	if _, err := ctx.Store.InsertSessions(context.Background(), 1, sessions); err != nil {
		t.Fatal(err)
	}

	cmd := &SelectCmd{Candidates: []string{"Bench Press:chest", "Dumbbell Press:chest:dumbbell"}, Target: "chest", Experience: "any"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatal(err)
	}
	res := output[selection.Result](t, ctx)
	if res.Exercise == nil || res.Exercise.Name != "Dumbbell Press" {
		t.Errorf("selected = %+v, want Dumbbell Press", res.Exercise)
	}

	if err := (&ProgressionCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	snap := output[models.ProgressionSnapshot](t, ctx)
	if len(snap.PlateauExercises) != 1 || snap.SessionCount != 8 {
		t.Errorf("snapshot = %+v, want one plateau over 8 sessions", snap)
	}
}

func TestParseCandidate(t *testing.T) {
	tests := []struct {
		in   string
		want models.Candidate
	}{
		{"Bench Press", models.Candidate{Name: "Bench Press"}},
		{"Pull-up: back", models.Candidate{Name: "Pull-up", MuscleGroup: "back"}},
		{"Goblet Squat:legs:dumbbell", models.Candidate{Name: "Goblet Squat", MuscleGroup: "legs", Equipment: "dumbbell"}},
	}
	for _, tt := range tests {
		if got := parseCandidate(tt.in); got != tt.want {
			t.Errorf("parseCandidate(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
