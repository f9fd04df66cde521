package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftadapt/internal/adapter"
	"github.com/claude/liftadapt/internal/models"
	"github.com/claude/liftadapt/internal/selection"
	"github.com/claude/liftadapt/internal/substitution"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeHistory struct {
	sessions []models.Session
	err      error
	userID   int
}

func (f *fakeHistory) History(_ context.Context, userID int, _, _ time.Time) ([]models.Session, error) {
	f.userID = userID
	return f.sessions, f.err
}

func newTestHandlers(ds DataSource) *handlers {
	log := slog.New(slog.DiscardHandler)
	return &handlers{
		engines: adapter.NewRegistry(adapter.Deps{
			Logger:           log,
			DefaultFocus:     models.FocusVTaper,
			DefaultReadiness: models.DefaultReadiness,
		}),
		ds:  ds,
		log: log,
	}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want TextContent", res.Content[0])
	}
	return text.Text
}

func decodeResult[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(t, res)), &v); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return v
}

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

// TestNewRegistersTools verifies the server builds with its tools and resource.
func TestNewRegistersTools(t *testing.T) {
	h := newTestHandlers(&fakeHistory{})
	if s := New(h.engines, h.ds, "test", h.log); s == nil {
		t.Fatal("New returned nil")
	}
}

// TestAdaptWorkoutTool verifies the workout argument is decoded and adapted
// at the given readiness.
func TestAdaptWorkoutTool(t *testing.T) {
	h := newTestHandlers(&fakeHistory{})
	res, err := h.adaptWorkout(context.Background(), callRequest(map[string]any{
		"workout": map[string]any{
			"exercises": []any{
				map[string]any{"name": "Bench Press", "sets": 4, "reps": 5},
			},
		},
		"readiness": 5.0,
	}))
	if err != nil {
		t.Fatal(err)
	}

	w := decodeResult[models.Workout](t, res)
	if w.Adaptations == nil || w.Adaptations.ReadinessLevel != 5 || !w.Adaptations.VolumeReduced {
		t.Errorf("adaptations = %+v, want readiness 5 with volume reduced", w.Adaptations)
	}
	if w.Exercises[0].Name != "Bench Press" || w.Exercises[0].Reps != "5" {
		t.Errorf("first exercise = %+v, want Bench Press x5", w.Exercises[0])
	}
}

// TestAdaptWorkoutToolMissingWorkout verifies a tool error without a workout.
func TestAdaptWorkoutToolMissingWorkout(t *testing.T) {
	h := newTestHandlers(&fakeHistory{})
	res, err := h.adaptWorkout(context.Background(), callRequest(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
}

// TestSubstitutionTools verifies suggestions are capped and filtered by pain.
func TestSubstitutionTools(t *testing.T) {
	h := newTestHandlers(&fakeHistory{})
	ctx := context.Background()

	res, err := h.suggestSubstitutions(ctx, callRequest(map[string]any{
		"exercise":      "Back Squat",
		"pain_location": "knee",
	}))
	if err != nil {
		t.Fatal(err)
	}
	got := decodeResult[substitution.Result](t, res)
	if len(got.Alternatives) > substitution.MaxSuggestions {
		t.Errorf("suggestions = %d, want at most %d", len(got.Alternatives), substitution.MaxSuggestions)
	}
	for _, a := range got.Alternatives {
		if containsFold(a.Name, "squat") || containsFold(a.Name, "lunge") {
			t.Errorf("knee pain suggestion %q should be excluded", a.Name)
		}
	}

	res, err = h.getAlternates(ctx, callRequest(map[string]any{"exercise": "Back Squat"}))
	if err != nil {
		t.Fatal(err)
	}
	alts := decodeResult[struct {
		Alternatives []models.Alternative `json:"alternatives"`
	}](t, res)
	if len(alts.Alternatives) == 0 {
		t.Error("no alternates for Back Squat")
	}

	res, _ = h.getAlternates(ctx, callRequest(map[string]any{}))
	if !res.IsError {
		t.Error("missing exercise: IsError = false, want true")
	}
}

// TestSelectExerciseTool verifies history from the data source shapes the pick.
func TestSelectExerciseTool(t *testing.T) {
	now := time.Now()
	ds := &fakeHistory{}
	for i := range 8 {
		ds.sessions = append(ds.sessions, models.Session{
			Date: now.AddDate(0, 0, -20+2*i),
			Exercises: []models.LoggedExercise{{
				Name: "Bench Press",
				Sets: []models.SetLog{{WeightKg: 80, Reps: 5, RPE: 8}},
			}},
		})
	}
	h := newTestHandlers(ds)

	res, err := h.selectExercise(WithUserID(context.Background(), 3), callRequest(map[string]any{
		"candidates": []any{
			map[string]any{"name": "Bench Press"},
			map[string]any{"name": "Dumbbell Press"},
		},
	}))
	if err != nil {
		t.Fatal(err)
	}
	got := decodeResult[selection.Result](t, res)
	if got.Exercise == nil || got.Exercise.Name != "Dumbbell Press" {
		t.Errorf("selected = %+v, want Dumbbell Press", got.Exercise)
	}
	if ds.userID != 3 {
		t.Errorf("history user = %d, want 3", ds.userID)
	}
}

// TestProgressionTool verifies history errors surface as tool errors.
func TestProgressionTool(t *testing.T) {
	h := newTestHandlers(&fakeHistory{err: errors.New("db down")})
	res, err := h.getProgression(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("IsError = false, want true")
	}

	h = newTestHandlers(&fakeHistory{})
	res, _ = h.getProgression(context.Background(), callRequest(nil))
	if snap := decodeResult[models.ProgressionSnapshot](t, res); snap.SessionCount != 0 || snap.AverageRPE != 7 {
		t.Errorf("empty snapshot = %+v, want 0 sessions and default RPE", snap)
	}
}

// TestSplitInfoTool verifies the configured default focus is reported.
func TestSplitInfoTool(t *testing.T) {
	h := newTestHandlers(&fakeHistory{})
	res, _ := h.getSplitInfo(context.Background(), callRequest(nil))
	info := decodeResult[models.SplitInfo](t, res)
	if info.AestheticFocus != models.FocusVTaper || info.PerformancePercentage != 70 {
		t.Errorf("split = %+v, want v_taper 70/30", info)
	}
}

// TestAccessoryLibraryResource verifies every focus is listed, functional empty.
func TestAccessoryLibraryResource(t *testing.T) {
	h := newTestHandlers(&fakeHistory{})
	var req mcp.ReadResourceRequest
	req.Params.URI = "liftadapt://accessory_library"

	contents, err := h.accessoryLibrary(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content = %T, want TextResourceContents", contents[0])
	}
	var catalog map[string][]map[string]any
	if err := json.Unmarshal([]byte(text.Text), &catalog); err != nil {
		t.Fatal(err)
	}
	if len(catalog) != 4 {
		t.Errorf("catalog has %d foci, want 4", len(catalog))
	}
	if n := len(catalog["glutes"]); n != 4 {
		t.Errorf("glutes accessories = %d, want 4", n)
	}
	if fn, ok := catalog["functional"]; !ok || len(fn) != 0 {
		t.Errorf("functional = %v, want empty list", fn)
	}
}
