package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/liftadapt/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// bindArgument decodes the JSON-shaped argument key into v. Missing
// arguments leave v untouched and report false.
func bindArgument(req mcp.CallToolRequest, key string, v any) (bool, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return false, nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return true, fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return true, fmt.Errorf("invalid %s: %w", key, err)
	}
	return true, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Tool definitions ---

var toolAdaptWorkout = mcp.NewTool("adapt_workout",
	mcp.WithDescription("Split a workout into performance and aesthetic work, append focus accessories and scale accessory volume to readiness. Returns the adapted workout with a per-exercise scaling trace."),
	mcp.WithObject("workout", mcp.Required(), mcp.Description("Workout with an exercises array; each exercise has name, sets and reps")),
	mcp.WithNumber("readiness", mcp.Description("Readiness score 1-10. Defaults to the last logged score."), mcp.Min(1), mcp.Max(10)),
)

var toolSuggestSubstitutions = mcp.NewTool("suggest_substitutions",
	mcp.WithDescription("Suggest up to two replacements for an exercise, filtered by dislikes, pain location and available equipment/time."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise to replace (e.g. 'Bench Press')")),
	mcp.WithArray("dislikes", mcp.Description("Exercise names the user does not want"), mcp.WithStringItems()),
	mcp.WithString("pain_location", mcp.Description("Where it hurts (e.g. knee, lower back, shoulder, elbow)")),
	mcp.WithArray("equipment", mcp.Description("Equipment available today"), mcp.WithStringItems()),
	mcp.WithNumber("max_minutes", mcp.Description("Time available for the exercise")),
)

var toolGetAlternates = mcp.NewTool("get_alternates",
	mcp.WithDescription("List every known alternative for an exercise, unfiltered."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name")),
)

var toolSelectExercise = mcp.NewTool("select_exercise",
	mcp.WithDescription("Pick the best exercise from candidates using the last 30 days of training history: plateaued lifts are rotated out, assistance work for plateaus and new movements are favoured."),
	mcp.WithArray("candidates", mcp.Required(), mcp.Description("Candidate exercises, each {name, muscleGroup, equipment}"), mcp.Items(map[string]any{"type": "object"})),
	mcp.WithString("target_muscle_group", mcp.Description("Only consider candidates for this muscle group (e.g. chest, back, legs)")),
	mcp.WithString("experience_level", mcp.Description("Training age"), mcp.Enum("beginner", "intermediate", "advanced")),
)

var toolGetSplitInfo = mcp.NewTool("get_split_info",
	mcp.WithDescription("Current aesthetic focus, performance/aesthetic split and whether accessories are reduced at the current readiness."),
)

var toolGetProgression = mcp.NewTool("get_progression",
	mcp.WithDescription("Per-exercise progression over the last 30 days: weights, reps, RPE, trend and plateau/progressing/regressing classification."),
)

// --- Tool handlers ---

func (h *handlers) adaptWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var w models.Workout
	found, err := bindArgument(req, "workout", &w)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !found {
		return mcp.NewToolResultError("workout parameter is required"), nil
	}

	var readiness *float64
	if _, ok := req.GetArguments()["readiness"]; ok {
		r := req.GetFloat("readiness", 0)
		readiness = &r
	}

	svc := h.engines.For(ctx, UserIDFromContext(ctx))
	return jsonResult(svc.AdaptWorkout(w, readiness))
}

func (h *handlers) suggestSubstitutions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	var c *models.Constraints
	equipment := req.GetStringSlice("equipment", nil)
	maxMinutes := int(req.GetFloat("max_minutes", 0))
	if len(equipment) > 0 || maxMinutes > 0 {
		c = &models.Constraints{Equipment: equipment, MaxMinutes: maxMinutes}
	}

	svc := h.engines.For(ctx, UserIDFromContext(ctx))
	return jsonResult(svc.SuggestSubstitutions(exercise, req.GetStringSlice("dislikes", nil), req.GetString("pain_location", ""), c))
}

func (h *handlers) getAlternates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	alts := h.engines.For(ctx, UserIDFromContext(ctx)).GetAlternates(exercise)
	if alts == nil {
		alts = []models.Alternative{}
	}
	return jsonResult(map[string]any{"exercise": exercise, "alternatives": alts})
}

func (h *handlers) selectExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var candidates []models.Candidate
	if _, err := bindArgument(req, "candidates", &candidates); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	svc := h.engines.For(ctx, uid)
	since, until := svc.HistoryWindow()
	sessions, err := h.ds.History(ctx, uid, since, until)
	if err != nil {
		h.log.Warn("mcp select_exercise history", "error", err)
	}

	profile := models.UserProfile{
		ExperienceLevel: models.Experience(req.GetString("experience_level", "")),
		Progression:     svc.Progression(sessions),
	}
	return jsonResult(svc.SelectExerciseForUser(candidates, profile, req.GetString("target_muscle_group", "")))
}

func (h *handlers) getSplitInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.engines.For(ctx, UserIDFromContext(ctx)).GetSplitInfo())
}

func (h *handlers) getProgression(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	svc := h.engines.For(ctx, uid)
	since, until := svc.HistoryWindow()
	sessions, err := h.ds.History(ctx, uid, since, until)
	if err != nil {
		h.log.Error("mcp get_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(svc.Progression(sessions))
}
