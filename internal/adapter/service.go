// Package adapter is the adaptation engine's entry point. A Service holds
// one user's cached preferences and composes the split, accessory, volume,
// substitution, progression and selection packages into workout-level
// operations.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/claude/liftadapt/internal/accessory"
	"github.com/claude/liftadapt/internal/apperr"
	"github.com/claude/liftadapt/internal/event"
	"github.com/claude/liftadapt/internal/models"
	"github.com/claude/liftadapt/internal/progression"
	"github.com/claude/liftadapt/internal/selection"
	"github.com/claude/liftadapt/internal/split"
	"github.com/claude/liftadapt/internal/substitution"
	"github.com/claude/liftadapt/internal/volume"
	"github.com/google/uuid"
)

// Service adapts workouts for a single user. All methods are safe for
// concurrent use.
type Service struct {
	deps     Deps
	userID   int
	analyzer *progression.Analyzer

	mu        sync.RWMutex
	focus     models.AestheticFocus
	readiness float64

	subID string
}

// New resolves the current user, loads their preferences and subscribes to
// readiness updates. Failures are logged and leave the defaults in place.
func New(ctx context.Context, deps Deps) *Service {
	deps = deps.withDefaults()
	s := &Service{
		deps:      deps,
		analyzer:  progression.NewAnalyzer(deps.Clock),
		focus:     deps.DefaultFocus,
		readiness: deps.DefaultReadiness,
	}
	log := deps.Logger

	if deps.Identity == nil {
		log.Warn("no identity provider, using default preferences",
			"error", apperr.DependencyUnavailable("adapter.New", errors.New("identity provider not configured")))
	} else if id, err := deps.Identity.CurrentUserID(ctx); err != nil {
		log.Warn("resolving current user failed, using default preferences", "error", err)
	} else {
		s.userID = id
	}

	if s.userID > 0 {
		s.loadPreferences(ctx)
	}

	if deps.Bus != nil {
		s.subID = deps.Bus.Subscribe(event.TopicReadinessUpdated, s.onReadinessUpdated)
	}
	return s
}

func (s *Service) loadPreferences(ctx context.Context) {
	log := s.deps.Logger.With("user_id", s.userID)
	if s.deps.Store == nil {
		log.Warn("no preference store, using default preferences",
			"error", apperr.DependencyUnavailable("adapter.New", errors.New("preference store not configured")))
		return
	}
	p, err := s.deps.Store.GetPreferences(ctx, s.userID)
	if errors.Is(err, apperr.ErrNotFound) {
		log.Debug("no stored preferences, using defaults")
		return
	}
	if err != nil {
		log.Warn("loading preferences failed, using defaults",
			"error", apperr.DependencyUnavailable("adapter.New", err))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.AestheticFocus.Valid() {
		s.focus = p.AestheticFocus
	}
	if models.ValidReadiness(p.LastReadinessScore) {
		s.readiness = p.LastReadinessScore
	}
	log.Debug("preferences loaded", "focus", s.focus, "readiness", s.readiness)
}

func (s *Service) onReadinessUpdated(e event.Event) {
	ev, ok := e.(event.ReadinessUpdated)
	if !ok || ev.UserID != s.userID {
		return
	}
	score := ev.Readiness.ReadinessScore
	if !models.ValidReadiness(score) {
		s.deps.Logger.Warn("ignoring readiness update",
			"user_id", s.userID,
			"error", apperr.Validation("adapter.onReadinessUpdated", "readiness %v outside 1-10", score))
		return
	}
	s.mu.Lock()
	s.readiness = score
	s.mu.Unlock()
	s.deps.Logger.Debug("readiness updated", "user_id", s.userID, "readiness", score)
}

// Close stops listening for readiness updates.
func (s *Service) Close() {
	if s.deps.Bus != nil && s.subID != "" {
		s.deps.Bus.Unsubscribe(s.subID)
		s.subID = ""
	}
}

// UserID returns the user the service was resolved for, or 0.
func (s *Service) UserID() int { return s.userID }

func (s *Service) snapshot() (models.AestheticFocus, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focus, s.readiness
}

// AdaptWorkout splits w into performance and aesthetic work, appends the
// accessories for the user's focus and scales aesthetic volume to
// readiness. A nil or out-of-range readiness uses the cached score.
// Re-adapting an already adapted workout regenerates the accessories an
// earlier adaptation injected, keeps any substitute in the slot of the
// library exercise it replaced, and scales against the original set counts
// recorded in its traces. User-written exercises are never dropped. On a
// malformed workout or any internal failure w is returned unchanged.
func (s *Service) AdaptWorkout(w models.Workout, readiness *float64) (out models.Workout) {
	const op = "adapter.AdaptWorkout"
	log := s.deps.Logger.With("user_id", s.userID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("adapting workout failed, returning it unchanged", "error", apperr.Recovered(op, r))
			out = w
		}
	}()

	for i, ex := range w.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			log.Warn("malformed workout, returning it unchanged",
				"error", apperr.Validation(op, "exercise %d has no name", i+1))
			return w
		}
	}

	focus, level := s.snapshot()
	if readiness != nil {
		if models.ValidReadiness(*readiness) {
			level = *readiness
		} else {
			log.Warn("ignoring readiness argument",
				"error", apperr.Validation(op, "readiness %v outside 1-10", *readiness))
		}
	}

	prior := userTraces(w.Adaptations)
	base, swaps := withoutInjected(w)

	buckets := split.Classify(base)

	items := make([]volume.Scaled, 0, len(base)+4)
	for _, ex := range buckets.Performance {
		sc := volume.Track(ex, models.RolePerformance, prior[key(ex.Name)])
		sc.Trace = volume.Remove(sc.Trace, volume.SourceReadiness)
		sc.Exercise.Sets = sc.Trace.FinalSets
		items = append(items, sc)
	}
	aesthetic := make([]volume.Scaled, 0, len(buckets.Aesthetic))
	for _, ex := range buckets.Aesthetic {
		aesthetic = append(aesthetic, volume.Track(ex, models.RoleAccessory, prior[key(ex.Name)]))
	}
	items = append(items, volume.ReduceAccessoryVolume(aesthetic, level)...)
	items = append(items, s.accessories(focus, level, swaps)...)

	out = models.Workout{
		ID:        w.ID,
		Exercises: make([]models.Exercise, 0, len(items)),
		Adaptations: &models.Adaptations{
			PerformancePercentage: split.PerformancePercentage,
			AestheticPercentage:   split.AestheticPercentage,
			ReadinessLevel:        level,
			AestheticFocus:        focus,
			Scaling:               make([]models.ScalingTrace, 0, len(items)),
		},
	}
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}
	for _, it := range items {
		out.Exercises = append(out.Exercises, it.Exercise)
		out.Adaptations.Scaling = append(out.Adaptations.Scaling, it.Trace)
		if hasSource(it.Trace, volume.SourceReadiness) {
			out.Adaptations.VolumeReduced = true
		}
	}

	log.Info("workout adapted",
		"workout_id", out.ID,
		"performance", len(buckets.Performance),
		"aesthetic", len(buckets.Aesthetic),
		"exercises", len(out.Exercises),
		"focus", focus,
		"readiness", level,
		"volume_reduced", out.Adaptations.VolumeReduced,
	)
	return out
}

// Substitute swaps the exercise named exerciseName for alt and records
// alt's volume factor in the exercise's scaling trace. Substitutions made
// for safety belong before AdaptWorkout so readiness scaling applies to the
// replacement. w is returned unchanged when the exercise is not present.
func (s *Service) Substitute(w models.Workout, exerciseName string, alt models.Alternative) (out models.Workout) {
	const op = "adapter.Substitute"
	log := s.deps.Logger.With("user_id", s.userID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("substitution failed, returning workout unchanged", "error", apperr.Recovered(op, r))
			out = w
		}
	}()

	if strings.TrimSpace(alt.Name) == "" {
		log.Warn("substitution skipped", "error", apperr.Validation(op, "alternative has no name"))
		return w
	}
	idx := -1
	for i, ex := range w.Exercises {
		if key(ex.Name) == key(exerciseName) {
			idx = i
			break
		}
	}
	if idx < 0 {
		log.Warn("substitution skipped", "error", apperr.NotFound(op, "exercise %q not in workout", exerciseName))
		return w
	}

	old := w.Exercises[idx]
	role := models.RolePerformance
	if old.Aesthetic {
		role = models.RoleAccessory
	}
	prior := traceAt(w, idx)

	repl := old.Clone()
	repl.Name = alt.Name
	repl.Rationale = alt.Rationale
	repl.Modifications = append(repl.Modifications, fmt.Sprintf("Substituted for %s", old.Name))
	if alt.RestAdjustmentSeconds != 0 {
		repl.Modifications = append(repl.Modifications, fmt.Sprintf("Rest %+ds", alt.RestAdjustmentSeconds))
	}

	sc := volume.Track(repl, role, prior)
	sc = volume.ApplyFactor(sc, volume.SourceSubstitution, alt.VolumeAdjustmentFactor, "substituted for "+old.Name)
	if sc.Trace.Injected && sc.Trace.SubstitutedFor == "" {
		sc.Trace.SubstitutedFor = old.Name
	}

	out = w
	out.Exercises = make([]models.Exercise, len(w.Exercises))
	for i, ex := range w.Exercises {
		out.Exercises[i] = ex.Clone()
	}
	out.Exercises[idx] = sc.Exercise

	var adapt models.Adaptations
	if w.Adaptations != nil {
		adapt = *w.Adaptations
	}
	scaling := make([]models.ScalingTrace, 0, len(adapt.Scaling)+1)
	positional := aligned(w)
	replaced := false
	for i, t := range adapt.Scaling {
		if !replaced && ((positional && i == idx) || (!positional && key(t.Exercise) == key(old.Name))) {
			scaling = append(scaling, sc.Trace)
			replaced = true
			continue
		}
		scaling = append(scaling, t.Clone())
	}
	if !replaced {
		scaling = append(scaling, sc.Trace)
	}
	adapt.Scaling = scaling
	out.Adaptations = &adapt

	log.Info("exercise substituted", "from", old.Name, "to", alt.Name, "sets", sc.Exercise.Sets)
	return out
}

// SuggestSubstitutions returns up to two alternatives for name.
func (s *Service) SuggestSubstitutions(name string, dislikes []string, painLocation string, c *models.Constraints) substitution.Result {
	return s.deps.Resolver.Suggest(name, dislikes, painLocation, c)
}

// GetAlternates returns every known alternative for name, unfiltered.
func (s *Service) GetAlternates(name string) []models.Alternative {
	return s.deps.Resolver.Alternates(name)
}

// SelectExerciseForUser picks the best candidate for profile.
func (s *Service) SelectExerciseForUser(candidates []models.Candidate, profile models.UserProfile, target string) selection.Result {
	return s.deps.Selector.Select(candidates, profile, target)
}

// Progression analyses the trailing 30 days of sessions.
func (s *Service) Progression(sessions []models.Session) *models.ProgressionSnapshot {
	return s.analyzer.Snapshot(sessions)
}

// HistoryWindow is the session date range Progression looks at.
func (s *Service) HistoryWindow() (since, until time.Time) {
	until = s.deps.Clock()
	return until.AddDate(0, 0, -progression.WindowDays), until
}

// UpdateAestheticFocus changes the cached focus and persists it. The cache
// is updated even when saving fails.
func (s *Service) UpdateAestheticFocus(ctx context.Context, focus models.AestheticFocus) error {
	const op = "adapter.UpdateAestheticFocus"
	if !focus.Valid() {
		return apperr.Validation(op, "unknown aesthetic focus %q", focus)
	}

	s.mu.Lock()
	s.focus = focus
	prefs := models.Preferences{
		AestheticFocus:     focus,
		LastReadinessScore: s.readiness,
		UpdatedAt:          s.deps.Clock(),
	}
	s.mu.Unlock()

	if s.deps.Store == nil || s.userID <= 0 {
		return apperr.DependencyUnavailable(op, errors.New("no preference store or user"))
	}
	if err := s.deps.Store.SavePreferences(ctx, s.userID, prefs); err != nil {
		return apperr.DependencyUnavailable(op, err)
	}
	s.deps.Logger.Info("aesthetic focus updated", "user_id", s.userID, "focus", focus)
	return nil
}

// GetSplitInfo summarises the current split for display.
func (s *Service) GetSplitInfo() models.SplitInfo {
	focus, level := s.snapshot()
	return models.SplitInfo{
		AestheticFocus:        focus,
		PerformancePercentage: split.PerformancePercentage,
		AestheticPercentage:   split.AestheticPercentage,
		ReadinessLevel:        level,
		AccessoriesReduced:    volume.ShouldReduce(level),
	}
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func priorTraces(a *models.Adaptations) map[string]*models.ScalingTrace {
	out := map[string]*models.ScalingTrace{}
	if a == nil {
		return out
	}
	for i := range a.Scaling {
		t := a.Scaling[i]
		if _, ok := out[key(t.Exercise)]; !ok {
			out[key(t.Exercise)] = &t
		}
	}
	return out
}

// userTraces is priorTraces without the traces of injected accessories, so
// a user exercise never inherits the injected marker of a namesake.
func userTraces(a *models.Adaptations) map[string]*models.ScalingTrace {
	if a == nil {
		return map[string]*models.ScalingTrace{}
	}
	own := *a
	own.Scaling = slices.DeleteFunc(slices.Clone(a.Scaling), func(t models.ScalingTrace) bool {
		return t.Injected
	})
	return priorTraces(&own)
}

// aligned reports whether w's traces line up one-to-one with its exercises,
// as AdaptWorkout and Substitute leave them.
func aligned(w models.Workout) bool {
	if w.Adaptations == nil || len(w.Adaptations.Scaling) != len(w.Exercises) {
		return false
	}
	for i, t := range w.Adaptations.Scaling {
		if key(t.Exercise) != key(w.Exercises[i].Name) {
			return false
		}
	}
	return true
}

// traceAt returns the trace for the i-th exercise of w, or nil.
func traceAt(w models.Workout, i int) *models.ScalingTrace {
	if w.Adaptations == nil {
		return nil
	}
	if aligned(w) {
		t := w.Adaptations.Scaling[i].Clone()
		return &t
	}
	return priorTraces(w.Adaptations)[key(w.Exercises[i].Name)]
}

// withoutInjected drops the accessories a previous adaptation injected.
// Injected slots the caller substituted are returned keyed by the library
// exercise they replaced.
func withoutInjected(w models.Workout) ([]models.Exercise, map[string]volume.Scaled) {
	base := make([]models.Exercise, 0, len(w.Exercises))
	swaps := map[string]volume.Scaled{}
	for i, ex := range w.Exercises {
		t := traceAt(w, i)
		switch {
		case t == nil || !t.Injected:
			base = append(base, ex)
		case t.SubstitutedFor != "":
			swaps[key(t.SubstitutedFor)] = volume.Scaled{Exercise: ex, Trace: *t}
		}
	}
	return base, swaps
}

// accessories returns the library work for focus, with each swapped slot
// holding the caller's substitute scaled to readiness. Swaps whose library
// exercise is no longer part of focus are dropped.
func (s *Service) accessories(focus models.AestheticFocus, readiness float64, swaps map[string]volume.Scaled) []volume.Scaled {
	lib := s.deps.Library.Scaled(focus, readiness)
	for i, sc := range lib {
		sw, ok := swaps[key(sc.Exercise.Name)]
		if !ok {
			continue
		}
		ex := sw.Exercise.Clone()
		ex.Aesthetic = true
		ex.Modifications = slices.DeleteFunc(ex.Modifications, func(m string) bool {
			return strings.HasPrefix(m, accessory.GeneratedNotePrefix)
		})
		tracked := volume.Track(ex, models.RoleAccessory, &sw.Trace)
		lib[i] = volume.ReduceAccessoryVolume([]volume.Scaled{tracked}, readiness)[0]
	}
	return lib
}

func hasSource(t models.ScalingTrace, source string) bool {
	for _, f := range t.AppliedFactors {
		if f.Source == source {
			return true
		}
	}
	return false
}
