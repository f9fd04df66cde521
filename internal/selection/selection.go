// Package selection scores candidate exercises against a user's training
// history and picks the best one.
package selection

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/claude/liftadapt/internal/apperr"
	"github.com/claude/liftadapt/internal/models"
)

const (
	BaseScore = 50
	MinScore  = 0
	MaxScore  = 100

	ProgressingBonus   = 20
	PlateauPenalty     = -10
	RegressingPenalty  = -15
	NoveltyBonus       = 10
	BeginnerPenalty    = -15
	AdvancedPenalty    = -10
	HighEffortPenalty  = -5
	LowEffortBonus     = 5
	beginnerMaxComplex = 7
	advancedMinComplex = 4
	highEffortRPE      = 8
	lowEffortRPE       = 6
)

// EmptyRationale is returned when there is nothing to choose from.
const EmptyRationale = "No exercises available for selection"

// ScoreBreakdown shows how a candidate's score was assembled.
type ScoreBreakdown struct {
	Base              int                `json:"base"`
	Trend             int                `json:"trend"`
	Novelty           int                `json:"novelty"`
	PlateauAssistance int                `json:"plateauAssistance"`
	AssistsLift       string             `json:"assistsLift,omitempty"`
	Complexity        int                `json:"complexity"`
	ComplexityScore   int                `json:"complexityScore"`
	Effort            int                `json:"effort"`
	Status            models.TrendStatus `json:"status,omitempty"`
	Total             int                `json:"total"`
}

// CandidateScore pairs a candidate name with its breakdown.
type CandidateScore struct {
	Name      string         `json:"name"`
	Score     int            `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// SelectionMetadata explains a selection.
type SelectionMetadata struct {
	Score                int              `json:"score"`
	TargetMuscleGroup    string           `json:"targetMuscleGroup,omitempty"`
	TargetMatched        bool             `json:"targetMatched"`
	CandidatesConsidered int              `json:"candidatesConsidered"`
	UsedFallback         bool             `json:"usedFallback"`
	Scores               []CandidateScore `json:"scores,omitempty"`
}

// Result is the outcome of Select. Exercise is nil only for empty input.
type Result struct {
	Exercise          *models.Candidate  `json:"exercise"`
	Rationale         string             `json:"rationale"`
	SelectionMetadata *SelectionMetadata `json:"selectionMetadata,omitempty"`
}

// Scorer rates one candidate for a profile.
type Scorer func(models.Candidate, models.UserProfile) ScoreBreakdown

// Selector picks exercises. It holds no state beyond its logger and scorer.
type Selector struct {
	log   *slog.Logger
	score Scorer
}

// NewSelector returns a selector scoring with ProgressionScore and logging
// to log; nil discards.
func NewSelector(log *slog.Logger) *Selector {
	return NewSelectorWithScorer(ProgressionScore, log)
}

// NewSelectorWithScorer returns a selector that rates candidates with score.
func NewSelectorWithScorer(score Scorer, log *slog.Logger) *Selector {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if score == nil {
		score = ProgressionScore
	}
	return &Selector{log: log, score: score}
}

// Select filters candidates to target (falling back to all of them when
// nothing matches), scores each, and returns the highest scorer. Ties go to
// the earliest candidate. A panic while scoring yields the first candidate.
func (s *Selector) Select(candidates []models.Candidate, profile models.UserProfile, target string) (res Result) {
	if len(candidates) == 0 {
		return Result{Rationale: EmptyRationale}
	}

	defer func() {
		if r := recover(); r != nil {
			err := apperr.Recovered("selection.Select", r)
			s.log.Error("exercise selection failed, using first candidate", "error", err)
			first := candidates[0]
			res = Result{
				Exercise:  &first,
				Rationale: fmt.Sprintf("%s selected as the first available option", first.Name),
				SelectionMetadata: &SelectionMetadata{
					TargetMuscleGroup:    target,
					CandidatesConsidered: len(candidates),
					UsedFallback:         true,
				},
			}
		}
	}()

	pool, matched := FilterByMuscleGroup(candidates, target)

	meta := &SelectionMetadata{
		TargetMuscleGroup:    strings.ToLower(strings.TrimSpace(target)),
		TargetMatched:        matched,
		CandidatesConsidered: len(pool),
		Scores:               make([]CandidateScore, 0, len(pool)),
	}

	best := -1
	var bestBreakdown ScoreBreakdown
	for i, c := range pool {
		b := s.score(c, profile)
		meta.Scores = append(meta.Scores, CandidateScore{Name: c.Name, Score: b.Total, Breakdown: b})
		if best < 0 || b.Total > bestBreakdown.Total {
			best = i
			bestBreakdown = b
		}
	}

	chosen := pool[best]
	meta.Score = bestBreakdown.Total
	s.log.Debug("exercise selected",
		"exercise", chosen.Name,
		"score", bestBreakdown.Total,
		"candidates", len(pool),
		"target", meta.TargetMuscleGroup,
	)
	return Result{
		Exercise:          &chosen,
		Rationale:         Rationale(chosen.Name, bestBreakdown),
		SelectionMetadata: meta,
	}
}

// FilterByMuscleGroup keeps candidates whose name matches one of target's
// patterns or whose MuscleGroup equals target. An empty target, an unknown
// group, or no matches return candidates unchanged with matched false.
func FilterByMuscleGroup(candidates []models.Candidate, target string) ([]models.Candidate, bool) {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" {
		return candidates, false
	}
	patterns, known := MuscleGroupPatterns[target]
	if !known {
		return candidates, false
	}
	var out []models.Candidate
	for _, c := range candidates {
		if strings.EqualFold(strings.TrimSpace(c.MuscleGroup), target) || matchesAny(padded(c.Name), patterns) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return candidates, false
	}
	return out, true
}

// ProgressionScore rates how well a candidate suits the user right now.
// The total is clamped to [0, 100].
func ProgressionScore(c models.Candidate, profile models.UserProfile) ScoreBreakdown {
	b := ScoreBreakdown{Base: BaseScore}
	snap := profile.Progression

	if rec, ok := snap.Record(c.Name); ok {
		b.Status = rec.Status
		switch rec.Status {
		case models.TrendProgressing:
			b.Trend = ProgressingBonus
		case models.TrendPlateau:
			b.Trend = PlateauPenalty
		case models.TrendRegressing:
			b.Trend = RegressingPenalty
		}
	} else {
		b.Novelty = NoveltyBonus
	}

	if snap != nil {
		b.PlateauAssistance, b.AssistsLift = plateauAssistance(c.Name, snap.PlateauExercises)
	}

	b.ComplexityScore = ComplexityOf(c.Name)
	switch {
	case profile.ExperienceLevel == models.ExperienceBeginner && b.ComplexityScore > beginnerMaxComplex:
		b.Complexity = BeginnerPenalty
	case profile.ExperienceLevel == models.ExperienceAdvanced && b.ComplexityScore < advancedMinComplex:
		b.Complexity = AdvancedPenalty
	}

	if snap != nil {
		switch {
		case snap.AverageRPE > highEffortRPE:
			b.Effort = HighEffortPenalty
		case snap.AverageRPE > 0 && snap.AverageRPE < lowEffortRPE:
			b.Effort = LowEffortBonus
		}
	}

	total := b.Base + b.Trend + b.Novelty + b.PlateauAssistance + b.Complexity + b.Effort
	b.Total = min(max(total, MinScore), MaxScore)
	return b
}

// ComplexityOf returns the highest matching complexity for name.
func ComplexityOf(name string) int {
	lower := strings.ToLower(name)
	score, found := 0, false
	for _, c := range ComplexityTable {
		if strings.Contains(lower, c.Keyword) && (!found || c.Score > score) {
			score, found = c.Score, true
		}
	}
	if !found {
		return DefaultComplexity
	}
	return score
}

// plateauAssistance returns the best bonus name earns as assistance for any
// plateaued lift, and the lift it assists.
func plateauAssistance(name string, plateaued []string) (int, string) {
	lower := strings.ToLower(name)
	bonus, lift := 0, ""
	for _, p := range plateaued {
		pl := strings.ToLower(p)
		if pl == lower {
			continue
		}
		for _, a := range PlateauAssistance {
			if !strings.Contains(pl, a.Lift) {
				continue
			}
			for pos, ex := range a.Exercises {
				if strings.Contains(lower, ex) {
					if v := assistanceBonus(pos); v > bonus {
						bonus, lift = v, p
					}
					break
				}
			}
			break
		}
	}
	return bonus, lift
}

// Rationale explains a selection in a sentence chosen by score band.
func Rationale(name string, b ScoreBreakdown) string {
	switch {
	case b.Total >= 80:
		return fmt.Sprintf("%s prioritized due to recent progress and a good fit for your experience level", name)
	case b.Total >= 70:
		return fmt.Sprintf("%s selected based on progression data and training history", name)
	case b.PlateauAssistance > 0:
		return fmt.Sprintf("%s chosen to help break through your plateau on %s", name, b.AssistsLift)
	case b.Novelty > 0:
		return fmt.Sprintf("%s added as a new exercise to introduce a fresh training stimulus", name)
	default:
		return fmt.Sprintf("%s selected as the best available option for this session", name)
	}
}

// padded surrounds a lower-cased name with spaces so patterns such as
// "lat " match whole words at the end of a name.
func padded(name string) string {
	return " " + strings.ToLower(strings.TrimSpace(name)) + " "
}

func matchesAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
