// Package volume scales set counts to readiness and keeps a trace of every
// adjustment so successive reductions compose against the original volume.
package volume

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/claude/liftadapt/internal/models"
)

const (
	// ReadinessThreshold is the highest readiness score that still triggers a reduction.
	ReadinessThreshold = 6.0
	// ReductionFactor is applied to set counts on low-readiness days.
	ReductionFactor = 0.7
)

// Factor sources. A trace holds at most one factor per source.
const (
	SourceReadiness    = "readiness"
	SourceSubstitution = "substitution"
)

// readinessNotePrefix identifies the modification line ReduceAccessoryVolume owns.
const readinessNotePrefix = "Volume reduced to "

// ShouldReduce reports whether readiness calls for reduced volume.
func ShouldReduce(readiness float64) bool {
	return readiness <= ReadinessThreshold
}

// AdjustSetsForReadiness returns the set count for freshly generated work:
// max(1, floor(base*0.7)) at readiness 6 or below, base otherwise.
func AdjustSetsForReadiness(baseSets int, readiness float64) int {
	if !ShouldReduce(readiness) {
		return baseSets
	}
	return max(1, int(math.Floor(float64(baseSets)*ReductionFactor)))
}

// Scaled pairs an exercise with the trace that explains its set count.
type Scaled struct {
	Exercise models.Exercise
	Trace    models.ScalingTrace
}

// Track starts (or resumes, when prior is non-nil) the trace for ex.
// A resumed trace keeps its original set count, so the exercise's current,
// possibly reduced, Sets value is never treated as a new baseline.
func Track(ex models.Exercise, role models.Role, prior *models.ScalingTrace) Scaled {
	ex = ex.Clone()
	if ex.Sets <= 0 {
		ex.Sets = models.DefaultSets
	}
	var t models.ScalingTrace
	if prior != nil && prior.OriginalSets > 0 {
		t = prior.Clone()
	} else {
		t = models.ScalingTrace{OriginalSets: ex.Sets}
	}
	t.Exercise = ex.Name
	t.Role = role
	t.FinalSets = finalSets(t)
	ex.Sets = t.FinalSets
	return Scaled{Exercise: ex, Trace: t}
}

// Apply records factor under source, replacing any earlier factor from the
// same source, and recomputes the final set count. Non-positive factors are
// ignored.
func Apply(t models.ScalingTrace, f models.AppliedFactor) models.ScalingTrace {
	if f.Factor <= 0 || math.IsNaN(f.Factor) || math.IsInf(f.Factor, 0) {
		return t
	}
	t = Remove(t, f.Source)
	t.AppliedFactors = append(t.AppliedFactors, f)
	t.FinalSets = finalSets(t)
	return t
}

// Remove drops the factor recorded under source, if any.
func Remove(t models.ScalingTrace, source string) models.ScalingTrace {
	t = t.Clone()
	kept := t.AppliedFactors[:0]
	for _, f := range t.AppliedFactors {
		if f.Source != source {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	t.AppliedFactors = kept
	t.FinalSets = finalSets(t)
	return t
}

// finalSets multiplies the original count by every factor, floors, and
// clamps at the role's minimum. The minimum never lifts an exercise above
// the volume it was prescribed with.
func finalSets(t models.ScalingTrace) int {
	product := 1.0
	for _, f := range t.AppliedFactors {
		product *= f.Factor
	}
	sets := int(math.Floor(float64(t.OriginalSets) * product))
	floor := min(t.Role.MinSets(), t.OriginalSets)
	if floor < 1 {
		floor = 1
	}
	return max(sets, floor)
}

// ApplyFactor adjusts s by factor under source and syncs the exercise's Sets.
func ApplyFactor(s Scaled, source string, factor float64, note string) Scaled {
	s.Trace = Apply(s.Trace, models.AppliedFactor{Source: source, Factor: factor, Note: note})
	s.Exercise = s.Exercise.Clone()
	s.Exercise.Sets = s.Trace.FinalSets
	return s
}

// ReduceAccessoryVolume applies the readiness factor to aesthetic exercises
// and leaves everything else alone. Calling it again with the same readiness
// is a no-op; calling it with readiness above the threshold undoes an earlier
// readiness reduction.
func ReduceAccessoryVolume(items []Scaled, readiness float64) []Scaled {
	out := make([]Scaled, len(items))
	for i, s := range items {
		if !s.Exercise.Aesthetic {
			out[i] = s
			continue
		}
		ex := s.Exercise.Clone()
		ex.Modifications = withoutReadinessNote(ex.Modifications)

		var t models.ScalingTrace
		if ShouldReduce(readiness) {
			t = Apply(s.Trace, models.AppliedFactor{
				Source: SourceReadiness,
				Factor: ReductionFactor,
				Note:   "readiness " + FormatReadiness(readiness) + "/10",
			})
			ex.Modifications = append(ex.Modifications, fmt.Sprintf("%s%d sets (readiness %s/10)",
				readinessNotePrefix, t.FinalSets, FormatReadiness(readiness)))
		} else {
			t = Remove(s.Trace, SourceReadiness)
		}
		ex.Sets = t.FinalSets
		out[i] = Scaled{Exercise: ex, Trace: t}
	}
	return out
}

// FormatReadiness renders a score without trailing zeros ("5", "6.5").
func FormatReadiness(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func withoutReadinessNote(mods []string) []string {
	if len(mods) == 0 {
		return mods
	}
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		if !strings.HasPrefix(m, readinessNotePrefix) {
			out = append(out, m)
		}
	}
	return out
}
