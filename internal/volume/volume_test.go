package volume

import (
	"math"
	"strings"
	"testing"

	"github.com/claude/liftadapt/internal/models"
)

// TestAdjustSetsForReadinessProperty checks the reduction formula over a grid
// of base set counts and readiness scores.
func TestAdjustSetsForReadinessProperty(t *testing.T) {
	for base := 1; base <= 12; base++ {
		for r := 1.0; r <= 10; r += 0.5 {
			got := AdjustSetsForReadiness(base, r)
			want := base
			if r <= 6 {
				want = max(1, int(math.Floor(float64(base)*0.7)))
			}
			if got != want {
				t.Errorf("AdjustSetsForReadiness(%d, %v) = %d, want %d", base, r, got, want)
			}
			if got < 1 {
				t.Errorf("AdjustSetsForReadiness(%d, %v) = %d, below 1", base, r, got)
			}
		}
	}
}

// TestAdjustSetsForReadinessExamples pins a few values a coach would check by hand.
func TestAdjustSetsForReadinessExamples(t *testing.T) {
	tests := []struct {
		base      int
		readiness float64
		want      int
	}{
		{4, 5, 2},
		{3, 6, 2},
		{1, 2, 1},
		{5, 6.5, 5},
		{10, 3, 7},
	}
	for _, tt := range tests {
		if got := AdjustSetsForReadiness(tt.base, tt.readiness); got != tt.want {
			t.Errorf("AdjustSetsForReadiness(%d, %v) = %d, want %d", tt.base, tt.readiness, got, tt.want)
		}
	}
}

func accessory(name string, sets int) Scaled {
	return Track(models.Exercise{Name: name, Sets: sets, Aesthetic: true}, models.RoleAccessory, nil)
}

// TestReduceAccessoryVolumeOnlyTouchesAesthetic verifies performance work is
// never reduced by readiness.
func TestReduceAccessoryVolumeOnlyTouchesAesthetic(t *testing.T) {
	items := []Scaled{
		Track(models.Exercise{Name: "Back Squat", Sets: 5}, models.RolePerformance, nil),
		accessory("Lateral Raise", 4),
	}
	got := ReduceAccessoryVolume(items, 5)

	if got[0].Exercise.Sets != 5 {
		t.Errorf("squat sets = %d, want 5", got[0].Exercise.Sets)
	}
	if got[1].Exercise.Sets != 2 {
		t.Errorf("lateral raise sets = %d, want 2", got[1].Exercise.Sets)
	}
	mods := got[1].Exercise.Modifications
	if len(mods) != 1 || !strings.Contains(mods[0], "readiness 5/10") {
		t.Errorf("modifications = %v, want one readiness note", mods)
	}
	if items[1].Exercise.Sets != 4 {
		t.Error("input was mutated")
	}
}

// TestReduceAccessoryVolumeIdempotent verifies that repeated passes with the same
// readiness produce the same volume and a single modification note.
func TestReduceAccessoryVolumeIdempotent(t *testing.T) {
	once := ReduceAccessoryVolume([]Scaled{accessory("Cable Kickback", 10)}, 4)
	twice := ReduceAccessoryVolume(once, 4)

	if once[0].Exercise.Sets != 7 || twice[0].Exercise.Sets != 7 {
		t.Errorf("sets = %d then %d, want 7 both times", once[0].Exercise.Sets, twice[0].Exercise.Sets)
	}
	if n := len(twice[0].Exercise.Modifications); n != 1 {
		t.Errorf("modifications = %d, want 1", n)
	}
	if n := len(twice[0].Trace.AppliedFactors); n != 1 {
		t.Errorf("applied factors = %d, want 1", n)
	}
}

// TestReduceAccessoryVolumeRestores verifies that a later pass at good readiness
// lifts an earlier readiness reduction.
func TestReduceAccessoryVolumeRestores(t *testing.T) {
	low := ReduceAccessoryVolume([]Scaled{accessory("Face Pull", 3)}, 3)
	if low[0].Exercise.Sets != 2 {
		t.Fatalf("reduced sets = %d, want 2", low[0].Exercise.Sets)
	}
	high := ReduceAccessoryVolume(low, 8)
	if high[0].Exercise.Sets != 3 {
		t.Errorf("restored sets = %d, want 3", high[0].Exercise.Sets)
	}
	if len(high[0].Exercise.Modifications) != 0 {
		t.Errorf("modifications = %v, want none", high[0].Exercise.Modifications)
	}
}

// TestFactorsComposeAgainstOriginal verifies that stacked adjustments multiply
// against the original set count instead of compounding on rounded values.
func TestFactorsComposeAgainstOriginal(t *testing.T) {
	s := accessory("Hip Thrust", 5)
	s = ApplyFactor(s, SourceSubstitution, 0.8, "swapped for Glute Bridge")
	if s.Exercise.Sets != 4 {
		t.Fatalf("after substitution sets = %d, want 4", s.Exercise.Sets)
	}

	got := ReduceAccessoryVolume([]Scaled{s}, 5)[0]
	// floor(5*0.8*0.7) = 2.
	if got.Trace.OriginalSets != 5 {
		t.Errorf("original = %d, want 5", got.Trace.OriginalSets)
	}
	if len(got.Trace.AppliedFactors) != 2 {
		t.Errorf("factors = %v, want substitution and readiness", got.Trace.AppliedFactors)
	}
	if got.Exercise.Sets != 2 {
		t.Errorf("sets = %d, want 2", got.Exercise.Sets)
	}

	s9 := ApplyFactor(accessory("Cable Kickback", 9), SourceSubstitution, 0.8, "")
	got9 := ReduceAccessoryVolume([]Scaled{s9}, 5)[0]
	// composed: floor(9*0.56)=floor(5.04)=5; compounded: floor(floor(7.2)*0.7)=floor(4.9)=4
	if got9.Exercise.Sets != 5 {
		t.Errorf("9-set composed sets = %d, want 5", got9.Exercise.Sets)
	}
}

// TestPerformanceFloor verifies primary lifts never drop below 2 sets however
// many factors stack.
func TestPerformanceFloor(t *testing.T) {
	s := Track(models.Exercise{Name: "Deadlift", Sets: 4}, models.RolePerformance, nil)
	s = ApplyFactor(s, SourceSubstitution, 0.3, "")
	s = ApplyFactor(s, "deload", 0.5, "")
	if s.Exercise.Sets != 2 {
		t.Errorf("sets = %d, want floor of 2", s.Exercise.Sets)
	}

	single := Track(models.Exercise{Name: "Snatch", Sets: 1}, models.RolePerformance, nil)
	single = ApplyFactor(single, SourceSubstitution, 0.5, "")
	if single.Exercise.Sets != 1 {
		t.Errorf("single-set lift scaled to %d, want 1 (floor never adds volume)", single.Exercise.Sets)
	}
}

// TestAccessoryFloor verifies accessories never drop below 1 set.
func TestAccessoryFloor(t *testing.T) {
	s := ApplyFactor(accessory("Plank", 2), SourceSubstitution, 0.1, "")
	got := ReduceAccessoryVolume([]Scaled{s}, 1)[0]
	if got.Exercise.Sets != 1 {
		t.Errorf("sets = %d, want 1", got.Exercise.Sets)
	}
}

// TestTrackResumesPriorTrace verifies a resumed trace keeps the original set
// count even when the exercise arrives already reduced.
func TestTrackResumesPriorTrace(t *testing.T) {
	prior := models.ScalingTrace{
		Exercise:       "Lateral Raise",
		Role:           models.RoleAccessory,
		OriginalSets:   4,
		AppliedFactors: []models.AppliedFactor{{Source: SourceReadiness, Factor: 0.7}},
		FinalSets:      2,
	}
	s := Track(models.Exercise{Name: "Lateral Raise", Sets: 2, Aesthetic: true}, models.RoleAccessory, &prior)
	if s.Trace.OriginalSets != 4 {
		t.Errorf("original = %d, want 4", s.Trace.OriginalSets)
	}
	if s.Exercise.Sets != 2 {
		t.Errorf("sets = %d, want 2", s.Exercise.Sets)
	}
}

// TestTrackDefaultsMissingSets verifies exercises without a set count get the default.
func TestTrackDefaultsMissingSets(t *testing.T) {
	s := Track(models.Exercise{Name: "Leg Curl"}, models.RoleAccessory, nil)
	if s.Exercise.Sets != models.DefaultSets || s.Trace.OriginalSets != models.DefaultSets {
		t.Errorf("sets = %d original = %d, want %d", s.Exercise.Sets, s.Trace.OriginalSets, models.DefaultSets)
	}
}

// TestApplyIgnoresInvalidFactor verifies non-positive factors leave the trace alone.
func TestApplyIgnoresInvalidFactor(t *testing.T) {
	s := accessory("Curl", 3)
	got := ApplyFactor(s, SourceSubstitution, 0, "")
	if got.Exercise.Sets != 3 || len(got.Trace.AppliedFactors) != 0 {
		t.Errorf("sets = %d factors = %v, want unchanged", got.Exercise.Sets, got.Trace.AppliedFactors)
	}
}
