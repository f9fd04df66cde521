package accessory

import (
	"strings"
	"testing"

	"github.com/claude/liftadapt/internal/models"
)

// TestForFunctionalIsEmpty verifies that the default focus adds no accessories.
func TestForFunctionalIsEmpty(t *testing.T) {
	lib := NewLibrary()
	if got := lib.For(models.FocusFunctional, 9); len(got) != 0 {
		t.Errorf("functional accessories = %d, want 0", len(got))
	}
	if got := lib.For("unknown", 9); len(got) != 0 {
		t.Errorf("unknown focus accessories = %d, want 0", len(got))
	}
}

// TestForGlutesFullReadiness verifies accessories keep table volume when readiness is good.
func TestForGlutesFullReadiness(t *testing.T) {
	got := NewLibrary().For(models.FocusGlutes, 8)
	if len(got) != 4 {
		t.Fatalf("accessories = %d, want 4", len(got))
	}
	for i, ex := range got {
		if ex.Category != Category || !ex.Aesthetic {
			t.Errorf("%s: category=%q aesthetic=%v", ex.Name, ex.Category, ex.Aesthetic)
		}
		if ex.Sets != Table[models.FocusGlutes][i].Sets {
			t.Errorf("%s sets = %d, want %d", ex.Name, ex.Sets, Table[models.FocusGlutes][i].Sets)
		}
		if ex.Rationale == "" {
			t.Errorf("%s has no rationale", ex.Name)
		}
		if len(ex.Modifications) != 0 {
			t.Errorf("%s modifications = %v, want none", ex.Name, ex.Modifications)
		}
	}
}

// TestForLowReadinessReducesSets verifies generated accessories go through the
// readiness reduction.
func TestForLowReadinessReducesSets(t *testing.T) {
	got := NewLibrary().For(models.FocusGlutes, 5)
	want := map[string]int{
		"Hip Thrusts":              2,
		"Bulgarian Split Squats":   2,
		"Romanian Deadlifts (RDL)": 2,
		"Cable Kickbacks":          2,
	}
	for _, ex := range got {
		if ex.Sets != want[ex.Name] {
			t.Errorf("%s sets = %d, want %d", ex.Name, ex.Sets, want[ex.Name])
		}
		if len(ex.Modifications) != 1 || !strings.Contains(ex.Modifications[0], "readiness 5/10") {
			t.Errorf("%s modifications = %v", ex.Name, ex.Modifications)
		}
	}
}

// TestEntriesIsACopy verifies callers cannot mutate the shared table.
func TestEntriesIsACopy(t *testing.T) {
	lib := NewLibrary()
	e := lib.Entries(models.FocusVTaper)
	e[0].Name = "changed"
	if Table[models.FocusVTaper][0].Name == "changed" {
		t.Error("Entries exposed the shared table")
	}
}

// TestScaledTracesMatchSets checks the trace agrees with the generated set count.
func TestScaledTracesMatchSets(t *testing.T) {
	for _, readiness := range []float64{4, 6, 6.5, 9} {
		for _, s := range NewLibrary().Scaled(models.FocusGlutes, readiness) {
			if s.Trace.FinalSets != s.Exercise.Sets {
				t.Errorf("readiness %v, %s: trace %d != sets %d", readiness, s.Exercise.Name, s.Trace.FinalSets, s.Exercise.Sets)
			}
			if s.Trace.Role != models.RoleAccessory {
				t.Errorf("%s role = %q, want accessory", s.Exercise.Name, s.Trace.Role)
			}
		}
	}
}
