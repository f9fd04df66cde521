// Package accessory holds the focus-specific accessory work added on top of
// a base workout.
package accessory

import (
	"github.com/claude/liftadapt/internal/models"
	"github.com/claude/liftadapt/internal/volume"
)

// Category is set on every injected accessory.
const Category = "accessory"

// GeneratedNotePrefix starts the note on accessories generated at reduced
// volume.
const GeneratedNotePrefix = "Generated at reduced volume"

// Entry is one accessory definition. Rationale doubles as the UI tooltip.
type Entry struct {
	Name      string      `json:"name"`
	Sets      int         `json:"sets"`
	Reps      models.Reps `json:"reps"`
	Rationale string      `json:"rationale"`
}

// Table maps each aesthetic focus to its accessories. Functional has none:
// a user without an aesthetic goal only trains the performance split.
var Table = map[models.AestheticFocus][]Entry{
	models.FocusVTaper: {
		{Name: "Lateral Raises", Sets: 3, Reps: "12-15", Rationale: "Builds side delts for shoulder width"},
		{Name: "Wide-Grip Lat Pulldown", Sets: 3, Reps: "10-12", Rationale: "Widens the lats to sharpen the taper"},
		{Name: "Face Pulls", Sets: 3, Reps: "15", Rationale: "Rear delts and upper back for a fuller shoulder from every angle"},
		{Name: "Rear Delt Flyes", Sets: 3, Reps: "12-15", Rationale: "Balances pressing volume and rounds out the shoulder cap"},
	},
	models.FocusGlutes: {
		{Name: "Hip Thrusts", Sets: 4, Reps: "8-12", Rationale: "Loads the glutes at full hip extension"},
		{Name: "Bulgarian Split Squats", Sets: 3, Reps: "10 each leg", Rationale: "Unilateral glute and quad work through a long range"},
		{Name: "Romanian Deadlifts (RDL)", Sets: 3, Reps: "8-10", Rationale: "Stretches and loads glutes and hamstrings together"},
		{Name: "Cable Kickbacks", Sets: 3, Reps: "12-15", Rationale: "Isolates the glutes with constant cable tension"},
	},
	models.FocusToned: {
		{Name: "Push-ups", Sets: 3, Reps: "12-15", Rationale: "Chest, shoulders and triceps with bodyweight control"},
		{Name: "Walking Lunges", Sets: 3, Reps: "12 each leg", Rationale: "Legs and glutes with a conditioning effect"},
		{Name: "Plank Hold", Sets: 3, Reps: "45s", Rationale: "Trunk stiffness that carries over to every lift"},
		{Name: "Dumbbell Rows", Sets: 3, Reps: "12", Rationale: "Upper-back definition and posture"},
	},
	models.FocusFunctional: nil,
}

// Library produces ready-to-insert accessories.
type Library struct {
	table map[models.AestheticFocus][]Entry
}

// NewLibrary returns a library over the default table.
func NewLibrary() *Library {
	return &Library{table: Table}
}

// NewLibraryWithTable returns a library over a caller-supplied table.
func NewLibraryWithTable(table map[models.AestheticFocus][]Entry) *Library {
	return &Library{table: table}
}

// Entries returns the raw definitions for focus.
func (l *Library) Entries(focus models.AestheticFocus) []Entry {
	return append([]Entry(nil), l.table[focus]...)
}

// For returns the accessories for focus with sets already adjusted for
// readiness. Unknown and functional focus yield an empty list.
func (l *Library) For(focus models.AestheticFocus, readiness float64) []models.Exercise {
	scaled := l.Scaled(focus, readiness)
	out := make([]models.Exercise, 0, len(scaled))
	for _, s := range scaled {
		out = append(out, s.Exercise)
	}
	return out
}

// Scaled is For with the scaling trace kept alongside each exercise.
func (l *Library) Scaled(focus models.AestheticFocus, readiness float64) []volume.Scaled {
	entries := l.table[focus]
	out := make([]volume.Scaled, 0, len(entries))
	for _, e := range entries {
		s := volume.Track(models.Exercise{
			Name:      e.Name,
			Category:  Category,
			Sets:      e.Sets,
			Reps:      e.Reps,
			Rationale: e.Rationale,
			Aesthetic: true,
		}, models.RoleAccessory, nil)
		s.Trace.Injected = true
		if volume.ShouldReduce(readiness) {
			r := volume.FormatReadiness(readiness)
			s = volume.ApplyFactor(s, volume.SourceReadiness, volume.ReductionFactor, "readiness "+r+"/10")
			s.Exercise.Modifications = []string{GeneratedNotePrefix + " (readiness " + r + "/10)"}
		}
		out = append(out, s)
	}
	return out
}
