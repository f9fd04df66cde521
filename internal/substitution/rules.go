package substitution

import "github.com/claude/liftadapt/internal/models"

// Rules maps a lower-cased exercise name to its alternatives, best first.
// Treat as read-only.
var Rules = map[string][]models.Alternative{
	"back squat": {
		{Name: "Goblet Squat", Rationale: "Front-loaded squat that is easier on the lower back", RestAdjustmentSeconds: -30, VolumeAdjustmentFactor: 1.0, Equipment: "dumbbell", EstimatedMinutes: 10},
		{Name: "Leg Press", Rationale: "Quad-dominant without spinal loading", RestAdjustmentSeconds: -30, VolumeAdjustmentFactor: 1.0, Equipment: "machine", EstimatedMinutes: 10},
		{Name: "Box Squat", Rationale: "Controlled depth with a pause on the box", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 0.9, Equipment: "barbell", EstimatedMinutes: 15},
		{Name: "Hip Thrust", Rationale: "Hip extension strength without knee flexion under load", RestAdjustmentSeconds: -15, VolumeAdjustmentFactor: 1.0, Equipment: "barbell", EstimatedMinutes: 10},
	},
	"bench press": {
		{Name: "Dumbbell Bench Press", Rationale: "Free shoulder path and independent arms", RestAdjustmentSeconds: -15, VolumeAdjustmentFactor: 1.0, Equipment: "dumbbell", EstimatedMinutes: 12},
		{Name: "Floor Press", Rationale: "Shortened range that spares the shoulders", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 0.9, Equipment: "barbell", EstimatedMinutes: 12},
		{Name: "Machine Chest Press", Rationale: "Stable path, no spotter needed", RestAdjustmentSeconds: -30, VolumeAdjustmentFactor: 1.0, Equipment: "machine", EstimatedMinutes: 8},
		{Name: "Push-ups", Rationale: "Bodyweight pressing anywhere", RestAdjustmentSeconds: -30, VolumeAdjustmentFactor: 1.0, Equipment: "bodyweight", EstimatedMinutes: 6},
	},
	"deadlift": {
		{Name: "Trap Bar Deadlift", Rationale: "More upright torso, less shear on the lower back", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 1.0, Equipment: "trap bar", EstimatedMinutes: 15},
		{Name: "Romanian Deadlift", Rationale: "Hinge pattern with lighter loads and a hamstring bias", RestAdjustmentSeconds: -30, VolumeAdjustmentFactor: 0.9, Equipment: "barbell", EstimatedMinutes: 12},
		{Name: "Rack Pull", Rationale: "Partial range from the knees, reduces lumbar flexion demand", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 0.8, Equipment: "barbell", EstimatedMinutes: 12},
		{Name: "Cable Pull-Through", Rationale: "Hip hinge with almost no spinal loading", RestAdjustmentSeconds: -45, VolumeAdjustmentFactor: 1.0, Equipment: "cable", EstimatedMinutes: 8},
	},
	"overhead press": {
		{Name: "Landmine Press", Rationale: "Angled press that is friendlier to the shoulder joint", RestAdjustmentSeconds: -15, VolumeAdjustmentFactor: 1.0, Equipment: "barbell", EstimatedMinutes: 10},
		{Name: "Seated Dumbbell Shoulder Press", Rationale: "Back support and free hand position", RestAdjustmentSeconds: -15, VolumeAdjustmentFactor: 1.0, Equipment: "dumbbell", EstimatedMinutes: 10},
		{Name: "Machine Shoulder Press", Rationale: "Fixed path for stable loading", RestAdjustmentSeconds: -30, VolumeAdjustmentFactor: 1.0, Equipment: "machine", EstimatedMinutes: 8},
		{Name: "Pike Push-ups", Rationale: "Bodyweight vertical pressing", RestAdjustmentSeconds: -30, VolumeAdjustmentFactor: 1.0, Equipment: "bodyweight", EstimatedMinutes: 6},
	},
	"pull-up": {
		{Name: "Lat Pulldown", Rationale: "Same pattern with adjustable load", RestAdjustmentSeconds: -30, VolumeAdjustmentFactor: 1.0, Equipment: "cable", EstimatedMinutes: 8},
		{Name: "Assisted Pull-up", Rationale: "Band or machine assistance to own the full range", RestAdjustmentSeconds: -15, VolumeAdjustmentFactor: 1.0, Equipment: "machine", EstimatedMinutes: 8},
		{Name: "Inverted Row", Rationale: "Horizontal pulling with bodyweight", RestAdjustmentSeconds: -30, VolumeAdjustmentFactor: 1.0, Equipment: "bodyweight", EstimatedMinutes: 6},
		{Name: "Neutral-Grip Pulldown", Rationale: "Neutral grip is easier on elbows and shoulders", RestAdjustmentSeconds: -30, VolumeAdjustmentFactor: 1.0, Equipment: "cable", EstimatedMinutes: 8},
	},
	"barbell row": {
		{Name: "Chest-Supported Row", Rationale: "Removes lower-back demand entirely", RestAdjustmentSeconds: -15, VolumeAdjustmentFactor: 1.0, Equipment: "dumbbell", EstimatedMinutes: 10},
		{Name: "Seated Cable Row", Rationale: "Supported torso, constant tension", RestAdjustmentSeconds: -30, VolumeAdjustmentFactor: 1.0, Equipment: "cable", EstimatedMinutes: 8},
		{Name: "Single-Arm Dumbbell Row", Rationale: "Braced unilateral pulling", RestAdjustmentSeconds: -15, VolumeAdjustmentFactor: 1.0, Equipment: "dumbbell", EstimatedMinutes: 10},
	},
	"bulgarian split squat": {
		{Name: "Reverse Lunges", Rationale: "Unilateral work with less forward knee travel", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 1.0, Equipment: "dumbbell", EstimatedMinutes: 10},
		{Name: "Goblet Squat", Rationale: "Bilateral and easier to balance", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 1.0, Equipment: "dumbbell", EstimatedMinutes: 8},
		{Name: "Step-ups", Rationale: "Controllable knee angle and a strong glute bias", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 1.0, Equipment: "dumbbell", EstimatedMinutes: 10},
		{Name: "Single-Leg Romanian Deadlift", Rationale: "Unilateral hinge that keeps the knee nearly straight", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 0.9, Equipment: "dumbbell", EstimatedMinutes: 10},
		{Name: "Glute Bridge", Rationale: "Hip extension with no knee loading", RestAdjustmentSeconds: -15, VolumeAdjustmentFactor: 1.0, Equipment: "bodyweight", EstimatedMinutes: 6},
	},
	"lunges": {
		{Name: "Step-ups", Rationale: "Same single-leg demand with a fixed range", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 1.0, Equipment: "dumbbell", EstimatedMinutes: 10},
		{Name: "Split Squat", Rationale: "Stationary version, easier to balance", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 1.0, Equipment: "dumbbell", EstimatedMinutes: 10},
		{Name: "Leg Press", Rationale: "Supported quad work", RestAdjustmentSeconds: -15, VolumeAdjustmentFactor: 1.0, Equipment: "machine", EstimatedMinutes: 8},
	},
	"dips": {
		{Name: "Close-Grip Bench Press", Rationale: "Triceps and chest without deep shoulder extension", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 1.0, Equipment: "barbell", EstimatedMinutes: 12},
		{Name: "Cable Pushdown", Rationale: "Triceps isolation with no shoulder stress", RestAdjustmentSeconds: -30, VolumeAdjustmentFactor: 1.0, Equipment: "cable", EstimatedMinutes: 6},
		{Name: "Machine Dip", Rationale: "Assisted path with adjustable range", RestAdjustmentSeconds: -15, VolumeAdjustmentFactor: 1.0, Equipment: "machine", EstimatedMinutes: 8},
	},
	"leg extension": {
		{Name: "Spanish Squat", Rationale: "Quad loading with the knee joint unloaded by a band", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 1.0, Equipment: "band", EstimatedMinutes: 8},
		{Name: "Wall Sit", Rationale: "Isometric quad work", RestAdjustmentSeconds: -15, VolumeAdjustmentFactor: 1.0, Equipment: "bodyweight", EstimatedMinutes: 5},
		{Name: "Leg Press", Rationale: "Compound alternative for quads", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 1.0, Equipment: "machine", EstimatedMinutes: 8},
	},
	"skull crusher": {
		{Name: "Cable Overhead Extension", Rationale: "Constant tension with a friendlier elbow path", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 1.0, Equipment: "cable", EstimatedMinutes: 6},
		{Name: "Rope Pushdown", Rationale: "Elbow-friendly triceps isolation", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 1.0, Equipment: "cable", EstimatedMinutes: 6},
		{Name: "Dumbbell Kickback", Rationale: "Light-load triceps finisher", RestAdjustmentSeconds: 0, VolumeAdjustmentFactor: 1.0, Equipment: "dumbbell", EstimatedMinutes: 6},
	},
}

// aliases map common spellings onto a Rules key.
var aliases = map[string]string{
	"squat":                  "back squat",
	"barbell squat":          "back squat",
	"barbell back squat":     "back squat",
	"barbell bench press":    "bench press",
	"flat bench press":       "bench press",
	"conventional deadlift":  "deadlift",
	"military press":         "overhead press",
	"ohp":                    "overhead press",
	"pull-ups":               "pull-up",
	"pullup":                 "pull-up",
	"pull up":                "pull-up",
	"bent-over row":          "barbell row",
	"bent over row":          "barbell row",
	"bulgarian split squats": "bulgarian split squat",
	"lunge":                  "lunges",
	"walking lunges":         "lunges",
	"dip":                    "dips",
	"leg extensions":         "leg extension",
	"skull crushers":         "skull crusher",
}

// PainFilter tunes alternatives for a painful area. Names containing any
// Exclude keyword are dropped; names containing a Prefer keyword move to the
// front, keeping their relative order.
type PainFilter struct {
	Location string
	Exclude  []string
	Prefer   []string
}

// PainFilters is checked in order; the first whose Location occurs in the
// reported pain location applies.
var PainFilters = []PainFilter{
	{
		Location: "knee",
		Exclude:  []string{"squat", "lunge", "jump", "leg extension", "pistol"},
		Prefer:   []string{"step-up", "hinge", "deadlift", "hip thrust", "bridge", "press", "pull-through"},
	},
	{
		Location: "lower back",
		Exclude:  []string{"deadlift", "good morning", "bent-over", "barbell row", "back squat", "rack pull"},
		Prefer:   []string{"chest-supported", "machine", "supported", "cable", "leg press", "bridge"},
	},
	{
		Location: "back",
		Exclude:  []string{"deadlift", "good morning", "bent-over", "barbell row", "back squat", "rack pull"},
		Prefer:   []string{"chest-supported", "machine", "supported", "cable", "leg press", "bridge"},
	},
	{
		Location: "shoulder",
		Exclude:  []string{"overhead", "military", "upright row", "dip", "behind-the-neck", "pike"},
		Prefer:   []string{"landmine", "neutral-grip", "floor press", "cable", "machine"},
	},
	{
		Location: "elbow",
		Exclude:  []string{"skull crusher", "close-grip", "dip", "overhead extension"},
		Prefer:   []string{"rope", "cable", "neutral-grip", "machine"},
	},
	{
		Location: "wrist",
		Exclude:  []string{"push-up", "front squat", "barbell curl"},
		Prefer:   []string{"dumbbell", "cable", "machine", "neutral-grip"},
	},
	{
		Location: "hip",
		Exclude:  []string{"sumo", "lunge", "split squat", "deep squat"},
		Prefer:   []string{"machine", "leg press", "bridge", "cable"},
	},
}
