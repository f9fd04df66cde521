package selection

// MuscleGroupPatterns maps a target muscle group to name fragments that
// identify exercises training it.
var MuscleGroupPatterns = map[string][]string{
	"chest":     {"bench", "chest", "push-up", "pushup", "fly", "flye", "dip", "pec"},
	"back":      {"row", "pull", "lat ", "pulldown", "chin", "deadlift", "shrug"},
	"shoulders": {"overhead press", "shoulder", "lateral raise", "delt", "military", "arnold", "face pull", "push press"},
	"legs":      {"squat", "lunge", "leg ", "leg press", "hip thrust", "calf", "step-up", "glute", "rdl", "romanian"},
	"arms":      {"curl", "tricep", "skull", "hammer", "extension", "close-grip", "dip"},
	"core":      {"plank", "crunch", "abs", "ab wheel", "core", "twist", "hollow", "leg raise", "dead bug"},
}

// Complexity is the technical demand of a movement pattern.
type Complexity struct {
	Keyword string
	Score   int
}

// DefaultComplexity applies when no keyword matches.
const DefaultComplexity = 5

// ComplexityTable is matched against lower-cased names; the highest match wins.
var ComplexityTable = []Complexity{
	{"clean", 10},
	{"snatch", 10},
	{"jerk", 10},
	{"deadlift", 9},
	{"overhead squat", 9},
	{"front squat", 8},
	{"squat", 7},
	{"pull-up", 6},
	{"bench press", 6},
	{"overhead press", 6},
	{"dip", 6},
	{"row", 5},
	{"lunge", 5},
	{"dumbbell", 4},
	{"push-up", 4},
	{"cable", 3},
	{"machine", 3},
	{"leg press", 3},
	{"curl", 2},
	{"plank", 2},
}

// Assistance lists the exercises that carry over to a stalled lift, most
// effective first.
type Assistance struct {
	Lift      string
	Exercises []string
}

// PlateauAssistance is consulted in order; the first lift contained in a
// plateaued exercise's name supplies the assistance list.
var PlateauAssistance = []Assistance{
	{"bench press", []string{"dumbbell press", "incline", "close-grip", "dip", "floor press"}},
	{"overhead press", []string{"push press", "dumbbell shoulder press", "seated press", "lateral raise"}},
	{"deadlift", []string{"romanian deadlift", "rack pull", "deficit deadlift", "hip thrust"}},
	{"squat", []string{"front squat", "pause squat", "leg press", "bulgarian split squat"}},
	{"pull-up", []string{"lat pulldown", "chin-up", "negative", "inverted row"}},
	{"row", []string{"dumbbell row", "chest-supported row", "seal row", "face pull"}},
}

// assistanceBonus is the score added for the assistance exercise at position.
func assistanceBonus(position int) int {
	return max(15-3*position, 5)
}
