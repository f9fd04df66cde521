package models

import (
	"sort"
	"time"
)

// Session is one logged training session.
type Session struct {
	Name      string           `json:"name,omitempty"`
	Date      time.Time        `json:"date"`
	Duration  string           `json:"duration,omitempty"`
	Exercises []LoggedExercise `json:"exercises"`
}

// LoggedExercise is an exercise as performed within a session.
type LoggedExercise struct {
	Number     int      `json:"number,omitempty"`
	Name       string   `json:"name"`
	Equipment  string   `json:"equipment,omitempty"`
	TargetReps int      `json:"targetReps,omitempty"`
	Sets       []SetLog `json:"sets"`
}

// SetLog is a single performed set. RPE of 0 means the set was not rated.
type SetLog struct {
	Number           int     `json:"number,omitempty"`
	WeightKg         float64 `json:"weightKg"`
	IsBodyweightPlus bool    `json:"isBodyweightPlus,omitempty"`
	Reps             int     `json:"reps"`
	RPE              float64 `json:"rpe,omitempty"`
	IsWarmup         bool    `json:"isWarmup,omitempty"`
}

// UntrackedRIR marks a set whose reps-in-reserve was not recorded.
const UntrackedRIR = -1

// RPEFromRIR converts reps-in-reserve to RPE on the usual 10-point scale.
// Untracked RIR yields 0 (unrated).
func RPEFromRIR(rir float64) float64 {
	if rir < 0 {
		return 0
	}
	rpe := 10 - rir
	if rpe < 1 {
		rpe = 1
	}
	return rpe
}

// RIRFromRPE is the inverse of RPEFromRIR.
func RIRFromRPE(rpe float64) float64 {
	if rpe <= 0 {
		return UntrackedRIR
	}
	return 10 - rpe
}

// WorkoutSetRow is a row for the workout_sets table.
type WorkoutSetRow struct {
	UserID           int
	SessionName      string
	SessionDate      time.Time
	SessionDuration  string
	ExerciseNumber   int
	ExerciseName     string
	Equipment        string
	TargetReps       int
	IsWarmup         bool
	SetNumber        int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
}

// RowsFromSessions flattens sessions into workout_sets rows for userID.
func RowsFromSessions(userID int, sessions []Session) []WorkoutSetRow {
	var rows []WorkoutSetRow
	for _, s := range sessions {
		for i, ex := range s.Exercises {
			num := ex.Number
			if num == 0 {
				num = i + 1
			}
			for j, set := range ex.Sets {
				setNum := set.Number
				if setNum == 0 {
					setNum = j + 1
				}
				rows = append(rows, WorkoutSetRow{
					UserID:           userID,
					SessionName:      s.Name,
					SessionDate:      s.Date,
					SessionDuration:  s.Duration,
					ExerciseNumber:   num,
					ExerciseName:     ex.Name,
					Equipment:        ex.Equipment,
					TargetReps:       ex.TargetReps,
					IsWarmup:         set.IsWarmup,
					SetNumber:        setNum,
					WeightKg:         set.WeightKg,
					IsBodyweightPlus: set.IsBodyweightPlus,
					Reps:             set.Reps,
					RIR:              RIRFromRPE(set.RPE),
				})
			}
		}
	}
	return rows
}

// SessionsFromRows groups flat workout_sets rows back into sessions,
// ordered by session date and exercise number.
func SessionsFromRows(rows []WorkoutSetRow) []Session {
	type exKey struct {
		num  int
		name string
	}
	byDate := map[time.Time]*Session{}
	exIndex := map[time.Time]map[exKey]int{}
	var dates []time.Time

	for _, r := range rows {
		d := r.SessionDate
		s, ok := byDate[d]
		if !ok {
			s = &Session{Name: r.SessionName, Date: d, Duration: r.SessionDuration}
			byDate[d] = s
			exIndex[d] = map[exKey]int{}
			dates = append(dates, d)
		}
		k := exKey{r.ExerciseNumber, r.ExerciseName}
		idx, ok := exIndex[d][k]
		if !ok {
			s.Exercises = append(s.Exercises, LoggedExercise{
				Number:     r.ExerciseNumber,
				Name:       r.ExerciseName,
				Equipment:  r.Equipment,
				TargetReps: r.TargetReps,
			})
			idx = len(s.Exercises) - 1
			exIndex[d][k] = idx
		}
		s.Exercises[idx].Sets = append(s.Exercises[idx].Sets, SetLog{
			Number:           r.SetNumber,
			WeightKg:         r.WeightKg,
			IsBodyweightPlus: r.IsBodyweightPlus,
			Reps:             r.Reps,
			RPE:              RPEFromRIR(r.RIR),
			IsWarmup:         r.IsWarmup,
		})
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	out := make([]Session, 0, len(dates))
	for _, d := range dates {
		s := byDate[d]
		sort.SliceStable(s.Exercises, func(i, j int) bool { return s.Exercises[i].Number < s.Exercises[j].Number })
		out = append(out, *s)
	}
	return out
}
