package models

import (
	"strings"
	"time"
)

// TrendStatus classifies an exercise's working-weight trajectory.
type TrendStatus string

const (
	TrendProgressing      TrendStatus = "progressing"
	TrendPlateau          TrendStatus = "plateau"
	TrendRegressing       TrendStatus = "regressing"
	TrendInsufficientData TrendStatus = "insufficient_data"
)

// ProgressionRecord is the per-exercise time series, one point per session.
type ProgressionRecord struct {
	Weights []float64   `json:"weights"`
	Reps    []int       `json:"reps"`
	RPE     []float64   `json:"rpe"`
	Dates   []time.Time `json:"dates"`
	Status  TrendStatus `json:"status"`
	Trend   float64     `json:"trend"`
}

// Len returns the number of data points.
func (r *ProgressionRecord) Len() int { return len(r.Weights) }

// ProgressionSnapshot is derived from session history on every request.
type ProgressionSnapshot struct {
	ExerciseProgress         map[string]*ProgressionRecord `json:"exerciseProgress"`
	PlateauExercises         []string                      `json:"plateauExercises"`
	ProgressingExercises     []string                      `json:"progressingExercises"`
	RegressingExercises      []string                      `json:"regressingExercises"`
	AverageRPE               float64                       `json:"averageRPE"`
	TrainingFrequencyPerWeek float64                       `json:"trainingFrequencyPerWeek"`
	SessionCount             int                           `json:"sessionCount"`
}

// Record looks an exercise up by name, ignoring case and surrounding space.
func (s *ProgressionSnapshot) Record(name string) (*ProgressionRecord, bool) {
	if s == nil {
		return nil, false
	}
	if r, ok := s.ExerciseProgress[name]; ok {
		return r, true
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for k, r := range s.ExerciseProgress {
		if strings.ToLower(k) == want {
			return r, true
		}
	}
	return nil, false
}

// Experience is a user's self-reported training age.
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

// UserProfile is what the selector knows about the user.
type UserProfile struct {
	ExperienceLevel Experience           `json:"experienceLevel"`
	Progression     *ProgressionSnapshot `json:"progression,omitempty"`
}

// Candidate is an exercise offered to the selector.
type Candidate struct {
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup,omitempty"`
	Equipment   string `json:"equipment,omitempty"`
}
