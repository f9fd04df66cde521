// Package progression turns logged sessions into per-exercise trends.
package progression

import (
	"sort"
	"strings"
	"time"

	"github.com/claude/liftadapt/internal/models"
)

const (
	// WindowDays is how far back sessions are considered.
	WindowDays = 30
	// TrendWindow is the number of points in each compared window.
	TrendWindow = 5
	// MinWindowPoints is the fewest points a window needs for a verdict.
	MinWindowPoints = 3
	// MinPoints is the fewest points before a trend is attempted at all.
	MinPoints = 3
	// TrendThreshold is the relative change separating a plateau from a trend.
	TrendThreshold = 0.05
	// DefaultRPE is reported when no set in the window was rated.
	DefaultRPE = 7.0
	// weeksPerWindow converts the session count to a weekly frequency.
	weeksPerWindow = 4
)

// Analyzer builds progression snapshots. The zero value uses time.Now.
type Analyzer struct {
	now func() time.Time
}

// NewAnalyzer returns an analyzer using now as its clock; nil means time.Now.
func NewAnalyzer(now func() time.Time) *Analyzer {
	return &Analyzer{now: now}
}

func (a *Analyzer) clock() time.Time {
	if a == nil || a.now == nil {
		return time.Now()
	}
	return a.now()
}

// Snapshot analyses the sessions from the trailing 30 days. Each exercise
// contributes one point per session: its heaviest working set, the reps at
// that weight, and the mean RPE of its rated working sets.
func (a *Analyzer) Snapshot(sessions []models.Session) *models.ProgressionSnapshot {
	now := a.clock()
	cutoff := now.AddDate(0, 0, -WindowDays)

	window := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Date.Before(cutoff) || s.Date.After(now) {
			continue
		}
		window = append(window, s)
	}
	sort.SliceStable(window, func(i, j int) bool { return window[i].Date.Before(window[j].Date) })

	snap := &models.ProgressionSnapshot{
		ExerciseProgress:     map[string]*models.ProgressionRecord{},
		PlateauExercises:     []string{},
		ProgressingExercises: []string{},
		RegressingExercises:  []string{},
		SessionCount:         len(window),
	}

	displayName := map[string]string{}
	var rpeSum float64
	var rpeCount int

	for _, s := range window {
		for _, ex := range s.Exercises {
			name := strings.TrimSpace(ex.Name)
			if name == "" {
				continue
			}
			top, rpe, rated, ok := summarise(ex.Sets)
			if !ok {
				continue
			}
			rpeSum += rpe * float64(rated)
			rpeCount += rated

			key := strings.ToLower(name)
			if _, seen := displayName[key]; !seen {
				displayName[key] = name
			}
			rec := snap.ExerciseProgress[displayName[key]]
			if rec == nil {
				rec = &models.ProgressionRecord{Status: models.TrendInsufficientData}
				snap.ExerciseProgress[displayName[key]] = rec
			}
			rec.Weights = append(rec.Weights, top.WeightKg)
			rec.Reps = append(rec.Reps, top.Reps)
			rec.RPE = append(rec.RPE, rpe)
			rec.Dates = append(rec.Dates, s.Date)
		}
	}

	snap.TrainingFrequencyPerWeek = float64(len(window)) / weeksPerWindow
	snap.AverageRPE = DefaultRPE
	if rpeCount > 0 {
		snap.AverageRPE = rpeSum / float64(rpeCount)
	}

	for name, rec := range snap.ExerciseProgress {
		if rec.Len() < MinPoints {
			continue
		}
		rec.Status, rec.Trend = CalculateTrend(rec.Weights)
		switch rec.Status {
		case models.TrendPlateau:
			snap.PlateauExercises = append(snap.PlateauExercises, name)
		case models.TrendProgressing:
			snap.ProgressingExercises = append(snap.ProgressingExercises, name)
		case models.TrendRegressing:
			snap.RegressingExercises = append(snap.RegressingExercises, name)
		}
	}
	sort.Strings(snap.PlateauExercises)
	sort.Strings(snap.ProgressingExercises)
	sort.Strings(snap.RegressingExercises)

	return snap
}

// summarise picks the heaviest working set and the mean RPE over rated
// working sets. ok is false when there are no working sets.
func summarise(sets []models.SetLog) (top models.SetLog, meanRPE float64, rated int, ok bool) {
	var sum float64
	for _, s := range sets {
		if s.IsWarmup {
			continue
		}
		if !ok || s.WeightKg > top.WeightKg {
			top = s
		}
		ok = true
		if s.RPE > 0 {
			sum += s.RPE
			rated++
		}
	}
	if rated > 0 {
		meanRPE = sum / float64(rated)
	}
	return top, meanRPE, rated, ok
}

// CalculateTrend compares the mean of the last five weights with the mean of
// the five before them. Either window holding fewer than three points gives
// insufficient_data.
func CalculateTrend(weights []float64) (models.TrendStatus, float64) {
	n := len(weights)
	recentStart := max(0, n-TrendWindow)
	olderStart := max(0, recentStart-TrendWindow)
	recent := weights[recentStart:]
	older := weights[olderStart:recentStart]

	if len(recent) < MinWindowPoints || len(older) < MinWindowPoints {
		return models.TrendInsufficientData, 0
	}

	recentAvg := mean(recent)
	olderAvg := mean(older)
	if olderAvg <= 0 {
		if recentAvg > 0 {
			return models.TrendProgressing, 1
		}
		return models.TrendPlateau, 0
	}

	trend := (recentAvg - olderAvg) / olderAvg
	switch {
	case trend > TrendThreshold:
		return models.TrendProgressing, trend
	case trend < -TrendThreshold:
		return models.TrendRegressing, trend
	default:
		return models.TrendPlateau, trend
	}
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
