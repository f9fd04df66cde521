// Package split partitions a workout into performance and aesthetic buckets.
package split

import (
	"math"
	"strings"

	"github.com/claude/liftadapt/internal/models"
)

// PerformanceRatio is the share of exercises, by position, kept in the
// performance bucket.
const PerformanceRatio = 0.7

// Percentages reported alongside an adapted workout.
const (
	PerformancePercentage = 70
	AestheticPercentage   = 30
)

// PerformanceKeywords mark compound lifts that stay in the performance
// bucket wherever they appear in the list.
var PerformanceKeywords = []string{
	"squat",
	"deadlift",
	"bench",
	"overhead press",
	"pull",
	"dip",
	"clean",
	"snatch",
	"overhead squat",
}

// Buckets is the result of Classify.
type Buckets struct {
	Performance []models.Exercise `json:"performance"`
	Aesthetic   []models.Exercise `json:"aesthetic"`
}

// IsPerformanceLift reports whether name matches a performance keyword.
func IsPerformanceLift(name string) bool {
	n := strings.ToLower(name)
	for _, kw := range PerformanceKeywords {
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}

// Classify splits exercises into performance and aesthetic buckets. The
// first ceil(n*0.7) positions are performance, as is any keyword match;
// the rest are aesthetic and come back with Aesthetic set. The input is
// not modified.
func Classify(exercises []models.Exercise) Buckets {
	b := Buckets{
		Performance: []models.Exercise{},
		Aesthetic:   []models.Exercise{},
	}
	performanceCount := int(math.Ceil(float64(len(exercises)) * PerformanceRatio))

	for i, ex := range exercises {
		ex = ex.Clone()
		if IsPerformanceLift(ex.Name) || i < performanceCount {
			ex.Aesthetic = false
			b.Performance = append(b.Performance, ex)
			continue
		}
		ex.Aesthetic = true
		b.Aesthetic = append(b.Aesthetic, ex)
	}
	return b
}
