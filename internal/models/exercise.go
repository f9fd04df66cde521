package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// DefaultSets is used when an exercise arrives without a set count.
const DefaultSets = 3

// Reps holds a rep prescription. Plans mix plain counts (8) and
// ranges or durations ("8-12", "45s"), so both JSON forms are accepted.
type Reps string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (r *Reps) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Reps(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("reps must be a string or number: %w", err)
	}
	*r = Reps(n.String())
	return nil
}

// Int returns the rep count when the prescription is a plain integer.
func (r Reps) Int() (int, bool) {
	n, err := strconv.Atoi(string(r))
	return n, err == nil
}

// Exercise is a single prescribed movement inside a workout.
type Exercise struct {
	Name          string   `json:"name"`
	Category      string   `json:"category,omitempty"`
	Sets          int      `json:"sets"`
	Reps          Reps     `json:"reps,omitempty"`
	Rationale     string   `json:"rationale,omitempty"`
	Aesthetic     bool     `json:"aesthetic,omitempty"`
	Modifications []string `json:"modifications,omitempty"`
}

// Clone returns a copy that shares no slices with e.
func (e Exercise) Clone() Exercise {
	if e.Modifications != nil {
		e.Modifications = append([]string(nil), e.Modifications...)
	}
	return e
}

// Workout is a list of exercises plus the record of how it was adapted.
type Workout struct {
	ID          uuid.UUID    `json:"id"`
	Exercises   []Exercise   `json:"exercises"`
	Adaptations *Adaptations `json:"adaptations,omitempty"`
}

// Adaptations describes the outcome of one adaptation pass.
type Adaptations struct {
	PerformancePercentage int            `json:"performancePercentage"`
	AestheticPercentage   int            `json:"aestheticPercentage"`
	VolumeReduced         bool           `json:"volumeReduced"`
	ReadinessLevel        float64        `json:"readinessLevel"`
	AestheticFocus        AestheticFocus `json:"aestheticFocus"`
	Scaling               []ScalingTrace `json:"scaling,omitempty"`
}

// Role decides the set floor an exercise may be scaled down to.
type Role string

const (
	RolePerformance Role = "performance"
	RoleAccessory   Role = "accessory"
)

// MinSets returns the lowest set count scaling may produce for the role.
func (r Role) MinSets() int {
	if r == RolePerformance {
		return 2
	}
	return 1
}

// AppliedFactor is one multiplicative volume adjustment.
type AppliedFactor struct {
	Source string  `json:"source"`
	Factor float64 `json:"factor"`
	Note   string  `json:"note,omitempty"`
}

// ScalingTrace records how an exercise's set count was derived from its
// original, unscaled value.
type ScalingTrace struct {
	Exercise       string          `json:"exercise"`
	Role           Role            `json:"role"`
	OriginalSets   int             `json:"originalSets"`
	AppliedFactors []AppliedFactor `json:"appliedFactors,omitempty"`
	FinalSets      int             `json:"finalSets"`
	// Injected marks accessory work added by adaptation rather than written
	// by the user. SubstitutedFor names the library exercise an injected
	// slot was swapped away from.
	Injected       bool   `json:"injected,omitempty"`
	SubstitutedFor string `json:"substitutedFor,omitempty"`
}

// Clone returns a copy that shares no slices with t.
func (t ScalingTrace) Clone() ScalingTrace {
	if t.AppliedFactors != nil {
		t.AppliedFactors = append([]AppliedFactor(nil), t.AppliedFactors...)
	}
	return t
}
