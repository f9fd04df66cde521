package models

import (
	"fmt"
	"strings"
	"time"
)

// AestheticFocus is the physique goal that steers accessory selection.
type AestheticFocus string

const (
	FocusVTaper     AestheticFocus = "v_taper"
	FocusGlutes     AestheticFocus = "glutes"
	FocusToned      AestheticFocus = "toned"
	FocusFunctional AestheticFocus = "functional"
)

// DefaultFocus is applied when no preference is stored.
const DefaultFocus = FocusFunctional

// DefaultReadiness is assumed when no readiness score is known. It sits
// above the reduction threshold so unknown readiness never trims volume.
const DefaultReadiness = 7.0

// Valid reports whether f is one of the known focus values.
func (f AestheticFocus) Valid() bool {
	switch f {
	case FocusVTaper, FocusGlutes, FocusToned, FocusFunctional:
		return true
	}
	return false
}

// ParseFocus normalises user input ("V-Taper", " glutes ") into a focus value.
func ParseFocus(s string) (AestheticFocus, error) {
	f := AestheticFocus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !f.Valid() {
		return "", fmt.Errorf("unknown aesthetic focus %q", s)
	}
	return f, nil
}

// Preferences is the per-user state the engine caches.
type Preferences struct {
	AestheticFocus     AestheticFocus `json:"aestheticFocus"`
	LastReadinessScore float64        `json:"lastReadinessScore"`
	UpdatedAt          time.Time      `json:"updatedAt,omitempty"`
}

// ValidReadiness reports whether score is on the 1-10 readiness scale.
func ValidReadiness(score float64) bool {
	return score >= 1 && score <= 10
}

// SplitInfo summarises the current performance/aesthetic split for display.
type SplitInfo struct {
	AestheticFocus        AestheticFocus `json:"aestheticFocus"`
	PerformancePercentage int            `json:"performancePercentage"`
	AestheticPercentage   int            `json:"aestheticPercentage"`
	ReadinessLevel        float64        `json:"readinessLevel"`
	AccessoriesReduced    bool           `json:"accessoriesReduced"`
}
