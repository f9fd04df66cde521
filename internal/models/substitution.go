package models

// Alternative is a replacement for an exercise along with the load
// adjustments that should travel with it.
type Alternative struct {
	Name                   string  `json:"name"`
	Rationale              string  `json:"rationale"`
	RestAdjustmentSeconds  int     `json:"restAdjustmentSeconds"`
	VolumeAdjustmentFactor float64 `json:"volumeAdjustmentFactor"`
	Equipment              string  `json:"equipment,omitempty"`
	EstimatedMinutes       int     `json:"estimatedMinutes,omitempty"`
}

// Constraints narrows substitutions to what the user can do today.
// Zero values mean "no constraint".
type Constraints struct {
	Equipment  []string `json:"equipment,omitempty"`
	MaxMinutes int      `json:"time,omitempty"`
}
