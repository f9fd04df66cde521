// Package event is a small synchronous pub/sub bus used to fan readiness
// updates out to per-user adaptation services.
package event

import "time"

// Event is anything that can be published on the bus.
type Event interface {
	EventType() string
}

// TopicReadinessUpdated is published whenever a user logs a readiness score.
const TopicReadinessUpdated = "readiness.updated"

// Readiness carries the score as produced by the readiness check-in.
type Readiness struct {
	ReadinessScore float64 `json:"readinessScore"`
}

// ReadinessUpdated announces a new readiness score for a user.
type ReadinessUpdated struct {
	UserID    int       `json:"userId"`
	Readiness Readiness `json:"readiness"`
	At        time.Time `json:"at"`
}

// EventType implements Event.
func (ReadinessUpdated) EventType() string { return TopicReadinessUpdated }
