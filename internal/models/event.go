package models

import "time"

// Vessel event types.
const (
	EventCreated = "vessel.created"
	EventUpdated = "vessel.updated"
	EventDeleted = "vessel.deleted"
)

// Event is one vessel change pushed to dashboards. Vessel is nil for deletions.
type Event struct {
	Type   string    `json:"type"`
	ID     string    `json:"id"`
	Vessel *Vessel   `json:"vessel,omitempty"`
	At     time.Time `json:"at"`
}
