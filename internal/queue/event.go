// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Activity event types.  The prefix names the entity kind.
const (
	VenueCreated  = "venue.created"
	VenueUpdated  = "venue.updated"
	VenueDeleted  = "venue.deleted"
	ArtistCreated = "artist.created"
	ArtistUpdated = "artist.updated"
	ArtistDeleted = "artist.deleted"
	ShowCreated   = "show.created"
)

// ActivityEvent is published after a directory write commits.  It carries
// enough context for downstream consumers to log or notify without
// querying the primary database.
type ActivityEvent struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	EntityID     uint64 `json:"entity_id"`
	Name         string `json:"name,omitempty"`
	VenueID      uint64 `json:"venue_id,omitempty"`
	ArtistID     uint64 `json:"artist_id,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	RemovedShows int64  `json:"removed_shows,omitempty"`
	OccurredAt   string `json:"occurred_at"`
}

// NewActivityEvent stamps a new event with a random id and the given time.
func NewActivityEvent(typ string, entityID uint64, at time.Time) ActivityEvent {
	return ActivityEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		EntityID:   entityID,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}
