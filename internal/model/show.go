package model

import "time"

// Show is a scheduled booking linking exactly one artist to exactly one
// venue at a start time.  Whether a show is past or upcoming is never
// stored; it is derived from StartTime at read time.  StartTime is UTC
// with millisecond precision.
type Show struct {
	ID        uint64    // shows.id
	ArtistID  uint64    // shows.artist_id
	VenueID   uint64    // shows.venue_id
	StartTime time.Time // shows.start_time
}
