package model

// Venue represents a physical location that can host shows.  A venue owns
// its shows: deleting a venue removes every show booked at it.  This
// struct corresponds to a row in the `venues` table.  Only Name is
// required; City and State together form the grouping area.
type Venue struct {
	ID           uint64 `json:"id"`            // venues.id
	Name         string `json:"name"`          // venues.name
	City         string `json:"city"`          // venues.city
	State        string `json:"state"`         // venues.state
	Address      string `json:"address"`       // venues.address
	Phone        string `json:"phone"`         // venues.phone
	ImageLink    string `json:"image_link"`    // venues.image_link
	FacebookLink string `json:"facebook_link"` // venues.facebook_link
}
