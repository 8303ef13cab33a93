package model

import "strings"

// GenreSeparator is the canonical delimiter used to persist an artist's
// genre tags in the single `artists.genres` column.
const GenreSeparator = ", "

// Artist represents a performer who can be booked for shows.  Genres are
// kept as an ordered list in memory and stored as one delimited string.
// This struct corresponds to a row in the `artists` table.
type Artist struct {
	ID           uint64   `json:"id"`            // artists.id
	Name         string   `json:"name"`          // artists.name
	City         string   `json:"city"`          // artists.city
	State        string   `json:"state"`         // artists.state
	Phone        string   `json:"phone"`         // artists.phone
	Genres       []string `json:"genres"`        // artists.genres (encoded)
	ImageLink    string   `json:"image_link"`    // artists.image_link
	FacebookLink string   `json:"facebook_link"` // artists.facebook_link
}

// EncodeGenres joins genre tags with GenreSeparator.  Tags are trimmed and
// blank tags dropped, so DecodeGenres(EncodeGenres(g)) returns g for any
// list of trimmed, non-empty tags that contain no comma.
func EncodeGenres(genres []string) string {
	parts := make([]string, 0, len(genres))
	for _, g := range genres {
		if g = strings.TrimSpace(g); g != "" {
			parts = append(parts, g)
		}
	}
	return strings.Join(parts, GenreSeparator)
}

// DecodeGenres splits a stored genres column back into its tags.  Legacy
// rows written with a bare "," are split the same way.
func DecodeGenres(s string) []string {
	out := []string{}
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
