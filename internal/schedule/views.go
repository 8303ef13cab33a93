package schedule

import (
	"fmt"
	"time"

	"github.com/iliyamo/fyyur-booking/internal/model"
	"github.com/iliyamo/fyyur-booking/internal/repository"
)

// ArtistAppearance is one show on a venue page.
type ArtistAppearance struct {
	ArtistID        uint64 `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

// VenueAppearance is one show on an artist page.
type VenueAppearance struct {
	VenueID        uint64 `json:"venue_id"`
	VenueName      string `json:"venue_name"`
	VenueImageLink string `json:"venue_image_link"`
	StartTime      string `json:"start_time"`
}

// VenueDetail is the venue page payload.  Genres is the union of the
// genres of every artist booked at the venue, in first-seen order.
type VenueDetail struct {
	ID                 uint64             `json:"id"`
	Name               string             `json:"name"`
	Genres             []string           `json:"genres"`
	Address            string             `json:"address"`
	City               string             `json:"city"`
	State              string             `json:"state"`
	Phone              string             `json:"phone"`
	FacebookLink       string             `json:"facebook_link"`
	ImageLink          string             `json:"image_link"`
	PastShows          []ArtistAppearance `json:"past_shows"`
	UpcomingShows      []ArtistAppearance `json:"upcoming_shows"`
	PastShowsCount     int                `json:"past_shows_count"`
	UpcomingShowsCount int                `json:"upcoming_shows_count"`
}

// ArtistDetail is the artist page payload.
type ArtistDetail struct {
	ID                 uint64            `json:"id"`
	Name               string            `json:"name"`
	Genres             []string          `json:"genres"`
	City               string            `json:"city"`
	State              string            `json:"state"`
	Phone              string            `json:"phone"`
	ImageLink          string            `json:"image_link"`
	FacebookLink       string            `json:"facebook_link"`
	PastShows          []VenueAppearance `json:"past_shows"`
	UpcomingShows      []VenueAppearance `json:"upcoming_shows"`
	PastShowsCount     int               `json:"past_shows_count"`
	UpcomingShowsCount int               `json:"upcoming_shows_count"`
}

// ShowListing is one row of the show list.
type ShowListing struct {
	VenueID         uint64 `json:"venue_id"`
	VenueName       string `json:"venue_name"`
	ArtistID        uint64 `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

func danglingArtist(s model.Show) error {
	return fmt.Errorf("%w: show %d references missing artist %d", repository.ErrDataIntegrity, s.ID, s.ArtistID)
}

func danglingVenue(s model.Show) error {
	return fmt.Errorf("%w: show %d references missing venue %d", repository.ErrDataIntegrity, s.ID, s.VenueID)
}

// BuildVenueDetail assembles the venue page from the venue, the shows
// booked at it and the artists those shows reference.  A show whose
// artist is absent from artists yields ErrDataIntegrity.
func BuildVenueDetail(v model.Venue, shows []model.Show, artists map[uint64]model.Artist, now time.Time) (VenueDetail, error) {
	b := Partition(shows, now)
	d := VenueDetail{
		ID:                 v.ID,
		Name:               v.Name,
		Genres:             []string{},
		Address:            v.Address,
		City:               v.City,
		State:              v.State,
		Phone:              v.Phone,
		FacebookLink:       v.FacebookLink,
		ImageLink:          v.ImageLink,
		PastShows:          make([]ArtistAppearance, 0, len(b.Past)),
		UpcomingShows:      make([]ArtistAppearance, 0, len(b.Upcoming)),
		PastShowsCount:     len(b.Past),
		UpcomingShowsCount: len(b.Upcoming),
	}

	seen := map[string]bool{}
	for _, s := range sortedByStart(shows) {
		a, ok := artists[s.ArtistID]
		if !ok {
			return VenueDetail{}, danglingArtist(s)
		}
		for _, g := range a.Genres {
			if !seen[g] {
				seen[g] = true
				d.Genres = append(d.Genres, g)
			}
		}
	}
	for _, s := range b.Past {
		d.PastShows = append(d.PastShows, artistAppearance(s, artists[s.ArtistID]))
	}
	for _, s := range b.Upcoming {
		d.UpcomingShows = append(d.UpcomingShows, artistAppearance(s, artists[s.ArtistID]))
	}
	return d, nil
}

// BuildArtistDetail assembles the artist page.  A show whose venue is
// absent from venues yields ErrDataIntegrity.
func BuildArtistDetail(a model.Artist, shows []model.Show, venues map[uint64]model.Venue, now time.Time) (ArtistDetail, error) {
	b := Partition(shows, now)
	d := ArtistDetail{
		ID:                 a.ID,
		Name:               a.Name,
		Genres:             append([]string{}, a.Genres...),
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		ImageLink:          a.ImageLink,
		FacebookLink:       a.FacebookLink,
		PastShows:          make([]VenueAppearance, 0, len(b.Past)),
		UpcomingShows:      make([]VenueAppearance, 0, len(b.Upcoming)),
		PastShowsCount:     len(b.Past),
		UpcomingShowsCount: len(b.Upcoming),
	}
	for _, s := range shows {
		if _, ok := venues[s.VenueID]; !ok {
			return ArtistDetail{}, danglingVenue(s)
		}
	}
	for _, s := range b.Past {
		d.PastShows = append(d.PastShows, venueAppearance(s, venues[s.VenueID]))
	}
	for _, s := range b.Upcoming {
		d.UpcomingShows = append(d.UpcomingShows, venueAppearance(s, venues[s.VenueID]))
	}
	return d, nil
}

// BuildShowListings projects every show with its venue and artist names,
// keeping the order of shows.
func BuildShowListings(shows []model.Show, venues map[uint64]model.Venue, artists map[uint64]model.Artist) ([]ShowListing, error) {
	out := make([]ShowListing, 0, len(shows))
	for _, s := range shows {
		v, ok := venues[s.VenueID]
		if !ok {
			return nil, danglingVenue(s)
		}
		a, ok := artists[s.ArtistID]
		if !ok {
			return nil, danglingArtist(s)
		}
		out = append(out, ShowListing{
			VenueID:         v.ID,
			VenueName:       v.Name,
			ArtistID:        a.ID,
			ArtistName:      a.Name,
			ArtistImageLink: a.ImageLink,
			StartTime:       FormatStartTime(s.StartTime),
		})
	}
	return out, nil
}

func artistAppearance(s model.Show, a model.Artist) ArtistAppearance {
	return ArtistAppearance{
		ArtistID:        a.ID,
		ArtistName:      a.Name,
		ArtistImageLink: a.ImageLink,
		StartTime:       FormatStartTime(s.StartTime),
	}
}

func venueAppearance(s model.Show, v model.Venue) VenueAppearance {
	return VenueAppearance{
		VenueID:        v.ID,
		VenueName:      v.Name,
		VenueImageLink: v.ImageLink,
		StartTime:      FormatStartTime(s.StartTime),
	}
}
