package service

import (
	"strings"
	"time"

	"github.com/iliyamo/fyyur-booking/internal/model"
)

// VenueInput is the set of fields a create or update writes to a venue.
// Update overwrites all of them.
type VenueInput struct {
	Name         string `json:"name" form:"name" validate:"required,max=120"`
	City         string `json:"city" form:"city" validate:"max=120"`
	State        string `json:"state" form:"state" validate:"max=120"`
	Address      string `json:"address" form:"address" validate:"max=120"`
	Phone        string `json:"phone" form:"phone" validate:"max=120"`
	ImageLink    string `json:"image_link" form:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink string `json:"facebook_link" form:"facebook_link" validate:"omitempty,url,max=120"`
}

func (in VenueInput) normalized() VenueInput {
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	in.ImageLink = strings.TrimSpace(in.ImageLink)
	in.FacebookLink = strings.TrimSpace(in.FacebookLink)
	return in
}

func (in VenueInput) venue(id uint64) *model.Venue {
	return &model.Venue{
		ID:           id,
		Name:         in.Name,
		City:         in.City,
		State:        in.State,
		Address:      in.Address,
		Phone:        in.Phone,
		ImageLink:    in.ImageLink,
		FacebookLink: in.FacebookLink,
	}
}

// ArtistInput is the set of fields a create or update writes to an artist.
// Genre tags may not contain a comma, the stored delimiter, and the encoded
// list must fit the genres column.
type ArtistInput struct {
	Name         string   `json:"name" form:"name" validate:"required,max=120"`
	City         string   `json:"city" form:"city" validate:"max=120"`
	State        string   `json:"state" form:"state" validate:"max=120"`
	Phone        string   `json:"phone" form:"phone" validate:"max=120"`
	Genres       []string `json:"genres" form:"genres" validate:"genrelen=500,dive,excludesall=0x2C,max=60"`
	ImageLink    string   `json:"image_link" form:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink string   `json:"facebook_link" form:"facebook_link" validate:"omitempty,url,max=120"`
}

func (in ArtistInput) normalized() ArtistInput {
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Phone = strings.TrimSpace(in.Phone)
	in.ImageLink = strings.TrimSpace(in.ImageLink)
	in.FacebookLink = strings.TrimSpace(in.FacebookLink)
	genres := make([]string, 0, len(in.Genres))
	for _, g := range in.Genres {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	in.Genres = genres
	return in
}

func (in ArtistInput) artist(id uint64) *model.Artist {
	return &model.Artist{
		ID:           id,
		Name:         in.Name,
		City:         in.City,
		State:        in.State,
		Phone:        in.Phone,
		Genres:       in.Genres,
		ImageLink:    in.ImageLink,
		FacebookLink: in.FacebookLink,
	}
}

// ShowInput books an artist at a venue.
type ShowInput struct {
	ArtistID  uint64    `json:"artist_id" validate:"required"`
	VenueID   uint64    `json:"venue_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
}
