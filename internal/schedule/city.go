package schedule

import "github.com/iliyamo/fyyur-booking/internal/model"

// Summary is the short form of a venue or artist used by lists and
// search results.
type Summary struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// SearchResult wraps the matches of a name search.
type SearchResult struct {
	Count int       `json:"count"`
	Data  []Summary `json:"data"`
}

// NewSearchResult builds a SearchResult from summaries.
func NewSearchResult(data []Summary) SearchResult {
	if data == nil {
		data = []Summary{}
	}
	return SearchResult{Count: len(data), Data: data}
}

// CityGroup holds the venues of one (city, state) area.
type CityGroup struct {
	City   string    `json:"city"`
	State  string    `json:"state"`
	Venues []Summary `json:"venues"`
}

type area struct {
	city, state string
}

// GroupByCity partitions venues by their (city, state) pair.  Groups
// appear in the order their first venue appears in venues, and venues
// keep their relative order inside a group.  upcoming maps venue id to
// its number of upcoming shows, as returned by UpcomingByVenue.
func GroupByCity(venues []model.Venue, upcoming map[uint64]int) []CityGroup {
	groups := []CityGroup{}
	index := map[area]int{}
	for _, v := range venues {
		k := area{city: v.City, state: v.State}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, CityGroup{City: v.City, State: v.State, Venues: []Summary{}})
		}
		groups[i].Venues = append(groups[i].Venues, Summary{ID: v.ID, Name: v.Name, NumUpcomingShows: upcoming[v.ID]})
	}
	return groups
}
