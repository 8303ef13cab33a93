// Package schedule classifies shows against an evaluation instant and
// builds the aggregated views that combine shows with their venue and
// artist.  Nothing here touches storage: callers load the rows inside one
// transaction and pass a single `now` so that counts and lists computed
// for one response always agree.
package schedule

import (
	"sort"
	"time"

	"github.com/iliyamo/fyyur-booking/internal/model"
)

// Classification places a show relative to an evaluation instant.
type Classification int

const (
	// Past shows started strictly before the evaluation instant.
	Past Classification = iota
	// Current shows start exactly at the evaluation instant and belong
	// to neither list.
	Current
	// Upcoming shows start strictly after the evaluation instant.
	Upcoming
)

func (c Classification) String() string {
	switch c {
	case Past:
		return "past"
	case Current:
		return "current"
	case Upcoming:
		return "upcoming"
	}
	return "unknown"
}

// Classify compares start with now.
func Classify(start, now time.Time) Classification {
	switch {
	case start.Before(now):
		return Past
	case start.After(now):
		return Upcoming
	default:
		return Current
	}
}

// StartTimeLayout renders start times as ISO-8601 UTC with milliseconds.
const StartTimeLayout = "2006-01-02T15:04:05.000Z"

// FormatStartTime formats t in UTC using StartTimeLayout.
func FormatStartTime(t time.Time) string {
	return t.UTC().Format(StartTimeLayout)
}

// Buckets is the result of partitioning shows at one instant.  Past and
// Upcoming are ordered by start time ascending.
type Buckets struct {
	Past     []model.Show
	Upcoming []model.Show
	Current  int
}

// Partition splits shows into past and upcoming.  The input is not
// modified.
func Partition(shows []model.Show, now time.Time) Buckets {
	sorted := sortedByStart(shows)
	b := Buckets{Past: []model.Show{}, Upcoming: []model.Show{}}
	for _, s := range sorted {
		switch Classify(s.StartTime, now) {
		case Past:
			b.Past = append(b.Past, s)
		case Upcoming:
			b.Upcoming = append(b.Upcoming, s)
		default:
			b.Current++
		}
	}
	return b
}

// CountUpcoming returns how many shows start after now.
func CountUpcoming(shows []model.Show, now time.Time) int {
	n := 0
	for _, s := range shows {
		if Classify(s.StartTime, now) == Upcoming {
			n++
		}
	}
	return n
}

// CountPast returns how many shows started before now.
func CountPast(shows []model.Show, now time.Time) int {
	n := 0
	for _, s := range shows {
		if Classify(s.StartTime, now) == Past {
			n++
		}
	}
	return n
}

// UpcomingByVenue counts upcoming shows per venue id.
func UpcomingByVenue(shows []model.Show, now time.Time) map[uint64]int {
	out := map[uint64]int{}
	for _, s := range shows {
		if Classify(s.StartTime, now) == Upcoming {
			out[s.VenueID]++
		}
	}
	return out
}

// UpcomingByArtist counts upcoming shows per artist id.
func UpcomingByArtist(shows []model.Show, now time.Time) map[uint64]int {
	out := map[uint64]int{}
	for _, s := range shows {
		if Classify(s.StartTime, now) == Upcoming {
			out[s.ArtistID]++
		}
	}
	return out
}

func sortedByStart(shows []model.Show) []model.Show {
	out := append([]model.Show(nil), shows...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
