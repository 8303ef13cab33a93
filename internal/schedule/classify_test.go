package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/fyyur-booking/internal/model"
)

var now = time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  Classification
	}{
		{"one nanosecond before", now.Add(-time.Nanosecond), Past},
		{"exactly now", now, Current},
		{"same instant other zone", now.In(time.FixedZone("CET", 3600)), Current},
		{"one hour after", now.Add(time.Hour), Upcoming},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.start, now))
		})
	}
}

func TestClassify_ClockAdvanceMovesShowToPast(t *testing.T) {
	start := now.Add(time.Hour)
	assert.Equal(t, Upcoming, Classify(start, now))
	assert.Equal(t, Current, Classify(start, start))
	assert.Equal(t, Past, Classify(start, now.Add(2*time.Hour)))
}

func TestPartition_CountsAddUp(t *testing.T) {
	shows := []model.Show{
		{ID: 1, StartTime: now.Add(48 * time.Hour)},
		{ID: 2, StartTime: now.Add(-48 * time.Hour)},
		{ID: 3, StartTime: now},
		{ID: 4, StartTime: now.Add(time.Hour)},
		{ID: 5, StartTime: now.Add(-time.Hour)},
	}
	b := Partition(shows, now)

	assert.Equal(t, 1, b.Current)
	assert.Equal(t, len(shows), len(b.Past)+len(b.Upcoming)+b.Current)
	assert.Equal(t, CountPast(shows, now), len(b.Past))
	assert.Equal(t, CountUpcoming(shows, now), len(b.Upcoming))

	// ascending start time inside each bucket
	assert.Equal(t, uint64(2), b.Past[0].ID)
	assert.Equal(t, uint64(5), b.Past[1].ID)
	assert.Equal(t, uint64(4), b.Upcoming[0].ID)
	assert.Equal(t, uint64(1), b.Upcoming[1].ID)

	// input untouched
	assert.Equal(t, uint64(1), shows[0].ID)
}

func TestPartition_Empty(t *testing.T) {
	b := Partition(nil, now)
	assert.NotNil(t, b.Past)
	assert.NotNil(t, b.Upcoming)
	assert.Zero(t, b.Current)
}

func TestFormatStartTime(t *testing.T) {
	loc := time.FixedZone("PDT", -7*3600)
	ts := time.Date(2019, 5, 21, 14, 30, 0, 123456789, loc)
	assert.Equal(t, "2019-05-21T21:30:00.123Z", FormatStartTime(ts))
	assert.Equal(t, "2026-10-14T18:00:00.000Z", FormatStartTime(now))
}

func TestUpcomingByVenueAndArtist(t *testing.T) {
	shows := []model.Show{
		{ID: 1, VenueID: 1, ArtistID: 10, StartTime: now.Add(time.Hour)},
		{ID: 2, VenueID: 1, ArtistID: 11, StartTime: now.Add(2 * time.Hour)},
		{ID: 3, VenueID: 2, ArtistID: 10, StartTime: now.Add(-time.Hour)},
	}
	assert.Equal(t, map[uint64]int{1: 2}, UpcomingByVenue(shows, now))
	assert.Equal(t, map[uint64]int{10: 1, 11: 1}, UpcomingByArtist(shows, now))
}
