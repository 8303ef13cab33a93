package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeGenres(t *testing.T) {
	tests := []struct {
		name   string
		genres []string
		want   string
	}{
		{"empty", nil, ""},
		{"single", []string{"Rock n Roll"}, "Rock n Roll"},
		{"several", []string{"Jazz", "Rock", "Classical"}, "Jazz, Rock, Classical"},
		{"trims and drops blanks", []string{" Jazz ", "", "  ", "Folk"}, "Jazz, Folk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeGenres(tt.genres))
		})
	}
}

func TestDecodeGenres(t *testing.T) {
	assert.Equal(t, []string{}, DecodeGenres(""))
	assert.Equal(t, []string{"Jazz", "Rock"}, DecodeGenres("Jazz, Rock"))
	// rows written with a bare comma
	assert.Equal(t, []string{"Jazz", "Rock", "Funk"}, DecodeGenres("Jazz,Rock ,Funk"))
}

func TestGenresRoundTrip(t *testing.T) {
	for _, genres := range [][]string{
		{"Jazz", "Rock"},
		{"Rock n Roll"},
		{"R&B", "Hip-Hop", "Musical Theatre"},
		{},
	} {
		assert.Equal(t, genres, DecodeGenres(EncodeGenres(genres)))
	}
}
