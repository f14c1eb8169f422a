package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidence_Max(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, ConfidenceLow.Max(ConfidenceHigh))
	assert.Equal(t, ConfidenceHigh, ConfidenceHigh.Max(ConfidenceLow))
	assert.Equal(t, ConfidenceMedium, ConfidenceMedium.Max(ConfidenceLow))
	assert.Equal(t, ConfidenceMedium, ConfidenceMedium.Max(""))
}

func TestCandidate_Key(t *testing.T) {
	c := Candidate{Name: " Thandi Mokoena ", Email: "Thandi@Example.com"}
	assert.Equal(t, "thandi mokoena||thandi@example.com", c.Key())

	nameOnly := Candidate{Name: "DJ Sbu"}
	assert.Equal(t, "dj sbu||", nameOnly.Key())

	empty := Candidate{Source: "Google Search"}
	assert.Empty(t, empty.Key())
}

func TestCandidate_Handle(t *testing.T) {
	c := Candidate{Instagram: "thandi_m", TikTok: "thandi.m", Twitter: "thandim", LinkedIn: "thandi-mokoena"}
	assert.Equal(t, "thandi_m", c.Handle("Instagram"))
	assert.Equal(t, "thandi.m", c.Handle("tiktok"))
	assert.Equal(t, "thandim", c.Handle("x"))
	assert.Equal(t, "thandi-mokoena", c.Handle("linkedin"))
	assert.Empty(t, c.Handle("youtube"))
}

func TestBrief_Keywords(t *testing.T) {
	b := Brief{ContactTypes: []string{"Bloggers", " DJs ", ""}, Genre: "Amapiano"}
	assert.Equal(t, []string{"bloggers", "djs", "amapiano"}, b.Keywords())

	assert.Empty(t, Brief{}.Keywords())
}
