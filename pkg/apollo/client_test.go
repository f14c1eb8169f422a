package apollo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPeople(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mixed_people/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "amapiano bloggers", req["q_keywords"])

		json.NewEncoder(w).Encode(PeopleResponse{ //nolint:errcheck
			People: []Person{
				{
					Name:        "Thandi Mokoena",
					Title:       "Music Blogger",
					Email:       "thandi@yanoblog.example",
					EmailStatus: "verified",
					Org:         Organization{Name: "Yano Blog", WebsiteURL: "https://yanoblog.example"},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))
	resp, err := c.SearchPeople(context.Background(), "amapiano bloggers", "ZA")
	require.NoError(t, err)
	require.Len(t, resp.People, 1)
	assert.Equal(t, "thandi@yanoblog.example", resp.People[0].Email)
	assert.Equal(t, "Yano Blog", resp.People[0].Org.Name)
}

func TestSearchPeople_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.SearchPeople(context.Background(), "q", "ZA")
	assert.Error(t, err)
}
