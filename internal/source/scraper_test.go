package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutline/leadscout/internal/model"
)

func TestApplyExtraction(t *testing.T) {
	c := model.Candidate{Name: "Thandi Mokoena"}
	applyExtraction(&c, `
		Get in touch: thandi@yanoblog.example
		Follow me on https://instagram.com/thandi_m and https://tiktok.com/@thandi.m
	`)

	assert.Equal(t, "thandi@yanoblog.example", c.Email)
	assert.Equal(t, "thandi_m", c.Instagram)
	assert.Equal(t, "thandi.m", c.TikTok)
}

func TestApplyExtraction_DoesNotOverwrite(t *testing.T) {
	c := model.Candidate{Name: "Thandi", Email: "existing@example.com", Instagram: "kept"}
	applyExtraction(&c, "new@example.com https://instagram.com/other")
	assert.Equal(t, "existing@example.com", c.Email)
	assert.Equal(t, "kept", c.Instagram)
}

func TestExtractEmail_SkipsAssetFilenames(t *testing.T) {
	assert.Empty(t, extractEmail("logo@2x.png"))
	assert.Equal(t, "real@example.com", extractEmail("logo@2x.png and real@example.com"))
	assert.Empty(t, extractEmail("no emails here"))
}

func TestScraper_DirectFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		page := `<html><body>
			<p>Bookings: bookings@kabzaevents.example</p>
			<a href="https://instagram.com/kabza_events">IG</a>
		</body></html>`
		w.Write([]byte(page)) //nolint:errcheck
	}))
	defer srv.Close()

	s := NewScraper(nil)
	out, err := s.Scrape(context.Background(), []model.Candidate{
		{Name: "Kabza Events", URL: srv.URL},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "bookings@kabzaevents.example", out[0].Email)
	assert.Equal(t, "kabza_events", out[0].Instagram)
	assert.Equal(t, "Page Scrape", out[0].Source)
}

func TestScraper_PageFailureDoesNotAbortBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "gone", http.StatusGone)
			return
		}
		w.Write([]byte(`<p>hello@good.example</p>`)) //nolint:errcheck
	}))
	defer srv.Close()

	s := NewScraper(nil)
	out, err := s.Scrape(context.Background(), []model.Candidate{
		{Name: "Bad Page", URL: srv.URL + "/bad"},
		{Name: "Good Page", URL: srv.URL + "/good"},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Good Page", out[0].Name)
	assert.Equal(t, "hello@good.example", out[0].Email)
}

func TestScraper_CapsBatchAtTen(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Write([]byte(`<p>x@y.example</p>`)) //nolint:errcheck
	}))
	defer srv.Close()

	cands := make([]model.Candidate, 15)
	for i := range cands {
		cands[i] = model.Candidate{Name: "N", URL: srv.URL}
	}

	s := NewScraper(nil)
	_, err := s.Scrape(context.Background(), cands)
	require.NoError(t, err)
	assert.Equal(t, MaxScrapeURLs, calls)
}
