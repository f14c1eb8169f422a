package source

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/internal/store"
)

// LocalStore adapts the contact book as the cheapest Tier 1 source.
type LocalStore struct {
	store store.Store
}

// NewLocalStore creates a LocalStore adapter.
func NewLocalStore(s store.Store) *LocalStore {
	return &LocalStore{store: s}
}

// Lookup returns known contacts for the market, keeping only those whose
// free-text fields match at least one keyword. An empty keyword list keeps
// everything.
func (l *LocalStore) Lookup(ctx context.Context, marketCode string, keywords []string) ([]model.Candidate, error) {
	contacts, err := l.store.ContactsByMarket(ctx, marketCode)
	if err != nil {
		return nil, eris.Wrap(err, "local: contacts by market")
	}

	var out []model.Candidate
	for _, c := range contacts {
		if len(keywords) > 0 && !matchesKeywords(c, keywords) {
			continue
		}
		out = append(out, model.Candidate{
			Name:       c.Name,
			Email:      c.Email,
			Company:    c.Company,
			Title:      c.Title,
			Source:     "Local Store",
			Instagram:  c.Instagram,
			TikTok:     c.TikTok,
			Twitter:    c.Twitter,
			LinkedIn:   c.LinkedIn,
			Followers:  c.Followers,
			Country:    c.CountryCode,
			Confidence: model.ConfidenceHigh,
		})
	}
	return out, nil
}

func matchesKeywords(c store.Contact, keywords []string) bool {
	haystack := strings.ToLower(strings.Join([]string{c.Name, c.Company, c.Title, c.Industry}, " "))
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
