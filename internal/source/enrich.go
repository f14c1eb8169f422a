package source

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/pkg/apollo"
)

// Enrich adapts an Apollo client as the company/contact-enrichment search
// capability. Results carry high confidence; emails are only kept when the
// provider marks them verified.
type Enrich struct {
	client apollo.Client
}

// NewEnrich creates an Enrich adapter.
func NewEnrich(c apollo.Client) *Enrich {
	return &Enrich{client: c}
}

func (e *Enrich) Search(ctx context.Context, query, marketCode string) ([]model.Candidate, error) {
	resp, err := e.client.SearchPeople(ctx, query, marketCode)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: apollo search")
	}

	var out []model.Candidate
	for _, p := range resp.People {
		c := model.Candidate{
			Name:       p.Name,
			Title:      p.Title,
			Company:    p.Org.Name,
			Source:     "Apollo",
			URL:        p.Org.WebsiteURL,
			Country:    marketCode,
			Confidence: model.ConfidenceHigh,
		}
		if p.EmailStatus == "verified" {
			c.Email = p.Email
		}
		if p.LinkedInURL != "" {
			c.LinkedIn = handleFromURL(p.LinkedInURL)
		}
		if p.TwitterURL != "" {
			c.Twitter = handleFromURL(p.TwitterURL)
		}
		out = append(out, c)
	}
	return out, nil
}

// handleFromURL extracts the trailing path segment of a profile URL.
func handleFromURL(u string) string {
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return strings.TrimPrefix(u[i+1:], "@")
	}
	return u
}
