package source

import (
	"context"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/pkg/serper"
)

// maxResultNameLen discards search hits whose title is too long to be a
// person or organization name.
const maxResultNameLen = 80

// titlePatterns match article/page titles rather than entity names.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^how to\b`),
	regexp.MustCompile(`(?i)^top \d+\b`),
	regexp.MustCompile(`(?i)^the best\b`),
	regexp.MustCompile(`(?i)^\d+ (best|ways|tips|things)\b`),
	regexp.MustCompile(`(?i)^what is\b`),
	regexp.MustCompile(`(?i)^why\b.*\?$`),
}

// boilerplatePhrases mark navigation/legal page titles.
var boilerplatePhrases = []string{
	"privacy policy",
	"terms of service",
	"terms and conditions",
	"click here",
	"cookie policy",
	"sign in",
	"log in",
}

// WebSearch adapts a Serper client as the generic web-search capability.
type WebSearch struct {
	client serper.Client
}

// NewWebSearch creates a WebSearch adapter.
func NewWebSearch(c serper.Client) *WebSearch {
	return &WebSearch{client: c}
}

// Search runs the query against the primary market and converts organic
// hits into low-confidence candidates, discarding article-like titles
// before they enter the pool.
func (w *WebSearch) Search(ctx context.Context, query, marketCode string) ([]model.Candidate, error) {
	resp, err := w.client.Search(ctx, query, strings.ToLower(marketCode))
	if err != nil {
		return nil, eris.Wrap(err, "websearch: serper search")
	}

	var out []model.Candidate
	for _, hit := range resp.Organic {
		name := cleanResultName(hit.Title)
		if !looksLikeEntityName(name) {
			continue
		}
		out = append(out, model.Candidate{
			Name:       name,
			Source:     "Google Search",
			URL:        hit.Link,
			Country:    marketCode,
			Confidence: model.ConfidenceLow,
		})
	}
	return out, nil
}

// cleanResultName strips common " | Site" and " - Site" suffixes.
func cleanResultName(title string) string {
	for _, sep := range []string{" | ", " – ", " - "} {
		if i := strings.Index(title, sep); i > 0 {
			title = title[:i]
		}
	}
	return strings.TrimSpace(title)
}

// looksLikeEntityName reports whether a search title plausibly names a
// person or organization rather than an article.
func looksLikeEntityName(name string) bool {
	if name == "" || len(name) > maxResultNameLen {
		return false
	}
	lower := strings.ToLower(name)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	for _, re := range titlePatterns {
		if re.MatchString(name) {
			return false
		}
	}
	return true
}
