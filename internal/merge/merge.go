// Package merge collapses candidates referring to the same entity.
package merge

import (
	"sort"

	"github.com/scoutline/leadscout/internal/model"
)

// Dedupe folds candidates into a list with one record per identity key
// (normalized name + email). Candidates with neither name nor email are
// dropped. On collision, every empty field on the stored record is filled
// from the incoming one (first-non-empty wins in arrival order) and
// confidence is promoted to the higher of the two. The first-seen source
// is retained. Deterministic given a fixed input order.
func Dedupe(candidates []model.Candidate) []model.Candidate {
	index := make(map[string]int, len(candidates))
	out := make([]model.Candidate, 0, len(candidates))

	for _, c := range candidates {
		key := c.Key()
		if key == "" {
			continue
		}
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, c)
			continue
		}
		out[i] = fold(out[i], c)
	}

	return out
}

// fold merges incoming into stored without losing stored data.
func fold(stored, incoming model.Candidate) model.Candidate {
	fill(&stored.Email, incoming.Email)
	fill(&stored.Company, incoming.Company)
	fill(&stored.Title, incoming.Title)
	fill(&stored.URL, incoming.URL)
	fill(&stored.Instagram, incoming.Instagram)
	fill(&stored.TikTok, incoming.TikTok)
	fill(&stored.Twitter, incoming.Twitter)
	fill(&stored.LinkedIn, incoming.LinkedIn)
	fill(&stored.Followers, incoming.Followers)
	fill(&stored.Country, incoming.Country)
	stored.Confidence = stored.Confidence.Max(incoming.Confidence)
	return stored
}

func fill(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}

// SortByConfidence orders candidates high -> medium -> low, keeping the
// relative order of equal-confidence records.
func SortByConfidence(candidates []model.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence.Rank() > candidates[j].Confidence.Rank()
	})
}
