// Package source defines the capability interfaces for lead data sources
// and the adapters that back them with concrete vendors. Every adapter is
// independently fallible: the orchestrator treats an adapter error as zero
// results, never as a fatal condition.
package source

import (
	"context"
	"time"

	"github.com/scoutline/leadscout/internal/model"
)

// StoreLookup finds candidates already known internally for a market code,
// filtered by brief-derived keywords (no filter when keywords is empty).
type StoreLookup interface {
	Lookup(ctx context.Context, marketCode string, keywords []string) ([]model.Candidate, error)
}

// WebSearcher performs a generic web search scoped to a market.
type WebSearcher interface {
	Search(ctx context.Context, query, marketCode string) ([]model.Candidate, error)
}

// SocialSearcher searches social profiles on the given platforms.
type SocialSearcher interface {
	Search(ctx context.Context, query, marketCode string, platforms []string) ([]model.Candidate, error)
}

// EnrichSearcher queries a paid structured contact source. Results carry
// higher confidence and may include verified emails.
type EnrichSearcher interface {
	Search(ctx context.Context, query, marketCode string) ([]model.Candidate, error)
}

// PageScraper attempts to extract contact fields from the pages behind the
// given candidates' URLs, returning enriched copies. A single page failure
// never aborts the batch.
type PageScraper interface {
	Scrape(ctx context.Context, candidates []model.Candidate) ([]model.Candidate, error)
}

// DeepSearcher is the Tier 3 capability: a combined call that fans out
// across multiple enrichment backends and merges their results.
type DeepSearcher interface {
	Search(ctx context.Context, query string, marketCodes []string) ([]model.Candidate, error)
}

// Profile is the verified social profile view used during qualification.
type Profile struct {
	Handle    string
	Name      string
	Bio       string
	Website   string
	Followers int
	Posts     []Post
}

// Post is a recent post with engagement metrics.
type Post struct {
	PostedAt time.Time
	Caption  string
	Hashtags []string
	Likes    int
	Comments int
	Views    int
}

// ProfileFetcher fetches a full profile for a handle on one platform.
type ProfileFetcher interface {
	Platform() string
	Fetch(ctx context.Context, handle string) (*Profile, error)
}

// DefaultPlatforms is the platform set searched when the brief names no
// preferred platform.
var DefaultPlatforms = []string{"instagram", "tiktok", "twitter", "linkedin"}

// ResolvePlatforms narrows the platform set to a single preferred platform
// when the brief names one that maps to a known platform; otherwise the
// default set of four is used.
func ResolvePlatforms(preferred string) []string {
	switch normalizePlatform(preferred) {
	case "instagram":
		return []string{"instagram"}
	case "tiktok":
		return []string{"tiktok"}
	case "twitter":
		return []string{"twitter"}
	case "linkedin":
		return []string{"linkedin"}
	}
	return DefaultPlatforms
}

func normalizePlatform(p string) string {
	switch p {
	case "instagram", "Instagram", "IG", "ig", "insta":
		return "instagram"
	case "tiktok", "TikTok", "Tiktok":
		return "tiktok"
	case "twitter", "Twitter", "x", "X":
		return "twitter"
	case "linkedin", "LinkedIn", "Linkedin":
		return "linkedin"
	}
	return ""
}
