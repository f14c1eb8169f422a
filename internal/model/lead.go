// Package model defines the core data types shared across the discovery
// and qualification pipeline.
package model

import (
	"strings"
	"time"
)

// SearchDepth controls how far the tier cascade escalates.
type SearchDepth string

const (
	DepthQuick SearchDepth = "quick" // Tier 1 only
	DepthDeep  SearchDepth = "deep"  // Tier 1 + 2
	DepthFull  SearchDepth = "full"  // all three tiers
)

// Confidence is a coarse trust level assigned by the originating source.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Rank returns the ordering value for confidence promotion (low < medium < high).
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}
	return 0
}

// Max returns the higher of two confidence levels. Confidence is promoted
// on merge, never demoted.
func (c Confidence) Max(other Confidence) Confidence {
	if other.Rank() > c.Rank() {
		return other
	}
	return c
}

// Brief is the structured request describing what kind of contacts to find.
// It is immutable input: the pipeline never mutates a Brief.
type Brief struct {
	ContactTypes      []string    `json:"contact_types"`
	Markets           []string    `json:"markets"`
	Genre             string      `json:"genre,omitempty"`
	FreeformQuery     string      `json:"freeform_query,omitempty"`
	TargetCount       int         `json:"target_count"`
	SearchDepth       SearchDepth `json:"search_depth"`
	PreferredPlatform string      `json:"preferred_platform,omitempty"`
	SpecificLocation  string      `json:"specific_location,omitempty"`
}

// Keywords returns the brief-derived terms used for local-store filtering:
// contact types plus genre, lowercased, empties dropped.
func (b Brief) Keywords() []string {
	var kws []string
	for _, ct := range b.ContactTypes {
		if s := strings.TrimSpace(strings.ToLower(ct)); s != "" {
			kws = append(kws, s)
		}
	}
	if g := strings.TrimSpace(strings.ToLower(b.Genre)); g != "" {
		kws = append(kws, g)
	}
	return kws
}

// Candidate is a raw, unverified contact record from a single source.
// The same shape carries merged candidates; merging fills gaps and
// promotes confidence but never changes the shape.
type Candidate struct {
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Company    string     `json:"company,omitempty"`
	Title      string     `json:"title,omitempty"`
	Source     string     `json:"source"`
	URL        string     `json:"url,omitempty"`
	Instagram  string     `json:"instagram,omitempty"`
	TikTok     string     `json:"tiktok,omitempty"`
	Twitter    string     `json:"twitter,omitempty"`
	LinkedIn   string     `json:"linkedin,omitempty"`
	Followers  string     `json:"followers,omitempty"` // display string, e.g. "12.4K"
	Country    string     `json:"country,omitempty"`   // normalized market code
	Confidence Confidence `json:"confidence"`
}

// Key returns the merge identity: normalized name + normalized email.
// A candidate whose key is empty (neither field set) carries no identity
// and is dropped during merge.
func (c Candidate) Key() string {
	name := strings.TrimSpace(strings.ToLower(c.Name))
	email := strings.TrimSpace(strings.ToLower(c.Email))
	if name == "" && email == "" {
		return ""
	}
	return name + "||" + email
}

// Handle returns the candidate's handle for the given platform, if any.
func (c Candidate) Handle(platform string) string {
	switch strings.ToLower(platform) {
	case "instagram":
		return c.Instagram
	case "tiktok":
		return c.TikTok
	case "twitter", "x":
		return c.Twitter
	case "linkedin":
		return c.LinkedIn
	}
	return ""
}

// HasSocialHandle reports whether any per-platform handle is set.
func (c Candidate) HasSocialHandle() bool {
	return c.Instagram != "" || c.TikTok != "" || c.Twitter != "" || c.LinkedIn != ""
}

// QualifiedLead extends a merged candidate with verification evidence and
// the composite quality score. Created once per qualification pass and
// never mutated afterward.
type QualifiedLead struct {
	Candidate
	VerifiedFollowers int        `json:"verified_followers,omitempty"`
	LastPostAt        *time.Time `json:"last_post_at,omitempty"`
	IsActive          bool       `json:"is_active"`
	Bio               string     `json:"bio,omitempty"`
	DetectedNiche     string     `json:"detected_niche"`
	DetectedLocation  string     `json:"detected_location,omitempty"`
	WebsiteURL        string     `json:"website_url,omitempty"`
	EngagementRate    float64    `json:"engagement_rate_percent,omitempty"`
	RecentHashtags    []string   `json:"recent_hashtags,omitempty"` // capped at 10
	QualityScore      int        `json:"quality_score"`             // 0..100
	QualityReasons    []string   `json:"quality_reasons"`
	WasVerified       bool       `json:"was_verified"`
}

// ProgressStatus describes the phase a progress event was emitted in.
type ProgressStatus string

const (
	StatusSearching ProgressStatus = "searching"
	StatusEnriching ProgressStatus = "enriching"
	StatusDone      ProgressStatus = "done"
)

// ProgressEvent is pushed to the caller as the pipeline advances. Logs is
// an append-only snapshot that grows monotonically within a run.
type ProgressEvent struct {
	Tier          string         `json:"tier"`
	Status        ProgressStatus `json:"status"`
	Found         int            `json:"found"`
	Target        int            `json:"target"`
	CurrentSource string         `json:"current_source,omitempty"`
	Logs          []string       `json:"logs"`
}

// DiscoveryResult is the terminal artifact of the discovery phase.
type DiscoveryResult struct {
	Contacts []Candidate `json:"contacts"`
	Logs     []string    `json:"logs"`
	Total    int         `json:"total"`
}

// QualifyResult is the terminal artifact of the qualification phase.
type QualifyResult struct {
	Qualified []QualifiedLead `json:"qualified"`
	Logs      []string        `json:"logs"`
}
