package qualify

import (
	"strings"

	"github.com/scoutline/leadscout/internal/model"
)

const (
	maxScore           = 100
	maxUnverifiedScore = 50
)

// scoreVerified fills QualityScore and QualityReasons for a lead whose
// profile was fetched and verified. Points are additive and capped at 100.
func scoreVerified(lead *model.QualifiedLead, cfg Config) {
	score := 15
	reasons := []string{"verified profile"}

	switch {
	case lead.VerifiedFollowers >= 10_000:
		score += 15
		reasons = append(reasons, "10k+ followers")
	case lead.VerifiedFollowers >= 1_000:
		score += 10
		reasons = append(reasons, "1k+ followers")
	case lead.VerifiedFollowers >= 100:
		score += 5
		reasons = append(reasons, "100+ followers")
	default:
		reasons = append(reasons, "low followers")
	}

	if lead.IsActive {
		score += 15
		reasons = append(reasons, "active in the last 60 days")
	} else {
		reasons = append(reasons, "inactive (no recent posts)")
	}

	s, reason := nicheScore(lead.DetectedNiche, cfg)
	score += s
	reasons = append(reasons, reason)

	s, reason = locationScore(lead.DetectedLocation, cfg.TargetLocation)
	score += s
	reasons = append(reasons, reason)

	if len(lead.Bio) > 10 {
		score += 5
		reasons = append(reasons, "has bio")
	}
	if lead.WebsiteURL != "" {
		score += 5
		reasons = append(reasons, "has website")
	}

	switch {
	case lead.EngagementRate > 5:
		score += 10
		reasons = append(reasons, "high engagement")
	case lead.EngagementRate > 2:
		score += 5
		reasons = append(reasons, "good engagement")
	}

	if score > maxScore {
		score = maxScore
	}
	lead.QualityScore = score
	lead.QualityReasons = reasons
}

// nicheScore compares the detected niche labels against the configured
// entity type and niche. A flat credit applies when no niche was asked for.
func nicheScore(detected string, cfg Config) (int, string) {
	target := strings.TrimSpace(cfg.EntityType + " " + cfg.Niche)
	if target == "" {
		return 10, "no target niche specified"
	}

	targetWords := map[string]bool{}
	for _, w := range words(target) {
		targetWords[w] = true
	}
	for _, w := range words(detected) {
		if targetWords[w] {
			return 20, "niche matches target"
		}
	}
	if detected != "general" {
		return 5, "related niche detected"
	}
	return 0, "niche not detected"
}

// locationScore matches the detected location against the target by
// case-insensitive substring in either direction.
func locationScore(detected, target string) (int, string) {
	if strings.TrimSpace(target) == "" {
		return 5, "no target location specified"
	}
	if detected == "" {
		return 0, "location not detected"
	}
	d, t := strings.ToLower(detected), strings.ToLower(target)
	if strings.Contains(d, t) || strings.Contains(t, d) {
		return 15, "location matches target"
	}
	return 3, "location detected outside target"
}

// scoreOverLimit assigns the capped fallback score for candidates that
// were never selected for verification.
func scoreOverLimit(lead *model.QualifiedLead) {
	switch lead.Confidence {
	case model.ConfidenceHigh:
		lead.QualityScore = 30
	case model.ConfidenceMedium:
		lead.QualityScore = 20
	default:
		lead.QualityScore = 10
	}
	lead.QualityReasons = []string{"not verified (over qualification limit)"}
}

// scoreUnverified assigns the basic score for selected candidates whose
// verification call failed or had nothing to verify. Capped at 50.
func scoreUnverified(lead *model.QualifiedLead) {
	score := 0
	if lead.Email != "" {
		score += 15
	}
	switch lead.Confidence {
	case model.ConfidenceHigh:
		score += 15
	case model.ConfidenceMedium:
		score += 10
	default:
		score += 5
	}
	if lead.HasSocialHandle() {
		score += 10
	}
	if lead.Followers != "" {
		score += 5
	}
	if score > maxUnverifiedScore {
		score = maxUnverifiedScore
	}
	lead.QualityScore = score
	lead.QualityReasons = []string{"unverified (basic scoring only)"}
}
