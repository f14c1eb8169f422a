package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/pkg/socialkit"
)

// sourceLabels give human-readable provenance per platform.
var sourceLabels = map[string]string{
	"instagram": "Instagram Search",
	"tiktok":    "TikTok Search",
	"twitter":   "Twitter Search",
	"linkedin":  "LinkedIn Search",
}

// SocialSearch adapts a socialkit client as the social-profile-search
// capability.
type SocialSearch struct {
	client socialkit.Client
}

// NewSocialSearch creates a SocialSearch adapter.
func NewSocialSearch(c socialkit.Client) *SocialSearch {
	return &SocialSearch{client: c}
}

// Search queries each platform in turn. A platform failure is logged and
// skipped; remaining platforms still contribute results.
func (s *SocialSearch) Search(ctx context.Context, query, marketCode string, platforms []string) ([]model.Candidate, error) {
	var out []model.Candidate
	for _, platform := range platforms {
		if ctx.Err() != nil {
			break
		}
		resp, err := s.client.SearchProfiles(ctx, query, platform)
		if err != nil {
			zap.L().Warn("social search failed for platform",
				zap.String("platform", platform),
				zap.Error(err),
			)
			continue
		}
		for _, p := range resp.Profiles {
			c := model.Candidate{
				Name:       p.Name,
				Source:     sourceLabels[platform],
				URL:        p.URL,
				Followers:  p.Followers,
				Country:    marketCode,
				Confidence: model.ConfidenceMedium,
			}
			setHandle(&c, platform, p.Handle)
			out = append(out, c)
		}
	}
	return out, nil
}

func setHandle(c *model.Candidate, platform, handle string) {
	switch platform {
	case "instagram":
		c.Instagram = handle
	case "tiktok":
		c.TikTok = handle
	case "twitter":
		c.Twitter = handle
	case "linkedin":
		c.LinkedIn = handle
	}
}

// ProfileClient adapts socialkit as a per-platform profile-fetch capability.
type ProfileClient struct {
	client   socialkit.Client
	platform string
}

// NewProfileFetcher creates a ProfileFetcher bound to one platform.
func NewProfileFetcher(c socialkit.Client, platform string) *ProfileClient {
	return &ProfileClient{client: c, platform: platform}
}

func (p *ProfileClient) Platform() string { return p.platform }

// Fetch retrieves the full profile for a handle.
func (p *ProfileClient) Fetch(ctx context.Context, handle string) (*Profile, error) {
	prof, err := p.client.FetchProfile(ctx, p.platform, handle)
	if err != nil {
		return nil, err
	}

	out := &Profile{
		Handle:    prof.Handle,
		Name:      prof.Name,
		Bio:       prof.Bio,
		Website:   prof.Website,
		Followers: prof.Followers,
	}
	for _, post := range prof.Posts {
		out.Posts = append(out.Posts, Post{
			PostedAt: post.PostedAt,
			Caption:  post.Caption,
			Hashtags: post.Hashtags,
			Likes:    post.Likes,
			Comments: post.Comments,
			Views:    post.Views,
		})
	}
	return out, nil
}
