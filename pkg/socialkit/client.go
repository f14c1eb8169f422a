// Package socialkit provides a client for a multi-platform social data API
// covering profile search and profile detail lookups.
package socialkit

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/scoutline/leadscout/internal/resilience"
)

const defaultBaseURL = "https://api.socialkit.dev/v1"

// Platforms supported by the API.
const (
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
	PlatformTwitter   = "twitter"
	PlatformLinkedIn  = "linkedin"
)

// Client performs social profile searches and lookups.
type Client interface {
	SearchProfiles(ctx context.Context, query, platform string) (*SearchResponse, error)
	FetchProfile(ctx context.Context, platform, handle string) (*Profile, error)
}

// SearchResponse holds profile search hits.
type SearchResponse struct {
	Profiles []ProfileSummary `json:"profiles"`
}

// ProfileSummary is a search-level view of a profile.
type ProfileSummary struct {
	Handle    string `json:"handle"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Followers string `json:"followers"` // display string as shown on the platform
}

// Profile is the full profile detail used for verification.
type Profile struct {
	Handle    string `json:"handle"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	Website   string `json:"website"`
	Followers int    `json:"followers"`
	Posts     []Post `json:"posts"`
}

// Post is a recent post with engagement metrics.
type Post struct {
	PostedAt time.Time `json:"posted_at"`
	Caption  string    `json:"caption"`
	Hashtags []string  `json:"hashtags"`
	Likes    int       `json:"likes"`
	Comments int       `json:"comments"`
	Views    int       `json:"views"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.Policy
}

// NewClient creates a socialkit client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(3), 1),
		retry:   resilience.DefaultPolicy(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchProfiles(ctx context.Context, query, platform string) (*SearchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "socialkit: rate limiter wait")
	}

	params := url.Values{}
	params.Set("q", query)

	return resilience.DoVal(ctx, "socialkit", c.retry, func(ctx context.Context) (*SearchResponse, error) {
		var result SearchResponse
		if err := c.get(ctx, "/"+platform+"/search?"+params.Encode(), &result); err != nil {
			return nil, err
		}
		return &result, nil
	})
}

func (c *httpClient) FetchProfile(ctx context.Context, platform, handle string) (*Profile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "socialkit: rate limiter wait")
	}

	params := url.Values{}
	params.Set("handle", handle)

	return resilience.DoVal(ctx, "socialkit", c.retry, func(ctx context.Context) (*Profile, error) {
		var result Profile
		if err := c.get(ctx, "/"+platform+"/profile?"+params.Encode(), &result); err != nil {
			return nil, err
		}
		return &result, nil
	})
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "socialkit: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "socialkit: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "socialkit: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return &resilience.StatusError{Service: "socialkit", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "socialkit: unmarshal response")
	}
	return nil
}
