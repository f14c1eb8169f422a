// Package apollo provides a client for the Apollo.io people search API.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/scoutline/leadscout/internal/resilience"
)

const defaultBaseURL = "https://api.apollo.io/v1"

// Client performs structured B2B contact searches.
type Client interface {
	SearchPeople(ctx context.Context, query, countryCode string) (*PeopleResponse, error)
}

// PeopleResponse is the response from a mixed people search.
type PeopleResponse struct {
	People []Person `json:"people"`
}

// Person is a single contact record.
type Person struct {
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Email       string       `json:"email"`
	EmailStatus string       `json:"email_status"`
	LinkedInURL string       `json:"linkedin_url"`
	TwitterURL  string       `json:"twitter_url"`
	Org         Organization `json:"organization"`
}

// Organization is the person's company.
type Organization struct {
	Name       string `json:"name"`
	WebsiteURL string `json:"website_url"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
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

// NewClient creates an Apollo client. Requests are rate-limited to stay
// under Apollo's per-minute quota.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
		retry:   resilience.DefaultPolicy(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type peopleRequest struct {
	QKeywords         string   `json:"q_keywords"`
	PersonLocations   []string `json:"person_locations,omitempty"`
	ContactEmailStats []string `json:"contact_email_status,omitempty"`
	PerPage           int      `json:"per_page"`
}

func (c *httpClient) SearchPeople(ctx context.Context, query, countryCode string) (*PeopleResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "apollo: rate limiter wait")
	}
	return resilience.DoVal(ctx, "apollo", c.retry, func(ctx context.Context) (*PeopleResponse, error) {
		return c.searchPeople(ctx, query, countryCode)
	})
}

func (c *httpClient) searchPeople(ctx context.Context, query, countryCode string) (*PeopleResponse, error) {
	reqBody := peopleRequest{
		QKeywords:         query,
		ContactEmailStats: []string{"verified"},
		PerPage:           25,
	}
	if countryCode != "" {
		reqBody.PersonLocations = []string{countryCode}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mixed_people/search", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "apollo: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &resilience.StatusError{Service: "apollo", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result PeopleResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "apollo: unmarshal response")
	}

	return &result, nil
}
