package source

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/pkg/jina"
)

// MaxScrapeURLs bounds a single scrape batch.
const MaxScrapeURLs = 10

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	handlePatterns = map[string]*regexp.Regexp{
		"instagram": regexp.MustCompile(`instagram\.com/([A-Za-z0-9._]+)`),
		"tiktok":    regexp.MustCompile(`tiktok\.com/@([A-Za-z0-9._]+)`),
		"twitter":   regexp.MustCompile(`(?:twitter|x)\.com/([A-Za-z0-9_]+)`),
		"linkedin":  regexp.MustCompile(`linkedin\.com/in/([A-Za-z0-9\-]+)`),
	}

	// ignoredEmailSuffixes drop asset filenames matched by the email regex.
	ignoredEmailSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"}

	// ignoredHandles are path segments that look like handles but aren't.
	ignoredHandles = map[string]bool{
		"p": true, "reel": true, "explore": true, "share": true,
		"intent": true, "hashtag": true, "home": true, "search": true,
	}
)

// Scraper extracts contact fields from candidate pages, trying a reader API
// first and falling back to a direct fetch parsed with goquery.
type Scraper struct {
	reader jina.Client // optional
	http   *http.Client
}

// NewScraper creates a Scraper. The reader client may be nil, in which case
// only direct fetches are attempted.
func NewScraper(reader jina.Client) *Scraper {
	return &Scraper{
		reader: reader,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Scrape visits each candidate's URL and returns enriched copies carrying
// any extracted email and handles. The batch is capped at MaxScrapeURLs;
// individual page failures are logged and skipped.
func (s *Scraper) Scrape(ctx context.Context, candidates []model.Candidate) ([]model.Candidate, error) {
	if len(candidates) > MaxScrapeURLs {
		candidates = candidates[:MaxScrapeURLs]
	}

	var out []model.Candidate
	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		if c.URL == "" {
			continue
		}

		text, err := s.fetchPage(ctx, c.URL)
		if err != nil {
			zap.L().Warn("page scrape failed",
				zap.String("url", c.URL),
				zap.Error(err),
			)
			continue
		}

		enriched := c
		enriched.Source = "Page Scrape"
		applyExtraction(&enriched, text)
		out = append(out, enriched)
	}
	return out, nil
}

// fetchPage tries the reader API, then a direct fetch.
func (s *Scraper) fetchPage(ctx context.Context, url string) (string, error) {
	if s.reader != nil {
		resp, err := s.reader.Read(ctx, url)
		if err == nil && len(strings.TrimSpace(resp.Data.Content)) >= 100 {
			return resp.Data.Content, nil
		}
		if err != nil {
			zap.L().Debug("reader fetch failed, trying direct",
				zap.String("url", url),
				zap.Error(err),
			)
		}
	}
	return s.fetchDirect(ctx, url)
}

func (s *Scraper) fetchDirect(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", eris.Wrap(err, "scraper: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; leadscout/1.0)")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "scraper: fetch page")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("scraper: status %d for %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "scraper: parse html")
	}

	// Keep href targets in the text so handle patterns can see them.
	var sb strings.Builder
	sb.WriteString(doc.Text())
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			sb.WriteString("\n")
			sb.WriteString(href)
		}
	})
	return sb.String(), nil
}

// applyExtraction fills empty contact fields from page text.
func applyExtraction(c *model.Candidate, text string) {
	if c.Email == "" {
		if email := extractEmail(text); email != "" {
			c.Email = email
		}
	}
	for platform, re := range handlePatterns {
		if c.Handle(platform) != "" {
			continue
		}
		if m := re.FindStringSubmatch(text); len(m) == 2 && !ignoredHandles[strings.ToLower(m[1])] {
			setHandle(c, platform, m[1])
		}
	}
}

func extractEmail(text string) string {
	for _, match := range emailPattern.FindAllString(text, 10) {
		lower := strings.ToLower(match)
		skip := false
		for _, suffix := range ignoredEmailSuffixes {
			if strings.HasSuffix(lower, suffix) {
				skip = true
				break
			}
		}
		if !skip {
			return match
		}
	}
	return ""
}
