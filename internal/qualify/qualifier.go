// Package qualify verifies a bounded subset of discovered candidates
// against live social profiles, classifies their niche and location with
// heuristic pattern tables, and produces a ranked, scored lead list.
package qualify

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/internal/source"
)

// TierLabel names the qualification phase in progress events.
const TierLabel = "Qualification"

const (
	verifyBatchSize     = 3
	defaultMaxToQualify = 10
	activeWindowDays    = 60
	maxHashtags         = 10
)

// Config tunes one qualification pass.
type Config struct {
	EntityType     string // e.g. "dancer", "blogger"
	Niche          string // e.g. "amapiano"
	TargetLocation string // e.g. "Soweto"
	Platform       string // preferred verification platform
	MaxToQualify   int    // cap on expensive verification calls
}

// Qualifier runs qualification passes. Safe for concurrent use.
type Qualifier struct {
	fetchers map[string]source.ProfileFetcher
	patterns *PatternSet
	now      func() time.Time
}

// New creates a Qualifier over the given per-platform profile fetchers.
func New(fetchers []source.ProfileFetcher, patterns *PatternSet) *Qualifier {
	m := make(map[string]source.ProfileFetcher, len(fetchers))
	for _, f := range fetchers {
		m[f.Platform()] = f
	}
	return &Qualifier{fetchers: m, patterns: patterns, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (q *Qualifier) WithNow(now func() time.Time) *Qualifier {
	q.now = now
	return q
}

// Qualify scores every candidate. The top MaxToQualify candidates by
// verification priority get live profile verification in batches of
// three; the rest receive capped fallback scores. The returned leads are
// sorted by quality score, best first.
func (q *Qualifier) Qualify(ctx context.Context, candidates []model.Candidate, cfg Config, onProgress func(model.ProgressEvent)) (*model.QualifyResult, error) {
	if cfg.MaxToQualify <= 0 {
		cfg.MaxToQualify = defaultMaxToQualify
	}

	res := &model.QualifyResult{}
	if len(candidates) == 0 {
		return res, nil
	}

	var mu sync.Mutex
	logf := func(format string, args ...any) {
		mu.Lock()
		res.Logs = append(res.Logs, fmt.Sprintf(format, args...))
		mu.Unlock()
	}

	selected, rest := splitByPriority(candidates, cfg)
	logf("qualifying %d of %d candidates (limit %d)", len(selected), len(candidates), cfg.MaxToQualify)

	zap.L().Info("qualification starting",
		zap.Int("candidates", len(candidates)),
		zap.Int("selected", len(selected)),
		zap.String("platform", cfg.Platform),
	)

	emit := func(status model.ProgressStatus, current string, found int) {
		if onProgress == nil {
			return
		}
		mu.Lock()
		logsCopy := make([]string, len(res.Logs))
		copy(logsCopy, res.Logs)
		mu.Unlock()
		onProgress(model.ProgressEvent{
			Tier:          TierLabel,
			Status:        status,
			Found:         found,
			Target:        len(selected),
			CurrentSource: current,
			Logs:          logsCopy,
		})
	}

	batches := (len(selected) + verifyBatchSize - 1) / verifyBatchSize
	leads := make([]model.QualifiedLead, 0, len(candidates))

	for b := 0; b < batches; b++ {
		start := b * verifyBatchSize
		end := start + verifyBatchSize
		if end > len(selected) {
			end = len(selected)
		}
		batch := selected[start:end]

		out := make([]model.QualifiedLead, len(batch))
		if ctx.Err() != nil {
			// Cancelled mid-pass: remaining selected candidates fall back
			// to basic scoring so the result stays complete.
			for i, c := range batch {
				out[i] = q.basicLead(c)
			}
		} else {
			g, gCtx := errgroup.WithContext(ctx)
			for i, c := range batch {
				i, c := i, c
				g.Go(func() error {
					out[i] = q.verifyOne(gCtx, c, cfg, logf)
					return nil
				})
			}
			_ = g.Wait()
		}

		leads = append(leads, out...)
		emit(model.StatusEnriching, fmt.Sprintf("batch %d/%d", b+1, batches), len(leads))
	}

	for _, c := range rest {
		lead := model.QualifiedLead{Candidate: c, DetectedNiche: "general"}
		scoreOverLimit(&lead)
		leads = append(leads, lead)
	}

	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].QualityScore > leads[j].QualityScore
	})

	logf("qualification done: %d leads scored", len(leads))
	emit(model.StatusDone, "", len(leads))

	res.Qualified = leads
	return res, nil
}

// splitByPriority orders candidates by verification priority and splits
// off the top cfg.MaxToQualify for live verification. Priority favors a
// handle on the preferred platform, then any handle, then confidence.
func splitByPriority(candidates []model.Candidate, cfg Config) (selected, rest []model.Candidate) {
	ordered := make([]model.Candidate, len(candidates))
	copy(ordered, candidates)

	priority := func(c model.Candidate) int {
		p := c.Confidence.Rank()
		if cfg.Platform != "" && c.Handle(cfg.Platform) != "" {
			p += 10
		} else if c.HasSocialHandle() {
			p += 3
		}
		return p
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return priority(ordered[i]) > priority(ordered[j])
	})

	if len(ordered) <= cfg.MaxToQualify {
		return ordered, nil
	}
	return ordered[:cfg.MaxToQualify], ordered[cfg.MaxToQualify:]
}

// basicLead is the unverified fallback shape for a selected candidate.
func (q *Qualifier) basicLead(c model.Candidate) model.QualifiedLead {
	lead := model.QualifiedLead{Candidate: c, DetectedNiche: "general"}
	scoreUnverified(&lead)
	return lead
}

// verifyOne fetches the candidate's profile on the best available
// platform and builds a fully scored lead. Any failure degrades to basic
// scoring; verification never fails the pass.
func (q *Qualifier) verifyOne(ctx context.Context, c model.Candidate, cfg Config, logf func(string, ...any)) model.QualifiedLead {
	fetcher, handle := q.pickFetcher(c, cfg.Platform)
	if fetcher == nil {
		logf("%s: no handle to verify, basic scoring", c.Name)
		return q.basicLead(c)
	}

	profile, err := fetcher.Fetch(ctx, handle)
	if err != nil || profile == nil {
		logf("%s: %s verification failed: %v", c.Name, fetcher.Platform(), err)
		zap.L().Warn("profile verification failed",
			zap.String("candidate", c.Name),
			zap.String("platform", fetcher.Platform()),
			zap.Error(err),
		)
		return q.basicLead(c)
	}

	lead := model.QualifiedLead{
		Candidate:         c,
		WasVerified:       true,
		VerifiedFollowers: profile.Followers,
		Bio:               profile.Bio,
		WebsiteURL:        profile.Website,
	}
	if lead.Name == "" {
		lead.Name = profile.Name
	}

	var captions []string
	var hashtags []string
	var latest time.Time
	totalEng, totalViews := 0, 0
	for _, p := range profile.Posts {
		if p.PostedAt.After(latest) {
			latest = p.PostedAt
		}
		captions = append(captions, p.Caption)
		for _, h := range p.Hashtags {
			if len(hashtags) < maxHashtags {
				hashtags = append(hashtags, h)
			}
		}
		totalEng += p.Likes + p.Comments
		totalViews += p.Views
	}
	lead.RecentHashtags = hashtags

	if !latest.IsZero() {
		t := latest
		lead.LastPostAt = &t
		daysSince := int(q.now().Sub(latest).Hours() / 24)
		lead.IsActive = daysSince <= activeWindowDays
	}

	lead.EngagementRate = engagementRate(totalEng, totalViews, profile.Followers, len(profile.Posts))

	text := profile.Bio + " " + strings.Join(captions, " ") + " " + strings.Join(hashtags, " ")
	lead.DetectedNiche = q.patterns.DetectNiche(text)
	lead.DetectedLocation = q.patterns.DetectLocation(text)

	scoreVerified(&lead, cfg)
	logf("%s: verified on %s, score %d", lead.Name, fetcher.Platform(), lead.QualityScore)
	return lead
}

// pickFetcher resolves the platform to verify on: the preferred platform
// when the candidate has a handle there and a fetcher exists, otherwise
// the first default platform that satisfies both.
func (q *Qualifier) pickFetcher(c model.Candidate, preferred string) (source.ProfileFetcher, string) {
	if preferred != "" {
		if f, ok := q.fetchers[preferred]; ok && c.Handle(preferred) != "" {
			return f, c.Handle(preferred)
		}
	}
	for _, platform := range source.DefaultPlatforms {
		if f, ok := q.fetchers[platform]; ok && c.Handle(platform) != "" {
			return f, c.Handle(platform)
		}
	}
	return nil, ""
}

// engagementRate is the average per-post engagement as a percentage of
// views when view counts exist, otherwise of followers.
func engagementRate(totalEng, totalViews, followers, posts int) float64 {
	if posts == 0 || totalEng == 0 {
		return 0
	}
	avgEng := float64(totalEng) / float64(posts)
	denom := float64(followers)
	if totalViews > 0 {
		denom = float64(totalViews) / float64(posts)
	}
	if denom <= 0 {
		return 0
	}
	return math.Round(avgEng/denom*100*100) / 100
}
