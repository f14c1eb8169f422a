// Package cascade sequences source adapters into three escalating cost
// tiers, merging and deduplicating after each tier and stopping as soon as
// the brief's target count or depth limit is reached.
package cascade

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scoutline/leadscout/internal/merge"
	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/internal/query"
	"github.com/scoutline/leadscout/internal/source"
)

// Tier labels used in progress events and logs.
const (
	TierOne   = "Tier 1"
	TierTwo   = "Tier 2"
	TierThree = "Tier 3"
)

// Sources bundles the adapters the orchestrator drives. A nil adapter is
// treated as unconfigured: it is skipped with a one-line notice instead of
// failing the run.
type Sources struct {
	Local   source.StoreLookup
	Web     source.WebSearcher
	Social  source.SocialSearcher
	Enrich  source.EnrichSearcher
	Scraper source.PageScraper
	Deep    source.DeepSearcher
}

// Config tunes orchestrator behavior.
type Config struct {
	// AdapterTimeout bounds each adapter call. Defaults to 60s.
	AdapterTimeout time.Duration
}

// Orchestrator runs the tier cascade for a brief.
type Orchestrator struct {
	src Sources
	cfg Config
}

// New creates an Orchestrator.
func New(src Sources, cfg Config) *Orchestrator {
	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = 60 * time.Second
	}
	return &Orchestrator{src: src, cfg: cfg}
}

// run carries the mutable state of one cascade execution. The candidate
// pool is mutated only between adapter completions by the owning
// goroutine; concurrent adapters return local slices.
type run struct {
	mu         sync.Mutex
	pool       []model.Candidate
	logs       []string
	target     int
	onProgress func(model.ProgressEvent)
}

func (r *run) logf(format string, args ...any) {
	r.mu.Lock()
	r.logs = append(r.logs, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

// emit pushes a progress event with a snapshot of the logs. Found counts
// are cumulative and non-decreasing across a run.
func (r *run) emit(tier string, status model.ProgressStatus, currentSource string) {
	if r.onProgress == nil {
		return
	}
	r.mu.Lock()
	logsCopy := make([]string, len(r.logs))
	copy(logsCopy, r.logs)
	found := len(r.pool)
	r.mu.Unlock()

	r.onProgress(model.ProgressEvent{
		Tier:          tier,
		Status:        status,
		Found:         found,
		Target:        r.target,
		CurrentSource: currentSource,
		Logs:          logsCopy,
	})
}

// Run executes the cascade for a brief, pushing progress events to
// onProgress (which may be nil). Adapter failures shorten the result but
// never abort the run; cancellation returns whatever was merged so far.
func (o *Orchestrator) Run(ctx context.Context, brief model.Brief, onProgress func(model.ProgressEvent)) (*model.DiscoveryResult, error) {
	if brief.TargetCount <= 0 {
		return nil, eris.New("cascade: target count must be positive")
	}

	searchQuery, marketCodes := query.Build(brief)
	primaryMarket := ""
	if len(marketCodes) > 0 {
		primaryMarket = marketCodes[0]
	}

	r := &run{target: brief.TargetCount, onProgress: onProgress}
	r.logf("query: %s", searchQuery)

	zap.L().Info("cascade run starting",
		zap.String("query", searchQuery),
		zap.Strings("markets", marketCodes),
		zap.Int("target", brief.TargetCount),
		zap.String("depth", string(brief.SearchDepth)),
	)

	// Tier 1: local store, web search, social search.
	o.runTier1(ctx, r, brief, searchQuery, primaryMarket, marketCodes)
	if len(r.pool) >= brief.TargetCount || brief.SearchDepth == model.DepthQuick || ctx.Err() != nil {
		return o.finish(r, TierOne, true), nil
	}

	// Tier 2: paid enrichment, then page scraping.
	o.runTier2(ctx, r, searchQuery, primaryMarket)
	if len(r.pool) >= brief.TargetCount || brief.SearchDepth == model.DepthDeep || ctx.Err() != nil {
		return o.finish(r, TierTwo, true), nil
	}

	// Tier 3: combined deep fan-out. Always terminal; the full pool is
	// returned without truncation even when it exceeds the target.
	o.runTier3(ctx, r, searchQuery, marketCodes)
	return o.finish(r, TierThree, false), nil
}

// call invokes one adapter with its own timeout and error boundary. Errors
// are logged and converted to zero results.
func (o *Orchestrator) call(ctx context.Context, r *run, tier, name string, fn func(ctx context.Context) ([]model.Candidate, error)) []model.Candidate {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.AdapterTimeout)
	defer cancel()

	cands, err := fn(callCtx)
	if err != nil {
		r.logf("%s: %s error: %v", tier, name, err)
		zap.L().Warn("adapter call failed",
			zap.String("tier", tier),
			zap.String("source", name),
			zap.Error(err),
		)
		return nil
	}
	r.logf("%s: %s found %d results", tier, name, len(cands))
	return cands
}

func (o *Orchestrator) runTier1(ctx context.Context, r *run, brief model.Brief, searchQuery, primaryMarket string, marketCodes []string) {
	r.emit(TierOne, model.StatusSearching, "")

	type tierCall struct {
		name string
		fn   func(ctx context.Context) ([]model.Candidate, error)
	}

	var calls []tierCall
	if o.src.Local != nil {
		calls = append(calls, tierCall{"Local Store", func(ctx context.Context) ([]model.Candidate, error) {
			var all []model.Candidate
			for _, code := range marketCodes {
				cands, err := o.src.Local.Lookup(ctx, code, brief.Keywords())
				if err != nil {
					return all, err
				}
				all = append(all, cands...)
			}
			return all, nil
		}})
	} else {
		r.logf("%s: Local Store not configured, skipping", TierOne)
	}
	if o.src.Web != nil {
		calls = append(calls, tierCall{"Google Search", func(ctx context.Context) ([]model.Candidate, error) {
			return o.src.Web.Search(ctx, searchQuery, primaryMarket)
		}})
	} else {
		r.logf("%s: Google Search not configured, skipping", TierOne)
	}
	if o.src.Social != nil {
		platforms := source.ResolvePlatforms(brief.PreferredPlatform)
		calls = append(calls, tierCall{"Social Search", func(ctx context.Context) ([]model.Candidate, error) {
			return o.src.Social.Search(ctx, searchQuery, primaryMarket, platforms)
		}})
	} else {
		r.logf("%s: Social Search not configured, skipping", TierOne)
	}

	// Adapters run concurrently; each returns a local slice which is
	// merged into the pool by this goroutine after the group completes.
	results := make([][]model.Candidate, len(calls))
	g, gCtx := errgroup.WithContext(ctx)
	for i, tc := range calls {
		i, tc := i, tc
		g.Go(func() error {
			results[i] = o.call(gCtx, r, TierOne, tc.name, tc.fn)
			r.emit(TierOne, model.StatusSearching, tc.name)
			return nil
		})
	}
	_ = g.Wait()

	var incoming []model.Candidate
	for _, cands := range results {
		incoming = append(incoming, cands...)
	}
	r.pool = merge.Dedupe(append(r.pool, incoming...))
	r.logf("%s: %d unique candidates after merge", TierOne, len(r.pool))
	r.emit(TierOne, model.StatusSearching, "")
}

func (o *Orchestrator) runTier2(ctx context.Context, r *run, searchQuery, primaryMarket string) {
	r.emit(TierTwo, model.StatusSearching, "")

	if o.src.Enrich != nil {
		cands := o.call(ctx, r, TierTwo, "Apollo", func(ctx context.Context) ([]model.Candidate, error) {
			return o.src.Enrich.Search(ctx, searchQuery, primaryMarket)
		})
		r.pool = merge.Dedupe(append(r.pool, cands...))
		r.emit(TierTwo, model.StatusSearching, "Apollo")
	} else {
		r.logf("%s: Apollo not configured, skipping", TierTwo)
	}

	if o.src.Scraper != nil {
		targets := scrapeTargets(r.pool)
		if len(targets) > 0 {
			cands := o.call(ctx, r, TierTwo, "Page Scrape", func(ctx context.Context) ([]model.Candidate, error) {
				return o.src.Scraper.Scrape(ctx, targets)
			})
			r.pool = merge.Dedupe(append(r.pool, cands...))
		} else {
			r.logf("%s: no scrape targets", TierTwo)
		}
		r.emit(TierTwo, model.StatusSearching, "Page Scrape")
	} else {
		r.logf("%s: Page Scrape not configured, skipping", TierTwo)
	}

	r.logf("%s: %d unique candidates after merge", TierTwo, len(r.pool))
}

func (o *Orchestrator) runTier3(ctx context.Context, r *run, searchQuery string, marketCodes []string) {
	r.emit(TierThree, model.StatusSearching, "")

	if o.src.Deep != nil {
		cands := o.call(ctx, r, TierThree, "Deep Search", func(ctx context.Context) ([]model.Candidate, error) {
			return o.src.Deep.Search(ctx, searchQuery, marketCodes)
		})
		r.pool = merge.Dedupe(append(r.pool, cands...))
	} else {
		r.logf("%s: Deep Search not configured, skipping", TierThree)
	}

	merge.SortByConfidence(r.pool)
	r.logf("%s: %d unique candidates after merge", TierThree, len(r.pool))
}

// finish assembles the terminal result. Early stops (quick/deep depth or
// target reached before Tier 3) truncate to the target count; the full
// Tier 3 path returns the entire deduplicated pool.
func (o *Orchestrator) finish(r *run, tier string, truncate bool) *model.DiscoveryResult {
	contacts := r.pool
	if truncate && len(contacts) > r.target {
		contacts = contacts[:r.target]
	}
	r.logf("%s: done, returning %d contacts", tier, len(contacts))

	r.pool = contacts
	r.emit(tier, model.StatusDone, "")

	return &model.DiscoveryResult{
		Contacts: contacts,
		Logs:     r.logs,
		Total:    len(contacts),
	}
}

// scrapeTargets selects up to 10 candidates worth scraping: they have a
// URL to visit but no email yet.
func scrapeTargets(pool []model.Candidate) []model.Candidate {
	var targets []model.Candidate
	for _, c := range pool {
		if c.URL != "" && c.Email == "" {
			targets = append(targets, c)
			if len(targets) == source.MaxScrapeURLs {
				break
			}
		}
	}
	return targets
}
