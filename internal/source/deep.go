package source

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scoutline/leadscout/internal/merge"
	"github.com/scoutline/leadscout/internal/model"
)

// Deep is the Tier 3 combined search: it fans out across the enrichment
// and social backends for every market code and merges their results
// before handing them back to the orchestrator.
type Deep struct {
	enrich EnrichSearcher
	social SocialSearcher
}

// NewDeep creates a Deep searcher over the given backends. Either may be
// nil when its credentials are missing; the remaining backend still runs.
func NewDeep(enrich EnrichSearcher, social SocialSearcher) *Deep {
	return &Deep{enrich: enrich, social: social}
}

func (d *Deep) Search(ctx context.Context, query string, marketCodes []string) ([]model.Candidate, error) {
	var (
		mu  sync.Mutex
		all []model.Candidate
	)
	collect := func(cands []model.Candidate) {
		mu.Lock()
		all = append(all, cands...)
		mu.Unlock()
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, code := range marketCodes {
		code := code
		if d.enrich != nil {
			g.Go(func() error {
				cands, err := d.enrich.Search(gCtx, query, code)
				if err != nil {
					zap.L().Warn("deep enrichment search failed",
						zap.String("market", code),
						zap.Error(err),
					)
					return nil
				}
				collect(cands)
				return nil
			})
		}
		if d.social != nil {
			g.Go(func() error {
				cands, err := d.social.Search(gCtx, query, code, DefaultPlatforms)
				if err != nil {
					zap.L().Warn("deep social search failed",
						zap.String("market", code),
						zap.Error(err),
					)
					return nil
				}
				collect(cands)
				return nil
			})
		}
	}

	_ = g.Wait()

	return merge.Dedupe(all), nil
}
