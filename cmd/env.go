package main

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scoutline/leadscout/internal/cascade"
	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/internal/qualify"
	"github.com/scoutline/leadscout/internal/source"
	"github.com/scoutline/leadscout/internal/store"
	"github.com/scoutline/leadscout/pkg/apollo"
	"github.com/scoutline/leadscout/pkg/jina"
	"github.com/scoutline/leadscout/pkg/serper"
	"github.com/scoutline/leadscout/pkg/socialkit"
)

type discoverRunner interface {
	Run(ctx context.Context, brief model.Brief, onProgress func(model.ProgressEvent)) (*model.DiscoveryResult, error)
}

type leadQualifier interface {
	Qualify(ctx context.Context, candidates []model.Candidate, cfg qualify.Config, onProgress func(model.ProgressEvent)) (*model.QualifyResult, error)
}

// env bundles the wired pipeline components for one command invocation.
type env struct {
	store     store.Store
	discover  discoverRunner
	qualifier leadQualifier
}

func (e *env) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
}

// initEnv wires the pipeline from config. Adapters whose credentials are
// missing stay nil and are skipped by the orchestrator with a notice.
func initEnv(ctx context.Context) (*env, error) {
	e := &env{}

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	e.store = st

	var sources cascade.Sources
	sources.Local = source.NewLocalStore(st)

	if cfg.Serper.Key != "" {
		sources.Web = source.NewWebSearch(serper.NewClient(cfg.Serper.Key,
			serper.WithBaseURL(cfg.Serper.BaseURL)))
	} else {
		zap.L().Info("serper key not set, web search disabled")
	}

	var sk socialkit.Client
	if cfg.SocialKit.Key != "" {
		sk = socialkit.NewClient(cfg.SocialKit.Key,
			socialkit.WithBaseURL(cfg.SocialKit.BaseURL),
			socialkit.WithRateLimit(cfg.SocialKit.RatePerSec))
		sources.Social = source.NewSocialSearch(sk)
	} else {
		zap.L().Info("socialkit key not set, social search and verification disabled")
	}

	var enrich *source.Enrich
	if cfg.Apollo.Key != "" {
		enrich = source.NewEnrich(apollo.NewClient(cfg.Apollo.Key,
			apollo.WithBaseURL(cfg.Apollo.BaseURL),
			apollo.WithRateLimit(cfg.Apollo.RatePerSec)))
		sources.Enrich = enrich
	} else {
		zap.L().Info("apollo key not set, enrichment disabled")
	}

	// The reader works without a key at a reduced rate, so the scraper is
	// always available.
	sources.Scraper = source.NewScraper(jina.NewClient(cfg.Jina.Key,
		jina.WithBaseURL(cfg.Jina.BaseURL)))

	if enrich != nil && sources.Social != nil {
		sources.Deep = source.NewDeep(enrich, sources.Social)
	}

	e.discover = cascade.New(sources, cascade.Config{
		AdapterTimeout: time.Duration(cfg.Discovery.AdapterTimeoutSecs) * time.Second,
	})

	patterns, err := qualify.LoadPatterns(cfg.Qualify.PatternsFile)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	var fetchers []source.ProfileFetcher
	if sk != nil {
		for _, platform := range source.DefaultPlatforms {
			fetchers = append(fetchers, source.NewProfileFetcher(sk, platform))
		}
	}
	e.qualifier = qualify.New(fetchers, patterns)

	return e, nil
}

// preferredPlatform maps a brief's platform hint to a single canonical
// platform name, or "" when the hint is absent or unrecognized.
func preferredPlatform(hint string) string {
	platforms := source.ResolvePlatforms(hint)
	if len(platforms) == 1 {
		return platforms[0]
	}
	return ""
}

// qualifyConfigForBrief derives qualification targets from a brief.
func qualifyConfigForBrief(brief model.Brief) qualify.Config {
	return qualify.Config{
		EntityType:     strings.Join(brief.ContactTypes, " "),
		Niche:          brief.Genre,
		TargetLocation: brief.SpecificLocation,
		Platform:       preferredPlatform(brief.PreferredPlatform),
		MaxToQualify:   cfg.Qualify.MaxToQualify,
	}
}
