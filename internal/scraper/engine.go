// Package scraper implements the scraping engine: query planning, listing
// discovery, detail extraction and bounded-concurrency website enrichment.
package scraper

import (
	"context"
	"math/rand"
	"time"

	"github.com/phuslu/log"

	"github.com/octobees/contact-harvester/internal/browser"
	"github.com/octobees/contact-harvester/internal/config"
	"github.com/octobees/contact-harvester/internal/persist"
	"github.com/octobees/contact-harvester/internal/store"
)

// Engine owns the state of one scrape run: the result store, the visited
// set, the browser session and the website-candidate queue. It is created
// per run and never shared between runs.
type Engine struct {
	cfg     *config.Config
	log     log.Logger
	store   *store.Store
	session *browser.Session
	sites   *store.OrderedSet
}

// New builds an engine for the given configuration.
func New(cfg *config.Config, logger log.Logger) *Engine {
	return &Engine{
		cfg:   cfg,
		log:   logger,
		store: store.New(),
		sites: store.NewOrderedSet(),
	}
}

// Run executes a full scrape: discovery and detail extraction per planned
// query, then website enrichment. It returns an error only for
// configuration or browser-session failures; per-item errors are absorbed.
// Cancelling the context lets in-flight work finish but schedules nothing
// new.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.cfg.ValidateForScrape(); err != nil {
		return err
	}

	queries, err := BuildQueries(e.cfg.SearchTerm, e.cfg.Locations)
	if err != nil {
		return err
	}

	existing, err := persist.Load(e.cfg.OutputPath())
	if err != nil {
		e.log.Warn().Err(err).Msg("could not load existing results")
	} else if len(existing) > 0 {
		persist.Seed(e.store, existing)
		e.log.Info().Int("records", len(existing)).Msg("loaded existing results")
	}

	session, err := browser.Launch(ctx, e.cfg.Headless)
	if err != nil {
		return err
	}
	e.session = session
	defer e.session.Close()

	for i, q := range queries {
		if ctx.Err() != nil {
			break
		}
		e.log.Info().Str("query", q.String()).Int("n", i+1).Int("total", len(queries)).Msg("running query")

		for _, listingURL := range e.discoverListings(ctx, q) {
			if ctx.Err() != nil {
				break
			}
			if site := e.scrapeListing(ctx, listingURL); site != "" {
				e.sites.Add(site)
			}
		}

		e.checkpoint()
		if i < len(queries)-1 {
			if !sleep(ctx, e.jitter()) {
				break
			}
		}
	}

	candidates := e.sites.Items()
	e.log.Info().Int("websites", len(candidates)).Msg("starting website enrichment")

	en := &Enricher{
		Store:       e.store,
		Concurrency: e.cfg.MaxConcurrentPages,
		BatchSize:   enrichBatchSize,
		Visit:       e.visitSite,
		Checkpoint: func() {
			e.checkpoint()
			e.log.Info().Int("emails", e.store.EmailCount()).Msg("enrichment progress")
		},
	}
	en.Run(ctx, candidates)

	e.checkpoint()
	e.log.Info().Int("emails", e.store.EmailCount()).Msg("run finished")
	return nil
}

// checkpoint persists the store. A failed write is logged and absorbed; the
// previous file stays valid because writes are atomic.
func (e *Engine) checkpoint() {
	if err := persist.Save(e.cfg.OutputPath(), e.store); err != nil {
		e.log.Error().Err(err).Msg("persisting results failed")
	}
}

// jitter picks a random inter-query delay within the configured bounds to
// avoid an even request cadence.
func (e *Engine) jitter() time.Duration {
	min, max := e.cfg.DelayMin, e.cfg.DelayMax
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
