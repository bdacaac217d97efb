package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/octobees/contact-harvester/internal/entity"
	"github.com/octobees/contact-harvester/internal/store"
)

// discoverListings paginates one query's search results into a deduplicated,
// insertion-ordered list of listing URLs, truncated to the configured cap.
// Any failure yields an empty list; a broken query never aborts the run.
func (e *Engine) discoverListings(ctx context.Context, q entity.Query) []string {
	timeout := time.Duration(e.cfg.MaxScrollAttempts+5)*(e.cfg.ScrollPauseTime+2*time.Second) + time.Minute
	page, cancel, err := e.session.NewPage(timeout)
	if err != nil {
		e.log.Warn().Err(err).Str("query", q.String()).Msg("could not open discovery page")
		return nil
	}
	defer cancel()

	searchURL := searchBaseURL + strings.ReplaceAll(q.String(), " ", "+")
	if err := chromedp.Run(page,
		chromedp.Navigate(searchURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		e.log.Warn().Err(err).Str("query", q.String()).Msg("search navigation failed")
		return nil
	}

	e.dismissConsent(page)

	selector := pickResultSelector(page)
	if selector == "" {
		e.log.Info().Str("query", q.String()).Msg("no results panel found")
		return nil
	}

	urls := store.NewOrderedSet()
	stale := 0
	for attempt := 0; attempt < e.cfg.MaxScrollAttempts; attempt++ {
		if ctx.Err() != nil {
			break
		}

		before := urls.Len()
		if err := collectListingURLs(page, selector, urls); err != nil {
			e.log.Warn().Err(err).Msg("collecting result links failed")
		}

		if urls.Len() > before {
			stale = 0
			e.log.Debug().Int("listings", urls.Len()).Msg("results growing")
		} else {
			stale++
			if stale >= e.cfg.StaleScrollThreshold {
				break
			}
		}

		if err := scrollFeed(page); err != nil {
			e.log.Warn().Err(err).Msg("scroll failed")
		}
		if !sleep(ctx, e.cfg.ScrollPauseTime) {
			break
		}
	}

	results := urls.Truncated(e.cfg.MaxResultsPerQuery)
	e.log.Info().Str("query", q.String()).Int("listings", len(results)).Msg("discovery finished")
	return results
}

// dismissConsent probes the known consent-dialog buttons in order and clicks
// the first one present. Absence of all of them is fine.
func (e *Engine) dismissConsent(page context.Context) {
	for _, sel := range consentSelectors {
		probe, cancel := context.WithTimeout(page, 2*time.Second)
		err := chromedp.Run(probe,
			chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible),
		)
		cancel()
		if err == nil {
			sleep(page, time.Second)
			return
		}
	}
}

// pickResultSelector returns the first known result-item selector that
// matches at least one element on the current page.
func pickResultSelector(page context.Context) string {
	for _, sel := range mapsResultSelectors {
		var count int
		script := fmt.Sprintf(`document.querySelectorAll(%q).length`, sel)
		probe, cancel := context.WithTimeout(page, 5*time.Second)
		err := chromedp.Run(probe, chromedp.Evaluate(script, &count))
		cancel()
		if err == nil && count > 0 {
			return sel
		}
	}
	return ""
}

func collectListingURLs(page context.Context, selector string, urls *store.OrderedSet) error {
	script := fmt.Sprintf(`(function() {
		const hrefs = [];
		for (const el of document.querySelectorAll(%q)) {
			const href = el.href || el.getAttribute("href");
			if (href && href.includes("/maps/place/")) {
				hrefs.push(href);
			}
		}
		return hrefs;
	})()`, selector)

	var found []string
	if err := chromedp.Run(page, chromedp.Evaluate(script, &found)); err != nil {
		return err
	}
	for _, u := range found {
		urls.Add(u)
	}
	return nil
}

func scrollFeed(page context.Context) error {
	script := fmt.Sprintf(`(function() {
		const panel = document.querySelector(%q);
		if (panel) {
			panel.scrollTop = panel.scrollHeight;
		} else {
			window.scrollBy(0, 1000);
		}
	})()`, feedSelector)
	return chromedp.Run(page, chromedp.Evaluate(script, nil))
}

// sleep waits for d unless the context is cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
