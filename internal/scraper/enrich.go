package scraper

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/octobees/contact-harvester/internal/extract"
	"github.com/octobees/contact-harvester/internal/store"
)

const (
	enrichBatchSize    = 10
	enrichPageTimeout  = 30 * time.Second
	contactPageTimeout = 20 * time.Second
)

// Enricher crawls discovered websites in fixed-size batches with at most
// Concurrency visits in flight at once. Visits are best-effort: a failing
// site simply contributes nothing.
type Enricher struct {
	Store       *store.Store
	Concurrency int
	BatchSize   int

	// Visit fetches one site and feeds the store.
	Visit func(ctx context.Context, url string)
	// Checkpoint persists progress after each completed batch.
	Checkpoint func()
}

// Run processes the site list. The visited set is marked before a visit
// starts so a concurrently scheduled duplicate observes the mark; this is
// the only defense against double-processing within one engine.
func (en *Enricher) Run(ctx context.Context, sites []string) {
	batchSize := en.BatchSize
	if batchSize <= 0 {
		batchSize = enrichBatchSize
	}
	concurrency := en.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	gate := make(chan struct{}, concurrency)

	for start := 0; start < len(sites); start += batchSize {
		if ctx.Err() != nil {
			return
		}
		end := start + batchSize
		if end > len(sites) {
			end = len(sites)
		}

		var wg sync.WaitGroup
		for _, site := range sites[start:end] {
			if ctx.Err() != nil {
				break
			}
			if !en.Store.MarkVisited(site) {
				continue
			}
			wg.Add(1)
			go func(url string) {
				defer wg.Done()
				gate <- struct{}{}
				defer func() { <-gate }()
				en.Visit(ctx, url)
			}(site)
		}
		wg.Wait()

		if en.Checkpoint != nil {
			en.Checkpoint()
		}
	}
}

// visitSite navigates to a website, extracts contacts, and follows the first
// contact-style link once when the landing page held no email.
func (e *Engine) visitSite(ctx context.Context, siteURL string) {
	page, cancel, err := e.session.NewPage(enrichPageTimeout)
	if err != nil {
		e.log.Warn().Err(err).Str("url", siteURL).Msg("could not open site page")
		return
	}
	defer cancel()

	var pageHTML string
	if err := chromedp.Run(page,
		chromedp.Navigate(siteURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
	); err != nil {
		e.log.Debug().Err(err).Str("url", siteURL).Msg("site visit failed")
		return
	}

	found := extract.Contacts(pageHTML, e.cfg.PhoneMinDigits)
	e.mergeContacts(siteURL, found)
	if len(found.Emails) > 0 {
		return
	}

	contactURL := findContactLink(pageHTML, siteURL)
	if contactURL == "" || !e.store.MarkVisited(contactURL) {
		return
	}

	contactCtx, contactCancel := context.WithTimeout(page, contactPageTimeout)
	defer contactCancel()
	var contactHTML string
	if err := chromedp.Run(contactCtx,
		chromedp.Navigate(contactURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &contactHTML, chromedp.ByQuery),
	); err != nil {
		e.log.Debug().Err(err).Str("url", contactURL).Msg("contact page visit failed")
		return
	}
	e.mergeContacts(contactURL, extract.Contacts(contactHTML, e.cfg.PhoneMinDigits))
}

// findContactLink scans the page's anchors for the contact keywords in
// order and returns the first matching absolute URL.
func findContactLink(pageHTML, baseURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return ""
	}

	type anchor struct {
		href string
		text string
	}
	var anchors []anchor
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		anchors = append(anchors, anchor{
			href: strings.TrimSpace(href),
			text: strings.ToLower(strings.TrimSpace(sel.Text())),
		})
	})

	for _, kw := range contactKeywords {
		for _, a := range anchors {
			if a.href == "" {
				continue
			}
			if !strings.Contains(strings.ToLower(a.href), kw) && !strings.Contains(a.text, kw) {
				continue
			}
			if resolved := resolveLink(baseURL, a.href); resolved != "" {
				return resolved
			}
		}
	}
	return ""
}

func resolveLink(baseURL, href string) string {
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "#") {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base := strings.TrimRight(baseURL, "/")
	if strings.HasPrefix(href, "/") {
		return base + href
	}
	return base + "/" + href
}
