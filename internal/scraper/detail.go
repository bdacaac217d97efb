package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/octobees/contact-harvester/internal/entity"
	"github.com/octobees/contact-harvester/internal/extract"
)

const (
	detailPageTimeout = 45 * time.Second
	headingWait       = 15 * time.Second
)

// scrapeListing visits one listing page, merges any contacts it exposes into
// the store, and returns the listing's normalized outbound website, or ""
// when there is none worth enriching.
func (e *Engine) scrapeListing(ctx context.Context, listingURL string) string {
	if e.store.HasSource(listingURL) {
		e.log.Debug().Str("url", listingURL).Msg("listing already recorded, skipping")
		return ""
	}

	page, cancel, err := e.session.NewPage(detailPageTimeout)
	if err != nil {
		e.log.Warn().Err(err).Str("url", listingURL).Msg("could not open listing page")
		return ""
	}
	defer cancel()

	if err := chromedp.Run(page,
		chromedp.Navigate(listingURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		e.log.Warn().Err(err).Str("url", listingURL).Msg("listing navigation failed")
		return ""
	}

	// The primary heading not appearing in time means the listing did not
	// render; skip it without failing the query.
	waitCtx, waitCancel := context.WithTimeout(page, headingWait)
	err = chromedp.Run(waitCtx, chromedp.WaitVisible(headingSelector, chromedp.ByQuery))
	waitCancel()
	if err != nil {
		e.log.Info().Str("url", listingURL).Msg("listing unavailable")
		return ""
	}

	listing := entity.Listing{
		MapsURL:     listingURL,
		Company:     textOrEmpty(page, headingSelector),
		Category:    textOrEmpty(page, categorySelector),
		Address:     textOrEmpty(page, addressSelector),
		Rating:      textOrEmpty(page, ratingSelector),
		ReviewCount: textOrEmpty(page, reviewCountSelector),
	}

	var pageHTML string
	if err := chromedp.Run(page, chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery)); err != nil {
		e.log.Warn().Err(err).Str("url", listingURL).Msg("reading listing content failed")
		return ""
	}
	e.mergeContacts(listingURL, extract.Contacts(pageHTML, e.cfg.PhoneMinDigits))

	if href, ok := attrOrEmpty(page, websiteSelector, "href"); ok {
		listing.Website = normalizeWebsiteURL(href)
	}

	e.log.Info().
		Str("company", listing.Company).
		Str("website", listing.Website).
		Msg("listing scraped")

	if listing.Website == "" || isSkippedDomain(listing.Website) {
		return ""
	}
	return listing.Website
}

// textOrEmpty reads the visible text behind a selector; a missing element
// yields an empty string, not an error.
func textOrEmpty(page context.Context, selector string) string {
	probe, cancel := context.WithTimeout(page, 2*time.Second)
	defer cancel()
	var text string
	err := chromedp.Run(probe,
		chromedp.Text(selector, &text, chromedp.ByQuery, chromedp.AtLeast(0)),
	)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func attrOrEmpty(page context.Context, selector, attr string) (string, bool) {
	probe, cancel := context.WithTimeout(page, 2*time.Second)
	defer cancel()
	var val string
	var ok bool
	err := chromedp.Run(probe,
		chromedp.AttributeValue(selector, attr, &val, &ok, chromedp.ByQuery, chromedp.AtLeast(0)),
	)
	if err != nil || !ok {
		return "", false
	}
	return strings.TrimSpace(val), true
}

// normalizeWebsiteURL strips the query string, fragment and trailing slash so
// the same site discovered twice dedups to one candidate.
func normalizeWebsiteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if i := strings.IndexAny(raw, "?#"); i != -1 {
		raw = raw[:i]
	}
	return strings.TrimRight(raw, "/")
}

func isSkippedDomain(website string) bool {
	lower := strings.ToLower(website)
	for _, d := range skipDomains {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

// mergeContacts applies insert-if-absent writes for everything the extractor
// found on a page.
func (e *Engine) mergeContacts(sourceURL string, found extract.Result) {
	for _, email := range found.Emails {
		if e.store.AddEmail(email, sourceURL) {
			e.log.Info().Str("email", email).Str("source", sourceURL).Msg("contact found")
		}
	}
	e.store.AddPhone(sourceURL, found.Phone)
}
