package scraper

const searchBaseURL = "https://www.google.com/maps/search/"

// Result-item probes, tried in order; the first selector yielding at least
// one element is used for the remainder of the query.
var mapsResultSelectors = []string{
	`a[href*="/maps/place/"]`,
	`div.Nv2PK a`,
	`a.hfpxzc`,
	`div[role="article"] a`,
}

// Consent-dialog probes, tried in order; no match is not an error.
var consentSelectors = []string{
	`button[aria-label="Accept all"]`,
	`button[aria-label="I agree"]`,
	`button[aria-label="Accept all cookies"]`,
	`button[jsname="b3VHJd"]`,
}

// Detail-page selectors. A missing field yields an empty string.
const (
	headingSelector     = `h1.DUwDvf`
	categorySelector    = `button[jsaction*="category"]`
	addressSelector     = `button[data-item-id="address"]`
	ratingSelector      = `div.F7nice span[aria-hidden="true"]`
	reviewCountSelector = `div.F7nice span[aria-label*="review"]`
	websiteSelector     = `a[data-item-id="authority"]`
	feedSelector        = `div[role="feed"]`
)

// Own-platform and social/aggregator domains whose links never lead to a
// business's own website.
var skipDomains = []string{
	"google", "facebook", "instagram", "youtube", "linkedin",
	"twitter", "gstatic", "googleapis", "schema.org", "yelp",
	"tripadvisor", "booking.com",
}

// Keywords probed in order against anchor href and text when a website's
// landing page yields no email.
var contactKeywords = []string{
	"contact", "kontakt", "contacto", "contatto", "contactez",
	"impressum", "about", "reach",
}
