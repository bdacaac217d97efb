package entity

// ContactRecord is one deduplicated business contact. The lowercase email is
// the dedup key; SourceURL is the page the email was first seen on and is
// never overwritten by later discoveries.
type ContactRecord struct {
	Company   string `json:"company"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Website   string `json:"website,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// Query is one directory search, generated once per run.
type Query struct {
	Term     string
	Location string
}

// String renders the query the way it is typed into the directory search box.
func (q Query) String() string {
	if q.Location == "" {
		return q.Term
	}
	return q.Term + " " + q.Location
}

// Listing is one business entry surfaced by directory search. It is consumed
// by detail extraction and not persisted on its own; Website seeds the
// enrichment crawl when present.
type Listing struct {
	MapsURL     string
	Company     string
	Category    string
	Address     string
	Rating      string
	ReviewCount string
	Website     string
}
