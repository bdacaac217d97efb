package scraper

import (
	"github.com/octobees/contact-harvester/internal/config"
	"github.com/octobees/contact-harvester/internal/entity"
)

// BuildQueries expands the search term and location list into the ordered
// query plan for a run: one query per location in input order, or a single
// bare-term query when no locations are configured.
func BuildQueries(term string, locations []string) ([]entity.Query, error) {
	if term == "" {
		return nil, config.ConfigError{Message: "search term is required"}
	}
	if len(locations) == 0 {
		return []entity.Query{{Term: term}}, nil
	}
	queries := make([]entity.Query, 0, len(locations))
	for _, loc := range locations {
		queries = append(queries, entity.Query{Term: term, Location: loc})
	}
	return queries, nil
}
