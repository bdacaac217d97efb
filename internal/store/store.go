// Package store holds the in-memory deduplicated results of one scrape run.
package store

import "sync"

// Store indexes discovered contacts and tracks visited websites. All writes
// are insert-if-absent: the first discovery of an email or of a phone for a
// source URL wins, regardless of which stage found it.
type Store struct {
	mu      sync.RWMutex
	emails  map[string]string // lowercase email -> first-seen source URL
	phones  map[string]string // source URL -> phone
	sources map[string]struct{}
	visited map[string]struct{}
}

// New returns an empty store.
func New() *Store {
	return &Store{
		emails:  make(map[string]string),
		phones:  make(map[string]string),
		sources: make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
}

// AddEmail records an email against its source URL. It reports whether the
// email was new; an already known email keeps its original source.
func (s *Store) AddEmail(email, sourceURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.emails[email]; exists {
		return false
	}
	s.emails[email] = sourceURL
	s.sources[sourceURL] = struct{}{}
	return true
}

// AddPhone attaches a phone number to a source URL unless one is already
// recorded for it.
func (s *Store) AddPhone(sourceURL, phone string) bool {
	if phone == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.phones[sourceURL]; exists {
		return false
	}
	s.phones[sourceURL] = phone
	return true
}

// HasSource reports whether some record already claims this URL as its
// source, making a re-visit redundant.
func (s *Store) HasSource(sourceURL string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sources[sourceURL]
	return ok
}

// MarkVisited adds the URL to the visited set and reports whether it was not
// there before. Callers mark before navigating so a concurrently scheduled
// duplicate observes the mark.
func (s *Store) MarkVisited(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visited[url]; ok {
		return false
	}
	s.visited[url] = struct{}{}
	return true
}

// Visited reports whether the URL has been crawled in this run.
func (s *Store) Visited(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.visited[url]
	return ok
}

// EmailCount returns the number of unique emails collected so far.
func (s *Store) EmailCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.emails)
}

// Snapshot copies the email and phone indexes for persistence. The copies
// are safe to read while workers keep writing.
func (s *Store) Snapshot() (emails map[string]string, phones map[string]string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	emails = make(map[string]string, len(s.emails))
	for k, v := range s.emails {
		emails[k] = v
	}
	phones = make(map[string]string, len(s.phones))
	for k, v := range s.phones {
		phones[k] = v
	}
	return emails, phones
}
