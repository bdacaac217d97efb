package store

import (
	"reflect"
	"testing"
)

func TestAddEmailFirstSourceWins(t *testing.T) {
	s := New()

	if !s.AddEmail("jane@acme.org", "https://maps.example/place/1") {
		t.Fatal("first insert should report new")
	}
	if s.AddEmail("jane@acme.org", "https://acme.org") {
		t.Fatal("second insert of same email should be a no-op")
	}

	emails, _ := s.Snapshot()
	if emails["jane@acme.org"] != "https://maps.example/place/1" {
		t.Fatalf("first-seen source overwritten: %q", emails["jane@acme.org"])
	}
	if s.EmailCount() != 1 {
		t.Fatalf("expected 1 email, got %d", s.EmailCount())
	}
}

func TestAddPhoneFirstFoundWins(t *testing.T) {
	s := New()

	if !s.AddPhone("https://acme.org", "415-555-0199") {
		t.Fatal("first phone should be recorded")
	}
	if s.AddPhone("https://acme.org", "628-555-3141") {
		t.Fatal("existing phone must not be overwritten")
	}
	if s.AddPhone("https://acme.org", "") {
		t.Fatal("empty phone should be ignored")
	}

	_, phones := s.Snapshot()
	if phones["https://acme.org"] != "415-555-0199" {
		t.Fatalf("unexpected phone %q", phones["https://acme.org"])
	}
}

func TestHasSourceTracksRecordedListings(t *testing.T) {
	s := New()
	if s.HasSource("https://maps.example/place/1") {
		t.Fatal("empty store should have no sources")
	}
	s.AddEmail("jane@acme.org", "https://maps.example/place/1")
	if !s.HasSource("https://maps.example/place/1") {
		t.Fatal("source should be tracked after insert")
	}
}

func TestMarkVisitedIsIdempotent(t *testing.T) {
	s := New()
	if !s.MarkVisited("https://acme.org") {
		t.Fatal("first mark should report new")
	}
	if s.MarkVisited("https://acme.org") {
		t.Fatal("second mark should report already visited")
	}
	if !s.Visited("https://acme.org") {
		t.Fatal("url should be visited")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	s.AddEmail("jane@acme.org", "https://acme.org")
	emails, _ := s.Snapshot()
	emails["evil@acme.org"] = "x"

	fresh, _ := s.Snapshot()
	if len(fresh) != 1 {
		t.Fatalf("snapshot mutation leaked into store: %#v", fresh)
	}
}

func TestOrderedSetPreservesInsertionOrder(t *testing.T) {
	set := NewOrderedSet()
	for _, v := range []string{"c", "a", "b", "a", "c"} {
		set.Add(v)
	}

	if got := set.Items(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("unexpected order: %#v", got)
	}
	if set.Len() != 3 {
		t.Fatalf("unexpected length %d", set.Len())
	}
	if !set.Contains("b") || set.Contains("z") {
		t.Fatal("membership checks failed")
	}
}

func TestOrderedSetTruncation(t *testing.T) {
	set := NewOrderedSet()
	for _, v := range []string{"one", "two", "three"} {
		set.Add(v)
	}

	if got := set.Truncated(2); !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Fatalf("truncation not deterministic: %#v", got)
	}
	if got := set.Truncated(0); len(got) != 3 {
		t.Fatalf("zero cap should mean unbounded, got %#v", got)
	}
	if got := set.Truncated(10); len(got) != 3 {
		t.Fatalf("oversized cap should return all, got %#v", got)
	}
}
