package persist

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/octobees/contact-harvester/internal/entity"
	"github.com/octobees/contact-harvester/internal/store"
)

func TestCompanyFromWebsite(t *testing.T) {
	tests := []struct {
		website string
		want    string
	}{
		{"https://www.acme-corp.org", "Acme Corp"},
		{"https://gold_digger.example.io/shop", "Gold Digger"},
		{"http://bakery.springfield.com", "Bakery"},
		{"", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.website, func(t *testing.T) {
			if got := CompanyFromWebsite(tt.website); got != tt.want {
				t.Fatalf("CompanyFromWebsite(%q) = %q, want %q", tt.website, got, tt.want)
			}
		})
	}
}

func TestBuildRowsSortedByCompanyThenEmail(t *testing.T) {
	emails := map[string]string{
		"zoe@zebra.com":  "https://zebra.com",
		"amy@acme.org":   "https://acme.org",
		"bob@acme.org":   "https://acme.org",
		"lost@void.test": "",
	}
	phones := map[string]string{
		"https://acme.org": "415-555-0199",
	}

	rows := BuildRows(emails, phones)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	gotOrder := make([]string, 0, len(rows))
	for _, r := range rows {
		gotOrder = append(gotOrder, r.Email)
	}
	wantOrder := []string{"amy@acme.org", "bob@acme.org", "lost@void.test", "zoe@zebra.com"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("unexpected order %#v, want %#v", gotOrder, wantOrder)
		}
	}

	if rows[0].Phone != "415-555-0199" || rows[1].Phone != "415-555-0199" {
		t.Fatal("phone should be attached via source URL")
	}
	if rows[2].Company != "Unknown" {
		t.Fatalf("record without website should be Unknown, got %q", rows[2].Company)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.csv")

	s := store.New()
	s.AddEmail("jane@acme.org", "https://acme.org")
	s.AddPhone("https://acme.org", "415-555-0199")
	s.AddEmail("sales@zebra.com", "https://zebra.com")

	if err := Save(path, s); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	records, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Email != "jane@acme.org" || records[0].Phone != "415-555-0199" {
		t.Fatalf("unexpected first record %#v", records[0])
	}
}

func TestSaveEmptyStoreIsNoOp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.csv")

	if err := Save(path, store.New()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("empty store must not produce a file")
	}
}

func TestAtomicWriteFailureKeepsDestinationIntact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.csv")
	original := "Company,Email,Phone,Website\nAcme,jane@acme.org,,https://acme.org\n"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	// Crash mid-write: some bytes land in the temp file, then the write dies.
	err := atomicWrite(path, func(w io.Writer) error {
		io.WriteString(w, "Company,Email")
		return errors.New("disk gone")
	})
	if err == nil {
		t.Fatal("expected write error")
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("destination unreadable after failed write: %v", readErr)
	}
	if string(data) != original {
		t.Fatalf("destination corrupted: %q", data)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestLoadEmptyFileYieldsNoRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records != nil {
		t.Fatalf("expected no records, got %#v", records)
	}
}

func TestLoadMissingFileYieldsNoRecords(t *testing.T) {
	records, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records != nil {
		t.Fatalf("expected no records, got %#v", records)
	}
}

func TestSeedReplaysPersistedState(t *testing.T) {
	records := []entity.ContactRecord{
		{Company: "Acme", Email: "jane@acme.org", Phone: "415-555-0199", Website: "https://acme.org", SourceURL: "https://acme.org"},
		{Company: "Zebra", Email: "sales@zebra.com", Website: "https://zebra.com", SourceURL: "https://zebra.com"},
	}

	s := store.New()
	Seed(s, records)

	if !s.HasSource("https://acme.org") {
		t.Fatal("seeded source missing")
	}
	if !s.Visited("https://acme.org") {
		t.Fatal("site with phone should be pre-visited")
	}
	if s.Visited("https://zebra.com") {
		t.Fatal("site without phone should be revisitable")
	}
	if s.AddEmail("jane@acme.org", "https://other.org") {
		t.Fatal("seeded email should already exist")
	}
}
