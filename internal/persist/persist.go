// Package persist serializes scrape results to a flat CSV file with
// atomic-replace write discipline, so concurrent readers never observe a
// partially written file.
package persist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/octobees/contact-harvester/internal/entity"
	"github.com/octobees/contact-harvester/internal/store"
)

var header = []string{"Company", "Email", "Phone", "Website"}

// Save builds output rows from the store and atomically replaces the file at
// path. Saving an empty store is a no-op so an interrupted fresh run cannot
// blank out earlier results.
func Save(path string, st *store.Store) error {
	emails, phones := st.Snapshot()
	if len(emails) == 0 {
		return nil
	}
	rows := BuildRows(emails, phones)
	return atomicWrite(path, func(w io.Writer) error {
		return writeRows(w, rows)
	})
}

// BuildRows converts the raw email and phone indexes into sorted contact
// records.
func BuildRows(emails, phones map[string]string) []entity.ContactRecord {
	rows := make([]entity.ContactRecord, 0, len(emails))
	for email, src := range emails {
		rows = append(rows, entity.ContactRecord{
			Company:   CompanyFromWebsite(src),
			Email:     email,
			Phone:     phones[src],
			Website:   src,
			SourceURL: src,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		ci, cj := strings.ToLower(rows[i].Company), strings.ToLower(rows[j].Company)
		if ci != cj {
			return ci < cj
		}
		return strings.ToLower(rows[i].Email) < strings.ToLower(rows[j].Email)
	})
	return rows
}

// CompanyFromWebsite derives a display name from the website host: first
// label without the www prefix, hyphens and underscores as spaces, each word
// capitalized. Records without a website are labeled "Unknown".
func CompanyFromWebsite(website string) string {
	if website == "" {
		return "Unknown"
	}
	host := website
	if u, err := url.Parse(website); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	if i := strings.Index(host, "."); i > 0 {
		host = host[:i]
	}
	if host == "" {
		return "Unknown"
	}
	host = strings.NewReplacer("-", " ", "_", " ").Replace(host)
	words := strings.Fields(host)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Load reads a previously persisted CSV so a new run can resume without
// re-collecting known contacts. A missing file yields no records.
func Load(path string) ([]entity.ContactRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open output file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var records []entity.ContactRecord
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if len(row) < 4 {
			continue
		}
		rec := entity.ContactRecord{
			Company:   row[0],
			Email:     strings.ToLower(strings.TrimSpace(row[1])),
			Phone:     strings.TrimSpace(row[2]),
			Website:   strings.TrimSpace(row[3]),
			SourceURL: strings.TrimSpace(row[3]),
		}
		if rec.Email == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Seed replays persisted records into a fresh store so re-runs skip websites
// that already produced a phone number and keep first-seen attribution.
func Seed(st *store.Store, records []entity.ContactRecord) {
	for _, rec := range records {
		st.AddEmail(rec.Email, rec.Website)
		if rec.Phone != "" && rec.Website != "" {
			st.AddPhone(rec.Website, rec.Phone)
			st.MarkVisited(rec.Website)
		}
	}
}

func writeRows(w io.Writer, rows []entity.ContactRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range rows {
		if err := cw.Write([]string{rec.Company, rec.Email, rec.Phone, rec.Website}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// atomicWrite writes through a temporary file in the destination directory
// and renames it over path only after the write fully succeeds.
func atomicWrite(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace output file: %w", err)
	}
	return nil
}
