// Package extract pulls validated contact details out of raw page text.
// It is pure: no I/O, deterministic over its input.
package extract

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

var (
	emailRegex = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,9}`),
		regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	}

	nonDigitRegex = regexp.MustCompile(`\D`)

	// Substrings that mark an email as a placeholder, tracking address or
	// misdetected asset path.
	invalidEmailPatterns = []string{
		"example.com", "@example", ".png", ".jpg", ".gif", ".webp", ".svg",
		"sampleemail", "youremail", "noreply", "wixpress", "sentry",
		"qodeinteractive", "placeholder", "test@", "email@",
	}
)

const maxPhoneDigits = 15

// Result holds the validated contacts found in one page.
type Result struct {
	Emails []string
	Phone  string
}

// Contacts extracts every valid email and at most one valid phone number
// from the given text.
func Contacts(text string, minPhoneDigits int) Result {
	return Result{
		Emails: Emails(text),
		Phone:  Phone(text, minPhoneDigits),
	}
}

// Emails returns the deduplicated, lowercased valid emails in the text, in
// order of first appearance.
func Emails(text string) []string {
	matches := emailRegex.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		email := strings.ToLower(strings.TrimSpace(m))
		if _, dup := seen[email]; dup {
			continue
		}
		if !validEmail(email) {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Phone returns the first phone candidate whose digit count falls within
// [minDigits, 15] and whose digits are not all identical, or "" when the
// text holds no acceptable number.
func Phone(text string, minDigits int) string {
	for _, re := range phonePatterns {
		for _, m := range re.FindAllString(text, -1) {
			digits := nonDigitRegex.ReplaceAllString(m, "")
			if len(digits) < minDigits || len(digits) > maxPhoneDigits {
				continue
			}
			if allSameDigits(digits) {
				continue
			}
			return formatPhone(m)
		}
	}
	return ""
}

func validEmail(email string) bool {
	for _, p := range invalidEmailPatterns {
		if strings.Contains(email, p) {
			return false
		}
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	if _, err := idna.Lookup.ToASCII(email[at+1:]); err != nil {
		return false
	}
	return true
}

func allSameDigits(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// formatPhone normalizes internationally prefixed numbers to E.164. Numbers
// without a country code are kept as matched, since the region they belong
// to is unknown.
func formatPhone(raw string) string {
	raw = strings.TrimSpace(raw)
	num, err := phonenumbers.Parse(raw, "")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
