package extract

import (
	"reflect"
	"testing"
)

func TestEmailsFiltersBlocklistedPatterns(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "valid email accepted",
			text: "reach us at jane@acme.org today",
			want: []string{"jane@acme.org"},
		},
		{
			name: "blocklisted domain rejected",
			text: "write to info@example.com please",
			want: nil,
		},
		{
			name: "asset path misdetection rejected",
			text: `<img src="logo@2x.png"> hero@banner.jpg`,
			want: nil,
		},
		{
			name: "noreply rejected",
			text: "noreply@shop.io and sales@shop.io",
			want: []string{"sales@shop.io"},
		},
		{
			name: "case folded and deduplicated",
			text: "Jane@Acme.org JANE@ACME.ORG jane@acme.org",
			want: []string{"jane@acme.org"},
		},
		{
			name: "order of first appearance preserved",
			text: "second@two.net ... first@one.net ... second@two.net",
			want: []string{"second@two.net", "first@one.net"},
		},
		{
			name: "no emails",
			text: "call us instead",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Emails(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Emails(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestPhoneValidation(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		minDigits int
		want      string
	}{
		{
			name:      "repeated digits rejected",
			text:      "call 111-111-1111",
			minDigits: 10,
			want:      "",
		},
		{
			name:      "plausible number accepted",
			text:      "call 415-555-0199 now",
			minDigits: 10,
			want:      "415-555-0199",
		},
		{
			name:      "too few digits rejected",
			text:      "ext. 12345",
			minDigits: 10,
			want:      "",
		},
		{
			name:      "international number normalized",
			text:      "ring +1 650 253 0000",
			minDigits: 10,
			want:      "+16502530000",
		},
		{
			name:      "first acceptable candidate wins",
			text:      "fax 222-222-2222, phone 628-555-3141",
			minDigits: 10,
			want:      "628-555-3141",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Phone(tt.text, tt.minDigits)
			if got != tt.want {
				t.Fatalf("Phone(%q, %d) = %q, want %q", tt.text, tt.minDigits, got, tt.want)
			}
		})
	}
}

func TestContactsCombinesEmailsAndPhone(t *testing.T) {
	text := "jane@acme.org / bob@acme.org / tel: 415-555-0199"
	got := Contacts(text, 10)

	if len(got.Emails) != 2 {
		t.Fatalf("expected 2 emails, got %#v", got.Emails)
	}
	if got.Phone != "415-555-0199" {
		t.Fatalf("unexpected phone %q", got.Phone)
	}
}
