package domain

import (
	"errors"
	"strings"
	"testing"
)

var testZone = ZoneContext{Name: "example.com", DefaultTTL: 86400, Hostmaster: "hostmaster.example.com"}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "example.com"},
		{"@", "example.com"},
		{"www", "www.example.com"},
		{"WWW", "www.example.com"},
		{"www.example.com", "www.example.com"},
		{"www.example.com.", "www.example.com"},
		{"Example.COM", "example.com"},
		{"mail.other.org", "mail.other.org.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.name, "Example.com."); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestFormatContent(t *testing.T) {
	if got := FormatContent(TypeTXT, "v=spf1 -all", true); got != `"v=spf1 -all"` {
		t.Errorf("expected quoted TXT, got %s", got)
	}
	if got := FormatContent("txt", `"already"`, true); got != `"already"` {
		t.Errorf("expected quoted TXT to stay as is, got %s", got)
	}
	if got := FormatContent(TypeTXT, "v=spf1 -all", false); got != "v=spf1 -all" {
		t.Errorf("expected TXT untouched without auto quote, got %s", got)
	}
	if got := FormatContent(TypeA, "192.0.2.1", true); got != "192.0.2.1" {
		t.Errorf("expected A content untouched, got %s", got)
	}
}

func TestRecordValidatorValid(t *testing.T) {
	v := NewRecordValidator()

	tests := []struct {
		name string
		in   RecordInput
		want Record
	}{
		{
			name: "A with default TTL",
			in:   RecordInput{ZoneID: 1, Name: "www", Type: "a", Content: "203.0.113.5", Prio: 10},
			want: Record{DomainID: 1, Name: "www.example.com", Type: TypeA, Content: "203.0.113.5", TTL: 86400},
		},
		{
			name: "AAAA",
			in:   RecordInput{Name: "v6", Type: TypeAAAA, Content: "2001:db8::1", TTL: 300},
			want: Record{Name: "v6.example.com", Type: TypeAAAA, Content: "2001:db8::1", TTL: 300},
		},
		{
			name: "MX keeps priority",
			in:   RecordInput{Name: "@", Type: TypeMX, Content: "mail.example.com.", TTL: 3600, Prio: 10},
			want: Record{Name: "example.com", Type: TypeMX, Content: "mail.example.com", TTL: 3600, Prio: 10},
		},
		{
			name: "SRV",
			in:   RecordInput{Name: "_sip._tcp", Type: TypeSRV, Content: "5  5060 sip.example.com", TTL: 60, Prio: 20},
			want: Record{Name: "_sip._tcp.example.com", Type: TypeSRV, Content: "5 5060 sip.example.com", TTL: 60, Prio: 20},
		},
		{
			name: "Wildcard CNAME",
			in:   RecordInput{Name: "*", Type: TypeCNAME, Content: "www.example.com", TTL: 60},
			want: Record{Name: "*.example.com", Type: TypeCNAME, Content: "www.example.com", TTL: 60},
		},
		{
			name: "SOA fills defaults",
			in:   RecordInput{Name: "", Type: TypeSOA, Content: "ns1.example.com"},
			want: Record{Name: "example.com", Type: TypeSOA, Content: "ns1.example.com hostmaster.example.com 0 28800 7200 604800 86400", TTL: 86400},
		},
		{
			name: "SOA hostmaster mailbox",
			in:   RecordInput{Type: TypeSOA, Content: "ns1.example.com. admin@example.com. 2026101500 1 2 3 4"},
			want: Record{Name: "example.com", Type: TypeSOA, Content: "ns1.example.com admin.example.com 2026101500 1 2 3 4", TTL: 86400},
		},
		{
			name: "TXT",
			in:   RecordInput{Name: "_dmarc", Type: TypeTXT, Content: `"v=DMARC1; p=none"`},
			want: Record{Name: "_dmarc.example.com", Type: TypeTXT, Content: `"v=DMARC1; p=none"`, TTL: 86400},
		},
		{
			name: "Generic CAA",
			in:   RecordInput{Name: "@", Type: "CAA", Content: `0 issue "letsencrypt.org"`},
			want: Record{Name: "example.com", Type: "CAA", Content: `0 issue "letsencrypt.org"`, TTL: 86400},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Validate(tt.in, testZone)
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Validate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecordValidatorInvalid(t *testing.T) {
	v := NewRecordValidator()

	tests := []struct {
		name string
		in   RecordInput
	}{
		{"Missing type", RecordInput{Name: "www", Content: "192.0.2.1"}},
		{"Empty content", RecordInput{Name: "www", Type: TypeA}},
		{"Bad IPv4", RecordInput{Name: "www", Type: TypeA, Content: "999.0.0.1"}},
		{"IPv6 in A", RecordInput{Name: "www", Type: TypeA, Content: "2001:db8::1"}},
		{"Bad IPv6", RecordInput{Name: "www", Type: TypeAAAA, Content: "192.0.2.1"}},
		{"CNAME at apex", RecordInput{Name: "@", Type: TypeCNAME, Content: "other.example.org"}},
		{"Bad MX priority", RecordInput{Name: "@", Type: TypeMX, Content: "mail.example.com", Prio: 70000}},
		{"Negative TTL", RecordInput{Name: "www", Type: TypeA, Content: "192.0.2.1", TTL: -5}},
		{"Bad owner name", RecordInput{Name: "bad name", Type: TypeA, Content: "192.0.2.1"}},
		{"SRV without service labels", RecordInput{Name: "sip", Type: TypeSRV, Content: "5 5060 sip.example.com"}},
		{"SOA bad serial", RecordInput{Type: TypeSOA, Content: "ns1.example.com hm.example.com x 1 2 3 4"}},
		{"SOA wrong owner", RecordInput{Name: "www", Type: TypeSOA, Content: "ns1.example.com hm.example.com 1 1 2 3 4"}},
		{"SOA five fields", RecordInput{Type: TypeSOA, Content: "ns1.example.com hm.example.com 1 2 3"}},
		{"TXT with tags", RecordInput{Name: "www", Type: TypeTXT, Content: "<script>"}},
		{"Unknown type", RecordInput{Name: "www", Type: "BOGUS", Content: "x"}},
		{"Generic parse failure", RecordInput{Name: "www", Type: "CAA", Content: "not a caa"}},
		{"Oversized content", RecordInput{Name: "www", Type: TypeTXT, Content: strings.Repeat("a", 64001)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.in, testZone)
			if err == nil {
				t.Fatalf("Validate() expected error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected errors.Is(err, ErrValidation)")
			}
			if verr.First() == "" || len(verr.Errors) == 0 {
				t.Errorf("expected at least one error message")
			}
		})
	}
}

func TestRecordValidatorCollectsAllErrors(t *testing.T) {
	v := NewRecordValidator()
	_, err := v.Validate(RecordInput{Name: "bad name", Type: TypeA, Content: "nope", TTL: -1}, testZone)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %s", len(verr.Errors), verr.All())
	}
}

func TestRecordValidatorRegister(t *testing.T) {
	v := NewRecordValidator()
	v.Register("a", ContentValidatorFunc(func(rec *Record, _ ZoneContext) []string {
		if rec.Content != "192.0.2.1" {
			return []string{"only 192.0.2.1 is allowed"}
		}
		return nil
	}))

	if _, err := v.Validate(RecordInput{Name: "www", Type: TypeA, Content: "192.0.2.2"}, testZone); err == nil {
		t.Errorf("expected custom validator to reject content")
	}
	if _, err := v.Validate(RecordInput{Name: "www", Type: TypeA, Content: "192.0.2.1"}, testZone); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
