package domain

import (
	"strings"
	"testing"
)

func TestValidateZoneName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"example.com", false},
		{"example.com.", false},
		{"a.b.c", false},
		{"label-with-hyphen.com", false},
		{"1.168.192.in-addr.arpa", false},
		{"localhost", false},
		{"", true},
		{"com", true},
		{strings.Repeat("a", 64) + ".com", true},
		{"-start-with-hyphen.com", true},
		{"end-with-hyphen-.com", true},
		{"invalid_char.com", true},
		{"double..dot.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateZoneName(tt.name); (err != nil) != tt.wantErr {
				t.Errorf("ValidateZoneName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHostname(t *testing.T) {
	tests := []struct {
		name     string
		wildcard bool
		wantErr  bool
	}{
		{"www.example.com", false, false},
		{"_dmarc.example.com", false, false},
		{"*.example.com", true, false},
		{"*.example.com", false, true},
		{"www.*.example.com", true, true},
		{"", false, true},
		{"bad host.example.com", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateHostname(tt.name, tt.wildcard); (err != nil) != tt.wantErr {
				t.Errorf("ValidateHostname(%q, %v) error = %v, wantErr %v", tt.name, tt.wildcard, err, tt.wantErr)
			}
		})
	}
}

func TestIPHelpers(t *testing.T) {
	if !IsValidIPv4("192.0.2.1") || IsValidIPv4("2001:db8::1") || IsValidIPv4("::ffff:192.0.2.1") {
		t.Errorf("IsValidIPv4 misclassified an address")
	}
	if !IsValidIPv6("2001:db8::1") || IsValidIPv6("192.0.2.1") {
		t.Errorf("IsValidIPv6 misclassified an address")
	}
	if IsValidIP("256.1.1.1") || IsValidIP("ns1.example.com") {
		t.Errorf("IsValidIP accepted garbage")
	}
}

func TestParseIPList(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"192.0.2.1", 1, false},
		{"192.0.2.1,192.0.2.2", 2, false},
		{"192.0.2.1, 2001:db8::1  192.0.2.3", 3, false},
		{"", 0, true},
		{" , ", 0, true},
		{"192.0.2.1,not-an-ip", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIPList(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIPList(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("ParseIPList(%q) = %v, want %d entries", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateAccount(t *testing.T) {
	for _, ok := range []string{"acct1", "my.account_name-2"} {
		if err := ValidateAccount(ok); err != nil {
			t.Errorf("ValidateAccount(%q) unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "with space", "semi;colon", "ümlaut"} {
		if err := ValidateAccount(bad); err == nil {
			t.Errorf("ValidateAccount(%q) expected error", bad)
		}
	}
}

func TestIsReverseZone(t *testing.T) {
	if !IsReverseZone("1.168.192.in-addr.arpa") || !IsReverseZone("2.0.192.IN-ADDR.ARPA") {
		t.Errorf("expected reverse zones to be detected")
	}
	if IsReverseZone("example.com") {
		t.Errorf("example.com is not a reverse zone")
	}
}
