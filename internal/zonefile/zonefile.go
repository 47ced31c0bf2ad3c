// Package zonefile reads and writes DNS master zone files (RFC 1035) in terms of the
// PowerDNS record model, where MX and SRV priorities live outside the content and names
// carry no trailing dot.
package zonefile

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/miekg/dns"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
)

// Parse reads a master file for the zone origin and returns its records ready to be added
// through the record manager. $INCLUDE is not honoured.
func Parse(r io.Reader, origin string) ([]domain.RecordInput, error) {
	zp := dns.NewZoneParser(r, dns.Fqdn(origin), "")

	var out []domain.RecordInput
	for rr, ok := zp.Next(); ok; rr, ok = zp.Next() {
		out = append(out, toInput(rr))
	}
	if err := zp.Err(); err != nil {
		return nil, fmt.Errorf("parse zone file: %w", err)
	}
	return out, nil
}

func toInput(rr dns.RR) domain.RecordInput {
	hdr := rr.Header()
	in := domain.RecordInput{
		Name: trimDot(strings.ToLower(hdr.Name)),
		Type: domain.RecordType(dns.TypeToString[hdr.Rrtype]),
		TTL:  int(hdr.Ttl),
	}

	switch v := rr.(type) {
	case *dns.MX:
		in.Prio = int(v.Preference)
		in.Content = trimDot(v.Mx)
	case *dns.SRV:
		in.Prio = int(v.Priority)
		in.Content = fmt.Sprintf("%d %d %s", v.Weight, v.Port, trimDot(v.Target))
	case *dns.CNAME:
		in.Content = trimDot(v.Target)
	case *dns.NS:
		in.Content = trimDot(v.Ns)
	case *dns.PTR:
		in.Content = trimDot(v.Ptr)
	case *dns.SOA:
		in.Content = fmt.Sprintf("%s %s %d %d %d %d %d",
			trimDot(v.Ns), trimDot(v.Mbox), v.Serial, v.Refresh, v.Retry, v.Expire, v.Minttl)
	default:
		in.Content = strings.TrimPrefix(rr.String(), hdr.String())
	}
	return in
}

func trimDot(s string) string {
	if s == "." {
		return s
	}
	return strings.TrimSuffix(s, ".")
}

// Write renders records as a master file in canonical order. Records that do not parse as
// presentation format are written as comments.
func Write(w io.Writer, origin string, records []domain.Record) error {
	sorted := append([]domain.Record(nil), records...)
	SortRecordsCanonically(sorted)

	if _, err := fmt.Fprintf(w, "$ORIGIN %s\n", dns.Fqdn(origin)); err != nil {
		return err
	}
	for _, rec := range sorted {
		line := presentation(rec)
		if rec.Disabled {
			line = "; disabled: " + line
		} else if rr, err := dns.NewRR(line); err == nil && rr != nil {
			line = rr.String()
		} else {
			line = "; unparsable: " + line
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func presentation(rec domain.Record) string {
	content := rec.Content
	switch rec.Type {
	case domain.TypeMX, domain.TypeSRV:
		content = fmt.Sprintf("%d %s", rec.Prio, rec.Content)
	}
	return fmt.Sprintf("%s %d IN %s %s", dns.Fqdn(rec.Name), rec.TTL, rec.Type, content)
}

// CompareNamesCanonically orders names as in RFC 4034 section 6.1.
func CompareNamesCanonically(a, b string) int {
	a = strings.TrimSuffix(strings.ToLower(a), ".")
	b = strings.TrimSuffix(strings.ToLower(b), ".")

	if a == b {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}

	aLabels := strings.Split(a, ".")
	bLabels := strings.Split(b, ".")

	i := len(aLabels) - 1
	j := len(bLabels) - 1
	for i >= 0 && j >= 0 {
		if aLabels[i] != bLabels[j] {
			return strings.Compare(aLabels[i], bLabels[j])
		}
		i--
		j--
	}

	switch {
	case len(aLabels) < len(bLabels):
		return -1
	case len(aLabels) > len(bLabels):
		return 1
	}
	return 0
}

// SortRecordsCanonically sorts by owner name, putting SOA first at each name and then
// ordering by type and content.
func SortRecordsCanonically(records []domain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if cmp := CompareNamesCanonically(records[i].Name, records[j].Name); cmp != 0 {
			return cmp < 0
		}
		if (records[i].Type == domain.TypeSOA) != (records[j].Type == domain.TypeSOA) {
			return records[i].Type == domain.TypeSOA
		}
		if records[i].Type != records[j].Type {
			return records[i].Type < records[j].Type
		}
		return records[i].Content < records[j].Content
	})
}
