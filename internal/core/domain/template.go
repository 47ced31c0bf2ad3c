package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Template placeholders understood in template record names and contents.
const (
	PlaceholderZone       = "[ZONE]"
	PlaceholderSerial     = "[SERIAL]"
	PlaceholderHostmaster = "[HOSTMASTER]"
)

// TemplateVars are the values substituted into template records.
type TemplateVars struct {
	Zone        string
	Serial      uint32
	Nameservers []string // [NS1]..[NS4]
	Hostmaster  string
	DefaultTTL  int
}

// ExpandTemplateValue substitutes every known placeholder in val.
func ExpandTemplateValue(val string, vars TemplateVars) string {
	pairs := []string{
		PlaceholderZone, vars.Zone,
		PlaceholderSerial, strconv.FormatUint(uint64(vars.Serial), 10),
		PlaceholderHostmaster, vars.Hostmaster,
	}
	for i := 0; i < 4; i++ {
		ns := ""
		if i < len(vars.Nameservers) {
			ns = vars.Nameservers[i]
		}
		pairs = append(pairs, fmt.Sprintf("[NS%d]", i+1), ns)
	}
	return strings.NewReplacer(pairs...).Replace(val)
}

// Materialize expands template records into concrete records for vars.Zone. Reverse zones
// only receive the NS and SOA records of the template.
func Materialize(records []TemplateRecord, vars TemplateVars) []Record {
	reverse := IsReverseZone(vars.Zone)
	out := make([]Record, 0, len(records))
	for _, tr := range records {
		t := RecordType(strings.ToUpper(string(tr.Type)))
		if reverse && t != TypeNS && t != TypeSOA {
			continue
		}
		ttl := tr.TTL
		if ttl == 0 {
			ttl = vars.DefaultTTL
		}
		out = append(out, Record{
			Name:    ExpandTemplateValue(tr.Name, vars),
			Type:    t,
			Content: ExpandTemplateValue(tr.Content, vars),
			TTL:     ttl,
			Prio:    tr.Prio,
		})
	}
	return out
}
