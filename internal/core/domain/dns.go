// Package domain contains the core business logic and entities for pdnsadmin.
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// RecordType represents the type of a DNS record (e.g., A, AAAA, MX).
type RecordType string

const (
	// TypeA represents an IPv4 address record.
	TypeA RecordType = "A"
	// TypeAAAA represents an IPv6 address record.
	TypeAAAA RecordType = "AAAA"
	// TypeCNAME represents a canonical name record.
	TypeCNAME RecordType = "CNAME"
	// TypeMX represents a mail exchange record.
	TypeMX RecordType = "MX"
	// TypeTXT represents a text record.
	TypeTXT RecordType = "TXT"
	// TypeSPF represents a legacy SPF record.
	TypeSPF RecordType = "SPF"
	// TypeNS represents a name server record.
	TypeNS RecordType = "NS"
	// TypeSOA represents a start of authority record.
	TypeSOA RecordType = "SOA"
	// TypePTR represents a pointer record.
	TypePTR RecordType = "PTR"
	// TypeSRV represents a service locator record (RFC 2782).
	TypeSRV RecordType = "SRV"
)

// UsesPriority reports whether the prio column is meaningful for the type.
func (t RecordType) UsesPriority() bool {
	return t == TypeMX || t == TypeSRV
}

// ZoneType is the PowerDNS domain kind.
type ZoneType string

const (
	ZoneNative ZoneType = "NATIVE"
	ZoneMaster ZoneType = "MASTER"
	ZoneSlave  ZoneType = "SLAVE"
)

// ParseZoneType accepts the zone kind case-insensitively.
func ParseZoneType(s string) (ZoneType, error) {
	switch ZoneType(strings.ToUpper(strings.TrimSpace(s))) {
	case ZoneNative:
		return ZoneNative, nil
	case ZoneMaster:
		return ZoneMaster, nil
	case ZoneSlave:
		return ZoneSlave, nil
	}
	return "", fmt.Errorf("unknown zone type %q", s)
}

// Domain is a row of the PowerDNS domains table.
type Domain struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Type   ZoneType `json:"type"`
	Master string   `json:"master,omitempty"` // only meaningful for SLAVE zones
}

// ZoneOwner is a row of the zones table linking a domain to one of its owners.
type ZoneOwner struct {
	DomainID   int64  `json:"domain_id"`
	Owner      int64  `json:"owner"`
	TemplateID int64  `json:"zone_templ_id"`
	Comment    string `json:"comment"`
}

// Record represents a DNS resource record within a zone.
type Record struct {
	ID       int64      `json:"id"`
	DomainID int64      `json:"domain_id"`
	Name     string     `json:"name"`
	Type     RecordType `json:"type"`
	Content  string     `json:"content"`
	TTL      int        `json:"ttl"`
	Prio     int        `json:"prio"`
	Disabled bool       `json:"disabled"`
}

// ZoneTemplate is a named set of record skeletons.
type ZoneTemplate struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       int64  `json:"owner"`
}

// TemplateRecord is one record skeleton of a zone template. Name and Content may hold
// placeholders such as [ZONE].
type TemplateRecord struct {
	ID         int64      `json:"id"`
	TemplateID int64      `json:"zone_templ_id"`
	Name       string     `json:"name"`
	Type       RecordType `json:"type"`
	Content    string     `json:"content"`
	TTL        int        `json:"ttl"`
	Prio       int        `json:"prio"`
}

// TemplateLink records that a concrete record was created from a template.
type TemplateLink struct {
	DomainID   int64 `json:"domain_id"`
	RecordID   int64 `json:"record_id"`
	TemplateID int64 `json:"zone_templ_id"`
}

// Supermaster is a trusted primary PowerDNS may auto-provision slave zones from.
type Supermaster struct {
	IP         string `json:"ip"`
	Nameserver string `json:"nameserver"`
	Account    string `json:"account"`
}

// TemplateRef selects either no template or a template by id.
type TemplateRef struct {
	id  int64
	set bool
}

// NoTemplate means the zone gets a synthesized SOA record only.
var NoTemplate = TemplateRef{}

// UseTemplate selects the template with the given id. Ids <= 0 mean no template.
func UseTemplate(id int64) TemplateRef {
	if id <= 0 {
		return NoTemplate
	}
	return TemplateRef{id: id, set: true}
}

// ParseTemplateRef accepts "none" or a numeric template id.
func ParseTemplateRef(s string) (TemplateRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoTemplate, fmt.Errorf("zone template is required")
	}
	if strings.EqualFold(s, "none") {
		return NoTemplate, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return NoTemplate, fmt.Errorf("invalid zone template %q", s)
	}
	return UseTemplate(id), nil
}

// ID returns the template id and whether one is selected.
func (t TemplateRef) ID() (int64, bool) {
	return t.id, t.set
}

// Int64 returns the id as stored in zones.zone_templ_id (0 for none).
func (t TemplateRef) Int64() int64 {
	if !t.set {
		return 0
	}
	return t.id
}

func (t TemplateRef) String() string {
	if !t.set {
		return "none"
	}
	return strconv.FormatInt(t.id, 10)
}

// IsReverseZone reports whether the zone name is an IPv4 reverse zone.
func IsReverseZone(name string) bool {
	return strings.Contains(strings.ToLower(name), "in-addr.arpa")
}
