package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

const (
	maxNameLength    = 255
	maxContentLength = 64000
	maxTTL           = math.MaxInt32
)

// RecordInput is a candidate record as submitted by a caller.
type RecordInput struct {
	ID       int64 // zero for new records
	ZoneID   int64
	Name     string
	Type     RecordType
	Content  string
	TTL      int
	Prio     int
	Disabled bool
}

// ZoneContext is what the validator needs to know about the target zone.
type ZoneContext struct {
	Name       string
	DefaultTTL int
	Hostmaster string
}

// ContentValidator checks the type specific part of a record. It may rewrite rec.Content
// into its canonical form and returns every problem found.
type ContentValidator interface {
	ValidateContent(rec *Record, zone ZoneContext) []string
}

// ContentValidatorFunc adapts a function to ContentValidator.
type ContentValidatorFunc func(rec *Record, zone ZoneContext) []string

func (f ContentValidatorFunc) ValidateContent(rec *Record, zone ZoneContext) []string {
	return f(rec, zone)
}

// RecordValidator normalizes and validates records before they are stored.
type RecordValidator struct {
	validators map[RecordType]ContentValidator
	fallback   ContentValidator
}

// NewRecordValidator returns a validator with the built-in per type rules.
func NewRecordValidator() *RecordValidator {
	v := &RecordValidator{
		validators: make(map[RecordType]ContentValidator),
		fallback:   ContentValidatorFunc(validateGeneric),
	}
	v.Register(TypeA, ContentValidatorFunc(validateA))
	v.Register(TypeAAAA, ContentValidatorFunc(validateAAAA))
	v.Register(TypeCNAME, ContentValidatorFunc(validateCNAME))
	v.Register(TypeNS, ContentValidatorFunc(validateHostContent))
	v.Register(TypePTR, ContentValidatorFunc(validateHostContent))
	v.Register(TypeMX, ContentValidatorFunc(validateHostContent))
	v.Register(TypeSOA, ContentValidatorFunc(validateSOA))
	v.Register(TypeSRV, ContentValidatorFunc(validateSRV))
	v.Register(TypeTXT, ContentValidatorFunc(validateText))
	v.Register(TypeSPF, ContentValidatorFunc(validateText))
	v.Register("ALIAS", ContentValidatorFunc(validateHostContent))
	return v
}

// Register installs or replaces the content validator for a record type.
func (v *RecordValidator) Register(t RecordType, cv ContentValidator) {
	v.validators[RecordType(strings.ToUpper(string(t)))] = cv
}

// Validate returns the normalized record, or a *ValidationError listing every problem.
func (v *RecordValidator) Validate(in RecordInput, zone ZoneContext) (Record, error) {
	rec := Record{
		ID:       in.ID,
		DomainID: in.ZoneID,
		Name:     NormalizeName(in.Name, zone.Name),
		Type:     RecordType(strings.ToUpper(strings.TrimSpace(string(in.Type)))),
		Content:  strings.TrimSpace(in.Content),
		TTL:      in.TTL,
		Prio:     in.Prio,
		Disabled: in.Disabled,
	}

	var errs []string
	if rec.Type == "" {
		return rec, &ValidationError{Errors: []string{"record type is required"}}
	}
	if len(rec.Name) > maxNameLength {
		errs = append(errs, fmt.Sprintf("name exceeds %d characters", maxNameLength))
	}
	if rec.Content == "" {
		errs = append(errs, "content cannot be empty")
	} else if len(rec.Content) > maxContentLength {
		errs = append(errs, fmt.Sprintf("content exceeds %d characters", maxContentLength))
	}

	if rec.Type != TypeSRV {
		if err := ValidateHostname(rec.Name, true); err != nil {
			errs = append(errs, "invalid name: "+err.Error())
		}
	}

	if rec.Content != "" {
		cv, ok := v.validators[rec.Type]
		switch {
		case ok:
			errs = append(errs, cv.ValidateContent(&rec, zone)...)
		case isKnownType(rec.Type):
			errs = append(errs, v.fallback.ValidateContent(&rec, zone)...)
		default:
			errs = append(errs, fmt.Sprintf("unknown record type %q", rec.Type))
		}
	}

	if rec.Type.UsesPriority() {
		if rec.Prio < 0 || rec.Prio > 65535 {
			errs = append(errs, "priority must be between 0 and 65535")
		}
	} else {
		rec.Prio = 0
	}

	switch {
	case rec.TTL == 0:
		rec.TTL = zone.DefaultTTL
	case rec.TTL < 0 || rec.TTL > maxTTL:
		errs = append(errs, fmt.Sprintf("invalid TTL %d", rec.TTL))
	}

	if len(errs) > 0 {
		return rec, &ValidationError{Errors: errs}
	}
	return rec, nil
}

// NormalizeName makes name absolute within zone (without trailing dot) and lower-cases it.
// An empty name or "@" denotes the zone apex.
func NormalizeName(name, zone string) string {
	zone = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(zone), "."))
	n := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(name), "."))
	if n == "" || n == "@" {
		return zone
	}
	if zone == "" || n == zone || strings.HasSuffix(n, "."+zone) {
		return n
	}
	return n + "." + zone
}

// FormatContent applies content conventions before validation: TXT content is wrapped in
// double quotes when autoQuote is set and it is not quoted yet.
func FormatContent(t RecordType, content string, autoQuote bool) string {
	if !autoQuote || RecordType(strings.ToUpper(string(t))) != TypeTXT {
		return content
	}
	c := strings.TrimSpace(content)
	if len(c) >= 2 && strings.HasPrefix(c, `"`) && strings.HasSuffix(c, `"`) {
		return c
	}
	return `"` + c + `"`
}

func isKnownType(t RecordType) bool {
	_, ok := dns.StringToType[string(t)]
	return ok
}

func validateA(rec *Record, _ ZoneContext) []string {
	if !IsValidIPv4(rec.Content) {
		return []string{fmt.Sprintf("%q is not a valid IPv4 address", rec.Content)}
	}
	return nil
}

func validateAAAA(rec *Record, _ ZoneContext) []string {
	if !IsValidIPv6(rec.Content) {
		return []string{fmt.Sprintf("%q is not a valid IPv6 address", rec.Content)}
	}
	return nil
}

func validateHostContent(rec *Record, _ ZoneContext) []string {
	rec.Content = strings.TrimSuffix(rec.Content, ".")
	if err := ValidateHostname(rec.Content, false); err != nil {
		return []string{fmt.Sprintf("invalid %s target: %v", rec.Type, err)}
	}
	return nil
}

func validateCNAME(rec *Record, zone ZoneContext) []string {
	errs := validateHostContent(rec, zone)
	if zone.Name != "" && rec.Name == strings.ToLower(strings.TrimSuffix(zone.Name, ".")) {
		errs = append(errs, "a CNAME record is not allowed at the zone apex")
	}
	return errs
}

func validateSRV(rec *Record, _ ZoneContext) []string {
	var errs []string
	if err := ValidateSRVName(rec.Name); err != nil {
		errs = append(errs, err.Error())
	}
	if err := ValidateSRVContent(rec.Content); err != nil {
		errs = append(errs, err.Error())
	}
	rec.Content = strings.Join(strings.Fields(rec.Content), " ")
	return errs
}

func validateText(rec *Record, _ ZoneContext) []string {
	for _, r := range rec.Content {
		if r < 0x20 || r > 0x7e {
			return []string{fmt.Sprintf("%s content contains non printable characters", rec.Type)}
		}
	}
	if strings.ContainsAny(rec.Content, "<>") {
		return []string{fmt.Sprintf("%s content must not contain HTML tags", rec.Type)}
	}
	return nil
}

// validateSOA normalizes "<ns> [hostmaster [serial [refresh retry expire minimum]]]".
func validateSOA(rec *Record, zone ZoneContext) []string {
	var errs []string
	if zoneName := strings.ToLower(strings.TrimSuffix(zone.Name, ".")); zoneName != "" && rec.Name != zoneName {
		errs = append(errs, fmt.Sprintf("SOA record name must be the zone name %q", zoneName))
	}

	fields := strings.Fields(rec.Content)
	if len(fields) == 1 {
		if zone.Hostmaster == "" {
			return append(errs, "SOA content is missing the hostmaster")
		}
		fields = append(fields, zone.Hostmaster)
	}
	if len(fields) == 2 {
		fields = append(fields, "0")
	}
	if len(fields) == 3 {
		fields = append(fields,
			strconv.Itoa(DefaultSOARefresh), strconv.Itoa(DefaultSOARetry),
			strconv.Itoa(DefaultSOAExpire), strconv.Itoa(DefaultSOAMinimum))
	}
	if len(fields) != 7 {
		return append(errs, fmt.Sprintf("SOA content must have 7 fields, got %d", len(fields)))
	}

	fields[0] = strings.TrimSuffix(fields[0], ".")
	if err := ValidateHostname(fields[0], false); err != nil {
		errs = append(errs, "invalid SOA primary nameserver: "+err.Error())
	}
	fields[1] = strings.TrimSuffix(strings.Replace(fields[1], "@", ".", 1), ".")
	if err := ValidateHostname(fields[1], false); err != nil {
		errs = append(errs, "invalid SOA hostmaster: "+err.Error())
	}
	for i, name := range []string{"serial", "refresh", "retry", "expire", "minimum"} {
		if _, err := strconv.ParseUint(fields[i+2], 10, 32); err != nil {
			errs = append(errs, fmt.Sprintf("invalid SOA %s %q", name, fields[i+2]))
		}
	}
	rec.Content = strings.Join(fields, " ")
	return errs
}

// validateGeneric lets miekg/dns parse the record in zone file presentation format.
func validateGeneric(rec *Record, _ ZoneContext) []string {
	line := fmt.Sprintf("%s. 3600 IN %s %s", rec.Name, rec.Type, rec.Content)
	if _, err := dns.NewRR(line); err != nil {
		return []string{fmt.Sprintf("invalid %s content: %v", rec.Type, err)}
	}
	return nil
}
