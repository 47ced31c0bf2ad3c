package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// LegacySerialLimit separates plain counter serials from date encoded YYYYMMDDrr serials.
// A counter reaching it wraps to 1.
const LegacySerialLimit uint32 = 1979999999

const serialDateLayout = "20060102"

// SOA timer defaults used when a zone is created without a template.
const (
	DefaultSOARefresh = 28800
	DefaultSOARetry   = 7200
	DefaultSOAExpire  = 604800
	DefaultSOAMinimum = 86400
)

// NextSerial returns the serial that must follow current when the zone changes on the
// given day. A zero serial means PowerDNS manages the serial itself and is never changed.
func NextSerial(current uint32, today time.Time) uint32 {
	switch {
	case current == 0:
		return 0
	case current < LegacySerialLimit:
		return current + 1
	case current == LegacySerialLimit:
		return 1
	}

	todayStr := today.Format(serialDateLayout)
	s := strconv.FormatUint(uint64(current), 10)
	serDate := s[:8]
	rev, _ := strconv.Atoi(s[8:])

	switch {
	case serDate == todayStr:
		if rev >= 99 {
			return composeSerial(today.AddDate(0, 0, 1).Format(serialDateLayout), 0, current)
		}
		return composeSerial(todayStr, rev+1, current)
	case serDate > todayStr:
		// pre-dated serials are kept and only their revision moves
		if rev < 99 {
			return composeSerial(serDate, rev+1, current)
		}
		d, err := time.ParseInLocation(serialDateLayout, serDate, today.Location())
		if err != nil {
			return bump(current)
		}
		return composeSerial(d.AddDate(0, 0, 1).Format(serialDateLayout), 0, current)
	default:
		return composeSerial(todayStr, 0, current)
	}
}

// composeSerial builds date+rev. A result that does not fit in 32 bits keeps current, so a
// date encoded serial never goes backwards.
func composeSerial(date string, rev int, current uint32) uint32 {
	v, err := strconv.ParseUint(fmt.Sprintf("%s%02d", date, rev), 10, 32)
	if err != nil {
		return current
	}
	return uint32(v)
}

// bump saturates at the uint32 limit.
func bump(current uint32) uint32 {
	if current == math.MaxUint32 {
		return current
	}
	return current + 1
}

// SerialCalculator computes serials in a fixed time zone.
type SerialCalculator struct {
	loc *time.Location
	now func() time.Time
}

// NewSerialCalculator loads the named time zone; an empty name means UTC.
func NewSerialCalculator(tz string) (*SerialCalculator, error) {
	loc := time.UTC
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
		loc = l
	}
	return &SerialCalculator{loc: loc, now: time.Now}, nil
}

// WithClock replaces the clock, mainly for tests.
func (c *SerialCalculator) WithClock(now func() time.Time) *SerialCalculator {
	return &SerialCalculator{loc: c.loc, now: now}
}

func (c *SerialCalculator) today() time.Time {
	return c.now().In(c.loc)
}

// Next returns the serial following current.
func (c *SerialCalculator) Next(current uint32) uint32 {
	return NextSerial(current, c.today())
}

// Initial returns the first serial of a new zone, <today>00.
func (c *SerialCalculator) Initial() uint32 {
	return composeSerial(c.today().Format(serialDateLayout), 0, 0)
}

func soaTokens(content string) []string {
	return strings.Split(strings.TrimSpace(content), " ")
}

// GetSerial extracts the serial (token index 2) from SOA content.
func GetSerial(soaContent string) (uint32, error) {
	parts := soaTokens(soaContent)
	if len(parts) < 3 {
		return 0, fmt.Errorf("SOA content %q has no serial field", soaContent)
	}
	v, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid SOA serial %q: %w", parts[2], err)
	}
	return uint32(v), nil
}

// SetSerial replaces token index 2 of the SOA content and keeps every other token as is.
func SetSerial(soaContent string, serial uint32) (string, error) {
	parts := soaTokens(soaContent)
	if len(parts) < 3 {
		return soaContent, fmt.Errorf("SOA content %q has no serial field", soaContent)
	}
	parts[2] = strconv.FormatUint(uint64(serial), 10)
	return strings.Join(parts, " "), nil
}

// SOADefaults are the values used to synthesize an SOA record.
type SOADefaults struct {
	PrimaryNS  string
	Hostmaster string
	Refresh    int
	Retry      int
	Expire     int
	Minimum    int
}

// WithDefaultTimers fills unset timers with the standard values.
func (d SOADefaults) WithDefaultTimers() SOADefaults {
	if d.Refresh == 0 {
		d.Refresh = DefaultSOARefresh
	}
	if d.Retry == 0 {
		d.Retry = DefaultSOARetry
	}
	if d.Expire == 0 {
		d.Expire = DefaultSOAExpire
	}
	if d.Minimum == 0 {
		d.Minimum = DefaultSOAMinimum
	}
	return d
}

// BuildSOAContent renders "<ns> <hostmaster> <serial> <refresh> <retry> <expire> <minimum>".
func BuildSOAContent(d SOADefaults, serial uint32) string {
	d = d.WithDefaultTimers()
	return fmt.Sprintf("%s %s %d %d %d %d %d",
		d.PrimaryNS, d.Hostmaster, serial, d.Refresh, d.Retry, d.Expire, d.Minimum)
}
