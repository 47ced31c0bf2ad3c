package domain

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

var (
	validLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)
	// owner names may carry service labels such as _sip or _domainkey
	validOwnerLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9_]([a-zA-Z0-9_-]{0,61}[a-zA-Z0-9_])?$`)
	validAccountRegex    = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// ValidateZoneName checks that name is a usable zone name. PowerDNS stores names without the
// trailing dot, a trailing dot is tolerated.
func ValidateZoneName(name string) error {
	if name == "" {
		return fmt.Errorf("zone name cannot be empty")
	}
	name = strings.TrimSuffix(name, ".")
	if !strings.Contains(name, ".") && !strings.EqualFold(name, "localhost") {
		return fmt.Errorf("zone name %q must contain at least two labels", name)
	}
	return validateName(name, false, validLabelRegex)
}

// ValidateHostname checks a record owner name or a host name in record content. A leading
// "*" label is accepted only when allowWildcard is set.
func ValidateHostname(name string, allowWildcard bool) error {
	if name == "" {
		return fmt.Errorf("hostname cannot be empty")
	}
	return validateName(strings.TrimSuffix(name, "."), allowWildcard, validOwnerLabelRegex)
}

func validateName(name string, allowWildcard bool, labelRe *regexp.Regexp) error {
	if len(name) > 253 {
		return fmt.Errorf("name exceeds 253 characters")
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return fmt.Errorf("%q is not a valid domain name", name)
	}
	labels := strings.Split(name, ".")
	for i, label := range labels {
		if label == "" {
			return fmt.Errorf("name %q contains empty label", name)
		}
		if len(label) > 63 {
			return fmt.Errorf("label '%s' exceeds 63 characters", label)
		}
		if label == "*" && i == 0 && allowWildcard {
			continue
		}
		if !labelRe.MatchString(label) {
			return fmt.Errorf("label '%s' contains invalid characters or format", label)
		}
	}
	return nil
}

// IsValidIPv4 reports whether s is a dotted quad IPv4 address.
func IsValidIPv4(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil && !strings.Contains(s, ":")
}

// IsValidIPv6 reports whether s is an IPv6 address.
func IsValidIPv6(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && strings.Contains(s, ":")
}

// IsValidIP accepts IPv4 and IPv6 addresses.
func IsValidIP(s string) bool {
	return IsValidIPv4(s) || IsValidIPv6(s)
}

// ParseIPList splits a comma or space separated list of master addresses and validates
// each entry.
func ParseIPList(list string) ([]string, error) {
	fields := strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no IP address given")
	}
	for _, f := range fields {
		if !IsValidIP(f) {
			return nil, fmt.Errorf("%q is not a valid IPv4 or IPv6 address", f)
		}
	}
	return fields, nil
}

// ValidateAccount checks a supermaster account name.
func ValidateAccount(account string) error {
	if !validAccountRegex.MatchString(account) {
		return fmt.Errorf("account %q may only contain letters, digits, '.', '_' and '-'", account)
	}
	return nil
}

// ValidateSRVName ensures the owner name has the _service._proto.name form.
func ValidateSRVName(name string) error {
	labels := strings.SplitN(name, ".", 3)
	if len(labels) < 3 || !strings.HasPrefix(labels[0], "_") || !strings.HasPrefix(labels[1], "_") {
		return fmt.Errorf("SRV name must be in format: _service._protocol.name")
	}
	if err := ValidateHostname(labels[2], false); err != nil {
		return fmt.Errorf("SRV name: %w", err)
	}
	return nil
}

// ValidateSRVContent ensures SRV content follows the "weight port target" format; the
// priority lives in the prio column.
func ValidateSRVContent(content string) error {
	parts := strings.Fields(content)
	if len(parts) != 3 {
		return fmt.Errorf("SRV content must be in format: weight port target")
	}

	for i, name := range []string{"weight", "port"} {
		val, err := strconv.Atoi(parts[i])
		if err != nil || val < 0 || val > 65535 {
			return fmt.Errorf("invalid %s: %s (must be 0-65535)", name, parts[i])
		}
	}

	if target := parts[2]; target != "." {
		if err := ValidateHostname(target, false); err != nil {
			return fmt.Errorf("invalid SRV target: %w", err)
		}
	}
	return nil
}
