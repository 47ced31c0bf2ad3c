package repository

import (
	"fmt"
	"regexp"
)

// TableKind identifies a PowerDNS schema table whose location depends on the deployment.
type TableKind int

const (
	TableDomains TableKind = iota
	TableRecords
	TableSupermasters
	TableDomainMetadata
)

var tableNames = map[TableKind]string{
	TableDomains:        "domains",
	TableRecords:        "records",
	TableSupermasters:   "supermasters",
	TableDomainMetadata: "domainmetadata",
}

func (k TableKind) String() string {
	if n, ok := tableNames[k]; ok {
		return n
	}
	return fmt.Sprintf("TableKind(%d)", int(k))
}

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]{0,63}$`)

// TableResolver qualifies PowerDNS tables with the secondary database (or schema) name
// when the PowerDNS tables do not live next to the admin tables.
type TableResolver struct {
	secondary string
}

// NewTableResolver validates the secondary database name. An empty name means the
// PowerDNS tables are co-located.
func NewTableResolver(secondaryDB string) (TableResolver, error) {
	if secondaryDB != "" && !identifierRegex.MatchString(secondaryDB) {
		return TableResolver{}, fmt.Errorf("invalid PowerDNS database name %q", secondaryDB)
	}
	return TableResolver{secondary: secondaryDB}, nil
}

// SecondaryDB returns the configured secondary database name, if any.
func (t TableResolver) SecondaryDB() string {
	return t.secondary
}

// Resolve returns the name to use in SQL for the table.
func (t TableResolver) Resolve(kind TableKind) string {
	name := kind.String()
	if t.secondary == "" {
		return name
	}
	return t.secondary + "." + name
}
