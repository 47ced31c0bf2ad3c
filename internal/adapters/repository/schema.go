package repository

import (
	"bufio"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// SchemaStatements returns the DDL statements for the dialect with PowerDNS table names
// resolved through tables.
func SchemaStatements(dialect Dialect, tables TableResolver) ([]string, error) {
	if dialect == SQLite && tables.SecondaryDB() != "" {
		return nil, fmt.Errorf("sqlite schema cannot be created in attached database %q", tables.SecondaryDB())
	}
	raw, err := schemaFS.ReadFile("schema/" + string(dialect) + ".sql")
	if err != nil {
		return nil, fmt.Errorf("no schema for database type %q: %w", dialect, err)
	}

	replacer := strings.NewReplacer(
		"{{domains}}", tables.Resolve(TableDomains),
		"{{records}}", tables.Resolve(TableRecords),
		"{{supermasters}}", tables.Resolve(TableSupermasters),
		"{{domainmetadata}}", tables.Resolve(TableDomainMetadata),
	)

	var b strings.Builder
	sc := bufio.NewScanner(strings.NewReader(string(raw)))
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var stmts []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, replacer.Replace(stmt))
		}
	}
	return stmts, nil
}

// ApplySchema creates every table that does not exist yet.
func ApplySchema(ctx context.Context, db *sql.DB, dialect Dialect, tables TableResolver) error {
	stmts, err := SchemaStatements(dialect, tables)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
