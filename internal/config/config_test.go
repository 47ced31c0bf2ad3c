package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pdnsadmin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "DATABASE_TYPE", "PDNS_DB_NAME", "PDNS_API_KEY"} {
		t.Setenv(k, "")
	}
	// keep godotenv away from any .env in the package directory
	t.Chdir(t.TempDir())
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
database:
  type: mysql
  dsn: "pdns:secret@tcp(127.0.0.1:3306)/poweradmin"
  pdns_db_name: pdns
dns:
  ns1: ns1.example.com
  ns2: ns2.example.com
  ns4: ns4.example.com
  hostmaster: hostmaster.example.com
  soa_refresh: 10800
  txt_auto_quote: true
  timezone: Europe/Amsterdam
dnssec:
  enabled: true
  provider: api
  api_url: http://127.0.0.1:8081
redis:
  addr: 127.0.0.1:6379
cli:
  user_id: 7
  permissions: [zone_master_add, zone_content_edit_own]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "pdns", cfg.Database.PDNSDBName)
	assert.Equal(t, []string{"ns1.example.com", "ns2.example.com", "ns4.example.com"}, cfg.DNS.Nameservers())
	assert.Equal(t, 10800, cfg.DNS.SOARefresh)
	assert.True(t, cfg.DNS.TXTAutoQuote)
	assert.Equal(t, "api", cfg.DNSSEC.Provider)
	assert.Equal(t, int64(7), cfg.CLI.UserID)
	assert.Len(t, cfg.CLI.Permissions, 2)

	// defaults
	assert.Equal(t, 86400, cfg.DNS.TTL)
	assert.Equal(t, "pdns:zone_changes", cfg.Redis.Channel)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9153", cfg.Metrics.Listen)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "database:\n  type: mysql\n  dsn: from-file\n")
	t.Setenv("DATABASE_URL", "postgres://pdns@localhost/pdns")
	t.Setenv("DATABASE_TYPE", "pgsql")
	t.Setenv("PDNS_DB_NAME", "powerdns")
	t.Setenv("PDNS_API_KEY", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://pdns@localhost/pdns", cfg.Database.DSN)
	assert.Equal(t, "pgsql", cfg.Database.Type)
	assert.Equal(t, "powerdns", cfg.Database.PDNSDBName)
	assert.Equal(t, "s3cret", cfg.DNSSEC.APIKey)
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "file:pdns.sqlite")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, int64(1), cfg.CLI.UserID)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeConfig(t, "database: [unclosed"))
	assert.ErrorContains(t, err, "parse yaml")
}

func TestConfigValidation(t *testing.T) {
	valid := func() *Config {
		c := &Config{Database: DatabaseConfig{DSN: "file:test.sqlite"}}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name          string
		mutate        func(*Config)
		expectedError string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }, "database.dsn is required"},
		{"unknown database", func(c *Config) { c.Database.Type = "oracle" }, "not supported"},
		{"negative ttl", func(c *Config) { c.DNS.TTL = -5 }, "dns.ttl"},
		{"negative timer", func(c *Config) { c.DNS.SOARetry = -1 }, "dns.soa_retry"},
		{"bad timezone", func(c *Config) { c.DNS.Timezone = "Mars/Olympus" }, "dns.timezone"},
		{"api provider without url", func(c *Config) {
			c.DNSSEC.Enabled = true
			c.DNSSEC.Provider = "api"
		}, "dnssec.api_url"},
		{"unknown provider", func(c *Config) {
			c.DNSSEC.Enabled = true
			c.DNSSEC.Provider = "bind"
		}, "dnssec.provider"},
		{"disabled dnssec ignores provider", func(c *Config) { c.DNSSEC.Provider = "bind" }, ""},
		{"bad redis addr", func(c *Config) { c.Redis.Addr = "localhost" }, "redis.addr"},
		{"bad metrics listen", func(c *Config) { c.Metrics.Listen = "9153" }, "metrics.listen"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad user", func(c *Config) { c.CLI.UserID = -1 }, "cli.user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectedError == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.expectedError) {
				t.Errorf("expected error containing %q, got %v", tt.expectedError, err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	l, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
}
