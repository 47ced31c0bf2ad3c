package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Type string `yaml:"type"` // mysql, pgsql or sqlite
	DSN  string `yaml:"dsn"`
	// PDNSDBName is the schema holding the PowerDNS tables when it differs from the
	// application database.
	PDNSDBName string `yaml:"pdns_db_name"`
}

type DNSConfig struct {
	NS1          string `yaml:"ns1"`
	NS2          string `yaml:"ns2"`
	NS3          string `yaml:"ns3"`
	NS4          string `yaml:"ns4"`
	Hostmaster   string `yaml:"hostmaster"`
	TTL          int    `yaml:"ttl"`
	SOARefresh   int    `yaml:"soa_refresh"`
	SOARetry     int    `yaml:"soa_retry"`
	SOAExpire    int    `yaml:"soa_expire"`
	SOAMinimum   int    `yaml:"soa_minimum"`
	TXTAutoQuote bool   `yaml:"txt_auto_quote"`
	Timezone     string `yaml:"timezone"`
}

// Nameservers returns the configured ns1..ns4 in order, skipping empty slots.
func (c DNSConfig) Nameservers() []string {
	var out []string
	for _, ns := range []string{c.NS1, c.NS2, c.NS3, c.NS4} {
		if ns = strings.TrimSpace(ns); ns != "" {
			out = append(out, ns)
		}
	}
	return out
}

type DNSSECConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Provider     string `yaml:"provider"` // pdnsutil or api
	PdnsutilPath string `yaml:"pdnsutil_path"`
	ConfigDir    string `yaml:"config_dir"`
	APIURL       string `yaml:"api_url"`
	APIKey       string `yaml:"api_key"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"` // empty disables change notifications
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// CLIConfig is the identity the command line tool acts as.
type CLIConfig struct {
	UserID      int64    `yaml:"user_id"`
	Permissions []string `yaml:"permissions"`
}

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	DNS      DNSConfig      `yaml:"dns"`
	DNSSEC   DNSSECConfig   `yaml:"dnssec"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	CLI      CLIConfig      `yaml:"cli"`
}

// Load reads the YAML file at path, applies .env and environment overrides, fills
// defaults and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("DATABASE_TYPE"); v != "" {
		c.Database.Type = v
	}
	if v := os.Getenv("PDNS_DB_NAME"); v != "" {
		c.Database.PDNSDBName = v
	}
	if v := os.Getenv("PDNS_API_KEY"); v != "" {
		c.DNSSEC.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.DNS.TTL == 0 {
		c.DNS.TTL = 86400
	}
	if c.DNS.Timezone == "" {
		c.DNS.Timezone = "UTC"
	}
	if c.DNSSEC.Provider == "" {
		c.DNSSEC.Provider = "pdnsutil"
	}
	if c.DNSSEC.PdnsutilPath == "" {
		c.DNSSEC.PdnsutilPath = "pdnsutil"
	}
	if c.Redis.Channel == "" {
		c.Redis.Channel = "pdns:zone_changes"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9153"
	}
	if c.CLI.UserID == 0 {
		c.CLI.UserID = 1
	}
}

// Validate checks configuration for correctness
func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Type) {
	case "mysql", "mariadb", "pgsql", "postgres", "postgresql", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("database.type %q is not supported", c.Database.Type)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}

	if c.DNS.TTL < 0 || c.DNS.TTL > 2147483647 {
		return fmt.Errorf("dns.ttl %d out of range", c.DNS.TTL)
	}
	for name, v := range map[string]int{
		"soa_refresh": c.DNS.SOARefresh,
		"soa_retry":   c.DNS.SOARetry,
		"soa_expire":  c.DNS.SOAExpire,
		"soa_minimum": c.DNS.SOAMinimum,
	} {
		if v < 0 {
			return fmt.Errorf("dns.%s must be >= 0", name)
		}
	}
	if _, err := time.LoadLocation(c.DNS.Timezone); err != nil {
		return fmt.Errorf("dns.timezone: %w", err)
	}

	if c.DNSSEC.Enabled {
		switch c.DNSSEC.Provider {
		case "pdnsutil":
		case "api":
			if c.DNSSEC.APIURL == "" {
				return errors.New("dnssec.api_url is required for the api provider")
			}
		default:
			return fmt.Errorf("dnssec.provider %q is not supported", c.DNSSEC.Provider)
		}
	}

	if c.Redis.DB < 0 {
		return errors.New("redis.db must be >= 0")
	}
	if c.Redis.Addr != "" {
		if err := validateAddr(c.Redis.Addr); err != nil {
			return fmt.Errorf("invalid redis.addr: %w", err)
		}
	}
	if err := validateAddr(c.Metrics.Listen); err != nil {
		return fmt.Errorf("invalid metrics.listen: %w", err)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log.format %q must be json or text", c.Log.Format)
	}

	if c.CLI.UserID <= 0 {
		return errors.New("cli.user_id must be > 0")
	}
	return nil
}

func validateAddr(addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", s, err)
	}
	return l, nil
}
