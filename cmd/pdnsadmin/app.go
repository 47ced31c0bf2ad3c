package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"io"

	"github.com/poyrazK/pdnsadmin/internal/adapters/auth"
	"github.com/poyrazK/pdnsadmin/internal/adapters/dnssec"
	"github.com/poyrazK/pdnsadmin/internal/adapters/messages"
	"github.com/poyrazK/pdnsadmin/internal/adapters/notify"
	"github.com/poyrazK/pdnsadmin/internal/adapters/repository"
	"github.com/poyrazK/pdnsadmin/internal/config"
	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/core/ports"
	"github.com/poyrazK/pdnsadmin/internal/core/services"
)

// app holds the wired services for one command invocation.
type app struct {
	cfg      *config.Config
	db       *sql.DB
	dialect  repository.Dialect
	tables   repository.TableResolver
	repo     *repository.SQLRepository
	sink     *messages.Collector
	notifier *notify.RedisNotifier
	serials  *domain.SerialCalculator
	logger   *slog.Logger

	zones        *services.ZoneService
	records      *services.RecordService
	supermasters *services.SupermasterService
	templates    *services.TemplateService
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func openApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	dialect, err := repository.ParseDialect(cfg.Database.Type)
	if err != nil {
		return nil, err
	}
	tables, err := repository.NewTableResolver(cfg.Database.PDNSDBName)
	if err != nil {
		return nil, err
	}
	serials, err := domain.NewSerialCalculator(cfg.DNS.Timezone)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}

	a := &app{
		cfg:     cfg,
		db:      db,
		dialect: dialect,
		tables:  tables,
		repo:    repository.NewSQLRepository(db, dialect, tables, logger),
		sink:    messages.NewCollector(logger),
		serials: serials,
		logger:  logger,
	}

	authz, err := auth.NewStaticAuthorizer(cfg.CLI.UserID, cfg.CLI.Permissions, a.repo, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	deps := services.Deps{
		Repo:    a.repo,
		Auth:    authz,
		Sink:    a.sink,
		Serials: serials,
		Settings: services.Settings{
			SOA: domain.SOADefaults{
				Hostmaster: cfg.DNS.Hostmaster,
				Refresh:    cfg.DNS.SOARefresh,
				Retry:      cfg.DNS.SOARetry,
				Expire:     cfg.DNS.SOAExpire,
				Minimum:    cfg.DNS.SOAMinimum,
			},
			Nameservers:   cfg.DNS.Nameservers(),
			DefaultTTL:    cfg.DNS.TTL,
			TXTAutoQuote:  cfg.DNS.TXTAutoQuote,
			DNSSECEnabled: cfg.DNSSEC.Enabled,
		},
		Logger: logger,
	}
	if p := dnssecProvider(cfg.DNSSEC, logger); p != nil {
		deps.DNSSEC = p
	}
	if cfg.Redis.Addr != "" {
		a.notifier = notify.NewRedisNotifier(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel)
		deps.Notifier = a.notifier
	}

	a.zones = services.NewZoneService(deps)
	a.records = services.NewRecordService(deps)
	a.supermasters = services.NewSupermasterService(deps)
	a.templates = services.NewTemplateService(deps)
	return a, nil
}

func dnssecProvider(cfg config.DNSSECConfig, logger *slog.Logger) ports.DNSSECProvider {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Provider == "api" {
		return dnssec.NewAPIProvider(cfg.APIURL, cfg.APIKey, logger)
	}
	return dnssec.NewPdnsutilProvider(cfg.PdnsutilPath, cfg.ConfigDir, logger)
}

func (a *app) Close() {
	if a.notifier != nil {
		if err := a.notifier.Close(); err != nil {
			a.logger.Warn("failed to close redis client", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", "error", err)
	}
}
