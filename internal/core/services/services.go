package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/core/ports"
	"github.com/poyrazK/pdnsadmin/internal/infrastructure/metrics"
)

// Settings are the DNS defaults the services apply when creating zones and records.
type Settings struct {
	SOA           domain.SOADefaults
	Nameservers   []string // ns1..ns4, ns1 is the SOA primary when SOA.PrimaryNS is empty
	DefaultTTL    int
	TXTAutoQuote  bool
	DNSSECEnabled bool
}

func (s Settings) soaDefaults() domain.SOADefaults {
	d := s.SOA
	if d.PrimaryNS == "" && len(s.Nameservers) > 0 {
		d.PrimaryNS = s.Nameservers[0]
	}
	return d.WithDefaultTimers()
}

// Deps are the collaborators shared by every service. Repo, Auth and Serials are
// required; the rest may be nil.
type Deps struct {
	Repo     ports.Repository
	Auth     ports.Authorizer
	Sink     ports.MessageSink
	DNSSEC   ports.DNSSECProvider
	Notifier ports.ChangeNotifier
	Serials  *domain.SerialCalculator
	Settings Settings
	Logger   *slog.Logger
}

type discardSink struct{}

func (discardSink) AddSystemError(string) {}

type base struct {
	repo      ports.Repository
	auth      ports.Authorizer
	sink      ports.MessageSink
	dnssec    ports.DNSSECProvider
	notifier  ports.ChangeNotifier
	serials   *domain.SerialCalculator
	settings  Settings
	validator *domain.RecordValidator
	logger    *slog.Logger
}

func newBase(d Deps) base {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Sink == nil {
		d.Sink = discardSink{}
	}
	if d.Serials == nil {
		d.Serials, _ = domain.NewSerialCalculator("")
	}
	return base{
		repo:      d.Repo,
		auth:      d.Auth,
		sink:      d.Sink,
		dnssec:    d.DNSSEC,
		notifier:  d.Notifier,
		serials:   d.Serials,
		settings:  d.Settings,
		validator: domain.NewRecordValidator(),
		logger:    d.Logger,
	}
}

// fail reports a soft failure to the message sink and the log and returns it unchanged.
func (b *base) fail(op string, err error, attrs ...any) error {
	var v *domain.ValidationError
	var f *domain.Failure
	switch {
	case errors.As(err, &v):
		for _, msg := range v.Errors {
			b.sink.AddSystemError(msg)
		}
	case errors.As(err, &f):
		b.sink.AddSystemError(f.Message)
	}
	b.logger.Warn("operation refused", append([]any{"operation", op, "error", err}, attrs...)...)
	return err
}

func (b *base) failf(op string, kind domain.ErrorKind, format string, args ...any) error {
	return b.fail(op, domain.NewFailure(kind, format, args...))
}

func observe(op string, start time.Time, err error) {
	metrics.OperationsTotal.WithLabelValues(op, metrics.Result(err, domain.IsSoft(err))).Inc()
	metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (b *base) editLevel(ctx context.Context) domain.EditLevel {
	return domain.ContentEditLevel(domain.PermissionFunc(func(p domain.Permission) bool {
		return b.auth.HasPermission(ctx, p)
	}))
}

// zoneOwner asks the authorizer only when the edit level depends on ownership.
func (b *base) zoneOwner(ctx context.Context, level domain.EditLevel, zoneID int64) (bool, error) {
	if level != domain.EditOwn && level != domain.EditOwnAsClient {
		return false, nil
	}
	owner, err := b.auth.IsZoneOwner(ctx, zoneID)
	if err != nil {
		return false, fmt.Errorf("check zone ownership: %w", err)
	}
	return owner, nil
}

// metaEditAllowed implements the zone_meta_edit_others / zone_meta_edit_own rule.
func (b *base) metaEditAllowed(ctx context.Context, zoneID int64) (bool, error) {
	if b.auth.HasPermission(ctx, domain.PermZoneMetaEditOthers) {
		return true, nil
	}
	if !b.auth.HasPermission(ctx, domain.PermZoneMetaEditOwn) {
		return false, nil
	}
	owner, err := b.auth.IsZoneOwner(ctx, zoneID)
	if err != nil {
		return false, fmt.Errorf("check zone ownership: %w", err)
	}
	return owner, nil
}

func (b *base) loadDomain(ctx context.Context, op string, id int64) (*domain.Domain, error) {
	d, err := b.repo.GetDomain(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get domain %d: %w", id, err)
	}
	if d == nil {
		return nil, b.failf(op, domain.KindNotFound, "There is no zone with id %d.", id)
	}
	return d, nil
}

func (b *base) dnssecActive() bool {
	return b.settings.DNSSECEnabled && b.dnssec != nil
}

// rectify asks the DNSSEC provider to rectify a secured zone. Failures are logged only;
// the data change has already been committed.
func (b *base) rectify(ctx context.Context, zone string) {
	if !b.dnssecActive() {
		return
	}
	secured, err := b.dnssec.IsZoneSecured(ctx, zone)
	if err != nil {
		metrics.DNSSECCalls.WithLabelValues("is_secured", "error").Inc()
		b.logger.Error("failed to query DNSSEC state", "zone", zone, "error", err)
		return
	}
	if !secured {
		return
	}
	if err := b.dnssec.RectifyZone(ctx, zone); err != nil {
		metrics.DNSSECCalls.WithLabelValues("rectify", "error").Inc()
		b.logger.Error("failed to rectify zone", "zone", zone, "error", err)
		return
	}
	metrics.DNSSECCalls.WithLabelValues("rectify", "ok").Inc()
}

// unsecure removes DNSSEC from a secured MASTER zone before it is deleted.
func (b *base) unsecure(ctx context.Context, d *domain.Domain) error {
	if !b.dnssecActive() || d.Type != domain.ZoneMaster {
		return nil
	}
	secured, err := b.dnssec.IsZoneSecured(ctx, d.Name)
	if err != nil {
		metrics.DNSSECCalls.WithLabelValues("is_secured", "error").Inc()
		return fmt.Errorf("query DNSSEC state of %s: %w", d.Name, err)
	}
	if !secured {
		return nil
	}
	if err := b.dnssec.UnsecureZone(ctx, d.Name); err != nil {
		metrics.DNSSECCalls.WithLabelValues("unsecure", "error").Inc()
		return fmt.Errorf("unsecure zone %s: %w", d.Name, err)
	}
	metrics.DNSSECCalls.WithLabelValues("unsecure", "ok").Inc()
	return nil
}

func (b *base) notify(ctx context.Context, change domain.ZoneChange) {
	if b.notifier == nil {
		return
	}
	change.ID = uuid.New().String()
	change.CreatedAt = time.Now().UTC()
	if err := b.notifier.ZoneChanged(ctx, change); err != nil {
		metrics.Notifications.WithLabelValues("error").Inc()
		b.logger.Warn("failed to publish zone change", "zone", change.Zone, "action", change.Action, "error", err)
		return
	}
	metrics.Notifications.WithLabelValues("ok").Inc()
}
