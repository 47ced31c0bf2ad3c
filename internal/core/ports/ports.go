package ports

import (
	"context"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
)

// DomainRepository covers the domains and zones (ownership) tables.
type DomainRepository interface {
	CreateDomain(ctx context.Context, d *domain.Domain) (int64, error)
	GetDomain(ctx context.Context, id int64) (*domain.Domain, error)
	GetDomainByName(ctx context.Context, name string) (*domain.Domain, error)
	ListDomains(ctx context.Context) ([]domain.Domain, error)
	UpdateZoneType(ctx context.Context, id int64, zoneType domain.ZoneType) error
	UpdateDomainMaster(ctx context.Context, id int64, master string) error
	// DeleteDomain removes ownership rows, records, template links, metadata and the domain
	// row, in that order.
	DeleteDomain(ctx context.Context, id int64) error

	AddZoneOwner(ctx context.Context, owner domain.ZoneOwner) error
	DeleteZoneOwner(ctx context.Context, domainID, userID int64) error
	ListZoneOwners(ctx context.Context, domainID int64) ([]domain.ZoneOwner, error)
	CountZoneOwners(ctx context.Context, domainID int64) (int, error)
	IsZoneOwner(ctx context.Context, domainID, userID int64) (bool, error)
	SetZoneTemplateID(ctx context.Context, domainID, templateID int64) error
	GetZoneComment(ctx context.Context, domainID int64) (string, error)
	SetZoneComment(ctx context.Context, domainID int64, comment string) error
}

// RecordRepository covers the records and records_zone_templ tables.
type RecordRepository interface {
	CreateRecord(ctx context.Context, rec *domain.Record) (int64, error)
	GetRecord(ctx context.Context, id int64) (*domain.Record, error)
	ListRecords(ctx context.Context, domainID int64) ([]domain.Record, error)
	UpdateRecord(ctx context.Context, rec *domain.Record) error
	DeleteRecord(ctx context.Context, id int64) error
	DeleteRecordsByType(ctx context.Context, domainID int64, t domain.RecordType) error
	// RecordExists looks for an identical record other than excludeID.
	RecordExists(ctx context.Context, domainID int64, name string, t domain.RecordType, content string, excludeID int64) (bool, error)
	// ListRecordsByName returns the records of the zone at the given owner name.
	ListRecordsByName(ctx context.Context, domainID int64, name string) ([]domain.Record, error)
	GetSOARecord(ctx context.Context, domainID int64) (*domain.Record, error)
	// SwapRecordContent updates content only if it still equals oldContent.
	SwapRecordContent(ctx context.Context, id int64, oldContent, newContent string) (bool, error)

	CreateTemplateLink(ctx context.Context, link domain.TemplateLink) error
	DeleteTemplateLinksForRecord(ctx context.Context, recordID int64) error
	DeleteTemplateLinksForDomain(ctx context.Context, domainID int64) error
	// DeleteTemplateRecords removes the zone's records that were created from templateID.
	DeleteTemplateRecords(ctx context.Context, domainID, templateID int64) error
}

// TemplateRepository covers zone_templ and zone_templ_records.
type TemplateRepository interface {
	CreateZoneTemplate(ctx context.Context, t *domain.ZoneTemplate) (int64, error)
	GetZoneTemplate(ctx context.Context, id int64) (*domain.ZoneTemplate, error)
	ListZoneTemplates(ctx context.Context) ([]domain.ZoneTemplate, error)
	CreateTemplateRecord(ctx context.Context, r *domain.TemplateRecord) (int64, error)
	ListTemplateRecords(ctx context.Context, templateID int64) ([]domain.TemplateRecord, error)
}

// SupermasterRepository covers the supermasters table.
type SupermasterRepository interface {
	CreateSupermaster(ctx context.Context, sm domain.Supermaster) error
	DeleteSupermaster(ctx context.Context, ip, nameserver string) error
	ListSupermasters(ctx context.Context) ([]domain.Supermaster, error)
	GetSupermasterByIP(ctx context.Context, ip string) (*domain.Supermaster, error)
	SupermasterExists(ctx context.Context, ip string) (bool, error)
	SupermasterPairExists(ctx context.Context, ip, nameserver string) (bool, error)
}

// Repository is the whole store. WithinTx runs fn against a repository bound to a single
// transaction; nested calls reuse the outer transaction.
type Repository interface {
	DomainRepository
	RecordRepository
	TemplateRepository
	SupermasterRepository
	WithinTx(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
}

// Authorizer answers permission and ownership questions for the acting user.
type Authorizer interface {
	HasPermission(ctx context.Context, perm domain.Permission) bool
	IsZoneOwner(ctx context.Context, zoneID int64) (bool, error)
}

// MessageSink receives user facing error messages. It never fails.
type MessageSink interface {
	AddSystemError(msg string)
}

// DNSSECProvider is the opaque DNSSEC side channel.
type DNSSECProvider interface {
	IsZoneSecured(ctx context.Context, zone string) (bool, error)
	UnsecureZone(ctx context.Context, zone string) error
	RectifyZone(ctx context.Context, zone string) error
}

// ChangeNotifier is told about committed zone changes.
type ChangeNotifier interface {
	ZoneChanged(ctx context.Context, change domain.ZoneChange) error
}
