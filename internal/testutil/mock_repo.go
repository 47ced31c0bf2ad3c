package testutil

import (
	"context"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockRepo implements ports.Repository with testify expectations. WithinTx runs the
// callback against the mock itself.
type MockRepo struct {
	mock.Mock
}

var _ ports.Repository = (*MockRepo)(nil)

func (m *MockRepo) CreateDomain(ctx context.Context, d *domain.Domain) (int64, error) {
	args := m.Called(d)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) GetDomain(ctx context.Context, id int64) (*domain.Domain, error) {
	args := m.Called(id)
	d, _ := args.Get(0).(*domain.Domain)
	return d, args.Error(1)
}

func (m *MockRepo) GetDomainByName(ctx context.Context, name string) (*domain.Domain, error) {
	args := m.Called(name)
	d, _ := args.Get(0).(*domain.Domain)
	return d, args.Error(1)
}

func (m *MockRepo) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	args := m.Called()
	d, _ := args.Get(0).([]domain.Domain)
	return d, args.Error(1)
}

func (m *MockRepo) UpdateZoneType(ctx context.Context, id int64, zoneType domain.ZoneType) error {
	return m.Called(id, zoneType).Error(0)
}

func (m *MockRepo) UpdateDomainMaster(ctx context.Context, id int64, master string) error {
	return m.Called(id, master).Error(0)
}

func (m *MockRepo) DeleteDomain(ctx context.Context, id int64) error {
	return m.Called(id).Error(0)
}

func (m *MockRepo) AddZoneOwner(ctx context.Context, owner domain.ZoneOwner) error {
	return m.Called(owner).Error(0)
}

func (m *MockRepo) DeleteZoneOwner(ctx context.Context, domainID, userID int64) error {
	return m.Called(domainID, userID).Error(0)
}

func (m *MockRepo) ListZoneOwners(ctx context.Context, domainID int64) ([]domain.ZoneOwner, error) {
	args := m.Called(domainID)
	o, _ := args.Get(0).([]domain.ZoneOwner)
	return o, args.Error(1)
}

func (m *MockRepo) CountZoneOwners(ctx context.Context, domainID int64) (int, error) {
	args := m.Called(domainID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepo) IsZoneOwner(ctx context.Context, domainID, userID int64) (bool, error) {
	args := m.Called(domainID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) SetZoneTemplateID(ctx context.Context, domainID, templateID int64) error {
	return m.Called(domainID, templateID).Error(0)
}

func (m *MockRepo) GetZoneComment(ctx context.Context, domainID int64) (string, error) {
	args := m.Called(domainID)
	return args.String(0), args.Error(1)
}

func (m *MockRepo) SetZoneComment(ctx context.Context, domainID int64, comment string) error {
	return m.Called(domainID, comment).Error(0)
}

func (m *MockRepo) CreateRecord(ctx context.Context, rec *domain.Record) (int64, error) {
	args := m.Called(rec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) GetRecord(ctx context.Context, id int64) (*domain.Record, error) {
	args := m.Called(id)
	r, _ := args.Get(0).(*domain.Record)
	return r, args.Error(1)
}

func (m *MockRepo) ListRecords(ctx context.Context, domainID int64) ([]domain.Record, error) {
	args := m.Called(domainID)
	r, _ := args.Get(0).([]domain.Record)
	return r, args.Error(1)
}

func (m *MockRepo) UpdateRecord(ctx context.Context, rec *domain.Record) error {
	return m.Called(rec).Error(0)
}

func (m *MockRepo) DeleteRecord(ctx context.Context, id int64) error {
	return m.Called(id).Error(0)
}

func (m *MockRepo) DeleteRecordsByType(ctx context.Context, domainID int64, t domain.RecordType) error {
	return m.Called(domainID, t).Error(0)
}

func (m *MockRepo) RecordExists(ctx context.Context, domainID int64, name string, t domain.RecordType, content string, excludeID int64) (bool, error) {
	args := m.Called(domainID, name, t, content, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) ListRecordsByName(ctx context.Context, domainID int64, name string) ([]domain.Record, error) {
	args := m.Called(domainID, name)
	r, _ := args.Get(0).([]domain.Record)
	return r, args.Error(1)
}

func (m *MockRepo) GetSOARecord(ctx context.Context, domainID int64) (*domain.Record, error) {
	args := m.Called(domainID)
	r, _ := args.Get(0).(*domain.Record)
	return r, args.Error(1)
}

func (m *MockRepo) SwapRecordContent(ctx context.Context, id int64, oldContent, newContent string) (bool, error) {
	args := m.Called(id, oldContent, newContent)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) CreateTemplateLink(ctx context.Context, link domain.TemplateLink) error {
	return m.Called(link).Error(0)
}

func (m *MockRepo) DeleteTemplateLinksForRecord(ctx context.Context, recordID int64) error {
	return m.Called(recordID).Error(0)
}

func (m *MockRepo) DeleteTemplateLinksForDomain(ctx context.Context, domainID int64) error {
	return m.Called(domainID).Error(0)
}

func (m *MockRepo) DeleteTemplateRecords(ctx context.Context, domainID, templateID int64) error {
	return m.Called(domainID, templateID).Error(0)
}

func (m *MockRepo) CreateZoneTemplate(ctx context.Context, t *domain.ZoneTemplate) (int64, error) {
	args := m.Called(t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) GetZoneTemplate(ctx context.Context, id int64) (*domain.ZoneTemplate, error) {
	args := m.Called(id)
	t, _ := args.Get(0).(*domain.ZoneTemplate)
	return t, args.Error(1)
}

func (m *MockRepo) ListZoneTemplates(ctx context.Context) ([]domain.ZoneTemplate, error) {
	args := m.Called()
	t, _ := args.Get(0).([]domain.ZoneTemplate)
	return t, args.Error(1)
}

func (m *MockRepo) CreateTemplateRecord(ctx context.Context, r *domain.TemplateRecord) (int64, error) {
	args := m.Called(r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) ListTemplateRecords(ctx context.Context, templateID int64) ([]domain.TemplateRecord, error) {
	args := m.Called(templateID)
	r, _ := args.Get(0).([]domain.TemplateRecord)
	return r, args.Error(1)
}

func (m *MockRepo) CreateSupermaster(ctx context.Context, sm domain.Supermaster) error {
	return m.Called(sm).Error(0)
}

func (m *MockRepo) DeleteSupermaster(ctx context.Context, ip, nameserver string) error {
	return m.Called(ip, nameserver).Error(0)
}

func (m *MockRepo) ListSupermasters(ctx context.Context) ([]domain.Supermaster, error) {
	args := m.Called()
	s, _ := args.Get(0).([]domain.Supermaster)
	return s, args.Error(1)
}

func (m *MockRepo) GetSupermasterByIP(ctx context.Context, ip string) (*domain.Supermaster, error) {
	args := m.Called(ip)
	s, _ := args.Get(0).(*domain.Supermaster)
	return s, args.Error(1)
}

func (m *MockRepo) SupermasterExists(ctx context.Context, ip string) (bool, error) {
	args := m.Called(ip)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) SupermasterPairExists(ctx context.Context, ip, nameserver string) (bool, error) {
	args := m.Called(ip, nameserver)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) WithinTx(ctx context.Context, fn func(ports.Repository) error) error {
	return fn(m)
}

func (m *MockRepo) Ping(ctx context.Context) error {
	return m.Called().Error(0)
}
