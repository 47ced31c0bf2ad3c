package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/poyrazK/pdnsadmin/internal/adapters/repository"
	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/testutil"
)

var fixedNow = time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	repo     *repository.SQLRepository
	auth     *testutil.FakeAuthorizer
	sink     *testutil.RecordingSink
	dnssec   *testutil.MockDNSSEC
	notifier *testutil.MockNotifier

	zones        *ZoneService
	records      *RecordService
	supermasters *SupermasterService
	templates    *TemplateService
}

func testSerials(t *testing.T) *domain.SerialCalculator {
	t.Helper()
	calc, err := domain.NewSerialCalculator("")
	if err != nil {
		t.Fatalf("NewSerialCalculator failed: %v", err)
	}
	return calc.WithClock(func() time.Time { return fixedNow })
}

func testSettings() Settings {
	return Settings{
		SOA:           domain.SOADefaults{Hostmaster: "hostmaster.example.com"},
		Nameservers:   []string{"ns1.example.com", "ns2.example.com"},
		DefaultTTL:    86400,
		TXTAutoQuote:  true,
		DNSSECEnabled: true,
	}
}

// newTestEnv wires every service against a fresh SQLite database. The acting user starts
// as ueberuser; use as() to narrow the rights.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo, _ := testutil.OpenSQLite(t)
	e := &testEnv{
		repo:     repo,
		auth:     testutil.NewFakeAuthorizer(domain.PermUeberuser),
		sink:     &testutil.RecordingSink{},
		dnssec:   testutil.NewMockDNSSEC(),
		notifier: &testutil.MockNotifier{},
	}
	deps := Deps{
		Repo:     repo,
		Auth:     e.auth,
		Sink:     e.sink,
		DNSSEC:   e.dnssec,
		Notifier: e.notifier,
		Serials:  testSerials(t),
		Settings: testSettings(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	e.zones = NewZoneService(deps)
	e.records = NewRecordService(deps)
	e.supermasters = NewSupermasterService(deps)
	e.templates = NewTemplateService(deps)
	return e
}

// as replaces the acting user's permissions and owned zones.
func (e *testEnv) as(owned []int64, perms ...domain.Permission) {
	e.auth.Perms = make(map[domain.Permission]bool)
	for _, p := range perms {
		e.auth.Perms[p] = true
	}
	e.auth.Owned = make(map[int64]bool)
	for _, id := range owned {
		e.auth.Owned[id] = true
	}
}

func (e *testEnv) addZone(t *testing.T, name string, zoneType domain.ZoneType, tmpl domain.TemplateRef) int64 {
	t.Helper()
	id, err := e.zones.AddDomain(context.Background(), NewZone{Name: name, Owner: 1, Type: zoneType, Template: tmpl})
	if err != nil {
		t.Fatalf("AddDomain(%s) failed: %v", name, err)
	}
	return id
}

func (e *testEnv) serial(t *testing.T, zoneID int64) uint32 {
	t.Helper()
	s, err := e.records.GetSOASerial(context.Background(), zoneID)
	if err != nil {
		t.Fatalf("GetSOASerial failed: %v", err)
	}
	return s
}

func (e *testEnv) recordCount(t *testing.T, zoneID int64) int {
	t.Helper()
	recs, err := e.repo.ListRecords(context.Background(), zoneID)
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	return len(recs)
}

// createTemplate stores a forward-zone template with SOA, two NS, one A and one MX record.
func (e *testEnv) createTemplate(t *testing.T) int64 {
	t.Helper()
	id, err := e.templates.CreateTemplate(context.Background(), domain.ZoneTemplate{Name: "default", Owner: 1}, []domain.TemplateRecord{
		{Name: "[ZONE]", Type: domain.TypeSOA, Content: "[NS1] [HOSTMASTER] [SERIAL] 28800 7200 604800 86400"},
		{Name: "[ZONE]", Type: domain.TypeNS, Content: "[NS1]"},
		{Name: "[ZONE]", Type: domain.TypeNS, Content: "[NS2]"},
		{Name: "www.[ZONE]", Type: domain.TypeA, Content: "192.0.2.10", TTL: 3600},
		{Name: "[ZONE]", Type: domain.TypeMX, Content: "mail.[ZONE]", Prio: 10},
	})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}
	return id
}
