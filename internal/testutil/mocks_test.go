package testutil

import (
	"context"
	"testing"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
)

func TestMocks(t *testing.T) {
	ctx := context.Background()

	// FakeAuthorizer
	a := NewFakeAuthorizer(domain.PermZoneContentEditOwn).Own(3)
	if !a.HasPermission(ctx, domain.PermZoneContentEditOwn) {
		t.Error("expected permission to be granted")
	}
	if a.HasPermission(ctx, domain.PermSupermasterAdd) {
		t.Error("expected permission to be denied")
	}
	if ok, _ := a.IsZoneOwner(ctx, 3); !ok {
		t.Error("expected zone 3 to be owned")
	}
	if !NewFakeAuthorizer(domain.PermUeberuser).HasPermission(ctx, domain.PermSupermasterAdd) {
		t.Error("expected ueberuser to hold every permission")
	}

	// MockDNSSEC
	d := NewMockDNSSEC("example.com")
	if ok, _ := d.IsZoneSecured(ctx, "example.com"); !ok {
		t.Error("expected zone to be secured")
	}
	_ = d.UnsecureZone(ctx, "example.com")
	if ok, _ := d.IsZoneSecured(ctx, "example.com"); ok {
		t.Error("expected zone to be unsecured")
	}
	d.FailCalls = true
	if err := d.RectifyZone(ctx, "example.com"); err == nil {
		t.Error("expected error from failing provider")
	}

	// MockNotifier and RecordingSink
	n := &MockNotifier{}
	_ = n.ZoneChanged(ctx, domain.ZoneChange{Action: domain.ActionZoneCreated})
	if got := n.Actions(); len(got) != 1 || got[0] != domain.ActionZoneCreated {
		t.Errorf("unexpected actions %v", got)
	}
	s := &RecordingSink{}
	s.AddSystemError("oops")
	if s.Len() != 1 {
		t.Errorf("expected 1 message, got %d", s.Len())
	}
}
