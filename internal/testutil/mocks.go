package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
)

// FakeAuthorizer grants a fixed permission set and owns a fixed set of zones.
type FakeAuthorizer struct {
	Perms    map[domain.Permission]bool
	Owned    map[int64]bool
	OwnerErr error
}

// NewFakeAuthorizer returns an authorizer holding perms.
func NewFakeAuthorizer(perms ...domain.Permission) *FakeAuthorizer {
	a := &FakeAuthorizer{Perms: make(map[domain.Permission]bool), Owned: make(map[int64]bool)}
	for _, p := range perms {
		a.Perms[p] = true
	}
	return a
}

func (a *FakeAuthorizer) HasPermission(_ context.Context, perm domain.Permission) bool {
	return a.Perms[domain.PermUeberuser] || a.Perms[perm]
}

func (a *FakeAuthorizer) IsZoneOwner(_ context.Context, zoneID int64) (bool, error) {
	if a.OwnerErr != nil {
		return false, a.OwnerErr
	}
	return a.Owned[zoneID], nil
}

// Own marks zones as owned by the acting user.
func (a *FakeAuthorizer) Own(ids ...int64) *FakeAuthorizer {
	for _, id := range ids {
		a.Owned[id] = true
	}
	return a
}

// RecordingSink keeps every message it receives.
type RecordingSink struct {
	mu       sync.Mutex
	Messages []string
}

func (s *RecordingSink) AddSystemError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, msg)
}

func (s *RecordingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Messages)
}

// MockDNSSEC implements ports.DNSSECProvider for testing.
type MockDNSSEC struct {
	mu        sync.Mutex
	Secured   map[string]bool
	Rectified []string
	Unsecured []string
	FailCalls bool
}

func NewMockDNSSEC(secured ...string) *MockDNSSEC {
	m := &MockDNSSEC{Secured: make(map[string]bool)}
	for _, z := range secured {
		m.Secured[z] = true
	}
	return m
}

func (m *MockDNSSEC) IsZoneSecured(_ context.Context, zone string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCalls {
		return false, errors.New("dnssec provider unavailable")
	}
	return m.Secured[zone], nil
}

func (m *MockDNSSEC) UnsecureZone(_ context.Context, zone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCalls {
		return errors.New("dnssec provider unavailable")
	}
	m.Unsecured = append(m.Unsecured, zone)
	m.Secured[zone] = false
	return nil
}

func (m *MockDNSSEC) RectifyZone(_ context.Context, zone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCalls {
		return errors.New("dnssec provider unavailable")
	}
	m.Rectified = append(m.Rectified, zone)
	return nil
}

// MockNotifier implements ports.ChangeNotifier for testing.
type MockNotifier struct {
	mu      sync.Mutex
	Changes []domain.ZoneChange
	Fail    bool
}

func (m *MockNotifier) ZoneChanged(_ context.Context, change domain.ZoneChange) error {
	if m.Fail {
		return errors.New("notify failed")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Changes = append(m.Changes, change)
	return nil
}

// Actions returns the actions published so far.
func (m *MockNotifier) Actions() []domain.ChangeAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ChangeAction, 0, len(m.Changes))
	for _, c := range m.Changes {
		out = append(out, c.Action)
	}
	return out
}
