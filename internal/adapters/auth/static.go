package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/core/ports"
)

// OwnershipLookup is the part of the domain repository needed to answer ownership
// questions.
type OwnershipLookup interface {
	IsZoneOwner(ctx context.Context, domainID, userID int64) (bool, error)
}

// StaticAuthorizer acts as one configured user holding a fixed permission set. Zone
// ownership is read from the zones table.
type StaticAuthorizer struct {
	userID int64
	perms  map[domain.Permission]bool
	owners OwnershipLookup
	logger *slog.Logger
}

// NewStaticAuthorizer builds an authorizer for userID. Unknown permission names are
// rejected.
func NewStaticAuthorizer(userID int64, perms []string, owners OwnershipLookup, logger *slog.Logger) (*StaticAuthorizer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id %d", userID)
	}
	set := make(map[domain.Permission]bool, len(perms))
	for _, p := range perms {
		perm := domain.Permission(p)
		if !knownPermissions[perm] {
			return nil, fmt.Errorf("unknown permission %q", p)
		}
		set[perm] = true
	}
	return &StaticAuthorizer{userID: userID, perms: set, owners: owners, logger: logger}, nil
}

var knownPermissions = map[domain.Permission]bool{
	domain.PermZoneMasterAdd:              true,
	domain.PermZoneSlaveAdd:               true,
	domain.PermZoneContentEditOthers:      true,
	domain.PermZoneContentEditOwn:         true,
	domain.PermZoneContentEditOwnAsClient: true,
	domain.PermZoneMetaEditOthers:         true,
	domain.PermZoneMetaEditOwn:            true,
	domain.PermSupermasterAdd:             true,
	domain.PermSupermasterEdit:            true,
	domain.PermSupermasterView:            true,
	domain.PermZoneTemplAdd:               true,
	domain.PermUeberuser:                  true,
}

// UserID is the acting user.
func (a *StaticAuthorizer) UserID() int64 {
	return a.userID
}

func (a *StaticAuthorizer) HasPermission(_ context.Context, perm domain.Permission) bool {
	return a.perms[domain.PermUeberuser] || a.perms[perm]
}

func (a *StaticAuthorizer) IsZoneOwner(ctx context.Context, zoneID int64) (bool, error) {
	owner, err := a.owners.IsZoneOwner(ctx, zoneID, a.userID)
	if err != nil {
		return false, err
	}
	a.logger.Debug("zone ownership checked", "zone_id", zoneID, "user_id", a.userID, "owner", owner)
	return owner, nil
}

var _ ports.Authorizer = (*StaticAuthorizer)(nil)
