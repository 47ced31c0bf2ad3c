package domain

// Permission is a named right checked through the authorizer.
type Permission string

const (
	PermZoneMasterAdd              Permission = "zone_master_add"
	PermZoneSlaveAdd               Permission = "zone_slave_add"
	PermZoneContentEditOthers      Permission = "zone_content_edit_others"
	PermZoneContentEditOwn         Permission = "zone_content_edit_own"
	PermZoneContentEditOwnAsClient Permission = "zone_content_edit_own_as_client"
	PermZoneMetaEditOthers         Permission = "zone_meta_edit_others"
	PermZoneMetaEditOwn            Permission = "zone_meta_edit_own"
	PermSupermasterAdd             Permission = "supermaster_add"
	PermSupermasterEdit            Permission = "supermaster_edit"
	PermSupermasterView            Permission = "supermaster_view"
	PermZoneTemplAdd               Permission = "zone_templ_add"
	PermUeberuser                  Permission = "user_is_ueberuser" // grants everything
)

// EditLevel is the effective zone content edit right of a user.
type EditLevel int

const (
	EditNone EditLevel = iota
	EditOwnAsClient
	EditOwn
	EditAll
)

func (l EditLevel) String() string {
	switch l {
	case EditAll:
		return "all"
	case EditOwn:
		return "own"
	case EditOwnAsClient:
		return "own_as_client"
	}
	return "none"
}

// PermissionChecker is the subset of the authorizer needed to derive an edit level.
type PermissionChecker interface {
	HasPermission(perm Permission) bool
}

// PermissionFunc adapts a plain function to PermissionChecker.
type PermissionFunc func(Permission) bool

func (f PermissionFunc) HasPermission(p Permission) bool { return f(p) }

// ContentEditLevel picks the strongest zone content permission held.
func ContentEditLevel(c PermissionChecker) EditLevel {
	switch {
	case c.HasPermission(PermZoneContentEditOthers):
		return EditAll
	case c.HasPermission(PermZoneContentEditOwn):
		return EditOwn
	case c.HasPermission(PermZoneContentEditOwnAsClient):
		return EditOwnAsClient
	}
	return EditNone
}

// MayEditZone reports whether the edit level allows touching a zone with the given ownership.
func (l EditLevel) MayEditZone(isOwner bool) bool {
	switch l {
	case EditAll:
		return true
	case EditOwn, EditOwnAsClient:
		return isOwner
	}
	return false
}
