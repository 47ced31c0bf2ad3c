package domain

import "time"

// ChangeAction names what happened to a zone.
type ChangeAction string

const (
	ActionZoneCreated   ChangeAction = "ZONE_CREATED"
	ActionZoneDeleted   ChangeAction = "ZONE_DELETED"
	ActionZoneUpdated   ChangeAction = "ZONE_UPDATED"
	ActionRecordAdded   ChangeAction = "RECORD_ADDED"
	ActionRecordEdited  ChangeAction = "RECORD_EDITED"
	ActionRecordDeleted ChangeAction = "RECORD_DELETED"
)

// ZoneChange describes a committed change to a zone, published to interested listeners.
type ZoneChange struct {
	ID        string       `json:"id"`
	DomainID  int64        `json:"domain_id"`
	Zone      string       `json:"zone"`
	Action    ChangeAction `json:"action"`
	RecordID  int64        `json:"record_id,omitempty"`
	Serial    uint32       `json:"serial,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
