package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/core/ports"
)

// RecordService adds, edits and deletes individual records. Every change bumps the zone's
// SOA serial and rectifies secured zones.
type RecordService struct {
	base
}

func NewRecordService(d Deps) *RecordService {
	return &RecordService{base: newBase(d)}
}

func isProtectedType(t domain.RecordType) bool {
	return t == domain.TypeSOA || t == domain.TypeNS
}

func normalizeType(t domain.RecordType) domain.RecordType {
	return domain.RecordType(strings.ToUpper(strings.TrimSpace(string(t))))
}

// checkWrite applies the record write rules for the zone: slave zones are read-only, and
// own / own_as_client users must own the zone.
func (s *RecordService) checkWrite(ctx context.Context, op string, level domain.EditLevel, zone *domain.Domain, msg string) error {
	if zone.Type == domain.ZoneSlave || level == domain.EditNone {
		return s.failf(op, domain.KindPermission, "%s", msg)
	}
	owner, err := s.zoneOwner(ctx, level, zone.ID)
	if err != nil {
		return err
	}
	if !level.MayEditZone(owner) {
		return s.failf(op, domain.KindPermission, "%s", msg)
	}
	return nil
}

func (s *RecordService) zoneContext(zone *domain.Domain) domain.ZoneContext {
	return domain.ZoneContext{
		Name:       zone.Name,
		DefaultTTL: s.settings.DefaultTTL,
		Hostmaster: s.settings.soaDefaults().Hostmaster,
	}
}

// checkConflicts rejects duplicates and records that cannot coexist at the same name.
func (s *RecordService) checkConflicts(ctx context.Context, op string, rec domain.Record) error {
	dup, err := s.repo.RecordExists(ctx, rec.DomainID, rec.Name, rec.Type, rec.Content, rec.ID)
	if err != nil {
		return fmt.Errorf("check duplicate record: %w", err)
	}
	if dup {
		return s.failf(op, domain.KindIntegrity, "A %s record for %s with this content already exists.", rec.Type, rec.Name)
	}

	if rec.Type == domain.TypeSOA {
		soa, err := s.repo.GetSOARecord(ctx, rec.DomainID)
		if err != nil {
			return fmt.Errorf("get SOA record: %w", err)
		}
		if soa != nil && soa.ID != rec.ID {
			return s.failf(op, domain.KindIntegrity, "The zone already has an SOA record.")
		}
	}

	others, err := s.repo.ListRecordsByName(ctx, rec.DomainID, rec.Name)
	if err != nil {
		return fmt.Errorf("list records of %s: %w", rec.Name, err)
	}
	for _, o := range others {
		if o.ID == rec.ID {
			continue
		}
		switch {
		case rec.Type == domain.TypeCNAME:
			return s.failf(op, domain.KindIntegrity, "A CNAME record for %s cannot coexist with other records.", rec.Name)
		case o.Type == domain.TypeCNAME:
			return s.failf(op, domain.KindIntegrity, "There is already a CNAME record for %s.", rec.Name)
		}
	}
	return nil
}

// afterChange runs the side effects of a committed record change.
func (s *RecordService) afterChange(ctx context.Context, zone *domain.Domain, t domain.RecordType, recordID int64, action domain.ChangeAction) error {
	var serial uint32
	if t != domain.TypeSOA {
		var err error
		if serial, err = s.bumpSerial(ctx, s.repo, zone.ID); err != nil {
			return fmt.Errorf("update SOA serial of %s: %w", zone.Name, err)
		}
	}
	s.rectify(ctx, zone.Name)
	s.notify(ctx, domain.ZoneChange{DomainID: zone.ID, Zone: zone.Name, Action: action, RecordID: recordID, Serial: serial})
	return nil
}

// AddRecord adds a record to a zone.
func (s *RecordService) AddRecord(ctx context.Context, in domain.RecordInput) error {
	_, err := s.AddRecordGetID(ctx, in)
	return err
}

// AddRecordGetID adds a record and returns its id. Adding SOA or NS records as an
// own_as_client user fails with a *domain.ProtectedRecordTypeError, which is not reported
// to the message sink.
func (s *RecordService) AddRecordGetID(ctx context.Context, in domain.RecordInput) (_ int64, err error) {
	const op = "add_record"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	zone, err := s.loadDomain(ctx, op, in.ZoneID)
	if err != nil {
		return 0, err
	}
	in.Type = normalizeType(in.Type)
	in.ID = 0

	level := s.editLevel(ctx)
	if level == domain.EditOwnAsClient && isProtectedType(in.Type) {
		s.logger.Warn("protected record type refused", "zone", zone.Name, "type", in.Type)
		return 0, &domain.ProtectedRecordTypeError{Type: in.Type}
	}
	if err := s.checkWrite(ctx, op, level, zone, "You do not have the permission to add a record to this zone."); err != nil {
		return 0, err
	}

	in.Content = domain.FormatContent(in.Type, in.Content, s.settings.TXTAutoQuote)
	rec, err := s.validator.Validate(in, s.zoneContext(zone))
	if err != nil {
		return 0, s.fail(op, err, "zone", zone.Name)
	}
	if err := s.checkConflicts(ctx, op, rec); err != nil {
		return 0, err
	}

	err = s.repo.WithinTx(ctx, func(tx ports.Repository) error {
		_, err := tx.CreateRecord(ctx, &rec)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("add %s record to %s: %w", rec.Type, zone.Name, err)
	}

	s.logger.Info("record added", "zone", zone.Name, "record_id", rec.ID, "name", rec.Name, "type", rec.Type)
	return rec.ID, s.afterChange(ctx, zone, rec.Type, rec.ID, domain.ActionRecordAdded)
}

// EditRecord updates name, type, content, TTL, priority and disabled flag of a record.
// Permissions are checked against the stored record.
func (s *RecordService) EditRecord(ctx context.Context, rec domain.Record) (err error) {
	const op = "edit_record"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	stored, err := s.repo.GetRecord(ctx, rec.ID)
	if err != nil {
		return fmt.Errorf("get record %d: %w", rec.ID, err)
	}
	if stored == nil {
		return s.failf(op, domain.KindNotFound, "There is no record with id %d.", rec.ID)
	}
	zone, err := s.loadDomain(ctx, op, stored.DomainID)
	if err != nil {
		return err
	}

	level := s.editLevel(ctx)
	newType := normalizeType(rec.Type)
	if level == domain.EditOwnAsClient && (isProtectedType(stored.Type) || isProtectedType(newType)) {
		return s.failf(op, domain.KindPermission, "You do not have the permission to edit SOA or NS records.")
	}
	if err := s.checkWrite(ctx, op, level, zone, "You do not have the permission to edit this record."); err != nil {
		return err
	}

	in := domain.RecordInput{
		ID:       stored.ID,
		ZoneID:   stored.DomainID,
		Name:     rec.Name,
		Type:     newType,
		Content:  domain.FormatContent(newType, rec.Content, s.settings.TXTAutoQuote),
		TTL:      rec.TTL,
		Prio:     rec.Prio,
		Disabled: rec.Disabled,
	}
	updated, err := s.validator.Validate(in, s.zoneContext(zone))
	if err != nil {
		return s.fail(op, err, "zone", zone.Name, "record_id", rec.ID)
	}
	if err := s.checkConflicts(ctx, op, updated); err != nil {
		return err
	}

	if err := s.repo.UpdateRecord(ctx, &updated); err != nil {
		return fmt.Errorf("update record %d: %w", rec.ID, err)
	}

	s.logger.Info("record edited", "zone", zone.Name, "record_id", updated.ID, "name", updated.Name, "type", updated.Type)
	return s.afterChange(ctx, zone, updated.Type, updated.ID, domain.ActionRecordEdited)
}

// DeleteRecord removes a record and its template link.
func (s *RecordService) DeleteRecord(ctx context.Context, id int64) (err error) {
	const op = "delete_record"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	stored, err := s.repo.GetRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("get record %d: %w", id, err)
	}
	if stored == nil {
		return s.failf(op, domain.KindNotFound, "There is no record with id %d.", id)
	}
	zone, err := s.loadDomain(ctx, op, stored.DomainID)
	if err != nil {
		return err
	}

	level := s.editLevel(ctx)
	if level == domain.EditOwnAsClient && isProtectedType(stored.Type) {
		return s.failf(op, domain.KindPermission, "You do not have the permission to delete %s records.", stored.Type)
	}
	if err := s.checkWrite(ctx, op, level, zone, "You do not have the permission to delete this record."); err != nil {
		return err
	}

	err = s.repo.WithinTx(ctx, func(tx ports.Repository) error {
		if err := tx.DeleteRecord(ctx, id); err != nil {
			return err
		}
		return tx.DeleteTemplateLinksForRecord(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}

	s.logger.Info("record deleted", "zone", zone.Name, "record_id", id, "name", stored.Name, "type", stored.Type)
	return s.afterChange(ctx, zone, stored.Type, id, domain.ActionRecordDeleted)
}

// EditZoneComment sets the zone comment. A zone without ownership rows gets a default one.
func (s *RecordService) EditZoneComment(ctx context.Context, zoneID int64, comment string) (err error) {
	const op = "edit_zone_comment"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	zone, err := s.loadDomain(ctx, op, zoneID)
	if err != nil {
		return err
	}
	if err := s.checkWrite(ctx, op, s.editLevel(ctx), zone, "You do not have the permission to edit this comment."); err != nil {
		return err
	}
	if err := s.repo.SetZoneComment(ctx, zoneID, comment); err != nil {
		return fmt.Errorf("set comment of %s: %w", zone.Name, err)
	}
	return nil
}

func (s *RecordService) GetZoneComment(ctx context.Context, zoneID int64) (string, error) {
	return s.repo.GetZoneComment(ctx, zoneID)
}

// DeleteRecordZoneTempl drops the template link of a record, detaching it from future
// template synchronisation.
func (s *RecordService) DeleteRecordZoneTempl(ctx context.Context, recordID int64) error {
	return s.repo.DeleteTemplateLinksForRecord(ctx, recordID)
}

func (s *RecordService) GetSOARecord(ctx context.Context, zoneID int64) (*domain.Record, error) {
	return s.repo.GetSOARecord(ctx, zoneID)
}

// GetSOASerial returns the serial of the zone's SOA record.
func (s *RecordService) GetSOASerial(ctx context.Context, zoneID int64) (uint32, error) {
	soa, err := s.repo.GetSOARecord(ctx, zoneID)
	if err != nil {
		return 0, err
	}
	if soa == nil {
		return 0, domain.NewFailure(domain.KindNotFound, "zone %d has no SOA record", zoneID)
	}
	return domain.GetSerial(soa.Content)
}

func (s *RecordService) GetRecord(ctx context.Context, id int64) (*domain.Record, error) {
	return s.repo.GetRecord(ctx, id)
}

func (s *RecordService) ListRecords(ctx context.Context, zoneID int64) ([]domain.Record, error) {
	return s.repo.ListRecords(ctx, zoneID)
}
