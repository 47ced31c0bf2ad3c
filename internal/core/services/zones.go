package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/core/ports"
)

// NewZone describes a zone to create.
type NewZone struct {
	Name        string
	Owner       int64
	Type        domain.ZoneType
	SlaveMaster string // SLAVE only
	Template    domain.TemplateRef
}

// ZoneService manages the zone lifecycle: creation, deletion, kind and owner changes and
// template synchronisation.
type ZoneService struct {
	base
}

func NewZoneService(d Deps) *ZoneService {
	return &ZoneService{base: newBase(d)}
}

// AddDomain creates a zone with its ownership row. Slave zones get no records; other
// zones get a synthesized SOA or the records of the selected template.
func (s *ZoneService) AddDomain(ctx context.Context, z NewZone) (_ int64, err error) {
	const op = "add_domain"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	if !s.auth.HasPermission(ctx, domain.PermZoneMasterAdd) && !s.auth.HasPermission(ctx, domain.PermZoneSlaveAdd) {
		return 0, s.failf(op, domain.KindPermission, "You do not have the permission to add a zone.")
	}

	name := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(z.Name), "."))
	switch {
	case name == "" || z.Owner <= 0 || z.Type == "":
		return 0, s.failf(op, domain.KindValidation, "Zone name, owner and type are required.")
	case strings.EqualFold(string(z.Type), string(domain.ZoneSlave)) && strings.TrimSpace(z.SlaveMaster) == "":
		return 0, s.failf(op, domain.KindValidation, "A slave zone needs the address of its master.")
	}
	zoneType, err := domain.ParseZoneType(string(z.Type))
	if err != nil {
		return 0, s.fail(op, &domain.Failure{Kind: domain.KindValidation, Message: err.Error()})
	}
	z.Type = zoneType
	if z.Type == domain.ZoneSlave {
		z.Template = domain.NoTemplate
	}
	if err := domain.ValidateZoneName(name); err != nil {
		return 0, s.fail(op, &domain.Failure{Kind: domain.KindValidation, Message: "Invalid zone name: " + err.Error()})
	}

	master := ""
	if z.Type == domain.ZoneSlave {
		ips, err := domain.ParseIPList(z.SlaveMaster)
		if err != nil {
			return 0, s.fail(op, &domain.Failure{Kind: domain.KindValidation, Message: err.Error()})
		}
		master = strings.Join(ips, ",")
	}

	existing, err := s.repo.GetDomainByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("look up domain %s: %w", name, err)
	}
	if existing != nil {
		return 0, s.failf(op, domain.KindIntegrity, "There is already a zone named %s.", name)
	}

	var tmplRecords []domain.TemplateRecord
	tmplID, useTemplate := z.Template.ID()
	if useTemplate {
		tmpl, err := s.repo.GetZoneTemplate(ctx, tmplID)
		if err != nil {
			return 0, fmt.Errorf("get zone template %d: %w", tmplID, err)
		}
		if tmpl == nil {
			return 0, s.failf(op, domain.KindNotFound, "There is no zone template with id %d.", tmplID)
		}
		if tmplRecords, err = s.repo.ListTemplateRecords(ctx, tmplID); err != nil {
			return 0, fmt.Errorf("list records of zone template %d: %w", tmplID, err)
		}
	}

	d := &domain.Domain{Name: name, Type: z.Type, Master: master}
	serial := s.serials.Initial()
	err = s.repo.WithinTx(ctx, func(tx ports.Repository) error {
		if _, err := tx.CreateDomain(ctx, d); err != nil {
			return err
		}
		if err := tx.AddZoneOwner(ctx, domain.ZoneOwner{DomainID: d.ID, Owner: z.Owner, TemplateID: z.Template.Int64()}); err != nil {
			return err
		}
		switch {
		case z.Type == domain.ZoneSlave:
			return nil
		case useTemplate:
			return s.materialize(ctx, tx, d, tmplID, tmplRecords, serial, false)
		}
		soa := &domain.Record{
			DomainID: d.ID,
			Name:     d.Name,
			Type:     domain.TypeSOA,
			Content:  domain.BuildSOAContent(s.settings.soaDefaults(), serial),
			TTL:      s.settings.DefaultTTL,
		}
		_, err := tx.CreateRecord(ctx, soa)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrIntegrity) {
			return 0, s.failf(op, domain.KindIntegrity, "There is already a zone named %s.", name)
		}
		return 0, fmt.Errorf("add domain %s: %w", name, err)
	}

	s.logger.Info("zone created", "zone", d.Name, "zone_id", d.ID, "type", d.Type, "template", z.Template.String())
	s.notify(ctx, domain.ZoneChange{DomainID: d.ID, Zone: d.Name, Action: domain.ActionZoneCreated, Serial: serial})
	return d.ID, nil
}

// materialize inserts the template records for d, each paired with its provenance link.
// materialize creates the template's records in the zone. With forceSerial the SOA gets
// serial whatever the template content holds.
func (s *ZoneService) materialize(ctx context.Context, tx ports.Repository, d *domain.Domain, tmplID int64, records []domain.TemplateRecord, serial uint32, forceSerial bool) error {
	vars := domain.TemplateVars{
		Zone:        d.Name,
		Serial:      serial,
		Nameservers: s.settings.Nameservers,
		Hostmaster:  s.settings.soaDefaults().Hostmaster,
		DefaultTTL:  s.settings.DefaultTTL,
	}
	for _, rec := range domain.Materialize(records, vars) {
		rec.DomainID = d.ID
		rec.Name = domain.NormalizeName(rec.Name, d.Name)
		if forceSerial && rec.Type == domain.TypeSOA {
			if content, err := domain.SetSerial(rec.Content, serial); err == nil {
				rec.Content = content
			} else {
				s.logger.Warn("template SOA has no serial field", "zone", d.Name, "template_id", tmplID, "error", err)
			}
		}
		if _, err := tx.CreateRecord(ctx, &rec); err != nil {
			return fmt.Errorf("create %s record from template: %w", rec.Type, err)
		}
		if err := tx.CreateTemplateLink(ctx, domain.TemplateLink{DomainID: d.ID, RecordID: rec.ID, TemplateID: tmplID}); err != nil {
			return fmt.Errorf("link record %d to template %d: %w", rec.ID, tmplID, err)
		}
	}
	return nil
}

func (s *ZoneService) mayManageZone(ctx context.Context, zoneID int64) (bool, error) {
	level := s.editLevel(ctx)
	if level == domain.EditAll {
		return true, nil
	}
	if level != domain.EditOwn {
		return false, nil
	}
	return s.auth.IsZoneOwner(ctx, zoneID)
}

// DeleteDomain removes a zone and everything that belongs to it. A secured MASTER zone is
// unsecured first when DNSSEC is enabled.
func (s *ZoneService) DeleteDomain(ctx context.Context, id int64) (err error) {
	const op = "delete_domain"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	d, err := s.loadDomain(ctx, op, id)
	if err != nil {
		return err
	}
	allowed, err := s.mayManageZone(ctx, id)
	if err != nil {
		return fmt.Errorf("check zone ownership: %w", err)
	}
	if !allowed {
		return s.failf(op, domain.KindPermission, "You do not have the permission to delete zone %s.", d.Name)
	}

	if err := s.unsecure(ctx, d); err != nil {
		return err
	}
	if err := s.repo.DeleteDomain(ctx, id); err != nil {
		return fmt.Errorf("delete domain %s: %w", d.Name, err)
	}

	s.logger.Info("zone deleted", "zone", d.Name, "zone_id", id)
	s.notify(ctx, domain.ZoneChange{DomainID: id, Zone: d.Name, Action: domain.ActionZoneDeleted})
	return nil
}

// DeleteDomains deletes a batch of zones in one transaction and returns the ids deleted.
// Ids that are invalid, unknown or not deletable by the caller are reported and skipped.
func (s *ZoneService) DeleteDomains(ctx context.Context, ids []int64) (_ []int64, err error) {
	const op = "delete_domains"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	var targets []*domain.Domain
	for _, id := range ids {
		if id <= 0 {
			s.logger.Warn("skipping invalid zone id", "zone_id", id)
			continue
		}
		d, err := s.repo.GetDomain(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get domain %d: %w", id, err)
		}
		if d == nil {
			s.logger.Warn("skipping unknown zone", "zone_id", id)
			continue
		}
		allowed, err := s.mayManageZone(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("check zone ownership: %w", err)
		}
		if !allowed {
			_ = s.failf(op, domain.KindPermission, "You do not have the permission to delete zone %s.", d.Name)
			continue
		}
		targets = append(targets, d)
	}
	if len(targets) == 0 {
		return nil, nil
	}

	for _, d := range targets {
		if err := s.unsecure(ctx, d); err != nil {
			return nil, err
		}
	}

	deleted := make([]int64, 0, len(targets))
	err = s.repo.WithinTx(ctx, func(tx ports.Repository) error {
		for _, d := range targets {
			if err := tx.DeleteDomain(ctx, d.ID); err != nil {
				return fmt.Errorf("delete domain %s: %w", d.Name, err)
			}
			deleted = append(deleted, d.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, d := range targets {
		s.logger.Info("zone deleted", "zone", d.Name, "zone_id", d.ID)
		s.notify(ctx, domain.ZoneChange{DomainID: d.ID, Zone: d.Name, Action: domain.ActionZoneDeleted})
	}
	return deleted, nil
}

// ChangeZoneType switches a zone between NATIVE, MASTER and SLAVE.
func (s *ZoneService) ChangeZoneType(ctx context.Context, zoneType domain.ZoneType, id int64) (err error) {
	const op = "change_zone_type"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	t, err := domain.ParseZoneType(string(zoneType))
	if err != nil {
		return s.fail(op, &domain.Failure{Kind: domain.KindValidation, Message: err.Error()})
	}
	d, err := s.loadDomain(ctx, op, id)
	if err != nil {
		return err
	}
	allowed, err := s.metaEditAllowed(ctx, id)
	if err != nil {
		return err
	}
	if !allowed {
		return s.failf(op, domain.KindPermission, "You do not have the permission to change the type of zone %s.", d.Name)
	}

	if err := s.repo.UpdateZoneType(ctx, id, t); err != nil {
		return fmt.Errorf("update type of %s: %w", d.Name, err)
	}
	s.logger.Info("zone type changed", "zone", d.Name, "from", d.Type, "to", t)
	s.notify(ctx, domain.ZoneChange{DomainID: id, Zone: d.Name, Action: domain.ActionZoneUpdated})
	return nil
}

// ChangeZoneSlaveMaster sets the master addresses of a slave zone.
func (s *ZoneService) ChangeZoneSlaveMaster(ctx context.Context, id int64, ipList string) (err error) {
	const op = "change_zone_slave_master"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	ips, err := domain.ParseIPList(ipList)
	if err != nil {
		return s.fail(op, &domain.Failure{Kind: domain.KindValidation, Message: "Invalid master address list: " + err.Error()})
	}
	d, err := s.loadDomain(ctx, op, id)
	if err != nil {
		return err
	}
	allowed, err := s.metaEditAllowed(ctx, id)
	if err != nil {
		return err
	}
	if !allowed {
		return s.failf(op, domain.KindPermission, "You do not have the permission to change the master of zone %s.", d.Name)
	}

	if err := s.repo.UpdateDomainMaster(ctx, id, strings.Join(ips, ",")); err != nil {
		return fmt.Errorf("update master of %s: %w", d.Name, err)
	}
	s.notify(ctx, domain.ZoneChange{DomainID: id, Zone: d.Name, Action: domain.ActionZoneUpdated})
	return nil
}

// AddOwnerToZone adds userID as an additional owner. The new row inherits the zone's
// template link.
func (s *ZoneService) AddOwnerToZone(ctx context.Context, zoneID, userID int64) (err error) {
	const op = "add_owner_to_zone"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	if userID <= 0 {
		return s.failf(op, domain.KindValidation, "Invalid user id %d.", userID)
	}
	d, err := s.loadDomain(ctx, op, zoneID)
	if err != nil {
		return err
	}
	allowed, err := s.metaEditAllowed(ctx, zoneID)
	if err != nil {
		return err
	}
	if !allowed {
		return s.failf(op, domain.KindPermission, "You do not have the permission to change the owners of zone %s.", d.Name)
	}

	return s.repo.WithinTx(ctx, func(tx ports.Repository) error {
		owners, err := tx.ListZoneOwners(ctx, zoneID)
		if err != nil {
			return err
		}
		var tmplID int64
		for _, o := range owners {
			if o.Owner == userID {
				return s.failf(op, domain.KindIntegrity, "The selected user already owns zone %s.", d.Name)
			}
			tmplID = o.TemplateID
		}
		return tx.AddZoneOwner(ctx, domain.ZoneOwner{DomainID: zoneID, Owner: userID, TemplateID: tmplID})
	})
}

// DeleteOwnerFromZone removes userID from the owners. The last owner cannot be removed.
func (s *ZoneService) DeleteOwnerFromZone(ctx context.Context, zoneID, userID int64) (err error) {
	const op = "delete_owner_from_zone"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	d, err := s.loadDomain(ctx, op, zoneID)
	if err != nil {
		return err
	}
	allowed, err := s.metaEditAllowed(ctx, zoneID)
	if err != nil {
		return err
	}
	if !allowed {
		return s.failf(op, domain.KindPermission, "You do not have the permission to change the owners of zone %s.", d.Name)
	}

	return s.repo.WithinTx(ctx, func(tx ports.Repository) error {
		isOwner, err := tx.IsZoneOwner(ctx, zoneID, userID)
		if err != nil {
			return err
		}
		if !isOwner {
			return s.failf(op, domain.KindNotFound, "User %d does not own zone %s.", userID, d.Name)
		}
		n, err := tx.CountZoneOwners(ctx, zoneID)
		if err != nil {
			return err
		}
		if n <= 1 {
			return s.failf(op, domain.KindIntegrity, "There must be at least one owner for zone %s.", d.Name)
		}
		return tx.DeleteZoneOwner(ctx, zoneID, userID)
	})
}

// UpdateZoneRecords re-applies a template to a zone: records created from it are replaced
// by a fresh materialization and the zone is linked to the template. NoTemplate only
// unlinks the zone.
func (s *ZoneService) UpdateZoneRecords(ctx context.Context, zoneID int64, tmpl domain.TemplateRef) (err error) {
	const op = "update_zone_records"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	d, err := s.loadDomain(ctx, op, zoneID)
	if err != nil {
		return err
	}
	allowed, err := s.mayManageZone(ctx, zoneID)
	if err != nil {
		return err
	}
	if !allowed {
		return s.failf(op, domain.KindPermission, "You do not have the permission to apply a template to zone %s.", d.Name)
	}

	tmplID, useTemplate := tmpl.ID()
	var records []domain.TemplateRecord
	if useTemplate {
		t, err := s.repo.GetZoneTemplate(ctx, tmplID)
		if err != nil {
			return fmt.Errorf("get zone template %d: %w", tmplID, err)
		}
		if t == nil {
			return s.failf(op, domain.KindNotFound, "There is no zone template with id %d.", tmplID)
		}
		if records, err = s.repo.ListTemplateRecords(ctx, tmplID); err != nil {
			return fmt.Errorf("list records of zone template %d: %w", tmplID, err)
		}
	}

	var serial uint32
	err = s.repo.WithinTx(ctx, func(tx ports.Repository) error {
		if useTemplate {
			var err error
			if serial, err = s.resync(ctx, tx, d, tmplID, records); err != nil {
				return err
			}
		}
		return tx.SetZoneTemplateID(ctx, zoneID, tmpl.Int64())
	})
	if err != nil {
		return fmt.Errorf("update records of %s from template: %w", d.Name, err)
	}

	s.logger.Info("zone template applied", "zone", d.Name, "template", tmpl.String(), "serial", serial)
	s.rectify(ctx, d.Name)
	s.notify(ctx, domain.ZoneChange{DomainID: zoneID, Zone: d.Name, Action: domain.ActionZoneUpdated, Serial: serial})
	return nil
}

// resync replaces the template's records in the zone. The SOA keeps counting from the
// serial it had before.
func (s *ZoneService) resync(ctx context.Context, tx ports.Repository, d *domain.Domain, tmplID int64, records []domain.TemplateRecord) (uint32, error) {
	oldSOA, err := tx.GetSOARecord(ctx, d.ID)
	if err != nil {
		return 0, err
	}
	serial := s.serials.Initial()
	if oldSOA != nil {
		if current, errSerial := domain.GetSerial(oldSOA.Content); errSerial == nil {
			serial = s.serials.Next(current)
		}
	}

	if err := tx.DeleteTemplateRecords(ctx, d.ID, tmplID); err != nil {
		return 0, err
	}
	if err := tx.DeleteTemplateLinksForDomain(ctx, d.ID); err != nil {
		return 0, err
	}

	templateHasSOA := false
	for _, tr := range records {
		if strings.EqualFold(string(tr.Type), string(domain.TypeSOA)) {
			templateHasSOA = true
			break
		}
	}
	if templateHasSOA {
		if err := tx.DeleteRecordsByType(ctx, d.ID, domain.TypeSOA); err != nil {
			return 0, err
		}
	}

	if err := s.materialize(ctx, tx, d, tmplID, records, serial, true); err != nil {
		return 0, err
	}
	if templateHasSOA {
		return serial, nil
	}

	current, err := tx.GetSOARecord(ctx, d.ID)
	if err != nil {
		return 0, err
	}
	if current != nil {
		return s.bumpSerial(ctx, tx, d.ID)
	}
	if oldSOA == nil {
		return 0, nil
	}
	content, err := domain.SetSerial(oldSOA.Content, serial)
	if err != nil {
		return 0, err
	}
	restored := *oldSOA
	restored.ID = 0
	restored.Content = content
	_, err = tx.CreateRecord(ctx, &restored)
	return serial, err
}

func (s *ZoneService) GetDomain(ctx context.Context, id int64) (*domain.Domain, error) {
	return s.repo.GetDomain(ctx, id)
}

func (s *ZoneService) GetDomainByName(ctx context.Context, name string) (*domain.Domain, error) {
	return s.repo.GetDomainByName(ctx, strings.ToLower(strings.TrimSuffix(name, ".")))
}

func (s *ZoneService) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	return s.repo.ListDomains(ctx)
}

func (s *ZoneService) GetZoneOwners(ctx context.Context, zoneID int64) ([]domain.ZoneOwner, error) {
	return s.repo.ListZoneOwners(ctx, zoneID)
}

func (s *ZoneService) ListZoneTemplates(ctx context.Context) ([]domain.ZoneTemplate, error) {
	return s.repo.ListZoneTemplates(ctx)
}
