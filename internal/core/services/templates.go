package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/core/ports"
)

// TemplateService maintains zone templates and their record skeletons.
type TemplateService struct {
	base
}

func NewTemplateService(d Deps) *TemplateService {
	return &TemplateService{base: newBase(d)}
}

// CreateTemplate stores a template together with its records.
func (s *TemplateService) CreateTemplate(ctx context.Context, t domain.ZoneTemplate, records []domain.TemplateRecord) (_ int64, err error) {
	const op = "create_zone_template"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	if !s.auth.HasPermission(ctx, domain.PermZoneTemplAdd) {
		return 0, s.failf(op, domain.KindPermission, "You do not have the permission to add a zone template.")
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return 0, s.failf(op, domain.KindValidation, "A zone template needs a name.")
	}
	for i := range records {
		if err := s.checkTemplateRecord(op, &records[i]); err != nil {
			return 0, err
		}
	}

	err = s.repo.WithinTx(ctx, func(tx ports.Repository) error {
		if _, err := tx.CreateZoneTemplate(ctx, &t); err != nil {
			return err
		}
		for i := range records {
			records[i].TemplateID = t.ID
			if _, err := tx.CreateTemplateRecord(ctx, &records[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("create zone template %s: %w", t.Name, err)
	}
	s.logger.Info("zone template created", "template_id", t.ID, "name", t.Name, "records", len(records))
	return t.ID, nil
}

// AddTemplateRecord appends a record skeleton to an existing template.
func (s *TemplateService) AddTemplateRecord(ctx context.Context, r domain.TemplateRecord) (_ int64, err error) {
	const op = "add_zone_template_record"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	if !s.auth.HasPermission(ctx, domain.PermZoneTemplAdd) {
		return 0, s.failf(op, domain.KindPermission, "You do not have the permission to edit zone templates.")
	}
	t, err := s.repo.GetZoneTemplate(ctx, r.TemplateID)
	if err != nil {
		return 0, fmt.Errorf("get zone template %d: %w", r.TemplateID, err)
	}
	if t == nil {
		return 0, s.failf(op, domain.KindNotFound, "There is no zone template with id %d.", r.TemplateID)
	}
	if err := s.checkTemplateRecord(op, &r); err != nil {
		return 0, err
	}
	id, err := s.repo.CreateTemplateRecord(ctx, &r)
	if err != nil {
		return 0, fmt.Errorf("add record to zone template %d: %w", r.TemplateID, err)
	}
	return id, nil
}

// checkTemplateRecord only checks what can be known before placeholders are expanded.
func (s *TemplateService) checkTemplateRecord(op string, r *domain.TemplateRecord) error {
	r.Type = normalizeType(r.Type)
	r.Name = strings.TrimSpace(r.Name)
	r.Content = strings.TrimSpace(r.Content)
	switch {
	case r.Type == "":
		return s.failf(op, domain.KindValidation, "Template record type is required.")
	case r.Name == "" || r.Content == "":
		return s.failf(op, domain.KindValidation, "Template %s record needs a name and content.", r.Type)
	case r.TTL < 0:
		return s.failf(op, domain.KindValidation, "Invalid TTL %d.", r.TTL)
	}
	return nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id int64) (*domain.ZoneTemplate, error) {
	return s.repo.GetZoneTemplate(ctx, id)
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]domain.ZoneTemplate, error) {
	return s.repo.ListZoneTemplates(ctx)
}

func (s *TemplateService) ListTemplateRecords(ctx context.Context, id int64) ([]domain.TemplateRecord, error) {
	return s.repo.ListTemplateRecords(ctx, id)
}
