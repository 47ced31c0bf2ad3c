package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
)

func scanTemplate(s rowScanner) (*domain.ZoneTemplate, error) {
	var t domain.ZoneTemplate
	var descr sql.NullString
	if err := s.Scan(&t.ID, &t.Name, &descr, &t.Owner); err != nil {
		return nil, err
	}
	t.Description = descr.String
	return &t, nil
}

func (r *SQLRepository) CreateZoneTemplate(ctx context.Context, t *domain.ZoneTemplate) (int64, error) {
	id, err := r.insert(ctx, `INSERT INTO zone_templ (name, descr, owner) VALUES (?, ?, ?)`, t.Name, t.Description, t.Owner)
	if err != nil {
		return 0, err
	}
	t.ID = id
	return id, nil
}

func (r *SQLRepository) GetZoneTemplate(ctx context.Context, id int64) (*domain.ZoneTemplate, error) {
	t, err := scanTemplate(r.queryRow(ctx, `SELECT id, name, descr, owner FROM zone_templ WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (r *SQLRepository) ListZoneTemplates(ctx context.Context) ([]domain.ZoneTemplate, error) {
	rows, err := r.query(ctx, `SELECT id, name, descr, owner FROM zone_templ ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer r.closeRows(rows)

	var templates []domain.ZoneTemplate
	for rows.Next() {
		t, errScan := scanTemplate(rows)
		if errScan != nil {
			return nil, errScan
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (r *SQLRepository) CreateTemplateRecord(ctx context.Context, tr *domain.TemplateRecord) (int64, error) {
	id, err := r.insert(ctx, `INSERT INTO zone_templ_records (zone_templ_id, name, type, content, ttl, prio) VALUES (?, ?, ?, ?, ?, ?)`,
		tr.TemplateID, tr.Name, string(tr.Type), tr.Content, tr.TTL, tr.Prio)
	if err != nil {
		return 0, err
	}
	tr.ID = id
	return id, nil
}

func (r *SQLRepository) ListTemplateRecords(ctx context.Context, templateID int64) ([]domain.TemplateRecord, error) {
	rows, err := r.query(ctx, `SELECT id, zone_templ_id, name, type, content, ttl, prio FROM zone_templ_records
		WHERE zone_templ_id = ? ORDER BY id`, templateID)
	if err != nil {
		return nil, err
	}
	defer r.closeRows(rows)

	var records []domain.TemplateRecord
	for rows.Next() {
		var tr domain.TemplateRecord
		var ttl, prio sql.NullInt64
		if errScan := rows.Scan(&tr.ID, &tr.TemplateID, &tr.Name, &tr.Type, &tr.Content, &ttl, &prio); errScan != nil {
			return nil, errScan
		}
		tr.TTL = int(ttl.Int64)
		tr.Prio = int(prio.Int64)
		records = append(records, tr)
	}
	return records, rows.Err()
}
