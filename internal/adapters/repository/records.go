package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
)

const recordColumns = `id, domain_id, name, type, content, ttl, prio, disabled`

func scanRecord(s rowScanner) (*domain.Record, error) {
	var rec domain.Record
	var content sql.NullString
	var ttl, prio sql.NullInt64
	var disabled sql.NullBool
	if err := s.Scan(&rec.ID, &rec.DomainID, &rec.Name, &rec.Type, &content, &ttl, &prio, &disabled); err != nil {
		return nil, err
	}
	rec.Content = content.String
	rec.TTL = int(ttl.Int64)
	rec.Prio = int(prio.Int64)
	rec.Disabled = disabled.Bool
	return &rec, nil
}

func (r *SQLRepository) listRecords(ctx context.Context, query string, args ...any) ([]domain.Record, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer r.closeRows(rows)

	var records []domain.Record
	for rows.Next() {
		rec, errScan := scanRecord(rows)
		if errScan != nil {
			return nil, errScan
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *SQLRepository) CreateRecord(ctx context.Context, rec *domain.Record) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO %s (domain_id, name, type, content, ttl, prio, disabled) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.t(TableRecords))
	id, err := r.insert(ctx, query, rec.DomainID, rec.Name, string(rec.Type), rec.Content, rec.TTL, rec.Prio, rec.Disabled)
	if err != nil {
		return 0, err
	}
	rec.ID = id
	return id, nil
}

func (r *SQLRepository) GetRecord(ctx context.Context, id int64) (*domain.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, recordColumns, r.t(TableRecords))
	rec, err := scanRecord(r.queryRow(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *SQLRepository) ListRecords(ctx context.Context, domainID int64) ([]domain.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE domain_id = ? ORDER BY name, type, id`, recordColumns, r.t(TableRecords))
	return r.listRecords(ctx, query, domainID)
}

func (r *SQLRepository) ListRecordsByName(ctx context.Context, domainID int64, name string) ([]domain.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE domain_id = ? AND name = ? ORDER BY type, id`, recordColumns, r.t(TableRecords))
	return r.listRecords(ctx, query, domainID, name)
}

func (r *SQLRepository) UpdateRecord(ctx context.Context, rec *domain.Record) error {
	query := fmt.Sprintf(`UPDATE %s SET name = ?, type = ?, content = ?, ttl = ?, prio = ?, disabled = ? WHERE id = ?`,
		r.t(TableRecords))
	_, err := r.exec(ctx, query, rec.Name, string(rec.Type), rec.Content, rec.TTL, rec.Prio, rec.Disabled, rec.ID)
	return err
}

func (r *SQLRepository) DeleteRecord(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.t(TableRecords))
	_, err := r.exec(ctx, query, id)
	return err
}

func (r *SQLRepository) DeleteRecordsByType(ctx context.Context, domainID int64, t domain.RecordType) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE domain_id = ? AND type = ?`, r.t(TableRecords))
	_, err := r.exec(ctx, query, domainID, string(t))
	return err
}

func (r *SQLRepository) RecordExists(ctx context.Context, domainID int64, name string, t domain.RecordType, content string, excludeID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE domain_id = ? AND name = ? AND type = ? AND content = ? AND id <> ?`,
		r.t(TableRecords))
	n, err := r.count(ctx, query, domainID, name, string(t), content, excludeID)
	return n > 0, err
}

func (r *SQLRepository) GetSOARecord(ctx context.Context, domainID int64) (*domain.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE domain_id = ? AND type = ? ORDER BY id LIMIT 1`, recordColumns, r.t(TableRecords))
	rec, err := scanRecord(r.queryRow(ctx, query, domainID, string(domain.TypeSOA)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// SwapRecordContent is a compare-and-swap on the content column.
func (r *SQLRepository) SwapRecordContent(ctx context.Context, id int64, oldContent, newContent string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET content = ? WHERE id = ? AND content = ?`, r.t(TableRecords))
	res, err := r.exec(ctx, query, newContent, id, oldContent)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *SQLRepository) CreateTemplateLink(ctx context.Context, link domain.TemplateLink) error {
	_, err := r.exec(ctx, `INSERT INTO records_zone_templ (domain_id, record_id, zone_templ_id) VALUES (?, ?, ?)`,
		link.DomainID, link.RecordID, link.TemplateID)
	return err
}

func (r *SQLRepository) DeleteTemplateLinksForRecord(ctx context.Context, recordID int64) error {
	_, err := r.exec(ctx, `DELETE FROM records_zone_templ WHERE record_id = ?`, recordID)
	return err
}

func (r *SQLRepository) DeleteTemplateLinksForDomain(ctx context.Context, domainID int64) error {
	_, err := r.exec(ctx, `DELETE FROM records_zone_templ WHERE domain_id = ?`, domainID)
	return err
}

// DeleteTemplateRecords removes the records of a domain that were materialized from the
// template. Link rows are left for DeleteTemplateLinksForDomain.
func (r *SQLRepository) DeleteTemplateRecords(ctx context.Context, domainID, templateID int64) error {
	var query string
	records := r.t(TableRecords)
	switch r.dialect {
	case PostgreSQL:
		query = fmt.Sprintf(`DELETE FROM %s r USING records_zone_templ rzt
			WHERE rzt.domain_id = ? AND rzt.zone_templ_id = ? AND r.id = rzt.record_id`, records)
	case SQLite:
		query = fmt.Sprintf(`DELETE FROM %[1]s WHERE id IN (SELECT r.id FROM %[1]s r
			INNER JOIN records_zone_templ rzt ON r.id = rzt.record_id
			WHERE rzt.domain_id = ? AND rzt.zone_templ_id = ?)`, records)
	default:
		query = fmt.Sprintf(`DELETE r FROM %s r INNER JOIN records_zone_templ rzt ON r.id = rzt.record_id
			WHERE rzt.domain_id = ? AND rzt.zone_templ_id = ?`, records)
	}
	_, err := r.exec(ctx, query, domainID, templateID)
	return err
}
