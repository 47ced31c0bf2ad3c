package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
)

func scanDomain(s rowScanner) (*domain.Domain, error) {
	var d domain.Domain
	var master sql.NullString
	if err := s.Scan(&d.ID, &d.Name, &d.Type, &master); err != nil {
		return nil, err
	}
	d.Master = master.String
	return &d, nil
}

func (r *SQLRepository) CreateDomain(ctx context.Context, d *domain.Domain) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name, type, master) VALUES (?, ?, ?)`, r.t(TableDomains))
	id, err := r.insert(ctx, query, d.Name, string(d.Type), nullString(d.Master))
	if err != nil {
		if isDuplicateKey(err) {
			return 0, fmt.Errorf("domain %s: %w", d.Name, domain.ErrIntegrity)
		}
		return 0, err
	}
	d.ID = id
	return id, nil
}

func (r *SQLRepository) GetDomain(ctx context.Context, id int64) (*domain.Domain, error) {
	query := fmt.Sprintf(`SELECT id, name, type, master FROM %s WHERE id = ?`, r.t(TableDomains))
	d, err := scanDomain(r.queryRow(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (r *SQLRepository) GetDomainByName(ctx context.Context, name string) (*domain.Domain, error) {
	query := fmt.Sprintf(`SELECT id, name, type, master FROM %s WHERE name = ?`, r.t(TableDomains))
	d, err := scanDomain(r.queryRow(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (r *SQLRepository) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	query := fmt.Sprintf(`SELECT id, name, type, master FROM %s ORDER BY name`, r.t(TableDomains))
	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer r.closeRows(rows)

	var domains []domain.Domain
	for rows.Next() {
		d, errScan := scanDomain(rows)
		if errScan != nil {
			return nil, errScan
		}
		domains = append(domains, *d)
	}
	return domains, rows.Err()
}

// UpdateZoneType changes the kind of a domain. Leaving SLAVE clears master in the same
// statement.
func (r *SQLRepository) UpdateZoneType(ctx context.Context, id int64, zoneType domain.ZoneType) error {
	if zoneType == domain.ZoneSlave {
		query := fmt.Sprintf(`UPDATE %s SET type = ? WHERE id = ?`, r.t(TableDomains))
		_, err := r.exec(ctx, query, string(zoneType), id)
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET type = ?, master = ? WHERE id = ?`, r.t(TableDomains))
	_, err := r.exec(ctx, query, string(zoneType), "", id)
	return err
}

func (r *SQLRepository) UpdateDomainMaster(ctx context.Context, id int64, master string) error {
	query := fmt.Sprintf(`UPDATE %s SET master = ? WHERE id = ?`, r.t(TableDomains))
	_, err := r.exec(ctx, query, master, id)
	return err
}

// DeleteDomain removes a domain and everything hanging off it in one transaction.
func (r *SQLRepository) DeleteDomain(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(tx *SQLRepository) error {
		steps := []struct {
			what  string
			query string
		}{
			{"zones", `DELETE FROM zones WHERE domain_id = ?`},
			{"records", fmt.Sprintf(`DELETE FROM %s WHERE domain_id = ?`, tx.t(TableRecords))},
			{"template links", `DELETE FROM records_zone_templ WHERE domain_id = ?`},
			{"metadata", fmt.Sprintf(`DELETE FROM %s WHERE domain_id = ?`, tx.t(TableDomainMetadata))},
			{"domain", fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, tx.t(TableDomains))},
		}
		for _, s := range steps {
			if _, err := tx.exec(ctx, s.query, id); err != nil {
				return fmt.Errorf("delete %s of domain %d: %w", s.what, id, err)
			}
		}
		return nil
	})
}

func (r *SQLRepository) AddZoneOwner(ctx context.Context, owner domain.ZoneOwner) error {
	query := `INSERT INTO zones (domain_id, owner, zone_templ_id, comment) VALUES (?, ?, ?, ?)`
	_, err := r.exec(ctx, query, owner.DomainID, owner.Owner, owner.TemplateID, nullString(owner.Comment))
	return err
}

func (r *SQLRepository) DeleteZoneOwner(ctx context.Context, domainID, userID int64) error {
	_, err := r.exec(ctx, `DELETE FROM zones WHERE domain_id = ? AND owner = ?`, domainID, userID)
	return err
}

func (r *SQLRepository) ListZoneOwners(ctx context.Context, domainID int64) ([]domain.ZoneOwner, error) {
	rows, err := r.query(ctx, `SELECT domain_id, owner, zone_templ_id, comment FROM zones WHERE domain_id = ? ORDER BY owner`, domainID)
	if err != nil {
		return nil, err
	}
	defer r.closeRows(rows)

	var owners []domain.ZoneOwner
	for rows.Next() {
		var o domain.ZoneOwner
		var templID sql.NullInt64
		var comment sql.NullString
		if errScan := rows.Scan(&o.DomainID, &o.Owner, &templID, &comment); errScan != nil {
			return nil, errScan
		}
		o.TemplateID = templID.Int64
		o.Comment = comment.String
		owners = append(owners, o)
	}
	return owners, rows.Err()
}

func (r *SQLRepository) CountZoneOwners(ctx context.Context, domainID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM zones WHERE domain_id = ?`, domainID)
}

func (r *SQLRepository) IsZoneOwner(ctx context.Context, domainID, userID int64) (bool, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM zones WHERE domain_id = ? AND owner = ?`, domainID, userID)
	return n > 0, err
}

func (r *SQLRepository) SetZoneTemplateID(ctx context.Context, domainID, templateID int64) error {
	_, err := r.exec(ctx, `UPDATE zones SET zone_templ_id = ? WHERE domain_id = ?`, templateID, domainID)
	return err
}

func (r *SQLRepository) GetZoneComment(ctx context.Context, domainID int64) (string, error) {
	var comment sql.NullString
	err := r.queryRow(ctx, `SELECT comment FROM zones WHERE domain_id = ? ORDER BY id LIMIT 1`, domainID).Scan(&comment)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return comment.String, err
}

// SetZoneComment updates the comment on every ownership row of the domain. A domain
// without ownership rows gets a default one (owner 1, no template).
func (r *SQLRepository) SetZoneComment(ctx context.Context, domainID int64, comment string) error {
	return r.withTx(ctx, func(tx *SQLRepository) error {
		n, err := tx.CountZoneOwners(ctx, domainID)
		if err != nil {
			return err
		}
		if n > 0 {
			_, err = tx.exec(ctx, `UPDATE zones SET comment = ? WHERE domain_id = ?`, comment, domainID)
			return err
		}
		_, err = tx.exec(ctx, `INSERT INTO zones (domain_id, owner, comment, zone_templ_id) VALUES (?, ?, ?, ?)`,
			domainID, 1, comment, 0)
		return err
	})
}
