package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
)

func (r *SQLRepository) CreateSupermaster(ctx context.Context, sm domain.Supermaster) error {
	query := fmt.Sprintf(`INSERT INTO %s (ip, nameserver, account) VALUES (?, ?, ?)`, r.t(TableSupermasters))
	if _, err := r.exec(ctx, query, sm.IP, sm.Nameserver, sm.Account); err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("supermaster %s/%s: %w", sm.IP, sm.Nameserver, domain.ErrIntegrity)
		}
		return err
	}
	return nil
}

func (r *SQLRepository) DeleteSupermaster(ctx context.Context, ip, nameserver string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE ip = ? AND nameserver = ?`, r.t(TableSupermasters))
	_, err := r.exec(ctx, query, ip, nameserver)
	return err
}

func (r *SQLRepository) ListSupermasters(ctx context.Context) ([]domain.Supermaster, error) {
	query := fmt.Sprintf(`SELECT ip, nameserver, account FROM %s ORDER BY ip, nameserver`, r.t(TableSupermasters))
	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer r.closeRows(rows)

	var list []domain.Supermaster
	for rows.Next() {
		var sm domain.Supermaster
		var account sql.NullString
		if errScan := rows.Scan(&sm.IP, &sm.Nameserver, &account); errScan != nil {
			return nil, errScan
		}
		sm.Account = account.String
		list = append(list, sm)
	}
	return list, rows.Err()
}

func (r *SQLRepository) GetSupermasterByIP(ctx context.Context, ip string) (*domain.Supermaster, error) {
	query := fmt.Sprintf(`SELECT ip, nameserver, account FROM %s WHERE ip = ? ORDER BY nameserver LIMIT 1`, r.t(TableSupermasters))
	var sm domain.Supermaster
	var account sql.NullString
	err := r.queryRow(ctx, query, ip).Scan(&sm.IP, &sm.Nameserver, &account)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sm.Account = account.String
	return &sm, nil
}

func (r *SQLRepository) SupermasterExists(ctx context.Context, ip string) (bool, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE ip = ?`, r.t(TableSupermasters))
	n, err := r.count(ctx, query, ip)
	return n > 0, err
}

func (r *SQLRepository) SupermasterPairExists(ctx context.Context, ip, nameserver string) (bool, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE ip = ? AND nameserver = ?`, r.t(TableSupermasters))
	n, err := r.count(ctx, query, ip, nameserver)
	return n > 0, err
}
