package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
)

// SupermasterService manages the global list of trusted supermasters.
type SupermasterService struct {
	base
}

func NewSupermasterService(d Deps) *SupermasterService {
	return &SupermasterService{base: newBase(d)}
}

// AddSupermaster registers ip/nameserver as a supermaster for account. The (ip, nameserver)
// pair must be new.
func (s *SupermasterService) AddSupermaster(ctx context.Context, ip, nameserver, account string) (err error) {
	const op = "add_supermaster"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	if !s.auth.HasPermission(ctx, domain.PermSupermasterAdd) {
		return s.failf(op, domain.KindPermission, "You do not have the permission to add a supermaster.")
	}

	ip = strings.TrimSpace(ip)
	nameserver = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(nameserver), "."))
	account = strings.TrimSpace(account)

	var problems []string
	if !domain.IsValidIP(ip) {
		problems = append(problems, fmt.Sprintf("%q is not a valid IPv4 or IPv6 address.", ip))
	}
	if err := domain.ValidateHostname(nameserver, false); err != nil {
		problems = append(problems, fmt.Sprintf("%q is not a valid hostname: %v.", nameserver, err))
	}
	if err := domain.ValidateAccount(account); err != nil {
		problems = append(problems, fmt.Sprintf("%q is not a valid account name.", account))
	}
	if len(problems) > 0 {
		return s.fail(op, &domain.ValidationError{Errors: problems}, "ip", ip)
	}

	exists, err := s.repo.SupermasterPairExists(ctx, ip, nameserver)
	if err != nil {
		return fmt.Errorf("check supermaster %s/%s: %w", ip, nameserver, err)
	}
	if exists {
		return s.failf(op, domain.KindIntegrity, "There is already a supermaster with IP address %s and nameserver %s.", ip, nameserver)
	}

	err = s.repo.CreateSupermaster(ctx, domain.Supermaster{IP: ip, Nameserver: nameserver, Account: account})
	if errors.Is(err, domain.ErrIntegrity) {
		return s.failf(op, domain.KindIntegrity, "There is already a supermaster with IP address %s and nameserver %s.", ip, nameserver)
	}
	if err != nil {
		return fmt.Errorf("add supermaster %s/%s: %w", ip, nameserver, err)
	}

	s.logger.Info("supermaster added", "ip", ip, "nameserver", nameserver, "account", account)
	return nil
}

// DeleteSupermaster removes the supermaster entry. At least one of ip and nameserver must be
// valid so the delete never runs with a filter that cannot match.
func (s *SupermasterService) DeleteSupermaster(ctx context.Context, ip, nameserver string) (err error) {
	const op = "delete_supermaster"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	if !s.auth.HasPermission(ctx, domain.PermSupermasterEdit) {
		return s.failf(op, domain.KindPermission, "You do not have the permission to delete a supermaster.")
	}

	ip = strings.TrimSpace(ip)
	nameserver = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(nameserver), "."))
	if !domain.IsValidIP(ip) && domain.ValidateHostname(nameserver, false) != nil {
		return s.failf(op, domain.KindValidation, "Invalid IP address or nameserver hostname.")
	}

	if err := s.repo.DeleteSupermaster(ctx, ip, nameserver); err != nil {
		return fmt.Errorf("delete supermaster %s/%s: %w", ip, nameserver, err)
	}
	s.logger.Info("supermaster deleted", "ip", ip, "nameserver", nameserver)
	return nil
}

func (s *SupermasterService) GetSupermasters(ctx context.Context) ([]domain.Supermaster, error) {
	return s.repo.ListSupermasters(ctx)
}

// GetSupermasterInfoFromIP returns the first supermaster registered for ip, nil if none.
func (s *SupermasterService) GetSupermasterInfoFromIP(ctx context.Context, ip string) (*domain.Supermaster, error) {
	ip = strings.TrimSpace(ip)
	if !domain.IsValidIP(ip) {
		return nil, s.failf("get_supermaster", domain.KindValidation, "%q is not a valid IPv4 or IPv6 address.", ip)
	}
	return s.repo.GetSupermasterByIP(ctx, ip)
}

// SupermasterExists reports whether any supermaster uses ip. An invalid ip yields false and
// a reported validation failure.
func (s *SupermasterService) SupermasterExists(ctx context.Context, ip string) (bool, error) {
	ip = strings.TrimSpace(ip)
	if !domain.IsValidIP(ip) {
		return false, s.failf("supermaster_exists", domain.KindValidation, "%q is not a valid IPv4 or IPv6 address.", ip)
	}
	return s.repo.SupermasterExists(ctx, ip)
}

// SupermasterIPNameExists reports whether the exact (ip, nameserver) pair is registered.
func (s *SupermasterService) SupermasterIPNameExists(ctx context.Context, ip, nameserver string) (bool, error) {
	ip = strings.TrimSpace(ip)
	if !domain.IsValidIP(ip) {
		return false, s.failf("supermaster_exists", domain.KindValidation, "%q is not a valid IPv4 or IPv6 address.", ip)
	}
	nameserver = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(nameserver), "."))
	return s.repo.SupermasterPairExists(ctx, ip, nameserver)
}
