package dnssec

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/core/ports"
)

// commandExecutor allows mocking exec.Command for testing
type commandExecutor interface {
	Run(ctx context.Context, name string, arg ...string) ([]byte, error)
}

type realExecutor struct{}

func (e *realExecutor) Run(ctx context.Context, name string, arg ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, arg...).CombinedOutput()
}

// notSecuredMarker is what pdnsutil show-zone prints for zones without active keys.
const notSecuredMarker = "Zone is not actively secured"

// PdnsutilProvider implements the DNSSECProvider port by running pdnsutil on the
// PowerDNS host.
type PdnsutilProvider struct {
	logger    *slog.Logger
	executor  commandExecutor
	path      string
	configDir string
}

// NewPdnsutilProvider initializes a provider calling the pdnsutil binary at path. An empty
// configDir leaves pdnsutil on its default configuration.
func NewPdnsutilProvider(path, configDir string, logger *slog.Logger) *PdnsutilProvider {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		path = "pdnsutil"
	}
	return &PdnsutilProvider{
		logger:    logger,
		executor:  &realExecutor{},
		path:      path,
		configDir: configDir,
	}
}

func (p *PdnsutilProvider) run(ctx context.Context, command, zone string) (string, error) {
	if err := domain.ValidateZoneName(zone); err != nil {
		return "", fmt.Errorf("invalid zone name: %w", err)
	}
	var args []string
	if p.configDir != "" {
		args = append(args, "--config-dir="+p.configDir)
	}
	args = append(args, command, zone)

	output, err := p.executor.Run(ctx, p.path, args...)
	outStr := strings.TrimSpace(string(output))
	if err != nil {
		p.logger.Warn("pdnsutil command failed", "command", command, "zone", zone, "error", err, "output", outStr)
		return outStr, fmt.Errorf("pdnsutil %s %s: %w (output: %s)", command, zone, err, outStr)
	}
	return outStr, nil
}

// IsZoneSecured reports whether the zone has active DNSSEC keys.
func (p *PdnsutilProvider) IsZoneSecured(ctx context.Context, zone string) (bool, error) {
	out, err := p.run(ctx, "show-zone", zone)
	if err != nil {
		return false, err
	}
	return !strings.Contains(out, notSecuredMarker), nil
}

// UnsecureZone removes every DNSSEC key of the zone.
func (p *PdnsutilProvider) UnsecureZone(ctx context.Context, zone string) error {
	if _, err := p.run(ctx, "disable-dnssec", zone); err != nil {
		return err
	}
	p.logger.Info("DNSSEC disabled", "zone", zone)
	return nil
}

// RectifyZone recomputes ordername and auth fields of the zone.
func (p *PdnsutilProvider) RectifyZone(ctx context.Context, zone string) error {
	out, err := p.run(ctx, "rectify-zone", zone)
	if err != nil {
		return err
	}
	p.logger.Debug("zone rectified", "zone", zone, "output", out)
	return nil
}

var _ ports.DNSSECProvider = (*PdnsutilProvider)(nil)
