package dnssec

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poyrazK/pdnsadmin/internal/core/ports"
)

// APIProvider implements the DNSSECProvider port against the PowerDNS HTTP API.
type APIProvider struct {
	baseURL string
	apiKey  string
	server  string
	client  *http.Client
	logger  *slog.Logger
}

// NewAPIProvider targets the API at baseURL (e.g. http://127.0.0.1:8081) for server
// "localhost".
func NewAPIProvider(baseURL, apiKey string, logger *slog.Logger) *APIProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		server:  "localhost",
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type apiZone struct {
	Name   string `json:"name"`
	DNSSEC bool   `json:"dnssec"`
}

type apiCryptoKey struct {
	ID     int  `json:"id"`
	Active bool `json:"active"`
}

// zonePath returns the API path of the zone; zone ids are canonical names.
func (p *APIProvider) zonePath(zone string, rest ...string) string {
	id := strings.TrimSuffix(zone, ".") + "."
	parts := append([]string{"api", "v1", "servers", p.server, "zones", url.PathEscape(id)}, rest...)
	return p.baseURL + "/" + strings.Join(parts, "/")
}

func (p *APIProvider) do(ctx context.Context, method, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			p.logger.Warn("failed to close response body", "error", errClose)
		}
	}()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, target, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", target, err)
	}
	return nil
}

func (p *APIProvider) IsZoneSecured(ctx context.Context, zone string) (bool, error) {
	var z apiZone
	if err := p.do(ctx, http.MethodGet, p.zonePath(zone)+"?rrsets=false", &z); err != nil {
		return false, err
	}
	return z.DNSSEC, nil
}

// UnsecureZone deletes every cryptokey of the zone.
func (p *APIProvider) UnsecureZone(ctx context.Context, zone string) error {
	var keys []apiCryptoKey
	if err := p.do(ctx, http.MethodGet, p.zonePath(zone, "cryptokeys"), &keys); err != nil {
		return err
	}
	for _, k := range keys {
		if err := p.do(ctx, http.MethodDelete, p.zonePath(zone, "cryptokeys", fmt.Sprint(k.ID)), nil); err != nil {
			return err
		}
	}
	p.logger.Info("DNSSEC disabled", "zone", zone, "keys_removed", len(keys))
	return nil
}

func (p *APIProvider) RectifyZone(ctx context.Context, zone string) error {
	return p.do(ctx, http.MethodPut, p.zonePath(zone, "rectify"), nil)
}

var _ ports.DNSSECProvider = (*APIProvider)(nil)
