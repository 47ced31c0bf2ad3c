package services

import (
	"context"
	"fmt"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/core/ports"
	"github.com/poyrazK/pdnsadmin/internal/infrastructure/metrics"
)

// maxSerialAttempts bounds the compare-and-swap loop on the SOA content.
const maxSerialAttempts = 5

// bumpSerial moves the zone's SOA serial forward. It returns the serial now stored, 0 when
// the zone has no SOA or uses automatic serials.
func (b *base) bumpSerial(ctx context.Context, repo ports.Repository, zoneID int64) (uint32, error) {
	for attempt := 0; attempt < maxSerialAttempts; attempt++ {
		soa, err := repo.GetSOARecord(ctx, zoneID)
		if err != nil {
			return 0, fmt.Errorf("get SOA of zone %d: %w", zoneID, err)
		}
		if soa == nil {
			return 0, nil
		}

		current, err := domain.GetSerial(soa.Content)
		if err != nil {
			metrics.SerialUpdates.WithLabelValues("unparseable").Inc()
			b.logger.Warn("SOA serial left unchanged", "zone_id", zoneID, "content", soa.Content, "error", err)
			return 0, nil
		}
		next := b.serials.Next(current)
		if next == current {
			if current != 0 {
				metrics.SerialUpdates.WithLabelValues("exhausted").Inc()
				b.logger.Warn("SOA serial cannot grow any further, left unchanged", "zone_id", zoneID, "serial", current)
			} else {
				metrics.SerialUpdates.WithLabelValues("auto").Inc()
			}
			return current, nil
		}

		content, err := domain.SetSerial(soa.Content, next)
		if err != nil {
			return 0, err
		}
		ok, err := repo.SwapRecordContent(ctx, soa.ID, soa.Content, content)
		if err != nil {
			return 0, fmt.Errorf("update SOA of zone %d: %w", zoneID, err)
		}
		if ok {
			metrics.SerialUpdates.WithLabelValues("bumped").Inc()
			return next, nil
		}
		metrics.SerialUpdates.WithLabelValues("retry").Inc()
		b.logger.Debug("SOA changed concurrently, retrying", "zone_id", zoneID, "attempt", attempt+1)
	}
	metrics.SerialUpdates.WithLabelValues("conflict").Inc()
	return 0, fmt.Errorf("SOA of zone %d changed concurrently %d times", zoneID, maxSerialAttempts)
}
