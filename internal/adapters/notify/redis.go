package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/core/ports"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel zone changes are published on.
const DefaultChannel = "pdns:zone_changes"

// lastChangeTTL bounds how long the per zone "last change" key is kept.
const lastChangeTTL = 7 * 24 * time.Hour

// RedisNotifier publishes committed zone changes to Redis so caches and secondary tooling
// can react. It also keeps the latest change of each zone under pdns:zone:<name>:last.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(addr string, password string, db int, channel string) *RedisNotifier {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisNotifier{client: rdb, channel: channel}
}

func lastChangeKey(zone string) string {
	return "pdns:zone:" + zone + ":last"
}

// ZoneChanged publishes the change as JSON.
func (r *RedisNotifier) ZoneChanged(ctx context.Context, change domain.ZoneChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode zone change: %w", err)
	}
	pipe := r.client.Pipeline()
	pipe.Set(ctx, lastChangeKey(change.Zone), payload, lastChangeTTL)
	pipe.Publish(ctx, r.channel, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish change of %s: %w", change.Zone, err)
	}
	return nil
}

// LastChange returns the most recent change published for zone, nil if none is known.
func (r *RedisNotifier) LastChange(ctx context.Context, zone string) (*domain.ZoneChange, error) {
	val, err := r.client.Get(ctx, lastChangeKey(zone)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var change domain.ZoneChange
	if err := json.Unmarshal(val, &change); err != nil {
		return nil, fmt.Errorf("decode zone change: %w", err)
	}
	return &change, nil
}

// Subscribe returns a subscription to the change channel once Redis has confirmed it.
func (r *RedisNotifier) Subscribe(ctx context.Context) (*redis.PubSub, error) {
	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", r.channel, err)
	}
	return pubsub, nil
}

func (r *RedisNotifier) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisNotifier) Close() error {
	return r.client.Close()
}

var _ ports.ChangeNotifier = (*RedisNotifier)(nil)
