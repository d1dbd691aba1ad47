package infrastructure

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MessageDeduper remembers recently seen transport message IDs so that
// webhook redeliveries do not trigger duplicate replies. Backed by
// Redis when configured, with an in-process fallback otherwise (and on
// Redis errors, where failing open is preferred over dropping a
// customer message).
type MessageDeduper struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewMessageDeduper(client *redis.Client, ttl time.Duration, logger *slog.Logger) *MessageDeduper {
	d := &MessageDeduper{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "dedup"),
		seen:   make(map[string]time.Time),
	}
	if client == nil {
		go d.cleanup()
	}
	return d
}

// FirstSeen reports whether messageID has not been processed within the
// TTL window, marking it seen as a side effect. Empty IDs are always
// treated as first-seen.
func (d *MessageDeduper) FirstSeen(ctx context.Context, messageID string) bool {
	if messageID == "" {
		return true
	}

	if d.client != nil {
		ok, err := d.client.SetNX(ctx, "dedup:msg:"+messageID, 1, d.ttl).Result()
		if err != nil {
			d.logger.Warn("redis dedup check failed", "error", err)
			return true
		}
		return ok
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if at, ok := d.seen[messageID]; ok && time.Since(at) < d.ttl {
		return false
	}
	d.seen[messageID] = time.Now()
	return true
}

func (d *MessageDeduper) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		d.mu.Lock()
		now := time.Now()
		for id, at := range d.seen {
			if now.Sub(at) > d.ttl {
				delete(d.seen, id)
			}
		}
		d.mu.Unlock()
	}
}

// NewRedisClient connects to Redis, returning nil when no address is
// configured so callers can degrade to in-process behavior.
func NewRedisClient(ctx context.Context, addr, password string, db int, logger *slog.Logger) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, falling back to in-process dedup", "error", err)
		return nil
	}
	return client
}
