// Package guard keeps a single device from re-entering the submission flow for
// the same QR session. It is a UX guard against accidental double scans, not a
// security boundary: the device id is asserted by the client.
package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScanGuard records (session, device) pairs in Redis. Markers carry a TTL so
// sessions that are never cancelled do not leak keys forever.
type ScanGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *ScanGuard {
	return &ScanGuard{rdb: rdb, ttl: ttl}
}

func scanKey(sessionID, deviceID string) string {
	return fmt.Sprintf("scan:%s:%s", sessionID, deviceID)
}

// Allow reports whether this device may proceed for the session, claiming the
// slot as a side effect. SET NX makes the claim atomic, so two near-simultaneous
// scans from the same device (a double tap) resolve to one allow.
func (g *ScanGuard) Allow(ctx context.Context, sessionID, deviceID string) (bool, error) {
	ok, err := g.rdb.SetNX(ctx, scanKey(sessionID, deviceID), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("scan guard: %w", err)
	}
	return ok, nil
}

// Clear drops every device marker recorded under the session. Called when the
// session is finalized.
func (g *ScanGuard) Clear(ctx context.Context, sessionID string) error {
	keys, err := g.rdb.Keys(ctx, fmt.Sprintf("scan:%s:*", sessionID)).Result()
	if err != nil {
		return fmt.Errorf("scan guard: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := g.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("scan guard: %w", err)
	}
	return nil
}
