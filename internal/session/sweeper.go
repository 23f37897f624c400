package session

import (
	"context"
	"log/slog"
	"time"
)

// EvictCallback runs for every evicted session key.
type EvictCallback func(key string)

// StartSweeper evicts idle sessions every interval until ctx is done.
func StartSweeper(ctx context.Context, reg *Registry, interval, ttl time.Duration, onEvict EvictCallback) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Session sweeper started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				sweep(reg, ttl, onEvict)
			case <-ctx.Done():
				slog.Info("Session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func sweep(reg *Registry, ttl time.Duration, onEvict EvictCallback) {
	evicted := reg.Evict(ttl)
	if len(evicted) == 0 {
		return
	}
	slog.Info("Evicted idle sessions", "count", len(evicted), "remaining", reg.Len())
	if onEvict == nil {
		return
	}
	for _, key := range evicted {
		onEvict(key)
	}
}
