package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker shares per-user locks between processes. The TTL bounds how long a
// crashed holder can block others and must exceed the pass timeout.
type RedisLocker struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
	poll   time.Duration
}

func NewRedisLocker(log *logger.Logger, rdb goredis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		log:    log.With("component", "RedisLocker"),
		rdb:    rdb,
		prefix: "pie:lock:user:",
		ttl:    ttl,
		poll:   100 * time.Millisecond,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	key := l.prefix + userID.String()
	token := uuid.NewString()

	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, busy(userID, ctx.Err())
			}
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, busy(userID, ctx.Err())
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's ctx may already be cancelled; release on a fresh one.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.rdb, []string{key}, token).Err(); err != nil {
				l.log.Warn("Failed to release lock", "key", key, "error", err)
			}
		})
	}, nil
}
