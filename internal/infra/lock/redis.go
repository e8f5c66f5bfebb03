package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/logging"
)

const retryInterval = 25 * time.Millisecond

// releaseScript deletes the key only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a lock shared by every API instance. The key expires
// after ttl so a crashed holder cannot block a staff member for good.
type RedisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration, logger *zap.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if wait <= 0 {
		wait = 3 * time.Second
	}
	return &RedisLocker{
		rdb:    rdb,
		ttl:    ttl,
		wait:   wait,
		logger: logging.OrNop(logger),
	}
}

func (l *RedisLocker) Lock(ctx context.Context, tenantID, staffID uuid.UUID) (func(), error) {
	key := Key(tenantID, staffID)
	owner := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, key, owner, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			return l.releaser(key, owner), nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			l.logger.Warn("staff lock wait exceeded",
				zap.String("tenant_id", tenantID.String()),
				zap.String("staff_id", staffID.String()),
			)
			return nil, domain.ErrStaffBusy
		}
	}
}

func (l *RedisLocker) releaser(key, owner string) func() {
	return func() {
		// the caller's context may already be gone
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := releaseScript.Run(ctx, l.rdb, []string{key}, owner).Err(); err != nil && err != redis.Nil {
			l.logger.Warn("redis unlock failed", zap.String("key", key), zap.Error(err))
		}
	}
}

var _ domain.Locker = (*RedisLocker)(nil)
