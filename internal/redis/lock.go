package redisclient

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("timeslot lock not acquired")
)

// Locker guards critical sections per timeslot. Booking operations that
// touch more than one slot (paired registration, two-leg reschedule) lock
// all of them for the duration of the callback.
type Locker interface {
	WithSlotLocks(ctx context.Context, slotIDs []uuid.UUID, fn func(ctx context.Context) error) error
}

type redisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlotLocker creates a locker that uses one Redis key per timeslot.
func NewRedisSlotLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisSlotLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisSlotLocker) WithSlotLocks(ctx context.Context, slotIDs []uuid.UUID, fn func(ctx context.Context) error) error {
	// Deduplicate and sort so two operations locking the same pair of slots
	// always acquire in the same order.
	seen := make(map[uuid.UUID]struct{}, len(slotIDs))
	ids := make([]uuid.UUID, 0, len(slotIDs))
	for _, id := range slotIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	token := uuid.NewString()
	var held []string

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			_ = l.release(ctx, held[i], token)
		}
	}

	for _, id := range ids {
		key := fmt.Sprintf("lock:timeslot:%s", id.String())
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			release()
			return fmt.Errorf("acquire timeslot lock: %w", err)
		}
		if !ok {
			release()
			return ErrLockNotAcquired
		}
		held = append(held, key)
	}

	defer release()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisSlotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release timeslot lock: %w", err)
	}
	return nil
}
