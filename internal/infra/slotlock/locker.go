package slotlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrLockNotAcquired возвращается, когда блокировка слота занята
	// другим обработчиком
	ErrLockNotAcquired = errors.New("slotlock: slot lock not acquired")
)

// Locker межпроцессная блокировка по ID слота
// Сериализует последовательности "проверка занятости - назначение позиции"
// между экземплярами сервиса; внутри БД дополнительно действует
// сериализуемая транзакция
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocker создает блокировщик слотов поверх Redis
func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	return &Locker{
		client: client,
		ttl:    ttl,
	}
}

// WithSlotLock выполняет fn под блокировкой слота
// Блокировка захватывается через SET NX с TTL и снимается только владельцем
// (сверка токена в Lua скрипте)
func (l *Locker) WithSlotLock(ctx context.Context, slotID int64, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:slot:%d", slotID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("slotlock: acquire lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *Locker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("slotlock: release lock: %w", err)
	}
	return nil
}
