package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker короткоживущие advisory-блокировки сверки кэша поверх Redis
// Блокировка на ключ берётся атомарным SET NX с TTL, чтобы упавший процесс
// не держал её вечно. Токен защищает от освобождения чужой блокировки
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocker создает новый Locker с заданным TTL блокировок
func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	return &Locker{
		client: client,
		ttl:    ttl,
	}
}

// LockKey возвращает ключ блокировки для ключа кэша
func LockKey(cacheKey string) string {
	return "lock:" + cacheKey
}

// Acquire пытается взять блокировку
// Возвращает токен владения и true при успехе; false, если блокировка
// уже удерживается другим процессом
func (l *Locker) Acquire(ctx context.Context, cacheKey string) (string, bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, LockKey(cacheKey), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("%w: Acquire: %v", ErrLock, err)
	}
	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

// Release освобождает блокировку, если токен совпадает
// Несовпадение токена означает, что TTL истёк и блокировку успел взять
// другой процесс - в этом случае ключ не трогаем
func (l *Locker) Release(ctx context.Context, cacheKey string, token string) error {
	key := LockKey(cacheKey)

	current, err := l.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: Release: %v", ErrLock, err)
	}

	if current != token {
		return nil
	}

	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: Release: %v", ErrLock, err)
	}

	return nil
}
