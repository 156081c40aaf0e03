package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carewave/appointment-service/internal/domain"
)

// Cache кэш дневной доступности провайдеров поверх Redis
// Ключ - пара (провайдер, календарная дата), значение - JSON список записей
// слотов за день. Кэш - проекция для быстрого чтения, источником истины
// всегда остаётся хранилище
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache создает новый кэш доступности с заданным TTL записей
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

// DayKey возвращает ключ кэша для провайдера и даты
func DayKey(providerID int64, day time.Time) string {
	return fmt.Sprintf("provider:%d:timeslots:%s", providerID, day.UTC().Format(domain.DateFormat))
}

// GetDay читает кэшированные слоты на дату
// Возвращает (nil, false, nil) при промахе кэша
func (c *Cache) GetDay(ctx context.Context, providerID int64, day time.Time) ([]SlotRecord, bool, error) {
	data, err := c.client.Get(ctx, DayKey(providerID, day)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: GetDay: %v", ErrCacheGet, err)
	}

	var records []SlotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("%w: GetDay: %v", ErrDecodeEntry, err)
	}

	return records, true, nil
}

// SetDay записывает слоты на дату с TTL
func (c *Cache) SetDay(ctx context.Context, providerID int64, day time.Time, records []SlotRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: SetDay: %v", ErrEncodeEntry, err)
	}

	if err := c.client.Set(ctx, DayKey(providerID, day), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: SetDay: %v", ErrCacheSet, err)
	}

	return nil
}

// InvalidateDays удаляет кэшированные записи на указанные даты
// Вызывается после любой мутации слотов: запись в кэше станет
// консистентной при следующем чтении или проходе сверки
func (c *Cache) InvalidateDays(ctx context.Context, providerID int64, days []time.Time) error {
	if len(days) == 0 {
		return nil
	}

	keys := make([]string, len(days))
	for i, day := range days {
		keys[i] = DayKey(providerID, day)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: InvalidateDays: %v", ErrCacheDelete, err)
	}

	return nil
}
