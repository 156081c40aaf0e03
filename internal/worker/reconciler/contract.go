package reconciler

import (
	"context"
	"time"

	"github.com/carewave/appointment-service/internal/domain"
	"github.com/carewave/appointment-service/internal/infra/cache/availability"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByProviderAndDay(ctx context.Context, providerID int64, day time.Time) ([]*domain.AppointmentSlot, error)
	// ReclaimExpired возвращает в available резервации с истекшим сроком
	ReclaimExpired(ctx context.Context, now time.Time) ([]*domain.AppointmentSlot, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	ListProviderIDs(ctx context.Context) ([]int64, error)
}

// AvailabilityCache интерфейс кэша доступности
type AvailabilityCache interface {
	GetDay(ctx context.Context, providerID int64, day time.Time) ([]availability.SlotRecord, bool, error)
	SetDay(ctx context.Context, providerID int64, day time.Time, records []availability.SlotRecord) error
	InvalidateDays(ctx context.Context, providerID int64, days []time.Time) error
}

// Locker интерфейс краткоживущих блокировок сверки
type Locker interface {
	Acquire(ctx context.Context, cacheKey string) (token string, ok bool, err error)
	Release(ctx context.Context, cacheKey string, token string) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
