package reserve_appointment

import (
	"context"
	"time"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// HasHoldAtStart проверяет, держит ли пользователь слот с этим началом
	HasHoldAtStart(ctx context.Context, userID int64, start time.Time) (bool, error)
	// Reserve атомарно переводит свободный слот в reserved, возвращает ID слота
	Reserve(ctx context.Context, providerID int64, start time.Time, userID int64, until time.Time) (int64, error)
}

// AvailabilityCache интерфейс кэша доступности
type AvailabilityCache interface {
	InvalidateDays(ctx context.Context, providerID int64, days []time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
