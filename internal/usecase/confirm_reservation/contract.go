package confirm_reservation

import (
	"context"
	"time"

	"github.com/carewave/appointment-service/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.AppointmentSlot, error)
	// Confirm атомарно переводит reserved-слот держателя в booked
	Confirm(ctx context.Context, id int64, userID int64) error
}

// AvailabilityCache интерфейс кэша доступности
type AvailabilityCache interface {
	InvalidateDays(ctx context.Context, providerID int64, days []time.Time) error
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
