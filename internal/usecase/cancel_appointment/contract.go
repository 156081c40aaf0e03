package cancel_appointment

import (
	"context"
	"time"

	"github.com/carewave/appointment-service/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.AppointmentSlot, error)
	// Release безусловно возвращает слот в available
	Release(ctx context.Context, id int64) error
}

// AvailabilityCache интерфейс кэша доступности
type AvailabilityCache interface {
	InvalidateDays(ctx context.Context, providerID int64, days []time.Time) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
