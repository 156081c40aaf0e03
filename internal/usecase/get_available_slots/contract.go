package get_available_slots

import (
	"context"
	"time"

	"github.com/carewave/appointment-service/internal/domain"
	"github.com/carewave/appointment-service/internal/infra/cache/availability"
	"github.com/carewave/appointment-service/internal/integrations/userservice"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// GetByProviderAndDay получает все слоты провайдера на конкретную дату
	GetByProviderAndDay(ctx context.Context, providerID int64, day time.Time) ([]*domain.AppointmentSlot, error)
}

// AvailabilityCache интерфейс кэша доступности
type AvailabilityCache interface {
	GetDay(ctx context.Context, providerID int64, day time.Time) ([]availability.SlotRecord, bool, error)
	SetDay(ctx context.Context, providerID int64, day time.Time, records []availability.SlotRecord) error
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	VerifyProvider(ctx context.Context, providerID int64) (*userservice.User, error)
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
