package appointments

import (
	"context"
	"time"

	"github.com/carewave/appointment-service/internal/domain"
	"github.com/carewave/appointment-service/internal/integrations/userservice"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// GetOccupiedByProviderAndRange получает занятые слоты провайдера в диапазоне
	GetOccupiedByProviderAndRange(ctx context.Context, providerID int64, from, to time.Time) ([]*domain.AppointmentSlot, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	VerifyProvider(ctx context.Context, providerID int64) (*userservice.User, error)
	ListProviders(ctx context.Context) ([]userservice.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
