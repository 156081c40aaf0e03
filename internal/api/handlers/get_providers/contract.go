package get_providers

import (
	"context"

	"github.com/carewave/appointment-service/internal/domain"
	"github.com/carewave/appointment-service/internal/service/appointments/models"
)

type AppointmentsService interface {
	ListProviders(ctx context.Context, caller domain.Caller) (*models.ProviderListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
