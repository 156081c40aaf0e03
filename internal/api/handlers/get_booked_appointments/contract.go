package get_booked_appointments

import (
	"context"

	"github.com/carewave/appointment-service/internal/service/appointments/models"
)

type AppointmentsService interface {
	GetBookedAppointments(ctx context.Context, req *models.GetBookedAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
