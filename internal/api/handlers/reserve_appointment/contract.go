package reserve_appointment

import (
	"context"

	reserveAppointment "github.com/carewave/appointment-service/internal/usecase/reserve_appointment"
)

type ReserveAppointmentUseCase interface {
	Execute(ctx context.Context, req *reserveAppointment.Request) (*reserveAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
