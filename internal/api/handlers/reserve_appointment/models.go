package reserve_appointment

import (
	"time"

	"github.com/carewave/appointment-service/internal/domain"
	reserveAppointment "github.com/carewave/appointment-service/internal/usecase/reserve_appointment"
)

// ReserveAppointmentRequest HTTP request model
type ReserveAppointmentRequest struct {
	ProviderID int64  `json:"providerId"`
	StartTime  string `json:"startTime"` // RFC3339
}

// ReserveAppointmentResponse HTTP response model
type ReserveAppointmentResponse struct {
	Message       string `json:"message"`
	SlotID        int64  `json:"slotId"`
	ReservedUntil string `json:"reservedUntil"` // RFC3339
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveAppointmentRequest) ToUseCaseRequest(caller domain.Caller) (*reserveAppointment.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	return &reserveAppointment.Request{
		Caller:     caller,
		ProviderID: r.ProviderID,
		StartTime:  start.UTC(),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveAppointment.Response) *ReserveAppointmentResponse {
	return &ReserveAppointmentResponse{
		Message:       "слот успешно зарезервирован",
		SlotID:        resp.SlotID,
		ReservedUntil: resp.ReservedUntil.UTC().Format(time.RFC3339),
	}
}
