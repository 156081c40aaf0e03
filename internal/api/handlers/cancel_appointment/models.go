package cancel_appointment

import (
	cancelAppointment "github.com/carewave/appointment-service/internal/usecase/cancel_appointment"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	SlotID int64 `json:"slotId"`
}

// CancelAppointmentResponse HTTP response model
type CancelAppointmentResponse struct {
	Message string `json:"message"`
	SlotID  int64  `json:"slotId"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelAppointment.Response) *CancelAppointmentResponse {
	return &CancelAppointmentResponse{
		Message: "запись отменена",
		SlotID:  resp.SlotID,
	}
}
