package confirm_reservation

import (
	"time"

	confirmReservation "github.com/carewave/appointment-service/internal/usecase/confirm_reservation"
)

// ConfirmReservationRequest HTTP request model
type ConfirmReservationRequest struct {
	SlotID int64 `json:"slotId"`
}

// ConfirmReservationResponse HTTP response model
type ConfirmReservationResponse struct {
	Message   string `json:"message"`
	SlotID    int64  `json:"slotId"`
	StartTime string `json:"startTime"` // RFC3339
	EndTime   string `json:"endTime"`   // RFC3339
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmReservation.Response) *ConfirmReservationResponse {
	return &ConfirmReservationResponse{
		Message:   "запись успешно подтверждена",
		SlotID:    resp.SlotID,
		StartTime: resp.StartTime.UTC().Format(time.RFC3339),
		EndTime:   resp.EndTime.UTC().Format(time.RFC3339),
	}
}
