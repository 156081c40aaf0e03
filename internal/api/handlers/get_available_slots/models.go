package get_available_slots

import (
	"time"

	getAvailableSlots "github.com/carewave/appointment-service/internal/usecase/get_available_slots"
)

// TimeSlotResponse HTTP модель доступного слота
type TimeSlotResponse struct {
	ID         int64  `json:"id"`
	ProviderID int64  `json:"providerId"`
	StartTime  string `json:"startTime"` // RFC3339
	EndTime    string `json:"endTime"`   // RFC3339
	Status     string `json:"status"`
}

// TimeSlotListResponse HTTP модель списка доступных слотов
type TimeSlotListResponse struct {
	Slots []TimeSlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *TimeSlotListResponse {
	slots := make([]TimeSlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, TimeSlotResponse{
			ID:         s.ID,
			ProviderID: s.ProviderID,
			StartTime:  s.StartTime.UTC().Format(time.RFC3339),
			EndTime:    s.EndTime.UTC().Format(time.RFC3339),
			Status:     s.Status,
		})
	}
	return &TimeSlotListResponse{Slots: slots}
}
