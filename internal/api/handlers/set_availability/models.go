package set_availability

import (
	"github.com/carewave/appointment-service/internal/domain"
	setAvailability "github.com/carewave/appointment-service/internal/usecase/set_availability"
)

// SetAvailabilityRequest HTTP request model
// Тело повторяет структуру расписания: недельные правила,
// исключения по датам и ручные слоты
type SetAvailabilityRequest struct {
	GeneralSchedule *domain.GeneralSchedule  `json:"general_schedule,omitempty"`
	Exceptions      []domain.DateException   `json:"exceptions,omitempty"`
	ManualSlots     []domain.ManualSlotEntry `json:"manual_appointment_slots,omitempty"`
}

// SetAvailabilityResponse HTTP response model
type SetAvailabilityResponse struct {
	Message        string `json:"message"`
	SlotsGenerated int    `json:"slotsGenerated"`
	SlotsCreated   int    `json:"slotsCreated"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SetAvailabilityRequest) ToUseCaseRequest(caller domain.Caller, providerID int64) *setAvailability.Request {
	return &setAvailability.Request{
		Caller:     caller,
		ProviderID: providerID,
		Schedule: domain.Schedule{
			General:     r.GeneralSchedule,
			Exceptions:  r.Exceptions,
			ManualSlots: r.ManualSlots,
		},
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *setAvailability.Response) *SetAvailabilityResponse {
	return &SetAvailabilityResponse{
		Message:        "расписание доступности сохранено",
		SlotsGenerated: resp.SlotsGenerated,
		SlotsCreated:   resp.SlotsCreated,
	}
}
