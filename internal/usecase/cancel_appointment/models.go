package cancel_appointment

import (
	"github.com/carewave/appointment-service/internal/domain"
)

// Request модель запроса на отмену записи
type Request struct {
	Caller domain.Caller // Вызывающий пользователь (пациент или провайдер)
	SlotID int64         // ID слота
}

// Response модель ответа об отмененной записи
type Response struct {
	SlotID int64 // ID освобожденного слота
}
