package reserve_appointment

import (
	"time"

	"github.com/carewave/appointment-service/internal/domain"
)

// Request модель запроса на резервирование слота
type Request struct {
	Caller     domain.Caller // Вызывающий пользователь (пациент)
	ProviderID int64         // ID провайдера
	StartTime  time.Time     // Точное время начала слота
}

// Response модель ответа с зарезервированным слотом
type Response struct {
	SlotID        int64     // ID зарезервированного слота
	ProviderID    int64     // ID провайдера
	StartTime     time.Time // Начало слота
	ReservedUntil time.Time // Дедлайн подтверждения резервации
}
