package confirm_reservation

import (
	"time"

	"github.com/carewave/appointment-service/internal/domain"
)

// Request модель запроса на подтверждение резервации
type Request struct {
	Caller domain.Caller // Вызывающий пользователь (пациент)
	SlotID int64         // ID зарезервированного слота
}

// Response модель ответа о подтвержденной записи
type Response struct {
	SlotID     int64     // ID слота
	ProviderID int64     // ID провайдера
	StartTime  time.Time // Начало приема
	EndTime    time.Time // Конец приема
}
