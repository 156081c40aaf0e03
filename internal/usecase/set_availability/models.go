package set_availability

import (
	"github.com/carewave/appointment-service/internal/domain"
)

// Request модель запроса на установку расписания доступности
type Request struct {
	Caller     domain.Caller   // Вызывающий пользователь
	ProviderID int64           // ID провайдера из URL
	Schedule   domain.Schedule // Расписание: недельные правила, исключения, ручные слоты
}

// Response модель ответа об установленной доступности
type Response struct {
	SlotsGenerated int // Сколько слотов-кандидатов развернуто из расписания
	SlotsCreated   int // Сколько новых слотов записано в хранилище
}
