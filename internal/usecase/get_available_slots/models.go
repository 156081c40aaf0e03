package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	ProviderID int64      // ID провайдера
	StartDate  *time.Time // Начало диапазона (по умолчанию сегодня)
	EndDate    *time.Time // Конец диапазона включительно (по умолчанию начало + 7 дней)
}

// AvailableSlot публичное представление слота без приватных полей
type AvailableSlot struct {
	ID         int64     // ID слота
	ProviderID int64     // ID провайдера
	StartTime  time.Time // Начало слота
	EndTime    time.Time // Конец слота
	Status     string    // Статус слота
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Slots []AvailableSlot // Доступные слоты, отсортированные по времени начала
}
