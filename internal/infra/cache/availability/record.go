package availability

import (
	"time"

	"github.com/carewave/appointment-service/internal/domain"
	"github.com/carewave/appointment-service/pkg/ptr"
)

// SlotRecord каноническая сериализация слота в кэше.
// Кэш всегда хранит полную запись; видимость приватных полей решается
// на уровне usecase при отдаче наружу. Запись сравнивается по полному
// кортежу полей при сверке кэша с хранилищем.
type SlotRecord struct {
	ID            int64   `json:"id"`
	ProviderID    int64   `json:"provider_id"`
	StartTime     string  `json:"start_time"` // RFC3339, UTC
	EndTime       string  `json:"end_time"`
	Status        string  `json:"status"`
	ClientID      *int64  `json:"client_id"`
	ReservedBy    *int64  `json:"reserved_by"`
	ReservedUntil *string `json:"reserved_until"`
	Confirmed     bool    `json:"confirmed"`
}

// RecordFromSlot конвертирует доменный слот в кэшируемую запись
func RecordFromSlot(slot *domain.AppointmentSlot) SlotRecord {
	record := SlotRecord{
		ID:         slot.ID,
		ProviderID: slot.ProviderID,
		StartTime:  slot.StartTime.UTC().Format(time.RFC3339),
		EndTime:    slot.EndTime.UTC().Format(time.RFC3339),
		Status:     string(slot.Status),
		ClientID:   slot.ClientID,
		ReservedBy: slot.ReservedBy,
		Confirmed:  slot.Confirmed,
	}
	if slot.ReservedUntil != nil {
		record.ReservedUntil = ptr.Ptr(slot.ReservedUntil.UTC().Format(time.RFC3339))
	}
	return record
}

// RecordsFromSlots конвертирует слайс доменных слотов в кэшируемые записи
func RecordsFromSlots(slots []*domain.AppointmentSlot) []SlotRecord {
	records := make([]SlotRecord, len(slots))
	for i, slot := range slots {
		records[i] = RecordFromSlot(slot)
	}
	return records
}

// Key возвращает ключ сравнения записи: полный кортеж полей
// Указатели разыменовываются, чтобы записи сравнивались по значениям
func (r SlotRecord) Key() RecordKey {
	key := RecordKey{
		ID:         r.ID,
		ProviderID: r.ProviderID,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Status:     r.Status,
		Confirmed:  r.Confirmed,
	}
	if r.ClientID != nil {
		key.ClientID = *r.ClientID
		key.HasClientID = true
	}
	if r.ReservedBy != nil {
		key.ReservedBy = *r.ReservedBy
		key.HasReservedBy = true
	}
	if r.ReservedUntil != nil {
		key.ReservedUntil = *r.ReservedUntil
		key.HasReservedUntil = true
	}
	return key
}

// RecordKey сравнимое представление записи для структурного диффа
type RecordKey struct {
	ID               int64
	ProviderID       int64
	StartTime        string
	EndTime          string
	Status           string
	Confirmed        bool
	ClientID         int64
	HasClientID      bool
	ReservedBy       int64
	HasReservedBy    bool
	ReservedUntil    string
	HasReservedUntil bool
}
