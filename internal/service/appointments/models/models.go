package models

import (
	"time"

	"github.com/carewave/appointment-service/internal/domain"
	"github.com/carewave/appointment-service/internal/integrations/userservice"
	"github.com/carewave/appointment-service/pkg/ptr"
)

// Request модели

// GetBookedAppointmentsRequest запрос на получение занятых слотов провайдера
type GetBookedAppointmentsRequest struct {
	Caller     domain.Caller `json:"-"`
	ProviderID int64         `json:"providerId"`
	StartDate  *time.Time    `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate    *time.Time    `json:"endDate,omitempty"`   // Конец периода (опционально)
}

// Response модели

// AppointmentResponse ответ с данными занятого слота
// Приватные поля заполняются только для провайдера-владельца
type AppointmentResponse struct {
	ID         int64  `json:"id"`
	ProviderID int64  `json:"providerId"`
	StartTime  string `json:"startTime"` // RFC3339
	EndTime    string `json:"endTime"`   // RFC3339
	Status     string `json:"status"`

	ClientID      *int64  `json:"clientId,omitempty"`
	ReservedBy    *int64  `json:"reservedBy,omitempty"`
	ReservedUntil *string `json:"reservedUntil,omitempty"`
	Confirmed     *bool   `json:"confirmed,omitempty"`
}

// AppointmentListResponse ответ со списком занятых слотов
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// ProviderResponse ответ с данными провайдера
type ProviderResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProviderListResponse ответ со списком провайдеров
type ProviderListResponse struct {
	Providers []ProviderResponse `json:"providers"`
}

// FromDomainSlot конвертирует domain слот в response
// includePrivate управляет видимостью полей держателя и подтверждения
func FromDomainSlot(slot *domain.AppointmentSlot, includePrivate bool) AppointmentResponse {
	resp := AppointmentResponse{
		ID:         slot.ID,
		ProviderID: slot.ProviderID,
		StartTime:  slot.StartTime.UTC().Format(time.RFC3339),
		EndTime:    slot.EndTime.UTC().Format(time.RFC3339),
		Status:     string(slot.Status),
	}

	if includePrivate {
		resp.ClientID = slot.ClientID
		resp.ReservedBy = slot.ReservedBy
		if slot.ReservedUntil != nil {
			resp.ReservedUntil = ptr.Ptr(slot.ReservedUntil.UTC().Format(time.RFC3339))
		}
		resp.Confirmed = ptr.Ptr(slot.Confirmed)
	}

	return resp
}

// FromDomainSlotList конвертирует список слотов в response
func FromDomainSlotList(slots []*domain.AppointmentSlot, includePrivate bool) *AppointmentListResponse {
	appointments := make([]AppointmentResponse, 0, len(slots))
	for _, slot := range slots {
		appointments = append(appointments, FromDomainSlot(slot, includePrivate))
	}
	return &AppointmentListResponse{Appointments: appointments}
}

// FromUserList конвертирует список пользователей UserService в response
func FromUserList(users []userservice.User) *ProviderListResponse {
	providers := make([]ProviderResponse, 0, len(users))
	for _, u := range users {
		providers = append(providers, ProviderResponse{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
		})
	}
	return &ProviderListResponse{Providers: providers}
}
