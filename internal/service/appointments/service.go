package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carewave/appointment-service/internal/domain"
	userClient "github.com/carewave/appointment-service/internal/integrations/userservice"
	"github.com/carewave/appointment-service/internal/service/appointments/models"
)

// Service сервис для чтения занятых слотов и справочника провайдеров
type Service struct {
	slotRepo   SlotRepository
	userClient UserServiceClient
	logger     Logger
}

// NewService создает новый экземпляр сервиса
func NewService(slotRepo SlotRepository, userClient UserServiceClient, logger Logger) *Service {
	return &Service{
		slotRepo:   slotRepo,
		userClient: userClient,
		logger:     logger,
	}
}

// GetBookedAppointments получает занятые (reserved и booked) слоты провайдера
// Приватные поля слотов видит только провайдер-владелец,
// остальным возвращается публичная проекция
func (s *Service) GetBookedAppointments(ctx context.Context, req *models.GetBookedAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetBookedAppointments: caller=%d, provider=%d", req.Caller.ID, req.ProviderID)

	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: provider id must be positive", ErrInvalidInput)
	}

	// Проверяем существование провайдера
	if _, err := s.userClient.VerifyProvider(ctx, req.ProviderID); err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) || errors.Is(err, userClient.ErrNotAProvider) {
			s.logger.Warn("GetBookedAppointments: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		s.logger.Error("GetBookedAppointments: failed to verify provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetBookedAppointments - failed to verify provider: %v", ErrInternal, err)
	}

	// Диапазон по умолчанию: сегодня и неделя вперед
	from := truncateToDay(time.Now().UTC())
	if req.StartDate != nil {
		from = truncateToDay(req.StartDate.UTC())
	}
	to := from.AddDate(0, 0, domain.DefaultAvailabilityDays)
	if req.EndDate != nil {
		to = truncateToDay(req.EndDate.UTC())
	}
	// Верхняя граница - конец последнего дня
	to = to.AddDate(0, 0, 1)

	slots, err := s.slotRepo.GetOccupiedByProviderAndRange(ctx, req.ProviderID, from, to)
	if err != nil {
		s.logger.Error("GetBookedAppointments: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetBookedAppointments - repository error: %v", ErrInternal, err)
	}

	includePrivate := req.Caller.HasAnyRole(domain.RoleProvider) && req.Caller.ID == req.ProviderID

	s.logger.Info("GetBookedAppointments: provider=%d, %d occupied slots, private=%t",
		req.ProviderID, len(slots), includePrivate)

	return models.FromDomainSlotList(slots, includePrivate), nil
}

// ListProviders получает справочник провайдеров
// Доступно только администраторам
func (s *Service) ListProviders(ctx context.Context, caller domain.Caller) (*models.ProviderListResponse, error) {
	s.logger.Info("ListProviders: caller=%d role=%s", caller.ID, caller.Role)

	if !caller.HasAnyRole(domain.RoleAdmin) {
		s.logger.Warn("ListProviders: access denied for caller=%d", caller.ID)
		return nil, ErrAccessDenied
	}

	users, err := s.userClient.ListProviders(ctx)
	if err != nil {
		s.logger.Error("ListProviders: userservice error: %v", err)
		return nil, fmt.Errorf("%w: ListProviders - userservice error: %v", ErrInternal, err)
	}

	s.logger.Info("ListProviders: %d providers fetched", len(users))
	return models.FromUserList(users), nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
