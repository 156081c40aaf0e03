package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carewave/appointment-service/internal/domain"
	slotRepo "github.com/carewave/appointment-service/internal/infra/storage/slot"
)

// UseCase use case для отмены записи на прием
type UseCase struct {
	slotRepo SlotRepository
	cache    AvailabilityCache
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slots SlotRepository, cache AvailabilityCache, logger Logger) *UseCase {
	return &UseCase{
		slotRepo: slots,
		cache:    cache,
		logger:   logger,
	}
}

// Execute выполняет use case отмены записи
// Отменить может держатель слота (резервировавший или записанный пациент)
// либо провайдер-владелец. Это единственный путь возврата слота в available
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelAppointment: caller=%d role=%s, slot=%d", req.Caller.ID, req.Caller.Role, req.SlotID)

	// 1. Отмена доступна пациентам и провайдерам
	if !req.Caller.HasAnyRole(domain.RolePatient, domain.RoleProvider) {
		uc.logger.Warn("CancelAppointment: caller=%d has role %s", req.Caller.ID, req.Caller.Role)
		return nil, fmt.Errorf("%w: patient or provider role required", ErrNotAuthorized)
	}

	// 2. Валидация входных данных
	if req.SlotID <= 0 {
		return nil, fmt.Errorf("%w: slot id must be positive", ErrInvalidInput)
	}

	// 3. Загружаем слот
	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("CancelAppointment: slot id=%d not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("CancelAppointment: failed to load slot id=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to load slot: %v", ErrInternal, err)
	}

	// 4. Авторизация: держатель слота либо провайдер-владелец
	ownerProvider := req.Caller.HasAnyRole(domain.RoleProvider) && slot.ProviderID == req.Caller.ID
	holder := req.Caller.HasAnyRole(domain.RolePatient) && slot.IsHeldBy(req.Caller.ID)
	if !ownerProvider && !holder {
		uc.logger.Warn("CancelAppointment: caller=%d not authorized for slot id=%d", req.Caller.ID, req.SlotID)
		return nil, fmt.Errorf("%w: caller is neither the holder nor the owning provider", ErrNotAuthorized)
	}

	// 5. Отмена уже свободного слота - no-op, но только для провайдера:
	// у свободного слота нет держателя, так что пациент сюда не попадает
	if slot.IsAvailable() {
		uc.logger.Info("CancelAppointment: slot id=%d already available", req.SlotID)
		return &Response{SlotID: slot.ID}, nil
	}

	// 6. Безусловный возврат слота в available
	if err := uc.slotRepo.Release(ctx, req.SlotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("CancelAppointment: slot id=%d disappeared during release", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("CancelAppointment: release failed for slot id=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: release failed: %v", ErrInternal, err)
	}

	// 7. Сбрасываем кэш дня
	if err := uc.cache.InvalidateDays(ctx, slot.ProviderID, []time.Time{slot.Day()}); err != nil {
		uc.logger.Warn("CancelAppointment: cache invalidation failed for provider=%d: %v", slot.ProviderID, err)
	}

	uc.logger.Info("CancelAppointment: slot id=%d released by caller=%d", req.SlotID, req.Caller.ID)

	return &Response{SlotID: slot.ID}, nil
}
