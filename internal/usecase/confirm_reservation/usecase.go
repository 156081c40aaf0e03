package confirm_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carewave/appointment-service/internal/domain"
	slotRepo "github.com/carewave/appointment-service/internal/infra/storage/slot"
)

// UseCase use case для подтверждения резервации
type UseCase struct {
	slotRepo     SlotRepository
	cache        AvailabilityCache
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slots SlotRepository, cache AvailabilityCache, logger Logger) *UseCase {
	return &UseCase{
		slotRepo:     slots,
		cache:        cache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case подтверждения резервации
// Истечение резервации проверяется лениво здесь: фоновая очистка
// не обязана успеть до подтверждения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmReservation: caller=%d, slot=%d", req.Caller.ID, req.SlotID)

	// 1. Подтверждать могут только пациенты
	if !req.Caller.HasAnyRole(domain.RolePatient) {
		uc.logger.Warn("ConfirmReservation: caller=%d lacks patient role", req.Caller.ID)
		return nil, fmt.Errorf("%w: patient role required", ErrNotAuthorized)
	}

	// 2. Валидация входных данных
	if req.SlotID <= 0 {
		return nil, fmt.Errorf("%w: slot id must be positive", ErrInvalidInput)
	}

	// 3. Загружаем слот
	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("ConfirmReservation: slot id=%d not found", req.SlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("ConfirmReservation: failed to load slot id=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: failed to load slot: %v", ErrInternal, err)
	}

	// 4. Подтвердить может только держатель резервации
	if !slot.IsHeldBy(req.Caller.ID) {
		uc.logger.Warn("ConfirmReservation: caller=%d is not the holder of slot id=%d", req.Caller.ID, req.SlotID)
		return nil, fmt.Errorf("%w: caller does not hold this reservation", ErrNotAuthorized)
	}

	if slot.Status != domain.StatusReserved {
		uc.logger.Warn("ConfirmReservation: slot id=%d is %s, not reserved", req.SlotID, slot.Status)
		return nil, ErrNotReserved
	}

	// 5. Ленивая проверка истечения резервации
	now := uc.timeProvider.Now()
	if slot.IsReservationExpired(now) {
		uc.logger.Warn("ConfirmReservation: reservation on slot id=%d expired at %s",
			req.SlotID, slot.ReservedUntil.Format(time.RFC3339))
		return nil, ErrReservationExpired
	}

	// 6. Атомарный перевод в booked (условие держателя повторяется в БД)
	if err := uc.slotRepo.Confirm(ctx, req.SlotID, req.Caller.ID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotAvailable) {
			// Состояние слота успело измениться между чтением и подтверждением
			uc.logger.Warn("ConfirmReservation: slot id=%d changed state concurrently", req.SlotID)
			return nil, ErrNotReserved
		}
		uc.logger.Error("ConfirmReservation: confirm failed for slot id=%d: %v", req.SlotID, err)
		return nil, fmt.Errorf("%w: confirm failed: %v", ErrInternal, err)
	}

	// 7. Сбрасываем кэш дня
	if err := uc.cache.InvalidateDays(ctx, slot.ProviderID, []time.Time{slot.Day()}); err != nil {
		uc.logger.Warn("ConfirmReservation: cache invalidation failed for provider=%d: %v", slot.ProviderID, err)
	}

	uc.logger.Info("ConfirmReservation: slot id=%d booked by caller=%d", req.SlotID, req.Caller.ID)

	return &Response{
		SlotID:     slot.ID,
		ProviderID: slot.ProviderID,
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
	}, nil
}
