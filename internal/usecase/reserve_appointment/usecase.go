package reserve_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carewave/appointment-service/internal/domain"
	slotRepo "github.com/carewave/appointment-service/internal/infra/storage/slot"
)

// UseCase use case для резервирования слота на прием
type UseCase struct {
	slotRepo      SlotRepository
	cache         AvailabilityCache
	txManager     TransactionManager
	advanceNotice time.Duration
	gracePeriod   time.Duration
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
// advanceNotice - минимальный срок до начала приема, gracePeriod - окно
// подтверждения резервации
func NewUseCase(
	slots SlotRepository,
	cache AvailabilityCache,
	txManager TransactionManager,
	advanceNotice time.Duration,
	gracePeriod time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:      slots,
		cache:         cache,
		txManager:     txManager,
		advanceNotice: advanceNotice,
		gracePeriod:   gracePeriod,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case резервирования слота
// Использует сериализуемую транзакцию: проверка на дубль и условный
// перевод слота в reserved выполняются атомарно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveAppointment: caller=%d, provider=%d, start=%s",
		req.Caller.ID, req.ProviderID, req.StartTime.Format(time.RFC3339))

	// 1. Резервировать могут только пациенты
	if !req.Caller.HasAnyRole(domain.RolePatient) {
		uc.logger.Warn("ReserveAppointment: caller=%d lacks patient role", req.Caller.ID)
		return nil, fmt.Errorf("%w: patient role required", ErrNotAuthorized)
	}

	// 2. Валидация входных данных
	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: provider id must be positive", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}

	// 3. Порог предварительного уведомления: начало строго позже now + срок
	now := uc.timeProvider.Now()
	threshold := now.Add(uc.advanceNotice)
	if !req.StartTime.After(threshold) {
		uc.logger.Warn("ReserveAppointment: start=%s within advance notice window (now=%s)",
			req.StartTime.Format(time.RFC3339), now.Format(time.RFC3339))
		return nil, ErrTooSoon
	}

	reservedUntil := now.Add(uc.gracePeriod)

	// 4. Проверка на дубль и захват слота в одной сериализуемой транзакции
	var slotID int64
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		held, err := uc.slotRepo.HasHoldAtStart(txCtx, req.Caller.ID, req.StartTime)
		if err != nil {
			uc.logger.Error("ReserveAppointment: duplicate check failed: %v", err)
			return fmt.Errorf("%w: duplicate check failed: %v", ErrInternal, err)
		}
		if held {
			uc.logger.Warn("ReserveAppointment: caller=%d already holds a slot at %s",
				req.Caller.ID, req.StartTime.Format(time.RFC3339))
			return ErrDuplicateReservation
		}

		id, err := uc.slotRepo.Reserve(txCtx, req.ProviderID, req.StartTime, req.Caller.ID, reservedUntil)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("ReserveAppointment: no available slot for provider=%d at %s",
					req.ProviderID, req.StartTime.Format(time.RFC3339))
				return ErrSlotNotAvailable
			}
			uc.logger.Error("ReserveAppointment: reserve failed: %v", err)
			return fmt.Errorf("%w: reserve failed: %v", ErrInternal, err)
		}

		slotID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 5. Сбрасываем кэш дня, чтобы слот пропал из выдачи доступных
	day := time.Date(req.StartTime.UTC().Year(), req.StartTime.UTC().Month(), req.StartTime.UTC().Day(), 0, 0, 0, 0, time.UTC)
	if err := uc.cache.InvalidateDays(ctx, req.ProviderID, []time.Time{day}); err != nil {
		uc.logger.Warn("ReserveAppointment: cache invalidation failed for provider=%d: %v", req.ProviderID, err)
	}

	uc.logger.Info("ReserveAppointment: slot id=%d reserved by caller=%d until %s",
		slotID, req.Caller.ID, reservedUntil.Format(time.RFC3339))

	return &Response{
		SlotID:        slotID,
		ProviderID:    req.ProviderID,
		StartTime:     req.StartTime,
		ReservedUntil: reservedUntil,
	}, nil
}
