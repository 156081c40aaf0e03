package set_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carewave/appointment-service/internal/domain"
	userClient "github.com/carewave/appointment-service/internal/integrations/userservice"
)

// UseCase use case для установки расписания доступности провайдера
type UseCase struct {
	slotRepo     SlotRepository
	scheduleRepo ScheduleRepository
	cache        AvailabilityCache
	userClient   UserServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	scheduleRepo ScheduleRepository,
	cache AvailabilityCache,
	userClient UserServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		scheduleRepo: scheduleRepo,
		cache:        cache,
		userClient:   userClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case установки доступности
// Разворачивает расписание в 15-минутные слоты и идемпотентно
// материализует их: уже существующие пары (провайдер, начало) не трогаются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SetAvailability: caller=%d, provider=%d", req.Caller.ID, req.ProviderID)

	// 1. Проверка прав: провайдер меняет только собственное расписание
	if err := authorize(req.Caller, req.ProviderID); err != nil {
		uc.logger.Warn("SetAvailability: authorization failed: %v", err)
		return nil, err
	}

	// 2. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем существование провайдера
	if _, err := uc.userClient.VerifyProvider(ctx, req.ProviderID); err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) || errors.Is(err, userClient.ErrNotAProvider) {
			uc.logger.Warn("SetAvailability: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("SetAvailability: failed to verify provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to verify provider: %v", ErrInternal, err)
	}

	// 4. Разворачиваем расписание в слоты-кандидаты
	candidates, err := GenerateCandidates(&req.Schedule)
	if err != nil {
		uc.logger.Warn("SetAvailability: schedule expansion failed: %v", err)
		return nil, err
	}

	// 5. Отбрасываем слоты, начинающиеся не в будущем
	now := uc.timeProvider.Now()
	future := make([]domain.CandidateSlot, 0, len(candidates))
	for _, c := range candidates {
		if c.Start.After(now) {
			future = append(future, c)
		}
	}

	uc.logger.Info("SetAvailability: provider=%d generated %d candidates, %d in the future",
		req.ProviderID, len(candidates), len(future))

	// 6. Сохраняем расписание и материализуем слоты в одной транзакции
	var created int
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.scheduleRepo.Upsert(txCtx, req.ProviderID, &req.Schedule); err != nil {
			uc.logger.Error("SetAvailability: failed to store schedule: %v", err)
			return fmt.Errorf("%w: failed to store schedule: %v", ErrInternal, err)
		}

		n, err := uc.slotRepo.CreateBatch(txCtx, req.ProviderID, future)
		if err != nil {
			uc.logger.Error("SetAvailability: failed to materialize slots: %v", err)
			return fmt.Errorf("%w: failed to materialize slots: %v", ErrInternal, err)
		}
		created = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 7. Сбрасываем кэш затронутых дат
	days := affectedDays(future)
	if len(days) > 0 {
		if err := uc.cache.InvalidateDays(ctx, req.ProviderID, days); err != nil {
			// Кэш истечет сам по TTL, ошибка не фатальна
			uc.logger.Warn("SetAvailability: cache invalidation failed for provider=%d: %v", req.ProviderID, err)
		}
	}

	uc.logger.Info("SetAvailability: provider=%d created %d new slots", req.ProviderID, created)

	return &Response{
		SlotsGenerated: len(candidates),
		SlotsCreated:   created,
	}, nil
}

// affectedDays возвращает уникальные даты слотов с сохранением порядка
func affectedDays(candidates []domain.CandidateSlot) []time.Time {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, c := range candidates {
		day := c.Day()
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days
}
