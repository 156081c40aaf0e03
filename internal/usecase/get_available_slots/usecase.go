package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carewave/appointment-service/internal/domain"
	"github.com/carewave/appointment-service/internal/infra/cache/availability"
	userClient "github.com/carewave/appointment-service/internal/integrations/userservice"
)

// UseCase use case для получения доступных слотов провайдера
type UseCase struct {
	slotRepo     SlotRepository
	cache        AvailabilityCache
	userClient   UserServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	cache AvailabilityCache,
	userClient UserServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		cache:        cache,
		userClient:   userClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Читает кэш по дням (read-through): промах добивается из БД и
// прогревает кэш полной выборкой дня, фильтрация по статусу
// выполняется уже после кэша
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: provider id must be positive", ErrInvalidInput)
	}

	// 2. Проверяем существование провайдера
	if _, err := uc.userClient.VerifyProvider(ctx, req.ProviderID); err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) || errors.Is(err, userClient.ErrNotAProvider) {
			uc.logger.Warn("GetAvailableSlots: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to verify provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to verify provider: %v", ErrInternal, err)
	}

	// 3. Диапазон дат по умолчанию: сегодня и неделя вперед
	now := uc.timeProvider.Now().UTC()
	startDay := truncateToDay(now)
	if req.StartDate != nil {
		startDay = truncateToDay(req.StartDate.UTC())
	}
	endDay := startDay.AddDate(0, 0, domain.DefaultAvailabilityDays)
	if req.EndDate != nil {
		endDay = truncateToDay(req.EndDate.UTC())
	}

	if endDay.Before(startDay) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidDateRange)
	}

	uc.logger.Info("GetAvailableSlots: provider=%d, range=[%s, %s]",
		req.ProviderID, startDay.Format(domain.DateFormat), endDay.Format(domain.DateFormat))

	// 4. Обходим дни диапазона через кэш
	var result []AvailableSlot
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		records, err := uc.dayRecords(ctx, req.ProviderID, day)
		if err != nil {
			return nil, err
		}

		for _, rec := range records {
			if rec.Status != string(domain.StatusAvailable) {
				continue
			}

			slot, err := slotFromRecord(rec)
			if err != nil {
				uc.logger.Warn("GetAvailableSlots: malformed cached record id=%d skipped: %v", rec.ID, err)
				continue
			}
			result = append(result, slot)
		}
	}

	uc.logger.Info("GetAvailableSlots: provider=%d, %d slots available", req.ProviderID, len(result))

	return &Response{Slots: result}, nil
}

// dayRecords возвращает все слоты провайдера за день: из кэша либо из БД
// с прогревом кэша. Ошибки кэша не фатальны - деградируем до чтения из БД
func (uc *UseCase) dayRecords(ctx context.Context, providerID int64, day time.Time) ([]availability.SlotRecord, error) {
	records, hit, err := uc.cache.GetDay(ctx, providerID, day)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cache read failed for provider=%d day=%s: %v",
			providerID, day.Format(domain.DateFormat), err)
	}
	if hit {
		return records, nil
	}

	slots, err := uc.slotRepo.GetByProviderAndDay(ctx, providerID, day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load slots for provider=%d day=%s: %v",
			providerID, day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to load slots: %v", ErrInternal, err)
	}

	records = availability.RecordsFromSlots(slots)
	if err := uc.cache.SetDay(ctx, providerID, day, records); err != nil {
		uc.logger.Warn("GetAvailableSlots: cache write failed for provider=%d day=%s: %v",
			providerID, day.Format(domain.DateFormat), err)
	}

	return records, nil
}

// slotFromRecord разбирает кэшированную запись в публичную модель слота
func slotFromRecord(rec availability.SlotRecord) (AvailableSlot, error) {
	start, err := time.Parse(time.RFC3339, rec.StartTime)
	if err != nil {
		return AvailableSlot{}, fmt.Errorf("bad start time %q: %v", rec.StartTime, err)
	}
	end, err := time.Parse(time.RFC3339, rec.EndTime)
	if err != nil {
		return AvailableSlot{}, fmt.Errorf("bad end time %q: %v", rec.EndTime, err)
	}

	return AvailableSlot{
		ID:         rec.ID,
		ProviderID: rec.ProviderID,
		StartTime:  start,
		EndTime:    end,
		Status:     rec.Status,
	}, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
