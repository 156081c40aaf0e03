package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/carewave/appointment-service/internal/domain"
	"github.com/carewave/appointment-service/internal/infra/cache/availability"
	"github.com/carewave/appointment-service/pkg/metrics"
)

// Reconciler периодическая сверка кэша доступности с хранилищем
// Хранилище авторитетно: при любом расхождении кэш дня перезаписывается
// его актуальным содержимым. Дополнительно каждый проход возвращает
// в available резервации с истекшим сроком подтверждения
type Reconciler struct {
	slotRepo     SlotRepository
	scheduleRepo ScheduleRepository
	cache        AvailabilityCache
	locker       Locker
	metrics      *metrics.Metrics
	timeProvider TimeProvider
	logger       Logger

	horizonDays int
	schedule    string
	cron        *cron.Cron
}

// New создает новый экземпляр Reconciler
// schedule - cron-выражение запуска, horizonDays - сколько дней вперед сверять
func New(
	slotRepo SlotRepository,
	scheduleRepo ScheduleRepository,
	cache AvailabilityCache,
	locker Locker,
	m *metrics.Metrics,
	schedule string,
	horizonDays int,
	logger Logger,
) *Reconciler {
	return &Reconciler{
		slotRepo:     slotRepo,
		scheduleRepo: scheduleRepo,
		cache:        cache,
		locker:       locker,
		metrics:      m,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		horizonDays:  horizonDays,
		schedule:     schedule,
	}
}

// Start запускает периодические проходы сверки по cron-расписанию
func (r *Reconciler) Start() error {
	r.cron = cron.New()
	_, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.Run(context.Background()); err != nil {
			r.logger.Error("Reconciler: pass failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("reconciler: invalid cron schedule %q: %w", r.schedule, err)
	}

	r.cron.Start()
	r.logger.Info("Reconciler: started with schedule %q, horizon %d days", r.schedule, r.horizonDays)
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущего прохода
func (r *Reconciler) Stop() {
	if r.cron == nil {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("Reconciler: stopped")
}

// Run выполняет один полный проход: возврат просроченных резерваций
// и сверка кэша по всем провайдерам в пределах горизонта
func (r *Reconciler) Run(ctx context.Context) error {
	now := r.timeProvider.Now().UTC()
	r.logger.Info("Reconciler: pass started at %s", now.Format(time.RFC3339))

	if err := r.reclaimExpired(ctx, now); err != nil {
		r.metrics.ReconcileRunsTotal.WithLabelValues("error").Inc()
		return err
	}

	providerIDs, err := r.scheduleRepo.ListProviderIDs(ctx)
	if err != nil {
		r.logger.Error("Reconciler: failed to list providers: %v", err)
		r.metrics.ReconcileRunsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("reconciler: failed to list providers: %w", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var repaired int
	for _, providerID := range providerIDs {
		for offset := 0; offset <= r.horizonDays; offset++ {
			day := today.AddDate(0, 0, offset)
			fixed, err := r.reconcileDay(ctx, providerID, day)
			if err != nil {
				// Один неудачный день не должен срывать весь проход
				r.logger.Error("Reconciler: provider=%d day=%s: %v",
					providerID, day.Format(domain.DateFormat), err)
				continue
			}
			if fixed {
				repaired++
			}
		}
	}

	r.metrics.ReconcileRunsTotal.WithLabelValues("success").Inc()
	r.logger.Info("Reconciler: pass finished, %d providers checked, %d cache days repaired",
		len(providerIDs), repaired)
	return nil
}

// reclaimExpired возвращает просроченные резервации в available
// и сбрасывает кэш затронутых дат
func (r *Reconciler) reclaimExpired(ctx context.Context, now time.Time) error {
	slots, err := r.slotRepo.ReclaimExpired(ctx, now)
	if err != nil {
		r.logger.Error("Reconciler: reclaim failed: %v", err)
		return fmt.Errorf("reconciler: reclaim failed: %w", err)
	}
	if len(slots) == 0 {
		return nil
	}

	r.metrics.ReclaimedSlotsTotal.Add(float64(len(slots)))

	// Группируем затронутые даты по провайдерам
	days := make(map[int64]map[time.Time]bool)
	for _, slot := range slots {
		r.logger.Info("Reconciler: reclaimed expired reservation slot id=%d, provider=%d, start=%s",
			slot.ID, slot.ProviderID, slot.StartTime.Format(time.RFC3339))
		if days[slot.ProviderID] == nil {
			days[slot.ProviderID] = make(map[time.Time]bool)
		}
		days[slot.ProviderID][slot.Day()] = true
	}

	for providerID, daySet := range days {
		var list []time.Time
		for day := range daySet {
			list = append(list, day)
		}
		if err := r.cache.InvalidateDays(ctx, providerID, list); err != nil {
			r.logger.Warn("Reconciler: cache invalidation failed for provider=%d: %v", providerID, err)
		}
	}

	r.logger.Info("Reconciler: reclaimed %d expired reservations", len(slots))
	return nil
}

// reconcileDay сверяет кэш одного дня провайдера с хранилищем
// Возвращает true, если кэш был перезаписан
func (r *Reconciler) reconcileDay(ctx context.Context, providerID int64, day time.Time) (bool, error) {
	cacheKey := availability.DayKey(providerID, day)

	token, ok, err := r.locker.Acquire(ctx, cacheKey)
	if err != nil {
		return false, fmt.Errorf("lock acquire: %w", err)
	}
	if !ok {
		// Кто-то уже сверяет этот день
		return false, nil
	}
	defer func() {
		if err := r.locker.Release(ctx, cacheKey, token); err != nil {
			r.logger.Warn("Reconciler: lock release failed for %s: %v", cacheKey, err)
		}
	}()

	cached, hit, err := r.cache.GetDay(ctx, providerID, day)
	if err != nil {
		return false, fmt.Errorf("cache read: %w", err)
	}
	if !hit {
		// Нечего сверять: день подтянется из БД при первом чтении
		return false, nil
	}

	slots, err := r.slotRepo.GetByProviderAndDay(ctx, providerID, day)
	if err != nil {
		return false, fmt.Errorf("store read: %w", err)
	}
	stored := availability.RecordsFromSlots(slots)

	discrepancies := diffRecords(cached, stored)
	if len(discrepancies) == 0 {
		return false, nil
	}

	for _, d := range discrepancies {
		r.logger.Warn("Reconciler: %s: provider=%d, slot id=%d, start=%s, status=%s",
			d.Kind, providerID, d.Record.ID, d.Record.StartTime, d.Record.Status)
		r.metrics.CacheDiscrepanciesTotal.WithLabelValues(string(d.Kind)).Inc()
	}

	if err := r.cache.SetDay(ctx, providerID, day, stored); err != nil {
		return false, fmt.Errorf("cache overwrite: %w", err)
	}

	r.logger.Info("Reconciler: cache repaired for provider=%d day=%s (%d discrepancies)",
		providerID, day.Format(domain.DateFormat), len(discrepancies))
	return true, nil
}
