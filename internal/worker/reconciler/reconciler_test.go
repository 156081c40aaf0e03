package reconciler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewave/appointment-service/internal/domain"
	"github.com/carewave/appointment-service/internal/infra/cache/availability"
	"github.com/carewave/appointment-service/pkg/metrics"
)

// Метрики регистрируются в default registry, поэтому на весь пакет
// используется один экземпляр
var testMetrics = metrics.New("reconciler-test")

type fakeSlotRepo struct {
	slots     map[string][]*domain.AppointmentSlot // ключ - providerID|date
	reclaimed []*domain.AppointmentSlot
	getErr    error
}

func dayKey(providerID int64, day time.Time) string {
	return fmt.Sprintf("%d|%s", providerID, day.Format(domain.DateFormat))
}

func (f *fakeSlotRepo) GetByProviderAndDay(_ context.Context, providerID int64, day time.Time) ([]*domain.AppointmentSlot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.slots[dayKey(providerID, day)], nil
}

func (f *fakeSlotRepo) ReclaimExpired(_ context.Context, _ time.Time) ([]*domain.AppointmentSlot, error) {
	return f.reclaimed, nil
}

type fakeScheduleRepo struct {
	providerIDs []int64
	err         error
}

func (f *fakeScheduleRepo) ListProviderIDs(_ context.Context) ([]int64, error) {
	return f.providerIDs, f.err
}

type fakeCache struct {
	days        map[string][]availability.SlotRecord
	sets        map[string][]availability.SlotRecord
	invalidated map[int64][]time.Time
}

func (f *fakeCache) GetDay(_ context.Context, providerID int64, day time.Time) ([]availability.SlotRecord, bool, error) {
	records, ok := f.days[dayKey(providerID, day)]
	return records, ok, nil
}

func (f *fakeCache) SetDay(_ context.Context, providerID int64, day time.Time, records []availability.SlotRecord) error {
	if f.sets == nil {
		f.sets = make(map[string][]availability.SlotRecord)
	}
	f.sets[dayKey(providerID, day)] = records
	return nil
}

func (f *fakeCache) InvalidateDays(_ context.Context, providerID int64, days []time.Time) error {
	if f.invalidated == nil {
		f.invalidated = make(map[int64][]time.Time)
	}
	f.invalidated[providerID] = append(f.invalidated[providerID], days...)
	return nil
}

type fakeLocker struct {
	denied   map[string]bool
	acquired []string
	released []string
}

func (f *fakeLocker) Acquire(_ context.Context, cacheKey string) (string, bool, error) {
	if f.denied[cacheKey] {
		return "", false, nil
	}
	f.acquired = append(f.acquired, cacheKey)
	return "token-" + cacheKey, true, nil
}

func (f *fakeLocker) Release(_ context.Context, cacheKey string, _ string) error {
	f.released = append(f.released, cacheKey)
	return nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)

func today() time.Time {
	return time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
}

func newTestReconciler(repo *fakeSlotRepo, schedules *fakeScheduleRepo, cache *fakeCache, locker *fakeLocker) *Reconciler {
	r := New(repo, schedules, cache, locker, testMetrics, "* * * * *", 1, nopLogger{})
	r.timeProvider = &fixedTimeProvider{now: testNow}
	return r
}

func storeSlot(id int64, start time.Time, status domain.SlotStatus) *domain.AppointmentSlot {
	return &domain.AppointmentSlot{
		ID:         id,
		ProviderID: 42,
		StartTime:  start,
		EndTime:    start.Add(15 * time.Minute),
		Status:     status,
	}
}

func TestReconciler_RepairsDriftedDay(t *testing.T) {
	start := today().Add(9 * time.Hour)
	slot := storeSlot(1, start, domain.StatusBooked)

	repo := &fakeSlotRepo{slots: map[string][]*domain.AppointmentSlot{
		dayKey(42, today()): {slot},
	}}
	// Кэш видит слот все еще свободным
	cache := &fakeCache{days: map[string][]availability.SlotRecord{
		dayKey(42, today()): {{
			ID:         1,
			ProviderID: 42,
			StartTime:  start.Format(time.RFC3339),
			EndTime:    start.Add(15 * time.Minute).Format(time.RFC3339),
			Status:     "available",
		}},
	}}
	locker := &fakeLocker{}

	before := testutil.ToFloat64(testMetrics.CacheDiscrepanciesTotal.WithLabelValues(string(MissingInCache)))

	r := newTestReconciler(repo, &fakeScheduleRepo{providerIDs: []int64{42}}, cache, locker)
	require.NoError(t, r.Run(context.Background()))

	// Кэш дня перезаписан содержимым хранилища
	repaired := cache.sets[dayKey(42, today())]
	require.Len(t, repaired, 1)
	assert.Equal(t, "booked", repaired[0].Status)

	// Пара расхождений по дрейфу статуса учтена в метриках
	after := testutil.ToFloat64(testMetrics.CacheDiscrepanciesTotal.WithLabelValues(string(MissingInCache)))
	assert.Equal(t, before+1, after)

	// Блокировки сняты по каждому сверенному дню
	assert.Equal(t, len(locker.acquired), len(locker.released))
}

func TestReconciler_CacheMissSkipsDay(t *testing.T) {
	repo := &fakeSlotRepo{slots: map[string][]*domain.AppointmentSlot{
		dayKey(42, today()): {storeSlot(1, today().Add(9*time.Hour), domain.StatusAvailable)},
	}}
	cache := &fakeCache{}
	r := newTestReconciler(repo, &fakeScheduleRepo{providerIDs: []int64{42}}, cache, &fakeLocker{})

	require.NoError(t, r.Run(context.Background()))

	// Несуществующий кэш не прогревается сверкой
	assert.Empty(t, cache.sets)
}

func TestReconciler_LockedDaySkipped(t *testing.T) {
	start := today().Add(9 * time.Hour)
	repo := &fakeSlotRepo{slots: map[string][]*domain.AppointmentSlot{
		dayKey(42, today()): {storeSlot(1, start, domain.StatusBooked)},
	}}
	cache := &fakeCache{days: map[string][]availability.SlotRecord{
		dayKey(42, today()): {{ID: 1, ProviderID: 42, StartTime: start.Format(time.RFC3339), Status: "available"}},
	}}
	locker := &fakeLocker{denied: map[string]bool{
		availability.DayKey(42, today()): true,
	}}

	r := newTestReconciler(repo, &fakeScheduleRepo{providerIDs: []int64{42}}, cache, locker)
	require.NoError(t, r.Run(context.Background()))

	// Занятый другим процессом день не сверялся
	assert.Empty(t, cache.sets)
}

func TestReconciler_ReclaimsExpiredReservations(t *testing.T) {
	start := today().AddDate(0, 0, 2).Add(10 * time.Hour)
	repo := &fakeSlotRepo{reclaimed: []*domain.AppointmentSlot{
		storeSlot(5, start, domain.StatusAvailable),
	}}
	cache := &fakeCache{}

	before := testutil.ToFloat64(testMetrics.ReclaimedSlotsTotal)

	r := newTestReconciler(repo, &fakeScheduleRepo{}, cache, &fakeLocker{})
	require.NoError(t, r.Run(context.Background()))

	after := testutil.ToFloat64(testMetrics.ReclaimedSlotsTotal)
	assert.Equal(t, before+1, after)

	// Кэш даты освобожденного слота сброшен
	require.Len(t, cache.invalidated[42], 1)
	assert.Equal(t, "2026-09-09", cache.invalidated[42][0].Format(domain.DateFormat))
}

func TestReconciler_ListProvidersError(t *testing.T) {
	schedules := &fakeScheduleRepo{err: errors.New("db down")}

	before := testutil.ToFloat64(testMetrics.ReconcileRunsTotal.WithLabelValues("error"))

	r := newTestReconciler(&fakeSlotRepo{}, schedules, &fakeCache{}, &fakeLocker{})
	require.Error(t, r.Run(context.Background()))

	after := testutil.ToFloat64(testMetrics.ReconcileRunsTotal.WithLabelValues("error"))
	assert.Equal(t, before+1, after)
}

func TestReconciler_CoversHorizon(t *testing.T) {
	locker := &fakeLocker{}
	r := newTestReconciler(&fakeSlotRepo{}, &fakeScheduleRepo{providerIDs: []int64{42}}, &fakeCache{}, locker)

	require.NoError(t, r.Run(context.Background()))

	// Горизонт в 1 день - сегодня и завтра
	require.Len(t, locker.acquired, 2)
	assert.Equal(t, availability.DayKey(42, today()), locker.acquired[0])
	assert.Contains(t, locker.acquired[1], "2026-09-08")
}
