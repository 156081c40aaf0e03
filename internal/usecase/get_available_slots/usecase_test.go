package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewave/appointment-service/internal/domain"
	"github.com/carewave/appointment-service/internal/infra/cache/availability"
	"github.com/carewave/appointment-service/internal/integrations/userservice"
)

type fakeSlotRepo struct {
	slots map[string][]*domain.AppointmentSlot // ключ - дата YYYY-MM-DD
	calls int
	err   error
}

func (f *fakeSlotRepo) GetByProviderAndDay(_ context.Context, _ int64, day time.Time) ([]*domain.AppointmentSlot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.slots[day.Format(domain.DateFormat)], nil
}

type fakeCache struct {
	days    map[string][]availability.SlotRecord
	sets    map[string][]availability.SlotRecord
	getErr  error
	setErr  error
	getKeys []string
}

func (f *fakeCache) GetDay(_ context.Context, _ int64, day time.Time) ([]availability.SlotRecord, bool, error) {
	key := day.Format(domain.DateFormat)
	f.getKeys = append(f.getKeys, key)
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	records, ok := f.days[key]
	return records, ok, nil
}

func (f *fakeCache) SetDay(_ context.Context, _ int64, day time.Time, records []availability.SlotRecord) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.sets == nil {
		f.sets = make(map[string][]availability.SlotRecord)
	}
	f.sets[day.Format(domain.DateFormat)] = records
	return nil
}

type fakeUserClient struct {
	err error
}

func (f *fakeUserClient) VerifyProvider(_ context.Context, providerID int64) (*userservice.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &userservice.User{ID: providerID, Role: "provider"}, nil
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

func newTestUseCase(repo *fakeSlotRepo, cache *fakeCache, users *fakeUserClient, now time.Time) *UseCase {
	uc := NewUseCase(repo, cache, users, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func testSlot(id int64, day string, hour int, status domain.SlotStatus) *domain.AppointmentSlot {
	date, _ := time.Parse(domain.DateFormat, day)
	start := date.Add(time.Duration(hour) * time.Hour)
	return &domain.AppointmentSlot{
		ID:         id,
		ProviderID: 42,
		StartTime:  start,
		EndTime:    start.Add(15 * time.Minute),
		Status:     status,
	}
}

func dateRange(from, to string) (*time.Time, *time.Time) {
	start, _ := time.Parse(domain.DateFormat, from)
	end, _ := time.Parse(domain.DateFormat, to)
	return &start, &end
}

func TestGetAvailableSlots_CacheMissWarmsCache(t *testing.T) {
	repo := &fakeSlotRepo{slots: map[string][]*domain.AppointmentSlot{
		"2026-09-07": {
			testSlot(1, "2026-09-07", 9, domain.StatusAvailable),
			testSlot(2, "2026-09-07", 10, domain.StatusBooked),
		},
	}}
	cache := &fakeCache{}

	uc := newTestUseCase(repo, cache, &fakeUserClient{}, time.Now())

	start, end := dateRange("2026-09-07", "2026-09-07")
	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 42, StartDate: start, EndDate: end})
	require.NoError(t, err)

	// Занятый слот отфильтрован из ответа
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, int64(1), resp.Slots[0].ID)
	assert.Equal(t, string(domain.StatusAvailable), resp.Slots[0].Status)

	// Кэш прогрет полной выборкой дня, включая занятый слот
	require.Contains(t, cache.sets, "2026-09-07")
	assert.Len(t, cache.sets["2026-09-07"], 2)
}

func TestGetAvailableSlots_CacheHitSkipsStore(t *testing.T) {
	cache := &fakeCache{days: map[string][]availability.SlotRecord{
		"2026-09-07": {
			{ID: 1, ProviderID: 42, StartTime: "2026-09-07T09:00:00Z", EndTime: "2026-09-07T09:15:00Z", Status: "available"},
			{ID: 2, ProviderID: 42, StartTime: "2026-09-07T10:00:00Z", EndTime: "2026-09-07T10:15:00Z", Status: "reserved"},
		},
	}}
	repo := &fakeSlotRepo{}

	uc := newTestUseCase(repo, cache, &fakeUserClient{}, time.Now())

	start, end := dateRange("2026-09-07", "2026-09-07")
	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 42, StartDate: start, EndDate: end})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, int64(1), resp.Slots[0].ID)
	assert.Zero(t, repo.calls)
}

func TestGetAvailableSlots_CacheErrorFallsThroughToStore(t *testing.T) {
	repo := &fakeSlotRepo{slots: map[string][]*domain.AppointmentSlot{
		"2026-09-07": {testSlot(1, "2026-09-07", 9, domain.StatusAvailable)},
	}}
	cache := &fakeCache{getErr: errors.New("connection refused")}

	uc := newTestUseCase(repo, cache, &fakeUserClient{}, time.Now())

	start, end := dateRange("2026-09-07", "2026-09-07")
	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 42, StartDate: start, EndDate: end})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, 1, repo.calls)
}

func TestGetAvailableSlots_DefaultRange(t *testing.T) {
	repo := &fakeSlotRepo{}
	cache := &fakeCache{}
	now := time.Date(2026, 9, 7, 15, 30, 0, 0, time.UTC)

	uc := newTestUseCase(repo, cache, &fakeUserClient{}, now)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: 42})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	// Сегодня плюс неделя вперед включительно
	require.Len(t, cache.getKeys, domain.DefaultAvailabilityDays+1)
	assert.Equal(t, "2026-09-07", cache.getKeys[0])
	assert.Equal(t, "2026-09-14", cache.getKeys[len(cache.getKeys)-1])
}

func TestGetAvailableSlots_ProviderNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{}, &fakeCache{},
		&fakeUserClient{err: userservice.ErrUserNotFound}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{ProviderID: 42})
	require.ErrorIs(t, err, ErrProviderNotFound)
}

func TestGetAvailableSlots_InvalidDateRange(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{}, &fakeCache{}, &fakeUserClient{}, time.Now())

	start, end := dateRange("2026-09-10", "2026-09-07")
	_, err := uc.Execute(context.Background(), &Request{ProviderID: 42, StartDate: start, EndDate: end})
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestGetAvailableSlots_InvalidProviderID(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{}, &fakeCache{}, &fakeUserClient{}, time.Now())

	_, err := uc.Execute(context.Background(), &Request{ProviderID: 0})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetAvailableSlots_StoreError(t *testing.T) {
	repo := &fakeSlotRepo{err: errors.New("db down")}
	uc := newTestUseCase(repo, &fakeCache{}, &fakeUserClient{}, time.Now())

	start, end := dateRange("2026-09-07", "2026-09-07")
	_, err := uc.Execute(context.Background(), &Request{ProviderID: 42, StartDate: start, EndDate: end})
	require.ErrorIs(t, err, ErrInternal)
}
