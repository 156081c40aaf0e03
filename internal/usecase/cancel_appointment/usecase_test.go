package cancel_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewave/appointment-service/internal/domain"
	slotRepo "github.com/carewave/appointment-service/internal/infra/storage/slot"
)

type fakeSlotRepo struct {
	slot       *domain.AppointmentSlot
	getErr     error
	releaseErr error

	released []int64
}

func (f *fakeSlotRepo) GetByID(_ context.Context, _ int64) (*domain.AppointmentSlot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.slot, nil
}

func (f *fakeSlotRepo) Release(_ context.Context, slotID int64) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.released = append(f.released, slotID)
	return nil
}

type fakeCache struct {
	invalidated []time.Time
}

func (f *fakeCache) InvalidateDays(_ context.Context, _ int64, days []time.Time) error {
	f.invalidated = append(f.invalidated, days...)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestUseCase(repo *fakeSlotRepo, cache *fakeCache) *UseCase {
	return NewUseCase(repo, cache, nopLogger{})
}

func slotWithStatus(status domain.SlotStatus, reservedBy, clientID *int64) *domain.AppointmentSlot {
	start := time.Date(2026, 9, 9, 10, 0, 0, 0, time.UTC)
	return &domain.AppointmentSlot{
		ID:         101,
		ProviderID: 42,
		StartTime:  start,
		EndTime:    start.Add(15 * time.Minute),
		Status:     status,
		ReservedBy: reservedBy,
		ClientID:   clientID,
	}
}

func request(callerID int64, role domain.Role) *Request {
	return &Request{
		Caller: domain.Caller{ID: callerID, Role: role},
		SlotID: 101,
	}
}

func TestCancelAppointment_ByReservationHolder(t *testing.T) {
	holder := int64(7)
	repo := &fakeSlotRepo{slot: slotWithStatus(domain.StatusReserved, &holder, nil)}
	cache := &fakeCache{}
	uc := newTestUseCase(repo, cache)

	resp, err := uc.Execute(context.Background(), request(7, domain.RolePatient))
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.SlotID)
	assert.Equal(t, []int64{101}, repo.released)

	require.Len(t, cache.invalidated, 1)
	assert.Equal(t, "2026-09-09", cache.invalidated[0].Format(domain.DateFormat))
}

func TestCancelAppointment_ByBookedClient(t *testing.T) {
	client := int64(7)
	repo := &fakeSlotRepo{slot: slotWithStatus(domain.StatusBooked, nil, &client)}
	uc := newTestUseCase(repo, &fakeCache{})

	_, err := uc.Execute(context.Background(), request(7, domain.RolePatient))
	require.NoError(t, err)
	assert.Equal(t, []int64{101}, repo.released)
}

func TestCancelAppointment_ByOwningProvider(t *testing.T) {
	holder := int64(7)
	repo := &fakeSlotRepo{slot: slotWithStatus(domain.StatusBooked, nil, &holder)}
	uc := newTestUseCase(repo, &fakeCache{})

	_, err := uc.Execute(context.Background(), request(42, domain.RoleProvider))
	require.NoError(t, err)
	assert.Equal(t, []int64{101}, repo.released)
}

func TestCancelAppointment_ForeignProvider(t *testing.T) {
	holder := int64(7)
	repo := &fakeSlotRepo{slot: slotWithStatus(domain.StatusBooked, nil, &holder)}
	uc := newTestUseCase(repo, &fakeCache{})

	_, err := uc.Execute(context.Background(), request(43, domain.RoleProvider))
	require.ErrorIs(t, err, ErrNotAuthorized)
	assert.Empty(t, repo.released)
}

func TestCancelAppointment_ForeignPatient(t *testing.T) {
	holder := int64(7)
	repo := &fakeSlotRepo{slot: slotWithStatus(domain.StatusReserved, &holder, nil)}
	uc := newTestUseCase(repo, &fakeCache{})

	_, err := uc.Execute(context.Background(), request(8, domain.RolePatient))
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestCancelAppointment_ProviderCancelsAvailableSlot(t *testing.T) {
	// Свободный слот: отмена провайдером-владельцем - no-op с успехом
	repo := &fakeSlotRepo{slot: slotWithStatus(domain.StatusAvailable, nil, nil)}
	cache := &fakeCache{}
	uc := newTestUseCase(repo, cache)

	resp, err := uc.Execute(context.Background(), request(42, domain.RoleProvider))
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.SlotID)
	assert.Empty(t, repo.released)
	assert.Empty(t, cache.invalidated)
}

func TestCancelAppointment_PatientCancelsAvailableSlot(t *testing.T) {
	// У свободного слота нет держателя: пациент не проходит авторизацию
	repo := &fakeSlotRepo{slot: slotWithStatus(domain.StatusAvailable, nil, nil)}
	uc := newTestUseCase(repo, &fakeCache{})

	_, err := uc.Execute(context.Background(), request(7, domain.RolePatient))
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestCancelAppointment_AdminDenied(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{}, &fakeCache{})

	_, err := uc.Execute(context.Background(), request(1, domain.RoleAdmin))
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestCancelAppointment_SlotNotFound(t *testing.T) {
	repo := &fakeSlotRepo{getErr: slotRepo.ErrSlotNotFound}
	uc := newTestUseCase(repo, &fakeCache{})

	_, err := uc.Execute(context.Background(), request(7, domain.RolePatient))
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestCancelAppointment_InvalidSlotID(t *testing.T) {
	uc := newTestUseCase(&fakeSlotRepo{}, &fakeCache{})

	req := request(7, domain.RolePatient)
	req.SlotID = -1

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)
}
