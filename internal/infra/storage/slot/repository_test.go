package slot

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewave/appointment-service/internal/domain"
)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db), mock
}

func slotRow(id int64, start time.Time, status domain.SlotStatus) *sqlmock.Rows {
	return sqlmock.NewRows(slotColumns).
		AddRow(id, 42, start, start.Add(15*time.Minute), string(status),
			nil, nil, nil, false, time.Now(), time.Now())
}

func TestRepository_CreateBatch(t *testing.T) {
	repo, mock := newTestRepository(t)

	start1 := time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC)
	start2 := start1.Add(15 * time.Minute)
	candidates := []domain.CandidateSlot{
		{Start: start1, End: start1.Add(15 * time.Minute)},
		{Start: start2, End: start2.Add(15 * time.Minute)},
	}

	// Первый кандидат вставлен, второй уже существует (ON CONFLICT DO NOTHING)
	mock.ExpectExec("INSERT INTO appointment_slots").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO appointment_slots").
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.CreateBatch(context.Background(), 42, candidates)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newTestRepository(t)
	start := time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM appointment_slots").
		WithArgs(int64(101)).
		WillReturnRows(slotRow(101, start, domain.StatusAvailable))

	slot, err := repo.GetByID(context.Background(), 101)
	require.NoError(t, err)

	assert.Equal(t, int64(101), slot.ID)
	assert.Equal(t, int64(42), slot.ProviderID)
	assert.Equal(t, domain.StatusAvailable, slot.Status)
	assert.True(t, slot.StartTime.Equal(start))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("SELECT .+ FROM appointment_slots").
		WillReturnRows(sqlmock.NewRows(slotColumns))

	_, err := repo.GetByID(context.Background(), 101)
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestRepository_GetByProviderAndDay(t *testing.T) {
	repo, mock := newTestRepository(t)
	start := time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(slotColumns).
		AddRow(1, 42, start, start.Add(15*time.Minute), "available", nil, nil, nil, false, time.Now(), time.Now()).
		AddRow(2, 42, start.Add(15*time.Minute), start.Add(30*time.Minute), "booked", int64(7), nil, nil, true, time.Now(), time.Now())

	mock.ExpectQuery("SELECT .+ FROM appointment_slots").
		WillReturnRows(rows)

	slots, err := repo.GetByProviderAndDay(context.Background(), 42, start)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, domain.StatusAvailable, slots[0].Status)
	assert.Equal(t, domain.StatusBooked, slots[1].Status)
	require.NotNil(t, slots[1].ClientID)
	assert.Equal(t, int64(7), *slots[1].ClientID)
}

func TestRepository_HasHoldAtStart(t *testing.T) {
	repo, mock := newTestRepository(t)
	start := time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT 1 FROM appointment_slots").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	held, err := repo.HasHoldAtStart(context.Background(), 7, start)
	require.NoError(t, err)
	assert.True(t, held)
}

func TestRepository_HasHoldAtStart_NoHold(t *testing.T) {
	repo, mock := newTestRepository(t)
	start := time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT 1 FROM appointment_slots").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	held, err := repo.HasHoldAtStart(context.Background(), 7, start)
	require.NoError(t, err)
	assert.False(t, held)
}

func TestRepository_Reserve(t *testing.T) {
	repo, mock := newTestRepository(t)
	start := time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC)
	until := time.Date(2026, 9, 7, 12, 30, 0, 0, time.UTC)

	mock.ExpectQuery("UPDATE appointment_slots SET").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(101)))

	id, err := repo.Reserve(context.Background(), 42, start, 7, until)
	require.NoError(t, err)
	assert.Equal(t, int64(101), id)
}

func TestRepository_Reserve_NotAvailable(t *testing.T) {
	repo, mock := newTestRepository(t)
	start := time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC)

	// Условное обновление не нашло свободный слот
	mock.ExpectQuery("UPDATE appointment_slots SET").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Reserve(context.Background(), 42, start, 7, start)
	require.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestRepository_Confirm(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec("UPDATE appointment_slots SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Confirm(context.Background(), 101, 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Confirm_StateMismatch(t *testing.T) {
	repo, mock := newTestRepository(t)

	// Слот не reserved или держит другой пользователь
	mock.ExpectExec("UPDATE appointment_slots SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Confirm(context.Background(), 101, 7)
	require.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestRepository_Release(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec("UPDATE appointment_slots SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Release(context.Background(), 101))
}

func TestRepository_Release_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec("UPDATE appointment_slots SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Release(context.Background(), 101)
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestRepository_ReclaimExpired(t *testing.T) {
	repo, mock := newTestRepository(t)
	start := time.Date(2026, 9, 9, 9, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(slotColumns).
		AddRow(1, 42, start, start.Add(15*time.Minute), "available", nil, nil, nil, false, time.Now(), time.Now())

	mock.ExpectQuery("UPDATE appointment_slots SET").
		WillReturnRows(rows)

	reclaimed, err := repo.ReclaimExpired(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, reclaimed, 1)
	assert.Equal(t, domain.StatusAvailable, reclaimed[0].Status)
}

func TestRepository_ReclaimExpired_Empty(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("UPDATE appointment_slots SET").
		WillReturnRows(sqlmock.NewRows(slotColumns))

	reclaimed, err := repo.ReclaimExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, reclaimed)
}
