package schedule

import (
	"context"
	"encoding/json"
	"testing"

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

func weeklySchedule() *domain.Schedule {
	return &domain.Schedule{
		General: &domain.GeneralSchedule{
			StartDate: "2026-09-07",
			EndDate:   "2026-09-11",
			Times: []domain.RecurringRule{
				{Days: "M-F", Start: "09:00", End: "10:00"},
			},
		},
	}
}

func TestRepository_Upsert(t *testing.T) {
	repo, mock := newTestRepository(t)
	sched := weeklySchedule()

	doc, err := json.Marshal(sched)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO provider_schedules").
		WithArgs(int64(42), doc).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), 42, sched))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByProviderID(t *testing.T) {
	repo, mock := newTestRepository(t)

	doc, err := json.Marshal(weeklySchedule())
	require.NoError(t, err)

	mock.ExpectQuery("SELECT schedule FROM provider_schedules").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"schedule"}).AddRow(doc))

	sched, err := repo.GetByProviderID(context.Background(), 42)
	require.NoError(t, err)

	require.NotNil(t, sched.General)
	assert.Equal(t, "2026-09-07", sched.General.StartDate)
	require.Len(t, sched.General.Times, 1)
	assert.Equal(t, "M-F", sched.General.Times[0].Days)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByProviderID_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("SELECT schedule FROM provider_schedules").
		WillReturnRows(sqlmock.NewRows([]string{"schedule"}))

	_, err := repo.GetByProviderID(context.Background(), 42)
	require.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestRepository_GetByProviderID_CorruptDocument(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("SELECT schedule FROM provider_schedules").
		WillReturnRows(sqlmock.NewRows([]string{"schedule"}).AddRow([]byte("{broken")))

	_, err := repo.GetByProviderID(context.Background(), 42)
	require.ErrorIs(t, err, ErrDecodeSchedule)
}

func TestRepository_ListProviderIDs(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("SELECT provider_id FROM provider_schedules").
		WillReturnRows(sqlmock.NewRows([]string{"provider_id"}).
			AddRow(int64(7)).
			AddRow(int64(42)))

	ids, err := repo.ListProviderIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 42}, ids)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListProviderIDs_Empty(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("SELECT provider_id FROM provider_schedules").
		WillReturnRows(sqlmock.NewRows([]string{"provider_id"}))

	ids, err := repo.ListProviderIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
