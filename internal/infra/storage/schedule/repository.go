package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/carewave/appointment-service/internal/domain"
	"github.com/carewave/appointment-service/pkg/dbmetrics"
	"github.com/carewave/appointment-service/pkg/psqlbuilder"
)

// Repository репозиторий для хранения расписаний провайдеров
// Расписание хранится как JSONB документ в том виде, в котором его
// прислал провайдер; слоты материализуются отдельно
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert сохраняет расписание провайдера, заменяя предыдущее
func (r *Repository) Upsert(ctx context.Context, providerID int64, sched *domain.Schedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	doc, err := json.Marshal(sched)
	if err != nil {
		return fmt.Errorf("%w: Upsert - marshal schedule: %v", ErrEncodeSchedule, err)
	}

	query, args, err := psqlbuilder.Insert("provider_schedules").
		Columns("provider_id", "schedule").
		Values(providerID, doc).
		Suffix("ON CONFLICT (provider_id) DO UPDATE SET schedule = EXCLUDED.schedule, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByProviderID получает сохранённое расписание провайдера
func (r *Repository) GetByProviderID(ctx context.Context, providerID int64) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("schedule").
		From("provider_schedules").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - build select query: %v", ErrBuildQuery, err)
	}

	var doc []byte
	err = executor.QueryRowContext(ctx, query, args...).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - scan schedule: %v", ErrScanRow, err)
	}

	var sched domain.Schedule
	if err := json.Unmarshal(doc, &sched); err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - unmarshal schedule: %v", ErrDecodeSchedule, err)
	}

	return &sched, nil
}

// ListProviderIDs возвращает ID всех провайдеров с сохранённым расписанием
// Используется фоновой сверкой кэша для обхода провайдеров
func (r *Repository) ListProviderIDs(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("provider_id").
		From("provider_schedules").
		OrderBy("provider_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListProviderIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListProviderIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	providerIDs := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListProviderIDs - scan provider_id: %v", ErrScanRow, err)
		}
		providerIDs = append(providerIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListProviderIDs - rows error: %v", ErrScanRow, err)
	}

	return providerIDs, nil
}
