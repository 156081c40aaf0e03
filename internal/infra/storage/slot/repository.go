package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/carewave/appointment-service/internal/domain"
	"github.com/carewave/appointment-service/pkg/dbmetrics"
	"github.com/carewave/appointment-service/pkg/psqlbuilder"
)

// uniqueViolation код ошибки PostgreSQL при нарушении unique constraint
const uniqueViolation = "23505"

var slotColumns = []string{
	"id",
	"provider_id",
	"start_time",
	"end_time",
	"status",
	"client_id",
	"reserved_by",
	"reserved_until",
	"confirmed",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами приёмов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch материализует кандидатов в слоты провайдера.
// Для каждого кандидата выполняется условная вставка: уже существующий слот
// с тем же (provider_id, start_time) не трогается, каким бы ни было время
// окончания кандидата. Гонки конкурентной материализации разрешает unique
// constraint на (provider_id, start_time), а не блокировки приложения.
// Возвращает количество реально созданных слотов.
//
// Ожидается вызов внутри транзакции (через context) - при ошибке на любом
// кандидате вся пачка откатывается целиком.
func (r *Repository) CreateBatch(ctx context.Context, providerID int64, candidates []domain.CandidateSlot) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	created := 0
	for _, candidate := range candidates {
		query, args, err := psqlbuilder.Insert("appointment_slots").
			Columns(
				"provider_id",
				"start_time",
				"end_time",
				"status",
			).
			Values(
				providerID,
				candidate.Start,
				candidate.End,
				domain.StatusAvailable,
			).
			Suffix("ON CONFLICT (provider_id, start_time) DO NOTHING").
			ToSql()

		if err != nil {
			return 0, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
		}

		result, err := executor.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, fmt.Errorf("%w: CreateBatch - concurrent insert for start=%s: %v",
					ErrDuplicateSlot, candidate.Start.Format(time.RFC3339), err)
			}
			return 0, fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%w: CreateBatch - get rows affected: %v", ErrExecQuery, err)
		}
		created += int(rowsAffected)
	}

	return created, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.AppointmentSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("appointment_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	slot, err := scanSlot(row)
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// GetByProviderAndDay получает все слоты провайдера на календарную дату (UTC)
// Слоты возвращаются отсортированными по времени начала
func (r *Repository) GetByProviderAndDay(ctx context.Context, providerID int64, day time.Time) ([]*domain.AppointmentSlot, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("appointment_slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.GtOrEq{"start_time": dayStart}).
		Where(squirrel.Lt{"start_time": dayEnd}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetOccupiedByProviderAndRange получает занятые слоты провайдера за период
// (статус reserved или booked), отсортированные по времени начала
func (r *Repository) GetOccupiedByProviderAndRange(ctx context.Context, providerID int64, from, to time.Time) ([]*domain.AppointmentSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	occupiedStatuses := make([]string, len(domain.OccupiedStatuses))
	for i, s := range domain.OccupiedStatuses {
		occupiedStatuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("appointment_slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.LtOrEq{"start_time": to}).
		Where(squirrel.Eq{"status": occupiedStatuses}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedByProviderAndRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedByProviderAndRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// HasHoldAtStart проверяет, держит ли пользователь слот (резерв или
// подтверждённую запись) с указанным временем начала у любого провайдера
// Используется как защита от двойного бронирования самого себя
func (r *Repository) HasHoldAtStart(ctx context.Context, userID int64, start time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("appointment_slots").
		Where(squirrel.Eq{"start_time": start}).
		Where(squirrel.Or{
			squirrel.Eq{"reserved_by": userID},
			squirrel.Eq{"client_id": userID},
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasHoldAtStart - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasHoldAtStart - scan result: %v", ErrScanRow, err)
	}

	return true, nil
}

// Reserve переводит свободный слот в reserved атомарным условным обновлением.
// Два конкурентных резерва одного слота разрешаются на уровне БД: ровно один
// UPDATE находит строку со status='available', остальные получают
// ErrSlotNotAvailable. Возвращает ID зарезервированного слота.
func (r *Repository) Reserve(ctx context.Context, providerID int64, start time.Time, userID int64, until time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointment_slots").
		Set("status", domain.StatusReserved).
		Set("reserved_by", userID).
		Set("reserved_until", until).
		Set("confirmed", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"provider_id": providerID,
			"start_time":  start,
			"status":      domain.StatusAvailable,
		}).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrSlotNotAvailable
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	return id, nil
}

// Confirm переводит reserved слот в booked условным обновлением
// Обновление срабатывает только если слот все ещё reserved и держит его
// именно этот пользователь; иначе возвращается ErrSlotNotAvailable
func (r *Repository) Confirm(ctx context.Context, id int64, userID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointment_slots").
		Set("status", domain.StatusBooked).
		Set("confirmed", true).
		Set("client_id", userID).
		Set("reserved_by", nil).
		Set("reserved_until", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":          id,
			"status":      domain.StatusReserved,
			"reserved_by": userID,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Confirm - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Confirm - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotAvailable
	}

	return nil
}

// Release возвращает слот в статус available, полностью очищая данные
// резерва и подтверждения. Единственный путь reclaim в этой схеме:
// слоты никогда не удаляются физически
func (r *Repository) Release(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointment_slots").
		Set("status", domain.StatusAvailable).
		Set("client_id", nil).
		Set("reserved_by", nil).
		Set("reserved_until", nil).
		Set("confirmed", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// ReclaimExpired возвращает в available все просроченные неподтверждённые
// резервы и отдает освобождённые слоты (для инвалидации кэша)
func (r *Repository) ReclaimExpired(ctx context.Context, now time.Time) ([]*domain.AppointmentSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointment_slots").
		Set("status", domain.StatusAvailable).
		Set("reserved_by", nil).
		Set("reserved_until", nil).
		Set("confirmed", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusReserved, "confirmed": false}).
		Where(squirrel.Lt{"reserved_until": now}).
		Suffix("RETURNING " + strings.Join(slotColumns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ReclaimExpired - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReclaimExpired - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// scanner общий интерфейс для *sql.Row и *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanSlot сканирует одну строку в слот
func scanSlot(s scanner) (*domain.AppointmentSlot, error) {
	var slot domain.AppointmentSlot
	var createdAt, updatedAt sql.NullTime

	err := s.Scan(
		&slot.ID,
		&slot.ProviderID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Status,
		&slot.ClientID,
		&slot.ReservedBy,
		&slot.ReservedUntil,
		&slot.Confirmed,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]*domain.AppointmentSlot, error) {
	slots := make([]*domain.AppointmentSlot, 0)

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
