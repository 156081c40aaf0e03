package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда расписание провайдера не найдено
	ErrScheduleNotFound = errors.New("schedule.repository: schedule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")

	// ErrEncodeSchedule возвращается при ошибке сериализации расписания
	ErrEncodeSchedule = errors.New("schedule.repository: failed to encode schedule")

	// ErrDecodeSchedule возвращается при ошибке десериализации расписания
	ErrDecodeSchedule = errors.New("schedule.repository: failed to decode schedule")
)
