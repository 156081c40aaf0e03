package set_availability

import "errors"

var (
	// ErrNotAuthorized возвращается, когда вызывающий не провайдер или
	// пытается изменить чужое расписание
	ErrNotAuthorized = errors.New("set_availability: not authorized")

	// ErrProviderNotFound возвращается, когда провайдер не найден
	ErrProviderNotFound = errors.New("set_availability: provider not found")

	// ErrInvalidSchedule возвращается при некорректном расписании
	ErrInvalidSchedule = errors.New("set_availability: invalid schedule")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("set_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("set_availability: internal error")
)
