package cancel_appointment

import "errors"

var (
	// ErrNotAuthorized возвращается, когда вызывающий не держатель слота и не его провайдер
	ErrNotAuthorized = errors.New("cancel_appointment: not authorized")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("cancel_appointment: appointment slot not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_appointment: internal error")
)
