package confirm_reservation

import "errors"

var (
	// ErrNotAuthorized возвращается, когда вызывающий не пациент или не держатель резервации
	ErrNotAuthorized = errors.New("confirm_reservation: not authorized")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("confirm_reservation: appointment slot not found")

	// ErrReservationExpired возвращается, когда срок резервации истек
	ErrReservationExpired = errors.New("confirm_reservation: reservation expired")

	// ErrNotReserved возвращается, когда слот не находится в состоянии reserved
	ErrNotReserved = errors.New("confirm_reservation: slot is not reserved")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_reservation: internal error")
)
