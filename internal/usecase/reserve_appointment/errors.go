package reserve_appointment

import "errors"

var (
	// ErrNotAuthorized возвращается, когда вызывающий не пациент
	ErrNotAuthorized = errors.New("reserve_appointment: not authorized")

	// ErrTooSoon возвращается, когда до начала слота меньше порога предварительного уведомления
	ErrTooSoon = errors.New("reserve_appointment: slot starts too soon to reserve")

	// ErrSlotNotAvailable возвращается, когда свободный слот с таким началом не найден
	ErrSlotNotAvailable = errors.New("reserve_appointment: slot is not available")

	// ErrDuplicateReservation возвращается, когда пациент уже держит слот на это же время
	ErrDuplicateReservation = errors.New("reserve_appointment: caller already holds a slot at this time")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reserve_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_appointment: internal error")
)
