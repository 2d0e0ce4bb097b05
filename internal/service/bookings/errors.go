package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings.service: booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("bookings.service: access denied")

	// ErrInvalidTransition возвращается, когда переход статуса запрещён жизненным циклом.
	// Исходная *domain.InvalidTransitionError доступна через errors.As.
	ErrInvalidTransition = errors.New("bookings.service: booking can no longer be modified")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings.service: internal error")
)
