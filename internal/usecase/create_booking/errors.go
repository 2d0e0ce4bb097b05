package create_booking

import "errors"

var (
	// ErrTechnicianNotFound возвращается, когда техник не найден
	ErrTechnicianNotFound = errors.New("create_booking: technician not found")

	// ErrSlotNotAvailable возвращается, когда интервал не проходит проверку доступности
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrStartInPast возвращается при попытке забронировать время в прошлом
	ErrStartInPast = errors.New("create_booking: start is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
