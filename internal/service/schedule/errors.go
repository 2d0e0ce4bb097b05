package schedule

import "errors"

var (
	// ErrTechnicianNotFound возвращается, когда техник не найден или неактивен
	ErrTechnicianNotFound = errors.New("schedule.service: technician not found")

	// ErrAccessDenied возвращается, когда пользователь меняет чужое расписание
	ErrAccessDenied = errors.New("schedule.service: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("schedule.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule.service: internal error")
)
