package check_availability

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_availability: invalid input")

	// ErrTechnicianNotFound частный случай ErrInvalidInput: техника нет или он неактивен
	ErrTechnicianNotFound = fmt.Errorf("%w: technician not found", ErrInvalidInput)

	// ErrInfrastructure возвращается, когда не удалось прочитать расписание или бронирования.
	// Такой результат никогда не означает "слот свободен"; операцию можно повторить.
	ErrInfrastructure = errors.New("check_availability: infrastructure failure")
)
