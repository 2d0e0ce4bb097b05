package domain

import "time"

// Business validation constants
const (
	MaxDurationHours            = 12.0
	MaxAddressLength            = 500
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 240
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses статусы, которые не занимают время техника.
// Используется для фильтрации при проверке пересечений.
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
}

// DaysOfWeek порядок дней недели в расписании (понедельник первый)
var DaysOfWeek = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}
