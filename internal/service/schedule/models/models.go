package models

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	"github.com/m04kA/SMC-RepairBookingService/pkg/types"
)

// UpsertDayRequest запрос на установку рабочих часов на день недели
type UpsertDayRequest struct {
	UserID       int64            `json:"userId"`
	TechnicianID int64            `json:"technicianId"`
	DayOfWeek    time.Weekday     `json:"dayOfWeek"`
	IsAvailable  bool             `json:"isAvailable"`
	StartTime    types.TimeString `json:"startTime"` // "09:00"
	EndTime      types.TimeString `json:"endTime"`   // "18:00"
}

// ToDomainSchedule конвертирует request в domain модель
func (r *UpsertDayRequest) ToDomainSchedule() *domain.WeeklySchedule {
	return &domain.WeeklySchedule{
		TechnicianID: r.TechnicianID,
		DayOfWeek:    r.DayOfWeek,
		IsAvailable:  r.IsAvailable,
		StartTime:    r.StartTime,
		EndTime:      r.EndTime,
	}
}

// DayResponse рабочие часы техника на один день недели
type DayResponse struct {
	DayOfWeek   string  `json:"dayOfWeek"` // "monday"
	Configured  bool    `json:"configured"`
	IsAvailable bool    `json:"isAvailable"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
}

// WeeklyScheduleResponse расписание техника на неделю, понедельник первый
type WeeklyScheduleResponse struct {
	TechnicianID int64         `json:"technicianId"`
	Days         []DayResponse `json:"days"`
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.WeeklySchedule) DayResponse {
	resp := DayResponse{
		DayOfWeek:   WeekdayName(s.DayOfWeek),
		Configured:  true,
		IsAvailable: s.IsAvailable,
	}
	if s.IsAvailable {
		start := s.StartTime.String()
		end := s.EndTime.String()
		resp.StartTime = &start
		resp.EndTime = &end
	}
	return resp
}

// FromDomainWeek собирает все семь дней; дни без строки в БД помечаются как ненастроенные
func FromDomainWeek(technicianID int64, schedules []*domain.WeeklySchedule) *WeeklyScheduleResponse {
	byDay := make(map[time.Weekday]*domain.WeeklySchedule, len(schedules))
	for _, s := range schedules {
		byDay[s.DayOfWeek] = s
	}

	resp := &WeeklyScheduleResponse{
		TechnicianID: technicianID,
		Days:         make([]DayResponse, 0, len(domain.DaysOfWeek)),
	}
	for _, day := range domain.DaysOfWeek {
		if s, ok := byDay[day]; ok {
			resp.Days = append(resp.Days, FromDomainSchedule(s))
			continue
		}
		resp.Days = append(resp.Days, DayResponse{DayOfWeek: WeekdayName(day)})
	}
	return resp
}

// WeekdayName возвращает имя дня недели в нижнем регистре: "monday"
func WeekdayName(day time.Weekday) string {
	return strings.ToLower(day.String())
}
