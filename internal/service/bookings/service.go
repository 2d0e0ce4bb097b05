package bookings

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-RepairBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RepairBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo          BookingRepository
	txManager            TransactionManager
	observer             TransitionObserver
	defaultDurationHours float64
	logger               Logger
}

type Option func(*Service)

func WithTransitionObserver(o TransitionObserver) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	defaultDurationHours float64,
	logger Logger,
	opts ...Option,
) *Service {
	s := &Service{
		bookingRepo:          bookingRepo,
		txManager:            txManager,
		observer:             noopObserver{},
		defaultDurationHours: defaultDurationHours,
		logger:               logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetByID получает бронирование по ID.
// Видеть бронирование могут только его клиент и техник.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("GetByID", id, err)
	}

	if !booking.IsParticipant(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking, s.defaultDurationHours), nil
}

// GetCustomerBookings получает историю бронирований клиента.
// Клиент видит только свои бронирования.
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, user=%d", req.CustomerID, req.UserID)

	if req.UserID != req.CustomerID {
		s.logger.Warn("GetCustomerBookings: user=%d cannot read bookings of customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings, s.defaultDurationHours), nil
}

// GetTechnicianBookings получает бронирования техника с фильтрацией по периоду и статусу.
// Техник видит только своё расписание.
func (s *Service) GetTechnicianBookings(ctx context.Context, req *models.GetTechnicianBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTechnicianBookings: fetching bookings for technician=%d, user=%d", req.TechnicianID, req.UserID)

	if req.UserID != req.TechnicianID {
		s.logger.Warn("GetTechnicianBookings: user=%d cannot read bookings of technician=%d", req.UserID, req.TechnicianID)
		return nil, ErrAccessDenied
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTechnicianBookings: invalid filter for technician=%d: %v", req.TechnicianID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByTechnicianWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTechnicianBookings: repository error for technician=%d: %v", req.TechnicianID, err)
		return nil, fmt.Errorf("%w: GetTechnicianBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetTechnicianBookings: fetched %d bookings for technician=%d", len(bookings), req.TechnicianID)
	return models.FromDomainBookingList(bookings, s.defaultDurationHours), nil
}

// UpdateStatus переводит бронирование в новый статус по правилам жизненного цикла.
// Повтор текущего статуса ничего не меняет и считается успехом.
// Перевести в in_progress и completed может только техник бронирования.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%d to status=%s by user=%d", bookingID, req.Status, req.UserID)

	requested, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, req.Status)
	}

	var result *domain.Booking
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return s.mapRepoError("UpdateStatus", bookingID, err)
		}

		if !booking.IsParticipant(req.UserID) {
			s.logger.Warn("UpdateStatus: access denied for user=%d to booking id=%d", req.UserID, bookingID)
			return ErrAccessDenied
		}
		if requiresTechnician(requested) && booking.TechnicianID != req.UserID {
			s.logger.Warn("UpdateStatus: only technician may set status=%s on booking id=%d", requested, bookingID)
			return ErrAccessDenied
		}

		result, err = s.apply(txCtx, booking, requested, nil)
		return err
	})
	if err != nil {
		return nil, s.finishTxError("UpdateStatus", bookingID, err)
	}

	return models.FromDomainBooking(result, s.defaultDurationHours), nil
}

// Cancel отменяет бронирование. Отменить может клиент или техник бронирования.
// Завершённое бронирование отменить нельзя; повторная отмена ничего не меняет.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if req.CancellationReason != nil && utf8.RuneCountInString(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var result *domain.Booking
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return s.mapRepoError("Cancel", bookingID, err)
		}

		if !booking.IsParticipant(req.UserID) {
			s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.UserID, bookingID)
			return ErrAccessDenied
		}

		result, err = s.apply(txCtx, booking, domain.StatusCancelled, req.CancellationReason)
		return err
	})
	if err != nil {
		return nil, s.finishTxError("Cancel", bookingID, err)
	}

	return models.FromDomainBooking(result, s.defaultDurationHours), nil
}

// apply проверяет переход по жизненному циклу и сохраняет изменение, если статус меняется
func (s *Service) apply(ctx context.Context, booking *domain.Booking, requested domain.BookingStatus, reason *string) (*domain.Booking, error) {
	current := booking.Status

	next, err := domain.Transition(current, requested)
	if err != nil {
		s.observer.ObserveStatusTransition(current.String(), requested.String(), false)
		if current.IsTerminal() {
			s.logger.Warn("booking id=%d is in terminal status=%s, %s rejected", booking.ID, current, requested)
		} else {
			s.logger.Warn("booking id=%d: %v", booking.ID, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}
	s.observer.ObserveStatusTransition(current.String(), requested.String(), true)

	if next == current {
		s.logger.Info("booking id=%d already in status=%s", booking.ID, current)
		return booking, nil
	}

	if next == domain.StatusCancelled {
		err = s.bookingRepo.Cancel(ctx, booking.ID, reason)
	} else {
		err = s.bookingRepo.UpdateStatus(ctx, booking.ID, next)
	}
	if err != nil {
		return nil, s.mapRepoError("apply", booking.ID, err)
	}

	// Перечитываем, чтобы вернуть updated_at и cancelled_at из БД
	updated, err := s.bookingRepo.GetByID(ctx, booking.ID)
	if err != nil {
		return nil, s.mapRepoError("apply", booking.ID, err)
	}

	s.logger.Info("booking id=%d moved %s -> %s", booking.ID, current, next)
	return updated, nil
}

func requiresTechnician(status domain.BookingStatus) bool {
	return status == domain.StatusInProgress || status == domain.StatusCompleted
}

func (s *Service) mapRepoError(op string, bookingID int64, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking id=%d not found", op, bookingID)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}

// finishTxError оставляет ошибки сервиса как есть, остальное (commit, повторы) считает внутренней ошибкой
func (s *Service) finishTxError(op string, bookingID int64, err error) error {
	switch {
	case errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrAccessDenied),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInternal):
		return err
	default:
		s.logger.Error("%s: transaction failed for booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %s - transaction: %w", ErrInternal, op, err)
	}
}
