package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-RepairBookingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/SMC-RepairBookingService/internal/api/handlers/check_availability"
	createBookingHandler "github.com/m04kA/SMC-RepairBookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-RepairBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-RepairBookingService/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/m04kA/SMC-RepairBookingService/internal/api/handlers/get_customer_bookings"
	getTechnicianBookingsHandler "github.com/m04kA/SMC-RepairBookingService/internal/api/handlers/get_technician_bookings"
	getWeeklyScheduleHandler "github.com/m04kA/SMC-RepairBookingService/internal/api/handlers/get_weekly_schedule"
	updateBookingStatusHandler "github.com/m04kA/SMC-RepairBookingService/internal/api/handlers/update_booking_status"
	updateWeeklyScheduleHandler "github.com/m04kA/SMC-RepairBookingService/internal/api/handlers/update_weekly_schedule"
	"github.com/m04kA/SMC-RepairBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RepairBookingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-RepairBookingService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/SMC-RepairBookingService/internal/infra/storage/schedule"
	technicianRepo "github.com/m04kA/SMC-RepairBookingService/internal/infra/storage/technician"
	bookingsService "github.com/m04kA/SMC-RepairBookingService/internal/service/bookings"
	scheduleService "github.com/m04kA/SMC-RepairBookingService/internal/service/schedule"
	checkAvailabilityUC "github.com/m04kA/SMC-RepairBookingService/internal/usecase/check_availability"
	createBookingUC "github.com/m04kA/SMC-RepairBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-RepairBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-RepairBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RepairBookingService/pkg/logger"
	"github.com/m04kA/SMC-RepairBookingService/pkg/metrics"
	"github.com/m04kA/SMC-RepairBookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-RepairBookingService...")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}
	log.Info("Booking timezone=%s, default duration=%.2fh, slot step=%dm",
		location, cfg.Booking.DefaultDurationHours, cfg.Booking.SlotStepMinutes)

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Метрики и обёртка над БД
	stopMetricsCh := make(chan struct{})
	var (
		metricsCollector *metrics.Metrics
		wrappedDB        *dbmetrics.DB
		txOpts           = []txmanager.Option{
			txmanager.WithMaxRetries(cfg.Booking.MaxTxRetries),
			txmanager.WithBaseDelay(cfg.Booking.TxRetryBaseDelay()),
		}
		availabilityOpts []checkAvailabilityUC.Option
		bookingSvcOpts   []bookingsService.Option
	)

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

		txOpts = append(txOpts, txmanager.WithRetryObserver(metricsCollector))
		availabilityOpts = append(availabilityOpts, checkAvailabilityUC.WithDecisionObserver(metricsCollector))
		bookingSvcOpts = append(bookingSvcOpts, bookingsService.WithTransitionObserver(metricsCollector))
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	technicianRepository := technicianRepo.NewRepository(wrappedDB)

	txMgr := txmanager.NewTransactionManager(wrappedDB, txOpts...)

	// Use cases
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		scheduleRepository,
		bookingRepository,
		technicianRepository,
		checkAvailabilityUC.Policy{
			Location:             location,
			DefaultDurationHours: cfg.Booking.DefaultDurationHours,
		},
		log,
		availabilityOpts...,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		checkAvailabilityUseCase,
		txMgr,
		createBookingUC.Settings{
			Location:             location,
			DefaultDurationHours: cfg.Booking.DefaultDurationHours,
			RequestTimeout:       cfg.Booking.RequestTimeout(),
		},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		scheduleRepository,
		bookingRepository,
		technicianRepository,
		getAvailableSlotsUC.Settings{
			Location:             location,
			DefaultDurationHours: cfg.Booking.DefaultDurationHours,
			StepMinutes:          cfg.Booking.SlotStepMinutes,
		},
		log,
	)

	// Сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		cfg.Booking.DefaultDurationHours,
		log,
		bookingSvcOpts...,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		technicianRepository,
		log,
	)

	// Handlers
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getWeeklySchedule := getWeeklyScheduleHandler.NewHandler(scheduleSvc, log)
	updateWeeklySchedule := updateWeeklyScheduleHandler.NewHandler(scheduleSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getTechnicianBookings := getTechnicianBookingsHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/technicians/{technicianId}/availability", checkAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/technicians/{technicianId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/technicians/{technicianId}/schedule", getWeeklySchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/technicians/{technicianId}/bookings", getTechnicianBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// Изменяющие маршруты дополнительно ограничены по частоте
	writes := protected.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		writes.Use(limiter.Middleware)
		log.Info("Rate limit on write routes: %.2f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	writes.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	writes.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	writes.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	writes.HandleFunc("/technicians/{technicianId}/schedule/{day}", updateWeeklySchedule.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
