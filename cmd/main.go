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

	applyPatternHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/apply_pattern"
	checkConflictsHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/check_conflicts"
	createBookingHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/create_booking"
	createPatternHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/create_pattern"
	deletePatternHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/delete_pattern"
	exportCalendarHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/export_calendar"
	getCalendarHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/get_calendar"
	getPrivacyHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/get_privacy"
	importCalendarHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/import_calendar"
	previewPatternHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/preview_pattern"
	resolveConflictHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/resolve_conflict"
	setTimeSlotsHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/set_time_slots"
	updateAvailabilityHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/update_availability"
	updateBookingStatusHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/update_booking_status"
	updatePatternHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/update_pattern"
	updatePrivacyHandler "github.com/m04kA/SMC-CalendarService/internal/api/handlers/update_privacy"
	"github.com/m04kA/SMC-CalendarService/internal/api/middleware"
	"github.com/m04kA/SMC-CalendarService/internal/config"
	bookingRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/booking"
	calendarRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/calendar"
	patternRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/pattern"
	privacyRepo "github.com/m04kA/SMC-CalendarService/internal/infra/storage/privacy"
	jobServiceClient "github.com/m04kA/SMC-CalendarService/internal/integrations/jobservice"
	"github.com/m04kA/SMC-CalendarService/internal/realtime"
	bookingsService "github.com/m04kA/SMC-CalendarService/internal/service/bookings"
	calendarService "github.com/m04kA/SMC-CalendarService/internal/service/calendar"
	exportService "github.com/m04kA/SMC-CalendarService/internal/service/export"
	patternsService "github.com/m04kA/SMC-CalendarService/internal/service/patterns"
	privacyService "github.com/m04kA/SMC-CalendarService/internal/service/privacy"
	applyPatternUC "github.com/m04kA/SMC-CalendarService/internal/usecase/apply_pattern"
	createBookingUC "github.com/m04kA/SMC-CalendarService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-CalendarService/internal/worker"
	"github.com/m04kA/SMC-CalendarService/pkg/logger"
	"github.com/m04kA/SMC-CalendarService/pkg/metrics"
	"github.com/m04kA/SMC-CalendarService/pkg/txmanager"
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

	log.Info("Starting SMC-CalendarService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционного клиента JobService
	jobClient := jobServiceClient.NewClient(
		cfg.JobService.URL,
		time.Duration(cfg.JobService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (JobService=%s timeout=%ds)",
		cfg.JobService.URL, cfg.JobService.Timeout)

	// Инициализируем репозитории
	calendarRepository := calendarRepo.NewRepository(db)
	patternRepository := patternRepo.NewRepository(db)
	bookingRepository := bookingRepo.NewRepository(db)
	privacyRepository := privacyRepo.NewRepository(db)

	txMgr := txmanager.NewTransactionManager(db)

	// Broadcaster событий: единственный экземпляр на процесс
	var broadcasterMetrics realtime.Metrics
	if metricsCollector != nil {
		broadcasterMetrics = metricsCollector
	}
	broadcaster := realtime.NewBroadcaster(log, broadcasterMetrics)
	broadcaster.Connect()
	defer broadcaster.Disconnect()

	// Инициализируем сервисы
	calendarSvc := calendarService.NewService(calendarRepository, txMgr, broadcaster, log)
	patternSvc := patternsService.NewService(patternRepository, calendarRepository, txMgr, log)
	privacySvc := privacyService.NewService(privacyRepository, log)
	bookingSvc := bookingsService.NewService(bookingRepository, calendarRepository, txMgr, broadcaster, log)
	exportSvc := exportService.NewService(calendarSvc, calendarSvc, log)

	// Инициализируем use cases
	var applyMetrics applyPatternUC.Metrics
	if metricsCollector != nil {
		applyMetrics = metricsCollector
	}
	applyPatternUseCase := applyPatternUC.NewUseCase(
		patternRepository,
		calendarRepository,
		txMgr,
		broadcaster,
		applyMetrics,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		calendarRepository,
		privacySvc,
		jobClient,
		txMgr,
		broadcaster,
		cfg.Calendar.AutoDeclinePolicy,
		log,
	)

	// Инициализируем handlers
	getCalendar := getCalendarHandler.NewHandler(calendarSvc, privacySvc, log)
	setTimeSlots := setTimeSlotsHandler.NewHandler(calendarSvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(calendarSvc, log)
	createPattern := createPatternHandler.NewHandler(patternSvc, log)
	updatePattern := updatePatternHandler.NewHandler(patternSvc, log)
	deletePattern := deletePatternHandler.NewHandler(patternSvc, log)
	applyPattern := applyPatternHandler.NewHandler(applyPatternUseCase, log)
	previewPattern := previewPatternHandler.NewHandler(patternSvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	checkConflicts := checkConflictsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	resolveConflict := resolveConflictHandler.NewHandler(bookingSvc, log)
	getPrivacy := getPrivacyHandler.NewHandler(privacySvc, log)
	updatePrivacy := updatePrivacyHandler.NewHandler(privacySvc, log)
	exportCalendar := exportCalendarHandler.NewHandler(exportSvc, log)
	importCalendar := importCalendarHandler.NewHandler(exportSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Просмотр календаря: маршрут доступен без аутентификации, но X-User-ID
	// учитывается, чтобы владелец и разрешённые контакты видели больше анонима
	api.Handle("/users/{userId}/calendar", middleware.OptionalAuth(http.HandlerFunc(getCalendar.Handle))).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Календарь ---
	protected.HandleFunc("/users/{userId}/calendar/{date}", updateAvailability.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/calendar/{date}/slots", setTimeSlots.Handle).Methods(http.MethodPut)

	// --- Паттерны доступности ---
	protected.HandleFunc("/users/{userId}/patterns", createPattern.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}/patterns/{patternId}", updatePattern.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/users/{userId}/patterns/{patternId}", deletePattern.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/users/{userId}/patterns/{patternId}/apply", applyPattern.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}/patterns/{patternId}/preview", previewPattern.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings/check-conflicts", checkConflicts.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}/conflicts/{conflictId}/resolve", resolveConflict.Handle).Methods(http.MethodPost)

	// --- Приватность ---
	protected.HandleFunc("/users/{userId}/privacy", getPrivacy.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/privacy", updatePrivacy.Handle).Methods(http.MethodPut)

	// --- Импорт / экспорт ---
	protected.HandleFunc("/users/{userId}/calendar/export", exportCalendar.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/calendar/import", importCalendar.Handle).Methods(http.MethodPost)

	// Фоновая материализация активных паттернов
	if cfg.Calendar.WorkerEnabled {
		horizonWorker := worker.NewHorizonWorker(
			patternSvc,
			applyPatternUseCase,
			cfg.Calendar.HorizonDays,
			cfg.Calendar.WorkerSpec,
			log,
		)
		if err := horizonWorker.Start(); err != nil {
			log.Fatal("Failed to start horizon worker: %v", err)
		}
		defer horizonWorker.Stop()
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

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
