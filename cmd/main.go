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
	"github.com/redis/go-redis/v9"

	bookAppointmentHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/book_appointment"
	bulkUpdateAvailabilityHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/bulk_update_availability"
	createAvailabilityHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/create_availability"
	disableAllSlotsHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/disable_all_slots"
	disableSlotHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/disable_slot"
	disableSlotsByDateHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/disable_slots_by_date"
	getDoctorAppointmentsHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/get_doctor_appointments"
	getDoctorAvailabilityHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/get_doctor_availability"
	getPatientAppointmentsHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/get_patient_appointments"
	liveUpdateSlotHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/live_update_slot"
	updateDoctorStatusHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/update_doctor_appointment_status"
	updatePatientStatusHandler "github.com/m04kA/SMC-ClinicService/internal/api/handlers/update_patient_appointment_status"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicService/internal/config"
	"github.com/m04kA/SMC-ClinicService/internal/infra/slotlock"
	appointmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/appointment"
	slotRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/slot"
	profileServiceClient "github.com/m04kA/SMC-ClinicService/internal/integrations/profileservice"
	appointmentsService "github.com/m04kA/SMC-ClinicService/internal/service/appointments"
	availabilityService "github.com/m04kA/SMC-ClinicService/internal/service/availability"
	"github.com/m04kA/SMC-ClinicService/internal/service/queueledger"
	bookAppointmentUC "github.com/m04kA/SMC-ClinicService/internal/usecase/book_appointment"
	bulkUpdateAvailabilityUC "github.com/m04kA/SMC-ClinicService/internal/usecase/bulk_update_availability"
	createAvailabilityUC "github.com/m04kA/SMC-ClinicService/internal/usecase/create_availability"
	disableSlotsUC "github.com/m04kA/SMC-ClinicService/internal/usecase/disable_slots"
	liveUpdateSlotUC "github.com/m04kA/SMC-ClinicService/internal/usecase/live_update_slot"
	updateAppointmentStatusUC "github.com/m04kA/SMC-ClinicService/internal/usecase/update_appointment_status"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/logger"
	"github.com/m04kA/SMC-ClinicService/pkg/metrics"
	"github.com/m04kA/SMC-ClinicService/pkg/txmanager"
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

	log.Info("Starting SMC-ClinicService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

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

	// Подключаемся к Redis (межпроцессные блокировки слотов)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to ping redis: %v", err)
	}
	log.Info("Successfully connected to redis (addr=%s)", cfg.Redis.Addr)

	locker := slotlock.NewLocker(redisClient, time.Duration(cfg.Redis.LockTTL)*time.Second)

	// Инициализируем интеграционного клиента
	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (ProfileService=%s timeout=%ds)",
		cfg.ProfileService.URL, cfg.ProfileService.Timeout)

	// Репозитории работают через обертку dbmetrics: с коллектором
	// метрик или без, но с единым контрактом для txmanager
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}

	slotRepository := slotRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем сервисы
	ledger := queueledger.NewService(appointmentRepository, log)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		slotRepository,
		profileClient,
		log,
	)
	availabilitySvc := availabilityService.NewService(
		slotRepository,
		ledger,
		profileClient,
		txMgr,
		log,
	)

	// Инициализируем use cases
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		slotRepository,
		appointmentRepository,
		ledger,
		profileClient,
		locker,
		txMgr,
		log,
	)
	updateStatusUseCase := updateAppointmentStatusUC.NewUseCase(
		slotRepository,
		appointmentRepository,
		ledger,
		locker,
		txMgr,
		log,
	)
	createAvailabilityUseCase := createAvailabilityUC.NewUseCase(
		slotRepository,
		profileClient,
		txMgr,
		log,
	)
	bulkUpdateUseCase := bulkUpdateAvailabilityUC.NewUseCase(
		slotRepository,
		appointmentRepository,
		ledger,
		locker,
		txMgr,
		log,
	)
	liveUpdateUseCase := liveUpdateSlotUC.NewUseCase(
		slotRepository,
		appointmentRepository,
		ledger,
		locker,
		txMgr,
		log,
	)
	disableSlotsUseCase := disableSlotsUC.NewUseCase(
		slotRepository,
		appointmentRepository,
		locker,
		txMgr,
		log,
	)

	// Инициализируем handlers
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getDoctorAppointments := getDoctorAppointmentsHandler.NewHandler(appointmentsSvc, log)
	updatePatientStatus := updatePatientStatusHandler.NewHandler(updateStatusUseCase, log)
	updateDoctorStatus := updateDoctorStatusHandler.NewHandler(updateStatusUseCase, log)
	createAvailability := createAvailabilityHandler.NewHandler(createAvailabilityUseCase, log)
	bulkUpdateAvailability := bulkUpdateAvailabilityHandler.NewHandler(bulkUpdateUseCase, log)
	liveUpdateSlot := liveUpdateSlotHandler.NewHandler(liveUpdateUseCase, log)
	disableSlot := disableSlotHandler.NewHandler(disableSlotsUseCase, log)
	disableSlotsByDate := disableSlotsByDateHandler.NewHandler(disableSlotsUseCase, log)
	disableAllSlots := disableAllSlotsHandler.NewHandler(disableSlotsUseCase, log)
	getDoctorAvailability := getDoctorAvailabilityHandler.NewHandler(availabilitySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты врача (для выбора времени записи)
	api.HandleFunc("/availability/{doctorId}", getDoctorAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи на прием ---
	// Запись пациента к врачу
	protected.HandleFunc("/appointments", bookAppointment.Handle).Methods(http.MethodPost)

	// Активные записи пациента
	protected.HandleFunc("/appointments/patient/{patientId}", getPatientAppointments.Handle).Methods(http.MethodGet)

	// Записи врача, сгруппированные по слотам
	protected.HandleFunc("/appointments/doctor/{doctorId}", getDoctorAppointments.Handle).Methods(http.MethodGet)

	// Смена статуса записи пациентом (отмена/перенос)
	protected.HandleFunc("/appointments/patient/{appointmentId}/status", updatePatientStatus.Handle).Methods(http.MethodPatch)

	// Смена статуса записи врачом (прием завершен/отменен)
	protected.HandleFunc("/appointments/doctor/{appointmentId}/status", updateDoctorStatus.Handle).Methods(http.MethodPatch)

	// --- Управление расписанием (для врачей) ---
	// Создание слотов (разовых или повторяющихся)
	protected.HandleFunc("/availability", createAvailability.Handle).Methods(http.MethodPost)

	// Массовое обновление слотов по датам или дню недели
	protected.HandleFunc("/availability/bulk-update", bulkUpdateAvailability.Handle).Methods(http.MethodPut)

	// Точечное обновление слота с перераспределением очереди
	protected.HandleFunc("/availability/{slotId}/live-update", liveUpdateSlot.Handle).Methods(http.MethodPatch)

	// Отключение слотов: конкретные маршруты регистрируются
	// раньше маршрута с {slotId}
	protected.HandleFunc("/availability/doctor/{doctorId}/date/{date}", disableSlotsByDate.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/availability/all/{doctorId}", disableAllSlots.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/availability/{slotId}", disableSlot.Handle).Methods(http.MethodDelete)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
