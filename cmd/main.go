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

	cancelAppointmentHandler "github.com/carewave/appointment-service/internal/api/handlers/cancel_appointment"
	confirmReservationHandler "github.com/carewave/appointment-service/internal/api/handlers/confirm_reservation"
	getAvailableSlotsHandler "github.com/carewave/appointment-service/internal/api/handlers/get_available_slots"
	getBookedAppointmentsHandler "github.com/carewave/appointment-service/internal/api/handlers/get_booked_appointments"
	getProvidersHandler "github.com/carewave/appointment-service/internal/api/handlers/get_providers"
	reserveAppointmentHandler "github.com/carewave/appointment-service/internal/api/handlers/reserve_appointment"
	setAvailabilityHandler "github.com/carewave/appointment-service/internal/api/handlers/set_availability"
	"github.com/carewave/appointment-service/internal/api/middleware"
	"github.com/carewave/appointment-service/internal/config"
	availabilityCache "github.com/carewave/appointment-service/internal/infra/cache/availability"
	scheduleRepo "github.com/carewave/appointment-service/internal/infra/storage/schedule"
	slotRepo "github.com/carewave/appointment-service/internal/infra/storage/slot"
	userServiceClient "github.com/carewave/appointment-service/internal/integrations/userservice"
	appointmentsService "github.com/carewave/appointment-service/internal/service/appointments"
	cancelAppointmentUC "github.com/carewave/appointment-service/internal/usecase/cancel_appointment"
	confirmReservationUC "github.com/carewave/appointment-service/internal/usecase/confirm_reservation"
	getAvailableSlotsUC "github.com/carewave/appointment-service/internal/usecase/get_available_slots"
	reserveAppointmentUC "github.com/carewave/appointment-service/internal/usecase/reserve_appointment"
	setAvailabilityUC "github.com/carewave/appointment-service/internal/usecase/set_availability"
	"github.com/carewave/appointment-service/internal/worker/reconciler"
	"github.com/carewave/appointment-service/pkg/dbmetrics"
	"github.com/carewave/appointment-service/pkg/logger"
	"github.com/carewave/appointment-service/pkg/metrics"
	"github.com/carewave/appointment-service/pkg/simpletxmanager"
	"github.com/carewave/appointment-service/pkg/txmanager"
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

	log.Info("Starting appointment-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики
	// Коллектор создается всегда: счетчики фоновой сверки нужны воркеру
	// даже когда HTTP endpoint метрик выключен
	stopMetricsCh := make(chan struct{})
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	if cfg.Metrics.Enabled {
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

	// Подключаемся к Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatal("Failed to ping Redis: %v", err)
	}
	log.Info("Successfully connected to Redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	// Инициализируем кэш доступности и блокировки сверки
	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	slotCache := availabilityCache.NewCache(redisClient, cacheTTL)
	locker := availabilityCache.NewLocker(redisClient, time.Duration(cfg.Reconciler.LockTTLSeconds)*time.Second)

	// Инициализируем клиент UserService
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("UserService client initialized (url=%s, timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var (
		slotRepository     *slotRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		txMgr              TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(slotRepository, userClient, log)

	// Инициализируем use cases
	setAvailabilityUseCase := setAvailabilityUC.NewUseCase(
		slotRepository,
		scheduleRepository,
		slotCache,
		userClient,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		slotRepository,
		slotCache,
		userClient,
		log,
	)
	reserveAppointmentUseCase := reserveAppointmentUC.NewUseCase(
		slotRepository,
		slotCache,
		txMgr,
		time.Duration(cfg.Booking.AdvanceNoticeHours)*time.Hour,
		time.Duration(cfg.Booking.GracePeriodMinutes)*time.Minute,
		log,
	)
	confirmReservationUseCase := confirmReservationUC.NewUseCase(slotRepository, slotCache, log)
	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(slotRepository, slotCache, log)

	// Инициализируем handlers
	setAvailability := setAvailabilityHandler.NewHandler(setAvailabilityUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBookedAppointments := getBookedAppointmentsHandler.NewHandler(appointmentsSvc, log)
	reserveAppointment := reserveAppointmentHandler.NewHandler(reserveAppointmentUseCase, log)
	confirmReservation := confirmReservationHandler.NewHandler(confirmReservationUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	getProviders := getProvidersHandler.NewHandler(appointmentsSvc, log)

	// Запускаем фоновую сверку кэша
	var cacheReconciler *reconciler.Reconciler
	if cfg.Reconciler.Enabled {
		cacheReconciler = reconciler.New(
			slotRepository,
			scheduleRepository,
			slotCache,
			locker,
			metricsCollector,
			cfg.Reconciler.Schedule,
			cfg.Reconciler.HorizonDays,
			log,
		)
		if err := cacheReconciler.Start(); err != nil {
			log.Fatal("Failed to start cache reconciler: %v", err)
		}
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
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
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role headers)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(log))

	// --- Провайдеры ---
	// Доступные слоты провайдера
	protected.HandleFunc("/providers/{providerId}/time-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Установка расписания доступности
	protected.HandleFunc("/providers/{providerId}/availability",
		setAvailability.Handle).Methods(http.MethodPost)

	// Занятые слоты провайдера
	protected.HandleFunc("/providers/{providerId}/booked-appointments",
		getBookedAppointments.Handle).Methods(http.MethodGet)

	// Справочник провайдеров (для администраторов)
	protected.HandleFunc("/providers", getProviders.Handle).Methods(http.MethodGet)

	// --- Записи на прием ---
	// Резервирование слота
	protected.HandleFunc("/appointments/reserve", reserveAppointment.Handle).Methods(http.MethodPost)

	// Подтверждение резервации
	protected.HandleFunc("/appointments/confirm", confirmReservation.Handle).Methods(http.MethodPost)

	// Отмена записи
	protected.HandleFunc("/appointments/cancel", cancelAppointment.Handle).Methods(http.MethodPost)

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

	// Останавливаем фоновую сверку
	if cacheReconciler != nil {
		cacheReconciler.Stop()
	}

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
