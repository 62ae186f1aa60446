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

	availabilityOverridesHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/availability_overrides"
	cancelBookingHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/create_booking"
	decideBookingHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/decide_booking"
	getAvailabilityHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/get_availability"
	getBookingHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/get_client_bookings"
	getOpenSlotsHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/get_open_slots"
	getProfessionalBookingsHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/get_professional_bookings"
	getServicePolicyHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/get_service_policy"
	noShowBookingHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/no_show_booking"
	paymentConfirmedHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/payment_confirmed"
	updateAvailabilityHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/update_availability"
	updateServicePolicyHandler "github.com/agendahub/AH-BookingEngine/internal/api/handlers/update_service_policy"
	"github.com/agendahub/AH-BookingEngine/internal/api/middleware"
	"github.com/agendahub/AH-BookingEngine/internal/config"
	"github.com/agendahub/AH-BookingEngine/internal/domain"
	bookingRepo "github.com/agendahub/AH-BookingEngine/internal/infra/storage/booking"
	catalogRepo "github.com/agendahub/AH-BookingEngine/internal/infra/storage/catalog"
	rulesRepo "github.com/agendahub/AH-BookingEngine/internal/infra/storage/rules"
	directoryServiceClient "github.com/agendahub/AH-BookingEngine/internal/integrations/directoryservice"
	notifierClient "github.com/agendahub/AH-BookingEngine/internal/integrations/notifier"
	paymentsClient "github.com/agendahub/AH-BookingEngine/internal/integrations/payments"
	availabilityService "github.com/agendahub/AH-BookingEngine/internal/service/availability"
	bookingsService "github.com/agendahub/AH-BookingEngine/internal/service/bookings"
	catalogService "github.com/agendahub/AH-BookingEngine/internal/service/catalog"
	eventsService "github.com/agendahub/AH-BookingEngine/internal/service/events"
	createBookingUC "github.com/agendahub/AH-BookingEngine/internal/usecase/create_booking"
	getOpenSlotsUC "github.com/agendahub/AH-BookingEngine/internal/usecase/get_open_slots"
	"github.com/agendahub/AH-BookingEngine/pkg/dbmetrics"
	"github.com/agendahub/AH-BookingEngine/pkg/logger"
	"github.com/agendahub/AH-BookingEngine/pkg/metrics"
	"github.com/agendahub/AH-BookingEngine/pkg/simpletxmanager"
	"github.com/agendahub/AH-BookingEngine/pkg/txmanager"
)

// systemClock источник времени для сервиса бронирований
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

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

	log.Info("Starting AH-BookingEngine...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем интеграционных клиентов
	directoryClient := directoryServiceClient.NewClient(
		cfg.DirectoryService.URL,
		time.Duration(cfg.DirectoryService.Timeout)*time.Second,
		log,
	)
	payClient := paymentsClient.NewClient(
		cfg.PaymentsService.URL,
		time.Duration(cfg.PaymentsService.Timeout)*time.Second,
		log,
	)
	dispatchClient := notifierClient.NewClient(
		cfg.NotifierService.URL,
		time.Duration(cfg.NotifierService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (DirectoryService=%s, PaymentsService=%s, NotifierService=%s)",
		cfg.DirectoryService.URL, cfg.PaymentsService.URL, cfg.NotifierService.URL)

	// Эмиттер событий уведомлений
	emitter := eventsService.NewEmitter(
		dispatchClient,
		domain.NotificationChannel(cfg.Notifications.DefaultChannel),
		time.Duration(cfg.Notifications.DispatchTimeout)*time.Second,
		log,
	)

	// Инициализируем репозитории и сервисы (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		rulesRepository   *rulesRepo.Repository
		catalogRepository *catalogRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		rulesRepository = rulesRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		rulesRepository = rulesRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		catalogRepository,
		emitter,
		systemClock{},
		log,
	)
	availabilitySvc := availabilityService.NewService(
		rulesRepository,
		directoryClient,
		txMgr,
		log,
	)
	catalogSvc := catalogService.NewService(
		catalogRepository,
		directoryClient,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		rulesRepository,
		catalogRepository,
		directoryClient,
		payClient,
		emitter,
		txMgr,
		log,
	)

	getOpenSlotsUseCase := getOpenSlotsUC.NewUseCase(
		bookingRepository,
		rulesRepository,
		catalogRepository,
		directoryClient,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getOpenSlots := getOpenSlotsHandler.NewHandler(getOpenSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	decideBooking := decideBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	noShowBooking := noShowBookingHandler.NewHandler(bookingSvc, log)
	paymentConfirmed := paymentConfirmedHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getProfessionalBookings := getProfessionalBookingsHandler.NewHandler(bookingSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(availabilitySvc, log)
	availabilityOverrides := availabilityOverridesHandler.NewHandler(availabilitySvc, log)
	getServicePolicy := getServicePolicyHandler.NewHandler(catalogSvc, log)
	updateServicePolicy := updateServicePolicyHandler.NewHandler(catalogSvc, log)

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

	// ============================================================
	// INTERNAL ROUTES (межсервисные, без пользовательской аутентификации)
	// ============================================================

	// Колбэк платежного сервиса о подтверждении оплаты
	r.HandleFunc("/internal/bookings/{bookingId}/payment-confirmed",
		paymentConfirmed.Handle).Methods(http.MethodPost)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Политики услуг компании
	api.HandleFunc("/companies/{companyId}/services",
		getServicePolicy.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/companies/{companyId}/services/{serviceId}",
		getServicePolicy.Handle).Methods(http.MethodGet)

	// Недельные расписания
	api.HandleFunc("/companies/{companyId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/companies/{companyId}/professionals/{professionalId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Расчет открытых слотов
	protected.HandleFunc("/professionals/{professionalId}/services/{serviceId}/open-slots",
		getOpenSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Решение специалиста по заявке (подтвердить/отклонить)
	protected.HandleFunc("/bookings/{bookingId}/decision", decideBooking.Handle).Methods(http.MethodPatch)

	// Завершение визита
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)

	// Отметка неявки клиента
	protected.HandleFunc("/bookings/{bookingId}/no-show", noShowBooking.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// Расписание специалиста
	protected.HandleFunc("/professionals/{professionalId}/bookings",
		getProfessionalBookings.Handle).Methods(http.MethodGet)

	// --- Управление доступностью ---
	// Замена недельного расписания компании и специалиста
	protected.HandleFunc("/companies/{companyId}/availability",
		updateAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/companies/{companyId}/professionals/{professionalId}/availability",
		updateAvailability.Handle).Methods(http.MethodPut)

	// Переопределения дат
	protected.HandleFunc("/professionals/{professionalId}/availability/overrides",
		availabilityOverrides.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/professionals/{professionalId}/availability/overrides",
		availabilityOverrides.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/professionals/{professionalId}/availability/overrides/{overrideId}",
		availabilityOverrides.HandleDelete).Methods(http.MethodDelete)

	// --- Управление политиками услуг ---
	protected.HandleFunc("/companies/{companyId}/services/{serviceId}",
		updateServicePolicy.Handle).Methods(http.MethodPut)

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
