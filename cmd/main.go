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

	cancelBookingHandler "github.com/m04kA/CWS-BookingService/internal/api/handlers/cancel_booking"
	createCheckoutHandler "github.com/m04kA/CWS-BookingService/internal/api/handlers/create_checkout"
	getAvailableSeatsHandler "github.com/m04kA/CWS-BookingService/internal/api/handlers/get_available_seats"
	getBookingHandler "github.com/m04kA/CWS-BookingService/internal/api/handlers/get_booking"
	getCheckoutHandler "github.com/m04kA/CWS-BookingService/internal/api/handlers/get_checkout"
	getSpaceBookingsHandler "github.com/m04kA/CWS-BookingService/internal/api/handlers/get_space_bookings"
	getTaxRulesHandler "github.com/m04kA/CWS-BookingService/internal/api/handlers/get_tax_rules"
	getUserBookingsHandler "github.com/m04kA/CWS-BookingService/internal/api/handlers/get_user_bookings"
	redeemBookingHandler "github.com/m04kA/CWS-BookingService/internal/api/handlers/redeem_booking"
	updateTaxRulesHandler "github.com/m04kA/CWS-BookingService/internal/api/handlers/update_tax_rules"
	verifyPaymentHandler "github.com/m04kA/CWS-BookingService/internal/api/handlers/verify_payment"
	"github.com/m04kA/CWS-BookingService/internal/api/middleware"
	"github.com/m04kA/CWS-BookingService/internal/config"
	bookingRepo "github.com/m04kA/CWS-BookingService/internal/infra/storage/booking"
	checkoutRepo "github.com/m04kA/CWS-BookingService/internal/infra/storage/checkout"
	taxRuleRepo "github.com/m04kA/CWS-BookingService/internal/infra/storage/taxrule"
	paymentGatewayClient "github.com/m04kA/CWS-BookingService/internal/integrations/paymentgateway"
	spaceServiceClient "github.com/m04kA/CWS-BookingService/internal/integrations/spaceservice"
	bookingsService "github.com/m04kA/CWS-BookingService/internal/service/bookings"
	checkoutsService "github.com/m04kA/CWS-BookingService/internal/service/checkouts"
	taxConfigService "github.com/m04kA/CWS-BookingService/internal/service/taxconfig"
	createCheckoutUC "github.com/m04kA/CWS-BookingService/internal/usecase/create_checkout"
	getAvailableSeatsUC "github.com/m04kA/CWS-BookingService/internal/usecase/get_available_seats"
	verifyPaymentUC "github.com/m04kA/CWS-BookingService/internal/usecase/verify_payment"
	"github.com/m04kA/CWS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/CWS-BookingService/pkg/logger"
	"github.com/m04kA/CWS-BookingService/pkg/metrics"
	"github.com/m04kA/CWS-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/CWS-BookingService/pkg/txmanager"
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

	log.Info("Starting CWS-BookingService...")
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
	spaceClient := spaceServiceClient.NewClient(
		cfg.SpaceService.URL,
		time.Duration(cfg.SpaceService.Timeout)*time.Second,
		log,
	)
	gatewayClient := paymentGatewayClient.NewClient(
		cfg.PaymentGateway.URL,
		cfg.PaymentGateway.KeyID,
		cfg.PaymentGateway.KeySecret,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (SpaceService=%s timeout=%ds, PaymentGateway=%s timeout=%ds)",
		cfg.SpaceService.URL, cfg.SpaceService.Timeout, cfg.PaymentGateway.URL, cfg.PaymentGateway.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		checkoutRepository *checkoutRepo.Repository
		taxRuleRepository  *taxRuleRepo.Repository
	)

	// Интерфейс transaction manager, общий для сервисов и usecases
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		checkoutRepository = checkoutRepo.NewRepository(wrappedDB)
		taxRuleRepository = taxRuleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		checkoutRepository = checkoutRepo.NewRepository(db)
		taxRuleRepository = taxRuleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		checkoutRepository,
		spaceClient,
		txMgr,
		log,
	)
	checkoutSvc := checkoutsService.NewService(
		checkoutRepository,
		bookingRepository,
		spaceClient,
		log,
	)
	taxConfigSvc := taxConfigService.NewService(
		taxRuleRepository,
		&cfg.Admin,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createCheckoutUseCase := createCheckoutUC.NewUseCase(
		bookingRepository,
		checkoutRepository,
		taxRuleRepository,
		spaceClient,
		gatewayClient,
		txMgr,
		log,
		cfg.Checkout.MinBillableHours,
		cfg.Checkout.Currency,
	)
	verifyPaymentUseCase := verifyPaymentUC.NewUseCase(
		checkoutRepository,
		bookingRepository,
		gatewayClient,
		txMgr,
		log,
	)
	getAvailableSeatsUseCase := getAvailableSeatsUC.NewUseCase(
		bookingRepository,
		spaceClient,
		log,
	)

	// Инициализируем handlers
	createCheckout := createCheckoutHandler.NewHandler(createCheckoutUseCase, log)
	verifyPayment := verifyPaymentHandler.NewHandler(verifyPaymentUseCase, log)
	getCheckout := getCheckoutHandler.NewHandler(checkoutSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	redeemBooking := redeemBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getSpaceBookings := getSpaceBookingsHandler.NewHandler(bookingSvc, log)
	getAvailableSeats := getAvailableSeatsHandler.NewHandler(getAvailableSeatsUseCase, log)
	getTaxRules := getTaxRulesHandler.NewHandler(taxConfigSvc, log)
	updateTaxRules := updateTaxRulesHandler.NewHandler(taxConfigSvc, log)

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

	// Доступные места по часовым слотам на дату
	api.HandleFunc("/spaces/{spaceId}/available-seats",
		getAvailableSeats.Handle).Methods(http.MethodGet)

	// Текущая налоговая конфигурация (для показа разбивки до оплаты)
	api.HandleFunc("/tax-rules", getTaxRules.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Чекауты ---
	// Создание чекаута (мульти-дата, расчет стоимости, платёжный ордер)
	protected.HandleFunc("/checkouts", createCheckout.Handle).Methods(http.MethodPost)

	// Подтверждение оплаты чекаута
	protected.HandleFunc("/checkouts/verify-payment", verifyPayment.Handle).Methods(http.MethodPost)

	// Получение чекаута по ID
	protected.HandleFunc("/checkouts/{checkoutId}", getCheckout.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	// Погашение кода бронирования (для менеджеров пространства)
	protected.HandleFunc("/bookings/redeem", redeemBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление пространством (для менеджеров) ---
	// Список бронирований пространства
	protected.HandleFunc("/spaces/{spaceId}/bookings", getSpaceBookings.Handle).Methods(http.MethodGet)

	// --- Администрирование платформы ---
	// Замена налоговой конфигурации
	protected.HandleFunc("/tax-rules", updateTaxRules.Handle).Methods(http.MethodPut)

	// Фоновая очистка: неоплаченные чекауты старше TTL переводим в expired
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		interval := time.Duration(cfg.Checkout.SweepIntervalMinutes) * time.Minute
		ttl := time.Duration(cfg.Checkout.PendingTTLMinutes) * time.Minute
		log.Info("Checkout expiry sweep started (interval=%s, ttl=%s)", interval, ttl)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				expired, err := bookingSvc.ExpireStale(sweepCtx, ttl)
				if err != nil {
					log.Error("Checkout expiry sweep failed: %v", err)
					continue
				}
				if expired > 0 {
					log.Info("Checkout expiry sweep: expired %d stale checkouts", expired)
				}
			}
		}
	}()

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

	// Останавливаем фоновую очистку чекаутов
	stopSweep()

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
