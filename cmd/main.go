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

	bookAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/book_appointment"
	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	getAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointments"
	getFreeWindowsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_free_windows"
	getModelSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_model_slots"
	getMyAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_my_appointments"
	listMastersHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_masters"
	listServicesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_services"
	manageClientsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/manage_clients"
	manageServicesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/manage_services"
	manageSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/manage_slots"
	setReminderHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/set_reminder"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment_status"
	updateDrinkOptionsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_drink_options"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	clientRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/client"
	masterRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/master"
	serviceRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/service"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	telegramClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/telegram"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduler/reengagement"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduler/reminders"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	catalogService "github.com/m04kA/SMC-AppointmentService/internal/service/catalog"
	clientsService "github.com/m04kA/SMC-AppointmentService/internal/service/clients"
	mastersService "github.com/m04kA/SMC-AppointmentService/internal/service/masters"
	scheduleService "github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	bookAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_appointment"
	getFreeWindowsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_free_windows"
	getModelSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_model_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// noopReminderMetrics заглушка метрик планировщика при выключенных метриках
type noopReminderMetrics struct{}

func (noopReminderMetrics) ObserveReminder(kind, status string)          {}
func (noopReminderMetrics) ObserveReminderTick(kind string, sec float64) {}

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

	log.Info("Starting SMC-AppointmentService...")
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

	// Инициализируем Telegram клиента для уведомлений
	notifier := telegramClient.NewClient(
		cfg.Telegram.APIURL,
		cfg.Telegram.BotToken,
		time.Duration(cfg.Telegram.Timeout)*time.Second,
		log,
	)
	log.Info("Telegram notifier initialized (api=%s, timeout=%ds)", cfg.Telegram.APIURL, cfg.Telegram.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		masterRepository      *masterRepo.Repository
		clientRepository      *clientRepo.Repository
		serviceRepository     *serviceRepo.Repository
		slotRepository        *slotRepo.Repository
		appointmentRepository *appointmentRepo.Repository
	)

	// Интерфейс transaction manager'а, общий для обеих реализаций
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		masterRepository = masterRepo.NewRepository(wrappedDB)
		clientRepository = clientRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		slotRepository = slotRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		masterRepository = masterRepo.NewRepository(db)
		clientRepository = clientRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		slotRepository = slotRepo.NewRepository(db)
		appointmentRepository = appointmentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		slotRepository,
		serviceRepository,
		appointmentRepository,
		clientRepository,
		notifier,
		txMgr,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		clientRepository,
		masterRepository,
		notifier,
		appointmentsService.RealTimeProvider{},
		log,
	)
	catalogSvc := catalogService.NewService(serviceRepository, log)
	clientsSvc := clientsService.NewService(clientRepository, log)
	mastersSvc := mastersService.NewService(masterRepository, log)

	// Инициализируем use cases
	getFreeWindowsUseCase := getFreeWindowsUC.NewUseCase(
		masterRepository,
		serviceRepository,
		slotRepository,
		appointmentRepository,
		log,
	)
	getModelSlotsUseCase := getModelSlotsUC.NewUseCase(
		masterRepository,
		serviceRepository,
		slotRepository,
		appointmentRepository,
		log,
	)
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		masterRepository,
		clientRepository,
		serviceRepository,
		slotRepository,
		appointmentRepository,
		notifier,
		txMgr,
		log,
	)

	// Инициализируем планировщики напоминаний
	var reminderScheduler *reminders.Scheduler
	var reengagementScheduler *reengagement.Scheduler
	if cfg.Reminders.Enabled {
		var schedulerMetrics reminders.Metrics = noopReminderMetrics{}
		if cfg.Metrics.Enabled {
			schedulerMetrics = metricsCollector
		}

		reminderScheduler = reminders.NewScheduler(
			appointmentRepository,
			clientRepository,
			notifier,
			schedulerMetrics,
			log,
			cfg.Reminders.DayAheadSchedule,
			cfg.Reminders.PreSessionSchedule,
		)
		if err := reminderScheduler.Start(); err != nil {
			log.Fatal("Failed to start reminder scheduler: %v", err)
		}

		reengagementScheduler = reengagement.NewScheduler(
			clientRepository,
			slotRepository,
			notifier,
			schedulerMetrics,
			log,
			cfg.Reminders.ReengagementSchedule,
		)
		if err := reengagementScheduler.Start(); err != nil {
			log.Fatal("Failed to start reengagement scheduler: %v", err)
		}
	} else {
		log.Info("Reminder schedulers disabled by config")
	}

	// Инициализируем handlers
	getFreeWindows := getFreeWindowsHandler.NewHandler(getFreeWindowsUseCase, log)
	getModelSlots := getModelSlotsHandler.NewHandler(getModelSlotsUseCase, log)
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	getMyAppointments := getMyAppointmentsHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	setReminder := setReminderHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	getAppointments := getAppointmentsHandler.NewHandler(appointmentsSvc, log)
	manageSlots := manageSlotsHandler.NewHandler(scheduleSvc, log)
	manageServices := manageServicesHandler.NewHandler(catalogSvc, log)
	manageClients := manageClientsHandler.NewHandler(clientsSvc, log)
	listMasters := listMastersHandler.NewHandler(mastersSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	updateDrinkOptions := updateDrinkOptionsHandler.NewHandler(mastersSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix: идентификация вызывающего приходит в заголовках от gateway
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// ============================================================
	// CLIENT ROUTES (Telegram mini-app)
	// ============================================================

	// Каталог и расписание
	api.HandleFunc("/masters", listMasters.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services", listServices.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}", listServices.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/windows", getFreeWindows.Handle).Methods(http.MethodGet)
	api.HandleFunc("/model-slots", getModelSlots.Handle).Methods(http.MethodGet)

	// Записи клиента
	api.HandleFunc("/appointments", bookAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/my", getMyAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}/reminder", setReminder.Handle).Methods(http.MethodPatch)

	// ============================================================
	// MASTER ROUTES (требуют X-Is-Master)
	// ============================================================

	master := api.PathPrefix("").Subrouter()
	master.Use(middleware.RequireMaster)

	// Записи
	master.HandleFunc("/appointments", getAppointments.HandleList).Methods(http.MethodGet)
	master.HandleFunc("/appointments/{appointmentId}", getAppointments.HandleGet).Methods(http.MethodGet)
	master.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// Слоты доступности
	master.HandleFunc("/slots", manageSlots.HandleCreate).Methods(http.MethodPost)
	master.HandleFunc("/slots", manageSlots.HandleList).Methods(http.MethodGet)
	master.HandleFunc("/slots/{slotId}", manageSlots.HandleGet).Methods(http.MethodGet)
	master.HandleFunc("/slots/{slotId}", manageSlots.HandleUpdate).Methods(http.MethodPatch)
	master.HandleFunc("/slots/{slotId}", manageSlots.HandleDelete).Methods(http.MethodDelete)

	// Каталог услуг
	master.HandleFunc("/services", manageServices.HandleCreate).Methods(http.MethodPost)
	master.HandleFunc("/services/{serviceId}", manageServices.HandleUpdate).Methods(http.MethodPatch)
	master.HandleFunc("/services/{serviceId}", manageServices.HandleDeactivate).Methods(http.MethodDelete)

	// CRM клиентов
	master.HandleFunc("/clients", manageClients.HandleCreate).Methods(http.MethodPost)
	master.HandleFunc("/clients", manageClients.HandleList).Methods(http.MethodGet)
	master.HandleFunc("/clients/{clientId}", manageClients.HandleGet).Methods(http.MethodGet)
	master.HandleFunc("/clients/{clientId}", manageClients.HandleUpdate).Methods(http.MethodPatch)
	master.HandleFunc("/clients/{clientId}", manageClients.HandleDelete).Methods(http.MethodDelete)

	// Профиль мастера
	master.HandleFunc("/masters/me/drinks", updateDrinkOptions.Handle).Methods(http.MethodPut)

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

	// Останавливаем планировщики напоминаний и дожидаемся текущих тиков
	if reminderScheduler != nil {
		reminderScheduler.Stop()
	}
	if reengagementScheduler != nil {
		reengagementScheduler.Stop()
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
