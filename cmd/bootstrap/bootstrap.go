package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-backend/config"
	deliveryHttp "hospital-backend/internal/delivery/http"
	"hospital-backend/internal/delivery/http/handler"
	"hospital-backend/internal/delivery/http/middleware"
	"hospital-backend/internal/infrastructure/cache"
	"hospital-backend/internal/infrastructure/database"
	"hospital-backend/internal/repository"
	"hospital-backend/internal/service"
	"hospital-backend/internal/usecase"
	"hospital-backend/pkg/jwt"
	"hospital-backend/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Apply schema migrations
	if err := database.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Rebuild slot hold keys before accepting traffic so Redis answers
	// match the appointments table after a restart or cache flush
	slotHoldService := service.NewSlotHoldService(db, redisClient, logrus.StandardLogger(), cfg.Booking.HoldGrace)
	syncCtx, cancel := context.WithTimeout(context.Background(), cfg.Booking.SyncTimeout)
	defer cancel()
	if err := slotHoldService.SyncOnStartup(syncCtx); err != nil {
		logrus.Warnf("Slot hold sync failed, booking falls back to the database index: %v", err)
	}

	// Initialize all layers
	server := initializeServer(cfg, db, redisClient, slotHoldService)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, slotHoldService *service.SlotHoldService) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	patientProfileRepo := repository.NewPatientProfileRepository(db)
	doctorProfileRepo := repository.NewDoctorProfileRepository(db)
	scheduleBlockRepo := repository.NewScheduleBlockRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	otCaseRepo := repository.NewOtCaseRepository(db)
	phaseRecordRepo := repository.NewPhaseRecordRepository(db)
	caseLogRepo := repository.NewCaseLogRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	eventPublisher := service.NewEventPublisher(redisClient, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, userRepo, jwtService, redisClient, auditService)
	slotUsecase := usecase.NewSlotUsecase(log, doctorProfileRepo, scheduleBlockRepo, appointmentRepo)
	bookingUsecase := usecase.NewBookingUsecase(log, appointmentRepo, scheduleBlockRepo, patientProfileRepo, slotHoldService, eventPublisher, auditService)
	scheduleBlockUsecase := usecase.NewScheduleBlockUsecase(log, scheduleBlockRepo, doctorProfileRepo, auditService)
	otCaseUsecase := usecase.NewOtCaseUsecase(log, otCaseRepo, phaseRecordRepo, caseLogRepo, patientProfileRepo, doctorProfileRepo, eventPublisher, auditService)
	phaseRecordUsecase := usecase.NewPhaseRecordUsecase(log, otCaseRepo, phaseRecordRepo, caseLogRepo, auditService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	appointmentHandler := handler.NewAppointmentHandler(slotUsecase, bookingUsecase, customValidator)
	scheduleBlockHandler := handler.NewScheduleBlockHandler(scheduleBlockUsecase, customValidator)
	otCaseHandler := handler.NewOtCaseHandler(otCaseUsecase, phaseRecordUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, appointmentHandler, scheduleBlockHandler, otCaseHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
