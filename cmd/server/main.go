package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Rentline-Ops/service-reservation/internal/application"
	"github.com/Rentline-Ops/service-reservation/internal/audit"
	"github.com/Rentline-Ops/service-reservation/internal/config"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/Rentline-Ops/service-reservation/internal/events"
	"github.com/Rentline-Ops/service-reservation/internal/handler"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/auth"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/database"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/kafka"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/lock"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/logger"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/middleware"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/rabbitmq"
	"github.com/Rentline-Ops/service-reservation/internal/repository"
)

const serviceName = "service-reservation"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("event_broker", cfg.EventBroker),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}
	defer func() { _ = sqlDB.Close() }()

	// Run database migrations
	if cfg.IsDevelopment() {
		if err := db.AutoMigrate(
			&repository.PropertyModel{},
			&repository.GuestModel{},
			&repository.ReservationModel{},
			&repository.AvailabilityDayModel{},
			&repository.AuditRecordModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Read-side pool for listing and stats
	pool, err := database.NewPool(ctx, cfg.DBConfig)
	if err != nil {
		log.Fatal("failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.TTL)

	// Per-property lock
	var locker lock.Locker
	if cfg.RedisConfig.Addr != "" {
		redisClient, err := lock.NewRedisClient(ctx, cfg.RedisConfig.Addr, cfg.RedisConfig.Password, cfg.RedisConfig.DB)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		locker = lock.NewRedisLocker(redisClient, cfg.RedisConfig.LockTTL, log)
		log.Info("using redis property locks", zap.String("addr", cfg.RedisConfig.Addr))
	} else {
		locker = lock.NewLocalLocker()
		log.Info("using in-process property locks")
	}

	// Event publisher
	var publisher events.Publisher
	switch cfg.EventBroker {
	case config.BrokerKafka:
		kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = events.NewKafkaPublisher(kafkaProducer)
	case config.BrokerRabbitMQ:
		rabbitPublisher, err := rabbitmq.NewPublisher(cfg.RabbitConfig.URL, cfg.RabbitConfig.Exchange, log)
		if err != nil {
			log.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer func() { _ = rabbitPublisher.Close() }()
		publisher = events.NewRabbitPublisher(rabbitPublisher)
	default:
		publisher = events.NopPublisher{}
	}

	// Audit trail with local spool for failed appends
	auditRepo := repository.NewGormAuditRepository(db)
	spool, err := audit.OpenBoltSpool(cfg.AuditConfig.SpoolPath)
	if err != nil {
		log.Fatal("failed to open audit spool", zap.Error(err))
	}
	defer func() { _ = spool.Close() }()
	recorder := audit.NewRecorder(auditRepo, spool, log)
	if n, err := recorder.Replay(ctx); err != nil {
		log.Warn("audit spool replay incomplete", zap.Int("replayed", n), zap.Error(err))
	} else if n > 0 {
		log.Info("audit spool replayed", zap.Int("replayed", n))
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)
	unitOfWork := repository.NewGormUnitOfWork(db)
	queries := repository.NewPgxStatsRepository(pool)

	// Initialize application services
	reservationService := application.NewReservationService(
		unitOfWork,
		repos,
		queries,
		reservation.NewNightlyPricingStrategy(),
		locker,
		recorder,
		publisher,
		cfg.OperationTimeout,
		log,
	)
	reportingService := application.NewReportingService(queries, auditRepo, log)
	directoryService := application.NewDirectoryService(repos.Properties, repos.Guests, log)

	// Payment event consumer
	if cfg.EventBroker == config.BrokerKafka && cfg.KafkaConfig.ConsumePayments {
		groupID := cfg.KafkaConfig.GroupPrefix + "reservation-service"
		paymentConsumer := events.NewPaymentEventConsumer(
			cfg.KafkaConfig.Brokers,
			groupID,
			reservationService,
			log,
		)
		defer func() { _ = paymentConsumer.Close() }()

		go func() {
			log.Info("starting payment event consumer", zap.String("group_id", groupID))
			if err := paymentConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("payment event consumer error", zap.Error(err))
			}
		}()
	}

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check route
	handler.NewHealthHandler(sqlDB, serviceName).RegisterRoutes(router)

	// Register routes
	handler.NewReservationHandler(reservationService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewPropertyHandler(directoryService, reservationService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewGuestHandler(directoryService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewAdminHandler(reportingService).RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
