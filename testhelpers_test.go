//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Rentline-Ops/service-reservation/internal/application"
	"github.com/Rentline-Ops/service-reservation/internal/audit"
	"github.com/Rentline-Ops/service-reservation/internal/domain/guest"
	"github.com/Rentline-Ops/service-reservation/internal/domain/property"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/Rentline-Ops/service-reservation/internal/events"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/database"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/kafka"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/lock"
	"github.com/Rentline-Ops/service-reservation/internal/repository"
)

// testDB holds a migrated PostgreSQL container and both connection styles.
type testDB struct {
	DB      *gorm.DB
	Pool    *pgxpool.Pool
	Cleanup func()
}

// reservationStack holds wired-up reservation service components.
type reservationStack struct {
	Service *application.ReservationService
	Audit   *repository.GormAuditRepository
	Queries *repository.PgxStatsRepository
}

// setupPostgres starts a PostgreSQL container and applies the SQL migrations.
func setupPostgres(t *testing.T) *testDB {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_reservation",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_reservation",
		SSLMode:  "disable",
	}
	logger := zap.NewNop()

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(cfg, logger)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(cfg.DatabaseURL(), "migrations", logger))

	pool, err := database.NewPool(ctx, cfg)
	require.NoError(t, err, "failed to create pgx pool")

	cleanup := func() {
		pool.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testDB{DB: db, Pool: pool, Cleanup: cleanup}
}

// setupKafka starts a Kafka container and pre-creates the service topics.
func setupKafka(t *testing.T) ([]string, func()) {
	t.Helper()
	ctx := context.Background()

	// confluent-local supports KRaft natively.
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, brokers, events.TopicReservationEvents, events.TopicPaymentEvents)

	return brokers, func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
	}
}

// setupReservationStack wires the reservation service against the test database.
func setupReservationStack(t *testing.T, tdb *testDB, publisher events.Publisher) *reservationStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	auditRepo := repository.NewGormAuditRepository(tdb.DB)
	queries := repository.NewPgxStatsRepository(tdb.Pool)
	svc := application.NewReservationService(
		repository.NewGormUnitOfWork(tdb.DB),
		repository.NewRepositories(tdb.DB),
		queries,
		reservation.NewNightlyPricingStrategy(),
		lock.NewLocalLocker(),
		audit.NewRecorder(auditRepo, nil, logger),
		publisher,
		10*time.Second,
		logger,
	)
	return &reservationStack{Service: svc, Audit: auditRepo, Queries: queries}
}

// seedProperty stores a property with the given nightly rate and capacity.
func seedProperty(t *testing.T, db *gorm.DB, ownerID uuid.UUID, rateCents int64, capacity int) *property.Property {
	t.Helper()
	p, err := property.NewProperty(ownerID, fmt.Sprintf("Cabin %s", uuid.New().String()[:6]), rateCents, "USD", capacity)
	require.NoError(t, err)
	require.NoError(t, repository.NewGormPropertyRepository(db).Save(context.Background(), p))
	return p
}

// seedGuest stores a guest.
func seedGuest(t *testing.T, db *gorm.DB, name string) *guest.Guest {
	t.Helper()
	g, err := guest.NewGuest(name, "", "")
	require.NoError(t, err)
	require.NoError(t, repository.NewGormGuestRepository(db).Save(context.Background(), g))
	return g
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForPaidCents polls the reservations table until paid_cents matches.
func waitForPaidCents(t *testing.T, db *gorm.DB, reservationID uuid.UUID, expected int64, timeout time.Duration) repository.ReservationModel {
	t.Helper()
	var result repository.ReservationModel
	require.Eventually(t, func() bool {
		var model repository.ReservationModel
		if err := db.Where("id = ?", reservationID).First(&model).Error; err != nil {
			return false
		}
		if model.PaidCents == expected {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "reservation paid amount did not reach %d", expected)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
