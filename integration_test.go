//go:build integration

package main_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rentline-Ops/service-reservation/internal/application"
	"github.com/Rentline-Ops/service-reservation/internal/audit"
	"github.com/Rentline-Ops/service-reservation/internal/domain/calendar"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/Rentline-Ops/service-reservation/internal/events"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/auth"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/kafka"
	"github.com/Rentline-Ops/service-reservation/internal/repository"
)

var admin = auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}

func createReq(propertyID, guestID uuid.UUID, checkIn, checkOut string) application.CreateReservationRequest {
	return application.CreateReservationRequest{
		PropertyID: propertyID,
		GuestID:    guestID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	}
}

// TestReservationLifecycle_HoldsAndReleasesCalendar verifies that a stay
// blocks its nights, an overlapping stay is refused, and cancelling frees
// the nights for a new booking.
func TestReservationLifecycle_HoldsAndReleasesCalendar(t *testing.T) {
	tdb := setupPostgres(t)
	defer tdb.Cleanup()
	stack := setupReservationStack(t, tdb, events.NopPublisher{})
	ctx := context.Background()

	prop := seedProperty(t, tdb.DB, uuid.New(), 10000, 4)
	g := seedGuest(t, tdb.DB, "Ada Lovelace")

	first, err := stack.Service.Create(ctx, admin, createReq(prop.ID(), g.ID(), "2030-06-10", "2030-06-13"))
	require.NoError(t, err)
	assert.Equal(t, 3, first.Nights)
	assert.Equal(t, int64(30000), first.TotalAmount)
	assert.Equal(t, "PENDING", first.Status)

	_, err = stack.Service.Create(ctx, admin, createReq(prop.ID(), g.ID(), "2030-06-12", "2030-06-15"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict), "overlapping stay should conflict, got %v", err)

	// Back-to-back stays share no night.
	_, err = stack.Service.Create(ctx, admin, createReq(prop.ID(), g.ID(), "2030-06-13", "2030-06-14"))
	require.NoError(t, err)

	days, err := stack.Service.GetCalendar(ctx, admin, prop.ID(), "2030-06-09", "2030-06-15")
	require.NoError(t, err)
	require.Len(t, days, 6)
	assert.Equal(t, "AVAILABLE", days[0].Status)
	for _, d := range days[1:4] {
		assert.Equal(t, "BOOKED", d.Status, d.Date)
		require.NotNil(t, d.ReservationID)
		assert.Equal(t, first.ID, *d.ReservationID)
	}
	assert.Equal(t, "BOOKED", days[4].Status)
	assert.Equal(t, "AVAILABLE", days[5].Status)

	cancelled, err := stack.Service.Cancel(ctx, admin, first.ID, application.CancelReservationRequest{Reason: "plans changed"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	rebooked, err := stack.Service.Create(ctx, admin, createReq(prop.ID(), g.ID(), "2030-06-11", "2030-06-13"))
	require.NoError(t, err)

	days, err = stack.Service.GetCalendar(ctx, admin, prop.ID(), "2030-06-10", "2030-06-13")
	require.NoError(t, err)
	assert.Equal(t, "AVAILABLE", days[0].Status)
	for _, d := range days[1:] {
		require.NotNil(t, d.ReservationID)
		assert.Equal(t, rebooked.ID, *d.ReservationID)
	}
}

// TestConcurrentCreate_ExactlyOneWins verifies that racing bookings for the
// same nights produce a single reservation.
func TestConcurrentCreate_ExactlyOneWins(t *testing.T) {
	tdb := setupPostgres(t)
	defer tdb.Cleanup()
	stack := setupReservationStack(t, tdb, events.NopPublisher{})

	prop := seedProperty(t, tdb.DB, uuid.New(), 12000, 2)
	g := seedGuest(t, tdb.DB, "Grace Hopper")

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := stack.Service.Create(context.Background(), admin,
				createReq(prop.ID(), g.ID(), "2031-01-01", "2031-01-05"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	var count int64
	require.NoError(t, tdb.DB.Model(&repository.ReservationModel{}).
		Where("property_id = ?", prop.ID()).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestCalendarRepository_RefusesForeignHold verifies the storage-level guard
// independently of the property lock.
func TestCalendarRepository_RefusesForeignHold(t *testing.T) {
	tdb := setupPostgres(t)
	defer tdb.Cleanup()
	stack := setupReservationStack(t, tdb, events.NopPublisher{})
	ctx := context.Background()

	prop := seedProperty(t, tdb.DB, uuid.New(), 9000, 2)
	g := seedGuest(t, tdb.DB, "Alan Turing")

	holder, err := stack.Service.Create(ctx, admin, createReq(prop.ID(), g.ID(), "2030-03-01", "2030-03-04"))
	require.NoError(t, err)
	other, err := stack.Service.Create(ctx, admin, createReq(prop.ID(), g.ID(), "2030-04-01", "2030-04-02"))
	require.NoError(t, err)

	calendarRepo := repository.NewGormCalendarRepository(tdb.DB)
	from := time.Date(2030, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2030, 3, 5, 0, 0, 0, 0, time.UTC)

	err = calendarRepo.MarkRange(ctx, prop.ID(), other.ID, from, to, calendar.StatusBooked)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	// Releasing on behalf of a non-holder leaves the hold intact.
	require.NoError(t, calendarRepo.MarkRange(ctx, prop.ID(), other.ID, from, to, calendar.StatusAvailable))
	stored, err := calendarRepo.FindRange(ctx, prop.ID(), from, to)
	require.NoError(t, err)
	held := 0
	for _, d := range stored {
		if d.Status == calendar.StatusBooked {
			require.NotNil(t, d.ReservationID)
			assert.Equal(t, holder.ID, *d.ReservationID)
			held++
		}
	}
	assert.Equal(t, 2, held)
}

// TestReservationRepository_OptimisticLock verifies that a stale write is refused.
func TestReservationRepository_OptimisticLock(t *testing.T) {
	tdb := setupPostgres(t)
	defer tdb.Cleanup()
	stack := setupReservationStack(t, tdb, events.NopPublisher{})
	ctx := context.Background()

	prop := seedProperty(t, tdb.DB, uuid.New(), 5000, 2)
	g := seedGuest(t, tdb.DB, "Edsger Dijkstra")
	created, err := stack.Service.Create(ctx, admin, createReq(prop.ID(), g.ID(), "2030-08-01", "2030-08-03"))
	require.NoError(t, err)

	repo := repository.NewGormReservationRepository(tdb.DB)
	fresh, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, fresh.RecordPayment(1000))
	fresh.IncrementVersion()
	require.NoError(t, repo.Update(ctx, fresh))

	require.NoError(t, stale.RecordPayment(2000))
	stale.IncrementVersion()
	err = repo.Update(ctx, stale)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), stored.PaidCents())
	assert.Equal(t, created.Version+1, stored.Version())
}

// TestListAndStats verifies the read side over a small reservation set.
func TestListAndStats(t *testing.T) {
	tdb := setupPostgres(t)
	defer tdb.Cleanup()
	stack := setupReservationStack(t, tdb, events.NopPublisher{})
	ctx := context.Background()

	ownerID := uuid.New()
	prop := seedProperty(t, tdb.DB, ownerID, 10000, 4)
	otherProp := seedProperty(t, tdb.DB, uuid.New(), 20000, 4)
	g := seedGuest(t, tdb.DB, "Barbara Liskov")

	a, err := stack.Service.Create(ctx, admin, createReq(prop.ID(), g.ID(), "2030-05-01", "2030-05-03"))
	require.NoError(t, err)
	b, err := stack.Service.Create(ctx, admin, createReq(prop.ID(), g.ID(), "2030-05-10", "2030-05-14"))
	require.NoError(t, err)
	c, err := stack.Service.Create(ctx, admin, createReq(prop.ID(), g.ID(), "2030-05-20", "2030-05-21"))
	require.NoError(t, err)
	_, err = stack.Service.Create(ctx, admin, createReq(otherProp.ID(), g.ID(), "2030-05-01", "2030-05-02"))
	require.NoError(t, err)

	_, err = stack.Service.Confirm(ctx, admin, a.ID)
	require.NoError(t, err)
	_, err = stack.Service.Confirm(ctx, admin, b.ID)
	require.NoError(t, err)
	_, err = stack.Service.Cancel(ctx, admin, c.ID, application.CancelReservationRequest{})
	require.NoError(t, err)

	propertyID := prop.ID()
	page, err := stack.Service.List(ctx, admin, reservation.ListFilter{PropertyID: &propertyID, Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	// Newest check-in first.
	assert.Equal(t, c.ID, page.Items[0].ID)
	assert.Equal(t, b.ID, page.Items[1].ID)
	assert.Equal(t, "Barbara Liskov", page.Items[0].GuestName)

	page, err = stack.Service.List(ctx, admin, reservation.ListFilter{
		PropertyID:      &propertyID,
		BookingStatuses: []reservation.BookingStatus{reservation.StatusConfirmed},
		Page:            1,
		Limit:           20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	owner := auth.Actor{ID: ownerID, Role: auth.RoleOwner}
	page, err = stack.Service.List(ctx, owner, reservation.ListFilter{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total, "owners only see their own properties")

	reporting := application.NewReportingService(stack.Queries, stack.Audit, zap.NewNop())
	stats, err := reporting.GetStats(ctx, admin, reservation.StatsFilter{PropertyID: &propertyID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalReservations)
	assert.Equal(t, int64(2), stats.ByStatus["CONFIRMED"])
	assert.Equal(t, int64(1), stats.ByStatus["CANCELLED"])
	assert.Equal(t, int64(0), stats.ByStatus["PENDING"])
	assert.Equal(t, int64(60000), stats.TotalRevenue)
	assert.Equal(t, int64(30000), stats.AverageAmount)
}

// TestAuditTrail_RecordsEachMutation verifies that every committed change
// leaves one audit record.
func TestAuditTrail_RecordsEachMutation(t *testing.T) {
	tdb := setupPostgres(t)
	defer tdb.Cleanup()
	stack := setupReservationStack(t, tdb, events.NopPublisher{})
	ctx := context.Background()

	prop := seedProperty(t, tdb.DB, uuid.New(), 7000, 2)
	g := seedGuest(t, tdb.DB, "Donald Knuth")

	created, err := stack.Service.Create(ctx, admin, createReq(prop.ID(), g.ID(), "2030-09-01", "2030-09-02"))
	require.NoError(t, err)
	_, err = stack.Service.Confirm(ctx, admin, created.ID)
	require.NoError(t, err)
	_, err = stack.Service.RecordPayment(ctx, admin, created.ID, application.RecordPaymentRequest{Amount: 7000})
	require.NoError(t, err)

	records, err := stack.Audit.ListByEntity(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, audit.ActionCreated, records[0].Action)
	assert.Equal(t, audit.ActionConfirmed, records[1].Action)
	assert.Equal(t, audit.ActionPaymentRecorded, records[2].Action)
	assert.Equal(t, admin.ID, records[2].ActorID)
	assert.Empty(t, records[0].Before)
	assert.NotEmpty(t, records[2].Before)
	assert.NotEmpty(t, records[2].After)

	// Appending the same record again is a no-op.
	require.NoError(t, stack.Audit.Append(ctx, records[0]))
	again, err := stack.Audit.ListByEntity(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, again, 3)
}

// TestPaymentCaptured_RecordsPayment verifies that a PaymentCapturedEvent on
// payment.events is applied to the reservation and announced on
// reservation.events.
func TestPaymentCaptured_RecordsPayment(t *testing.T) {
	tdb := setupPostgres(t)
	defer tdb.Cleanup()
	brokers, stopKafka := setupKafka(t)
	defer stopKafka()

	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()
	stack := setupReservationStack(t, tdb, events.NewKafkaPublisher(producer))

	prop := seedProperty(t, tdb.DB, uuid.New(), 15000, 2)
	g := seedGuest(t, tdb.DB, "Margaret Hamilton")
	created, err := stack.Service.Create(context.Background(), admin,
		createReq(prop.ID(), g.ID(), "2030-10-01", "2030-10-03"))
	require.NoError(t, err)

	groupID := "test-reservation-" + uuid.New().String()[:8]
	consumer := events.NewPaymentEventConsumer(brokers, groupID, stack.Service, logger)
	defer func() { _ = consumer.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	evt := events.PaymentCapturedEvent{
		PaymentID:     "pay_" + uuid.New().String()[:8],
		ReservationID: created.ID,
		AmountCents:   10000,
		Currency:      "USD",
		CapturedAt:    time.Now().UTC(),
	}
	publishTestEvent(t, brokers, events.TopicPaymentEvents, "service-payment", events.PaymentCaptured, evt)

	model := waitForPaidCents(t, tdb.DB, created.ID, 10000, 15*time.Second)
	assert.Equal(t, "PARTIALLY_PAID", model.PaymentStatus)

	ce := consumeOneEvent(t, brokers, events.TopicReservationEvents, events.ReservationPaymentAdded, 15*time.Second)
	var published events.ReservationEvent
	require.NoError(t, ce.ParseData(&published))
	assert.Equal(t, created.ID, published.ReservationID)
	assert.Equal(t, int64(10000), published.PaidCents)
	assert.Equal(t, int64(30000), published.TotalCents)
	assert.Equal(t, uuid.Nil, published.ActorID)
}
