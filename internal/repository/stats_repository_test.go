package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuery_NoFilters(t *testing.T) {
	f := reservation.ListFilter{}
	f.Normalize()

	sql, args, err := listQuery(f).ToSql()

	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
	assert.Contains(t, sql, "JOIN properties p ON p.id = r.property_id")
	assert.Contains(t, sql, "LEFT JOIN guests g ON g.id = r.guest_id")
	assert.Contains(t, sql, "ORDER BY r.check_in DESC, r.created_at DESC, r.id LIMIT 20 OFFSET 0")
	assert.Empty(t, args)
}

func TestListQuery_AllFilters(t *testing.T) {
	propertyID, guestID, ownerID := uuid.New(), uuid.New(), uuid.New()
	from := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	minTotal, maxTotal := int64(100), int64(5000)
	f := reservation.ListFilter{
		PropertyID:        &propertyID,
		GuestID:           &guestID,
		PropertyOwnerID:   &ownerID,
		BookingStatuses:   []reservation.BookingStatus{reservation.StatusPending, reservation.StatusConfirmed},
		PaymentStatuses:   []reservation.PaymentStatus{reservation.PaymentUnpaid},
		OccupancyStatuses: []reservation.OccupancyStatus{reservation.OccupancyUpcoming},
		Sources:           []reservation.Source{reservation.SourceAirbnb},
		CheckInFrom:       &from,
		CheckInTo:         &to,
		MinTotalCents:     &minTotal,
		MaxTotalCents:     &maxTotal,
		Page:              3,
		Limit:             10,
	}

	sql, args, err := listQuery(f).ToSql()

	require.NoError(t, err)
	assert.Contains(t, sql, "r.property_id = $1")
	assert.Contains(t, sql, "p.owner_id = $2")
	assert.Contains(t, sql, "r.check_in >= $3")
	assert.Contains(t, sql, "r.check_in <= $4")
	assert.Contains(t, sql, "r.guest_id = $5")
	assert.Contains(t, sql, "r.booking_status IN ($6,$7)")
	assert.Contains(t, sql, "r.payment_status IN ($8)")
	assert.Contains(t, sql, "r.occupancy_status IN ($9)")
	assert.Contains(t, sql, "r.source IN ($10)")
	assert.Contains(t, sql, "r.total_cents >= $11")
	assert.Contains(t, sql, "r.total_cents <= $12")
	assert.Contains(t, sql, "LIMIT 10 OFFSET 20")
	require.Len(t, args, 12)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), args[2])
	assert.Equal(t, "PENDING", args[5])
	// uuid.UUID is a driver.Valuer, so squirrel binds it as one text value.
	assert.Equal(t, propertyID.String(), args[0])
}

func TestTotalsQuery_CountsAndSumsInOneStatement(t *testing.T) {
	ownerID := uuid.New()

	sql, args, err := totalsQuery(reservation.StatsFilter{PropertyOwnerID: &ownerID}).ToSql()

	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT r.booking_status, COUNT(*), COALESCE(SUM(r.total_cents), 0)")
	assert.Contains(t, sql, "p.owner_id = $1")
	assert.Contains(t, sql, "GROUP BY r.booking_status")
	assert.Equal(t, 1, strings.Count(sql, "SELECT"))
	assert.Equal(t, []interface{}{ownerID.String()}, args)
}
