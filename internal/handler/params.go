package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/domain/calendar"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/auth"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/middleware"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// actorFrom returns the authenticated caller or writes a 401.
func actorFrom(c *gin.Context) (auth.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Unauthorized(c)
		return auth.Actor{}, false
	}
	return actor, true
}

// actorAndID returns the caller and the :id path parameter, writing the
// error response itself when either is missing.
func actorAndID(c *gin.Context, invalidMsg string) (auth.Actor, uuid.UUID, bool) {
	actor, ok := actorFrom(c)
	if !ok {
		return auth.Actor{}, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, invalidMsg)
		return auth.Actor{}, uuid.Nil, false
	}
	return actor, id, true
}

// parseListFilter reads the listing filter from the query string. List
// parameters accept repeated keys and comma-separated values. Range and
// enum checks are left to ListFilter.Validate.
func parseListFilter(c *gin.Context) (reservation.ListFilter, error) {
	var (
		f   reservation.ListFilter
		err error
	)
	if f.PropertyID, err = queryUUID(c, "propertyId"); err != nil {
		return f, err
	}
	if f.GuestID, err = queryUUID(c, "guestId"); err != nil {
		return f, err
	}
	for _, v := range queryList(c, "status") {
		f.BookingStatuses = append(f.BookingStatuses, reservation.BookingStatus(v))
	}
	for _, v := range queryList(c, "paymentStatus") {
		f.PaymentStatuses = append(f.PaymentStatuses, reservation.PaymentStatus(v))
	}
	for _, v := range queryList(c, "guestStatus") {
		f.OccupancyStatuses = append(f.OccupancyStatuses, reservation.OccupancyStatus(v))
	}
	for _, v := range queryList(c, "source") {
		f.Sources = append(f.Sources, reservation.Source(v))
	}
	if f.CheckInFrom, err = queryDate(c, "checkInFrom"); err != nil {
		return f, err
	}
	if f.CheckInTo, err = queryDate(c, "checkInTo"); err != nil {
		return f, err
	}
	if f.MinTotalCents, err = queryInt64(c, "minAmount"); err != nil {
		return f, err
	}
	if f.MaxTotalCents, err = queryInt64(c, "maxAmount"); err != nil {
		return f, err
	}
	f.Page, f.Limit = parsePagination(c)
	return f, nil
}

// parseStatsFilter reads the stats filter from the query string.
func parseStatsFilter(c *gin.Context) (reservation.StatsFilter, error) {
	var (
		f   reservation.StatsFilter
		err error
	)
	if f.PropertyID, err = queryUUID(c, "propertyId"); err != nil {
		return f, err
	}
	if f.CheckInFrom, err = queryDate(c, "checkInFrom"); err != nil {
		return f, err
	}
	if f.CheckInTo, err = queryDate(c, "checkInTo"); err != nil {
		return f, err
	}
	return f, nil
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(reservation.DefaultPageLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = reservation.DefaultPageLimit
	}
	if limit > reservation.MaxPageLimit {
		limit = reservation.MaxPageLimit
	}

	return page, limit
}

func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, strings.ToUpper(v))
			}
		}
	}
	return out
}

func queryUUID(c *gin.Context, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &id, nil
}

func queryDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &d, nil
}

func queryInt64(c *gin.Context, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &n, nil
}
