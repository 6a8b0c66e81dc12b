package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rentline-Ops/service-reservation/internal/domain/calendar"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var reservationViewColumns = []string{
	"r.id", "r.code", "r.property_id", "r.guest_id", "r.check_in", "r.check_out",
	"r.guest_count", "r.total_cents", "r.paid_cents", "r.currency",
	"r.booking_status", "r.payment_status", "r.occupancy_status", "r.source",
	"COALESCE(r.external_id, '')", "COALESCE(r.special_requests, '')",
	"r.cancelled_at", "COALESCE(r.cancel_reason, '')", "r.checked_in_at", "r.checked_out_at",
	"r.version", "r.created_at", "r.updated_at",
	"p.name", "COALESCE(g.full_name, '')",
}

// PgxStatsRepository implements reservation.Queries directly on pgx.
type PgxStatsRepository struct {
	pool *pgxpool.Pool
}

func NewPgxStatsRepository(pool *pgxpool.Pool) *PgxStatsRepository {
	return &PgxStatsRepository{pool: pool}
}

func (r *PgxStatsRepository) List(ctx context.Context, filter reservation.ListFilter) ([]reservation.View, int64, error) {
	countSQL, countArgs, err := applyListFilter(
		psql.Select("COUNT(*)").From("reservations r").Join("properties p ON p.id = r.property_id"),
		filter,
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count reservations query failed: %w", err)
	}
	var total int64
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reservations failed: %w", err)
	}
	if total == 0 {
		return []reservation.View{}, 0, nil
	}

	query, args, err := listQuery(filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	views := make([]reservation.View, 0, filter.Limit)
	for rows.Next() {
		var (
			v                             reservation.View
			booking, payment, occ, source string
		)
		if err := rows.Scan(
			&v.ID, &v.Code, &v.PropertyID, &v.GuestID, &v.CheckIn, &v.CheckOut,
			&v.GuestCount, &v.TotalCents, &v.PaidCents, &v.Currency,
			&booking, &payment, &occ, &source,
			&v.ExternalID, &v.SpecialRequests,
			&v.CancelledAt, &v.CancelReason, &v.CheckedInAt, &v.CheckedOutAt,
			&v.Version, &v.CreatedAt, &v.UpdatedAt,
			&v.PropertyName, &v.GuestName,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		v.CheckIn = calendar.Normalize(v.CheckIn)
		v.CheckOut = calendar.Normalize(v.CheckOut)
		v.BookingStatus = reservation.BookingStatus(booking)
		v.PaymentStatus = reservation.PaymentStatus(payment)
		v.OccupancyStatus = reservation.OccupancyStatus(occ)
		v.Source = reservation.Source(source)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reservations failed: %w", err)
	}
	return views, total, nil
}

// TotalsByStatus counts and sums reservations per booking status in one
// statement, so every figure comes from the same snapshot.
func (r *PgxStatsRepository) TotalsByStatus(ctx context.Context, filter reservation.StatsFilter) ([]reservation.StatusTotal, error) {
	query, args, err := totalsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build totals query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("totals by status failed: %w", err)
	}
	defer rows.Close()

	var totals []reservation.StatusTotal
	for rows.Next() {
		var (
			status string
			t      reservation.StatusTotal
		)
		if err := rows.Scan(&status, &t.Count, &t.AmountCents); err != nil {
			return nil, fmt.Errorf("scan status totals failed: %w", err)
		}
		t.Status = reservation.BookingStatus(status)
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status totals failed: %w", err)
	}
	return totals, nil
}

func listQuery(filter reservation.ListFilter) squirrel.SelectBuilder {
	return applyListFilter(
		psql.Select(reservationViewColumns...).
			From("reservations r").
			Join("properties p ON p.id = r.property_id").
			LeftJoin("guests g ON g.id = r.guest_id"),
		filter,
	).
		OrderBy("r.check_in DESC", "r.created_at DESC", "r.id").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset()))
}

func totalsQuery(filter reservation.StatsFilter) squirrel.SelectBuilder {
	return applyStatsFilter(
		psql.Select("r.booking_status", "COUNT(*)", "COALESCE(SUM(r.total_cents), 0)").
			From("reservations r").
			Join("properties p ON p.id = r.property_id"),
		filter,
	).GroupBy("r.booking_status")
}

func applyListFilter(q squirrel.SelectBuilder, f reservation.ListFilter) squirrel.SelectBuilder {
	q = applyScope(q, f.PropertyID, f.PropertyOwnerID, f.CheckInFrom, f.CheckInTo)
	if f.GuestID != nil {
		q = q.Where(squirrel.Eq{"r.guest_id": *f.GuestID})
	}
	if len(f.BookingStatuses) > 0 {
		q = q.Where(squirrel.Eq{"r.booking_status": stringsOf(f.BookingStatuses)})
	}
	if len(f.PaymentStatuses) > 0 {
		q = q.Where(squirrel.Eq{"r.payment_status": stringsOf(f.PaymentStatuses)})
	}
	if len(f.OccupancyStatuses) > 0 {
		q = q.Where(squirrel.Eq{"r.occupancy_status": stringsOf(f.OccupancyStatuses)})
	}
	if len(f.Sources) > 0 {
		q = q.Where(squirrel.Eq{"r.source": stringsOf(f.Sources)})
	}
	if f.MinTotalCents != nil {
		q = q.Where(squirrel.GtOrEq{"r.total_cents": *f.MinTotalCents})
	}
	if f.MaxTotalCents != nil {
		q = q.Where(squirrel.LtOrEq{"r.total_cents": *f.MaxTotalCents})
	}
	return q
}

func applyStatsFilter(q squirrel.SelectBuilder, f reservation.StatsFilter) squirrel.SelectBuilder {
	return applyScope(q, f.PropertyID, f.PropertyOwnerID, f.CheckInFrom, f.CheckInTo)
}

// applyScope adds the filters shared by listing and stats. The check-in
// window is inclusive on both ends.
func applyScope(q squirrel.SelectBuilder, propertyID, ownerID *uuid.UUID, from, to *time.Time) squirrel.SelectBuilder {
	if propertyID != nil {
		q = q.Where(squirrel.Eq{"r.property_id": *propertyID})
	}
	if ownerID != nil {
		q = q.Where(squirrel.Eq{"p.owner_id": *ownerID})
	}
	if from != nil {
		q = q.Where(squirrel.GtOrEq{"r.check_in": calendar.Normalize(*from)})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{"r.check_in": calendar.Normalize(*to)})
	}
	return q
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
