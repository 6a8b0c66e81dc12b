package repository

import (
	"errors"
	"fmt"

	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// translateError maps constraint violations to domain errors and wraps
// everything else with msg.
func translateError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation, pgerrcode.ExclusionViolation:
			return domain.WrapConflictError(msg, err)
		case pgerrcode.ForeignKeyViolation:
			return domain.NewValidationError(fmt.Sprintf("%s: referenced record does not exist", msg))
		case pgerrcode.CheckViolation:
			return domain.NewValidationError(fmt.Sprintf("%s: %s", msg, pgErr.ConstraintName))
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
