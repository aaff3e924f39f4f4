package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/osse101/QuPot_Go/internal/domain"
	"github.com/osse101/QuPot_Go/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error(LogMsgFailedToRollback, "error", err)
	}
}

// isPgError reports whether err is a postgres error with the given SQLSTATE
func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// toInt32s converts winning numbers for an INTEGER[] column, refusing any
// value that would not survive the round trip
func toInt32s(numbers []int) ([]int32, error) {
	if numbers == nil {
		return nil, nil
	}
	out := make([]int32, len(numbers))
	for i, n := range numbers {
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("%w: winning number %d does not fit INTEGER", domain.ErrInvalidRange, n)
		}
		out[i] = int32(n)
	}
	return out, nil
}

func fromInt32s(numbers []int32) []int {
	if numbers == nil {
		return nil
	}
	out := make([]int, len(numbers))
	for i, n := range numbers {
		out[i] = int(n)
	}
	return out
}

// nullText maps "" to SQL NULL
func nullText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// ptrTime converts a pgtype.Timestamptz to *time.Time.
// Returns nil if the timestamp is not valid.
func ptrTime(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
