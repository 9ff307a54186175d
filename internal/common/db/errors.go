package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/userfmt/internal/observability/metrics"
)

// HandleQueryError records query timing for store/operation and wraps err.
// No-rows results map to notFoundErr, which may be nil.
func HandleQueryError(err error, notFoundErr error, store, operation string, startTime time.Time) error {
	metrics.StoreQueryDurationSeconds.WithLabelValues(store, operation).Observe(time.Since(startTime).Seconds())

	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}
	metrics.StoreQueryErrors.WithLabelValues(store, operation, fmt.Sprintf("%T", err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func HandleExecError(err error, store, operation string, startTime time.Time) error {
	metrics.StoreQueryDurationSeconds.WithLabelValues(store, operation).Observe(time.Since(startTime).Seconds())

	if err == nil {
		return nil
	}
	metrics.StoreQueryErrors.WithLabelValues(store, operation, fmt.Sprintf("%T", err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}
