package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/userfmt/internal/common/db"
	"github.com/AlibekovAA/userfmt/internal/common/logger"
	"github.com/AlibekovAA/userfmt/internal/user/domain"
)

const pgStore = "postgres"

type PgRepository struct {
	pool  *pgxpool.Pool
	log   *logger.Logger
	limit int
	retry db.RetryConfig
}

func NewPgRepository(pool *pgxpool.Pool, log *logger.Logger, limit int) *PgRepository {
	return &PgRepository{
		pool:  pool,
		log:   log,
		limit: limit,
		retry: db.DefaultRetryConfig,
	}
}

func (r *PgRepository) FindByUserID(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry

	err := db.RetryWithBackoff(ctx, r.log, r.retry, func(ctx context.Context) error {
		start := time.Now()
		rows, err := r.pool.Query(
			ctx,
			`SELECT action, occurred_at
			 FROM user_history
			 WHERE user_id = $1
			 ORDER BY occurred_at ASC, id ASC
			 LIMIT $2`,
			string(userID),
			r.limit,
		)
		if err != nil {
			return db.HandleQueryError(err, nil, pgStore, "find user history", start)
		}
		defer rows.Close()

		entries = entries[:0]
		for rows.Next() {
			var (
				action     string
				occurredAt time.Time
			)
			if err := rows.Scan(&action, &occurredAt); err != nil {
				return fmt.Errorf("failed to scan user history: %w", err)
			}
			entries = append(entries, domain.HistoryEntry{
				Action:    action,
				Timestamp: occurredAt.Format(TimestampLayout),
			})
		}

		return db.HandleQueryError(rows.Err(), nil, pgStore, "find user history", start)
	})
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}
