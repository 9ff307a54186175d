package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/AlibekovAA/userfmt/internal/common/db"
	"github.com/AlibekovAA/userfmt/internal/common/logger"
	"github.com/AlibekovAA/userfmt/internal/user/domain"
)

const (
	sqliteDriver = "sqlite"
	sqliteStore  = "sqlite"
)

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS user_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		action TEXT NOT NULL,
		occurred_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_history_user ON user_history(user_id, occurred_at)`,
}

type SQLiteRepository struct {
	db    *sql.DB
	log   *logger.Logger
	limit int
	retry db.RetryConfig
}

func NewSQLiteRepository(ctx context.Context, path string, log *logger.Logger, limit int) (*SQLiteRepository, error) {
	conn, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// one connection keeps ":memory:" databases alive and serializes writers
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	for i, stmt := range sqliteMigrations {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to apply sqlite migration %d: %w", i+1, err)
		}
	}

	log.Infof("sqlite history store opened: path=%s", path)

	return &SQLiteRepository{
		db:    conn,
		log:   log,
		limit: limit,
		retry: db.DefaultRetryConfig,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Append(ctx context.Context, userID domain.ID, entry domain.HistoryEntry) error {
	start := time.Now()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO user_history (user_id, action, occurred_at) VALUES (?, ?, ?)`,
		string(userID),
		entry.Action,
		entry.Timestamp,
	)
	return db.HandleExecError(err, sqliteStore, "append user history", start)
}

func (r *SQLiteRepository) FindByUserID(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry

	err := db.RetryWithBackoff(ctx, r.log, r.retry, func(ctx context.Context) error {
		start := time.Now()
		rows, err := r.db.QueryContext(
			ctx,
			`SELECT action, occurred_at
			 FROM user_history
			 WHERE user_id = ?
			 ORDER BY occurred_at ASC, id ASC
			 LIMIT ?`,
			string(userID),
			r.limit,
		)
		if err != nil {
			return db.HandleQueryError(err, nil, sqliteStore, "find user history", start)
		}
		defer rows.Close()

		entries = entries[:0]
		for rows.Next() {
			var e domain.HistoryEntry
			if err := rows.Scan(&e.Action, &e.Timestamp); err != nil {
				return fmt.Errorf("failed to scan user history: %w", err)
			}
			entries = append(entries, e)
		}

		return db.HandleQueryError(rows.Err(), nil, sqliteStore, "find user history", start)
	})
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}
