package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgconn"

	"github.com/AlibekovAA/userfmt/internal/common/logger"
)

func testRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestIsRetryableError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"serialization failure", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "40001"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"deadline", context.DeadlineExceeded, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryableError(tc.err); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRetryWithBackoff_SucceedsAfterTransientFailure(t *testing.T) {
	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "debug")
	attempts := 0

	err := RetryWithBackoff(context.Background(), log, testRetryConfig(), func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return &pgconn.PgError{Code: "40P01"}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetryWithBackoff_StopsOnPermanentError(t *testing.T) {
	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "debug")
	permanent := errors.New("syntax error")
	attempts := 0

	err := RetryWithBackoff(context.Background(), log, testRetryConfig(), func(ctx context.Context) error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetryWithBackoff_GivesUp(t *testing.T) {
	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "debug")
	attempts := 0

	err := RetryWithBackoff(context.Background(), log, testRetryConfig(), func(ctx context.Context) error {
		attempts++
		return &pgconn.PgError{Code: "08001"}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}
