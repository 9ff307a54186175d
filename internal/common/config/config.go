package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	commonerrors "github.com/AlibekovAA/userfmt/internal/common/errors"
)

const (
	HistorySourceStatic   = "static"
	HistorySourcePostgres = "postgres"
	HistorySourceSQLite   = "sqlite"

	jwtSecretMinLength = 32
)

type UserFmtConfig struct {
	HTTPPort      string `env:"USERFMT_HTTP_PORT" envDefault:"8083"`
	HistorySource string `env:"USERFMT_HISTORY_SOURCE" envDefault:"static"`
	DatabaseURL   string `env:"DATABASE_URL"`
	SQLitePath    string `env:"USERFMT_SQLITE_PATH" envDefault:"userfmt.db"`
	JWTSecret     string `env:"JWT_SECRET"`

	RequestTimeout time.Duration `env:"USERFMT_REQUEST_TIMEOUT" envDefault:"5s"`
	HistoryTimeout time.Duration `env:"USERFMT_HISTORY_TIMEOUT" envDefault:"2s"`
	HistoryLimit   int           `env:"USERFMT_HISTORY_LIMIT" envDefault:"100"`
	BatchWorkers   int           `env:"USERFMT_BATCH_WORKERS" envDefault:"8"`
	MaxBatchSize   int           `env:"USERFMT_MAX_BATCH_SIZE" envDefault:"1000"`

	CircuitBreakerThreshold int32         `env:"USERFMT_CB_THRESHOLD" envDefault:"5"`
	CircuitBreakerTimeout   time.Duration `env:"USERFMT_CB_TIMEOUT" envDefault:"2s"`
	CircuitBreakerReset     time.Duration `env:"USERFMT_CB_RESET" envDefault:"10s"`

	RateLimitRPS   float64 `env:"USERFMT_RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int     `env:"USERFMT_RATE_LIMIT_BURST" envDefault:"100"`

	LogDir   string `env:"LOG_DIR"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadUserFmtConfig() (UserFmtConfig, error) {
	var cfg UserFmtConfig
	if err := ParseEnv(&cfg); err != nil {
		return UserFmtConfig{}, err
	}

	cfg.HistorySource = strings.ToLower(strings.TrimSpace(cfg.HistorySource))
	if err := cfg.Validate(); err != nil {
		return UserFmtConfig{}, err
	}
	return cfg, nil
}

func (c UserFmtConfig) Validate() error {
	switch c.HistorySource {
	case HistorySourceStatic, HistorySourceSQLite:
	case HistorySourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL", commonerrors.ErrMissingRequiredEnv)
		}
	default:
		return fmt.Errorf("%w: got %q", commonerrors.ErrInvalidHistorySource, c.HistorySource)
	}

	if c.HistorySource == HistorySourceSQLite && c.SQLitePath == "" {
		return fmt.Errorf("%w: USERFMT_SQLITE_PATH", commonerrors.ErrMissingRequiredEnv)
	}

	if c.JWTSecret != "" && len(c.JWTSecret) < jwtSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidJWTSecret, len(c.JWTSecret))
	}

	return nil
}

func (c UserFmtConfig) AuthEnabled() bool {
	return c.JWTSecret != ""
}
