package config

import (
	"log/slog"
	"time"
)

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS"     envDefault:"10"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS"     envDefault:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME"  envDefault:"30m"`
}

// Backend selects the ledger engine.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
)

type LedgerConfig struct {
	Backend  Backend `env:"LEDGER_BACKEND"   envDefault:"postgres"`
	MaxCount int64   `env:"LEDGER_MAX_COUNT" envDefault:"0"` // 0 = no limit
}

type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET,required"`
}

type HTTPConfig struct {
	Port               uint16   `env:"APP_PORT"             envDefault:"8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"   envSeparator:","`
}

type TracingConfig struct {
	Enabled  bool   `env:"OTEL_ENABLED"  envDefault:"false"`
	Endpoint string `env:"OTEL_ENDPOINT"`
}

// LogFormat is the slog handler used for process logs.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

type LogConfig struct {
	Level  slog.Level `env:"APP_LOG_LEVEL"  envDefault:"INFO"`
	Format LogFormat  `env:"APP_LOG_FORMAT" envDefault:"json"`
}
