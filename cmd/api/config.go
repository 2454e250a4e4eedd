package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fastprodman/redpacket/internal/config"
)

type apiConfig struct {
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	HTTP     config.HTTPConfig
	Log      config.LogConfig
	Ledger   config.LedgerConfig
	Postgres config.PostgresConfig
	Auth     config.AuthConfig
	Tracing  config.TracingConfig
}

func (c *apiConfig) validate() error {
	switch c.Ledger.Backend {
	case config.BackendMemory:
	case config.BackendPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("PG_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown LEDGER_BACKEND %q", c.Ledger.Backend)
	}

	return nil
}
