package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastprodman/redpacket/internal/api"
	"github.com/fastprodman/redpacket/internal/config"
	"github.com/fastprodman/redpacket/internal/events"
	"github.com/fastprodman/redpacket/internal/infra/logging"
	"github.com/fastprodman/redpacket/internal/infra/pgutils"
	"github.com/fastprodman/redpacket/internal/infra/tracing"
	"github.com/fastprodman/redpacket/internal/ledger"
	"github.com/fastprodman/redpacket/internal/redpacket"
	"github.com/fastprodman/redpacket/internal/services/packets"
	"github.com/fastprodman/redpacket/internal/services/wallet"
	"github.com/fastprodman/redpacket/pkg/envconf"
	"github.com/fastprodman/redpacket/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	err = cfg.validate()
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logging.Setup(cfg.Log)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	shutdownTracing, err := tracing.Setup(ctx, "redpacket-api", cfg.Tracing)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}

	shutdownqueue.Add("tracing", shutdownTracing)

	b, err := newBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init %s backend: %w", cfg.Ledger.Backend, err)
	}

	// --- HTTP server ---
	h := api.NewHandler(b.ledger, b.events, b.wallets)
	router := api.NewRouter(h, api.NewAuthenticator(cfg.Auth.JWTSecret), cfg.HTTP.CORSAllowedOrigins)
	srv := api.NewServer(cfg.HTTP.Port, router)

	shutdownqueue.Add("http server", func(c context.Context) error {
		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.HTTP.Port, "backend", cfg.Ledger.Backend)

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

type backend struct {
	ledger  redpacket.Ledger
	events  redpacket.EventLog
	wallets api.Wallets
}

func newBackend(ctx context.Context, cfg *apiConfig) (backend, error) {
	logSink := events.LogSink{Log: slog.Default()}

	switch cfg.Ledger.Backend {
	case config.BackendMemory:
		vault := ledger.NewVault()
		rec := events.NewRecorder()

		l := ledger.New(
			ledger.WithTransferer(vault),
			ledger.WithFunder(vault),
			ledger.WithSink(events.NewBus(rec, logSink)),
			ledger.WithMaxCount(cfg.Ledger.MaxCount),
		)

		return backend{ledger: ledger.NewGuarded(l), events: rec, wallets: vault}, nil
	case config.BackendPostgres:
		db, err := pgutils.OpenDB(ctx, cfg.Postgres)
		if err != nil {
			return backend{}, fmt.Errorf("open db: %w", err)
		}

		shutdownqueue.Add("postgres", func(context.Context) error {
			return db.Close()
		})

		svc := packets.New(db,
			packets.WithSink(logSink),
			packets.WithMaxCount(cfg.Ledger.MaxCount),
		)

		return backend{ledger: svc, events: svc, wallets: wallet.New(db)}, nil
	default:
		return backend{}, fmt.Errorf("unknown backend %q", cfg.Ledger.Backend)
	}
}
