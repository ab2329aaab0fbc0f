package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/pizzapos-backend/api/controllers"
	"github.com/angelmondragon/pizzapos-backend/api/middleware"
	"github.com/angelmondragon/pizzapos-backend/api/routes"
	"github.com/angelmondragon/pizzapos-backend/internal/cron"
	"github.com/angelmondragon/pizzapos-backend/internal/delivery"
	"github.com/angelmondragon/pizzapos-backend/internal/fiscal"
	"github.com/angelmondragon/pizzapos-backend/internal/receipt"
	"github.com/angelmondragon/pizzapos-backend/internal/smartorder"
	"github.com/angelmondragon/pizzapos-backend/internal/snapshot"
	"github.com/angelmondragon/pizzapos-backend/internal/terminal"
	"github.com/angelmondragon/pizzapos-backend/pkg/config"
	"github.com/angelmondragon/pizzapos-backend/pkg/db"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/angelmondragon/pizzapos-backend/pkg/llm"
	"github.com/angelmondragon/pizzapos-backend/pkg/logger"
	"github.com/angelmondragon/pizzapos-backend/pkg/metrics"
	"github.com/angelmondragon/pizzapos-backend/pkg/migrate"
	"github.com/angelmondragon/pizzapos-backend/pkg/money"
	"github.com/angelmondragon/pizzapos-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

// backing is the snapshot store plus whatever it needs closed on shutdown.
type backing struct {
	store    snapshot.Store
	counters middleware.CounterStore
	ready    map[string]controllers.Pinger
	closers  []func() error
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "pizzapos-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "pizzapos-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBacking(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap snapshot store", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	posMetrics := metrics.NewPOSMetrics(reg)
	term, err := buildTerminal(cfg, logg, b.store, posMetrics)
	if err != nil {
		logg.Error(ctx, "failed to build terminal", err)
		os.Exit(1)
	}
	if err := term.Restore(ctx); err != nil {
		logg.Error(ctx, "failed to restore terminal state", err)
		os.Exit(1)
	}

	if cfg.Cron.Interval > 0 {
		housekeeping, err := buildCron(cfg, logg, term, posMetrics)
		if err != nil {
			logg.Error(ctx, "failed to build cron service", err)
			os.Exit(1)
		}
		go func() {
			_ = housekeeping.Run(ctx)
		}()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"terminal": cfg.Store.TerminalID,
		"snapshot": strings.ToLower(cfg.Snapshot.Driver),
		"fiscal":   cfg.Fiscal.NormalizedModule(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, term, routes.Deps{
			Ready:    b.ready,
			Counters: b.counters,
			Gatherer: reg,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := server.Shutdown(shutdownCtx)
	errs = multierr.Append(errs, term.Flush(shutdownCtx))
	for _, closeFn := range b.closers {
		errs = multierr.Append(errs, closeFn())
	}
	if errs != nil {
		logg.Error(ctx, "shutdown finished with errors", errs)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func openBacking(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*backing, error) {
	switch strings.ToLower(cfg.Snapshot.Driver) {
	case config.SnapshotDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, err
		}
		store, err := snapshot.NewRedisStore(client)
		if err != nil {
			return nil, multierr.Combine(err, client.Close())
		}
		return &backing{
			store:    store,
			counters: client,
			ready:    map[string]controllers.Pinger{"redis": client},
			closers:  []func() error{client.Close},
		}, nil

	default:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, err
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Combine(err, client.Close())
		}
		store, err := snapshot.NewSQLiteStore(client)
		if err != nil {
			return nil, multierr.Combine(err, client.Close())
		}
		return &backing{
			store:    store,
			counters: middleware.NewMemoryCounters(nil),
			ready:    map[string]controllers.Pinger{"sqlite": client},
			closers:  []func() error{client.Close},
		}, nil
	}
}

func buildCron(cfg *config.Config, logg *logger.Logger, term *terminal.Terminal, m *metrics.POSMetrics) (*cron.Service, error) {
	flush, err := cron.NewSnapshotFlushJob(term)
	if err != nil {
		return nil, err
	}
	overdue, err := cron.NewDeliveryOverdueJob(term, logg, cfg.Cron.DeliveryOverdueAfter)
	if err != nil {
		return nil, err
	}
	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(flush, overdue),
		Metrics:  m,
		Interval: cfg.Cron.Interval,
	})
}

func buildTerminal(cfg *config.Config, logg *logger.Logger, store snapshot.Store, m *metrics.POSMetrics) (*terminal.Terminal, error) {
	tolerance, err := money.Parse(cfg.Checkout.Tolerance)
	if err != nil {
		return nil, err
	}
	orderType, err := enums.ParseOrderType(strings.ToUpper(cfg.Checkout.DefaultOrderType))
	if err != nil {
		return nil, err
	}
	renderer, err := receipt.NewRenderer(receipt.StoreFromConfig(cfg.Store), receipt.ColumnsFor(cfg.Store.PaperWidth))
	if err != nil {
		return nil, err
	}

	opts := []terminal.Option{
		terminal.WithLogger(logg),
		terminal.WithMetrics(m),
		terminal.WithSnapshotStore(store),
		terminal.WithTerminalID(cfg.Store.TerminalID),
		terminal.WithTolerance(tolerance),
		terminal.WithDefaultOrderType(orderType),
		terminal.WithReceiptRenderer(renderer),
		terminal.WithFiscal(fiscal.New(cfg.Fiscal), cfg.Checkout.AutoFiscal),
	}

	if cfg.Store.DeliveryFeesFile != "" {
		fees, err := delivery.LoadFeeTable(cfg.Store.DeliveryFeesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, terminal.WithFeeTable(fees))
	}

	if cfg.SmartOrder.Enabled() {
		client, err := llm.NewClient(cfg.SmartOrder.APIKey,
			llm.WithBaseURL(cfg.SmartOrder.BaseURL),
			llm.WithModel(cfg.SmartOrder.Model),
			llm.WithTimeout(cfg.SmartOrder.Timeout),
		)
		if err != nil {
			return nil, err
		}
		parser, err := smartorder.NewLLMParser(client)
		if err != nil {
			return nil, err
		}
		opts = append(opts, terminal.WithParser(parser))
	}

	return terminal.New(opts...)
}
