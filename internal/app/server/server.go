package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"emprecords/internal/domain/employee"
	"emprecords/internal/platform/config"
	"emprecords/internal/platform/events"
	"emprecords/internal/platform/metrics"
	"emprecords/internal/platform/seed"
	"emprecords/internal/transport/http/api"
	employeehandler "emprecords/internal/transport/http/handlers/employee"
	"emprecords/internal/transport/http/middleware"
)

const readinessTimeout = 2 * time.Second

type eventPublisher interface {
	employee.Publisher
	Close() error
}

type App struct {
	Config  config.Config
	Logger  *zap.Logger
	Metrics *metrics.Collector
	Service *employee.Service
	Router  http.Handler

	stores    storeSet
	publisher eventPublisher
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	stores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		_ = stores.close(context.Background())
		return nil, err
	}

	collector := metrics.New()
	opts := []employee.Option{
		employee.WithLogger(logger.Named("employee")),
		employee.WithPublisher(publisher),
	}
	if cfg.MetricsEnabled {
		opts = append(opts, employee.WithLookupHook(collector.ObserveLookup))
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   collector,
		Service:   employee.NewService(stores.employees, stores.compensations, opts...),
		stores:    stores,
		publisher: publisher,
	}
	app.Router = app.routes()

	if cfg.RunSeed {
		if _, err := app.Seed(ctx); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				_ = app.Close(context.Background())
				return nil, err
			}
			logger.Warn("seed file not found, starting empty", zap.String("file", cfg.SeedFile))
		}
	}

	return app, nil
}

func newPublisher(cfg config.Config, logger *zap.Logger) (eventPublisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Nop{}, nil
	}
	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("publishing events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	return publisher, nil
}

// Seed loads the configured seed file into an empty employee store.
func (a *App) Seed(ctx context.Context) (int, error) {
	return seed.Run(ctx, a.stores.seedTarget, a.Config.SeedFile, a.Logger)
}

func (a *App) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	var collector *metrics.Collector
	if a.Config.MetricsEnabled {
		collector = a.Metrics
	}
	router.Use(middleware.Logger(a.Logger.Named("http"), collector))
	router.Use(middleware.Recoverer(a.Logger))
	router.Use(middleware.SecureHeaders(a.Config.IsProduction()))
	router.Use(middleware.BodyLimit(a.Config.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := a.stores.ping(ctx); err != nil {
			a.Logger.Warn("store not ready", zap.Error(err))
			api.Fail(w, http.StatusServiceUnavailable, "not_ready", "store not ready", middleware.GetRequestID(r.Context()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if a.Config.MetricsEnabled {
		router.Handle("/metrics", a.Metrics.Handler())
	}

	handler := employeehandler.NewHandler(a.Service, a.Logger.Named("http"))
	limited := middleware.RateLimit(a.Config.RateLimitPerMinute, time.Minute,
		middleware.WithRateLimitLogger(a.Logger))

	router.Group(func(r chi.Router) {
		r.Use(limited)
		handler.RegisterRoutes(r)
		r.Route("/api/v1", handler.RegisterRoutes)
	})

	return router
}

// Close releases the publisher and the store clients.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if a.stores.close != nil {
		if err := a.stores.close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests for up to ShutdownTimeout.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		a.Logger.Info("server listening", zap.String("addr", a.Config.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return group.Wait()
}
